package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/hszk-dev/gotube/internal/apperr"
	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/domain/repository"
)

func TestAuthorize(t *testing.T) {
	owner := uuid.New()
	upper, err := model.ParseID("{" + strings.ToUpper(owner.String()) + "}")
	if err != nil {
		t.Fatalf("ParseID failed: %v", err)
	}

	tests := []struct {
		name     string
		actor    uuid.UUID
		owner    uuid.UUID
		wantKind apperr.Kind
	}{
		{name: "owner", actor: owner, owner: owner},
		{name: "owner spelled differently", actor: upper, owner: owner},
		{name: "someone else", actor: uuid.New(), owner: owner, wantKind: apperr.KindForbidden},
		{name: "anonymous", actor: uuid.Nil, owner: owner, wantKind: apperr.KindForbidden},
		{name: "anonymous against nil owner", actor: uuid.Nil, owner: uuid.Nil, wantKind: apperr.KindForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.actor, tt.owner)
			if got := apperr.KindOf(err); got != tt.wantKind {
				t.Errorf("Authorize() kind = %q, want %q (err: %v)", got, tt.wantKind, err)
			}
		})
	}
}

func TestAuthorizeOwned(t *testing.T) {
	owner := uuid.New()
	comment := &model.Comment{ID: uuid.New(), OwnerID: owner}
	ownerOf := func(c *model.Comment) uuid.UUID { return c.OwnerID }

	tests := []struct {
		name      string
		actor     uuid.UUID
		load      func(context.Context) (*model.Comment, error)
		wantKind  apperr.Kind
		wantLoads int
	}{
		{
			name:      "owner gets the resource",
			actor:     owner,
			load:      func(context.Context) (*model.Comment, error) { return comment, nil },
			wantLoads: 1,
		},
		{
			name:      "missing resource is not found before ownership",
			actor:     uuid.New(),
			load:      func(context.Context) (*model.Comment, error) { return nil, repository.ErrCommentNotFound },
			wantKind:  apperr.KindNotFound,
			wantLoads: 1,
		},
		{
			name:      "store failure is a dependency error",
			actor:     owner,
			load:      func(context.Context) (*model.Comment, error) { return nil, errors.New("connection reset") },
			wantKind:  apperr.KindDependency,
			wantLoads: 1,
		},
		{
			name:      "non-owner is forbidden",
			actor:     uuid.New(),
			load:      func(context.Context) (*model.Comment, error) { return comment, nil },
			wantKind:  apperr.KindForbidden,
			wantLoads: 1,
		},
		{
			name:      "anonymous is rejected without a lookup",
			actor:     uuid.Nil,
			load:      func(context.Context) (*model.Comment, error) { return comment, nil },
			wantKind:  apperr.KindForbidden,
			wantLoads: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loads := 0
			load := func(ctx context.Context) (*model.Comment, error) {
				loads++
				return tt.load(ctx)
			}

			got, err := authorizeOwned(context.Background(), tt.actor, load, ownerOf)
			if kind := apperr.KindOf(err); kind != tt.wantKind {
				t.Fatalf("kind = %q, want %q (err: %v)", kind, tt.wantKind, err)
			}
			if tt.wantKind == "" && got != comment {
				t.Errorf("got %v, want the loaded comment", got)
			}
			if loads != tt.wantLoads {
				t.Errorf("loads = %d, want %d", loads, tt.wantLoads)
			}
		})
	}
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperr.Kind
	}{
		{name: "nil", err: nil, want: ""},
		{name: "domain validation", err: fmt.Errorf("wrap: %w", model.ErrEmptyTitle), want: apperr.KindValidation},
		{name: "missing entity", err: fmt.Errorf("wrap: %w", repository.ErrPlaylistNotFound), want: apperr.KindNotFound},
		{name: "duplicate", err: repository.ErrDuplicate, want: apperr.KindConflict},
		{name: "like race", err: repository.ErrLikeRace, want: apperr.KindConflict},
		{name: "already typed", err: apperr.Forbidden("no"), want: apperr.KindForbidden},
		{name: "unknown", err: errors.New("tcp reset"), want: apperr.KindDependency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := apperr.KindOf(translate(tt.err)); got != tt.want {
				t.Errorf("translate() kind = %q, want %q", got, tt.want)
			}
		})
	}
}
