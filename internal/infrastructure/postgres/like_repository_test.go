package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/domain/repository"
)

func TestLikeRepository_Toggle(t *testing.T) {
	like := &model.Like{
		ID:        uuid.New(),
		LikedBy:   uuid.New(),
		Target:    model.LikeTarget{Kind: model.TargetComment, ID: uuid.New()},
		CreatedAt: time.Now(),
	}
	insertArgs := []any{like.ID, like.LikedBy, "comment", like.Target.ID, like.CreatedAt}
	deleteArgs := []any{like.LikedBy, "comment", like.Target.ID}

	tests := []struct {
		name      string
		mockFn    func(mock pgxmock.PgxPoolIface)
		wantLiked bool
		wantErr   error
	}{
		{
			name: "insert wins",
			mockFn: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec("INSERT INTO likes .* ON CONFLICT").
					WithArgs(insertArgs...).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
			wantLiked: true,
		},
		{
			name: "existing like is removed",
			mockFn: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec("INSERT INTO likes").
					WithArgs(insertArgs...).
					WillReturnResult(pgxmock.NewResult("INSERT", 0))
				mock.ExpectExec("DELETE FROM likes").
					WithArgs(deleteArgs...).
					WillReturnResult(pgxmock.NewResult("DELETE", 1))
			},
			wantLiked: false,
		},
		{
			name: "concurrent toggle removed it first",
			mockFn: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec("INSERT INTO likes").
					WithArgs(insertArgs...).
					WillReturnResult(pgxmock.NewResult("INSERT", 0))
				mock.ExpectExec("DELETE FROM likes").
					WithArgs(deleteArgs...).
					WillReturnResult(pgxmock.NewResult("DELETE", 0))
			},
			wantErr: repository.ErrLikeRace,
		},
		{
			name: "insert fails",
			mockFn: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec("INSERT INTO likes").
					WithArgs(insertArgs...).
					WillReturnError(errors.New("connection reset"))
			},
			wantErr: errors.New("failed to insert like"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			tt.mockFn(mock)

			liked, err := NewLikeRepository(mock).Toggle(context.Background(), like)

			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("Toggle() expected error, got nil")
				}
				if !errors.Is(err, tt.wantErr) && !strings.HasPrefix(err.Error(), tt.wantErr.Error()) {
					t.Errorf("Toggle() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Toggle() unexpected error = %v", err)
			}
			if liked != tt.wantLiked {
				t.Errorf("Toggle() = %v, want %v", liked, tt.wantLiked)
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled expectations: %v", err)
			}
		})
	}
}

func TestLikeRepository_CountByTargets(t *testing.T) {
	mock := newMock(t)
	a, b := uuid.New(), uuid.New()
	ids := []uuid.UUID{a, b}

	mock.ExpectQuery("SELECT target_id, COUNT\\(\\*\\) FROM likes").
		WithArgs("video", ids).
		WillReturnRows(pgxmock.NewRows([]string{"target_id", "count"}).AddRow(a, int64(3)))

	counts, err := NewLikeRepository(mock).CountByTargets(context.Background(), model.TargetVideo, ids)
	if err != nil {
		t.Fatalf("CountByTargets() unexpected error = %v", err)
	}
	if counts[a] != 3 || counts[b] != 0 {
		t.Errorf("CountByTargets() = %v, want a=3 b=0", counts)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestLikeRepository_LikedTargets(t *testing.T) {
	t.Run("anonymous viewer issues no query", func(t *testing.T) {
		mock := newMock(t)

		liked, err := NewLikeRepository(mock).LikedTargets(context.Background(), uuid.Nil, model.TargetTweet, []uuid.UUID{uuid.New()})
		if err != nil {
			t.Fatalf("LikedTargets() unexpected error = %v", err)
		}
		if len(liked) != 0 {
			t.Errorf("LikedTargets() = %v, want empty", liked)
		}
	})

	t.Run("returns liked subset", func(t *testing.T) {
		mock := newMock(t)
		actor := uuid.New()
		a, b := uuid.New(), uuid.New()

		mock.ExpectQuery("SELECT target_id FROM likes WHERE liked_by").
			WithArgs(actor, "tweet", []uuid.UUID{a, b}).
			WillReturnRows(pgxmock.NewRows([]string{"target_id"}).AddRow(b))

		liked, err := NewLikeRepository(mock).LikedTargets(context.Background(), actor, model.TargetTweet, []uuid.UUID{a, b})
		if err != nil {
			t.Fatalf("LikedTargets() unexpected error = %v", err)
		}
		if liked[a] || !liked[b] {
			t.Errorf("LikedTargets() = %v, want only b", liked)
		}

		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
	})
}

func TestLikeRepository_ListByActor(t *testing.T) {
	mock := newMock(t)
	actor := uuid.New()
	target := uuid.New()
	now := time.Now()

	mock.ExpectQuery("SELECT id, liked_by, target_kind, target_id, created_at FROM likes").
		WithArgs(actor, "video").
		WillReturnRows(pgxmock.NewRows([]string{"id", "liked_by", "target_kind", "target_id", "created_at"}).
			AddRow(uuid.New(), actor, "video", target, now))

	likes, err := NewLikeRepository(mock).ListByActor(context.Background(), actor, model.TargetVideo)
	if err != nil {
		t.Fatalf("ListByActor() unexpected error = %v", err)
	}
	if len(likes) != 1 || likes[0].Target != (model.LikeTarget{Kind: model.TargetVideo, ID: target}) {
		t.Errorf("ListByActor() = %+v, want one like on the target", likes)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestLikeRepository_DeleteByTargets(t *testing.T) {
	mock := newMock(t)
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	mock.ExpectExec("DELETE FROM likes WHERE target_kind").
		WithArgs("comment", ids).
		WillReturnResult(pgxmock.NewResult("DELETE", 4))

	n, err := NewLikeRepository(mock).DeleteByTargets(context.Background(), model.TargetComment, ids)
	if err != nil {
		t.Fatalf("DeleteByTargets() unexpected error = %v", err)
	}
	if n != 4 {
		t.Errorf("DeleteByTargets() = %d, want 4", n)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
