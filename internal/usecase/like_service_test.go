package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/hszk-dev/gotube/internal/apperr"
	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeService_ToggleParity(t *testing.T) {
	for n := 1; n <= 6; n++ {
		f := newFixture(t, CascadeConfig{})
		ctx := context.Background()
		owner := f.user(t, "alice")
		fan := f.user(t, "bob")
		video := f.video(t, owner, "v")

		var state *LikeState
		for i := 0; i < n; i++ {
			var err error
			state, err = f.likes.ToggleVideoLike(ctx, fan, video.ID)
			require.NoError(t, err)
		}

		wantLiked := n%2 == 1
		assert.Equal(t, wantLiked, state.IsLiked, "after %d toggles", n)

		counts, err := f.store.Likes().CountByTargets(ctx, model.TargetVideo, []uuid.UUID{video.ID})
		require.NoError(t, err)
		want := int64(0)
		if wantLiked {
			want = 1
		}
		assert.Equal(t, want, counts[video.ID], "after %d toggles", n)
	}
}

func TestLikeService_ConcurrentActorsCountOnce(t *testing.T) {
	f := newFixture(t, CascadeConfig{})
	ctx := context.Background()
	owner := f.user(t, "alice")
	video := f.video(t, owner, "v")

	const actors = 20
	var wg sync.WaitGroup
	for i := 0; i < actors; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.likes.ToggleVideoLike(ctx, uuid.New(), video.ID); err != nil {
				t.Errorf("toggle failed: %v", err)
			}
		}()
	}
	wg.Wait()

	counts, err := f.store.Likes().CountByTargets(ctx, model.TargetVideo, []uuid.UUID{video.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(actors), counts[video.ID])
}

func TestLikeService_TargetChecks(t *testing.T) {
	f := newFixture(t, CascadeConfig{})
	ctx := context.Background()
	owner := f.user(t, "alice")
	fan := f.user(t, "bob")
	hidden := f.video(t, owner, "hidden")
	commentID := f.comment(t, owner, hidden.ID, "note to self")
	_, err := f.videos.TogglePublish(ctx, owner, hidden.ID)
	require.NoError(t, err)

	tests := []struct {
		name     string
		toggle   func() error
		wantKind apperr.Kind
	}{
		{
			name: "anonymous actor",
			toggle: func() error {
				_, err := f.likes.ToggleVideoLike(ctx, uuid.Nil, hidden.ID)
				return err
			},
			wantKind: apperr.KindForbidden,
		},
		{
			name: "missing video",
			toggle: func() error {
				_, err := f.likes.ToggleVideoLike(ctx, fan, uuid.New())
				return err
			},
			wantKind: apperr.KindNotFound,
		},
		{
			name: "unpublished video of someone else",
			toggle: func() error {
				_, err := f.likes.ToggleVideoLike(ctx, fan, hidden.ID)
				return err
			},
			wantKind: apperr.KindNotFound,
		},
		{
			name: "comment under a hidden video",
			toggle: func() error {
				_, err := f.likes.ToggleCommentLike(ctx, fan, commentID)
				return err
			},
			wantKind: apperr.KindNotFound,
		},
		{
			name: "missing tweet",
			toggle: func() error {
				_, err := f.likes.ToggleTweetLike(ctx, fan, uuid.New())
				return err
			},
			wantKind: apperr.KindNotFound,
		},
		{
			name: "nil target id",
			toggle: func() error {
				_, err := f.likes.ToggleTweetLike(ctx, fan, uuid.Nil)
				return err
			},
			wantKind: apperr.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireKind(t, tt.toggle(), tt.wantKind)
		})
	}

	// The owner still sees and can like their own draft.
	state, err := f.likes.ToggleVideoLike(ctx, owner, hidden.ID)
	require.NoError(t, err)
	assert.True(t, state.IsLiked)
}

func TestLikeService_ListLikedVideos(t *testing.T) {
	f := newFixture(t, CascadeConfig{})
	ctx := context.Background()
	owner := f.user(t, "alice")
	fan := f.user(t, "bob")

	first := f.video(t, owner, "first")
	second := f.video(t, owner, "second")
	draft := f.video(t, owner, "draft")

	for _, v := range []*model.Video{first, second, draft} {
		_, err := f.likes.ToggleVideoLike(ctx, fan, v.ID)
		require.NoError(t, err)
	}
	_, err := f.videos.TogglePublish(ctx, owner, draft.ID)
	require.NoError(t, err)

	page, err := f.likes.ListLikedVideos(ctx, fan, PageRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, 2, page.TotalItems)
	for _, v := range page.Items {
		assert.NotEqual(t, draft.ID, v.ID)
		require.NotNil(t, v.IsLiked)
		assert.True(t, *v.IsLiked)
	}

	_, err = f.likes.ListLikedVideos(ctx, uuid.Nil, PageRequest{Page: 1, Limit: 10})
	requireKind(t, err, apperr.KindForbidden)

	_, err = f.likes.ListLikedVideos(ctx, fan, PageRequest{Page: 0, Limit: 10})
	requireKind(t, err, apperr.KindValidation)
}
