package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hszk-dev/gotube/internal/apperr"
	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/domain/repository"
	"github.com/hszk-dev/gotube/internal/infrastructure/postgres"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCascadeCoordinator_DeleteVideo_LeavesNoOrphans(t *testing.T) {
	f := newFixture(t, CascadeConfig{})
	ctx := context.Background()
	owner := f.user(t, "alice")
	fan := f.user(t, "bob")
	curator := f.user(t, "carol")

	doomed := f.video(t, owner, "doomed")
	kept := f.video(t, owner, "kept")

	var commentIDs []uuid.UUID
	for _, author := range []uuid.UUID{owner, fan, curator} {
		commentIDs = append(commentIDs, f.comment(t, author, doomed.ID, "nice"))
	}
	keptComment := f.comment(t, fan, kept.ID, "also nice")

	for _, actor := range []uuid.UUID{fan, curator} {
		_, err := f.likes.ToggleVideoLike(ctx, actor, doomed.ID)
		require.NoError(t, err)
		_, err = f.likes.ToggleVideoLike(ctx, actor, kept.ID)
		require.NoError(t, err)
		for _, id := range commentIDs {
			_, err = f.likes.ToggleCommentLike(ctx, actor, id)
			require.NoError(t, err)
		}
	}
	_, err := f.likes.ToggleCommentLike(ctx, curator, keptComment)
	require.NoError(t, err)

	var playlists []uuid.UUID
	for _, who := range []uuid.UUID{fan, curator} {
		p, err := f.lists.CreatePlaylist(ctx, who, "mix", "favourites")
		require.NoError(t, err)
		_, err = f.lists.AddVideo(ctx, who, p.ID, doomed.ID)
		require.NoError(t, err)
		_, err = f.lists.AddVideo(ctx, who, p.ID, kept.ID)
		require.NoError(t, err)
		playlists = append(playlists, p.ID)
	}

	_, _, err = f.cascade.DeleteVideo(ctx, fan, doomed.ID)
	requireKind(t, err, apperr.KindForbidden)

	deleted, result, err := f.cascade.DeleteVideo(ctx, owner, doomed.ID)
	require.NoError(t, err)
	assert.Equal(t, doomed.ID, deleted.ID)
	assert.Equal(t, int64(3), result.Comments)
	assert.Equal(t, int64(2+2*3), result.Likes)
	assert.Equal(t, int64(2), result.PlaylistEntries)

	_, err = f.store.Videos().GetByID(ctx, doomed.ID)
	assert.ErrorIs(t, err, repository.ErrVideoNotFound)

	comments, err := f.store.Comments().ListByVideo(ctx, doomed.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	videoLikes, err := f.store.Likes().CountByTargets(ctx, model.TargetVideo, []uuid.UUID{doomed.ID})
	require.NoError(t, err)
	assert.Zero(t, videoLikes[doomed.ID])

	commentLikes, err := f.store.Likes().CountByTargets(ctx, model.TargetComment, commentIDs)
	require.NoError(t, err)
	for _, id := range commentIDs {
		assert.Zero(t, commentLikes[id])
	}

	for _, id := range playlists {
		p, err := f.store.Playlists().GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{kept.ID}, p.VideoIDs)
	}

	// Siblings are untouched.
	keptLikes, err := f.store.Likes().CountByTargets(ctx, model.TargetVideo, []uuid.UUID{kept.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), keptLikes[kept.ID])
	keptCommentLikes, err := f.store.Likes().CountByTargets(ctx, model.TargetComment, []uuid.UUID{keptComment})
	require.NoError(t, err)
	assert.Equal(t, int64(1), keptCommentLikes[keptComment])
}

func TestCascadeCoordinator_DeleteVideo_Errors(t *testing.T) {
	f := newFixture(t, CascadeConfig{})
	ctx := context.Background()
	owner := f.user(t, "alice")
	video := f.video(t, owner, "v")

	_, _, err := f.cascade.DeleteVideo(ctx, uuid.Nil, video.ID)
	requireKind(t, err, apperr.KindForbidden)

	_, _, err = f.cascade.DeleteVideo(ctx, owner, uuid.New())
	requireKind(t, err, apperr.KindNotFound)

	// A rejected delete leaves the video in place.
	_, err = f.store.Videos().GetByID(ctx, video.ID)
	require.NoError(t, err)
}

func TestCascadeCoordinator_DeleteComment(t *testing.T) {
	f := newFixture(t, CascadeConfig{})
	ctx := context.Background()
	owner := f.user(t, "alice")
	fan := f.user(t, "bob")
	video := f.video(t, owner, "v")
	commentID := f.comment(t, fan, video.ID, "first")

	_, err := f.likes.ToggleCommentLike(ctx, owner, commentID)
	require.NoError(t, err)

	// The video owner does not own the comment.
	_, err = f.cascade.DeleteComment(ctx, owner, commentID)
	requireKind(t, err, apperr.KindForbidden)

	result, err := f.cascade.DeleteComment(ctx, fan, commentID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Likes)

	_, err = f.store.Comments().GetByID(ctx, commentID)
	assert.ErrorIs(t, err, repository.ErrCommentNotFound)

	_, err = f.cascade.DeleteComment(ctx, fan, commentID)
	requireKind(t, err, apperr.KindNotFound)
}

func TestCascadeCoordinator_DeleteTweet(t *testing.T) {
	tests := []struct {
		name       string
		tweetLikes bool
		wantLikes  int64
		wantLeft   int64
	}{
		{name: "likes left behind by default", tweetLikes: false, wantLikes: 0, wantLeft: 1},
		{name: "likes removed when enabled", tweetLikes: true, wantLikes: 1, wantLeft: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, CascadeConfig{TweetLikes: tt.tweetLikes})
			ctx := context.Background()
			owner := f.user(t, "alice")
			fan := f.user(t, "bob")

			tweet, err := f.tweets.CreateTweet(ctx, owner, "hello world")
			require.NoError(t, err)
			_, err = f.likes.ToggleTweetLike(ctx, fan, tweet.ID)
			require.NoError(t, err)

			result, err := f.cascade.DeleteTweet(ctx, owner, tweet.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLikes, result.Likes)

			left, err := f.store.Likes().CountByTargets(ctx, model.TargetTweet, []uuid.UUID{tweet.ID})
			require.NoError(t, err)
			assert.Equal(t, tt.wantLeft, left[tweet.ID])
		})
	}
}

func TestCascadeCoordinator_DeletePlaylist_KeepsVideos(t *testing.T) {
	f := newFixture(t, CascadeConfig{})
	ctx := context.Background()
	owner := f.user(t, "alice")
	video := f.video(t, owner, "v")

	p, err := f.lists.CreatePlaylist(ctx, owner, "mine", "desc")
	require.NoError(t, err)
	_, err = f.lists.AddVideo(ctx, owner, p.ID, video.ID)
	require.NoError(t, err)

	result, err := f.cascade.DeletePlaylist(ctx, owner, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.PlaylistEntries)

	_, err = f.store.Playlists().GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, repository.ErrPlaylistNotFound)
	_, err = f.store.Videos().GetByID(ctx, video.ID)
	assert.NoError(t, err)
}

func TestCascadeCoordinator_DeleteVideo_RollsBackPartialDelete(t *testing.T) {
	f := newFixture(t, CascadeConfig{})
	ctx := context.Background()
	owner := f.user(t, "alice")
	fan := f.user(t, "bob")
	video := f.video(t, owner, "v")
	commentID := f.comment(t, fan, video.ID, "nice")

	_, err := f.likes.ToggleVideoLike(ctx, fan, video.ID)
	require.NoError(t, err)
	_, err = f.likes.ToggleCommentLike(ctx, owner, commentID)
	require.NoError(t, err)

	// Comments are already gone inside the transaction when the like delete fails.
	store := &hookStore{
		Store: f.store,
		deleteLikes: func(context.Context, model.TargetKind, []uuid.UUID) (int64, error) {
			return 0, errors.New("connection reset by peer")
		},
	}
	_, _, err = NewCascadeCoordinator(store, CascadeConfig{}).DeleteVideo(ctx, owner, video.ID)
	requireKind(t, err, apperr.KindDependency)

	_, err = f.store.Videos().GetByID(ctx, video.ID)
	require.NoError(t, err)

	comments, err := f.store.Comments().ListByVideo(ctx, video.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, commentID, comments[0].ID)

	videoLikes, err := f.store.Likes().CountByTargets(ctx, model.TargetVideo, []uuid.UUID{video.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), videoLikes[video.ID])

	commentLikes, err := f.store.Likes().CountByTargets(ctx, model.TargetComment, []uuid.UUID{commentID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), commentLikes[commentID])
}

func TestCascadeCoordinator_DeleteVideo_PostgresRollback(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	owner, videoID, commentID := uuid.New(), uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM videos WHERE id = \$1 FOR UPDATE`).
		WithArgs(videoID).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "owner_id", "title", "description", "video_url", "thumbnail_url",
			"duration", "views", "is_published", "created_at", "updated_at",
		}).AddRow(videoID, owner, "t", "d", "v.mp4", "t.jpg", 0.0, int64(0), true, now, now))
	mock.ExpectQuery(`DELETE FROM comments WHERE video_id = \$1 RETURNING id`).
		WithArgs(videoID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(commentID))
	mock.ExpectExec(`DELETE FROM likes WHERE target_kind`).
		WithArgs(model.TargetVideo.String(), []uuid.UUID{videoID}).
		WillReturnError(errors.New("connection reset by peer"))
	mock.ExpectRollback()

	cascade := NewCascadeCoordinator(postgres.NewStore(mock), CascadeConfig{})
	_, _, err = cascade.DeleteVideo(context.Background(), owner, videoID)
	requireKind(t, err, apperr.KindDependency)

	require.NoError(t, mock.ExpectationsWereMet())
}

// requireNoDependents checks that nothing still points at a deleted video.
func requireNoDependents(t *testing.T, f *fixture, videoID uuid.UUID, commentIDs []uuid.UUID, playlistIDs []uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	comments, err := f.store.Comments().ListByVideo(ctx, videoID)
	require.NoError(t, err)
	assert.Empty(t, comments, "comments on deleted video")

	videoLikes, err := f.store.Likes().CountByTargets(ctx, model.TargetVideo, []uuid.UUID{videoID})
	require.NoError(t, err)
	assert.Zero(t, videoLikes[videoID], "likes on deleted video")

	commentLikes, err := f.store.Likes().CountByTargets(ctx, model.TargetComment, commentIDs)
	require.NoError(t, err)
	for _, id := range commentIDs {
		assert.Zero(t, commentLikes[id], "likes on comment %s of deleted video", id)
	}

	for _, id := range playlistIDs {
		p, err := f.store.Playlists().GetByID(ctx, id)
		require.NoError(t, err)
		assert.NotContains(t, p.VideoIDs, videoID)
	}
}

func TestCascadeCoordinator_DeleteVideo_StaleCacheAdmitsNoDependents(t *testing.T) {
	f := newFixture(t, CascadeConfig{})
	ctx := context.Background()
	owner := f.user(t, "alice")
	fan := f.user(t, "bob")
	video := f.video(t, owner, "v")

	playlist, err := f.lists.CreatePlaylist(ctx, fan, "mix", "favourites")
	require.NoError(t, err)

	videoCache := newMockVideoCache()
	videoCache.deleteFn = func(context.Context, uuid.UUID) error { return errors.New("redis: connection refused") }
	reader := NewCachedVideoReader(NewStoreVideoReader(f.store), videoCache, DefaultCachedVideoReaderConfig())
	comments := NewCommentService(f.store, reader, f.cascade)
	videos := NewVideoService(f.store, reader, f.cascade, f.storage, f.queue, DefaultVideoServiceConfig())

	// Warm the cache; the failed invalidation then leaves the entry behind.
	_, err = comments.ListVideoComments(ctx, ListCommentsInput{VideoID: video.ID, Page: PageRequest{Page: 1, Limit: 10}})
	require.NoError(t, err)
	require.NoError(t, videos.DeleteVideo(ctx, owner, video.ID))
	require.True(t, videoCache.has(video.ID))

	_, err = comments.AddComment(ctx, fan, video.ID, "too late")
	requireKind(t, err, apperr.KindNotFound)
	_, err = f.likes.ToggleVideoLike(ctx, fan, video.ID)
	requireKind(t, err, apperr.KindNotFound)
	_, err = f.lists.AddVideo(ctx, fan, playlist.ID, video.ID)
	requireKind(t, err, apperr.KindNotFound)

	requireNoDependents(t, f, video.ID, nil, []uuid.UUID{playlist.ID})
}

func TestCascadeCoordinator_DeleteVideo_ConcurrentWrites(t *testing.T) {
	for round := 0; round < 25; round++ {
		f := newFixture(t, CascadeConfig{})
		ctx := context.Background()
		owner := f.user(t, "alice")
		fan := f.user(t, "bob")
		video := f.video(t, owner, "v")
		commentID := f.comment(t, owner, video.ID, "first")

		playlist, err := f.lists.CreatePlaylist(ctx, fan, "mix", "favourites")
		require.NoError(t, err)

		// Each write either lands before the cascade and is removed by it,
		// or finds the video gone.
		allowed := func(err error) {
			if err != nil {
				assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err), "error: %v", err)
			}
		}

		var wg sync.WaitGroup
		run := func(fn func()) {
			wg.Add(1)
			go func() {
				defer wg.Done()
				fn()
			}()
		}
		run(func() {
			_, _, err := f.cascade.DeleteVideo(ctx, owner, video.ID)
			assert.NoError(t, err)
		})
		run(func() {
			_, err := f.comments.AddComment(ctx, fan, video.ID, "racing")
			allowed(err)
		})
		run(func() {
			_, err := f.likes.ToggleVideoLike(ctx, fan, video.ID)
			allowed(err)
		})
		run(func() {
			_, err := f.likes.ToggleCommentLike(ctx, fan, commentID)
			allowed(err)
		})
		run(func() {
			_, err := f.lists.AddVideo(ctx, fan, playlist.ID, video.ID)
			allowed(err)
		})
		wg.Wait()

		requireNoDependents(t, f, video.ID, []uuid.UUID{commentID}, []uuid.UUID{playlist.ID})
	}
}
