package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/hszk-dev/gotube/internal/apperr"
	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/infrastructure/memory"
	"github.com/stretchr/testify/require"
)

// fixture wires every service against one in-memory store.
type fixture struct {
	store    *memory.Store
	storage  *mockObjectStorage
	queue    *mockMessageQueue
	cascade  *CascadeCoordinator
	videos   VideoService
	comments CommentService
	tweets   TweetService
	likes    LikeService
	lists    PlaylistService
}

func newFixture(t *testing.T, cfg CascadeConfig) *fixture {
	t.Helper()

	store := memory.New()
	reader := NewStoreVideoReader(store)
	cascade := NewCascadeCoordinator(store, cfg)
	storage := &mockObjectStorage{}
	queue := &mockMessageQueue{}

	return &fixture{
		store:    store,
		storage:  storage,
		queue:    queue,
		cascade:  cascade,
		videos:   NewVideoService(store, reader, cascade, storage, queue, DefaultVideoServiceConfig()),
		comments: NewCommentService(store, reader, cascade),
		tweets:   NewTweetService(store, cascade),
		likes:    NewLikeService(store),
		lists:    NewPlaylistService(store, cascade),
	}
}

func (f *fixture) user(t *testing.T, username string) uuid.UUID {
	t.Helper()
	u := &model.User{
		ID:       uuid.New(),
		Username: username,
		FullName: username + " tester",
	}
	require.NoError(t, f.store.Users().Create(context.Background(), u))
	return u.ID
}

func (f *fixture) video(t *testing.T, ownerID uuid.UUID, title string) *model.Video {
	t.Helper()
	v, err := model.NewVideo(ownerID, title, "about "+title,
		testBaseURL+"/videos/"+ownerID.String()+"/u/video/"+title+".mp4",
		testBaseURL+"/videos/"+ownerID.String()+"/u/thumbnail/"+title+".jpg",
	)
	require.NoError(t, err)
	require.NoError(t, f.store.Videos().Create(context.Background(), v))
	return v
}

func (f *fixture) comment(t *testing.T, ownerID, videoID uuid.UUID, content string) uuid.UUID {
	t.Helper()
	c, err := f.comments.AddComment(context.Background(), ownerID, videoID, content)
	require.NoError(t, err)
	return c.ID
}

func requireKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, apperr.KindOf(err), "error: %v", err)
}
