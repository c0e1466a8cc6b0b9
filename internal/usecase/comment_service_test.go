package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/hszk-dev/gotube/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService_Lifecycle(t *testing.T) {
	f := newFixture(t, CascadeConfig{})
	ctx := context.Background()
	owner := f.user(t, "alice")
	fan := f.user(t, "bob")
	video := f.video(t, owner, "v")

	added, err := f.comments.AddComment(ctx, fan, video.ID, "  first!  ")
	require.NoError(t, err)
	assert.Equal(t, "first!", added.Content)
	assert.Equal(t, "bob", added.Owner.Username)

	_, err = f.comments.UpdateComment(ctx, owner, added.ID, "edited by someone else")
	requireKind(t, err, apperr.KindForbidden)

	edited, err := f.comments.UpdateComment(ctx, fan, added.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", edited.Content)
	assert.Equal(t, added.CreatedAt, edited.CreatedAt)

	page, err := f.comments.ListVideoComments(ctx, ListCommentsInput{VideoID: video.ID, Page: PageRequest{Page: 1, Limit: 10}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "edited", page.Items[0].Content)
	assert.Nil(t, page.Items[0].IsLiked)

	require.NoError(t, f.comments.DeleteComment(ctx, fan, added.ID))

	page, err = f.comments.ListVideoComments(ctx, ListCommentsInput{VideoID: video.ID, Page: PageRequest{Page: 1, Limit: 10}})
	require.NoError(t, err)
	assert.Zero(t, page.TotalItems)
}

func TestCommentService_AddComment_Errors(t *testing.T) {
	f := newFixture(t, CascadeConfig{})
	ctx := context.Background()
	owner := f.user(t, "alice")
	fan := f.user(t, "bob")
	video := f.video(t, owner, "v")

	tests := []struct {
		name     string
		actor    uuid.UUID
		videoID  uuid.UUID
		content  string
		wantKind apperr.Kind
	}{
		{name: "anonymous", actor: uuid.Nil, videoID: video.ID, content: "hi", wantKind: apperr.KindForbidden},
		{name: "blank content", actor: fan, videoID: video.ID, content: "   ", wantKind: apperr.KindValidation},
		{name: "too long", actor: fan, videoID: video.ID, content: strings.Repeat("x", 2001), wantKind: apperr.KindValidation},
		{name: "missing video", actor: fan, videoID: uuid.New(), content: "hi", wantKind: apperr.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.comments.AddComment(ctx, tt.actor, tt.videoID, tt.content)
			requireKind(t, err, tt.wantKind)
		})
	}
}

func TestCommentService_ListVideoComments_SortByLikes(t *testing.T) {
	f := newFixture(t, CascadeConfig{})
	ctx := context.Background()
	owner := f.user(t, "alice")
	video := f.video(t, owner, "v")

	quiet := f.comment(t, owner, video.ID, "quiet")
	loud := f.comment(t, owner, video.ID, "loud")
	for i := 0; i < 3; i++ {
		_, err := f.likes.ToggleCommentLike(ctx, uuid.New(), loud)
		require.NoError(t, err)
	}

	page, err := f.comments.ListVideoComments(ctx, ListCommentsInput{
		VideoID:  video.ID,
		ViewerID: owner,
		Sort:     SortSpec{Field: "likesCount", Direction: Desc},
		Page:     PageRequest{Page: 1, Limit: 10},
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, loud, page.Items[0].ID)
	assert.Equal(t, int64(3), page.Items[0].LikesCount)
	assert.Equal(t, quiet, page.Items[1].ID)
	require.NotNil(t, page.Items[1].IsLiked)
	assert.False(t, *page.Items[1].IsLiked)

	_, err = f.comments.ListVideoComments(ctx, ListCommentsInput{
		VideoID: video.ID,
		Sort:    SortSpec{Field: "views"},
		Page:    PageRequest{Page: 1, Limit: 10},
	})
	requireKind(t, err, apperr.KindValidation)
}

func TestTweetService_Lifecycle(t *testing.T) {
	f := newFixture(t, CascadeConfig{})
	ctx := context.Background()
	owner := f.user(t, "alice")
	other := f.user(t, "mallory")

	tweet, err := f.tweets.CreateTweet(ctx, owner, "hello")
	require.NoError(t, err)

	_, err = f.tweets.CreateTweet(ctx, owner, strings.Repeat("x", 281))
	requireKind(t, err, apperr.KindValidation)

	_, err = f.tweets.UpdateTweet(ctx, other, tweet.ID, "pwned")
	requireKind(t, err, apperr.KindForbidden)

	updated, err := f.tweets.UpdateTweet(ctx, owner, tweet.ID, "hello again")
	require.NoError(t, err)
	assert.Equal(t, "hello again", updated.Content)

	page, err := f.tweets.ListUserTweets(ctx, ListTweetsInput{OwnerID: owner, Page: PageRequest{Page: 1, Limit: 10}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "alice", page.Items[0].Owner.Username)

	_, err = f.tweets.ListUserTweets(ctx, ListTweetsInput{OwnerID: uuid.New(), Page: PageRequest{Page: 1, Limit: 10}})
	requireKind(t, err, apperr.KindNotFound)

	err = f.tweets.DeleteTweet(ctx, other, tweet.ID)
	requireKind(t, err, apperr.KindForbidden)
	require.NoError(t, f.tweets.DeleteTweet(ctx, owner, tweet.ID))

	err = f.tweets.DeleteTweet(ctx, owner, tweet.ID)
	requireKind(t, err, apperr.KindNotFound)
}
