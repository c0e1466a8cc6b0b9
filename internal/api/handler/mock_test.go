package handler

import (
	"context"

	"github.com/google/uuid"

	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/usecase"
)

// Mock VideoService

type mockVideoService struct {
	listVideosFn       func(ctx context.Context, input usecase.ListVideosInput) (*usecase.Page[model.VideoView], error)
	createUploadURLsFn func(ctx context.Context, input usecase.UploadURLsInput) (*usecase.UploadURLsOutput, error)
	publishVideoFn     func(ctx context.Context, input usecase.PublishVideoInput) (*model.VideoView, error)
	getVideoFn         func(ctx context.Context, videoID, viewerID uuid.UUID) (*model.VideoView, error)
	updateVideoFn      func(ctx context.Context, input usecase.UpdateVideoInput) (*model.VideoView, error)
	deleteVideoFn      func(ctx context.Context, actorID, videoID uuid.UUID) error
	togglePublishFn    func(ctx context.Context, actorID, videoID uuid.UUID) (*usecase.PublishState, error)
	recordViewFn       func(ctx context.Context, videoID, viewerID uuid.UUID) (*usecase.ViewCount, error)
}

func (m *mockVideoService) ListVideos(ctx context.Context, input usecase.ListVideosInput) (*usecase.Page[model.VideoView], error) {
	if m.listVideosFn != nil {
		return m.listVideosFn(ctx, input)
	}
	return &usecase.Page[model.VideoView]{Items: []model.VideoView{}}, nil
}

func (m *mockVideoService) CreateUploadURLs(ctx context.Context, input usecase.UploadURLsInput) (*usecase.UploadURLsOutput, error) {
	if m.createUploadURLsFn != nil {
		return m.createUploadURLsFn(ctx, input)
	}
	return &usecase.UploadURLsOutput{}, nil
}

func (m *mockVideoService) PublishVideo(ctx context.Context, input usecase.PublishVideoInput) (*model.VideoView, error) {
	if m.publishVideoFn != nil {
		return m.publishVideoFn(ctx, input)
	}
	return &model.VideoView{}, nil
}

func (m *mockVideoService) GetVideo(ctx context.Context, videoID, viewerID uuid.UUID) (*model.VideoView, error) {
	if m.getVideoFn != nil {
		return m.getVideoFn(ctx, videoID, viewerID)
	}
	return &model.VideoView{ID: videoID}, nil
}

func (m *mockVideoService) UpdateVideo(ctx context.Context, input usecase.UpdateVideoInput) (*model.VideoView, error) {
	if m.updateVideoFn != nil {
		return m.updateVideoFn(ctx, input)
	}
	return &model.VideoView{ID: input.VideoID}, nil
}

func (m *mockVideoService) DeleteVideo(ctx context.Context, actorID, videoID uuid.UUID) error {
	if m.deleteVideoFn != nil {
		return m.deleteVideoFn(ctx, actorID, videoID)
	}
	return nil
}

func (m *mockVideoService) TogglePublish(ctx context.Context, actorID, videoID uuid.UUID) (*usecase.PublishState, error) {
	if m.togglePublishFn != nil {
		return m.togglePublishFn(ctx, actorID, videoID)
	}
	return &usecase.PublishState{VideoID: videoID}, nil
}

func (m *mockVideoService) RecordView(ctx context.Context, videoID, viewerID uuid.UUID) (*usecase.ViewCount, error) {
	if m.recordViewFn != nil {
		return m.recordViewFn(ctx, videoID, viewerID)
	}
	return &usecase.ViewCount{VideoID: videoID}, nil
}

// Mock CommentService

type mockCommentService struct {
	listFn   func(ctx context.Context, input usecase.ListCommentsInput) (*usecase.Page[model.CommentView], error)
	addFn    func(ctx context.Context, actorID, videoID uuid.UUID, content string) (*model.CommentView, error)
	updateFn func(ctx context.Context, actorID, commentID uuid.UUID, content string) (*model.CommentView, error)
	deleteFn func(ctx context.Context, actorID, commentID uuid.UUID) error
}

func (m *mockCommentService) ListVideoComments(ctx context.Context, input usecase.ListCommentsInput) (*usecase.Page[model.CommentView], error) {
	if m.listFn != nil {
		return m.listFn(ctx, input)
	}
	return &usecase.Page[model.CommentView]{Items: []model.CommentView{}}, nil
}

func (m *mockCommentService) AddComment(ctx context.Context, actorID, videoID uuid.UUID, content string) (*model.CommentView, error) {
	if m.addFn != nil {
		return m.addFn(ctx, actorID, videoID, content)
	}
	return &model.CommentView{VideoID: videoID, Content: content}, nil
}

func (m *mockCommentService) UpdateComment(ctx context.Context, actorID, commentID uuid.UUID, content string) (*model.CommentView, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, actorID, commentID, content)
	}
	return &model.CommentView{ID: commentID, Content: content}, nil
}

func (m *mockCommentService) DeleteComment(ctx context.Context, actorID, commentID uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, actorID, commentID)
	}
	return nil
}

// Mock TweetService

type mockTweetService struct {
	createFn func(ctx context.Context, actorID uuid.UUID, content string) (*model.TweetView, error)
	listFn   func(ctx context.Context, input usecase.ListTweetsInput) (*usecase.Page[model.TweetView], error)
	updateFn func(ctx context.Context, actorID, tweetID uuid.UUID, content string) (*model.TweetView, error)
	deleteFn func(ctx context.Context, actorID, tweetID uuid.UUID) error
}

func (m *mockTweetService) CreateTweet(ctx context.Context, actorID uuid.UUID, content string) (*model.TweetView, error) {
	if m.createFn != nil {
		return m.createFn(ctx, actorID, content)
	}
	return &model.TweetView{Content: content}, nil
}

func (m *mockTweetService) ListUserTweets(ctx context.Context, input usecase.ListTweetsInput) (*usecase.Page[model.TweetView], error) {
	if m.listFn != nil {
		return m.listFn(ctx, input)
	}
	return &usecase.Page[model.TweetView]{Items: []model.TweetView{}}, nil
}

func (m *mockTweetService) UpdateTweet(ctx context.Context, actorID, tweetID uuid.UUID, content string) (*model.TweetView, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, actorID, tweetID, content)
	}
	return &model.TweetView{ID: tweetID, Content: content}, nil
}

func (m *mockTweetService) DeleteTweet(ctx context.Context, actorID, tweetID uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, actorID, tweetID)
	}
	return nil
}

// Mock LikeService

type mockLikeService struct {
	toggleFn func(ctx context.Context, kind model.TargetKind, actorID, targetID uuid.UUID) (*usecase.LikeState, error)
	likedFn  func(ctx context.Context, actorID uuid.UUID, page usecase.PageRequest) (*usecase.Page[model.VideoView], error)
}

func (m *mockLikeService) toggle(ctx context.Context, kind model.TargetKind, actorID, targetID uuid.UUID) (*usecase.LikeState, error) {
	if m.toggleFn != nil {
		return m.toggleFn(ctx, kind, actorID, targetID)
	}
	return &usecase.LikeState{TargetKind: kind, TargetID: targetID, IsLiked: true}, nil
}

func (m *mockLikeService) ToggleVideoLike(ctx context.Context, actorID, videoID uuid.UUID) (*usecase.LikeState, error) {
	return m.toggle(ctx, model.TargetVideo, actorID, videoID)
}

func (m *mockLikeService) ToggleCommentLike(ctx context.Context, actorID, commentID uuid.UUID) (*usecase.LikeState, error) {
	return m.toggle(ctx, model.TargetComment, actorID, commentID)
}

func (m *mockLikeService) ToggleTweetLike(ctx context.Context, actorID, tweetID uuid.UUID) (*usecase.LikeState, error) {
	return m.toggle(ctx, model.TargetTweet, actorID, tweetID)
}

func (m *mockLikeService) ListLikedVideos(ctx context.Context, actorID uuid.UUID, page usecase.PageRequest) (*usecase.Page[model.VideoView], error) {
	if m.likedFn != nil {
		return m.likedFn(ctx, actorID, page)
	}
	return &usecase.Page[model.VideoView]{Items: []model.VideoView{}}, nil
}

// Mock PlaylistService

type mockPlaylistService struct {
	createFn      func(ctx context.Context, actorID uuid.UUID, name, description string) (*model.PlaylistView, error)
	listFn        func(ctx context.Context, input usecase.ListPlaylistsInput) (*usecase.Page[model.PlaylistSummary], error)
	getFn         func(ctx context.Context, playlistID, viewerID uuid.UUID) (*model.PlaylistView, error)
	addVideoFn    func(ctx context.Context, actorID, playlistID, videoID uuid.UUID) (*model.PlaylistView, error)
	removeVideoFn func(ctx context.Context, actorID, playlistID, videoID uuid.UUID) (*model.PlaylistView, error)
	updateFn      func(ctx context.Context, actorID, playlistID uuid.UUID, name, description string) (*model.PlaylistView, error)
	deleteFn      func(ctx context.Context, actorID, playlistID uuid.UUID) error
}

func (m *mockPlaylistService) CreatePlaylist(ctx context.Context, actorID uuid.UUID, name, description string) (*model.PlaylistView, error) {
	if m.createFn != nil {
		return m.createFn(ctx, actorID, name, description)
	}
	return &model.PlaylistView{Name: name, Description: description}, nil
}

func (m *mockPlaylistService) ListUserPlaylists(ctx context.Context, input usecase.ListPlaylistsInput) (*usecase.Page[model.PlaylistSummary], error) {
	if m.listFn != nil {
		return m.listFn(ctx, input)
	}
	return &usecase.Page[model.PlaylistSummary]{Items: []model.PlaylistSummary{}}, nil
}

func (m *mockPlaylistService) GetPlaylist(ctx context.Context, playlistID, viewerID uuid.UUID) (*model.PlaylistView, error) {
	if m.getFn != nil {
		return m.getFn(ctx, playlistID, viewerID)
	}
	return &model.PlaylistView{ID: playlistID}, nil
}

func (m *mockPlaylistService) AddVideo(ctx context.Context, actorID, playlistID, videoID uuid.UUID) (*model.PlaylistView, error) {
	if m.addVideoFn != nil {
		return m.addVideoFn(ctx, actorID, playlistID, videoID)
	}
	return &model.PlaylistView{ID: playlistID}, nil
}

func (m *mockPlaylistService) RemoveVideo(ctx context.Context, actorID, playlistID, videoID uuid.UUID) (*model.PlaylistView, error) {
	if m.removeVideoFn != nil {
		return m.removeVideoFn(ctx, actorID, playlistID, videoID)
	}
	return &model.PlaylistView{ID: playlistID}, nil
}

func (m *mockPlaylistService) UpdatePlaylist(ctx context.Context, actorID, playlistID uuid.UUID, name, description string) (*model.PlaylistView, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, actorID, playlistID, name, description)
	}
	return &model.PlaylistView{ID: playlistID, Name: name, Description: description}, nil
}

func (m *mockPlaylistService) DeletePlaylist(ctx context.Context, actorID, playlistID uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, actorID, playlistID)
	}
	return nil
}
