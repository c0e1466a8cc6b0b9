package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hszk-dev/gotube/internal/apperr"
	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/domain/repository"
	"github.com/hszk-dev/gotube/internal/infrastructure/metrics"
)

// ListVideosInput filters, sorts and pages a video listing.
type ListVideosInput struct {
	ViewerID uuid.UUID
	// OwnerID restricts the listing to one channel. uuid.Nil lists every channel.
	OwnerID uuid.UUID
	Query   string
	Sort    SortSpec
	Page    PageRequest
}

// UploadURLsInput names the files a client is about to upload.
type UploadURLsInput struct {
	ActorID           uuid.UUID
	VideoFileName     string
	ThumbnailFileName string
}

// UploadURLsOutput holds presigned upload URLs and the keys to publish with.
type UploadURLsOutput struct {
	VideoKey           string    `json:"videoKey"`
	VideoUploadURL     string    `json:"videoUploadUrl"`
	ThumbnailKey       string    `json:"thumbnailKey"`
	ThumbnailUploadURL string    `json:"thumbnailUploadUrl"`
	ExpiresAt          time.Time `json:"expiresAt"`
}

// PublishVideoInput contains the input parameters for publishing a video.
type PublishVideoInput struct {
	ActorID      uuid.UUID
	Title        string
	Description  string
	VideoKey     string
	ThumbnailKey string
}

// UpdateVideoInput contains the editable video fields.
// An empty ThumbnailKey keeps the current thumbnail.
type UpdateVideoInput struct {
	ActorID      uuid.UUID
	VideoID      uuid.UUID
	Title        string
	Description  string
	ThumbnailKey string
}

// PublishState is the result of toggling a video's visibility.
type PublishState struct {
	VideoID     uuid.UUID `json:"videoId"`
	IsPublished bool      `json:"isPublished"`
}

// ViewCount is the result of recording a view.
type ViewCount struct {
	VideoID uuid.UUID `json:"videoId"`
	Views   int64     `json:"views"`
}

// VideoService defines the interface for video business logic operations.
type VideoService interface {
	// ListVideos returns the composed, sorted page of videos visible to the viewer.
	ListVideos(ctx context.Context, input ListVideosInput) (*Page[model.VideoView], error)

	// CreateUploadURLs returns presigned URLs for a video file and its thumbnail.
	CreateUploadURLs(ctx context.Context, input UploadURLsInput) (*UploadURLsOutput, error)

	// PublishVideo creates a video from objects the actor already uploaded.
	PublishVideo(ctx context.Context, input PublishVideoInput) (*model.VideoView, error)

	// GetVideo returns the video detail view, including its comments.
	GetVideo(ctx context.Context, videoID, viewerID uuid.UUID) (*model.VideoView, error)

	UpdateVideo(ctx context.Context, input UpdateVideoInput) (*model.VideoView, error)

	// DeleteVideo removes the video with all of its dependents.
	DeleteVideo(ctx context.Context, actorID, videoID uuid.UUID) error

	TogglePublish(ctx context.Context, actorID, videoID uuid.UUID) (*PublishState, error)

	// RecordView increments the view counter of a video visible to viewerID.
	RecordView(ctx context.Context, videoID, viewerID uuid.UUID) (*ViewCount, error)
}

// VideoServiceConfig holds configuration for VideoService.
type VideoServiceConfig struct {
	UploadURLExpiry time.Duration
}

// DefaultVideoServiceConfig returns the default configuration.
func DefaultVideoServiceConfig() VideoServiceConfig {
	return VideoServiceConfig{
		UploadURLExpiry: 15 * time.Minute,
	}
}

type videoService struct {
	store    repository.Store
	videos   VideoReader
	composer *Composer
	cascade  *CascadeCoordinator
	storage  repository.ObjectStorage
	queue    repository.MessageQueue

	uploadURLExpiry time.Duration
}

// NewVideoService creates a new VideoService instance.
func NewVideoService(
	store repository.Store,
	videos VideoReader,
	cascade *CascadeCoordinator,
	storage repository.ObjectStorage,
	queue repository.MessageQueue,
	cfg VideoServiceConfig,
) VideoService {
	return &videoService{
		store:           store,
		videos:          videos,
		composer:        NewComposer(store),
		cascade:         cascade,
		storage:         storage,
		queue:           queue,
		uploadURLExpiry: cfg.UploadURLExpiry,
	}
}

func (s *videoService) ListVideos(ctx context.Context, input ListVideosInput) (*Page[model.VideoView], error) {
	page, err := prepareListing(videoSortKeys, input.Sort, videoViewID, input.Page)
	if err != nil {
		return nil, err
	}

	videos, err := s.store.Videos().List(ctx, repository.VideoFilter{
		OwnerID:  input.OwnerID,
		Query:    strings.TrimSpace(input.Query),
		ViewerID: input.ViewerID,
	})
	if err != nil {
		return nil, translate(fmt.Errorf("list videos: %w", err))
	}

	views, err := s.composer.Videos(ctx, videos, input.ViewerID)
	if err != nil {
		return nil, translate(err)
	}
	return page(views)
}

func (s *videoService) CreateUploadURLs(ctx context.Context, input UploadURLsInput) (*UploadURLsOutput, error) {
	if err := requireActor(input.ActorID); err != nil {
		return nil, err
	}

	videoName, err := cleanFileName(input.VideoFileName)
	if err != nil {
		return nil, err
	}
	thumbName, err := cleanFileName(input.ThumbnailFileName)
	if err != nil {
		return nil, err
	}

	prefix := uploadPrefix(input.ActorID, uuid.New())
	out := &UploadURLsOutput{
		VideoKey:     path.Join(prefix, "video", videoName),
		ThumbnailKey: path.Join(prefix, "thumbnail", thumbName),
		ExpiresAt:    time.Now().Add(s.uploadURLExpiry),
	}

	out.VideoUploadURL, err = s.storage.GeneratePresignedUploadURL(ctx, out.VideoKey, s.uploadURLExpiry)
	if err != nil {
		return nil, apperr.Dependency("blob storage unavailable", fmt.Errorf("presign video upload: %w", err))
	}
	out.ThumbnailUploadURL, err = s.storage.GeneratePresignedUploadURL(ctx, out.ThumbnailKey, s.uploadURLExpiry)
	if err != nil {
		return nil, apperr.Dependency("blob storage unavailable", fmt.Errorf("presign thumbnail upload: %w", err))
	}

	return out, nil
}

func (s *videoService) PublishVideo(ctx context.Context, input PublishVideoInput) (*model.VideoView, error) {
	if err := requireActor(input.ActorID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.VideoKey) == "" {
		return nil, translate(model.ErrMissingVideoFile)
	}
	if strings.TrimSpace(input.ThumbnailKey) == "" {
		return nil, translate(model.ErrMissingThumbnail)
	}
	if err := s.checkUploaded(ctx, input.ActorID, input.VideoKey, "video file"); err != nil {
		return nil, err
	}
	if err := s.checkUploaded(ctx, input.ActorID, input.ThumbnailKey, "thumbnail"); err != nil {
		return nil, err
	}

	video, err := model.NewVideo(
		input.ActorID,
		input.Title,
		input.Description,
		s.storage.ObjectURL(input.VideoKey),
		s.storage.ObjectURL(input.ThumbnailKey),
	)
	if err != nil {
		return nil, translate(err)
	}

	if err := s.store.Videos().Create(ctx, video); err != nil {
		return nil, translate(fmt.Errorf("create video: %w", err))
	}

	s.publishTask(ctx, repository.MediaTask{
		Kind:       repository.MediaTaskProbe,
		VideoID:    video.ID,
		ObjectKeys: []string{input.VideoKey},
	})

	return s.compose(ctx, video, input.ActorID)
}

// GetVideo reads the video from the store rather than the cache, so a video
// unpublished moments ago is hidden even if its cache entry outlived the toggle.
func (s *videoService) GetVideo(ctx context.Context, videoID, viewerID uuid.UUID) (*model.VideoView, error) {
	video, err := loadVisibleVideo(ctx, NewStoreVideoReader(s.store), videoID, viewerID)
	if err != nil {
		return nil, err
	}

	view, err := s.composer.VideoDetail(ctx, video, viewerID)
	if err != nil {
		return nil, translate(err)
	}
	return view, nil
}

func (s *videoService) UpdateVideo(ctx context.Context, input UpdateVideoInput) (*model.VideoView, error) {
	video, err := authorizeOwned(ctx, input.ActorID,
		func(ctx context.Context) (*model.Video, error) { return s.store.Videos().GetByID(ctx, input.VideoID) },
		func(v *model.Video) uuid.UUID { return v.OwnerID },
	)
	if err != nil {
		return nil, err
	}

	var thumbnailURL, oldThumbnailKey string
	if key := strings.TrimSpace(input.ThumbnailKey); key != "" {
		if err := s.checkUploaded(ctx, input.ActorID, key, "thumbnail"); err != nil {
			return nil, err
		}
		thumbnailURL = s.storage.ObjectURL(key)
		if thumbnailURL != video.ThumbnailURL {
			oldThumbnailKey, _ = s.storage.KeyFromURL(video.ThumbnailURL)
		}
	}

	if err := video.ApplyDetails(input.Title, input.Description, thumbnailURL); err != nil {
		return nil, translate(err)
	}

	if err := s.store.Videos().Update(ctx, video); err != nil {
		return nil, translate(fmt.Errorf("update video: %w", err))
	}
	s.videos.Invalidate(ctx, video.ID)

	if oldThumbnailKey != "" {
		s.publishTask(ctx, repository.MediaTask{
			Kind:       repository.MediaTaskPurge,
			VideoID:    video.ID,
			ObjectKeys: []string{oldThumbnailKey},
		})
	}

	return s.compose(ctx, video, input.ActorID)
}

func (s *videoService) DeleteVideo(ctx context.Context, actorID, videoID uuid.UUID) error {
	video, _, err := s.cascade.DeleteVideo(ctx, actorID, videoID)
	if err != nil {
		return err
	}

	s.videos.Invalidate(ctx, videoID)

	var keys []string
	for _, u := range []string{video.VideoURL, video.ThumbnailURL} {
		if key, ok := s.storage.KeyFromURL(u); ok {
			keys = append(keys, key)
		}
	}
	if len(keys) > 0 {
		s.publishTask(ctx, repository.MediaTask{
			Kind:       repository.MediaTaskPurge,
			VideoID:    videoID,
			ObjectKeys: keys,
		})
	}
	return nil
}

func (s *videoService) TogglePublish(ctx context.Context, actorID, videoID uuid.UUID) (*PublishState, error) {
	_, err := authorizeOwned(ctx, actorID,
		func(ctx context.Context) (*model.Video, error) { return s.store.Videos().GetByID(ctx, videoID) },
		func(v *model.Video) uuid.UUID { return v.OwnerID },
	)
	if err != nil {
		return nil, err
	}

	published, err := s.store.Videos().TogglePublished(ctx, videoID)
	if err != nil {
		return nil, translate(fmt.Errorf("toggle publish: %w", err))
	}
	s.videos.Invalidate(ctx, videoID)

	return &PublishState{VideoID: videoID, IsPublished: published}, nil
}

// RecordView checks visibility in the same statement that counts the view.
func (s *videoService) RecordView(ctx context.Context, videoID, viewerID uuid.UUID) (*ViewCount, error) {
	views, err := s.store.Videos().IncrementViews(ctx, videoID, viewerID)
	if err != nil {
		return nil, translate(fmt.Errorf("increment views: %w", err))
	}
	s.videos.Invalidate(ctx, videoID)

	return &ViewCount{VideoID: videoID, Views: views}, nil
}

func (s *videoService) compose(ctx context.Context, video *model.Video, viewerID uuid.UUID) (*model.VideoView, error) {
	views, err := s.composer.Videos(ctx, []*model.Video{video}, viewerID)
	if err != nil {
		return nil, translate(err)
	}
	return &views[0], nil
}

// checkUploaded verifies key lies under the actor's upload area and exists.
func (s *videoService) checkUploaded(ctx context.Context, actorID uuid.UUID, key, what string) error {
	if path.Clean(key) != key || !strings.HasPrefix(key, uploadRoot(actorID)) {
		return apperr.Validation(what+" key does not belong to the caller", nil)
	}

	ok, err := s.storage.Exists(ctx, key)
	if err != nil {
		return apperr.Dependency("blob storage unavailable", fmt.Errorf("check %s: %w", what, err))
	}
	if !ok {
		return apperr.Validation(what+" has not been uploaded", nil)
	}
	return nil
}

// publishTask is best-effort: the entity store is already consistent.
func (s *videoService) publishTask(ctx context.Context, task repository.MediaTask) {
	if err := s.queue.PublishMediaTask(ctx, task); err != nil {
		metrics.MediaTasksTotal.WithLabelValues(string(task.Kind), metrics.StatusPublishError).Inc()
		slog.Warn("failed to publish media task",
			"kind", task.Kind,
			"video_id", task.VideoID,
			"error", err,
		)
		return
	}
	metrics.MediaTasksTotal.WithLabelValues(string(task.Kind), metrics.StatusPublished).Inc()
}

// loadVisibleVideo resolves a video through reader. Videos the viewer may
// not see are reported as missing.
func loadVisibleVideo(ctx context.Context, reader VideoReader, videoID, viewerID uuid.UUID) (*model.Video, error) {
	video, err := reader.GetVideo(ctx, videoID)
	if err != nil {
		return nil, translate(err)
	}
	if !video.VisibleTo(viewerID) {
		return nil, translate(repository.ErrVideoNotFound)
	}
	return video, nil
}

// lockVisibleVideo reads a video inside tx under a share lock, so it cannot
// be deleted before tx commits. Write paths use it instead of a VideoReader,
// which may serve a cached copy of a video that is already gone.
func lockVisibleVideo(ctx context.Context, tx repository.Store, videoID, viewerID uuid.UUID) (*model.Video, error) {
	video, err := tx.Videos().GetLocked(ctx, videoID, repository.LockShare)
	if err != nil {
		return nil, err
	}
	if !video.VisibleTo(viewerID) {
		return nil, repository.ErrVideoNotFound
	}
	return video, nil
}

// uploadRoot is the key prefix every upload of ownerID lives under.
// Format: videos/{owner_id}/
func uploadRoot(ownerID uuid.UUID) string {
	return path.Join("videos", ownerID.String()) + "/"
}

// uploadPrefix groups one video file and its thumbnail.
// Format: videos/{owner_id}/{upload_id}
func uploadPrefix(ownerID, uploadID uuid.UUID) string {
	return path.Join("videos", ownerID.String(), uploadID.String())
}

func cleanFileName(name string) (string, error) {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if base == "." || base == ".." || base == "/" {
		return "", apperr.Validation("file name is required", nil)
	}
	return base, nil
}
