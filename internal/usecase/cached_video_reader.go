package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/domain/repository"
	"github.com/hszk-dev/gotube/internal/infrastructure/cache"
	"github.com/hszk-dev/gotube/internal/infrastructure/metrics"
	"golang.org/x/sync/singleflight"
)

// VideoReader loads raw video records outside of transactions.
type VideoReader interface {
	// GetVideo returns ErrVideoNotFound if the video does not exist.
	GetVideo(ctx context.Context, videoID uuid.UUID) (*model.Video, error)

	// Invalidate drops any cached copy of the video. Failures are logged only.
	Invalidate(ctx context.Context, videoID uuid.UUID)
}

// NewStoreVideoReader returns a VideoReader that always hits the entity store.
func NewStoreVideoReader(store repository.Store) VideoReader {
	return storeVideoReader{store: store}
}

type storeVideoReader struct {
	store repository.Store
}

func (r storeVideoReader) GetVideo(ctx context.Context, videoID uuid.UUID) (*model.Video, error) {
	return r.store.Videos().GetByID(ctx, videoID)
}

func (storeVideoReader) Invalidate(context.Context, uuid.UUID) {}

// CachedVideoReaderConfig holds configuration for the cached reader.
type CachedVideoReaderConfig struct {
	// CacheTTL is the TTL for cached video records.
	CacheTTL time.Duration
}

// DefaultCachedVideoReaderConfig returns the default configuration.
func DefaultCachedVideoReaderConfig() CachedVideoReaderConfig {
	return CachedVideoReaderConfig{
		CacheTTL: 5 * time.Minute,
	}
}

// cachedVideoReader decorates a VideoReader with a cache-aside lookup.
type cachedVideoReader struct {
	delegate VideoReader
	cache    cache.VideoCache
	sfGroup  singleflight.Group

	cacheTTL time.Duration
}

// NewCachedVideoReader wraps delegate with videoCache.
func NewCachedVideoReader(
	delegate VideoReader,
	videoCache cache.VideoCache,
	cfg CachedVideoReaderConfig,
) VideoReader {
	return &cachedVideoReader{
		delegate: delegate,
		cache:    videoCache,
		cacheTTL: cfg.CacheTTL,
	}
}

// GetVideo uses singleflight to prevent a cache stampede on concurrent
// requests for the same video.
func (r *cachedVideoReader) GetVideo(ctx context.Context, videoID uuid.UUID) (*model.Video, error) {
	result, err, shared := r.sfGroup.Do(videoID.String(), func() (any, error) {
		return r.getVideoWithCache(ctx, videoID)
	})

	if shared {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightShared).Inc()
	} else {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightInitiated).Inc()
	}

	if err != nil {
		return nil, err
	}

	// Callers may mutate the record, so never hand out the shared pointer.
	video := *result.(*model.Video)
	return &video, nil
}

func (r *cachedVideoReader) getVideoWithCache(ctx context.Context, videoID uuid.UUID) (*model.Video, error) {
	video, err := r.cache.Get(ctx, videoID)
	if err != nil {
		slog.Warn("cache get failed, falling back to database",
			"video_id", videoID,
			"error", err,
		)
	}

	if video != nil {
		return video, nil
	}

	video, err = r.delegate.GetVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, video, r.cacheTTL); err != nil {
		slog.Warn("failed to cache video",
			"video_id", videoID,
			"error", err,
		)
	}

	return video, nil
}

func (r *cachedVideoReader) Invalidate(ctx context.Context, videoID uuid.UUID) {
	if err := r.cache.Delete(ctx, videoID); err != nil {
		slog.Warn("failed to invalidate video cache",
			"video_id", videoID,
			"error", err,
		)
	}
	r.sfGroup.Forget(videoID.String())
}
