package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hszk-dev/gotube/internal/domain/model"
)

// VideoCache holds raw video records keyed by id. Viewer-specific views
// are never stored here.
type VideoCache interface {
	// Get returns nil, nil on a miss.
	Get(ctx context.Context, videoID uuid.UUID) (*model.Video, error)
	Set(ctx context.Context, video *model.Video, ttl time.Duration) error
	// Delete is a no-op for absent ids. Writers call it after every
	// mutation of a cached video.
	Delete(ctx context.Context, videoID uuid.UUID) error
}

var _ VideoCache = (*RedisVideoCache)(nil)
