package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/infrastructure/metrics"
	"github.com/redis/go-redis/v9"
)

// videoCacheKeyPrefix carries a schema version; bump it when cachedVideo
// changes shape so old entries are ignored rather than misread.
const videoCacheKeyPrefix = "gotube:video:v2:"

// cachedVideo is the stored shape of a model.Video. It has no viewer
// fields: views are composed per request and never cached.
type cachedVideo struct {
	ID           uuid.UUID `json:"id"`
	OwnerID      uuid.UUID `json:"owner_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	VideoURL     string    `json:"video_url"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Duration     float64   `json:"duration"`
	Views        int64     `json:"views"`
	IsPublished  bool      `json:"is_published"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RedisVideoCache stores raw video records as JSON strings with a TTL.
type RedisVideoCache struct {
	client redis.Cmdable
}

func NewRedisVideoCache(client redis.Cmdable) *RedisVideoCache {
	return &RedisVideoCache{client: client}
}

// Get returns nil, nil on a miss.
func (c *RedisVideoCache) Get(ctx context.Context, videoID uuid.UUID) (*model.Video, error) {
	data, err := c.client.Get(ctx, c.buildKey(videoID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			observe(metrics.CacheOpGet, metrics.CacheStatusMiss)
			return nil, nil
		}
		observe(metrics.CacheOpGet, metrics.CacheStatusError)
		return nil, fmt.Errorf("redis get: %w", err)
	}

	video, err := c.deserialize(data)
	if err != nil {
		observe(metrics.CacheOpGet, metrics.CacheStatusError)
		return nil, fmt.Errorf("deserialize video: %w", err)
	}

	observe(metrics.CacheOpGet, metrics.CacheStatusHit)
	return video, nil
}

func (c *RedisVideoCache) Set(ctx context.Context, video *model.Video, ttl time.Duration) error {
	data, err := c.serialize(video)
	if err != nil {
		observe(metrics.CacheOpSet, metrics.CacheStatusError)
		return fmt.Errorf("serialize video: %w", err)
	}

	if err := c.client.Set(ctx, c.buildKey(video.ID), data, ttl).Err(); err != nil {
		observe(metrics.CacheOpSet, metrics.CacheStatusError)
		return fmt.Errorf("redis set: %w", err)
	}

	observe(metrics.CacheOpSet, metrics.CacheStatusSuccess)
	return nil
}

func (c *RedisVideoCache) Delete(ctx context.Context, videoID uuid.UUID) error {
	if err := c.client.Del(ctx, c.buildKey(videoID)).Err(); err != nil {
		observe(metrics.CacheOpDelete, metrics.CacheStatusError)
		return fmt.Errorf("redis del: %w", err)
	}

	observe(metrics.CacheOpDelete, metrics.CacheStatusSuccess)
	return nil
}

func (c *RedisVideoCache) buildKey(videoID uuid.UUID) string {
	return videoCacheKeyPrefix + videoID.String()
}

func (c *RedisVideoCache) serialize(video *model.Video) ([]byte, error) {
	return json.Marshal(cachedVideo{
		ID:           video.ID,
		OwnerID:      video.OwnerID,
		Title:        video.Title,
		Description:  video.Description,
		VideoURL:     video.VideoURL,
		ThumbnailURL: video.ThumbnailURL,
		Duration:     video.Duration,
		Views:        video.Views,
		IsPublished:  video.IsPublished,
		CreatedAt:    video.CreatedAt,
		UpdatedAt:    video.UpdatedAt,
	})
}

func (c *RedisVideoCache) deserialize(data []byte) (*model.Video, error) {
	var v cachedVideo
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	if v.ID == uuid.Nil || v.OwnerID == uuid.Nil {
		return nil, errors.New("cached video is missing its ids")
	}

	return &model.Video{
		ID:           v.ID,
		OwnerID:      v.OwnerID,
		Title:        v.Title,
		Description:  v.Description,
		VideoURL:     v.VideoURL,
		ThumbnailURL: v.ThumbnailURL,
		Duration:     v.Duration,
		Views:        v.Views,
		IsPublished:  v.IsPublished,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}, nil
}

func observe(op, status string) {
	metrics.CacheOperationsTotal.WithLabelValues(op, status, metrics.CacheTypeRedis).Inc()
}
