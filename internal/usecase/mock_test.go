package usecase

import (
	"context"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/domain/repository"
	"github.com/hszk-dev/gotube/internal/media"
)

const testBaseURL = "http://blob.test/media"

// mockObjectStorage provides a configurable mock for ObjectStorage.
// By default every key exists and URLs round-trip through testBaseURL.
type mockObjectStorage struct {
	generatePresignedUploadURLFn func(ctx context.Context, key string, expiry time.Duration) (string, error)
	downloadFn                   func(ctx context.Context, key string) (io.ReadCloser, error)
	deleteFn                     func(ctx context.Context, key string) error
	existsFn                     func(ctx context.Context, key string) (bool, error)

	mu      sync.Mutex
	deleted []string
}

func (m *mockObjectStorage) GeneratePresignedUploadURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if m.generatePresignedUploadURLFn != nil {
		return m.generatePresignedUploadURLFn(ctx, key, expiry)
	}
	return "http://example.com/upload/" + key, nil
}

func (m *mockObjectStorage) ObjectURL(key string) string {
	return testBaseURL + "/" + key
}

func (m *mockObjectStorage) KeyFromURL(url string) (string, bool) {
	key, ok := strings.CutPrefix(url, testBaseURL+"/")
	return key, ok && key != ""
}

func (m *mockObjectStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if m.downloadFn != nil {
		return m.downloadFn(ctx, key)
	}
	return io.NopCloser(strings.NewReader("media")), nil
}

func (m *mockObjectStorage) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	m.deleted = append(m.deleted, key)
	m.mu.Unlock()
	if m.deleteFn != nil {
		return m.deleteFn(ctx, key)
	}
	return nil
}

func (m *mockObjectStorage) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return true, nil
}

// mockMessageQueue records published tasks.
type mockMessageQueue struct {
	publishMediaTaskFn func(ctx context.Context, task repository.MediaTask) error

	mu        sync.Mutex
	published []repository.MediaTask
}

func (m *mockMessageQueue) PublishMediaTask(ctx context.Context, task repository.MediaTask) error {
	if m.publishMediaTaskFn != nil {
		if err := m.publishMediaTaskFn(ctx, task); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, task)
	return nil
}

func (m *mockMessageQueue) ConsumeMediaTasks(ctx context.Context, handler repository.MediaTaskHandler) error {
	return nil
}

func (m *mockMessageQueue) Close() error {
	return nil
}

func (m *mockMessageQueue) tasks() []repository.MediaTask {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]repository.MediaTask(nil), m.published...)
}

// mockVideoCache is a map-backed VideoCache with overridable behaviour.
type mockVideoCache struct {
	mu       sync.RWMutex
	data     map[uuid.UUID]*model.Video
	getFn    func(ctx context.Context, videoID uuid.UUID) (*model.Video, error)
	setFn    func(ctx context.Context, video *model.Video, ttl time.Duration) error
	deleteFn func(ctx context.Context, videoID uuid.UUID) error
}

func newMockVideoCache() *mockVideoCache {
	return &mockVideoCache{
		data: make(map[uuid.UUID]*model.Video),
	}
}

func (m *mockVideoCache) Get(ctx context.Context, videoID uuid.UUID) (*model.Video, error) {
	if m.getFn != nil {
		return m.getFn(ctx, videoID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[videoID], nil
}

func (m *mockVideoCache) Set(ctx context.Context, video *model.Video, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, video, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[video.ID] = video
	return nil
}

func (m *mockVideoCache) Delete(ctx context.Context, videoID uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, videoID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, videoID)
	return nil
}

func (m *mockVideoCache) has(videoID uuid.UUID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[videoID]
	return ok
}

// mockVideoReader counts delegate lookups.
type mockVideoReader struct {
	getVideoFn    func(ctx context.Context, videoID uuid.UUID) (*model.Video, error)
	getVideoCount atomic.Int32
}

func (m *mockVideoReader) GetVideo(ctx context.Context, videoID uuid.UUID) (*model.Video, error) {
	m.getVideoCount.Add(1)
	if m.getVideoFn != nil {
		return m.getVideoFn(ctx, videoID)
	}
	return nil, repository.ErrVideoNotFound
}

func (m *mockVideoReader) Invalidate(context.Context, uuid.UUID) {}

// mockProber returns a fixed duration.
type mockProber struct {
	probeFn func(ctx context.Context, inputPath string) (*media.ProbeResult, error)
}

func (m *mockProber) Probe(ctx context.Context, inputPath string) (*media.ProbeResult, error) {
	if m.probeFn != nil {
		return m.probeFn(ctx, inputPath)
	}
	return &media.ProbeResult{Duration: 42.5}, nil
}

// hookStore wraps a Store so a test can fail or interleave single repository
// calls. Hooks carry over into transactions opened through it.
type hookStore struct {
	repository.Store
	videoUpdate func(ctx context.Context, inner repository.VideoRepository, video *model.Video) error
	deleteLikes func(ctx context.Context, kind model.TargetKind, ids []uuid.UUID) (int64, error)
}

func (s *hookStore) Videos() repository.VideoRepository {
	return hookVideos{VideoRepository: s.Store.Videos(), hooks: s}
}

func (s *hookStore) Likes() repository.LikeRepository {
	return hookLikes{LikeRepository: s.Store.Likes(), hooks: s}
}

func (s *hookStore) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	return s.Store.WithinTx(ctx, func(tx repository.Store) error {
		scoped := *s
		scoped.Store = tx
		return fn(&scoped)
	})
}

type hookVideos struct {
	repository.VideoRepository
	hooks *hookStore
}

func (r hookVideos) Update(ctx context.Context, video *model.Video) error {
	if r.hooks.videoUpdate != nil {
		return r.hooks.videoUpdate(ctx, r.VideoRepository, video)
	}
	return r.VideoRepository.Update(ctx, video)
}

type hookLikes struct {
	repository.LikeRepository
	hooks *hookStore
}

func (r hookLikes) DeleteByTargets(ctx context.Context, kind model.TargetKind, ids []uuid.UUID) (int64, error) {
	if r.hooks.deleteLikes != nil {
		return r.hooks.deleteLikes(ctx, kind, ids)
	}
	return r.LikeRepository.DeleteByTargets(ctx, kind, ids)
}
