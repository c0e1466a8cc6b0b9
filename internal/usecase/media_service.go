package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/hszk-dev/gotube/internal/domain/repository"
	"github.com/hszk-dev/gotube/internal/infrastructure/metrics"
	"github.com/hszk-dev/gotube/internal/media"
)

const (
	// DefaultMaxRetries is the default maximum number of attempts per media task.
	DefaultMaxRetries = 3
)

// MediaServiceConfig holds configuration for MediaService.
type MediaServiceConfig struct {
	// TempDir is the base directory for downloaded media during probing.
	TempDir string
	// MaxRetries is the maximum number of retry attempts before a task is dropped.
	MaxRetries int
}

// DefaultMediaServiceConfig returns the default configuration.
func DefaultMediaServiceConfig() MediaServiceConfig {
	return MediaServiceConfig{
		TempDir:    os.TempDir(),
		MaxRetries: DefaultMaxRetries,
	}
}

// MediaService processes media tasks consumed by the worker.
type MediaService interface {
	// ProcessTask handles a media task from the message queue.
	// Returns nil on success or permanent failure (max retries exceeded).
	// Returns error for transient failures that should trigger a retry.
	ProcessTask(ctx context.Context, task repository.MediaTask) error
}

type mediaService struct {
	store   repository.Store
	videos  VideoReader
	storage repository.ObjectStorage
	prober  media.Prober

	tempDir    string
	maxRetries int
}

// NewMediaService creates a new MediaService instance.
func NewMediaService(
	store repository.Store,
	videos VideoReader,
	storage repository.ObjectStorage,
	prober media.Prober,
	cfg MediaServiceConfig,
) MediaService {
	return &mediaService{
		store:      store,
		videos:     videos,
		storage:    storage,
		prober:     prober,
		tempDir:    cfg.TempDir,
		maxRetries: cfg.MaxRetries,
	}
}

func (s *mediaService) ProcessTask(ctx context.Context, task repository.MediaTask) error {
	if task.RetryCount >= s.maxRetries {
		slog.Error("media task exceeded max retries, dropping",
			"kind", task.Kind,
			"video_id", task.VideoID,
			"retry_count", task.RetryCount,
		)
		metrics.MediaTasksTotal.WithLabelValues(string(task.Kind), metrics.StatusError).Inc()
		return nil
	}

	var err error
	switch task.Kind {
	case repository.MediaTaskProbe:
		err = s.probe(ctx, task)
	case repository.MediaTaskPurge:
		err = s.purge(ctx, task)
	default:
		// Unknown kinds can never succeed; ack them.
		slog.Error("unknown media task kind", "kind", task.Kind, "video_id", task.VideoID)
		return nil
	}

	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}
	metrics.MediaTasksTotal.WithLabelValues(string(task.Kind), status).Inc()
	return err
}

// probe downloads the video file, measures it and records the duration.
func (s *mediaService) probe(ctx context.Context, task repository.MediaTask) error {
	if len(task.ObjectKeys) == 0 {
		slog.Error("probe task without object key", "video_id", task.VideoID)
		return nil
	}

	workDir, err := s.createWorkDir(task.VideoID)
	if err != nil {
		return fmt.Errorf("create work directory: %w", err)
	}
	defer s.cleanup(workDir)

	inputPath, err := s.download(ctx, task.ObjectKeys[0], workDir)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			slog.Warn("probe source is gone, skipping", "video_id", task.VideoID, "key", task.ObjectKeys[0])
			return nil
		}
		return fmt.Errorf("download video: %w", err)
	}

	result, err := s.prober.Probe(ctx, inputPath)
	if err != nil {
		return fmt.Errorf("probe: %w", err)
	}

	video, err := s.store.Videos().GetByID(ctx, task.VideoID)
	if err != nil {
		if errors.Is(err, repository.ErrVideoNotFound) {
			// Deleted while the task was queued.
			return nil
		}
		return fmt.Errorf("get video: %w", err)
	}

	if err := video.SetDuration(result.Duration); err != nil {
		return fmt.Errorf("set duration: %w", err)
	}
	if err := s.store.Videos().UpdateDuration(ctx, video.ID, video.Duration); err != nil {
		if errors.Is(err, repository.ErrVideoNotFound) {
			return nil
		}
		return fmt.Errorf("update duration: %w", err)
	}
	s.videos.Invalidate(ctx, video.ID)

	slog.Info("video probed", "video_id", video.ID, "duration", video.Duration)
	return nil
}

// purge deletes every listed object. Objects that are already gone count as deleted.
func (s *mediaService) purge(ctx context.Context, task repository.MediaTask) error {
	var errs []error
	for _, key := range task.ObjectKeys {
		if err := s.storage.Delete(ctx, key); err != nil && !errors.Is(err, repository.ErrObjectNotFound) {
			errs = append(errs, fmt.Errorf("delete %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

// createWorkDir creates a temporary directory for processing a specific video.
func (s *mediaService) createWorkDir(videoID uuid.UUID) (string, error) {
	workDir := filepath.Join(s.tempDir, "gotube", videoID.String())
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}
	return workDir, nil
}

func (s *mediaService) cleanup(workDir string) {
	_ = os.RemoveAll(workDir)
}

// download copies an object from storage to a local file.
func (s *mediaService) download(ctx context.Context, key, workDir string) (string, error) {
	reader, err := s.storage.Download(ctx, key)
	if err != nil {
		return "", fmt.Errorf("storage download: %w", err)
	}
	defer func() { _ = reader.Close() }()

	filename := filepath.Base(key)
	if filename == "." || filename == "/" {
		filename = "source.mp4"
	}

	localPath := filepath.Join(workDir, filename)
	file, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("create local file: %w", err)
	}

	if _, err := io.Copy(file, reader); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("copy to local file: %w", err)
	}

	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close local file: %w", err)
	}

	return localPath, nil
}
