package repository

import (
	"context"

	"github.com/google/uuid"
)

// MediaTaskKind selects what the media worker does with a task.
type MediaTaskKind string

const (
	// MediaTaskProbe reads the uploaded video file and records its duration.
	MediaTaskProbe MediaTaskKind = "probe"
	// MediaTaskPurge removes the media objects of a deleted video.
	MediaTaskPurge MediaTaskKind = "purge"
)

// IsValid reports whether k is a kind the worker knows how to run.
func (k MediaTaskKind) IsValid() bool {
	return k == MediaTaskProbe || k == MediaTaskPurge
}

// MediaTask represents a media maintenance job message.
type MediaTask struct {
	Kind       MediaTaskKind `json:"kind"`
	VideoID    uuid.UUID     `json:"video_id"`
	ObjectKeys []string      `json:"object_keys"`
	RetryCount int           `json:"retry_count"`
}

// MediaTaskHandler runs one task. A non-nil error asks for a retry.
type MediaTaskHandler func(ctx context.Context, task MediaTask) error

// MessageQueue carries media tasks from the API to the worker.
type MessageQueue interface {
	// PublishMediaTask enqueues task. The API calls it after publishing,
	// re-thumbnailing or deleting a video.
	PublishMediaTask(ctx context.Context, task MediaTask) error

	// ConsumeMediaTasks feeds queued tasks to handler until ctx ends or the
	// broker goes away.
	ConsumeMediaTasks(ctx context.Context, handler MediaTaskHandler) error

	// Close gracefully closes the connection to the message queue.
	Close() error
}
