package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hszk-dev/gotube/internal/domain/model"
)

// VideoFilter narrows a video listing.
type VideoFilter struct {
	// OwnerID restricts results to one owner. uuid.Nil means any owner.
	OwnerID uuid.UUID
	// Query matches title or description, case-insensitively.
	Query string
	// ViewerID decides visibility: unpublished videos are only returned to their owner.
	ViewerID uuid.UUID
}

// VideoRepository defines the interface for video persistence operations.
type VideoRepository interface {
	// Create persists a new video entity.
	Create(ctx context.Context, video *model.Video) error

	// GetByID returns nil and ErrVideoNotFound if the video does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Video, error)

	// GetLocked is GetByID under a row lock.
	GetLocked(ctx context.Context, id uuid.UUID, mode LockMode) (*model.Video, error)

	// GetByIDs returns the videos that exist among ids, keyed by id.
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Video, error)

	// List returns every video matching filter that is visible to filter.ViewerID,
	// newest first.
	List(ctx context.Context, filter VideoFilter) ([]*model.Video, error)

	// Update persists title, description and thumbnail changes. Duration is
	// left to UpdateDuration.
	// Returns ErrVideoNotFound if the video does not exist.
	Update(ctx context.Context, video *model.Video) error

	// UpdateDuration sets only the duration, leaving concurrent edits of other fields intact.
	UpdateDuration(ctx context.Context, id uuid.UUID, seconds float64) error

	// TogglePublished flips isPublished in a single statement and returns the new value.
	TogglePublished(ctx context.Context, id uuid.UUID) (bool, error)

	// IncrementViews atomically adds one view and returns the new count.
	// A video hidden from viewerID is reported as ErrVideoNotFound.
	IncrementViews(ctx context.Context, id, viewerID uuid.UUID) (int64, error)

	// Delete removes the video row only. Dependents are handled by the caller.
	Delete(ctx context.Context, id uuid.UUID) error
}
