package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/domain/repository"
	"github.com/hszk-dev/gotube/internal/infrastructure/metrics"
)

const videoColumns = `id, owner_id, title, description, video_url, thumbnail_url, duration, views, is_published, created_at, updated_at`

// VideoRepository implements repository.VideoRepository using PostgreSQL.
type VideoRepository struct {
	db DBTX
}

// NewVideoRepository creates a new VideoRepository instance.
func NewVideoRepository(db DBTX) *VideoRepository {
	return &VideoRepository{db: db}
}

// Create persists a new video entity.
func (r *VideoRepository) Create(ctx context.Context, video *model.Video) error {
	const query = `
		INSERT INTO videos (` + videoColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	observe(metrics.DBQueryInsert, metrics.TableVideos)
	_, err := r.db.Exec(ctx, query,
		video.ID,
		video.OwnerID,
		video.Title,
		video.Description,
		video.VideoURL,
		video.ThumbnailURL,
		video.Duration,
		video.Views,
		video.IsPublished,
		video.CreatedAt,
		video.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create video: %w", err)
	}

	return nil
}

// GetByID retrieves a video by its unique identifier.
func (r *VideoRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	return r.get(ctx, id, 0)
}

// GetLocked retrieves a video with SELECT ... FOR SHARE or FOR UPDATE.
func (r *VideoRepository) GetLocked(ctx context.Context, id uuid.UUID, mode repository.LockMode) (*model.Video, error) {
	return r.get(ctx, id, mode)
}

func (r *VideoRepository) get(ctx context.Context, id uuid.UUID, mode repository.LockMode) (*model.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = $1` + lockClause(mode)

	observe(metrics.DBQuerySelect, metrics.TableVideos)
	video, err := scanVideo(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to get video by ID: %w", err)
	}

	return video, nil
}

// GetByIDs retrieves the videos that exist among ids.
func (r *VideoRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Video, error) {
	out := make(map[uuid.UUID]*model.Video, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	const query = `SELECT ` + videoColumns + ` FROM videos WHERE id = ANY($1)`

	observe(metrics.DBQuerySelect, metrics.TableVideos)
	videos, err := r.queryVideos(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get videos by IDs: %w", err)
	}
	for _, v := range videos {
		out[v.ID] = v
	}
	return out, nil
}

// List returns the videos matching filter that filter.ViewerID may see, newest first.
func (r *VideoRepository) List(ctx context.Context, filter repository.VideoFilter) ([]*model.Video, error) {
	const query = `
		SELECT ` + videoColumns + `
		FROM videos
		WHERE ($1::uuid IS NULL OR owner_id = $1)
			AND (is_published OR owner_id = $2)
			AND ($3 = '' OR title ILIKE $3 OR description ILIKE $3)
		ORDER BY created_at DESC, id DESC
	`

	var owner *uuid.UUID
	if filter.OwnerID != uuid.Nil {
		owner = &filter.OwnerID
	}

	observe(metrics.DBQuerySelect, metrics.TableVideos)
	videos, err := r.queryVideos(ctx, query, owner, filter.ViewerID, containsPattern(filter.Query))
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	return videos, nil
}

// Update persists changes to the editable fields of a video. Duration is
// written only by UpdateDuration.
func (r *VideoRepository) Update(ctx context.Context, video *model.Video) error {
	const query = `
		UPDATE videos
		SET title = $2, description = $3, thumbnail_url = $4, updated_at = $5
		WHERE id = $1
	`

	observe(metrics.DBQueryUpdate, metrics.TableVideos)
	tag, err := r.db.Exec(ctx, query,
		video.ID,
		video.Title,
		video.Description,
		video.ThumbnailURL,
		video.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update video: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrVideoNotFound
	}

	return nil
}

// UpdateDuration updates only the duration of a video.
func (r *VideoRepository) UpdateDuration(ctx context.Context, id uuid.UUID, seconds float64) error {
	const query = `
		UPDATE videos
		SET duration = $2, updated_at = $3
		WHERE id = $1
	`

	observe(metrics.DBQueryUpdate, metrics.TableVideos)
	tag, err := r.db.Exec(ctx, query, id, seconds, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update video duration: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrVideoNotFound
	}

	return nil
}

// TogglePublished flips is_published and returns the new value.
func (r *VideoRepository) TogglePublished(ctx context.Context, id uuid.UUID) (bool, error) {
	const query = `
		UPDATE videos
		SET is_published = NOT is_published, updated_at = $2
		WHERE id = $1
		RETURNING is_published
	`

	observe(metrics.DBQueryUpdate, metrics.TableVideos)
	var published bool
	if err := r.db.QueryRow(ctx, query, id, time.Now()).Scan(&published); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, repository.ErrVideoNotFound
		}
		return false, fmt.Errorf("failed to toggle video publish state: %w", err)
	}

	return published, nil
}

// IncrementViews adds one view to a video viewerID may see and returns the new count.
func (r *VideoRepository) IncrementViews(ctx context.Context, id, viewerID uuid.UUID) (int64, error) {
	const query = `
		UPDATE videos SET views = views + 1
		WHERE id = $1 AND (is_published OR owner_id = $2)
		RETURNING views
	`

	observe(metrics.DBQueryUpdate, metrics.TableVideos)
	var views int64
	if err := r.db.QueryRow(ctx, query, id, viewerID).Scan(&views); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, repository.ErrVideoNotFound
		}
		return 0, fmt.Errorf("failed to increment video views: %w", err)
	}

	return views, nil
}

// Delete removes the video row.
func (r *VideoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM videos WHERE id = $1`

	observe(metrics.DBQueryDelete, metrics.TableVideos)
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrVideoNotFound
	}

	return nil
}

func (r *VideoRepository) queryVideos(ctx context.Context, query string, args ...any) ([]*model.Video, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var videos []*model.Video
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating videos: %w", err)
	}

	return videos, nil
}

// scanVideo scans a single row into a Video model. pgx.Rows satisfies pgx.Row.
func scanVideo(row pgx.Row) (*model.Video, error) {
	var video model.Video
	err := row.Scan(
		&video.ID,
		&video.OwnerID,
		&video.Title,
		&video.Description,
		&video.VideoURL,
		&video.ThumbnailURL,
		&video.Duration,
		&video.Views,
		&video.IsPublished,
		&video.CreatedAt,
		&video.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// Compile-time verification that VideoRepository implements repository.VideoRepository.
var _ repository.VideoRepository = (*VideoRepository)(nil)
