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

const playlistColumns = `id, owner_id, name, description, created_at, updated_at`

// PlaylistRepository implements repository.PlaylistRepository using PostgreSQL.
// Membership lives in playlist_videos, keyed by (playlist_id, video_id) and
// ordered by an identity position column.
type PlaylistRepository struct {
	db DBTX
}

// NewPlaylistRepository creates a new PlaylistRepository instance.
func NewPlaylistRepository(db DBTX) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

func (r *PlaylistRepository) Create(ctx context.Context, playlist *model.Playlist) error {
	const query = `
		INSERT INTO playlists (` + playlistColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	observe(metrics.DBQueryInsert, metrics.TablePlaylists)
	_, err := r.db.Exec(ctx, query,
		playlist.ID,
		playlist.OwnerID,
		playlist.Name,
		playlist.Description,
		playlist.CreatedAt,
		playlist.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create playlist: %w", err)
	}

	return nil
}

func (r *PlaylistRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Playlist, error) {
	const query = `SELECT ` + playlistColumns + ` FROM playlists WHERE id = $1`

	observe(metrics.DBQuerySelect, metrics.TablePlaylists)
	playlist, err := scanPlaylist(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrPlaylistNotFound
		}
		return nil, fmt.Errorf("failed to get playlist by ID: %w", err)
	}

	members, err := r.members(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if ids, ok := members[id]; ok {
		playlist.VideoIDs = ids
	}

	return playlist, nil
}

func (r *PlaylistRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Playlist, error) {
	const query = `
		SELECT ` + playlistColumns + `
		FROM playlists
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`

	observe(metrics.DBQuerySelect, metrics.TablePlaylists)
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists by owner ID: %w", err)
	}
	defer rows.Close()

	var (
		playlists []*model.Playlist
		ids       []uuid.UUID
	)
	for rows.Next() {
		playlist, err := scanPlaylist(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		playlists = append(playlists, playlist)
		ids = append(ids, playlist.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating playlists: %w", err)
	}
	rows.Close()

	if len(ids) == 0 {
		return playlists, nil
	}

	members, err := r.members(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range playlists {
		if videoIDs, ok := members[p.ID]; ok {
			p.VideoIDs = videoIDs
		}
	}

	return playlists, nil
}

func (r *PlaylistRepository) Update(ctx context.Context, playlist *model.Playlist) error {
	const query = `
		UPDATE playlists
		SET name = $2, description = $3, updated_at = $4
		WHERE id = $1
	`

	observe(metrics.DBQueryUpdate, metrics.TablePlaylists)
	tag, err := r.db.Exec(ctx, query, playlist.ID, playlist.Name, playlist.Description, playlist.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update playlist: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrPlaylistNotFound
	}

	return nil
}

// Delete removes the playlist. Membership rows go with it via ON DELETE CASCADE.
func (r *PlaylistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM playlists WHERE id = $1`

	observe(metrics.DBQueryDelete, metrics.TablePlaylists)
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrPlaylistNotFound
	}

	return nil
}

func (r *PlaylistRepository) AddVideo(ctx context.Context, playlistID, videoID uuid.UUID) (bool, error) {
	const query = `
		INSERT INTO playlist_videos (playlist_id, video_id)
		SELECT id, $2 FROM playlists WHERE id = $1
		ON CONFLICT (playlist_id, video_id) DO NOTHING
	`

	observe(metrics.DBQueryInsert, metrics.TablePlaylistVideos)
	tag, err := r.db.Exec(ctx, query, playlistID, videoID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, repository.ErrVideoNotFound
		}
		return false, fmt.Errorf("failed to add video to playlist: %w", err)
	}

	return r.settle(ctx, playlistID, tag.RowsAffected() > 0)
}

func (r *PlaylistRepository) RemoveVideo(ctx context.Context, playlistID, videoID uuid.UUID) (bool, error) {
	const query = `DELETE FROM playlist_videos WHERE playlist_id = $1 AND video_id = $2`

	observe(metrics.DBQueryDelete, metrics.TablePlaylistVideos)
	tag, err := r.db.Exec(ctx, query, playlistID, videoID)
	if err != nil {
		return false, fmt.Errorf("failed to remove video from playlist: %w", err)
	}

	return r.settle(ctx, playlistID, tag.RowsAffected() > 0)
}

func (r *PlaylistRepository) RemoveVideoEverywhere(ctx context.Context, videoID uuid.UUID) (int64, error) {
	const query = `DELETE FROM playlist_videos WHERE video_id = $1`

	observe(metrics.DBQueryDelete, metrics.TablePlaylistVideos)
	tag, err := r.db.Exec(ctx, query, videoID)
	if err != nil {
		return 0, fmt.Errorf("failed to remove video from playlists: %w", err)
	}

	return tag.RowsAffected(), nil
}

// settle finishes a membership change: a changed playlist gets its updated_at
// bumped, an unchanged one is checked for existence.
func (r *PlaylistRepository) settle(ctx context.Context, playlistID uuid.UUID, changed bool) (bool, error) {
	if changed {
		const touch = `UPDATE playlists SET updated_at = $2 WHERE id = $1`

		observe(metrics.DBQueryUpdate, metrics.TablePlaylists)
		if _, err := r.db.Exec(ctx, touch, playlistID, time.Now()); err != nil {
			return false, fmt.Errorf("failed to touch playlist: %w", err)
		}
		return true, nil
	}

	const exists = `SELECT EXISTS (SELECT 1 FROM playlists WHERE id = $1)`

	observe(metrics.DBQuerySelect, metrics.TablePlaylists)
	var found bool
	if err := r.db.QueryRow(ctx, exists, playlistID).Scan(&found); err != nil {
		return false, fmt.Errorf("failed to check playlist existence: %w", err)
	}
	if !found {
		return false, repository.ErrPlaylistNotFound
	}

	return false, nil
}

// members loads the ordered video ids of each playlist in ids.
func (r *PlaylistRepository) members(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	const query = `
		SELECT playlist_id, video_id
		FROM playlist_videos
		WHERE playlist_id = ANY($1)
		ORDER BY position
	`

	observe(metrics.DBQuerySelect, metrics.TablePlaylistVideos)
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist videos: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]uuid.UUID, len(ids))
	for rows.Next() {
		var playlistID, videoID uuid.UUID
		if err := rows.Scan(&playlistID, &videoID); err != nil {
			return nil, fmt.Errorf("failed to scan playlist video: %w", err)
		}
		out[playlistID] = append(out[playlistID], videoID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating playlist videos: %w", err)
	}

	return out, nil
}

func scanPlaylist(row pgx.Row) (*model.Playlist, error) {
	p := model.Playlist{VideoIDs: []uuid.UUID{}}
	if err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

var _ repository.PlaylistRepository = (*PlaylistRepository)(nil)
