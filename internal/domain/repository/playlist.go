package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hszk-dev/gotube/internal/domain/model"
)

// PlaylistRepository persists playlists and their ordered video membership.
type PlaylistRepository interface {
	Create(ctx context.Context, playlist *model.Playlist) error

	// GetByID loads the playlist with VideoIDs in insertion order.
	// Returns nil and ErrPlaylistNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Playlist, error)

	// ListByOwner returns all playlists of a user with their VideoIDs, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Playlist, error)

	// Update persists name and description changes.
	Update(ctx context.Context, playlist *model.Playlist) error

	// Delete removes the playlist and its membership rows.
	Delete(ctx context.Context, id uuid.UUID) error

	// AddVideo appends videoID if absent (set-union) and reports whether it was added.
	AddVideo(ctx context.Context, playlistID, videoID uuid.UUID) (bool, error)

	// RemoveVideo removes videoID if present (set-difference) and reports whether it was removed.
	RemoveVideo(ctx context.Context, playlistID, videoID uuid.UUID) (bool, error)

	// RemoveVideoEverywhere drops videoID from every playlist.
	RemoveVideoEverywhere(ctx context.Context, videoID uuid.UUID) (int64, error)
}
