package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/domain/repository"
)

// ListPlaylistsInput selects a page of a user's playlists.
type ListPlaylistsInput struct {
	OwnerID  uuid.UUID
	ViewerID uuid.UUID
	Sort     SortSpec
	Page     PageRequest
}

// PlaylistService defines playlist operations.
// Membership changes are owner-only: adding is a set-union and removing a
// set-difference, so repeating either is a no-op.
type PlaylistService interface {
	CreatePlaylist(ctx context.Context, actorID uuid.UUID, name, description string) (*model.PlaylistView, error)

	// ListUserPlaylists returns NotFound for an unknown user.
	ListUserPlaylists(ctx context.Context, input ListPlaylistsInput) (*Page[model.PlaylistSummary], error)

	GetPlaylist(ctx context.Context, playlistID, viewerID uuid.UUID) (*model.PlaylistView, error)
	AddVideo(ctx context.Context, actorID, playlistID, videoID uuid.UUID) (*model.PlaylistView, error)
	RemoveVideo(ctx context.Context, actorID, playlistID, videoID uuid.UUID) (*model.PlaylistView, error)

	// UpdatePlaylist changes name and/or description; at least one is required.
	UpdatePlaylist(ctx context.Context, actorID, playlistID uuid.UUID, name, description string) (*model.PlaylistView, error)

	DeletePlaylist(ctx context.Context, actorID, playlistID uuid.UUID) error
}

type playlistService struct {
	store    repository.Store
	composer *Composer
	cascade  *CascadeCoordinator
}

// NewPlaylistService creates a new PlaylistService instance.
func NewPlaylistService(store repository.Store, cascade *CascadeCoordinator) PlaylistService {
	return &playlistService{
		store:    store,
		composer: NewComposer(store),
		cascade:  cascade,
	}
}

func (s *playlistService) CreatePlaylist(ctx context.Context, actorID uuid.UUID, name, description string) (*model.PlaylistView, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}

	playlist, err := model.NewPlaylist(actorID, name, description)
	if err != nil {
		return nil, translate(err)
	}

	if err := s.store.Playlists().Create(ctx, playlist); err != nil {
		return nil, translate(fmt.Errorf("create playlist: %w", err))
	}
	return s.compose(ctx, playlist, actorID)
}

func (s *playlistService) ListUserPlaylists(ctx context.Context, input ListPlaylistsInput) (*Page[model.PlaylistSummary], error) {
	page, err := prepareListing(playlistSortKeys, input.Sort, playlistSummaryID, input.Page)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.Users().GetByID(ctx, input.OwnerID); err != nil {
		return nil, translate(err)
	}

	playlists, err := s.store.Playlists().ListByOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, translate(fmt.Errorf("list playlists: %w", err))
	}

	summaries, err := s.composer.PlaylistSummaries(ctx, playlists, input.ViewerID)
	if err != nil {
		return nil, translate(err)
	}
	return page(summaries)
}

func (s *playlistService) GetPlaylist(ctx context.Context, playlistID, viewerID uuid.UUID) (*model.PlaylistView, error) {
	playlist, err := s.store.Playlists().GetByID(ctx, playlistID)
	if err != nil {
		return nil, translate(err)
	}
	return s.compose(ctx, playlist, viewerID)
}

func (s *playlistService) AddVideo(ctx context.Context, actorID, playlistID, videoID uuid.UUID) (*model.PlaylistView, error) {
	if _, err := s.authorize(ctx, actorID, playlistID); err != nil {
		return nil, err
	}

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, err := lockVisibleVideo(ctx, tx, videoID, actorID); err != nil {
			return err
		}
		if _, err := tx.Playlists().AddVideo(ctx, playlistID, videoID); err != nil {
			return fmt.Errorf("add video to playlist: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return s.reload(ctx, playlistID, actorID)
}

func (s *playlistService) RemoveVideo(ctx context.Context, actorID, playlistID, videoID uuid.UUID) (*model.PlaylistView, error) {
	if _, err := s.authorize(ctx, actorID, playlistID); err != nil {
		return nil, err
	}

	// Removing an absent video is not an error.
	if _, err := s.store.Playlists().RemoveVideo(ctx, playlistID, videoID); err != nil {
		return nil, translate(fmt.Errorf("remove video from playlist: %w", err))
	}
	return s.reload(ctx, playlistID, actorID)
}

func (s *playlistService) UpdatePlaylist(ctx context.Context, actorID, playlistID uuid.UUID, name, description string) (*model.PlaylistView, error) {
	playlist, err := s.authorize(ctx, actorID, playlistID)
	if err != nil {
		return nil, err
	}

	if err := playlist.Rename(name, description); err != nil {
		return nil, translate(err)
	}

	if err := s.store.Playlists().Update(ctx, playlist); err != nil {
		return nil, translate(fmt.Errorf("update playlist: %w", err))
	}
	return s.compose(ctx, playlist, actorID)
}

func (s *playlistService) DeletePlaylist(ctx context.Context, actorID, playlistID uuid.UUID) error {
	_, err := s.cascade.DeletePlaylist(ctx, actorID, playlistID)
	return err
}

func (s *playlistService) authorize(ctx context.Context, actorID, playlistID uuid.UUID) (*model.Playlist, error) {
	return authorizeOwned(ctx, actorID,
		func(ctx context.Context) (*model.Playlist, error) { return s.store.Playlists().GetByID(ctx, playlistID) },
		func(p *model.Playlist) uuid.UUID { return p.OwnerID },
	)
}

func (s *playlistService) reload(ctx context.Context, playlistID, viewerID uuid.UUID) (*model.PlaylistView, error) {
	playlist, err := s.store.Playlists().GetByID(ctx, playlistID)
	if err != nil {
		return nil, translate(err)
	}
	return s.compose(ctx, playlist, viewerID)
}

func (s *playlistService) compose(ctx context.Context, playlist *model.Playlist, viewerID uuid.UUID) (*model.PlaylistView, error) {
	view, err := s.composer.Playlist(ctx, playlist, viewerID)
	if err != nil {
		return nil, translate(err)
	}
	return view, nil
}
