package memory

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/domain/repository"
)

type playlistRepository struct{ s *Store }

func (r playlistRepository) Create(ctx context.Context, playlist *model.Playlist) error {
	return r.s.write(ctx, func(d *data) error {
		if _, ok := d.playlists[playlist.ID]; ok {
			return repository.ErrDuplicate
		}
		p := *playlist
		p.VideoIDs = slices.Clone(playlist.VideoIDs)
		d.playlists[p.ID] = row[model.Playlist]{v: p, seq: d.next()}
		return nil
	})
}

func (r playlistRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Playlist, error) {
	var playlist model.Playlist
	err := r.s.read(ctx, func(d *data) error {
		rw, ok := d.playlists[id]
		if !ok {
			return repository.ErrPlaylistNotFound
		}
		playlist = rw.v
		playlist.VideoIDs = slices.Clone(rw.v.VideoIDs)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &playlist, nil
}

func (r playlistRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Playlist, error) {
	var rows []row[model.Playlist]
	err := r.s.read(ctx, func(d *data) error {
		for _, rw := range d.playlists {
			if rw.v.OwnerID == ownerID {
				rw.v.VideoIDs = slices.Clone(rw.v.VideoIDs)
				rows = append(rows, rw)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	newestFirst(rows, func(p model.Playlist) time.Time { return p.CreatedAt })
	return values(rows), nil
}

func (r playlistRepository) Update(ctx context.Context, playlist *model.Playlist) error {
	return r.modify(ctx, playlist.ID, func(p *model.Playlist) bool {
		p.Name = playlist.Name
		p.Description = playlist.Description
		p.UpdatedAt = playlist.UpdatedAt
		return true
	})
}

func (r playlistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.s.write(ctx, func(d *data) error {
		if _, ok := d.playlists[id]; !ok {
			return repository.ErrPlaylistNotFound
		}
		delete(d.playlists, id)
		return nil
	})
}

func (r playlistRepository) AddVideo(ctx context.Context, playlistID, videoID uuid.UUID) (bool, error) {
	var added bool
	err := r.modify(ctx, playlistID, func(p *model.Playlist) bool {
		added = p.AddVideo(videoID)
		return added
	})
	return added, err
}

func (r playlistRepository) RemoveVideo(ctx context.Context, playlistID, videoID uuid.UUID) (bool, error) {
	var removed bool
	err := r.modify(ctx, playlistID, func(p *model.Playlist) bool {
		removed = p.RemoveVideo(videoID)
		return removed
	})
	return removed, err
}

func (r playlistRepository) RemoveVideoEverywhere(ctx context.Context, videoID uuid.UUID) (int64, error) {
	var n int64
	err := r.s.write(ctx, func(d *data) error {
		for id, rw := range d.playlists {
			if !rw.v.Contains(videoID) {
				continue
			}
			rw.v.VideoIDs = slices.DeleteFunc(slices.Clone(rw.v.VideoIDs), func(v uuid.UUID) bool { return v == videoID })
			rw.v.UpdatedAt = time.Now()
			d.playlists[id] = rw
			n++
		}
		return nil
	})
	return n, err
}

// modify applies fn to a private copy of the playlist and stores it if fn reports a change.
func (r playlistRepository) modify(ctx context.Context, id uuid.UUID, fn func(p *model.Playlist) bool) error {
	return r.s.write(ctx, func(d *data) error {
		rw, ok := d.playlists[id]
		if !ok {
			return repository.ErrPlaylistNotFound
		}
		rw.v.VideoIDs = slices.Clone(rw.v.VideoIDs)
		if fn(&rw.v) {
			d.playlists[id] = rw
		}
		return nil
	})
}
