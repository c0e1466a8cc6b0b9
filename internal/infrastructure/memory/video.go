package memory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/domain/repository"
)

type videoRepository struct{ s *Store }

func (r videoRepository) Create(ctx context.Context, video *model.Video) error {
	return r.s.write(ctx, func(d *data) error {
		if _, ok := d.videos[video.ID]; ok {
			return repository.ErrDuplicate
		}
		d.videos[video.ID] = row[model.Video]{v: *video, seq: d.next()}
		return nil
	})
}

func (r videoRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	var video model.Video
	err := r.s.read(ctx, func(d *data) error {
		rw, ok := d.videos[id]
		if !ok {
			return repository.ErrVideoNotFound
		}
		video = rw.v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// GetLocked needs no row lock: transactions already run one at a time.
func (r videoRepository) GetLocked(ctx context.Context, id uuid.UUID, _ repository.LockMode) (*model.Video, error) {
	return r.GetByID(ctx, id)
}

func (r videoRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Video, error) {
	out := make(map[uuid.UUID]*model.Video, len(ids))
	err := r.s.read(ctx, func(d *data) error {
		for _, id := range ids {
			if rw, ok := d.videos[id]; ok {
				v := rw.v
				out[id] = &v
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r videoRepository) List(ctx context.Context, filter repository.VideoFilter) ([]*model.Video, error) {
	var rows []row[model.Video]
	query := strings.ToLower(strings.TrimSpace(filter.Query))

	err := r.s.read(ctx, func(d *data) error {
		for _, rw := range d.videos {
			v := rw.v
			if filter.OwnerID != uuid.Nil && v.OwnerID != filter.OwnerID {
				continue
			}
			if !v.VisibleTo(filter.ViewerID) {
				continue
			}
			if query != "" &&
				!strings.Contains(strings.ToLower(v.Title), query) &&
				!strings.Contains(strings.ToLower(v.Description), query) {
				continue
			}
			rows = append(rows, rw)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	newestFirst(rows, func(v model.Video) time.Time { return v.CreatedAt })
	return values(rows), nil
}

func (r videoRepository) Update(ctx context.Context, video *model.Video) error {
	return r.modify(ctx, video.ID, func(v *model.Video) {
		v.Title = video.Title
		v.Description = video.Description
		v.ThumbnailURL = video.ThumbnailURL
		v.UpdatedAt = video.UpdatedAt
	})
}

func (r videoRepository) UpdateDuration(ctx context.Context, id uuid.UUID, seconds float64) error {
	return r.modify(ctx, id, func(v *model.Video) {
		v.Duration = seconds
		v.UpdatedAt = time.Now()
	})
}

func (r videoRepository) TogglePublished(ctx context.Context, id uuid.UUID) (bool, error) {
	var published bool
	err := r.modify(ctx, id, func(v *model.Video) {
		v.IsPublished = !v.IsPublished
		v.UpdatedAt = time.Now()
		published = v.IsPublished
	})
	return published, err
}

func (r videoRepository) IncrementViews(ctx context.Context, id, viewerID uuid.UUID) (int64, error) {
	var views int64
	err := r.s.write(ctx, func(d *data) error {
		rw, ok := d.videos[id]
		if !ok || !rw.v.VisibleTo(viewerID) {
			return repository.ErrVideoNotFound
		}
		rw.v.Views++
		views = rw.v.Views
		d.videos[id] = rw
		return nil
	})
	return views, err
}

func (r videoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.s.write(ctx, func(d *data) error {
		if _, ok := d.videos[id]; !ok {
			return repository.ErrVideoNotFound
		}
		delete(d.videos, id)
		return nil
	})
}

func (r videoRepository) modify(ctx context.Context, id uuid.UUID, fn func(v *model.Video)) error {
	return r.s.write(ctx, func(d *data) error {
		rw, ok := d.videos[id]
		if !ok {
			return repository.ErrVideoNotFound
		}
		fn(&rw.v)
		d.videos[id] = rw
		return nil
	})
}
