package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hszk-dev/gotube/internal/domain/model"
)

type likeRepository struct{ s *Store }

func keyOf(l *model.Like) likeKey {
	return likeKey{actor: l.LikedBy, kind: l.Target.Kind, target: l.Target.ID}
}

// Toggle runs under the store's write lock, so it can never observe a
// concurrent toggle and never returns ErrLikeRace.
func (r likeRepository) Toggle(ctx context.Context, like *model.Like) (bool, error) {
	var liked bool
	err := r.s.write(ctx, func(d *data) error {
		k := keyOf(like)
		if _, ok := d.likes[k]; ok {
			delete(d.likes, k)
			liked = false
			return nil
		}
		d.likes[k] = row[model.Like]{v: *like, seq: d.next()}
		liked = true
		return nil
	})
	return liked, err
}

func (r likeRepository) CountByTargets(ctx context.Context, kind model.TargetKind, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	want := toSet(ids)
	out := make(map[uuid.UUID]int64, len(ids))
	err := r.s.read(ctx, func(d *data) error {
		for k := range d.likes {
			if k.kind == kind {
				if _, ok := want[k.target]; ok {
					out[k.target]++
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r likeRepository) LikedTargets(ctx context.Context, actorID uuid.UUID, kind model.TargetKind, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	out := make(map[uuid.UUID]bool, len(ids))
	err := r.s.read(ctx, func(d *data) error {
		for _, id := range ids {
			if _, ok := d.likes[likeKey{actor: actorID, kind: kind, target: id}]; ok {
				out[id] = true
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r likeRepository) ListByActor(ctx context.Context, actorID uuid.UUID, kind model.TargetKind) ([]*model.Like, error) {
	var rows []row[model.Like]
	err := r.s.read(ctx, func(d *data) error {
		for k, rw := range d.likes {
			if k.actor == actorID && k.kind == kind {
				rows = append(rows, rw)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	newestFirst(rows, func(l model.Like) time.Time { return l.CreatedAt })
	return values(rows), nil
}

func (r likeRepository) DeleteByTargets(ctx context.Context, kind model.TargetKind, ids []uuid.UUID) (int64, error) {
	want := toSet(ids)
	var n int64
	err := r.s.write(ctx, func(d *data) error {
		for k := range d.likes {
			if k.kind != kind {
				continue
			}
			if _, ok := want[k.target]; ok {
				delete(d.likes, k)
				n++
			}
		}
		return nil
	})
	return n, err
}

func toSet(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
