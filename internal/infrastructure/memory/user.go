package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/domain/repository"
)

type userRepository struct{ s *Store }

func (r userRepository) Create(ctx context.Context, user *model.User) error {
	return r.s.write(ctx, func(d *data) error {
		if _, ok := d.users[user.ID]; ok {
			return repository.ErrDuplicate
		}
		for _, u := range d.users {
			if u.Username == user.Username {
				return repository.ErrDuplicate
			}
		}
		d.users[user.ID] = *user
		return nil
	})
}

func (r userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.s.read(ctx, func(d *data) error {
		u, ok := d.users[id]
		if !ok {
			return repository.ErrUserNotFound
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r userRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.User, error) {
	out := make(map[uuid.UUID]*model.User, len(ids))
	err := r.s.read(ctx, func(d *data) error {
		for _, id := range ids {
			if u, ok := d.users[id]; ok {
				out[id] = &u
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

type subscriptionRepository struct{ s *Store }

func (r subscriptionRepository) Stats(ctx context.Context, channelIDs []uuid.UUID, viewerID uuid.UUID) (map[uuid.UUID]model.SubscriptionStats, error) {
	out := make(map[uuid.UUID]model.SubscriptionStats, len(channelIDs))
	err := r.s.read(ctx, func(d *data) error {
		for _, id := range channelIDs {
			out[id] = model.SubscriptionStats{}
		}
		for k := range d.subscriptions {
			stats, ok := out[k.channel]
			if !ok {
				continue
			}
			stats.SubscribersCount++
			if viewerID != uuid.Nil && k.subscriber == viewerID {
				stats.IsSubscribed = true
			}
			out[k.channel] = stats
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
