package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hszk-dev/gotube/internal/domain/model"
)

// UserRepository provides read access to user profiles.
// Users are issued by the identity provider; Create exists for seeding.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error

	// GetByID returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// GetByIDs returns the users that exist among ids, keyed by id.
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.User, error)
}

// SubscriptionRepository reads the external (channel, subscriber) relation.
type SubscriptionRepository interface {
	// Stats returns subscriber counts for each channel and whether viewerID
	// subscribes to it. Channels without subscribers are present with zero values.
	Stats(ctx context.Context, channelIDs []uuid.UUID, viewerID uuid.UUID) (map[uuid.UUID]model.SubscriptionStats, error)
}
