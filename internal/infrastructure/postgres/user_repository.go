package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/domain/repository"
	"github.com/hszk-dev/gotube/internal/infrastructure/metrics"
)

const userColumns = `id, username, full_name, COALESCE(avatar_url, '')`

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	db DBTX
}

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	const query = `
		INSERT INTO users (id, username, full_name, avatar_url)
		VALUES ($1, $2, $3, $4)
	`

	observe(metrics.DBQueryInsert, metrics.TableUsers)
	_, err := r.db.Exec(ctx, query, user.ID, user.Username, user.FullName, nullString(user.AvatarURL))
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	observe(metrics.DBQuerySelect, metrics.TableUsers)
	var u model.User
	if err := r.db.QueryRow(ctx, query, id).Scan(&u.ID, &u.Username, &u.FullName, &u.AvatarURL); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return &u, nil
}

func (r *UserRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.User, error) {
	out := make(map[uuid.UUID]*model.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	const query = `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1)`

	observe(metrics.DBQuerySelect, metrics.TableUsers)
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query users by IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.FullName, &u.AvatarURL); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		out[u.ID] = &u
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return out, nil
}

// SubscriptionRepository implements repository.SubscriptionRepository using PostgreSQL.
type SubscriptionRepository struct {
	db DBTX
}

// NewSubscriptionRepository creates a new SubscriptionRepository instance.
func NewSubscriptionRepository(db DBTX) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Stats(ctx context.Context, channelIDs []uuid.UUID, viewerID uuid.UUID) (map[uuid.UUID]model.SubscriptionStats, error) {
	out := make(map[uuid.UUID]model.SubscriptionStats, len(channelIDs))
	if len(channelIDs) == 0 {
		return out, nil
	}
	for _, id := range channelIDs {
		out[id] = model.SubscriptionStats{}
	}

	const query = `
		SELECT channel_id, COUNT(*), BOOL_OR(subscriber_id = $2)
		FROM subscriptions
		WHERE channel_id = ANY($1)
		GROUP BY channel_id
	`

	observe(metrics.DBQuerySelect, metrics.TableSubscriptions)
	rows, err := r.db.Query(ctx, query, channelIDs, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscription stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id    uuid.UUID
			stats model.SubscriptionStats
		)
		if err := rows.Scan(&id, &stats.SubscribersCount, &stats.IsSubscribed); err != nil {
			return nil, fmt.Errorf("failed to scan subscription stats: %w", err)
		}
		out[id] = stats
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscription stats: %w", err)
	}

	return out, nil
}

var (
	_ repository.UserRepository         = (*UserRepository)(nil)
	_ repository.SubscriptionRepository = (*SubscriptionRepository)(nil)
)
