package repository

import "context"

// LockMode is the row lock taken by a GetLocked read. The lock is held until
// the surrounding WithinTx commits; outside a transaction it is released as
// soon as the read returns.
type LockMode int

const (
	// LockShare keeps the row from being updated or deleted. Writes that
	// insert a dependent of the row take it.
	LockShare LockMode = iota + 1
	// LockUpdate excludes every other lock. Cascades take it on their root.
	LockUpdate
)

// Store is the entity store handle passed into every service.
// Implementations should be provided by the infrastructure layer (e.g., PostgreSQL).
type Store interface {
	Users() UserRepository
	Videos() VideoRepository
	Comments() CommentRepository
	Tweets() TweetRepository
	Likes() LikeRepository
	Playlists() PlaylistRepository
	Subscriptions() SubscriptionRepository

	// WithinTx runs fn against a transaction-scoped Store.
	// Everything fn does is committed together, or rolled back if fn
	// returns an error or ctx is cancelled. Nested calls join the outer transaction.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
