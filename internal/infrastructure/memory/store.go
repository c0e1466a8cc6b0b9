// Package memory provides an in-process entity store with the same
// semantics as the PostgreSQL store. It backs tests and local runs.
package memory

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/domain/repository"
)

type likeKey struct {
	actor  uuid.UUID
	kind   model.TargetKind
	target uuid.UUID
}

type subscriptionKey struct {
	channel    uuid.UUID
	subscriber uuid.UUID
}

// row pairs a record with its insertion sequence, used to break CreatedAt ties.
type row[T any] struct {
	v   T
	seq int64
}

type data struct {
	seq           int64
	users         map[uuid.UUID]model.User
	videos        map[uuid.UUID]row[model.Video]
	comments      map[uuid.UUID]row[model.Comment]
	tweets        map[uuid.UUID]row[model.Tweet]
	likes         map[likeKey]row[model.Like]
	playlists     map[uuid.UUID]row[model.Playlist]
	subscriptions map[subscriptionKey]struct{}
}

func newData() *data {
	return &data{
		users:         make(map[uuid.UUID]model.User),
		videos:        make(map[uuid.UUID]row[model.Video]),
		comments:      make(map[uuid.UUID]row[model.Comment]),
		tweets:        make(map[uuid.UUID]row[model.Tweet]),
		likes:         make(map[likeKey]row[model.Like]),
		playlists:     make(map[uuid.UUID]row[model.Playlist]),
		subscriptions: make(map[subscriptionKey]struct{}),
	}
}

func (d *data) clone() *data {
	c := &data{
		seq:           d.seq,
		users:         maps.Clone(d.users),
		videos:        maps.Clone(d.videos),
		comments:      maps.Clone(d.comments),
		tweets:        maps.Clone(d.tweets),
		likes:         maps.Clone(d.likes),
		playlists:     make(map[uuid.UUID]row[model.Playlist], len(d.playlists)),
		subscriptions: maps.Clone(d.subscriptions),
	}
	for id, r := range d.playlists {
		r.v.VideoIDs = slices.Clone(r.v.VideoIDs)
		c.playlists[id] = r
	}
	return c
}

func (d *data) next() int64 {
	d.seq++
	return d.seq
}

// Store is an in-memory repository.Store.
//
// Writes outside a transaction are serialized with transactions, so a
// committed transaction never overwrites a concurrent write.
type Store struct {
	writeMu sync.Mutex
	mu      sync.RWMutex
	d       *data
	inTx    bool
}

// Compile-time verification that Store implements repository.Store.
var _ repository.Store = (*Store)(nil)

// New creates an empty Store.
func New() *Store {
	return &Store{d: newData()}
}

func (s *Store) Users() repository.UserRepository { return userRepository{s} }
func (s *Store) Videos() repository.VideoRepository { return videoRepository{s} }
func (s *Store) Comments() repository.CommentRepository { return commentRepository{s} }
func (s *Store) Tweets() repository.TweetRepository { return tweetRepository{s} }
func (s *Store) Likes() repository.LikeRepository { return likeRepository{s} }
func (s *Store) Playlists() repository.PlaylistRepository { return playlistRepository{s} }
func (s *Store) Subscriptions() repository.SubscriptionRepository { return subscriptionRepository{s} }

// WithinTx runs fn against a private copy of the data and publishes the
// copy only if fn succeeds and ctx is still live.
func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	tx := &Store{d: s.d.clone(), inTx: true}
	s.mu.RUnlock()

	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.d = tx.d
	s.mu.Unlock()
	return nil
}

// Subscribe records that subscriberID follows channelID.
// Subscriptions are owned by another service; this exists for seeding.
func (s *Store) Subscribe(channelID, subscriberID uuid.UUID) {
	_ = s.write(context.Background(), func(d *data) error {
		d.subscriptions[subscriptionKey{channel: channelID, subscriber: subscriberID}] = struct{}{}
		return nil
	})
}

func (s *Store) read(ctx context.Context, fn func(d *data) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.d)
}

func (s *Store) write(ctx context.Context, fn func(d *data) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.inTx {
		s.writeMu.Lock()
		defer s.writeMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.d)
}

// newestFirst orders rows by CreatedAt descending, then by insertion order.
func newestFirst[T any](rows []row[T], createdAt func(T) time.Time) {
	slices.SortFunc(rows, func(a, b row[T]) int {
		return cmp.Or(createdAt(b.v).Compare(createdAt(a.v)), cmp.Compare(b.seq, a.seq))
	})
}

func values[T any](rows []row[T]) []*T {
	out := make([]*T, len(rows))
	for i := range rows {
		v := rows[i].v
		out[i] = &v
	}
	return out
}
