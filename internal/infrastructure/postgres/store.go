package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hszk-dev/gotube/internal/domain/repository"
	"github.com/hszk-dev/gotube/internal/infrastructure/metrics"
)

// DBTX is an interface that abstracts pgxpool.Pool and pgx.Tx for testability.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxStarter is a DBTX that can open transactions, such as pgxpool.Pool.
type TxStarter interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store implements repository.Store on top of PostgreSQL.
type Store struct {
	db DBTX
	// pool is nil for a transaction-scoped Store.
	pool TxStarter
}

// NewStore creates a Store that runs statements on pool.
func NewStore(pool TxStarter) *Store {
	return &Store{db: pool, pool: pool}
}

func (s *Store) Users() repository.UserRepository         { return NewUserRepository(s.db) }
func (s *Store) Videos() repository.VideoRepository       { return NewVideoRepository(s.db) }
func (s *Store) Comments() repository.CommentRepository   { return NewCommentRepository(s.db) }
func (s *Store) Tweets() repository.TweetRepository       { return NewTweetRepository(s.db) }
func (s *Store) Likes() repository.LikeRepository         { return NewLikeRepository(s.db) }
func (s *Store) Playlists() repository.PlaylistRepository { return NewPlaylistRepository(s.db) }

func (s *Store) Subscriptions() repository.SubscriptionRepository {
	return NewSubscriptionRepository(s.db)
}

// WithinTx runs fn inside a single database transaction.
// Calls on a transaction-scoped Store reuse the open transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.pool == nil {
		return fn(s)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&Store{db: tx}); err != nil {
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return errors.Join(err, fmt.Errorf("failed to roll back transaction: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// lockClause is the row-locking suffix for a single-row SELECT.
func lockClause(mode repository.LockMode) string {
	switch mode {
	case repository.LockShare:
		return " FOR SHARE"
	case repository.LockUpdate:
		return " FOR UPDATE"
	default:
		return ""
	}
}

func observe(queryType, table string) {
	metrics.DBQueriesTotal.WithLabelValues(queryType, table).Inc()
}

// containsPattern builds an ILIKE pattern matching q anywhere, with wildcards in q escaped.
func containsPattern(q string) string {
	q = strings.TrimSpace(q)
	if q == "" {
		return ""
	}
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%"
}

// nullString returns nil for empty strings, otherwise returns a pointer to the string.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var _ repository.Store = (*Store)(nil)
