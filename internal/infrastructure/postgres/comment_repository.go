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

const commentColumns = `id, video_id, owner_id, content, created_at, updated_at`

// CommentRepository implements repository.CommentRepository using PostgreSQL.
type CommentRepository struct {
	db DBTX
}

// NewCommentRepository creates a new CommentRepository instance.
func NewCommentRepository(db DBTX) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	const query = `
		INSERT INTO comments (` + commentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	observe(metrics.DBQueryInsert, metrics.TableComments)
	_, err := r.db.Exec(ctx, query,
		comment.ID,
		comment.VideoID,
		comment.OwnerID,
		comment.Content,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return repository.ErrVideoNotFound
		}
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	return r.get(ctx, id, 0)
}

func (r *CommentRepository) GetLocked(ctx context.Context, id uuid.UUID, mode repository.LockMode) (*model.Comment, error) {
	return r.get(ctx, id, mode)
}

func (r *CommentRepository) get(ctx context.Context, id uuid.UUID, mode repository.LockMode) (*model.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1` + lockClause(mode)

	observe(metrics.DBQuerySelect, metrics.TableComments)
	comment, err := scanComment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to get comment by ID: %w", err)
	}

	return comment, nil
}

func (r *CommentRepository) ListByVideo(ctx context.Context, videoID uuid.UUID) ([]*model.Comment, error) {
	const query = `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE video_id = $1
		ORDER BY created_at DESC, id DESC
	`

	observe(metrics.DBQuerySelect, metrics.TableComments)
	rows, err := r.db.Query(ctx, query, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments by video ID: %w", err)
	}
	defer rows.Close()

	var comments []*model.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}

	return comments, nil
}

func (r *CommentRepository) Update(ctx context.Context, comment *model.Comment) error {
	const query = `UPDATE comments SET content = $2, updated_at = $3 WHERE id = $1`

	observe(metrics.DBQueryUpdate, metrics.TableComments)
	tag, err := r.db.Exec(ctx, query, comment.ID, comment.Content, comment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrCommentNotFound
	}

	return nil
}

func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM comments WHERE id = $1`

	observe(metrics.DBQueryDelete, metrics.TableComments)
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrCommentNotFound
	}

	return nil
}

// DeleteByVideo removes every comment on a video and returns their ids.
func (r *CommentRepository) DeleteByVideo(ctx context.Context, videoID uuid.UUID) ([]uuid.UUID, error) {
	const query = `DELETE FROM comments WHERE video_id = $1 RETURNING id`

	observe(metrics.DBQueryDelete, metrics.TableComments)
	rows, err := r.db.Query(ctx, query, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete comments by video ID: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("failed to collect deleted comment IDs: %w", err)
	}

	return ids, nil
}

func scanComment(row pgx.Row) (*model.Comment, error) {
	var c model.Comment
	if err := row.Scan(&c.ID, &c.VideoID, &c.OwnerID, &c.Content, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

const tweetColumns = `id, owner_id, content, created_at, updated_at`

// TweetRepository implements repository.TweetRepository using PostgreSQL.
type TweetRepository struct {
	db DBTX
}

// NewTweetRepository creates a new TweetRepository instance.
func NewTweetRepository(db DBTX) *TweetRepository {
	return &TweetRepository{db: db}
}

func (r *TweetRepository) Create(ctx context.Context, tweet *model.Tweet) error {
	const query = `
		INSERT INTO tweets (` + tweetColumns + `)
		VALUES ($1, $2, $3, $4, $5)
	`

	observe(metrics.DBQueryInsert, metrics.TableTweets)
	_, err := r.db.Exec(ctx, query, tweet.ID, tweet.OwnerID, tweet.Content, tweet.CreatedAt, tweet.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create tweet: %w", err)
	}

	return nil
}

func (r *TweetRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Tweet, error) {
	return r.get(ctx, id, 0)
}

func (r *TweetRepository) GetLocked(ctx context.Context, id uuid.UUID, mode repository.LockMode) (*model.Tweet, error) {
	return r.get(ctx, id, mode)
}

func (r *TweetRepository) get(ctx context.Context, id uuid.UUID, mode repository.LockMode) (*model.Tweet, error) {
	query := `SELECT ` + tweetColumns + ` FROM tweets WHERE id = $1` + lockClause(mode)

	observe(metrics.DBQuerySelect, metrics.TableTweets)
	tweet, err := scanTweet(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrTweetNotFound
		}
		return nil, fmt.Errorf("failed to get tweet by ID: %w", err)
	}

	return tweet, nil
}

func (r *TweetRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Tweet, error) {
	const query = `
		SELECT ` + tweetColumns + `
		FROM tweets
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`

	observe(metrics.DBQuerySelect, metrics.TableTweets)
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tweets by owner ID: %w", err)
	}
	defer rows.Close()

	var tweets []*model.Tweet
	for rows.Next() {
		tweet, err := scanTweet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tweet: %w", err)
		}
		tweets = append(tweets, tweet)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tweets: %w", err)
	}

	return tweets, nil
}

func (r *TweetRepository) Update(ctx context.Context, tweet *model.Tweet) error {
	const query = `UPDATE tweets SET content = $2, updated_at = $3 WHERE id = $1`

	observe(metrics.DBQueryUpdate, metrics.TableTweets)
	tag, err := r.db.Exec(ctx, query, tweet.ID, tweet.Content, tweet.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update tweet: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrTweetNotFound
	}

	return nil
}

func (r *TweetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM tweets WHERE id = $1`

	observe(metrics.DBQueryDelete, metrics.TableTweets)
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete tweet: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrTweetNotFound
	}

	return nil
}

func scanTweet(row pgx.Row) (*model.Tweet, error) {
	var t model.Tweet
	if err := row.Scan(&t.ID, &t.OwnerID, &t.Content, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

var (
	_ repository.CommentRepository = (*CommentRepository)(nil)
	_ repository.TweetRepository   = (*TweetRepository)(nil)
)
