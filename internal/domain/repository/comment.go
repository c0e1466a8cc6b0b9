package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hszk-dev/gotube/internal/domain/model"
)

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error

	// GetByID returns nil and ErrCommentNotFound if the comment does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)

	// GetLocked is GetByID under a row lock.
	GetLocked(ctx context.Context, id uuid.UUID, mode LockMode) (*model.Comment, error)

	// ListByVideo returns all comments on a video, newest first.
	ListByVideo(ctx context.Context, videoID uuid.UUID) ([]*model.Comment, error)

	// Update persists a content change. Returns ErrCommentNotFound if absent.
	Update(ctx context.Context, comment *model.Comment) error

	// Delete removes one comment. Returns ErrCommentNotFound if absent.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByVideo removes every comment on a video and returns their ids.
	DeleteByVideo(ctx context.Context, videoID uuid.UUID) ([]uuid.UUID, error)
}

// TweetRepository defines persistence operations for tweets.
type TweetRepository interface {
	Create(ctx context.Context, tweet *model.Tweet) error

	// GetByID returns nil and ErrTweetNotFound if the tweet does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Tweet, error)

	// GetLocked is GetByID under a row lock.
	GetLocked(ctx context.Context, id uuid.UUID, mode LockMode) (*model.Tweet, error)

	// ListByOwner returns all tweets of a user, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Tweet, error)

	Update(ctx context.Context, tweet *model.Tweet) error
	Delete(ctx context.Context, id uuid.UUID) error
}
