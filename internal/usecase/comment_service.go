package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/domain/repository"
)

// ListCommentsInput selects a page of a video's comments.
type ListCommentsInput struct {
	VideoID  uuid.UUID
	ViewerID uuid.UUID
	Sort     SortSpec
	Page     PageRequest
}

// CommentService defines comment operations.
type CommentService interface {
	ListVideoComments(ctx context.Context, input ListCommentsInput) (*Page[model.CommentView], error)

	// AddComment comments on a video visible to the actor.
	AddComment(ctx context.Context, actorID, videoID uuid.UUID, content string) (*model.CommentView, error)

	UpdateComment(ctx context.Context, actorID, commentID uuid.UUID, content string) (*model.CommentView, error)

	// DeleteComment removes the comment and the likes on it.
	DeleteComment(ctx context.Context, actorID, commentID uuid.UUID) error
}

type commentService struct {
	store    repository.Store
	videos   VideoReader
	composer *Composer
	cascade  *CascadeCoordinator
}

// NewCommentService creates a new CommentService instance.
func NewCommentService(store repository.Store, videos VideoReader, cascade *CascadeCoordinator) CommentService {
	return &commentService{
		store:    store,
		videos:   videos,
		composer: NewComposer(store),
		cascade:  cascade,
	}
}

func (s *commentService) ListVideoComments(ctx context.Context, input ListCommentsInput) (*Page[model.CommentView], error) {
	page, err := prepareListing(commentSortKeys, input.Sort, commentViewID, input.Page)
	if err != nil {
		return nil, err
	}

	if _, err := loadVisibleVideo(ctx, s.videos, input.VideoID, input.ViewerID); err != nil {
		return nil, err
	}

	comments, err := s.store.Comments().ListByVideo(ctx, input.VideoID)
	if err != nil {
		return nil, translate(fmt.Errorf("list comments: %w", err))
	}

	views, err := s.composer.Comments(ctx, comments, input.ViewerID)
	if err != nil {
		return nil, translate(err)
	}
	return page(views)
}

func (s *commentService) AddComment(ctx context.Context, actorID, videoID uuid.UUID, content string) (*model.CommentView, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}

	comment, err := model.NewComment(videoID, actorID, content)
	if err != nil {
		return nil, translate(err)
	}

	// The share lock holds off a concurrent DeleteVideo until the comment
	// is committed, so its cascade sees and removes it.
	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, err := lockVisibleVideo(ctx, tx, videoID, actorID); err != nil {
			return err
		}
		if err := tx.Comments().Create(ctx, comment); err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return s.compose(ctx, comment, actorID)
}

func (s *commentService) UpdateComment(ctx context.Context, actorID, commentID uuid.UUID, content string) (*model.CommentView, error) {
	comment, err := authorizeOwned(ctx, actorID,
		func(ctx context.Context) (*model.Comment, error) { return s.store.Comments().GetByID(ctx, commentID) },
		func(c *model.Comment) uuid.UUID { return c.OwnerID },
	)
	if err != nil {
		return nil, err
	}

	if err := comment.Edit(content); err != nil {
		return nil, translate(err)
	}

	if err := s.store.Comments().Update(ctx, comment); err != nil {
		return nil, translate(fmt.Errorf("update comment: %w", err))
	}
	return s.compose(ctx, comment, actorID)
}

func (s *commentService) DeleteComment(ctx context.Context, actorID, commentID uuid.UUID) error {
	_, err := s.cascade.DeleteComment(ctx, actorID, commentID)
	return err
}

func (s *commentService) compose(ctx context.Context, comment *model.Comment, viewerID uuid.UUID) (*model.CommentView, error) {
	views, err := s.composer.Comments(ctx, []*model.Comment{comment}, viewerID)
	if err != nil {
		return nil, translate(err)
	}
	return &views[0], nil
}
