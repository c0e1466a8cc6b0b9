package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/domain/repository"
	"github.com/hszk-dev/gotube/internal/infrastructure/metrics"
)

// LikeState is the like state of a target after a toggle.
type LikeState struct {
	TargetKind model.TargetKind `json:"targetKind"`
	TargetID   uuid.UUID        `json:"targetId"`
	IsLiked    bool             `json:"isLiked"`
}

// LikeService defines like operations. Each toggle flips the actor's like
// on an existing, visible target and reports the resulting state.
type LikeService interface {
	ToggleVideoLike(ctx context.Context, actorID, videoID uuid.UUID) (*LikeState, error)
	ToggleCommentLike(ctx context.Context, actorID, commentID uuid.UUID) (*LikeState, error)
	ToggleTweetLike(ctx context.Context, actorID, tweetID uuid.UUID) (*LikeState, error)

	// ListLikedVideos returns the visible videos the actor liked, most recently liked first.
	ListLikedVideos(ctx context.Context, actorID uuid.UUID, page PageRequest) (*Page[model.VideoView], error)
}

type likeService struct {
	store    repository.Store
	composer *Composer
}

// NewLikeService creates a new LikeService instance.
func NewLikeService(store repository.Store) LikeService {
	return &likeService{
		store:    store,
		composer: NewComposer(store),
	}
}

func (s *likeService) ToggleVideoLike(ctx context.Context, actorID, videoID uuid.UUID) (*LikeState, error) {
	return s.toggle(ctx, actorID, model.TargetVideo, videoID, func(ctx context.Context, tx repository.Store) error {
		_, err := lockVisibleVideo(ctx, tx, videoID, actorID)
		return err
	})
}

func (s *likeService) ToggleCommentLike(ctx context.Context, actorID, commentID uuid.UUID) (*LikeState, error) {
	return s.toggle(ctx, actorID, model.TargetComment, commentID, func(ctx context.Context, tx repository.Store) error {
		comment, err := tx.Comments().GetLocked(ctx, commentID, repository.LockShare)
		if err != nil {
			return err
		}
		// The comment lock already holds off DeleteVideo. Locking the video
		// as well would take the two locks in the cascade's reverse order.
		video, err := tx.Videos().GetByID(ctx, comment.VideoID)
		if errors.Is(err, repository.ErrVideoNotFound) || (err == nil && !video.VisibleTo(actorID)) {
			// A comment under a hidden video is hidden too.
			return repository.ErrCommentNotFound
		}
		return err
	})
}

func (s *likeService) ToggleTweetLike(ctx context.Context, actorID, tweetID uuid.UUID) (*LikeState, error) {
	return s.toggle(ctx, actorID, model.TargetTweet, tweetID, func(ctx context.Context, tx repository.Store) error {
		_, err := tx.Tweets().GetLocked(ctx, tweetID, repository.LockShare)
		return err
	})
}

// toggle flips the like in the same transaction that locks the target, so
// a concurrent cascade either sees the new like or finds no target.
func (s *likeService) toggle(
	ctx context.Context,
	actorID uuid.UUID,
	kind model.TargetKind,
	targetID uuid.UUID,
	lockTarget func(ctx context.Context, tx repository.Store) error,
) (*LikeState, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}

	target, err := model.NewLikeTarget(kind, targetID)
	if err != nil {
		return nil, translate(err)
	}
	like, err := model.NewLike(actorID, target)
	if err != nil {
		return nil, translate(err)
	}

	var (
		liked     bool
		toggleErr error
	)
	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := lockTarget(ctx, tx); err != nil {
			return err
		}
		liked, toggleErr = tx.Likes().Toggle(ctx, like)
		if toggleErr != nil {
			return fmt.Errorf("toggle like: %w", toggleErr)
		}
		return nil
	})
	if err != nil {
		if toggleErr != nil {
			result := metrics.LikeResultError
			if errors.Is(toggleErr, repository.ErrLikeRace) {
				result = metrics.LikeResultConflict
			}
			metrics.LikeTogglesTotal.WithLabelValues(kind.String(), result).Inc()
		}
		return nil, translate(err)
	}

	result := metrics.LikeResultUnliked
	if liked {
		result = metrics.LikeResultLiked
	}
	metrics.LikeTogglesTotal.WithLabelValues(kind.String(), result).Inc()

	return &LikeState{TargetKind: kind, TargetID: targetID, IsLiked: liked}, nil
}

func (s *likeService) ListLikedVideos(ctx context.Context, actorID uuid.UUID, page PageRequest) (*Page[model.VideoView], error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if err := page.validate(); err != nil {
		return nil, err
	}

	likes, err := s.store.Likes().ListByActor(ctx, actorID, model.TargetVideo)
	if err != nil {
		return nil, translate(fmt.Errorf("list likes: %w", err))
	}

	ids := make([]uuid.UUID, len(likes))
	for i, l := range likes {
		ids[i] = l.Target.ID
	}
	byID, err := s.store.Videos().GetByIDs(ctx, ids)
	if err != nil {
		return nil, translate(fmt.Errorf("load liked videos: %w", err))
	}

	// Keep like order; skip videos that are gone or hidden from the actor.
	videos := make([]*model.Video, 0, len(likes))
	for _, id := range ids {
		if v, ok := byID[id]; ok && v.VisibleTo(actorID) {
			videos = append(videos, v)
		}
	}

	views, err := s.composer.Videos(ctx, videos, actorID)
	if err != nil {
		return nil, translate(err)
	}
	return Paginate(views, page)
}
