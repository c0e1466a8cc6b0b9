package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/domain/repository"
	"github.com/hszk-dev/gotube/internal/infrastructure/metrics"
)

// CascadeConfig tunes which dependents are removed with their root.
type CascadeConfig struct {
	// TweetLikes removes likes pointing at a tweet when the tweet is deleted.
	// Off by default, which leaves those likes behind as orphans.
	TweetLikes bool
}

// CascadeResult counts the dependent rows removed with a root entity.
type CascadeResult struct {
	Comments        int64
	Likes           int64
	PlaylistEntries int64
}

// CascadeCoordinator deletes a root entity together with its dependents.
// Ownership is checked inside the same transaction that performs the
// deletes, so either everything is removed or nothing is. The root is read
// under LockUpdate; writers adding dependents hold LockShare on it, so each
// one commits either before the cascade collects dependents or not at all.
type CascadeCoordinator struct {
	store repository.Store
	cfg   CascadeConfig
}

// NewCascadeCoordinator creates a CascadeCoordinator.
func NewCascadeCoordinator(store repository.Store, cfg CascadeConfig) *CascadeCoordinator {
	return &CascadeCoordinator{store: store, cfg: cfg}
}

// DeleteVideo removes a video, its comments, likes on the video and on
// those comments, and every playlist membership of the video.
// Returns the deleted video so callers can clean up its media.
func (c *CascadeCoordinator) DeleteVideo(ctx context.Context, actorID, videoID uuid.UUID) (*model.Video, CascadeResult, error) {
	var (
		video  *model.Video
		result CascadeResult
	)

	err := c.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		video, err = authorizeOwned(ctx, actorID,
			func(ctx context.Context) (*model.Video, error) { return tx.Videos().GetLocked(ctx, videoID, repository.LockUpdate) },
			func(v *model.Video) uuid.UUID { return v.OwnerID },
		)
		if err != nil {
			return err
		}

		commentIDs, err := tx.Comments().DeleteByVideo(ctx, videoID)
		if err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		result.Comments = int64(len(commentIDs))

		n, err := tx.Likes().DeleteByTargets(ctx, model.TargetVideo, []uuid.UUID{videoID})
		if err != nil {
			return fmt.Errorf("delete video likes: %w", err)
		}
		result.Likes += n

		if len(commentIDs) > 0 {
			n, err = tx.Likes().DeleteByTargets(ctx, model.TargetComment, commentIDs)
			if err != nil {
				return fmt.Errorf("delete comment likes: %w", err)
			}
			result.Likes += n
		}

		result.PlaylistEntries, err = tx.Playlists().RemoveVideoEverywhere(ctx, videoID)
		if err != nil {
			return fmt.Errorf("remove from playlists: %w", err)
		}

		if err := tx.Videos().Delete(ctx, videoID); err != nil {
			return fmt.Errorf("delete video: %w", err)
		}
		return nil
	})
	recordCascade(model.TargetVideo.String(), err)
	if err != nil {
		return nil, CascadeResult{}, translate(err)
	}

	recordCascadeRows(result)
	slog.Info("video deleted",
		"video_id", videoID,
		"comments", result.Comments,
		"likes", result.Likes,
		"playlist_entries", result.PlaylistEntries,
	)
	return video, result, nil
}

// DeleteComment removes a comment and the likes pointing at it.
func (c *CascadeCoordinator) DeleteComment(ctx context.Context, actorID, commentID uuid.UUID) (CascadeResult, error) {
	var result CascadeResult

	err := c.store.WithinTx(ctx, func(tx repository.Store) error {
		_, err := authorizeOwned(ctx, actorID,
			func(ctx context.Context) (*model.Comment, error) { return tx.Comments().GetLocked(ctx, commentID, repository.LockUpdate) },
			func(cm *model.Comment) uuid.UUID { return cm.OwnerID },
		)
		if err != nil {
			return err
		}

		result.Likes, err = tx.Likes().DeleteByTargets(ctx, model.TargetComment, []uuid.UUID{commentID})
		if err != nil {
			return fmt.Errorf("delete comment likes: %w", err)
		}

		if err := tx.Comments().Delete(ctx, commentID); err != nil {
			return fmt.Errorf("delete comment: %w", err)
		}
		return nil
	})
	recordCascade(model.TargetComment.String(), err)
	if err != nil {
		return CascadeResult{}, translate(err)
	}

	recordCascadeRows(result)
	return result, nil
}

// DeleteTweet removes a tweet. Likes on it are removed only when
// CascadeConfig.TweetLikes is set.
func (c *CascadeCoordinator) DeleteTweet(ctx context.Context, actorID, tweetID uuid.UUID) (CascadeResult, error) {
	var result CascadeResult

	err := c.store.WithinTx(ctx, func(tx repository.Store) error {
		_, err := authorizeOwned(ctx, actorID,
			func(ctx context.Context) (*model.Tweet, error) { return tx.Tweets().GetLocked(ctx, tweetID, repository.LockUpdate) },
			func(t *model.Tweet) uuid.UUID { return t.OwnerID },
		)
		if err != nil {
			return err
		}

		if c.cfg.TweetLikes {
			result.Likes, err = tx.Likes().DeleteByTargets(ctx, model.TargetTweet, []uuid.UUID{tweetID})
			if err != nil {
				return fmt.Errorf("delete tweet likes: %w", err)
			}
		}

		if err := tx.Tweets().Delete(ctx, tweetID); err != nil {
			return fmt.Errorf("delete tweet: %w", err)
		}
		return nil
	})
	recordCascade(model.TargetTweet.String(), err)
	if err != nil {
		return CascadeResult{}, translate(err)
	}

	recordCascadeRows(result)
	return result, nil
}

// DeletePlaylist removes a playlist. Member videos are untouched.
func (c *CascadeCoordinator) DeletePlaylist(ctx context.Context, actorID, playlistID uuid.UUID) (CascadeResult, error) {
	var result CascadeResult

	err := c.store.WithinTx(ctx, func(tx repository.Store) error {
		playlist, err := authorizeOwned(ctx, actorID,
			func(ctx context.Context) (*model.Playlist, error) { return tx.Playlists().GetByID(ctx, playlistID) },
			func(p *model.Playlist) uuid.UUID { return p.OwnerID },
		)
		if err != nil {
			return err
		}
		result.PlaylistEntries = int64(len(playlist.VideoIDs))

		if err := tx.Playlists().Delete(ctx, playlistID); err != nil {
			return fmt.Errorf("delete playlist: %w", err)
		}
		return nil
	})
	recordCascade("playlist", err)
	if err != nil {
		return CascadeResult{}, translate(err)
	}

	recordCascadeRows(result)
	return result, nil
}

func recordCascade(root string, err error) {
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}
	metrics.CascadeDeletesTotal.WithLabelValues(root, status).Inc()
}

func recordCascadeRows(r CascadeResult) {
	metrics.CascadeRowsDeleted.WithLabelValues(metrics.CascadeKindComment).Add(float64(r.Comments))
	metrics.CascadeRowsDeleted.WithLabelValues(metrics.CascadeKindLike).Add(float64(r.Likes))
	metrics.CascadeRowsDeleted.WithLabelValues(metrics.CascadeKindPlaylistEntry).Add(float64(r.PlaylistEntries))
}
