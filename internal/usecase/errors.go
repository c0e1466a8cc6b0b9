package usecase

import (
	"errors"

	"github.com/hszk-dev/gotube/internal/apperr"
	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/domain/repository"
)

var validationErrors = []error{
	model.ErrInvalidID,
	model.ErrEmptyTitle,
	model.ErrTitleTooLong,
	model.ErrEmptyDescription,
	model.ErrInvalidOwnerID,
	model.ErrMissingVideoFile,
	model.ErrMissingThumbnail,
	model.ErrInvalidDuration,
	model.ErrEmptyContent,
	model.ErrCommentTooLong,
	model.ErrTweetTooLong,
	model.ErrInvalidVideoID,
	model.ErrInvalidLikeTarget,
	model.ErrEmptyPlaylistName,
	model.ErrPlaylistNameTooLong,
	model.ErrEmptyPlaylistUpdate,
}

var notFoundErrors = []error{
	repository.ErrUserNotFound,
	repository.ErrVideoNotFound,
	repository.ErrCommentNotFound,
	repository.ErrTweetNotFound,
	repository.ErrPlaylistNotFound,
}

// translate maps domain and store errors onto the apperr taxonomy.
// Errors that are already typed pass through unchanged.
func translate(err error) error {
	if err == nil {
		return nil
	}

	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}

	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return apperr.Validation(target.Error(), err)
		}
	}
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return apperr.NotFound(target.Error(), err)
		}
	}

	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return apperr.Conflict("record already exists", err)
	case errors.Is(err, repository.ErrLikeRace):
		return apperr.Conflict("like was changed by a concurrent request, retry", err)
	default:
		return apperr.Dependency("entity store unavailable", err)
	}
}
