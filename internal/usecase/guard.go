package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/hszk-dev/gotube/internal/apperr"
	"github.com/hszk-dev/gotube/internal/domain/model"
)

// Authorize allows a mutation only when actorID owns the resource.
// Ids are compared as canonical UUID values, never as strings.
func Authorize(actorID, ownerID uuid.UUID) error {
	if err := requireActor(actorID); err != nil {
		return err
	}
	if !model.SameID(actorID, ownerID) {
		return apperr.Forbidden("you are not the owner of this resource")
	}
	return nil
}

// authorizeOwned resolves a resource, then authorizes actorID against its owner.
// A missing resource yields NotFound before any ownership comparison.
func authorizeOwned[T any](
	ctx context.Context,
	actorID uuid.UUID,
	load func(ctx context.Context) (*T, error),
	owner func(*T) uuid.UUID,
) (*T, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}

	resource, err := load(ctx)
	if err != nil {
		return nil, translate(err)
	}

	if err := Authorize(actorID, owner(resource)); err != nil {
		return nil, err
	}
	return resource, nil
}

func requireActor(actorID uuid.UUID) error {
	if actorID == uuid.Nil {
		return apperr.Forbidden("authentication required")
	}
	return nil
}
