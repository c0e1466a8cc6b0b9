package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hszk-dev/gotube/internal/domain/model"
)

// LikeRepository persists the Like relation.
// Implementations must enforce uniqueness of (LikedBy, Target.Kind, Target.ID).
type LikeRepository interface {
	// Toggle flips the like state of (like.LikedBy, like.Target) and reports
	// whether a like exists afterwards. It inserts like when none exists and
	// otherwise deletes the existing one; each branch is a single atomic store
	// operation guarded by the uniqueness constraint. Returns ErrLikeRace when
	// a concurrent toggle removed the row between the two.
	Toggle(ctx context.Context, like *model.Like) (bool, error)

	// CountByTargets returns the number of likes for each id of the given kind.
	CountByTargets(ctx context.Context, kind model.TargetKind, ids []uuid.UUID) (map[uuid.UUID]int64, error)

	// LikedTargets returns the subset of ids that actorID has liked.
	LikedTargets(ctx context.Context, actorID uuid.UUID, kind model.TargetKind, ids []uuid.UUID) (map[uuid.UUID]bool, error)

	// ListByActor returns actorID's likes of the given kind, newest first.
	ListByActor(ctx context.Context, actorID uuid.UUID, kind model.TargetKind) ([]*model.Like, error)

	// DeleteByTargets removes every like pointing at any of ids and returns the count.
	DeleteByTargets(ctx context.Context, kind model.TargetKind, ids []uuid.UUID) (int64, error)
}
