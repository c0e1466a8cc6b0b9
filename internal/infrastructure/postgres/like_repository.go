package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/domain/repository"
	"github.com/hszk-dev/gotube/internal/infrastructure/metrics"
)

// LikeRepository implements repository.LikeRepository using PostgreSQL.
// The likes table carries UNIQUE (liked_by, target_kind, target_id).
type LikeRepository struct {
	db DBTX
}

// NewLikeRepository creates a new LikeRepository instance.
func NewLikeRepository(db DBTX) *LikeRepository {
	return &LikeRepository{db: db}
}

// Toggle inserts the like, and if the unique key already holds one, deletes it instead.
func (r *LikeRepository) Toggle(ctx context.Context, like *model.Like) (bool, error) {
	const insert = `
		INSERT INTO likes (id, liked_by, target_kind, target_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (liked_by, target_kind, target_id) DO NOTHING
	`
	const remove = `
		DELETE FROM likes
		WHERE liked_by = $1 AND target_kind = $2 AND target_id = $3
	`

	observe(metrics.DBQueryInsert, metrics.TableLikes)
	tag, err := r.db.Exec(ctx, insert,
		like.ID,
		like.LikedBy,
		like.Target.Kind.String(),
		like.Target.ID,
		like.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert like: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}

	observe(metrics.DBQueryDelete, metrics.TableLikes)
	tag, err = r.db.Exec(ctx, remove, like.LikedBy, like.Target.Kind.String(), like.Target.ID)
	if err != nil {
		return false, fmt.Errorf("failed to delete like: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, repository.ErrLikeRace
	}

	return false, nil
}

func (r *LikeRepository) CountByTargets(ctx context.Context, kind model.TargetKind, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	const query = `
		SELECT target_id, COUNT(*)
		FROM likes
		WHERE target_kind = $1 AND target_id = ANY($2)
		GROUP BY target_id
	`

	observe(metrics.DBQuerySelect, metrics.TableLikes)
	rows, err := r.db.Query(ctx, query, kind.String(), ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count likes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id    uuid.UUID
			count int64
		)
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("failed to scan like count: %w", err)
		}
		out[id] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating like counts: %w", err)
	}

	return out, nil
}

func (r *LikeRepository) LikedTargets(ctx context.Context, actorID uuid.UUID, kind model.TargetKind, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	out := make(map[uuid.UUID]bool, len(ids))
	if len(ids) == 0 || actorID == uuid.Nil {
		return out, nil
	}

	const query = `
		SELECT target_id
		FROM likes
		WHERE liked_by = $1 AND target_kind = $2 AND target_id = ANY($3)
	`

	observe(metrics.DBQuerySelect, metrics.TableLikes)
	rows, err := r.db.Query(ctx, query, actorID, kind.String(), ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query liked targets: %w", err)
	}

	liked, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("failed to collect liked targets: %w", err)
	}
	for _, id := range liked {
		out[id] = true
	}

	return out, nil
}

func (r *LikeRepository) ListByActor(ctx context.Context, actorID uuid.UUID, kind model.TargetKind) ([]*model.Like, error) {
	const query = `
		SELECT id, liked_by, target_kind, target_id, created_at
		FROM likes
		WHERE liked_by = $1 AND target_kind = $2
		ORDER BY created_at DESC, id DESC
	`

	observe(metrics.DBQuerySelect, metrics.TableLikes)
	rows, err := r.db.Query(ctx, query, actorID, kind.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query likes by actor: %w", err)
	}
	defer rows.Close()

	var likes []*model.Like
	for rows.Next() {
		var (
			like model.Like
			k    string
		)
		if err := rows.Scan(&like.ID, &like.LikedBy, &k, &like.Target.ID, &like.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan like: %w", err)
		}
		like.Target.Kind = model.TargetKind(k)
		likes = append(likes, &like)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating likes: %w", err)
	}

	return likes, nil
}

func (r *LikeRepository) DeleteByTargets(ctx context.Context, kind model.TargetKind, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	const query = `DELETE FROM likes WHERE target_kind = $1 AND target_id = ANY($2)`

	observe(metrics.DBQueryDelete, metrics.TableLikes)
	tag, err := r.db.Exec(ctx, query, kind.String(), ids)
	if err != nil {
		return 0, fmt.Errorf("failed to delete likes by targets: %w", err)
	}

	return tag.RowsAffected(), nil
}

var _ repository.LikeRepository = (*LikeRepository)(nil)
