package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TargetKind identifies which entity a Like points at.
type TargetKind string

const (
	TargetVideo   TargetKind = "video"
	TargetComment TargetKind = "comment"
	TargetTweet   TargetKind = "tweet"
)

func (k TargetKind) IsValid() bool {
	switch k {
	case TargetVideo, TargetComment, TargetTweet:
		return true
	default:
		return false
	}
}

func (k TargetKind) String() string {
	return string(k)
}

// LikeTarget is a tagged reference to exactly one Video, Comment or Tweet.
type LikeTarget struct {
	Kind TargetKind
	ID   uuid.UUID
}

var ErrInvalidLikeTarget = errors.New("like target must be a video, comment or tweet with a valid id")

// NewLikeTarget validates and builds a LikeTarget.
func NewLikeTarget(kind TargetKind, id uuid.UUID) (LikeTarget, error) {
	if !kind.IsValid() || id == uuid.Nil {
		return LikeTarget{}, ErrInvalidLikeTarget
	}
	return LikeTarget{Kind: kind, ID: id}, nil
}

// Like records that LikedBy likes Target.
// At most one Like exists per (LikedBy, Target.Kind, Target.ID).
type Like struct {
	ID        uuid.UUID
	LikedBy   uuid.UUID
	Target    LikeTarget
	CreatedAt time.Time
}

// NewLike creates a Like for actorID on target.
func NewLike(actorID uuid.UUID, target LikeTarget) (*Like, error) {
	if actorID == uuid.Nil {
		return nil, ErrInvalidOwnerID
	}
	if !target.Kind.IsValid() || target.ID == uuid.Nil {
		return nil, ErrInvalidLikeTarget
	}
	return &Like{
		ID:        uuid.New(),
		LikedBy:   actorID,
		Target:    target,
		CreatedAt: time.Now(),
	}, nil
}
