package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Comment belongs to exactly one video.
type Comment struct {
	ID        uuid.UUID
	VideoID   uuid.UUID
	OwnerID   uuid.UUID
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

var (
	ErrEmptyContent   = errors.New("content cannot be empty")
	ErrCommentTooLong = errors.New("comment exceeds maximum length of 2000 characters")
	ErrInvalidVideoID = errors.New("video ID cannot be nil")
	ErrTweetTooLong   = errors.New("tweet exceeds maximum length of 280 characters")
)

const maxCommentLength = 2000

// NewComment creates a comment by ownerID on videoID.
func NewComment(videoID, ownerID uuid.UUID, content string) (*Comment, error) {
	if videoID == uuid.Nil {
		return nil, ErrInvalidVideoID
	}
	if ownerID == uuid.Nil {
		return nil, ErrInvalidOwnerID
	}
	content, err := validateContent(content, maxCommentLength, ErrCommentTooLong)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Comment{
		ID:        uuid.New(),
		VideoID:   videoID,
		OwnerID:   ownerID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Edit replaces the comment content. CreatedAt is left untouched.
func (c *Comment) Edit(content string) error {
	content, err := validateContent(content, maxCommentLength, ErrCommentTooLong)
	if err != nil {
		return err
	}
	c.Content = content
	c.UpdatedAt = time.Now()
	return nil
}

func validateContent(content string, max int, tooLong error) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrEmptyContent
	}
	if len([]rune(content)) > max {
		return "", tooLong
	}
	return content, nil
}
