package model

import (
	"time"

	"github.com/google/uuid"
)

// Tweet is a short text post.
type Tweet struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

const maxTweetLength = 280

// NewTweet creates a tweet owned by ownerID.
func NewTweet(ownerID uuid.UUID, content string) (*Tweet, error) {
	if ownerID == uuid.Nil {
		return nil, ErrInvalidOwnerID
	}
	content, err := validateContent(content, maxTweetLength, ErrTweetTooLong)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Tweet{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Edit replaces the tweet content.
func (t *Tweet) Edit(content string) error {
	content, err := validateContent(content, maxTweetLength, ErrTweetTooLong)
	if err != nil {
		return err
	}
	t.Content = content
	t.UpdatedAt = time.Now()
	return nil
}
