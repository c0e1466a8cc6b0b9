package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Video represents an uploaded video owned by a user.
type Video struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	Title        string
	Description  string
	VideoURL     string
	ThumbnailURL string
	Duration     float64
	Views        int64
	IsPublished  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

var (
	ErrEmptyTitle       = errors.New("title cannot be empty")
	ErrTitleTooLong     = errors.New("title exceeds maximum length of 255 characters")
	ErrEmptyDescription = errors.New("description cannot be empty")
	ErrInvalidOwnerID   = errors.New("owner ID cannot be nil")
	ErrMissingVideoFile = errors.New("video file is required")
	ErrMissingThumbnail = errors.New("thumbnail is required")
	ErrInvalidDuration  = errors.New("duration cannot be negative")
)

const maxTitleLength = 255

// NewVideo creates a published Video from already-uploaded media references.
func NewVideo(ownerID uuid.UUID, title, description, videoURL, thumbnailURL string) (*Video, error) {
	if ownerID == uuid.Nil {
		return nil, ErrInvalidOwnerID
	}
	title, description, err := validateVideoText(title, description)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(videoURL) == "" {
		return nil, ErrMissingVideoFile
	}
	if strings.TrimSpace(thumbnailURL) == "" {
		return nil, ErrMissingThumbnail
	}

	now := time.Now()
	return &Video{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Title:        title,
		Description:  description,
		VideoURL:     videoURL,
		ThumbnailURL: thumbnailURL,
		IsPublished:  true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ApplyDetails replaces the editable text fields and optionally the thumbnail.
func (v *Video) ApplyDetails(title, description, thumbnailURL string) error {
	title, description, err := validateVideoText(title, description)
	if err != nil {
		return err
	}
	v.Title = title
	v.Description = description
	if thumbnailURL != "" {
		v.ThumbnailURL = thumbnailURL
	}
	v.UpdatedAt = time.Now()
	return nil
}

// SetDuration records the media duration reported by the prober.
func (v *Video) SetDuration(seconds float64) error {
	if seconds < 0 {
		return ErrInvalidDuration
	}
	v.Duration = seconds
	v.UpdatedAt = time.Now()
	return nil
}

// VisibleTo reports whether the viewer may see this video.
// Unpublished videos are visible to their owner only.
func (v *Video) VisibleTo(viewerID uuid.UUID) bool {
	return v.IsPublished || SameID(v.OwnerID, viewerID)
}

func validateVideoText(title, description string) (string, string, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" {
		return "", "", ErrEmptyTitle
	}
	if len([]rune(title)) > maxTitleLength {
		return "", "", ErrTitleTooLong
	}
	if description == "" {
		return "", "", ErrEmptyDescription
	}
	return title, description, nil
}
