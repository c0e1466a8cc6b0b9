package model

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Playlist is an owner-curated, ordered set of videos.
type Playlist struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	Description string
	VideoIDs    []uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

var (
	ErrEmptyPlaylistName   = errors.New("playlist name cannot be empty")
	ErrPlaylistNameTooLong = errors.New("playlist name exceeds maximum length of 100 characters")
	ErrEmptyPlaylistUpdate = errors.New("name or description is required")
)

const maxPlaylistNameLength = 100

// NewPlaylist creates an empty playlist.
func NewPlaylist(ownerID uuid.UUID, name, description string) (*Playlist, error) {
	if ownerID == uuid.Nil {
		return nil, ErrInvalidOwnerID
	}
	name, err := validatePlaylistName(name)
	if err != nil {
		return nil, err
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrEmptyDescription
	}

	now := time.Now()
	return &Playlist{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		VideoIDs:    []uuid.UUID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Rename updates name and/or description. Empty arguments keep the current value.
func (p *Playlist) Rename(name, description string) error {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" && description == "" {
		return ErrEmptyPlaylistUpdate
	}
	if name != "" {
		n, err := validatePlaylistName(name)
		if err != nil {
			return err
		}
		p.Name = n
	}
	if description != "" {
		p.Description = description
	}
	p.UpdatedAt = time.Now()
	return nil
}

// AddVideo appends videoID unless it is already present.
// Reports whether the playlist changed.
func (p *Playlist) AddVideo(videoID uuid.UUID) bool {
	if p.Contains(videoID) {
		return false
	}
	p.VideoIDs = append(p.VideoIDs, videoID)
	p.UpdatedAt = time.Now()
	return true
}

// RemoveVideo drops videoID if present. Reports whether the playlist changed.
func (p *Playlist) RemoveVideo(videoID uuid.UUID) bool {
	i := slices.Index(p.VideoIDs, videoID)
	if i < 0 {
		return false
	}
	p.VideoIDs = slices.Delete(p.VideoIDs, i, i+1)
	p.UpdatedAt = time.Now()
	return true
}

// Contains reports whether videoID is in the playlist.
func (p *Playlist) Contains(videoID uuid.UUID) bool {
	return slices.Contains(p.VideoIDs, videoID)
}

func validatePlaylistName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyPlaylistName
	}
	if len([]rune(name)) > maxPlaylistNameLength {
		return "", ErrPlaylistNameTooLong
	}
	return name, nil
}
