package model

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidID is returned when a textual identifier is not a valid UUID.
var ErrInvalidID = errors.New("invalid identifier")

// ParseID normalizes a textual identifier into its canonical UUID value.
// Upper case, braces and the urn:uuid: prefix are all accepted, so two
// spellings of the same id always compare equal after parsing.
func ParseID(s string) (uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return uuid.Nil, ErrInvalidID
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, ErrInvalidID
	}
	if id == uuid.Nil {
		return uuid.Nil, ErrInvalidID
	}
	return id, nil
}

// SameID reports whether two identifiers refer to the same entity.
// The nil UUID never matches anything, including itself.
func SameID(a, b uuid.UUID) bool {
	return a != uuid.Nil && a == b
}
