package repository

import "errors"

var (
	// ErrUserNotFound is returned when a user cannot be found.
	ErrUserNotFound = errors.New("user not found")

	// ErrVideoNotFound is returned when a video cannot be found.
	ErrVideoNotFound = errors.New("video not found")

	// ErrCommentNotFound is returned when a comment cannot be found.
	ErrCommentNotFound = errors.New("comment not found")

	// ErrTweetNotFound is returned when a tweet cannot be found.
	ErrTweetNotFound = errors.New("tweet not found")

	// ErrPlaylistNotFound is returned when a playlist cannot be found.
	ErrPlaylistNotFound = errors.New("playlist not found")

	// ErrDuplicate is returned when an insert violates a uniqueness constraint.
	ErrDuplicate = errors.New("record already exists")

	// ErrLikeRace is returned when a toggle found a like on insert but it was
	// gone by the time the delete ran, i.e. a concurrent toggle won.
	ErrLikeRace = errors.New("like changed concurrently")

	// ErrObjectNotFound is returned when an object does not exist in storage.
	ErrObjectNotFound = errors.New("object not found")

	// ErrBucketNotFound is returned when the configured bucket does not exist.
	ErrBucketNotFound = errors.New("bucket not found")
)
