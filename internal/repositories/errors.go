package repositories

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict indicates the attempted write would violate a uniqueness constraint.
	ErrConflict = errors.New("record conflict")
	// ErrInvalidTarget indicates a like target that does not name exactly one
	// of video, comment, or tweet.
	ErrInvalidTarget = errors.New("like target must name exactly one entity")
)
