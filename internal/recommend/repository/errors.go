package repository

import "errors"

var (
	// ErrUnavailable marks a collaborator failure the resolver may absorb:
	// the store or the candidate supplier is unreachable, refused, or timed
	// out. Wrap it so errors.Is keeps matching through call sites.
	ErrUnavailable = errors.New("backing store unavailable")

	ErrFailedToGet    = errors.New("failed to get session")
	ErrFailedToAppend = errors.New("failed to append turn")
	ErrFailedToDelete = errors.New("failed to delete session")
	ErrFailedToFetch  = errors.New("failed to fetch candidates")
)
