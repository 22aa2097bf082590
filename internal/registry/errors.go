package registry

import "errors"

var (
	ErrNotRegistered = errors.New("component not registered")
	ErrNoFallback    = errors.New("component has no fallback")
)
