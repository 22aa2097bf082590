package recommend

import "errors"

var (
	ErrSessionIDRequired = errors.New("session id is required")
	ErrInvalidRequest    = errors.New("invalid resolve request")
)
