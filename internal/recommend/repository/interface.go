package repository

import (
	"context"

	"conversational-recommendation/internal/model"
)

// Repository is the composed interface for the recommendation data stores.
type Repository interface {
	SessionRepository
	CandidateRepository
}

// SessionRepository is the append-only conversation store. Implementations
// must serialize appends per session id (turn numbers stay strictly
// monotonic under concurrent calls) and expire sessions after the configured
// idle TTL. A session that does not exist is returned as the zero value, not
// as an error; ErrUnavailable is reserved for the store itself being
// unreachable or too slow.
type SessionRepository interface {
	GetSession(ctx context.Context, id string) (model.Session, error)
	AppendTurn(ctx context.Context, id string, opt AppendTurnOptions) (model.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

// SessionSweeper is the maintenance surface of durable session stores:
// offline TTL hygiene run by the worker binary.
type SessionSweeper interface {
	Sweep(ctx context.Context) (SweepResult, error)
}

// DurableSessionRepository composes session access with sweep maintenance.
type DurableSessionRepository interface {
	SessionRepository
	SessionSweeper
}

// SweepResult reports one maintenance pass over the session keyspace.
type SweepResult struct {
	Live     int // sessions currently stored
	Repaired int // keys that had lost their TTL and got one re-armed
}

// CandidateRepository supplies pre-ranked candidate items per concrete
// category. Order is the supplier's ranking and must be preserved.
type CandidateRepository interface {
	FetchCandidates(ctx context.Context, category string, opt FetchCandidatesOptions) ([]Candidate, error)
}

// Candidate is one pool entry as delivered by the ranking engine.
type Candidate struct {
	ID        string
	Available bool
}
