package recommend

import (
	"context"

	"conversational-recommendation/internal/model"
)

//go:generate mockery --name UseCase
type UseCase interface {
	// Resolution
	Resolve(ctx context.Context, sc model.Scope, input ResolveInput) (ResolveOutput, error)
	RecordTurn(ctx context.Context, sc model.Scope, input RecordTurnInput) error

	// Session access
	GetSessionHistory(ctx context.Context, sc model.Scope) (SessionOutput, error)
	ResetSession(ctx context.Context, sc model.Scope) error
}
