package usecase

import (
	"context"

	"conversational-recommendation/internal/model"
	"conversational-recommendation/internal/recommend"
	"conversational-recommendation/internal/recommend/repository"
)

// RecordTurn appends one finished turn to the session. Callers invoke
// it only after a complete result exists, so a cancelled request never
// leaves a half-written turn behind.
func (uc *implUseCase) RecordTurn(ctx context.Context, sc model.Scope, input recommend.RecordTurnInput) error {
	if sc.SessionID == "" {
		return recommend.ErrSessionIDRequired
	}
	if err := ctx.Err(); err != nil {
		uc.l.Warnf(ctx, "RecordTurn: session %s skipped, request already gone: %v", sc.SessionID, err)
		return nil
	}

	sess, err := uc.sessions.AppendTurn(ctx, sc.SessionID, repository.AppendTurnOptions{
		Query:          input.Query,
		Categories:     input.Categories,
		RecommendedIDs: input.RecommendedIDs,
	})
	if err != nil {
		uc.l.Warnf(ctx, "RecordTurn: session %s append failed: %v", sc.SessionID, err)
		return err
	}
	uc.l.Debugf(ctx, "RecordTurn: session %s now at turn %d", sc.SessionID, len(sess.Turns))
	return nil
}

// GetSessionHistory returns the stored conversation. A session that
// never existed or already expired comes back empty.
func (uc *implUseCase) GetSessionHistory(ctx context.Context, sc model.Scope) (recommend.SessionOutput, error) {
	if sc.SessionID == "" {
		return recommend.SessionOutput{}, recommend.ErrSessionIDRequired
	}

	sess, err := uc.sessions.GetSession(ctx, sc.SessionID)
	if err != nil {
		uc.l.Errorf(ctx, "GetSessionHistory: session %s: %v", sc.SessionID, err)
		return recommend.SessionOutput{}, err
	}
	if sess.IsZero() {
		sess.ID = sc.SessionID
	}
	return recommend.SessionOutput{Session: sess}, nil
}

// ResetSession discards the stored conversation so the next turn
// starts cold.
func (uc *implUseCase) ResetSession(ctx context.Context, sc model.Scope) error {
	if sc.SessionID == "" {
		return recommend.ErrSessionIDRequired
	}

	if err := uc.sessions.DeleteSession(ctx, sc.SessionID); err != nil {
		uc.l.Errorf(ctx, "ResetSession: session %s: %v", sc.SessionID, err)
		return err
	}
	uc.l.Infof(ctx, "ResetSession: session %s cleared", sc.SessionID)
	return nil
}
