package memory

import (
	"context"
	"time"

	"conversational-recommendation/internal/model"
	repo "conversational-recommendation/internal/recommend/repository"
)

// GetSession loads a session by id.
// Returns zero-value Session (ID == "") when absent or expired.
func (r *implRepository) GetSession(ctx context.Context, id string) (model.Session, error) {
	sess, ok := r.cache.Get(id)
	if !ok {
		return model.Session{}, nil
	}
	return cloneSession(sess), nil
}

// AppendTurn appends one turn and returns the updated session. Re-adding the
// record resets its expiry, so the idle clock slides on every turn.
func (r *implRepository) AppendTurn(ctx context.Context, id string, opt repo.AppendTurnOptions) (model.Session, error) {
	sl := r.acquireLock(id)
	defer r.releaseLock(id, sl)

	now := time.Now().UTC()

	sess, ok := r.cache.Get(id)
	if !ok {
		sess = model.Session{ID: id, CreatedAt: now}
	}
	sess = cloneSession(sess)
	sess.Turns = append(sess.Turns, model.Turn{
		Number:         sess.NextTurnNumber(),
		Query:          opt.Query,
		Categories:     opt.Categories,
		RecommendedIDs: opt.RecommendedIDs,
		Timestamp:      now,
	})
	sess.UpdatedAt = now

	r.cache.Add(id, sess)
	return cloneSession(sess), nil
}

// DeleteSession removes a session. Absent ids are a no-op.
func (r *implRepository) DeleteSession(ctx context.Context, id string) error {
	r.cache.Remove(id)
	return nil
}

// cloneSession copies the record deeply enough that callers mutating the
// returned turns can never reach the cached slice.
func cloneSession(s model.Session) model.Session {
	if len(s.Turns) == 0 {
		return s
	}
	turns := make([]model.Turn, len(s.Turns))
	copy(turns, s.Turns)
	s.Turns = turns
	return s
}
