package cached

import (
	"context"

	"conversational-recommendation/internal/model"
	repo "conversational-recommendation/internal/recommend/repository"
)

// GetSession serves from the read cache when possible and falls back to the
// inner store on miss. Misses are not cached back; only appends populate.
func (r *implRepository) GetSession(ctx context.Context, id string) (model.Session, error) {
	if sess, ok := r.cache.Get(id); ok {
		return cloneSession(sess), nil
	}
	return r.inner.GetSession(ctx, id)
}

// AppendTurn writes through to the inner store and refreshes the cache with
// the returned record. On failure the cached copy is dropped rather than
// risk serving a record the store never saw.
func (r *implRepository) AppendTurn(ctx context.Context, id string, opt repo.AppendTurnOptions) (model.Session, error) {
	sess, err := r.inner.AppendTurn(ctx, id, opt)
	if err != nil {
		r.cache.Remove(id)
		return model.Session{}, err
	}
	r.cache.Add(id, cloneSession(sess))
	return sess, nil
}

// DeleteSession drops the cached copy first so a failed store delete can
// never leave a ghost record being served from cache.
func (r *implRepository) DeleteSession(ctx context.Context, id string) error {
	r.cache.Remove(id)
	return r.inner.DeleteSession(ctx, id)
}

func cloneSession(s model.Session) model.Session {
	if len(s.Turns) == 0 {
		return s
	}
	turns := make([]model.Turn, len(s.Turns))
	copy(turns, s.Turns)
	s.Turns = turns
	return s
}
