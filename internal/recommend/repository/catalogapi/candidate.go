package catalogapi

import (
	"context"
	"fmt"

	"conversational-recommendation/internal/observability"
	repo "conversational-recommendation/internal/recommend/repository"
)

// FetchCandidates returns the engine's pre-ranked pool for one category,
// order untouched. Transport failures and timeouts surface as
// ErrUnavailable so the resolver can degrade instead of failing the turn.
func (r *implRepository) FetchCandidates(ctx context.Context, category string, opt repo.FetchCandidatesOptions) ([]repo.Candidate, error) {
	opCtx, cancel := context.WithTimeout(ctx, r.cfg.FetchTimeout)
	defer cancel()

	limit := opt.Limit
	if limit <= 0 {
		limit = r.cfg.DefaultLimit
	}

	items, err := r.client.FetchCandidates(opCtx, category, limit)
	observability.RecordCandidateFetch(err == nil)
	if err != nil {
		r.l.Errorf(ctx, "%s: %q: %v", r.dsn("FetchCandidates"), category, err)
		return nil, fmt.Errorf("%w: %v", repo.ErrUnavailable, err)
	}

	candidates := make([]repo.Candidate, 0, len(items))
	for _, item := range items {
		candidates = append(candidates, repo.Candidate{ID: item.ID, Available: item.Available})
	}
	return candidates, nil
}
