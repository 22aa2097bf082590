package usecase

import (
	"conversational-recommendation/internal/extractor"
	"conversational-recommendation/internal/recommend/repository"
	"conversational-recommendation/internal/taxonomy"
	pkgLog "conversational-recommendation/pkg/log"
)

// Options tunes the resolver. Collaborator timeouts live in the
// repositories themselves; these knobs shape the algorithm only.
type Options struct {
	FetchLimit         int // per-category candidate fetch size
	DiverseCategoryCap int // max categories the diverse tier spreads over
}

type implUseCase struct {
	l          pkgLog.Logger
	sessions   repository.SessionRepository
	candidates repository.CandidateRepository
	taxonomy   taxonomy.Provider
	extractor  *extractor.Extractor
	opts       Options
}

// New creates a new recommendation UseCase instance.
func New(
	l pkgLog.Logger,
	sessions repository.SessionRepository,
	candidates repository.CandidateRepository,
	provider taxonomy.Provider,
	ex *extractor.Extractor,
	opts Options,
) *implUseCase {
	if opts.FetchLimit <= 0 {
		opts.FetchLimit = 50
	}
	if opts.DiverseCategoryCap <= 0 {
		opts.DiverseCategoryCap = 3
	}
	return &implUseCase{
		l:          l,
		sessions:   sessions,
		candidates: candidates,
		taxonomy:   provider,
		extractor:  ex,
		opts:       opts,
	}
}
