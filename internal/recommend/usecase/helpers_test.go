package usecase

import (
	"context"

	"conversational-recommendation/internal/extractor"
	"conversational-recommendation/internal/model"
	repo "conversational-recommendation/internal/recommend/repository"
	"conversational-recommendation/internal/taxonomy"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Debugf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Info(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Infof(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Warnf(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Error(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Errorf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, args ...any)                 {}
func (m *mockLogger) DPanicf(ctx context.Context, format string, args ...any) {}
func (m *mockLogger) Panic(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Panicf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Fatalf(ctx context.Context, format string, args ...any)  {}

type stubSessionRepo struct {
	getFunc    func(ctx context.Context, id string) (model.Session, error)
	appendFunc func(ctx context.Context, id string, opt repo.AppendTurnOptions) (model.Session, error)
	deleteFunc func(ctx context.Context, id string) error

	getCalls    int
	appendCalls int
	deleteCalls int
	lastAppend  repo.AppendTurnOptions
}

func (s *stubSessionRepo) GetSession(ctx context.Context, id string) (model.Session, error) {
	s.getCalls++
	if s.getFunc != nil {
		return s.getFunc(ctx, id)
	}
	return model.Session{}, nil
}

func (s *stubSessionRepo) AppendTurn(ctx context.Context, id string, opt repo.AppendTurnOptions) (model.Session, error) {
	s.appendCalls++
	s.lastAppend = opt
	if s.appendFunc != nil {
		return s.appendFunc(ctx, id, opt)
	}
	return model.Session{ID: id, Turns: []model.Turn{{Number: 1}}}, nil
}

func (s *stubSessionRepo) DeleteSession(ctx context.Context, id string) error {
	s.deleteCalls++
	if s.deleteFunc != nil {
		return s.deleteFunc(ctx, id)
	}
	return nil
}

type stubCandidateRepo struct {
	pools  map[string][]repo.Candidate
	errFor map[string]error

	fetchCalls []string
	lastLimit  int
}

func (s *stubCandidateRepo) FetchCandidates(ctx context.Context, category string, opt repo.FetchCandidatesOptions) ([]repo.Candidate, error) {
	s.fetchCalls = append(s.fetchCalls, category)
	s.lastLimit = opt.Limit
	if err := s.errFor[category]; err != nil {
		return nil, err
	}
	return s.pools[category], nil
}

type staticProvider struct {
	tax *taxonomy.Taxonomy
}

func (p *staticProvider) Current() *taxonomy.Taxonomy {
	return p.tax
}

// testTaxonomy mirrors the shape of a real category table: five concrete
// categories, one parent, one keyword table.
func testTaxonomy() *taxonomy.Taxonomy {
	return taxonomy.New(taxonomy.Taxonomy{
		Version:    "vtest",
		Categories: []string{"EVENING WEAR", "COCKTAIL DRESSES", "BRIDAL", "SNEAKERS", "HANDBAGS"},
		Parents: []taxonomy.ParentRule{
			{Label: "DRESSES", Children: []string{"EVENING WEAR", "COCKTAIL DRESSES", "BRIDAL"}},
		},
		Keywords: []taxonomy.LanguageRules{
			{Language: "en", Rules: []taxonomy.KeywordRule{
				{Label: "EVENING WEAR", Patterns: []string{"evening", "gala"}},
				{Label: "COCKTAIL DRESSES", Patterns: []string{"cocktail"}},
				{Label: "BRIDAL", Patterns: []string{"wedding", "bridal"}},
				{Label: "SNEAKERS", Patterns: []string{"sneaker", "trainers"}},
				{Label: "HANDBAGS", Patterns: []string{"handbag"}},
				{Label: "DRESSES", Patterns: []string{"dress"}},
			}},
		},
	}, "en")
}

func newResolver(sessions *stubSessionRepo, candidates *stubCandidateRepo, opts Options) *implUseCase {
	return New(&mockLogger{}, sessions, candidates, &staticProvider{tax: testTaxonomy()}, extractor.New(), opts)
}

func available(ids ...string) []repo.Candidate {
	out := make([]repo.Candidate, len(ids))
	for i, id := range ids {
		out[i] = repo.Candidate{ID: id, Available: true}
	}
	return out
}

func sessionOf(turns ...model.Turn) model.Session {
	return model.Session{ID: "s1", Turns: turns}
}
