package usecase

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"conversational-recommendation/internal/extractor"
	"conversational-recommendation/internal/model"
	"conversational-recommendation/internal/recommend"
	repo "conversational-recommendation/internal/recommend/repository"
	"conversational-recommendation/internal/taxonomy"
)

func TestResolveTiers(t *testing.T) {
	ctx := context.Background()
	sc := model.Scope{SessionID: "s1", Language: "en"}

	t.Run("query signal overrides history", func(t *testing.T) {
		sessions := &stubSessionRepo{
			getFunc: func(ctx context.Context, id string) (model.Session, error) {
				return sessionOf(
					model.Turn{Number: 1, Query: "white sneakers please", RecommendedIDs: []string{"sn-1", "sn-2"}},
					model.Turn{Number: 2, Query: "more sneakers", RecommendedIDs: []string{"sn-3"}},
				), nil
			},
		}
		candidates := &stubCandidateRepo{pools: map[string][]repo.Candidate{
			"COCKTAIL DRESSES": available("sn-1", "ck-1", "ck-2", "ck-3"),
			"SNEAKERS":         available("sn-4", "sn-5"),
		}}
		uc := newResolver(sessions, candidates, Options{})

		out, err := uc.Resolve(ctx, sc, recommend.ResolveInput{Query: "something for a cocktail party", N: 3})
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if out.TierUsed != recommend.TierQueryDriven {
			t.Errorf("TierUsed = %s, want %s", out.TierUsed, recommend.TierQueryDriven)
		}
		if !reflect.DeepEqual(out.CategoriesUsed, []string{"COCKTAIL DRESSES"}) {
			t.Errorf("CategoriesUsed = %v", out.CategoriesUsed)
		}
		if !reflect.DeepEqual(out.Items, []string{"ck-1", "ck-2", "ck-3"}) {
			t.Errorf("Items = %v, want the cocktail pool minus already-seen ids", out.Items)
		}
		if out.ExcludedCount != 3 {
			t.Errorf("ExcludedCount = %d, want 3", out.ExcludedCount)
		}
		if !out.HistoryAvailable {
			t.Error("HistoryAvailable = false, want true")
		}
		if !reflect.DeepEqual(candidates.fetchCalls, []string{"COCKTAIL DRESSES"}) {
			t.Errorf("fetched %v, the history categories must not be consulted", candidates.fetchCalls)
		}
		if candidates.lastLimit != 50 {
			t.Errorf("fetch limit = %d, want the default 50", candidates.lastLimit)
		}
	})

	t.Run("history ranks categories by frequency", func(t *testing.T) {
		sessions := &stubSessionRepo{
			getFunc: func(ctx context.Context, id string) (model.Session, error) {
				return sessionOf(
					model.Turn{Number: 1, Query: "white sneakers please"},
					model.Turn{Number: 2, Query: "need an evening gown"},
					model.Turn{Number: 3, Query: "more trainers maybe"},
				), nil
			},
		}
		candidates := &stubCandidateRepo{pools: map[string][]repo.Candidate{
			"SNEAKERS":     available("sn-9", "sn-10", "sn-11"),
			"EVENING WEAR": available("ev-1", "ev-2"),
		}}
		uc := newResolver(sessions, candidates, Options{})

		out, err := uc.Resolve(ctx, sc, recommend.ResolveInput{Query: "what else would suit me", N: 4})
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if out.TierUsed != recommend.TierPersonalized {
			t.Errorf("TierUsed = %s, want %s", out.TierUsed, recommend.TierPersonalized)
		}
		if !reflect.DeepEqual(out.CategoriesUsed, []string{"SNEAKERS", "EVENING WEAR"}) {
			t.Errorf("CategoriesUsed = %v, want sneakers (2 mentions) before evening wear (1)", out.CategoriesUsed)
		}
		if !reflect.DeepEqual(out.Items, []string{"sn-9", "sn-10", "ev-1", "ev-2"}) {
			t.Errorf("Items = %v", out.Items)
		}
	})

	t.Run("frequency ties go to the earliest turn", func(t *testing.T) {
		sessions := &stubSessionRepo{
			getFunc: func(ctx context.Context, id string) (model.Session, error) {
				return sessionOf(
					model.Turn{Number: 1, Query: "that handbag looks nice"},
					model.Turn{Number: 2, Query: "white sneakers"},
				), nil
			},
		}
		candidates := &stubCandidateRepo{pools: map[string][]repo.Candidate{
			"HANDBAGS": available("hb-1"),
			"SNEAKERS": available("sn-1"),
		}}
		uc := newResolver(sessions, candidates, Options{})

		out, err := uc.Resolve(ctx, sc, recommend.ResolveInput{Query: "surprise me", N: 2})
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if !reflect.DeepEqual(out.CategoriesUsed, []string{"HANDBAGS", "SNEAKERS"}) {
			t.Errorf("CategoriesUsed = %v, want the turn-1 category first", out.CategoriesUsed)
		}
		if !reflect.DeepEqual(out.Items, []string{"hb-1", "sn-1"}) {
			t.Errorf("Items = %v", out.Items)
		}
	})

	t.Run("cold session spreads over the deepest pools", func(t *testing.T) {
		sessions := &stubSessionRepo{}
		candidates := &stubCandidateRepo{pools: map[string][]repo.Candidate{
			"EVENING WEAR":     available("ev-1", "ev-2"),
			"COCKTAIL DRESSES": available("ck-1", "ck-2", "ck-3", "ck-4", "ck-5"),
			"BRIDAL":           available("br-1", "br-2", "br-3"),
			"SNEAKERS":         available("sn-1", "sn-2", "sn-3", "sn-4", "sn-5"),
			"HANDBAGS":         available("hb-1"),
		}}
		uc := newResolver(sessions, candidates, Options{})

		out, err := uc.Resolve(ctx, sc, recommend.ResolveInput{Query: "hello there", N: 5})
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if out.TierUsed != recommend.TierDiverse {
			t.Errorf("TierUsed = %s, want %s", out.TierUsed, recommend.TierDiverse)
		}
		// Cocktail and sneakers tie at five; taxonomy declaration order
		// puts cocktail first.
		if !reflect.DeepEqual(out.CategoriesUsed, []string{"COCKTAIL DRESSES", "SNEAKERS", "BRIDAL"}) {
			t.Errorf("CategoriesUsed = %v", out.CategoriesUsed)
		}
		if !reflect.DeepEqual(out.Items, []string{"ck-1", "ck-2", "sn-1", "sn-2", "br-1"}) {
			t.Errorf("Items = %v", out.Items)
		}
		if !out.HistoryAvailable {
			t.Error("HistoryAvailable = false; an empty session is not a store failure")
		}
		if len(candidates.fetchCalls) != 5 {
			t.Errorf("catalog saw %d fetches, want one per category with pools reused for assembly", len(candidates.fetchCalls))
		}
	})
}

func TestResolveDegradedStore(t *testing.T) {
	ctx := context.Background()
	sc := model.Scope{SessionID: "s1", Language: "en"}
	down := func(ctx context.Context, id string) (model.Session, error) {
		return model.Session{}, fmt.Errorf("%w: dial tcp: connection refused", repo.ErrUnavailable)
	}

	t.Run("query signal still produces a full result", func(t *testing.T) {
		candidates := &stubCandidateRepo{pools: map[string][]repo.Candidate{
			"BRIDAL":           available("br-1", "br-2"),
			"EVENING WEAR":     available("ev-1"),
			"COCKTAIL DRESSES": available("ck-1"),
		}}
		uc := newResolver(&stubSessionRepo{getFunc: down}, candidates, Options{})

		out, err := uc.Resolve(ctx, sc, recommend.ResolveInput{Query: "wedding dress", N: 2})
		if err != nil {
			t.Fatalf("Resolve() error = %v, a store outage must not fail the request", err)
		}
		if out.TierUsed != recommend.TierQueryDriven {
			t.Errorf("TierUsed = %s, want %s", out.TierUsed, recommend.TierQueryDriven)
		}
		if !reflect.DeepEqual(out.Items, []string{"br-1", "ev-1"}) {
			t.Errorf("Items = %v", out.Items)
		}
		if out.HistoryAvailable {
			t.Error("HistoryAvailable = true, want false while the store is down")
		}
		if out.ExcludedCount != 0 {
			t.Errorf("ExcludedCount = %d, want 0 without a readable history", out.ExcludedCount)
		}
	})

	t.Run("no signal degrades to the diverse tier", func(t *testing.T) {
		candidates := &stubCandidateRepo{pools: map[string][]repo.Candidate{
			"SNEAKERS": available("sn-1", "sn-2"),
		}}
		uc := newResolver(&stubSessionRepo{getFunc: down}, candidates, Options{})

		out, err := uc.Resolve(ctx, sc, recommend.ResolveInput{Query: "anything", N: 2})
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if out.TierUsed != recommend.TierDiverse {
			t.Errorf("TierUsed = %s, want %s", out.TierUsed, recommend.TierDiverse)
		}
		if !reflect.DeepEqual(out.Items, []string{"sn-1", "sn-2"}) {
			t.Errorf("Items = %v", out.Items)
		}
		if out.HistoryAvailable {
			t.Error("HistoryAvailable = true, want false")
		}
	})
}

func TestResolveValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("missing session id", func(t *testing.T) {
		uc := newResolver(&stubSessionRepo{}, &stubCandidateRepo{}, Options{})
		_, err := uc.Resolve(ctx, model.Scope{}, recommend.ResolveInput{Query: "hi", N: 3})
		if !errors.Is(err, recommend.ErrSessionIDRequired) {
			t.Errorf("Resolve() error = %v, want ErrSessionIDRequired", err)
		}
	})

	t.Run("non-positive n returns empty without touching collaborators", func(t *testing.T) {
		for _, n := range []int{0, -3} {
			sessions := &stubSessionRepo{}
			candidates := &stubCandidateRepo{}
			uc := newResolver(sessions, candidates, Options{})

			out, err := uc.Resolve(ctx, model.Scope{SessionID: "s1"}, recommend.ResolveInput{Query: "cocktail", N: n})
			if err != nil {
				t.Fatalf("Resolve(n=%d) error = %v", n, err)
			}
			if out.Items == nil || len(out.Items) != 0 {
				t.Errorf("Resolve(n=%d) Items = %v, want empty", n, out.Items)
			}
			if sessions.getCalls != 0 || len(candidates.fetchCalls) != 0 {
				t.Errorf("Resolve(n=%d) touched collaborators: %d reads, %d fetches",
					n, sessions.getCalls, len(candidates.fetchCalls))
			}
		}
	})
}

func TestResolveExclusions(t *testing.T) {
	ctx := context.Background()
	sc := model.Scope{SessionID: "s1", Language: "en"}

	sessions := &stubSessionRepo{
		getFunc: func(ctx context.Context, id string) (model.Session, error) {
			return sessionOf(model.Turn{Number: 1, Query: "hello", RecommendedIDs: []string{"a-1"}}), nil
		},
	}
	candidates := &stubCandidateRepo{pools: map[string][]repo.Candidate{
		"COCKTAIL DRESSES": available("a-1", "x-9", "ck-1", "ck-2"),
	}}
	uc := newResolver(sessions, candidates, Options{})

	out, err := uc.Resolve(ctx, sc, recommend.ResolveInput{
		Query:              "cocktail night",
		N:                  2,
		ExplicitExclusions: []string{"x-9", "x-9", ""},
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !reflect.DeepEqual(out.Items, []string{"ck-1", "ck-2"}) {
		t.Errorf("Items = %v, excluded ids leaked into the result", out.Items)
	}
	if out.ExcludedCount != 2 {
		t.Errorf("ExcludedCount = %d, want 2 distinct ids", out.ExcludedCount)
	}
}

func TestResolveUnavailableItems(t *testing.T) {
	ctx := context.Background()
	sc := model.Scope{SessionID: "s1", Language: "en"}

	candidates := &stubCandidateRepo{pools: map[string][]repo.Candidate{
		"COCKTAIL DRESSES": {
			{ID: "ck-1", Available: false},
			{ID: "ck-2", Available: true},
			{ID: "ck-3", Available: true},
		},
	}}
	uc := newResolver(&stubSessionRepo{}, candidates, Options{})

	out, err := uc.Resolve(ctx, sc, recommend.ResolveInput{Query: "cocktail", N: 2})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !reflect.DeepEqual(out.Items, []string{"ck-2", "ck-3"}) {
		t.Errorf("Items = %v, unavailable items must be skipped", out.Items)
	}
}

func TestResolvePoolFailureReallocates(t *testing.T) {
	ctx := context.Background()
	sc := model.Scope{SessionID: "s1", Language: "en"}

	candidates := &stubCandidateRepo{
		pools: map[string][]repo.Candidate{
			"COCKTAIL DRESSES": available("ck-1", "ck-2", "ck-3"),
			"BRIDAL":           available("br-1", "br-2"),
		},
		errFor: map[string]error{
			"EVENING WEAR": fmt.Errorf("%w: upstream 502", repo.ErrUnavailable),
		},
	}
	uc := newResolver(&stubSessionRepo{}, candidates, Options{})

	// "evening dress" selects evening wear plus the dresses parent's
	// children; the failing category's share moves down the order.
	out, err := uc.Resolve(ctx, sc, recommend.ResolveInput{Query: "evening dress", N: 3})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !reflect.DeepEqual(out.CategoriesUsed, []string{"EVENING WEAR", "COCKTAIL DRESSES", "BRIDAL"}) {
		t.Errorf("CategoriesUsed = %v", out.CategoriesUsed)
	}
	if !reflect.DeepEqual(out.Items, []string{"ck-1", "ck-2", "br-1"}) {
		t.Errorf("Items = %v, want the failed category's slot reallocated", out.Items)
	}
}

func TestResolveEmptyCatalog(t *testing.T) {
	ctx := context.Background()

	uc := newResolver(&stubSessionRepo{}, &stubCandidateRepo{}, Options{})
	out, err := uc.Resolve(ctx, model.Scope{SessionID: "s1", Language: "en"}, recommend.ResolveInput{Query: "hello", N: 4})
	if err != nil {
		t.Fatalf("Resolve() error = %v, an empty catalog is not an error", err)
	}
	if len(out.Items) != 0 {
		t.Errorf("Items = %v, want empty", out.Items)
	}
	if out.TierUsed != recommend.TierDiverse {
		t.Errorf("TierUsed = %s, want the tier reported honestly even when empty", out.TierUsed)
	}
	if len(out.CategoriesUsed) != 0 {
		t.Errorf("CategoriesUsed = %v, want none", out.CategoriesUsed)
	}
}

func TestResolveTaxonomyDrift(t *testing.T) {
	ctx := context.Background()
	sc := model.Scope{SessionID: "s1", Language: "en"}

	// A table where one rule still targets a label that is no longer a
	// concrete category, as happens mid-migration.
	drifted := taxonomy.New(taxonomy.Taxonomy{
		Version:    "vdrift",
		Categories: []string{"SNEAKERS"},
		Keywords: []taxonomy.LanguageRules{
			{Language: "en", Rules: []taxonomy.KeywordRule{
				{Label: "DISCONTINUED", Patterns: []string{"retro"}},
				{Label: "SNEAKERS", Patterns: []string{"sneaker"}},
			}},
		},
	}, "en")

	newDriftResolver := func(sessions *stubSessionRepo, candidates *stubCandidateRepo) *implUseCase {
		return New(&mockLogger{}, sessions, candidates, &staticProvider{tax: drifted}, extractor.New(), Options{})
	}

	t.Run("stale label in the query falls through to history", func(t *testing.T) {
		sessions := &stubSessionRepo{
			getFunc: func(ctx context.Context, id string) (model.Session, error) {
				return sessionOf(model.Turn{Number: 1, Query: "classic sneakers"}), nil
			},
		}
		candidates := &stubCandidateRepo{pools: map[string][]repo.Candidate{
			"SNEAKERS": available("sn-1"),
		}}
		uc := newDriftResolver(sessions, candidates)

		out, err := uc.Resolve(ctx, sc, recommend.ResolveInput{Query: "retro classics", N: 1})
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if out.TierUsed != recommend.TierPersonalized {
			t.Errorf("TierUsed = %s, want fallthrough to %s", out.TierUsed, recommend.TierPersonalized)
		}
		if !reflect.DeepEqual(out.CategoriesUsed, []string{"SNEAKERS"}) {
			t.Errorf("CategoriesUsed = %v", out.CategoriesUsed)
		}
	})

	t.Run("stale label in history is dropped from the ranking", func(t *testing.T) {
		sessions := &stubSessionRepo{
			getFunc: func(ctx context.Context, id string) (model.Session, error) {
				return sessionOf(model.Turn{Number: 1, Query: "retro kicks"}), nil
			},
		}
		candidates := &stubCandidateRepo{pools: map[string][]repo.Candidate{
			"SNEAKERS": available("sn-1"),
		}}
		uc := newDriftResolver(sessions, candidates)

		out, err := uc.Resolve(ctx, sc, recommend.ResolveInput{Query: "anything", N: 1})
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if out.TierUsed != recommend.TierDiverse {
			t.Errorf("TierUsed = %s, want %s after the only history category was dropped", out.TierUsed, recommend.TierDiverse)
		}
	})
}
