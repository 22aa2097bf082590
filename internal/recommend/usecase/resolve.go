package usecase

import (
	"context"

	"conversational-recommendation/internal/model"
	"conversational-recommendation/internal/recommend"
	"conversational-recommendation/internal/taxonomy"
)

// Resolve produces a recommendation slate for one conversational turn.
// Exactly one tier supplies the categories: explicit signal in the
// current query wins, accumulated session history is next, and a
// catalog-wide diverse slate is the fallback for cold sessions.
func (uc *implUseCase) Resolve(ctx context.Context, sc model.Scope, input recommend.ResolveInput) (recommend.ResolveOutput, error) {
	if sc.SessionID == "" {
		return recommend.ResolveOutput{}, recommend.ErrSessionIDRequired
	}

	if input.N <= 0 {
		uc.l.Debugf(ctx, "Resolve: session %s requested %d items, nothing to do", sc.SessionID, input.N)
		return recommend.ResolveOutput{
			Items:            []string{},
			HistoryAvailable: true,
		}, nil
	}

	tax := uc.taxonomy.Current()

	history, historyOK := uc.loadHistory(ctx, sc.SessionID)
	exclusions := buildExclusionSet(history, input.ExplicitExclusions)

	var (
		tier       recommend.Tier
		categories []string
		prefetched map[string][]string
	)
	if current := uc.concreteOnly(ctx, tax, uc.extractor.Extract(tax, input.Query, sc.Language)); len(current) > 0 {
		tier, categories = recommend.TierQueryDriven, current
	} else if ranked := uc.personalizedCategories(ctx, tax, sc.Language, history); len(ranked) > 0 {
		tier, categories = recommend.TierPersonalized, ranked
	} else {
		tier = recommend.TierDiverse
		categories, prefetched = uc.diverseCategories(ctx, tax, exclusions)
	}

	items := uc.assemble(ctx, categories, input.N, exclusions, prefetched)

	uc.l.Infof(ctx, "Resolve: session %s tier=%s categories=%d excluded=%d items=%d/%d",
		sc.SessionID, tier, len(categories), len(exclusions), len(items), input.N)

	return recommend.ResolveOutput{
		Items:            items,
		TierUsed:         tier,
		CategoriesUsed:   categories,
		ExcludedCount:    len(exclusions),
		HistoryAvailable: historyOK,
	}, nil
}

// loadHistory is best effort. A session store outage degrades the
// resolver to a cold session instead of failing the request.
func (uc *implUseCase) loadHistory(ctx context.Context, sessionID string) (model.Session, bool) {
	sess, err := uc.sessions.GetSession(ctx, sessionID)
	if err != nil {
		uc.l.Warnf(ctx, "Resolve: session %s history unavailable, continuing without it: %v", sessionID, err)
		return model.Session{}, false
	}
	return sess, true
}

// concreteOnly drops extracted labels that the current taxonomy no
// longer lists as concrete categories. Stored conversations can
// outlive a taxonomy revision.
func (uc *implUseCase) concreteOnly(ctx context.Context, tax *taxonomy.Taxonomy, labels []string) []string {
	kept := labels[:0]
	for _, label := range labels {
		if !tax.IsConcrete(label) {
			uc.l.Warnf(ctx, "Resolve: dropping category %q: not a concrete category in taxonomy %s", label, tax.Version)
			continue
		}
		kept = append(kept, label)
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}

// buildExclusionSet unions the ids recommended in prior turns with the
// caller's explicit exclusions.
func buildExclusionSet(history model.Session, explicit []string) map[string]bool {
	set := make(map[string]bool)
	for _, id := range history.RecommendedIDs() {
		set[id] = true
	}
	for _, id := range explicit {
		if id == "" {
			continue
		}
		set[id] = true
	}
	return set
}
