package usecase

import (
	"context"
	"sort"

	"conversational-recommendation/internal/model"
	"conversational-recommendation/internal/recommend/repository"
	"conversational-recommendation/internal/taxonomy"
)

// categoryStat aggregates the pseudo-events one category accumulated
// across a session. Events are regenerated from the stored query text
// so the ranking always reflects the current taxonomy.
type categoryStat struct {
	label     string
	count     int
	firstTurn int // earliest turn the category appeared in
	firstSeen int // arrival order inside the scan, the final tie break
}

// personalizedCategories ranks the categories of prior turns by how
// often they were detected. Ties go to the category seen in the
// earliest turn.
func (uc *implUseCase) personalizedCategories(ctx context.Context, tax *taxonomy.Taxonomy, language string, history model.Session) []string {
	stats := make(map[string]*categoryStat)
	seen := 0
	for _, turn := range history.Turns {
		for _, label := range uc.extractor.Extract(tax, turn.Query, language) {
			if !tax.IsConcrete(label) {
				uc.l.Warnf(ctx, "Resolve: dropping category %q from turn %d: not a concrete category in taxonomy %s",
					label, turn.Number, tax.Version)
				continue
			}
			s, ok := stats[label]
			if !ok {
				s = &categoryStat{label: label, firstTurn: turn.Number, firstSeen: seen}
				seen++
				stats[label] = s
			}
			s.count++
		}
	}
	if len(stats) == 0 {
		return nil
	}

	ranked := make([]*categoryStat, 0, len(stats))
	for _, s := range stats {
		ranked = append(ranked, s)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		if ranked[i].firstTurn != ranked[j].firstTurn {
			return ranked[i].firstTurn < ranked[j].firstTurn
		}
		return ranked[i].firstSeen < ranked[j].firstSeen
	})

	categories := make([]string, len(ranked))
	for i, s := range ranked {
		categories[i] = s.label
	}
	return categories
}

// diverseCategories scans every concrete category and keeps the ones
// with the deepest eligible pools, up to the configured cap. The
// fetched pools are returned so assembly does not hit the catalog
// twice. Declaration order in the taxonomy breaks popularity ties.
func (uc *implUseCase) diverseCategories(ctx context.Context, tax *taxonomy.Taxonomy, exclusions map[string]bool) ([]string, map[string][]string) {
	type poolStat struct {
		label    string
		eligible int
	}

	pools := make(map[string][]string, len(tax.Categories))
	stats := make([]poolStat, 0, len(tax.Categories))
	for _, category := range tax.Categories {
		eligible, err := uc.fetchEligible(ctx, category, exclusions)
		if err != nil {
			uc.l.Warnf(ctx, "Resolve: diverse scan skipping category %q: %v", category, err)
			continue
		}
		pools[category] = eligible
		if len(eligible) > 0 {
			stats = append(stats, poolStat{label: category, eligible: len(eligible)})
		}
	}

	// stats is in declaration order, so a stable sort keeps that
	// order between equally populous categories.
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].eligible > stats[j].eligible
	})
	if len(stats) > uc.opts.DiverseCategoryCap {
		stats = stats[:uc.opts.DiverseCategoryCap]
	}

	categories := make([]string, len(stats))
	for i, s := range stats {
		categories[i] = s.label
	}
	return categories, pools
}

// fetchEligible pulls one category pool and filters out excluded or
// unavailable items, preserving the catalog's ranking order.
func (uc *implUseCase) fetchEligible(ctx context.Context, category string, exclusions map[string]bool) ([]string, error) {
	pool, err := uc.candidates.FetchCandidates(ctx, category, repository.FetchCandidatesOptions{Limit: uc.opts.FetchLimit})
	if err != nil {
		return nil, err
	}
	eligible := make([]string, 0, len(pool))
	for _, c := range pool {
		if !c.Available || exclusions[c.ID] {
			continue
		}
		eligible = append(eligible, c.ID)
	}
	return eligible, nil
}
