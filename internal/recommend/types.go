package recommend

import "conversational-recommendation/internal/model"

// Tier identifies the strategy that produced a recommendation set. Exactly
// one tier is chosen per resolve; they never blend.
type Tier string

const (
	// TierQueryDriven: the current query named categories; history is ignored.
	TierQueryDriven Tier = "query_driven"
	// TierPersonalized: no categories in the query, ranked from session history.
	TierPersonalized Tier = "personalized"
	// TierDiverse: no query signal and no usable history; spread over the
	// most-populous catalog categories.
	TierDiverse Tier = "diverse"
)

// --- UseCase Inputs ---

type ResolveInput struct {
	Query              string
	N                  int
	ExplicitExclusions []string
}

type RecordTurnInput struct {
	Query          string
	Categories     []string
	RecommendedIDs []string
}

// --- UseCase Outputs ---

// ResolveOutput carries the recommendation set plus the diagnostics callers
// need to explain it: which tier fired, which categories were used, how many
// items were withheld as already seen, and whether history was readable.
type ResolveOutput struct {
	Items            []string
	TierUsed         Tier
	CategoriesUsed   []string
	ExcludedCount    int
	HistoryAvailable bool
}

type SessionOutput struct {
	Session model.Session
}
