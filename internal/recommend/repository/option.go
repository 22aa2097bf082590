package repository

// AppendTurnOptions holds the payload for appending one turn to a session.
// The store assigns the turn number and timestamp; callers never pick them.
type AppendTurnOptions struct {
	Query          string
	Categories     []string
	RecommendedIDs []string
}

// FetchCandidatesOptions holds fetch parameters for one category pool read.
type FetchCandidatesOptions struct {
	Limit int
}
