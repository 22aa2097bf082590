package model

import "time"

// Turn is one completed exchange in a conversation session.
type Turn struct {
	Number         int       `json:"number"`          // 1-based, strictly monotonic within a session
	Query          string    `json:"query"`           // Raw user text for this turn
	Categories     []string  `json:"categories"`      // Category labels the response was built from
	RecommendedIDs []string  `json:"recommended_ids"` // Item ids surfaced to the user this turn
	Timestamp      time.Time `json:"timestamp"`       // When the turn was recorded
}

// Session is the append-only conversation record for one session id.
// An absent session is represented by the zero value (ID == "").
type Session struct {
	ID        string    `json:"id"`
	Turns     []Turn    `json:"turns"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsZero reports whether the session is the absent placeholder.
func (s Session) IsZero() bool {
	return s.ID == ""
}

// NextTurnNumber returns the number the next appended turn must carry.
func (s Session) NextTurnNumber() int {
	return len(s.Turns) + 1
}

// RecommendedIDs returns every item id recommended across all turns, in
// turn order. Used to build the exclusion set for the next resolve.
func (s Session) RecommendedIDs() []string {
	var ids []string
	for _, t := range s.Turns {
		ids = append(ids, t.RecommendedIDs...)
	}
	return ids
}
