package model

// Scope identifies the caller of a request: the conversation session it
// belongs to, the user behind it, and the language used for extraction.
// Language may be empty, in which case the taxonomy default applies.
type Scope struct {
	SessionID string
	UserID    string
	Language  string
}
