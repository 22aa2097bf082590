package extractor

import (
	"strings"

	"golang.org/x/text/transform"

	"conversational-recommendation/internal/taxonomy"
)

// Extractor maps free user text to concrete category labels using the
// taxonomy's per-language keyword rules.
//
// It is a pure function over (taxonomy snapshot, text, language): no I/O, no
// stored state, identical inputs give identical output. An empty result is a
// valid outcome, not an error.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// Extract returns every concrete category the text matches, in rule order.
// A matched parent label expands to all of its children; duplicates across
// rules are dropped while the first occurrence keeps its position. Matching
// is substring containment over normalized text, so keyword casing, accents
// and spacing in either the query or the pattern do not matter.
func (e *Extractor) Extract(tax *taxonomy.Taxonomy, text, language string) []string {
	if tax == nil {
		return nil
	}

	folder := newFolder()
	query := normalizeWith(folder, text)
	if query == "" {
		return nil
	}

	var matched []string
	seen := make(map[string]bool)

	for _, rule := range tax.RulesFor(language) {
		if !ruleMatches(folder, rule.Patterns, query) {
			continue
		}

		if tax.IsParent(rule.Label) {
			// Parent match stands for every child, not a single pick.
			for _, child := range tax.Children(rule.Label) {
				if !seen[child] {
					seen[child] = true
					matched = append(matched, child)
				}
			}
			continue
		}

		if !seen[rule.Label] {
			seen[rule.Label] = true
			matched = append(matched, rule.Label)
		}
	}

	return matched
}

func ruleMatches(folder transform.Transformer, patterns []string, query string) bool {
	for _, pattern := range patterns {
		normalized := normalizeWith(folder, pattern)
		if normalized != "" && strings.Contains(query, normalized) {
			return true
		}
	}
	return false
}
