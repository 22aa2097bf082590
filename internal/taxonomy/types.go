package taxonomy

import "fmt"

// KeywordRule maps trigger patterns to a category label. The label may name
// a concrete category or a parent; parents expand at extraction time.
type KeywordRule struct {
	Label    string   `mapstructure:"label"`
	Patterns []string `mapstructure:"patterns"`
}

// LanguageRules is the ordered keyword rule table for one language.
type LanguageRules struct {
	Language string        `mapstructure:"language"`
	Rules    []KeywordRule `mapstructure:"rules"`
}

// ParentRule declares a parent category and the concrete categories it
// expands to. Labels live in values, not map keys, so config loading never
// case-folds them and declaration order stays meaningful.
type ParentRule struct {
	Label    string   `mapstructure:"label"`
	Children []string `mapstructure:"children"`
}

// Taxonomy is one immutable snapshot of the category table. A refresh never
// mutates a snapshot in place; the provider swaps in a whole new one, so
// callers can hold a snapshot for the duration of an operation.
type Taxonomy struct {
	Version    string          `mapstructure:"version"`
	Categories []string        `mapstructure:"categories"` // concrete labels, declaration order
	Parents    []ParentRule    `mapstructure:"parents"`
	Keywords   []LanguageRules `mapstructure:"keywords"`

	defaultLanguage string
	concrete        map[string]struct{}
	children        map[string][]string
	rulesByLanguage map[string][]KeywordRule
}

// New builds a usable snapshot from already-assembled parts. The file
// provider is the normal path; this exists for tools and tests that build
// tables in code.
func New(t Taxonomy, defaultLanguage string) *Taxonomy {
	t.finalize(defaultLanguage)
	return &t
}

// finalize builds the lookup indexes after decoding. Must be called before
// the snapshot is published.
func (t *Taxonomy) finalize(defaultLanguage string) {
	t.defaultLanguage = defaultLanguage

	t.concrete = make(map[string]struct{}, len(t.Categories))
	for _, label := range t.Categories {
		t.concrete[label] = struct{}{}
	}

	t.children = make(map[string][]string, len(t.Parents))
	for _, p := range t.Parents {
		t.children[p.Label] = p.Children
	}

	t.rulesByLanguage = make(map[string][]KeywordRule, len(t.Keywords))
	for _, lr := range t.Keywords {
		t.rulesByLanguage[lr.Language] = lr.Rules
	}
}

// IsConcrete reports whether label names a concrete category.
func (t *Taxonomy) IsConcrete(label string) bool {
	_, ok := t.concrete[label]
	return ok
}

// IsParent reports whether label names a parent category.
func (t *Taxonomy) IsParent(label string) bool {
	_, ok := t.children[label]
	return ok
}

// Children returns the concrete categories a parent expands to, in
// declaration order. Nil for unknown parents.
func (t *Taxonomy) Children(parent string) []string {
	return t.children[parent]
}

// RulesFor returns the ordered keyword rules for a language, falling back to
// the default language when the requested one has no rule table.
func (t *Taxonomy) RulesFor(language string) []KeywordRule {
	if language != "" {
		if rules, ok := t.rulesByLanguage[language]; ok {
			return rules
		}
	}
	return t.rulesByLanguage[t.defaultLanguage]
}

// Validate returns human-readable structural problems, empty when the
// snapshot is usable. Used at load time and by the lint tool.
func (t *Taxonomy) Validate() []string {
	var problems []string

	seen := make(map[string]struct{}, len(t.Categories))
	for _, label := range t.Categories {
		if label == "" {
			problems = append(problems, "empty concrete category label")
			continue
		}
		if _, dup := seen[label]; dup {
			problems = append(problems, fmt.Sprintf("duplicate concrete category %q", label))
		}
		seen[label] = struct{}{}
	}

	parents := make(map[string]struct{}, len(t.Parents))
	for _, p := range t.Parents {
		if _, clash := seen[p.Label]; clash {
			problems = append(problems, fmt.Sprintf("parent %q is also declared as a concrete category", p.Label))
		}
		if _, dup := parents[p.Label]; dup {
			problems = append(problems, fmt.Sprintf("duplicate parent %q", p.Label))
		}
		parents[p.Label] = struct{}{}
		if len(p.Children) == 0 {
			problems = append(problems, fmt.Sprintf("parent %q has no children", p.Label))
		}
		for _, child := range p.Children {
			if _, ok := seen[child]; !ok {
				problems = append(problems, fmt.Sprintf("parent %q lists unknown child %q", p.Label, child))
			}
		}
	}

	languages := make(map[string]struct{}, len(t.Keywords))
	for _, lr := range t.Keywords {
		if lr.Language == "" {
			problems = append(problems, "keyword table with empty language code")
		}
		if _, dup := languages[lr.Language]; dup {
			problems = append(problems, fmt.Sprintf("duplicate keyword table for language %q", lr.Language))
		}
		languages[lr.Language] = struct{}{}
		if len(lr.Rules) == 0 {
			problems = append(problems, fmt.Sprintf("language %q has an empty rule table", lr.Language))
		}
		for _, rule := range lr.Rules {
			if !t.IsConcrete(rule.Label) && !t.IsParent(rule.Label) {
				problems = append(problems, fmt.Sprintf("language %q: rule targets unknown label %q", lr.Language, rule.Label))
			}
			if len(rule.Patterns) == 0 {
				problems = append(problems, fmt.Sprintf("language %q: rule for %q has no patterns", lr.Language, rule.Label))
			}
			for _, pattern := range rule.Patterns {
				if pattern == "" {
					problems = append(problems, fmt.Sprintf("language %q: rule for %q has an empty pattern", lr.Language, rule.Label))
				}
			}
		}
	}

	if _, ok := languages[t.defaultLanguage]; !ok && t.defaultLanguage != "" && len(t.Keywords) > 0 {
		problems = append(problems, fmt.Sprintf("default language %q has no rule table", t.defaultLanguage))
	}

	return problems
}
