// Package filter narrows the todo collection before it is bucketed.
package filter

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sahilm/fuzzy"

	"github.com/colonyops/planboard/internal/core/config"
	"github.com/colonyops/planboard/internal/core/todo"
)

// Matcher decides whether a single todo passes the filter.
type Matcher interface {
	Matches(item todo.Item) bool
}

// MatcherFunc adapts a function to the Matcher interface.
type MatcherFunc func(item todo.Item) bool

// Matches calls f(item).
func (f MatcherFunc) Matches(item todo.Item) bool { return f(item) }

// All matches every todo.
var All Matcher = MatcherFunc(func(todo.Item) bool { return true })

// New builds the matcher for the given search parameters. An empty phrase
// and an empty source glob match everything.
func New(params config.Search) Matcher {
	var matchers []Matcher

	if glob := strings.TrimSpace(params.SourceGlob); glob != "" {
		matchers = append(matchers, sourceMatcher{glob: glob})
	}

	if phrase := strings.TrimSpace(params.Phrase); phrase != "" {
		if params.Fuzzy {
			matchers = append(matchers, fuzzyMatcher{pattern: phrase})
		} else {
			matchers = append(matchers, textMatcher{needle: strings.ToLower(phrase)})
		}
	}

	switch len(matchers) {
	case 0:
		return All
	case 1:
		return matchers[0]
	default:
		return allOf(matchers)
	}
}

// Apply returns the todos accepted by m, preserving their order.
func Apply(items []todo.Item, m Matcher) []todo.Item {
	if m == nil {
		m = All
	}
	out := make([]todo.Item, 0, len(items))
	for _, item := range items {
		if m.Matches(item) {
			out = append(out, item)
		}
	}
	return out
}

type textMatcher struct {
	needle string
}

func (m textMatcher) Matches(item todo.Item) bool {
	return strings.Contains(strings.ToLower(item.Text), m.needle)
}

// fuzzyMatcher matches when every rune of the pattern appears in order in
// the todo text.
type fuzzyMatcher struct {
	pattern string
}

func (m fuzzyMatcher) Matches(item todo.Item) bool {
	return len(fuzzy.Find(m.pattern, []string{item.Text})) > 0
}

type sourceMatcher struct {
	glob string
}

// Matches reports false for malformed globs; config validation reports them.
func (m sourceMatcher) Matches(item todo.Item) bool {
	ok, err := doublestar.Match(m.glob, item.Source)
	return err == nil && ok
}

type allOf []Matcher

func (a allOf) Matches(item todo.Item) bool {
	for _, m := range a {
		if !m.Matches(item) {
			return false
		}
	}
	return true
}
