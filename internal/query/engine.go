// Package query implements search and random selection over a catalog store.
package query

import (
	"errors"
	"math/rand/v2"
	"strings"

	"github.com/matsen/physform/internal/catalog"
	"github.com/matsen/physform/internal/formula"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrEmptyCatalog indicates there is no entry to pick from.
var ErrEmptyCatalog = errors.New("catalog has no entries")

// Match is an entry together with the section that holds it.
type Match struct {
	Section string        `json:"section"`
	Entry   formula.Entry `json:"entry"`
}

// Engine answers queries against a Store.
type Engine struct {
	store *catalog.Store
	rng   *rand.Rand
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the random source used by Random.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = r
	}
}

// NewEngine creates an engine over store.
func NewEngine(store *catalog.Store, opts ...Option) *Engine {
	e := &Engine{
		store: store,
		rng:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store returns the underlying store.
func (e *Engine) Store() *catalog.Store {
	return e.store
}

// fold lower-cases s without language-specific rules.
func fold(s string) string {
	return cases.Lower(language.Und).String(s)
}

// normalizeQuery trims and lower-cases a query.
func normalizeQuery(q string) string {
	return fold(strings.TrimSpace(q))
}

// Search returns every entry whose name contains q, case-insensitively, in
// catalog order. An empty query matches every entry.
func (e *Engine) Search(q string) []Match {
	q = normalizeQuery(q)
	var matches []Match
	e.store.Each(func(section string, entry formula.Entry) bool {
		if strings.Contains(fold(entry.Name), q) {
			matches = append(matches, Match{Section: section, Entry: entry})
		}
		return true
	})
	return matches
}

// FindFirst returns the first entry whose name or description contains q.
func (e *Engine) FindFirst(q string) (Match, bool) {
	q = normalizeQuery(q)
	var found Match
	ok := false
	e.store.Each(func(section string, entry formula.Entry) bool {
		if strings.Contains(fold(entry.Name), q) || strings.Contains(fold(entry.Description), q) {
			found = Match{Section: section, Entry: entry}
			ok = true
			return false
		}
		return true
	})
	return found, ok
}

// Random picks a section uniformly among the non-empty ones, then an entry
// uniformly within it. Entries of small sections are therefore favored
// over a flat draw.
func (e *Engine) Random() (Match, error) {
	sections := e.store.NonEmptySections()
	if len(sections) == 0 {
		return Match{}, ErrEmptyCatalog
	}
	sec := sections[e.rng.IntN(len(sections))]
	entry := sec.Entries[e.rng.IntN(len(sec.Entries))]
	return Match{Section: sec.Name, Entry: entry}, nil
}

// List returns the store's section listing.
func (e *Engine) List() []catalog.Listing {
	return e.store.ListAll()
}
