// Package filter narrows an observable list by a text query over terms
// extracted from each item. The query is an observable cell and the result
// is a derived value, so UI code can subscribe to either.
package filter

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"refract/reactive"
)

// queryCacheSize bounds the query -> matching-index memo. Interactive
// filtering retypes the same prefixes constantly, so a small cache is enough.
const queryCacheSize = 128

// Options controls how terms are matched against the query.
type Options struct {
	// CaseSensitive disables lowercasing of query and terms.
	CaseSensitive bool

	// Strict requires exact equality instead of substring containment.
	// Strict matching is always case-sensitive.
	Strict bool

	// Trim removes surrounding whitespace from query and terms before
	// comparing. Enabled in DefaultOptions.
	Trim bool
}

// DefaultOptions returns the options most callers want: trimmed,
// case-insensitive substring matching.
func DefaultOptions() Options {
	return Options{Trim: true}
}

// Filter narrows a list by a query.
type Filter[T any] struct {
	list   *reactive.Ref[[]T]
	terms  func(T) []string
	opts   Options
	query  *reactive.Ref[string]
	result *reactive.Derived[[]T]
	cache  *lru.Cache[string, []int]
}

// New creates a Filter over list. terms extracts the searchable strings from
// an item; see Fields and Single for common extractors. The filter never
// mutates the list.
func New[T any](list *reactive.Ref[[]T], terms func(T) []string, opts Options) *Filter[T] {
	cache, _ := lru.New[string, []int](queryCacheSize)

	f := &Filter[T]{
		list:  list,
		terms: terms,
		opts:  opts,
		query: reactive.NewRef(""),
		cache: cache,
	}

	// Cached match indices are only valid for one generation of the list.
	// This subscription is registered before the Derived's, so the purge
	// happens ahead of the recompute.
	list.Subscribe(func([]T) { f.cache.Purge() })

	f.result = reactive.Derive(f.compute, list, f.query)
	return f
}

// Query is the observable query cell. Writing to it recomputes Result.
func (f *Filter[T]) Query() *reactive.Ref[string] {
	return f.query
}

// Result is the observable filtered list. When the query is empty after
// normalization it holds the full list unchanged.
func (f *Filter[T]) Result() *reactive.Derived[[]T] {
	return f.result
}

// Matches reports whether a single item satisfies the current query.
func (f *Filter[T]) Matches(item T) bool {
	q := f.normalize(f.query.Get())
	if q == "" {
		return true
	}
	return f.matches(item, q)
}

func (f *Filter[T]) compute() []T {
	items := f.list.Get()
	q := f.normalize(f.query.Get())
	if q == "" {
		return items
	}

	if indices, ok := f.cache.Get(q); ok {
		return pick(items, indices)
	}

	indices := make([]int, 0, len(items))
	for i, item := range items {
		if f.matches(item, q) {
			indices = append(indices, i)
		}
	}
	f.cache.Add(q, indices)
	return pick(items, indices)
}

// matches reports whether any of the item's terms satisfies the already
// normalized query.
func (f *Filter[T]) matches(item T, q string) bool {
	for _, term := range f.terms(item) {
		term = f.normalize(term)
		if f.opts.Strict {
			if term == q {
				return true
			}
		} else if strings.Contains(term, q) {
			return true
		}
	}
	return false
}

func (f *Filter[T]) normalize(s string) string {
	if f.opts.Trim {
		s = strings.TrimSpace(s)
	}
	if !f.opts.Strict && !f.opts.CaseSensitive {
		s = strings.ToLower(s)
	}
	return s
}

func pick[T any](items []T, indices []int) []T {
	out := make([]T, 0, len(indices))
	for _, i := range indices {
		if i < len(items) {
			out = append(out, items[i])
		}
	}
	return out
}
