package contentkit

import "strings"

// Filter decides whether a single decoded character is kept while a Source
// aggregates its stream. Implementations must be pure: no state, no side effects.
type Filter interface {
	Accepts(r rune) bool
}

// FilterFunc adapts an ordinary function to the Filter interface.
type FilterFunc func(r rune) bool

// Accepts calls f(r).
func (f FilterFunc) Accepts(r rune) bool { return f(r) }

var (
	// NoFilter keeps every character.
	NoFilter Filter = FilterFunc(func(rune) bool { return true })

	// ASCIIOnly keeps characters whose code point is below 0x80.
	ASCIIOnly Filter = FilterFunc(func(r rune) bool { return r < 0x80 })
)

// ============================================================================
// Composition
// ============================================================================

type andFilter struct {
	filters []Filter
}

// And returns a filter that keeps a character only if every filter keeps it.
// And() with no arguments keeps everything.
func And(filters ...Filter) Filter {
	return &andFilter{filters: filters}
}

func (f *andFilter) Accepts(r rune) bool {
	for _, ff := range f.filters {
		if !ff.Accepts(r) {
			return false
		}
	}
	return true
}

type orFilter struct {
	filters []Filter
}

// Or returns a filter that keeps a character if any filter keeps it.
// Or() with no arguments keeps nothing.
func Or(filters ...Filter) Filter {
	return &orFilter{filters: filters}
}

func (f *orFilter) Accepts(r rune) bool {
	for _, ff := range f.filters {
		if ff.Accepts(r) {
			return true
		}
	}
	return false
}

// Not inverts a filter.
func Not(filter Filter) Filter {
	return FilterFunc(func(r rune) bool { return !filter.Accepts(r) })
}

// Only returns a filter keeping exactly the characters listed in set.
//
//	digits := contentkit.Only("0123456789")
func Only(set string) Filter {
	return FilterFunc(func(r rune) bool { return strings.ContainsRune(set, r) })
}
