// internal/catalog/match.go
package catalog

import (
	"math"
	"strings"
)

// matcher is a FilterState compiled for repeated evaluation.
type matcher struct {
	term       string
	selections map[*facetDescriptor]map[string]struct{}
	flags      map[*flagDescriptor]bool
	hasPrice   TriState
	narrowed   bool
	min, max   float64
}

func newMatcher(search string, state FilterState) *matcher {
	m := &matcher{
		term:       strings.ToLower(strings.TrimSpace(search)),
		selections: make(map[*facetDescriptor]map[string]struct{}),
		flags:      make(map[*flagDescriptor]bool),
		hasPrice:   state.HasPrice,
		narrowed:   state.RangeNarrowed(),
		min:        state.Price.Min,
		max:        state.Price.Max,
	}
	if math.IsNaN(m.min) || m.min < 0 {
		m.min = 0
	}
	if math.IsNaN(m.max) {
		m.max = math.Inf(1)
	}

	for f, values := range state.Selections {
		d, ok := facetIndex[f]
		if !ok || len(values) == 0 {
			continue
		}
		set := make(map[string]struct{}, len(values))
		for _, v := range values {
			set[normalizeValue(f, v)] = struct{}{}
		}
		m.selections[d] = set
	}

	for i := range flagRegistry {
		d := &flagRegistry[i]
		if want, ok := state.Flag(d.flag).Bool(); ok {
			m.flags[d] = want
		}
	}
	return m
}

// Matches reports whether a product satisfies the search term and every
// active constraint of the state.
func Matches(p *Product, search string, state FilterState) bool {
	return newMatcher(search, state).match(p)
}

func (m *matcher) match(p *Product) bool {
	return m.matchSearch(p) && m.matchFacets(p) && m.matchFlags(p) && m.matchPrice(p)
}

func (m *matcher) matchSearch(p *Product) bool {
	if m.term == "" {
		return true
	}
	for _, field := range p.searchFields() {
		if field != "" && strings.Contains(strings.ToLower(field), m.term) {
			return true
		}
	}
	return false
}

// matchFacets ANDs the active facets; within a facet any selected value
// passes. A missing attribute never matches an active facet.
func (m *matcher) matchFacets(p *Product) bool {
	for d, selected := range m.selections {
		v, ok := d.value(p)
		if !ok {
			return false
		}
		if _, hit := selected[v]; !hit {
			return false
		}
	}
	return true
}

func (m *matcher) matchFlags(p *Product) bool {
	for d, want := range m.flags {
		got, ok := d.value(p).Get()
		if !ok || got != want {
			return false
		}
	}
	return true
}

func (m *matcher) matchPrice(p *Product) bool {
	price, priced := p.Price.Get()
	if math.IsNaN(price) {
		priced = false
	}

	switch m.hasPrice {
	case Yes:
		if !priced || price <= 0 {
			return false
		}
	case No:
		if priced && price > 0 {
			return false
		}
	}

	if !priced {
		if m.narrowed {
			return m.hasPrice == No
		}
		return true
	}
	return price >= m.min && price <= m.max
}
