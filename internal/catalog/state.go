// internal/catalog/state.go
package catalog

import (
	"errors"
	"maps"
	"math"
	"slices"
	"strings"
)

// DefaultPriceFloor is the lowest upper bound the price slider starts at.
const DefaultPriceFloor = 10000

// TriState is an optional boolean constraint. Unset imposes none.
type TriState int8

const (
	Unset TriState = iota
	Yes
	No
)

func TriStateOf(b bool) TriState {
	if b {
		return Yes
	}
	return No
}

// Bool reports the constrained value and whether a constraint is set.
func (t TriState) Bool() (bool, bool) {
	switch t {
	case Yes:
		return true, true
	case No:
		return false, true
	}
	return false, false
}

func (t TriState) String() string {
	switch t {
	case Yes:
		return "true"
	case No:
		return "false"
	}
	return ""
}

// ParseTriState accepts the usual boolean spellings. An empty string, "any"
// and "null" mean Unset. Anything else is rejected.
func ParseTriState(raw string) (TriState, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "oui":
		return Yes, true
	case "false", "0", "no", "non":
		return No, true
	case "", "any", "null":
		return Unset, true
	}
	return Unset, false
}

func (t TriState) MarshalJSON() ([]byte, error) {
	switch t {
	case Yes:
		return []byte("true"), nil
	case No:
		return []byte("false"), nil
	}
	return []byte("null"), nil
}

func (t *TriState) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "true":
		*t = Yes
	case "false":
		*t = No
	case "null":
		*t = Unset
	default:
		return errors.New("tri-state must be true, false or null")
	}
	return nil
}

// PriceRange is an inclusive price interval.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FilterState is the complete set of facet selections. It is a value: the
// reducer returns modified copies and never writes through a shared map.
type FilterState struct {
	Selections  map[Facet][]string `json:"selections"`
	HasEthernet TriState           `json:"hasEthernet"`
	HasWiFi     TriState           `json:"hasWiFi"`
	HasPrice    TriState           `json:"hasPrice"`
	Price       PriceRange         `json:"price"`
	MaxPrice    float64            `json:"maxPrice"`
}

// MaxObservedPrice returns the highest defined price, or 0.
func MaxObservedPrice(products []Product) float64 {
	highest := 0.0
	for i := range products {
		if p, ok := products[i].Price.Get(); ok && p > highest && !math.IsInf(p, 0) {
			highest = p
		}
	}
	return highest
}

// DefaultFilterState builds the unconstrained state for a product list.
// The price ceiling is the highest observed price but never below floor.
func DefaultFilterState(products []Product, floor float64) FilterState {
	maxPrice := max(MaxObservedPrice(products), floor)
	return FilterState{
		Selections: map[Facet][]string{},
		Price:      PriceRange{Min: 0, Max: maxPrice},
		MaxPrice:   maxPrice,
	}
}

// Selected returns the selection of a facet. The slice must not be modified.
func (s FilterState) Selected(f Facet) []string {
	return s.Selections[f]
}

func (s FilterState) IsSelected(f Facet, value string) bool {
	return slices.Contains(s.Selections[f], normalizeValue(f, value))
}

func (s FilterState) Flag(f Flag) TriState {
	switch f {
	case FlagEthernet:
		return s.HasEthernet
	case FlagWiFi:
		return s.HasWiFi
	case FlagPrice:
		return s.HasPrice
	}
	return Unset
}

// RangeNarrowed reports whether the price range differs from its full extent.
func (s FilterState) RangeNarrowed() bool {
	return s.Price.Min > 0 || s.Price.Max < s.MaxPrice
}

// HasActiveFilters reports whether any constraint is set. A price range at
// its full extent does not count.
func (s FilterState) HasActiveFilters() bool {
	for _, values := range s.Selections {
		if len(values) > 0 {
			return true
		}
	}
	return s.HasEthernet != Unset || s.HasWiFi != Unset || s.HasPrice != Unset || s.RangeNarrowed()
}

// Clone deep-copies the selections.
func (s FilterState) Clone() FilterState {
	out := s
	out.Selections = make(map[Facet][]string, len(s.Selections))
	for f, values := range s.Selections {
		if len(values) > 0 {
			out.Selections[f] = slices.Clone(values)
		}
	}
	return out
}

// Equal compares selections ignoring their order.
func (s FilterState) Equal(o FilterState) bool {
	if s.HasEthernet != o.HasEthernet || s.HasWiFi != o.HasWiFi || s.HasPrice != o.HasPrice {
		return false
	}
	if s.Price != o.Price || s.MaxPrice != o.MaxPrice {
		return false
	}
	return maps.EqualFunc(s.Clone().Selections, o.Clone().Selections, func(a, b []string) bool {
		a, b = slices.Clone(a), slices.Clone(b)
		slices.Sort(a)
		slices.Sort(b)
		return slices.Equal(a, b)
	})
}
