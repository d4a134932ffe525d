// internal/catalog/reducer.go
package catalog

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	ErrUnknownAction = errors.New("unknown filter action")
	ErrUnknownFacet  = errors.New("unknown facet")
	ErrUnknownFlag   = errors.New("unknown flag")
)

type ActionType string

const (
	ActionToggleValue   ActionType = "toggle_value"
	ActionSetValues     ActionType = "set_values"
	ActionClearFacet    ActionType = "clear_facet"
	ActionSetFlag       ActionType = "set_flag"
	ActionSetPriceRange ActionType = "set_price_range"
	ActionReset         ActionType = "reset"
)

// Action is one discrete filter transition. It is JSON-decodable so remote
// clients can post the same transitions the reducer applies.
type Action struct {
	Type   ActionType `json:"type"`
	Facet  Facet      `json:"facet,omitempty"`
	Value  string     `json:"value,omitempty"`
	Values []string   `json:"values,omitempty"`
	Flag   Flag       `json:"flag,omitempty"`
	State  TriState   `json:"state"`
	Min    *float64   `json:"min,omitempty"`
	Max    *float64   `json:"max,omitempty"`
}

func ToggleValue(f Facet, value string) Action {
	return Action{Type: ActionToggleValue, Facet: f, Value: value}
}

func ToggleCategory(value string) Action {
	return ToggleValue(FacetCategory, value)
}

func ToggleBrand(value string) Action {
	return ToggleValue(FacetBrand, value)
}

func SetValues(f Facet, values ...string) Action {
	return Action{Type: ActionSetValues, Facet: f, Values: values}
}

func ClearFacet(f Facet) Action {
	return Action{Type: ActionClearFacet, Facet: f}
}

func SetFlag(f Flag, state TriState) Action {
	return Action{Type: ActionSetFlag, Flag: f, State: state}
}

func SetPriceRange(min, max float64) Action {
	return Action{Type: ActionSetPriceRange, Min: &min, Max: &max}
}

func SetMinPrice(min float64) Action {
	return Action{Type: ActionSetPriceRange, Min: &min}
}

func SetMaxPrice(max float64) Action {
	return Action{Type: ActionSetPriceRange, Max: &max}
}

func Reset() Action {
	return Action{Type: ActionReset}
}

// Validate checks that the action names a known transition and target.
func (a Action) Validate() error {
	switch a.Type {
	case ActionToggleValue, ActionSetValues, ActionClearFacet:
		if !a.Facet.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownFacet, a.Facet)
		}
	case ActionSetFlag:
		if !a.Flag.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownFlag, a.Flag)
		}
	case ActionSetPriceRange, ActionReset:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, a.Type)
	}
	return nil
}

// Reduce applies an action and returns the resulting state. The input state
// is never modified; invalid actions return it unchanged.
func Reduce(state FilterState, a Action) FilterState {
	if a.Validate() != nil {
		return state
	}

	next := state.Clone()
	switch a.Type {
	case ActionToggleValue:
		v := normalizeValue(a.Facet, a.Value)
		if v == "" {
			return state
		}
		current := next.Selections[a.Facet]
		if i := slices.Index(current, v); i >= 0 {
			current = slices.Delete(current, i, i+1)
		} else {
			current = append(current, v)
		}
		setSelection(&next, a.Facet, current)

	case ActionSetValues:
		setSelection(&next, a.Facet, dedupe(a.Facet, a.Values))

	case ActionClearFacet:
		delete(next.Selections, a.Facet)

	case ActionSetFlag:
		switch a.Flag {
		case FlagEthernet:
			next.HasEthernet = a.State
		case FlagWiFi:
			next.HasWiFi = a.State
		case FlagPrice:
			next.HasPrice = a.State
		}

	case ActionSetPriceRange:
		if a.Min != nil {
			next.Price.Min = sanitizeBound(*a.Min, next.Price.Min)
		}
		if a.Max != nil {
			next.Price.Max = sanitizeBound(*a.Max, next.Price.Max)
		}

	case ActionReset:
		next = FilterState{
			Selections: map[Facet][]string{},
			Price:      PriceRange{Min: 0, Max: state.MaxPrice},
			MaxPrice:   state.MaxPrice,
		}
	}
	return next
}

// ReduceAll folds a sequence of actions over the state.
func ReduceAll(state FilterState, actions ...Action) FilterState {
	for _, a := range actions {
		state = Reduce(state, a)
	}
	return state
}

func setSelection(s *FilterState, f Facet, values []string) {
	if len(values) == 0 {
		delete(s.Selections, f)
		return
	}
	s.Selections[f] = values
}

func dedupe(f Facet, values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = normalizeValue(f, v)
		if v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

// sanitizeBound keeps the previous bound for non-finite input and clamps
// negative bounds to zero.
func sanitizeBound(v, previous float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return previous
	}
	if v < 0 {
		return 0
	}
	return v
}
