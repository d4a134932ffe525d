// internal/catalog/deeplink.go
package catalog

import (
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/gorilla/schema"
)

const (
	ParamSearch      = "q"
	ParamSort        = "sort"
	ParamBrands      = "brands"
	ParamCategories  = "categories"
	ParamMinPrice    = "min_price"
	ParamMaxPrice    = "max_price"
	ParamHasPrice    = "has_price"
	ParamHasEthernet = "has_ethernet"
	ParamHasWiFi     = "has_wifi"

	// facetParamPrefix carries any other facet, e.g. f.voltage=230V.
	facetParamPrefix = "f."
)

// Query is a full catalog view as carried in a URL.
type Query struct {
	Search string      `json:"search"`
	Sort   SortKey     `json:"sort"`
	State  FilterState `json:"state"`
}

type queryParams struct {
	Search      string `schema:"q"`
	Sort        string `schema:"sort"`
	Brands      string `schema:"brands"`
	Categories  string `schema:"categories"`
	MinPrice    string `schema:"min_price"`
	MaxPrice    string `schema:"max_price"`
	HasPrice    string `schema:"has_price"`
	HasEthernet string `schema:"has_ethernet"`
	HasWiFi     string `schema:"has_wifi"`
}

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

// SeedFromQuery merges the navigation parameters into a state: "brands"
// holds one brand and "categories" a comma-separated list. A present
// parameter replaces that facet's selection. It reports whether anything
// was seeded.
func SeedFromQuery(state FilterState, values url.Values) (FilterState, bool) {
	var actions []Action
	if brand := strings.TrimSpace(values.Get(ParamBrands)); brand != "" {
		actions = append(actions, SetValues(FacetBrand, brand))
	}
	if categories := splitList(values.Get(ParamCategories)); len(categories) > 0 {
		actions = append(actions, SetValues(FacetCategory, categories...))
	}
	if len(actions) == 0 {
		return state, false
	}
	return ReduceAll(state, actions...), true
}

// DecodeQuery reads a full view from URL parameters on top of defaults.
// Malformed numbers and tri-states leave the default in place.
func DecodeQuery(values url.Values, defaults FilterState) (Query, error) {
	var p queryParams
	if err := decoder.Decode(&p, values); err != nil {
		return Query{}, err
	}

	state, _ := SeedFromQuery(defaults, values)

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		name, ok := strings.CutPrefix(key, facetParamPrefix)
		if !ok || !Facet(name).Valid() {
			continue
		}
		f := Facet(name)
		merged := append(slices.Clone(state.Selected(f)), values[key]...)
		state = Reduce(state, SetValues(f, merged...))
	}

	if v, ok := parseBound(p.MinPrice); ok {
		state = Reduce(state, SetMinPrice(v))
	}
	if v, ok := parseBound(p.MaxPrice); ok {
		state = Reduce(state, SetMaxPrice(v))
	}
	for flag, raw := range map[Flag]string{FlagPrice: p.HasPrice, FlagEthernet: p.HasEthernet, FlagWiFi: p.HasWiFi} {
		if t, ok := ParseTriState(raw); ok && raw != "" {
			state = Reduce(state, SetFlag(flag, t))
		}
	}

	return Query{
		Search: strings.TrimSpace(p.Search),
		Sort:   ParseSortKey(p.Sort),
		State:  state,
	}, nil
}

// EncodeQuery writes a view as URL parameters. Defaults are omitted, so an
// untouched view encodes to an empty query.
func EncodeQuery(q Query) url.Values {
	values := url.Values{}
	if q.Search != "" {
		values.Set(ParamSearch, q.Search)
	}
	if q.Sort != "" && q.Sort != SortName {
		values.Set(ParamSort, string(q.Sort))
	}

	for _, f := range Facets() {
		selected := slices.Clone(q.State.Selected(f))
		if len(selected) == 0 {
			continue
		}
		if f.Numeric() {
			slices.SortFunc(selected, compareNumeric)
		} else {
			slices.Sort(selected)
		}
		switch {
		case f == FacetBrand && len(selected) == 1:
			values.Set(ParamBrands, selected[0])
		case f == FacetCategory && !slices.ContainsFunc(selected, hasComma):
			values.Set(ParamCategories, strings.Join(selected, ","))
		default:
			values[facetParamPrefix+string(f)] = selected
		}
	}

	if q.State.Price.Min > 0 {
		values.Set(ParamMinPrice, formatBound(q.State.Price.Min))
	}
	if q.State.Price.Max < q.State.MaxPrice {
		values.Set(ParamMaxPrice, formatBound(q.State.Price.Max))
	}
	if q.State.HasPrice != Unset {
		values.Set(ParamHasPrice, q.State.HasPrice.String())
	}
	if q.State.HasEthernet != Unset {
		values.Set(ParamHasEthernet, q.State.HasEthernet.String())
	}
	if q.State.HasWiFi != Unset {
		values.Set(ParamHasWiFi, q.State.HasWiFi.String())
	}
	return values
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func hasComma(s string) bool {
	return strings.Contains(s, ",")
}

func parseBound(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
