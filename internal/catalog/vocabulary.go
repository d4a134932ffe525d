// internal/catalog/vocabulary.go
package catalog

import (
	"cmp"
	"slices"
	"strconv"
)

// Vocabularies maps each facet to the values observed in a product list.
type Vocabularies map[Facet][]string

// FacetValues is one facet control with its selectable values.
type FacetValues struct {
	Facet  Facet    `json:"facet"`
	Values []string `json:"values"`
}

// Section groups the non-empty facet controls of one display group.
type Section struct {
	Group  Group         `json:"group"`
	Facets []FacetValues `json:"facets"`
	Flags  []Flag        `json:"flags,omitempty"`
}

// ExtractFacetValues returns the distinct values of a facet across the
// products, sorted lexically or numerically for numeric facets.
func ExtractFacetValues(products []Product, facet Facet) []string {
	d, ok := facetIndex[facet]
	if !ok {
		return []string{}
	}

	seen := make(map[string]struct{})
	values := make([]string, 0)
	for i := range products {
		v, ok := d.value(&products[i])
		if !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}

	if d.kind == kindNumber {
		slices.SortFunc(values, compareNumeric)
	} else {
		slices.Sort(values)
	}
	return values
}

// ExtractVocabularies runs ExtractFacetValues for every registered facet.
func ExtractVocabularies(products []Product) Vocabularies {
	vocab := make(Vocabularies, len(facetRegistry))
	for _, d := range facetRegistry {
		vocab[d.facet] = ExtractFacetValues(products, d.facet)
	}
	return vocab
}

// Sections lists the facet groups in display order. Facets with an empty
// vocabulary are left out, as are groups that end up with no controls.
// Tri-state flags are listed only when some product carries the attribute.
func (v Vocabularies) Sections(products []Product) []Section {
	sections := make([]Section, 0, len(Groups))
	for _, g := range Groups {
		s := Section{Group: g, Facets: []FacetValues{}}
		for _, d := range facetRegistry {
			if d.group != g || len(v[d.facet]) == 0 {
				continue
			}
			s.Facets = append(s.Facets, FacetValues{Facet: d.facet, Values: v[d.facet]})
		}
		for _, d := range flagRegistry {
			if d.group == g && anyDefined(products, d.value) {
				s.Flags = append(s.Flags, d.flag)
			}
		}
		if g == GroupPrice && len(products) > 0 {
			s.Flags = append(s.Flags, FlagPrice)
		}
		if len(s.Facets) == 0 && len(s.Flags) == 0 {
			continue
		}
		sections = append(sections, s)
	}
	return sections
}

func anyDefined(products []Product, get func(*Product) Opt[bool]) bool {
	for i := range products {
		if get(&products[i]).IsSome() {
			return true
		}
	}
	return false
}

func compareNumeric(a, b string) int {
	x, errA := strconv.ParseFloat(a, 64)
	y, errB := strconv.ParseFloat(b, 64)
	if errA != nil || errB != nil {
		return cmp.Compare(a, b)
	}
	return cmp.Compare(x, y)
}
