// internal/catalog/sort.go
package catalog

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortKey string

const (
	SortName      SortKey = "name"
	SortBrand     SortKey = "brand"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
)

// DefaultLanguage orders names and brands the way the French storefront shows them.
var DefaultLanguage = language.French

// ParseSortKey maps unknown keys to SortName.
func ParseSortKey(raw string) SortKey {
	switch k := SortKey(raw); k {
	case SortName, SortBrand, SortPriceAsc, SortPriceDesc:
		return k
	}
	return SortName
}

// Sort returns a stably sorted copy of the products. Missing prices sort as
// 0, so unpriced items lead price-asc and trail price-desc.
func Sort(products []Product, key SortKey, lang language.Tag) []Product {
	out := slices.Clone(products)
	sortInPlace(out, key, lang)
	return out
}

func sortInPlace(out []Product, key SortKey, lang language.Tag) {
	switch ParseSortKey(string(key)) {
	case SortPriceAsc:
		slices.SortStableFunc(out, func(a, b Product) int {
			return cmp.Compare(a.Price.Or(0), b.Price.Or(0))
		})
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b Product) int {
			return cmp.Compare(b.Price.Or(0), a.Price.Or(0))
		})
	case SortBrand:
		// collators keep internal buffers; one per call
		col := collate.New(lang)
		slices.SortStableFunc(out, func(a, b Product) int {
			return col.CompareString(a.Brand, b.Brand)
		})
	default:
		col := collate.New(lang)
		slices.SortStableFunc(out, func(a, b Product) int {
			return col.CompareString(a.Name, b.Name)
		})
	}
}
