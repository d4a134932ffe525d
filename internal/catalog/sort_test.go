// internal/catalog/sort_test.go
package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestSortScenarios(t *testing.T) {
	products := []Product{
		{ID: "z", Name: "Zeta", Price: Some(100.0)},
		{ID: "a", Name: "Alpha", Price: Some(50.0)},
	}

	assert.Equal(t, []string{"Alpha", "Zeta"}, names(Sort(products, SortName, DefaultLanguage)))
	assert.Equal(t, []string{"Zeta", "Alpha"}, names(Sort(products, SortPriceDesc, DefaultLanguage)))
	assert.Equal(t, []string{"Alpha", "Zeta"}, names(Sort(products, SortPriceAsc, DefaultLanguage)))
	assert.Equal(t, []string{"Zeta", "Alpha"}, names(products), "input order must not change")
}

func TestSortMissingPriceCountsAsZero(t *testing.T) {
	products := []Product{
		{ID: "1", Name: "Cheap", Price: Some(10.0)},
		{ID: "2", Name: "Quote only"},
		{ID: "3", Name: "Pricey", Price: Some(900.0)},
	}

	assert.Equal(t, []string{"Quote only", "Cheap", "Pricey"}, names(Sort(products, SortPriceAsc, DefaultLanguage)))
	assert.Equal(t, []string{"Pricey", "Cheap", "Quote only"}, names(Sort(products, SortPriceDesc, DefaultLanguage)))
}

func TestSortIsStable(t *testing.T) {
	products := []Product{
		{ID: "1", Name: "First", Brand: "DEYE", Price: Some(100.0)},
		{ID: "2", Name: "Second", Brand: "Atlantic", Price: Some(200.0)},
		{ID: "3", Name: "Third", Brand: "DEYE", Price: Some(100.0)},
	}

	byPrice := Sort(products, SortPriceAsc, DefaultLanguage)
	assert.Equal(t, []string{"First", "Third", "Second"}, names(byPrice))

	byBrand := Sort(products, SortBrand, DefaultLanguage)
	assert.Equal(t, []string{"Second", "First", "Third"}, names(byBrand))

	assert.Equal(t, byBrand, Sort(products, SortBrand, DefaultLanguage))
}

func TestSortLocaleAware(t *testing.T) {
	products := []Product{
		{ID: "1", Name: "Zénith"},
		{ID: "2", Name: "éclairage"},
		{ID: "3", Name: "Batterie"},
	}
	assert.Equal(t, []string{"Batterie", "éclairage", "Zénith"}, names(Sort(products, SortName, language.French)))
}

func TestSortMissingNameSortsFirst(t *testing.T) {
	products := []Product{{ID: "1", Name: "Alpha"}, {ID: "2"}}
	sorted := Sort(products, SortName, DefaultLanguage)
	assert.Equal(t, "2", sorted[0].ID)
}

func TestParseSortKey(t *testing.T) {
	assert.Equal(t, SortPriceDesc, ParseSortKey("price-desc"))
	assert.Equal(t, SortName, ParseSortKey("popularity"))
	assert.Equal(t, SortName, ParseSortKey(""))
}
