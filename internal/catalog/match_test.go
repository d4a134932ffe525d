// internal/catalog/match_test.go
package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesSearch(t *testing.T) {
	deye := Product{ID: "1", Name: "SUN-8K", Brand: "DEYE", Category: "onduleurs"}
	huawei := Product{ID: "2", Name: "SUN2000", Brand: "Huawei", Category: "onduleurs"}
	state := DefaultFilterState(nil, DefaultPriceFloor)

	assert.True(t, Matches(&deye, "deye", state))
	assert.False(t, Matches(&huawei, "deye", state))

	assert.True(t, Matches(&huawei, "   ", state), "blank term imposes nothing")
	assert.True(t, Matches(&huawei, " Onduleurs ", state), "category is searched")

	withSKU := Product{ID: "3", Name: "Battery", SKU: "PYL-US5000"}
	assert.True(t, Matches(&withSKU, "us5000", state))
	withDescription := Product{ID: "4", Name: "Panel", Description: "Module bifacial"}
	assert.True(t, Matches(&withDescription, "BIFACIAL", state))
}

func TestMatchesFacets(t *testing.T) {
	products := sampleProducts()
	base := DefaultFilterState(nil, DefaultPriceFloor)

	t.Run("or within a facet", func(t *testing.T) {
		s := Reduce(base, SetValues(FacetBrand, "DEYE", "Huawei"))
		for i := range products {
			p := &products[i]
			want := p.Brand == "DEYE" || p.Brand == "Huawei"
			assert.Equal(t, want, Matches(p, "", s), p.ID)
		}
	})

	t.Run("and across facets", func(t *testing.T) {
		f1 := Reduce(base, ToggleBrand("DEYE"))
		f2 := Reduce(base, ToggleValue(FacetVoltage, "400V"))
		both := ReduceAll(base, ToggleBrand("DEYE"), ToggleValue(FacetVoltage, "400V"))
		for i := range products {
			p := &products[i]
			assert.Equal(t, Matches(p, "", f1) && Matches(p, "", f2), Matches(p, "", both), p.ID)
		}
	})

	t.Run("missing attribute fails an active facet", func(t *testing.T) {
		s := Reduce(base, ToggleValue(FacetType, "hybride"))
		battery := products[4]
		assert.False(t, Matches(&battery, "", s))
	})

	t.Run("numeric facet", func(t *testing.T) {
		s := Reduce(base, ToggleValue(FacetMPPTCount, "10"))
		assert.True(t, Matches(&products[2], "", s))
		assert.False(t, Matches(&products[0], "", s))
	})

	t.Run("empty state matches everything", func(t *testing.T) {
		for i := range products {
			assert.True(t, Matches(&products[i], "", base), products[i].ID)
		}
	})

	t.Run("search and facets compose", func(t *testing.T) {
		s := Reduce(base, ToggleCategory("onduleurs"))
		assert.True(t, Matches(&products[0], "hybride", s))
		assert.False(t, Matches(&products[1], "hybride", s))
	})
}

func TestMatchesTriStates(t *testing.T) {
	base := DefaultFilterState(nil, DefaultPriceFloor)
	wired := Product{ID: "w", HasEthernet: Some(true)}
	wireless := Product{ID: "x", HasEthernet: Some(false)}
	unknown := Product{ID: "u"}

	yes := Reduce(base, SetFlag(FlagEthernet, Yes))
	assert.True(t, Matches(&wired, "", yes))
	assert.False(t, Matches(&wireless, "", yes))
	assert.False(t, Matches(&unknown, "", yes))

	no := Reduce(base, SetFlag(FlagEthernet, No))
	assert.False(t, Matches(&wired, "", no))
	assert.True(t, Matches(&wireless, "", no))
	assert.False(t, Matches(&unknown, "", no), "no default is defined for the attribute")

	assert.True(t, Matches(&unknown, "", base))
}

func TestMatchesPrice(t *testing.T) {
	base := DefaultFilterState(nil, DefaultPriceFloor)
	narrowed := Reduce(base, SetPriceRange(100, 500))
	unpriced := Product{ID: "n"}

	t.Run("range is inclusive", func(t *testing.T) {
		atMax := Product{ID: "a", Price: Some(500.0)}
		above := Product{ID: "b", Price: Some(500.01)}
		atMin := Product{ID: "c", Price: Some(100.0)}
		assert.True(t, Matches(&atMax, "", narrowed))
		assert.False(t, Matches(&above, "", narrowed))
		assert.True(t, Matches(&atMin, "", narrowed))
	})

	t.Run("full extent range still evaluates priced items", func(t *testing.T) {
		over := Product{ID: "o", Price: Some(10000.5)}
		assert.False(t, Matches(&over, "", base))
		assert.True(t, Matches(&unpriced, "", base))
	})

	t.Run("narrowed range excludes unpriced unless hasPrice is false", func(t *testing.T) {
		assert.False(t, Matches(&unpriced, "", narrowed))
		assert.True(t, Matches(&unpriced, "", Reduce(narrowed, SetFlag(FlagPrice, No))))
	})

	t.Run("hasPrice", func(t *testing.T) {
		priced := Product{ID: "p", Price: Some(120.0)}
		free := Product{ID: "f", Price: Some(0.0)}
		yes := Reduce(base, SetFlag(FlagPrice, Yes))
		no := Reduce(base, SetFlag(FlagPrice, No))

		assert.True(t, Matches(&priced, "", yes))
		assert.False(t, Matches(&free, "", yes))
		assert.False(t, Matches(&unpriced, "", yes))

		assert.False(t, Matches(&priced, "", no))
		assert.True(t, Matches(&free, "", no))
		assert.True(t, Matches(&unpriced, "", no))
	})
}
