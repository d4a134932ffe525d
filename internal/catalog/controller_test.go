// internal/catalog/controller_test.go
package catalog

import (
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterAndSort(t *testing.T) {
	products := sampleProducts()

	t.Run("idempotent", func(t *testing.T) {
		state := Reduce(DefaultFilterState(products, DefaultPriceFloor), ToggleCategory("onduleurs"))
		first := FilterAndSort(products, "sun", state, SortPriceAsc)
		second := FilterAndSort(products, "sun", state, SortPriceAsc)
		assert.Equal(t, first, second)
	})

	t.Run("count comes from the same pass", func(t *testing.T) {
		res := FilterAndSort(products, "", DefaultFilterState(products, DefaultPriceFloor), SortName)
		assert.Equal(t, len(res.Products), res.Count)
		assert.Equal(t, len(products), res.Count)
	})

	t.Run("scenario C: category filter", func(t *testing.T) {
		list := []Product{
			{ID: "1", Name: "Inverter", Category: "onduleurs"},
			{ID: "2", Name: "Panel", Category: "panneaux-solaires"},
		}
		state := Reduce(DefaultFilterState(list, DefaultPriceFloor), ToggleCategory("onduleurs"))
		res := FilterAndSort(list, "", state, SortName)
		assert.Equal(t, []string{"Inverter"}, names(res.Products))
		assert.Equal(t, 1, res.Count)
	})

	t.Run("scenario D: case-insensitive brand search", func(t *testing.T) {
		res := FilterAndSort(products, "deye", DefaultFilterState(products, DefaultPriceFloor), SortName)
		for _, p := range res.Products {
			assert.Equal(t, "DEYE", p.Brand)
		}
		assert.Equal(t, 2, res.Count)
	})

	t.Run("empty inputs", func(t *testing.T) {
		res := FilterAndSort(nil, "", DefaultFilterState(nil, DefaultPriceFloor), SortName)
		assert.Empty(t, res.Products)
		assert.Equal(t, 0, res.Count)
	})

	t.Run("products are not mutated", func(t *testing.T) {
		before := sampleProducts()
		FilterAndSort(products, "", DefaultFilterState(products, DefaultPriceFloor), SortPriceDesc)
		assert.Equal(t, before, products)
	})
}

func TestControllerRecomputesOnEveryInput(t *testing.T) {
	c := NewController(sampleProducts())
	initial := c.Snapshot()
	assert.Equal(t, 6, initial.Result.Count)
	assert.False(t, initial.HasActiveFilters)

	snap, err := c.Dispatch(ToggleCategory("onduleurs"))
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Result.Count)
	assert.Greater(t, snap.Version, initial.Version)

	snap = c.SetSearch("deye")
	assert.Equal(t, 2, snap.Result.Count)

	snap = c.SetSort(SortPriceDesc)
	assert.Equal(t, []string{"Onduleur SUN-12K", "Onduleur hybride SUN-8K"}, names(snap.Result.Products))

	snap = c.ClearFilters()
	assert.Equal(t, "", snap.Search)
	assert.False(t, snap.HasActiveFilters)
	assert.Equal(t, 6, snap.Result.Count)
	assert.Equal(t, SortPriceDesc, snap.Sort, "sort key survives a clear")
}

func TestControllerRejectsInvalidBatch(t *testing.T) {
	c := NewController(sampleProducts())
	_, err := c.Dispatch(ToggleBrand("DEYE"), ToggleValue("colour", "red"))
	assert.ErrorIs(t, err, ErrUnknownFacet)
	assert.False(t, c.Snapshot().HasActiveFilters)
}

func TestControllerConcurrentTogglesConverge(t *testing.T) {
	c := NewController(sampleProducts())
	brands := []string{"DEYE", "Huawei", "LONGi", "Pylontech", "Atlantic"}

	var wg sync.WaitGroup
	for _, b := range brands {
		wg.Add(1)
		go func(brand string) {
			defer wg.Done()
			_, err := c.Dispatch(ToggleBrand(brand))
			assert.NoError(t, err)
		}(b)
	}
	wg.Wait()

	snap := c.Snapshot()
	assert.ElementsMatch(t, brands, snap.State.Selected(FacetBrand))
	assert.Equal(t, 6, snap.Result.Count)
}

func TestControllerListenersSeeOrderedVersions(t *testing.T) {
	c := NewController(sampleProducts())
	var versions []uint64
	c.OnChange(func(s Snapshot) { versions = append(versions, s.Version) })

	c.SetSearch("a")
	c.SetSearch("ab")
	c.SetSort(SortBrand)

	require.Len(t, versions, 3)
	assert.Less(t, versions[0], versions[1])
	assert.Less(t, versions[1], versions[2])
}

func TestControllerSeed(t *testing.T) {
	t.Run("scenario E: categories seed opens the general group", func(t *testing.T) {
		c := NewController(sampleProducts())
		values, err := url.ParseQuery("categories=onduleurs,panneaux-solaires")
		require.NoError(t, err)

		snap, seeded := c.Seed(values)
		assert.True(t, seeded)
		assert.Equal(t, []string{"onduleurs", "panneaux-solaires"}, snap.State.Selected(FacetCategory))
		assert.Equal(t, []Group{GroupGeneral}, snap.OpenGroups)
		assert.Equal(t, 4, snap.Result.Count)
	})

	t.Run("same query seeds once", func(t *testing.T) {
		c := NewController(sampleProducts())
		values := url.Values{"brands": {"DEYE"}}

		_, seeded := c.Seed(values)
		require.True(t, seeded)

		_, err := c.Dispatch(ToggleBrand("DEYE"))
		require.NoError(t, err)

		snap, seeded := c.Seed(url.Values{"brands": {"DEYE"}})
		assert.False(t, seeded)
		assert.Empty(t, snap.State.Selected(FacetBrand), "user change must survive a re-render")

		snap, seeded = c.Seed(url.Values{"brands": {"Huawei"}})
		assert.True(t, seeded)
		assert.Equal(t, []string{"Huawei"}, snap.State.Selected(FacetBrand))
	})

	t.Run("no parameters leaves groups closed", func(t *testing.T) {
		c := NewController(sampleProducts())
		snap, seeded := c.Seed(url.Values{"sort": {"price-asc"}})
		assert.False(t, seeded)
		assert.Empty(t, snap.OpenGroups)
	})
}

func TestControllerToggleGroup(t *testing.T) {
	c := NewController(nil)
	assert.Equal(t, []Group{GroupPanels}, c.ToggleGroup(GroupPanels).OpenGroups)
	assert.Empty(t, c.ToggleGroup(GroupPanels).OpenGroups)
}

func TestControllerSetProducts(t *testing.T) {
	c := NewController(sampleProducts())
	assert.Equal(t, 10000.0, c.Snapshot().State.MaxPrice)

	snap := c.SetProducts(append(sampleProducts(), Product{ID: "big", Name: "Container", Brand: "BYD", Category: "batteries", Price: Some(30000.0)}))
	assert.Equal(t, 30000.0, snap.State.MaxPrice)
	assert.Equal(t, 30000.0, snap.State.Price.Max, "full extent range follows the new ceiling")
	assert.Equal(t, 7, snap.Result.Count)
	assert.Contains(t, c.Vocabularies()[FacetBrand], "BYD")

	_, err := c.Dispatch(SetMaxPrice(2000))
	require.NoError(t, err)
	snap = c.SetProducts(sampleProducts())
	assert.Equal(t, 2000.0, snap.State.Price.Max, "narrowed bound is kept")
	assert.Equal(t, 10000.0, snap.State.MaxPrice)
}

func TestControllersShareTheSnapshot(t *testing.T) {
	products := sampleProducts()
	a := NewController(products)
	b := NewController(products, WithSort(SortPriceDesc))

	assert.Same(t, &products[0], &a.products[0])
	assert.Same(t, &products[0], &b.products[0])

	_, err := b.Dispatch(ToggleCategory("onduleurs"))
	require.NoError(t, err)
	assert.Equal(t, sampleProducts(), products, "browsing leaves the shared slice untouched")

	snap := a.Snapshot()
	require.NotEmpty(t, snap.Result.Products)
	snap.Result.Products[0].Name = "changed"
	assert.NotEqual(t, "changed", products[0].Name)

	next := append(sampleProducts()[:2:2], sampleProducts()[3])
	a.SetProducts(next)
	assert.Same(t, &next[0], &a.products[0])
}
