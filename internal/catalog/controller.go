// internal/catalog/controller.go
package catalog

import (
	"net/url"
	"sync"

	"golang.org/x/text/language"
)

// Snapshot is the controller's view after a recomputation.
type Snapshot struct {
	Version          uint64      `json:"version"`
	Search           string      `json:"search"`
	Sort             SortKey     `json:"sort"`
	State            FilterState `json:"state"`
	HasActiveFilters bool        `json:"hasActiveFilters"`
	OpenGroups       []Group     `json:"openGroups"`
	Query            string      `json:"query"`
	Result           Result      `json:"result"`
}

type ControllerOption func(*Controller)

func WithLanguage(lang language.Tag) ControllerOption {
	return func(c *Controller) { c.engine = NewEngine(lang) }
}

func WithPriceFloor(floor float64) ControllerOption {
	return func(c *Controller) { c.floor = floor }
}

func WithSort(key SortKey) ControllerOption {
	return func(c *Controller) { c.sort = ParseSortKey(string(key)) }
}

// Controller owns one browsing view. Every input change recomputes the
// result from the full product list while holding the lock, so transitions
// apply one after another against the latest state and a later input
// always replaces an earlier result.
type Controller struct {
	mu sync.Mutex

	engine   *Engine
	floor    float64
	products []Product
	vocab    Vocabularies

	search string
	sort   SortKey
	state  FilterState
	open   map[Group]bool

	lastSeed string
	seeded   bool

	version   uint64
	result    Result
	listeners []func(Snapshot)
}

// NewController browses products without copying them. The slice is shared
// with every other controller over the same snapshot and must not be
// modified.
func NewController(products []Product, opts ...ControllerOption) *Controller {
	c := &Controller{
		engine: defaultEngine,
		floor:  DefaultPriceFloor,
		sort:   SortName,
		open:   map[Group]bool{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.products = products
	c.vocab = ExtractVocabularies(c.products)
	c.state = DefaultFilterState(c.products, c.floor)
	c.recompute()
	return c
}

// OnChange registers a listener called with every new snapshot. Listeners
// run under the controller lock and must not call back into it.
func (c *Controller) OnChange(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Dispatch applies the actions in order. Nothing is applied if any action
// is invalid.
func (c *Controller) Dispatch(actions ...Action) (Snapshot, error) {
	for _, a := range actions {
		if err := a.Validate(); err != nil {
			return c.Snapshot(), err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = ReduceAll(c.state, actions...)
	return c.commit(), nil
}

func (c *Controller) SetSearch(term string) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.search = term
	return c.commit()
}

func (c *Controller) SetSort(key SortKey) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sort = ParseSortKey(string(key))
	return c.commit()
}

// ClearFilters resets every filter and the search term.
func (c *Controller) ClearFilters() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Reduce(c.state, Reset())
	c.search = ""
	return c.commit()
}

func (c *Controller) ToggleGroup(g Group) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.open[g] {
		delete(c.open, g)
	} else {
		c.open[g] = true
	}
	return c.commit()
}

// Seed applies navigation parameters once per distinct query. Repeating
// the same query is a no-op, so later filter changes survive re-renders.
// A seeded view opens the general group.
func (c *Controller) Seed(values url.Values) (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := values.Encode()
	if c.seeded && key == c.lastSeed {
		return c.snapshot(), false
	}
	c.seeded = true
	c.lastSeed = key

	state, ok := SeedFromQuery(c.state, values)
	if !ok {
		return c.snapshot(), false
	}
	c.state = state
	c.open[GroupGeneral] = true
	return c.commit(), true
}

// SetProducts swaps the product list. Vocabularies are extracted again and
// a price range at full extent follows the new ceiling.
func (c *Controller) SetProducts(products []Product) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.products = products
	c.vocab = ExtractVocabularies(c.products)

	maxPrice := max(MaxObservedPrice(c.products), c.floor)
	next := c.state.Clone()
	if next.Price.Max >= next.MaxPrice {
		next.Price.Max = maxPrice
	}
	next.MaxPrice = maxPrice
	c.state = next
	return c.commit()
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Controller) Vocabularies() Vocabularies {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vocab
}

func (c *Controller) Sections() []Section {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vocab.Sections(c.products)
}

func (c *Controller) commit() Snapshot {
	c.recompute()
	snap := c.snapshot()
	for _, fn := range c.listeners {
		fn(snap)
	}
	return snap
}

func (c *Controller) recompute() {
	c.version++
	c.result = c.engine.FilterAndSort(c.products, c.search, c.state, c.sort)
}

func (c *Controller) snapshot() Snapshot {
	open := make([]Group, 0, len(c.open))
	for _, g := range Groups {
		if c.open[g] {
			open = append(open, g)
		}
	}
	q := Query{Search: c.search, Sort: c.sort, State: c.state}
	return Snapshot{
		Version:          c.version,
		Search:           c.search,
		Sort:             c.sort,
		State:            c.state.Clone(),
		HasActiveFilters: c.state.HasActiveFilters(),
		OpenGroups:       open,
		Query:            EncodeQuery(q).Encode(),
		Result:           c.result,
	}
}
