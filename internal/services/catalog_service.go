// internal/services/catalog_service.go
package services

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"github.com/javajoker/solar-catalog/internal/catalog"
	"github.com/javajoker/solar-catalog/internal/metrics"
	"github.com/javajoker/solar-catalog/internal/repository"
)

// FeedPublisher writes a product snapshot where other instances load it.
type FeedPublisher interface {
	PublishFeed(ctx context.Context, products []catalog.Product) (string, error)
}

type CatalogOptions struct {
	Language    language.Tag
	PriceFloor  float64
	DefaultSort catalog.SortKey
	Feed        FeedPublisher
}

// catalogSnapshot is immutable once published.
type catalogSnapshot struct {
	products []catalog.Product
	byID     map[string]int
	vocab    catalog.Vocabularies
	sections []catalog.Section
	defaults catalog.FilterState
	loadedAt time.Time
}

// CatalogView is one filtered and sorted view of the catalog.
type CatalogView struct {
	Search           string              `json:"search"`
	Sort             catalog.SortKey     `json:"sort"`
	State            catalog.FilterState `json:"state"`
	HasActiveFilters bool                `json:"hasActiveFilters"`
	Query            string              `json:"query"`
	Count            int                 `json:"count"`
	Products         []catalog.Product   `json:"products"`
}

type FacetsView struct {
	Sections     []catalog.Section    `json:"sections"`
	Vocabularies catalog.Vocabularies `json:"vocabularies"`
	Defaults     catalog.FilterState  `json:"defaults"`
	Size         int                  `json:"size"`
	LoadedAt     time.Time            `json:"loadedAt"`
}

// CatalogService holds the current product snapshot. Readers load it
// without locking; Reload builds a new one and swaps it in.
type CatalogService struct {
	source repository.ProductSource
	engine *catalog.Engine
	floor  float64
	sort   catalog.SortKey
	feed   FeedPublisher

	current atomic.Pointer[catalogSnapshot]

	reloadMu  sync.Mutex
	mu        sync.RWMutex
	listeners []func([]catalog.Product)
}

func NewCatalogService(source repository.ProductSource, opts CatalogOptions) *CatalogService {
	if opts.Language == language.Und {
		opts.Language = catalog.DefaultLanguage
	}
	return &CatalogService{
		source: source,
		engine: catalog.NewEngine(opts.Language),
		floor:  opts.PriceFloor,
		sort:   catalog.ParseSortKey(string(opts.DefaultSort)),
		feed:   opts.Feed,
	}
}

// OnReload registers a callback invoked with the new product list after
// every successful reload.
func (s *CatalogService) OnReload(fn func([]catalog.Product)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *CatalogService) Reload(ctx context.Context) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	start := time.Now()
	products, err := s.source.LoadProducts(ctx)
	if err != nil {
		metrics.Reloads.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to load products: %w", err)
	}

	snap := s.build(products)
	s.current.Store(snap)

	metrics.Reloads.WithLabelValues("ok").Inc()
	metrics.CatalogProducts.Set(float64(len(snap.products)))
	logrus.WithFields(logrus.Fields{
		"products": len(snap.products),
		"duration": time.Since(start),
	}).Info("Catalog snapshot loaded")

	s.mu.RLock()
	listeners := append([]func([]catalog.Product){}, s.listeners...)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(snap.products)
	}
	return nil
}

func (s *CatalogService) build(products []catalog.Product) *catalogSnapshot {
	if products == nil {
		products = []catalog.Product{}
	}
	byID := make(map[string]int, len(products))
	for i := range products {
		byID[products[i].ID] = i
	}
	vocab := catalog.ExtractVocabularies(products)
	return &catalogSnapshot{
		products: products,
		byID:     byID,
		vocab:    vocab,
		sections: vocab.Sections(products),
		defaults: catalog.DefaultFilterState(products, s.floor),
		loadedAt: time.Now().UTC(),
	}
}

func (s *CatalogService) snapshot() (*catalogSnapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrCatalogNotLoaded
	}
	return snap, nil
}

func (s *CatalogService) Loaded() bool {
	return s.current.Load() != nil
}

func (s *CatalogService) Size() int {
	if snap := s.current.Load(); snap != nil {
		return len(snap.products)
	}
	return 0
}

// Products returns the snapshot's product list. It must not be modified.
func (s *CatalogService) Products() ([]catalog.Product, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return snap.products, nil
}

func (s *CatalogService) Product(id string) (*catalog.Product, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	i, ok := snap.byID[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	p := snap.products[i]
	return &p, nil
}

func (s *CatalogService) Defaults() (catalog.FilterState, error) {
	snap, err := s.snapshot()
	if err != nil {
		return catalog.FilterState{}, err
	}
	return snap.defaults.Clone(), nil
}

func (s *CatalogService) Facets() (*FacetsView, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	metrics.FacetRequests.Inc()
	return &FacetsView{
		Sections:     snap.sections,
		Vocabularies: snap.vocab,
		Defaults:     snap.defaults,
		Size:         len(snap.products),
		LoadedAt:     snap.loadedAt,
	}, nil
}

// Search decodes a deep-link query and returns the full matching view.
// A missing sort parameter falls back to the configured default.
func (s *CatalogService) Search(values url.Values) (*CatalogView, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	q, err := catalog.DecodeQuery(values, snap.defaults)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	if !values.Has(catalog.ParamSort) {
		q.Sort = s.sort
	}

	start := time.Now()
	res := s.engine.FilterAndSort(snap.products, q.Search, q.State, q.Sort)
	metrics.ObserveFilter(start)
	metrics.Searches.Inc()

	return &CatalogView{
		Search:           q.Search,
		Sort:             q.Sort,
		State:            q.State,
		HasActiveFilters: q.State.HasActiveFilters(),
		Query:            catalog.EncodeQuery(q).Encode(),
		Count:            res.Count,
		Products:         res.Products,
	}, nil
}

// NewController starts a browsing controller over the current snapshot,
// seeded from the query parameters.
func (s *CatalogService) NewController(values url.Values) (*catalog.Controller, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	c := catalog.NewController(snap.products,
		catalog.WithLanguage(s.engine.Language()),
		catalog.WithPriceFloor(s.floor),
		catalog.WithSort(s.sort),
	)
	if len(values) > 0 {
		c.Seed(values)
		if term := values.Get(catalog.ParamSearch); term != "" {
			c.SetSearch(term)
		}
		if values.Has(catalog.ParamSort) {
			c.SetSort(catalog.ParseSortKey(values.Get(catalog.ParamSort)))
		}
	}
	return c, nil
}

// PublishFeed writes the current snapshot through the configured feed
// publisher and returns its location.
func (s *CatalogService) PublishFeed(ctx context.Context) (string, error) {
	if s.feed == nil {
		return "", ErrFeedUnavailable
	}
	snap, err := s.snapshot()
	if err != nil {
		return "", err
	}
	location, err := s.feed.PublishFeed(ctx, snap.products)
	if err != nil {
		return "", err
	}
	logrus.WithFields(logrus.Fields{
		"products": len(snap.products),
		"location": location,
	}).Info("Catalog feed published")
	return location, nil
}
