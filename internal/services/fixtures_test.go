// internal/services/fixtures_test.go
package services

import (
	"context"
	"sync"

	"github.com/javajoker/solar-catalog/internal/catalog"
)

type stubSource struct {
	mu       sync.Mutex
	products []catalog.Product
	err      error
	loads    int
}

func (s *stubSource) LoadProducts(context.Context) ([]catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	return s.products, s.err
}

func (s *stubSource) set(products []catalog.Product) {
	s.mu.Lock()
	s.products = products
	s.mu.Unlock()
}

func storefront() []catalog.Product {
	return []catalog.Product{
		{ID: "inv-1", Name: "Onduleur hybride SUN-8K", Brand: "DEYE", Category: "onduleurs", SKU: "DEYE-8K",
			Price: catalog.Some(1890.0), MPPTCount: catalog.Some(2), Voltage: catalog.Some("400V"),
			HasWiFi: catalog.Some(true), HasEthernet: catalog.Some(false)},
		{ID: "inv-2", Name: "SUN2000-6KTL", Brand: "Huawei", Category: "onduleurs", SKU: "HW-6KTL",
			Price: catalog.Some(1340.0), MPPTCount: catalog.Some(2), Voltage: catalog.Some("230V"),
			HasWiFi: catalog.Some(true), HasEthernet: catalog.Some(true)},
		{ID: "pan-1", Name: "Hi-MO 5m 415W", Brand: "LONGi", Category: "panneaux-solaires", SKU: "LR5-415",
			Price: catalog.Some(129.0), CellType: catalog.Some("monocristallin"), Efficiency: catalog.Some("21.3%")},
		{ID: "bat-1", Name: "LUNA2000-5", Brand: "Huawei", Category: "batteries", SKU: "HW-LUNA-5",
			Capacity: catalog.Some("5kWh")},
		{ID: "hp-1", Name: "Alfea Excellia 11", Brand: "Atlantic", Category: "pompes-a-chaleur", SKU: "ATL-11",
			Price: catalog.Some(8990.0), COP: catalog.Some("4.5"), Warranty: catalog.Some("5 ans")},
	}
}

func names(products []catalog.Product) []string {
	out := make([]string, len(products))
	for i := range products {
		out[i] = products[i].Name
	}
	return out
}

func loadedCatalog(products []catalog.Product) (*CatalogService, *stubSource) {
	source := &stubSource{products: products}
	svc := NewCatalogService(source, CatalogOptions{PriceFloor: catalog.DefaultPriceFloor})
	if err := svc.Reload(context.Background()); err != nil {
		panic(err)
	}
	return svc, source
}
