// internal/tests/catalog_test.go
package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"

	"github.com/javajoker/solar-catalog/internal/catalog"
	"github.com/javajoker/solar-catalog/internal/config"
	"github.com/javajoker/solar-catalog/internal/router"
	"github.com/javajoker/solar-catalog/internal/services"
	"github.com/javajoker/solar-catalog/internal/utils"
)

type staticSource struct {
	products []catalog.Product
}

func (s *staticSource) LoadProducts(context.Context) ([]catalog.Product, error) {
	return s.products, nil
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    map[string]any  `json:"meta"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

type CatalogTestSuite struct {
	suite.Suite
	router   *gin.Engine
	sessions *services.SessionService
}

func (suite *CatalogTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	source := &staticSource{products: []catalog.Product{
		{ID: "inv-1", Name: "Onduleur hybride SUN-8K", Brand: "DEYE", Category: "onduleurs", SKU: "DEYE-8K",
			Price: catalog.Some(1890.0), HasWiFi: catalog.Some(true), HasEthernet: catalog.Some(false)},
		{ID: "inv-2", Name: "SUN2000-6KTL", Brand: "Huawei", Category: "onduleurs", SKU: "HW-6KTL",
			Price: catalog.Some(1340.0), HasWiFi: catalog.Some(true), HasEthernet: catalog.Some(true)},
		{ID: "pan-1", Name: "Hi-MO 5m 415W", Brand: "LONGi", Category: "panneaux-solaires", SKU: "LR5-415",
			Price: catalog.Some(129.0), CellType: catalog.Some("monocristallin")},
		{ID: "bat-1", Name: "LUNA2000-5", Brand: "Huawei", Category: "batteries", SKU: "HW-LUNA-5",
			Capacity: catalog.Some("5kWh")},
	}}

	catalogService := services.NewCatalogService(source, services.CatalogOptions{PriceFloor: catalog.DefaultPriceFloor})
	suite.Require().NoError(catalogService.Reload(context.Background()))
	suite.sessions = services.NewSessionService(catalogService, time.Minute, 100)

	cfg := &config.Config{
		JWT:     config.JWTConfig{SecretKey: "test-secret"},
		CORS:    config.CORSConfig{AllowedOrigins: []string{"*"}},
		Catalog: config.CatalogConfig{RequestTimeout: 5, ExportMaxRows: 100},
	}
	suite.router = router.Initialize(nil, cfg, router.Services{
		Catalog:  catalogService,
		Sessions: suite.sessions,
		Export:   services.NewExportService(catalogService, cfg.Catalog.ExportMaxRows),
	})
}

func (suite *CatalogTestSuite) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		jsonData, _ := json.Marshal(body)
		reader = bytes.NewBuffer(jsonData)
	} else {
		reader = &bytes.Buffer{}
	}
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *CatalogTestSuite) decode(w *httptest.ResponseRecorder, data any) apiResponse {
	var response apiResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	if data != nil {
		suite.Require().NoError(json.Unmarshal(response.Data, data))
	}
	return response
}

func (suite *CatalogTestSuite) TestHealth() {
	w := suite.do("GET", "/health", nil, "")
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var body map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(suite.T(), "healthy", body["status"])
	assert.EqualValues(suite.T(), 4, body["products"])
}

func (suite *CatalogTestSuite) TestSearchByBrandSortsByName() {
	w := suite.do("GET", "/v1/catalog?brands=Huawei", nil, "")
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var products []catalog.Product
	response := suite.decode(w, &products)
	assert.True(suite.T(), response.Success)
	suite.Require().Len(products, 2)
	assert.Equal(suite.T(), "LUNA2000-5", products[0].Name)
	assert.Equal(suite.T(), "SUN2000-6KTL", products[1].Name)
	assert.EqualValues(suite.T(), 2, response.Meta["count"])
	assert.Equal(suite.T(), true, response.Meta["hasActiveFilters"])
	assert.Equal(suite.T(), "brands=Huawei", response.Meta["query"])
}

func (suite *CatalogTestSuite) TestSearchPaginates() {
	w := suite.do("GET", "/v1/catalog?limit=1&page=2", nil, "")
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var products []catalog.Product
	response := suite.decode(w, &products)
	suite.Require().Len(products, 1)
	assert.Equal(suite.T(), "LUNA2000-5", products[0].Name)
	assert.EqualValues(suite.T(), 4, response.Meta["count"])
}

func (suite *CatalogTestSuite) TestFacets() {
	w := suite.do("GET", "/v1/catalog/facets", nil, "")
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var view services.FacetsView
	suite.decode(w, &view)
	assert.Equal(suite.T(), 4, view.Size)
	assert.Equal(suite.T(), []string{"DEYE", "Huawei", "LONGi"}, view.Vocabularies[catalog.FacetBrand])
	assert.Equal(suite.T(), catalog.DefaultPriceFloor, view.Defaults.Price.Max)
}

func (suite *CatalogTestSuite) TestUnknownProduct() {
	w := suite.do("GET", "/v1/catalog/products/missing", nil, "")
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *CatalogTestSuite) TestExport() {
	w := suite.do("GET", "/v1/catalog/export?categories=onduleurs", nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.Equal(suite.T(), "2", w.Header().Get("X-Total-Count"))

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	suite.Require().NoError(err)
	defer f.Close()
	rows, err := f.GetRows("Catalogue")
	suite.Require().NoError(err)
	assert.Len(suite.T(), rows, 3)
}

func (suite *CatalogTestSuite) TestSessionLifecycle() {
	w := suite.do("POST", "/v1/catalog/sessions?categories=onduleurs", nil, "")
	suite.Require().Equal(http.StatusCreated, w.Code)

	var view services.SessionView
	suite.decode(w, &view)
	suite.Require().NotEmpty(view.ID)
	assert.Equal(suite.T(), 2, view.Result.Count)
	assert.Contains(suite.T(), view.OpenGroups, catalog.GroupGeneral)

	path := "/v1/catalog/sessions/" + view.ID
	w = suite.do("POST", path+"/actions", map[string]any{
		"actions": []catalog.Action{catalog.SetFlag(catalog.FlagEthernet, catalog.Yes)},
	}, "")
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &view)
	suite.Require().Equal(1, view.Result.Count)
	assert.Equal(suite.T(), "inv-2", view.Result.Products[0].ID)

	w = suite.do("POST", path+"/actions", map[string]any{
		"actions": []map[string]any{{"type": "explode"}},
	}, "")
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	w = suite.do("POST", path+"/clear", nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &view)
	assert.Equal(suite.T(), 4, view.Result.Count)
	assert.False(suite.T(), view.HasActiveFilters)

	w = suite.do("DELETE", path, nil, "")
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	w = suite.do("GET", path, nil, "")
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *CatalogTestSuite) TestAdminRoutesRequireAdminRole() {
	w := suite.do("POST", "/v1/admin/catalog/reload", nil, "")
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)

	customer, err := utils.GenerateJWT("u-1", "claire", "customer", time.Hour)
	suite.Require().NoError(err)
	w = suite.do("POST", "/v1/admin/catalog/reload", nil, customer)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	admin, err := utils.GenerateJWT("u-2", "ops", "admin", time.Hour)
	suite.Require().NoError(err)
	w = suite.do("POST", "/v1/admin/catalog/reload", nil, admin)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.do("POST", "/v1/admin/catalog/feed", nil, admin)
	assert.Equal(suite.T(), http.StatusServiceUnavailable, w.Code)
}

func TestCatalogSuite(t *testing.T) {
	suite.Run(t, new(CatalogTestSuite))
}
