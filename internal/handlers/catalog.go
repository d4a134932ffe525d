// internal/handlers/catalog.go
package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/solar-catalog/internal/i18n"
	"github.com/javajoker/solar-catalog/internal/services"
	"github.com/javajoker/solar-catalog/internal/utils"
)

const (
	defaultPageSize = 24
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type CatalogHandler struct {
	catalogService *services.CatalogService
	exportService  *services.ExportService
	cache          services.CacheInvalidator
	timeout        time.Duration
}

func NewCatalogHandler(catalogService *services.CatalogService, exportService *services.ExportService, cache services.CacheInvalidator, timeout time.Duration) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		exportService:  exportService,
		cache:          cache,
		timeout:        timeout,
	}
}

// GET /v1/catalog
func (h *CatalogHandler) Search(c *gin.Context) {
	params := utils.GetPageParams(c, defaultPageSize)

	view, err := h.catalogService.Search(c.Request.URL.Query())
	if err != nil {
		respondError(c, err)
		return
	}

	page := utils.Paginate(view.Products, params)
	result := utils.CreatePaginationResult(page, int64(view.Count), params)
	utils.SetPaginationHeaders(c, result)
	utils.SuccessResponseWithMeta(c, page, gin.H{
		"pagination":       utils.NewPageMeta(result),
		"count":            view.Count,
		"search":           view.Search,
		"sort":             view.Sort,
		"state":            view.State,
		"hasActiveFilters": view.HasActiveFilters,
		"query":            view.Query,
	})
}

// GET /v1/catalog/facets
func (h *CatalogHandler) Facets(c *gin.Context) {
	view, err := h.catalogService.Facets()
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, view)
}

// GET /v1/catalog/products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.catalogService.Product(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, product)
}

// GET /v1/catalog/export
func (h *CatalogHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	result, err := h.exportService.Export(c.Request.URL.Query(), &buf)
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("catalogue-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("X-Total-Count", strconv.Itoa(result.Total))
	if result.Truncated {
		c.Header("X-Export-Truncated", "true")
	}
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// POST /v1/admin/catalog/reload
func (h *CatalogHandler) Reload(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	if h.cache != nil {
		if err := h.cache.Invalidate(ctx); err != nil {
			logrus.WithError(err).Warn("Failed to invalidate catalog cache before reload")
		}
	}

	if err := h.catalogService.Reload(ctx); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyCatalogReloaded),
		"products": h.catalogService.Size(),
	})
}

// POST /v1/admin/catalog/feed
func (h *CatalogHandler) PublishFeed(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	location, err := h.catalogService.PublishFeed(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"location": location,
		"products": h.catalogService.Size(),
	})
}
