// internal/services/product_service.go
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/javajoker/solar-catalog/internal/database"
	"github.com/javajoker/solar-catalog/internal/messaging"
	"github.com/javajoker/solar-catalog/internal/models"
	"github.com/javajoker/solar-catalog/internal/utils"
)

// CacheInvalidator drops a cached catalog snapshot.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

type ProductService struct {
	db        *gorm.DB
	publisher messaging.Publisher
	cache     CacheInvalidator
}

// ProductAttributes are the optional technical attributes. A nil field is
// absent on create and unchanged on update.
type ProductAttributes struct {
	Subcategory       *string  `json:"subcategory,omitempty" validate:"omitempty,max=100"`
	OriginalPrice     *float64 `json:"original_price,omitempty" validate:"omitempty,min=0"`
	MPPTCount         *int     `json:"mppt_count,omitempty" validate:"omitempty,min=0,max=64"`
	Type              *string  `json:"type,omitempty" validate:"omitempty,max=50"`
	Voltage           *string  `json:"voltage,omitempty" validate:"omitempty,max=50"`
	ApparentPower     *string  `json:"apparent_power,omitempty" validate:"omitempty,max=50"`
	NominalPower      *string  `json:"nominal_power,omitempty" validate:"omitempty,max=50"`
	NetworkConnection *string  `json:"network_connection,omitempty" validate:"omitempty,max=50"`
	Power             *string  `json:"power,omitempty" validate:"omitempty,max=50"`
	HasEthernet       *bool    `json:"has_ethernet,omitempty"`
	HasWiFi           *bool    `json:"has_wifi,omitempty"`
	CellType          *string  `json:"cell_type,omitempty" validate:"omitempty,max=50"`
	Efficiency        *string  `json:"efficiency,omitempty" validate:"omitempty,max=20"`
	MaxPower          *string  `json:"max_power,omitempty" validate:"omitempty,max=50"`
	Capacity          *string  `json:"capacity,omitempty" validate:"omitempty,max=50"`
	BatteryType       *string  `json:"battery_type,omitempty" validate:"omitempty,max=50"`
	COP               *string  `json:"cop,omitempty" validate:"omitempty,max=20"`
	HeatingPower      *string  `json:"heating_power,omitempty" validate:"omitempty,max=50"`
	Warranty          *string  `json:"warranty,omitempty" validate:"omitempty,max=50"`
}

type CreateProductRequest struct {
	Name           string                 `json:"name" validate:"required,min=2,max=255"`
	Brand          string                 `json:"brand" validate:"required,max=100"`
	Category       string                 `json:"category" validate:"required,max=100"`
	Description    string                 `json:"description"`
	SKU            string                 `json:"sku" validate:"required,sku"`
	Price          *float64               `json:"price,omitempty" validate:"omitempty,min=0"`
	Images         []string               `json:"images,omitempty" validate:"omitempty,dive,url"`
	Tags           []string               `json:"tags,omitempty"`
	Status         models.ProductStatus   `json:"status,omitempty" validate:"omitempty,oneof=draft active archived"`
	Specifications map[string]interface{} `json:"specifications,omitempty"`
	ProductAttributes
}

type UpdateProductRequest struct {
	Name           string                 `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Brand          string                 `json:"brand,omitempty" validate:"omitempty,max=100"`
	Category       string                 `json:"category,omitempty" validate:"omitempty,max=100"`
	Description    string                 `json:"description,omitempty"`
	Price          *float64               `json:"price,omitempty" validate:"omitempty,min=0"`
	ClearPrice     bool                   `json:"clear_price,omitempty"`
	Images         []string               `json:"images,omitempty" validate:"omitempty,dive,url"`
	Tags           []string               `json:"tags,omitempty"`
	Status         models.ProductStatus   `json:"status,omitempty" validate:"omitempty,oneof=draft active archived"`
	Specifications map[string]interface{} `json:"specifications,omitempty"`
	ProductAttributes
}

type ProductListParams struct {
	utils.PaginationParams
	Status models.ProductStatus `json:"status,omitempty"`
	Brand  string               `json:"brand,omitempty"`
}

// ImportReport summarizes one spreadsheet import.
type ImportReport struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

func NewProductService(db *gorm.DB, publisher messaging.Publisher, cache CacheInvalidator) *ProductService {
	return &ProductService{db: db, publisher: publisher, cache: cache}
}

func trimOptional(fields ...**string) {
	for _, f := range fields {
		if *f != nil {
			v := strings.TrimSpace(**f)
			*f = &v
		}
	}
}

func (a *ProductAttributes) normalize() {
	trimOptional(&a.Subcategory, &a.Type, &a.Voltage, &a.ApparentPower, &a.NominalPower,
		&a.NetworkConnection, &a.Power, &a.CellType, &a.Efficiency, &a.MaxPower,
		&a.Capacity, &a.BatteryType, &a.COP, &a.HeatingPower, &a.Warranty)
}

// normalize trims the text fields before validation, so a blank value
// fails required and is ignored by updates.
func (r *CreateProductRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Brand = strings.TrimSpace(r.Brand)
	r.Category = strings.TrimSpace(r.Category)
	r.SKU = strings.TrimSpace(r.SKU)
	r.ProductAttributes.normalize()
}

func (r *UpdateProductRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Brand = strings.TrimSpace(r.Brand)
	r.Category = strings.TrimSpace(r.Category)
	r.ProductAttributes.normalize()
}

func (a *ProductAttributes) applyTo(p *models.Product) {
	if a.Subcategory != nil {
		p.Subcategory = a.Subcategory
	}
	if a.OriginalPrice != nil {
		p.OriginalPrice = a.OriginalPrice
	}
	if a.MPPTCount != nil {
		p.MPPTCount = a.MPPTCount
	}
	if a.Type != nil {
		p.Type = a.Type
	}
	if a.Voltage != nil {
		p.Voltage = a.Voltage
	}
	if a.ApparentPower != nil {
		p.ApparentPower = a.ApparentPower
	}
	if a.NominalPower != nil {
		p.NominalPower = a.NominalPower
	}
	if a.NetworkConnection != nil {
		p.NetworkConnection = a.NetworkConnection
	}
	if a.Power != nil {
		p.Power = a.Power
	}
	if a.HasEthernet != nil {
		p.HasEthernet = a.HasEthernet
	}
	if a.HasWiFi != nil {
		p.HasWiFi = a.HasWiFi
	}
	if a.CellType != nil {
		p.CellType = a.CellType
	}
	if a.Efficiency != nil {
		p.Efficiency = a.Efficiency
	}
	if a.MaxPower != nil {
		p.MaxPower = a.MaxPower
	}
	if a.Capacity != nil {
		p.Capacity = a.Capacity
	}
	if a.BatteryType != nil {
		p.BatteryType = a.BatteryType
	}
	if a.COP != nil {
		p.COP = a.COP
	}
	if a.HeatingPower != nil {
		p.HeatingPower = a.HeatingPower
	}
	if a.Warranty != nil {
		p.Warranty = a.Warranty
	}
}

func (s *ProductService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	req.normalize()
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Product{}).Where("sku = ?", req.SKU).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return nil, ErrDuplicateSKU
	}

	status := req.Status
	if status == "" {
		status = models.ProductStatusActive
	}

	product := &models.Product{
		Name:           req.Name,
		Brand:          req.Brand,
		Category:       req.Category,
		Description:    req.Description,
		SKU:            req.SKU,
		Price:          req.Price,
		Images:         req.Images,
		Tags:           req.Tags,
		Status:         status,
		Specifications: models.JSONB(req.Specifications),
	}
	req.ProductAttributes.applyTo(product)

	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.announce(ctx, messaging.ActionCreated, product.ID.String())
	return product, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	req.normalize()
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Brand != "" {
		product.Brand = req.Brand
	}
	if req.Category != "" {
		product.Category = req.Category
	}
	if req.Description != "" {
		product.Description = req.Description
	}
	if req.Price != nil {
		product.Price = req.Price
	}
	if req.ClearPrice {
		product.Price = nil
	}
	if req.Images != nil {
		product.Images = req.Images
	}
	if req.Tags != nil {
		product.Tags = req.Tags
	}
	if req.Status != "" {
		product.Status = req.Status
	}
	if req.Specifications != nil {
		product.Specifications = models.JSONB(req.Specifications)
	}
	req.ProductAttributes.applyTo(product)

	if err := s.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.announce(ctx, messaging.ActionUpdated, product.ID.String())
	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	// Soft delete
	if err := s.db.WithContext(ctx).Delete(product).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.announce(ctx, messaging.ActionDeleted, id.String())
	return nil
}

func (s *ProductService) ListProducts(ctx context.Context, params ProductListParams) ([]models.Product, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Product{})

	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.Brand != "" {
		query = query.Where("brand = ?", params.Brand)
	}
	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(sku) LIKE ? OR LOWER(brand) LIKE ?)", searchTerm, searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "name", "brand", "price"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}
	return products, total, nil
}

// ImportXLSX upserts products by SKU from the first sheet of a workbook laid
// out like the export. Rows with errors are skipped and reported.
func (s *ProductService) ImportXLSX(ctx context.Context, data []byte) (*ImportReport, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return &ImportReport{}, nil
	}

	index := columnIndex()
	columns := make([]*sheetColumn, len(rows[0]))
	hasSKU := false
	for i, h := range rows[0] {
		columns[i] = index[normalizeHeader(h)]
		if columns[i] != nil && columns[i].header == "SKU" {
			hasSKU = true
		}
	}
	if !hasSKU {
		return nil, errors.New("workbook has no SKU column")
	}

	report := &ImportReport{}
	for n, row := range rows[1:] {
		line := n + 2
		parsed := &models.Product{}
		var rowErr error
		for i, col := range columns {
			if col == nil || i >= len(row) {
				continue
			}
			if err := col.set(parsed, strings.TrimSpace(row[i])); err != nil {
				rowErr = err
				break
			}
		}
		if rowErr == nil && (parsed.SKU == "" || parsed.Name == "" || parsed.Brand == "" || parsed.Category == "") {
			if parsed.SKU == "" && parsed.Name == "" {
				continue
			}
			rowErr = errors.New("sku, name, brand and category are required")
		}
		if rowErr != nil {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: %v", line, rowErr))
			continue
		}

		created, err := s.upsert(ctx, parsed)
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		if created {
			report.Created++
		} else {
			report.Updated++
		}
	}

	logrus.WithFields(logrus.Fields{
		"created": report.Created,
		"updated": report.Updated,
		"skipped": report.Skipped,
	}).Info("Product spreadsheet imported")

	if report.Created+report.Updated > 0 {
		s.announce(ctx, messaging.ActionReloaded, "")
	}
	return report, nil
}

func (s *ProductService) upsert(ctx context.Context, parsed *models.Product) (created bool, err error) {
	err = database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		var existing models.Product
		err := tx.Where("sku = ?", parsed.SKU).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			parsed.Status = models.ProductStatusActive
			if err := tx.Create(parsed).Error; err != nil {
				return fmt.Errorf("failed to create product: %w", err)
			}
			created = true
			return nil
		case err != nil:
			return fmt.Errorf("database error: %w", err)
		}

		parsed.BaseModel = existing.BaseModel
		parsed.Status = existing.Status
		parsed.Images = existing.Images
		parsed.Tags = existing.Tags
		parsed.Specifications = existing.Specifications
		if err := tx.Save(parsed).Error; err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}
		return nil
	})
	return created, err
}

// announce invalidates the snapshot cache and publishes the change. Both
// are best effort; the write itself already succeeded.
func (s *ProductService) announce(ctx context.Context, action messaging.ChangeAction, productID string) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			logrus.WithError(err).Warn("Failed to invalidate catalog cache")
		}
	}
	if s.publisher != nil {
		if err := s.publisher.PublishCatalogChange(ctx, messaging.NewChange(action, productID)); err != nil {
			logrus.WithError(err).WithField("product_id", productID).Warn("Failed to publish catalog change")
		}
	}
}
