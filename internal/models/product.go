// internal/models/product.go
package models

import (
	"github.com/lib/pq"

	"github.com/javajoker/solar-catalog/internal/catalog"
)

// Product is the stored catalog row. Nullable columns map to absent
// attributes in the catalog record.
type Product struct {
	BaseModel
	Name           string         `json:"name" gorm:"size:255;not null"`
	Brand          string         `json:"brand" gorm:"size:100;not null;index"`
	Category       string         `json:"category" gorm:"size:100;not null;index"`
	Subcategory    *string        `json:"subcategory,omitempty" gorm:"size:100"`
	Description    string         `json:"description" gorm:"type:text"`
	SKU            string         `json:"sku" gorm:"size:100;not null"`
	Price          *float64       `json:"price,omitempty" gorm:"type:decimal(10,2);index"`
	OriginalPrice  *float64       `json:"original_price,omitempty" gorm:"type:decimal(10,2)"`
	Images         pq.StringArray `json:"images" gorm:"type:text[]"`
	Tags           pq.StringArray `json:"tags" gorm:"type:text[]"`
	Status         ProductStatus  `json:"status" gorm:"type:varchar(20);default:'active';index"`
	Specifications JSONB          `json:"specifications,omitempty" gorm:"type:jsonb"`

	// Inverters
	MPPTCount         *int    `json:"mppt_count,omitempty" gorm:"column:mppt_count"`
	Type              *string `json:"type,omitempty" gorm:"column:product_type;size:50"`
	Voltage           *string `json:"voltage,omitempty" gorm:"size:50"`
	ApparentPower     *string `json:"apparent_power,omitempty" gorm:"size:50"`
	NominalPower      *string `json:"nominal_power,omitempty" gorm:"size:50"`
	NetworkConnection *string `json:"network_connection,omitempty" gorm:"size:50"`
	Power             *string `json:"power,omitempty" gorm:"size:50"`
	HasEthernet       *bool   `json:"has_ethernet,omitempty"`
	HasWiFi           *bool   `json:"has_wifi,omitempty" gorm:"column:has_wifi"`

	// Panels
	CellType   *string `json:"cell_type,omitempty" gorm:"size:50"`
	Efficiency *string `json:"efficiency,omitempty" gorm:"size:20"`
	MaxPower   *string `json:"max_power,omitempty" gorm:"size:50"`

	// Batteries
	Capacity    *string `json:"capacity,omitempty" gorm:"size:50"`
	BatteryType *string `json:"battery_type,omitempty" gorm:"size:50"`

	// Heat pumps
	COP          *string `json:"cop,omitempty" gorm:"column:cop;size:20"`
	HeatingPower *string `json:"heating_power,omitempty" gorm:"size:50"`

	Warranty *string `json:"warranty,omitempty" gorm:"size:50"`
}

func (p *Product) ToCatalog() catalog.Product {
	return catalog.Product{
		ID:                p.ID.String(),
		Name:              p.Name,
		Brand:             p.Brand,
		Category:          p.Category,
		Subcategory:       catalog.OptFromPtr(p.Subcategory),
		Description:       p.Description,
		SKU:               p.SKU,
		Price:             catalog.OptFromPtr(p.Price),
		OriginalPrice:     catalog.OptFromPtr(p.OriginalPrice),
		Images:            []string(p.Images),
		MPPTCount:         catalog.OptFromPtr(p.MPPTCount),
		Type:              catalog.OptFromPtr(p.Type),
		Voltage:           catalog.OptFromPtr(p.Voltage),
		ApparentPower:     catalog.OptFromPtr(p.ApparentPower),
		NominalPower:      catalog.OptFromPtr(p.NominalPower),
		NetworkConnection: catalog.OptFromPtr(p.NetworkConnection),
		Power:             catalog.OptFromPtr(p.Power),
		HasEthernet:       catalog.OptFromPtr(p.HasEthernet),
		HasWiFi:           catalog.OptFromPtr(p.HasWiFi),
		CellType:          catalog.OptFromPtr(p.CellType),
		Efficiency:        catalog.OptFromPtr(p.Efficiency),
		MaxPower:          catalog.OptFromPtr(p.MaxPower),
		Capacity:          catalog.OptFromPtr(p.Capacity),
		BatteryType:       catalog.OptFromPtr(p.BatteryType),
		COP:               catalog.OptFromPtr(p.COP),
		HeatingPower:      catalog.OptFromPtr(p.HeatingPower),
		Warranty:          catalog.OptFromPtr(p.Warranty),
	}
}

// ToCatalogList converts rows in order.
func ToCatalogList(rows []Product) []catalog.Product {
	out := make([]catalog.Product, len(rows))
	for i := range rows {
		out[i] = rows[i].ToCatalog()
	}
	return out
}
