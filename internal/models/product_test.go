// internal/models/product_test.go
package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestProductToCatalog(t *testing.T) {
	price := 1890.0
	mppt := 2
	wifi := true
	row := Product{
		BaseModel: BaseModel{ID: uuid.New()},
		Name:      "SUN-8K",
		Brand:     "DEYE",
		Category:  "onduleurs",
		Price:     &price,
		MPPTCount: &mppt,
		HasWiFi:   &wifi,
	}

	p := row.ToCatalog()
	assert.Equal(t, row.ID.String(), p.ID)
	assert.Equal(t, 1890.0, p.Price.Or(0))
	assert.Equal(t, 2, p.MPPTCount.Or(0))
	assert.True(t, p.HasWiFi.Or(false))
	assert.False(t, p.HasEthernet.IsSome())
	assert.False(t, p.Subcategory.IsSome())
	assert.False(t, p.OriginalPrice.IsSome())
}
