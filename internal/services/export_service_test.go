// internal/services/export_service_test.go
package services

import (
	"bytes"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/javajoker/solar-catalog/internal/models"
)

func readSheet(t *testing.T, data []byte) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{exportSheet}, f.GetSheetList())
	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	return rows
}

func TestExportFollowsTheView(t *testing.T) {
	svc, _ := loadedCatalog(storefront())
	export := NewExportService(svc, 0)

	var buf bytes.Buffer
	result, err := export.Export(url.Values{"categories": {"onduleurs"}, "sort": {"price-asc"}}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Rows)
	assert.False(t, result.Truncated)

	rows := readSheet(t, buf.Bytes())
	require.Len(t, rows, 3)
	assert.Equal(t, "SKU", rows[0][0])
	assert.Equal(t, "Name", rows[0][1])
	assert.Equal(t, "HW-6KTL", rows[1][0])
	assert.Equal(t, "DEYE-8K", rows[2][0])
}

func TestExportTruncates(t *testing.T) {
	svc, _ := loadedCatalog(storefront())

	var buf bytes.Buffer
	result, err := NewExportService(svc, 3).Export(url.Values{}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Rows)
	assert.Equal(t, 5, result.Total)
	assert.True(t, result.Truncated)
	assert.Len(t, readSheet(t, buf.Bytes()), 4)
}

func TestExportEmptyView(t *testing.T) {
	svc, _ := loadedCatalog(storefront())

	var buf bytes.Buffer
	result, err := NewExportService(svc, 0).Export(url.Values{"q": {"nothing matches"}}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Rows)
	assert.Len(t, readSheet(t, buf.Bytes()), 1)
}

func TestWorkbookColumnsReadBack(t *testing.T) {
	f, err := BuildWorkbook(storefront())
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)

	index := columnIndex()
	header := rows[0]
	parsed := make([]models.Product, len(rows)-1)
	for r, row := range rows[1:] {
		for i, h := range header {
			col := index[normalizeHeader(h)]
			require.NotNil(t, col, h)
			if i < len(row) {
				require.NoError(t, col.set(&parsed[r], row[i]))
			}
		}
	}

	inverter := parsed[0]
	assert.Equal(t, "DEYE-8K", inverter.SKU)
	require.NotNil(t, inverter.Price)
	assert.Equal(t, 1890.0, *inverter.Price)
	require.NotNil(t, inverter.MPPTCount)
	assert.Equal(t, 2, *inverter.MPPTCount)
	require.NotNil(t, inverter.HasEthernet)
	assert.False(t, *inverter.HasEthernet)
	assert.Nil(t, inverter.Capacity)

	battery := parsed[3]
	assert.Nil(t, battery.Price, "absent price stays absent")
	assert.Nil(t, battery.HasWiFi)
	require.NotNil(t, battery.Capacity)
	assert.Equal(t, "5kWh", *battery.Capacity)
}

func TestColumnParsing(t *testing.T) {
	index := columnIndex()
	var p models.Product

	require.NoError(t, index["price"].set(&p, "290,50"))
	assert.Equal(t, 290.5, *p.Price)

	assert.Error(t, index["price"].set(&p, "cheap"))
	for _, raw := range []string{"NaN", "nan", "Inf", "-Inf", "+Infinity"} {
		assert.Error(t, index["price"].set(&p, raw), raw)
		assert.Error(t, index["original price"].set(&p, raw), raw)
	}
	assert.Equal(t, 290.5, *p.Price)
	assert.Nil(t, p.OriginalPrice)
	assert.Error(t, index["mppt count"].set(&p, "-1"))
	assert.Error(t, index["wifi"].set(&p, "maybe"))

	require.NoError(t, index["wifi"].set(&p, "oui"))
	assert.True(t, *p.HasWiFi)
	assert.Equal(t, "network connection", normalizeHeader("  Network   Connection "))
}
