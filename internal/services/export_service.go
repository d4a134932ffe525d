// internal/services/export_service.go
package services

import (
	"fmt"
	"io"
	"net/url"

	"github.com/xuri/excelize/v2"

	"github.com/javajoker/solar-catalog/internal/catalog"
	"github.com/javajoker/solar-catalog/internal/metrics"
)

const exportSheet = "Catalogue"

type ExportService struct {
	catalog *CatalogService
	maxRows int
}

type ExportResult struct {
	Rows      int
	Total     int
	Truncated bool
}

func NewExportService(catalogService *CatalogService, maxRows int) *ExportService {
	return &ExportService{catalog: catalogService, maxRows: maxRows}
}

// Export writes the view selected by the query as an XLSX workbook.
func (s *ExportService) Export(values url.Values, w io.Writer) (*ExportResult, error) {
	view, err := s.catalog.Search(values)
	if err != nil {
		return nil, err
	}

	products := view.Products
	result := &ExportResult{Total: view.Count}
	if s.maxRows > 0 && len(products) > s.maxRows {
		products = products[:s.maxRows]
		result.Truncated = true
	}
	result.Rows = len(products)

	f, err := BuildWorkbook(products)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	metrics.Exports.Inc()
	return result, nil
}

// BuildWorkbook lays the products out one per row under a frozen header.
// Absent attributes are left as empty cells.
func BuildWorkbook(products []catalog.Product) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		f.Close()
		return nil, err
	}

	header := make([]any, len(sheetColumns))
	for i, col := range sheetColumns {
		header[i] = col.header
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetColWidth(exportSheet, name, name, col.width); err != nil {
			f.Close()
			return nil, err
		}
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		f.Close()
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(sheetColumns), 1)
	if err := f.SetCellStyle(exportSheet, "A1", lastHeader, bold); err != nil {
		f.Close()
		return nil, err
	}

	row := make([]any, len(sheetColumns))
	for i := range products {
		for j, col := range sheetColumns {
			row[j] = col.get(&products[i])
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(exportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, err
	}
	if len(products) > 0 {
		lastCell, _ := excelize.CoordinatesToCellName(len(sheetColumns), len(products)+1)
		if err := f.AutoFilter(exportSheet, "A1:"+lastCell, nil); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}
