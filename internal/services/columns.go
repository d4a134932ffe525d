// internal/services/columns.go
package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/javajoker/solar-catalog/internal/catalog"
	"github.com/javajoker/solar-catalog/internal/models"
)

// sheetColumn maps one spreadsheet column to a product attribute. The
// export writes with get; the import reads with set.
type sheetColumn struct {
	header string
	width  float64
	get    func(p *catalog.Product) any
	set    func(p *models.Product, raw string) error
}

func optValue[T any](o catalog.Opt[T]) any {
	if v, ok := o.Get(); ok {
		return v
	}
	return nil
}

func stringColumn(header string, get func(*catalog.Product) catalog.Opt[string], field func(*models.Product) **string) sheetColumn {
	return sheetColumn{
		header: header,
		width:  16,
		get:    func(p *catalog.Product) any { return optValue(get(p)) },
		set: func(p *models.Product, raw string) error {
			if raw != "" {
				*field(p) = &raw
			}
			return nil
		},
	}
}

// parseDecimal accepts a comma or dot decimal separator. NaN and infinities
// are rejected.
func parseDecimal(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite number %q", raw)
	}
	return v, nil
}

func parseFlag(raw string) (*bool, error) {
	t, ok := catalog.ParseTriState(raw)
	if !ok {
		return nil, fmt.Errorf("invalid yes/no value %q", raw)
	}
	if b, set := t.Bool(); set {
		return &b, nil
	}
	return nil, nil
}

func flagLabel(o catalog.Opt[bool]) any {
	b, ok := o.Get()
	if !ok {
		return nil
	}
	if b {
		return "yes"
	}
	return "no"
}

var sheetColumns = []sheetColumn{
	{header: "SKU", width: 18,
		get: func(p *catalog.Product) any { return p.SKU },
		set: func(p *models.Product, raw string) error { p.SKU = raw; return nil }},
	{header: "Name", width: 36,
		get: func(p *catalog.Product) any { return p.Name },
		set: func(p *models.Product, raw string) error { p.Name = raw; return nil }},
	{header: "Brand", width: 16,
		get: func(p *catalog.Product) any { return p.Brand },
		set: func(p *models.Product, raw string) error { p.Brand = raw; return nil }},
	{header: "Category", width: 20,
		get: func(p *catalog.Product) any { return p.Category },
		set: func(p *models.Product, raw string) error { p.Category = raw; return nil }},
	stringColumn("Subcategory",
		func(p *catalog.Product) catalog.Opt[string] { return p.Subcategory },
		func(p *models.Product) **string { return &p.Subcategory }),
	{header: "Price", width: 12,
		get: func(p *catalog.Product) any { return optValue(p.Price) },
		set: func(p *models.Product, raw string) error {
			if raw == "" {
				return nil
			}
			v, err := parseDecimal(raw)
			if err != nil || v < 0 {
				return fmt.Errorf("invalid price %q", raw)
			}
			p.Price = &v
			return nil
		}},
	{header: "Original price", width: 14,
		get: func(p *catalog.Product) any { return optValue(p.OriginalPrice) },
		set: func(p *models.Product, raw string) error {
			if raw == "" {
				return nil
			}
			v, err := parseDecimal(raw)
			if err != nil || v < 0 {
				return fmt.Errorf("invalid original price %q", raw)
			}
			p.OriginalPrice = &v
			return nil
		}},
	stringColumn("Type",
		func(p *catalog.Product) catalog.Opt[string] { return p.Type },
		func(p *models.Product) **string { return &p.Type }),
	stringColumn("Voltage",
		func(p *catalog.Product) catalog.Opt[string] { return p.Voltage },
		func(p *models.Product) **string { return &p.Voltage }),
	stringColumn("Apparent power",
		func(p *catalog.Product) catalog.Opt[string] { return p.ApparentPower },
		func(p *models.Product) **string { return &p.ApparentPower }),
	stringColumn("Nominal power",
		func(p *catalog.Product) catalog.Opt[string] { return p.NominalPower },
		func(p *models.Product) **string { return &p.NominalPower }),
	stringColumn("Network connection",
		func(p *catalog.Product) catalog.Opt[string] { return p.NetworkConnection },
		func(p *models.Product) **string { return &p.NetworkConnection }),
	stringColumn("Power",
		func(p *catalog.Product) catalog.Opt[string] { return p.Power },
		func(p *models.Product) **string { return &p.Power }),
	{header: "MPPT count", width: 12,
		get: func(p *catalog.Product) any { return optValue(p.MPPTCount) },
		set: func(p *models.Product, raw string) error {
			if raw == "" {
				return nil
			}
			v, err := strconv.Atoi(raw)
			if err != nil || v < 0 {
				return fmt.Errorf("invalid MPPT count %q", raw)
			}
			p.MPPTCount = &v
			return nil
		}},
	{header: "Ethernet", width: 10,
		get: func(p *catalog.Product) any { return flagLabel(p.HasEthernet) },
		set: func(p *models.Product, raw string) (err error) {
			p.HasEthernet, err = parseFlag(raw)
			return err
		}},
	{header: "WiFi", width: 10,
		get: func(p *catalog.Product) any { return flagLabel(p.HasWiFi) },
		set: func(p *models.Product, raw string) (err error) {
			p.HasWiFi, err = parseFlag(raw)
			return err
		}},
	stringColumn("Cell type",
		func(p *catalog.Product) catalog.Opt[string] { return p.CellType },
		func(p *models.Product) **string { return &p.CellType }),
	stringColumn("Efficiency",
		func(p *catalog.Product) catalog.Opt[string] { return p.Efficiency },
		func(p *models.Product) **string { return &p.Efficiency }),
	stringColumn("Max power",
		func(p *catalog.Product) catalog.Opt[string] { return p.MaxPower },
		func(p *models.Product) **string { return &p.MaxPower }),
	stringColumn("Capacity",
		func(p *catalog.Product) catalog.Opt[string] { return p.Capacity },
		func(p *models.Product) **string { return &p.Capacity }),
	stringColumn("Battery type",
		func(p *catalog.Product) catalog.Opt[string] { return p.BatteryType },
		func(p *models.Product) **string { return &p.BatteryType }),
	stringColumn("COP",
		func(p *catalog.Product) catalog.Opt[string] { return p.COP },
		func(p *models.Product) **string { return &p.COP }),
	stringColumn("Heating power",
		func(p *catalog.Product) catalog.Opt[string] { return p.HeatingPower },
		func(p *models.Product) **string { return &p.HeatingPower }),
	stringColumn("Warranty",
		func(p *catalog.Product) catalog.Opt[string] { return p.Warranty },
		func(p *models.Product) **string { return &p.Warranty }),
	{header: "Description", width: 60,
		get: func(p *catalog.Product) any { return p.Description },
		set: func(p *models.Product, raw string) error { p.Description = raw; return nil }},
}

// columnIndex maps normalized header text to a column.
func columnIndex() map[string]*sheetColumn {
	idx := make(map[string]*sheetColumn, len(sheetColumns))
	for i := range sheetColumns {
		idx[normalizeHeader(sheetColumns[i].header)] = &sheetColumns[i]
	}
	return idx
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.Join(strings.Fields(h), " "))
}
