// internal/catalog/facets.go
package catalog

import (
	"math"
	"strconv"
	"strings"
)

// Facet names a multi-select attribute filter.
type Facet string

const (
	FacetCategory          Facet = "category"
	FacetSubcategory       Facet = "subcategory"
	FacetBrand             Facet = "brand"
	FacetWarranty          Facet = "warranty"
	FacetType              Facet = "type"
	FacetVoltage           Facet = "voltage"
	FacetMPPTCount         Facet = "mpptCount"
	FacetApparentPower     Facet = "apparentPower"
	FacetNominalPower      Facet = "nominalPower"
	FacetNetworkConnection Facet = "networkConnection"
	FacetPower             Facet = "power"
	FacetCellType          Facet = "cellType"
	FacetEfficiency        Facet = "efficiency"
	FacetMaxPower          Facet = "maxPower"
	FacetCapacity          Facet = "capacity"
	FacetBatteryType       Facet = "batteryType"
	FacetCOP               Facet = "cop"
	FacetHeatingPower      Facet = "heatingPower"
)

// Flag names a tri-state boolean filter.
type Flag string

const (
	FlagEthernet Flag = "hasEthernet"
	FlagWiFi     Flag = "hasWiFi"
	FlagPrice    Flag = "hasPrice"
)

// Group is a collapsible section of facet controls.
type Group string

const (
	GroupGeneral   Group = "general"
	GroupInverters Group = "inverters"
	GroupPanels    Group = "panels"
	GroupBatteries Group = "batteries"
	GroupHeatPumps Group = "heatpumps"
	GroupPrice     Group = "price"
)

// Groups is the display order of facet sections.
var Groups = []Group{GroupGeneral, GroupInverters, GroupPanels, GroupBatteries, GroupHeatPumps, GroupPrice}

type facetKind int

const (
	kindText facetKind = iota
	kindNumber
)

type facetDescriptor struct {
	facet Facet
	group Group
	kind  facetKind
	value func(*Product) (string, bool)
}

type flagDescriptor struct {
	flag  Flag
	group Group
	value func(*Product) Opt[bool]
}

// required and optional trim attribute values so the vocabulary offers the
// same strings the reducer stores for a selection.
func required(get func(*Product) string) func(*Product) (string, bool) {
	return func(p *Product) (string, bool) {
		v := strings.TrimSpace(get(p))
		return v, v != ""
	}
}

func optional(get func(*Product) Opt[string]) func(*Product) (string, bool) {
	return func(p *Product) (string, bool) {
		v, ok := get(p).Get()
		if v = strings.TrimSpace(v); !ok || v == "" {
			return "", false
		}
		return v, true
	}
}

var facetRegistry = []facetDescriptor{
	{FacetCategory, GroupGeneral, kindText, required(func(p *Product) string { return p.Category })},
	{FacetSubcategory, GroupGeneral, kindText, optional(func(p *Product) Opt[string] { return p.Subcategory })},
	{FacetBrand, GroupGeneral, kindText, required(func(p *Product) string { return p.Brand })},
	{FacetWarranty, GroupGeneral, kindText, optional(func(p *Product) Opt[string] { return p.Warranty })},
	{FacetType, GroupInverters, kindText, optional(func(p *Product) Opt[string] { return p.Type })},
	{FacetVoltage, GroupInverters, kindText, optional(func(p *Product) Opt[string] { return p.Voltage })},
	{FacetMPPTCount, GroupInverters, kindNumber, func(p *Product) (string, bool) {
		n, ok := p.MPPTCount.Get()
		if !ok {
			return "", false
		}
		return strconv.Itoa(n), true
	}},
	{FacetApparentPower, GroupInverters, kindText, optional(func(p *Product) Opt[string] { return p.ApparentPower })},
	{FacetNominalPower, GroupInverters, kindText, optional(func(p *Product) Opt[string] { return p.NominalPower })},
	{FacetNetworkConnection, GroupInverters, kindText, optional(func(p *Product) Opt[string] { return p.NetworkConnection })},
	{FacetPower, GroupInverters, kindText, optional(func(p *Product) Opt[string] { return p.Power })},
	{FacetCellType, GroupPanels, kindText, optional(func(p *Product) Opt[string] { return p.CellType })},
	{FacetEfficiency, GroupPanels, kindText, optional(func(p *Product) Opt[string] { return p.Efficiency })},
	{FacetMaxPower, GroupPanels, kindText, optional(func(p *Product) Opt[string] { return p.MaxPower })},
	{FacetCapacity, GroupBatteries, kindText, optional(func(p *Product) Opt[string] { return p.Capacity })},
	{FacetBatteryType, GroupBatteries, kindText, optional(func(p *Product) Opt[string] { return p.BatteryType })},
	{FacetCOP, GroupHeatPumps, kindText, optional(func(p *Product) Opt[string] { return p.COP })},
	{FacetHeatingPower, GroupHeatPumps, kindText, optional(func(p *Product) Opt[string] { return p.HeatingPower })},
}

var flagRegistry = []flagDescriptor{
	{flag: FlagEthernet, group: GroupInverters, value: func(p *Product) Opt[bool] { return p.HasEthernet }},
	{flag: FlagWiFi, group: GroupInverters, value: func(p *Product) Opt[bool] { return p.HasWiFi }},
}

var facetIndex = func() map[Facet]*facetDescriptor {
	idx := make(map[Facet]*facetDescriptor, len(facetRegistry))
	for i := range facetRegistry {
		idx[facetRegistry[i].facet] = &facetRegistry[i]
	}
	return idx
}()

// Facets returns every registered facet in display order.
func Facets() []Facet {
	out := make([]Facet, len(facetRegistry))
	for i, d := range facetRegistry {
		out[i] = d.facet
	}
	return out
}

func (f Facet) Valid() bool {
	_, ok := facetIndex[f]
	return ok
}

func (f Facet) Group() Group {
	if d, ok := facetIndex[f]; ok {
		return d.group
	}
	return ""
}

func (f Facet) Numeric() bool {
	d, ok := facetIndex[f]
	return ok && d.kind == kindNumber
}

// Value returns the product's value for the facet. Absent attributes and
// unknown facets report false.
func (f Facet) Value(p *Product) (string, bool) {
	d, ok := facetIndex[f]
	if !ok {
		return "", false
	}
	return d.value(p)
}

func (f Flag) Valid() bool {
	switch f {
	case FlagEthernet, FlagWiFi, FlagPrice:
		return true
	}
	return false
}

func (f Flag) Group() Group {
	if f == FlagPrice {
		return GroupPrice
	}
	for _, d := range flagRegistry {
		if d.flag == f {
			return d.group
		}
	}
	return ""
}

// normalizeValue trims selection values and writes numeric facet values
// in canonical decimal form so "4" and "4.0" select the same products.
func normalizeValue(f Facet, v string) string {
	v = strings.TrimSpace(v)
	if !f.Numeric() {
		return v
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return v
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
