// internal/catalog/product.go
package catalog

// Product is the read-only catalog record the engine filters over.
// Category-specific attributes are optional; any of them may be absent.
type Product struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Brand         string       `json:"brand"`
	Category      string       `json:"category"`
	Subcategory   Opt[string]  `json:"subcategory,omitzero"`
	Description   string       `json:"description,omitempty"`
	SKU           string       `json:"sku,omitempty"`
	Price         Opt[float64] `json:"price,omitzero"`
	OriginalPrice Opt[float64] `json:"originalPrice,omitzero"`
	Images        []string     `json:"images,omitempty"`

	// Inverters
	MPPTCount         Opt[int]    `json:"mpptCount,omitzero"`
	Type              Opt[string] `json:"type,omitzero"`
	Voltage           Opt[string] `json:"voltage,omitzero"`
	ApparentPower     Opt[string] `json:"apparentPower,omitzero"`
	NominalPower      Opt[string] `json:"nominalPower,omitzero"`
	NetworkConnection Opt[string] `json:"networkConnection,omitzero"`
	Power             Opt[string] `json:"power,omitzero"`
	HasEthernet       Opt[bool]   `json:"hasEthernet,omitzero"`
	HasWiFi           Opt[bool]   `json:"hasWiFi,omitzero"`

	// Panels
	CellType   Opt[string] `json:"cellType,omitzero"`
	Efficiency Opt[string] `json:"efficiency,omitzero"`
	MaxPower   Opt[string] `json:"maxPower,omitzero"`

	// Batteries
	Capacity    Opt[string] `json:"capacity,omitzero"`
	BatteryType Opt[string] `json:"batteryType,omitzero"`

	// Heat pumps
	COP          Opt[string] `json:"cop,omitzero"`
	HeatingPower Opt[string] `json:"heatingPower,omitzero"`

	Warranty Opt[string] `json:"warranty,omitzero"`
}

// searchFields lists the free-text fields matched by the search term.
func (p *Product) searchFields() [5]string {
	return [5]string{p.Name, p.Brand, p.Description, p.SKU, p.Category}
}
