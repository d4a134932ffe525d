// internal/catalog/fixtures_test.go
package catalog

func names(products []Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

func sampleProducts() []Product {
	return []Product{
		{
			ID: "inv-deye-8k", Name: "Onduleur hybride SUN-8K", Brand: "DEYE", Category: "onduleurs",
			Subcategory: Some("hybride"), SKU: "DEYE-SUN-8K-SG04LP3", Description: "Onduleur hybride triphasé",
			Price: Some(1890.0), MPPTCount: Some(2), Type: Some("hybride"), Voltage: Some("400V"),
			Warranty: Some("10 ans"), HasEthernet: Some(false), HasWiFi: Some(true),
		},
		{
			ID: "inv-huawei-5k", Name: "SUN2000-5KTL", Brand: "Huawei", Category: "onduleurs",
			Subcategory: Some("réseau"), SKU: "HW-5KTL-L1", Description: "Onduleur string monophasé",
			Price: Some(1240.0), MPPTCount: Some(2), Type: Some("string"), Voltage: Some("230V"),
			Warranty: Some("10 ans"), HasEthernet: Some(true), HasWiFi: Some(true),
		},
		{
			ID: "inv-deye-12k", Name: "Onduleur SUN-12K", Brand: "DEYE", Category: "onduleurs",
			SKU: "DEYE-SUN-12K", Price: Some(2650.0), MPPTCount: Some(10), Voltage: Some("400V"),
		},
		{
			ID: "pan-longi-415", Name: "Hi-MO 5 415W", Brand: "LONGi", Category: "panneaux-solaires",
			SKU: "LR5-54HPH-415M", Price: Some(129.0), CellType: Some("monocristallin"),
			Efficiency: Some("21.3%"), MaxPower: Some("415W"), Warranty: Some("12 ans"),
		},
		{
			ID: "bat-pylontech", Name: "US5000", Brand: "Pylontech", Category: "batteries",
			SKU: "PYL-US5000", Capacity: Some("4.8kWh"), BatteryType: Some("LiFePO4"),
		},
		{
			ID: "pac-atlantic", Name: "Alfea Excellia", Brand: "Atlantic", Category: "pompes-a-chaleur",
			Price: Some(8990.0), COP: Some("4.5"), HeatingPower: Some("11kW"),
		},
	}
}
