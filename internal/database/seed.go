// internal/database/seed.go
package database

import (
	"fmt"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/solar-catalog/internal/models"
)

func ptr[T any](v T) *T {
	return &v
}

// DemoProducts is a small solar catalog covering every facet group.
func DemoProducts() []models.Product {
	return []models.Product{
		{
			Name: "Onduleur hybride SUN-8K-SG04LP3", Brand: "DEYE", Category: "onduleurs", Subcategory: ptr("hybride"),
			Description: "Onduleur hybride triphasé basse tension avec gestion batterie.", SKU: "DEYE-SUN-8K-SG04LP3",
			Price: ptr(1890.0), OriginalPrice: ptr(2090.0), MPPTCount: ptr(2), Type: ptr("hybride"), Voltage: ptr("400V"),
			NominalPower: ptr("8kW"), NetworkConnection: ptr("triphasé"), HasEthernet: ptr(false), HasWiFi: ptr(true),
			Warranty: ptr("10 ans"), Tags: pq.StringArray{"hybride", "triphasé"},
		},
		{
			Name: "Onduleur hybride SUN-5K-SG03LP1", Brand: "DEYE", Category: "onduleurs", Subcategory: ptr("hybride"),
			Description: "Onduleur hybride monophasé 5kW.", SKU: "DEYE-SUN-5K-SG03LP1",
			Price: ptr(1190.0), MPPTCount: ptr(2), Type: ptr("hybride"), Voltage: ptr("230V"),
			NominalPower: ptr("5kW"), NetworkConnection: ptr("monophasé"), HasWiFi: ptr(true), Warranty: ptr("10 ans"),
		},
		{
			Name: "SUN2000-6KTL-L1", Brand: "Huawei", Category: "onduleurs", Subcategory: ptr("réseau"),
			Description: "Onduleur string monophasé avec optimiseurs.", SKU: "HW-SUN2000-6KTL-L1",
			Price: ptr(1340.0), MPPTCount: ptr(2), Type: ptr("string"), Voltage: ptr("230V"),
			ApparentPower: ptr("6.6kVA"), NominalPower: ptr("6kW"), NetworkConnection: ptr("monophasé"),
			HasEthernet: ptr(true), HasWiFi: ptr(true), Warranty: ptr("10 ans"),
		},
		{
			Name: "SUN2000-100KTL-M2", Brand: "Huawei", Category: "onduleurs", Subcategory: ptr("réseau"),
			Description: "Onduleur string triphasé grande puissance.", SKU: "HW-SUN2000-100KTL-M2",
			MPPTCount: ptr(10), Type: ptr("string"), Voltage: ptr("400V"), NominalPower: ptr("100kW"),
			NetworkConnection: ptr("triphasé"), HasEthernet: ptr(true), Warranty: ptr("5 ans"),
		},
		{
			Name: "Hi-MO 5m 415W", Brand: "LONGi", Category: "panneaux-solaires", Subcategory: ptr("monocristallin"),
			Description: "Module monocristallin demi-cellules.", SKU: "LR5-54HPH-415M",
			Price: ptr(129.0), CellType: ptr("monocristallin"), Efficiency: ptr("21.3%"), MaxPower: ptr("415W"),
			Warranty: ptr("12 ans"),
		},
		{
			Name: "Tiger Neo 430W", Brand: "Jinko", Category: "panneaux-solaires", Subcategory: ptr("bifacial"),
			Description: "Module bifacial N-type TOPCon.", SKU: "JKM430N-54HL4R-BDV",
			Price: ptr(139.0), OriginalPrice: ptr(159.0), CellType: ptr("N-type"), Efficiency: ptr("22.0%"),
			MaxPower: ptr("430W"), Warranty: ptr("25 ans"),
		},
		{
			Name: "US5000", Brand: "Pylontech", Category: "batteries",
			Description: "Batterie lithium fer phosphate 48V.", SKU: "PYL-US5000",
			Price: ptr(1490.0), Capacity: ptr("4.8kWh"), BatteryType: ptr("LiFePO4"), Voltage: ptr("48V"),
			Warranty: ptr("10 ans"),
		},
		{
			Name: "LUNA2000-5-S0", Brand: "Huawei", Category: "batteries",
			Description: "Batterie modulaire haute tension.", SKU: "HW-LUNA2000-5-S0",
			Capacity: ptr("5kWh"), BatteryType: ptr("LiFePO4"), Warranty: ptr("10 ans"),
		},
		{
			Name: "Alfea Excellia A.I. 11", Brand: "Atlantic", Category: "pompes-a-chaleur", Subcategory: ptr("air-eau"),
			Description: "Pompe à chaleur air/eau haute température.", SKU: "ATL-ALFEA-EXC-11",
			Price: ptr(8990.0), COP: ptr("4.5"), HeatingPower: ptr("11kW"), Warranty: ptr("5 ans"),
		},
		{
			Name: "Aquarea T-CAP 12kW", Brand: "Panasonic", Category: "pompes-a-chaleur", Subcategory: ptr("air-eau"),
			Description: "Pompe à chaleur à puissance constante.", SKU: "PAN-WH-MXC12J9E8",
			Price: ptr(11450.0), COP: ptr("4.74"), HeatingPower: ptr("12kW"), Power: ptr("3.2kW"),
		},
	}
}

// SeedDemoData inserts the demo catalog into an empty products table.
func SeedDemoData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return nil
	}

	products := DemoProducts()
	err := WithTransaction(db, func(tx *gorm.DB) error {
		for i := range products {
			products[i].Status = models.ProductStatusActive
			if err := tx.Create(&products[i]).Error; err != nil {
				return fmt.Errorf("failed to create product %s: %w", products[i].SKU, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logrus.WithField("count", len(products)).Info("Demo catalog seeded")
	return nil
}
