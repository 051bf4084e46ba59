package seeders

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/auth"
)

func init() {
	register("admin-user", seedAdminUser)
	register("catalog", seedCatalog)
}

func seedAdminUser(db *gorm.DB) error {
	hash, err := auth.HashPassword("password")
	if err != nil {
		return err
	}

	admin := models.User{
		Name:     "Admin",
		Email:    "admin@bazaar.local",
		Password: hash,
		Role:     auth.RoleAdmin,
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}).Create(&admin).Error
}

func seedCatalog(db *gorm.DB) error {
	products := []models.Product{
		{Name: "Mechanical Keyboard", SKU: "KB-MECH-01", Price: 129.99, Stock: 40, Category: "peripherals", Description: "Hot-swappable 87-key board with PBT caps."},
		{Name: "Wireless Mouse", SKU: "MS-WRLS-01", Price: 49.50, Stock: 120, Category: "peripherals", Description: "Low-latency 2.4GHz mouse, 8 buttons."},
		{Name: "27\" 4K Monitor", SKU: "MN-4K27-01", Price: 399.00, Stock: 15, Category: "displays", Description: "IPS panel, USB-C with 90W power delivery."},
		{Name: "USB-C Dock", SKU: "DK-USBC-01", Price: 89.00, Stock: 60, Category: "accessories", Description: "Dual HDMI, gigabit ethernet, SD reader."},
		{Name: "Laptop Stand", SKU: "ST-ALUM-01", Price: 35.00, Stock: 200, Category: "accessories", Description: "Aluminium, adjustable height."},
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sku"}},
		DoNothing: true,
	}).Create(&products).Error
}
