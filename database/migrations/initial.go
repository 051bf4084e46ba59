// Package migrations holds every schema migration. Importing the package
// (blank import from cmd) registers them with the runner.
package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/migration"
)

func init() {
	migration.Register("20260115000000_create_users_table", &createUsersTable{})
	migration.Register("20260115000001_create_products_table", &createProductsTable{})
	migration.Register("20260115000002_create_orders_tables", &createOrdersTables{})
}

type createUsersTable struct{}

func (m *createUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *createUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}

type createProductsTable struct{}

func (m *createProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *createProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("products")
}

type createOrdersTables struct{}

func (m *createOrdersTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{}, &models.OrderProduct{}, &models.Payment{})
}

func (m *createOrdersTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("payments", "order_products", "orders")
}
