package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"github.com/shashiranjanraj/bazaar/pkg/migration"
)

func init() {
	migration.Register("20260115000003_add_single_active_order_index", &addSingleActiveOrderIndex{})
}

// addSingleActiveOrderIndex enforces "one active order per user" inside
// the database with a partial unique index, closing the check-then-insert
// race between concurrent order creations.
//
// MySQL has no partial indexes, so there the invariant rests on the
// transactional check alone.
type addSingleActiveOrderIndex struct{}

func (m *addSingleActiveOrderIndex) Up(db *gorm.DB) error {
	switch db.Dialector.Name() {
	case "mysql":
		logger.Warn("skipping partial unique index: not supported on mysql")
		return nil
	case "sqlserver":
		return db.Exec(
			`CREATE UNIQUE INDEX uq_orders_active_user
			 ON orders (user_id) WHERE status = 'active'`,
		).Error
	default: // postgres, sqlite
		return db.Exec(
			`CREATE UNIQUE INDEX IF NOT EXISTS uq_orders_active_user
			 ON orders (user_id) WHERE status = 'active'`,
		).Error
	}
}

func (m *addSingleActiveOrderIndex) Down(db *gorm.DB) error {
	switch db.Dialector.Name() {
	case "mysql":
		return nil
	case "sqlserver":
		return db.Exec(`DROP INDEX uq_orders_active_user ON orders`).Error
	default:
		return db.Exec(`DROP INDEX IF EXISTS uq_orders_active_user`).Error
	}
}
