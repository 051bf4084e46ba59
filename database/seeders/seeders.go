// Package seeders populates the database with development data.
package seeders

import (
	"fmt"

	"gorm.io/gorm"
)

type seeder struct {
	name string
	run  func(db *gorm.DB) error
}

var registry []seeder

func register(name string, run func(db *gorm.DB) error) {
	registry = append(registry, seeder{name: name, run: run})
}

// Run executes every registered seeder in registration order. Seeders are
// idempotent: rows that already exist are left alone.
func Run(db *gorm.DB) error {
	for _, s := range registry {
		fmt.Printf("  ▶ Seeding: %s\n", s.name)
		if err := s.run(db); err != nil {
			return fmt.Errorf("seeder %s: %w", s.name, err)
		}
		fmt.Printf("  ✅ Seeded:  %s\n", s.name)
	}
	return nil
}
