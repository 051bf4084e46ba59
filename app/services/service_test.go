package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/auth"
	"github.com/shashiranjanraj/bazaar/pkg/database"
	"github.com/shashiranjanraj/bazaar/pkg/migration"

	_ "github.com/shashiranjanraj/bazaar/database/migrations"
)

var dbSeq int

// setupDB points the global connection at a fresh in-memory SQLite
// database and runs the real migrations against it, so tests exercise the
// same schema (including the partial active-order index) as production.
func setupDB(t *testing.T) {
	t.Helper()

	dbSeq++
	dsn := fmt.Sprintf("file:svctest%d?mode=memory&cache=shared", dbSeq)
	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err)

	database.DB = db
	require.NoError(t, migration.New(db).Run())
}

// setupFKDB is setupDB with SQLite foreign key enforcement switched on, for
// tests that depend on referential actions actually firing.
func setupFKDB(t *testing.T) {
	t.Helper()

	dbSeq++
	dsn := fmt.Sprintf("file:svctest%d?mode=memory&cache=shared&_fk=1", dbSeq)
	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err)

	database.DB = db
	require.NoError(t, migration.New(db).Run())
}

func createUser(t *testing.T, email, role string) *models.User {
	t.Helper()

	hash, err := auth.HashPassword("secret-password")
	require.NoError(t, err)

	user := &models.User{Name: "Test User", Email: email, Password: hash, Role: role}
	require.NoError(t, database.DB.Create(user).Error)
	return user
}

func createProduct(t *testing.T, sku string, price float64) *models.Product {
	t.Helper()

	product := &models.Product{Name: "Product " + sku, SKU: sku, Price: price, Stock: 100}
	require.NoError(t, database.DB.Create(product).Error)
	return product
}
