package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/apperr"
	"github.com/shashiranjanraj/bazaar/pkg/auth"
	"github.com/shashiranjanraj/bazaar/pkg/database"
)

func TestCreateOrder(t *testing.T) {
	setupDB(t)
	svc := NewOrderService()
	user := createUser(t, "alice@example.com", auth.RoleUser)
	kb := createProduct(t, "KB-1", 100)
	ms := createProduct(t, "MS-1", 40)

	order, err := svc.Create(user.ID, []ItemInput{
		{ProductID: kb.ID, Quantity: 2},
		{ProductID: ms.ID, Quantity: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusActive, order.Status)
	assert.Equal(t, user.ID, order.UserID)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, 100.0, order.Items[0].Price)
	assert.Equal(t, 240.0, order.Total())
}

func TestCreateOrderMergesDuplicateProducts(t *testing.T) {
	setupDB(t)
	svc := NewOrderService()
	user := createUser(t, "alice@example.com", auth.RoleUser)
	kb := createProduct(t, "KB-1", 100)

	order, err := svc.Create(user.ID, []ItemInput{
		{ProductID: kb.ID, Quantity: 2},
		{ProductID: kb.ID, Quantity: 3},
	})
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	assert.Equal(t, 5, order.Items[0].Quantity)
}

func TestCreateOrderValidation(t *testing.T) {
	setupDB(t)
	svc := NewOrderService()
	user := createUser(t, "alice@example.com", auth.RoleUser)
	kb := createProduct(t, "KB-1", 100)

	_, err := svc.Create(user.ID, nil)
	assert.Equal(t, apperr.KindInvalid, apperr.KindOf(err))

	_, err = svc.Create(user.ID, []ItemInput{{ProductID: kb.ID, Quantity: 0}})
	assert.Equal(t, apperr.KindInvalid, apperr.KindOf(err))

	_, err = svc.Create(user.ID, []ItemInput{{ProductID: 9999, Quantity: 1}})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCreateOrderWithDeletedProduct(t *testing.T) {
	setupDB(t)
	svc := NewOrderService()
	user := createUser(t, "alice@example.com", auth.RoleUser)
	kb := createProduct(t, "KB-1", 100)

	// The catalogue row disappears before the order is opened; the price
	// snapshot runs inside the creation transaction and must report the
	// missing product rather than fail the insert.
	require.NoError(t, database.DB.Unscoped().Delete(kb).Error)

	_, err := svc.Create(user.ID, []ItemInput{{ProductID: kb.ID, Quantity: 1}})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestSingleActiveOrderPerUser(t *testing.T) {
	setupDB(t)
	svc := NewOrderService()
	user := createUser(t, "alice@example.com", auth.RoleUser)
	kb := createProduct(t, "KB-1", 100)

	first, err := svc.Create(user.ID, []ItemInput{{ProductID: kb.ID, Quantity: 1}})
	require.NoError(t, err)

	_, err = svc.Create(user.ID, []ItemInput{{ProductID: kb.ID, Quantity: 1}})
	assert.True(t, apperr.IsConflict(err))

	// Completing the open order frees the slot.
	_, err = svc.UpdateStatus(first.ID, models.OrderStatusComplete)
	require.NoError(t, err)

	_, err = svc.Create(user.ID, []ItemInput{{ProductID: kb.ID, Quantity: 1}})
	assert.NoError(t, err)
}

func TestActiveOrderIndexBacksUpTheCheck(t *testing.T) {
	setupDB(t)
	user := createUser(t, "alice@example.com", auth.RoleUser)

	// Bypass the service to simulate two creations racing past the
	// read-check; the partial unique index must reject the second row.
	first := models.Order{UserID: user.ID, Status: models.OrderStatusActive}
	require.NoError(t, database.DB.Create(&first).Error)

	// The violation must translate to gorm.ErrDuplicatedKey, which is what
	// the service maps to a conflict.
	second := models.Order{UserID: user.ID, Status: models.OrderStatusActive}
	err := database.DB.Create(&second).Error
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// A second complete order is fine; the index only covers active rows.
	done := models.Order{UserID: user.ID, Status: models.OrderStatusComplete}
	assert.NoError(t, database.DB.Create(&done).Error)
}

func TestPriceSnapshotSurvivesCatalogueChanges(t *testing.T) {
	setupDB(t)
	svc := NewOrderService()
	user := createUser(t, "alice@example.com", auth.RoleUser)
	kb := createProduct(t, "KB-1", 100)

	order, err := svc.Create(user.ID, []ItemInput{{ProductID: kb.ID, Quantity: 2}})
	require.NoError(t, err)

	kb.Price = 500
	require.NoError(t, database.DB.Save(kb).Error)

	reloaded, err := svc.Get(user.ID, false, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, reloaded.Items[0].Price)
	assert.Equal(t, 200.0, reloaded.Total())
}

func TestAddItemMergesExistingProduct(t *testing.T) {
	setupDB(t)
	svc := NewOrderService()
	user := createUser(t, "alice@example.com", auth.RoleUser)
	kb := createProduct(t, "KB-1", 100)

	order, err := svc.Create(user.ID, []ItemInput{{ProductID: kb.ID, Quantity: 2}})
	require.NoError(t, err)

	order, err = svc.AddItem(user.ID, order.ID, ItemInput{ProductID: kb.ID, Quantity: 3})
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	assert.Equal(t, 5, order.Items[0].Quantity)
}

func TestAddItemNewProduct(t *testing.T) {
	setupDB(t)
	svc := NewOrderService()
	user := createUser(t, "alice@example.com", auth.RoleUser)
	kb := createProduct(t, "KB-1", 100)
	ms := createProduct(t, "MS-1", 40)

	order, err := svc.Create(user.ID, []ItemInput{{ProductID: kb.ID, Quantity: 1}})
	require.NoError(t, err)

	order, err = svc.AddItem(user.ID, order.ID, ItemInput{ProductID: ms.ID, Quantity: 2})
	require.NoError(t, err)

	require.Len(t, order.Items, 2)
	assert.Equal(t, 180.0, order.Total())
}

func TestOrderOwnership(t *testing.T) {
	setupDB(t)
	svc := NewOrderService()
	alice := createUser(t, "alice@example.com", auth.RoleUser)
	bob := createUser(t, "bob@example.com", auth.RoleUser)
	admin := createUser(t, "admin@example.com", auth.RoleAdmin)
	kb := createProduct(t, "KB-1", 100)

	order, err := svc.Create(alice.ID, []ItemInput{{ProductID: kb.ID, Quantity: 1}})
	require.NoError(t, err)
	itemID := order.Items[0].ID

	_, err = svc.Get(bob.ID, false, order.ID)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, err = svc.AddItem(bob.ID, order.ID, ItemInput{ProductID: kb.ID, Quantity: 1})
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, err = svc.UpdateItemQuantity(bob.ID, order.ID, itemID, 5)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, err = svc.RemoveItem(bob.ID, order.ID, itemID)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	// Admins may read any order, but not mutate someone else's.
	_, err = svc.Get(admin.ID, true, order.ID)
	assert.NoError(t, err)
}

func TestUpdateItemQuantity(t *testing.T) {
	setupDB(t)
	svc := NewOrderService()
	user := createUser(t, "alice@example.com", auth.RoleUser)
	kb := createProduct(t, "KB-1", 100)

	order, err := svc.Create(user.ID, []ItemInput{{ProductID: kb.ID, Quantity: 2}})
	require.NoError(t, err)
	itemID := order.Items[0].ID

	order, err = svc.UpdateItemQuantity(user.ID, order.ID, itemID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, order.Items[0].Quantity)

	_, err = svc.UpdateItemQuantity(user.ID, order.ID, itemID, 0)
	assert.Equal(t, apperr.KindInvalid, apperr.KindOf(err))

	_, err = svc.UpdateItemQuantity(user.ID, order.ID, 9999, 3)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestItemLookupIsScopedToOrder(t *testing.T) {
	setupDB(t)
	svc := NewOrderService()
	alice := createUser(t, "alice@example.com", auth.RoleUser)
	bob := createUser(t, "bob@example.com", auth.RoleUser)
	kb := createProduct(t, "KB-1", 100)

	aliceOrder, err := svc.Create(alice.ID, []ItemInput{{ProductID: kb.ID, Quantity: 1}})
	require.NoError(t, err)
	bobOrder, err := svc.Create(bob.ID, []ItemInput{{ProductID: kb.ID, Quantity: 1}})
	require.NoError(t, err)

	// Bob's item ID against Alice's order must not resolve.
	_, err = svc.UpdateItemQuantity(bob.ID, bobOrder.ID, aliceOrder.Items[0].ID, 5)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestRemoveItemKeepsNonEmptyOrder(t *testing.T) {
	setupDB(t)
	svc := NewOrderService()
	user := createUser(t, "alice@example.com", auth.RoleUser)
	kb := createProduct(t, "KB-1", 100)
	ms := createProduct(t, "MS-1", 40)

	order, err := svc.Create(user.ID, []ItemInput{
		{ProductID: kb.ID, Quantity: 1},
		{ProductID: ms.ID, Quantity: 1},
	})
	require.NoError(t, err)

	order, err = svc.RemoveItem(user.ID, order.ID, order.Items[0].ID)
	require.NoError(t, err)
	require.NotNil(t, order)
	require.Len(t, order.Items, 1)
	assert.Equal(t, ms.ID, order.Items[0].ProductID)
}

func TestRemoveLastItemDeletesOrder(t *testing.T) {
	setupDB(t)
	svc := NewOrderService()
	user := createUser(t, "alice@example.com", auth.RoleUser)
	kb := createProduct(t, "KB-1", 100)

	order, err := svc.Create(user.ID, []ItemInput{{ProductID: kb.ID, Quantity: 1}})
	require.NoError(t, err)

	gone, err := svc.RemoveItem(user.ID, order.ID, order.Items[0].ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	_, err = svc.Get(user.ID, false, order.ID)
	assert.True(t, apperr.IsNotFound(err))

	// The active slot is free again.
	_, err = svc.Create(user.ID, []ItemInput{{ProductID: kb.ID, Quantity: 1}})
	assert.NoError(t, err)
}

func TestRemoveThenReAddProduct(t *testing.T) {
	setupDB(t)
	svc := NewOrderService()
	user := createUser(t, "alice@example.com", auth.RoleUser)
	kb := createProduct(t, "KB-1", 100)
	ms := createProduct(t, "MS-1", 40)

	order, err := svc.Create(user.ID, []ItemInput{
		{ProductID: kb.ID, Quantity: 2},
		{ProductID: ms.ID, Quantity: 1},
	})
	require.NoError(t, err)

	order, err = svc.RemoveItem(user.ID, order.ID, order.Items[0].ID)
	require.NoError(t, err)

	// Re-adding a removed product creates a fresh line item.
	order, err = svc.AddItem(user.ID, order.ID, ItemInput{ProductID: kb.ID, Quantity: 4})
	require.NoError(t, err)
	require.Len(t, order.Items, 2)
}

func TestCompleteOrderRecordsPayment(t *testing.T) {
	setupDB(t)
	svc := NewOrderService()
	user := createUser(t, "alice@example.com", auth.RoleUser)
	kb := createProduct(t, "KB-1", 100)

	order, err := svc.Create(user.ID, []ItemInput{{ProductID: kb.ID, Quantity: 3}})
	require.NoError(t, err)

	order, err = svc.UpdateStatus(order.ID, models.OrderStatusComplete)
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusComplete, order.Status)
	require.NotNil(t, order.Payment)
	assert.Equal(t, 300.0, order.Payment.Amount)
}

func TestCompletedOrderIsImmutable(t *testing.T) {
	setupDB(t)
	svc := NewOrderService()
	user := createUser(t, "alice@example.com", auth.RoleUser)
	kb := createProduct(t, "KB-1", 100)

	order, err := svc.Create(user.ID, []ItemInput{{ProductID: kb.ID, Quantity: 1}})
	require.NoError(t, err)
	itemID := order.Items[0].ID

	_, err = svc.UpdateStatus(order.ID, models.OrderStatusComplete)
	require.NoError(t, err)

	_, err = svc.AddItem(user.ID, order.ID, ItemInput{ProductID: kb.ID, Quantity: 1})
	assert.True(t, apperr.IsConflict(err))

	_, err = svc.UpdateItemQuantity(user.ID, order.ID, itemID, 5)
	assert.True(t, apperr.IsConflict(err))

	_, err = svc.RemoveItem(user.ID, order.ID, itemID)
	assert.True(t, apperr.IsConflict(err))

	// No going back to active, and completing twice is a conflict too.
	_, err = svc.UpdateStatus(order.ID, models.OrderStatusActive)
	assert.True(t, apperr.IsConflict(err))

	_, err = svc.UpdateStatus(order.ID, models.OrderStatusComplete)
	assert.True(t, apperr.IsConflict(err))
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	setupDB(t)
	svc := NewOrderService()
	user := createUser(t, "alice@example.com", auth.RoleUser)
	kb := createProduct(t, "KB-1", 100)

	order, err := svc.Create(user.ID, []ItemInput{{ProductID: kb.ID, Quantity: 1}})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(order.ID, "shipped")
	assert.Equal(t, apperr.KindInvalid, apperr.KindOf(err))
}

func TestListForUser(t *testing.T) {
	setupDB(t)
	svc := NewOrderService()
	alice := createUser(t, "alice@example.com", auth.RoleUser)
	bob := createUser(t, "bob@example.com", auth.RoleUser)
	kb := createProduct(t, "KB-1", 100)

	first, err := svc.Create(alice.ID, []ItemInput{{ProductID: kb.ID, Quantity: 1}})
	require.NoError(t, err)
	_, err = svc.UpdateStatus(first.ID, models.OrderStatusComplete)
	require.NoError(t, err)
	_, err = svc.Create(alice.ID, []ItemInput{{ProductID: kb.ID, Quantity: 2}})
	require.NoError(t, err)
	_, err = svc.Create(bob.ID, []ItemInput{{ProductID: kb.ID, Quantity: 1}})
	require.NoError(t, err)

	orders, err := svc.ListForUser(alice.ID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	for _, o := range orders {
		assert.Equal(t, alice.ID, o.UserID)
	}
}

func TestActive(t *testing.T) {
	setupDB(t)
	svc := NewOrderService()
	user := createUser(t, "alice@example.com", auth.RoleUser)
	kb := createProduct(t, "KB-1", 100)

	_, err := svc.Active(user.ID)
	assert.True(t, apperr.IsNotFound(err))

	order, err := svc.Create(user.ID, []ItemInput{{ProductID: kb.ID, Quantity: 1}})
	require.NoError(t, err)

	active, err := svc.Active(user.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, active.ID)

	_, err = svc.UpdateStatus(order.ID, models.OrderStatusComplete)
	require.NoError(t, err)

	_, err = svc.Active(user.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestGetUnknownOrder(t *testing.T) {
	setupDB(t)
	svc := NewOrderService()
	user := createUser(t, "alice@example.com", auth.RoleUser)

	_, err := svc.Get(user.ID, false, 12345)
	assert.True(t, apperr.IsNotFound(err))
}
