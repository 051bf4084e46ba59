package repositories

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/orm"
)

// OrderRepository is the data-access layer for orders and their line items.
//
// Every method takes a *orm.Query handle so the same code serves both plain
// reads (orm.DB()) and transaction-scoped work (orm.Tx(tx)). The lifecycle
// engine runs each mutating operation inside a single transaction.
type OrderRepository struct{}

func NewOrderRepository() *OrderRepository { return &OrderRepository{} }

// FindActiveForUser returns the user's active order, or gorm.ErrRecordNotFound.
func (r *OrderRepository) FindActiveForUser(q *orm.Query, userID uint) (*models.Order, error) {
	var order models.Order
	err := q.Where("user_id = ? AND status = ?", userID, models.OrderStatusActive).First(&order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByID loads the bare order row without associations.
func (r *OrderRepository) FindByID(q *orm.Query, id uint) (*models.Order, error) {
	var order models.Order
	if err := q.Where("id = ?", id).First(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

// FindWithDetails loads an order with its line items (and their products)
// and payment, items in insertion order.
func (r *OrderRepository) FindWithDetails(q *orm.Query, id uint) (*models.Order, error) {
	var order models.Order
	err := q.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_products.id ASC")
		}).
		Preload("Items.Product").
		Preload("Payment").
		Where("id = ?", id).
		First(&order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListForUser returns all of a user's orders with details, newest first.
func (r *OrderRepository) ListForUser(q *orm.Query, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := q.
		Preload("Items.Product").
		Preload("Payment").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Get(&orders)
	return orders, err
}

// FindItem loads a line item scoped to its order, so an item ID from a
// different order comes back as not found.
func (r *OrderRepository) FindItem(q *orm.Query, itemID, orderID uint) (*models.OrderProduct, error) {
	var item models.OrderProduct
	err := q.Where("id = ? AND order_id = ?", itemID, orderID).First(&item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindItemByProduct returns the line item for a product within an order,
// or gorm.ErrRecordNotFound when the product is not in the order yet.
func (r *OrderRepository) FindItemByProduct(q *orm.Query, orderID, productID uint) (*models.OrderProduct, error) {
	var item models.OrderProduct
	err := q.Where("order_id = ? AND product_id = ?", orderID, productID).First(&item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CountItems returns the number of line items left on an order.
func (r *OrderRepository) CountItems(q *orm.Query, orderID uint) (int64, error) {
	var n int64
	err := q.Model(&models.OrderProduct{}).Where("order_id = ?", orderID).Count(&n)
	return n, err
}

func (r *OrderRepository) Create(q *orm.Query, order *models.Order) error {
	return q.Create(order)
}

func (r *OrderRepository) Save(q *orm.Query, order *models.Order) error {
	return q.Save(order)
}

func (r *OrderRepository) CreateItem(q *orm.Query, item *models.OrderProduct) error {
	return q.Create(item)
}

func (r *OrderRepository) SaveItem(q *orm.Query, item *models.OrderProduct) error {
	return q.Save(item)
}

func (r *OrderRepository) DeleteItem(q *orm.Query, item *models.OrderProduct) error {
	return q.Delete(item)
}

// DeleteOrder removes the order row; line items cascade.
func (r *OrderRepository) DeleteOrder(q *orm.Query, order *models.Order) error {
	return q.Delete(order)
}

func (r *OrderRepository) CreatePayment(q *orm.Query, payment *models.Payment) error {
	return q.Create(payment)
}
