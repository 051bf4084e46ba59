package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazaar/app/jobs"
	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/pkg/apperr"
	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"github.com/shashiranjanraj/bazaar/pkg/metrics"
	"github.com/shashiranjanraj/bazaar/pkg/orm"
	"github.com/shashiranjanraj/bazaar/pkg/queue"
)

// OrderService is the order lifecycle engine.
//
// It owns the state machine of an order (active → complete) and the rules
// around it: a user holds at most one active order, line items for the same
// product merge instead of duplicating, removing the last item deletes the
// order, and a completed order can never be changed again.
//
// Every mutating operation runs inside a single database transaction, so
// concurrent requests observe either all of its effects or none.
type OrderService struct {
	orders   *repositories.OrderRepository
	products *repositories.ProductRepository
}

func NewOrderService() *OrderService {
	return &OrderService{
		orders:   repositories.NewOrderRepository(),
		products: repositories.NewProductRepository(),
	}
}

// ItemInput is one requested line item.
type ItemInput struct {
	ProductID uint `json:"product_id" validate:"required,integer,gte=1"`
	Quantity  int  `json:"quantity" validate:"required,integer,gte=1"`
}

// ── Reads ────────────────────────────────────────────────────────────────────

// ListForUser returns all of the user's orders, newest first, with line
// items, products and payment loaded.
func (s *OrderService) ListForUser(userID uint) ([]models.Order, error) {
	orders, err := s.orders.ListForUser(orm.DB(), userID)
	if err != nil {
		return nil, apperr.Internal("could not list orders", err)
	}
	return orders, nil
}

// Get returns one order with full details. Only the owner (or an admin)
// may view it.
func (s *OrderService) Get(userID uint, isAdmin bool, orderID uint) (*models.Order, error) {
	order, err := s.orders.FindWithDetails(orm.DB(), orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order not found")
		}
		return nil, apperr.Internal("could not load order", err)
	}
	if order.UserID != userID && !isAdmin {
		return nil, apperr.Forbidden("you do not own this order")
	}
	return order, nil
}

// Active returns the user's current active order, or a not-found error
// when the user has no open cart.
func (s *OrderService) Active(userID uint) (*models.Order, error) {
	order, err := s.orders.FindActiveForUser(orm.DB(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("no active order")
		}
		return nil, apperr.Internal("could not load active order", err)
	}
	return s.Get(userID, false, order.ID)
}

// ── Create ───────────────────────────────────────────────────────────────────

// Create opens a new active order for the user with the given items.
//
// The item list must be non-empty and every quantity at least 1. Duplicate
// product IDs in the request merge into one line item. If the user already
// has an active order the call fails with a conflict; the partial unique
// index on orders(user_id) backs this up under concurrency, so a duplicate-
// key error from the insert is reported as the same conflict.
func (s *OrderService) Create(userID uint, items []ItemInput) (*models.Order, error) {
	merged, err := mergeItems(items)
	if err != nil {
		return nil, err
	}

	var created *models.Order
	err = orm.Transaction(func(tx *gorm.DB) error {
		q := orm.Tx(tx)

		if _, err := s.orders.FindActiveForUser(q, userID); err == nil {
			metrics.ActiveOrderConflicts.Inc()
			return apperr.Conflict("user already has an active order")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Internal("could not check active order", err)
		}

		snapshots, err := s.snapshotPrices(q, merged)
		if err != nil {
			return err
		}

		order := &models.Order{
			UserID: userID,
			Status: models.OrderStatusActive,
			Items:  snapshots,
		}
		if err := s.orders.Create(q, order); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				metrics.ActiveOrderConflicts.Inc()
				return apperr.Conflict("user already has an active order")
			}
			return apperr.Internal("could not create order", err)
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.OrdersCreated.Inc()
	logger.Info("order created", "order_id", created.ID, "user_id", userID, "items", len(created.Items))
	return s.Get(userID, false, created.ID)
}

// ── Item mutations ───────────────────────────────────────────────────────────

// AddItem adds a product to an active order. If the product is already in
// the order, the quantities merge instead of creating a second line item.
func (s *OrderService) AddItem(userID, orderID uint, in ItemInput) (*models.Order, error) {
	if in.Quantity < 1 {
		return nil, apperr.Invalid("quantity must be at least 1")
	}

	err := orm.Transaction(func(tx *gorm.DB) error {
		q := orm.Tx(tx)

		order, err := s.mutableOrder(q, userID, orderID)
		if err != nil {
			return err
		}

		var product models.Product
		if err := q.Where("id = ?", in.ProductID).First(&product); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("product not found")
			}
			return apperr.Internal("could not load product", err)
		}

		item, err := s.orders.FindItemByProduct(q, order.ID, in.ProductID)
		switch {
		case err == nil:
			item.Quantity += in.Quantity
			if err := s.orders.SaveItem(q, item); err != nil {
				return apperr.Internal("could not update line item", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = &models.OrderProduct{
				OrderID:   order.ID,
				ProductID: product.ID,
				Quantity:  in.Quantity,
				Price:     product.Price,
			}
			if err := s.orders.CreateItem(q, item); err != nil {
				return apperr.Internal("could not add line item", err)
			}
		default:
			return apperr.Internal("could not look up line item", err)
		}

		return s.touch(q, order)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(userID, false, orderID)
}

// UpdateItemQuantity sets a line item's quantity to an absolute value.
// Quantities below 1 are rejected; use RemoveItem to drop an item.
func (s *OrderService) UpdateItemQuantity(userID, orderID, itemID uint, quantity int) (*models.Order, error) {
	if quantity < 1 {
		return nil, apperr.Invalid("quantity must be at least 1")
	}

	err := orm.Transaction(func(tx *gorm.DB) error {
		q := orm.Tx(tx)

		order, err := s.mutableOrder(q, userID, orderID)
		if err != nil {
			return err
		}

		item, err := s.orders.FindItem(q, itemID, order.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("line item not found")
			}
			return apperr.Internal("could not load line item", err)
		}

		item.Quantity = quantity
		if err := s.orders.SaveItem(q, item); err != nil {
			return apperr.Internal("could not update line item", err)
		}

		return s.touch(q, order)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(userID, false, orderID)
}

// RemoveItem deletes a line item. When the removed item was the last one,
// the now-empty order is deleted in the same transaction and RemoveItem
// returns (nil, nil) to signal that the order is gone.
func (s *OrderService) RemoveItem(userID, orderID, itemID uint) (*models.Order, error) {
	orderDeleted := false

	err := orm.Transaction(func(tx *gorm.DB) error {
		q := orm.Tx(tx)

		order, err := s.mutableOrder(q, userID, orderID)
		if err != nil {
			return err
		}

		item, err := s.orders.FindItem(q, itemID, order.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("line item not found")
			}
			return apperr.Internal("could not load line item", err)
		}

		if err := s.orders.DeleteItem(q, item); err != nil {
			return apperr.Internal("could not remove line item", err)
		}

		left, err := s.orders.CountItems(q, order.ID)
		if err != nil {
			return apperr.Internal("could not count line items", err)
		}
		if left == 0 {
			if err := s.orders.DeleteOrder(q, order); err != nil {
				return apperr.Internal("could not delete empty order", err)
			}
			orderDeleted = true
			return nil
		}

		return s.touch(q, order)
	})
	if err != nil {
		return nil, err
	}

	if orderDeleted {
		metrics.OrdersAutoDeleted.Inc()
		logger.Info("order auto-deleted", "order_id", orderID, "user_id", userID)
		return nil, nil
	}
	return s.Get(userID, false, orderID)
}

// ── Status transition ────────────────────────────────────────────────────────

// UpdateStatus moves an order to the given status. Ownership is not
// checked here; the route restricts the operation to administrators. The
// only legal transition is active → complete; everything else is a
// conflict. On completion a payment row is recorded for the order total
// and a background job is dispatched.
func (s *OrderService) UpdateStatus(orderID uint, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, apperr.Invalid(fmt.Sprintf("unknown status %q", status))
	}

	var total float64
	var ownerID uint
	err := orm.Transaction(func(tx *gorm.DB) error {
		q := orm.Tx(tx)

		order, err := s.orders.FindByID(q, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("order not found")
			}
			return apperr.Internal("could not load order", err)
		}
		ownerID = order.UserID

		if order.Status == status {
			return apperr.Conflict(fmt.Sprintf("order is already %s", status))
		}
		if order.IsComplete() {
			return apperr.Conflict("completed orders cannot be modified")
		}

		full, err := s.orders.FindWithDetails(q, order.ID)
		if err != nil {
			return apperr.Internal("could not load order items", err)
		}
		total = full.Total()

		order.Status = models.OrderStatusComplete
		if err := s.orders.Save(q, order); err != nil {
			return apperr.Internal("could not update order", err)
		}

		payment := &models.Payment{
			OrderID: order.ID,
			Amount:  total,
			Method:  "card",
		}
		if err := s.orders.CreatePayment(q, payment); err != nil {
			return apperr.Internal("could not record payment", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.OrdersCompleted.Inc()
	if err := queue.Dispatch(&jobs.OrderCompletedJob{OrderID: orderID, UserID: ownerID, Total: total}); err != nil {
		logger.Warn("could not dispatch completion job", "order_id", orderID, "error", err)
	}

	return s.Get(ownerID, false, orderID)
}

// ── Helpers ──────────────────────────────────────────────────────────────────

// mutableOrder loads an order and checks it can be changed by userID:
// it must exist, belong to the user and still be active.
func (s *OrderService) mutableOrder(q *orm.Query, userID, orderID uint) (*models.Order, error) {
	order, err := s.orders.FindByID(q, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order not found")
		}
		return nil, apperr.Internal("could not load order", err)
	}
	if order.UserID != userID {
		return nil, apperr.Forbidden("you do not own this order")
	}
	if order.IsComplete() {
		return nil, apperr.Conflict("completed orders cannot be modified")
	}
	return order, nil
}

// touch bumps the order's updated_at so item-level edits are visible on
// the parent row.
func (s *OrderService) touch(q *orm.Query, order *models.Order) error {
	if err := s.orders.Save(q, order); err != nil {
		return apperr.Internal("could not update order", err)
	}
	return nil
}

// mergeItems validates the requested items and merges duplicate product
// IDs by summing their quantities, keeping first-seen order.
func mergeItems(items []ItemInput) ([]models.OrderProduct, error) {
	if len(items) == 0 {
		return nil, apperr.Invalid("order must contain at least one item")
	}

	index := make(map[uint]int, len(items))
	merged := make([]models.OrderProduct, 0, len(items))
	for _, in := range items {
		if in.ProductID == 0 {
			return nil, apperr.Invalid("product_id is required")
		}
		if in.Quantity < 1 {
			return nil, apperr.Invalid("quantity must be at least 1")
		}
		if i, ok := index[in.ProductID]; ok {
			merged[i].Quantity += in.Quantity
			continue
		}
		index[in.ProductID] = len(merged)
		merged = append(merged, models.OrderProduct{ProductID: in.ProductID, Quantity: in.Quantity})
	}
	return merged, nil
}

// snapshotPrices resolves every product through q and stamps its current
// unit price onto the line item. It runs inside the caller's transaction so
// the snapshot and the insert see the same catalogue state. Unknown products
// fail the whole request.
func (s *OrderService) snapshotPrices(q *orm.Query, items []models.OrderProduct) ([]models.OrderProduct, error) {
	ids := make([]uint, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}

	products, err := s.products.FindByIDs(q, ids)
	if err != nil {
		return nil, apperr.Internal("could not load products", err)
	}
	prices := make(map[uint]float64, len(products))
	for _, p := range products {
		prices[p.ID] = p.Price
	}

	for i := range items {
		price, ok := prices[items[i].ProductID]
		if !ok {
			return nil, apperr.NotFound(fmt.Sprintf("product %d not found", items[i].ProductID))
		}
		items[i].Price = price
	}
	return items, nil
}
