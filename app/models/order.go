package models

import "time"

// OrderStatus is the lifecycle state of an order. An order is a cart while
// active and becomes immutable once complete.
type OrderStatus string

const (
	OrderStatusActive   OrderStatus = "active"
	OrderStatusComplete OrderStatus = "complete"
)

// Valid reports whether s is a known status value.
func (s OrderStatus) Valid() bool {
	return s == OrderStatusActive || s == OrderStatusComplete
}

// Order is a user's cart (status "active") or a finished purchase
// (status "complete"). A user holds at most one active order at a time;
// the partial unique index on (user_id) WHERE status = 'active' enforces
// this at the database level.
//
// Orders use explicit columns instead of gorm.Model: line items are
// hard-deleted so the unique (order_id, product_id) index stays honest
// when a product is removed and re-added.
type Order struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	UserID    uint        `gorm:"not null;index" json:"user_id"`
	Status    OrderStatus `gorm:"type:varchar(20);not null;default:active;index" json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`

	User    *User          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Items   []OrderProduct `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Payment *Payment       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"payment,omitempty"`
}

func (Order) TableName() string { return "orders" }

// OrderProduct is a line item. At most one row exists per
// (order_id, product_id); adding the same product again merges quantities.
// Price snapshots the product's unit price at the time the item was added.
type OrderProduct struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;uniqueIndex:uq_order_product" json:"order_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:uq_order_product" json:"product_id"`
	Quantity  int       `gorm:"not null;check:quantity > 0" json:"quantity"`
	Price     float64   `gorm:"not null" json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (OrderProduct) TableName() string { return "order_products" }

// Subtotal is quantity times the snapshotted unit price.
func (p OrderProduct) Subtotal() float64 { return float64(p.Quantity) * p.Price }

// Payment records the settlement of a completed order.
type Payment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;uniqueIndex" json:"order_id"`
	Amount    float64   `gorm:"not null" json:"amount"`
	Method    string    `gorm:"size:50;not null;default:card" json:"method"`
	Reference string    `gorm:"size:100" json:"reference,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Payment) TableName() string { return "payments" }

// Total sums the subtotals of all loaded line items.
func (o Order) Total() float64 {
	var total float64
	for _, it := range o.Items {
		total += it.Subtotal()
	}
	return total
}

// IsComplete reports whether the order has been finalised.
func (o Order) IsComplete() bool { return o.Status == OrderStatusComplete }
