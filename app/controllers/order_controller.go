package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/pkg/bind"
	"github.com/shashiranjanraj/bazaar/pkg/middleware"
	"github.com/shashiranjanraj/bazaar/pkg/response"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController() *OrderController {
	return &OrderController{orders: services.NewOrderService()}
}

type createOrderRequest struct {
	Items []services.ItemInput `json:"items"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,integer,gte=1"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,in=active,complete"`
}

// Index handles GET /api/orders — the caller's open cart plus history,
// split into the active order (nil when none) and completed orders.
func (c *OrderController) Index(w http.ResponseWriter, r *http.Request) {
	orders, err := c.orders.ListForUser(middleware.CurrentUserID(r.Context()))
	if err != nil {
		response.Err(w, err)
		return
	}

	var active *models.Order
	completed := make([]models.Order, 0, len(orders))
	for i := range orders {
		if orders[i].Status == models.OrderStatusActive {
			active = &orders[i]
			continue
		}
		completed = append(completed, orders[i])
	}
	response.Success(w, map[string]interface{}{
		"active_order":     active,
		"completed_orders": completed,
	})
}

// Active handles GET /api/orders/active — the caller's open cart.
func (c *OrderController) Active(w http.ResponseWriter, r *http.Request) {
	order, err := c.orders.Active(middleware.CurrentUserID(r.Context()))
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Success(w, order)
}

// Show handles GET /api/orders/{id}.
func (c *OrderController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := bind.UintParam(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid order id")
		return
	}

	claims := middleware.CurrentClaims(r.Context())
	order, err := c.orders.Get(claims.UserID, claims.IsAdmin(), id)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Success(w, order)
}

// Store handles POST /api/orders — open a new active order.
func (c *OrderController) Store(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.orders.Create(middleware.CurrentUserID(r.Context()), req.Items)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Created(w, order)
}

// AddItem handles POST /api/orders/{id}/items.
func (c *OrderController) AddItem(w http.ResponseWriter, r *http.Request) {
	id, err := bind.UintParam(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var in services.ItemInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.orders.AddItem(middleware.CurrentUserID(r.Context()), id, in)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Success(w, order)
}

// UpdateItem handles PATCH /api/orders/{id}/items/{itemID}.
func (c *OrderController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	orderID, itemID, ok := c.itemParams(w, r)
	if !ok {
		return
	}

	var req updateQuantityRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.orders.UpdateItemQuantity(middleware.CurrentUserID(r.Context()), orderID, itemID, req.Quantity)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Success(w, order)
}

// RemoveItem handles DELETE /api/orders/{id}/items/{itemID}. When the last
// item goes, the order goes with it and the response says so.
func (c *OrderController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	orderID, itemID, ok := c.itemParams(w, r)
	if !ok {
		return
	}

	order, err := c.orders.RemoveItem(middleware.CurrentUserID(r.Context()), orderID, itemID)
	if err != nil {
		response.Err(w, err)
		return
	}
	if order == nil {
		response.Success(w, map[string]interface{}{"order": nil, "message": "order deleted"})
		return
	}
	response.Success(w, order)
}

// UpdateStatus handles PATCH /api/orders/{id} (admin).
func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := bind.UintParam(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req updateStatusRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.orders.UpdateStatus(id, models.OrderStatus(req.Status))
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Success(w, order)
}

func (c *OrderController) itemParams(w http.ResponseWriter, r *http.Request) (orderID, itemID uint, ok bool) {
	orderID, err := bind.UintParam(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid order id")
		return 0, 0, false
	}
	itemID, err = bind.UintParam(chi.URLParam(r, "itemID"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid item id")
		return 0, 0, false
	}
	return orderID, itemID, true
}
