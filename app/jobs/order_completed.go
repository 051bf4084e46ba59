// Package jobs holds the background jobs dispatched by the services.
// Each job registers itself with the queue in Register, called once at boot.
package jobs

import (
	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"github.com/shashiranjanraj/bazaar/pkg/queue"
)

// Register wires every job type into the queue so workers can decode them.
func Register() {
	queue.Register("order.completed", func() queue.Job { return &OrderCompletedJob{} })
}

// OrderCompletedJob runs after an order transitions to complete. It is the
// hook for receipts, fulfilment pushes and the like; today it records the
// completion in the structured log.
type OrderCompletedJob struct {
	OrderID uint    `json:"order_id"`
	UserID  uint    `json:"user_id"`
	Total   float64 `json:"total"`
}

func (j *OrderCompletedJob) JobName() string { return "order.completed" }

func (j *OrderCompletedJob) Handle() error {
	logger.Info("order completed",
		"order_id", j.OrderID,
		"user_id", j.UserID,
		"total", j.Total,
	)
	return nil
}
