package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID           int64       `json:"id"`
	CustomerID   int64       `json:"customer_id"`
	ProductID    int64       `json:"product_id"`
	Status       OrderStatus `json:"status"`
	OrderDate    time.Time   `json:"order_date"`
	DeliveryDate time.Time   `json:"delivery_date"`
	CancelReason *string     `json:"cancel_reason,omitempty"`
}

// CanTransition reports whether an order may move between two statuses.
// Pending orders ship or cancel, shipped orders deliver; cancelled and
// delivered are terminal.
func CanTransition(from, to OrderStatus) bool {
	switch from {
	case OrderStatusPending:
		return to == OrderStatusShipped || to == OrderStatusCancelled
	case OrderStatusShipped:
		return to == OrderStatusDelivered
	default:
		return false
	}
}

func CanCancel(status OrderStatus) bool {
	return CanTransition(status, OrderStatusCancelled)
}
