package domain

import "time"

type OrderPlacedEvent struct {
	EventID      string    `json:"event_id"`
	OrderID      int64     `json:"order_id"`
	CustomerID   int64     `json:"customer_id"`
	ProductID    int64     `json:"product_id"`
	Quantity     int       `json:"quantity"`
	DeliveryDate time.Time `json:"delivery_date"`
	Timestamp    time.Time `json:"timestamp"`
}

type OrderCancelledEvent struct {
	EventID   string    `json:"event_id"`
	OrderID   int64     `json:"order_id"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}
