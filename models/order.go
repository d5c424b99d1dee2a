package models

import "github.com/google/uuid"

type Order struct {
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"customer_id"`
	BagID      uuid.UUID `json:"bag_id"`
	Quantity   int       `json:"quantity"`
	TotalPrice float64   `json:"total_price"`
	Status     string    `json:"status"`
	PickupCode string    `json:"pickup_code"`
	CreatedAt  Timestamp `json:"created_at"`
}

// OrderRequest is the body sent to create an order
type OrderRequest struct {
	BagID    uuid.UUID `json:"bag_id"`
	Quantity int       `json:"quantity"`
}
