package models

import "github.com/google/uuid"

// Bag is a surprise bag as listed by the backend
type Bag struct {
	ID                uuid.UUID `json:"id"`
	BusinessID        uuid.UUID `json:"business_id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	ImageURLs         []string  `json:"image_urls"`
	OriginalPrice     float64   `json:"original_price"`
	DiscountPrice     float64   `json:"discount_price"`
	QuantityAvailable int       `json:"quantity_available"`
	QuantitySold      int       `json:"quantity_sold"`
	PickupStart       Timestamp `json:"pickup_start"`
	PickupEnd         Timestamp `json:"pickup_end"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         Timestamp `json:"created_at"`
}

// Savings is the difference between the original and the discounted price.
func (b Bag) Savings() float64 {
	return b.OriginalPrice - b.DiscountPrice
}

// CoverImage returns the first image url, or the fallback when the bag has none.
func (b Bag) CoverImage(fallback string) string {
	if len(b.ImageURLs) == 0 || b.ImageURLs[0] == "" {
		return fallback
	}
	return b.ImageURLs[0]
}
