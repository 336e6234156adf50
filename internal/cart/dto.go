package cart

import (
	"github.com/google/uuid"
)

// AddToCartRequest stages one sized line for the authenticated buyer.
type AddToCartRequest struct {
	ProductID  uuid.UUID `json:"product_id" validate:"required"`
	Quantity   int       `json:"quantity" validate:"required,min=1"`
	Size       string    `json:"size" validate:"omitempty"`
	PickupDate *string   `json:"pickup_date" validate:"omitempty"`
}

// UpdateCartEntryRequest mutates quantity, size or pickup date on an owned entry.
type UpdateCartEntryRequest struct {
	Quantity   *int    `json:"quantity" validate:"omitempty,min=1"`
	Size       *string `json:"size"`
	PickupDate *string `json:"pickup_date"`
}
