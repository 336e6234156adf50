package products

import (
	"github.com/shopspring/decimal"
)

// CreateProductRequest is the seller payload for a new listing.
type CreateProductRequest struct {
	Name           string         `json:"name" validate:"required,min=1,max=200"`
	Description    *string        `json:"description" validate:"omitempty,max=2000"`
	Price          string         `json:"price" validate:"required"`
	AvailableSizes []string       `json:"available_sizes" validate:"required,min=1,dive,required"`
	SizeQuantities map[string]int `json:"size_quantities"`
}

// UpdateProductRequest carries partial updates to a listing.
type UpdateProductRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Price       *string `json:"price"`
	IsActive    *bool   `json:"is_active"`
}

// ReplaceLedgerRequest replaces the full size ledger in one call.
type ReplaceLedgerRequest struct {
	SizeQuantities map[string]int `json:"size_quantities" validate:"required"`
}

// parsedPrice converts the request's string price into a decimal, rejecting
// non-positive values at the service layer.
func parsedPrice(raw string) (decimal.Decimal, bool) {
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	if !price.IsPositive() {
		return decimal.Zero, false
	}
	return price, true
}
