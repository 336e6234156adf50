package fulfillment

import (
	"github.com/google/uuid"

	"github.com/marisolvega/threadmarket-backend/pkg/db/models"
	"github.com/marisolvega/threadmarket-backend/pkg/enums"
	"github.com/marisolvega/threadmarket-backend/pkg/pagination"
	"github.com/marisolvega/threadmarket-backend/pkg/types"
)

// ListFilters restricts the order listing.
type ListFilters struct {
	Customer *string
	SellerID *uuid.UUID
	Status   *enums.OrderStatus
}

// OrderList is one page of orders plus the cursor for the next one.
type OrderList struct {
	Orders []models.Order
	Page   pagination.Page
}

// OrderView is an order enriched with denormalized buyer contact fields.
type OrderView struct {
	models.Order
	BuyerName  string  `json:"buyer_name"`
	BuyerPhone *string `json:"buyer_phone"`
}

// OrderViewList is the enriched page handed to controllers.
type OrderViewList struct {
	Orders     []OrderView `json:"orders"`
	NextCursor string      `json:"next_cursor,omitempty"`
	HasMore    bool        `json:"has_more"`
}

// TransitionResult reports the outcome of a state change.
type TransitionResult struct {
	OrderID    uuid.UUID         `json:"order_id"`
	Status     enums.OrderStatus `json:"status"`
	PickupDate *types.Date       `json:"pickup_date,omitempty"`
	ORNumber   *string           `json:"or_number,omitempty"`
}

// DeclineRequest carries the seller's decline rationale.
type DeclineRequest struct {
	Remarks string `json:"remarks" validate:"required,min=1,max=500"`
}

// ConfirmPickupRequest carries the buyer confirmation payload.
type ConfirmPickupRequest struct {
	ORNumber *string `json:"or_number" validate:"omitempty,max=100"`
}

// CompletionRemarksRequest carries the post-completion note.
type CompletionRemarksRequest struct {
	Remarks string `json:"remarks" validate:"required,min=1"`
}
