package checkout

import (
	"github.com/google/uuid"
)

// CheckoutRequest names the cart entries to convert into orders.
type CheckoutRequest struct {
	CartEntryIDs []uuid.UUID `json:"cart_entry_ids" validate:"required,min=1"`
}

// EntryFailure describes one cart entry that did not become an order.
type EntryFailure struct {
	CartEntryID uuid.UUID `json:"cart_entry_id"`
	Code        string    `json:"code"`
	Message     string    `json:"message"`
}

// CheckoutResult reports which entries produced orders and which failed.
// Entries are converted independently; a failure never rolls back orders
// created earlier in the same batch.
type CheckoutResult struct {
	CreatedOrderIDs []uuid.UUID    `json:"created_order_ids"`
	Failures        []EntryFailure `json:"failures,omitempty"`
}
