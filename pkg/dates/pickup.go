// Package dates holds the calendar rules shared by cart admission and order
// approval.
package dates

import "github.com/marisolvega/threadmarket-backend/pkg/types"

const (
	// PickupWindowDays bounds how far ahead a buyer may request pickup.
	PickupWindowDays = 30
	// ApprovalLeadDays is the fallback pickup offset assigned at approval when
	// the buyer never chose a date.
	ApprovalLeadDays = 3
)

// IsValidPickupDate reports whether date falls inside the buyer-facing pickup
// window: today through today+30 days, both ends inclusive, at day granularity.
func IsValidPickupDate(date, today types.Date) bool {
	if date.Before(today) {
		return false
	}
	return !date.After(today.AddDays(PickupWindowDays))
}

// ApprovalPickupDate returns the system-assigned pickup date used when a seller
// approves an order that has no buyer-selected date. The assignment bypasses
// the buyer window check because it is never buyer input.
func ApprovalPickupDate(today types.Date) types.Date {
	return today.AddDays(ApprovalLeadDays)
}
