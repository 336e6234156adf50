package dates

import (
	"testing"

	"github.com/marisolvega/threadmarket-backend/pkg/types"
)

func mustDate(t *testing.T, value string) types.Date {
	t.Helper()
	d, err := types.ParseDate(value)
	if err != nil {
		t.Fatalf("parse %s: %v", value, err)
	}
	return d
}

func TestIsValidPickupDateBounds(t *testing.T) {
	today := mustDate(t, "2025-02-10")

	tests := []struct {
		date string
		want bool
	}{
		{"2025-02-10", true},  // today
		{"2025-03-12", true},  // today + 30
		{"2025-02-09", false}, // yesterday
		{"2025-03-13", false}, // today + 31
		{"2025-02-20", true},
	}

	for _, tt := range tests {
		if got := IsValidPickupDate(mustDate(t, tt.date), today); got != tt.want {
			t.Fatalf("IsValidPickupDate(%s) = %v, want %v", tt.date, got, tt.want)
		}
	}
}

func TestApprovalPickupDate(t *testing.T) {
	today := mustDate(t, "2025-02-10")
	if got := ApprovalPickupDate(today); got.String() != "2025-02-13" {
		t.Fatalf("expected 2025-02-13, got %s", got)
	}
}

func TestWindowCrossesMonthBoundary(t *testing.T) {
	today := mustDate(t, "2025-01-31")
	if !IsValidPickupDate(mustDate(t, "2025-03-02"), today) {
		t.Fatalf("2025-03-02 is day 30 and must be accepted")
	}
	if IsValidPickupDate(mustDate(t, "2025-03-03"), today) {
		t.Fatalf("2025-03-03 is day 31 and must be rejected")
	}
}
