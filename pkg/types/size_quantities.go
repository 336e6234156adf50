package types

import "github.com/marisolvega/threadmarket-backend/pkg/enums"

// SizeQuantities is the seller-maintained stock ledger keyed by size label.
type SizeQuantities map[enums.Size]int

// Total sums the per-size quantities.
func (q SizeQuantities) Total() int {
	total := 0
	for _, qty := range q {
		total += qty
	}
	return total
}

// QuantityFor returns the stock recorded for the given size.
func (q SizeQuantities) QuantityFor(size enums.Size) int {
	return q[size]
}
