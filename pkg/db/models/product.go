package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/marisolvega/threadmarket-backend/pkg/types"
)

// Product is a seller listing with a per-size stock ledger. The ledger is a
// display quantity maintained by the seller; orders never debit it.
type Product struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SellerID       uuid.UUID            `gorm:"column:seller_id;type:uuid;not null"`
	Name           string               `gorm:"column:name;not null"`
	Description    *string              `gorm:"column:description"`
	Price          decimal.Decimal      `gorm:"column:price;type:numeric(10,2);not null"`
	AvailableSizes pq.StringArray       `gorm:"column:available_sizes;type:text[];not null;default:ARRAY[]::text[]"`
	SizeQuantities types.SizeQuantities `gorm:"column:size_quantities;type:jsonb;serializer:json"`
	Quantity       int                  `gorm:"column:quantity;not null;default:0"`
	IsActive       bool                 `gorm:"column:is_active;not null;default:true"`
	CartEntries    []CartEntry          `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
