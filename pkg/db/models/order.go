package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/marisolvega/threadmarket-backend/pkg/enums"
	"github.com/marisolvega/threadmarket-backend/pkg/types"
)

// Order is one fulfillment request produced from a single cart entry at
// checkout. Customer (buyer email), product name and created_at are immutable
// after creation; everything else moves with the state machine.
type Order struct {
	ID                uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Customer          string            `gorm:"column:customer;not null"`
	SellerID          uuid.UUID         `gorm:"column:seller_id;type:uuid;not null"`
	ProductName       string            `gorm:"column:product;not null"`
	Quantity          int               `gorm:"column:quantity;not null"`
	Size              enums.Size        `gorm:"column:size;type:text;not null;default:'M'"`
	Status            enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	PickupDate        *types.Date       `gorm:"column:pickup_date;type:date"`
	Remarks           *string           `gorm:"column:remarks"`
	ORNumber          *string           `gorm:"column:or_number"`
	CompletionRemarks *string           `gorm:"column:completion_remarks"`
	SourceCartEntryID *uuid.UUID        `gorm:"column:source_cart_entry_id;type:uuid;uniqueIndex"`
	CreatedAt         time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
