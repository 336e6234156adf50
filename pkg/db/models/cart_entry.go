package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/marisolvega/threadmarket-backend/pkg/enums"
	"github.com/marisolvega/threadmarket-backend/pkg/types"
)

// CartEntry stages one sized line for a buyer ahead of checkout.
type CartEntry struct {
	ID         uuid.UUID   `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID   `gorm:"column:user_id;type:uuid;not null"`
	ProductID  uuid.UUID   `gorm:"column:product_id;type:uuid;not null"`
	Quantity   int         `gorm:"column:quantity;not null"`
	Size       enums.Size  `gorm:"column:size;type:text;not null;default:'M'"`
	PickupDate *types.Date `gorm:"column:pickup_date;type:date"`
	Product    *Product    `gorm:"foreignKey:ProductID"`
	CreatedAt  time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}
