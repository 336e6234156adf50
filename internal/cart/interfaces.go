package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marisolvega/threadmarket-backend/pkg/db/models"
	"github.com/marisolvega/threadmarket-backend/pkg/enums"
)

// Repository defines persistence operations for buyer carts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *models.CartEntry) (*models.CartEntry, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.CartEntry, error)
	FindByBuyerProductSize(ctx context.Context, userID, productID uuid.UUID, size enums.Size) (*models.CartEntry, error)
	ListByBuyer(ctx context.Context, userID uuid.UUID) ([]models.CartEntry, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.CartEntry, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}
