package fulfillment

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marisolvega/threadmarket-backend/pkg/db/models"
	"github.com/marisolvega/threadmarket-backend/pkg/enums"
	"github.com/marisolvega/threadmarket-backend/pkg/pagination"
)

// Repository defines persistence operations for orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindBySourceCartEntry(ctx context.Context, cartEntryID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error)
	// TransitionStatus sets the new status plus extra columns in a single
	// conditional update guarded by the current status. The bool reports
	// whether the guarded row was matched; false means another transition won.
	TransitionStatus(ctx context.Context, orderID uuid.UUID, from, to enums.OrderStatus, updates map[string]any) (bool, error)
	// UpdateGuarded applies non-status columns only when the order currently
	// holds requiredStatus.
	UpdateGuarded(ctx context.Context, orderID uuid.UUID, requiredStatus enums.OrderStatus, updates map[string]any) (bool, error)
}
