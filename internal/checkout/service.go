package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/marisolvega/threadmarket-backend/pkg/db"
	"github.com/marisolvega/threadmarket-backend/pkg/db/models"
	"github.com/marisolvega/threadmarket-backend/pkg/enums"
	pkgerrors "github.com/marisolvega/threadmarket-backend/pkg/errors"
	"github.com/marisolvega/threadmarket-backend/pkg/logger"
)

// Service converts a buyer's cart entries into pending orders.
type Service interface {
	Checkout(ctx context.Context, buyerID uuid.UUID, buyerEmail string, req CheckoutRequest) (*CheckoutResult, error)
}

type cartReader interface {
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.CartEntry, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type orderWriter interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindBySourceCartEntry(ctx context.Context, cartEntryID uuid.UUID) (*models.Order, error)
}

type service struct {
	cart   cartReader
	orders orderWriter
	log    *logger.Logger
}

// ServiceParams bundles the checkout service dependencies.
type ServiceParams struct {
	Cart   cartReader
	Orders orderWriter
	Logger *logger.Logger
}

// NewService constructs a checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.Cart == nil {
		return nil, fmt.Errorf("cart reader required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order writer required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		cart:   params.Cart,
		orders: params.Orders,
		log:    params.Logger,
	}, nil
}

// Checkout processes every named entry as its own unit of work. Each
// successful entry yields one pending order keyed on the cart entry id, which
// makes retries idempotent: a rerun finds the existing order instead of
// creating a second one. Consumed cart entries are deleted afterwards;
// deletion failures are logged but never undo created orders.
func (s *service) Checkout(ctx context.Context, buyerID uuid.UUID, buyerEmail string, req CheckoutRequest) (*CheckoutResult, error) {
	if buyerID == uuid.Nil || buyerEmail == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "buyer identity missing")
	}
	if len(req.CartEntryIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no cart entries supplied").
			WithDetails(map[string]string{"field": "cart_entry_ids"})
	}

	entries, err := s.cart.ListByIDs(ctx, req.CartEntryIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "load cart entries")
	}
	entriesByID := make(map[uuid.UUID]models.CartEntry, len(entries))
	for _, entry := range entries {
		entriesByID[entry.ID] = entry
	}

	result := &CheckoutResult{}
	var cleanupErr error

	for _, entryID := range req.CartEntryIDs {
		entry, ok := entriesByID[entryID]
		if !ok {
			result.Failures = append(result.Failures, EntryFailure{
				CartEntryID: entryID,
				Code:        string(pkgerrors.CodeNotFound),
				Message:     "cart entry not found",
			})
			continue
		}
		if entry.UserID != buyerID {
			result.Failures = append(result.Failures, EntryFailure{
				CartEntryID: entryID,
				Code:        string(pkgerrors.CodeForbidden),
				Message:     "cart entry belongs to another buyer",
			})
			continue
		}
		if entry.Product == nil {
			result.Failures = append(result.Failures, EntryFailure{
				CartEntryID: entryID,
				Code:        string(pkgerrors.CodeNotFound),
				Message:     "product no longer exists",
			})
			continue
		}

		orderID, err := s.convertEntry(ctx, buyerEmail, entry)
		if err != nil {
			code := pkgerrors.CodeUnavailable
			if typed := pkgerrors.As(err); typed != nil {
				code = typed.Code()
			}
			result.Failures = append(result.Failures, EntryFailure{
				CartEntryID: entryID,
				Code:        string(code),
				Message:     err.Error(),
			})
			continue
		}
		result.CreatedOrderIDs = append(result.CreatedOrderIDs, orderID)

		if err := s.cart.Delete(ctx, entry.ID); err != nil {
			cleanupErr = multierr.Append(cleanupErr,
				fmt.Errorf("delete cart entry %s: %w", entry.ID, err))
		}
	}

	if cleanupErr != nil {
		s.log.Error(ctx, "cart cleanup incomplete after checkout", cleanupErr)
	}

	return result, nil
}

// convertEntry creates the pending order for one cart entry, resolving unique
// violations on the source entry id to the order a previous attempt created.
func (s *service) convertEntry(ctx context.Context, buyerEmail string, entry models.CartEntry) (uuid.UUID, error) {
	size := entry.Size
	if size == "" {
		size = enums.DefaultSize
	}

	entryID := entry.ID
	order := &models.Order{
		Customer:          buyerEmail,
		SellerID:          entry.Product.SellerID,
		ProductName:       entry.Product.Name,
		Quantity:          entry.Quantity,
		Size:              size,
		Status:            enums.OrderStatusPending,
		PickupDate:        entry.PickupDate,
		SourceCartEntryID: &entryID,
	}

	created, err := s.orders.Create(ctx, order)
	if err == nil {
		return created.ID, nil
	}

	if db.IsUniqueViolation(err, "") {
		existing, findErr := s.orders.FindBySourceCartEntry(ctx, entry.ID)
		if findErr == nil {
			return existing.ID, nil
		}
		if errors.Is(findErr, gorm.ErrRecordNotFound) {
			return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "cart entry already checked out")
		}
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, findErr, "resolve existing order")
	}

	return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "create order")
}
