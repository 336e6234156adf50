package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marisolvega/threadmarket-backend/pkg/dates"
	"github.com/marisolvega/threadmarket-backend/pkg/db/models"
	"github.com/marisolvega/threadmarket-backend/pkg/enums"
	pkgerrors "github.com/marisolvega/threadmarket-backend/pkg/errors"
	"github.com/marisolvega/threadmarket-backend/pkg/types"
)

// Service defines buyer cart operations.
type Service interface {
	AddToCart(ctx context.Context, buyerID uuid.UUID, req AddToCartRequest) (*models.CartEntry, error)
	ListEntries(ctx context.Context, buyerID uuid.UUID) ([]models.CartEntry, error)
	UpdateEntry(ctx context.Context, buyerID, entryID uuid.UUID, req UpdateCartEntryRequest) (*models.CartEntry, error)
	DeleteEntry(ctx context.Context, buyerID, entryID uuid.UUID) error
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo     Repository
	products productFinder
	today    func() types.Date
}

// ServiceParams bundles the cart service dependencies.
type ServiceParams struct {
	Repo     Repository
	Products productFinder
	// Today overrides the clock in tests. Defaults to the server's local date.
	Today func() types.Date
}

// NewService constructs a cart service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	today := params.Today
	if today == nil {
		today = types.Today
	}
	return &service{
		repo:     params.Repo,
		products: params.Products,
		today:    today,
	}, nil
}

// AddToCart validates the product, size and pickup window, then either merges
// into an existing buyer+product+size entry or persists a new one.
func (s *service) AddToCart(ctx context.Context, buyerID uuid.UUID, req AddToCartRequest) (*models.CartEntry, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "buyer identity missing")
	}
	if req.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").
			WithDetails(map[string]string{"field": "quantity"})
	}

	size, err := enums.ParseSize(req.Size)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error()).
			WithDetails(map[string]string{"field": "size"})
	}

	pickupDate, err := s.parsePickupDate(req.PickupDate)
	if err != nil {
		return nil, err
	}

	if _, err := s.products.FindByID(ctx, req.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "load product")
	}

	if existing, err := s.repo.FindByBuyerProductSize(ctx, buyerID, req.ProductID, size); err == nil {
		updates := map[string]any{"quantity": existing.Quantity + req.Quantity}
		if pickupDate != nil {
			updates["pickup_date"] = pickupDate
		}
		if err := s.repo.Update(ctx, existing.ID, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "merge cart entry")
		}
		return s.entry(ctx, existing.ID)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "check for existing entry")
	}

	entry := &models.CartEntry{
		UserID:     buyerID,
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		Size:       size,
		PickupDate: pickupDate,
	}
	created, err := s.repo.Create(ctx, entry)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "create cart entry")
	}
	return created, nil
}

func (s *service) ListEntries(ctx context.Context, buyerID uuid.UUID) ([]models.CartEntry, error) {
	entries, err := s.repo.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "list cart entries")
	}
	return entries, nil
}

// UpdateEntry re-validates the pickup window exactly the way AddToCart does.
func (s *service) UpdateEntry(ctx context.Context, buyerID, entryID uuid.UUID, req UpdateCartEntryRequest) (*models.CartEntry, error) {
	existing, err := s.ownedEntry(ctx, buyerID, entryID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Quantity != nil {
		if *req.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").
				WithDetails(map[string]string{"field": "quantity"})
		}
		updates["quantity"] = *req.Quantity
	}
	if req.Size != nil {
		size, err := enums.ParseSize(*req.Size)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error()).
				WithDetails(map[string]string{"field": "size"})
		}
		updates["size"] = size
	}
	if req.PickupDate != nil {
		pickupDate, err := s.parsePickupDate(req.PickupDate)
		if err != nil {
			return nil, err
		}
		updates["pickup_date"] = pickupDate
	}
	if len(updates) == 0 {
		return existing, nil
	}

	if err := s.repo.Update(ctx, existing.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "update cart entry")
	}
	return s.entry(ctx, existing.ID)
}

func (s *service) DeleteEntry(ctx context.Context, buyerID, entryID uuid.UUID) error {
	existing, err := s.ownedEntry(ctx, buyerID, entryID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, existing.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "delete cart entry")
	}
	return nil
}

func (s *service) ownedEntry(ctx context.Context, buyerID, entryID uuid.UUID) (*models.CartEntry, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "buyer identity missing")
	}
	entry, err := s.entry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.UserID != buyerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cart entry belongs to another buyer")
	}
	return entry, nil
}

func (s *service) entry(ctx context.Context, id uuid.UUID) (*models.CartEntry, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart entry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "load cart entry")
	}
	return entry, nil
}

func (s *service) parsePickupDate(raw *string) (*types.Date, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	parsed, err := types.ParseDate(*raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid pickup date").
			WithDetails(map[string]string{"field": "pickup_date"})
	}
	if !dates.IsValidPickupDate(parsed, s.today()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid pickup date").
			WithDetails(map[string]string{"field": "pickup_date"})
	}
	return &parsed, nil
}
