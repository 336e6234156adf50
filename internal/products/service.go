package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/marisolvega/threadmarket-backend/pkg/db/models"
	"github.com/marisolvega/threadmarket-backend/pkg/enums"
	pkgerrors "github.com/marisolvega/threadmarket-backend/pkg/errors"
	"github.com/marisolvega/threadmarket-backend/pkg/types"
)

// Service defines the product operations exposed to controllers.
type Service interface {
	Create(ctx context.Context, sellerID uuid.UUID, req CreateProductRequest) (*models.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Product, error)
	ListActive(ctx context.Context) ([]models.Product, error)
	Update(ctx context.Context, sellerID, id uuid.UUID, req UpdateProductRequest) (*models.Product, error)
	ReplaceLedger(ctx context.Context, sellerID, id uuid.UUID, req ReplaceLedgerRequest) (*models.Product, error)
	Delete(ctx context.Context, sellerID, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService constructs a product service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, sellerID uuid.UUID, req CreateProductRequest) (*models.Product, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "seller identity missing")
	}

	price, ok := parsedPrice(req.Price)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be a positive decimal").
			WithDetails(map[string]string{"field": "price"})
	}

	sizes, err := parseSizes(req.AvailableSizes)
	if err != nil {
		return nil, err
	}

	ledger, err := parseLedger(req.SizeQuantities, sizes)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		SellerID:       sellerID,
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		Price:          price,
		AvailableSizes: sizesToArray(sizes),
		SizeQuantities: ledger,
		Quantity:       ledger.Total(),
		IsActive:       true,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "create product")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "load product")
	}
	return product, nil
}

func (s *service) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Product, error) {
	found, err := s.repo.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "list seller products")
	}
	return found, nil
}

func (s *service) ListActive(ctx context.Context) ([]models.Product, error) {
	found, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "list products")
	}
	return found, nil
}

func (s *service) Update(ctx context.Context, sellerID, id uuid.UUID, req UpdateProductRequest) (*models.Product, error) {
	product, err := s.ownedProduct(ctx, sellerID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty").
				WithDetails(map[string]string{"field": "name"})
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		price, ok := parsedPrice(*req.Price)
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be a positive decimal").
				WithDetails(map[string]string{"field": "price"})
		}
		updates["price"] = price
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		return product, nil
	}

	if err := s.repo.Update(ctx, product.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "update product")
	}
	return s.Get(ctx, id)
}

// ReplaceLedger swaps the whole size ledger in one write. Orders never debit
// the ledger, so a full replace is the only mutation path.
func (s *service) ReplaceLedger(ctx context.Context, sellerID, id uuid.UUID, req ReplaceLedgerRequest) (*models.Product, error) {
	product, err := s.ownedProduct(ctx, sellerID, id)
	if err != nil {
		return nil, err
	}

	sizes := make([]enums.Size, 0, len(product.AvailableSizes))
	for _, raw := range product.AvailableSizes {
		size, err := enums.ParseSize(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "stored size label invalid")
		}
		sizes = append(sizes, size)
	}

	ledger, err := parseLedger(req.SizeQuantities, sizes)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{
		"size_quantities": ledger,
		"quantity":        ledger.Total(),
	}
	if err := s.repo.Update(ctx, product.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "replace size ledger")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, sellerID, id uuid.UUID) error {
	product, err := s.ownedProduct(ctx, sellerID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, product.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "delete product")
	}
	return nil
}

func (s *service) ownedProduct(ctx context.Context, sellerID, id uuid.UUID) (*models.Product, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "seller identity missing")
	}
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.SellerID != sellerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another seller")
	}
	return product, nil
}

func parseSizes(raw []string) ([]enums.Size, error) {
	if len(raw) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one size required").
			WithDetails(map[string]string{"field": "available_sizes"})
	}
	seen := map[enums.Size]bool{}
	sizes := make([]enums.Size, 0, len(raw))
	for _, label := range raw {
		// ParseSize treats "" as the default size; an empty label here is
		// bad input, not a request for the default
		if strings.TrimSpace(label) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "size labels cannot be empty").
				WithDetails(map[string]string{"field": "available_sizes"})
		}
		size, err := enums.ParseSize(label)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown size %q", label)).
				WithDetails(map[string]string{"field": "available_sizes"})
		}
		if seen[size] {
			continue
		}
		seen[size] = true
		sizes = append(sizes, size)
	}
	return sizes, nil
}

// parseLedger validates that every ledger key belongs to the listing's sizes
// and that no quantity is negative.
func parseLedger(raw map[string]int, sizes []enums.Size) (types.SizeQuantities, error) {
	allowed := map[enums.Size]bool{}
	for _, size := range sizes {
		allowed[size] = true
	}

	ledger := types.SizeQuantities{}
	for label, qty := range raw {
		if strings.TrimSpace(label) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "ledger size labels cannot be empty").
				WithDetails(map[string]string{"field": "size_quantities"})
		}
		size, err := enums.ParseSize(label)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown size %q in ledger", label)).
				WithDetails(map[string]string{"field": "size_quantities"})
		}
		if !allowed[size] {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("size %q not in available sizes", label)).
				WithDetails(map[string]string{"field": "size_quantities"})
		}
		if qty < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "ledger quantities cannot be negative").
				WithDetails(map[string]string{"field": "size_quantities"})
		}
		ledger[size] = qty
	}
	return ledger, nil
}

func sizesToArray(sizes []enums.Size) pq.StringArray {
	out := make(pq.StringArray, 0, len(sizes))
	for _, size := range sizes {
		out = append(out, size.String())
	}
	return out
}
