package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/marisolvega/threadmarket-backend/pkg/db/models"
	"github.com/marisolvega/threadmarket-backend/pkg/enums"
	pkgerrors "github.com/marisolvega/threadmarket-backend/pkg/errors"
	"github.com/marisolvega/threadmarket-backend/pkg/types"
)

type stubCartRepo struct {
	byID    map[uuid.UUID]*models.CartEntry
	updates map[string]any
	deleted []uuid.UUID
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{byID: map[uuid.UUID]*models.CartEntry{}}
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubCartRepo) Create(ctx context.Context, entry *models.CartEntry) (*models.CartEntry, error) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	s.byID[entry.ID] = entry
	return entry, nil
}

func (s *stubCartRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.CartEntry, error) {
	if entry, ok := s.byID[id]; ok {
		copied := *entry
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) FindByBuyerProductSize(ctx context.Context, userID, productID uuid.UUID, size enums.Size) (*models.CartEntry, error) {
	for _, entry := range s.byID {
		if entry.UserID == userID && entry.ProductID == productID && entry.Size == size {
			copied := *entry
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) ListByBuyer(ctx context.Context, userID uuid.UUID) ([]models.CartEntry, error) {
	var entries []models.CartEntry
	for _, entry := range s.byID {
		if entry.UserID == userID {
			entries = append(entries, *entry)
		}
	}
	return entries, nil
}

func (s *stubCartRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.CartEntry, error) {
	var entries []models.CartEntry
	for _, id := range ids {
		if entry, ok := s.byID[id]; ok {
			entries = append(entries, *entry)
		}
	}
	return entries, nil
}

func (s *stubCartRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.updates = updates
	entry, ok := s.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["quantity"]; ok {
		entry.Quantity = v.(int)
	}
	if v, ok := updates["size"]; ok {
		entry.Size = v.(enums.Size)
	}
	if v, ok := updates["pickup_date"]; ok {
		if v == nil {
			entry.PickupDate = nil
		} else {
			entry.PickupDate = v.(*types.Date)
		}
	}
	return nil
}

func (s *stubCartRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	delete(s.byID, id)
	return nil
}

type stubProductFinder struct {
	byID map[uuid.UUID]*models.Product
}

func (s *stubProductFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if product, ok := s.byID[id]; ok {
		return product, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func fixedToday() types.Date {
	d, _ := types.ParseDate("2025-02-10")
	return d
}

func newCartService(t *testing.T, repo Repository, products productFinder) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:     repo,
		Products: products,
		Today:    fixedToday,
	})
	require.NoError(t, err)
	return svc
}

func TestAddToCartDefaultsSize(t *testing.T) {
	repo := newStubCartRepo()
	productID := uuid.New()
	products := &stubProductFinder{byID: map[uuid.UUID]*models.Product{
		productID: {ID: productID, Name: "Wool Coat"},
	}}
	svc := newCartService(t, repo, products)

	entry, err := svc.AddToCart(context.Background(), uuid.New(), AddToCartRequest{
		ProductID: productID,
		Quantity:  2,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.SizeM, entry.Size)
	assert.Nil(t, entry.PickupDate)
}

func TestAddToCartUnknownProduct(t *testing.T) {
	svc := newCartService(t, newStubCartRepo(), &stubProductFinder{})

	_, err := svc.AddToCart(context.Background(), uuid.New(), AddToCartRequest{
		ProductID: uuid.New(),
		Quantity:  1,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestAddToCartPickupWindow(t *testing.T) {
	repo := newStubCartRepo()
	productID := uuid.New()
	products := &stubProductFinder{byID: map[uuid.UUID]*models.Product{
		productID: {ID: productID, Name: "Wool Coat"},
	}}
	svc := newCartService(t, repo, products)

	cases := []struct {
		date string
		ok   bool
	}{
		{"2025-02-10", true},
		{"2025-03-12", true},
		{"2025-02-09", false},
		{"2025-03-13", false},
	}
	for _, tc := range cases {
		date := tc.date
		_, err := svc.AddToCart(context.Background(), uuid.New(), AddToCartRequest{
			ProductID:  productID,
			Quantity:   1,
			PickupDate: &date,
		})
		if tc.ok {
			assert.NoError(t, err, "date %s", tc.date)
		} else {
			require.Error(t, err, "date %s", tc.date)
			assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
		}
	}
}

func TestAddToCartMergesDuplicateLine(t *testing.T) {
	repo := newStubCartRepo()
	productID := uuid.New()
	buyerID := uuid.New()
	products := &stubProductFinder{byID: map[uuid.UUID]*models.Product{
		productID: {ID: productID, Name: "Wool Coat"},
	}}
	svc := newCartService(t, repo, products)

	first, err := svc.AddToCart(context.Background(), buyerID, AddToCartRequest{
		ProductID: productID,
		Quantity:  2,
		Size:      "L",
	})
	require.NoError(t, err)

	merged, err := svc.AddToCart(context.Background(), buyerID, AddToCartRequest{
		ProductID: productID,
		Quantity:  3,
		Size:      "L",
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, merged.ID)
	assert.Equal(t, 5, merged.Quantity)
	assert.Len(t, repo.byID, 1)
}

func TestUpdateEntryOwnership(t *testing.T) {
	repo := newStubCartRepo()
	owner := uuid.New()
	entry := &models.CartEntry{ID: uuid.New(), UserID: owner, ProductID: uuid.New(), Quantity: 1, Size: enums.SizeM}
	repo.byID[entry.ID] = entry
	svc := newCartService(t, repo, &stubProductFinder{})

	qty := 4
	_, err := svc.UpdateEntry(context.Background(), uuid.New(), entry.ID, UpdateCartEntryRequest{Quantity: &qty})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())

	updated, err := svc.UpdateEntry(context.Background(), owner, entry.ID, UpdateCartEntryRequest{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)
}

func TestUpdateEntryRevalidatesPickupDate(t *testing.T) {
	repo := newStubCartRepo()
	owner := uuid.New()
	entry := &models.CartEntry{ID: uuid.New(), UserID: owner, ProductID: uuid.New(), Quantity: 1, Size: enums.SizeM}
	repo.byID[entry.ID] = entry
	svc := newCartService(t, repo, &stubProductFinder{})

	stale := "2025-01-01"
	_, err := svc.UpdateEntry(context.Background(), owner, entry.ID, UpdateCartEntryRequest{PickupDate: &stale})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestDeleteEntryNotFound(t *testing.T) {
	svc := newCartService(t, newStubCartRepo(), &stubProductFinder{})

	err := svc.DeleteEntry(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
