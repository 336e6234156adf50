package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/marisolvega/threadmarket-backend/pkg/db/models"
	"github.com/marisolvega/threadmarket-backend/pkg/enums"
	pkgerrors "github.com/marisolvega/threadmarket-backend/pkg/errors"
	"github.com/marisolvega/threadmarket-backend/pkg/types"
)

type stubProductsRepo struct {
	byID    map[uuid.UUID]*models.Product
	updates map[string]any
	deleted []uuid.UUID
}

func newStubProductsRepo() *stubProductsRepo {
	return &stubProductsRepo{byID: map[uuid.UUID]*models.Product{}}
}

func (s *stubProductsRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubProductsRepo) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	s.byID[product.ID] = product
	return product, nil
}

func (s *stubProductsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if product, ok := s.byID[id]; ok {
		copied := *product
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProductsRepo) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Product, error) {
	var found []models.Product
	for _, product := range s.byID {
		if product.SellerID == sellerID {
			found = append(found, *product)
		}
	}
	return found, nil
}

func (s *stubProductsRepo) ListActive(ctx context.Context) ([]models.Product, error) {
	var found []models.Product
	for _, product := range s.byID {
		if product.IsActive {
			found = append(found, *product)
		}
	}
	return found, nil
}

func (s *stubProductsRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.updates = updates
	product, ok := s.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["name"]; ok {
		product.Name = v.(string)
	}
	if v, ok := updates["price"]; ok {
		product.Price = v.(decimal.Decimal)
	}
	if v, ok := updates["is_active"]; ok {
		product.IsActive = v.(bool)
	}
	if v, ok := updates["size_quantities"]; ok {
		product.SizeQuantities = v.(types.SizeQuantities)
	}
	if v, ok := updates["quantity"]; ok {
		product.Quantity = v.(int)
	}
	return nil
}

func (s *stubProductsRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	delete(s.byID, id)
	return nil
}

func seedProduct(repo *stubProductsRepo, sellerID uuid.UUID) *models.Product {
	product := &models.Product{
		ID:             uuid.New(),
		SellerID:       sellerID,
		Name:           "Vintage Denim Jacket",
		Price:          decimal.RequireFromString("59.90"),
		AvailableSizes: pq.StringArray{"M", "L"},
		SizeQuantities: types.SizeQuantities{enums.SizeM: 3, enums.SizeL: 2},
		Quantity:       5,
		IsActive:       true,
	}
	repo.byID[product.ID] = product
	return product
}

func TestCreateProductBuildsLedger(t *testing.T) {
	repo := newStubProductsRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)

	sellerID := uuid.New()
	created, err := svc.Create(context.Background(), sellerID, CreateProductRequest{
		Name:           "Linen Shirt",
		Price:          "35.50",
		AvailableSizes: []string{"S", "M", "M"},
		SizeQuantities: map[string]int{"S": 4, "M": 6},
	})
	require.NoError(t, err)

	assert.Equal(t, sellerID, created.SellerID)
	assert.Equal(t, pq.StringArray{"S", "M"}, created.AvailableSizes)
	assert.Equal(t, 10, created.Quantity)
	assert.Equal(t, 4, created.SizeQuantities.QuantityFor(enums.SizeS))
	assert.True(t, created.IsActive)
}

func TestCreateProductRejectsBadPrice(t *testing.T) {
	svc, err := NewService(newStubProductsRepo())
	require.NoError(t, err)

	for _, price := range []string{"0", "-5.00", "abc"} {
		_, err := svc.Create(context.Background(), uuid.New(), CreateProductRequest{
			Name:           "Linen Shirt",
			Price:          price,
			AvailableSizes: []string{"M"},
		})
		require.Error(t, err, "price %q", price)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	}
}

func TestCreateProductRejectsEmptySizeLabels(t *testing.T) {
	repo := newStubProductsRepo()
	sellerID := uuid.New()
	product := seedProduct(repo, sellerID)

	svc, err := NewService(repo)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), sellerID, CreateProductRequest{
		Name:           "Linen Shirt",
		Price:          "35.50",
		AvailableSizes: []string{"M", ""},
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.Create(context.Background(), sellerID, CreateProductRequest{
		Name:           "Linen Shirt",
		Price:          "35.50",
		AvailableSizes: []string{"M"},
		SizeQuantities: map[string]int{"": 2},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.ReplaceLedger(context.Background(), sellerID, product.ID, ReplaceLedgerRequest{
		SizeQuantities: map[string]int{" ": 1},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCreateProductRejectsLedgerOutsideSizes(t *testing.T) {
	svc, err := NewService(newStubProductsRepo())
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), uuid.New(), CreateProductRequest{
		Name:           "Linen Shirt",
		Price:          "35.50",
		AvailableSizes: []string{"M"},
		SizeQuantities: map[string]int{"XL": 2},
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestReplaceLedgerRecomputesQuantity(t *testing.T) {
	repo := newStubProductsRepo()
	sellerID := uuid.New()
	product := seedProduct(repo, sellerID)

	svc, err := NewService(repo)
	require.NoError(t, err)

	updated, err := svc.ReplaceLedger(context.Background(), sellerID, product.ID, ReplaceLedgerRequest{
		SizeQuantities: map[string]int{"M": 1, "L": 7},
	})
	require.NoError(t, err)
	assert.Equal(t, 8, updated.Quantity)
	assert.Equal(t, 7, updated.SizeQuantities.QuantityFor(enums.SizeL))
}

func TestReplaceLedgerRejectsNegativeOrUnlistedSizes(t *testing.T) {
	repo := newStubProductsRepo()
	sellerID := uuid.New()
	product := seedProduct(repo, sellerID)

	svc, err := NewService(repo)
	require.NoError(t, err)

	_, err = svc.ReplaceLedger(context.Background(), sellerID, product.ID, ReplaceLedgerRequest{
		SizeQuantities: map[string]int{"M": -1},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.ReplaceLedger(context.Background(), sellerID, product.ID, ReplaceLedgerRequest{
		SizeQuantities: map[string]int{"XS": 2},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestUpdateProductOwnership(t *testing.T) {
	repo := newStubProductsRepo()
	product := seedProduct(repo, uuid.New())

	svc, err := NewService(repo)
	require.NoError(t, err)

	name := "Renamed"
	_, err = svc.Update(context.Background(), uuid.New(), product.ID, UpdateProductRequest{Name: &name})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestDeleteProductNotFound(t *testing.T) {
	svc, err := NewService(newStubProductsRepo())
	require.NoError(t, err)

	err = svc.Delete(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
