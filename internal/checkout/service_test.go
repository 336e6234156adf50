package checkout

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/marisolvega/threadmarket-backend/pkg/db/models"
	"github.com/marisolvega/threadmarket-backend/pkg/enums"
	pkgerrors "github.com/marisolvega/threadmarket-backend/pkg/errors"
	"github.com/marisolvega/threadmarket-backend/pkg/logger"
	"github.com/marisolvega/threadmarket-backend/pkg/types"
)

type stubCart struct {
	byID      map[uuid.UUID]models.CartEntry
	deleteErr map[uuid.UUID]error
	deleted   []uuid.UUID
}

func (s *stubCart) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.CartEntry, error) {
	var entries []models.CartEntry
	for _, id := range ids {
		if entry, ok := s.byID[id]; ok {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (s *stubCart) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.deleteErr[id]; err != nil {
		return err
	}
	s.deleted = append(s.deleted, id)
	delete(s.byID, id)
	return nil
}

type stubOrders struct {
	bySource  map[uuid.UUID]*models.Order
	createErr map[uuid.UUID]error
	created   []*models.Order
}

func newStubOrders() *stubOrders {
	return &stubOrders{bySource: map[uuid.UUID]*models.Order{}}
}

type uniqueViolation struct{}

func (uniqueViolation) Error() string {
	return `duplicate key value violates unique constraint "idx_orders_source_cart_entry_id"`
}

func (s *stubOrders) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	source := *order.SourceCartEntryID
	if err := s.createErr[source]; err != nil {
		return nil, err
	}
	if _, exists := s.bySource[source]; exists {
		return nil, uniqueViolation{}
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.bySource[source] = order
	s.created = append(s.created, order)
	return order, nil
}

func (s *stubOrders) FindBySourceCartEntry(ctx context.Context, cartEntryID uuid.UUID) (*models.Order, error) {
	if order, ok := s.bySource[cartEntryID]; ok {
		return order, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func testEntry(buyerID uuid.UUID, pickupDate *types.Date) models.CartEntry {
	sellerID := uuid.New()
	return models.CartEntry{
		ID:       uuid.New(),
		UserID:   buyerID,
		Quantity: 2,
		Size:     enums.SizeL,
		Product: &models.Product{
			ID:       uuid.New(),
			SellerID: sellerID,
			Name:     "Vintage Denim Jacket",
		},
		PickupDate: pickupDate,
	}
}

func newCheckoutService(t *testing.T, cart *stubCart, orders *stubOrders) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Cart:   cart,
		Orders: orders,
		Logger: logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	require.NoError(t, err)
	return svc
}

func TestCheckoutCreatesPendingOrderAndClearsCart(t *testing.T) {
	buyerID := uuid.New()
	pickup, err := types.ParseDate("2025-03-01")
	require.NoError(t, err)
	entry := testEntry(buyerID, &pickup)

	cart := &stubCart{byID: map[uuid.UUID]models.CartEntry{entry.ID: entry}}
	orders := newStubOrders()
	svc := newCheckoutService(t, cart, orders)

	result, err := svc.Checkout(context.Background(), buyerID, "u1@example.com", CheckoutRequest{
		CartEntryIDs: []uuid.UUID{entry.ID},
	})
	require.NoError(t, err)

	require.Len(t, result.CreatedOrderIDs, 1)
	assert.Empty(t, result.Failures)
	assert.Equal(t, []uuid.UUID{entry.ID}, cart.deleted)

	created := orders.created[0]
	assert.Equal(t, "u1@example.com", created.Customer)
	assert.Equal(t, "Vintage Denim Jacket", created.ProductName)
	assert.Equal(t, enums.OrderStatusPending, created.Status)
	assert.Equal(t, enums.SizeL, created.Size)
	require.NotNil(t, created.PickupDate)
	assert.Equal(t, "2025-03-01", created.PickupDate.String())
}

func TestCheckoutPartialFailureKeepsEarlierOrders(t *testing.T) {
	buyerID := uuid.New()
	good := testEntry(buyerID, nil)
	bad := testEntry(buyerID, nil)

	cart := &stubCart{byID: map[uuid.UUID]models.CartEntry{good.ID: good, bad.ID: bad}}
	orders := newStubOrders()
	orders.createErr = map[uuid.UUID]error{bad.ID: errors.New("connection reset")}
	svc := newCheckoutService(t, cart, orders)

	result, err := svc.Checkout(context.Background(), buyerID, "u1@example.com", CheckoutRequest{
		CartEntryIDs: []uuid.UUID{good.ID, bad.ID},
	})
	require.NoError(t, err)

	assert.Len(t, result.CreatedOrderIDs, 1)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, bad.ID, result.Failures[0].CartEntryID)
	assert.Equal(t, string(pkgerrors.CodeUnavailable), result.Failures[0].Code)
	// the failed entry stays in the cart, the converted one is removed
	assert.Equal(t, []uuid.UUID{good.ID}, cart.deleted)
}

func TestCheckoutRetryIsIdempotent(t *testing.T) {
	buyerID := uuid.New()
	entry := testEntry(buyerID, nil)

	firstCart := &stubCart{byID: map[uuid.UUID]models.CartEntry{entry.ID: entry}}
	orders := newStubOrders()
	svc := newCheckoutService(t, firstCart, orders)

	first, err := svc.Checkout(context.Background(), buyerID, "u1@example.com", CheckoutRequest{
		CartEntryIDs: []uuid.UUID{entry.ID},
	})
	require.NoError(t, err)
	require.Len(t, first.CreatedOrderIDs, 1)

	// retry with the entry still present, as if the cart delete never landed
	retryCart := &stubCart{byID: map[uuid.UUID]models.CartEntry{entry.ID: entry}}
	svc = newCheckoutService(t, retryCart, orders)

	second, err := svc.Checkout(context.Background(), buyerID, "u1@example.com", CheckoutRequest{
		CartEntryIDs: []uuid.UUID{entry.ID},
	})
	require.NoError(t, err)
	require.Len(t, second.CreatedOrderIDs, 1)
	assert.Equal(t, first.CreatedOrderIDs[0], second.CreatedOrderIDs[0])
	assert.Len(t, orders.created, 1)
}

func TestCheckoutDeletionFailureDoesNotFail(t *testing.T) {
	buyerID := uuid.New()
	entry := testEntry(buyerID, nil)

	cart := &stubCart{
		byID:      map[uuid.UUID]models.CartEntry{entry.ID: entry},
		deleteErr: map[uuid.UUID]error{entry.ID: errors.New("lock timeout")},
	}
	orders := newStubOrders()
	svc := newCheckoutService(t, cart, orders)

	result, err := svc.Checkout(context.Background(), buyerID, "u1@example.com", CheckoutRequest{
		CartEntryIDs: []uuid.UUID{entry.ID},
	})
	require.NoError(t, err)
	assert.Len(t, result.CreatedOrderIDs, 1)
	assert.Empty(t, result.Failures)
}

func TestCheckoutRejectsForeignEntries(t *testing.T) {
	owner := uuid.New()
	entry := testEntry(owner, nil)
	cart := &stubCart{byID: map[uuid.UUID]models.CartEntry{entry.ID: entry}}
	svc := newCheckoutService(t, cart, newStubOrders())

	result, err := svc.Checkout(context.Background(), uuid.New(), "u2@example.com", CheckoutRequest{
		CartEntryIDs: []uuid.UUID{entry.ID},
	})
	require.NoError(t, err)
	assert.Empty(t, result.CreatedOrderIDs)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, string(pkgerrors.CodeForbidden), result.Failures[0].Code)
	assert.Empty(t, cart.deleted)
}

func TestCheckoutUnknownEntry(t *testing.T) {
	svc := newCheckoutService(t, &stubCart{byID: map[uuid.UUID]models.CartEntry{}}, newStubOrders())

	result, err := svc.Checkout(context.Background(), uuid.New(), "u1@example.com", CheckoutRequest{
		CartEntryIDs: []uuid.UUID{uuid.New()},
	})
	require.NoError(t, err)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, string(pkgerrors.CodeNotFound), result.Failures[0].Code)
}
