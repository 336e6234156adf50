package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marisolvega/threadmarket-backend/pkg/dates"
	"github.com/marisolvega/threadmarket-backend/pkg/db/models"
	"github.com/marisolvega/threadmarket-backend/pkg/enums"
	pkgerrors "github.com/marisolvega/threadmarket-backend/pkg/errors"
	"github.com/marisolvega/threadmarket-backend/pkg/pagination"
	"github.com/marisolvega/threadmarket-backend/pkg/types"
)

const maxDeclineRemarksLen = 500

// Service drives orders through their lifecycle:
// pending -> declined, or pending -> ready-for-pickup -> completed.
// Every transition is guarded by a conditional update on the persisted
// status, so concurrent callers race safely: one wins, the rest observe
// an invalid-state failure.
type Service interface {
	Approve(ctx context.Context, orderID, sellerID uuid.UUID) (*TransitionResult, error)
	Decline(ctx context.Context, orderID, sellerID uuid.UUID, remarks string) (*TransitionResult, error)
	MarkReady(ctx context.Context, orderID, sellerID uuid.UUID) (*TransitionResult, error)
	ConfirmPickup(ctx context.Context, orderID uuid.UUID, buyerEmail string, orNumber *string) (*TransitionResult, error)
	SetCompletionRemarks(ctx context.Context, orderID, sellerID uuid.UUID, remarks string) (*TransitionResult, error)
	ListOrders(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderViewList, error)
}

type buyerLookup interface {
	FindByEmails(ctx context.Context, emails []string) ([]models.User, error)
}

type service struct {
	repo  Repository
	users buyerLookup
	today func() types.Date
}

// ServiceParams bundles the fulfillment service dependencies.
type ServiceParams struct {
	Repo  Repository
	Users buyerLookup
	// Today overrides the clock in tests. Defaults to the server's local date.
	Today func() types.Date
}

// NewService constructs the fulfillment service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("buyer lookup required")
	}
	today := params.Today
	if today == nil {
		today = types.Today
	}
	return &service{
		repo:  params.Repo,
		users: params.Users,
		today: today,
	}, nil
}

// Approve moves a pending order to ready-for-pickup. A buyer-supplied pickup
// date is preserved; otherwise the seller gets three days to stage the item.
func (s *service) Approve(ctx context.Context, orderID, sellerID uuid.UUID) (*TransitionResult, error) {
	order, err := s.sellerOrder(ctx, orderID, sellerID)
	if err != nil {
		return nil, err
	}
	if order.Status != enums.OrderStatusPending {
		return nil, invalidState("approve", order.Status)
	}

	pickupDate := order.PickupDate
	if pickupDate == nil {
		assigned := dates.ApprovalPickupDate(s.today())
		pickupDate = &assigned
	}

	won, err := s.repo.TransitionStatus(ctx, order.ID,
		enums.OrderStatusPending, enums.OrderStatusReadyForPickup,
		map[string]any{"pickup_date": pickupDate})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "approve order")
	}
	if !won {
		return nil, s.lostRace(ctx, order.ID, "approve")
	}

	return &TransitionResult{
		OrderID:    order.ID,
		Status:     enums.OrderStatusReadyForPickup,
		PickupDate: pickupDate,
	}, nil
}

// Decline moves a pending order to its declined terminal state. Remarks are
// the only record of the rationale, so they are mandatory.
func (s *service) Decline(ctx context.Context, orderID, sellerID uuid.UUID, remarks string) (*TransitionResult, error) {
	remarks = strings.TrimSpace(remarks)
	if remarks == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "decline remarks required").
			WithDetails(map[string]string{"field": "remarks"})
	}
	if utf8.RuneCountInString(remarks) > maxDeclineRemarksLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "decline remarks exceed 500 characters").
			WithDetails(map[string]string{"field": "remarks"})
	}

	order, err := s.sellerOrder(ctx, orderID, sellerID)
	if err != nil {
		return nil, err
	}
	if order.Status != enums.OrderStatusPending {
		return nil, invalidState("decline", order.Status)
	}

	won, err := s.repo.TransitionStatus(ctx, order.ID,
		enums.OrderStatusPending, enums.OrderStatusDeclined,
		map[string]any{"remarks": remarks})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "decline order")
	}
	if !won {
		return nil, s.lostRace(ctx, order.ID, "decline")
	}

	return &TransitionResult{
		OrderID: order.ID,
		Status:  enums.OrderStatusDeclined,
	}, nil
}

// MarkReady stamps ready-for-pickup outside the approve flow and never
// assigns a pickup date. Idempotent on an already-ready order, but terminal
// orders stay terminal: declined and completed cannot be reopened.
func (s *service) MarkReady(ctx context.Context, orderID, sellerID uuid.UUID) (*TransitionResult, error) {
	order, err := s.sellerOrder(ctx, orderID, sellerID)
	if err != nil {
		return nil, err
	}
	if order.Status.IsTerminal() {
		return nil, invalidState("mark ready", order.Status)
	}
	if order.Status == enums.OrderStatusReadyForPickup {
		return &TransitionResult{
			OrderID:    order.ID,
			Status:     order.Status,
			PickupDate: order.PickupDate,
		}, nil
	}

	won, err := s.repo.TransitionStatus(ctx, order.ID,
		enums.OrderStatusPending, enums.OrderStatusReadyForPickup, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "mark order ready")
	}
	if !won {
		// A concurrent caller may have staged the order already; that still
		// counts as ready. Anything else is a real state conflict.
		current, reloadErr := s.order(ctx, order.ID)
		if reloadErr != nil {
			return nil, reloadErr
		}
		if current.Status != enums.OrderStatusReadyForPickup {
			return nil, invalidState("mark ready", current.Status)
		}
		order = current
	}

	return &TransitionResult{
		OrderID:    order.ID,
		Status:     enums.OrderStatusReadyForPickup,
		PickupDate: order.PickupDate,
	}, nil
}

// ConfirmPickup completes a ready order on behalf of the buyer who placed it,
// recording the official receipt number when one is provided.
func (s *service) ConfirmPickup(ctx context.Context, orderID uuid.UUID, buyerEmail string, orNumber *string) (*TransitionResult, error) {
	order, err := s.order(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(order.Customer, strings.TrimSpace(buyerEmail)) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another buyer")
	}
	if order.Status != enums.OrderStatusReadyForPickup {
		return nil, invalidState("confirm pickup", order.Status)
	}

	won, err := s.repo.TransitionStatus(ctx, order.ID,
		enums.OrderStatusReadyForPickup, enums.OrderStatusCompleted,
		map[string]any{"or_number": orNumber})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "confirm pickup")
	}
	if !won {
		return nil, s.lostRace(ctx, order.ID, "confirm pickup")
	}

	return &TransitionResult{
		OrderID:  order.ID,
		Status:   enums.OrderStatusCompleted,
		ORNumber: orNumber,
	}, nil
}

// SetCompletionRemarks attaches a post-completion note; only valid once the
// order is completed.
func (s *service) SetCompletionRemarks(ctx context.Context, orderID, sellerID uuid.UUID, remarks string) (*TransitionResult, error) {
	remarks = strings.TrimSpace(remarks)
	if remarks == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "completion remarks required").
			WithDetails(map[string]string{"field": "remarks"})
	}

	order, err := s.sellerOrder(ctx, orderID, sellerID)
	if err != nil {
		return nil, err
	}
	if order.Status != enums.OrderStatusCompleted {
		return nil, invalidState("set completion remarks", order.Status)
	}

	matched, err := s.repo.UpdateGuarded(ctx, order.ID, enums.OrderStatusCompleted,
		map[string]any{"completion_remarks": remarks})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "set completion remarks")
	}
	if !matched {
		return nil, s.lostRace(ctx, order.ID, "set completion remarks")
	}

	return &TransitionResult{
		OrderID: order.ID,
		Status:  enums.OrderStatusCompleted,
	}, nil
}

// ListOrders returns a page of orders enriched with the buyer's display name
// and phone. Pure read, no state change.
func (s *service) ListOrders(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderViewList, error) {
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "list orders")
	}

	emails := make([]string, 0, len(list.Orders))
	seen := map[string]bool{}
	for _, order := range list.Orders {
		if !seen[order.Customer] {
			seen[order.Customer] = true
			emails = append(emails, order.Customer)
		}
	}

	buyersByEmail := map[string]models.User{}
	if len(emails) > 0 {
		buyers, err := s.users.FindByEmails(ctx, emails)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "load buyers")
		}
		for _, buyer := range buyers {
			buyersByEmail[buyer.Email] = buyer
		}
	}

	views := make([]OrderView, 0, len(list.Orders))
	for _, order := range list.Orders {
		view := OrderView{Order: order}
		if buyer, ok := buyersByEmail[order.Customer]; ok {
			view.BuyerName = buyer.DisplayName
			view.BuyerPhone = buyer.Phone
		}
		views = append(views, view)
	}

	return &OrderViewList{
		Orders:     views,
		NextCursor: list.Page.NextCursor,
		HasMore:    list.Page.HasMore,
	}, nil
}

func (s *service) order(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "load order")
	}
	return order, nil
}

func (s *service) sellerOrder(ctx context.Context, orderID, sellerID uuid.UUID) (*models.Order, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "seller identity missing")
	}
	order, err := s.order(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.SellerID != sellerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another seller")
	}
	return order, nil
}

// lostRace reloads the order after a conditional update matched no row and
// reports the status that beat the caller.
func (s *service) lostRace(ctx context.Context, orderID uuid.UUID, action string) error {
	current, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeInvalidState, fmt.Sprintf("%s rejected, order changed concurrently", action))
	}
	return invalidState(action, current.Status)
}

func invalidState(action string, current enums.OrderStatus) error {
	return pkgerrors.New(pkgerrors.CodeInvalidState, fmt.Sprintf("cannot %s order in status %q", action, current)).
		WithDetails(map[string]string{"current_status": current.String()})
}
