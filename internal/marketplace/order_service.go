package marketplace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sudo-init-do/ecosync/internal/db"
	"github.com/sudo-init-do/ecosync/internal/errs"
	"github.com/sudo-init-do/ecosync/internal/metrics"
	"github.com/sudo-init-do/ecosync/internal/user"
	"github.com/sudo-init-do/ecosync/internal/wallet"
)

// CreateOrderInput is what a borrower submits when ordering an item.
type CreateOrderInput struct {
	ItemID        string
	PickupTime    time.Time
	ReturnTime    time.Time
	PaymentMethod PaymentMethod
	EcoImpactCO2  float64
}

// OrderService applies the order lifecycle on top of the stores.
type OrderService struct {
	pool   db.PgxPool
	orders *OrderRepo
	items  *ItemRepo
	logger *zap.Logger
	now    func() time.Time
}

// NewOrderService constructs an OrderService.
func NewOrderService(pool db.PgxPool, logger *zap.Logger) *OrderService {
	return &OrderService{
		pool:   pool,
		orders: NewOrderRepo(pool),
		items:  NewItemRepo(pool),
		logger: logger,
		now:    time.Now,
	}
}

// Create places an order in the requested state. The lender is the item's owner and
// the price is quoted here. Eco points payments debit the borrower in the same
// database transaction as the insert.
func (s *OrderService) Create(ctx context.Context, borrowerID string, in CreateOrderInput) (*Order, error) {
	if in.ItemID == "" {
		return nil, errs.Invalid("item is required")
	}
	if in.PickupTime.IsZero() || in.ReturnTime.IsZero() {
		return nil, errs.Invalid("pickupTime and returnTime are required")
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = PayCash
	}
	if !in.PaymentMethod.Valid() {
		return nil, errs.Invalid("unknown payment method %q", in.PaymentMethod)
	}

	item, err := s.items.Get(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID == borrowerID {
		return nil, errs.Invalid("you cannot order your own item")
	}

	quote := NewQuote(item.Type, item.Price, in.PickupTime, in.ReturnTime)
	now := s.now().UTC()
	o := &Order{
		ID:            uuid.New().String(),
		ItemID:        item.ID,
		BorrowerID:    borrowerID,
		LenderID:      item.OwnerID,
		PickupTime:    in.PickupTime,
		ReturnTime:    in.ReturnTime,
		Status:        StatusRequested,
		EcoImpactCO2:  in.EcoImpactCO2,
		PaymentMethod: in.PaymentMethod,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if in.PaymentMethod == PayEcoPoints {
		o.EcoPointsUsed = quote.EcoPointsPrice
	} else {
		o.EcoImpactMoney = quote.CashPrice
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer db.Rollback(ctx, tx)

	if o.EcoPointsUsed > 0 {
		if _, err := user.ApplyPoints(ctx, tx, borrowerID, -o.EcoPointsUsed, wallet.ReasonOrderPayment, o.ID); err != nil {
			return nil, err
		}
	}
	if err := insertOrder(ctx, tx, o); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	s.logger.Info("transaction requested",
		zap.String("transaction_id", o.ID),
		zap.String("item_id", o.ItemID),
		zap.String("payment_method", string(o.PaymentMethod)),
		zap.Int("days", quote.Days))
	return o, nil
}

// Accept moves a requested order to active. Only the lender may accept.
func (s *OrderService) Accept(ctx context.Context, callerID, id string) (*Order, error) {
	return s.Transition(ctx, callerID, id, StatusRequested, StatusActive)
}

// Decline moves a requested order to disputed. Only the lender may decline.
func (s *OrderService) Decline(ctx context.Context, callerID, id string) (*Order, error) {
	return s.Transition(ctx, callerID, id, StatusRequested, StatusDisputed)
}

// Transition moves the order from expected to next on behalf of its lender. When
// expected is empty the currently stored status is used, which still rejects a
// concurrent change made after the read.
func (s *OrderService) Transition(ctx context.Context, callerID, id string, expected, next OrderStatus) (*Order, error) {
	o, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.LenderID != callerID {
		return nil, fmt.Errorf("only the lender can change this transaction: %w", errs.ErrForbidden)
	}
	if expected == "" {
		expected = o.Status
	}

	err = s.orders.Transition(ctx, id, expected, next)
	metrics.RecordTransition(string(next), err)
	if err != nil {
		if errors.Is(err, errs.ErrStateConflict) {
			s.logger.Warn("transaction transition conflict",
				zap.String("transaction_id", id), zap.String("to", string(next)), zap.Error(err))
		}
		return nil, err
	}
	return s.orders.Get(ctx, id)
}

// Review records the caller's rating of the other party. The borrower rates the lender
// and the lender rates the borrower, each once, after the order was accepted.
func (s *OrderService) Review(ctx context.Context, callerID, id string, rating int, text string) (*Order, error) {
	if rating < 1 || rating > 5 {
		return nil, errs.Invalid("rating must be between 1 and 5")
	}
	o, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var about Side
	switch callerID {
	case o.BorrowerID:
		about = SideLender
	case o.LenderID:
		about = SideBorrower
	default:
		return nil, fmt.Errorf("not a party to this transaction: %w", errs.ErrForbidden)
	}
	if o.Status != StatusActive && o.Status != StatusCompleted {
		return nil, fmt.Errorf("transaction is %s: %w", o.Status, errs.ErrStateConflict)
	}

	if err := s.orders.SetReview(ctx, id, about, rating, text); err != nil {
		return nil, err
	}
	return s.orders.Get(ctx, id)
}

// ListForUser returns the orders where userID is borrower or lender, newest first.
func (s *OrderService) ListForUser(ctx context.Context, userID string) ([]Order, error) {
	return s.orders.ListForUser(ctx, userID)
}

// ListAll returns every order, newest first.
func (s *OrderService) ListAll(ctx context.Context) ([]Order, error) {
	return s.orders.ListAll(ctx)
}
