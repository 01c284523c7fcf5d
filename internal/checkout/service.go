package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"myshop/internal/cart"
	"myshop/internal/order"
)

var ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

// Cart is the slice of the cart service checkout needs.
type Cart interface {
	Lines(ctx context.Context, userID string) ([]cart.LineView, error)
	Clear(ctx context.Context, userID string) error
}

type Orders interface {
	Create(ctx context.Context, o *order.Order) error
}

type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, o *order.Order) error
}

// Result describes the outcome of one checkout attempt.
type Result struct {
	OrderID string       `json:"orderId"`
	Status  Status       `json:"status"`
	Totals  cart.Totals  `json:"totals"`
	Order   *order.Order `json:"-"`
}

// Service converts a session's cart into a persisted order. The order insert
// is the only multi-write step and runs inside a single transaction; on any
// failure there the cart is left untouched so the caller can retry.
type Service struct {
	cart      Cart
	orders    Orders
	publisher EventPublisher
	taxRate   decimal.Decimal
	logger    zerolog.Logger
}

func NewService(c Cart, o Orders, pub EventPublisher, taxRate decimal.Decimal, logger zerolog.Logger) *Service {
	return &Service{cart: c, orders: o, publisher: pub, taxRate: taxRate, logger: logger}
}

func (s *Service) Checkout(ctx context.Context, userID string) (*Result, error) {
	status := StatusValidating

	// Lines resolves current products; a deleted product fails here with
	// catalog.ErrNotFound, before any transaction is opened.
	lines, err := s.cart.Lines(ctx, userID)
	if err != nil {
		return &Result{Status: status}, err
	}
	if len(lines) == 0 {
		return &Result{Status: status}, ErrEmptyCart
	}

	// Same helper the cart uses, so the order total matches the cart view.
	totals := cart.ComputeTotals(lines, s.taxRate)

	o := &order.Order{
		UserID:     userID,
		TotalPrice: totals.GrandTotal,
		Items:      make([]order.Item, 0, len(lines)),
	}
	for _, l := range lines {
		o.Items = append(o.Items, order.Item{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}

	status = StatusCommitting
	if err := s.orders.Create(ctx, o); err != nil {
		status = StatusRolledBack
		s.logger.Error().Err(err).Str("user_id", userID).Str("status", status.String()).Msg("checkout rolled back")
		return &Result{Status: status}, fmt.Errorf("create order: %w", err)
	}
	status = StatusCommitted

	// The order is committed from here on. A failed cart clear or event
	// publish must not undo a successful checkout.
	if err := s.cart.Clear(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Str("order_id", o.ID).Msg("cart clear failed after commit")
	}

	if s.publisher != nil {
		if err := s.publisher.PublishOrderCreated(ctx, o); err != nil {
			s.logger.Warn().Err(err).Str("order_id", o.ID).Msg("publish OrderCreated failed")
		}
	}

	s.logger.Info().
		Str("order_id", o.ID).
		Str("user_id", userID).
		Str("total", totals.GrandTotal.String()).
		Int("items", len(o.Items)).
		Msg("checkout committed")

	return &Result{OrderID: o.ID, Status: status, Totals: totals, Order: o}, nil
}
