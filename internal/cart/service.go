package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"myshop/internal/catalog"
)

var (
	ErrLineNotFound    = errors.New("cart line not found")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// Catalog is the slice of the catalog repository the cart needs.
type Catalog interface {
	GetProduct(ctx context.Context, id string) (catalog.Product, error)
}

// Service holds the cart rules on top of the session Store. It is keyed by an
// explicit user/session ID; every mutation writes the full line set back
// immediately.
type Service struct {
	store   Store
	catalog Catalog
	taxRate decimal.Decimal
}

func NewService(store Store, cat Catalog, taxRate decimal.Decimal) *Service {
	return &Service{store: store, catalog: cat, taxRate: taxRate}
}

// Add puts quantity units of a product into the cart. Adding a product that
// is already in the cart increments its line instead of duplicating it.
func (s *Service) Add(ctx context.Context, userID, productID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
		return fmt.Errorf("resolve product %s: %w", productID, err)
	}

	lines, err := s.store.Get(ctx, userID)
	if err != nil {
		return err
	}

	found := false
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		lines = append(lines, Line{ProductID: productID, Quantity: quantity})
	}

	return s.store.Put(ctx, userID, lines)
}

// Remove deletes the product's line. Removing a product that is not in the
// cart is not an error.
func (s *Service) Remove(ctx context.Context, userID, productID string) error {
	lines, err := s.store.Get(ctx, userID)
	if err != nil {
		return err
	}

	kept := lines[:0]
	removed := false
	for _, l := range lines {
		if l.ProductID == productID {
			removed = true
			continue
		}
		kept = append(kept, l)
	}
	if !removed {
		return nil
	}

	return s.store.Put(ctx, userID, kept)
}

// Update replaces the quantity of an existing line.
func (s *Service) Update(ctx context.Context, userID, productID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	lines, err := s.store.Get(ctx, userID)
	if err != nil {
		return err
	}

	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity = quantity
			return s.store.Put(ctx, userID, lines)
		}
	}

	return ErrLineNotFound
}

// Lines resolves every cart line against the current catalog state. A line
// whose product has been deleted since it was added surfaces
// catalog.ErrNotFound, mirroring the checkout policy.
func (s *Service) Lines(ctx context.Context, userID string) ([]LineView, error) {
	lines, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]LineView, 0, len(lines))
	for _, l := range lines {
		p, err := s.catalog.GetProduct(ctx, l.ProductID)
		if err != nil {
			return nil, fmt.Errorf("resolve product %s: %w", l.ProductID, err)
		}
		views = append(views, LineView{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  l.Quantity,
			UnitPrice: p.Price,
			ImageURL:  p.ImageURL,
			LineTotal: p.Price.Mul(decimal.NewFromInt(int64(l.Quantity))),
		})
	}

	return views, nil
}

// TotalPrice is the pre-tax sum over lines of quantity times current price.
func (s *Service) TotalPrice(ctx context.Context, userID string) (decimal.Decimal, error) {
	totals, err := s.Totals(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return totals.Subtotal, nil
}

func (s *Service) Totals(ctx context.Context, userID string) (Totals, error) {
	views, err := s.Lines(ctx, userID)
	if err != nil {
		return Totals{}, err
	}
	return ComputeTotals(views, s.taxRate), nil
}

func (s *Service) Clear(ctx context.Context, userID string) error {
	return s.store.Delete(ctx, userID)
}

// Len is the number of distinct lines, used for UI badges.
func (s *Service) Len(ctx context.Context, userID string) (int, error) {
	lines, err := s.store.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(lines), nil
}
