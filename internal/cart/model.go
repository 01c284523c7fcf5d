package cart

import "github.com/shopspring/decimal"

// Line is one (product, quantity) pair in a session's cart. A cart holds at
// most one line per product.
type Line struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// LineView is a cart line joined with the current catalog snapshot of its
// product. Prices are resolved at read time, never cached in the cart itself.
type LineView struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	ImageURL  string          `json:"imageUrl"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Tax        decimal.Decimal `json:"tax"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
}

// ComputeTotals is the single place cart totals are derived. Checkout reuses
// it so the order total always matches what the cart showed.
func ComputeTotals(lines []LineView, taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	tax := subtotal.Mul(taxRate).Round(2)
	return Totals{
		Subtotal:   subtotal,
		Tax:        tax,
		GrandTotal: subtotal.Add(tax),
	}
}
