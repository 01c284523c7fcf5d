package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type Item struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPriceAtPurchase"`
}

// Order is immutable once created. TotalPrice is the grand total (tax
// included) at checkout time; item prices are snapshots that never follow
// later catalog edits.
type Order struct {
	ID         string          `json:"orderId"`
	UserID     string          `json:"userId"`
	Items      []Item          `json:"items"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	CreatedAt  time.Time       `json:"createdAt"`
}
