package events

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderCreated struct {
	EventType  string          `json:"eventType"`
	OrderID    string          `json:"orderId"`
	UserID     string          `json:"userId"`
	Items      []OrderItem     `json:"items"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Timestamp  time.Time       `json:"timestamp"`
}

type OrderItem struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}
