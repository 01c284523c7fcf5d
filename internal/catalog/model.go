package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Popularity   int       `json:"popularity"`
	ProductCount int       `json:"productCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Featured    bool            `json:"featured"`
	ImageURL    string          `json:"imageUrl"`
	CategoryID  *string         `json:"categoryId,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (p Product) InStock() bool {
	return p.Stock > 0
}
