package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"myshop/internal/auth"
	"myshop/internal/cart"
	"myshop/internal/catalog"
	"myshop/internal/checkout"
)

type fakeCartService struct {
	AddFunc    func(ctx context.Context, userID, productID string, quantity int) error
	RemoveFunc func(ctx context.Context, userID, productID string) error
	UpdateFunc func(ctx context.Context, userID, productID string, quantity int) error
	LinesFunc  func(ctx context.Context, userID string) ([]cart.LineView, error)
	TotalsFunc func(ctx context.Context, userID string) (cart.Totals, error)
	ClearFunc  func(ctx context.Context, userID string) error
	LenFunc    func(ctx context.Context, userID string) (int, error)
}

func (f *fakeCartService) Add(ctx context.Context, userID, productID string, quantity int) error {
	return f.AddFunc(ctx, userID, productID, quantity)
}

func (f *fakeCartService) Remove(ctx context.Context, userID, productID string) error {
	return f.RemoveFunc(ctx, userID, productID)
}

func (f *fakeCartService) Update(ctx context.Context, userID, productID string, quantity int) error {
	return f.UpdateFunc(ctx, userID, productID, quantity)
}

func (f *fakeCartService) Lines(ctx context.Context, userID string) ([]cart.LineView, error) {
	return f.LinesFunc(ctx, userID)
}

func (f *fakeCartService) Totals(ctx context.Context, userID string) (cart.Totals, error) {
	return f.TotalsFunc(ctx, userID)
}

func (f *fakeCartService) Clear(ctx context.Context, userID string) error {
	return f.ClearFunc(ctx, userID)
}

func (f *fakeCartService) Len(ctx context.Context, userID string) (int, error) {
	return f.LenFunc(ctx, userID)
}

func authedRequest(method, target, body string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	claims := &auth.Claims{UserID: "u1", Email: "alice@example.com", Role: "user"}
	return r.WithContext(context.WithValue(r.Context(), ctxClaims, claims))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestGetCart(t *testing.T) {
	svc := &fakeCartService{
		LinesFunc: func(_ context.Context, userID string) ([]cart.LineView, error) {
			require.Equal(t, "u1", userID)
			return []cart.LineView{
				{ProductID: "productA", Name: "Widget", Quantity: 2, UnitPrice: decimal.RequireFromString("10.00"), LineTotal: decimal.RequireFromString("20.00")},
			}, nil
		},
		TotalsFunc: func(_ context.Context, _ string) (cart.Totals, error) {
			return cart.Totals{
				Subtotal:   decimal.RequireFromString("20.00"),
				Tax:        decimal.RequireFromString("2.00"),
				GrandTotal: decimal.RequireFromString("22.00"),
			}, nil
		},
	}
	h := NewCartHandler(svc)

	rec := httptest.NewRecorder()
	h.GetCart(rec, authedRequest(http.MethodGet, "/api/cart", ""))

	require.Equal(t, http.StatusOK, rec.Code)

	var body cartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Length)
	require.Len(t, body.Items, 1)
	require.True(t, body.Totals.GrandTotal.Equal(decimal.RequireFromString("22.00")))
}

func TestAddItemDefaultsQuantityToOne(t *testing.T) {
	var gotProduct string
	var gotQty int
	svc := &fakeCartService{
		AddFunc: func(_ context.Context, _, productID string, quantity int) error {
			gotProduct = productID
			gotQty = quantity
			return nil
		},
	}
	h := NewCartHandler(svc)

	rec := httptest.NewRecorder()
	h.AddItem(rec, authedRequest(http.MethodPost, "/api/cart/items", `{"productId":"productA"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "productA", gotProduct)
	require.Equal(t, 1, gotQty)
}

func TestAddItemMissingProductID(t *testing.T) {
	h := NewCartHandler(&fakeCartService{})

	rec := httptest.NewRecorder()
	h.AddItem(rec, authedRequest(http.MethodPost, "/api/cart/items", `{"quantity":2}`))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddItemInvalidJSON(t *testing.T) {
	h := NewCartHandler(&fakeCartService{})

	rec := httptest.NewRecorder()
	h.AddItem(rec, authedRequest(http.MethodPost, "/api/cart/items", `{not json`))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc := &fakeCartService{
		AddFunc: func(_ context.Context, _, productID string, _ int) error {
			return fmt.Errorf("resolve product %s: %w", productID, catalog.ErrNotFound)
		},
	}
	h := NewCartHandler(svc)

	rec := httptest.NewRecorder()
	h.AddItem(rec, authedRequest(http.MethodPost, "/api/cart/items", `{"productId":"missing"}`))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateItem(t *testing.T) {
	t.Run("invalid quantity", func(t *testing.T) {
		svc := &fakeCartService{
			UpdateFunc: func(_ context.Context, _, _ string, _ int) error {
				return cart.ErrInvalidQuantity
			},
		}
		h := NewCartHandler(svc)

		r := authedRequest(http.MethodPut, "/api/cart/items/productA", `{"quantity":0}`)
		rec := httptest.NewRecorder()
		h.UpdateItem(rec, withURLParam(r, "productId", "productA"))

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing line", func(t *testing.T) {
		svc := &fakeCartService{
			UpdateFunc: func(_ context.Context, _, _ string, _ int) error {
				return cart.ErrLineNotFound
			},
		}
		h := NewCartHandler(svc)

		r := authedRequest(http.MethodPut, "/api/cart/items/productA", `{"quantity":3}`)
		rec := httptest.NewRecorder()
		h.UpdateItem(rec, withURLParam(r, "productId", "productA"))

		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		var gotProduct string
		var gotQty int
		svc := &fakeCartService{
			UpdateFunc: func(_ context.Context, _, productID string, quantity int) error {
				gotProduct = productID
				gotQty = quantity
				return nil
			},
		}
		h := NewCartHandler(svc)

		r := authedRequest(http.MethodPut, "/api/cart/items/productA", `{"quantity":5}`)
		rec := httptest.NewRecorder()
		h.UpdateItem(rec, withURLParam(r, "productId", "productA"))

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "productA", gotProduct)
		require.Equal(t, 5, gotQty)
	})
}

func TestRemoveItem(t *testing.T) {
	var gotProduct string
	svc := &fakeCartService{
		RemoveFunc: func(_ context.Context, _, productID string) error {
			gotProduct = productID
			return nil
		},
	}
	h := NewCartHandler(svc)

	r := authedRequest(http.MethodDelete, "/api/cart/items/productB", "")
	rec := httptest.NewRecorder()
	h.RemoveItem(rec, withURLParam(r, "productId", "productB"))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "productB", gotProduct)
}

func TestClearCart(t *testing.T) {
	cleared := false
	svc := &fakeCartService{
		ClearFunc: func(_ context.Context, _ string) error {
			cleared = true
			return nil
		},
	}
	h := NewCartHandler(svc)

	rec := httptest.NewRecorder()
	h.ClearCart(rec, authedRequest(http.MethodDelete, "/api/cart", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, cleared)
}

func TestClearCartStorageFailure(t *testing.T) {
	svc := &fakeCartService{
		ClearFunc: func(_ context.Context, _ string) error {
			return errors.New("redis: connection refused")
		},
	}
	h := NewCartHandler(svc)

	rec := httptest.NewRecorder()
	h.ClearCart(rec, authedRequest(http.MethodDelete, "/api/cart", ""))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

type fakeCheckoutService struct {
	CheckoutFunc func(ctx context.Context, userID string) (*checkout.Result, error)
}

func (f *fakeCheckoutService) Checkout(ctx context.Context, userID string) (*checkout.Result, error) {
	return f.CheckoutFunc(ctx, userID)
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc := &fakeCheckoutService{
		CheckoutFunc: func(_ context.Context, _ string) (*checkout.Result, error) {
			return &checkout.Result{Status: checkout.StatusValidating}, checkout.ErrEmptyCart
		},
	}
	h := NewCheckoutHandler(svc)

	rec := httptest.NewRecorder()
	h.Checkout(rec, authedRequest(http.MethodPost, "/api/checkout", ""))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutSuccess(t *testing.T) {
	svc := &fakeCheckoutService{
		CheckoutFunc: func(_ context.Context, userID string) (*checkout.Result, error) {
			require.Equal(t, "u1", userID)
			return &checkout.Result{
				OrderID: "o1",
				Status:  checkout.StatusCommitted,
				Totals: cart.Totals{
					Subtotal:   decimal.RequireFromString("25.50"),
					Tax:        decimal.RequireFromString("2.55"),
					GrandTotal: decimal.RequireFromString("28.05"),
				},
			}, nil
		},
	}
	h := NewCheckoutHandler(svc)

	rec := httptest.NewRecorder()
	h.Checkout(rec, authedRequest(http.MethodPost, "/api/checkout", ""))

	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		OrderID string `json:"orderId"`
		Status  string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "o1", body.OrderID)
	require.Equal(t, "COMMITTED", body.Status)
}

func TestCheckoutStorageFailure(t *testing.T) {
	svc := &fakeCheckoutService{
		CheckoutFunc: func(_ context.Context, _ string) (*checkout.Result, error) {
			return &checkout.Result{Status: checkout.StatusRolledBack}, errors.New("create order: db down")
		},
	}
	h := NewCheckoutHandler(svc)

	rec := httptest.NewRecorder()
	h.Checkout(rec, authedRequest(http.MethodPost, "/api/checkout", ""))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
