package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"myshop/internal/cart"
)

// CartService is the slice of the cart service the handlers need; tests
// substitute a fake.
type CartService interface {
	Add(ctx context.Context, userID, productID string, quantity int) error
	Remove(ctx context.Context, userID, productID string) error
	Update(ctx context.Context, userID, productID string, quantity int) error
	Lines(ctx context.Context, userID string) ([]cart.LineView, error)
	Totals(ctx context.Context, userID string) (cart.Totals, error)
	Clear(ctx context.Context, userID string) error
	Len(ctx context.Context, userID string) (int, error)
}

type CartHandler struct {
	svc CartService
}

func NewCartHandler(svc CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

type cartResponse struct {
	Items  []cart.LineView `json:"items"`
	Totals cart.Totals     `json:"totals"`
	Length int             `json:"length"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := ClaimsFrom(r.Context()).UserID

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	lines, err := h.svc.Lines(ctx, userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	totals, err := h.svc.Totals(ctx, userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cartResponse{Items: lines, Totals: totals, Length: len(lines)})
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID := ClaimsFrom(r.Context()).UserID

	var body struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.ProductID == "" {
		writeError(w, http.StatusBadRequest, "missing productId")
		return
	}
	if body.Quantity == 0 {
		body.Quantity = 1
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.svc.Add(ctx, userID, body.ProductID, body.Quantity); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID := ClaimsFrom(r.Context()).UserID
	productID := chi.URLParam(r, "productId")

	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.svc.Update(ctx, userID, productID, body.Quantity); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID := ClaimsFrom(r.Context()).UserID
	productID := chi.URLParam(r, "productId")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.svc.Remove(ctx, userID, productID); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID := ClaimsFrom(r.Context()).UserID

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.svc.Clear(ctx, userID); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
