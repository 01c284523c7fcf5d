package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"myshop/internal/order"
)

type OrderHandler struct {
	repo order.Repository
}

func NewOrderHandler(repo order.Repository) *OrderHandler {
	return &OrderHandler{repo: repo}
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID := ClaimsFrom(r.Context()).UserID

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orders, err := h.repo.ListByUser(ctx, userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}

	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFrom(r.Context())
	orderID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.repo.GetByID(ctx, orderID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	// Users can only read their own orders.
	if o.UserID != claims.UserID && !claims.IsAdmin() {
		writeError(w, http.StatusNotFound, order.ErrNotFound.Error())
		return
	}

	writeJSON(w, http.StatusOK, o)
}
