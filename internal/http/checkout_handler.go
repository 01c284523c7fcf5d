package httpapi

import (
	"context"
	"net/http"
	"time"

	"myshop/internal/checkout"
)

type CheckoutService interface {
	Checkout(ctx context.Context, userID string) (*checkout.Result, error)
}

type CheckoutHandler struct {
	svc CheckoutService
}

func NewCheckoutHandler(svc CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID := ClaimsFrom(r.Context()).UserID

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := h.svc.Checkout(ctx, userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, res)
}
