package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atelierhq/studio-backend/api/responses"
	"github.com/atelierhq/studio-backend/api/validators"
	"github.com/atelierhq/studio-backend/internal/checkout"
	"github.com/atelierhq/studio-backend/pkg/logger"
)

// CheckoutCreateOrder prices the submitted cart server-side and opens a
// provider order.
func CheckoutCreateOrder(svc *checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Items []checkout.LineItem `json:"items"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := svc.CreateOrder(r.Context(), body.Items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"orderId": orderID})
	}
}

func CheckoutCaptureOrder(svc *checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID := chi.URLParam(r, "orderID")
		status, err := svc.CaptureOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"orderId": orderID, "status": status})
	}
}
