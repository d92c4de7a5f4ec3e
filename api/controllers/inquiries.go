package controllers

import (
	"net/http"

	"github.com/atelierhq/studio-backend/api/responses"
	"github.com/atelierhq/studio-backend/api/validators"
	"github.com/atelierhq/studio-backend/internal/inquiries"
	"github.com/atelierhq/studio-backend/pkg/logger"
)

// InquirySend is the public "ask about this artwork" endpoint.
func InquirySend(svc *inquiries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var inquiry inquiries.Inquiry
		if err := validators.DecodeJSONBody(r, &inquiry); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		providerID, err := svc.Send(r.Context(), inquiry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]string{"id": providerID})
	}
}

// InquiryRecent lists the audit trail for the admin panel.
func InquiryRecent(svc *inquiries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := validators.IntQuery(r, "limit", 50)
		records, err := svc.Recent(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, records)
	}
}
