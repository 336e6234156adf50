package controllers

import (
	"net/http"

	"github.com/marisolvega/threadmarket-backend/api/middleware"
	"github.com/marisolvega/threadmarket-backend/api/responses"
	"github.com/marisolvega/threadmarket-backend/api/validators"
	checkoutsvc "github.com/marisolvega/threadmarket-backend/internal/checkout"
	pkgerrors "github.com/marisolvega/threadmarket-backend/pkg/errors"
	"github.com/marisolvega/threadmarket-backend/pkg/logger"
)

// Checkout converts the named cart entries into pending orders. Entries are
// processed independently; the response lists created order ids alongside
// per-entry failures.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		principal, ok := middleware.PrincipalFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		var payload checkoutsvc.CheckoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Checkout(r.Context(), principal.UserID, principal.Email, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := http.StatusCreated
		if len(result.CreatedOrderIDs) == 0 {
			status = http.StatusUnprocessableEntity
		}
		responses.WriteSuccessStatus(w, status, result)
	}
}
