package controllers

import (
	"net/http"

	"github.com/brokerlane/brokerlane-backend/api/middleware"
	"github.com/brokerlane/brokerlane-backend/api/responses"
	"github.com/brokerlane/brokerlane-backend/api/validators"
	"github.com/brokerlane/brokerlane-backend/internal/companies"
	pkgerrors "github.com/brokerlane/brokerlane-backend/pkg/errors"
	"github.com/brokerlane/brokerlane-backend/pkg/logger"
)

// PartnerCreateCompany registers a company for a client the partner refers.
func PartnerCreateCompany(svc companies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "companies service unavailable"))
			return
		}
		actor := middleware.ActorFromContext(r.Context())

		var input companies.CreateReferredInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.CreateReferred(r.Context(), actor, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}
