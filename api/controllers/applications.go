package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brokerlane/brokerlane-backend/api/middleware"
	"github.com/brokerlane/brokerlane-backend/api/responses"
	"github.com/brokerlane/brokerlane-backend/api/validators"
	"github.com/brokerlane/brokerlane-backend/internal/applications"
	pkgerrors "github.com/brokerlane/brokerlane-backend/pkg/errors"
	"github.com/brokerlane/brokerlane-backend/pkg/logger"
)

// ApplicationsList returns the caller's role-scoped application list:
// clients see their own (drafts only once visible), partners their referred
// book, admins everything.
func ApplicationsList(svc applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "applications service unavailable"))
			return
		}
		actor := middleware.ActorFromContext(r.Context())
		params := validators.PaginationFromQuery(r)

		summaries, err := svc.List(r.Context(), actor, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summaries)
	}
}

// ApplicationGet returns one application's detail view.
func ApplicationGet(svc applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "applications service unavailable"))
			return
		}
		actor := middleware.ActorFromContext(r.Context())

		id, err := validators.UUIDParam(chi.URLParam(r, "applicationId"), "application id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Get(r.Context(), actor, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}
