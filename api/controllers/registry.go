package controllers

import (
	"net/http"
	"strings"

	"github.com/brokerlane/brokerlane-backend/api/responses"
	"github.com/brokerlane/brokerlane-backend/internal/registry"
	pkgerrors "github.com/brokerlane/brokerlane-backend/pkg/errors"
	"github.com/brokerlane/brokerlane-backend/pkg/logger"

	"github.com/go-chi/chi/v5"
)

// RegistrySearch proxies the best-effort company registry search. Upstream
// failure yields an empty list, never an error; manual entry is the fallback.
func RegistrySearch(lookup registry.Lookup, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if lookup == nil {
			responses.WriteSuccess(w, []registry.CompanyMatch{})
			return
		}
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "query is required"))
			return
		}
		matches := lookup.Search(r.Context(), query)
		if matches == nil {
			matches = []registry.CompanyMatch{}
		}
		responses.WriteSuccess(w, matches)
	}
}

// RegistryDetails returns the officers record for one company number.
func RegistryDetails(lookup registry.Lookup, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		number := strings.TrimSpace(chi.URLParam(r, "companyNumber"))
		if number == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "company number is required"))
			return
		}
		if lookup == nil {
			responses.WriteSuccess(w, nil)
			return
		}
		responses.WriteSuccess(w, lookup.Details(r.Context(), number))
	}
}
