package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/brokerlane/brokerlane-backend/api/middleware"
	"github.com/brokerlane/brokerlane-backend/api/responses"
	"github.com/brokerlane/brokerlane-backend/api/validators"
	"github.com/brokerlane/brokerlane-backend/internal/submissions"
	pkgerrors "github.com/brokerlane/brokerlane-backend/pkg/errors"
	"github.com/brokerlane/brokerlane-backend/pkg/logger"
)

// AvailableLenders lists eligible lenders not yet holding a submission row
// for this application.
func AvailableLenders(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "submissions service unavailable"))
			return
		}
		actor := middleware.ActorFromContext(r.Context())

		id, err := validators.UUIDParam(chi.URLParam(r, "applicationId"), "application id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		available, err := svc.AvailableLenders(r.Context(), actor, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, available)
	}
}

type sendBatchRequest struct {
	LenderIDs []uuid.UUID `json:"lender_ids" validate:"required,min=1"`
}

// SendToLenders creates the pending submission rows atomically, then starts
// delivery. Lenders already holding a row are skipped, not duplicated.
func SendToLenders(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "submissions service unavailable"))
			return
		}
		actor := middleware.ActorFromContext(r.Context())

		id, err := validators.UUIDParam(chi.URLParam(r, "applicationId"), "application id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req sendBatchRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.SendBatch(r.Context(), actor, id, req.LenderIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// ListSubmissions returns the submission history for one application.
func ListSubmissions(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "submissions service unavailable"))
			return
		}
		actor := middleware.ActorFromContext(r.Context())

		id, err := validators.UUIDParam(chi.URLParam(r, "applicationId"), "application id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views, err := svc.ListByApplication(r.Context(), actor, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, views)
	}
}

// AcknowledgeSubmission marks a sent submission as acknowledged.
func AcknowledgeSubmission(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "submissions service unavailable"))
			return
		}
		actor := middleware.ActorFromContext(r.Context())

		id, err := validators.UUIDParam(chi.URLParam(r, "submissionId"), "submission id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Acknowledge(r.Context(), actor, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "acknowledged"})
	}
}

// RetrySubmission re-attempts delivery for a failed submission. Retries are
// operator-triggered only.
func RetrySubmission(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "submissions service unavailable"))
			return
		}
		actor := middleware.ActorFromContext(r.Context())

		id, err := validators.UUIDParam(chi.URLParam(r, "submissionId"), "submission id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Retry(r.Context(), actor, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "retried"})
	}
}
