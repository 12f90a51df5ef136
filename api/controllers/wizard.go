package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/brokerlane/brokerlane-backend/api/middleware"
	"github.com/brokerlane/brokerlane-backend/api/responses"
	"github.com/brokerlane/brokerlane-backend/api/validators"
	"github.com/brokerlane/brokerlane-backend/internal/intake"
	pkgerrors "github.com/brokerlane/brokerlane-backend/pkg/errors"
	"github.com/brokerlane/brokerlane-backend/pkg/logger"
)

// WizardResolve returns the caller's resolved wizard form: explicit draft by
// id, or the newest open draft.
func WizardResolve(svc intake.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "intake service unavailable"))
			return
		}
		actor := middleware.ActorFromContext(r.Context())

		var explicitID *uuid.UUID
		if raw := strings.TrimSpace(r.URL.Query().Get("application_id")); raw != "" {
			id, err := validators.UUIDParam(raw, "application id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			explicitID = &id
		}

		state, err := svc.Resolve(r.Context(), actor, explicitID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, state)
	}
}

// WizardAdvance validates and persists one step, returning the updated form.
func WizardAdvance(svc intake.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "intake service unavailable"))
			return
		}
		actor := middleware.ActorFromContext(r.Context())

		var input intake.StepInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := svc.AdvanceStep(r.Context(), actor, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, state)
	}
}

// WizardSave persists whatever the user entered without validation gates or
// stage changes; the draft stays resumable.
func WizardSave(svc intake.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "intake service unavailable"))
			return
		}
		actor := middleware.ActorFromContext(r.Context())

		var input intake.StepInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SaveAndExit(r.Context(), actor, input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "saved"})
	}
}

type wizardSubmitRequest struct {
	ApplicationID uuid.UUID                 `json:"application_id" validate:"required"`
	Personal      *intake.PersonalStepInput `json:"personal,omitempty"`
}

// WizardSubmit performs the final submission: stage=submitted plus timestamp.
func WizardSubmit(svc intake.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "intake service unavailable"))
			return
		}
		actor := middleware.ActorFromContext(r.Context())

		var req wizardSubmitRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Submit(r.Context(), actor, req.ApplicationID, req.Personal)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
