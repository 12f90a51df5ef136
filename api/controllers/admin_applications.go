package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brokerlane/brokerlane-backend/api/middleware"
	"github.com/brokerlane/brokerlane-backend/api/responses"
	"github.com/brokerlane/brokerlane-backend/api/validators"
	"github.com/brokerlane/brokerlane-backend/internal/applications"
	"github.com/brokerlane/brokerlane-backend/pkg/enums"
	pkgerrors "github.com/brokerlane/brokerlane-backend/pkg/errors"
	"github.com/brokerlane/brokerlane-backend/pkg/logger"
)

type changeStageRequest struct {
	Stage string `json:"stage" validate:"required"`
}

// AdminChangeStage moves an application to another stage. Terminal stages
// reject everything except the same-stage no-op.
func AdminChangeStage(svc applications.Service, logg *logger.Logger) http.HandlerFunc {
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

		var req changeStageRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		stage, err := enums.ParseApplicationStage(req.Stage)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid stage"))
			return
		}

		if err := svc.ChangeStage(r.Context(), actor, id, stage); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"stage": stage.String()})
	}
}

type adminUpdateRequest struct {
	AdminNotes            *string          `json:"admin_notes,omitempty"`
	WorkflowStatus        *string          `json:"workflow_status,omitempty"`
	IsHidden              *bool            `json:"is_hidden,omitempty"`
	AcceptedLenderID      *uuid.UUID       `json:"accepted_lender_id,omitempty"`
	OfferAmount           *decimal.Decimal `json:"offer_amount,omitempty"`
	OfferTermMonths       *int             `json:"offer_term_months,omitempty" validate:"omitempty,min=1"`
	OfferTotalCost        *decimal.Decimal `json:"offer_total_cost,omitempty"`
	OfferMonthlyRepayment *decimal.Decimal `json:"offer_monthly_repayment,omitempty"`
}

func (r adminUpdateRequest) toInput() applications.AdminUpdateInput {
	input := applications.AdminUpdateInput{
		AdminNotes:            r.AdminNotes,
		IsHidden:              r.IsHidden,
		AcceptedLenderID:      r.AcceptedLenderID,
		OfferAmount:           r.OfferAmount,
		OfferTermMonths:       r.OfferTermMonths,
		OfferTotalCost:        r.OfferTotalCost,
		OfferMonthlyRepayment: r.OfferMonthlyRepayment,
	}
	if r.WorkflowStatus != nil {
		status := enums.WorkflowStatus(*r.WorkflowStatus)
		input.WorkflowStatus = &status
	}
	return input
}

// AdminUpdateApplication adjusts the admin-only fields.
func AdminUpdateApplication(svc applications.Service, logg *logger.Logger) http.HandlerFunc {
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

		var req adminUpdateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.UpdateAdminFields(r.Context(), actor, id, req.toInput()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

// AdminDeleteApplication cascades the delete across dependents and blobs.
func AdminDeleteApplication(svc applications.Service, logg *logger.Logger) http.HandlerFunc {
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

		if err := svc.Delete(r.Context(), actor, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}
