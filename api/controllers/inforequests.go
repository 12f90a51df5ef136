package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brokerlane/brokerlane-backend/api/middleware"
	"github.com/brokerlane/brokerlane-backend/api/responses"
	"github.com/brokerlane/brokerlane-backend/api/validators"
	"github.com/brokerlane/brokerlane-backend/internal/inforequests"
	pkgerrors "github.com/brokerlane/brokerlane-backend/pkg/errors"
	"github.com/brokerlane/brokerlane-backend/pkg/logger"
)

type createInfoRequestRequest struct {
	Title       string  `json:"title" validate:"required,min=1"`
	Message     string  `json:"message" validate:"required,min=1"`
	Description *string `json:"description,omitempty"`
}

// CreateInfoRequest raises an admin request for additional material.
func CreateInfoRequest(svc inforequests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "information requests service unavailable"))
			return
		}
		actor := middleware.ActorFromContext(r.Context())

		appID, err := validators.UUIDParam(chi.URLParam(r, "applicationId"), "application id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createInfoRequestRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Create(r.Context(), actor, appID, inforequests.CreateInput{
			Title:       req.Title,
			Message:     req.Message,
			Description: req.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// ListInfoRequests lists an application's information requests.
func ListInfoRequests(svc inforequests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "information requests service unavailable"))
			return
		}
		actor := middleware.ActorFromContext(r.Context())

		appID, err := validators.UUIDParam(chi.URLParam(r, "applicationId"), "application id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views, err := svc.ListByApplication(r.Context(), actor, appID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, views)
	}
}

type respondInfoRequestRequest struct {
	Response string `json:"response" validate:"required,min=1"`
}

// RespondInfoRequest records the client's answer to an open request.
func RespondInfoRequest(svc inforequests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "information requests service unavailable"))
			return
		}
		actor := middleware.ActorFromContext(r.Context())

		id, err := validators.UUIDParam(chi.URLParam(r, "requestId"), "request id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req respondInfoRequestRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Respond(r.Context(), actor, id, req.Response)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// ResolveInfoRequest closes a request; resolution is terminal.
func ResolveInfoRequest(svc inforequests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "information requests service unavailable"))
			return
		}
		actor := middleware.ActorFromContext(r.Context())

		id, err := validators.UUIDParam(chi.URLParam(r, "requestId"), "request id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Resolve(r.Context(), actor, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
