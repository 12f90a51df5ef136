package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/brokerlane/brokerlane-backend/api/middleware"
	"github.com/brokerlane/brokerlane-backend/api/responses"
	"github.com/brokerlane/brokerlane-backend/api/validators"
	"github.com/brokerlane/brokerlane-backend/internal/documents"
	"github.com/brokerlane/brokerlane-backend/pkg/enums"
	pkgerrors "github.com/brokerlane/brokerlane-backend/pkg/errors"
	"github.com/brokerlane/brokerlane-backend/pkg/logger"
)

const maxDocumentBytes = 32 << 20 // 32 MiB

// UploadDocument accepts one multipart file plus a category field and stores
// blob and row.
func UploadDocument(svc documents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "documents service unavailable"))
			return
		}
		actor := middleware.ActorFromContext(r.Context())

		appID, err := validators.UUIDParam(chi.URLParam(r, "applicationId"), "application id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := r.ParseMultipartForm(maxDocumentBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body"))
			return
		}

		category, err := enums.ParseDocumentCategory(strings.TrimSpace(r.FormValue("category")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid category"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file is required"))
			return
		}
		defer file.Close()

		view, err := svc.Upload(r.Context(), actor, documents.UploadInput{
			ApplicationID: appID,
			Category:      category,
			FileName:      header.Filename,
			MimeType:      header.Header.Get("Content-Type"),
			SizeBytes:     header.Size,
			Content:       file,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// ListDocuments lists an application's documents.
func ListDocuments(svc documents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "documents service unavailable"))
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

// DeleteDocument removes blob first, row second.
func DeleteDocument(svc documents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "documents service unavailable"))
			return
		}
		actor := middleware.ActorFromContext(r.Context())

		id, err := validators.UUIDParam(chi.URLParam(r, "documentId"), "document id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Remove(r.Context(), actor, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
