package inforequests

import (
	"time"

	"github.com/google/uuid"

	"github.com/brokerlane/brokerlane-backend/pkg/db/models"
	"github.com/brokerlane/brokerlane-backend/pkg/enums"
)

// CreateInput carries the admin's request for additional material.
type CreateInput struct {
	Title       string
	Message     string
	Description *string
}

// View is the API projection of an information request.
type View struct {
	ID                uuid.UUID                      `json:"id"`
	ApplicationID     uuid.UUID                      `json:"application_id"`
	Title             string                         `json:"title"`
	Message           string                         `json:"message"`
	Description       *string                        `json:"description,omitempty"`
	Status            enums.InformationRequestStatus `json:"status"`
	ClientResponse    *string                        `json:"client_response,omitempty"`
	ClientRespondedAt *time.Time                     `json:"client_responded_at,omitempty"`
	ResolvedAt        *time.Time                     `json:"resolved_at,omitempty"`
	CreatedAt         time.Time                      `json:"created_at"`
}

func viewFromModel(req *models.InformationRequest) View {
	return View{
		ID:                req.ID,
		ApplicationID:     req.ApplicationID,
		Title:             req.Title,
		Message:           req.Message,
		Description:       req.Description,
		Status:            req.Status,
		ClientResponse:    req.ClientResponseText,
		ClientRespondedAt: req.ClientRespondedAt,
		ResolvedAt:        req.ResolvedAt,
		CreatedAt:         req.CreatedAt,
	}
}
