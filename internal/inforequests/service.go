package inforequests

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brokerlane/brokerlane-backend/pkg/auth"
	"github.com/brokerlane/brokerlane-backend/pkg/db/models"
	"github.com/brokerlane/brokerlane-backend/pkg/enums"
	pkgerrors "github.com/brokerlane/brokerlane-backend/pkg/errors"
	"github.com/brokerlane/brokerlane-backend/pkg/logger"
)

type applicationReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error)
}

// Service drives the admin/client information request exchange.
type Service interface {
	Create(ctx context.Context, actor auth.Actor, applicationID uuid.UUID, input CreateInput) (*View, error)
	Respond(ctx context.Context, actor auth.Actor, requestID uuid.UUID, response string) (*View, error)
	Resolve(ctx context.Context, actor auth.Actor, requestID uuid.UUID) (*View, error)
	ListByApplication(ctx context.Context, actor auth.Actor, applicationID uuid.UUID) ([]View, error)
}

// ServiceParams collects the service dependencies.
type ServiceParams struct {
	Repo         Repository
	Applications applicationReader
	Logger       *logger.Logger
}

type service struct {
	repo Repository
	apps applicationReader
	logg *logger.Logger
}

// NewService builds an information requests service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("information requests repository required")
	}
	if params.Applications == nil {
		return nil, fmt.Errorf("applications reader required")
	}
	return &service{repo: params.Repo, apps: params.Applications, logg: params.Logger}, nil
}

// Create raises a new pending request against an application. Only admins
// raise requests; title and message must carry content.
func (s *service) Create(ctx context.Context, actor auth.Actor, applicationID uuid.UUID, input CreateInput) (*View, error) {
	if !actor.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "raising information requests is admin-only")
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title must not be empty")
	}
	if strings.TrimSpace(input.Message) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message must not be empty")
	}
	if _, err := s.loadApplication(ctx, applicationID); err != nil {
		return nil, err
	}

	req, err := s.repo.Create(ctx, &models.InformationRequest{
		ApplicationID: applicationID,
		CreatedByID:   actor.UserID,
		Title:         strings.TrimSpace(input.Title),
		Message:       strings.TrimSpace(input.Message),
		Description:   input.Description,
		Status:        enums.InformationRequestStatusPending,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create information request")
	}
	if s.logg != nil {
		s.logg.Info(ctx, "information request raised")
	}
	view := viewFromModel(req)
	return &view, nil
}

// Respond records the client's answer. Text, timestamp and status move
// together so a responded row always carries both the response and the time
// it arrived. Completed requests no longer accept responses.
func (s *service) Respond(ctx context.Context, actor auth.Actor, requestID uuid.UUID, response string) (*View, error) {
	if strings.TrimSpace(response) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "response must not be empty")
	}
	req, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	app, err := s.loadApplication(ctx, req.ApplicationID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && app.CreatedByID != actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the application owner may respond")
	}
	if req.Status == enums.InformationRequestStatusCompleted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "request is already completed")
	}

	now := time.Now().UTC()
	text := strings.TrimSpace(response)
	if err := s.repo.UpdateFields(ctx, requestID, map[string]any{
		"client_response_text": text,
		"client_responded_at":  now,
		"status":               enums.InformationRequestStatusClientResponded,
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record response")
	}

	req.ClientResponseText = &text
	req.ClientRespondedAt = &now
	req.Status = enums.InformationRequestStatusClientResponded
	view := viewFromModel(req)
	return &view, nil
}

// Resolve closes a request. Completion is terminal regardless of whether the
// client ever responded.
func (s *service) Resolve(ctx context.Context, actor auth.Actor, requestID uuid.UUID) (*View, error) {
	if !actor.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "resolving information requests is admin-only")
	}
	req, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status == enums.InformationRequestStatusCompleted {
		view := viewFromModel(req)
		return &view, nil
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateFields(ctx, requestID, map[string]any{
		"status":      enums.InformationRequestStatusCompleted,
		"resolved_at": now,
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve information request")
	}

	req.Status = enums.InformationRequestStatusCompleted
	req.ResolvedAt = &now
	view := viewFromModel(req)
	return &view, nil
}

func (s *service) ListByApplication(ctx context.Context, actor auth.Actor, applicationID uuid.UUID) ([]View, error) {
	app, err := s.loadApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && app.CreatedByID != actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not authorized for this application")
	}
	reqs, err := s.repo.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list information requests")
	}
	views := make([]View, 0, len(reqs))
	for i := range reqs {
		views = append(views, viewFromModel(&reqs[i]))
	}
	return views, nil
}

func (s *service) loadApplication(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "application id required")
	}
	app, err := s.apps.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "application not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load application")
	}
	return app, nil
}

func (s *service) loadRequest(ctx context.Context, id uuid.UUID) (*models.InformationRequest, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "information request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load information request")
	}
	return req, nil
}
