package companies

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brokerlane/brokerlane-backend/pkg/auth"
	"github.com/brokerlane/brokerlane-backend/pkg/db/models"
	"github.com/brokerlane/brokerlane-backend/pkg/enums"
	pkgerrors "github.com/brokerlane/brokerlane-backend/pkg/errors"
	"github.com/brokerlane/brokerlane-backend/pkg/logger"
)

type profileReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

// Service exposes the partner-facing company operations. Clients get their
// company lazily through the intake wizard; partners create one explicitly
// for a client they refer.
type Service interface {
	CreateReferred(ctx context.Context, actor auth.Actor, input CreateReferredInput) (*View, error)
}

// CreateReferredInput carries the fields a partner supplies when registering
// a referred company. The primary director is the client profile the company
// belongs to.
type CreateReferredInput struct {
	Name              string              `json:"name" validate:"required"`
	PrimaryDirectorID uuid.UUID           `json:"primary_director_id" validate:"required"`
	CompanyNumber     *string             `json:"company_number,omitempty"`
	Industry          *string             `json:"industry,omitempty"`
	BusinessType      *enums.BusinessType `json:"business_type,omitempty"`
	RegisteredAddress *string             `json:"registered_address,omitempty"`
}

// View is the company shape returned to API callers.
type View struct {
	ID                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	CompanyNumber     *string    `json:"company_number,omitempty"`
	Industry          *string    `json:"industry,omitempty"`
	PrimaryDirectorID uuid.UUID  `json:"primary_director_id"`
	ReferredByID      *uuid.UUID `json:"referred_by_id,omitempty"`
	PartnerCompanyID  *uuid.UUID `json:"partner_company_id,omitempty"`
}

// ServiceParams collects the service dependencies.
type ServiceParams struct {
	Repo     Repository
	Profiles profileReader
	Logger   *logger.Logger
}

type service struct {
	repo     Repository
	profiles profileReader
	logg     *logger.Logger
}

// NewService builds a companies service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("companies repository required")
	}
	if params.Profiles == nil {
		return nil, fmt.Errorf("profiles reader required")
	}
	return &service{repo: params.Repo, profiles: params.Profiles, logg: params.Logger}, nil
}

// CreateReferred registers a company on behalf of a referred client. The
// referral linkage is stamped from the caller and validated against the
// caller's stored profile before anything is written.
func (s *service) CreateReferred(ctx context.Context, actor auth.Actor, input CreateReferredInput) (*View, error) {
	if !actor.IsPartner() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "creating referred companies is partner-only")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company name must not be empty")
	}
	if input.PrimaryDirectorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "primary director required")
	}

	director, err := s.profiles.FindByID(ctx, input.PrimaryDirectorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "director profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load director profile")
	}
	if director.Role != enums.ActorRoleClient {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "primary director must be a client profile")
	}

	// The token names the partner company, but the stored profile is the
	// source of truth for the referral invariant.
	referrer, err := s.profiles.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load referring profile")
	}

	referrerID := actor.UserID
	company := &models.Company{
		Name:              strings.TrimSpace(input.Name),
		CompanyNumber:     input.CompanyNumber,
		Industry:          input.Industry,
		BusinessType:      input.BusinessType,
		RegisteredAddress: input.RegisteredAddress,
		PrimaryDirectorID: input.PrimaryDirectorID,
		ReferredByID:      &referrerID,
		PartnerCompanyID:  referrer.PartnerCompanyID,
	}
	if err := CheckReferral(company, referrer); err != nil {
		return nil, err
	}

	company, err = s.repo.Create(ctx, company)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create company")
	}
	if s.logg != nil {
		s.logg.Info(ctx, "referred company created")
	}

	view := viewFromModel(company)
	return &view, nil
}

func viewFromModel(company *models.Company) View {
	return View{
		ID:                company.ID,
		Name:              company.Name,
		CompanyNumber:     company.CompanyNumber,
		Industry:          company.Industry,
		PrimaryDirectorID: company.PrimaryDirectorID,
		ReferredByID:      company.ReferredByID,
		PartnerCompanyID:  company.PartnerCompanyID,
	}
}
