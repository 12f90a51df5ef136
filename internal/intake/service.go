package intake

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/brokerlane/brokerlane-backend/internal/applications"
	"github.com/brokerlane/brokerlane-backend/internal/companies"
	"github.com/brokerlane/brokerlane-backend/internal/profiles"
	"github.com/brokerlane/brokerlane-backend/pkg/auth"
	"github.com/brokerlane/brokerlane-backend/pkg/db/models"
	"github.com/brokerlane/brokerlane-backend/pkg/enums"
	pkgerrors "github.com/brokerlane/brokerlane-backend/pkg/errors"
	"github.com/brokerlane/brokerlane-backend/pkg/logger"
)

type documentLister interface {
	ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]models.Document, error)
}

// Service is the intake wizard: draft resolution, per-step validation gates,
// diffed persistence, and final submission.
type Service interface {
	Resolve(ctx context.Context, actor auth.Actor, explicitID *uuid.UUID) (*FormState, error)
	AdvanceStep(ctx context.Context, actor auth.Actor, input StepInput) (*FormState, error)
	SaveAndExit(ctx context.Context, actor auth.Actor, input StepInput) error
	Submit(ctx context.Context, actor auth.Actor, applicationID uuid.UUID, personal *PersonalStepInput) (*SubmitResult, error)
}

// ServiceParams collects the service dependencies.
type ServiceParams struct {
	Profiles     profiles.Repository
	Companies    companies.Repository
	Applications applications.Repository
	Documents    documentLister
	Logger       *logger.Logger
}

type service struct {
	profiles  profiles.Repository
	companies companies.Repository
	apps      applications.Repository
	documents documentLister
	logg      *logger.Logger
	now       func() time.Time
}

// NewService builds the intake wizard service.
func NewService(params ServiceParams) (Service, error) {
	if params.Profiles == nil {
		return nil, fmt.Errorf("profiles repository required")
	}
	if params.Companies == nil {
		return nil, fmt.Errorf("companies repository required")
	}
	if params.Applications == nil {
		return nil, fmt.Errorf("applications repository required")
	}
	if params.Documents == nil {
		return nil, fmt.Errorf("documents lister required")
	}
	return &service{
		profiles:  params.Profiles,
		companies: params.Companies,
		apps:      params.Applications,
		documents: params.Documents,
		logg:      params.Logger,
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

// AdvanceStep validates the gate for the step being left, persists its diffed
// writes, and returns the re-resolved form positioned at the next step.
func (s *service) AdvanceStep(ctx context.Context, actor auth.Actor, input StepInput) (*FormState, error) {
	if err := s.applyStep(ctx, actor, input); err != nil {
		return nil, err
	}
	state, err := s.Resolve(ctx, actor, input.ApplicationID)
	if err != nil {
		return nil, err
	}
	if next := input.Step + 1; next <= StepReview && next > state.Step {
		state.Step = next
	}
	return state, nil
}

// SaveAndExit performs the same diffed writes as advancing but skips the
// validation gate for fields the user never filled and leaves the stage
// untouched. The draft stays resumable.
func (s *service) SaveAndExit(ctx context.Context, actor auth.Actor, input StepInput) error {
	switch input.Step {
	case StepCompany:
		if input.Company == nil {
			return nil
		}
		if strings.TrimSpace(input.Company.Name) == "" {
			return nil
		}
		_, err := s.upsertCompany(ctx, actor, input.Company)
		return err
	case StepPersonal:
		if input.Personal == nil {
			return nil
		}
		return s.writeProfile(ctx, actor, input.Personal)
	case StepFunding, StepDocuments, StepReview:
		if input.Funding == nil {
			return nil
		}
		_, err := s.upsertApplication(ctx, actor, input.ApplicationID, input.Funding)
		return err
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown wizard step")
	}
}

// Submit is the only stage transition the wizard can make: created ->
// submitted, with a timestamp and one final diffed profile write.
func (s *service) Submit(ctx context.Context, actor auth.Actor, applicationID uuid.UUID, personal *PersonalStepInput) (*SubmitResult, error) {
	app, err := s.loadOwnedApplication(ctx, actor, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Stage != enums.ApplicationStageCreated {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("application is already %s", app.Stage))
	}

	if personal != nil {
		if err := s.writeProfile(ctx, actor, personal); err != nil {
			return nil, err
		}
	}

	now := s.now()
	err = s.apps.UpdateFields(ctx, app.ID, map[string]any{
		"stage":        enums.ApplicationStageSubmitted,
		"submitted_at": now,
		"is_hidden":    false,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "submit application")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithApplicationID(ctx, app.ID.String()), "application submitted")
	}
	return &SubmitResult{
		ApplicationID: app.ID,
		Stage:         enums.ApplicationStageSubmitted,
		SubmittedAt:   now,
	}, nil
}

func (s *service) applyStep(ctx context.Context, actor auth.Actor, input StepInput) error {
	switch input.Step {
	case StepCompany:
		if err := validateCompanyStep(input.Company); err != nil {
			return err
		}
		_, err := s.upsertCompany(ctx, actor, input.Company)
		return err
	case StepPersonal:
		if err := validatePersonalStep(input.Personal, s.now()); err != nil {
			return err
		}
		return s.writeProfile(ctx, actor, input.Personal)
	case StepFunding:
		if err := validateFundingStep(input.Funding); err != nil {
			return err
		}
		_, err := s.upsertApplication(ctx, actor, input.ApplicationID, input.Funding)
		return err
	case StepDocuments:
		return s.checkDocumentsStep(ctx, actor, input)
	case StepReview:
		return nil
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown wizard step")
	}
}

// upsertCompany creates the caller's company or applies a diffed update to
// the existing row. The director name fields land on the profile only when
// the profile has none: the profile is the authoritative identity record.
func (s *service) upsertCompany(ctx context.Context, actor auth.Actor, input *CompanyStepInput) (*models.Company, error) {
	company, err := s.companies.FindByPrimaryDirector(ctx, actor.UserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load company")
	}

	if company == nil {
		company = &models.Company{
			Name:              strings.TrimSpace(input.Name),
			CompanyNumber:     input.CompanyNumber,
			BusinessType:      input.BusinessType,
			RegisteredAddress: input.RegisteredAddress,
			PrimaryDirectorID: actor.UserID,
		}
		industry := strings.TrimSpace(input.Industry)
		company.Industry = &industry
		if company, err = s.companies.Create(ctx, company); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create company")
		}
	} else {
		updates := map[string]any{}
		diffString(updates, "name", &company.Name, strings.TrimSpace(input.Name))
		industry := strings.TrimSpace(input.Industry)
		diffStringPtr(updates, "industry", company.Industry, &industry)
		diffStringPtr(updates, "company_number", company.CompanyNumber, input.CompanyNumber)
		diffStringPtr(updates, "registered_address", company.RegisteredAddress, input.RegisteredAddress)
		diffEnum(updates, "business_type", company.BusinessType, input.BusinessType)
		if len(updates) > 0 {
			if err := s.companies.UpdateFields(ctx, company.ID, updates); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update company")
			}
		}
	}

	s.seedProfileNames(ctx, actor, input.DirectorFirstName, input.DirectorLastName)
	return company, nil
}

// seedProfileNames fills empty profile name fields from the director record.
// An existing profile name always wins; failure here never blocks the step.
func (s *service) seedProfileNames(ctx context.Context, actor auth.Actor, firstName, lastName string) {
	profile, err := s.profiles.FindByID(ctx, actor.UserID)
	if err != nil {
		s.warn(ctx, "seed profile names: load profile", err)
		return
	}
	updates := map[string]any{}
	if profile.FirstName == nil || *profile.FirstName == "" {
		if name := strings.TrimSpace(firstName); name != "" {
			updates["first_name"] = name
		}
	}
	if profile.LastName == nil || *profile.LastName == "" {
		if name := strings.TrimSpace(lastName); name != "" {
			updates["last_name"] = name
		}
	}
	if len(updates) == 0 {
		return
	}
	if err := s.profiles.UpdateFields(ctx, actor.UserID, updates); err != nil {
		s.warn(ctx, "seed profile names: update profile", err)
	}
}

func (s *service) writeProfile(ctx context.Context, actor auth.Actor, input *PersonalStepInput) error {
	profile, err := s.profiles.FindByID(ctx, actor.UserID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	updates := map[string]any{}
	if name := strings.TrimSpace(input.FirstName); name != "" {
		diffStringPtr(updates, "first_name", profile.FirstName, &name)
	}
	if name := strings.TrimSpace(input.LastName); name != "" {
		diffStringPtr(updates, "last_name", profile.LastName, &name)
	}
	if phone := strings.TrimSpace(input.Phone); phone != "" {
		diffStringPtr(updates, "phone", profile.Phone, &phone)
	}
	diffDatePtr(updates, "date_of_birth", profile.DateOfBirth, input.DateOfBirth)
	if input.PropertyStatus != "" {
		status := input.PropertyStatus
		diffEnum(updates, "property_status", profile.PropertyStatus, &status)
	}
	if len(updates) == 0 {
		return nil
	}
	if err := s.profiles.UpdateFields(ctx, actor.UserID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
	}
	return nil
}

// upsertApplication creates the draft row or applies a diffed update to the
// existing one.
func (s *service) upsertApplication(ctx context.Context, actor auth.Actor, explicitID *uuid.UUID, input *FundingStepInput) (*models.Application, error) {
	app, err := s.findDraft(ctx, actor, explicitID)
	if err != nil {
		return nil, err
	}

	if app == nil {
		app = &models.Application{
			CreatedByID:     actor.UserID,
			RequestedAmount: decimal.NewNullDecimal(input.Amount),
			Purpose:         &input.Purpose,
			PurposeDetail:   input.PurposeDetail,
			LoanType:        input.LoanType,
			Urgency:         input.Urgency,
			TradingMonths:   input.TradingMonths,
			Stage:           enums.ApplicationStageCreated,
			IsHidden:        true,
		}
		if input.MonthlyRevenue != nil {
			app.MonthlyRevenue = decimal.NewNullDecimal(*input.MonthlyRevenue)
		}
		if company, err := s.companies.FindByPrimaryDirector(ctx, actor.UserID); err == nil {
			id := company.ID
			app.CompanyID = &id
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.warn(ctx, "link company to draft", err)
		}
		if app, err = s.apps.Create(ctx, app); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create application")
		}
		return app, nil
	}

	updates := map[string]any{}
	amount := input.Amount
	diffDecimal(updates, "requested_amount", app.RequestedAmount, &amount)
	purpose := input.Purpose
	diffEnum(updates, "purpose", app.Purpose, &purpose)
	diffStringPtr(updates, "purpose_detail", app.PurposeDetail, input.PurposeDetail)
	diffEnum(updates, "loan_type", app.LoanType, input.LoanType)
	diffEnum(updates, "urgency", app.Urgency, input.Urgency)
	diffDecimal(updates, "monthly_revenue", app.MonthlyRevenue, input.MonthlyRevenue)
	diffIntPtr(updates, "trading_months", app.TradingMonths, input.TradingMonths)
	if app.CompanyID == nil {
		if company, err := s.companies.FindByPrimaryDirector(ctx, actor.UserID); err == nil {
			updates["company_id"] = company.ID
		}
	}
	if len(updates) > 0 {
		if err := s.apps.UpdateFields(ctx, app.ID, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update application")
		}
	}
	return app, nil
}

// checkDocumentsStep verifies the bank-statements requirement. If no draft
// exists yet it is created from the funding payload; absent funding data is a
// hard validation failure, never a silent empty row.
func (s *service) checkDocumentsStep(ctx context.Context, actor auth.Actor, input StepInput) error {
	app, err := s.findDraft(ctx, actor, input.ApplicationID)
	if err != nil {
		return err
	}
	if app == nil {
		if input.Funding == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "funding request must be completed before documents")
		}
		if err := validateFundingStep(input.Funding); err != nil {
			return err
		}
		if app, err = s.upsertApplication(ctx, actor, nil, input.Funding); err != nil {
			return err
		}
	}

	docs, err := s.documents.ListByApplication(ctx, app.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list documents")
	}
	categories := make([]enums.DocumentCategory, 0, len(docs))
	for i := range docs {
		categories = append(categories, docs[i].Category)
	}
	if !hasBankStatements(categories) {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one bank statement is required")
	}
	return nil
}

func (s *service) findDraft(ctx context.Context, actor auth.Actor, explicitID *uuid.UUID) (*models.Application, error) {
	if explicitID != nil {
		return s.loadOwnedApplication(ctx, actor, *explicitID)
	}
	drafts, err := s.apps.FindDraftsByCreator(ctx, actor.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load drafts")
	}
	if len(drafts) == 0 {
		return nil, nil
	}
	return &drafts[0], nil
}

func (s *service) loadOwnedApplication(ctx context.Context, actor auth.Actor, id uuid.UUID) (*models.Application, error) {
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
	if !actor.IsAdmin() && app.CreatedByID != actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not authorized for this application")
	}
	return app, nil
}

func (s *service) warn(ctx context.Context, msg string, err error) {
	if s.logg == nil {
		return
	}
	s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), msg)
}
