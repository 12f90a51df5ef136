package intake

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brokerlane/brokerlane-backend/pkg/auth"
	"github.com/brokerlane/brokerlane-backend/pkg/db/models"
	"github.com/brokerlane/brokerlane-backend/pkg/enums"
	pkgerrors "github.com/brokerlane/brokerlane-backend/pkg/errors"
)

// Resolve reconciles profile, company and draft application rows into one
// form state. Lookup failures degrade to a step-1 form with whatever loaded;
// the intake funnel stays open even when part of the backend is down. Only
// authorization failures are hard errors.
func (s *service) Resolve(ctx context.Context, actor auth.Actor, explicitID *uuid.UUID) (*FormState, error) {
	state := &FormState{Step: StepCompany}

	profile, err := s.profiles.FindByID(ctx, actor.UserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.warn(ctx, "resolve: load profile", err)
		state.Degraded = true
	}

	app, err := s.resolveApplication(ctx, actor, explicitID)
	if err != nil {
		var coded *pkgerrors.Error
		if errors.As(err, &coded) && (coded.Code() == pkgerrors.CodeForbidden || coded.Code() == pkgerrors.CodeNotFound) {
			return nil, err
		}
		s.warn(ctx, "resolve: load draft", err)
		state.Degraded = true
	}

	var company *models.Company
	switch {
	case app != nil && app.CompanyID != nil:
		company, err = s.companies.FindByID(ctx, *app.CompanyID)
	default:
		company, err = s.companies.FindByPrimaryDirector(ctx, actor.UserID)
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.warn(ctx, "resolve: load company", err)
		state.Degraded = true
		company = nil
	}

	var docs []models.Document
	if app != nil {
		docs, err = s.documents.ListByApplication(ctx, app.ID)
		if err != nil {
			s.warn(ctx, "resolve: list documents", err)
			state.Degraded = true
		}
	}

	mergeFormState(state, profile, company, app, docs)
	if state.Degraded {
		state.Step = StepCompany
	}
	return state, nil
}

// resolveApplication loads the explicit application or the caller's newest
// draft. More than one open draft is a data anomaly: pick the newest, log the
// rest, never auto-merge.
func (s *service) resolveApplication(ctx context.Context, actor auth.Actor, explicitID *uuid.UUID) (*models.Application, error) {
	if explicitID != nil {
		app, err := s.apps.FindByID(ctx, *explicitID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "application not found")
			}
			return nil, err
		}
		if !actor.IsAdmin() && app.CreatedByID != actor.UserID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not authorized for this application")
		}
		return app, nil
	}

	drafts, err := s.apps.FindDraftsByCreator(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if len(drafts) == 0 {
		return nil, nil
	}
	if len(drafts) > 1 && s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"draft_count": len(drafts),
			"picked":      drafts[0].ID.String(),
		})
		s.logg.Warn(logCtx, "multiple open drafts for one caller, using newest")
	}
	return &drafts[0], nil
}

// mergeFormState folds the three sources into the wizard form. Where the
// same logical field lives on two rows (names on profile and director
// record), the profile wins.
func mergeFormState(state *FormState, profile *models.Profile, company *models.Company, app *models.Application, docs []models.Document) {
	if profile != nil {
		state.Personal = PersonalForm{
			FirstName:      profile.FirstName,
			LastName:       profile.LastName,
			Email:          profile.Email,
			Phone:          profile.Phone,
			DateOfBirth:    profile.DateOfBirth,
			PropertyStatus: profile.PropertyStatus,
		}
	}
	if company != nil {
		id := company.ID
		state.CompanyID = &id
		state.Company = CompanyForm{
			Name:              company.Name,
			CompanyNumber:     company.CompanyNumber,
			Industry:          company.Industry,
			BusinessType:      company.BusinessType,
			RegisteredAddress: company.RegisteredAddress,
		}
	}
	if app != nil {
		id := app.ID
		state.ApplicationID = &id
		state.Funding = FundingForm{
			Purpose:       app.Purpose,
			PurposeDetail: app.PurposeDetail,
			LoanType:      app.LoanType,
			Urgency:       app.Urgency,
			TradingMonths: app.TradingMonths,
		}
		if app.RequestedAmount.Valid {
			amount := app.RequestedAmount.Decimal
			state.Funding.Amount = &amount
		}
		if app.MonthlyRevenue.Valid {
			revenue := app.MonthlyRevenue.Decimal
			state.Funding.MonthlyRevenue = &revenue
		}
	}
	for i := range docs {
		state.Documents = append(state.Documents, DocumentSummary{
			ID:       docs[i].ID,
			Category: docs[i].Category,
			FileName: docs[i].FileName,
		})
	}
	state.Step = resumeStep(state)
}

// resumeStep picks the first step whose required data is still missing.
func resumeStep(state *FormState) int {
	if state.CompanyID == nil || state.Company.Name == "" || state.Company.Industry == nil {
		return StepCompany
	}
	personal := state.Personal
	if personal.FirstName == nil || personal.LastName == nil || personal.Phone == nil ||
		personal.DateOfBirth == nil || personal.PropertyStatus == nil {
		return StepPersonal
	}
	if state.ApplicationID == nil || state.Funding.Amount == nil || state.Funding.Purpose == nil {
		return StepFunding
	}
	categories := make([]enums.DocumentCategory, 0, len(state.Documents))
	for _, doc := range state.Documents {
		categories = append(categories, doc.Category)
	}
	if !hasBankStatements(categories) {
		return StepDocuments
	}
	return StepReview
}
