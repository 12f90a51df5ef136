package applications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brokerlane/brokerlane-backend/pkg/auth"
	"github.com/brokerlane/brokerlane-backend/pkg/db/models"
	"github.com/brokerlane/brokerlane-backend/pkg/enums"
	pkgerrors "github.com/brokerlane/brokerlane-backend/pkg/errors"
	"github.com/brokerlane/brokerlane-backend/pkg/logger"
	"github.com/brokerlane/brokerlane-backend/pkg/pagination"
)

// Service drives the application stage machine, the role-scoped projections
// and the cascading delete.
type Service interface {
	ChangeStage(ctx context.Context, actor auth.Actor, id uuid.UUID, target enums.ApplicationStage) error
	UpdateAdminFields(ctx context.Context, actor auth.Actor, id uuid.UUID, input AdminUpdateInput) error
	Delete(ctx context.Context, actor auth.Actor, id uuid.UUID) error
	Get(ctx context.Context, actor auth.Actor, id uuid.UUID) (*Detail, error)
	List(ctx context.Context, actor auth.Actor, params pagination.Params) ([]Summary, error)
}

// ServiceParams collects the service dependencies.
type ServiceParams struct {
	Repo        Repository
	Tx          txRunner
	Companies   companyReader
	Documents   documentLister
	Blobs       blobRemover
	Dependents  []DependentRemover
	Metrics     transitionObserver
	Logger      *logger.Logger
}

type service struct {
	repo       Repository
	tx         txRunner
	companies  companyReader
	documents  documentLister
	blobs      blobRemover
	dependents []DependentRemover
	metrics    transitionObserver
	logg       *logger.Logger
}

// NewService builds the applications service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("applications repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Companies == nil {
		return nil, fmt.Errorf("companies reader required")
	}
	if params.Documents == nil {
		return nil, fmt.Errorf("document lister required")
	}
	if params.Blobs == nil {
		return nil, fmt.Errorf("blob remover required")
	}
	return &service{
		repo:       params.Repo,
		tx:         params.Tx,
		companies:  params.Companies,
		documents:  params.Documents,
		blobs:      params.Blobs,
		dependents: params.Dependents,
		metrics:    params.Metrics,
		logg:       params.Logger,
	}, nil
}

func (s *service) ChangeStage(ctx context.Context, actor auth.Actor, id uuid.UUID, target enums.ApplicationStage) error {
	if !actor.IsAdmin() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "stage changes are admin-only")
	}
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "application id required")
	}
	if !target.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown stage %q", target))
	}

	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "application not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load application")
	}

	if app.Stage == target {
		return nil
	}
	if !app.Stage.CanTransitionTo(target) {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move a %s application to %s", app.Stage, target)).
			WithDetails(map[string]any{"from": app.Stage, "to": target})
	}

	updates := map[string]any{"stage": target}
	if target == enums.ApplicationStageSubmitted && app.SubmittedAt == nil {
		updates["submitted_at"] = time.Now().UTC()
	}

	if err := s.repo.UpdateFieldsGuarded(ctx, id, updates, app.UpdatedAt); err != nil {
		if errors.Is(err, ErrStale) {
			return pkgerrors.New(pkgerrors.CodeConflict, "application changed since it was loaded")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update stage")
	}

	if s.metrics != nil {
		s.metrics.ObserveStageTransition(app.Stage.String(), target.String())
	}
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"application_id": id.String(),
			"from":           app.Stage.String(),
			"to":             target.String(),
		})
		s.logg.Info(logCtx, "application stage changed")
	}
	return nil
}

func (s *service) UpdateAdminFields(ctx context.Context, actor auth.Actor, id uuid.UUID, input AdminUpdateInput) error {
	if !actor.IsAdmin() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "admin fields are admin-only")
	}
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "application id required")
	}

	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "application not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load application")
	}

	updates := adminFieldDiff(app, input)
	if len(updates) == 0 {
		return nil
	}
	if err := s.repo.UpdateFieldsGuarded(ctx, id, updates, app.UpdatedAt); err != nil {
		if errors.Is(err, ErrStale) {
			return pkgerrors.New(pkgerrors.CodeConflict, "application changed since it was loaded")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update application")
	}
	return nil
}

func adminFieldDiff(app *models.Application, input AdminUpdateInput) map[string]any {
	updates := map[string]any{}
	if input.AdminNotes != nil && (app.AdminNotes == nil || *app.AdminNotes != *input.AdminNotes) {
		updates["admin_notes"] = *input.AdminNotes
	}
	if input.WorkflowStatus != nil && app.WorkflowStatus != *input.WorkflowStatus {
		updates["workflow_status"] = *input.WorkflowStatus
	}
	if input.IsHidden != nil && app.IsHidden != *input.IsHidden {
		updates["is_hidden"] = *input.IsHidden
	}
	if input.AcceptedLenderID != nil && (app.AcceptedLenderID == nil || *app.AcceptedLenderID != *input.AcceptedLenderID) {
		updates["accepted_lender_id"] = *input.AcceptedLenderID
	}
	if input.OfferAmount != nil && (!app.OfferAmount.Valid || !app.OfferAmount.Decimal.Equal(*input.OfferAmount)) {
		updates["offer_amount"] = *input.OfferAmount
	}
	if input.OfferTermMonths != nil && (app.OfferTermMonths == nil || *app.OfferTermMonths != *input.OfferTermMonths) {
		updates["offer_term_months"] = *input.OfferTermMonths
	}
	if input.OfferTotalCost != nil && (!app.OfferTotalCost.Valid || !app.OfferTotalCost.Decimal.Equal(*input.OfferTotalCost)) {
		updates["offer_total_cost"] = *input.OfferTotalCost
	}
	if input.OfferMonthlyRepayment != nil && (!app.OfferMonthlyRepayment.Valid || !app.OfferMonthlyRepayment.Decimal.Equal(*input.OfferMonthlyRepayment)) {
		updates["offer_monthly_repayment"] = *input.OfferMonthlyRepayment
	}
	return updates
}

// Delete cascades over documents (blobs first), information requests, lender
// submissions and offers before removing the application row itself. Row
// deletion happens in one transaction; a blob cleanup failure is reported but
// no longer blocks the row cascade, so callers can retry the orphaned paths.
func (s *service) Delete(ctx context.Context, actor auth.Actor, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "application delete is admin-only")
	}
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "application id required")
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "application not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load application")
	}

	docs, err := s.documents.ListByApplication(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list documents")
	}

	var blobErr error
	if len(docs) > 0 {
		paths := make([]string, 0, len(docs))
		for _, doc := range docs {
			paths = append(paths, doc.StoragePath)
		}
		if blobErr = s.blobs.Remove(ctx, paths); blobErr != nil && s.logg != nil {
			logCtx := s.logg.WithApplicationID(ctx, id.String())
			s.logg.Warn(logCtx, "blob cleanup incomplete during application delete")
		}
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		for _, dep := range s.dependents {
			if err := dep.DeleteByApplicationTx(ctx, tx, id); err != nil {
				return err
			}
		}
		return s.repo.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete application")
	}

	if blobErr != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, blobErr, "application deleted but blob cleanup incomplete").
			WithDetails(map[string]any{"application_id": id.String()})
	}
	return nil
}

func (s *service) Get(ctx context.Context, actor auth.Actor, id uuid.UUID) (*Detail, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "application id required")
	}

	app, err := s.repo.FindByIDWithRelations(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "application not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load application")
	}

	if err := s.authorizeRead(ctx, actor, app); err != nil {
		return nil, err
	}
	return detailFromModel(app, actor.IsAdmin()), nil
}

func (s *service) authorizeRead(ctx context.Context, actor auth.Actor, app *models.Application) error {
	switch {
	case actor.IsAdmin():
		return nil
	case actor.IsPartner():
		if actor.PartnerCompanyID == nil || app.CompanyID == nil {
			return pkgerrors.New(pkgerrors.CodeForbidden, "application is outside your partner book")
		}
		company, err := s.companies.FindByID(ctx, *app.CompanyID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load company")
		}
		if company.PartnerCompanyID == nil || *company.PartnerCompanyID != *actor.PartnerCompanyID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "application is outside your partner book")
		}
		return nil
	default:
		if app.CreatedByID != actor.UserID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "application belongs to another client")
		}
		if app.IsHidden && app.Stage == enums.ApplicationStageCreated {
			return pkgerrors.New(pkgerrors.CodeNotFound, "application not found")
		}
		return nil
	}
}

func (s *service) List(ctx context.Context, actor auth.Actor, params pagination.Params) ([]Summary, error) {
	var (
		apps []models.Application
		err  error
	)
	switch {
	case actor.IsAdmin():
		apps, err = s.repo.ListAll(ctx, params)
	case actor.IsPartner():
		if actor.PartnerCompanyID == nil {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "partner company missing from credentials")
		}
		apps, err = s.repo.ListByPartnerCompany(ctx, *actor.PartnerCompanyID, params)
	default:
		apps, err = s.repo.ListByCreator(ctx, actor.UserID, params)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list applications")
	}

	summaries := make([]Summary, 0, len(apps))
	for i := range apps {
		summaries = append(summaries, summaryFromModel(&apps[i]))
	}
	return summaries, nil
}
