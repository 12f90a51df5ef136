package submissions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brokerlane/brokerlane-backend/internal/applications"
	"github.com/brokerlane/brokerlane-backend/internal/lenders"
	"github.com/brokerlane/brokerlane-backend/pkg/auth"
	"github.com/brokerlane/brokerlane-backend/pkg/db/models"
	"github.com/brokerlane/brokerlane-backend/pkg/enums"
	pkgerrors "github.com/brokerlane/brokerlane-backend/pkg/errors"
	"github.com/brokerlane/brokerlane-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type applicationReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error)
	WithTx(tx *gorm.DB) applications.Repository
}

type deliverer interface {
	Deliver(ctx context.Context, app *models.Application, lender *models.Lender) error
}

type automationNotifier interface {
	SubmittedToLenders(ctx context.Context, applicationID uuid.UUID, lenderIDs []uuid.UUID)
}

type deliveryObserver interface {
	ObserveDeliveryOutcome(method, outcome string)
}

// Service drives the per-lender submission sub-machine.
type Service interface {
	AvailableLenders(ctx context.Context, actor auth.Actor, applicationID uuid.UUID) ([]AvailableLender, error)
	SendBatch(ctx context.Context, actor auth.Actor, applicationID uuid.UUID, lenderIDs []uuid.UUID) (*BatchResult, error)
	Acknowledge(ctx context.Context, actor auth.Actor, submissionID uuid.UUID) error
	Retry(ctx context.Context, actor auth.Actor, submissionID uuid.UUID) error
	ListByApplication(ctx context.Context, actor auth.Actor, applicationID uuid.UUID) ([]View, error)
}

// ServiceParams collects the service dependencies.
type ServiceParams struct {
	Repo                     Repository
	Applications             applicationReader
	Lenders                  lenders.Repository
	Matcher                  lenders.Matcher
	Tx                       txRunner
	Delivery                 deliverer
	Automation               automationNotifier
	Metrics                  deliveryObserver
	Logger                   *logger.Logger
	AllowTerminalSubmissions bool
}

type service struct {
	repo          Repository
	apps          applicationReader
	lenders       lenders.Repository
	matcher       lenders.Matcher
	tx            txRunner
	delivery      deliverer
	automation    automationNotifier
	metrics       deliveryObserver
	logg          *logger.Logger
	allowTerminal bool
}

// NewService builds a lender submissions service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("submissions repository required")
	}
	if params.Applications == nil {
		return nil, fmt.Errorf("applications reader required")
	}
	if params.Lenders == nil {
		return nil, fmt.Errorf("lenders repository required")
	}
	if params.Matcher == nil {
		params.Matcher = lenders.NewPanelMatcher()
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Delivery == nil {
		return nil, fmt.Errorf("delivery collaborator required")
	}
	return &service{
		repo:          params.Repo,
		apps:          params.Applications,
		lenders:       params.Lenders,
		matcher:       params.Matcher,
		tx:            params.Tx,
		delivery:      params.Delivery,
		automation:    params.Automation,
		metrics:       params.Metrics,
		logg:          params.Logger,
		allowTerminal: params.AllowTerminalSubmissions,
	}, nil
}

// AvailableLenders returns the eligible panel minus lenders that already hold
// a submission row for this application.
func (s *service) AvailableLenders(ctx context.Context, actor auth.Actor, applicationID uuid.UUID) ([]AvailableLender, error) {
	if !actor.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "lender selection is admin-only")
	}
	app, err := s.loadApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	panel, err := s.lenders.ListWithCriteria(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list lender panel")
	}
	eligible := s.matcher.EligibleLenders(ctx, app, panel)

	existing, err := s.repo.ExistingLenderIDs(ctx, applicationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list existing submissions")
	}
	taken := make(map[uuid.UUID]struct{}, len(existing))
	for _, id := range existing {
		taken[id] = struct{}{}
	}

	available := make([]AvailableLender, 0, len(eligible))
	for _, lender := range eligible {
		if _, ok := taken[lender.ID]; ok {
			continue
		}
		available = append(available, AvailableLender{
			ID:     lender.ID,
			Name:   lender.Name,
			Method: lender.Method,
		})
	}
	return available, nil
}

// SendBatch creates one pending row per not-yet-submitted lender in a single
// transaction, marks the application as submitted to lenders, then hands the
// rows to the delivery collaborator. Delivery failure never removes a row:
// the commercial record of the attempt must survive.
func (s *service) SendBatch(ctx context.Context, actor auth.Actor, applicationID uuid.UUID, lenderIDs []uuid.UUID) (*BatchResult, error) {
	if !actor.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "sending to lenders is admin-only")
	}
	if len(lenderIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one lender is required")
	}

	app, err := s.loadApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Stage.IsTerminal() && !s.allowTerminal {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("application is already %s", app.Stage))
	}

	selected, err := s.lenders.FindByIDs(ctx, dedupe(lenderIDs))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load lenders")
	}
	if len(selected) != len(dedupe(lenderIDs)) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "one or more lenders do not exist")
	}

	existing, err := s.repo.ExistingLenderIDs(ctx, applicationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list existing submissions")
	}
	taken := make(map[uuid.UUID]struct{}, len(existing))
	for _, id := range existing {
		taken[id] = struct{}{}
	}

	var (
		rows    []models.LenderSubmission
		skipped []uuid.UUID
		chosen  []models.Lender
	)
	for _, lender := range selected {
		if _, ok := taken[lender.ID]; ok {
			skipped = append(skipped, lender.ID)
			continue
		}
		rows = append(rows, models.LenderSubmission{
			ApplicationID: applicationID,
			LenderID:      lender.ID,
			Method:        lender.Method,
			Status:        enums.SubmissionStatusPending,
		})
		chosen = append(chosen, lender)
	}

	if len(rows) > 0 {
		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			if err := s.repo.WithTx(tx).CreateBatch(ctx, rows); err != nil {
				return err
			}
			return s.apps.WithTx(tx).UpdateFields(ctx, applicationID, map[string]any{
				"workflow_status": enums.WorkflowStatusSubmittedToLenders,
			})
		})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create submission batch")
		}
	}

	result := &BatchResult{Skipped: skipped}
	for i := range rows {
		result.Created = append(result.Created, viewFromModel(&rows[i]))
	}

	if len(rows) > 0 {
		if s.automation != nil {
			ids := make([]uuid.UUID, 0, len(rows))
			for _, row := range rows {
				ids = append(ids, row.LenderID)
			}
			s.automation.SubmittedToLenders(ctx, applicationID, ids)
		}
		for i := range rows {
			s.deliverRow(ctx, app, &rows[i], &chosen[i])
		}
	}
	return result, nil
}

// deliverRow attempts delivery for a freshly created or retried row and
// records the outcome on the submission.
func (s *service) deliverRow(ctx context.Context, app *models.Application, row *models.LenderSubmission, lender *models.Lender) {
	err := s.delivery.Deliver(ctx, app, lender)
	outcome := DeliveryOutcomeSent
	if err != nil {
		outcome = DeliveryOutcomeFailed
	}
	if recordErr := s.recordOutcome(ctx, row.ID, row.RetryCount, outcome, err); recordErr != nil && s.logg != nil {
		s.logg.Error(ctx, "record delivery outcome", recordErr)
	}
	if s.metrics != nil {
		s.metrics.ObserveDeliveryOutcome(lender.Method.String(), string(outcome))
	}
}

func (s *service) recordOutcome(ctx context.Context, submissionID uuid.UUID, retryCount int, outcome DeliveryOutcome, deliveryErr error) error {
	updates := map[string]any{}
	switch outcome {
	case DeliveryOutcomeSent:
		updates["status"] = enums.SubmissionStatusSent
		updates["sent_at"] = time.Now().UTC()
		updates["last_error"] = nil
	case DeliveryOutcomeRetry:
		updates["status"] = enums.SubmissionStatusRetry
		updates["retry_count"] = retryCount + 1
		if deliveryErr != nil {
			updates["last_error"] = deliveryErr.Error()
		}
	default:
		updates["status"] = enums.SubmissionStatusFailed
		if deliveryErr != nil {
			updates["last_error"] = deliveryErr.Error()
		}
	}
	return s.repo.UpdateFields(ctx, submissionID, updates)
}

// Acknowledge marks a sent submission as acknowledged by the lender.
func (s *service) Acknowledge(ctx context.Context, actor auth.Actor, submissionID uuid.UUID) error {
	if !actor.IsAdmin() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "acknowledging submissions is admin-only")
	}
	row, err := s.loadSubmission(ctx, submissionID)
	if err != nil {
		return err
	}
	if row.Status == enums.SubmissionStatusAcknowledged {
		return nil
	}
	if row.Status != enums.SubmissionStatusSent {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot acknowledge a %s submission", row.Status))
	}
	if err := s.repo.UpdateFields(ctx, submissionID, map[string]any{
		"status": enums.SubmissionStatusAcknowledged,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update submission")
	}
	return nil
}

// Retry re-attempts delivery for a failed or retry-flagged submission. The
// retry is operator-triggered; nothing re-sends automatically.
func (s *service) Retry(ctx context.Context, actor auth.Actor, submissionID uuid.UUID) error {
	if !actor.IsAdmin() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "retrying submissions is admin-only")
	}
	row, err := s.loadSubmission(ctx, submissionID)
	if err != nil {
		return err
	}
	if row.Status != enums.SubmissionStatusFailed && row.Status != enums.SubmissionStatusRetry {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot retry a %s submission", row.Status))
	}

	app, err := s.loadApplication(ctx, row.ApplicationID)
	if err != nil {
		return err
	}
	lender, err := s.lenders.FindByID(ctx, row.LenderID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load lender")
	}

	deliveryErr := s.delivery.Deliver(ctx, app, lender)
	outcome := DeliveryOutcomeSent
	if deliveryErr != nil {
		outcome = DeliveryOutcomeRetry
	}
	if err := s.recordOutcome(ctx, row.ID, row.RetryCount, outcome, deliveryErr); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record retry outcome")
	}
	if s.metrics != nil {
		s.metrics.ObserveDeliveryOutcome(lender.Method.String(), string(outcome))
	}
	if deliveryErr != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, deliveryErr, "lender delivery failed")
	}
	return nil
}

func (s *service) ListByApplication(ctx context.Context, actor auth.Actor, applicationID uuid.UUID) ([]View, error) {
	if !actor.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "submission history is admin-only")
	}
	if _, err := s.loadApplication(ctx, applicationID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list submissions")
	}
	views := make([]View, 0, len(rows))
	for i := range rows {
		views = append(views, viewFromModel(&rows[i]))
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

func (s *service) loadSubmission(ctx context.Context, id uuid.UUID) (*models.LenderSubmission, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "submission id required")
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "submission not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load submission")
	}
	return row, nil
}

func viewFromModel(row *models.LenderSubmission) View {
	return View{
		ID:            row.ID,
		ApplicationID: row.ApplicationID,
		LenderID:      row.LenderID,
		Method:        row.Method,
		Status:        row.Status,
		SentAt:        row.SentAt,
		RetryCount:    row.RetryCount,
		LastError:     row.LastError,
		CreatedAt:     row.CreatedAt,
	}
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
