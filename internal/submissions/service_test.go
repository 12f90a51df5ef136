package submissions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/brokerlane/brokerlane-backend/internal/applications"
	"github.com/brokerlane/brokerlane-backend/internal/lenders"
	"github.com/brokerlane/brokerlane-backend/pkg/auth"
	"github.com/brokerlane/brokerlane-backend/pkg/db/models"
	"github.com/brokerlane/brokerlane-backend/pkg/enums"
	pkgerrors "github.com/brokerlane/brokerlane-backend/pkg/errors"
)

type stubSubmissionsRepo struct {
	rows map[uuid.UUID]*models.LenderSubmission
}

func newStubSubmissionsRepo() *stubSubmissionsRepo {
	return &stubSubmissionsRepo{rows: map[uuid.UUID]*models.LenderSubmission{}}
}

func (s *stubSubmissionsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubSubmissionsRepo) CreateBatch(ctx context.Context, rows []models.LenderSubmission) error {
	for i := range rows {
		if rows[i].ID == uuid.Nil {
			rows[i].ID = uuid.New()
		}
		copied := rows[i]
		s.rows[copied.ID] = &copied
	}
	return nil
}

func (s *stubSubmissionsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.LenderSubmission, error) {
	row, ok := s.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *row
	return &copied, nil
}

func (s *stubSubmissionsRepo) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]models.LenderSubmission, error) {
	var out []models.LenderSubmission
	for _, row := range s.rows {
		if row.ApplicationID == applicationID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (s *stubSubmissionsRepo) ExistingLenderIDs(ctx context.Context, applicationID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, row := range s.rows {
		if row.ApplicationID == applicationID {
			ids = append(ids, row.LenderID)
		}
	}
	return ids, nil
}

func (s *stubSubmissionsRepo) UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	row, ok := s.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for column, value := range updates {
		switch column {
		case "status":
			row.Status = value.(enums.SubmissionStatus)
		case "sent_at":
			v := value.(time.Time)
			row.SentAt = &v
		case "retry_count":
			row.RetryCount = value.(int)
		case "last_error":
			if value == nil {
				row.LastError = nil
			} else {
				v := value.(string)
				row.LastError = &v
			}
		}
	}
	return nil
}

func (s *stubSubmissionsRepo) DeleteByApplicationTx(ctx context.Context, tx *gorm.DB, applicationID uuid.UUID) error {
	for id, row := range s.rows {
		if row.ApplicationID == applicationID {
			delete(s.rows, id)
		}
	}
	return nil
}

type stubAppsReader struct {
	applications.Repository

	apps           map[uuid.UUID]*models.Application
	workflowWrites []map[string]any
	withTxCalls    int
}

func (s *stubAppsReader) FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	app, ok := s.apps[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return app, nil
}

// WithTx returns a write handle; any update that bypasses it panics on the
// embedded nil Repository, so escaping the transaction fails the test.
func (s *stubAppsReader) WithTx(tx *gorm.DB) applications.Repository {
	s.withTxCalls++
	return &txBoundApps{parent: s}
}

type txBoundApps struct {
	applications.Repository

	parent *stubAppsReader
}

func (t *txBoundApps) UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	t.parent.workflowWrites = append(t.parent.workflowWrites, updates)
	return nil
}

type stubLendersRepo struct {
	lenders map[uuid.UUID]models.Lender
}

func (s *stubLendersRepo) WithTx(tx *gorm.DB) lenders.Repository { return s }

func (s *stubLendersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Lender, error) {
	lender, ok := s.lenders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &lender, nil
}

func (s *stubLendersRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Lender, error) {
	var out []models.Lender
	for _, id := range ids {
		if lender, ok := s.lenders[id]; ok {
			out = append(out, lender)
		}
	}
	return out, nil
}

func (s *stubLendersRepo) ListWithCriteria(ctx context.Context) ([]models.Lender, error) {
	var out []models.Lender
	for _, lender := range s.lenders {
		out = append(out, lender)
	}
	return out, nil
}

type stubDeliverer struct {
	calls   int
	failFor map[uuid.UUID]error
}

func (s *stubDeliverer) Deliver(ctx context.Context, app *models.Application, lender *models.Lender) error {
	s.calls++
	if err, ok := s.failFor[lender.ID]; ok {
		return err
	}
	return nil
}

type stubAutomation struct {
	notified [][]uuid.UUID
}

func (s *stubAutomation) SubmittedToLenders(ctx context.Context, applicationID uuid.UUID, lenderIDs []uuid.UUID) {
	s.notified = append(s.notified, lenderIDs)
}

type stubDeliveryMetrics struct {
	outcomes []string
}

func (s *stubDeliveryMetrics) ObserveDeliveryOutcome(method, outcome string) {
	s.outcomes = append(s.outcomes, method+":"+outcome)
}

type submissionsFixture struct {
	svc        Service
	repo       *stubSubmissionsRepo
	apps       *stubAppsReader
	panel      *stubLendersRepo
	delivery   *stubDeliverer
	automation *stubAutomation
	metrics    *stubDeliveryMetrics
	app        *models.Application
	lenderIDs  []uuid.UUID
}

type submissionsTx struct{}

func (submissionsTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newSubmissionsFixture(t *testing.T, allowTerminal bool) *submissionsFixture {
	t.Helper()

	app := &models.Application{ID: uuid.New(), Stage: enums.ApplicationStageSubmitted}
	apps := &stubAppsReader{apps: map[uuid.UUID]*models.Application{app.ID: app}}

	panel := &stubLendersRepo{lenders: map[uuid.UUID]models.Lender{}}
	var lenderIDs []uuid.UUID
	for _, method := range []enums.SubmissionMethod{enums.SubmissionMethodEmail, enums.SubmissionMethodAPI, enums.SubmissionMethodEmail} {
		id := uuid.New()
		panel.lenders[id] = models.Lender{
			ID:       id,
			Name:     "Lender " + id.String()[:8],
			Method:   method,
			Criteria: &models.LenderCriteria{LenderID: id, PanelVisible: true},
		}
		lenderIDs = append(lenderIDs, id)
	}

	repo := newStubSubmissionsRepo()
	delivery := &stubDeliverer{failFor: map[uuid.UUID]error{}}
	automation := &stubAutomation{}
	metrics := &stubDeliveryMetrics{}

	svc, err := NewService(ServiceParams{
		Repo:                     repo,
		Applications:             apps,
		Lenders:                  panel,
		Tx:                       submissionsTx{},
		Delivery:                 delivery,
		Automation:               automation,
		Metrics:                  metrics,
		AllowTerminalSubmissions: allowTerminal,
	})
	require.NoError(t, err)

	return &submissionsFixture{
		svc:        svc,
		repo:       repo,
		apps:       apps,
		panel:      panel,
		delivery:   delivery,
		automation: automation,
		metrics:    metrics,
		app:        app,
		lenderIDs:  lenderIDs,
	}
}

var submissionsAdmin = auth.Actor{UserID: uuid.New(), Role: enums.ActorRoleAdmin}

func TestSendBatchCreatesPendingRowsAndDelivers(t *testing.T) {
	f := newSubmissionsFixture(t, false)

	result, err := f.svc.SendBatch(context.Background(), submissionsAdmin, f.app.ID, f.lenderIDs)
	require.NoError(t, err)
	require.Len(t, result.Created, 3)
	assert.Empty(t, result.Skipped)
	assert.Equal(t, 3, f.delivery.calls)
	require.Len(t, f.automation.notified, 1)
	assert.Len(t, f.automation.notified[0], 3)

	require.Len(t, f.apps.workflowWrites, 1)
	assert.Equal(t, enums.WorkflowStatusSubmittedToLenders, f.apps.workflowWrites[0]["workflow_status"])

	for _, row := range f.repo.rows {
		assert.Equal(t, enums.SubmissionStatusSent, row.Status)
		assert.NotNil(t, row.SentAt)
		assert.Nil(t, row.LastError)
	}
	assert.Len(t, f.metrics.outcomes, 3)
}

func TestSendBatchSkipsAlreadySubmittedLenders(t *testing.T) {
	f := newSubmissionsFixture(t, false)

	first, err := f.svc.SendBatch(context.Background(), submissionsAdmin, f.app.ID, f.lenderIDs[:1])
	require.NoError(t, err)
	require.Len(t, first.Created, 1)

	// Resending the full panel only creates rows for the two new lenders.
	second, err := f.svc.SendBatch(context.Background(), submissionsAdmin, f.app.ID, f.lenderIDs)
	require.NoError(t, err)
	assert.Len(t, second.Created, 2)
	assert.Equal(t, []uuid.UUID{f.lenderIDs[0]}, second.Skipped)
	assert.Len(t, f.repo.rows, 3)
}

func TestSendBatchDeduplicatesInput(t *testing.T) {
	f := newSubmissionsFixture(t, false)

	doubled := []uuid.UUID{f.lenderIDs[0], f.lenderIDs[0], f.lenderIDs[1]}
	result, err := f.svc.SendBatch(context.Background(), submissionsAdmin, f.app.ID, doubled)
	require.NoError(t, err)
	assert.Len(t, result.Created, 2)
}

func TestSendBatchRejectsUnknownLender(t *testing.T) {
	f := newSubmissionsFixture(t, false)

	_, err := f.svc.SendBatch(context.Background(), submissionsAdmin, f.app.ID, []uuid.UUID{uuid.New()})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.Empty(t, f.repo.rows)
}

func TestSendBatchBlocksTerminalStage(t *testing.T) {
	f := newSubmissionsFixture(t, false)
	f.app.Stage = enums.ApplicationStageDeclined

	_, err := f.svc.SendBatch(context.Background(), submissionsAdmin, f.app.ID, f.lenderIDs[:1])
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
	assert.Empty(t, f.repo.rows)
}

func TestSendBatchTerminalOverride(t *testing.T) {
	f := newSubmissionsFixture(t, true)
	f.app.Stage = enums.ApplicationStageDeclined

	result, err := f.svc.SendBatch(context.Background(), submissionsAdmin, f.app.ID, f.lenderIDs[:1])
	require.NoError(t, err)
	assert.Len(t, result.Created, 1)
}

func TestSendBatchAdminOnly(t *testing.T) {
	f := newSubmissionsFixture(t, false)

	partner := auth.Actor{UserID: uuid.New(), Role: enums.ActorRolePartner}
	_, err := f.svc.SendBatch(context.Background(), partner, f.app.ID, f.lenderIDs[:1])
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestSendBatchRecordsFailureWithoutRemovingRow(t *testing.T) {
	f := newSubmissionsFixture(t, false)
	failing := f.lenderIDs[0]
	f.delivery.failFor[failing] = errors.New("relay refused the message")

	result, err := f.svc.SendBatch(context.Background(), submissionsAdmin, f.app.ID, f.lenderIDs[:1])
	require.NoError(t, err, "delivery failure is recorded, not surfaced")
	require.Len(t, result.Created, 1)

	require.Len(t, f.repo.rows, 1)
	for _, row := range f.repo.rows {
		assert.Equal(t, enums.SubmissionStatusFailed, row.Status)
		require.NotNil(t, row.LastError)
		assert.Contains(t, *row.LastError, "relay refused")
		assert.Nil(t, row.SentAt)
	}
}

func TestAvailableLendersExcludesSubmitted(t *testing.T) {
	f := newSubmissionsFixture(t, false)

	_, err := f.svc.SendBatch(context.Background(), submissionsAdmin, f.app.ID, f.lenderIDs[:1])
	require.NoError(t, err)

	available, err := f.svc.AvailableLenders(context.Background(), submissionsAdmin, f.app.ID)
	require.NoError(t, err)
	assert.Len(t, available, 2)
	for _, lender := range available {
		assert.NotEqual(t, f.lenderIDs[0], lender.ID)
	}
}

func TestAvailableLendersHonorsPanelVisibility(t *testing.T) {
	f := newSubmissionsFixture(t, false)

	hiddenID := uuid.New()
	f.panel.lenders[hiddenID] = models.Lender{
		ID:       hiddenID,
		Name:     "Off panel",
		Method:   enums.SubmissionMethodEmail,
		Criteria: &models.LenderCriteria{LenderID: hiddenID, PanelVisible: false},
	}

	available, err := f.svc.AvailableLenders(context.Background(), submissionsAdmin, f.app.ID)
	require.NoError(t, err)
	assert.Len(t, available, 3)
}

func TestAcknowledgeRequiresSentStatus(t *testing.T) {
	f := newSubmissionsFixture(t, false)
	failing := f.lenderIDs[0]
	f.delivery.failFor[failing] = errors.New("down")

	_, err := f.svc.SendBatch(context.Background(), submissionsAdmin, f.app.ID, f.lenderIDs[:2])
	require.NoError(t, err)

	var failedID, sentID uuid.UUID
	for id, row := range f.repo.rows {
		switch row.Status {
		case enums.SubmissionStatusFailed:
			failedID = id
		case enums.SubmissionStatusSent:
			sentID = id
		}
	}

	err = f.svc.Acknowledge(context.Background(), submissionsAdmin, failedID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())

	require.NoError(t, f.svc.Acknowledge(context.Background(), submissionsAdmin, sentID))
	assert.Equal(t, enums.SubmissionStatusAcknowledged, f.repo.rows[sentID].Status)

	// Acknowledging twice is a no-op.
	require.NoError(t, f.svc.Acknowledge(context.Background(), submissionsAdmin, sentID))
}

func TestRetryOnlyFailedOrRetryRows(t *testing.T) {
	f := newSubmissionsFixture(t, false)
	failing := f.lenderIDs[0]
	f.delivery.failFor[failing] = errors.New("down")

	_, err := f.svc.SendBatch(context.Background(), submissionsAdmin, f.app.ID, f.lenderIDs[:2])
	require.NoError(t, err)

	var failedID, sentID uuid.UUID
	for id, row := range f.repo.rows {
		switch row.Status {
		case enums.SubmissionStatusFailed:
			failedID = id
		case enums.SubmissionStatusSent:
			sentID = id
		}
	}

	err = f.svc.Retry(context.Background(), submissionsAdmin, sentID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())

	// First retry still fails: status moves to retry and the count increments.
	err = f.svc.Retry(context.Background(), submissionsAdmin, failedID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
	assert.Equal(t, enums.SubmissionStatusRetry, f.repo.rows[failedID].Status)
	assert.Equal(t, 1, f.repo.rows[failedID].RetryCount)

	// Second retry succeeds once the lender recovers.
	delete(f.delivery.failFor, failing)
	require.NoError(t, f.svc.Retry(context.Background(), submissionsAdmin, failedID))
	assert.Equal(t, enums.SubmissionStatusSent, f.repo.rows[failedID].Status)
	assert.NotNil(t, f.repo.rows[failedID].SentAt)
	assert.Nil(t, f.repo.rows[failedID].LastError)
}

func TestListByApplicationAdminOnly(t *testing.T) {
	f := newSubmissionsFixture(t, false)

	client := auth.Actor{UserID: uuid.New(), Role: enums.ActorRoleClient}
	_, err := f.svc.ListByApplication(context.Background(), client, f.app.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

type failingCommitTx struct{}

func (failingCommitTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if err := fn(nil); err != nil {
		return err
	}
	return errors.New("commit failed")
}

func TestSendBatchWorkflowFlipStaysInTransaction(t *testing.T) {
	f := newSubmissionsFixture(t, false)

	result, err := f.svc.SendBatch(context.Background(), submissionsAdmin, f.app.ID, f.lenderIDs)
	require.NoError(t, err)
	require.Len(t, result.Created, 3)
	assert.Equal(t, 1, f.apps.withTxCalls, "workflow flip rides the batch transaction")
	require.Len(t, f.apps.workflowWrites, 1)
	assert.Equal(t, enums.WorkflowStatusSubmittedToLenders, f.apps.workflowWrites[0]["workflow_status"])
}

func TestSendBatchCommitFailureSkipsDelivery(t *testing.T) {
	f := newSubmissionsFixture(t, false)

	svc, err := NewService(ServiceParams{
		Repo:         f.repo,
		Applications: f.apps,
		Lenders:      f.panel,
		Tx:           failingCommitTx{},
		Delivery:     f.delivery,
		Automation:   f.automation,
		Metrics:      f.metrics,
	})
	require.NoError(t, err)

	_, err = svc.SendBatch(context.Background(), submissionsAdmin, f.app.ID, f.lenderIDs)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
	assert.Zero(t, f.delivery.calls, "nothing delivered for an uncommitted batch")
	assert.Empty(t, f.automation.notified)
}
