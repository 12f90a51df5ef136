package inforequests

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/brokerlane/brokerlane-backend/pkg/auth"
	"github.com/brokerlane/brokerlane-backend/pkg/db/models"
	"github.com/brokerlane/brokerlane-backend/pkg/enums"
	pkgerrors "github.com/brokerlane/brokerlane-backend/pkg/errors"
)

type stubRequestsRepo struct {
	reqs map[uuid.UUID]*models.InformationRequest
}

func newStubRequestsRepo() *stubRequestsRepo {
	return &stubRequestsRepo{reqs: map[uuid.UUID]*models.InformationRequest{}}
}

func (s *stubRequestsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRequestsRepo) Create(ctx context.Context, req *models.InformationRequest) (*models.InformationRequest, error) {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	s.reqs[req.ID] = req
	return req, nil
}

func (s *stubRequestsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.InformationRequest, error) {
	req, ok := s.reqs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *req
	return &copied, nil
}

func (s *stubRequestsRepo) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]models.InformationRequest, error) {
	var out []models.InformationRequest
	for _, req := range s.reqs {
		if req.ApplicationID == applicationID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (s *stubRequestsRepo) UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	req, ok := s.reqs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for column, value := range updates {
		switch column {
		case "status":
			req.Status = value.(enums.InformationRequestStatus)
		case "client_response_text":
			v := value.(string)
			req.ClientResponseText = &v
		case "client_responded_at":
			v := value.(time.Time)
			req.ClientRespondedAt = &v
		case "resolved_at":
			v := value.(time.Time)
			req.ResolvedAt = &v
		}
	}
	return nil
}

func (s *stubRequestsRepo) DeleteByApplicationTx(ctx context.Context, tx *gorm.DB, applicationID uuid.UUID) error {
	for id, req := range s.reqs {
		if req.ApplicationID == applicationID {
			delete(s.reqs, id)
		}
	}
	return nil
}

type stubAppLookup struct {
	apps map[uuid.UUID]*models.Application
}

func (s *stubAppLookup) FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	app, ok := s.apps[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return app, nil
}

func newRequestsFixture(t *testing.T) (Service, *stubRequestsRepo, *models.Application, auth.Actor) {
	t.Helper()

	owner := auth.Actor{UserID: uuid.New(), Role: enums.ActorRoleClient}
	app := &models.Application{
		ID:          uuid.New(),
		CreatedByID: owner.UserID,
		Stage:       enums.ApplicationStageInfoRequired,
	}
	repo := newStubRequestsRepo()
	svc, err := NewService(ServiceParams{
		Repo:         repo,
		Applications: &stubAppLookup{apps: map[uuid.UUID]*models.Application{app.ID: app}},
	})
	require.NoError(t, err)
	return svc, repo, app, owner
}

var requestsAdmin = auth.Actor{UserID: uuid.New(), Role: enums.ActorRoleAdmin}

func TestCreateRequiresAdminAndContent(t *testing.T) {
	svc, _, app, owner := newRequestsFixture(t)

	input := CreateInput{Title: "Quarterly accounts", Message: "need last quarter's accounts"}
	_, err := svc.Create(context.Background(), owner, app.ID, input)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())

	_, err = svc.Create(context.Background(), requestsAdmin, app.ID, CreateInput{Title: "Quarterly accounts", Message: "   "})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Create(context.Background(), requestsAdmin, app.ID, CreateInput{Title: "  ", Message: "need last quarter's accounts"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	view, err := svc.Create(context.Background(), requestsAdmin, app.ID, CreateInput{
		Title:   "  Quarterly accounts  ",
		Message: "  need last quarter's accounts  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Quarterly accounts", view.Title)
	assert.Equal(t, "need last quarter's accounts", view.Message)
	assert.Equal(t, enums.InformationRequestStatusPending, view.Status)
}

func TestCreateStampsRequestingAdmin(t *testing.T) {
	svc, repo, app, _ := newRequestsFixture(t)

	detail := "the last three months, statements for all accounts"
	view, err := svc.Create(context.Background(), requestsAdmin, app.ID, CreateInput{
		Title:       "Bank statements",
		Message:     "please upload bank statements",
		Description: &detail,
	})
	require.NoError(t, err)

	stored := repo.reqs[view.ID]
	assert.Equal(t, requestsAdmin.UserID, stored.CreatedByID)
	assert.Equal(t, "Bank statements", stored.Title)
	require.NotNil(t, stored.Description)
	assert.Equal(t, detail, *stored.Description)
}

func TestRespondMovesTextTimestampAndStatusTogether(t *testing.T) {
	svc, repo, app, owner := newRequestsFixture(t)
	created, err := svc.Create(context.Background(), requestsAdmin, app.ID, CreateInput{Title: "Bank statements", Message: "bank statements please"})
	require.NoError(t, err)

	view, err := svc.Respond(context.Background(), owner, created.ID, "  uploaded to the documents tab  ")
	require.NoError(t, err)
	assert.Equal(t, enums.InformationRequestStatusClientResponded, view.Status)
	require.NotNil(t, view.ClientResponse)
	assert.Equal(t, "uploaded to the documents tab", *view.ClientResponse)
	assert.NotNil(t, view.ClientRespondedAt)

	stored := repo.reqs[created.ID]
	assert.Equal(t, enums.InformationRequestStatusClientResponded, stored.Status)
	require.NotNil(t, stored.ClientResponseText)
	assert.NotNil(t, stored.ClientRespondedAt)
}

func TestRespondRejectsStrangers(t *testing.T) {
	svc, _, app, _ := newRequestsFixture(t)
	created, err := svc.Create(context.Background(), requestsAdmin, app.ID, CreateInput{Title: "Proof of address", Message: "proof of address"})
	require.NoError(t, err)

	stranger := auth.Actor{UserID: uuid.New(), Role: enums.ActorRoleClient}
	_, err = svc.Respond(context.Background(), stranger, created.ID, "here you go")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestRespondRejectsCompletedRequest(t *testing.T) {
	svc, _, app, owner := newRequestsFixture(t)
	created, err := svc.Create(context.Background(), requestsAdmin, app.ID, CreateInput{Title: "Director ID", Message: "director ID"})
	require.NoError(t, err)

	_, err = svc.Resolve(context.Background(), requestsAdmin, created.ID)
	require.NoError(t, err)

	_, err = svc.Respond(context.Background(), owner, created.ID, "too late?")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestResolveIsIdempotent(t *testing.T) {
	svc, repo, app, _ := newRequestsFixture(t)
	created, err := svc.Create(context.Background(), requestsAdmin, app.ID, CreateInput{Title: "Application form", Message: "signed application form"})
	require.NoError(t, err)

	first, err := svc.Resolve(context.Background(), requestsAdmin, created.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.InformationRequestStatusCompleted, first.Status)
	require.NotNil(t, repo.reqs[created.ID].ResolvedAt)
	resolvedAt := *repo.reqs[created.ID].ResolvedAt

	second, err := svc.Resolve(context.Background(), requestsAdmin, created.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.InformationRequestStatusCompleted, second.Status)
	assert.Equal(t, resolvedAt, *repo.reqs[created.ID].ResolvedAt, "resolution time is not rewritten")
}

func TestListByApplicationScopedToOwner(t *testing.T) {
	svc, _, app, owner := newRequestsFixture(t)
	_, err := svc.Create(context.Background(), requestsAdmin, app.ID, CreateInput{Title: "One", Message: "one"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), requestsAdmin, app.ID, CreateInput{Title: "Two", Message: "two"})
	require.NoError(t, err)

	views, err := svc.ListByApplication(context.Background(), owner, app.ID)
	require.NoError(t, err)
	assert.Len(t, views, 2)

	stranger := auth.Actor{UserID: uuid.New(), Role: enums.ActorRoleClient}
	_, err = svc.ListByApplication(context.Background(), stranger, app.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}
