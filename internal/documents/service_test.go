package documents

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/brokerlane/brokerlane-backend/pkg/auth"
	"github.com/brokerlane/brokerlane-backend/pkg/db/models"
	"github.com/brokerlane/brokerlane-backend/pkg/enums"
	pkgerrors "github.com/brokerlane/brokerlane-backend/pkg/errors"
)

type stubDocumentsRepo struct {
	docs      map[uuid.UUID]*models.Document
	createErr error
}

func newStubDocumentsRepo() *stubDocumentsRepo {
	return &stubDocumentsRepo{docs: map[uuid.UUID]*models.Document{}}
}

func (s *stubDocumentsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubDocumentsRepo) Create(ctx context.Context, doc *models.Document) (*models.Document, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	s.docs[doc.ID] = doc
	return doc, nil
}

func (s *stubDocumentsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	doc, ok := s.docs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *doc
	return &copied, nil
}

func (s *stubDocumentsRepo) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]models.Document, error) {
	var out []models.Document
	for _, doc := range s.docs {
		if doc.ApplicationID == applicationID {
			out = append(out, *doc)
		}
	}
	return out, nil
}

func (s *stubDocumentsRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.docs, id)
	return nil
}

func (s *stubDocumentsRepo) DeleteByApplicationTx(ctx context.Context, tx *gorm.DB, applicationID uuid.UUID) error {
	for id, doc := range s.docs {
		if doc.ApplicationID == applicationID {
			delete(s.docs, id)
		}
	}
	return nil
}

type stubDocAppReader struct {
	apps map[uuid.UUID]*models.Application
}

func (s *stubDocAppReader) FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	app, ok := s.apps[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return app, nil
}

type stubBlobStore struct {
	uploaded  []string
	removed   []string
	uploadErr error
	removeErr error
}

func (s *stubBlobStore) Upload(ctx context.Context, path string, content io.Reader, contentType string) error {
	if s.uploadErr != nil {
		return s.uploadErr
	}
	s.uploaded = append(s.uploaded, path)
	return nil
}

func (s *stubBlobStore) Remove(ctx context.Context, paths []string) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	s.removed = append(s.removed, paths...)
	return nil
}

func (s *stubBlobStore) PublicURL(path string) string {
	return "https://storage.example.com/" + path
}

func newDocumentsFixture(t *testing.T) (Service, *stubDocumentsRepo, *stubBlobStore, *models.Application, auth.Actor) {
	t.Helper()

	owner := auth.Actor{UserID: uuid.New(), Role: enums.ActorRoleClient}
	app := &models.Application{
		ID:          uuid.New(),
		CreatedByID: owner.UserID,
		Stage:       enums.ApplicationStageSubmitted,
	}
	repo := newStubDocumentsRepo()
	blobs := &stubBlobStore{}
	svc, err := NewService(ServiceParams{
		Repo:         repo,
		Applications: &stubDocAppReader{apps: map[uuid.UUID]*models.Application{app.ID: app}},
		Blobs:        blobs,
	})
	require.NoError(t, err)
	return svc, repo, blobs, app, owner
}

func TestUploadWritesBlobThenRow(t *testing.T) {
	svc, repo, blobs, app, owner := newDocumentsFixture(t)

	view, err := svc.Upload(context.Background(), owner, UploadInput{
		ApplicationID: app.ID,
		Category:      enums.DocumentCategoryBankStatements,
		FileName:      "statements-march.pdf",
		MimeType:      "application/pdf",
		SizeBytes:     2048,
		Content:       strings.NewReader("pdf bytes"),
	})
	require.NoError(t, err)

	require.Len(t, blobs.uploaded, 1)
	assert.Contains(t, blobs.uploaded[0], "applications/"+owner.UserID.String()+"/"+app.ID.String()+"/")
	assert.Contains(t, blobs.uploaded[0], "statements-march.pdf")

	require.Len(t, repo.docs, 1)
	assert.Equal(t, enums.DocumentCategoryBankStatements, view.Category)
	assert.Equal(t, "statements-march.pdf", view.FileName)
	assert.Contains(t, view.URL, "https://storage.example.com/")
}

func TestUploadStripsPathComponents(t *testing.T) {
	svc, repo, _, app, owner := newDocumentsFixture(t)

	view, err := svc.Upload(context.Background(), owner, UploadInput{
		ApplicationID: app.ID,
		Category:      enums.DocumentCategoryBankStatements,
		FileName:      "../../etc/passwd",
		Content:       strings.NewReader("x"),
	})
	require.NoError(t, err)
	assert.Equal(t, "passwd", view.FileName)
	for _, doc := range repo.docs {
		assert.NotContains(t, doc.StoragePath, "..")
	}
}

func TestUploadRemovesOrphanedBlobOnRowFailure(t *testing.T) {
	svc, repo, blobs, app, owner := newDocumentsFixture(t)
	repo.createErr = errors.New("unique constraint violated")

	_, err := svc.Upload(context.Background(), owner, UploadInput{
		ApplicationID: app.ID,
		Category:      enums.DocumentCategoryBankStatements,
		FileName:      "dup.pdf",
		Content:       strings.NewReader("x"),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
	require.Len(t, blobs.uploaded, 1)
	assert.Equal(t, []string{blobs.uploaded[0]}, blobs.removed, "orphaned blob cleaned up")
}

func TestUploadRejectsUnknownCategory(t *testing.T) {
	svc, _, blobs, app, owner := newDocumentsFixture(t)

	_, err := svc.Upload(context.Background(), owner, UploadInput{
		ApplicationID: app.ID,
		Category:      enums.DocumentCategory("tax_returns_2019"),
		FileName:      "x.pdf",
		Content:       strings.NewReader("x"),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.Empty(t, blobs.uploaded)
}

func TestUploadForeignApplicationForbidden(t *testing.T) {
	svc, _, _, app, _ := newDocumentsFixture(t)

	stranger := auth.Actor{UserID: uuid.New(), Role: enums.ActorRoleClient}
	_, err := svc.Upload(context.Background(), stranger, UploadInput{
		ApplicationID: app.ID,
		Category:      enums.DocumentCategoryBankStatements,
		FileName:      "x.pdf",
		Content:       strings.NewReader("x"),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestRemoveDeletesBlobBeforeRow(t *testing.T) {
	svc, repo, blobs, app, owner := newDocumentsFixture(t)
	view, err := svc.Upload(context.Background(), owner, UploadInput{
		ApplicationID: app.ID,
		Category:      enums.DocumentCategoryBankStatements,
		FileName:      "statements.pdf",
		Content:       strings.NewReader("x"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(context.Background(), owner, view.ID))
	assert.Len(t, blobs.removed, 1)
	assert.Empty(t, repo.docs)
}

func TestRemoveAbortsWhenBlobRemovalFails(t *testing.T) {
	svc, repo, blobs, app, owner := newDocumentsFixture(t)
	view, err := svc.Upload(context.Background(), owner, UploadInput{
		ApplicationID: app.ID,
		Category:      enums.DocumentCategoryBankStatements,
		FileName:      "statements.pdf",
		Content:       strings.NewReader("x"),
	})
	require.NoError(t, err)

	blobs.removeErr = errors.New("bucket unavailable")
	err = svc.Remove(context.Background(), owner, view.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
	assert.Len(t, repo.docs, 1, "row survives so the blob stays reachable")
}
