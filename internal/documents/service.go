package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
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

type blobStore interface {
	Upload(ctx context.Context, path string, content io.Reader, contentType string) error
	Remove(ctx context.Context, paths []string) error
	PublicURL(path string) string
}

// UploadInput carries everything needed to attach a file to an application.
type UploadInput struct {
	ApplicationID uuid.UUID
	Category      enums.DocumentCategory
	FileName      string
	MimeType      string
	SizeBytes     int64
	Content       io.Reader
}

// Service manages application document blobs and their rows.
type Service interface {
	Upload(ctx context.Context, actor auth.Actor, input UploadInput) (*View, error)
	Remove(ctx context.Context, actor auth.Actor, documentID uuid.UUID) error
	ListByApplication(ctx context.Context, actor auth.Actor, applicationID uuid.UUID) ([]View, error)
}

// ServiceParams collects the service dependencies.
type ServiceParams struct {
	Repo         Repository
	Applications applicationReader
	Blobs        blobStore
	Logger       *logger.Logger
}

type service struct {
	repo  Repository
	apps  applicationReader
	blobs blobStore
	logg  *logger.Logger
}

// NewService builds a documents service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("documents repository required")
	}
	if params.Applications == nil {
		return nil, fmt.Errorf("applications reader required")
	}
	if params.Blobs == nil {
		return nil, fmt.Errorf("blob store required")
	}
	return &service{
		repo:  params.Repo,
		apps:  params.Applications,
		blobs: params.Blobs,
		logg:  params.Logger,
	}, nil
}

// Upload writes the blob first, then the row. If the row insert fails the
// orphaned blob is removed so storage never holds files without a record.
func (s *service) Upload(ctx context.Context, actor auth.Actor, input UploadInput) (*View, error) {
	if input.Content == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file content required")
	}
	name := sanitizeFileName(input.FileName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file name required")
	}
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown document category")
	}

	app, err := s.loadApplication(ctx, input.ApplicationID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && app.CreatedByID != actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not authorized for this application")
	}

	storagePath := fmt.Sprintf("applications/%s/%s/%d_%s",
		actor.UserID, app.ID, time.Now().UnixNano(), name)
	if err := s.blobs.Upload(ctx, storagePath, input.Content, input.MimeType); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload document blob")
	}

	doc := &models.Document{
		ApplicationID: app.ID,
		UploadedByID:  actor.UserID,
		Category:      input.Category,
		FileName:      name,
		StoragePath:   storagePath,
		SizeBytes:     input.SizeBytes,
	}
	if input.MimeType != "" {
		doc.MimeType = &input.MimeType
	}
	if doc, err = s.repo.Create(ctx, doc); err != nil {
		if removeErr := s.blobs.Remove(ctx, []string{storagePath}); removeErr != nil && s.logg != nil {
			s.logg.Error(ctx, "remove orphaned blob", removeErr)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create document record")
	}

	view := s.viewFromModel(doc)
	return &view, nil
}

// Remove deletes blob first, row second. A missing blob is tolerated; a
// storage failure aborts so the row keeps pointing at the still-live blob.
func (s *service) Remove(ctx context.Context, actor auth.Actor, documentID uuid.UUID) error {
	doc, err := s.loadDocument(ctx, documentID)
	if err != nil {
		return err
	}
	app, err := s.loadApplication(ctx, doc.ApplicationID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && app.CreatedByID != actor.UserID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "not authorized for this application")
	}

	if err := s.blobs.Remove(ctx, []string{doc.StoragePath}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove document blob")
	}
	if err := s.repo.Delete(ctx, documentID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete document record")
	}
	return nil
}

func (s *service) ListByApplication(ctx context.Context, actor auth.Actor, applicationID uuid.UUID) ([]View, error) {
	app, err := s.loadApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && app.CreatedByID != actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not authorized for this application")
	}
	docs, err := s.repo.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list documents")
	}
	views := make([]View, 0, len(docs))
	for i := range docs {
		views = append(views, s.viewFromModel(&docs[i]))
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

func (s *service) loadDocument(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "document id required")
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "document not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load document")
	}
	return doc, nil
}

// sanitizeFileName strips any path component and keeps the base name only.
func sanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	if name == "." || name == "/" {
		return ""
	}
	return name
}
