package applications

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brokerlane/brokerlane-backend/pkg/db/models"
	"github.com/brokerlane/brokerlane-backend/pkg/pagination"
)

// ErrStale is returned by guarded updates when the row changed since load.
var ErrStale = errors.New("application row changed since load")

// Repository defines persistence operations for the applications table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, app *models.Application) (*models.Application, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error)
	FindByIDWithRelations(ctx context.Context, id uuid.UUID) (*models.Application, error)
	FindDraftsByCreator(ctx context.Context, creatorID uuid.UUID) ([]models.Application, error)
	UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) error
	UpdateFieldsGuarded(ctx context.Context, id uuid.UUID, updates map[string]any, expectedUpdatedAt time.Time) error
	ListByCreator(ctx context.Context, creatorID uuid.UUID, params pagination.Params) ([]models.Application, error)
	ListByPartnerCompany(ctx context.Context, partnerCompanyID uuid.UUID, params pagination.Params) ([]models.Application, error)
	ListAll(ctx context.Context, params pagination.Params) ([]models.Application, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// DependentRemover deletes rows belonging to an application inside the
// provided transaction. Each dependent table's repository implements it.
type DependentRemover interface {
	DeleteByApplicationTx(ctx context.Context, tx *gorm.DB, applicationID uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type blobRemover interface {
	Remove(ctx context.Context, paths []string) error
}

type companyReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
}

type documentLister interface {
	ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]models.Document, error)
}

type transitionObserver interface {
	ObserveStageTransition(from, to string)
}
