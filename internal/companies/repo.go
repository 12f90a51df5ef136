package companies

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brokerlane/brokerlane-backend/pkg/db/models"
)

// Repository defines persistence operations for companies.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, company *models.Company) (*models.Company, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
	FindByPrimaryDirector(ctx context.Context, profileID uuid.UUID) (*models.Company, error)
	UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a companies repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, company *models.Company) (*models.Company, error) {
	if err := r.db.WithContext(ctx).Create(company).Error; err != nil {
		return nil, err
	}
	return company, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var company models.Company
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *repository) FindByPrimaryDirector(ctx context.Context, profileID uuid.UUID) (*models.Company, error) {
	var company models.Company
	err := r.db.WithContext(ctx).
		Where("primary_director_id = ?", profileID).
		Order("created_at DESC").
		First(&company).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *repository) UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Company{}).
		Where("id = ?", id).
		Updates(updates).Error
}
