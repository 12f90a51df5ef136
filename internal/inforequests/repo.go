package inforequests

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brokerlane/brokerlane-backend/pkg/db/models"
)

// Repository defines persistence operations for information requests.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, req *models.InformationRequest) (*models.InformationRequest, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.InformationRequest, error)
	ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]models.InformationRequest, error)
	UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteByApplicationTx(ctx context.Context, tx *gorm.DB, applicationID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an information requests repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, req *models.InformationRequest) (*models.InformationRequest, error) {
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.InformationRequest, error) {
	var req models.InformationRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]models.InformationRequest, error) {
	var reqs []models.InformationRequest
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("created_at DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *repository) UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.InformationRequest{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) DeleteByApplicationTx(ctx context.Context, tx *gorm.DB, applicationID uuid.UUID) error {
	return tx.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Delete(&models.InformationRequest{}).Error
}
