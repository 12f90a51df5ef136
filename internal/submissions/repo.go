package submissions

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brokerlane/brokerlane-backend/pkg/db/models"
)

// Repository defines persistence operations for lender submissions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateBatch(ctx context.Context, rows []models.LenderSubmission) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.LenderSubmission, error)
	ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]models.LenderSubmission, error)
	ExistingLenderIDs(ctx context.Context, applicationID uuid.UUID) ([]uuid.UUID, error)
	UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteByApplicationTx(ctx context.Context, tx *gorm.DB, applicationID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a submissions repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateBatch(ctx context.Context, rows []models.LenderSubmission) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.LenderSubmission, error) {
	var row models.LenderSubmission
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]models.LenderSubmission, error) {
	var rows []models.LenderSubmission
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ExistingLenderIDs(ctx context.Context, applicationID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.LenderSubmission{}).
		Where("application_id = ?", applicationID).
		Pluck("lender_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repository) UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.LenderSubmission{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) DeleteByApplicationTx(ctx context.Context, tx *gorm.DB, applicationID uuid.UUID) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Delete(&models.LenderSubmission{}).Error
}
