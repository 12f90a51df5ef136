package documents

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brokerlane/brokerlane-backend/pkg/db/models"
)

// Repository defines persistence operations for application documents.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, doc *models.Document) (*models.Document, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
	ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]models.Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByApplicationTx(ctx context.Context, tx *gorm.DB, applicationID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a documents repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, doc *models.Document) (*models.Document, error) {
	if err := r.db.WithContext(ctx).Create(doc).Error; err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	var doc models.Document
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *repository) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]models.Document, error) {
	var docs []models.Document
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("created_at DESC").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Document{}).Error
}

func (r *repository) DeleteByApplicationTx(ctx context.Context, tx *gorm.DB, applicationID uuid.UUID) error {
	return tx.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Delete(&models.Document{}).Error
}
