package offers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brokerlane/brokerlane-backend/pkg/db/models"
)

// Repository defines persistence operations for lender offers.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, offer *models.Offer) (*models.Offer, error)
	ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]models.Offer, error)
	DeleteByApplicationTx(ctx context.Context, tx *gorm.DB, applicationID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an offers repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, offer *models.Offer) (*models.Offer, error) {
	if err := r.db.WithContext(ctx).Create(offer).Error; err != nil {
		return nil, err
	}
	return offer, nil
}

func (r *repository) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]models.Offer, error) {
	var offers []models.Offer
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("created_at DESC").
		Find(&offers).Error
	if err != nil {
		return nil, err
	}
	return offers, nil
}

func (r *repository) DeleteByApplicationTx(ctx context.Context, tx *gorm.DB, applicationID uuid.UUID) error {
	return tx.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Delete(&models.Offer{}).Error
}
