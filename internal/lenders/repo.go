package lenders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brokerlane/brokerlane-backend/pkg/db/models"
)

// Repository defines read access to the lender panel and its criteria.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Lender, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Lender, error)
	ListWithCriteria(ctx context.Context) ([]models.Lender, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a lenders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Lender, error) {
	var lender models.Lender
	err := r.db.WithContext(ctx).
		Preload("Criteria").
		Where("id = ?", id).
		First(&lender).Error
	if err != nil {
		return nil, err
	}
	return &lender, nil
}

func (r *repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Lender, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var lenders []models.Lender
	err := r.db.WithContext(ctx).
		Preload("Criteria").
		Where("id IN ?", ids).
		Find(&lenders).Error
	if err != nil {
		return nil, err
	}
	return lenders, nil
}

func (r *repository) ListWithCriteria(ctx context.Context) ([]models.Lender, error) {
	var lenders []models.Lender
	err := r.db.WithContext(ctx).
		Preload("Criteria").
		Order("name ASC").
		Find(&lenders).Error
	if err != nil {
		return nil, err
	}
	return lenders, nil
}
