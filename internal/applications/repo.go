package applications

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brokerlane/brokerlane-backend/pkg/db/models"
	"github.com/brokerlane/brokerlane-backend/pkg/enums"
	"github.com/brokerlane/brokerlane-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an applications repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, app *models.Application) (*models.Application, error) {
	if err := r.db.WithContext(ctx).Create(app).Error; err != nil {
		return nil, err
	}
	return app, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	var app models.Application
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&app).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *repository) FindByIDWithRelations(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).
		Preload("Documents").
		Preload("InformationRequests").
		Preload("LenderSubmissions").
		Preload("Offers").
		Where("id = ?", id).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *repository) FindDraftsByCreator(ctx context.Context, creatorID uuid.UUID) ([]models.Application, error) {
	var drafts []models.Application
	err := r.db.WithContext(ctx).
		Where("created_by_id = ? AND stage = ?", creatorID, enums.ApplicationStageCreated).
		Order("created_at DESC").
		Find(&drafts).Error
	if err != nil {
		return nil, err
	}
	return drafts, nil
}

func (r *repository) UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// UpdateFieldsGuarded applies updates only when the row's updated_at still
// matches the value loaded by the caller. Zero affected rows means either the
// row vanished or a concurrent writer got there first.
func (r *repository) UpdateFieldsGuarded(ctx context.Context, id uuid.UUID, updates map[string]any, expectedUpdatedAt time.Time) error {
	if len(updates) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ? AND updated_at = ?", id, expectedUpdatedAt).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStale
	}
	return nil
}

// ListByCreator returns the caller's applications honoring draft visibility:
// a hidden row only shows once the stage has progressed past created.
func (r *repository) ListByCreator(ctx context.Context, creatorID uuid.UUID, params pagination.Params) ([]models.Application, error) {
	query := r.db.WithContext(ctx).
		Where("created_by_id = ?", creatorID).
		Where("is_hidden = ? OR stage <> ?", false, enums.ApplicationStageCreated)
	return r.page(ctx, query, params)
}

func (r *repository) ListByPartnerCompany(ctx context.Context, partnerCompanyID uuid.UUID, params pagination.Params) ([]models.Application, error) {
	query := r.db.WithContext(ctx).
		Joins("JOIN companies ON companies.id = applications.company_id").
		Where("companies.partner_company_id = ?", partnerCompanyID)
	return r.page(ctx, query, params)
}

func (r *repository) ListAll(ctx context.Context, params pagination.Params) ([]models.Application, error) {
	return r.page(ctx, r.db.WithContext(ctx), params)
}

func (r *repository) page(_ context.Context, query *gorm.DB, params pagination.Params) ([]models.Application, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"applications.created_at < ? OR (applications.created_at = ? AND applications.id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}
	var apps []models.Application
	err = query.
		Order("applications.created_at DESC, applications.id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Application{}).Error
}
