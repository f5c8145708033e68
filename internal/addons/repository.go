package addons

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/cafepos-backend/internal/repo"
	"github.com/angelmondragon/cafepos-backend/pkg/db/models"
)

// Repository persists add-ons.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(tx)}
}

func (r *Repository) List(ctx context.Context) ([]models.Addon, error) {
	var rows []models.Addon
	err := r.DB(ctx).Preload("Stock").Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Addon, error) {
	var row models.Addon
	if err := r.DB(ctx).Preload("Stock").First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByIDs loads the add-ons for the given ids keyed by id. Missing ids are absent.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Addon, error) {
	out := make(map[uuid.UUID]models.Addon, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Addon
	if err := r.DB(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

func (r *Repository) Create(ctx context.Context, row *models.Addon) error {
	return r.DB(ctx).Omit("Stock").Create(row).Error
}

func (r *Repository) Update(ctx context.Context, row *models.Addon) error {
	return r.DB(ctx).Omit("Stock", "CreatedAt").Save(row).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Where("id = ?", id).Delete(&models.Addon{}).Error
}

// CountOrderUsage returns how many sold order lines carried the add-on.
func (r *Repository) CountOrderUsage(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.OrderLineAddon{}).Where("addon_id = ?", id).Count(&count).Error
	return count, err
}
