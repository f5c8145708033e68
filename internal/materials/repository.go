package materials

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/cafepos-backend/internal/repo"
	"github.com/angelmondragon/cafepos-backend/pkg/db/models"
)

// Repository persists packaging materials.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(tx)}
}

func (r *Repository) List(ctx context.Context) ([]models.Material, error) {
	var rows []models.Material
	err := r.DB(ctx).Preload("Stock").Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Material, error) {
	var row models.Material
	if err := r.DB(ctx).Preload("Stock").First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) Create(ctx context.Context, row *models.Material) error {
	return r.DB(ctx).Omit("Stock").Create(row).Error
}

func (r *Repository) Update(ctx context.Context, row *models.Material) error {
	return r.DB(ctx).Omit("Stock", "CreatedAt").Save(row).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Where("id = ?", id).Delete(&models.Material{}).Error
}

// CountVariantUsage returns how many variant recipes consume the material.
func (r *Repository) CountVariantUsage(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.VariantMaterial{}).Where("material_id = ?", id).Count(&count).Error
	return count, err
}

// ExistingIDs returns the subset of ids that exist.
func (r *Repository) ExistingIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	found := make(map[uuid.UUID]bool, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	var rows []uuid.UUID
	if err := r.DB(ctx).Model(&models.Material{}).Where("id IN ?", ids).Pluck("id", &rows).Error; err != nil {
		return nil, err
	}
	for _, id := range rows {
		found[id] = true
	}
	return found, nil
}
