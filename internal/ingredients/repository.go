package ingredients

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/cafepos-backend/internal/repo"
	"github.com/angelmondragon/cafepos-backend/pkg/db/models"
)

// Repository persists ingredients.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(tx)}
}

func (r *Repository) List(ctx context.Context) ([]models.Ingredient, error) {
	var rows []models.Ingredient
	err := r.DB(ctx).Preload("Stock").Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	var row models.Ingredient
	if err := r.DB(ctx).Preload("Stock").First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) Create(ctx context.Context, row *models.Ingredient) error {
	return r.DB(ctx).Omit("Stock").Create(row).Error
}

func (r *Repository) Update(ctx context.Context, row *models.Ingredient) error {
	return r.DB(ctx).Omit("Stock", "CreatedAt").Save(row).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Where("id = ?", id).Delete(&models.Ingredient{}).Error
}

// CountVariantUsage returns how many variant recipes reference the ingredient.
func (r *Repository) CountVariantUsage(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.VariantIngredient{}).Where("ingredient_id = ?", id).Count(&count).Error
	return count, err
}

// ExistingIDs returns the subset of ids that exist.
func (r *Repository) ExistingIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	found := map[uuid.UUID]bool{}
	if len(ids) == 0 {
		return found, nil
	}
	var rows []uuid.UUID
	if err := r.DB(ctx).Model(&models.Ingredient{}).Where("id IN ?", ids).Pluck("id", &rows).Error; err != nil {
		return nil, err
	}
	for _, id := range rows {
		found[id] = true
	}
	return found, nil
}
