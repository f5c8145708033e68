package product

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/cafepos-backend/internal/repo"
	"github.com/angelmondragon/cafepos-backend/pkg/db/models"
	"github.com/angelmondragon/cafepos-backend/pkg/enums"
)

// Repository wires together product, variant and recipe persistence.
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

func withRecipe(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("variants.name ASC") }).
		Preload("Variants.Ingredients.Ingredient").
		Preload("Variants.Materials.Material")
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.DB(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductDetail loads the product with every variant and its recipe.
func (r *Repository) GetProductDetail(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := withRecipe(r.DB(ctx)).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts returns the menu ordered by name, optionally narrowed to a category.
func (r *Repository) ListProducts(ctx context.Context, category *enums.ProductCategory) ([]models.Product, error) {
	query := withRecipe(r.DB(ctx)).Order("products.name ASC")
	if category != nil {
		query = query.Where("products.category = ?", *category)
	}
	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.DB(ctx).Omit("Variants").Create(product).Error
}

func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) error {
	return r.DB(ctx).Omit("Variants", "CreatedAt").Save(product).Error
}

// CreateVariant inserts the variant together with its recipe rows.
func (r *Repository) CreateVariant(ctx context.Context, variant *models.Variant) error {
	return r.DB(ctx).Create(variant).Error
}

func (r *Repository) UpdateVariantPrice(ctx context.Context, variantID uuid.UUID, price decimal.Decimal) error {
	return r.DB(ctx).
		Model(&models.Variant{}).
		Where("id = ?", variantID).
		Update("price", price).Error
}

// ClearRecipe removes every ingredient and material requirement of the variant.
func (r *Repository) ClearRecipe(ctx context.Context, variantID uuid.UUID) error {
	db := r.DB(ctx)
	if err := db.Where("variant_id = ?", variantID).Delete(&models.VariantIngredient{}).Error; err != nil {
		return err
	}
	return db.Where("variant_id = ?", variantID).Delete(&models.VariantMaterial{}).Error
}

// ReplaceRecipe swaps the variant's requirement rows for the provided ones.
func (r *Repository) ReplaceRecipe(ctx context.Context, variantID uuid.UUID, ingredients []models.VariantIngredient, materials []models.VariantMaterial) error {
	if err := r.ClearRecipe(ctx, variantID); err != nil {
		return err
	}
	db := r.DB(ctx)
	for i := range ingredients {
		ingredients[i].VariantID = variantID
	}
	for i := range materials {
		materials[i].VariantID = variantID
	}
	if len(ingredients) > 0 {
		if err := db.Omit("Ingredient").Create(&ingredients).Error; err != nil {
			return err
		}
	}
	if len(materials) > 0 {
		if err := db.Omit("Material").Create(&materials).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) DeleteVariant(ctx context.Context, variantID uuid.UUID) error {
	if err := r.ClearRecipe(ctx, variantID); err != nil {
		return err
	}
	return r.DB(ctx).Where("id = ?", variantID).Delete(&models.Variant{}).Error
}

// DeleteProduct removes the product, its variants and their recipes.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	db := r.DB(ctx)
	variantIDs := db.Model(&models.Variant{}).Select("id").Where("product_id = ?", id)
	if err := db.Where("variant_id IN (?)", variantIDs).Delete(&models.VariantIngredient{}).Error; err != nil {
		return err
	}
	if err := db.Where("variant_id IN (?)", variantIDs).Delete(&models.VariantMaterial{}).Error; err != nil {
		return err
	}
	if err := db.Where("product_id = ?", id).Delete(&models.Variant{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&models.Product{}).Error
}

// CountOrderLines returns how many order lines sold the product.
func (r *Repository) CountOrderLines(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.OrderLine{}).Where("product_id = ?", productID).Count(&count).Error
	return count, err
}

// CountVariantOrderLines returns how many order lines sold the variant.
func (r *Repository) CountVariantOrderLines(ctx context.Context, variantID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.OrderLine{}).Where("variant_id = ?", variantID).Count(&count).Error
	return count, err
}
