package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/cafepos-backend/pkg/enums"
)

// Product is a menu item sold through one or more variants.
type Product struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	Name      string                `gorm:"column:name;not null;uniqueIndex:products_name_key"`
	Category  enums.ProductCategory `gorm:"column:category;type:varchar(32);not null"`
	ImagePath *string               `gorm:"column:image_path"`
	Variants  []Variant             `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	assignID(&p.ID)
	return nil
}

// Variant is a sellable size or flavor of a product with its own price and recipe.
type Variant struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	ProductID   uuid.UUID           `gorm:"column:product_id;type:uuid;not null;uniqueIndex:variants_product_name_key,priority:1"`
	Name        string              `gorm:"column:name;not null;uniqueIndex:variants_product_name_key,priority:2"`
	Price       decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null"`
	Ingredients []VariantIngredient `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE"`
	Materials   []VariantMaterial   `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (v *Variant) BeforeCreate(*gorm.DB) error {
	assignID(&v.ID)
	return nil
}

// VariantIngredient records how many units of an ingredient one variant consumes.
type VariantIngredient struct {
	ID           uuid.UUID   `gorm:"column:id;type:uuid;primaryKey"`
	VariantID    uuid.UUID   `gorm:"column:variant_id;type:uuid;not null;index"`
	IngredientID uuid.UUID   `gorm:"column:ingredient_id;type:uuid;not null;index"`
	QuantityUsed int         `gorm:"column:quantity_used;not null;default:0"`
	Ingredient   *Ingredient `gorm:"foreignKey:IngredientID"`
}

func (vi *VariantIngredient) BeforeCreate(*gorm.DB) error {
	assignID(&vi.ID)
	return nil
}

// VariantMaterial records how many pieces of a material one variant consumes.
type VariantMaterial struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	VariantID    uuid.UUID `gorm:"column:variant_id;type:uuid;not null;index"`
	MaterialID   uuid.UUID `gorm:"column:material_id;type:uuid;not null;index"`
	QuantityUsed int       `gorm:"column:quantity_used;not null;default:0"`
	Material     *Material `gorm:"foreignKey:MaterialID"`
}

func (vm *VariantMaterial) BeforeCreate(*gorm.DB) error {
	assignID(&vm.ID)
	return nil
}
