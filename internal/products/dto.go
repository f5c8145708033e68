package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/cafepos-backend/pkg/db/models"
	"github.com/angelmondragon/cafepos-backend/pkg/enums"
)

// ProductDTO represents a menu item with its sellable variants.
type ProductDTO struct {
	ID        uuid.UUID             `json:"id"`
	Name      string                `json:"name"`
	Category  enums.ProductCategory `json:"category"`
	ImagePath *string               `json:"imagePath,omitempty"`
	Variants  []VariantDTO          `json:"variants"`
	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

// VariantDTO carries a variant's price and per-unit recipe.
type VariantDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Ingredients []RecipeItemDTO `json:"ingredients"`
	Materials   []RecipeItemDTO `json:"materials"`
}

// RecipeItemDTO names a consumed resource and the amount used per unit sold.
type RecipeItemDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Unit         string    `json:"unit,omitempty"`
	QuantityUsed int       `json:"quantityUsed"`
}

// NewProductDTO maps a product loaded with its recipe.
func NewProductDTO(product *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ID:        product.ID,
		Name:      product.Name,
		Category:  product.Category,
		ImagePath: product.ImagePath,
		Variants:  make([]VariantDTO, 0, len(product.Variants)),
		CreatedAt: product.CreatedAt,
		UpdatedAt: product.UpdatedAt,
	}
	for _, variant := range product.Variants {
		dto.Variants = append(dto.Variants, newVariantDTO(variant))
	}
	return dto
}

func newVariantDTO(variant models.Variant) VariantDTO {
	dto := VariantDTO{
		ID:          variant.ID,
		Name:        variant.Name,
		Price:       variant.Price,
		Ingredients: make([]RecipeItemDTO, 0, len(variant.Ingredients)),
		Materials:   make([]RecipeItemDTO, 0, len(variant.Materials)),
	}
	for _, link := range variant.Ingredients {
		item := RecipeItemDTO{ID: link.IngredientID, QuantityUsed: link.QuantityUsed}
		if link.Ingredient != nil {
			item.Name = link.Ingredient.Name
			item.Unit = link.Ingredient.Unit
		}
		dto.Ingredients = append(dto.Ingredients, item)
	}
	for _, link := range variant.Materials {
		item := RecipeItemDTO{ID: link.MaterialID, QuantityUsed: link.QuantityUsed}
		if link.Material != nil {
			item.Name = link.Material.Name
		}
		dto.Materials = append(dto.Materials, item)
	}
	return dto
}
