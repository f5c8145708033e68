package ingredients

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/cafepos-backend/pkg/db/models"
)

// IngredientDTO is the ingredient payload returned to clients.
type IngredientDTO struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	Unit              string          `json:"unit"`
	PricePerPurchase  decimal.Decimal `json:"pricePerPurchase"`
	UnitsPerPurchase  int             `json:"unitsPerPurchase"`
	PricePerUnit      decimal.Decimal `json:"pricePerUnit"`
	Stock             int             `json:"stock"`
	LowStockThreshold int             `json:"lowStockThreshold"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// NewIngredientDTO builds a DTO from the persisted model.
func NewIngredientDTO(row *models.Ingredient) *IngredientDTO {
	dto := &IngredientDTO{
		ID:               row.ID,
		Name:             row.Name,
		Unit:             row.Unit,
		PricePerPurchase: row.PricePerPurchase,
		UnitsPerPurchase: row.UnitsPerPurchase,
		PricePerUnit:     row.PricePerUnit,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
	if row.Stock != nil {
		dto.Stock = row.Stock.Quantity
		dto.LowStockThreshold = row.Stock.LowStockThreshold
	}
	return dto
}
