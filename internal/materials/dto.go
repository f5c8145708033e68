package materials

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/cafepos-backend/pkg/db/models"
)

type MaterialDTO struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	IsPackage         bool            `json:"isPackage"`
	PackagePrice      decimal.Decimal `json:"packagePrice"`
	UnitsPerPackage   int             `json:"unitsPerPackage"`
	PricePerPiece     decimal.Decimal `json:"pricePerPiece"`
	Stock             int             `json:"stock"`
	LowStockThreshold int             `json:"lowStockThreshold"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

func NewMaterialDTO(row *models.Material) *MaterialDTO {
	dto := &MaterialDTO{
		ID:              row.ID,
		Name:            row.Name,
		IsPackage:       row.IsPackage,
		PackagePrice:    row.PackagePrice,
		UnitsPerPackage: row.UnitsPerPackage,
		PricePerPiece:   row.PricePerPiece,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
	if row.Stock != nil {
		dto.Stock = row.Stock.Quantity
		dto.LowStockThreshold = row.Stock.LowStockThreshold
	}
	return dto
}
