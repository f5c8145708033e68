package addons

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/cafepos-backend/pkg/db/models"
)

type AddonDTO struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	Price             decimal.Decimal `json:"price"`
	Stock             int             `json:"stock"`
	LowStockThreshold int             `json:"lowStockThreshold"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

func NewAddonDTO(row *models.Addon) *AddonDTO {
	dto := &AddonDTO{
		ID:        row.ID,
		Name:      row.Name,
		Price:     row.Price,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.Stock != nil {
		dto.Stock = row.Stock.Quantity
		dto.LowStockThreshold = row.Stock.LowStockThreshold
	}
	return dto
}
