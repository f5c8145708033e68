package stock

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/cafepos-backend/pkg/db/models"
	"github.com/angelmondragon/cafepos-backend/pkg/enums"
)

// MovementDTO is one ledger entry returned to clients.
type MovementDTO struct {
	ID            uuid.UUID                 `json:"id"`
	ResourceType  enums.StockResourceType   `json:"resourceType"`
	ResourceID    uuid.UUID                 `json:"resourceId"`
	Delta         int                       `json:"delta"`
	QuantityAfter int                       `json:"quantityAfter"`
	Reason        enums.StockMovementReason `json:"reason"`
	OrderID       *uuid.UUID                `json:"orderId,omitempty"`
	CreatedAt     time.Time                 `json:"createdAt"`
}

func NewMovementDTOs(rows []models.StockMovement) []MovementDTO {
	out := make([]MovementDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, MovementDTO{
			ID:            row.ID,
			ResourceType:  row.ResourceType,
			ResourceID:    row.ResourceID,
			Delta:         row.Delta,
			QuantityAfter: row.QuantityAfter,
			Reason:        row.Reason,
			OrderID:       row.OrderID,
			CreatedAt:     row.CreatedAt,
		})
	}
	return out
}
