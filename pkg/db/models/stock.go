package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/cafepos-backend/pkg/enums"
)

// Stock is the on-hand counter for exactly one ingredient, material or add-on.
// Quantity may go negative when sales outrun restocks.
type Stock struct {
	ID                uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	IngredientID      *uuid.UUID `gorm:"column:ingredient_id;type:uuid;uniqueIndex:stocks_ingredient_id_key"`
	MaterialID        *uuid.UUID `gorm:"column:material_id;type:uuid;uniqueIndex:stocks_material_id_key"`
	AddonID           *uuid.UUID `gorm:"column:addon_id;type:uuid;uniqueIndex:stocks_addon_id_key"`
	Quantity          int        `gorm:"column:quantity;not null;default:0"`
	LowStockThreshold int        `gorm:"column:low_stock_threshold;not null;default:0"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (s *Stock) BeforeCreate(*gorm.DB) error {
	assignID(&s.ID)
	return nil
}

// Resource returns the owner type and id of the stock row.
func (s Stock) Resource() (enums.StockResourceType, uuid.UUID) {
	switch {
	case s.IngredientID != nil:
		return enums.StockResourceIngredient, *s.IngredientID
	case s.MaterialID != nil:
		return enums.StockResourceMaterial, *s.MaterialID
	case s.AddonID != nil:
		return enums.StockResourceAddon, *s.AddonID
	}
	return "", uuid.Nil
}

// StockMovement is one append-only ledger entry for a stock mutation.
type StockMovement struct {
	ID            uuid.UUID                 `gorm:"column:id;type:uuid;primaryKey"`
	StockID       uuid.UUID                 `gorm:"column:stock_id;type:uuid;not null;index"`
	ResourceType  enums.StockResourceType   `gorm:"column:resource_type;type:varchar(16);not null"`
	ResourceID    uuid.UUID                 `gorm:"column:resource_id;type:uuid;not null;index"`
	Delta         int                       `gorm:"column:delta;not null"`
	QuantityAfter int                       `gorm:"column:quantity_after;not null"`
	Reason        enums.StockMovementReason `gorm:"column:reason;type:varchar(16);not null"`
	OrderID       *uuid.UUID                `gorm:"column:order_id;type:uuid;index"`
	CreatedAt     time.Time                 `gorm:"column:created_at;autoCreateTime"`
}

func (m *StockMovement) BeforeCreate(*gorm.DB) error {
	assignID(&m.ID)
	return nil
}
