package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ingredient is a consumable bought in bulk and used by the unit.
type Ingredient struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name             string          `gorm:"column:name;not null;uniqueIndex:ingredients_name_key"`
	Unit             string          `gorm:"column:unit;not null"`
	PricePerPurchase decimal.Decimal `gorm:"column:price_per_purchase;type:numeric(12,2);not null"`
	UnitsPerPurchase int             `gorm:"column:units_per_purchase;not null;default:0"`
	PricePerUnit     decimal.Decimal `gorm:"column:price_per_unit;type:numeric(12,4);not null"`
	Stock            *Stock          `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (i *Ingredient) BeforeCreate(*gorm.DB) error {
	assignID(&i.ID)
	return nil
}

// Material is packaging (cups, lids, straws) consumed by the piece.
type Material struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name            string          `gorm:"column:name;not null;uniqueIndex:materials_name_key"`
	IsPackage       bool            `gorm:"column:is_package;not null;default:false"`
	PackagePrice    decimal.Decimal `gorm:"column:package_price;type:numeric(12,2);not null;default:0"`
	UnitsPerPackage int             `gorm:"column:units_per_package;not null;default:0"`
	PricePerPiece   decimal.Decimal `gorm:"column:price_per_piece;type:numeric(12,4);not null"`
	Stock           *Stock          `gorm:"foreignKey:MaterialID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (m *Material) BeforeCreate(*gorm.DB) error {
	assignID(&m.ID)
	return nil
}

// Addon is an extra sold on top of a line (extra shot, syrup).
type Addon struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name      string          `gorm:"column:name;not null;uniqueIndex:addons_name_key"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Stock     *Stock          `gorm:"foreignKey:AddonID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (a *Addon) BeforeCreate(*gorm.DB) error {
	assignID(&a.ID)
	return nil
}
