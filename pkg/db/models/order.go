package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/cafepos-backend/pkg/enums"
)

// Order is an immutable sale captured at the register.
type Order struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	OrderNumber  int               `gorm:"column:order_number;not null;uniqueIndex:orders_business_date_number_key,priority:2"`
	BusinessDate string            `gorm:"column:business_date;type:varchar(10);not null;uniqueIndex:orders_business_date_number_key,priority:1"`
	Total        decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null"`
	Paid         decimal.Decimal   `gorm:"column:paid;type:numeric(12,2);not null"`
	Change       decimal.Decimal   `gorm:"column:change_amount;type:numeric(12,2);not null"`
	OrderType    enums.OrderType   `gorm:"column:order_type;type:varchar(16);not null"`
	Status       enums.OrderStatus `gorm:"column:status;type:varchar(16);not null"`
	Lines        []OrderLine       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime;index"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	assignID(&o.ID)
	return nil
}

// OrderLine is one product variant on an order, priced at sale time.
type OrderLine struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	OrderID   uuid.UUID        `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID uuid.UUID        `gorm:"column:product_id;type:uuid;not null;index"`
	VariantID uuid.UUID        `gorm:"column:variant_id;type:uuid;not null;index"`
	Position  int              `gorm:"column:position;not null;default:0"`
	Quantity  int              `gorm:"column:quantity;not null"`
	UnitPrice decimal.Decimal  `gorm:"column:unit_price;type:numeric(12,2);not null"`
	LineTotal decimal.Decimal  `gorm:"column:line_total;type:numeric(12,2);not null"`
	Product   *Product         `gorm:"foreignKey:ProductID"`
	Variant   *Variant         `gorm:"foreignKey:VariantID"`
	Addons    []OrderLineAddon `gorm:"foreignKey:OrderLineID;constraint:OnDelete:CASCADE"`
}

func (l *OrderLine) BeforeCreate(*gorm.DB) error {
	assignID(&l.ID)
	return nil
}

// OrderLineAddon is an add-on attached to an order line.
type OrderLineAddon struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderLineID uuid.UUID       `gorm:"column:order_line_id;type:uuid;not null;index"`
	AddonID     uuid.UUID       `gorm:"column:addon_id;type:uuid;not null;index"`
	Position    int             `gorm:"column:position;not null;default:0"`
	Quantity    int             `gorm:"column:quantity;not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Addon       *Addon          `gorm:"foreignKey:AddonID"`
}

func (a *OrderLineAddon) BeforeCreate(*gorm.DB) error {
	assignID(&a.ID)
	return nil
}
