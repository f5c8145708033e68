package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/cafepos-backend/pkg/enums"
)

// Receipt stores the denormalized order captured at checkout.
type Receipt struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null;uniqueIndex:receipts_order_id_key"`
	Snapshot  ReceiptSnapshot `gorm:"column:snapshot;type:jsonb;not null"`
	Order     *Order          `gorm:"foreignKey:OrderID"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime;index"`
}

func (r *Receipt) BeforeCreate(*gorm.DB) error {
	assignID(&r.ID)
	return nil
}

// ReceiptSnapshot carries names instead of ids so later catalog edits do not
// change what was printed.
type ReceiptSnapshot struct {
	OrderID     uuid.UUID           `json:"orderId"`
	OrderNumber int                 `json:"orderNumber"`
	OrderType   enums.OrderType     `json:"orderType"`
	Total       decimal.Decimal     `json:"total"`
	Paid        decimal.Decimal     `json:"paid"`
	Change      decimal.Decimal     `json:"change"`
	CreatedAt   time.Time           `json:"createdAt"`
	Lines       []ReceiptLineDetail `json:"lines"`
}

type ReceiptLineDetail struct {
	ProductName string               `json:"productName"`
	VariantName string               `json:"variantName"`
	Quantity    int                  `json:"quantity"`
	UnitPrice   decimal.Decimal      `json:"unitPrice"`
	LineTotal   decimal.Decimal      `json:"lineTotal"`
	Addons      []ReceiptAddonDetail `json:"addons"`
}

type ReceiptAddonDetail struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// Value marshals the snapshot as a JSON document.
func (s ReceiptSnapshot) Value() (driver.Value, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("receipt snapshot: %w", err)
	}
	return string(raw), nil
}

// Scan decodes a JSON document written by Value.
func (s *ReceiptSnapshot) Scan(value any) error {
	if value == nil {
		*s = ReceiptSnapshot{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("receipt snapshot: unsupported Scan type %T", value)
	}
	return json.Unmarshal(raw, s)
}
