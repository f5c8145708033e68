package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/cafepos-backend/pkg/db/models"
	"github.com/angelmondragon/cafepos-backend/pkg/enums"
)

// OrderDTO is an order with its lines as returned to the register.
type OrderDTO struct {
	ID           uuid.UUID               `json:"id"`
	OrderNumber  int                     `json:"orderNumber"`
	BusinessDate string                  `json:"businessDate"`
	Total        decimal.Decimal         `json:"total"`
	Paid         decimal.Decimal         `json:"paid"`
	Change       decimal.Decimal         `json:"change"`
	OrderType    enums.OrderType         `json:"orderType"`
	Status       enums.OrderStatus       `json:"orderStatus"`
	CreatedAt    time.Time               `json:"createdAt"`
	Lines        []OrderLineDTO          `json:"items"`
	Receipt      *models.ReceiptSnapshot `json:"receipt,omitempty"`
}

type OrderLineDTO struct {
	ID          uuid.UUID           `json:"id"`
	ProductID   uuid.UUID           `json:"productId"`
	ProductName string              `json:"productName"`
	VariantID   uuid.UUID           `json:"variantId"`
	VariantName string              `json:"variantName"`
	Quantity    int                 `json:"quantity"`
	UnitPrice   decimal.Decimal     `json:"unitPrice"`
	LineTotal   decimal.Decimal     `json:"lineTotal"`
	Addons      []OrderLineAddonDTO `json:"addons"`
}

type OrderLineAddonDTO struct {
	ID        uuid.UUID       `json:"id"`
	AddonID   uuid.UUID       `json:"addonId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// NewOrderDTO maps an order loaded with its lines.
func NewOrderDTO(order *models.Order) OrderDTO {
	dto := OrderDTO{
		ID:           order.ID,
		OrderNumber:  order.OrderNumber,
		BusinessDate: order.BusinessDate,
		Total:        order.Total,
		Paid:         order.Paid,
		Change:       order.Change,
		OrderType:    order.OrderType,
		Status:       order.Status,
		CreatedAt:    order.CreatedAt,
		Lines:        make([]OrderLineDTO, 0, len(order.Lines)),
	}
	for _, line := range order.Lines {
		item := OrderLineDTO{
			ID:        line.ID,
			ProductID: line.ProductID,
			VariantID: line.VariantID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			LineTotal: line.LineTotal,
			Addons:    make([]OrderLineAddonDTO, 0, len(line.Addons)),
		}
		if line.Product != nil {
			item.ProductName = line.Product.Name
		}
		if line.Variant != nil {
			item.VariantName = line.Variant.Name
		}
		for _, addon := range line.Addons {
			entry := OrderLineAddonDTO{ID: addon.ID, AddonID: addon.AddonID, Quantity: addon.Quantity, UnitPrice: addon.UnitPrice}
			if addon.Addon != nil {
				entry.Name = addon.Addon.Name
			}
			item.Addons = append(item.Addons, entry)
		}
		dto.Lines = append(dto.Lines, item)
	}
	return dto
}

// QuoteDTO is a priced cart that was not persisted.
type QuoteDTO struct {
	Lines  []QuoteLineDTO   `json:"items"`
	Total  decimal.Decimal  `json:"total"`
	Paid   *decimal.Decimal `json:"paid,omitempty"`
	Change *decimal.Decimal `json:"change,omitempty"`
}

type QuoteLineDTO struct {
	ProductID   uuid.UUID           `json:"productId"`
	VariantID   uuid.UUID           `json:"variantId"`
	VariantName string              `json:"variantName"`
	Quantity    int                 `json:"quantity"`
	UnitPrice   decimal.Decimal     `json:"unitPrice"`
	LineTotal   decimal.Decimal     `json:"lineTotal"`
	Addons      []OrderLineAddonDTO `json:"addons"`
}

func newQuoteDTO(cart *pricedCart) QuoteDTO {
	dto := QuoteDTO{
		Lines:  make([]QuoteLineDTO, 0, len(cart.lines)),
		Total:  cart.total,
		Paid:   cart.paid,
		Change: cart.change,
	}
	for i, line := range cart.lines {
		names := cart.names[i]
		item := QuoteLineDTO{
			ProductID:   line.ProductID,
			VariantID:   line.VariantID,
			VariantName: names.variant,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			LineTotal:   line.LineTotal,
			Addons:      make([]OrderLineAddonDTO, 0, len(line.Addons)),
		}
		for j, addon := range line.Addons {
			item.Addons = append(item.Addons, OrderLineAddonDTO{
				AddonID:   addon.AddonID,
				Name:      names.addons[j],
				Quantity:  addon.Quantity,
				UnitPrice: addon.UnitPrice,
			})
		}
		dto.Lines = append(dto.Lines, item)
	}
	return dto
}
