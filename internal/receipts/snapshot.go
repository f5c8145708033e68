package receipts

import "github.com/angelmondragon/cafepos-backend/pkg/db/models"

// BuildSnapshot copies the order into a receipt document with names resolved.
// The order must carry Lines.Product, Lines.Variant and Lines.Addons.Addon.
func BuildSnapshot(order *models.Order) models.ReceiptSnapshot {
	snapshot := models.ReceiptSnapshot{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		OrderType:   order.OrderType,
		Total:       order.Total,
		Paid:        order.Paid,
		Change:      order.Change,
		CreatedAt:   order.CreatedAt,
		Lines:       make([]models.ReceiptLineDetail, 0, len(order.Lines)),
	}
	for _, line := range order.Lines {
		detail := models.ReceiptLineDetail{
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			LineTotal: line.LineTotal,
			Addons:    make([]models.ReceiptAddonDetail, 0, len(line.Addons)),
		}
		if line.Product != nil {
			detail.ProductName = line.Product.Name
		}
		if line.Variant != nil {
			detail.VariantName = line.Variant.Name
		}
		for _, addon := range line.Addons {
			item := models.ReceiptAddonDetail{Quantity: addon.Quantity, UnitPrice: addon.UnitPrice}
			if addon.Addon != nil {
				item.Name = addon.Addon.Name
			}
			detail.Addons = append(detail.Addons, item)
		}
		snapshot.Lines = append(snapshot.Lines, detail)
	}
	return snapshot
}
