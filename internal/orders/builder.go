package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/cafepos-backend/internal/pricing"
	"github.com/angelmondragon/cafepos-backend/pkg/db/models"
	"github.com/angelmondragon/cafepos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/cafepos-backend/pkg/errors"
)

// CartInput is the register cart submitted for quoting or checkout.
type CartInput struct {
	Items       []CartItem
	Paid        *decimal.Decimal
	Total       *decimal.Decimal
	Change      *decimal.Decimal
	OrderType   string
	OrderStatus *string
}

// CartItem is one product variant line.
type CartItem struct {
	ProductID uuid.UUID
	VariantID uuid.UUID
	Quantity  int
	Addons    []CartAddon
}

// CartAddon is an add-on attached to a line. Its quantity is per line.
type CartAddon struct {
	AddonID  uuid.UUID
	Quantity int
}

// pricedCart is a cart checked against the catalog with server-side totals.
type pricedCart struct {
	lines     []models.OrderLine
	names     []lineNames
	total     decimal.Decimal
	paid      *decimal.Decimal
	change    *decimal.Decimal
	orderType enums.OrderType
	status    enums.OrderStatus
}

type lineNames struct {
	variant string
	addons  []string
}

type builder struct {
	repo   Repository
	addons addonLoader
}

// price validates the cart and computes the authoritative totals. Checkout
// requires paid and an order type; a quote accepts a bare cart.
func (b *builder) price(ctx context.Context, input CartInput, checkout bool) (*pricedCart, error) {
	fields := map[string]string{}
	if len(input.Items) == 0 {
		fields["items"] = "must contain at least one line"
	}

	cart := &pricedCart{status: enums.OrderStatusQueued}
	switch {
	case input.OrderType != "":
		orderType, err := enums.ParseOrderType(input.OrderType)
		if err != nil {
			fields["orderType"] = "must be one of dine_in, take_out, delivery"
		}
		cart.orderType = orderType
	case checkout:
		fields["orderType"] = "is required"
	}
	if input.OrderStatus != nil {
		status, err := enums.ParseOrderStatus(*input.OrderStatus)
		if err != nil {
			fields["orderStatus"] = "must be one of queued, preparing, served, completed, cancelled"
		}
		cart.status = status
	}
	if input.Paid == nil && checkout {
		fields["paid"] = "is required"
	}
	if input.Paid != nil && input.Paid.IsNegative() {
		fields["paid"] = "must be >= 0"
	}
	for name, amount := range map[string]*decimal.Decimal{"paid": input.Paid, "total": input.Total, "change": input.Change} {
		if _, taken := fields[name]; !taken && !isCents(amount) {
			fields[name] = "must have at most 2 decimal places"
		}
	}

	variantIDs := make([]uuid.UUID, 0, len(input.Items))
	var addonIDs []uuid.UUID
	for i, item := range input.Items {
		prefix := fmt.Sprintf("items[%d]", i)
		if item.ProductID == uuid.Nil {
			fields[prefix+".productId"] = "is required"
		}
		if item.VariantID == uuid.Nil {
			fields[prefix+".variantId"] = "is required"
		}
		if item.Quantity < 1 {
			fields[prefix+".quantity"] = "must be >= 1"
		}
		variantIDs = append(variantIDs, item.VariantID)
		for j, addon := range item.Addons {
			if addon.AddonID == uuid.Nil {
				fields[fmt.Sprintf("%s.addons[%d].addonId", prefix, j)] = "is required"
			}
			if addon.Quantity < 1 {
				fields[fmt.Sprintf("%s.addons[%d].quantity", prefix, j)] = "must be >= 1"
			}
			addonIDs = append(addonIDs, addon.AddonID)
		}
	}
	if len(fields) > 0 {
		return nil, invalidCart(fields)
	}

	variants, err := b.repo.LoadVariants(ctx, variantIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load variants")
	}
	addons, err := b.addons.FindByIDs(ctx, addonIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load addons")
	}

	lineTotals := make([]decimal.Decimal, 0, len(input.Items))
	for i, item := range input.Items {
		prefix := fmt.Sprintf("items[%d]", i)
		variant, ok := variants[item.VariantID]
		if !ok {
			fields[prefix+".variantId"] = "unknown variant"
			continue
		}
		if variant.ProductID != item.ProductID {
			fields[prefix+".variantId"] = "variant does not belong to product"
			continue
		}

		line := models.OrderLine{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Position:  i,
			Quantity:  item.Quantity,
			UnitPrice: variant.Price,
		}
		names := lineNames{variant: variant.Name}
		charges := make([]pricing.AddonCharge, 0, len(item.Addons))
		for j, requested := range item.Addons {
			addon, ok := addons[requested.AddonID]
			if !ok {
				fields[fmt.Sprintf("%s.addons[%d].addonId", prefix, j)] = "unknown addon"
				continue
			}
			line.Addons = append(line.Addons, models.OrderLineAddon{
				AddonID:   addon.ID,
				Position:  j,
				Quantity:  requested.Quantity,
				UnitPrice: addon.Price,
			})
			names.addons = append(names.addons, addon.Name)
			charges = append(charges, pricing.AddonCharge{UnitPrice: addon.Price, Quantity: requested.Quantity})
		}
		line.LineTotal = pricing.LineTotal(variant.Price, item.Quantity, charges)
		lineTotals = append(lineTotals, line.LineTotal)
		cart.lines = append(cart.lines, line)
		cart.names = append(cart.names, names)
	}
	if len(fields) > 0 {
		return nil, invalidCart(fields)
	}

	cart.total = pricing.Sum(lineTotals...)
	if input.Total != nil && !input.Total.Equal(cart.total) {
		return nil, invalidCart(map[string]string{
			"total": fmt.Sprintf("does not match computed total %s", cart.total.StringFixed(2)),
		})
	}
	if input.Paid == nil {
		return cart, nil
	}

	paid := *input.Paid
	if paid.LessThan(cart.total) {
		return nil, invalidCart(map[string]string{
			"paid": fmt.Sprintf("must be at least the total %s", cart.total.StringFixed(2)),
		})
	}
	change := paid.Sub(cart.total)
	if input.Change != nil && !input.Change.Equal(change) {
		return nil, invalidCart(map[string]string{
			"change": fmt.Sprintf("does not match computed change %s", change.StringFixed(2)),
		})
	}
	cart.paid = &paid
	cart.change = &change
	return cart, nil
}

// isCents reports whether the amount fits the numeric(12,2) money columns.
func isCents(amount *decimal.Decimal) bool {
	return amount == nil || amount.Equal(amount.Round(2))
}

func invalidCart(fields map[string]string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid order").WithDetails(fields)
}

// toOrder materializes the priced cart as a new order row.
func (c *pricedCart) toOrder(number int, businessDate string) *models.Order {
	lines := make([]models.OrderLine, len(c.lines))
	for i, line := range c.lines {
		line.Addons = append([]models.OrderLineAddon(nil), line.Addons...)
		lines[i] = line
	}
	return &models.Order{
		OrderNumber:  number,
		BusinessDate: businessDate,
		Total:        c.total,
		Paid:         *c.paid,
		Change:       *c.change,
		OrderType:    c.orderType,
		Status:       c.status,
		Lines:        lines,
	}
}
