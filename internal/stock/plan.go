package stock

import (
	"sort"

	"github.com/google/uuid"

	"github.com/angelmondragon/cafepos-backend/pkg/db/models"
	"github.com/angelmondragon/cafepos-backend/pkg/enums"
)

// Deduction is the total amount one resource loses to an order.
type Deduction struct {
	ResourceType enums.StockResourceType `json:"resourceType"`
	ResourceID   uuid.UUID               `json:"resourceId"`
	Quantity     int                     `json:"quantity"`
}

type planKey struct {
	kind enums.StockResourceType
	id   uuid.UUID
}

// BuildPlan folds persisted order lines into one deduction per resource.
// Lines must carry their variant recipe (Variant.Ingredients, Variant.Materials)
// and their add-ons. Variant requirements scale with the line quantity; add-ons
// contribute their own quantity. The result is sorted by (type, id) so
// concurrent orders touch stock rows in the same order.
func BuildPlan(lines []models.OrderLine) []Deduction {
	totals := map[planKey]int{}
	add := func(kind enums.StockResourceType, id uuid.UUID, n int) {
		if n <= 0 {
			return
		}
		totals[planKey{kind: kind, id: id}] += n
	}

	for _, line := range lines {
		if line.Variant != nil {
			for _, req := range line.Variant.Ingredients {
				add(enums.StockResourceIngredient, req.IngredientID, req.QuantityUsed*line.Quantity)
			}
			for _, req := range line.Variant.Materials {
				add(enums.StockResourceMaterial, req.MaterialID, req.QuantityUsed*line.Quantity)
			}
		}
		for _, addon := range line.Addons {
			add(enums.StockResourceAddon, addon.AddonID, addon.Quantity)
		}
	}

	plan := make([]Deduction, 0, len(totals))
	for key, qty := range totals {
		plan = append(plan, Deduction{ResourceType: key.kind, ResourceID: key.id, Quantity: qty})
	}
	sort.Slice(plan, func(i, j int) bool {
		if plan[i].ResourceType != plan[j].ResourceType {
			return plan[i].ResourceType < plan[j].ResourceType
		}
		return plan[i].ResourceID.String() < plan[j].ResourceID.String()
	})
	return plan
}
