package models

import "github.com/google/uuid"

// assignID gives a new row its primary key before insert so both the
// postgres and sqlite schemas can leave the id column without a default.
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// All lists every persisted model in dependency order.
func All() []any {
	return []any{
		&Product{},
		&Variant{},
		&Ingredient{},
		&Material{},
		&Addon{},
		&VariantIngredient{},
		&VariantMaterial{},
		&Stock{},
		&StockMovement{},
		&Order{},
		&OrderLine{},
		&OrderLineAddon{},
		&Receipt{},
	}
}
