package enums

import "fmt"

// StockResourceType identifies which catalog table a stock row belongs to.
type StockResourceType string

const (
	StockResourceIngredient StockResourceType = "ingredient"
	StockResourceMaterial   StockResourceType = "material"
	StockResourceAddon      StockResourceType = "addon"
)

var validStockResourceTypes = []StockResourceType{
	StockResourceIngredient,
	StockResourceMaterial,
	StockResourceAddon,
}

// String implements fmt.Stringer.
func (t StockResourceType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known StockResourceType.
func (t StockResourceType) IsValid() bool {
	for _, candidate := range validStockResourceTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseStockResourceType converts raw input into a StockResourceType.
func ParseStockResourceType(value string) (StockResourceType, error) {
	for _, candidate := range validStockResourceTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock resource type %q", value)
}

// StockMovementReason explains a stock ledger mutation.
type StockMovementReason string

const (
	StockMovementInitial StockMovementReason = "initial"
	StockMovementRestock StockMovementReason = "restock"
	StockMovementSale    StockMovementReason = "sale"
)

var validStockMovementReasons = []StockMovementReason{
	StockMovementInitial,
	StockMovementRestock,
	StockMovementSale,
}

// String implements fmt.Stringer.
func (r StockMovementReason) String() string {
	return string(r)
}

// IsValid reports whether the value is a known StockMovementReason.
func (r StockMovementReason) IsValid() bool {
	for _, candidate := range validStockMovementReasons {
		if candidate == r {
			return true
		}
	}
	return false
}
