// Package pricing derives per-unit costs and order totals.
package pricing

import (
	"github.com/shopspring/decimal"

	pkgerrors "github.com/angelmondragon/cafepos-backend/pkg/errors"
)

// DerivedScale is the number of decimal places kept for derived unit costs.
const DerivedScale = 4

// MaterialPricePerPiece returns the stored per-piece cost of a material.
// Packaged materials split the package price; loose ones keep the supplied price.
func MaterialPricePerPiece(isPackage bool, packagePrice decimal.Decimal, unitsPerPackage int, supplied decimal.Decimal) (decimal.Decimal, error) {
	if !isPackage {
		if supplied.IsNegative() {
			return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "pricePerPiece must be >= 0")
		}
		return supplied.Round(DerivedScale), nil
	}
	if unitsPerPackage <= 0 {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "unitsPerPackage must be > 0 for packaged materials")
	}
	if packagePrice.IsNegative() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "packagePrice must be >= 0")
	}
	return packagePrice.DivRound(decimal.NewFromInt(int64(unitsPerPackage)), DerivedScale), nil
}

// IngredientPricePerUnit spreads the purchase price over the units bought.
// A non-positive unit count keeps the purchase price as the unit price.
func IngredientPricePerUnit(pricePerPurchase decimal.Decimal, unitsPerPurchase int) decimal.Decimal {
	if unitsPerPurchase <= 0 {
		return pricePerPurchase.Round(DerivedScale)
	}
	return pricePerPurchase.DivRound(decimal.NewFromInt(int64(unitsPerPurchase)), DerivedScale)
}

// AddonCharge is one priced add-on on a line.
type AddonCharge struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// LineTotal is variant price x quantity plus every add-on price x add-on quantity.
// Add-on quantities are per line, not per unit of the line.
func LineTotal(unitPrice decimal.Decimal, quantity int, addons []AddonCharge) decimal.Decimal {
	total := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	for _, addon := range addons {
		total = total.Add(addon.UnitPrice.Mul(decimal.NewFromInt(int64(addon.Quantity))))
	}
	return total
}

// Sum adds the provided amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, amount := range amounts {
		total = total.Add(amount)
	}
	return total
}
