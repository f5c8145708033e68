package enums

import "fmt"

// ProductCategory groups menu items on the register and the dashboard.
type ProductCategory string

const (
	ProductCategoryCoffee    ProductCategory = "coffee"
	ProductCategoryNonCoffee ProductCategory = "non_coffee"
	ProductCategoryTea       ProductCategory = "tea"
	ProductCategoryFrappe    ProductCategory = "frappe"
	ProductCategoryPastry    ProductCategory = "pastry"
	ProductCategoryMeal      ProductCategory = "meal"
	ProductCategorySnack     ProductCategory = "snack"
)

var validProductCategories = []ProductCategory{
	ProductCategoryCoffee,
	ProductCategoryNonCoffee,
	ProductCategoryTea,
	ProductCategoryFrappe,
	ProductCategoryPastry,
	ProductCategoryMeal,
	ProductCategorySnack,
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}
