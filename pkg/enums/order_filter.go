package enums

import "fmt"

// OrderFilter selects the time window for order listings.
type OrderFilter string

const (
	OrderFilterAll    OrderFilter = "all"
	OrderFilterToday  OrderFilter = "today"
	OrderFilterMonth  OrderFilter = "month"
	OrderFilterRange  OrderFilter = "range"
	OrderFilterCustom OrderFilter = "custom"
)

var validOrderFilters = []OrderFilter{
	OrderFilterAll,
	OrderFilterToday,
	OrderFilterMonth,
	OrderFilterRange,
	OrderFilterCustom,
}

// String implements fmt.Stringer.
func (f OrderFilter) String() string {
	return string(f)
}

// IsValid reports whether the value is a known OrderFilter.
func (f OrderFilter) IsValid() bool {
	for _, candidate := range validOrderFilters {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseOrderFilter converts raw input into an OrderFilter. Empty input means all.
func ParseOrderFilter(value string) (OrderFilter, error) {
	if value == "" {
		return OrderFilterAll, nil
	}
	for _, candidate := range validOrderFilters {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order filter %q", value)
}
