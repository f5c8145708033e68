package enums

import "testing"

func TestParseOrderType(t *testing.T) {
	for _, raw := range []string{"dine_in", "take_out", "delivery"} {
		got, err := ParseOrderType(raw)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", raw, err)
		}
		if got.String() != raw {
			t.Fatalf("expected %q got %q", raw, got)
		}
	}
	if _, err := ParseOrderType("drive_thru"); err == nil {
		t.Fatal("expected error for unknown order type")
	}
}

func TestOrderStatusIsValid(t *testing.T) {
	if !OrderStatusQueued.IsValid() || !OrderStatusCancelled.IsValid() {
		t.Fatal("expected known statuses to be valid")
	}
	if OrderStatus("refunded").IsValid() {
		t.Fatal("expected refunded to be invalid")
	}
}

func TestParseProductCategory(t *testing.T) {
	if _, err := ParseProductCategory("non_coffee"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseProductCategory("Coffee"); err == nil {
		t.Fatal("category parsing is case sensitive")
	}
}

func TestParseOrderFilterDefaultsToAll(t *testing.T) {
	got, err := ParseOrderFilter("")
	if err != nil || got != OrderFilterAll {
		t.Fatalf("expected all, got %q (%v)", got, err)
	}
	if _, err := ParseOrderFilter("week"); err == nil {
		t.Fatal("expected error for unknown filter")
	}
}

func TestStockEnums(t *testing.T) {
	if _, err := ParseStockResourceType("addon"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if StockMovementReason("theft").IsValid() {
		t.Fatal("unexpected valid reason")
	}
	if !StockMovementSale.IsValid() {
		t.Fatal("expected sale to be valid")
	}
}
