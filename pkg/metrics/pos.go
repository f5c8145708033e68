package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// POSMetrics tracks register activity and stock ledger health.
type POSMetrics struct {
	ordersCreated   *prometheus.CounterVec
	revenue         prometheus.Counter
	stockDecrements *prometheus.CounterVec
	stockSkipped    *prometheus.CounterVec
}

// NewPOSMetrics registers the point-of-sale metrics on the provided registerer.
func NewPOSMetrics(reg prometheus.Registerer) *POSMetrics {
	if reg == nil {
		return &POSMetrics{}
	}
	ordersCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cafepos_orders_created_total",
		Help: "Orders committed at the register, by order type.",
	}, []string{"order_type"})
	revenue := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cafepos_order_revenue_total",
		Help: "Sum of committed order totals.",
	})
	stockDecrements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cafepos_stock_decrements_total",
		Help: "Stock rows decremented by sales, by resource type.",
	}, []string{"resource_type"})
	stockSkipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cafepos_stock_deduction_skipped_total",
		Help: "Deductions skipped because the resource has no stock row.",
	}, []string{"resource_type"})
	reg.MustRegister(ordersCreated, revenue, stockDecrements, stockSkipped)
	return &POSMetrics{
		ordersCreated:   ordersCreated,
		revenue:         revenue,
		stockDecrements: stockDecrements,
		stockSkipped:    stockSkipped,
	}
}

// OrderCreated counts a committed order and its total.
func (m *POSMetrics) OrderCreated(orderType string, total decimal.Decimal) {
	if m == nil || m.ordersCreated == nil {
		return
	}
	m.ordersCreated.WithLabelValues(normalizeLabel(orderType)).Inc()
	if total.IsPositive() {
		m.revenue.Add(total.InexactFloat64())
	}
}

// StockDecremented counts one applied stock decrement.
func (m *POSMetrics) StockDecremented(resourceType string) {
	if m == nil || m.stockDecrements == nil {
		return
	}
	m.stockDecrements.WithLabelValues(normalizeLabel(resourceType)).Inc()
}

// StockDeductionSkipped counts a deduction with no stock row to apply to.
func (m *POSMetrics) StockDeductionSkipped(resourceType string) {
	if m == nil || m.stockSkipped == nil {
		return
	}
	m.stockSkipped.WithLabelValues(normalizeLabel(resourceType)).Inc()
}
