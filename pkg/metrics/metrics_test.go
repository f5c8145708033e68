package metrics

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/shopspring/decimal"
)

func TestHTTPMetricsExportsCounterAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.Observe(http.MethodPost, "/api/v1/orders", http.StatusCreated, 120*time.Millisecond)
	m.Observe(http.MethodPost, "/api/v1/orders", http.StatusCreated, 80*time.Millisecond)
	m.Observe(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "cafepos_http_requests_total", "route", "/api/v1/orders"); err != nil {
		t.Fatalf("fetch requests: %v", err)
	} else if got != 2 {
		t.Fatalf("expected requests=2, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "cafepos_http_requests_total", "route", "unknown"); err != nil {
		t.Fatalf("fetch unknown route: %v", err)
	} else if got != 1 {
		t.Fatalf("expected unknown=1, got %f", got)
	}
	if got, err := fetchHistogramSum(mfs, "cafepos_http_request_duration_seconds", "route", "/api/v1/orders"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestPOSMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPOSMetrics(reg)
	m.OrderCreated("dine_in", decimal.RequireFromString("150.50"))
	m.OrderCreated("dine_in", decimal.RequireFromString("49.50"))
	m.StockDecremented("ingredient")
	m.StockDeductionSkipped("addon")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "cafepos_orders_created_total", "order_type", "dine_in"); err != nil || got != 2 {
		t.Fatalf("expected 2 dine_in orders, got %f (%v)", got, err)
	}
	revenue := findMetricFamily(mfs, "cafepos_order_revenue_total")
	if revenue == nil || revenue.GetMetric()[0].GetCounter().GetValue() != 200 {
		t.Fatalf("expected revenue 200, got %v", revenue)
	}
	if got, err := fetchCounterValue(mfs, "cafepos_stock_deduction_skipped_total", "resource_type", "addon"); err != nil || got != 1 {
		t.Fatalf("expected 1 skipped addon, got %f (%v)", got, err)
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	var pos *POSMetrics
	pos.OrderCreated("dine_in", decimal.NewFromInt(1))
	pos.StockDeductionSkipped("ingredient")

	NewHTTPMetrics(nil).Observe(http.MethodGet, "/", http.StatusOK, time.Second)
	NewPOSMetrics(nil).StockDecremented("material")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
