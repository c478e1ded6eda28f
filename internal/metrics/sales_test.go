package metrics

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSaleMetrics(reg)

	m.ObserveCommitted("create", decimal.RequireFromString("50.00"))
	m.ObserveCommitted("create", decimal.RequireFromString("30.00"))
	m.IncRolledBack("update")
	m.IncCommitted("purge")

	mfs, err := reg.Gather()
	require.NoError(t, err)

	committed, err := fetchCounterValue(mfs, "raffle_sale_transactions_committed_total", "operation", "create")
	require.NoError(t, err)
	assert.Equal(t, float64(2), committed)

	rolledBack, err := fetchCounterValue(mfs, "raffle_sale_transactions_rolled_back_total", "operation", "update")
	require.NoError(t, err)
	assert.Equal(t, float64(1), rolledBack)

	purged, err := fetchCounterValue(mfs, "raffle_sale_transactions_committed_total", "operation", "purge")
	require.NoError(t, err)
	assert.Equal(t, float64(1), purged)

	sum, err := fetchHistogramSum(mfs, "raffle_sale_subtotal", "operation", "create")
	require.NoError(t, err)
	assert.Equal(t, float64(80), sum)
}

func TestSaleMetricsNilSafe(t *testing.T) {
	var m *SaleMetrics
	assert.NotPanics(t, func() {
		m.ObserveCommitted("create", decimal.NewFromInt(1))
		m.IncRolledBack("")
	})

	unregistered := NewSaleMetrics(nil)
	assert.NotPanics(t, func() {
		unregistered.IncRolledBack("create")
	})
}

func TestNormalizeLabel(t *testing.T) {
	assert.Equal(t, "unknown", normalizeLabel(""))
	assert.Equal(t, "purge", normalizeLabel("purge"))
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
	for _, l := range labels {
		if l.GetName() == name && l.GetValue() == value {
			return true
		}
	}
	return false
}
