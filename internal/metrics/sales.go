package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// SaleMetrics records the outcome of raffle sale transactions.
type SaleMetrics struct {
	committed  *prometheus.CounterVec
	rolledBack *prometheus.CounterVec
	amount     *prometheus.HistogramVec
}

// NewSaleMetrics registers the sale metrics on the provided registerer.
func NewSaleMetrics(reg prometheus.Registerer) *SaleMetrics {
	if reg == nil {
		return &SaleMetrics{}
	}
	committed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "raffle_sale_transactions_committed_total",
		Help: "Raffle sale transactions that committed.",
	}, []string{"operation"})
	rolledBack := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "raffle_sale_transactions_rolled_back_total",
		Help: "Raffle sale transactions that were rolled back.",
	}, []string{"operation"})
	amount := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "raffle_sale_subtotal",
		Help:    "Subtotal of committed raffle sales.",
		Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"operation"})
	reg.MustRegister(committed, rolledBack, amount)
	return &SaleMetrics{
		committed:  committed,
		rolledBack: rolledBack,
		amount:     amount,
	}
}

// ObserveCommitted counts a committed transaction and records its subtotal.
func (m *SaleMetrics) ObserveCommitted(operation string, subtotal decimal.Decimal) {
	if m == nil || m.amount == nil {
		return
	}
	m.IncCommitted(operation)
	m.amount.WithLabelValues(normalizeLabel(operation)).Observe(subtotal.InexactFloat64())
}

// IncCommitted counts a committed transaction that moved no money.
func (m *SaleMetrics) IncCommitted(operation string) {
	if m == nil || m.committed == nil {
		return
	}
	m.committed.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncRolledBack increments the rollback counter for the operation.
func (m *SaleMetrics) IncRolledBack(operation string) {
	if m == nil || m.rolledBack == nil {
		return
	}
	m.rolledBack.WithLabelValues(normalizeLabel(operation)).Inc()
}

func normalizeLabel(operation string) string {
	if operation == "" {
		return "unknown"
	}
	return operation
}
