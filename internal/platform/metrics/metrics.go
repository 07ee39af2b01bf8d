package metrics

import (
	"time"

	"github.com/SscSPs/farm_payouts/internal/apperrors"
	"github.com/SscSPs/farm_payouts/internal/core/domain"
	"github.com/SscSPs/farm_payouts/internal/core/ports/gateways"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "farm_payouts"

// Prometheus implements gateways.PayoutMetrics with Prometheus collectors.
type Prometheus struct {
	payouts         *prometheus.CounterVec
	dispatch        *prometheus.HistogramVec
	recovered       *prometheus.CounterVec
	reconciliations *prometheus.CounterVec
}

// NewPrometheus creates the collectors and registers them with reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	m := &Prometheus{
		payouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payouts_total",
			Help:      "Payout attempts by final status of the request.",
		}, []string{"status"}),
		dispatch: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gateway_dispatch_seconds",
			Help:      "Latency of payment gateway dispatch calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"result"}),
		recovered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loan_recovered_amount_total",
			Help:      "Loan principal recovered from payouts, in major currency units.",
		}, []string{"currency"}),
		reconciliations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconciled_payouts_total",
			Help:      "Stale payouts examined by reconciliation, by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.payouts, m.dispatch, m.recovered, m.reconciliations)
	return m
}

// Ensure Prometheus implements gateways.PayoutMetrics
var _ gateways.PayoutMetrics = (*Prometheus)(nil)

func (m *Prometheus) PayoutFinished(status domain.PayoutStatus) {
	m.payouts.WithLabelValues(string(status)).Inc()
}

func (m *Prometheus) DispatchObserved(elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "terminal"
		if apperrors.IsRetryableGatewayError(err) {
			result = "retryable"
		}
	}
	m.dispatch.WithLabelValues(result).Observe(elapsed.Seconds())
}

func (m *Prometheus) RecoveryApplied(amount domain.Money) {
	m.recovered.WithLabelValues(amount.Currency()).Add(amount.Amount().InexactFloat64())
}

func (m *Prometheus) Reconciled(report domain.ReconciliationReport) {
	m.reconciliations.WithLabelValues("completed").Add(float64(report.Completed))
	m.reconciliations.WithLabelValues("failed").Add(float64(report.Failed))
	m.reconciliations.WithLabelValues("pending").Add(float64(report.Pending))
}
