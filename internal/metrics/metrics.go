// Package metrics holds the Prometheus collectors of the ledger and the
// outbox pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dispatch results.
const (
	ResultSent     = "sent"
	ResultRetry    = "retry"
	ResultFailed   = "failed"
	ResultReleased = "released"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	outboxDispatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "banking",
			Subsystem: "outbox",
			Name:      "dispatched_total",
			Help:      "Outbox events resolved by the dispatcher, by outcome.",
		},
		[]string{"result"},
	)

	outboxClaimConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "banking",
			Subsystem: "outbox",
			Name:      "claim_conflicts_total",
			Help:      "Claims lost to another dispatcher.",
		},
	)

	outboxPublishDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "banking",
			Subsystem: "outbox",
			Name:      "publish_duration_seconds",
			Help:      "Duration of publish calls to the message bus.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		},
	)

	outboxRolledBack = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "banking",
			Subsystem: "outbox",
			Name:      "rolled_back_total",
			Help:      "Stale IN_PROGRESS events reset to PENDING.",
		},
	)

	outboxArchived = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "banking",
			Subsystem: "outbox",
			Name:      "archived_total",
			Help:      "SENT events deleted after the retention window.",
		},
	)

	interestCredited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "banking",
			Subsystem: "interest",
			Name:      "credited_total",
			Help:      "Accounts credited by the daily interest job.",
		},
	)

	ledgerOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "banking",
			Subsystem: "ledger",
			Name:      "operations_total",
			Help:      "Balance mutations attempted, by ledger type and result.",
		},
		[]string{"type", "result"},
	)
)

func init() {
	Registry.MustRegister(
		outboxDispatched,
		outboxClaimConflicts,
		outboxPublishDuration,
		outboxRolledBack,
		outboxArchived,
		interestCredited,
		ledgerOperations,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordDispatch counts one resolved event.
func RecordDispatch(result string) {
	outboxDispatched.WithLabelValues(result).Inc()
}

func RecordClaimConflict() {
	outboxClaimConflicts.Inc()
}

// RecordPublish observes the latency of one publish call.
func RecordPublish(duration time.Duration) {
	outboxPublishDuration.Observe(duration.Seconds())
}

func RecordRolledBack(n int64) {
	if n > 0 {
		outboxRolledBack.Add(float64(n))
	}
}

func RecordArchived(n int64) {
	if n > 0 {
		outboxArchived.Add(float64(n))
	}
}

func RecordInterestCredited() {
	interestCredited.Inc()
}

// RecordLedgerOperation counts a balance mutation. err == nil is "ok",
// anything else is "error".
func RecordLedgerOperation(ledgerType string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	ledgerOperations.WithLabelValues(ledgerType, result).Inc()
}
