package protocol

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

// MetricsSubsystem is a subsystem shared by all metrics exposed by this
// package.
const MetricsSubsystem = "ledger"

// Metrics contains metrics exposed by this package.
type Metrics struct {
	// Number of accepted transactions.
	AcceptedTxs metrics.Counter
	// Number of rejected transactions, labelled by reason.
	RejectedTxs metrics.Counter
	// Number of outputs in the unspent set.
	UtxoSetSize metrics.Gauge
	// Time spent evaluating validator scripts, in seconds.
	ScriptSeconds metrics.Histogram
}

// PrometheusMetrics returns Metrics build using Prometheus client library.
func PrometheusMetrics(namespace string) *Metrics {
	return &Metrics{
		AcceptedTxs: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "accepted_txs",
			Help:      "Number of accepted transactions.",
		}, []string{}),
		RejectedTxs: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "rejected_txs",
			Help:      "Number of rejected transactions.",
		}, []string{"reason"}),
		UtxoSetSize: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "utxo_set_size",
			Help:      "Number of unspent outputs.",
		}, []string{}),
		ScriptSeconds: prometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "script_seconds",
			Help:      "Validator script evaluation time.",
			Buckets:   stdprometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{}),
	}
}

// NopMetrics returns no-op Metrics.
func NopMetrics() *Metrics {
	return &Metrics{
		AcceptedTxs:   discard.NewCounter(),
		RejectedTxs:   discard.NewCounter(),
		UtxoSetSize:   discard.NewGauge(),
		ScriptSeconds: discard.NewHistogram(),
	}
}
