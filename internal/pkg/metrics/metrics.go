package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	InvokesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reputrade_chaincode_invokes_total",
		Help: "Chaincode submit/query calls issued by the harness",
	}, []string{"function", "status"})

	InvokeLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reputrade_chaincode_invoke_seconds",
		Help:    "Chaincode call latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"function"})

	TradesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reputrade_trades_total",
		Help: "Simulated trades by outcome",
	}, []string{"outcome"})

	RoundDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "reputrade_round_duration_seconds",
		Help:    "Wall time per simulation round",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	})

	ExcludedParticipants = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "reputrade_excluded_participants",
		Help: "Participants below the reputation threshold in the latest round",
	})
)
