package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		codeIssuanceTotal,
		codeIssuanceAttempts,
		codeCollisionsTotal,
		codeSpaceIssued,
		codeSpaceRatio,
	)
}

var (
	codeIssuanceTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activation_code_issuance_total",
			Help: "Activation code issuance outcomes.",
		},
		[]string{"outcome"}, // 'issued', 'exhausted', 'store_unavailable', 'canceled', 'error'
	)

	codeIssuanceAttempts = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "activation_code_issuance_attempts",
			Help:    "Number of candidates drawn per issuance call.",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 20, 50},
		},
	)

	codeCollisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activation_code_collisions_total",
			Help: "Candidates rejected during issuance, by where the collision was seen.",
		},
		[]string{"kind"}, // 'lookup', 'reserved', 'duplicate_key'
	)

	codeSpaceIssued = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "activation_code_space_issued",
			Help: "Distinct activation codes currently held by device credentials.",
		},
	)

	codeSpaceRatio = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "activation_code_space_used_ratio",
			Help: "Fraction of the six-digit code space in use.",
		},
	)
)

func IncIssuance(outcome string) {
	codeIssuanceTotal.WithLabelValues(norm(outcome)).Inc()
}

func ObserveIssuanceAttempts(n int) {
	codeIssuanceAttempts.Observe(float64(n))
}

func IncCodeCollision(kind string) {
	codeCollisionsTotal.WithLabelValues(norm(kind)).Inc()
}

func SetCodeSpaceUsage(issued int64, ratio float64) {
	codeSpaceIssued.Set(float64(issued))
	codeSpaceRatio.Set(ratio)
}
