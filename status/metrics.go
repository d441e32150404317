package status

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kochabonline/mcstatus/errors"
)

// Lookup outcomes used as the "outcome" label.
const (
	OutcomeOK      = "ok"
	OutcomeCached  = "cached"
	OutcomeNoData  = "no_data"
	OutcomeInvalid = "invalid"
	OutcomeHTTP    = "http_error"
	OutcomeNetwork = "network_error"
)

type Metrics struct {
	lookups  *prometheus.CounterVec
	duration prometheus.Histogram
}

func NewMetrics() *Metrics {
	return &Metrics{
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mcstatus_lookups_total",
			Help: "Server status lookups by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mcstatus_lookup_duration_seconds",
			Help:    "Latency of status API requests.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// Register adds the collectors to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.lookups, m.duration} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) observe(outcome string) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeDuration(seconds float64) {
	if m == nil {
		return
	}
	m.duration.Observe(seconds)
}

func outcomeOf(err error) string {
	switch errors.Reason(err) {
	case ReasonInvalidAddress:
		return OutcomeInvalid
	case ReasonLookupHTTP:
		return OutcomeHTTP
	default:
		return OutcomeNetwork
	}
}
