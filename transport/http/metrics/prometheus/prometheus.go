package prometheus

import (
	"net/http"
	"regexp"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Config struct {
	Path                      string
	Namespace                 string
	EnabledGoCollector        bool
	EnabledBuildInfoCollector bool
}

// Prometheus wraps a private registry so tests and servers never share the
// global default one.
type Prometheus struct {
	Config   Config
	Registry *prometheus.Registry
}

func NewPrometheus(c Config) *Prometheus {
	if c.Path == "" {
		c.Path = "/metrics"
	}

	p := &Prometheus{
		Config:   c,
		Registry: prometheus.NewRegistry(),
	}

	if c.EnabledGoCollector {
		p.WithGoCollectorRuntimeMetrics()
	}
	if c.EnabledBuildInfoCollector {
		p.WithBuildInfoCollector()
	}

	return p
}

func (p *Prometheus) RegisterGauge(name, help string, labels []string) *prometheus.GaugeVec {
	gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: p.Config.Namespace,
		Name:      name,
		Help:      help,
	}, labels)

	p.Registry.MustRegister(gauge)
	return gauge
}

func (p *Prometheus) RegisterHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	histogram := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: p.Config.Namespace,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}, labels)

	p.Registry.MustRegister(histogram)
	return histogram
}

func (p *Prometheus) RegisterCounter(name, help string, labels []string) *prometheus.CounterVec {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: p.Config.Namespace,
		Name:      name,
		Help:      help,
	}, labels)

	p.Registry.MustRegister(counter)
	return counter
}

func (p *Prometheus) WithGoCollectorRuntimeMetrics() {
	p.Registry.MustRegister(collectors.NewGoCollector(
		collectors.WithGoCollectorRuntimeMetrics(collectors.GoRuntimeMetricsRule{Matcher: regexp.MustCompile("/.*")}),
	))
}

func (p *Prometheus) WithBuildInfoCollector() {
	p.Registry.MustRegister(collectors.NewBuildInfoCollector())
}

// Handler serves the registry in the exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
