package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	AnalyzeRequests  *prometheus.CounterVec // label: outcome
	AnalyzeLatency   prometheus.Histogram
	RetrievalDegrade prometheus.Counter
	PriceSource      *prometheus.CounterVec // label: source
	RemoteFailures   prometheus.Counter
	PricingAnomalies prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	analyze := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "estimator_analyze_requests_total",
		Help: "Analyze calls by outcome.",
	}, []string{"outcome"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "estimator_analyze_latency_seconds",
		Buckets: prometheus.DefBuckets,
	})
	degrade := prometheus.NewCounter(prometheus.CounterOpts{Name: "estimator_retrieval_degraded_total"})
	source := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "estimator_price_source_total",
		Help: "Resolved line items by pricing tier.",
	}, []string{"source"})
	remote := prometheus.NewCounter(prometheus.CounterOpts{Name: "estimator_remote_pricing_failures_total"})
	anomalies := prometheus.NewCounter(prometheus.CounterOpts{Name: "estimator_pricing_anomalies_total"})

	r.MustRegister(analyze, latency, degrade, source, remote, anomalies)
	return &Registry{
		reg:              r,
		AnalyzeRequests:  analyze,
		AnalyzeLatency:   latency,
		RetrievalDegrade: degrade,
		PriceSource:      source,
		RemoteFailures:   remote,
		PricingAnomalies: anomalies,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }

// The helpers below are nil-safe so callers can run without a registry.

func (r *Registry) ObservePriceSource(source string) {
	if r == nil {
		return
	}
	r.PriceSource.WithLabelValues(source).Inc()
}

func (r *Registry) ObserveRemoteFailure() {
	if r == nil {
		return
	}
	r.RemoteFailures.Inc()
}

func (r *Registry) ObserveAnomaly() {
	if r == nil {
		return
	}
	r.PricingAnomalies.Inc()
}

func (r *Registry) ObserveRetrievalDegraded() {
	if r == nil {
		return
	}
	r.RetrievalDegrade.Inc()
}

func (r *Registry) ObserveAnalyze(outcome string, seconds float64) {
	if r == nil {
		return
	}
	r.AnalyzeRequests.WithLabelValues(outcome).Inc()
	r.AnalyzeLatency.Observe(seconds)
}
