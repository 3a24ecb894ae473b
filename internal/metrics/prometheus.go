package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	fetches     *prom.CounterVec
	aggDuration *prom.HistogramVec
	aggEntries  *prom.GaugeVec
}

// NewPrometheusRecorder constructs and registers the pipeline metrics on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	pr := &PrometheusRecorder{
		fetches: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "folio",
			Name:      "fetches_total",
			Help:      "Manifest and document fetches by kind and result",
		}, []string{"kind", "result"}),
		aggDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "folio",
			Name:      "aggregation_duration_seconds",
			Help:      "Duration of one fetch-parse-aggregate pass per page",
			Buckets:   prom.DefBuckets,
		}, []string{"page"}),
		aggEntries: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: "folio",
			Name:      "aggregation_entries",
			Help:      "Entries produced by the last aggregation pass per page",
		}, []string{"page"}),
	}
	reg.MustRegister(pr.fetches, pr.aggDuration, pr.aggEntries)
	return pr
}

// IncFetch counts one fetch.
func (p *PrometheusRecorder) IncFetch(kind string, success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	p.fetches.WithLabelValues(kind, result).Inc()
}

// ObserveAggregation records one aggregation pass.
func (p *PrometheusRecorder) ObserveAggregation(page string, d time.Duration, entries int) {
	p.aggDuration.WithLabelValues(page).Observe(d.Seconds())
	p.aggEntries.WithLabelValues(page).Set(float64(entries))
}

// HTTPHandler serves the metrics registered on reg.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
