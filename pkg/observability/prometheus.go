package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "stacknotes"

// PrometheusRecorder implements every hook interface with Prometheus metrics.
type PrometheusRecorder struct {
	reg *prom.Registry

	runs          *prom.CounterVec
	pairs         *prom.CounterVec
	pairDuration  prom.Histogram
	cacheOps      *prom.CounterVec
	httpRequests  *prom.CounterVec
	httpDuration  *prom.HistogramVec
	uiEvents      *prom.CounterVec
	lastRunPairs  prom.Gauge
	lastRunFailed prom.Gauge
}

// NewPrometheusRecorder constructs the metrics and registers them with reg.
// A nil reg gets a fresh registry, available through Registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	r := &PrometheusRecorder{
		reg: reg,
		runs: prom.NewCounterVec(prom.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "backfill_runs_total",
			Help:      "Backfill runs by outcome",
		}, []string{"outcome"}),
		pairs: prom.NewCounterVec(prom.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "backfill_pairs_total",
			Help:      "Processed package pairs by result",
		}, []string{"result"}),
		pairDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "backfill_pair_duration_seconds",
			Help:      "Time to upsert and persist one pair",
			Buckets:   prom.DefBuckets,
		}),
		cacheOps: prom.NewCounterVec(prom.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_operations_total",
			Help:      "Cache operations by namespace and kind",
		}, []string{"namespace", "op"}),
		httpRequests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_client_requests_total",
			Help:      "Outgoing HTTP requests by host and status",
		}, []string{"host", "status"}),
		httpDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_client_request_duration_seconds",
			Help:      "Outgoing HTTP request duration",
			Buckets:   prom.DefBuckets,
		}, []string{"host"}),
		uiEvents: prom.NewCounterVec(prom.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "ui_events_total",
			Help:      "Logged user interaction events",
		}, []string{"event"}),
		lastRunPairs: prom.NewGauge(prom.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "backfill_last_run_pairs",
			Help:      "Number of pairs enumerated by the last backfill run",
		}),
		lastRunFailed: prom.NewGauge(prom.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "backfill_last_run_failed",
			Help:      "1 if the last backfill run stopped on an error",
		}),
	}
	reg.MustRegister(r.runs, r.pairs, r.pairDuration, r.cacheOps, r.httpRequests,
		r.httpDuration, r.uiEvents, r.lastRunPairs, r.lastRunFailed)
	return r
}

// Registry returns the registry the metrics live in.
func (r *PrometheusRecorder) Registry() *prom.Registry { return r.reg }

// Handler serves the registry in the Prometheus exposition format.
func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Install registers r as the global hook implementation for every category.
func (r *PrometheusRecorder) Install() {
	SetBackfillHooks(r)
	SetCacheHooks(r)
	SetHTTPHooks(r)
	SetEventHooks(r)
}

func (r *PrometheusRecorder) OnRunStart(_ context.Context, pairs int, _ bool) {
	r.lastRunPairs.Set(float64(pairs))
	r.lastRunFailed.Set(0)
}

func (r *PrometheusRecorder) OnPairComplete(_ context.Context, _, _ string, created bool, d time.Duration, err error) {
	result := "updated"
	switch {
	case err != nil:
		result = "failed"
	case created:
		result = "created"
	}
	r.pairs.WithLabelValues(result).Inc()
	r.pairDuration.Observe(d.Seconds())
}

func (r *PrometheusRecorder) OnRunComplete(_ context.Context, _ int, _ time.Duration, err error) {
	if err != nil {
		r.runs.WithLabelValues("failed").Inc()
		r.lastRunFailed.Set(1)
		return
	}
	r.runs.WithLabelValues("success").Inc()
}

func (r *PrometheusRecorder) OnCacheHit(_ context.Context, ns string) {
	r.cacheOps.WithLabelValues(ns, "hit").Inc()
}

func (r *PrometheusRecorder) OnCacheMiss(_ context.Context, ns string) {
	r.cacheOps.WithLabelValues(ns, "miss").Inc()
}

func (r *PrometheusRecorder) OnCacheSet(_ context.Context, ns string, _ int) {
	r.cacheOps.WithLabelValues(ns, "set").Inc()
}

func (r *PrometheusRecorder) OnRequest(context.Context, string, string, string) {}

func (r *PrometheusRecorder) OnResponse(_ context.Context, _, host, _ string, status int, d time.Duration) {
	r.httpRequests.WithLabelValues(host, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(host).Observe(d.Seconds())
}

func (r *PrometheusRecorder) OnError(_ context.Context, _, host, _ string, _ error) {
	r.httpRequests.WithLabelValues(host, "error").Inc()
}

func (r *PrometheusRecorder) OnEvent(_ context.Context, event, _ string) {
	r.uiEvents.WithLabelValues(event).Inc()
}

var (
	_ BackfillHooks = (*PrometheusRecorder)(nil)
	_ CacheHooks    = (*PrometheusRecorder)(nil)
	_ HTTPHooks     = (*PrometheusRecorder)(nil)
	_ EventHooks    = (*PrometheusRecorder)(nil)
)
