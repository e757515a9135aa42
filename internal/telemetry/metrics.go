// Package telemetry registers the prometheus collectors exported on
// /metrics.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rendersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "smartdisplay",
		Name:      "renders_total",
		Help:      "Renders by mode and outcome (ok, fallback).",
	}, []string{"mode", "outcome"})

	renderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "smartdisplay",
		Name:      "render_duration_seconds",
		Help:      "Wall time of one render, context assembly excluded.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"mode"})

	sourceResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "smartdisplay",
		Name:      "source_results_total",
		Help:      "Collaborator fetch outcomes by source and status.",
	}, []string{"source", "status"})

	fetchCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "smartdisplay",
		Name:      "fetch_cache_total",
		Help:      "Upstream response cache lookups.",
	}, []string{"result"})

	frames = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "smartdisplay",
		Name:      "frames_total",
		Help:      "Frames handed to the output sink by target (panel, preview, error).",
	}, []string{"target"})

	lastRender = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "smartdisplay",
		Name:      "last_render_timestamp_seconds",
		Help:      "Unix time of the last completed render.",
	})
)

// ObserveRender records one finished render.
func ObserveRender(mode, outcome string, took time.Duration) {
	rendersTotal.WithLabelValues(mode, outcome).Inc()
	renderDuration.WithLabelValues(mode).Observe(took.Seconds())
	lastRender.SetToCurrentTime()
}

// ObserveSource records a collaborator outcome.
func ObserveSource(source, status string) {
	sourceResults.WithLabelValues(source, status).Inc()
}

// ObserveCache records a cache hit or miss.
func ObserveCache(hit bool) {
	if hit {
		fetchCache.WithLabelValues("hit").Inc()
		return
	}
	fetchCache.WithLabelValues("miss").Inc()
}

// ObserveFrame records where a frame went.
func ObserveFrame(target string) {
	frames.WithLabelValues(target).Inc()
}
