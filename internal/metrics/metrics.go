// Package metrics exports frame and cache events as Prometheus collectors.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/framegraph/pkg/observability"
)

// FrameHooks records frame production in Prometheus.
type FrameHooks struct {
	frames         *prometheus.CounterVec
	frameDuration  prometheus.Histogram
	frameBytes     prometheus.Histogram
	changes        *prometheus.CounterVec
	layouts        *prometheus.CounterVec
	layoutDuration *prometheus.HistogramVec
}

// NewFrameHooks creates the frame collectors and registers them with reg.
func NewFrameHooks(reg prometheus.Registerer) *FrameHooks {
	h := &FrameHooks{
		frames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "framegraph_frames_total",
			Help: "Frames produced, by result",
		}, []string{"result"}),
		frameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "framegraph_frame_duration_seconds",
			Help:    "Time to produce one frame, layout included",
			Buckets: prometheus.DefBuckets,
		}),
		frameBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "framegraph_frame_bytes",
			Help:    "Serialized frame size",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		}),
		changes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "framegraph_frame_changes_total",
			Help: "Animated elements, by kind of change",
		}, []string{"change"}),
		layouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "framegraph_layouts_total",
			Help: "Layout engine runs, by engine and result",
		}, []string{"engine", "result"}),
		layoutDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "framegraph_layout_duration_seconds",
			Help:    "Duration of layout engine runs",
			Buckets: prometheus.DefBuckets,
		}, []string{"engine"}),
	}
	reg.MustRegister(h.frames, h.frameDuration, h.frameBytes, h.changes, h.layouts, h.layoutDuration)
	return h
}

func (h *FrameHooks) OnFrameStart(context.Context, int) {}

func (h *FrameHooks) OnFrameComplete(_ context.Context, _ int, stats observability.FrameStats, d time.Duration, err error) {
	h.frames.WithLabelValues(result(err)).Inc()
	if err != nil {
		return
	}
	h.frameDuration.Observe(d.Seconds())
	h.frameBytes.Observe(float64(stats.Bytes))
	h.changes.WithLabelValues("appear").Add(float64(stats.Appear))
	h.changes.WithLabelValues("disappear").Add(float64(stats.Disappear))
	h.changes.WithLabelValues("move").Add(float64(stats.Moves))
}

func (h *FrameHooks) OnLayoutStart(context.Context, string, int) {}

func (h *FrameHooks) OnLayoutComplete(_ context.Context, engine string, d time.Duration, err error) {
	h.layouts.WithLabelValues(engine, result(err)).Inc()
	h.layoutDuration.WithLabelValues(engine).Observe(d.Seconds())
}

// CacheHooks records cache traffic in Prometheus.
type CacheHooks struct {
	ops   *prometheus.CounterVec
	bytes *prometheus.CounterVec
}

// NewCacheHooks creates the cache collectors and registers them with reg.
func NewCacheHooks(reg prometheus.Registerer) *CacheHooks {
	h := &CacheHooks{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "framegraph_cache_operations_total",
			Help: "Cache lookups and writes, by key type and operation",
		}, []string{"type", "op"}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "framegraph_cache_written_bytes_total",
			Help: "Bytes written to the cache, by key type",
		}, []string{"type"}),
	}
	reg.MustRegister(h.ops, h.bytes)
	return h
}

func (h *CacheHooks) OnCacheHit(_ context.Context, keyType string) {
	h.ops.WithLabelValues(keyType, "hit").Inc()
}

func (h *CacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.ops.WithLabelValues(keyType, "miss").Inc()
}

func (h *CacheHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.ops.WithLabelValues(keyType, "set").Inc()
	h.bytes.WithLabelValues(keyType).Add(float64(size))
}

// Install registers hooks backed by reg as the process-wide hooks.
func Install(reg prometheus.Registerer) {
	observability.SetFrameHooks(NewFrameHooks(reg))
	observability.SetCacheHooks(NewCacheHooks(reg))
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
