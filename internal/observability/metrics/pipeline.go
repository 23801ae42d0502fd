package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics tracks the processing stages behind each upload. All record
// methods are nil-safe so callers never have to guard.
type PipelineMetrics struct {
	processTotal    *prometheus.CounterVec
	processDuration *prometheus.HistogramVec
	chunksCreated   prometheus.Histogram
}

// NewPipelineMetrics registers pipeline collectors on the shared registry of
// the given HTTP metrics so one /metrics endpoint serves both.
func NewPipelineMetrics(server *HTTPServerMetrics) *PipelineMetrics {
	processTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docflow",
			Subsystem: "pipeline",
			Name:      "documents_processed_total",
			Help:      "Total processed documents by outcome and failure reason.",
		},
		[]string{"outcome", "reason"},
	)
	processDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docflow",
			Subsystem: "pipeline",
			Name:      "processing_duration_seconds",
			Help:      "End-to-end processing duration in seconds by outcome.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"outcome"},
	)
	chunksCreated := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "docflow",
			Subsystem: "pipeline",
			Name:      "chunks_created",
			Help:      "Distribution of chunks created per processed document.",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21, 34},
		},
	)

	server.registry.MustRegister(processTotal, processDuration, chunksCreated)

	return &PipelineMetrics{
		processTotal:    processTotal,
		processDuration: processDuration,
		chunksCreated:   chunksCreated,
	}
}

func (m *PipelineMetrics) RecordProcessed(chunks int, duration time.Duration) {
	if m == nil {
		return
	}
	m.processTotal.WithLabelValues("processed", "").Inc()
	m.processDuration.WithLabelValues("processed").Observe(duration.Seconds())
	m.chunksCreated.Observe(float64(chunks))
}

func (m *PipelineMetrics) RecordFailed(reason string, duration time.Duration) {
	if m == nil {
		return
	}
	if reason == "" {
		reason = "InternalError"
	}
	m.processTotal.WithLabelValues("failed", reason).Inc()
	m.processDuration.WithLabelValues("failed").Observe(duration.Seconds())
}
