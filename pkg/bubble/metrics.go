package bubble

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Layout pass outcomes.
const (
	OutcomeOK        = "ok"
	OutcomeSkipped   = "skipped"
	OutcomeCancelled = "cancelled"
	OutcomeError     = "error"
)

// Metrics collects layout statistics.
type Metrics struct {
	PassesTotal    *prometheus.CounterVec
	PassDuration   prometheus.Histogram
	PassFrames     prometheus.Histogram
	LabelsOmitted  prometheus.Counter
	LinksMissing   prometheus.Counter
	SettledOverlap prometheus.Gauge
}

// NewMetrics registers the layout collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		PassesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bubbles_layout_passes_total",
				Help: "Total number of layout passes by outcome",
			},
			[]string{"outcome"},
		),
		PassDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bubbles_layout_duration_seconds",
				Help:    "Layout pass duration in seconds",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
		),
		PassFrames: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bubbles_layout_frames",
				Help:    "Simulation frames run per settled pass",
				Buckets: []float64{1, 2, 4, 8, 16, 32, 50},
			},
		),
		LabelsOmitted: f.NewCounter(
			prometheus.CounterOpts{
				Name: "bubbles_labels_omitted_total",
				Help: "Total number of labels skipped because their target was absent",
			},
		),
		LinksMissing: f.NewCounter(
			prometheus.CounterOpts{
				Name: "bubbles_links_missing_total",
				Help: "Total number of curated links skipped because a pilot was absent",
			},
		),
		SettledOverlap: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "bubbles_settled_overlap_pixels",
				Help: "Deepest disc overlap left by the last settled pass",
			},
		),
	}
}

// RecordPass records one finished pass. A nil receiver is a no-op.
func (m *Metrics) RecordPass(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.PassesTotal.WithLabelValues(outcome).Inc()
	m.PassDuration.Observe(duration.Seconds())
}

// RecordSettle records the statistics of a settled pass.
func (m *Metrics) RecordSettle(r *Result) {
	if m == nil || r == nil {
		return
	}
	m.PassFrames.Observe(float64(r.Frames))
	m.LabelsOmitted.Add(float64(len(r.Omitted)))
	m.LinksMissing.Add(float64(len(r.MissingLinks)))
	m.SettledOverlap.Set(r.MaxOverlap)
}
