// Package metrics records pipeline counters on a private Prometheus
// registry and writes them in text exposition format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pable/shotmetrics/internal/aggregator"
)

const namespace = "shotmetrics"

// Recorder holds one process's metrics.
type Recorder struct {
	registry *prometheus.Registry

	shotsByOutcome   *prometheus.CounterVec
	shotsFiltered    prometheus.Counter
	pipelineDuration prometheus.Histogram
	zonesOccupied    prometheus.Gauge
	teams            prometheus.Gauge

	matchesImported prometheus.Counter
	matchesSkipped  prometheus.Counter
	shotsImported   prometheus.Counter
}

// NewRecorder creates a Recorder backed by a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Recorder{
		registry: reg,
		shotsByOutcome: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "shots_total",
			Help:      "Scored shots by outcome category.",
		}, []string{"outcome"}),
		shotsFiltered: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "shots_filtered_total",
			Help:      "Loaded shots removed by team, player or action filters before scoring.",
		}),
		pipelineDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Wall time of one pipeline run.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		zonesOccupied: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "zones_occupied",
			Help:      "Grid cells holding at least one shot in the last run.",
		}),
		teams: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "teams",
			Help:      "Teams aggregated in the last run.",
		}),
		matchesImported: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "matches_total",
			Help:      "Matches stored from shot files.",
		}),
		matchesSkipped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "matches_skipped_total",
			Help:      "Matches skipped because they were already stored.",
		}),
		shotsImported: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "shots_total",
			Help:      "Shots stored from imported files.",
		}),
	}
}

// ObserveRun records one pipeline result.
func (r *Recorder) ObserveRun(res aggregator.Result, took time.Duration) {
	for _, s := range res.Shots {
		r.shotsByOutcome.WithLabelValues(string(s.Outcome)).Inc()
	}
	r.shotsFiltered.Add(float64(res.Dropped))
	r.pipelineDuration.Observe(took.Seconds())

	occupied := 0
	for _, z := range res.Grid.Zones {
		if z.Count > 0 {
			occupied++
		}
	}
	r.zonesOccupied.Set(float64(occupied))
	r.teams.Set(float64(len(res.Teams)))
}

// ObserveImport records one stored or skipped match.
func (r *Recorder) ObserveImport(shots int, skipped bool) {
	if skipped {
		r.matchesSkipped.Inc()
		return
	}
	r.matchesImported.Inc()
	r.shotsImported.Add(float64(shots))
}

// Registry exposes the underlying registry for gathering.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes all metrics to path in Prometheus text format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
