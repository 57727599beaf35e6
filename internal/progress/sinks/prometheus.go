package sinks

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/WorkOfStan/web-pages-to-pdf/internal/progress"
)

// PrometheusSink exports capture progress metrics. It owns all collectors
// for run lifecycle and per-capture outcomes.
type PrometheusSink struct {
	runsStarted     prometheus.Counter
	runActive       prometheus.Gauge
	captures        *prometheus.CounterVec
	captureDuration *prometheus.HistogramVec
}

// NewPrometheusSink registers the collectors against the provided registry.
func NewPrometheusSink(reg prometheus.Registerer) (*PrometheusSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PrometheusSink{
		runsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "webpdf_runs_started_total",
			Help: "Total capture runs that have started.",
		}),
		runActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "webpdf_run_active",
			Help: "1 while a capture run is in flight.",
		}),
		captures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "webpdf_captures_total",
			Help: "Capture completions partitioned by outcome and source.",
		}, []string{"outcome", "source"}),
		captureDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "webpdf_capture_duration_seconds",
			Help:    "Wall time per capture partitioned by outcome.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 25, 60, 120},
		}, []string{"outcome"}),
	}
	for _, collector := range []prometheus.Collector{
		s.runsStarted,
		s.runActive,
		s.captures,
		s.captureDuration,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("register progress collector: %w", err)
		}
	}
	return s, nil
}

// Consume updates the collectors using the provided batch. Safe for
// concurrent use.
func (s *PrometheusSink) Consume(_ context.Context, batch []progress.Event) error {
	for _, evt := range batch {
		switch evt.Stage {
		case progress.StageRunStart:
			s.runsStarted.Inc()
			s.runActive.Set(1)
		case progress.StageRunDone:
			s.runActive.Set(0)
		case progress.StageCaptureDone:
			source := evt.Source
			if source == "" {
				source = "none"
			}
			s.captures.WithLabelValues(evt.Outcome, source).Inc()
			s.captureDuration.WithLabelValues(evt.Outcome).Observe(evt.Dur.Seconds())
		}
	}
	return nil
}

// Close implements the Sink interface; collectors stay registered.
func (s *PrometheusSink) Close(context.Context) error {
	return nil
}
