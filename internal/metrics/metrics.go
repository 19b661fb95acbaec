// Package metrics exposes scoring activity as Prometheus collectors.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"scrape-validator/internal/scoring"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace    = "validator"
	OutcomeLabel = "outcome"
	GateLabel    = "gate"
)

// Lookup batch outcomes.
const (
	OutcomeOK      = "ok"
	OutcomePartial = "partial"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
)

var _ scoring.Recorder = (*Metrics)(nil)

type Metrics struct {
	roundsScored  prometheus.Counter
	minersScored  prometheus.Counter
	gates         *prometheus.CounterVec
	lookupBatches *prometheus.CounterVec
	urlsRequested prometheus.Counter
	urlsResolved  prometheus.Counter
	duration      prometheus.Histogram
}

// New builds the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		roundsScored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_scored_total",
			Help:      "Number of rounds scored",
		}),
		minersScored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "miners_scored_total",
			Help:      "Number of miner submissions scored",
		}),
		gates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "miners_gated_total",
				Help:      "Number of miners whose score was zeroed, by gate",
			},
			[]string{GateLabel},
		),
		lookupBatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "lookup_batches_total",
				Help:      "Number of ground-truth lookup batches, by outcome",
			},
			[]string{OutcomeLabel},
		),
		urlsRequested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookup_urls_requested_total",
			Help:      "Urls sent to the ground-truth lookup",
		}),
		urlsResolved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookup_urls_resolved_total",
			Help:      "Urls the ground-truth lookup resolved",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "round_scoring_duration_seconds",
			Help:      "Time spent scoring one round",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
	}

	err := errors.Join(
		reg.Register(m.roundsScored),
		reg.Register(m.minersScored),
		reg.Register(m.gates),
		reg.Register(m.lookupBatches),
		reg.Register(m.urlsRequested),
		reg.Register(m.urlsResolved),
		reg.Register(m.duration),
	)
	return m, err
}

func (m *Metrics) ObserveLookupBatch(requested, resolved int, err error) {
	m.urlsRequested.Add(float64(requested))
	m.urlsResolved.Add(float64(resolved))
	m.lookupBatches.WithLabelValues(batchOutcome(requested, resolved, err)).Inc()
}

func (m *Metrics) ObserveGate(gate string) {
	m.gates.WithLabelValues(gate).Inc()
}

func (m *Metrics) ObserveRound(miners int, took time.Duration) {
	m.roundsScored.Inc()
	m.minersScored.Add(float64(miners))
	m.duration.Observe(took.Seconds())
}

func batchOutcome(requested, resolved int, err error) string {
	switch {
	case err != nil:
		return OutcomeError
	case resolved == 0:
		return OutcomeEmpty
	case resolved < requested:
		return OutcomePartial
	default:
		return OutcomeOK
	}
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
