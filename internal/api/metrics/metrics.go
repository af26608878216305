// Package metrics defines the custom Prometheus collectors of the review
// service. HTTP request metrics come from the echoprometheus middleware
// installed by the router; both register with the same Registerer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "reviews"

// Metrics holds the domain collectors.
type Metrics struct {
	// RegistrationsTotal result label: "created", "conflict", "invalid" or "error".
	RegistrationsTotal *prometheus.CounterVec
	// AuthenticationsTotal result label: "ok", "invalid_credentials" or "error".
	AuthenticationsTotal *prometheus.CounterVec
	// ReviewsSubmittedTotal counts reviews actually inserted.
	ReviewsSubmittedTotal prometheus.Counter
	// ReviewsDuplicateTotal counts submissions acknowledged without an insert.
	ReviewsDuplicateTotal prometheus.Counter
	// ReviewsDeletedTotal result label: "deleted" or "not_found".
	ReviewsDeletedTotal *prometheus.CounterVec
	SampleSize          prometheus.Histogram
}

// New registers the collectors with reg. A nil reg means the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		// ── Account metrics ───────────────────────────────────────────────
		RegistrationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "registrations_total",
				Help:      "Total number of account registration attempts, by result.",
			},
			[]string{"result"},
		),
		AuthenticationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "authentications_total",
				Help:      "Total number of authentication attempts, by result.",
			},
			[]string{"result"},
		),

		// ── Review metrics ────────────────────────────────────────────────
		ReviewsSubmittedTotal: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "submitted_total",
				Help:      "Total number of reviews stored.",
			},
		),
		ReviewsDuplicateTotal: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "duplicate_total",
				Help:      "Total number of review submissions skipped as duplicates.",
			},
		),
		ReviewsDeletedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "deleted_total",
				Help:      "Total number of review delete requests, by result.",
			},
			[]string{"result"},
		),
		SampleSize: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "random_sample_size",
				Help:      "Number of reviews returned per random-sample request.",
				Buckets:   []float64{0, 1, 2, 3, 4, 5},
			},
		),
	}
}
