package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for Tower
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// ACARS ingestion
	PositionReportsTotal   prometheus.CounterVec
	SlewAlertsTotal        prometheus.Counter
	SessionsRecoveredTotal prometheus.Counter

	// PIREP pipeline
	PirepsSubmittedTotal prometheus.CounterVec
	CreditsAwardedTotal  prometheus.Counter
	RankPromotionsTotal  prometheus.Counter

	// Notification queue
	NotificationsQueuedTotal    prometheus.CounterVec
	NotificationsDeliveredTotal prometheus.CounterVec
	NotificationsFailedTotal    prometheus.Counter

	// Cache Metrics
	CacheHitsTotal   prometheus.CounterVec
	CacheMissesTotal prometheus.CounterVec
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tower_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tower_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tower_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		PositionReportsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tower_position_reports_total",
				Help: "Position reports processed, by outcome (accepted, flagged, rejected)",
			},
			[]string{"outcome"},
		),
		SlewAlertsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "tower_slew_alerts_total",
				Help: "Teleport detections raised by the slew detector",
			},
		),
		SessionsRecoveredTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "tower_sessions_recovered_total",
				Help: "Flight sessions re-attached via the callsign-only fallback",
			},
		),

		PirepsSubmittedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tower_pireps_submitted_total",
				Help: "PIREP submissions, by outcome (pending, auto_rejected, duplicate, blacklisted)",
			},
			[]string{"outcome"},
		),
		CreditsAwardedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "tower_credits_awarded_total",
				Help: "Total flight credits awarded on PIREP approval",
			},
		),
		RankPromotionsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "tower_rank_promotions_total",
				Help: "Automatic rank promotions applied",
			},
		),

		NotificationsQueuedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tower_notifications_queued_total",
				Help: "Notification events enqueued, by event type",
			},
			[]string{"event_type"},
		),
		NotificationsDeliveredTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tower_notifications_delivered_total",
				Help: "Webhook notifications delivered, by event type",
			},
			[]string{"event_type"},
		),
		NotificationsFailedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "tower_notifications_failed_total",
				Help: "Webhook deliveries that exhausted retries",
			},
		),

		CacheHitsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tower_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tower_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
	}
}
