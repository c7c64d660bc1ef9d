package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classfit_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "classfit_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classfit_bookings_total",
			Help: "Total number of booking attempts by outcome",
		},
		[]string{"outcome"},
	)

	BookingCancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "classfit_booking_cancellations_total",
			Help: "Total number of booking cancellations",
		},
	)

	ProfilesCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "classfit_onboarding_profiles_created_total",
			Help: "Profiles materialized by the onboarding reconciler",
		},
	)

	MembershipsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classfit_memberships_created_total",
			Help: "Memberships materialized by the onboarding reconciler",
		},
		[]string{"tier"},
	)

	ScheduleCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classfit_schedule_cache_total",
			Help: "Schedule list cache lookups by result",
		},
		[]string{"result"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classfit_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "classfit_email_queue_length",
			Help: "Current length of the email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBooking(outcome string) {
	BookingsTotal.WithLabelValues(outcome).Inc()
}

func RecordBookingCancellation() {
	BookingCancellationsTotal.Inc()
}

func RecordProfileCreated() {
	ProfilesCreatedTotal.Inc()
}

func RecordMembershipCreated(tier string) {
	MembershipsCreatedTotal.WithLabelValues(tier).Inc()
}

func RecordScheduleCache(result string) {
	ScheduleCacheTotal.WithLabelValues(result).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}
