package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlightGauge   prometheus.Gauge

	BookingsTotal       *prometheus.CounterVec
	BookingConflicts    prometheus.Counter
	SlotQueriesTotal    prometheus.Counter
	ReschedulesTotal    prometheus.Counter
	StatusChangesTotal  *prometheus.CounterVec
	NotificationsTotal  *prometheus.CounterVec
	NotificationDropped prometheus.Counter

	DBConnections prometheus.Gauge
}

func NewCollector(serviceName string) *Collector {
	return &Collector{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code.",
		}, []string{"method", "path", "status"}),

		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "path", "status"}),

		InFlightGauge: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),

		BookingsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "booking",
			Name:      "appointments_total",
			Help:      "Appointments booked, by outcome.",
		}, []string{"outcome"}),

		BookingConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "booking",
			Name:      "slot_conflicts_total",
			Help:      "Booking attempts rejected because the slot was already taken.",
		}),

		SlotQueriesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "booking",
			Name:      "slot_queries_total",
			Help:      "Available-slot computations served.",
		}),

		ReschedulesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "booking",
			Name:      "reschedules_total",
			Help:      "Appointments moved to a new slot.",
		}),

		StatusChangesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "booking",
			Name:      "status_changes_total",
			Help:      "Appointment status transitions, by target status.",
		}, []string{"status"}),

		NotificationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "mail",
			Name:      "notifications_total",
			Help:      "E-mail notifications attempted, by result.",
		}, []string{"result"}),

		NotificationDropped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "mail",
			Name:      "dropped_total",
			Help:      "Notifications dropped due to full dispatch buffer. Alert if non-zero.",
		}),

		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Subsystem: "db",
			Name:      "open_connections",
			Help:      "Current number of open database connections.",
		}),
	}
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
