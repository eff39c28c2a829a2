package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce              sync.Once
	adminRequestsTotal        *prometheus.CounterVec
	adminLatencySeconds       *prometheus.HistogramVec
	adminErrorsTotal          *prometheus.CounterVec
	reportSnapshotsTotal      *prometheus.CounterVec
	reportBuildSeconds        prometheus.Histogram
	reportExportsTotal        *prometheus.CounterVec
	notificationsPublished    *prometheus.CounterVec
	notificationStreamsActive prometheus.Gauge
)

// RegisterMetrics initialises the Prometheus collectors used by the report service.
func RegisterMetrics() {
	registerOnce.Do(func() {
		adminRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_requests_total",
			Help: "Total number of admin API requests served.",
		}, []string{"method", "route", "status"})

		adminLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "admin_latency_seconds",
			Help:    "Latency distribution for admin API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		adminErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_errors_total",
			Help: "Total number of error responses returned by admin endpoints.",
		}, []string{"method", "route", "status"})

		reportSnapshotsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "activity_report_snapshots_total",
			Help: "Activity report snapshots served, by cache result.",
		}, []string{"result"})

		reportBuildSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "activity_report_build_seconds",
			Help:    "Time spent loading records and running the report pipeline.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		})

		reportExportsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "activity_report_exports_total",
			Help: "Activity report exports, by format and outcome.",
		}, []string{"format", "outcome"})

		notificationsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_published_total",
			Help: "Notifications delivered to subscribers, by type.",
		}, []string{"type"})

		notificationStreamsActive = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "notification_streams_active",
			Help: "Open SSE and WebSocket notification streams.",
		})

		prometheus.MustRegister(
			adminRequestsTotal,
			adminLatencySeconds,
			adminErrorsTotal,
			reportSnapshotsTotal,
			reportBuildSeconds,
			reportExportsTotal,
			notificationsPublished,
			notificationStreamsActive,
		)
	})
}

// AdminRequests exposes the counter for admin requests.
func AdminRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return adminRequestsTotal
}

// AdminLatency exposes the latency histogram for admin requests.
func AdminLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return adminLatencySeconds
}

// AdminErrors exposes the counter for admin error responses.
func AdminErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return adminErrorsTotal
}

// ReportSnapshots counts report snapshots by hit, miss or error.
func ReportSnapshots() *prometheus.CounterVec {
	RegisterMetrics()
	return reportSnapshotsTotal
}

// ReportBuildLatency tracks pipeline run time.
func ReportBuildLatency() prometheus.Histogram {
	RegisterMetrics()
	return reportBuildSeconds
}

// ReportExports counts exports by format and outcome.
func ReportExports() *prometheus.CounterVec {
	RegisterMetrics()
	return reportExportsTotal
}

// NotificationsPublishedTotal counts notifications fanned out to subscribers.
func NotificationsPublishedTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return notificationsPublished
}

// NotificationStreamsActive tracks open notification streams.
func NotificationStreamsActive() prometheus.Gauge {
	RegisterMetrics()
	return notificationStreamsActive
}
