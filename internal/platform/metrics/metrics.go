// Package metrics exposes Prometheus collectors for the panel API.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dent_panel"

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	calendarBuilds = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calendar_builds_total",
			Help:      "Month calendars built, by view (hospital or doctor).",
		},
		[]string{"view"},
	)

	autoCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointments_auto_cancelled_total",
			Help:      "Overdue pending appointments cancelled by the sweep.",
		},
	)

	statusChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointment_status_changes_total",
			Help:      "Appointment status transitions made through the panel.",
		},
		[]string{"status"},
	)

	panics = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handler_panics_total",
			Help:      "Handler panics recovered, by route.",
		},
		[]string{"route"},
	)

	notificationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_failures_total",
			Help:      "Notifications that could not be delivered, by channel.",
		},
		[]string{"channel"},
	)
)

// Register registers all collectors with the default registry (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, calendarBuilds,
			autoCancelled, statusChanges, notificationFailures, panics)
	})
}

func ObserveCalendarBuild(view string) {
	calendarBuilds.WithLabelValues(view).Inc()
}

func AddAutoCancelled(n int) {
	if n > 0 {
		autoCancelled.Add(float64(n))
	}
}

func IncStatusChange(status string) {
	statusChanges.WithLabelValues(status).Inc()
}

func IncPanic(route string) {
	if route == "" {
		route = "unmatched"
	}
	panics.WithLabelValues(route).Inc()
}

func IncNotificationFailure(channel string) {
	notificationFailures.WithLabelValues(channel).Inc()
}

// Middleware records request counts and latency keyed by the matched route
// pattern rather than the raw path.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
			httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// Handler serves the default registry.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
