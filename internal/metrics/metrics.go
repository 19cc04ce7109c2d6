// Package metrics holds the Prometheus collectors of the query API.
// Every method is safe to call on a nil *Metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ecodrive"

// Upstream steps
const (
	StepProfile     = "profile"
	StepClassify    = "classify"
	StepGenerate    = "generate"
	StepReformulate = "reformulate"
	StepRetrieve    = "retrieve"
	StepNotify      = "notify"
)

// Notification outcomes
const (
	NotificationQueued  = "queued"
	NotificationSent    = "sent"
	NotificationFailed  = "failed"
	NotificationDropped = "dropped"
)

// Store operations
const (
	StoreLoad   = "load"
	StoreSave   = "save"
	StoreDelete = "delete"
)

type Metrics struct {
	routes           *prometheus.CounterVec
	fallbacks        *prometheus.CounterVec
	upstreamFailures *prometheus.CounterVec
	notifications    *prometheus.CounterVec
	storeOperations  *prometheus.CounterVec
	routeDuration    prometheus.Histogram
	requests         *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
}

// New registers every collector on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		routes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "routes_total",
			Help:      "Completed routing cycles by intent",
		}, []string{"intent"}),
		fallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Replies that used the fixed fallback text, by intent",
		}, []string{"intent"}),
		upstreamFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_failures_total",
			Help:      "Recovered upstream failures by pipeline step",
		}, []string{"step"}),
		notifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Hand-off notifications by outcome",
		}, []string{"outcome"}),
		storeOperations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Conversation store operations by result",
		}, []string{"op", "result"}),
		routeDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "route_duration_seconds",
			Help:      "Duration of a full routing cycle",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (m *Metrics) ObserveRoute(intent string, d time.Duration) {
	if m == nil {
		return
	}
	m.routes.WithLabelValues(intent).Inc()
	m.routeDuration.Observe(d.Seconds())
}

func (m *Metrics) Fallback(intent string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(intent).Inc()
}

func (m *Metrics) UpstreamFailure(step string) {
	if m == nil {
		return
	}
	m.upstreamFailures.WithLabelValues(step).Inc()
}

func (m *Metrics) Notification(outcome string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(outcome).Inc()
}

// StoreOperation counts op as "ok" or "error" depending on err.
func (m *Metrics) StoreOperation(op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.storeOperations.WithLabelValues(op, result).Inc()
}

func (m *Metrics) HTTPRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
