package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	CodesIssued     prometheus.Counter
	CodesConsumed   prometheus.Counter
	CodesRejected   *prometheus.CounterVec
	Spins           prometheus.Counter
	WinsClaimed     prometheus.Counter
	Likes           *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewMetrics creates the collectors and registers them on reg. A nil reg
// uses a fresh private registry.
func NewMetrics(namespace string, reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}, []string{"method", "route"}),
		CodesIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "access_codes_issued_total",
			Help:      "Access codes issued",
		}),
		CodesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "access_code_spins_consumed_total",
			Help:      "Spins consumed from access codes",
		}),
		CodesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "access_code_rejections_total",
			Help:      "Access code verify/consume rejections by reason",
		}, []string{"reason"}),
		Spins: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "spins_total",
			Help:      "Server-side prize draws",
		}),
		WinsClaimed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wins_claimed_total",
			Help:      "Wins claimed",
		}),
		Likes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "like_changes_total",
			Help:      "Like and unlike operations that changed state",
		}, []string{"op"}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.CodesIssued,
		m.CodesConsumed,
		m.CodesRejected,
		m.Spins,
		m.WinsClaimed,
		m.Likes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) IncCodeRejected(reason string) {
	if m == nil {
		return
	}
	m.CodesRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncCodesIssued(n int) {
	if m == nil {
		return
	}
	m.CodesIssued.Add(float64(n))
}

func (m *Metrics) IncCodeConsumed() {
	if m == nil {
		return
	}
	m.CodesConsumed.Inc()
}

func (m *Metrics) IncSpin() {
	if m == nil {
		return
	}
	m.Spins.Inc()
}

func (m *Metrics) IncWinClaimed() {
	if m == nil {
		return
	}
	m.WinsClaimed.Inc()
}

func (m *Metrics) IncLike(op string) {
	if m == nil {
		return
	}
	m.Likes.WithLabelValues(op).Inc()
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
