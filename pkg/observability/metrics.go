package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics implements DrawHooks, CacheHooks and HTTPHooks on Prometheus.
//
// Metrics:
//   - giftring_draws_total{policy,status,reason}
//   - giftring_draw_errors_total{policy}
//   - giftring_draw_duration_seconds{policy,phase}
//   - giftring_draw_participants
//   - giftring_cache_events_total{type,result}
//   - giftring_cache_bytes_written_total{type}
//   - giftring_http_requests_total{method,route,code}
//   - giftring_http_request_duration_seconds{method,route}
type Metrics struct {
	DrawsTotal        *prometheus.CounterVec
	DrawErrorsTotal   *prometheus.CounterVec
	DrawDuration      *prometheus.HistogramVec
	DrawParticipants  prometheus.Histogram
	CacheEventsTotal  *prometheus.CounterVec
	CacheBytesWritten *prometheus.CounterVec
	HTTPRequestsTotal *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
}

// NewMetrics creates the metrics and registers them with reg. Pass a fresh
// prometheus.NewRegistry() in tests to avoid duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		DrawsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "giftring_draws_total",
				Help: "Total number of finished draws",
			},
			[]string{"policy", "status", "reason"},
		),
		DrawErrorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "giftring_draw_errors_total",
				Help: "Total number of draws that ended with an error instead of an outcome",
			},
			[]string{"policy"},
		),
		DrawDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "giftring_draw_duration_seconds",
				Help:    "Duration of draws by the phase that produced the outcome",
				Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 2, 5},
			},
			[]string{"policy", "phase"},
		),
		DrawParticipants: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "giftring_draw_participants",
				Help:    "Number of participants per draw",
				Buckets: []float64{2, 4, 8, 16, 32, 64, 128},
			},
		),
		CacheEventsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "giftring_cache_events_total",
				Help: "Cache lookups and writes by key type",
			},
			[]string{"type", "result"}, // result: "hit", "miss" or "set"
		),
		CacheBytesWritten: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "giftring_cache_bytes_written_total",
				Help: "Bytes written to the cache by key type",
			},
			[]string{"type"},
		),
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "giftring_http_requests_total",
				Help: "HTTP responses by route and status code",
			},
			[]string{"method", "route", "code"},
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "giftring_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

func (m *Metrics) OnDrawStart(_ context.Context, info DrawInfo) {
	m.DrawParticipants.Observe(float64(info.Participants))
}

func (m *Metrics) OnDrawComplete(_ context.Context, r DrawResult, d time.Duration, err error) {
	if err != nil {
		m.DrawErrorsTotal.WithLabelValues(r.Policy).Inc()
		return
	}
	reason := r.Reason
	if reason == "" {
		reason = "none"
	}
	m.DrawsTotal.WithLabelValues(r.Policy, r.Status, reason).Inc()
	phase := r.Phase
	if r.CacheHit {
		phase = "cache"
	}
	m.DrawDuration.WithLabelValues(r.Policy, phase).Observe(d.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.CacheEventsTotal.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.CacheEventsTotal.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.CacheEventsTotal.WithLabelValues(keyType, "set").Inc()
	m.CacheBytesWritten.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ DrawHooks  = (*Metrics)(nil)
	_ CacheHooks = (*Metrics)(nil)
	_ HTTPHooks  = (*Metrics)(nil)
)
