package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

// Metrics 业务与 HTTP 指标集合
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests   *prometheus.CounterVec
	HTTPLatencyMS  *prometheus.HistogramVec
	CartMutations  *prometheus.CounterVec
	PromoOutcomes  *prometheus.CounterVec
	CatalogRefresh *prometheus.CounterVec
	CatalogSize    prometheus.Gauge
	Checkouts      prometheus.Counter
	StateCorrupt   *prometheus.CounterVec
}

// New 创建并注册指标（每个实例独立 registry，便于测试重复创建）
func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"route", "status"}),
		HTTPLatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}, []string{"route"}),
		CartMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cart",
			Name:      "mutations_total",
			Help:      "Cart ledger mutations by operation.",
		}, []string{"op"}),
		PromoOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "promo",
			Name:      "applications_total",
			Help:      "Promo code submissions by outcome.",
		}, []string{"outcome"}),
		CatalogRefresh: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "refresh_total",
			Help:      "Catalog refresh attempts by result.",
		}, []string{"result"}),
		CatalogSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "products",
			Help:      "Number of products in the current catalog snapshot.",
		}),
		Checkouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "placed_total",
			Help:      "Simulated checkouts placed.",
		}),
		StateCorrupt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "state",
			Name:      "corrupt_total",
			Help:      "Persisted state values that failed to decode.",
		}, []string{"key"}),
	}
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPLatencyMS,
		m.CartMutations,
		m.PromoOutcomes,
		m.CatalogRefresh,
		m.CatalogSize,
		m.Checkouts,
		m.StateCorrupt,
	)
	return m
}

// Handler 暴露 /metrics
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry 返回内部 registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveRequest 记录一次 HTTP 请求
func (m *Metrics) ObserveRequest(route string, status int, latencyMS float64) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.HTTPLatencyMS.WithLabelValues(route).Observe(latencyMS)
}

// CartMutation 记录购物车变更
func (m *Metrics) CartMutation(op string) {
	if m == nil {
		return
	}
	m.CartMutations.WithLabelValues(op).Inc()
}

// PromoOutcome 记录优惠码结果
func (m *Metrics) PromoOutcome(outcome string) {
	if m == nil {
		return
	}
	m.PromoOutcomes.WithLabelValues(outcome).Inc()
}

// CatalogRefreshed 记录目录刷新结果
func (m *Metrics) CatalogRefreshed(result string, size int) {
	if m == nil {
		return
	}
	m.CatalogRefresh.WithLabelValues(result).Inc()
	if result == "ok" {
		m.CatalogSize.Set(float64(size))
	}
}

// CheckoutPlaced 记录结算
func (m *Metrics) CheckoutPlaced() {
	if m == nil {
		return
	}
	m.Checkouts.Inc()
}

// StateCorrupted 记录状态解码失败
func (m *Metrics) StateCorrupted(key string) {
	if m == nil {
		return
	}
	m.StateCorrupt.WithLabelValues(key).Inc()
}
