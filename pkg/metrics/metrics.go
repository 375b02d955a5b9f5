// Package metrics 提供基于Prometheus的指标收集
//
// # 指标分类
//
//   - HTTP指标：请求总数、耗时、正在处理的请求数
//   - 排行查询指标：查询次数（按排行类型、结果）、查询耗时
//   - 缓存指标：book:{id}的读写删结果、熔断器状态
//   - 事件指标：图书事件发布次数、转发到消息队列的结果
//
// 所有指标在包加载时注册到默认Registry，/metrics端点通过Handler()暴露。
//
// # 命名规范
//
//  1. Counter以_total结尾（http_requests_total）
//  2. Histogram以单位结尾（book_rank_query_duration_seconds）
//  3. 标签只使用有限取值（method、status、preset），不要用book_id作为标签
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 缓存操作结果标签取值
const (
	ResultHit      = "hit"
	ResultMiss     = "miss"
	ResultOK       = "ok"
	ResultError    = "error"
	ResultRejected = "rejected" // 熔断器打开，请求被拒绝
)

var (
	// HTTPRequestsTotal HTTP请求总数
	// 标签：method、path（路由模板，如/api/v1/books/:id）、status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration HTTP请求耗时
	// 桶设置：1ms、10ms、100ms、500ms、1s、5s、10s
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	// RankQueriesTotal 排行查询次数
	// 标签：kind（预置排行榜名称或custom）、result（ok/error）
	RankQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "book_rank_queries_total",
			Help: "图书排行查询次数",
		},
		[]string{"kind", "result"},
	)

	// RankQueryDuration 排行查询耗时（包含数据库聚合）
	RankQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "book_rank_query_duration_seconds",
			Help:    "图书排行查询耗时（秒）",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"kind"},
	)

	// CacheOperationsTotal 图书缓存操作次数
	// 标签：op（get/set/remove）、result（hit/miss/ok/error/rejected）
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "book_cache_operations_total",
			Help: "图书缓存操作次数",
		},
		[]string{"op", "result"},
	)

	// CircuitBreakerState 熔断器状态（0=CLOSED, 1=HALF_OPEN, 2=OPEN）
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=HALF_OPEN, 2=OPEN）",
		},
		[]string{"name"},
	)

	// BookEventsTotal 图书事件发布次数
	// 标签：type（book.updated/book.deleted）
	BookEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "book_events_total",
			Help: "图书事件发布次数",
		},
		[]string{"type"},
	)

	// MessagesPublishedTotal 消息发布次数
	// 标签：routing_key、result（ok/error）
	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布次数",
		},
		[]string{"routing_key", "result"},
	)
)

// Handler 返回/metrics端点的HTTP处理器
func Handler() http.Handler {
	return promhttp.Handler()
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

// SetGaugeVec 设置GaugeVec值（带标签）
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	gauge.With(labels).Set(value)
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}

// CacheOp 记录一次缓存操作
func CacheOp(op, result string) {
	CacheOperationsTotal.WithLabelValues(op, result).Inc()
}
