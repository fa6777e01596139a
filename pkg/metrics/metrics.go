// Package metrics 提供基于Prometheus的指标收集
//
// 指标类型：
//   - Counter：只增不减的累计值（请求数、操作次数）
//   - Gauge：可增可减的瞬时值（处理中的请求数）
//   - Histogram：观测值的分布（请求耗时）
//
// 命名规范：Counter以_total结尾，Histogram以单位结尾（_seconds）。
//
// 使用示例：
//
//	metrics.InitMetrics()
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	initOnce sync.Once

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数
	// 标签：method、path（路由模板，未匹配时为unmatched）、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// 业务指标

	// BookOperationsTotal 图书操作总数
	// 标签：operation（list/get/create/update/delete）、result（success/not_found/error）
	BookOperationsTotal *prometheus.CounterVec

	// BookCacheRequestsTotal 图书详情缓存请求数
	// 标签：result（hit/miss/error/skipped，skipped表示熔断期间跳过缓存）
	BookCacheRequestsTotal *prometheus.CounterVec

	// MessagesPublishedTotal 领域事件发布总数
	// 标签：routing_key、result（success/failure）
	MessagesPublishedTotal *prometheus.CounterVec
)

// InitMetrics 注册所有指标到默认Registry
// 可以重复调用，只有第一次生效
func InitMetrics() {
	initOnce.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP请求总数",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP请求耗时（秒）",
				// 单表CRUD通常在毫秒级
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"method", "path"},
		)

		HTTPRequestsInProgress = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_progress",
				Help: "正在处理的HTTP请求数",
			},
		)

		BookOperationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "book_operations_total",
				Help: "图书操作总数",
			},
			[]string{"operation", "result"},
		)

		BookCacheRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "book_cache_requests_total",
				Help: "图书详情缓存请求数",
			},
			[]string{"result"},
		)

		MessagesPublishedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "messages_published_total",
				Help: "领域事件发布总数",
			},
			[]string{"routing_key", "result"},
		)
	})
}

// RecordBookOperation 记录一次图书操作结果
func RecordBookOperation(operation, result string) {
	InitMetrics()
	BookOperationsTotal.WithLabelValues(operation, result).Inc()
}

// RecordCacheRequest 记录一次缓存查询结果
func RecordCacheRequest(result string) {
	InitMetrics()
	BookCacheRequestsTotal.WithLabelValues(result).Inc()
}

// RecordPublish 记录一次事件发布结果
func RecordPublish(routingKey string, err error) {
	InitMetrics()
	result := "success"
	if err != nil {
		result = "failure"
	}
	MessagesPublishedTotal.WithLabelValues(routingKey, result).Inc()
}
