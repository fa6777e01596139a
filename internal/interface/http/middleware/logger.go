package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/xiebiao/bookinventory/pkg/logger"
	"github.com/xiebiao/bookinventory/pkg/tracing"
)

// RequestIDHeader 请求ID响应头
const RequestIDHeader = "X-Request-ID"

// slowRequestThreshold 超过该耗时记为慢请求
const slowRequestThreshold = 3 * time.Second

// Logger 请求日志中间件
//
// 教学要点：
// 1. 每个请求生成唯一的请求ID（上游已经带了就沿用）
// 2. 把带request_id、trace_id、span_id的logger放进请求Context，Handler和response包都从Context取
// 3. 一个请求只输出一条访问日志，按状态码分级：5xx Error、4xx Warn、其余Info
func Logger(base *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 步骤1: 请求ID
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		// 步骤2: 请求级logger
		ctx := c.Request.Context()
		reqLogger := base.With("request_id", requestID)
		if traceID := tracing.ExtractTraceID(ctx); traceID != "" {
			reqLogger = reqLogger.With("trace_id", traceID, "span_id", tracing.ExtractSpanID(ctx))
		}
		c.Request = c.Request.WithContext(logger.NewContext(ctx, reqLogger))

		// 步骤3: 处理请求
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		// 步骤4: 访问日志
		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"route", c.FullPath(),
			"status", status,
			"latency", latency,
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
		}

		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}
		reqLogger.Log(c.Request.Context(), level, "http request", attrs...)

		if latency > slowRequestThreshold {
			reqLogger.Warn("slow request",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"latency", latency,
			)
		}
	}
}
