package middleware

import (
	"io"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/bookinventory/pkg/errors"
	"github.com/xiebiao/bookinventory/pkg/logger"
	"github.com/xiebiao/bookinventory/pkg/response"
)

// Recovery panic恢复中间件
// 替换gin默认的Recovery：堆栈写入结构化日志，客户端收到统一的500响应
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		logger.FromContext(c.Request.Context()).Error("panic recovered",
			"panic", recovered,
			"stack", string(debug.Stack()),
		)
		response.Abort(c, apperrors.ErrInternal)
	})
}
