package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/bookinventory/pkg/errors"
	"github.com/xiebiao/bookinventory/pkg/logger"
)

// Response 统一响应结构（Envelope）
// 设计说明：
// 1. Success标识请求是否成功
// 2. 成功时返回Data或Message，失败时返回Error
// 3. 状态码使用HTTP状态码，不再额外返回业务码
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success 成功响应（200）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// Created 创建成功响应（201）
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

// SuccessWithMessage 只带提示信息的成功响应
func SuccessWithMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
	})
}

// Error 错误响应（自动处理AppError）
// 用法：
//
//	book, err := h.bookService.GetBook(ctx, id)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	status := appErr.HTTPStatus()

	// 内部错误只进日志
	if appErr.Err != nil || status >= http.StatusInternalServerError {
		_ = c.Error(err)
		logger.FromContext(c.Request.Context()).Error("request failed",
			"code", appErr.Code,
			"error", err,
		)
	}

	c.JSON(status, Response{
		Success: false,
		Error:   appErr.Message,
	})
}

// Abort 错误响应并终止后续Handler（用于中间件、NoRoute）
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
