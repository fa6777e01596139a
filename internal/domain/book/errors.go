package book

import (
	apperrors "github.com/xiebiao/bookinventory/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "Book not found")

	// ErrMissingFields 创建图书时缺少title/author/year中的任意一个
	ErrMissingFields = apperrors.New(apperrors.ErrCodeMissingFields, "Missing required fields")

	// ErrInvalidBody 请求体不是JSON对象或字段类型不匹配
	ErrInvalidBody = apperrors.New(apperrors.ErrCodeInvalidBody, "Invalid request body")
)
