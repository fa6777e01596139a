package dto

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookinventory/internal/domain/book"
)

// CreateBookRequest HTTP创建图书请求
// 字段使用指针区分“缺失”和“零值”：
// - 缺失或null：nil
// - 空字符串、0：非nil，照常保存
type CreateBookRequest struct {
	Title  *string `json:"title" example:"The Great Gatsby"`
	Author *string `json:"author" example:"F. Scott Fitzgerald"`
	Year   *int    `json:"year" example:"1925"`
}

// Validate 三个字段必须全部出现
func (r *CreateBookRequest) Validate() error {
	if r.Title == nil || r.Author == nil || r.Year == nil {
		return book.ErrMissingFields
	}
	return nil
}

// UpdateBookRequest HTTP更新图书请求（部分更新）
type UpdateBookRequest struct {
	Title  *string `json:"title" example:"Updated Title"`
	Author *string `json:"author" example:"F. Scott Fitzgerald"`
	Year   *int    `json:"year" example:"2023"`
}

// ToPatch 转换为领域层的Patch，出现的字段才会被修改
func (r *UpdateBookRequest) ToPatch() book.Patch {
	return book.Patch{
		Title:  r.Title,
		Author: r.Author,
		Year:   r.Year,
	}
}

// BookResponse HTTP图书响应
type BookResponse struct {
	ID     uint   `json:"id" example:"1"`
	Title  string `json:"title" example:"The Great Gatsby"`
	Author string `json:"author" example:"F. Scott Fitzgerald"`
	Year   int    `json:"year" example:"1925"`
}

// ToBookResponse 实体 → 响应
func ToBookResponse(b *book.Book) BookResponse {
	return BookResponse{
		ID:     b.ID,
		Title:  b.Title,
		Author: b.Author,
		Year:   b.Year,
	}
}

// ToBookList 实体列表 → 响应列表
// 没有图书时返回空数组而不是null
func ToBookList(books []*book.Book) []BookResponse {
	list := make([]BookResponse, 0, len(books))
	for _, b := range books {
		list = append(list, ToBookResponse(b))
	}
	return list
}

// BindJSON 解析请求体
// 空请求体不算错误（结构体保持零值），JSON格式错误或字段类型不匹配返回ErrInvalidBody
func BindJSON(c *gin.Context, obj interface{}) error {
	if c.Request.Body == nil {
		return nil
	}
	if err := c.ShouldBindJSON(obj); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return book.ErrInvalidBody
	}
	return nil
}
