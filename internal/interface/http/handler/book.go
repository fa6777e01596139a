package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookinventory/internal/domain/book"
	"github.com/xiebiao/bookinventory/internal/interface/http/dto"
	apperrors "github.com/xiebiao/bookinventory/pkg/errors"
	"github.com/xiebiao/bookinventory/pkg/response"
)

// BookHandler 图书HTTP处理器
// 设计说明：
// 1. Handler只负责HTTP相关的事情：解析请求、调用领域服务、返回响应
// 2. 存在性判断、字段合并都在领域层完成
type BookHandler struct {
	bookService book.Service
}

// NewBookHandler 创建图书处理器
func NewBookHandler(bookService book.Service) *BookHandler {
	return &BookHandler{
		bookService: bookService,
	}
}

// ListBooks 图书列表
// @Summary      图书列表
// @Description  返回全部图书，按ID升序
// @Tags         图书
// @Produce      json
// @Success      200 {object} response.Response{data=[]dto.BookResponse}
// @Failure      500 {object} response.Response "服务器内部错误"
// @Router       /api/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	books, err := h.bookService.ListBooks(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToBookList(books))
}

// GetBook 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	b, err := h.bookService.GetBook(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToBookResponse(b))
}

// CreateBook 创建图书
// @Summary      创建图书
// @Description  title、author、year三个字段必须全部提供，ID由数据库分配
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateBookRequest true "图书信息"
// @Success      201 {object} response.Response{data=dto.BookResponse}
// @Failure      400 {object} response.Response "缺少必填字段或请求体格式错误"
// @Router       /api/books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	// 1. 解析请求体
	var req dto.CreateBookRequest
	if err := dto.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	// 2. 必填校验（字段缺失与空值区分开）
	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	// 3. 调用领域服务
	b, err := h.bookService.CreateBook(c.Request.Context(), *req.Title, *req.Author, *req.Year)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToBookResponse(b))
}

// UpdateBook 更新图书
// @Summary      更新图书
// @Description  部分更新，只修改请求体中出现的字段；图书不存在时先返回404，再校验请求体
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        id      path int                   true "图书ID"
// @Param        request body dto.UpdateBookRequest true "需要修改的字段"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      400 {object} response.Response "请求体格式错误"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	var req dto.UpdateBookRequest
	if err := dto.BindJSON(c, &req); err != nil {
		// 图书不存在时优先返回404
		if _, getErr := h.bookService.GetBook(c.Request.Context(), id); getErr != nil {
			response.Error(c, getErr)
			return
		}
		response.Error(c, err)
		return
	}

	b, err := h.bookService.UpdateBook(c.Request.Context(), id, req.ToPatch())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToBookResponse(b))
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response "删除成功"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	if err := h.bookService.DeleteBook(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, "Book deleted successfully")
}

// bookID 解析路径参数id
// 非整数或负数说明路由不匹配，按Resource not found处理
func bookID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil {
		response.Abort(c, apperrors.ErrRouteNotFound)
		return 0, false
	}
	return uint(id), true
}
