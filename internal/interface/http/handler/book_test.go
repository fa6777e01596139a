package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookinventory/internal/domain/book"
	apperrors "github.com/xiebiao/bookinventory/pkg/errors"
)

type mockBookService struct {
	mock.Mock
}

func (m *mockBookService) ListBooks(ctx context.Context) ([]*book.Book, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*book.Book), args.Error(1)
}

func (m *mockBookService) GetBook(ctx context.Context, id uint) (*book.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*book.Book), args.Error(1)
}

func (m *mockBookService) CreateBook(ctx context.Context, title, author string, year int) (*book.Book, error) {
	args := m.Called(ctx, title, author, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*book.Book), args.Error(1)
}

func (m *mockBookService) UpdateBook(ctx context.Context, id uint, patch book.Patch) (*book.Book, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*book.Book), args.Error(1)
}

func (m *mockBookService) DeleteBook(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func newTestEngine(svc book.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewBookHandler(svc)

	r := gin.New()
	books := r.Group("/api/books")
	books.GET("", h.ListBooks)
	books.POST("", h.CreateBook)
	books.GET("/:id", h.GetBook)
	books.PUT("/:id", h.UpdateBook)
	books.DELETE("/:id", h.DeleteBook)
	return r
}

func do(t *testing.T, r http.Handler, method, path, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func ptr[T any](v T) *T { return &v }

func TestBookHandler_ListBooks(t *testing.T) {
	svc := new(mockBookService)
	svc.On("ListBooks", mock.Anything).Return([]*book.Book{
		{ID: 1, Title: "a", Author: "x", Year: 1},
		{ID: 2, Title: "b", Author: "y", Year: 2},
	}, nil)

	code, env := do(t, newTestEngine(svc), http.MethodGet, "/api/books", "")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)

	var data []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data, 2)
	assert.Equal(t, map[string]interface{}{"id": 1.0, "title": "a", "author": "x", "year": 1.0}, data[0])
	svc.AssertExpectations(t)
}

func TestBookHandler_ListBooksEmpty(t *testing.T) {
	svc := new(mockBookService)
	svc.On("ListBooks", mock.Anything).Return([]*book.Book{}, nil)

	code, env := do(t, newTestEngine(svc), http.MethodGet, "/api/books", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestBookHandler_GetBook(t *testing.T) {
	svc := new(mockBookService)
	svc.On("GetBook", mock.Anything, uint(1)).Return(&book.Book{ID: 1, Title: "T", Author: "A", Year: 1925}, nil)
	svc.On("GetBook", mock.Anything, uint(999)).Return(nil, book.ErrBookNotFound)
	r := newTestEngine(svc)

	t.Run("存在", func(t *testing.T) {
		code, env := do(t, r, http.MethodGet, "/api/books/1", "")
		assert.Equal(t, http.StatusOK, code)
		assert.JSONEq(t, `{"id":1,"title":"T","author":"A","year":1925}`, string(env.Data))
	})

	t.Run("不存在", func(t *testing.T) {
		code, env := do(t, r, http.MethodGet, "/api/books/999", "")
		assert.Equal(t, http.StatusNotFound, code)
		assert.False(t, env.Success)
		assert.Equal(t, "Book not found", env.Error)
	})

	t.Run("非法ID", func(t *testing.T) {
		for _, path := range []string{"/api/books/abc", "/api/books/-1", "/api/books/1.5"} {
			code, env := do(t, r, http.MethodGet, path, "")
			assert.Equal(t, http.StatusNotFound, code, path)
			assert.Equal(t, "Resource not found", env.Error, path)
		}
	})

	svc.AssertNumberOfCalls(t, "GetBook", 2)
}

func TestBookHandler_CreateBook(t *testing.T) {
	svc := new(mockBookService)
	svc.On("CreateBook", mock.Anything, "The Great Gatsby", "F. Scott Fitzgerald", 1925).
		Return(&book.Book{ID: 3, Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", Year: 1925}, nil)
	svc.On("CreateBook", mock.Anything, "", "", 0).
		Return(&book.Book{ID: 4}, nil)
	r := newTestEngine(svc)

	t.Run("创建成功", func(t *testing.T) {
		code, env := do(t, r, http.MethodPost, "/api/books",
			`{"title":"The Great Gatsby","author":"F. Scott Fitzgerald","year":1925}`)
		assert.Equal(t, http.StatusCreated, code)
		assert.True(t, env.Success)
		assert.JSONEq(t, `{"id":3,"title":"The Great Gatsby","author":"F. Scott Fitzgerald","year":1925}`, string(env.Data))
	})

	t.Run("空值字段也算提供", func(t *testing.T) {
		code, _ := do(t, r, http.MethodPost, "/api/books", `{"title":"","author":"","year":0}`)
		assert.Equal(t, http.StatusCreated, code)
	})

	t.Run("缺少字段", func(t *testing.T) {
		for _, body := range []string{`{"title":"Incomplete"}`, `{}`, ``, `{"title":"T","author":null,"year":1}`} {
			code, env := do(t, r, http.MethodPost, "/api/books", body)
			assert.Equal(t, http.StatusBadRequest, code, body)
			assert.Equal(t, "Missing required fields", env.Error, body)
		}
	})

	t.Run("请求体格式错误", func(t *testing.T) {
		code, env := do(t, r, http.MethodPost, "/api/books", `{"title":"T","author":"A","year":"x"}`)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Invalid request body", env.Error)
	})

	svc.AssertNumberOfCalls(t, "CreateBook", 2)
}

func TestBookHandler_UpdateBook(t *testing.T) {
	svc := new(mockBookService)
	svc.On("UpdateBook", mock.Anything, uint(1), book.Patch{Title: ptr("Updated Title"), Year: ptr(2023)}).
		Return(&book.Book{ID: 1, Title: "Updated Title", Author: "A", Year: 2023}, nil)
	svc.On("UpdateBook", mock.Anything, uint(2), book.Patch{}).
		Return(&book.Book{ID: 2, Title: "T", Author: "A", Year: 1}, nil)
	svc.On("UpdateBook", mock.Anything, uint(999), mock.Anything).
		Return(nil, book.ErrBookNotFound)
	svc.On("GetBook", mock.Anything, uint(1)).Return(&book.Book{ID: 1, Title: "T", Author: "A", Year: 1}, nil)
	svc.On("GetBook", mock.Anything, uint(999)).Return(nil, book.ErrBookNotFound)
	r := newTestEngine(svc)

	code, env := do(t, r, http.MethodPut, "/api/books/1", `{"title":"Updated Title","year":2023}`)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"id":1,"title":"Updated Title","author":"A","year":2023}`, string(env.Data))

	code, _ = do(t, r, http.MethodPut, "/api/books/2", ``)
	assert.Equal(t, http.StatusOK, code, "空请求体等价于空patch")

	code, env = do(t, r, http.MethodPut, "/api/books/999", `{"title":"x"}`)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Book not found", env.Error)

	code, env = do(t, r, http.MethodPut, "/api/books/1", `not json`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid request body", env.Error)

	// 不存在的图书先返回404，不看请求体
	code, env = do(t, r, http.MethodPut, "/api/books/999", `not json`)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Book not found", env.Error)

	svc.AssertNumberOfCalls(t, "UpdateBook", 3)
	svc.AssertNumberOfCalls(t, "GetBook", 2)
}

func TestBookHandler_DeleteBook(t *testing.T) {
	svc := new(mockBookService)
	svc.On("DeleteBook", mock.Anything, uint(1)).Return(nil).Once()
	svc.On("DeleteBook", mock.Anything, uint(1)).Return(book.ErrBookNotFound)
	r := newTestEngine(svc)

	code, env := do(t, r, http.MethodDelete, "/api/books/1", "")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
	assert.Equal(t, "Book deleted successfully", env.Message)

	code, env = do(t, r, http.MethodDelete, "/api/books/1", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Book not found", env.Error)
}

func TestBookHandler_StorageErrorIsHidden(t *testing.T) {
	svc := new(mockBookService)
	svc.On("ListBooks", mock.Anything).
		Return(nil, apperrors.Wrap(errors.New("dial tcp 127.0.0.1:3306: connection refused"), "查询图书列表失败"))

	code, env := do(t, newTestEngine(svc), http.MethodGet, "/api/books", "")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.False(t, env.Success)
	assert.Equal(t, "Internal server error", env.Error)
}
