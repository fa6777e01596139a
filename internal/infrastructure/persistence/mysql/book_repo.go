package mysql

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/xiebiao/bookinventory/internal/domain/book"
	apperrors "github.com/xiebiao/bookinventory/pkg/errors"
	"github.com/xiebiao/bookinventory/pkg/tracing"
)

const tracerName = "bookapi/persistence/mysql"

// bookRepository 图书仓储实现
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. gorm.ErrRecordNotFound转换为book.ErrBookNotFound,其他错误包装为数据库错误
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// List 按主键升序查询全部图书
func (r *bookRepository) List(ctx context.Context) ([]*book.Book, error) {
	ctx, span := startSpan(ctx, "BookRepository.List")
	defer span.End()

	var models []BookModel
	if err := r.getDB(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, fail(span, apperrors.Wrap(err, "查询图书列表失败"))
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	span.SetAttributes(attribute.Int("book.count", len(books)))
	return books, nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	ctx, span := startSpan(ctx, "BookRepository.FindByID", attribute.Int64("book.id", int64(id)))
	defer span.End()

	var model BookModel
	err := r.getDB(ctx).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, fail(span, apperrors.Wrapf(err, "查询图书失败: id=%d", id))
	}

	return toBookEntity(&model), nil
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	ctx, span := startSpan(ctx, "BookRepository.Create")
	defer span.End()

	model := toBookModel(b)
	model.ID = 0 // ID只能由数据库分配

	if err := r.getDB(ctx).Create(model).Error; err != nil {
		return fail(span, apperrors.Wrap(err, "创建图书失败"))
	}

	// 回填自增ID
	b.ID = model.ID
	span.SetAttributes(attribute.Int64("book.id", int64(b.ID)))
	return nil
}

// Update 更新图书信息
// 学习要点: Updates(struct)默认跳过零值,Select显式列出字段才能写入""和0
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	ctx, span := startSpan(ctx, "BookRepository.Update", attribute.Int64("book.id", int64(b.ID)))
	defer span.End()

	err := r.getDB(ctx).
		Model(&BookModel{ID: b.ID}).
		Select("title", "author", "year").
		Updates(toBookModel(b)).Error
	if err != nil {
		return fail(span, apperrors.Wrapf(err, "更新图书失败: id=%d", b.ID))
	}
	return nil
}

// Delete 删除图书(物理删除)
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	ctx, span := startSpan(ctx, "BookRepository.Delete", attribute.Int64("book.id", int64(id)))
	defer span.End()

	result := r.getDB(ctx).Delete(&BookModel{}, id)
	if result.Error != nil {
		return fail(span, apperrors.Wrapf(result.Error, "删除图书失败: id=%d", id))
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// getDB 参与ctx中的事务(如果有),并绑定ctx
func (r *bookRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	return &book.Book{
		ID:     model.ID,
		Title:  model.Title,
		Author: model.Author,
		Year:   model.Year,
	}
}

// toBookModel 领域实体 → GORM模型
func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:     b.ID,
		Title:  b.Title,
		Author: b.Author,
		Year:   b.Year,
	}
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracing.StartSpan(ctx, tracerName, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(append(attrs, attribute.String("db.sql.table", "books"))...),
	)
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
