package book

import (
	"context"
	"errors"
	"log/slog"

	"github.com/xiebiao/bookinventory/pkg/metrics"
)

// Service 图书领域服务接口
// 五个操作与HTTP路由一一对应,按ID操作的方法在图书不存在时返回ErrBookNotFound
type Service interface {
	// ListBooks 查询全部图书
	ListBooks(ctx context.Context) ([]*Book, error)

	// GetBook 根据ID获取图书
	GetBook(ctx context.Context, id uint) (*Book, error)

	// CreateBook 创建图书,ID由存储引擎分配
	CreateBook(ctx context.Context, title, author string, year int) (*Book, error)

	// UpdateBook 部分更新,只修改patch中出现的字段
	UpdateBook(ctx context.Context, id uint, patch Patch) (*Book, error)

	// DeleteBook 物理删除图书
	DeleteBook(ctx context.Context, id uint) error
}

// service 领域服务实现
type service struct {
	repo   Repository
	tx     Transactor
	events EventPublisher
	logger *slog.Logger
}

// NewService 创建图书领域服务
func NewService(repo Repository, tx Transactor, events EventPublisher, logger *slog.Logger) Service {
	if events == nil {
		events = NopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		repo:   repo,
		tx:     tx,
		events: events,
		logger: logger,
	}
}

// ListBooks 查询全部图书
func (s *service) ListBooks(ctx context.Context) ([]*Book, error) {
	books, err := s.repo.List(ctx)
	record("list", err)
	if err != nil {
		return nil, err
	}
	return books, nil
}

// GetBook 根据ID获取图书
func (s *service) GetBook(ctx context.Context, id uint) (*Book, error) {
	b, err := s.repo.FindByID(ctx, id)
	record("get", err)
	return b, err
}

// CreateBook 创建图书
func (s *service) CreateBook(ctx context.Context, title, author string, year int) (*Book, error) {
	b := NewBook(title, author, year)
	if err := s.repo.Create(ctx, b); err != nil {
		record("create", err)
		return nil, err
	}
	record("create", nil)

	s.publish(ctx, EventCreated, b)
	return b, nil
}

// UpdateBook 部分更新
// 学习要点:
// 1. 先查后改,两步在同一事务中执行
// 2. 字段合并由实体的Apply完成,nil字段保留原值
// 3. 事务提交后才发布事件
func (s *service) UpdateBook(ctx context.Context, id uint, patch Patch) (*Book, error) {
	var updated *Book
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		b, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		b.Apply(patch)
		if err := s.repo.Update(ctx, b); err != nil {
			return err
		}
		updated = b
		return nil
	})
	record("update", err)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, EventUpdated, updated)
	return updated, nil
}

// DeleteBook 删除图书
func (s *service) DeleteBook(ctx context.Context, id uint) error {
	var deleted *Book
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		b, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			return err
		}
		deleted = b
		return nil
	})
	record("delete", err)
	if err != nil {
		return err
	}

	s.publish(ctx, EventDeleted, deleted)
	return nil
}

// publish 发布失败只记日志,数据已提交,不影响请求结果
func (s *service) publish(ctx context.Context, routingKey string, b *Book) {
	if _, ok := s.events.(NopPublisher); ok {
		return
	}
	err := s.events.Publish(ctx, routingKey, newEvent(routingKey, b))
	metrics.RecordPublish(routingKey, err)
	if err != nil {
		s.logger.WarnContext(ctx, "publish book event failed",
			"routing_key", routingKey,
			"book_id", b.ID,
			"error", err,
		)
	}
}

func record(operation string, err error) {
	result := "success"
	switch {
	case err == nil:
	case errors.Is(err, ErrBookNotFound):
		result = "not_found"
	default:
		result = "error"
	}
	metrics.RecordBookOperation(operation, result)
}
