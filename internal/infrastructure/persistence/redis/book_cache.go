package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/bookinventory/internal/domain/book"
	"github.com/xiebiao/bookinventory/pkg/circuitbreaker"
	"github.com/xiebiao/bookinventory/pkg/metrics"
)

// cachedBook 缓存中的JSON结构
type cachedBook struct {
	ID     uint   `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   int    `json:"year"`
}

// cachedRepository 图书详情缓存（Cache-Aside装饰器）
//
// 教学要点：
// 1. 读：先查缓存，未命中再查数据库并回填
// 2. 写：事务提交后删除缓存（而不是更新缓存，避免并发写导致脏数据）
//    提交前删除的话，并发读会把旧数据重新写回缓存
// 3. 缓存故障只降级到数据库，不影响请求结果
// 4. Redis连续失败时熔断器打开，读请求跳过缓存，不再等待Redis超时
// 5. List、Create直接透传（列表不缓存，新建的图书下次读取时再加载）
// 6. 事务内的读直接查数据库，存在性检查不能被缓存中的旧数据满足
type cachedRepository struct {
	next    book.Repository
	client  *redis.Client
	ttl     time.Duration
	breaker *circuitbreaker.CircuitBreaker
	logger  *slog.Logger
}

// NewCachedBookRepository 为仓储包装一层Redis详情缓存
func NewCachedBookRepository(
	next book.Repository,
	client *redis.Client,
	ttl time.Duration,
	breaker *circuitbreaker.CircuitBreaker,
	logger *slog.Logger,
) book.Repository {
	return &cachedRepository{
		next:    next,
		client:  client,
		ttl:     ttl,
		breaker: breaker,
		logger:  logger,
	}
}

func (r *cachedRepository) List(ctx context.Context) ([]*book.Book, error) {
	return r.next.List(ctx)
}

func (r *cachedRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	if book.InTransaction(ctx) {
		return r.next.FindByID(ctx, id)
	}

	key := bookKey(id)
	cached, err := r.get(ctx, key)
	switch {
	case errors.Is(err, circuitbreaker.ErrOpenState):
		metrics.RecordCacheRequest("skipped")
	case err != nil:
		metrics.RecordCacheRequest("error")
		r.logger.WarnContext(ctx, "read book cache failed", "key", key, "error", err)
	case cached != nil:
		metrics.RecordCacheRequest("hit")
		return cached, nil
	default:
		metrics.RecordCacheRequest("miss")
	}

	b, err := r.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.set(ctx, key, b)
	return b, nil
}

// get 读取缓存，未命中返回(nil, nil)
// 内容损坏按未命中处理，写回时会被覆盖
func (r *cachedRepository) get(ctx context.Context, key string) (*book.Book, error) {
	var b *book.Book
	err := r.breaker.Execute(func() error {
		val, err := r.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}

		var c cachedBook
		if err := json.Unmarshal(val, &c); err != nil {
			r.logger.WarnContext(ctx, "corrupt book cache entry", "key", key, "error", err)
			return nil
		}
		b = &book.Book{ID: c.ID, Title: c.Title, Author: c.Author, Year: c.Year}
		return nil
	})
	return b, err
}

func (r *cachedRepository) set(ctx context.Context, key string, b *book.Book) {
	raw, err := json.Marshal(cachedBook{ID: b.ID, Title: b.Title, Author: b.Author, Year: b.Year})
	if err != nil {
		return
	}
	err = r.breaker.Execute(func() error {
		return r.client.Set(ctx, key, raw, r.ttl).Err()
	})
	if err != nil && !errors.Is(err, circuitbreaker.ErrOpenState) {
		r.logger.WarnContext(ctx, "write book cache failed", "key", key, "error", err)
	}
}

func (r *cachedRepository) Create(ctx context.Context, b *book.Book) error {
	return r.next.Create(ctx, b)
}

func (r *cachedRepository) Update(ctx context.Context, b *book.Book) error {
	if err := r.next.Update(ctx, b); err != nil {
		return err
	}
	r.invalidateAfterCommit(ctx, b.ID)
	return nil
}

func (r *cachedRepository) Delete(ctx context.Context, id uint) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidateAfterCommit(ctx, id)
	return nil
}

// invalidateAfterCommit 删除缓存，不在事务中时立即删除
// 不经过熔断器，熔断期间也要尽量删除，避免Redis恢复后读到旧数据
func (r *cachedRepository) invalidateAfterCommit(ctx context.Context, id uint) {
	book.AfterCommit(ctx, func(ctx context.Context) {
		r.invalidate(ctx, id)
	})
}

func (r *cachedRepository) invalidate(ctx context.Context, id uint) {
	if err := r.client.Del(ctx, bookKey(id)).Err(); err != nil {
		r.logger.WarnContext(ctx, "invalidate book cache failed", "book_id", id, "error", err)
	}
}

// bookKey 图书详情缓存key
// 格式：bookapi:book:{id}
func bookKey(id uint) string {
	return fmt.Sprintf("bookapi:book:%d", id)
}
