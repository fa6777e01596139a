package book

import (
	"context"
	"sync"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现(MySQL/SQLite、Redis缓存装饰器)
// 2. 按ID操作的方法在记录不存在时返回ErrBookNotFound
type Repository interface {
	// List 按主键顺序返回全部图书
	List(ctx context.Context) ([]*Book, error)

	// FindByID 根据ID查找图书
	FindByID(ctx context.Context, id uint) (*Book, error)

	// Create 创建图书,成功后回填ID
	Create(ctx context.Context, book *Book) error

	// Update 覆盖写入title/author/year
	Update(ctx context.Context, book *Book) error

	// Delete 物理删除
	Delete(ctx context.Context, id uint) error
}

// Transactor 事务边界
// fn内通过ctx调用的Repository方法处于同一事务,fn返回nil时提交
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// afterCommitKey Context中提交回调的key
type afterCommitKey struct{}

type afterCommitHooks struct {
	mu  sync.Mutex
	fns []func(ctx context.Context)
}

// WithAfterCommit 为最外层事务准备提交回调
// Transactor的实现在事务开始时调用,提交成功后调用返回的run;回滚时丢弃回调
// ctx已处于事务中(嵌套事务)时原样返回ctx,run为空操作
func WithAfterCommit(ctx context.Context) (context.Context, func(ctx context.Context)) {
	if _, ok := ctx.Value(afterCommitKey{}).(*afterCommitHooks); ok {
		return ctx, func(context.Context) {}
	}
	h := &afterCommitHooks{}
	return context.WithValue(ctx, afterCommitKey{}, h), h.run
}

// AfterCommit 在ctx所属事务提交后执行fn,ctx不在事务中时立即执行
//
//	book.AfterCommit(ctx, func(ctx context.Context) {
//	    cache.Del(ctx, key)
//	})
func AfterCommit(ctx context.Context, fn func(ctx context.Context)) {
	if h, ok := ctx.Value(afterCommitKey{}).(*afterCommitHooks); ok {
		h.mu.Lock()
		h.fns = append(h.fns, fn)
		h.mu.Unlock()
		return
	}
	fn(ctx)
}

// InTransaction ctx是否处于Transactor开启的事务中
func InTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(afterCommitKey{}).(*afterCommitHooks)
	return ok
}

func (h *afterCommitHooks) run(ctx context.Context) {
	h.mu.Lock()
	fns := h.fns
	h.fns = nil
	h.mu.Unlock()

	for _, fn := range fns {
		fn(ctx)
	}
}
