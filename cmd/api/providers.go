package main

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/xiebiao/bookinventory/internal/domain/book"
	"github.com/xiebiao/bookinventory/internal/infrastructure/config"
	"github.com/xiebiao/bookinventory/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookinventory/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookinventory/pkg/circuitbreaker"
	"github.com/xiebiao/bookinventory/pkg/mq"
)

// provideDB 创建数据库连接，cleanup时关闭连接池
func provideDB(cfg *config.Config, log *slog.Logger) (*gorm.DB, func(), error) {
	db, err := mysql.NewDB(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Error("close database failed", "error", err)
			}
		}
	}
	return db, cleanup, nil
}

// provideBookRepository 创建图书仓储
// cache.enabled时在数据库仓储外包一层Redis详情缓存
func provideBookRepository(cfg *config.Config, db *gorm.DB, log *slog.Logger) (book.Repository, func(), error) {
	repo := mysql.NewBookRepository(db)
	if !cfg.Cache.Enabled {
		return repo, func() {}, nil
	}

	client, err := redis.NewClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	log.Info("book cache enabled", "redis", cfg.Redis.Addr(), "ttl", cfg.Cache.DetailTTL)

	cleanup := func() {
		if err := client.Close(); err != nil {
			log.Error("close redis failed", "error", err)
		}
	}
	breaker := circuitbreaker.NewCircuitBreaker("redis-book-cache", circuitbreaker.Config{
		Threshold: cfg.Cache.BreakerThreshold,
		Timeout:   cfg.Cache.BreakerTimeout,
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			log.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})
	return redis.NewCachedBookRepository(repo, client, cfg.Cache.DetailTTL, breaker, log), cleanup, nil
}

// provideEventPublisher 创建领域事件发布器
// mq.enabled为false时使用空实现
func provideEventPublisher(cfg *config.Config, log *slog.Logger) (book.EventPublisher, func(), error) {
	if !cfg.MQ.Enabled {
		return book.NopPublisher{}, func() {}, nil
	}

	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType)
	if err != nil {
		return nil, nil, err
	}
	log.Info("book events enabled", "exchange", cfg.MQ.Exchange)

	cleanup := func() {
		if err := publisher.Close(); err != nil {
			log.Error("close mq publisher failed", "error", err)
		}
	}
	return publisher, cleanup, nil
}
