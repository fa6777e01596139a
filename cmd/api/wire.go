//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 修改Provider后运行 `wire gen ./cmd/api` 重新生成wire_gen.go

package main

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"

	"github.com/xiebiao/bookinventory/internal/domain/book"
	"github.com/xiebiao/bookinventory/internal/infrastructure/config"
	"github.com/xiebiao/bookinventory/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookinventory/internal/interface/http/handler"
	"github.com/xiebiao/bookinventory/internal/interface/http/router"
)

// infrastructureSet 基础设施层依赖
// 包含：数据库连接、事务管理器、仓储（可选Redis缓存）、事件发布（可选RabbitMQ）
var infrastructureSet = wire.NewSet(
	provideDB,
	mysql.NewTxManager,
	wire.Bind(new(book.Transactor), new(*mysql.TxManager)),
	provideBookRepository,
	provideEventPublisher,
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	book.NewService,
)

// interfaceSet 接口层依赖
var interfaceSet = wire.NewSet(
	handler.NewBookHandler,
	router.NewRouter,
)

// InitializeApp 初始化整个应用
// 返回配置好的Gin引擎和释放资源的cleanup函数
func InitializeApp(cfg *config.Config, log *slog.Logger) (*gin.Engine, func(), error) {
	wire.Build(
		infrastructureSet,
		domainSet,
		interfaceSet,
	)
	return nil, nil, nil
}
