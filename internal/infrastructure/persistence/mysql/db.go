package mysql

import (
	"fmt"
	"log/slog"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/xiebiao/bookinventory/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明:
// 1. 使用GORM v2作为ORM框架
// 2. driver=mysql用于生产环境,driver=sqlite(纯Go实现,无需CGO)用于本地开发和测试
// 3. 配置连接池参数(MaxOpenConns、MaxIdleConns、ConnMaxLifetime)
// 4. 按配置自动迁移表结构(AutoMigrate)
// 5. SQL错误、慢查询写入log(database.log_sql时输出每条SQL)
func NewDB(cfg *config.Config, log *slog.Logger) (*gorm.DB, error) {
	dialector, err := openDialector(cfg.Database)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(log, cfg.Database.LogSQL),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	// 未配置时沿用database/sql的默认值
	// 注意: sqlite的:memory:库随连接销毁,测试中需要MaxIdleConns>=1
	if cfg.Database.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	}
	if cfg.Database.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}
	if cfg.Database.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := autoMigrate(db); err != nil {
			return nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
	}

	return db, nil
}

func openDialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "mysql":
		return mysql.Open(cfg.ConnString()), nil
	case "sqlite":
		return sqlite.Open(cfg.ConnString()), nil
	}
	return nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.Driver)
}

// autoMigrate 自动迁移表结构
// 注意: AutoMigrate只会创建表、添加字段,生产环境应使用版本化的迁移脚本
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&BookModel{})
}

// BookModel GORM图书模型
// 设计说明:
// 1. 这是infrastructure层的数据模型,包含GORM tag
// 2. domain/book/entity.go是领域实体,不依赖GORM
// 3. 没有DeletedAt字段,删除即物理删除
type BookModel struct {
	ID     uint   `gorm:"primaryKey;autoIncrement"`
	Title  string `gorm:"size:255;not null"`
	Author string `gorm:"size:255;not null"`
	Year   int    `gorm:"not null"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}
