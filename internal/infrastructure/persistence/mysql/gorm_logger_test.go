package mysql

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookinventory/internal/domain/book"
	"github.com/xiebiao/bookinventory/internal/infrastructure/config"
)

func newBufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func sqlFn(sql string) func() (string, int64) {
	return func() (string, int64) { return sql, 1 }
}

func TestGormLogger_Trace(t *testing.T) {
	ctx := context.Background()

	t.Run("默认只输出错误和慢查询", func(t *testing.T) {
		log, buf := newBufferLogger()
		l := newGormLogger(log, false)

		l.Trace(ctx, time.Now(), sqlFn("SELECT 1"), nil)
		assert.Empty(t, buf.String())

		l.Trace(ctx, time.Now(), sqlFn("SELECT * FROM books WHERE id = 9"), gorm.ErrRecordNotFound)
		assert.Empty(t, buf.String(), "记录不存在不是错误")

		l.Trace(ctx, time.Now(), sqlFn("SELECT * FROM nope"), errors.New("no such table: nope"))
		assert.Contains(t, buf.String(), `"msg":"sql error"`)
		assert.Contains(t, buf.String(), `"component":"gorm"`)
		assert.Contains(t, buf.String(), "no such table: nope")

		buf.Reset()
		l.Trace(ctx, time.Now().Add(-time.Second), sqlFn("SELECT SLEEP(1)"), nil)
		assert.Contains(t, buf.String(), `"msg":"slow sql"`)
		assert.Contains(t, buf.String(), `"level":"WARN"`)
	})

	t.Run("log_sql输出每条SQL", func(t *testing.T) {
		log, buf := newBufferLogger()
		l := newGormLogger(log, true)

		l.Trace(ctx, time.Now(), sqlFn("SELECT 1"), nil)
		assert.Contains(t, buf.String(), `"sql":"SELECT 1"`)
	})

	t.Run("Silent不输出", func(t *testing.T) {
		log, buf := newBufferLogger()
		l := newGormLogger(log, true).LogMode(logger.Silent)

		l.Trace(ctx, time.Now(), sqlFn("SELECT 1"), errors.New("boom"))
		assert.Empty(t, buf.String())
	})
}

func TestNewDB_SQLLogReachesSlog(t *testing.T) {
	log, buf := newBufferLogger()
	db, err := NewDB(&config.Config{Database: config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		AutoMigrate:  true,
		LogSQL:       true,
	}}, log)
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	buf.Reset()
	require.NoError(t, NewBookRepository(db).Create(context.Background(), book.NewBook("t", "a", 1)))
	assert.Contains(t, buf.String(), "INSERT INTO")
}
