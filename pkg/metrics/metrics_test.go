package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInitMetrics 测试指标初始化
func TestInitMetrics(t *testing.T) {
	InitMetrics()
	InitMetrics() // 重复调用不应panic（重复注册）

	require.NotNil(t, HTTPRequestsTotal)
	require.NotNil(t, HTTPRequestDuration)
	require.NotNil(t, HTTPRequestsInProgress)
	require.NotNil(t, BookOperationsTotal)
	require.NotNil(t, BookCacheRequestsTotal)
	require.NotNil(t, MessagesPublishedTotal)
}

func TestRecordBookOperation(t *testing.T) {
	InitMetrics()
	before := testutil.ToFloat64(BookOperationsTotal.WithLabelValues("create", "success"))

	RecordBookOperation("create", "success")
	RecordBookOperation("create", "success")

	after := testutil.ToFloat64(BookOperationsTotal.WithLabelValues("create", "success"))
	assert.Equal(t, before+2, after)
}

func TestRecordCacheRequest(t *testing.T) {
	InitMetrics()
	before := testutil.ToFloat64(BookCacheRequestsTotal.WithLabelValues("hit"))

	RecordCacheRequest("hit")

	assert.Equal(t, before+1, testutil.ToFloat64(BookCacheRequestsTotal.WithLabelValues("hit")))
}

func TestRecordPublish(t *testing.T) {
	InitMetrics()
	okBefore := testutil.ToFloat64(MessagesPublishedTotal.WithLabelValues("book.created", "success"))
	failBefore := testutil.ToFloat64(MessagesPublishedTotal.WithLabelValues("book.created", "failure"))

	RecordPublish("book.created", nil)
	RecordPublish("book.created", errors.New("channel closed"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(MessagesPublishedTotal.WithLabelValues("book.created", "success")))
	assert.Equal(t, failBefore+1, testutil.ToFloat64(MessagesPublishedTotal.WithLabelValues("book.created", "failure")))
}
