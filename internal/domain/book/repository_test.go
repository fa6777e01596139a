package book

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAfterCommit_OutsideTransactionRunsImmediately(t *testing.T) {
	ctx := context.Background()
	assert.False(t, InTransaction(ctx))

	ran := false
	AfterCommit(ctx, func(context.Context) { ran = true })
	assert.True(t, ran)
}

func TestAfterCommit_RunsOnceAfterOutermostCommit(t *testing.T) {
	ctx, run := WithAfterCommit(context.Background())
	assert.True(t, InTransaction(ctx))

	var order []string
	AfterCommit(ctx, func(context.Context) { order = append(order, "first") })

	// 嵌套事务共用外层的回调
	inner, innerRun := WithAfterCommit(ctx)
	AfterCommit(inner, func(context.Context) { order = append(order, "second") })
	innerRun(inner)
	assert.Empty(t, order, "内层提交不执行回调")

	run(context.Background())
	assert.Equal(t, []string{"first", "second"}, order)

	run(context.Background())
	assert.Len(t, order, 2, "回调只执行一次")
}
