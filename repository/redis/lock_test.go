package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qycnet/account_hub/pkg/commonerrors"
)

func TestLocker_MutualExclusion(t *testing.T) {
	_, client := newTestRedis(t)
	locker := NewLocker(client)
	ctx := context.Background()

	executed := false
	err := locker.WithLock(ctx, "job:1", time.Minute, false, func() error {
		executed = true
		// 持锁期间他人拿不到同一把锁
		inner := locker.WithLock(ctx, "job:1", time.Minute, false, func() error { return nil })
		assert.ErrorIs(t, inner, commonerrors.ErrLockBusy)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, executed)
}

func TestLocker_ReleasedAfterFn(t *testing.T) {
	_, client := newTestRedis(t)
	locker := NewLocker(client)
	ctx := context.Background()

	require.NoError(t, locker.WithLock(ctx, "job:2", time.Minute, false, func() error { return nil }))

	// 上一次执行结束即释放，立刻可以重新获取
	require.NoError(t, locker.WithLock(ctx, "job:2", time.Minute, false, func() error { return nil }))
}

func TestLocker_ReleasedOnError(t *testing.T) {
	_, client := newTestRedis(t)
	locker := NewLocker(client)
	ctx := context.Background()

	wantErr := errors.New("boom")
	err := locker.WithLock(ctx, "job:3", time.Minute, false, func() error { return wantErr })
	assert.ErrorIs(t, err, wantErr)

	// fn 出错的退出路径同样释放锁
	require.NoError(t, locker.WithLock(ctx, "job:3", time.Minute, false, func() error { return nil }))
}

func TestLocker_FixedModeKeepsLock(t *testing.T) {
	mr, client := newTestRedis(t)
	locker := NewLocker(client)
	ctx := context.Background()

	require.NoError(t, locker.WithLock(ctx, "push:1", time.Minute, true, func() error { return nil }))

	// fixed 模式下锁保留到 TTL 过期，窗口内再次执行被拒绝
	err := locker.WithLock(ctx, "push:1", time.Minute, true, func() error { return nil })
	assert.ErrorIs(t, err, commonerrors.ErrLockBusy)

	mr.FastForward(2 * time.Minute)
	require.NoError(t, locker.WithLock(ctx, "push:1", time.Minute, true, func() error { return nil }))
}
