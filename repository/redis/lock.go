package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/qycnet/account_hub/pkg/commonerrors"
)

// Locker 基于 Redis SETNX 的互斥锁。
// - 普通模式在临界区结束后释放锁；fixed 模式保留锁直到 TTL 过期，
//   用于“同一个 key 在窗口内至多执行一次”的幂等场景。
type Locker interface {
	// WithLock 在持有锁的前提下执行 fn。
	// - 获取失败返回 commonerrors.ErrLockBusy，fn 不会被执行；
	//   调用方可以选择吞掉该错误并走默认分支。
	// - fn 返回后释放锁（fixed 为 true 时不释放，等 TTL 过期），
	//   包括 fn 出错的退出路径。
	WithLock(ctx context.Context, key string, ttl time.Duration, fixed bool, fn func() error) error
}

// locker 是 Locker 接口基于 go-redis/v9 的实现。
type locker struct {
	client *redis.Client
}

// NewLocker 创建互斥锁实例。
func NewLocker(client *redis.Client) Locker {
	return &locker{client: client}
}

func (l *locker) buildKey(key string) string {
	return "cl:" + key
}

// WithLock 实现接口方法。
func (l *locker) WithLock(ctx context.Context, key string, ttl time.Duration, fixed bool, fn func() error) error {
	k := l.buildKey(key)

	ok, err := l.client.SetNX(ctx, k, 1, ttl).Result()
	if err != nil {
		return fmt.Errorf("locker.WithLock: 获取锁失败 (key: %s): %w", key, err)
	}
	if !ok {
		return commonerrors.ErrLockBusy
	}

	if !fixed {
		// 无论 fn 成功与否都释放锁；fixed 模式交给 TTL 过期
		defer l.client.Del(context.WithoutCancel(ctx), k)
	}

	return fn()
}
