package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/qycnet/account_hub/pkg/commonerrors"
)

// RateLimiter 基于 Redis 计数器的固定窗口限流器。
// - 计数器随第一次自增设置 TTL，窗口靠 TTL 过期复位，而不是滑动计算。
type RateLimiter interface {
	// Check 自增 key 对应的计数器并判断是否超限。
	// - 窗口内第一次自增时设置 TTL 为 window，后续自增不刷新 TTL。
	// - 自增后计数超过 limit 时返回 commonerrors.ErrRateLimited；
	//   失败不回退计数，本次尝试仍被记录。
	Check(ctx context.Context, key string, limit int64, window time.Duration) error

	// Count 返回当前窗口内的计数值，key 不存在时为 0。
	Count(ctx context.Context, key string) (int64, error)
}

// rateLimiter 是 RateLimiter 接口基于 go-redis/v9 的实现。
type rateLimiter struct {
	client *redis.Client
}

// NewRateLimiter 创建限流器实例。
func NewRateLimiter(client *redis.Client) RateLimiter {
	return &rateLimiter{client: client}
}

// buildKey 统一加上 "rl:" 前缀，方便在 Redis 里按前缀管理。
func (r *rateLimiter) buildKey(key string) string {
	return "rl:" + key
}

// Check 实现接口方法。
func (r *rateLimiter) Check(ctx context.Context, key string, limit int64, window time.Duration) error {
	k := r.buildKey(key)

	cnt, err := r.client.Incr(ctx, k).Result()
	if err != nil {
		return fmt.Errorf("rateLimiter.Check: 计数失败 (key: %s): %w", key, err)
	}

	// 只在窗口内第一次自增时设置过期时间
	if cnt == 1 {
		if err := r.client.Expire(ctx, k, window).Err(); err != nil {
			return fmt.Errorf("rateLimiter.Check: 设置窗口过期失败 (key: %s): %w", key, err)
		}
	}

	if cnt > limit {
		return commonerrors.ErrRateLimited
	}
	return nil
}

// Count 实现接口方法。
func (r *rateLimiter) Count(ctx context.Context, key string) (int64, error) {
	val, err := r.client.Get(ctx, r.buildKey(key)).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, fmt.Errorf("rateLimiter.Count: 读取计数失败 (key: %s): %w", key, err)
	}
	return val, nil
}
