package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ComputeFunc 计算缓存未命中时的真实值。
type ComputeFunc func(ctx context.Context) (string, error)

// CacheableFunc 判断计算结果是否值得缓存。
type CacheableFunc func(value string) bool

// ResultCache 外部调用结果的读穿缓存。
// - 用于第三方平台级的接口凭证这类获取代价高、全进程共享的值：
//   懒加载、TTL 过期、不做显式失效，并发写时以后写为准。
type ResultCache interface {
	// GetOrCompute 命中且未过期时直接返回缓存值；否则调用 compute，
	// 仅当 cacheable 接受结果时写入缓存（cacheable 为 nil 时缓存非空值）。
	GetOrCompute(ctx context.Context, key string, ttl time.Duration, compute ComputeFunc, cacheable CacheableFunc) (string, error)
}

// resultCache 是 ResultCache 接口基于 go-redis/v9 的实现。
type resultCache struct {
	client *redis.Client
}

// NewResultCache 创建结果缓存实例。
func NewResultCache(client *redis.Client) ResultCache {
	return &resultCache{client: client}
}

func (r *resultCache) buildKey(key string) string {
	return "cf:" + key
}

// GetOrCompute 实现接口方法。
func (r *resultCache) GetOrCompute(ctx context.Context, key string, ttl time.Duration, compute ComputeFunc, cacheable CacheableFunc) (string, error) {
	k := r.buildKey(key)

	val, err := r.client.Get(ctx, k).Result()
	if err == nil {
		return val, nil
	}
	if !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("resultCache.GetOrCompute: 读取缓存失败 (key: %s): %w", key, err)
	}

	val, err = compute(ctx)
	if err != nil {
		return "", err
	}

	shouldCache := val != ""
	if cacheable != nil {
		shouldCache = cacheable(val)
	}
	if shouldCache {
		if err := r.client.Set(ctx, k, val, ttl).Err(); err != nil {
			return "", fmt.Errorf("resultCache.GetOrCompute: 写入缓存失败 (key: %s): %w", key, err)
		}
	}
	return val, nil
}
