package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisKV es el subconjunto de *redis.Client que usan los stores; permite mocks en tests.
type redisKV interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

const redisOpTimeout = 500 * time.Millisecond
