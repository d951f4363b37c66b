package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type mockRedisKVClient struct {
	data map[string]string

	lastSetKey string
	lastSetVal interface{}
	lastSetTTL time.Duration
	lastGet    string
	lastExists []string
	lastDel    []string

	setErr    error
	getErr    error
	existsErr error
	delErr    error
	existsN   int64
}

func newMockRedisKV() *mockRedisKVClient {
	return &mockRedisKVClient{data: make(map[string]string)}
}

func (m *mockRedisKVClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	m.lastSetKey = key
	m.lastSetVal = value
	m.lastSetTTL = expiration
	cmd := redis.NewStatusCmd(ctx)
	if m.setErr != nil {
		cmd.SetErr(m.setErr)
		return cmd
	}
	if m.data != nil {
		switch v := value.(type) {
		case []byte:
			m.data[key] = string(v)
		default:
			m.data[key] = fmt.Sprint(v)
		}
	}
	cmd.SetVal("OK")
	return cmd
}

func (m *mockRedisKVClient) Get(ctx context.Context, key string) *redis.StringCmd {
	m.lastGet = key
	cmd := redis.NewStringCmd(ctx)
	if m.getErr != nil {
		cmd.SetErr(m.getErr)
		return cmd
	}
	v, ok := m.data[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(v)
	return cmd
}

func (m *mockRedisKVClient) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	m.lastExists = keys
	cmd := redis.NewIntCmd(ctx)
	if m.existsErr != nil {
		cmd.SetErr(m.existsErr)
		return cmd
	}
	n := m.existsN
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			n++
		}
	}
	cmd.SetVal(n)
	return cmd
}

func (m *mockRedisKVClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	m.lastDel = keys
	cmd := redis.NewIntCmd(ctx)
	if m.delErr != nil {
		cmd.SetErr(m.delErr)
		return cmd
	}
	for _, k := range keys {
		delete(m.data, k)
	}
	cmd.SetVal(int64(len(keys)))
	return cmd
}

type mockRedisEvaler struct {
	lastScript string
	lastKeys   []string
	lastArgs   []interface{}
	result     int64
	err        error
}

func (m *mockRedisEvaler) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	m.lastScript = script
	m.lastKeys = keys
	m.lastArgs = args
	cmd := redis.NewCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	cmd.SetVal(m.result)
	return cmd
}
