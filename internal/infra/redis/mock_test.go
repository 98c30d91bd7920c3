//go:build !integration

package redis

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// memClient is an in-memory RedisClient for unit tests. Expiry is recorded
// but not enforced.
type memClient struct {
	mu      sync.Mutex
	kv      map[string]string
	ttl     map[string]time.Duration
	IncrErr error
}

var _ RedisClient = (*memClient)(nil)

func newMemClient() *memClient {
	return &memClient{kv: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (m *memClient) Ping(ctx context.Context) error { return nil }

func (m *memClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kv[key] = toString(value)
	m.ttl[key] = expiration
	return nil
}

func (m *memClient) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.kv[key]; ok {
		return false, nil
	}
	m.kv[key] = toString(value)
	m.ttl[key] = expiration
	return true, nil
}

func (m *memClient) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.kv[key]
	if !ok {
		return "", Nil
	}
	return v, nil
}

func (m *memClient) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if m.IncrErr != nil {
		return 0, m.IncrErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n, _ := strconv.ParseInt(m.kv[key], 10, 64)
	n++
	m.kv[key] = strconv.FormatInt(n, 10)
	if m.ttl[key] <= 0 {
		m.ttl[key] = ttl
	}
	return n, nil
}

func (m *memClient) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.kv, k)
		delete(m.ttl, k)
	}
	return nil
}

func (m *memClient) CompareAndDelete(ctx context.Context, key, value string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.kv[key] != value {
		return false, nil
	}
	delete(m.kv, key)
	delete(m.ttl, key)
	return true, nil
}

func (m *memClient) Close() error { return nil }

func toString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	}
	return ""
}
