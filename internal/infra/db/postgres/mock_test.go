//go:build !integration

package postgres

import (
	"context"
	"time"

	"toy-admin/internal/domain/model"
	"toy-admin/internal/domain/ports/repository"
	red "toy-admin/internal/infra/redis"
)

// --- Mocks for Cache Decorator Tests ---

// mockInnerDeviceRepo mocks the database repository that the device decorator wraps.
type mockInnerDeviceRepo struct {
	CreateFunc                 func(ctx context.Context, tx repository.Tx, d *model.DeviceCredential) error
	UpdateFunc                 func(ctx context.Context, tx repository.Tx, d *model.DeviceCredential) error
	DeleteFunc                 func(ctx context.Context, tx repository.Tx, macID string) error
	FindByMacIDFunc            func(ctx context.Context, tx repository.Tx, macID string) (*model.DeviceCredential, error)
	ExistsByActivationCodeFunc func(ctx context.Context, tx repository.Tx, code string) (bool, error)
}

func (m *mockInnerDeviceRepo) Create(ctx context.Context, tx repository.Tx, d *model.DeviceCredential) error {
	return m.CreateFunc(ctx, tx, d)
}
func (m *mockInnerDeviceRepo) Update(ctx context.Context, tx repository.Tx, d *model.DeviceCredential) error {
	return m.UpdateFunc(ctx, tx, d)
}
func (m *mockInnerDeviceRepo) Delete(ctx context.Context, tx repository.Tx, macID string) error {
	return m.DeleteFunc(ctx, tx, macID)
}
func (m *mockInnerDeviceRepo) FindByMacID(ctx context.Context, tx repository.Tx, macID string) (*model.DeviceCredential, error) {
	return m.FindByMacIDFunc(ctx, tx, macID)
}
func (m *mockInnerDeviceRepo) ExistsByActivationCode(ctx context.Context, tx repository.Tx, code string) (bool, error) {
	return m.ExistsByActivationCodeFunc(ctx, tx, code)
}
func (m *mockInnerDeviceRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.DeviceCredential, error) {
	return nil, nil
}
func (m *mockInnerDeviceRepo) Count(ctx context.Context, tx repository.Tx) (int, int, error) {
	return 0, 0, nil
}
func (m *mockInnerDeviceRepo) CountIssuedCodes(ctx context.Context, tx repository.Tx) (int, error) {
	return 0, nil
}

// mockRedisClient mocks our Redis client wrapper.
type mockRedisClient struct {
	GetFunc   func(ctx context.Context, key string) (string, error)
	SetFunc   func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DelFunc   func(ctx context.Context, keys ...string) error
	SetNXFunc func(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
}

var _ red.RedisClient = &mockRedisClient{}

func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	return m.GetFunc(ctx, key)
}
func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if m.SetFunc == nil {
		return nil
	}
	return m.SetFunc(ctx, key, value, expiration)
}
func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	if m.DelFunc == nil {
		return nil
	}
	return m.DelFunc(ctx, keys...)
}
func (m *mockRedisClient) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	return m.SetNXFunc(ctx, key, value, expiration)
}
func (m *mockRedisClient) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	return 0, nil
}
func (m *mockRedisClient) CompareAndDelete(ctx context.Context, key, value string) (bool, error) {
	return false, nil
}
func (m *mockRedisClient) Ping(ctx context.Context) error { return nil }
func (m *mockRedisClient) Close() error                   { return nil }
