package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"toy-admin/internal/domain/model"
	"toy-admin/internal/domain/ports/repository"
	"toy-admin/internal/infra/metrics"
	red "toy-admin/internal/infra/redis"
)

var _ repository.DeviceCredentialRepository = (*deviceRepoCacheDecorator)(nil)

// deviceRepoCacheDecorator caches FindByMacID. Code lookups always go to the
// database since issuance must see the latest committed state.
type deviceRepoCacheDecorator struct {
	inner repository.DeviceCredentialRepository
	cache red.RedisClient
	ttl   time.Duration
	log   *zerolog.Logger
}

func NewDeviceRepoCacheDecorator(inner repository.DeviceCredentialRepository, cache red.RedisClient, ttl time.Duration, logger *zerolog.Logger) repository.DeviceCredentialRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &deviceRepoCacheDecorator{inner: inner, cache: cache, ttl: ttl, log: logger}
}

// cachedDevice carries the secret hash, which model.DeviceCredential hides from JSON.
type cachedDevice struct {
	MacID          string    `json:"mac_id"`
	SecretHash     string    `json:"secret_hash"`
	IsActive       bool      `json:"is_active"`
	ActivationCode string    `json:"activation_code"`
	CreatedAt      time.Time `json:"created_at"`
}

func deviceKey(macID string) string { return fmt.Sprintf("device:mac:%s", macID) }

func (d *deviceRepoCacheDecorator) invalidate(ctx context.Context, macID string) {
	if err := d.cache.Del(ctx, deviceKey(macID)); err != nil {
		d.log.Warn().Err(err).Str("mac_id", macID).Msg("device cache invalidation failed")
	}
}

func (d *deviceRepoCacheDecorator) Create(ctx context.Context, tx repository.Tx, dev *model.DeviceCredential) error {
	return d.inner.Create(ctx, tx, dev)
}

// Update and Delete drop the key again after the write so a read that raced
// the write cannot leave the old row cached.
func (d *deviceRepoCacheDecorator) Update(ctx context.Context, tx repository.Tx, dev *model.DeviceCredential) error {
	d.invalidate(ctx, dev.MacID)
	if err := d.inner.Update(ctx, tx, dev); err != nil {
		return err
	}
	d.invalidate(ctx, dev.MacID)
	return nil
}

func (d *deviceRepoCacheDecorator) Delete(ctx context.Context, tx repository.Tx, macID string) error {
	d.invalidate(ctx, macID)
	if err := d.inner.Delete(ctx, tx, macID); err != nil {
		return err
	}
	d.invalidate(ctx, macID)
	return nil
}

func (d *deviceRepoCacheDecorator) FindByMacID(ctx context.Context, tx repository.Tx, macID string) (*model.DeviceCredential, error) {
	key := deviceKey(macID)
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		var c cachedDevice
		if json.Unmarshal([]byte(val), &c) == nil {
			metrics.IncCacheRequest("device", "hit")
			return &model.DeviceCredential{
				MacID:          c.MacID,
				SecretHash:     c.SecretHash,
				IsActive:       c.IsActive,
				ActivationCode: c.ActivationCode,
				CreatedAt:      c.CreatedAt,
			}, nil
		}
	} else if !errors.Is(err, red.Nil) {
		d.log.Warn().Err(err).Msg("device cache read failed")
	}

	metrics.IncCacheRequest("device", "miss")
	dev, err := d.inner.FindByMacID(ctx, tx, macID)
	if err != nil {
		return nil, err
	}
	// rows read inside a transaction may not be committed yet
	if tx == nil {
		bytes, _ := json.Marshal(cachedDevice{
			MacID:          dev.MacID,
			SecretHash:     dev.SecretHash,
			IsActive:       dev.IsActive,
			ActivationCode: dev.ActivationCode,
			CreatedAt:      dev.CreatedAt,
		})
		_ = d.cache.Set(ctx, key, bytes, d.ttl)
	}
	return dev, nil
}

// Pass-through methods that don't need caching
func (d *deviceRepoCacheDecorator) ExistsByActivationCode(ctx context.Context, tx repository.Tx, code string) (bool, error) {
	return d.inner.ExistsByActivationCode(ctx, tx, code)
}

func (d *deviceRepoCacheDecorator) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.DeviceCredential, error) {
	return d.inner.List(ctx, tx, offset, limit)
}

func (d *deviceRepoCacheDecorator) Count(ctx context.Context, tx repository.Tx) (int, int, error) {
	return d.inner.Count(ctx, tx)
}

func (d *deviceRepoCacheDecorator) CountIssuedCodes(ctx context.Context, tx repository.Tx) (int, error) {
	return d.inner.CountIssuedCodes(ctx, tx)
}
