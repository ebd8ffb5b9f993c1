package services

import (
	"context"
	"time"

	"thuetro/models"

	"github.com/redis/go-redis/v9"
)

const activeBundleKey = "config:active_bundle"
const activeBundleTTL = 30 * time.Minute

// BundleCache là cache cho bundle đang ACTIVE. Activate/Rollback phải xóa
// cache để không serve từ vựng của bundle đã bị hạ.
type BundleCache interface {
	GetActive(ctx context.Context) (*models.ConfigBundle, error)
	SaveActive(ctx context.Context, bundle *models.ConfigBundle) error
	ClearActive(ctx context.Context) error
}

// RedisBundleCache cài BundleCache trên Redis với TTL cố định
type RedisBundleCache struct {
	rdb *redis.Client
}

// NewRedisBundleCache tạo RedisBundleCache mới
func NewRedisBundleCache(rdb *redis.Client) *RedisBundleCache {
	return &RedisBundleCache{rdb: rdb}
}

// SaveActive lưu bundle đang ACTIVE vào cache
func (c *RedisBundleCache) SaveActive(ctx context.Context, bundle *models.ConfigBundle) error {
	return SetToRedis(ctx, c.rdb, activeBundleKey, bundle, activeBundleTTL)
}

// GetActive đọc bundle ACTIVE từ cache, trả về nil khi miss
func (c *RedisBundleCache) GetActive(ctx context.Context) (*models.ConfigBundle, error) {
	var bundle models.ConfigBundle
	hit, err := GetFromRedis(ctx, c.rdb, activeBundleKey, &bundle)
	if err != nil || !hit {
		return nil, err
	}
	return &bundle, nil
}

// ClearActive xóa cache sau khi activate/rollback đổi bundle ACTIVE
func (c *RedisBundleCache) ClearActive(ctx context.Context) error {
	return DeleteFromRedis(ctx, c.rdb, activeBundleKey)
}
