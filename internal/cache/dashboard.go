package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/andresuchdata/stationops/backend-go/internal/config"
	"github.com/andresuchdata/stationops/backend-go/internal/domain"
	"github.com/redis/go-redis/v9"
)

const dealerDashboardKeyPrefix = "dashboard:dealer"

// DealerDashboardCache keeps computed dashboards per caller scope and period.
type DealerDashboardCache interface {
	GetDashboard(ctx context.Context, user domain.UserContext, period string) (*domain.DealerDashboard, bool, error)
	SetDashboard(ctx context.Context, user domain.UserContext, period string, dashboard *domain.DealerDashboard) error
	InvalidateAll(ctx context.Context) error
}

type redisDashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopDashboardCache struct{}

func NewDashboardCache(cfg config.CacheConfig) (DealerDashboardCache, error) {
	if !cfg.Enabled {
		return &noopDashboardCache{}, nil
	}

	client, ttl, err := NewRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return NewRedisDashboardCache(client, ttl), nil
}

func NewRedisDashboardCache(client *redis.Client, ttl time.Duration) DealerDashboardCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &redisDashboardCache{client: client, ttl: ttl}
}

func NewNoopDashboardCache() DealerDashboardCache {
	return &noopDashboardCache{}
}

func (c *redisDashboardCache) GetDashboard(ctx context.Context, user domain.UserContext, period string) (*domain.DealerDashboard, bool, error) {
	key := buildDealerDashboardKey(user, period)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var dashboard domain.DealerDashboard
	if err := json.Unmarshal(payload, &dashboard); err != nil {
		return nil, false, fmt.Errorf("decode dealer dashboard cache: %w", err)
	}

	return &dashboard, true, nil
}

func (c *redisDashboardCache) SetDashboard(ctx context.Context, user domain.UserContext, period string, dashboard *domain.DealerDashboard) error {
	key := buildDealerDashboardKey(user, period)
	payload, err := json.Marshal(dashboard)
	if err != nil {
		return fmt.Errorf("encode dealer dashboard cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (c *redisDashboardCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, dealerDashboardKeyPrefix, scanBatchSize)
}

func (n *noopDashboardCache) GetDashboard(ctx context.Context, user domain.UserContext, period string) (*domain.DealerDashboard, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) SetDashboard(ctx context.Context, user domain.UserContext, period string, dashboard *domain.DealerDashboard) error {
	return nil
}

func (n *noopDashboardCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildDealerDashboardKey(user domain.UserContext, period string) string {
	parts := append(scopeParts(user), "period="+period)
	return fmt.Sprintf("%s:%s", dealerDashboardKeyPrefix, hashParts(parts))
}
