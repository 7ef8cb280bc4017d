package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/andresuchdata/stationops/backend-go/internal/config"
	"github.com/andresuchdata/stationops/backend-go/internal/domain"
	"github.com/redis/go-redis/v9"
)

const stationListKeyPrefix = "stations:list"

// StationListCache keeps scoped station directory listings.
type StationListCache interface {
	GetStations(ctx context.Context, user domain.UserContext, filter domain.StationFilter) ([]domain.Station, bool, error)
	SetStations(ctx context.Context, user domain.UserContext, filter domain.StationFilter, stations []domain.Station) error
	InvalidateAll(ctx context.Context) error
}

type redisStationCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopStationCache struct{}

func NewStationListCache(cfg config.CacheConfig) (StationListCache, error) {
	if !cfg.Enabled {
		return &noopStationCache{}, nil
	}

	client, ttl, err := NewRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return NewRedisStationCache(client, ttl), nil
}

func NewRedisStationCache(client *redis.Client, ttl time.Duration) StationListCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &redisStationCache{client: client, ttl: ttl}
}

func NewNoopStationCache() StationListCache {
	return &noopStationCache{}
}

func (c *redisStationCache) GetStations(ctx context.Context, user domain.UserContext, filter domain.StationFilter) ([]domain.Station, bool, error) {
	key := buildStationListKey(user, filter)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var stations []domain.Station
	if err := json.Unmarshal(payload, &stations); err != nil {
		return nil, false, fmt.Errorf("decode station list cache: %w", err)
	}

	return stations, true, nil
}

func (c *redisStationCache) SetStations(ctx context.Context, user domain.UserContext, filter domain.StationFilter, stations []domain.Station) error {
	key := buildStationListKey(user, filter)
	payload, err := json.Marshal(stations)
	if err != nil {
		return fmt.Errorf("encode station list cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisStationCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, stationListKeyPrefix, scanBatchSize)
}

func (n *noopStationCache) GetStations(ctx context.Context, user domain.UserContext, filter domain.StationFilter) ([]domain.Station, bool, error) {
	return nil, false, nil
}

func (n *noopStationCache) SetStations(ctx context.Context, user domain.UserContext, filter domain.StationFilter, stations []domain.Station) error {
	return nil
}

func (n *noopStationCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildStationListKey(user domain.UserContext, filter domain.StationFilter) string {
	parts := scopeParts(user)

	if filter.Search != "" {
		parts = append(parts, "search="+strings.ToLower(strings.TrimSpace(filter.Search)))
	}
	if filter.Region != "" {
		parts = append(parts, "region="+strings.TrimSpace(filter.Region))
	}
	if filter.Status != "" {
		parts = append(parts, "status="+strings.ToLower(strings.TrimSpace(filter.Status)))
	}
	if filter.ComplianceStatus != "" {
		parts = append(parts, "compliance_status="+strings.ToLower(strings.TrimSpace(filter.ComplianceStatus)))
	}

	return fmt.Sprintf("%s:%s", stationListKeyPrefix, hashParts(parts))
}
