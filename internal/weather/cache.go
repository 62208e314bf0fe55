package weather

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"hangar/pkg/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "weather:snapshot:"

// CachedGateway decorates a Gateway with a short-lived redis cache keyed by
// normalized location. Cache failures degrade to a direct fetch so redis is
// never on the critical path of a checkin.
type CachedGateway struct {
	inner  Gateway
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedGateway(inner Gateway, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedGateway {
	return &CachedGateway{
		inner:  inner,
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *CachedGateway) FetchSnapshot(ctx context.Context, location string) (models.WeatherSnapshot, error) {
	key := cacheKeyPrefix + normalizeLocation(location)

	if raw, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var snapshot models.WeatherSnapshot
		if err := json.Unmarshal(raw, &snapshot); err == nil {
			return snapshot, nil
		}
		// Corrupt entry, drop it and fall through to a live fetch.
		c.rdb.Del(ctx, key)
	} else if err != redis.Nil {
		c.logger.Warn("weather cache read failed", zap.Error(err))
	}

	snapshot, err := c.inner.FetchSnapshot(ctx, location)
	if err != nil {
		return snapshot, err
	}

	if raw, err := json.Marshal(snapshot); err == nil {
		if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.logger.Warn("weather cache write failed", zap.Error(err))
		}
	}

	return snapshot, nil
}

func normalizeLocation(location string) string {
	return strings.ToLower(strings.Join(strings.Fields(location), " "))
}
