package services

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/safatanc/checkin-core/internal/app/models"
	"github.com/safatanc/checkin-core/internal/infrastructures"
	"github.com/sirupsen/logrus"
)

const defaultPrizeCacheTTL = 5 * time.Minute

// PrizeCache is a read-through cache for tenant prize tables. A nil cache is
// valid and always misses; redis failures are logged and treated as misses.
type PrizeCache struct {
	redis     *redis.Client
	keyPrefix string
	ttl       time.Duration
}

func NewPrizeCache(client *redis.Client, keyPrefix infrastructures.RedisKeyPrefix, cfg *infrastructures.AppConfig) *PrizeCache {
	ttl := cfg.CheckInToWin.PrizeCacheTTL
	if ttl <= 0 {
		ttl = defaultPrizeCacheTTL
	}
	return &PrizeCache{
		redis:     client,
		keyPrefix: string(keyPrefix),
		ttl:       ttl,
	}
}

func (c *PrizeCache) key(tenantID uuid.UUID) string {
	return fmt.Sprintf("%s:prizes:%s", c.keyPrefix, tenantID)
}

func (c *PrizeCache) Get(ctx context.Context, tenantID uuid.UUID) ([]models.Prize, bool) {
	if c == nil {
		return nil, false
	}

	raw, err := c.redis.Get(ctx, c.key(tenantID)).Bytes()
	if err != nil {
		if !stderrors.Is(err, redis.Nil) {
			logrus.WithError(err).WithField("tenant_id", tenantID).Warn("prize cache read failed")
		}
		return nil, false
	}

	var prizes []models.Prize
	if err := json.Unmarshal(raw, &prizes); err != nil {
		logrus.WithError(err).WithField("tenant_id", tenantID).Warn("prize cache entry is corrupt")
		return nil, false
	}
	return prizes, true
}

func (c *PrizeCache) Set(ctx context.Context, tenantID uuid.UUID, prizes []models.Prize) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(prizes)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, c.key(tenantID), raw, c.ttl).Err(); err != nil {
		logrus.WithError(err).WithField("tenant_id", tenantID).Warn("prize cache write failed")
	}
}

func (c *PrizeCache) Invalidate(ctx context.Context, tenantID uuid.UUID) {
	if c == nil {
		return
	}

	if err := c.redis.Del(ctx, c.key(tenantID)).Err(); err != nil {
		logrus.WithError(err).WithField("tenant_id", tenantID).Warn("prize cache invalidation failed")
	}
}
