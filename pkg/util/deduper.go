package util

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Deduper is a Redis-backed fast path for skipping messages that were
// already seen recently. The database processed-marker remains the
// authoritative record; this only cuts duplicate work between poll cycles.
type Deduper struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewDeduper(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Deduper {
	return &Deduper{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

// AcquireOnce returns true if this is the first time the (scope, messageID)
// pair is seen within the TTL window. When Redis is unavailable it fails
// open and returns true, leaving deduplication to the database marker.
func (d *Deduper) AcquireOnce(ctx context.Context, scope, messageID string) bool {
	key := fmt.Sprintf("dedup:%s:%s", scope, messageID)

	ok, err := d.rdb.SetNX(ctx, key, 1, d.ttl).Result()
	if err != nil {
		if d.logger != nil {
			d.logger.Warn("Redis dedup check failed, allowing processing",
				zap.String("scope", scope),
				zap.String("message_id", messageID),
				zap.Error(err),
			)
		}
		return true
	}

	if !ok && d.logger != nil {
		d.logger.Debug("Skipped duplicated message",
			zap.String("scope", scope),
			zap.String("message_id", messageID),
			zap.String("dedup_key", key),
		)
	}

	return ok
}
