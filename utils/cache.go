package utils

import (
	"context"
	"log"
	"time"

	"mentorhub/config"

	"github.com/go-redis/redis/v8"
)

// CacheClient is the generic cache client, also used for webhook
// event-id deduplication keys.
var CacheClient *redis.Client

// InitCache initializes the generic Redis cache client.
func InitCache() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := CacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// EventDeduper records processed webhook event ids so that redelivered
// events can be recognized and skipped. An id is recorded only after its
// processing succeeded; a delivery that failed mid-flight stays unknown
// so the provider's redelivery gets a fresh attempt.
type EventDeduper interface {
	// Seen reports whether eventID was already fully processed.
	Seen(ctx context.Context, eventID string) (bool, error)
	// MarkSeen records eventID as fully processed.
	MarkSeen(ctx context.Context, eventID string) error
}

// RedisEventDeduper implements EventDeduper with TTL'd keys.
type RedisEventDeduper struct {
	Client *redis.Client
	Prefix string
	TTL    time.Duration
}

func NewRedisEventDeduper(client *redis.Client, prefix string, ttl time.Duration) *RedisEventDeduper {
	return &RedisEventDeduper{Client: client, Prefix: prefix, TTL: ttl}
}

func (d *RedisEventDeduper) Seen(ctx context.Context, eventID string) (bool, error) {
	n, err := d.Client.Exists(ctx, d.Prefix+":"+eventID).Result()
	return n > 0, err
}

func (d *RedisEventDeduper) MarkSeen(ctx context.Context, eventID string) error {
	return d.Client.Set(ctx, d.Prefix+":"+eventID, 1, d.TTL).Err()
}
