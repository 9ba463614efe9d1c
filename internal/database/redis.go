package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yishak-cs/bites/internal/models"
)

// RedisClient wraps the go-redis handle with typed, error-classified operations.
// One client is shared by every service for the life of the process.
type RedisClient struct {
	rdb redis.UniversalClient
}

// Config holds the Redis connection configuration
type Config struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient creates a new Redis client connection
func NewRedisClient(config Config) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to verify Redis connectivity: %w", err)
	}

	log.Printf("Successfully connected to Redis at %s", config.Addr)
	return &RedisClient{rdb: rdb}, nil
}

// NewRedisClientWith wraps an existing handle, e.g. one pointed at a test server.
func NewRedisClientWith(rdb redis.UniversalClient) *RedisClient {
	return &RedisClient{rdb: rdb}
}

// Close closes the Redis connection
func (c *RedisClient) Close() error {
	return c.rdb.Close()
}

// Health checks the store connection health
func (c *RedisClient) Health(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return storeError("health check", err)
	}
	return nil
}

// Exists reports whether key is present.
func (c *RedisClient) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, storeError("exists", err)
	}
	return n > 0, nil
}

// Get reads a scalar. The bool is false when the key is absent or expired.
func (c *RedisClient) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, storeError("get", err)
	}
	return val, true, nil
}

// SetEx writes a scalar that the store expires after ttl.
func (c *RedisClient) SetEx(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return storeError("set", err)
	}
	return nil
}

// HGet reads one hash field. The bool is false when the key or field is absent.
func (c *RedisClient) HGet(ctx context.Context, key, field string) (string, bool, error) {
	val, err := c.rdb.HGet(ctx, key, field).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, storeError("hget", err)
	}
	return val, true, nil
}

// HGetAll reads every field of a hash. A missing key yields an empty map.
func (c *RedisClient) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	fields, err := c.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, storeError("hgetall", err)
	}
	return fields, nil
}

// ZAdd sets member's score, replacing any previous one.
func (c *RedisClient) ZAdd(ctx context.Context, key, member string, score float64) error {
	if err := c.rdb.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Err(); err != nil {
		return storeError("zadd", err)
	}
	return nil
}

// ZRange returns members between two ranks, inclusive. rev reads highest score first.
func (c *RedisClient) ZRange(ctx context.Context, key string, start, stop int64, rev bool) ([]string, error) {
	var (
		members []string
		err     error
	)
	if rev {
		members, err = c.rdb.ZRevRange(ctx, key, start, stop).Result()
	} else {
		members, err = c.rdb.ZRange(ctx, key, start, stop).Result()
	}
	if err != nil {
		return nil, storeError("zrange", err)
	}
	return members, nil
}

// ZScore reads member's score. The bool is false when member is absent.
func (c *RedisClient) ZScore(ctx context.Context, key, member string) (float64, bool, error) {
	score, err := c.rdb.ZScore(ctx, key, member).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, storeError("zscore", err)
	}
	return score, true, nil
}

// LRange returns list elements between two indexes, inclusive.
func (c *RedisClient) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	vals, err := c.rdb.LRange(ctx, key, start, stop).Result()
	if err != nil {
		return nil, storeError("lrange", err)
	}
	return vals, nil
}

// SMembers returns every member of a set.
func (c *RedisClient) SMembers(ctx context.Context, key string) ([]string, error) {
	members, err := c.rdb.SMembers(ctx, key).Result()
	if err != nil {
		return nil, storeError("smembers", err)
	}
	return members, nil
}

// Pipelined queues the commands issued by fn and sends them in one round trip.
// The commands are independent: the store applies each atomically on its own key
// but gives no atomicity across them. Callers inspect each Reply's Err to detect
// partial failures; the returned error is the first one seen.
func (c *RedisClient) Pipelined(ctx context.Context, fn func(b *Batch)) error {
	cmds, err := c.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		fn(&Batch{ctx: ctx, pipe: pipe})
		return nil
	})
	if err == nil {
		return nil
	}
	if len(cmds) == 0 {
		return storeError("pipeline", err)
	}
	for _, cmd := range cmds {
		if cmdErr := cmdError(cmd.Name(), cmd); cmdErr != nil {
			return cmdErr
		}
	}
	return nil
}

// cmdError classifies the error carried by a single queued command.
// redis.Nil is not an error here: it only means the key or field was absent.
func cmdError(op string, cmd redis.Cmder) error {
	err := cmd.Err()
	if err == nil || errors.Is(err, redis.Nil) {
		return nil
	}
	return storeError(op, err)
}

func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, models.ErrStoreUnavailable, err)
}
