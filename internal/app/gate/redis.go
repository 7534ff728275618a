package gate

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/ian97531/boombox/internal/app/errors"
)

// DefaultTTL bounds how long an abandoned episode's gate keys live.
const DefaultTTL = 72 * time.Hour

// RedisConfig configures the Redis connection
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisGate keeps gate state in Redis sets so several workers can share it.
type RedisGate struct {
	client    redis.UniversalClient
	providers []string
	ttl       time.Duration
}

// NewRedisGate connects to Redis. The connection is not checked until Ping or first use.
func NewRedisGate(cfg RedisConfig, providers []string) *RedisGate {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})
	g := NewRedisGateWithClient(client, providers)
	if cfg.TTL > 0 {
		g.ttl = cfg.TTL
	}
	return g
}

// NewRedisGateWithClient wraps an existing client.
func NewRedisGateWithClient(client redis.UniversalClient, providers []string) *RedisGate {
	return &RedisGate{client: client, providers: providers, ttl: DefaultTTL}
}

// Ping checks the connection.
func (g *RedisGate) Ping(ctx context.Context) error {
	if err := g.client.Ping(ctx).Err(); err != nil {
		return apperrors.Wrap(err, "redis ping failed")
	}
	return nil
}

// record adds member to the set at key and returns the set's size.
func (g *RedisGate) record(ctx context.Context, key, member string) (*redis.IntCmd, error) {
	var card *redis.IntCmd
	_, err := g.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, key, member)
		pipe.Expire(ctx, key, g.ttl)
		card = pipe.SCard(ctx, key)
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrapf(err, "gate %s", key)
	}
	return card, nil
}

func (g *RedisGate) RecordSegment(ctx context.Context, episodeKey, provider, segmentKey string, expected int) (bool, error) {
	card, err := g.record(ctx, segmentsKey(episodeKey, provider), segmentKey)
	if err != nil {
		return false, err
	}
	return card.Val() >= int64(expected), nil
}

func (g *RedisGate) RecordProvider(ctx context.Context, episodeKey, provider string) (bool, error) {
	key := providersKey(episodeKey)
	if _, err := g.record(ctx, key, provider); err != nil {
		return false, err
	}

	members, err := g.client.SMembers(ctx, key).Result()
	if err != nil {
		return false, apperrors.Wrapf(err, "gate %s", key)
	}
	set := make(map[string]struct{}, len(members))
	for _, m := range members {
		set[m] = struct{}{}
	}
	return hasAll(set, g.providers), nil
}

func (g *RedisGate) Reset(ctx context.Context, episodeKey string) error {
	keys := []string{providersKey(episodeKey)}
	for _, provider := range g.providers {
		keys = append(keys, segmentsKey(episodeKey, provider))
	}
	if err := g.client.Del(ctx, keys...).Err(); err != nil {
		return apperrors.Wrapf(err, "reset gate for %s", episodeKey)
	}
	return nil
}

// Close closes the Redis client.
func (g *RedisGate) Close() error {
	return g.client.Close()
}
