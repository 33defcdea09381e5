package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"sync/atomic"
	"time"

	"talent-match/internal/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Redis wraps a go-redis client. When the server cannot be reached at start
// the wrapper stays usable and every operation becomes a no-op, so callers
// fall back to the database uniqueness constraints.
type Redis struct {
	client *redis.Client
	logger *log.Logger
	ttl    time.Duration

	warnedUnavailable atomic.Bool
}

func NewRedis(cfg config.RedisConfig, logger *log.Logger) *Redis {
	if logger == nil {
		logger = log.Default()
	}
	ttl := cfg.LockTTL
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}

	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Printf("[Cache] Redis unavailable, key locks disabled: %v", err)
		_ = client.Close()
		return &Redis{logger: logger, ttl: ttl}
	}

	return &Redis{client: client, logger: logger, ttl: ttl}
}

// NewRedisFromClient wraps an existing client, e.g. one pointed at a test
// server.
func NewRedisFromClient(client *redis.Client, ttl time.Duration, logger *log.Logger) *Redis {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &Redis{client: client, logger: logger, ttl: ttl}
}

// ErrUnavailable is returned by pub/sub calls when no Redis server is
// connected. Locks never return it; they degrade to no-ops instead.
var ErrUnavailable = errors.New("redis unavailable")

// Available reports whether a server was reachable at start.
func (r *Redis) Available() bool {
	return !r.isUnavailable()
}

func (r *Redis) isUnavailable() bool {
	return r == nil || r.client == nil
}

func (r *Redis) warnUnavailableOnce(err error) {
	if r == nil || r.logger == nil {
		return
	}
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		r.logger.Printf("[Cache] Redis error, continuing without key locks: %v", err)
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	if r.isUnavailable() {
		return ErrUnavailable
	}
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	if r.isUnavailable() {
		return nil
	}
	return r.client.Close()
}

// releaseScript deletes the lock only while it still holds our token, so an
// expired lock re-acquired by another worker is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// TryLock attempts to take key for the configured TTL. It reports false when
// another holder owns the key. With Redis unavailable it always succeeds.
func (r *Redis) TryLock(ctx context.Context, key string) (func(), bool, error) {
	noop := func() {}
	if r.isUnavailable() {
		return noop, true, nil
	}

	token := uuid.NewString()
	ok, err := r.client.SetNX(ctx, key, token, r.ttl).Result()
	if err != nil {
		r.warnUnavailableOnce(err)
		return noop, true, nil
	}
	if !ok {
		return noop, false, nil
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, r.client, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			if r.logger != nil {
				r.logger.Printf("[Cache] lock release error key=%s err=%v", key, err)
			}
		}
	}
	return release, true, nil
}

// Publish sends payload to every subscriber of channel.
func (r *Redis) Publish(ctx context.Context, channel string, payload []byte) error {
	if r.isUnavailable() {
		return ErrUnavailable
	}
	return r.client.Publish(ctx, channel, payload).Err()
}

// Subscribe calls fn for every message on channel until ctx ends. It
// returns once the subscription is lost or ctx is done.
func (r *Redis) Subscribe(ctx context.Context, channel string, fn func(payload []byte)) error {
	if r.isUnavailable() {
		return ErrUnavailable
	}

	sub := r.client.Subscribe(ctx, channel)
	defer func() {
		_ = sub.Close()
	}()
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", channel, err)
	}

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return fmt.Errorf("subscription %s closed", channel)
			}
			fn([]byte(msg.Payload))
		}
	}
}
