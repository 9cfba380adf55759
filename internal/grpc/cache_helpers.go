package grpc

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type FetchFunc[T any] func(ctx context.Context) (T, error)

const (
	defaultFetchTimeout      = 15 * time.Second
	defaultSetTimeout        = 5 * time.Second
	defaultInvalidateTimeout = 2 * time.Second
)

// addTTLJitter spreads expiry by up to ±15s so charts cached together do not
// all expire together.
func addTTLJitter(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return ttl
	}
	jitter := time.Duration(rand.Intn(30)-15) * time.Second
	if ttl+jitter <= 0 {
		return ttl
	}
	return ttl + jitter
}

func storeInBackground[T any](c Cacher, key string, ttl time.Duration, logger *zap.Logger, value T, event string) {
	setCtx, cancel := context.WithTimeout(context.Background(), defaultSetTimeout)
	defer cancel()

	ttlWithJitter := addTTLJitter(ttl)
	if err := c.Set(setCtx, key, value, ttlWithJitter); err != nil {
		logger.Warn("cache set failed", zap.String("event", event), zap.String("key", key), zap.Error(err))
		return
	}
	logger.Debug("cache stored",
		zap.String("event", event),
		zap.String("key", key),
		zap.Duration("ttl", ttlWithJitter))
}

func triggerBackgroundRefresh[T any](
	c Cacher,
	sf *singleflight.Group,
	key string,
	ttl time.Duration,
	logger *zap.Logger,
	fn FetchFunc[T],
) {
	go func() {
		time.Sleep(time.Duration(rand.Intn(1000)) * time.Millisecond)

		_, _, _ = sf.Do(key+":refresh", func() (any, error) {
			ctx, cancel := context.WithTimeout(context.Background(), defaultFetchTimeout)
			defer cancel()

			value, err := fn(ctx)
			if err != nil {
				logger.Warn("background refresh failed", zap.String("key", key), zap.Error(err))
				return nil, err
			}
			storeInBackground(c, key, ttl, logger, value, "refresh")
			return value, nil
		})
	}()
}

// FindAndCache reads key through the cache. Hits are served immediately and
// refreshed in the background; concurrent misses share one fetch. A nil
// cache disables caching.
func FindAndCache[T any](
	ctx context.Context,
	c Cacher,
	sf *singleflight.Group,
	key string,
	ttl time.Duration,
	logger *zap.Logger,
	fn FetchFunc[T],
) (T, error) {
	var zero T
	if logger == nil {
		logger = zap.NewNop()
	}
	if c == nil {
		return fn(ctx)
	}

	var cached T
	err := c.Get(ctx, key, &cached)
	switch {
	case err == nil:
		logger.Debug("cache hit", zap.String("key", key))
		triggerBackgroundRefresh(c, sf, key, ttl, logger, fn)
		return cached, nil

	case errors.Is(err, redis.Nil):
		logger.Debug("cache miss", zap.String("key", key))

	default:
		logger.Warn("cache get error (treating as miss)", zap.String("key", key), zap.Error(err))
	}

	v, err, shared := sf.Do(key, func() (any, error) {
		value, err := fn(ctx)
		if err != nil {
			logger.Error("fetch failed", zap.String("key", key), zap.Error(err))
			return nil, err
		}
		go storeInBackground(c, key, ttl, logger, value, "miss")
		return value, nil
	})
	if err != nil {
		return zero, err
	}

	value, ok := v.(T)
	if !ok {
		logger.Error("singleflight type mismatch", zap.String("key", key))
		return zero, fmt.Errorf("type mismatch for key %q", key)
	}

	if shared {
		logger.Debug("singleflight shared result", zap.String("key", key))
	}

	return value, nil
}

// invalidate drops every cached entry under the given key prefixes. Failures
// are logged; stale entries then live until their TTL.
func invalidate(c Cacher, logger *zap.Logger, prefixes ...string) {
	if c == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultInvalidateTimeout)
	defer cancel()

	for _, prefix := range prefixes {
		n, err := c.DeletePrefix(ctx, prefix)
		if err != nil {
			logger.Warn("cache invalidation failed", zap.String("prefix", prefix), zap.Error(err))
			continue
		}
		logger.Debug("cache invalidated", zap.String("prefix", prefix), zap.Int64("keys", n))
	}
}
