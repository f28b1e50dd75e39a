package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/mkkmani/musicbackend/internal/metrics"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// errStaleList aborts a cache fill whose store read predates a write.
var errStaleList = errors.New("list changed while it was read")

// listCache keeps a JSON copy of a full content list in Redis. A nil client
// disables caching. Redis failures are logged and fall through to the store.
//
// Every write bumps genKey. A list read from the store is stored only if
// genKey still holds the value seen before the read, so a fill that races a
// write never brings the old list back.
type listCache[T any] struct {
	rdb     *redis.Client
	key     string
	genKey  string
	name    string
	ttl     time.Duration
	metrics *metrics.Metrics
	log     zerolog.Logger
}

func (c *listCache[T]) get(ctx context.Context) ([]T, bool) {
	if c.rdb == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, c.key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("key", c.key).Msg("Cache read failed")
		}
		c.metrics.ObserveCache(c.name, false)
		return nil, false
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		c.log.Warn().Err(err).Str("key", c.key).Msg("Cache entry corrupt, ignoring")
		c.metrics.ObserveCache(c.name, false)
		return nil, false
	}
	c.metrics.ObserveCache(c.name, true)
	return items, true
}

// load reads the list through fetch and caches it unless a write happened
// in the meantime.
func (c *listCache[T]) load(ctx context.Context, fetch func(context.Context) ([]T, error)) ([]T, error) {
	gen, cacheable := c.generation(ctx)
	items, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	if cacheable {
		c.set(ctx, items, gen)
	}
	return items, nil
}

// generation returns the current write counter. A missing counter is 0.
func (c *listCache[T]) generation(ctx context.Context) (int64, bool) {
	if c.rdb == nil {
		return 0, false
	}
	gen, err := c.rdb.Get(ctx, c.genKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.log.Warn().Err(err).Str("key", c.genKey).Msg("Cache generation read failed")
		return 0, false
	}
	return gen, true
}

func (c *listCache[T]) set(ctx context.Context, items []T, gen int64) {
	data, err := json.Marshal(items)
	if err != nil {
		c.log.Warn().Err(err).Msg("Cache marshal failed")
		return
	}

	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, c.genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return errStaleList
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.key, data, c.ttl)
			return nil
		})
		return err
	}, c.genKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleList), errors.Is(err, redis.TxFailedErr):
		c.log.Debug().Str("key", c.key).Msg("Cache fill skipped, list changed")
	default:
		c.log.Warn().Err(err).Str("key", c.key).Msg("Cache write failed")
	}
}

// invalidate bumps the write counter and drops the cached list. It runs even
// if the request context is already cancelled.
func (c *listCache[T]) invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.genKey)
		pipe.Del(ctx, c.key)
		return nil
	})
	if err != nil {
		c.log.Warn().Err(err).Str("key", c.key).Msg("Cache invalidation failed")
	}
}
