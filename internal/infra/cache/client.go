package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"flashsale-service/internal/infra/lock"
	"flashsale-service/internal/pkg/clock"
	"flashsale-service/internal/pkg/config"
	"flashsale-service/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrNotFound is returned for ids absent from both cache and the
	// durable store, including hits on the empty marker.
	ErrNotFound = errs.New("cache: value not found")

	// ErrRebuildInFlight is returned by the mutex variant when another
	// rebuild still holds the key lock after the single retry.
	ErrRebuildInFlight = errs.New("cache: rebuild in flight")
)

// emptyMarker is cached for nonexistent ids so repeated lookups stop
// falling through to the durable store (penetration defense).
const emptyMarker = ""

const lockPrefix = "lock:"

// Loader recomputes a value from the durable store. It must be safe to
// call concurrently and more than once for the same id, and must return
// ErrNotFound for ids that do not exist.
type Loader[T any] func(ctx context.Context, id int64) (T, error)

// envelope wraps logically-expiring entries. The store entry itself
// never expires; staleness is a property of the payload, so a warmed
// key is always readable even while stale.
type envelope struct {
	Data     json.RawMessage `json:"data"`
	ExpireAt time.Time       `json:"expire_at"`
}

// Client is a read-through cache over the shared store. It defends the
// durable store against penetration (empty markers), breakdown
// (per-key rebuild locks) and avalanche (jittered TTLs), with two
// rebuild strategies selectable per call site. Asynchronous rebuilds
// run on a small fixed pool so a storm of stale reads cannot spawn
// unbounded work.
type Client struct {
	rdb    *redis.Client
	locker *lock.Locker
	clock  clock.Clock
	logger *slog.Logger
	cfg    config.CacheConfig

	jobs chan func()
	quit chan struct{}
	wg   sync.WaitGroup
}

func NewClient(rdb *redis.Client, locker *lock.Locker, clk clock.Clock, logger *slog.Logger, cfg config.CacheConfig) *Client {
	if cfg.RebuildWorkers <= 0 {
		cfg.RebuildWorkers = 1
	}
	if cfg.RebuildQueue <= 0 {
		cfg.RebuildQueue = 64
	}

	c := &Client{
		rdb:    rdb,
		locker: locker,
		clock:  clk,
		logger: logger,
		cfg:    cfg,
		jobs:   make(chan func(), cfg.RebuildQueue),
		quit:   make(chan struct{}),
	}
	for i := 0; i < cfg.RebuildWorkers; i++ {
		c.wg.Add(1)
		go c.rebuildWorker()
	}
	return c
}

func (c *Client) rebuildWorker() {
	defer c.wg.Done()
	for {
		select {
		case job := <-c.jobs:
			job()
		case <-c.quit:
			return
		}
	}
}

// Close stops the rebuild pool. Queued rebuilds are abandoned; their
// locks self-expire and the next stale read reschedules them.
func (c *Client) Close() {
	close(c.quit)
	c.wg.Wait()
}

// Set writes a JSON-encoded entry with a jittered TTL. The jitter
// spreads expiry of entries written together, so a warm-up burst does
// not expire as one avalanche.
func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return errs.Wrap(err, "failed to encode cache entry")
	}
	return errs.Wrap(c.rdb.Set(ctx, key, payload, jitterTTL(ttl)).Err(), "failed to write cache entry")
}

// SetWithLogicalExpire writes an entry whose staleness lives inside the
// payload. No store-level TTL: once warmed, the key never cold-misses.
func (c *Client) SetWithLogicalExpire(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errs.Wrap(err, "failed to encode cache entry")
	}
	payload, err := json.Marshal(envelope{Data: data, ExpireAt: c.clock.Now().Add(ttl)})
	if err != nil {
		return errs.Wrap(err, "failed to encode cache envelope")
	}
	return errs.Wrap(c.rdb.Set(ctx, key, payload, 0).Err(), "failed to write cache entry")
}

func jitterTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return ttl
	}
	return ttl + rand.N(ttl/10+1)
}

func entryKey(keyPrefix string, id int64) string {
	return keyPrefix + strconv.FormatInt(id, 10)
}

// QueryWithMutex is the synchronous-rebuild read path. On a miss the
// caller that wins the key lock recomputes via loader and repopulates;
// losers wait one fixed interval and retry the whole read once, so the
// durable store sees at most one concurrent rebuild per key. Loader
// misses are cached as empty markers with a short TTL.
func QueryWithMutex[T any](ctx context.Context, c *Client, keyPrefix string, id int64, ttl time.Duration, loader Loader[T]) (T, error) {
	var zero T
	key := entryKey(keyPrefix, id)

	for attempt := 0; ; attempt++ {
		raw, err := c.rdb.Get(ctx, key).Result()
		if err == nil {
			if raw == emptyMarker {
				return zero, ErrNotFound
			}
			var v T
			if err := json.Unmarshal([]byte(raw), &v); err != nil {
				return zero, errs.Wrap(err, "failed to decode cache entry")
			}
			return v, nil
		}
		if !errors.Is(err, redis.Nil) {
			return zero, errs.Wrap(err, "failed to read cache entry")
		}

		mu, lockErr := c.locker.TryAcquire(ctx, lockPrefix+key, c.cfg.LockTTL)
		if lockErr != nil {
			if !errors.Is(lockErr, lock.ErrNotObtained) {
				return zero, lockErr
			}
			if attempt >= 1 {
				return zero, errs.Mark(lockErr, ErrRebuildInFlight)
			}
			select {
			case <-time.After(c.cfg.RetryInterval):
			case <-ctx.Done():
				return zero, errs.Wrap(ctx.Err(), "cache read aborted")
			}
			continue
		}
		return rebuildUnderMutex(ctx, c, key, id, ttl, loader, mu)
	}
}

func rebuildUnderMutex[T any](ctx context.Context, c *Client, key string, id int64, ttl time.Duration, loader Loader[T], mu *lock.Mutex) (T, error) {
	var zero T
	defer func() {
		if err := mu.Release(ctx); err != nil {
			c.logger.Warn("failed to release cache rebuild lock", "key", key, "error", err)
		}
	}()

	// double-check: the previous lock holder may have repopulated the
	// key between our miss and our acquisition
	if raw, err := c.rdb.Get(ctx, key).Result(); err == nil {
		if raw == emptyMarker {
			return zero, ErrNotFound
		}
		var v T
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return zero, errs.Wrap(err, "failed to decode cache entry")
		}
		return v, nil
	}

	v, err := loader(ctx, id)
	if errors.Is(err, ErrNotFound) {
		if err := c.rdb.Set(ctx, key, emptyMarker, c.cfg.EmptyTTL).Err(); err != nil {
			c.logger.Warn("failed to cache empty marker", "key", key, "error", err)
		}
		return zero, ErrNotFound
	}
	if err != nil {
		return zero, errs.Wrap(err, "cache loader failed")
	}

	if err := c.Set(ctx, key, v, ttl); err != nil {
		// the loaded value is still good for this caller
		c.logger.Warn("failed to repopulate cache", "key", key, "error", err)
	}
	return v, nil
}

// QueryWithLogicalExpire is the never-blocking read path for pre-seeded
// key-spaces. A fresh entry is returned as is; a stale entry is returned
// immediately with stale=true while at most one asynchronous rebuild is
// scheduled. A cold key yields ErrNotFound rather than a rebuild: this
// variant assumes warm-up seeded the entry.
func QueryWithLogicalExpire[T any](ctx context.Context, c *Client, keyPrefix string, id int64, ttl time.Duration, loader Loader[T]) (T, bool, error) {
	var zero T
	key := entryKey(keyPrefix, id)

	raw, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return zero, false, ErrNotFound
	}
	if err != nil {
		return zero, false, errs.Wrap(err, "failed to read cache entry")
	}

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return zero, false, errs.Wrap(err, "failed to decode cache envelope")
	}
	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		return zero, false, errs.Wrap(err, "failed to decode cache entry")
	}

	if c.clock.Now().Before(env.ExpireAt) {
		return v, false, nil
	}

	mu, lockErr := c.locker.TryAcquire(ctx, lockPrefix+key, c.cfg.LockTTL)
	if lockErr != nil {
		// rebuild already in flight elsewhere, or the store hiccuped;
		// either way the stale value is served without waiting
		if !errors.Is(lockErr, lock.ErrNotObtained) {
			c.logger.Warn("failed to acquire rebuild lock", "key", key, "error", lockErr)
		}
		return v, true, nil
	}

	c.scheduleRebuild(key, mu, func(rctx context.Context) error {
		fresh, loadErr := loader(rctx, id)
		if loadErr != nil {
			return loadErr
		}
		return c.SetWithLogicalExpire(rctx, key, fresh, ttl)
	})
	return v, true, nil
}

func (c *Client) scheduleRebuild(key string, mu *lock.Mutex, fn func(context.Context) error) {
	job := func() {
		rctx, cancel := context.WithTimeout(context.Background(), c.cfg.RebuildTimeout)
		defer cancel()
		defer func() {
			if err := mu.Release(rctx); err != nil {
				c.logger.Warn("failed to release cache rebuild lock", "key", key, "error", err)
			}
		}()
		if err := fn(rctx); err != nil {
			c.logger.Error("cache rebuild failed", "key", key, "error", err)
		}
	}

	select {
	case c.jobs <- job:
	default:
		// pool saturated: drop this rebuild, the next stale read retries
		rctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := mu.Release(rctx); err != nil {
			c.logger.Warn("failed to release cache rebuild lock", "key", key, "error", err)
		}
		c.logger.Warn("cache rebuild pool saturated", "key", key)
	}
}
