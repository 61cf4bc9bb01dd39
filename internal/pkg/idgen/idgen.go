package idgen

import (
	"context"

	"flashsale-service/internal/pkg/clock"
	"flashsale-service/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const (
	// epoch is the service epoch (2024-04-10T00:00:00Z). Timestamps are
	// encoded relative to it so the composed id fits a signed 64-bit
	// integer for decades.
	epoch = 1712707200

	// sequenceBits is the width reserved for the per-day counter.
	sequenceBits = 32

	counterPrefix = "icr:"
	dayFormat     = "2006:01:02"
)

// Generator issues globally unique, monotonically increasing 64-bit ids.
// The high bits carry seconds since the service epoch; the low bits carry
// a per-namespace, per-day counter incremented atomically in Redis. The
// day suffix partitions the counter keyspace so no single key grows
// unboundedly and daily volumes stay directly queryable.
type Generator struct {
	rdb   *redis.Client
	clock clock.Clock
}

func New(rdb *redis.Client, clk clock.Clock) *Generator {
	return &Generator{rdb: rdb, clock: clk}
}

// Next returns the next id for the namespace. Fails only when the shared
// store is unreachable; such errors are retryable. Counter exhaustion
// within a single day (>2^32 ids) is not handled.
func (g *Generator) Next(ctx context.Context, namespace string) (int64, error) {
	now := g.clock.Now().UTC()
	timestamp := now.Unix() - epoch

	key := counterPrefix + namespace + ":" + now.Format(dayFormat)
	seq, err := g.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, errs.Wrap(err, "failed to increment id counter")
	}

	return timestamp<<sequenceBits | seq, nil
}
