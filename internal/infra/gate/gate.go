package gate

import (
	"context"
	"fmt"
	"time"

	"flashsale-service/internal/pkg/clock"
	"flashsale-service/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Decision is the outcome of an admission attempt. Rejections are
// expected, user-visible outcomes, not errors.
type Decision int

const (
	Admitted Decision = iota
	RejectedSoldOut
	RejectedDuplicate
	RejectedWindowClosed
)

func (d Decision) String() string {
	switch d {
	case Admitted:
		return "admitted"
	case RejectedSoldOut:
		return "sold_out"
	case RejectedDuplicate:
		return "duplicate"
	case RejectedWindowClosed:
		return "window_closed"
	default:
		return "unknown"
	}
}

// admitScript evaluates the whole admission decision in one round trip:
// window check, one-order-per-user check, stock check, then decrement
// and membership record. Running it server-side makes the sequence
// indivisible, so two racing requests can never both observe stock > 0
// and both decrement.
//
// KEYS[1] stock counter, KEYS[2] buyer set, KEYS[3] window hash.
// ARGV[1] user id, ARGV[2] current unix seconds.
var admitScript = redis.NewScript(`
local beginAt = tonumber(redis.call('HGET', KEYS[3], 'begin'))
local endAt = tonumber(redis.call('HGET', KEYS[3], 'end'))
local now = tonumber(ARGV[2])
if beginAt == nil or endAt == nil or now < beginAt or now > endAt then
    return 3
end
if redis.call('SISMEMBER', KEYS[2], ARGV[1]) == 1 then
    return 2
end
local stock = tonumber(redis.call('GET', KEYS[1]))
if stock == nil or stock <= 0 then
    return 1
end
redis.call('INCRBY', KEYS[1], -1)
redis.call('SADD', KEYS[2], ARGV[1])
return 0
`)

// Gate is the atomic check-and-decrement in front of the durable order
// path. The shared store owns the authoritative fast-path stock counter
// and the duplicate-purchase set; the gate never reads then writes them
// separately.
type Gate struct {
	rdb   *redis.Client
	clock clock.Clock
}

func New(rdb *redis.Client, clk clock.Clock) *Gate {
	return &Gate{rdb: rdb, clock: clk}
}

func stockKey(voucherID int64) string {
	return fmt.Sprintf("seckill:stock:%d", voucherID)
}

func buyersKey(voucherID int64) string {
	return fmt.Sprintf("seckill:order:%d", voucherID)
}

func windowKey(voucherID int64) string {
	return fmt.Sprintf("seckill:window:%d", voucherID)
}

// TryAdmit decides admission for one (voucher, user) pair. An error
// means the shared store could not evaluate the script; admission must
// then fail closed, never optimistically admit.
func (g *Gate) TryAdmit(ctx context.Context, voucherID int64, userID uuid.UUID) (Decision, error) {
	keys := []string{stockKey(voucherID), buyersKey(voucherID), windowKey(voucherID)}
	res, err := admitScript.Run(ctx, g.rdb, keys, userID.String(), g.clock.Now().Unix()).Int64()
	if err != nil {
		return 0, errs.Wrap(err, "failed to run admission script")
	}

	switch res {
	case 0:
		return Admitted, nil
	case 1:
		return RejectedSoldOut, nil
	case 2:
		return RejectedDuplicate, nil
	case 3:
		return RejectedWindowClosed, nil
	default:
		return 0, errs.New(fmt.Sprintf("admission script returned unexpected code %d", res))
	}
}

// Seed publishes a voucher to the fast path: sale window and stock
// counter, written together. Called when a seckill voucher is created
// and safe to repeat (republishing overwrites).
func (g *Gate) Seed(ctx context.Context, voucherID int64, stock int, windowStart, windowEnd time.Time) error {
	pipe := g.rdb.TxPipeline()
	pipe.HSet(ctx, windowKey(voucherID), "begin", windowStart.Unix(), "end", windowEnd.Unix())
	pipe.Set(ctx, stockKey(voucherID), stock, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return errs.Wrap(err, "failed to seed voucher keys")
	}
	return nil
}
