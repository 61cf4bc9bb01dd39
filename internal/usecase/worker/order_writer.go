package worker

import (
	"context"
	"errors"
	"log/slog"

	"flashsale-service/internal/domain/order"
	"flashsale-service/internal/infra"
	"flashsale-service/internal/pkg/config"
)

type OrderSource interface {
	Dequeue(ctx context.Context) (*order.Order, error)
}

type OrderStore interface {
	Insert(ctx context.Context, o *order.Order) error
}

type StockStore interface {
	DecrementStockIfPositive(ctx context.Context, voucherID int64) (bool, error)
}

// OrderWriter is the single consumer that drains the intake queue and
// commits admitted orders to the durable store, keeping storage latency
// off the client-visible admission path. One writer per instance: the
// write path stays trivially ordered and the durable store is never hit
// by more than one order-insert stream.
type OrderWriter struct {
	source OrderSource
	orders OrderStore
	stock  StockStore
	logger *slog.Logger
	cfg    config.SeckillConfig
}

func NewOrderWriter(
	source OrderSource,
	orders OrderStore,
	stock StockStore,
	logger *slog.Logger,
	cfg config.Config,
) *OrderWriter {
	return &OrderWriter{
		source: source,
		orders: orders,
		stock:  stock,
		logger: logger,
		cfg:    cfg.Seckill,
	}
}

// Run consumes until the context is cancelled. A persistence failure is
// logged and the loop moves on: admitted-but-unpersisted orders are an
// accepted at-most-once risk, surfaced in logs rather than retried
// blindly into an uncertain state.
func (w *OrderWriter) Run(ctx context.Context) {
	w.logger.Info("order writer started")
	for {
		o, err := w.source.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				w.logger.Info("order writer stopped")
				return
			}
			w.logger.Error("order writer dequeue failed", "error", err)
			continue
		}
		w.persist(ctx, o)
	}
}

func (w *OrderWriter) persist(ctx context.Context, o *order.Order) {
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.cfg.PersistTimeout)
	defer cancel()

	updated, err := w.stock.DecrementStockIfPositive(pctx, o.VoucherID())
	if err != nil {
		w.logger.Error("failed to mirror stock decrement",
			"order_id", o.ID(), "voucher_id", o.VoucherID(), "error", err)
		return
	}
	if !updated {
		// the gate admitted this order, so the durable counter should
		// still have stock; a mismatch means the two stores diverged
		w.logger.Error("durable stock exhausted for admitted order",
			"order_id", o.ID(), "voucher_id", o.VoucherID())
		return
	}

	if err := w.orders.Insert(pctx, o); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			w.logger.Warn("order already persisted", "order_id", o.ID())
			return
		}
		w.logger.Error("failed to persist order",
			"order_id", o.ID(), "user_id", o.UserID(), "voucher_id", o.VoucherID(), "error", err)
	}
}
