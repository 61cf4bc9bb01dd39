package queries

import (
	"context"

	"flashsale-service/internal/domain/voucher"
	"flashsale-service/internal/infra"
	"flashsale-service/internal/pkg/clock"
	"flashsale-service/internal/pkg/errs"
)

var ErrVoucherNotFound = errs.New("voucher not found")

type VoucherReadStore interface {
	FindSeckillByID(ctx context.Context, id int64) (*VoucherView, error)
}

type VoucherQueries interface {
	GetSeckillByID(ctx context.Context, id int64) (*VoucherView, error)
}

type voucherQueriesImpl struct {
	store VoucherReadStore
	clock clock.Clock
}

func NewVoucherQueries(store VoucherReadStore, clk clock.Clock) VoucherQueries {
	return &voucherQueriesImpl{store: store, clock: clk}
}

// GetSeckillByID returns the voucher with Active set from its sale
// window, so clients can render "open" vs "upcoming/closed" without
// re-deriving window arithmetic.
func (q *voucherQueriesImpl) GetSeckillByID(ctx context.Context, id int64) (*VoucherView, error) {
	view, err := q.store.FindSeckillByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrVoucherNotFound)
		}
		return nil, err
	}

	v := voucher.Restore(view.ID, view.Title, view.Stock, view.WindowStart, view.WindowEnd)
	view.Active = v.WindowContains(q.clock.Now())
	return view, nil
}
