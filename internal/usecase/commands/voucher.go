package commands

import (
	"context"
	"time"

	"flashsale-service/internal/domain/voucher"
	"flashsale-service/internal/pkg/errs"
)

var ErrInvalidVoucher = errs.New("invalid voucher")

type PublishSeckillParams struct {
	Title       string
	Stock       int
	WindowStart time.Time
	WindowEnd   time.Time
}

type VoucherStore interface {
	CreateSeckill(ctx context.Context, v *voucher.SeckillVoucher) (int64, error)
}

type StockSeeder interface {
	Seed(ctx context.Context, voucherID int64, stock int, windowStart, windowEnd time.Time) error
}

type VoucherCommands interface {
	PublishSeckill(ctx context.Context, params PublishSeckillParams) (int64, error)
}

type voucherUseCaseImpl struct {
	store  VoucherStore
	seeder StockSeeder
}

func NewVoucherUseCase(store VoucherStore, seeder StockSeeder) VoucherCommands {
	return &voucherUseCaseImpl{store: store, seeder: seeder}
}

// PublishSeckill creates the durable voucher row and seeds the shared
// store's fast-path keys (stock counter and sale window). The fast path
// must be seeded before the window opens or every admission attempt is
// rejected as outside the window.
func (u *voucherUseCaseImpl) PublishSeckill(ctx context.Context, params PublishSeckillParams) (int64, error) {
	v, err := voucher.NewSeckill(params.Title, params.Stock, params.WindowStart, params.WindowEnd)
	if err != nil {
		return 0, errs.Mark(err, ErrInvalidVoucher)
	}

	id, err := u.store.CreateSeckill(ctx, v)
	if err != nil {
		return 0, err
	}

	if err := u.seeder.Seed(ctx, id, v.Stock(), v.WindowStart(), v.WindowEnd()); err != nil {
		return 0, errs.Wrap(err, "voucher persisted but fast path not seeded")
	}
	return id, nil
}
