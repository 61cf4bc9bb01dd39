package repository

import (
	"context"
	"log/slog"

	"flashsale-service/internal/domain/voucher"
	"flashsale-service/internal/infra"
	"flashsale-service/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
)

type VoucherRepository struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

func NewVoucherRepository(db *pgxpool.Pool, logger *slog.Logger) *VoucherRepository {
	return &VoucherRepository{db: db, logger: logger}
}

func (r *VoucherRepository) CreateSeckill(ctx context.Context, v *voucher.SeckillVoucher) (int64, error) {
	const q = `
		INSERT INTO seckill_vouchers (title, stock, window_start, window_end)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	var id int64
	err := r.db.QueryRow(ctx, q, v.Title(), v.Stock(), v.WindowStart(), v.WindowEnd()).Scan(&id)
	if err != nil {
		return 0, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to create seckill voucher", err)
	}
	return id, nil
}

func (r *VoucherRepository) FindSeckillByID(ctx context.Context, id int64) (*queries.VoucherView, error) {
	const q = `
		SELECT id, title, stock, window_start, window_end
		FROM seckill_vouchers
		WHERE id = $1`

	var view queries.VoucherView
	err := r.db.QueryRow(ctx, q, id).Scan(&view.ID, &view.Title, &view.Stock, &view.WindowStart, &view.WindowEnd)
	if err != nil {
		if kind := dbErrKind(err); kind == infra.KindNotFound {
			return nil, infra.WrapRepoErr(r.logger, kind, "voucher not found", err)
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to find voucher", err)
	}
	return &view, nil
}

// DecrementStockIfPositive is the durable-side mirror of the gate's
// fast-path decrement. The WHERE stock > 0 guard makes the durable
// counter safe even if this path is ever driven without the gate.
func (r *VoucherRepository) DecrementStockIfPositive(ctx context.Context, id int64) (bool, error) {
	const q = `
		UPDATE seckill_vouchers
		SET stock = stock - 1
		WHERE id = $1 AND stock > 0`

	tag, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return false, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to decrement voucher stock", err)
	}
	return tag.RowsAffected() > 0, nil
}
