package repository

import (
	"context"
	"log/slog"

	"flashsale-service/internal/domain/order"
	"flashsale-service/internal/infra"
	"flashsale-service/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

func NewOrderRepository(db *pgxpool.Pool, logger *slog.Logger) *OrderRepository {
	return &OrderRepository{db: db, logger: logger}
}

// Insert durably records an admitted order. The primary key and the
// (user_id, voucher_id) unique constraint both surface as
// KindDuplicateKey so the worker can tell replay from failure.
func (r *OrderRepository) Insert(ctx context.Context, o *order.Order) error {
	const q = `
		INSERT INTO voucher_orders (id, user_id, voucher_id, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, q, o.ID(), o.UserID(), o.VoucherID(), o.CreatedAt())
	if err != nil {
		if kind := dbErrKind(err); kind == infra.KindDuplicateKey {
			return infra.WrapRepoErr(r.logger, kind, "order already persisted", err)
		}
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to insert order", err)
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*queries.OrderView, error) {
	const q = `
		SELECT id, user_id, voucher_id, created_at
		FROM voucher_orders
		WHERE id = $1`

	var view queries.OrderView
	err := r.db.QueryRow(ctx, q, id).Scan(&view.ID, &view.UserID, &view.VoucherID, &view.CreatedAt)
	if err != nil {
		if kind := dbErrKind(err); kind == infra.KindNotFound {
			return nil, infra.WrapRepoErr(r.logger, kind, "order not found", err)
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to find order", err)
	}
	return &view, nil
}

func (r *OrderRepository) CountByUserAndVoucher(ctx context.Context, userID uuid.UUID, voucherID int64) (int64, error) {
	const q = `
		SELECT COUNT(*)
		FROM voucher_orders
		WHERE user_id = $1 AND voucher_id = $2`

	var count int64
	if err := r.db.QueryRow(ctx, q, userID, voucherID).Scan(&count); err != nil {
		return 0, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to count orders", err)
	}
	return count, nil
}
