package repository

import (
	"context"
	"log/slog"

	"flashsale-service/internal/infra"
	"flashsale-service/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ShopRepository struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

func NewShopRepository(db *pgxpool.Pool, logger *slog.Logger) *ShopRepository {
	return &ShopRepository{db: db, logger: logger}
}

func (r *ShopRepository) FindByID(ctx context.Context, id int64) (*queries.ShopView, error) {
	const q = `
		SELECT id, name, address, avg_price, score
		FROM shops
		WHERE id = $1`

	var view queries.ShopView
	err := r.db.QueryRow(ctx, q, id).Scan(&view.ID, &view.Name, &view.Address, &view.AvgPrice, &view.Score)
	if err != nil {
		if kind := dbErrKind(err); kind == infra.KindNotFound {
			return nil, infra.WrapRepoErr(r.logger, kind, "shop not found", err)
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to find shop", err)
	}
	return &view, nil
}
