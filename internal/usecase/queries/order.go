package queries

import (
	"context"

	"flashsale-service/internal/infra"
	"flashsale-service/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrOrderNotFound = errs.New("order not found")

type OrderReadStore interface {
	FindByID(ctx context.Context, id int64) (*OrderView, error)
	CountByUserAndVoucher(ctx context.Context, userID uuid.UUID, voucherID int64) (int64, error)
}

// OrderQueries reads the durable order store. Persistence runs behind
// the intake queue, so an admitted order may not be visible here yet;
// callers poll rather than treat a miss as a lost order.
type OrderQueries interface {
	GetByID(ctx context.Context, id int64) (*OrderView, error)
	HasPurchased(ctx context.Context, userID uuid.UUID, voucherID int64) (bool, error)
}

type orderQueriesImpl struct {
	store OrderReadStore
}

func NewOrderQueries(store OrderReadStore) OrderQueries {
	return &orderQueriesImpl{store: store}
}

func (q *orderQueriesImpl) GetByID(ctx context.Context, id int64) (*OrderView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrOrderNotFound)
		}
		return nil, err
	}
	return view, nil
}

func (q *orderQueriesImpl) HasPurchased(ctx context.Context, userID uuid.UUID, voucherID int64) (bool, error) {
	count, err := q.store.CountByUserAndVoucher(ctx, userID, voucherID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
