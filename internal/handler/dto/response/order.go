package response

import (
	"time"

	"flashsale-service/internal/usecase/queries"

	"github.com/google/uuid"
)

type PurchaseResponse struct {
	OrderID int64 `json:"order_id"`
}

type OrderResponse struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	VoucherID int64     `json:"voucher_id"`
	CreatedAt time.Time `json:"created_at"`
}

func NewOrderResponse(view *queries.OrderView) OrderResponse {
	return OrderResponse{
		ID:        view.ID,
		UserID:    view.UserID,
		VoucherID: view.VoucherID,
		CreatedAt: view.CreatedAt,
	}
}

// PurchaseStatusResponse reports whether an admitted purchase has been
// durably persisted yet.
type PurchaseStatusResponse struct {
	Persisted bool `json:"persisted"`
}

// RejectionResponse reports an expected admission rejection. These are
// outcomes, not errors: the body carries a machine-readable code.
type RejectionResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
