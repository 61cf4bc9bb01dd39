package order

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidID        = errors.New("order id must be positive")
	ErrMissingUser      = errors.New("order requires a user id")
	ErrInvalidVoucherID = errors.New("order requires a voucher id")
)

// Order is an admitted flash-sale purchase. At most one order exists per
// (user, voucher) pair; ids are strictly increasing in creation order.
// Orders are never mutated after creation.
type Order struct {
	id        int64
	userID    uuid.UUID
	voucherID int64
	createdAt time.Time
}

func New(id int64, userID uuid.UUID, voucherID int64, createdAt time.Time) (*Order, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	if userID == uuid.Nil {
		return nil, ErrMissingUser
	}
	if voucherID <= 0 {
		return nil, ErrInvalidVoucherID
	}
	return &Order{
		id:        id,
		userID:    userID,
		voucherID: voucherID,
		createdAt: createdAt,
	}, nil
}

func (o *Order) ID() int64            { return o.id }
func (o *Order) UserID() uuid.UUID    { return o.userID }
func (o *Order) VoucherID() int64     { return o.voucherID }
func (o *Order) CreatedAt() time.Time { return o.createdAt }
