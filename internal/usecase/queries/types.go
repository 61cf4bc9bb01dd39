package queries

import (
	"time"

	"github.com/google/uuid"
)

type ShopView struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	AvgPrice int32  `json:"avg_price"`
	Score    int32  `json:"score"`
}

type VoucherView struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Stock       int       `json:"stock"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
	Active      bool      `json:"active"`
}

type OrderView struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	VoucherID int64     `json:"voucher_id"`
	CreatedAt time.Time `json:"created_at"`
}
