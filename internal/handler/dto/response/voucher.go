package response

import (
	"time"

	"flashsale-service/internal/usecase/queries"
)

type VoucherResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Stock       int       `json:"stock"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
	Active      bool      `json:"active"`
}

func NewVoucherResponse(view *queries.VoucherView) VoucherResponse {
	return VoucherResponse{
		ID:          view.ID,
		Title:       view.Title,
		Stock:       view.Stock,
		WindowStart: view.WindowStart,
		WindowEnd:   view.WindowEnd,
		Active:      view.Active,
	}
}

type PublishSeckillResponse struct {
	ID int64 `json:"id"`
}
