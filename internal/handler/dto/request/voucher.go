package request

import (
	"time"
)

type PublishSeckillRequest struct {
	Title       string    `json:"title" binding:"required"`
	Stock       int       `json:"stock" binding:"gte=0"`
	WindowStart time.Time `json:"window_start" binding:"required"`
	WindowEnd   time.Time `json:"window_end" binding:"required"`
}
