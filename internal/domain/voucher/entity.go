package voucher

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyTitle    = errors.New("voucher title must not be empty")
	ErrNegativeStock = errors.New("voucher stock must not be negative")
	ErrInvalidWindow = errors.New("sale window must end after it starts")
)

// SeckillVoucher is a time-boxed flash-sale voucher with limited stock.
// The authoritative stock counter lives in the shared store once the
// voucher is published; the durable row is the mirror the persistence
// worker decrements.
type SeckillVoucher struct {
	id          int64
	title       string
	stock       int
	windowStart time.Time
	windowEnd   time.Time
}

func NewSeckill(title string, stock int, windowStart, windowEnd time.Time) (*SeckillVoucher, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyTitle
	}
	if stock < 0 {
		return nil, ErrNegativeStock
	}
	if !windowEnd.After(windowStart) {
		return nil, ErrInvalidWindow
	}
	return &SeckillVoucher{
		title:       strings.TrimSpace(title),
		stock:       stock,
		windowStart: windowStart,
		windowEnd:   windowEnd,
	}, nil
}

// Restore rebuilds a voucher from its persisted representation.
func Restore(id int64, title string, stock int, windowStart, windowEnd time.Time) *SeckillVoucher {
	return &SeckillVoucher{
		id:          id,
		title:       title,
		stock:       stock,
		windowStart: windowStart,
		windowEnd:   windowEnd,
	}
}

func (v *SeckillVoucher) WindowContains(t time.Time) bool {
	return !t.Before(v.windowStart) && !t.After(v.windowEnd)
}

func (v *SeckillVoucher) ID() int64              { return v.id }
func (v *SeckillVoucher) Title() string          { return v.title }
func (v *SeckillVoucher) Stock() int             { return v.stock }
func (v *SeckillVoucher) WindowStart() time.Time { return v.windowStart }
func (v *SeckillVoucher) WindowEnd() time.Time   { return v.windowEnd }
