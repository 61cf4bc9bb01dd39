package queue

import (
	"context"

	"flashsale-service/internal/domain/order"
	"flashsale-service/internal/pkg/errs"
)

// IntakeQueue is the bounded, ordered hand-off between the fast
// admission path and the durable-write path. When full, Enqueue blocks
// the admission path instead of dropping: an admitted order has already
// decremented the shared stock counter, so losing it would desynchronize
// the counter from durable state.
type IntakeQueue struct {
	ch chan *order.Order
}

const defaultCapacity = 1 << 17

func New(capacity int) *IntakeQueue {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &IntakeQueue{ch: make(chan *order.Order, capacity)}
}

// Enqueue adds an order, blocking while the queue is full. Returns the
// context error if the caller gives up first; the order is then NOT
// queued and the caller must surface the failure.
func (q *IntakeQueue) Enqueue(ctx context.Context, o *order.Order) error {
	select {
	case q.ch <- o:
		return nil
	case <-ctx.Done():
		return errs.Wrap(ctx.Err(), "intake queue enqueue aborted")
	}
}

// Dequeue blocks the consumer until an order is available or the context
// is cancelled. FIFO across all producers.
func (q *IntakeQueue) Dequeue(ctx context.Context) (*order.Order, error) {
	select {
	case o := <-q.ch:
		return o, nil
	case <-ctx.Done():
		return nil, errs.Wrap(ctx.Err(), "intake queue dequeue aborted")
	}
}

// Len reports the number of queued orders. Approximate under concurrency;
// useful for observability only.
func (q *IntakeQueue) Len() int {
	return len(q.ch)
}
