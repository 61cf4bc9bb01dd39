//go:build unit

package queue_test

import (
	"context"
	"testing"
	"time"

	"flashsale-service/internal/domain/order"
	"flashsale-service/internal/infra/queue"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(t *testing.T, id int64) *order.Order {
	t.Helper()
	o, err := order.New(id, uuid.New(), 1, time.Now())
	require.NoError(t, err)
	return o
}

func TestIntakeQueue_FIFO(t *testing.T) {
	ctx := context.Background()
	q := queue.New(8)

	for i := int64(1); i <= 3; i++ {
		require.NoError(t, q.Enqueue(ctx, newOrder(t, i)))
	}

	for i := int64(1); i <= 3; i++ {
		o, err := q.Dequeue(ctx)
		require.NoError(t, err)
		assert.Equal(t, i, o.ID())
	}
}

func TestIntakeQueue_BackpressureNotDrop(t *testing.T) {
	ctx := context.Background()
	q := queue.New(2)

	require.NoError(t, q.Enqueue(ctx, newOrder(t, 1)))
	require.NoError(t, q.Enqueue(ctx, newOrder(t, 2)))

	// the third enqueue must block until the consumer frees a slot
	third := make(chan error, 1)
	go func() {
		third <- q.Enqueue(ctx, newOrder(t, 3))
	}()

	select {
	case <-third:
		t.Fatal("enqueue on a full queue must block, not return")
	case <-time.After(50 * time.Millisecond):
	}

	o, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), o.ID())

	select {
	case err := <-third:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("blocked enqueue did not complete after a slot freed")
	}

	// nothing was dropped
	o, err = q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), o.ID())
	o, err = q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), o.ID())
}

func TestIntakeQueue_ContextCancellation(t *testing.T) {
	t.Run("enqueue aborts when caller gives up", func(t *testing.T) {
		q := queue.New(1)
		require.NoError(t, q.Enqueue(context.Background(), newOrder(t, 1)))

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		err := q.Enqueue(ctx, newOrder(t, 2))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("dequeue aborts on cancellation", func(t *testing.T) {
		q := queue.New(1)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := q.Dequeue(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
