//go:build unit

package worker_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"flashsale-service/internal/domain/order"
	"flashsale-service/internal/infra"
	"flashsale-service/internal/infra/queue"
	"flashsale-service/internal/pkg/config"
	"flashsale-service/internal/pkg/errs"
	"flashsale-service/internal/usecase/worker"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeOrderStore struct {
	mu       sync.Mutex
	inserted []*order.Order
	failWith map[int64]error
}

func (s *fakeOrderStore) Insert(_ context.Context, o *order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.failWith[o.ID()]; ok {
		return err
	}
	s.inserted = append(s.inserted, o)
	return nil
}

func (s *fakeOrderStore) insertedIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, len(s.inserted))
	for i, o := range s.inserted {
		ids[i] = o.ID()
	}
	return ids
}

type fakeStockStore struct {
	mu    sync.Mutex
	calls int
	ok    bool
	err   error
}

func (s *fakeStockStore) DecrementStockIfPositive(_ context.Context, _ int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.ok, s.err
}

func newOrder(t *testing.T, id int64) *order.Order {
	t.Helper()
	o, err := order.New(id, uuid.New(), 1, time.Now())
	require.NoError(t, err)
	return o
}

func startWriter(t *testing.T, q *queue.IntakeQueue, orders *fakeOrderStore, stock *fakeStockStore) {
	t.Helper()
	w := worker.NewOrderWriter(q, orders, stock, discard, config.NewTestConfig())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestOrderWriter(t *testing.T) {
	t.Run("commits orders in enqueue order", func(t *testing.T) {
		q := queue.New(8)
		orders := &fakeOrderStore{}
		stock := &fakeStockStore{ok: true}
		startWriter(t, q, orders, stock)

		for i := int64(1); i <= 3; i++ {
			require.NoError(t, q.Enqueue(context.Background(), newOrder(t, i)))
		}

		require.Eventually(t, func() bool {
			return len(orders.insertedIDs()) == 3
		}, time.Second, 5*time.Millisecond)
		assert.Equal(t, []int64{1, 2, 3}, orders.insertedIDs())
	})

	t.Run("one failed order does not stop the loop", func(t *testing.T) {
		q := queue.New(8)
		orders := &fakeOrderStore{failWith: map[int64]error{
			1: errs.New("durable store unreachable"),
		}}
		stock := &fakeStockStore{ok: true}
		startWriter(t, q, orders, stock)

		require.NoError(t, q.Enqueue(context.Background(), newOrder(t, 1)))
		require.NoError(t, q.Enqueue(context.Background(), newOrder(t, 2)))

		require.Eventually(t, func() bool {
			ids := orders.insertedIDs()
			return len(ids) == 1 && ids[0] == 2
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("duplicate insert treated as replay", func(t *testing.T) {
		q := queue.New(8)
		dup := infra.WrapRepoErr(discard, infra.KindDuplicateKey, "order already persisted", errs.New("unique violation"))
		orders := &fakeOrderStore{failWith: map[int64]error{1: dup}}
		stock := &fakeStockStore{ok: true}
		startWriter(t, q, orders, stock)

		require.NoError(t, q.Enqueue(context.Background(), newOrder(t, 1)))
		require.NoError(t, q.Enqueue(context.Background(), newOrder(t, 2)))

		require.Eventually(t, func() bool {
			ids := orders.insertedIDs()
			return len(ids) == 1 && ids[0] == 2
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("exhausted durable stock skips insert", func(t *testing.T) {
		q := queue.New(8)
		orders := &fakeOrderStore{}
		stock := &fakeStockStore{ok: false}
		startWriter(t, q, orders, stock)

		require.NoError(t, q.Enqueue(context.Background(), newOrder(t, 1)))

		require.Eventually(t, func() bool {
			stock.mu.Lock()
			defer stock.mu.Unlock()
			return stock.calls == 1
		}, time.Second, 5*time.Millisecond)
		assert.Empty(t, orders.insertedIDs())
	})
}
