package bootstrap

import (
	"context"

	"flashsale-service/internal/usecase/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		worker.NewOrderWriter,
	),
	fx.Invoke(StartOrderWriter),
)

// StartOrderWriter runs the single persistence consumer for the
// instance. The loop stops when the app stops; in-flight writes finish
// under their own timeout.
func StartOrderWriter(lc fx.Lifecycle, w *worker.OrderWriter) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				w.Run(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
