package components

import (
	"context"
	"log/slog"

	"flashsale-service/internal/infra/cache"
	"flashsale-service/internal/infra/gate"
	"flashsale-service/internal/infra/lock"
	"flashsale-service/internal/infra/queue"
	"flashsale-service/internal/infra/repository"
	"flashsale-service/internal/pkg/clock"
	"flashsale-service/internal/pkg/config"
	"flashsale-service/internal/pkg/idgen"
	"flashsale-service/internal/usecase/commands"
	"flashsale-service/internal/usecase/queries"
	"flashsale-service/internal/usecase/worker"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewIntakeQueue,
		NewCacheClient,
		gate.New,
		idgen.New,
		fx.Annotate(
			repository.NewOrderRepository,
			fx.As(new(worker.OrderStore)),
			fx.As(new(queries.OrderReadStore)),
		),
		fx.Annotate(
			repository.NewVoucherRepository,
			fx.As(new(commands.VoucherStore)),
			fx.As(new(worker.StockStore)),
			fx.As(new(queries.VoucherReadStore)),
		),
		fx.Annotate(
			repository.NewShopRepository,
			fx.As(new(queries.ShopReadStore)),
		),
		fx.Annotate(
			func(g *gate.Gate) *gate.Gate { return g },
			fx.As(new(commands.AdmissionGate)),
			fx.As(new(commands.StockSeeder)),
		),
		fx.Annotate(
			func(g *idgen.Generator) *idgen.Generator { return g },
			fx.As(new(commands.OrderIDSource)),
		),
		fx.Annotate(
			func(q *queue.IntakeQueue) *queue.IntakeQueue { return q },
			fx.As(new(commands.OrderIntake)),
			fx.As(new(worker.OrderSource)),
		),
	),
)

func NewIntakeQueue(cfg config.Config) *queue.IntakeQueue {
	return queue.New(cfg.Seckill.QueueCapacity)
}

func NewCacheClient(lc fx.Lifecycle, rdb *redis.Client, locker *lock.Locker, clk clock.Clock, logger *slog.Logger, cfg config.Config) *cache.Client {
	client := cache.NewClient(rdb, locker, clk, logger, cfg.Cache)
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			client.Close()
			return nil
		},
	})
	return client
}
