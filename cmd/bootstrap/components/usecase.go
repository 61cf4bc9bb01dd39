package components

import (
	"flashsale-service/internal/pkg/clock"
	"flashsale-service/internal/usecase/commands"
	"flashsale-service/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewSeckillUseCase,
		commands.NewVoucherUseCase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewShopQueries,
		queries.NewVoucherQueries,
		queries.NewOrderQueries,
	),
)
