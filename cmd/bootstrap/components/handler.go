package components

import (
	"flashsale-service/internal/handler"
	"flashsale-service/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewSeckillHandler,
		api.NewShopHandler,
		api.NewVoucherHandler,
		api.NewOrderHandler,
	),
	fx.Invoke(handler.NewRouter),
)
