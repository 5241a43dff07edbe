package components

import (
	"log/slog"

	"seckill-service/internal/infra/cache"
	"seckill-service/internal/pkg/config"
	"seckill-service/internal/usecase"
	"seckill-service/internal/usecase/commands"
	"seckill-service/internal/usecase/queries"
	"seckill-service/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewSeckillUseCase,
		commands.NewVoucherUseCase,
		commands.NewOrderUseCase,
		func(uow shared.UnitOfWork, c commands.EntityCache, cfg config.Config, logger *slog.Logger) commands.ShopCommands {
			return commands.NewShopUseCase(uow, c, cfg.Cache.ShopTTL, logger)
		},
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		func(store queries.VoucherReadStore, c *cache.Client, cfg config.Config) queries.VoucherQueries {
			return queries.NewVoucherQueries(store, c, cfg.Cache.VoucherTTL)
		},
		func(store queries.ShopReadStore, c *cache.Client, cfg config.Config) queries.ShopQueries {
			return queries.NewShopQueries(store, c, cfg.Cache.ShopTTL)
		},
		queries.NewOrderQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
