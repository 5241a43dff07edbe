package bootstrap

import (
	"seckill-service/cmd/bootstrap/components"

	"go.uber.org/fx"
)

// InfraModule is everything below the usecases. The CLI reuses it without the
// HTTP server and consumers.
var InfraModule = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	RedisModule,
	JWTModule,
	components.StoreModule,
	components.PersistenceModule,
	components.UseCaseModule,
)

var Module = fx.Options(
	InfraModule,
	components.HandlerModule,
	components.WorkerModule,
)
