package bootstrap

import (
	"reservation-engine/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	JWTModule,
	components.PersistenceModule,
	components.LockModule,
	components.BrokerModule,
	components.UseCaseModule,
	components.HandlerModule,
	components.WorkerModule,
)
