package participant

import (
	"go.uber.org/fx"
)

var Module = fx.Module("participant.module",
	fx.Provide(
		NewService,
		NewHandler,
	),
)

var Server = fx.Module("participant.server",
	Module,
	fx.Invoke(RegisterRoutes),
)
