package audit

import (
	"go.uber.org/fx"
)

var Module = fx.Module("audit.module",
	fx.Provide(
		NewService,
		NewHandler,
	),
)

var Server = fx.Module("audit.server",
	Module,
	fx.Invoke(RegisterRoutes),
)
