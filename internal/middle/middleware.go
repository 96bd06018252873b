package middle

import "go.uber.org/fx"

// Module provides the HTTP middlewares
var Module = fx.Module("middle",
	fx.Provide(
		NewIdentityMiddleware,
		NewRequestLogMiddleware,
	),
)
