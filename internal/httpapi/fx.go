package httpapi

import "go.uber.org/fx"

var Module = fx.Module("httpapi",
	fx.Provide(New),
	fx.Invoke(func(*Server) {}),
)
