package loader

import (
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("loader", fx.Provide(
		NewSurvey,
		NewRegistry,
	))
}
