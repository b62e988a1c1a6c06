package controller

import (
	"go.uber.org/fx"

	controllermeta "github.com/histotrend/backend/internal/controller/meta"
	controllerv1 "github.com/histotrend/backend/internal/controller/v1"
)

func Module() fx.Option {
	return fx.Module("controller",
		controllerv1.Module(),
		controllermeta.Module(),
	)
}
