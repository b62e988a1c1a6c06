package cli

import (
	"go.uber.org/fx"

	"github.com/histotrend/backend/internal/app/appcontext"
	"github.com/histotrend/backend/internal/app/appentry"
)

// Populate builds the application graph in CLI mode and fills deps from it.
func Populate[T any]() T {
	var deps T
	app := appentry.New(appcontext.Declare(appcontext.EnvCLI), fx.Populate(&deps))
	if err := app.Err(); err != nil {
		panic(err)
	}
	return deps
}
