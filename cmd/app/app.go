package app

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/histotrend/backend/cmd/app/cli/analyze"
	"github.com/histotrend/backend/cmd/app/server"
	"github.com/histotrend/backend/internal/pkg/bininfo"
)

func Run() {
	app := &cli.App{
		Name:        "histotrend",
		Description: "Estimation backend for smoking exposure prevalence trends and histological subtype associations. Built with Go, fiber and go.uber.org/fx.",
		Version:     bininfo.Version,
		Commands: []*cli.Command{
			server.Command(),
			analyze.Command(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run app")
	}
}
