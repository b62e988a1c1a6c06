package analyze

import (
	"context"
	"os"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	appcli "github.com/histotrend/backend/cmd/app/cli"
	"github.com/histotrend/backend/internal/loader"
	"github.com/histotrend/backend/internal/model"
	"github.com/histotrend/backend/internal/model/types"
	"github.com/histotrend/backend/internal/service"
)

type CommandDeps struct {
	fx.In

	EngineService  *service.Engine
	SurveyLoader   *loader.Survey
	RegistryLoader *loader.Registry
}

func Command() *cli.Command {
	return &cli.Command{
		Name:        "analyze",
		Usage:       "run the estimation pipeline over local export files and print the result set as JSON",
		Description: "Surveys are CSV count exports; registries are JSONL case listings. Flags may repeat to merge several files of the same kind.",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "survey",
				Usage: "path to a survey CSV export (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "registry",
				Usage: "path to a registry JSONL export (repeatable)",
			},
			&cli.StringFlag{
				Name:  "survey-source",
				Usage: "declared source name for survey files",
				Value: "brfss",
			},
			&cli.StringFlag{
				Name:  "registry-source",
				Usage: "declared source name for registry files",
				Value: "cohort",
			},
			&cli.IntFlag{
				Name:  "bucket-width",
				Usage: "time bucket width in years (0 uses the configured default)",
			},
			&cli.StringFlag{
				Name:  "gap-policy",
				Usage: "interior gap handling: interpolate or gap",
			},
			&cli.StringFlag{
				Name:  "statistic",
				Usage: "comparison statistic: ratio or difference",
			},
			&cli.StringFlag{
				Name:  "reference",
				Usage: "reference exposure category for comparisons",
			},
			&cli.StringFlag{
				Name:  "adjustment",
				Usage: "multiple comparison policy: none, bonferroni or fdr",
			},
			&cli.StringFlag{
				Name:  "period",
				Usage: "restrict comparisons to one period, e.g. 2000 or 1998-2002",
			},
		},
		Action: func(c *cli.Context) error {
			deps := appcli.Populate[CommandDeps]()
			return run(c, deps)
		},
	}
}

func run(c *cli.Context, deps CommandDeps) error {
	batches := make([]types.SourceBatch, 0)

	load := func(paths []string, source string, loadOne func(f *os.File, source string) ([]model.RawRecord, error)) error {
		for _, path := range paths {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			records, err := loadOne(f, source)
			f.Close()
			if err != nil {
				return err
			}
			batches = append(batches, types.SourceBatch{Source: source, Records: records})
		}
		return nil
	}

	if err := load(c.StringSlice("survey"), c.String("survey-source"), func(f *os.File, source string) ([]model.RawRecord, error) {
		return deps.SurveyLoader.Load(f, source)
	}); err != nil {
		return err
	}
	if err := load(c.StringSlice("registry"), c.String("registry-source"), func(f *os.File, source string) ([]model.RawRecord, error) {
		return deps.RegistryLoader.Load(f, source)
	}); err != nil {
		return err
	}

	overrides := types.RunOverrides{
		BucketWidthYears: c.Int("bucket-width"),
		GapPolicy:        c.String("gap-policy"),
		Statistic:        c.String("statistic"),
		Reference:        c.String("reference"),
		Adjustment:       c.String("adjustment"),
		Period:           c.String("period"),
	}

	result, err := deps.EngineService.Run(context.Background(), batches, overrides)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(append(out, '\n'))
	return err
}
