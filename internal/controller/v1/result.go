package v1

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"github.com/histotrend/backend/internal/model/types"
	"github.com/histotrend/backend/internal/pkg/flog"
	"github.com/histotrend/backend/internal/pkg/middlewares"
	"github.com/histotrend/backend/internal/server/svr"
	"github.com/histotrend/backend/internal/service"
	"github.com/histotrend/backend/internal/util/rekuest"
)

type Result struct {
	fx.In

	EngineService *service.Engine
}

func RegisterResult(v1 *svr.V1, c Result) {
	group := v1.Group("/result")

	group.Post("/analyze", middlewares.AcceptsJSON, c.Analyze)
}

// Analyze runs the full pipeline over the submitted batches and returns
// the assembled result set. The run either succeeds as a whole or fails
// with a coded error; no partial result is ever written out.
func (c *Result) Analyze(ctx *fiber.Ctx) error {
	var request types.AnalyzeRequest
	if err := rekuest.ValidBody(ctx, &request); err != nil {
		return err
	}

	result, err := c.EngineService.Run(ctx.UserContext(), request.Batches, request.Overrides)
	if err != nil {
		return err
	}

	flog.InfoFrom(ctx).
		Str("runId", result.RunID).
		Int("batches", len(request.Batches)).
		Msg("analysis run completed")

	return ctx.JSON(result)
}
