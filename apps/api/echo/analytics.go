package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahub/darasa/core/analytics"
)

type analyticsApi struct {
	svc *analytics.Service
}

func registerAnalyticsAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := analyticsApi{svc: deps.AnalyticsSvc}

	ag := g.Group("/analytics", jwt, adminMiddleware())
	ag.GET("/dashboard", api.dashboard)
	ag.GET("/quizzes/:id", api.quizStats)
}

// Handlers

func (api *analyticsApi) dashboard(ctx echo.Context) error {
	stats, err := api.svc.Dashboard(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing dashboard stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *analyticsApi) quizStats(ctx echo.Context) error {
	stats, err := api.svc.QuizStats(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "computing quiz stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}
