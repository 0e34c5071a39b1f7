package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahub/darasa/core/feature"
)

type featureApi struct {
	svc      *feature.Service
	validate *validator.Validate
}

func registerFeatureAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := featureApi{
		svc:      deps.FeatureSvc,
		validate: deps.Validate,
	}

	fg := g.Group("/feature-control")
	fg.GET("", api.query)
	fg.PUT("/:name", api.upsert, jwt, adminMiddleware())
}

// Handlers

func (api *featureApi) query(ctx echo.Context) error {
	flags, err := api.svc.Query(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying feature flags")
	}
	return ctx.JSON(http.StatusOK, flags)
}

func (api *featureApi) upsert(ctx echo.Context) error {
	var data struct {
		IsPremium bool `json:"isPremium"`
	}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to feature flag")
	}

	flag := feature.Flag{FeatureName: ctx.Param("name"), IsPremium: data.IsPremium}
	if err := api.validate.Struct(flag); err != nil {
		return err
	}

	flag, err := api.svc.Upsert(ctx.Request().Context(), flag)
	if err != nil {
		return errors.Wrap(err, "upserting feature flag")
	}
	return ctx.JSON(http.StatusOK, flag)
}
