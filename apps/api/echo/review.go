package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahub/darasa/core/review"
	"github.com/darasahub/darasa/core/user"
)

type reviewApi struct {
	svc      *review.Service
	userSvc  *user.Service
	validate *validator.Validate
}

func registerReviewAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := reviewApi{
		svc:      deps.ReviewSvc,
		userSvc:  deps.UserSvc,
		validate: deps.Validate,
	}

	rg := g.Group("/reviews")
	rg.GET("", api.query)
	rg.GET("/latest", api.latest)
	rg.POST("", api.create, jwt)
}

// Handlers

func (api *reviewApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data review.NewReview
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewReview")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	rev, err := api.svc.Create(ctx.Request().Context(), usr, data)
	if err != nil {
		return errors.Wrap(err, "creating review")
	}
	return ctx.JSON(http.StatusCreated, rev)
}

func (api *reviewApi) query(ctx echo.Context) error {
	revs, err := api.svc.Query(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying reviews")
	}
	return ctx.JSON(http.StatusOK, revs)
}

func (api *reviewApi) latest(ctx echo.Context) error {
	n, _ := strconv.Atoi(ctx.QueryParam("count"))
	revs, err := api.svc.Latest(ctx.Request().Context(), n)
	if err != nil {
		return errors.Wrap(err, "querying latest reviews")
	}
	return ctx.JSON(http.StatusOK, revs)
}
