package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahub/darasa/core/billing"
	"github.com/darasahub/darasa/core/user"
)

type billingApi struct {
	svc      *billing.Service
	userSvc  *user.Service
	validate *validator.Validate
}

func registerBillingAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := billingApi{
		svc:      deps.BillingSvc,
		userSvc:  deps.UserSvc,
		validate: deps.Validate,
	}

	bg := g.Group("/billing")
	bg.GET("/plans", api.plans)
	bg.POST("/upgrade", api.upgrade, jwt)

	// checkout is registration with a plan label; it lives under /auth
	g.POST("/auth/checkout", api.checkout)
}

// Handlers

func (api *billingApi) plans(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.Plans())
}

// checkout registers a student on a plan and returns the user with a token,
// so the client is logged in straight away.
func (api *billingApi) checkout(ctx echo.Context) error {
	var data billing.Checkout
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Checkout")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.userSvc); err != nil {
		return err
	}

	usr, err := api.svc.Checkout(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "checking out")
	}

	token, err := GenerateToken(GetUserClaims(usr))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusCreated, CheckoutResponse{User: usr, Token: token})
}

func (api *billingApi) upgrade(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data billing.ChangePlan
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChangePlan")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err = api.svc.ChangePlan(ctx.Request().Context(), usr, data)
	if err != nil {
		return errors.Wrap(err, "changing plan")
	}
	return ctx.JSON(http.StatusOK, usr)
}

type CheckoutResponse struct {
	User  user.User `json:"user"`
	Token string    `json:"token"`
}
