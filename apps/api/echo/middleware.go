package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahub/darasa/core/feature"
	"github.com/darasahub/darasa/core/user"
)

func adminMiddleware(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsAdmin && contextHasAnyRole(ctx, roles) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// premiumRequiredResponse is what locked premium sections return instead of
// content; the client redirects to the upgrade URL.
type premiumRequiredResponse struct {
	Error      string `json:"error"`
	Code       string `json:"code"`
	Reason     string `json:"reason,omitempty"`
	UpgradeURL string `json:"upgrade_url"`
}

// featureGateMiddleware locks a gated section for non-premium users per the
// feature flag store.
func featureGateMiddleware(featureName string, featSvc *feature.Service, usrSvc *user.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx, usrSvc)
			if err != nil {
				return errors.Wrap(err, "getting context user")
			}

			if decision := featSvc.Gate(ctx.Request().Context(), featureName, usr); decision.Locked {
				return ctx.JSON(http.StatusForbidden, premiumRequiredResponse{
					Error:      "this feature requires a premium subscription",
					Code:       "premium_required",
					Reason:     decision.Reason,
					UpgradeURL: "/pricing",
				})
			}
			return next(ctx)
		}
	}
}
