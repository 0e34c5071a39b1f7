package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahub/darasa/core/feature"
	"github.com/darasahub/darasa/core/quiz"
	"github.com/darasahub/darasa/core/user"
)

type quizApi struct {
	svc      *quiz.Service
	userSvc  *user.Service
	validate *validator.Validate
}

func registerQuizAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := quizApi{
		svc:      deps.QuizSvc,
		userSvc:  deps.UserSvc,
		validate: deps.Validate,
	}

	quizzesGate := featureGateMiddleware(feature.Quizzes, deps.FeatureSvc, deps.UserSvc)

	qg := g.Group("/quizzes", jwt)
	qg.GET("", api.query, quizzesGate)
	qg.POST("", api.create, adminMiddleware())
	qg.GET("/:id", api.retrieve, quizzesGate)
	qg.DELETE("/:id", api.destroy, adminMiddleware())
	qg.PUT("/:id/status", api.setStatus, adminMiddleware())
	qg.GET("/:id/attempts", api.queryAttempts, adminMiddleware())
	qg.GET("/:id/my-attempt", api.myAttempt, quizzesGate)
	qg.POST("/:id/attempts", api.submitAttempt, quizzesGate)
}

// Handlers

func (api *quizApi) create(ctx echo.Context) error {
	var data quiz.NewQuiz
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewQuiz")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	qz, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating quiz")
	}
	return ctx.JSON(http.StatusCreated, qz)
}

// query lists quizzes: the full set with answers for admins, published
// student views for everyone else.
func (api *quizApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	classID := ctx.QueryParam("class_id")
	subjectID := ctx.QueryParam("subject_id")

	if usr.IsAdmin() {
		var statuses []string
		if status := ctx.QueryParam("status"); status != "" {
			statuses = append(statuses, status)
		}
		quizzes, err := api.svc.Query(ctx.Request().Context(), classID, subjectID, statuses...)
		if err != nil {
			return errors.Wrap(err, "querying quizzes")
		}
		return ctx.JSON(http.StatusOK, quizzes)
	}

	quizzes, err := api.svc.QueryForStudents(ctx.Request().Context(), classID, subjectID)
	if err != nil {
		return errors.Wrap(err, "querying quizzes")
	}
	return ctx.JSON(http.StatusOK, quizzes)
}

func (api *quizApi) retrieve(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	if usr.IsAdmin() {
		qz, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
		if err != nil {
			if errors.Cause(err) == quiz.ErrNotFound {
				return errHttpNotFound
			}
			return errors.Wrap(err, "getting quiz")
		}
		return ctx.JSON(http.StatusOK, qz)
	}

	qz, err := api.svc.GetForStudent(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == quiz.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting quiz")
	}
	return ctx.JSON(http.StatusOK, qz)
}

func (api *quizApi) setStatus(ctx echo.Context) error {
	var data quiz.UpdateQuizStatus
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateQuizStatus")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	qz, err := api.svc.SetStatus(ctx.Request().Context(), ctx.Param("id"), data.Status)
	if err != nil {
		if errors.Cause(err) == quiz.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating quiz status")
	}
	return ctx.JSON(http.StatusOK, qz)
}

func (api *quizApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting quiz")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *quizApi) queryAttempts(ctx echo.Context) error {
	atts, err := api.svc.QueryAttempts(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying attempts")
	}
	return ctx.JSON(http.StatusOK, atts)
}

func (api *quizApi) myAttempt(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	att, err := api.svc.GetAttempt(ctx.Request().Context(), usr.ID, ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == quiz.ErrAttemptNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting attempt")
	}
	return ctx.JSON(http.StatusOK, att)
}

func (api *quizApi) submitAttempt(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data quiz.NewAttempt
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAttempt")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	att, err := api.svc.SubmitAttempt(ctx.Request().Context(), usr.ID, ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == quiz.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "submitting attempt")
	}
	return ctx.JSON(http.StatusCreated, att)
}
