package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahub/darasa/core/academics"
)

type academicsApi struct {
	svc      *academics.Service
	validate *validator.Validate
}

func registerAcademicsAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := academicsApi{
		svc:      deps.AcademicsSvc,
		validate: deps.Validate,
	}

	cg := g.Group("/classes")
	cg.GET("", api.queryClasses)
	cg.POST("", api.createClass, jwt, adminMiddleware())
	cg.GET("/:id", api.retrieveClass)
	cg.DELETE("/:id", api.destroyClass, jwt, adminMiddleware())

	sg := g.Group("/subjects")
	sg.GET("", api.querySubjects)
	sg.POST("", api.createSubject, jwt, adminMiddleware())
	sg.GET("/:id", api.retrieveSubject)
	sg.DELETE("/:id", api.destroySubject, jwt, adminMiddleware())

	chg := g.Group("/chapters")
	chg.GET("", api.queryChapters)
	chg.POST("", api.createChapter, jwt, adminMiddleware())
	chg.DELETE("/:id", api.destroyChapter, jwt, adminMiddleware())
}

// Class handlers

func (api *academicsApi) createClass(ctx echo.Context) error {
	var data academics.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	cls, err := api.svc.CreateClass(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating class")
	}
	return ctx.JSON(http.StatusCreated, cls)
}

func (api *academicsApi) queryClasses(ctx echo.Context) error {
	classes, err := api.svc.QueryClasses(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	if classes == nil {
		classes = []academics.Class{}
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *academicsApi) retrieveClass(ctx echo.Context) error {
	cls, err := api.svc.GetClass(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == academics.ErrClassNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting class")
	}
	return ctx.JSON(http.StatusOK, cls)
}

func (api *academicsApi) destroyClass(ctx echo.Context) error {
	if err := api.svc.DeleteClasses(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting class")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Subject handlers

func (api *academicsApi) createSubject(ctx echo.Context) error {
	var data academics.NewSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubject")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sub, err := api.svc.CreateSubject(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating subject")
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *academicsApi) querySubjects(ctx echo.Context) error {
	subs, err := api.svc.QuerySubjects(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying subjects")
	}
	if subs == nil {
		subs = []academics.Subject{}
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *academicsApi) retrieveSubject(ctx echo.Context) error {
	sub, err := api.svc.GetSubject(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == academics.ErrSubjectNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting subject")
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *academicsApi) destroySubject(ctx echo.Context) error {
	if err := api.svc.DeleteSubjects(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting subject")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Chapter handlers

func (api *academicsApi) createChapter(ctx echo.Context) error {
	var data academics.NewChapter
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewChapter")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	chap, err := api.svc.CreateChapter(ctx.Request().Context(), data)
	if err != nil {
		switch errors.Cause(err) {
		case academics.ErrClassNotFound, academics.ErrSubjectNotFound:
			return errHttpNotFound
		}
		return errors.Wrap(err, "creating chapter")
	}
	return ctx.JSON(http.StatusCreated, chap)
}

func (api *academicsApi) queryChapters(ctx echo.Context) error {
	chaps, err := api.svc.QueryChapters(
		ctx.Request().Context(),
		ctx.QueryParam("class_id"),
		ctx.QueryParam("subject_id"),
	)
	if err != nil {
		return errors.Wrap(err, "querying chapters")
	}
	return ctx.JSON(http.StatusOK, chaps)
}

func (api *academicsApi) destroyChapter(ctx echo.Context) error {
	if err := api.svc.DeleteChapters(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting chapter")
	}
	return ctx.NoContent(http.StatusNoContent)
}
