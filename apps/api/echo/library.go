package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahub/darasa/core/feature"
	"github.com/darasahub/darasa/core/library"
	"github.com/darasahub/darasa/core/user"
)

type libraryApi struct {
	svc      *library.Service
	userSvc  *user.Service
	validate *validator.Validate
}

func registerLibraryAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := libraryApi{
		svc:      deps.LibrarySvc,
		userSvc:  deps.UserSvc,
		validate: deps.Validate,
	}

	notesGate := featureGateMiddleware(feature.Notes, deps.FeatureSvc, deps.UserSvc)

	ng := g.Group("/notes", jwt)
	ng.GET("", api.queryNotes, notesGate)
	ng.GET("/by-chapter", api.queryNotesByChapter, notesGate)
	ng.GET("/:id", api.retrieveNote, notesGate)
	ng.POST("", api.createNote, adminMiddleware())
	ng.DELETE("/:id", api.destroyNote, adminMiddleware())

	lg := g.Group("/lectures", jwt)
	lg.GET("", api.queryLectures)
	lg.GET("/by-chapter", api.queryLecturesByChapter)
	lg.GET("/:id", api.retrieveLecture)
	lg.POST("", api.createLecture, adminMiddleware())
	lg.DELETE("/:id", api.destroyLecture, adminMiddleware())
}

// includePremium reports whether the caller may see premium content.
func (api *libraryApi) includePremium(ctx echo.Context) (bool, error) {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return false, errors.Wrap(err, "getting context user")
	}
	return usr.IsPremium || usr.IsAdmin(), nil
}

// Note handlers

func (api *libraryApi) createNote(ctx echo.Context) error {
	var data library.NewNote
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewNote")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	note, err := api.svc.CreateNote(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating note")
	}
	return ctx.JSON(http.StatusCreated, note)
}

func (api *libraryApi) queryNotes(ctx echo.Context) error {
	notes, err := api.svc.QueryNotes(
		ctx.Request().Context(),
		ctx.QueryParam("class_id"),
		ctx.QueryParam("subject_id"),
	)
	if err != nil {
		return errors.Wrap(err, "querying notes")
	}
	return ctx.JSON(http.StatusOK, notes)
}

func (api *libraryApi) queryNotesByChapter(ctx echo.Context) error {
	groups, err := api.svc.GroupNotesByChapter(
		ctx.Request().Context(),
		ctx.QueryParam("class_id"),
		ctx.QueryParam("subject_id"),
	)
	if err != nil {
		return errors.Wrap(err, "grouping notes by chapter")
	}
	if groups == nil {
		groups = []library.NoteGroup{}
	}
	return ctx.JSON(http.StatusOK, groups)
}

func (api *libraryApi) retrieveNote(ctx echo.Context) error {
	note, err := api.svc.GetNote(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == library.ErrNoteNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting note")
	}
	return ctx.JSON(http.StatusOK, note)
}

func (api *libraryApi) destroyNote(ctx echo.Context) error {
	if err := api.svc.DeleteNotes(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting note")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Lecture handlers

func (api *libraryApi) createLecture(ctx echo.Context) error {
	var data library.NewLecture
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLecture")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	lec, err := api.svc.CreateLecture(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating lecture")
	}
	return ctx.JSON(http.StatusCreated, lec)
}

func (api *libraryApi) queryLectures(ctx echo.Context) error {
	includePremium, err := api.includePremium(ctx)
	if err != nil {
		return err
	}
	lecs, err := api.svc.QueryLectures(
		ctx.Request().Context(),
		ctx.QueryParam("class_id"),
		ctx.QueryParam("subject_id"),
		includePremium,
	)
	if err != nil {
		return errors.Wrap(err, "querying lectures")
	}
	return ctx.JSON(http.StatusOK, lecs)
}

func (api *libraryApi) queryLecturesByChapter(ctx echo.Context) error {
	includePremium, err := api.includePremium(ctx)
	if err != nil {
		return err
	}
	groups, err := api.svc.GroupLecturesByChapter(
		ctx.Request().Context(),
		ctx.QueryParam("class_id"),
		ctx.QueryParam("subject_id"),
		includePremium,
	)
	if err != nil {
		return errors.Wrap(err, "grouping lectures by chapter")
	}
	if groups == nil {
		groups = []library.LectureGroup{}
	}
	return ctx.JSON(http.StatusOK, groups)
}

func (api *libraryApi) retrieveLecture(ctx echo.Context) error {
	lec, err := api.svc.GetLecture(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == library.ErrLectureNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting lecture")
	}

	if lec.IsPremium {
		includePremium, err := api.includePremium(ctx)
		if err != nil {
			return err
		}
		if !includePremium {
			return ctx.JSON(http.StatusForbidden, premiumRequiredResponse{
				Error:      "this lecture requires a premium subscription",
				Code:       "premium_required",
				UpgradeURL: "/pricing",
			})
		}
	}
	return ctx.JSON(http.StatusOK, lec)
}

func (api *libraryApi) destroyLecture(ctx echo.Context) error {
	if err := api.svc.DeleteLectures(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting lecture")
	}
	return ctx.NoContent(http.StatusNoContent)
}
