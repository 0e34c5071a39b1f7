package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/darasahub/darasa/core"
	"github.com/darasahub/darasa/core/academics"
	"github.com/darasahub/darasa/core/analytics"
	"github.com/darasahub/darasa/core/billing"
	"github.com/darasahub/darasa/core/feature"
	"github.com/darasahub/darasa/core/library"
	"github.com/darasahub/darasa/core/notification"
	"github.com/darasahub/darasa/core/quiz"
	"github.com/darasahub/darasa/core/review"
	"github.com/darasahub/darasa/core/user"
)

type (
	ServerDeps struct {
		Conf   *core.Config
		Logger core.Logger

		UserSvc         *user.Service
		AcademicsSvc    *academics.Service
		LibrarySvc      *library.Service
		QuizSvc         *quiz.Service
		FeatureSvc      *feature.Service
		ReviewSvc       *review.Service
		NotificationSvc *notification.Service
		BillingSvc      *billing.Service
		AnalyticsSvc    *analytics.Service

		Validate   *validator.Validate
		Translator ut.Translator

		DisableReqLogs bool
	}

	Server interface {
		http.Handler
		Start()
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
		Shutdown(context.Context) error
		Close() error
	}

	server struct {
		deps     ServerDeps
		app      *echo.Echo
		errs     chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:     deps,
		app:      echo.New(),
		errs:     make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	initJWTConfig(deps.Conf)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.HideBanner = true
	s.app.Debug = conf.Debug

	s.app.GET("/", home)
	if conf.Server.MediaRoot != "" {
		s.app.Static("/media", conf.Server.MediaRoot)
	}

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerUserAPI(v1, jwt, s.deps)
	registerAcademicsAPI(v1, jwt, s.deps)
	registerLibraryAPI(v1, jwt, s.deps)
	registerQuizAPI(v1, jwt, s.deps)
	registerFeatureAPI(v1, jwt, s.deps)
	registerReviewAPI(v1, jwt, s.deps)
	registerNotificationAPI(v1, jwt, s.deps)
	registerBillingAPI(v1, jwt, s.deps)
	registerAnalyticsAPI(v1, jwt, s.deps)
}

func (s *server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Addr); err != nil && err != http.ErrServerClosed {
		s.errs <- err
	}
}

func (s *server) Errors() <-chan error { return s.errs }

func (s *server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

// signalShutdown is called by the error handler when an integrity error is
// caught.
func (s *server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Darasa API!")
}
