package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/darasahub/darasa/apps/api/echo"
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
	emailsvc "github.com/darasahub/darasa/services/email"
	logsvc "github.com/darasahub/darasa/services/logger"
	"github.com/darasahub/darasa/storage/cache"
	"github.com/darasahub/darasa/storage/database"
	sqlxrepos "github.com/darasahub/darasa/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)
	defer logger.Wait()

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			dbLogger.Fatal("Failed to close", err)
		}
	}()

	// set up analytics cache; a dead redis is not fatal
	var analyticsCache analytics.Cache
	if redisCache, err := cache.OpenRedis(context.Background(), conf.Redis); err != nil {
		logger.Warn(fmt.Sprintf("redis unavailable, analytics uncached: %v", err), err)
	} else {
		analyticsCache = redisCache
		defer redisCache.Close()
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	usrRepo := sqlxrepos.NewUserRepository(db)
	usrSvc := user.NewService(usrRepo, mailSvc, conf)
	academicsSvc := academics.NewService(sqlxrepos.NewAcademicsRepository(db))
	librarySvc := library.NewService(sqlxrepos.NewLibraryRepository(db), academicsSvc, conf)
	notifSvc := notification.NewService(sqlxrepos.NewNotificationRepository(db), usrRepo)
	quizSvc := quiz.NewService(sqlxrepos.NewQuizRepository(db), notifSvc)
	featureSvc := feature.NewService(sqlxrepos.NewFeatureRepository(db), conf, logger)
	reviewSvc := review.NewService(sqlxrepos.NewReviewRepository(db))
	billingSvc := billing.NewService(usrSvc, notifSvc, mailSvc, conf)
	analyticsSvc := analytics.NewService(
		sqlxrepos.NewAnalyticsRepository(db), analyticsCache, logger, conf.Redis.AnalyticsTTL)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugAddr, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:            conf,
			Logger:          logger,
			UserSvc:         usrSvc,
			AcademicsSvc:    academicsSvc,
			LibrarySvc:      librarySvc,
			QuizSvc:         quizSvc,
			FeatureSvc:      featureSvc,
			ReviewSvc:       reviewSvc,
			NotificationSvc: notifSvc,
			BillingSvc:      billingSvc,
			AnalyticsSvc:    analyticsSvc,
			Validate:        validate,
			Translator:      translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db.DB); err != nil {
		return nil, err
	}
	return db, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
