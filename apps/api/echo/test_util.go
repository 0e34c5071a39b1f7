package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

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
	"github.com/darasahub/darasa/storage/cache"
	inmemdb "github.com/darasahub/darasa/storage/database/inmem"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

// testLogger swallows reports; the error handler logs every 500.
type testLogger struct{}

func (testLogger) Debug(msg string, args ...interface{}) {}
func (testLogger) Info(msg string, args ...interface{})  {}
func (testLogger) Warn(msg string, args ...interface{})  {}
func (testLogger) Error(msg string, args ...interface{}) {}
func (testLogger) Fatal(msg string, args ...interface{}) {}

// testEnv bundles the app under test with handles for seeding data.
type testEnv struct {
	server Server
	conf   *core.Config

	usrRepo       user.Repository
	academicsRepo academics.Repository
	libraryRepo   library.Repository
	quizRepo      quiz.Repository
	featRepo      feature.Repository
	reviewRepo    review.Repository
	notifRepo     notification.Repository

	usrSvc       *user.Service
	academicsSvc *academics.Service
	librarySvc   *library.Service
	quizSvc      *quiz.Service
	featSvc      *feature.Service
	notifSvc     *notification.Service
	billingSvc   *billing.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}

	conf := core.NewTestConfig()
	logger := testLogger{}
	mailSvc := emailsvc.NewDummyService(conf)
	emailsvc.ClearSentMessages()

	env := &testEnv{
		conf:          conf,
		usrRepo:       inmemdb.NewUserRepository(db),
		academicsRepo: inmemdb.NewAcademicsRepository(db),
		libraryRepo:   inmemdb.NewLibraryRepository(db),
		quizRepo:      inmemdb.NewQuizRepository(db),
		featRepo:      inmemdb.NewFeatureRepository(db),
		reviewRepo:    inmemdb.NewReviewRepository(db),
		notifRepo:     inmemdb.NewNotificationRepository(db),
	}

	env.usrSvc = user.NewService(env.usrRepo, mailSvc, conf)
	env.academicsSvc = academics.NewService(env.academicsRepo)
	env.librarySvc = library.NewService(env.libraryRepo, env.academicsSvc, conf)
	env.notifSvc = notification.NewService(env.notifRepo, env.usrRepo)
	env.quizSvc = quiz.NewService(env.quizRepo, env.notifSvc)
	env.featSvc = feature.NewService(env.featRepo, conf, logger)
	reviewSvc := review.NewService(env.reviewRepo)
	env.billingSvc = billing.NewService(env.usrSvc, env.notifSvc, mailSvc, conf)
	analyticsSvc := analytics.NewService(
		inmemdb.NewAnalyticsRepository(db), cache.NewMemoryCache(), logger, conf.Redis.AnalyticsTTL)

	validate := validator.New()
	translator := newTestTranslator(t)
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	env.server = NewServer(ServerDeps{
		Conf:            conf,
		Logger:          logger,
		UserSvc:         env.usrSvc,
		AcademicsSvc:    env.academicsSvc,
		LibrarySvc:      env.librarySvc,
		QuizSvc:         env.quizSvc,
		FeatureSvc:      env.featSvc,
		ReviewSvc:       reviewSvc,
		NotificationSvc: env.notifSvc,
		BillingSvc:      env.billingSvc,
		AnalyticsSvc:    analyticsSvc,
		Validate:        validate,
		Translator:      translator,
		DisableReqLogs:  true,
	})
	return env
}

func newTestTranslator(t *testing.T) ut.Translator {
	t.Helper()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, ok := uni.GetTranslator("en")
	if !ok {
		t.Fatal("en translator not found")
	}
	return translator
}

// createUser persists a user directly through the repository.
func (env *testEnv) createUser(t *testing.T, name, uname, email, pwd string, roles []string, isActive bool) user.User {
	t.Helper()
	now := time.Now().UTC()
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		IsActive:  &isActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(pwd); err != nil {
		t.Fatalf("SetPassword() failed: %v", err)
	}
	usr, err := env.usrRepo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func (env *testEnv) createStudent(t *testing.T, uname string, premium bool) user.User {
	t.Helper()
	usr := env.createUser(t, "Student "+uname, uname, uname+"@test.cd", "LolC@t123", []string{user.RoleStudent}, true)
	if premium {
		var err error
		usr, err = env.usrRepo.SetUserPremium(context.Background(), usr.ID, true, billing.PlanPro)
		if err != nil {
			t.Fatalf("SetUserPremium() failed: %v", err)
		}
	}
	return usr
}

func (env *testEnv) createAdmin(t *testing.T, uname string) user.User {
	t.Helper()
	return env.createUser(t, "Admin "+uname, uname, uname+"@test.cd", "LolC@t123", user.AllRoles, true)
}

func (env *testEnv) createClass(t *testing.T, title string) academics.Class {
	t.Helper()
	cls, err := env.academicsRepo.CreateClass(context.Background(), academics.Class{Title: title, CreatedAt: time.Now().UTC()})
	if err != nil {
		t.Fatalf("CreateClass() failed: %v", err)
	}
	return cls
}

func (env *testEnv) createSubject(t *testing.T, name string) academics.Subject {
	t.Helper()
	sub, err := env.academicsRepo.CreateSubject(context.Background(), academics.Subject{Name: name, CreatedAt: time.Now().UTC()})
	if err != nil {
		t.Fatalf("CreateSubject() failed: %v", err)
	}
	return sub
}

func (env *testEnv) setFlag(t *testing.T, name string, premium bool) {
	t.Helper()
	if _, err := env.featRepo.UpsertFlag(context.Background(), feature.Flag{FeatureName: name, IsPremium: premium}); err != nil {
		t.Fatalf("UpsertFlag() failed: %v", err)
	}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := GenerateToken(GetUserClaims(usr))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
