package echoapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/darasahub/darasa/core/analytics"
	"github.com/darasahub/darasa/core/quiz"
)

func Test_analyticsApi(t *testing.T) {
	env := newTestEnv(t)
	cls := env.createClass(t, "Form 1")
	sub := env.createSubject(t, "Mathematics")
	admin := env.createAdmin(t, "root")
	free := env.enroll(t, env.createStudent(t, "free", false), cls.ID)
	premium := env.enroll(t, env.createStudent(t, "premium", true), cls.ID)

	qz := env.createQuiz(t, admin, mcqQuiz(cls.ID, sub.ID))
	ctx := context.Background()
	if _, err := env.quizSvc.SetStatus(ctx, qz.ID, quiz.StatusPublished); err != nil {
		t.Fatalf("SetStatus() failed: %v", err)
	}

	// correct: 0,1,0,1,0 -> free scores 5/5, premium 0/5
	submit := func(studentID string, indexes ...int) {
		na := quiz.NewAttempt{}
		for i, idx := range indexes {
			idx := idx
			na.Answers = append(na.Answers, quiz.Answer{QuestionID: qz.Questions[i].ID, OptionIndex: &idx})
		}
		if _, err := env.quizSvc.SubmitAttempt(ctx, studentID, qz.ID, na); err != nil {
			t.Fatalf("SubmitAttempt() failed: %v", err)
		}
	}
	submit(free.ID, 0, 1, 0, 1, 0)
	submit(premium.ID, 1, 0, 1, 0, 1)

	t.Run("dashboard is admin only", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/analytics/dashboard")
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("no token: code = %v; wantCode %v", rec.Code, http.StatusUnauthorized)
		}

		req, rec = newAuthRequest(http.MethodGet, "/v1/analytics/dashboard", getToken(t, free))
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("student: code = %v; wantCode %v", rec.Code, http.StatusForbidden)
		}
	})

	t.Run("dashboard", func(t *testing.T) {
		want := analytics.DashboardStats{
			Users:            3,
			Students:         2,
			PremiumUsers:     1,
			Classes:          1,
			Subjects:         1,
			Notes:            0,
			Lectures:         0,
			Quizzes:          1,
			PublishedQuizzes: 1,
			Attempts:         2,
			AvgScorePct:      50,
		}
		tt := httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, want)}
		req, rec := newAuthRequest(http.MethodGet, "/v1/analytics/dashboard", getToken(t, admin))
		env.server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("quiz stats", func(t *testing.T) {
		want := analytics.QuizStats{
			QuizID:        qz.ID,
			Attempts:      2,
			AvgScore:      2.5,
			AvgPercentage: 50,
		}
		tt := httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, want)}
		req, rec := newAuthRequest(http.MethodGet, "/v1/analytics/quizzes/"+qz.ID, getToken(t, admin))
		env.server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}
