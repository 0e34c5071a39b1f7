package echoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/darasahub/darasa/core/quiz"
	"github.com/darasahub/darasa/core/user"
)

func (env *testEnv) enroll(t *testing.T, usr user.User, classID string) user.User {
	t.Helper()
	usr, err := env.usrRepo.UpdateUser(context.Background(), user.User{
		ID: usr.ID, ClassID: &classID, UpdatedAt: time.Now().UTC(),
	}, nil)
	if err != nil {
		t.Fatalf("UpdateUser() failed: %v", err)
	}
	return usr
}

func (env *testEnv) createQuiz(t *testing.T, admin user.User, nq quiz.NewQuiz) quiz.Quiz {
	t.Helper()
	req, rec := newAuthRequest(http.MethodPost, "/v1/quizzes", getToken(t, admin), marchallObj(t, nq))
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %v; wantCode %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var qz quiz.Quiz
	if err := json.Unmarshal(rec.Body.Bytes(), &qz); err != nil {
		t.Fatalf("unmarshalling Quiz failed: %v", err)
	}
	return qz
}

func mcqQuiz(classID, subjectID string) quiz.NewQuiz {
	return quiz.NewQuiz{
		Title:           "Fractions",
		Type:            quiz.TypeMCQ,
		DurationMinutes: 15,
		Difficulty:      "easy",
		ClassID:         classID,
		SubjectID:       subjectID,
		Questions: []quiz.NewQuestion{
			{Text: "1/2 + 1/2 = ?", Options: []string{"1", "2", "1/4"}, CorrectIndex: 0},
			{Text: "1/2 * 2 = ?", Options: []string{"1/4", "1", "2"}, CorrectIndex: 1},
			{Text: "1 - 1/2 = ?", Options: []string{"1/2", "1", "0"}, CorrectIndex: 0},
			{Text: "1/3 + 1/3 = ?", Options: []string{"1/3", "2/3", "1"}, CorrectIndex: 1},
			{Text: "2 * 1/4 = ?", Options: []string{"1/2", "1/4", "2"}, CorrectIndex: 0},
		},
	}
}

func Test_quizApi_lifecycle(t *testing.T) {
	env := newTestEnv(t)
	cls := env.createClass(t, "Form 1")
	sub := env.createSubject(t, "Mathematics")
	admin := env.createAdmin(t, "root")
	student := env.enroll(t, env.createStudent(t, "awe", false), cls.ID)

	qz := env.createQuiz(t, admin, mcqQuiz(cls.ID, sub.ID))
	if qz.Status != quiz.StatusDraft {
		t.Fatalf("new quiz status = %q; want %q", qz.Status, quiz.StatusDraft)
	}

	t.Run("student cannot create quizzes", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/quizzes", getToken(t, student), marchallObj(t, mcqQuiz(cls.ID, sub.ID)))
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("code = %v; wantCode %v", rec.Code, http.StatusForbidden)
		}
	})

	t.Run("drafts are invisible to students", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/quizzes/"+qz.ID, getToken(t, student))
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("code = %v; wantCode %v; body %s", rec.Code, http.StatusNotFound, rec.Body.String())
		}

		req, rec = newAuthRequest(http.MethodGet, "/v1/quizzes", getToken(t, student))
		env.server.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte(`[]`)}, rec)
	})

	t.Run("publishing notifies the class", func(t *testing.T) {
		req, rec := newAuthRequest(
			http.MethodPut, "/v1/quizzes/"+qz.ID+"/status", getToken(t, admin), []byte(`{"status": "published"}`))
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; wantCode %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}

		notifs, err := env.notifRepo.QueryUserNotifications(context.Background(), student.ID)
		if err != nil {
			t.Fatalf("QueryUserNotifications() failed: %v", err)
		}
		if len(notifs) != 1 || notifs[0].Title != "New quiz available" || notifs[0].Body != qz.Title {
			t.Errorf("unexpected notifications: %+v", notifs)
		}
	})

	t.Run("students see published quizzes without answers", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/quizzes/"+qz.ID, getToken(t, student))
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; wantCode %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}

		var body map[string]interface{}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshalling body failed: %v", err)
		}
		questions, _ := body["questions"].([]interface{})
		if len(questions) != len(qz.Questions) {
			t.Fatalf("len(questions) = %d; want %d", len(questions), len(qz.Questions))
		}
		for _, qn := range questions {
			fields := qn.(map[string]interface{})
			if _, leaked := fields["correct_index"]; leaked {
				t.Fatal("correct_index leaked to student view")
			}
			if _, leaked := fields["correct_text"]; leaked {
				t.Fatal("correct_text leaked to student view")
			}
		}
	})

	t.Run("admin retrieves the full quiz", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/quizzes/"+qz.ID, getToken(t, admin))
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; wantCode %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var got quiz.Quiz
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unmarshalling Quiz failed: %v", err)
		}
		if len(got.Questions) == 0 || got.Questions[0].Options == nil {
			t.Errorf("unexpected quiz: %+v", got)
		}
	})

	t.Run("admin deletes the quiz", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/quizzes/"+qz.ID, getToken(t, admin))
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %v; wantCode %v", rec.Code, http.StatusNoContent)
		}

		req, rec = newAuthRequest(http.MethodGet, "/v1/quizzes/"+qz.ID, getToken(t, admin))
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("deleted quiz still retrievable; code = %v", rec.Code)
		}
	})
}

func Test_quizApi_attempts(t *testing.T) {
	env := newTestEnv(t)
	cls := env.createClass(t, "Form 1")
	sub := env.createSubject(t, "Mathematics")
	admin := env.createAdmin(t, "root")
	student := env.enroll(t, env.createStudent(t, "awe", false), cls.ID)

	qz := env.createQuiz(t, admin, mcqQuiz(cls.ID, sub.ID))

	answers := func(indexes ...int) []byte {
		na := quiz.NewAttempt{}
		for i, idx := range indexes {
			idx := idx
			na.Answers = append(na.Answers, quiz.Answer{QuestionID: qz.Questions[i].ID, OptionIndex: &idx})
		}
		return marchallObj(t, na)
	}
	// correct: 0, 1, 0, 1, 0 -> answering 0,1,0,0,1 scores 3/5
	threeOfFive := answers(0, 1, 0, 0, 1)

	t.Run("drafts reject attempts", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/quizzes/"+qz.ID+"/attempts", getToken(t, student), threeOfFive)
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %v; wantCode %v; body %s", rec.Code, http.StatusBadRequest, rec.Body.String())
		}
	})

	if _, err := env.quizSvc.SetStatus(context.Background(), qz.ID, quiz.StatusPublished); err != nil {
		t.Fatalf("SetStatus() failed: %v", err)
	}

	t.Run("no attempt stored yet", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/quizzes/"+qz.ID+"/my-attempt", getToken(t, student))
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("code = %v; wantCode %v; body %s", rec.Code, http.StatusNotFound, rec.Body.String())
		}
	})

	var att quiz.Attempt
	t.Run("submission is scored", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/quizzes/"+qz.ID+"/attempts", getToken(t, student), threeOfFive)
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; wantCode %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &att); err != nil {
			t.Fatalf("unmarshalling Attempt failed: %v", err)
		}
		if att.Score != 3 || att.Percentage != 60 {
			t.Errorf("score = %d, percentage = %v; want 3, 60", att.Score, att.Percentage)
		}
	})

	t.Run("retakes return the stored attempt", func(t *testing.T) {
		// a perfect resubmission must not improve the score
		req, rec := newAuthRequest(http.MethodPost, "/v1/quizzes/"+qz.ID+"/attempts", getToken(t, student), answers(0, 1, 0, 1, 0))
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; wantCode %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		var again quiz.Attempt
		if err := json.Unmarshal(rec.Body.Bytes(), &again); err != nil {
			t.Fatalf("unmarshalling Attempt failed: %v", err)
		}
		if again.ID != att.ID || again.Score != att.Score {
			t.Errorf("retake got %+v; want stored attempt %+v", again, att)
		}
	})

	t.Run("my-attempt returns the stored attempt", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, att)}
		req, rec := newAuthRequest(http.MethodGet, "/v1/quizzes/"+qz.ID+"/my-attempt", getToken(t, student))
		env.server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("attempts listing is admin only", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/quizzes/"+qz.ID+"/attempts", getToken(t, student))
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("student: code = %v; wantCode %v", rec.Code, http.StatusForbidden)
		}

		tt := httpTest{wantCode: http.StatusOK, wantData: marchallList(t, att)}
		req, rec = newAuthRequest(http.MethodGet, "/v1/quizzes/"+qz.ID+"/attempts", getToken(t, admin))
		env.server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}

func Test_quizApi_deadline(t *testing.T) {
	env := newTestEnv(t)
	cls := env.createClass(t, "Form 1")
	sub := env.createSubject(t, "Mathematics")
	admin := env.createAdmin(t, "root")
	student := env.enroll(t, env.createStudent(t, "awe", false), cls.ID)

	deadline := time.Now().UTC().Add(-time.Hour)
	nq := mcqQuiz(cls.ID, sub.ID)
	nq.Deadline = &deadline
	qz := env.createQuiz(t, admin, nq)
	if _, err := env.quizSvc.SetStatus(context.Background(), qz.ID, quiz.StatusPublished); err != nil {
		t.Fatalf("SetStatus() failed: %v", err)
	}

	req, rec := newAuthRequest(
		http.MethodPost, "/v1/quizzes/"+qz.ID+"/attempts", getToken(t, student), marchallObj(t, quiz.NewAttempt{}))
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("code = %v; wantCode %v; body %s", rec.Code, http.StatusBadRequest, rec.Body.String())
	}
}
