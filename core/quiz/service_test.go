package quiz

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/darasahub/darasa/core"
)

type fakeQuizRepo struct {
	quizzes  map[string]Quiz
	attempts []Attempt
}

var _ Repository = (*fakeQuizRepo)(nil)

func (r *fakeQuizRepo) CreateQuiz(ctx context.Context, qz Quiz) (Quiz, error) {
	qz.ID = "qz-" + qz.Title
	r.quizzes[qz.ID] = qz
	return qz, nil
}

func (r *fakeQuizRepo) QueryQuizzes(ctx context.Context, classID, subjectID string, statuses ...string) ([]Quiz, error) {
	var out []Quiz
	for _, qz := range r.quizzes {
		if len(statuses) > 0 {
			var match bool
			for _, st := range statuses {
				if qz.Status == st {
					match = true
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, qz)
	}
	return out, nil
}

func (r *fakeQuizRepo) GetQuizByID(ctx context.Context, id string) (Quiz, error) {
	if qz, ok := r.quizzes[id]; ok {
		return qz, nil
	}
	return Quiz{}, ErrNotFound
}

func (r *fakeQuizRepo) UpdateQuizStatus(ctx context.Context, id, status string) (Quiz, error) {
	qz, ok := r.quizzes[id]
	if !ok {
		return Quiz{}, ErrNotFound
	}
	qz.Status = status
	r.quizzes[id] = qz
	return qz, nil
}

func (r *fakeQuizRepo) DeleteQuizzesByID(ctx context.Context, ids ...string) error {
	for _, id := range ids {
		delete(r.quizzes, id)
	}
	return nil
}

func (r *fakeQuizRepo) CreateAttempt(ctx context.Context, att Attempt) (Attempt, error) {
	att.ID = "att"
	r.attempts = append(r.attempts, att)
	return att, nil
}

func (r *fakeQuizRepo) GetAttempt(ctx context.Context, studentID, quizID string) (Attempt, error) {
	for _, att := range r.attempts {
		if att.StudentID == studentID && att.QuizID == quizID {
			return att, nil
		}
	}
	return Attempt{}, ErrAttemptNotFound
}

func (r *fakeQuizRepo) QueryAttemptsByQuiz(ctx context.Context, quizID string) ([]Attempt, error) {
	var out []Attempt
	for _, att := range r.attempts {
		if att.QuizID == quizID {
			out = append(out, att)
		}
	}
	return out, nil
}

func newFakeService(qz ...Quiz) (*Service, *fakeQuizRepo) {
	repo := &fakeQuizRepo{quizzes: make(map[string]Quiz)}
	for _, q := range qz {
		repo.quizzes[q.ID] = q
	}
	return NewService(repo, nil), repo
}

func intPtr(i int) *int { return &i }

func Test_scoreAnswers(t *testing.T) {
	mcq := Quiz{
		Type: TypeMCQ,
		Questions: []Question{
			{ID: "q1", Options: []string{"a", "b"}, CorrectIndex: 0},
			{ID: "q2", Options: []string{"a", "b"}, CorrectIndex: 1},
			{ID: "q3", Options: []string{"a", "b"}, CorrectIndex: 1},
		},
	}
	short := Quiz{
		Type: TypeShortAnswer,
		Questions: []Question{
			{ID: "q1", CorrectText: "Mitochondria"},
			{ID: "q2", CorrectText: "42"},
		},
	}

	tests := []struct {
		name    string
		qz      Quiz
		answers []Answer
		want    int
	}{
		{name: "no answers", qz: mcq, want: 0},
		{name: "all correct", qz: mcq, want: 3, answers: []Answer{
			{QuestionID: "q1", OptionIndex: intPtr(0)},
			{QuestionID: "q2", OptionIndex: intPtr(1)},
			{QuestionID: "q3", OptionIndex: intPtr(1)},
		}},
		{name: "partially correct", qz: mcq, want: 1, answers: []Answer{
			{QuestionID: "q1", OptionIndex: intPtr(0)},
			{QuestionID: "q2", OptionIndex: intPtr(0)},
		}},
		{name: "nil option index", qz: mcq, want: 0, answers: []Answer{
			{QuestionID: "q1", Text: "a"},
		}},
		{name: "unknown question ignored", qz: mcq, want: 0, answers: []Answer{
			{QuestionID: "lol", OptionIndex: intPtr(0)},
		}},
		{name: "short answers match case-insensitively", qz: short, want: 2, answers: []Answer{
			{QuestionID: "q1", Text: "  mitochondria "},
			{QuestionID: "q2", Text: "42"},
		}},
		{name: "wrong short answer", qz: short, want: 0, answers: []Answer{
			{QuestionID: "q1", Text: "Nucleus"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scoreAnswers(tt.qz, tt.answers); got != tt.want {
				t.Errorf("scoreAnswers() = %d, want %d", got, tt.want)
			}
		})
	}
}

func Test_percentage(t *testing.T) {
	tests := []struct {
		score, count int
		want         float64
	}{
		{0, 0, 0},
		{3, 5, 60},
		{1, 3, 33.33},
		{2, 3, 66.67},
		{5, 5, 100},
	}
	for _, tt := range tests {
		if got := percentage(tt.score, tt.count); got != tt.want {
			t.Errorf("percentage(%d, %d) = %v, want %v", tt.score, tt.count, got, tt.want)
		}
	}
}

func Test_Service_SubmitAttempt(t *testing.T) {
	ctx := context.Background()
	deadline := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	published := Quiz{
		ID:     "qz1",
		Type:   TypeMCQ,
		Status: StatusPublished,
		Questions: []Question{
			{ID: "q1", Options: []string{"a", "b"}, CorrectIndex: 0},
			{ID: "q2", Options: []string{"a", "b"}, CorrectIndex: 1},
		},
	}
	draft := published
	draft.ID = "qz2"
	draft.Status = StatusDraft
	expired := published
	expired.ID = "qz3"
	expired.Deadline = &deadline

	svc, _ := newFakeService(published, draft, expired)
	svc.nowFunc = func() time.Time { return deadline.Add(time.Hour) }

	t.Run("unknown quiz", func(t *testing.T) {
		if _, err := svc.SubmitAttempt(ctx, "stud", "lol", NewAttempt{}); errors.Cause(err) != ErrNotFound {
			t.Errorf("error = %v, want %v", err, ErrNotFound)
		}
	})

	t.Run("draft rejects attempts", func(t *testing.T) {
		_, err := svc.SubmitAttempt(ctx, "stud", draft.ID, NewAttempt{})
		if _, ok := errors.Cause(err).(*core.ValidationError); !ok {
			t.Errorf("error = %v, want a validation error", err)
		}
	})

	t.Run("deadline passed", func(t *testing.T) {
		_, err := svc.SubmitAttempt(ctx, "stud", expired.ID, NewAttempt{})
		if _, ok := errors.Cause(err).(*core.ValidationError); !ok {
			t.Errorf("error = %v, want a validation error", err)
		}
	})

	t.Run("scores and persists", func(t *testing.T) {
		att, err := svc.SubmitAttempt(ctx, "stud", published.ID, NewAttempt{Answers: []Answer{
			{QuestionID: "q1", OptionIndex: intPtr(0)},
			{QuestionID: "q2", OptionIndex: intPtr(0)},
		}})
		if err != nil {
			t.Fatalf("SubmitAttempt() failed: %v", err)
		}
		if att.Score != 1 || att.Percentage != 50 {
			t.Errorf("score = %d, percentage = %v; want 1, 50", att.Score, att.Percentage)
		}
	})

	t.Run("no retakes", func(t *testing.T) {
		att, err := svc.SubmitAttempt(ctx, "stud", published.ID, NewAttempt{Answers: []Answer{
			{QuestionID: "q1", OptionIndex: intPtr(0)},
			{QuestionID: "q2", OptionIndex: intPtr(1)},
		}})
		if err != nil {
			t.Fatalf("SubmitAttempt() failed: %v", err)
		}
		if att.Score != 1 {
			t.Errorf("retake score = %d; want stored score 1", att.Score)
		}
	})
}

func Test_Service_GetForStudent(t *testing.T) {
	ctx := context.Background()
	published := Quiz{
		ID:     "qz1",
		Type:   TypeMCQ,
		Status: StatusPublished,
		Questions: []Question{
			{ID: "q1", Options: []string{"a", "b"}, CorrectIndex: 0, CorrectText: "a"},
		},
	}
	draft := published
	draft.ID = "qz2"
	draft.Status = StatusDraft

	svc, _ := newFakeService(published, draft)

	t.Run("drafts are invisible", func(t *testing.T) {
		if _, err := svc.GetForStudent(ctx, draft.ID); errors.Cause(err) != ErrNotFound {
			t.Errorf("error = %v, want %v", err, ErrNotFound)
		}
	})

	t.Run("answers are stripped", func(t *testing.T) {
		sq, err := svc.GetForStudent(ctx, published.ID)
		if err != nil {
			t.Fatalf("GetForStudent() failed: %v", err)
		}
		if len(sq.Questions) != 1 {
			t.Fatalf("len(questions) = %d, want 1", len(sq.Questions))
		}
		if sq.Questions[0].Options == nil {
			t.Error("options missing from student view")
		}
	})
}
