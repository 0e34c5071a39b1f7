package quiz

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/darasahub/darasa/core"
)

var (
	// errors
	ErrNotFound        = errors.New("quiz not found")
	ErrAttemptNotFound = errors.New("attempt not found")

	errNotOpen        = errors.New("this quiz is not open for attempts")
	errDeadlinePassed = errors.New("the deadline for this quiz has passed")
)

type (
	Repository interface {
		CreateQuiz(ctx context.Context, qz Quiz) (Quiz, error)
		// QueryQuizzes filters by class/subject when provided and by statuses
		// when non-empty.
		QueryQuizzes(ctx context.Context, classID, subjectID string, statuses ...string) ([]Quiz, error)
		GetQuizByID(ctx context.Context, id string) (Quiz, error)
		UpdateQuizStatus(ctx context.Context, id, status string) (Quiz, error)
		DeleteQuizzesByID(ctx context.Context, ids ...string) error

		// CreateAttempt enforces one attempt per (student, quiz).
		CreateAttempt(ctx context.Context, att Attempt) (Attempt, error)
		GetAttempt(ctx context.Context, studentID, quizID string) (Attempt, error)
		QueryAttemptsByQuiz(ctx context.Context, quizID string) ([]Attempt, error)
	}

	// Notifier lets quiz publication fan out to the class; satisfied by
	// notification.Service.
	Notifier interface {
		NotifyClass(ctx context.Context, classID, title, body string) error
	}

	Service struct {
		repo     Repository
		notifier Notifier
		nowFunc  func() time.Time
	}
)

func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		nowFunc:  time.Now,
	}
}

func (svc *Service) Create(ctx context.Context, nq NewQuiz) (Quiz, error) {
	now := svc.nowFunc().UTC()
	qz := Quiz{
		Title:           nq.Title,
		Status:          StatusDraft,
		Type:            nq.Type,
		DurationMinutes: nq.DurationMinutes,
		Difficulty:      nq.Difficulty,
		Deadline:        nq.Deadline,
		Questions:       make([]Question, 0, len(nq.Questions)),
		ClassID:         nq.ClassID,
		SubjectID:       nq.SubjectID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, qn := range nq.Questions {
		qz.Questions = append(qz.Questions, Question{
			Text:         qn.Text,
			Options:      qn.Options,
			CorrectIndex: qn.CorrectIndex,
			CorrectText:  qn.CorrectText,
		})
	}
	return svc.repo.CreateQuiz(ctx, qz)
}

// Query lists quizzes with their answers; admin use only.
func (svc *Service) Query(ctx context.Context, classID, subjectID string, statuses ...string) ([]Quiz, error) {
	quizzes, err := svc.repo.QueryQuizzes(ctx, classID, subjectID, statuses...)
	if err != nil {
		return nil, err
	}
	if quizzes == nil {
		quizzes = []Quiz{}
	}
	return quizzes, nil
}

// QueryForStudents lists published quizzes only, stripped of answers.
func (svc *Service) QueryForStudents(ctx context.Context, classID, subjectID string) ([]StudentQuiz, error) {
	quizzes, err := svc.repo.QueryQuizzes(ctx, classID, subjectID, StatusPublished)
	if err != nil {
		return nil, err
	}
	out := make([]StudentQuiz, 0, len(quizzes))
	for _, qz := range quizzes {
		out = append(out, qz.StudentView())
	}
	return out, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Quiz, error) {
	return svc.repo.GetQuizByID(ctx, id)
}

// GetForStudent returns the student view of a published quiz; non-published
// quizzes are invisible to students.
func (svc *Service) GetForStudent(ctx context.Context, id string) (StudentQuiz, error) {
	qz, err := svc.repo.GetQuizByID(ctx, id)
	if err != nil {
		return StudentQuiz{}, err
	}
	if qz.Status != StatusPublished {
		return StudentQuiz{}, ErrNotFound
	}
	return qz.StudentView(), nil
}

func (svc *Service) SetStatus(ctx context.Context, id, status string) (Quiz, error) {
	qz, err := svc.repo.UpdateQuizStatus(ctx, id, status)
	if err != nil {
		return Quiz{}, err
	}
	if status == StatusPublished && svc.notifier != nil {
		if err := svc.notifier.NotifyClass(ctx, qz.ClassID, "New quiz available", qz.Title); err != nil {
			return qz, errors.Wrap(err, "notifying class")
		}
	}
	return qz, nil
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteQuizzesByID(ctx, ids...)
}

// QueryAttempts lists all attempts of a quiz; admin use only.
func (svc *Service) QueryAttempts(ctx context.Context, quizID string) ([]Attempt, error) {
	atts, err := svc.repo.QueryAttemptsByQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if atts == nil {
		atts = []Attempt{}
	}
	return atts, nil
}

// GetAttempt returns the student's stored attempt for a quiz, if any.
func (svc *Service) GetAttempt(ctx context.Context, studentID, quizID string) (Attempt, error) {
	return svc.repo.GetAttempt(ctx, studentID, quizID)
}

// SubmitAttempt scores the submitted answers and persists the attempt.
// Submissions against unpublished quizzes or past the deadline are rejected;
// a repeated submission returns the stored attempt unchanged.
func (svc *Service) SubmitAttempt(ctx context.Context, studentID, quizID string, na NewAttempt) (Attempt, error) {
	qz, err := svc.repo.GetQuizByID(ctx, quizID)
	if err != nil {
		return Attempt{}, err
	}

	now := svc.nowFunc().UTC()
	if qz.Status != StatusPublished {
		return Attempt{}, core.NewValidationError(errNotOpen)
	}
	if qz.Deadline != nil && now.After(*qz.Deadline) {
		return Attempt{}, core.NewValidationError(errDeadlinePassed)
	}

	// no retakes: an existing attempt is canonical
	if att, err := svc.repo.GetAttempt(ctx, studentID, quizID); err == nil {
		return att, nil
	} else if errors.Cause(err) != ErrAttemptNotFound {
		return Attempt{}, err
	}

	score := scoreAnswers(qz, na.Answers)
	att := Attempt{
		StudentID:   studentID,
		QuizID:      quizID,
		Score:       score,
		Percentage:  percentage(score, len(qz.Questions)),
		CompletedAt: now,
	}
	return svc.repo.CreateAttempt(ctx, att)
}

// scoreAnswers counts correct answers. MCQ answers match on option index;
// short answers match case-insensitively after trimming.
func scoreAnswers(qz Quiz, answers []Answer) int {
	byQuestion := make(map[string]Answer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}

	var score int
	for _, qn := range qz.Questions {
		a, ok := byQuestion[qn.ID]
		if !ok {
			continue
		}
		switch qz.Type {
		case TypeMCQ:
			if a.OptionIndex != nil && *a.OptionIndex == qn.CorrectIndex {
				score++
			}
		case TypeShortAnswer:
			if strings.EqualFold(strings.TrimSpace(a.Text), strings.TrimSpace(qn.CorrectText)) {
				score++
			}
		}
	}
	return score
}

func percentage(score, questionCount int) float64 {
	if questionCount == 0 {
		return 0
	}
	pct := float64(score) / float64(questionCount) * 100
	return math.Round(pct*100) / 100
}
