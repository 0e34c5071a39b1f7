package quiz

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/darasahub/darasa/core"
)

// Quiz statuses; only published quizzes are listed to and attemptable by
// students.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Quiz types
const (
	TypeMCQ         = "MCQ"
	TypeShortAnswer = "SHORT_ANSWER"
)

type Quiz struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Status          string     `json:"status"`
	Type            string     `json:"type"`
	DurationMinutes int        `json:"duration_minutes"`
	Difficulty      string     `json:"difficulty,omitempty"`
	Deadline        *time.Time `json:"deadline,omitempty"`
	Questions       []Question `json:"questions"`
	ClassID         string     `json:"class_id"`
	SubjectID       string     `json:"subject_id"`
	CreatedAt       time.Time  `json:"created_at"` // UTC
	UpdatedAt       time.Time  `json:"updated_at"` // UTC
}

type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options,omitempty"` // MCQ only

	// correct answers; never serialized to students
	CorrectIndex int    `json:"correct_index"`
	CorrectText  string `json:"correct_text,omitempty"`
}

// StudentQuiz is the quiz view served to students: questions without answers.
type (
	StudentQuiz struct {
		ID              string            `json:"id"`
		Title           string            `json:"title"`
		Status          string            `json:"status"`
		Type            string            `json:"type"`
		DurationMinutes int               `json:"duration_minutes"`
		Difficulty      string            `json:"difficulty,omitempty"`
		Deadline        *time.Time        `json:"deadline,omitempty"`
		Questions       []StudentQuestion `json:"questions"`
		ClassID         string            `json:"class_id"`
		SubjectID       string            `json:"subject_id"`
	}

	StudentQuestion struct {
		ID      string   `json:"id"`
		Text    string   `json:"text"`
		Options []string `json:"options,omitempty"`
	}
)

func (q Quiz) StudentView() StudentQuiz {
	sq := StudentQuiz{
		ID:              q.ID,
		Title:           q.Title,
		Status:          q.Status,
		Type:            q.Type,
		DurationMinutes: q.DurationMinutes,
		Difficulty:      q.Difficulty,
		Deadline:        q.Deadline,
		Questions:       make([]StudentQuestion, 0, len(q.Questions)),
		ClassID:         q.ClassID,
		SubjectID:       q.SubjectID,
	}
	for _, qn := range q.Questions {
		sq.Questions = append(sq.Questions, StudentQuestion{ID: qn.ID, Text: qn.Text, Options: qn.Options})
	}
	return sq
}

// IsOpen reports whether the quiz currently accepts attempts.
func (q Quiz) IsOpen(now time.Time) bool {
	if q.Status != StatusPublished {
		return false
	}
	if q.Deadline != nil && now.After(*q.Deadline) {
		return false
	}
	return true
}

// Attempt is a persisted record of one student's completed run through one
// Quiz. One attempt per (student, quiz).
type Attempt struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"student_id"`
	QuizID      string    `json:"quiz_id"`
	Score       int       `json:"score"`
	Percentage  float64   `json:"percentage"`
	CompletedAt time.Time `json:"completed_at"` // UTC
}

type NewQuiz struct {
	Title           string        `json:"title" validate:"required"`
	Type            string        `json:"type" validate:"required,oneof=MCQ SHORT_ANSWER"`
	DurationMinutes int           `json:"duration_minutes" validate:"gte=0"`
	Difficulty      string        `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Deadline        *time.Time    `json:"deadline"`
	Questions       []NewQuestion `json:"questions" validate:"required,min=1,dive"`
	ClassID         string        `json:"class_id" validate:"required"`
	SubjectID       string        `json:"subject_id" validate:"required"`
}

type NewQuestion struct {
	Text         string   `json:"text" validate:"required"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index" validate:"gte=0"`
	CorrectText  string   `json:"correct_text"`
}

func (nq *NewQuiz) Validate(validate *validator.Validate) error {
	nq.Title = core.CleanString(nq.Title)
	if err := validate.Struct(nq); err != nil {
		return err
	}
	for i, qn := range nq.Questions {
		switch nq.Type {
		case TypeMCQ:
			if len(qn.Options) < 2 {
				return core.NewValidationError(nil, core.FieldError{
					Field: "questions", Error: "MCQ questions need at least 2 options",
				})
			}
			if qn.CorrectIndex >= len(qn.Options) {
				return core.NewValidationError(nil, core.FieldError{
					Field: "questions", Error: "correct_index out of range",
				})
			}
		case TypeShortAnswer:
			if core.CleanString(qn.CorrectText) == "" {
				return core.NewValidationError(nil, core.FieldError{
					Field: "questions", Error: "short answer questions need a correct_text",
				})
			}
		}
		nq.Questions[i].Text = core.CleanString(qn.Text)
	}
	return nil
}

// Answer is one submitted answer keyed by question id.
type Answer struct {
	QuestionID  string `json:"question_id" validate:"required"`
	OptionIndex *int   `json:"option_index"` // MCQ
	Text        string `json:"text"`         // SHORT_ANSWER
}

type NewAttempt struct {
	Answers []Answer `json:"answers" validate:"dive"`
}

func (na *NewAttempt) Validate(validate *validator.Validate) error {
	return validate.Struct(na)
}

type UpdateQuizStatus struct {
	Status string `json:"status" validate:"required,oneof=draft published archived"`
}

func (us *UpdateQuizStatus) Validate(validate *validator.Validate) error {
	return validate.Struct(us)
}
