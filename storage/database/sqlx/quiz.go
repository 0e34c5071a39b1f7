package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/darasahub/darasa/core"
	"github.com/darasahub/darasa/core/quiz"
)

type quizRow struct {
	ID              string    `db:"id"`
	Title           string    `db:"title"`
	Status          string    `db:"status"`
	Type            string    `db:"type"`
	DurationMinutes int       `db:"duration_minutes"`
	Difficulty      string    `db:"difficulty"`
	Deadline        null.Time `db:"deadline"`
	Questions       []byte    `db:"questions"`
	ClassID         string    `db:"class_id"`
	SubjectID       string    `db:"subject_id"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (r quizRow) unpack() (quiz.Quiz, error) {
	qz := quiz.Quiz{
		ID:              r.ID,
		Title:           r.Title,
		Status:          r.Status,
		Type:            r.Type,
		DurationMinutes: r.DurationMinutes,
		Difficulty:      r.Difficulty,
		ClassID:         r.ClassID,
		SubjectID:       r.SubjectID,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if r.Deadline.Valid {
		t := r.Deadline.Time
		qz.Deadline = &t
	}
	if err := json.Unmarshal(r.Questions, &qz.Questions); err != nil {
		return quiz.Quiz{}, errors.Wrap(err, "unmarshalling questions")
	}
	return qz, nil
}

type attemptRow struct {
	ID          string    `db:"id"`
	StudentID   string    `db:"student_id"`
	QuizID      string    `db:"quiz_id"`
	Score       int       `db:"score"`
	Percentage  float64   `db:"percentage"`
	CompletedAt time.Time `db:"completed_at"`
}

func (r attemptRow) unpack() quiz.Attempt {
	return quiz.Attempt(r)
}

type quizRepository struct {
	exec core.DBExecutor
}

var _ quiz.Repository = (*quizRepository)(nil) // interface compliance check

func NewQuizRepository(exec core.DBExecutor) *quizRepository {
	return &quizRepository{exec: exec}
}

func (repo quizRepository) CreateQuiz(ctx context.Context, qz quiz.Quiz) (quiz.Quiz, error) {
	qz.ID = uuid.New().String()
	for i := range qz.Questions {
		qz.Questions[i].ID = uuid.New().String()
	}
	questions, err := json.Marshal(qz.Questions)
	if err != nil {
		return quiz.Quiz{}, errors.Wrap(err, "marshalling questions")
	}

	var deadline null.Time
	if qz.Deadline != nil {
		deadline = null.TimeFrom(qz.Deadline.UTC())
	}
	const q = `
		INSERT INTO quiz (id, title, status, type, duration_minutes, difficulty, deadline, questions, class_id, subject_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err = repo.exec.ExecContext(ctx, q,
		qz.ID, qz.Title, qz.Status, qz.Type, qz.DurationMinutes, qz.Difficulty, deadline,
		questions, qz.ClassID, qz.SubjectID, qz.CreatedAt.UTC(), qz.UpdatedAt.UTC())
	if err != nil {
		return quiz.Quiz{}, errors.Wrap(err, "inserting quiz")
	}
	return qz, nil
}

func (repo quizRepository) QueryQuizzes(ctx context.Context, classID, subjectID string, statuses ...string) ([]quiz.Quiz, error) {
	q := `SELECT * FROM quiz`
	var conds []string
	var args []interface{}

	arg := func(val interface{}) string {
		args = append(args, val)
		return "$" + strconv.Itoa(len(args))
	}

	if classID != "" {
		conds = append(conds, "class_id = "+arg(classID))
	}
	if subjectID != "" {
		conds = append(conds, "subject_id = "+arg(subjectID))
	}
	if len(statuses) > 0 {
		conds = append(conds, "status = ANY("+arg(pq.Array(statuses))+")")
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at DESC"

	var rows []quizRow
	if err := repo.exec.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying quizzes")
	}
	quizzes := make([]quiz.Quiz, 0, len(rows))
	for _, r := range rows {
		qz, err := r.unpack()
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, qz)
	}
	return quizzes, nil
}

func (repo quizRepository) GetQuizByID(ctx context.Context, id string) (quiz.Quiz, error) {
	var r quizRow
	if err := repo.exec.GetContext(ctx, &r, `SELECT * FROM quiz WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return quiz.Quiz{}, quiz.ErrNotFound
		}
		return quiz.Quiz{}, errors.Wrap(err, "getting quiz")
	}
	return r.unpack()
}

func (repo quizRepository) UpdateQuizStatus(ctx context.Context, id, status string) (quiz.Quiz, error) {
	const q = `UPDATE quiz SET status = $2, updated_at = $3 WHERE id = $1`
	res, err := repo.exec.ExecContext(ctx, q, id, status, time.Now().UTC())
	if err != nil {
		return quiz.Quiz{}, errors.Wrap(err, "updating quiz status")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return quiz.Quiz{}, quiz.ErrNotFound
	}
	return repo.GetQuizByID(ctx, id)
}

func (repo quizRepository) DeleteQuizzesByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := repo.exec.ExecContext(ctx, `DELETE FROM quiz WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "deleting quizzes")
	}
	return nil
}

func (repo quizRepository) CreateAttempt(ctx context.Context, att quiz.Attempt) (quiz.Attempt, error) {
	att.ID = uuid.New().String()
	const q = `
		INSERT INTO attempt (id, student_id, quiz_id, score, percentage, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (student_id, quiz_id) DO NOTHING`
	res, err := repo.exec.ExecContext(ctx, q,
		att.ID, att.StudentID, att.QuizID, att.Score, att.Percentage, att.CompletedAt.UTC())
	if err != nil {
		return quiz.Attempt{}, errors.Wrap(err, "inserting attempt")
	}
	// lost a race with an earlier submission: the stored attempt is canonical
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repo.GetAttempt(ctx, att.StudentID, att.QuizID)
	}
	return att, nil
}

func (repo quizRepository) GetAttempt(ctx context.Context, studentID, quizID string) (quiz.Attempt, error) {
	var r attemptRow
	const q = `SELECT * FROM attempt WHERE student_id = $1 AND quiz_id = $2`
	if err := repo.exec.GetContext(ctx, &r, q, studentID, quizID); err != nil {
		if err == sql.ErrNoRows {
			return quiz.Attempt{}, quiz.ErrAttemptNotFound
		}
		return quiz.Attempt{}, errors.Wrap(err, "getting attempt")
	}
	return r.unpack(), nil
}

func (repo quizRepository) QueryAttemptsByQuiz(ctx context.Context, quizID string) ([]quiz.Attempt, error) {
	var rows []attemptRow
	const q = `SELECT * FROM attempt WHERE quiz_id = $1 ORDER BY completed_at`
	if err := repo.exec.SelectContext(ctx, &rows, q, quizID); err != nil {
		return nil, errors.Wrap(err, "querying attempts")
	}
	atts := make([]quiz.Attempt, 0, len(rows))
	for _, r := range rows {
		atts = append(atts, r.unpack())
	}
	return atts, nil
}
