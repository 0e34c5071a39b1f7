package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/darasahub/darasa/core/quiz"
)

type quizRepository struct {
	quizzes  *quizTable
	attempts *attemptTable
}

var _ quiz.Repository = (*quizRepository)(nil) // interface compliance check

func NewQuizRepository(db *DB) *quizRepository {
	return &quizRepository{
		quizzes:  db.quiz,
		attempts: db.attempt,
	}
}

func (repo *quizRepository) CreateQuiz(ctx context.Context, qz quiz.Quiz) (quiz.Quiz, error) {
	repo.quizzes.Lock()
	defer repo.quizzes.Unlock()

	qz.ID = uuid.New().String()
	for i := range qz.Questions {
		qz.Questions[i].ID = uuid.New().String()
	}
	repo.quizzes.rows = append(repo.quizzes.rows, &qz)
	return qz, nil
}

func (repo *quizRepository) QueryQuizzes(ctx context.Context, classID, subjectID string, statuses ...string) ([]quiz.Quiz, error) {
	repo.quizzes.RLock()
	defer repo.quizzes.RUnlock()

	var quizzes []quiz.Quiz
	for _, qz := range repo.quizzes.rows {
		if classID != "" && qz.ClassID != classID {
			continue
		}
		if subjectID != "" && qz.SubjectID != subjectID {
			continue
		}
		if len(statuses) > 0 && !contains(statuses, qz.Status) {
			continue
		}
		quizzes = append(quizzes, *qz)
	}
	sort.SliceStable(quizzes, func(i, j int) bool { return quizzes[i].CreatedAt.After(quizzes[j].CreatedAt) })
	return quizzes, nil
}

func (repo *quizRepository) GetQuizByID(ctx context.Context, id string) (quiz.Quiz, error) {
	repo.quizzes.RLock()
	defer repo.quizzes.RUnlock()

	for _, qz := range repo.quizzes.rows {
		if qz.ID == id {
			return *qz, nil
		}
	}
	return quiz.Quiz{}, quiz.ErrNotFound
}

func (repo *quizRepository) UpdateQuizStatus(ctx context.Context, id, status string) (quiz.Quiz, error) {
	repo.quizzes.Lock()
	defer repo.quizzes.Unlock()

	for _, qz := range repo.quizzes.rows {
		if qz.ID == id {
			qz.Status = status
			qz.UpdatedAt = time.Now().UTC()
			return *qz, nil
		}
	}
	return quiz.Quiz{}, quiz.ErrNotFound
}

func (repo *quizRepository) DeleteQuizzesByID(ctx context.Context, ids ...string) error {
	repo.quizzes.Lock()
	defer repo.quizzes.Unlock()

	for _, id := range ids {
		for i, qz := range repo.quizzes.rows {
			if qz.ID == id {
				repo.quizzes.rows = append(repo.quizzes.rows[:i], repo.quizzes.rows[i+1:]...)
				break
			}
		}
	}
	return nil
}

func (repo *quizRepository) CreateAttempt(ctx context.Context, att quiz.Attempt) (quiz.Attempt, error) {
	repo.attempts.Lock()
	defer repo.attempts.Unlock()

	// the first stored attempt is canonical
	for _, a := range repo.attempts.rows {
		if a.StudentID == att.StudentID && a.QuizID == att.QuizID {
			return *a, nil
		}
	}

	att.ID = uuid.New().String()
	repo.attempts.rows = append(repo.attempts.rows, &att)
	return att, nil
}

func (repo *quizRepository) GetAttempt(ctx context.Context, studentID, quizID string) (quiz.Attempt, error) {
	repo.attempts.RLock()
	defer repo.attempts.RUnlock()

	for _, att := range repo.attempts.rows {
		if att.StudentID == studentID && att.QuizID == quizID {
			return *att, nil
		}
	}
	return quiz.Attempt{}, quiz.ErrAttemptNotFound
}

func (repo *quizRepository) QueryAttemptsByQuiz(ctx context.Context, quizID string) ([]quiz.Attempt, error) {
	repo.attempts.RLock()
	defer repo.attempts.RUnlock()

	var atts []quiz.Attempt
	for _, att := range repo.attempts.rows {
		if att.QuizID == quizID {
			atts = append(atts, *att)
		}
	}
	return atts, nil
}

func contains(vals []string, val string) bool {
	for _, v := range vals {
		if v == val {
			return true
		}
	}
	return false
}
