package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/darasahub/darasa/core"
	"github.com/darasahub/darasa/core/analytics"
	"github.com/darasahub/darasa/core/quiz"
	"github.com/darasahub/darasa/core/user"
)

type analyticsRepository struct {
	exec core.DBExecutor
}

var _ analytics.Repository = (*analyticsRepository)(nil) // interface compliance check

func NewAnalyticsRepository(exec core.DBExecutor) *analyticsRepository {
	return &analyticsRepository{exec: exec}
}

func (repo analyticsRepository) ComputeDashboardStats(ctx context.Context) (analytics.DashboardStats, error) {
	const q = `
		SELECT
			(SELECT COUNT(*) FROM "user")                                        AS users,
			(SELECT COUNT(*) FROM "user" WHERE $1 = ANY(roles))                  AS students,
			(SELECT COUNT(*) FROM "user" WHERE is_premium)                       AS premium_users,
			(SELECT COUNT(*) FROM class)                                         AS classes,
			(SELECT COUNT(*) FROM subject)                                       AS subjects,
			(SELECT COUNT(*) FROM chapter)                                       AS chapters,
			(SELECT COUNT(*) FROM note)                                          AS notes,
			(SELECT COUNT(*) FROM lecture)                                       AS lectures,
			(SELECT COUNT(*) FROM quiz)                                          AS quizzes,
			(SELECT COUNT(*) FROM quiz WHERE status = $2)                        AS published_quizzes,
			(SELECT COUNT(*) FROM attempt)                                       AS attempts,
			(SELECT COALESCE(AVG(percentage), 0) FROM attempt)                   AS avg_score_pct`

	var row struct {
		Users            int     `db:"users"`
		Students         int     `db:"students"`
		PremiumUsers     int     `db:"premium_users"`
		Classes          int     `db:"classes"`
		Subjects         int     `db:"subjects"`
		Chapters         int     `db:"chapters"`
		Notes            int     `db:"notes"`
		Lectures         int     `db:"lectures"`
		Quizzes          int     `db:"quizzes"`
		PublishedQuizzes int     `db:"published_quizzes"`
		Attempts         int     `db:"attempts"`
		AvgScorePct      float64 `db:"avg_score_pct"`
	}
	if err := repo.exec.GetContext(ctx, &row, q, user.RoleStudent, quiz.StatusPublished); err != nil {
		return analytics.DashboardStats{}, errors.Wrap(err, "computing dashboard stats")
	}
	return analytics.DashboardStats(row), nil
}

func (repo analyticsRepository) ComputeQuizStats(ctx context.Context, quizID string) (analytics.QuizStats, error) {
	const q = `
		SELECT
			COUNT(*)                      AS attempts,
			COALESCE(AVG(score), 0)      AS avg_score,
			COALESCE(AVG(percentage), 0) AS avg_percentage
		FROM attempt WHERE quiz_id = $1`

	var row struct {
		Attempts      int     `db:"attempts"`
		AvgScore      float64 `db:"avg_score"`
		AvgPercentage float64 `db:"avg_percentage"`
	}
	if err := repo.exec.GetContext(ctx, &row, q, quizID); err != nil {
		return analytics.QuizStats{}, errors.Wrap(err, "computing quiz stats")
	}
	return analytics.QuizStats{
		QuizID:        quizID,
		Attempts:      row.Attempts,
		AvgScore:      row.AvgScore,
		AvgPercentage: row.AvgPercentage,
	}, nil
}
