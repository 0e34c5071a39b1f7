package inmemdb

import (
	"context"
	"math"

	"github.com/darasahub/darasa/core/analytics"
	"github.com/darasahub/darasa/core/quiz"
	"github.com/darasahub/darasa/core/user"
)

type analyticsRepository struct {
	db *DB
}

var _ analytics.Repository = (*analyticsRepository)(nil) // interface compliance check

func NewAnalyticsRepository(db *DB) *analyticsRepository {
	return &analyticsRepository{db: db}
}

func (repo *analyticsRepository) ComputeDashboardStats(ctx context.Context) (analytics.DashboardStats, error) {
	var stats analytics.DashboardStats

	repo.db.user.RLock()
	stats.Users = len(repo.db.user.rows)
	for _, usr := range repo.db.user.rows {
		if usr.RoleStartsWith(user.RoleStudent) {
			stats.Students++
		}
		if usr.IsPremium {
			stats.PremiumUsers++
		}
	}
	repo.db.user.RUnlock()

	repo.db.class.RLock()
	stats.Classes = len(repo.db.class.rows)
	repo.db.class.RUnlock()

	repo.db.subject.RLock()
	stats.Subjects = len(repo.db.subject.rows)
	repo.db.subject.RUnlock()

	repo.db.chapter.RLock()
	stats.Chapters = len(repo.db.chapter.rows)
	repo.db.chapter.RUnlock()

	repo.db.note.RLock()
	stats.Notes = len(repo.db.note.rows)
	repo.db.note.RUnlock()

	repo.db.lecture.RLock()
	stats.Lectures = len(repo.db.lecture.rows)
	repo.db.lecture.RUnlock()

	repo.db.quiz.RLock()
	stats.Quizzes = len(repo.db.quiz.rows)
	for _, qz := range repo.db.quiz.rows {
		if qz.Status == quiz.StatusPublished {
			stats.PublishedQuizzes++
		}
	}
	repo.db.quiz.RUnlock()

	repo.db.attempt.RLock()
	stats.Attempts = len(repo.db.attempt.rows)
	var pctSum float64
	for _, att := range repo.db.attempt.rows {
		pctSum += att.Percentage
	}
	repo.db.attempt.RUnlock()

	if stats.Attempts > 0 {
		stats.AvgScorePct = round2(pctSum / float64(stats.Attempts))
	}
	return stats, nil
}

func (repo *analyticsRepository) ComputeQuizStats(ctx context.Context, quizID string) (analytics.QuizStats, error) {
	repo.db.attempt.RLock()
	defer repo.db.attempt.RUnlock()

	stats := analytics.QuizStats{QuizID: quizID}
	var scoreSum, pctSum float64
	for _, att := range repo.db.attempt.rows {
		if att.QuizID != quizID {
			continue
		}
		stats.Attempts++
		scoreSum += float64(att.Score)
		pctSum += att.Percentage
	}
	if stats.Attempts > 0 {
		stats.AvgScore = round2(scoreSum / float64(stats.Attempts))
		stats.AvgPercentage = round2(pctSum / float64(stats.Attempts))
	}
	return stats, nil
}

func round2(val float64) float64 {
	return math.Round(val*100) / 100
}
