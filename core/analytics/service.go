package analytics

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/darasahub/darasa/core"
)

var ErrCacheMiss = errors.New("cache miss")

// DashboardStats is the admin dashboard aggregate view.
type DashboardStats struct {
	Users            int     `json:"users"`
	Students         int     `json:"students"`
	PremiumUsers     int     `json:"premium_users"`
	Classes          int     `json:"classes"`
	Subjects         int     `json:"subjects"`
	Chapters         int     `json:"chapters"`
	Notes            int     `json:"notes"`
	Lectures         int     `json:"lectures"`
	Quizzes          int     `json:"quizzes"`
	PublishedQuizzes int     `json:"published_quizzes"`
	Attempts         int     `json:"attempts"`
	AvgScorePct      float64 `json:"avg_score_pct"`
}

// QuizStats aggregates attempts of one quiz.
type QuizStats struct {
	QuizID        string  `json:"quiz_id"`
	Attempts      int     `json:"attempts"`
	AvgScore      float64 `json:"avg_score"`
	AvgPercentage float64 `json:"avg_percentage"`
}

type (
	Repository interface {
		ComputeDashboardStats(ctx context.Context) (DashboardStats, error)
		ComputeQuizStats(ctx context.Context, quizID string) (QuizStats, error)
	}

	// Cache stores computed aggregates; Get returns ErrCacheMiss when absent.
	Cache interface {
		Get(ctx context.Context, key string, dest interface{}) error
		Set(ctx context.Context, key string, val interface{}, ttl time.Duration) error
	}

	Service struct {
		repo   Repository
		cache  Cache
		logger core.Logger
		ttl    time.Duration
	}
)

const (
	dashboardCacheKey = "analytics:dashboard"
	quizCacheKey      = "analytics:quiz:"
)

func NewService(repo Repository, cache Cache, logger core.Logger, ttl time.Duration) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
		ttl:    ttl,
	}
}

// Dashboard returns the cached dashboard aggregates, recomputing on miss.
// A broken cache degrades to direct computation.
func (svc *Service) Dashboard(ctx context.Context) (DashboardStats, error) {
	var stats DashboardStats
	if svc.cache != nil {
		err := svc.cache.Get(ctx, dashboardCacheKey, &stats)
		if err == nil {
			return stats, nil
		}
		if errors.Cause(err) != ErrCacheMiss {
			svc.logger.Warn("analytics: cache read failed", err)
		}
	}

	stats, err := svc.repo.ComputeDashboardStats(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	svc.store(ctx, dashboardCacheKey, stats)
	return stats, nil
}

func (svc *Service) QuizStats(ctx context.Context, quizID string) (QuizStats, error) {
	key := quizCacheKey + quizID

	var stats QuizStats
	if svc.cache != nil {
		err := svc.cache.Get(ctx, key, &stats)
		if err == nil {
			return stats, nil
		}
		if errors.Cause(err) != ErrCacheMiss {
			svc.logger.Warn("analytics: cache read failed", err)
		}
	}

	stats, err := svc.repo.ComputeQuizStats(ctx, quizID)
	if err != nil {
		return QuizStats{}, err
	}
	svc.store(ctx, key, stats)
	return stats, nil
}

func (svc *Service) store(ctx context.Context, key string, val interface{}) {
	if svc.cache == nil {
		return
	}
	if err := svc.cache.Set(ctx, key, val, svc.ttl); err != nil {
		svc.logger.Warn("analytics: cache write failed", err)
	}
}
