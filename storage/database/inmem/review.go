package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/darasahub/darasa/core/review"
)

type reviewRepository struct {
	db *reviewTable
}

var _ review.Repository = (*reviewRepository)(nil) // interface compliance check

func NewReviewRepository(db *DB) *reviewRepository {
	return &reviewRepository{db: db.review}
}

func (repo *reviewRepository) CreateReview(ctx context.Context, rev review.Review) (review.Review, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	rev.ID = uuid.New().String()
	repo.db.rows = append(repo.db.rows, &rev)
	return rev, nil
}

func (repo *reviewRepository) QueryReviews(ctx context.Context, limit int) ([]review.Review, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	revs := make([]review.Review, 0, len(repo.db.rows))
	for _, rev := range repo.db.rows {
		revs = append(revs, *rev)
	}
	sort.SliceStable(revs, func(i, j int) bool { return revs[i].CreatedAt.After(revs[j].CreatedAt) })
	if limit > 0 && len(revs) > limit {
		revs = revs[:limit]
	}
	return revs, nil
}
