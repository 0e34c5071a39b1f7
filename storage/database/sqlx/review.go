package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/darasahub/darasa/core"
	"github.com/darasahub/darasa/core/review"
)

type reviewRow struct {
	ID         string    `db:"id"`
	UserID     string    `db:"user_id"`
	AuthorName string    `db:"author_name"`
	Rating     int       `db:"rating"`
	Comment    string    `db:"comment"`
	CreatedAt  time.Time `db:"created_at"`
}

type reviewRepository struct {
	exec core.DBExecutor
}

var _ review.Repository = (*reviewRepository)(nil) // interface compliance check

func NewReviewRepository(exec core.DBExecutor) *reviewRepository {
	return &reviewRepository{exec: exec}
}

func (repo reviewRepository) CreateReview(ctx context.Context, rev review.Review) (review.Review, error) {
	rev.ID = uuid.New().String()
	const q = `
		INSERT INTO review (id, user_id, author_name, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := repo.exec.ExecContext(ctx, q,
		rev.ID, rev.UserID, rev.AuthorName, rev.Rating, rev.Comment, rev.CreatedAt.UTC())
	if err != nil {
		return review.Review{}, errors.Wrap(err, "inserting review")
	}
	return rev, nil
}

func (repo reviewRepository) QueryReviews(ctx context.Context, limit int) ([]review.Review, error) {
	q := `SELECT * FROM review ORDER BY created_at DESC`
	var args []interface{}
	if limit > 0 {
		q += " LIMIT $1"
		args = append(args, limit)
	}

	var rows []reviewRow
	if err := repo.exec.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying reviews")
	}
	revs := make([]review.Review, 0, len(rows))
	for _, r := range rows {
		revs = append(revs, review.Review(r))
	}
	return revs, nil
}
