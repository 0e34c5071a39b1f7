package review

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/darasahub/darasa/core"
	"github.com/darasahub/darasa/core/user"
)

var ErrNotFound = errors.New("review not found")

const defaultLatestCount = 3

type Review struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	AuthorName string    `json:"author_name"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"` // UTC
}

type NewReview struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"required"`
}

func (nr *NewReview) Validate(validate *validator.Validate) error {
	nr.Comment = core.CleanString(nr.Comment)
	return validate.Struct(nr)
}

type (
	Repository interface {
		CreateReview(ctx context.Context, rev Review) (Review, error)
		// QueryReviews returns reviews newest first.
		QueryReviews(ctx context.Context, limit int) ([]Review, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, usr user.User, nr NewReview) (Review, error) {
	rev := Review{
		UserID:     usr.ID,
		AuthorName: usr.Name,
		Rating:     nr.Rating,
		Comment:    nr.Comment,
		CreatedAt:  time.Now().UTC(),
	}
	return svc.repo.CreateReview(ctx, rev)
}

func (svc *Service) Query(ctx context.Context) ([]Review, error) {
	revs, err := svc.repo.QueryReviews(ctx, 0)
	if err != nil {
		return nil, err
	}
	if revs == nil {
		revs = []Review{}
	}
	return revs, nil
}

// Latest returns the n newest reviews (default 3).
func (svc *Service) Latest(ctx context.Context, n int) ([]Review, error) {
	if n <= 0 {
		n = defaultLatestCount
	}
	revs, err := svc.repo.QueryReviews(ctx, n)
	if err != nil {
		return nil, err
	}
	if revs == nil {
		revs = []Review{}
	}
	return revs, nil
}
