package feature

import (
	"context"

	"github.com/pkg/errors"

	"github.com/darasahub/darasa/core"
	"github.com/darasahub/darasa/core/user"
)

// Gated features
const (
	Notes   = "notes"
	Quizzes = "quizzes"
)

var ErrNotFound = errors.New("feature flag not found")

// Flag is a named toggle controlling whether a section requires premium access.
type Flag struct {
	FeatureName string `json:"featureName" validate:"required"`
	IsPremium   bool   `json:"isPremium"`
}

// Decision is the outcome of gating a feature for a user.
type Decision struct {
	Locked bool   `json:"locked"`
	Reason string `json:"reason,omitempty"`
}

type (
	Repository interface {
		QueryFlags(ctx context.Context) ([]Flag, error)
		GetFlag(ctx context.Context, featureName string) (Flag, error)
		UpsertFlag(ctx context.Context, flag Flag) (Flag, error)
	}

	Service struct {
		repo   Repository
		conf   *core.Config
		logger core.Logger
	}
)

func NewService(repo Repository, conf *core.Config, logger core.Logger) *Service {
	return &Service{
		repo:   repo,
		conf:   conf,
		logger: logger,
	}
}

func (svc *Service) Query(ctx context.Context) ([]Flag, error) {
	flags, err := svc.repo.QueryFlags(ctx)
	if err != nil {
		return nil, err
	}
	if flags == nil {
		flags = []Flag{}
	}
	return flags, nil
}

func (svc *Service) Upsert(ctx context.Context, flag Flag) (Flag, error) {
	return svc.repo.UpsertFlag(ctx, flag)
}

// Gate decides whether a feature is locked for a user. Admins always bypass;
// unknown features are unlocked. When the flag store cannot be reached the
// gate fails closed unless configured to fail open.
func (svc *Service) Gate(ctx context.Context, featureName string, usr user.User) Decision {
	if usr.IsAdmin() {
		return Decision{}
	}

	flag, err := svc.repo.GetFlag(ctx, featureName)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Decision{}
		}
		svc.logger.Error("feature gate: flag lookup failed", err)
		if svc.conf.FeatureGate.FailOpen {
			return Decision{}
		}
		return Decision{Locked: true, Reason: "feature availability could not be verified"}
	}

	if flag.IsPremium && !usr.IsPremium {
		return Decision{Locked: true, Reason: "premium subscription required"}
	}
	return Decision{}
}
