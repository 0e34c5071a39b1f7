package inmemdb

import (
	"context"

	"github.com/darasahub/darasa/core/feature"
)

type featureRepository struct {
	db *featureFlagTable
}

var _ feature.Repository = (*featureRepository)(nil) // interface compliance check

func NewFeatureRepository(db *DB) *featureRepository {
	return &featureRepository{db: db.featureFlag}
}

func (repo *featureRepository) QueryFlags(ctx context.Context) ([]feature.Flag, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	flags := make([]feature.Flag, 0, len(repo.db.rows))
	for _, flag := range repo.db.rows {
		flags = append(flags, *flag)
	}
	return flags, nil
}

func (repo *featureRepository) GetFlag(ctx context.Context, featureName string) (feature.Flag, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, flag := range repo.db.rows {
		if flag.FeatureName == featureName {
			return *flag, nil
		}
	}
	return feature.Flag{}, feature.ErrNotFound
}

func (repo *featureRepository) UpsertFlag(ctx context.Context, flag feature.Flag) (feature.Flag, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, orig := range repo.db.rows {
		if orig.FeatureName == flag.FeatureName {
			orig.IsPremium = flag.IsPremium
			return *orig, nil
		}
	}
	repo.db.rows = append(repo.db.rows, &flag)
	return flag, nil
}
