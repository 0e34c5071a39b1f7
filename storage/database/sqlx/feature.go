package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/darasahub/darasa/core"
	"github.com/darasahub/darasa/core/feature"
)

type featureFlagRow struct {
	FeatureName string `db:"feature_name"`
	IsPremium   bool   `db:"is_premium"`
}

type featureRepository struct {
	exec core.DBExecutor
}

var _ feature.Repository = (*featureRepository)(nil) // interface compliance check

func NewFeatureRepository(exec core.DBExecutor) *featureRepository {
	return &featureRepository{exec: exec}
}

func (repo featureRepository) QueryFlags(ctx context.Context) ([]feature.Flag, error) {
	var rows []featureFlagRow
	if err := repo.exec.SelectContext(ctx, &rows, `SELECT * FROM feature_flag ORDER BY feature_name`); err != nil {
		return nil, errors.Wrap(err, "querying feature flags")
	}
	flags := make([]feature.Flag, 0, len(rows))
	for _, r := range rows {
		flags = append(flags, feature.Flag{FeatureName: r.FeatureName, IsPremium: r.IsPremium})
	}
	return flags, nil
}

func (repo featureRepository) GetFlag(ctx context.Context, featureName string) (feature.Flag, error) {
	var r featureFlagRow
	if err := repo.exec.GetContext(ctx, &r, `SELECT * FROM feature_flag WHERE feature_name = $1`, featureName); err != nil {
		if err == sql.ErrNoRows {
			return feature.Flag{}, feature.ErrNotFound
		}
		return feature.Flag{}, errors.Wrap(err, "getting feature flag")
	}
	return feature.Flag{FeatureName: r.FeatureName, IsPremium: r.IsPremium}, nil
}

func (repo featureRepository) UpsertFlag(ctx context.Context, flag feature.Flag) (feature.Flag, error) {
	const q = `
		INSERT INTO feature_flag (feature_name, is_premium) VALUES ($1, $2)
		ON CONFLICT (feature_name) DO UPDATE SET is_premium = EXCLUDED.is_premium`
	if _, err := repo.exec.ExecContext(ctx, q, flag.FeatureName, flag.IsPremium); err != nil {
		return feature.Flag{}, errors.Wrap(err, "upserting feature flag")
	}
	return flag, nil
}
