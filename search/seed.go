package search

import (
	"context"

	"github.com/sharnoff/dynet/rng"

	"go.uber.org/zap"
)

// NewSource returns the generator for a search, along with the seed it was given.
//
// A non-zero seed is used as is. Otherwise, if external is non-nil the seed is requested from
// it; if that fails, the failure is logged and the clock is used instead. With neither, the
// clock is used.
func NewSource(ctx context.Context, seed int64, external rng.Seeder, logger *zap.Logger) (rng.Source, int64) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if seed != 0 {
		return rng.New(seed), seed
	}

	if external != nil {
		src, seed, err := rng.Seeded(ctx, external)
		if err == nil {
			logger.Debug("seeded from external entropy", zap.Int64("seed", seed))
			return src, seed
		}

		logger.Warn("external entropy unavailable, seeding from clock", zap.Error(err))
	}

	// Clock never fails
	src, seed, _ := rng.Seeded(ctx, rng.Clock{})
	return src, seed
}
