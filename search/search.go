// Package search improves dynet Networks by random search: it builds a number of Networks
// and, for each, repeatedly redraws the class weights, keeping a copy of the best Network it
// has seen.
//
// Each epoch is run with the best accuracy so far as its cutoff, so poor weights are usually
// abandoned within a few checkpoints.
package search

import (
	"context"
	"time"

	dn "github.com/sharnoff/dynet"
	"github.com/sharnoff/dynet/rng"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

// ErrNoImprovement is returned by Run when no epoch did better than the initial accuracy, so
// there is no Network worth keeping.
var ErrNoImprovement = errors.New("No network did better than the initial accuracy")

// Config determines how long a search runs.
type Config struct {
	// Number of Networks built from scratch
	Restarts int `yaml:"restarts" validate:"min=1"`

	// Number of epochs (and rerolls) per Network
	Epochs int `yaml:"epochs" validate:"min=1"`

	// The accuracy an epoch must beat to be kept at all; the first cutoff
	InitialAccuracy float64 `yaml:"initialAccuracy" validate:"gte=0,lte=1"`

	// Passed to Train as the first checkpoint
	Checkpoint int `yaml:"checkpoint" validate:"min=1"`
}

// DefaultConfig returns the Config used when none is given.
func DefaultConfig() Config {
	return Config{
		Restarts:        25,
		Epochs:          500,
		InitialAccuracy: 0.1,
		Checkpoint:      dn.DefaultCheckpoint,
	}
}

// Outcome is the result of a search.
type Outcome struct {
	RunID uuid.UUID

	// The best Network found, or nil if none beat the initial accuracy
	Best *dn.State

	// The training accuracy of Best when it was captured
	Accuracy float64

	// Best re-tested over the test samples, without a cutoff
	Final dn.Result

	// Counts across the whole search
	Epochs  int
	Aborted int

	// Mean and standard deviation of the accuracy of epochs that ran to completion
	Mean   float64
	StdDev float64

	Elapsed time.Duration
}

// Searcher runs a search. It should be created with New.
type Searcher struct {
	cfg  Config
	opts dn.BuildOptions
	src  rng.Source

	train []*dn.Sample
	test  []*dn.Sample

	logger  *zap.Logger
	metrics *Collector
}

// New creates a Searcher over the given training samples. test may be nil, in which case the
// final Network is tested on the training samples. All randomness is drawn from src.
func New(cfg Config, opts dn.BuildOptions, train, test []*dn.Sample, src rng.Source) (*Searcher, error) {
	if src == nil {
		return nil, errors.New("Can't create searcher: rng.Source is nil")
	}

	if cfg.Restarts < 1 || cfg.Epochs < 1 || cfg.Checkpoint < 1 {
		return nil, errors.Errorf("Can't create searcher: restarts, epochs and checkpoint must all be at least 1 (%d, %d, %d)",
			cfg.Restarts, cfg.Epochs, cfg.Checkpoint)
	} else if cfg.InitialAccuracy < 0 || cfg.InitialAccuracy > 1 {
		return nil, errors.Errorf("Can't create searcher: initial accuracy %g is not in [0, 1]", cfg.InitialAccuracy)
	}

	if err := opts.Validate(); err != nil {
		return nil, errors.Wrapf(err, "Can't create searcher")
	}

	if len(train) == 0 {
		return nil, errors.Errorf("Can't create searcher: no training samples")
	}

	if test == nil {
		test = train
	}

	return &Searcher{
		cfg:    cfg,
		opts:   opts,
		src:    src,
		train:  train,
		test:   test,
		logger: zap.NewNop(),
	}, nil
}

// SetLogger sets the logger for the search and the Networks it builds. A nil logger disables
// logging.
func (s *Searcher) SetLogger(l *zap.Logger) *Searcher {
	if l == nil {
		l = zap.NewNop()
	}

	s.logger = l
	return s
}

// SetMetrics sets the Collector that records the search. It may be nil.
func (s *Searcher) SetMetrics(c *Collector) *Searcher {
	s.metrics = c
	return s
}

// Run performs the search. If ctx is cancelled, Run stops before the next epoch and returns
// whatever it has found so far along with the context's error.
//
// If no epoch beats the initial accuracy, Run returns ErrNoImprovement.
func (s *Searcher) Run(ctx context.Context) (Outcome, error) {
	start := time.Now()
	out := Outcome{
		RunID:    uuid.New(),
		Accuracy: s.cfg.InitialAccuracy,
	}

	log := s.logger.With(zap.String("run", out.RunID.String()))
	log.Info("starting search",
		zap.Int("restarts", s.cfg.Restarts), zap.Int("epochs", s.cfg.Epochs),
		zap.Int("samples", len(s.train)), zap.Float64("initialAccuracy", s.cfg.InitialAccuracy))

	var accuracies []float64

	finish := func(err error) (Outcome, error) {
		out.Elapsed = time.Since(start)
		if len(accuracies) > 0 {
			out.Mean, out.StdDev = stat.MeanStdDev(accuracies, nil)
			if len(accuracies) == 1 {
				out.StdDev = 0
			}
		}

		log.Info("search finished",
			zap.Int("epochs", out.Epochs), zap.Int("aborted", out.Aborted),
			zap.Float64("best", out.Accuracy), zap.Float64("mean", out.Mean),
			zap.Float64("stddev", out.StdDev), zap.Duration("elapsed", out.Elapsed), zap.Error(err))

		return out, err
	}

	for r := 0; r < s.cfg.Restarts; r++ {
		if err := ctx.Err(); err != nil {
			return finish(errors.Wrapf(err, "Search stopped at restart %d", r))
		}

		net, err := dn.New(s.train, s.opts, s.src)
		if err != nil {
			return finish(errors.Wrapf(err, "Can't build network for restart %d", r))
		}
		net.SetLogger(log)
		s.metrics.restart()

		log.Debug("built network", zap.Int("restart", r), zap.Int("nodes", net.Size()),
			zap.Int("inputs", net.InputSize()), zap.Int("classes", len(net.Labels())))

		for e := 0; e < s.cfg.Epochs; e++ {
			if err := ctx.Err(); err != nil {
				return finish(errors.Wrapf(err, "Search stopped at restart %d, epoch %d", r, e))
			}

			res, err := net.Train(s.train, out.Accuracy, s.cfg.Checkpoint)
			aborted := errors.Cause(err) == dn.ErrBelowCutoff
			if err != nil && !aborted {
				return finish(errors.Wrapf(err, "Training failed at restart %d, epoch %d", r, e))
			}

			out.Epochs++
			s.metrics.epoch(res, aborted)

			if aborted {
				out.Aborted++
			} else {
				accuracies = append(accuracies, res.Percent())
			}

			if !aborted && res.Percent() > out.Accuracy {
				out.Accuracy = res.Percent()
				out.Best = net.State()
				s.metrics.improved(out.Accuracy)

				log.Info("new best network", zap.Int("restart", r), zap.Int("epoch", e),
					zap.Float64("accuracy", out.Accuracy), zap.Int("correct", res.Correct),
					zap.Int("wrong", res.Wrong), zap.Int("skipped", res.Skipped))
				continue
			}

			net.Reroll()
			s.metrics.reroll()
		}
	}

	if out.Best == nil {
		return finish(ErrNoImprovement)
	}

	final, err := dn.FromState(out.Best, s.opts, s.src)
	if err != nil {
		return finish(errors.Wrapf(err, "Can't restore best network"))
	}
	final.SetLogger(log)

	if out.Final, err = final.Test(s.test); err != nil {
		return finish(errors.Wrapf(err, "Can't test best network"))
	}

	log.Info("tested best network", zap.Int("correct", out.Final.Correct),
		zap.Int("wrong", out.Final.Wrong), zap.Float64("accuracy", out.Final.Percent()))

	return finish(nil)
}
