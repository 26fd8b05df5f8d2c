package dynet

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DefaultCheckpoint is the usual number of samples processed before accuracy is first compared
// against the cutoff in Train.
const DefaultCheckpoint int = 50

// Result is the outcome of a single pass over a set of samples
type Result struct {
	// The number of samples for which the Network chose the Sample's Label
	Correct int

	// The number of samples for which it didn't
	Wrong int

	// The number of samples that were too wide for the Network (or nil) and were not run
	Skipped int

	// Time taken by the pass
	Elapsed time.Duration
}

// Processed returns the number of samples that were actually run.
func (r Result) Processed() int {
	return r.Correct + r.Wrong
}

// Percent returns the fraction of processed samples that were correct, in [0, 1]. If no
// samples were processed, Percent returns 0.
func (r Result) Percent() float64 {
	if r.Processed() == 0 {
		return 0
	}

	return float64(r.Correct) / float64(r.Processed())
}

// Train runs the Network over every sample once, counting how many are classified correctly.
// Nothing about the Network is adjusted; improvement comes from the caller comparing Results and
// calling Reroll or building a new Network (see package search).
//
// If the Network was built with ShuffleData, samples is shuffled in place first.
//
// Only samples whose Width fits within the Network's input Nodes are run; the rest are counted
// as Skipped. Since the input Nodes are always fewer than the Nodes, this also skips every
// sample at least as wide as the Network. After more than 'checkpoint' samples have been run, the accuracy so far is
// compared to cutoff. If it is lower, training stops and ErrBelowCutoff is returned along with
// the counts so far; otherwise the checkpoint doubles and training continues.
//
// Train returns a DataError if there are no samples, and a DimensionError if none could be run.
func (net *Network) Train(samples []*Sample, cutoff float64, checkpoint int) (Result, error) {
	if samples == nil {
		return Result{}, DataError{"no training data"}
	} else if len(samples) < 1 {
		return Result{}, DataError{"not enough training data"}
	}

	if net.opts.ShuffleData {
		Shuffle(samples, net.rng)
	}

	return net.pass(samples, cutoff, checkpoint)
}

// Test runs the Network over every sample once, in order, without any cutoff. Errors are as for
// Train, except that ErrBelowCutoff is never returned.
func (net *Network) Test(samples []*Sample) (Result, error) {
	if len(samples) < 1 {
		return Result{}, DataError{"no test data"}
	}

	return net.pass(samples, 0, len(samples))
}

func (net *Network) pass(samples []*Sample, cutoff float64, checkpoint int) (res Result, err error) {
	start := time.Now()
	defer func() {
		res.Elapsed = time.Since(start)
	}()

	check := checkpoint
	widest := 0

	for i, s := range samples {
		if s == nil {
			res.Skipped++
			continue
		}

		// anything wider than the inputs would be seeded into computed Nodes
		if w := s.Width(); w > net.inputWidth {
			res.Skipped++
			if w > widest {
				widest = w
			}

			net.logger.Debug("skipping sample wider than network inputs",
				zap.Int("sample", i), zap.Int("width", w), zap.Int("inputs", net.inputWidth),
				zap.Int("nodes", len(net.nodes)))
			continue
		}

		if net.Run(s).Label == s.Label {
			res.Correct++
		} else {
			res.Wrong++
		}

		if res.Processed() > check {
			if res.Percent() < cutoff {
				net.logger.Debug("accuracy below cutoff",
					zap.Int("processed", res.Processed()), zap.Float64("accuracy", res.Percent()),
					zap.Float64("cutoff", cutoff))

				return res, errors.Wrapf(ErrBelowCutoff, "accuracy %g after %d samples (cutoff %g)",
					res.Percent(), res.Processed(), cutoff)
			}

			check += check
		}
	}

	if res.Processed() == 0 {
		return res, DimensionError{Nodes: len(net.nodes), Inputs: net.inputWidth, Widest: widest, Skipped: res.Skipped}
	}

	return res, nil
}
