package dynet

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Score gives the weighted average of the non-input values, using the class's weights:
//
//	sum(values[i] * w[i]) / (1 + sum(w[i]))    for InputWidth <= i < len(values)
//
// The extra 1 in the denominator keeps classes with near-zero weights from scoring highly. If
// the class has no weights, or the denominator is not positive, Score returns an Output with
// an empty Label and a Score of 0.
func (cw ClassWeights) Score(values []float64) Output {
	if len(cw.Weights) == 0 {
		return Output{}
	}

	end := len(values)
	if len(cw.Weights) < end {
		end = len(cw.Weights)
	}

	start := cw.InputWidth
	if start < 0 {
		start = 0
	} else if start > end {
		start = end
	}

	vs, ws := values[start:end], cw.Weights[start:end]

	sum := floats.Dot(vs, ws)
	weightTotal := 1 + floats.Sum(ws)

	if weightTotal > 0 {
		return Output{cw.Label, sum / weightTotal}
	}

	return Output{}
}

// Scores returns the Output of every class for the given values, in the order of Classes().
func (net *Network) Scores(values []float64) []Output {
	outs := make([]Output, len(net.classes))
	for i := range net.classes {
		outs[i] = net.classes[i].Score(values)
	}

	return outs
}

// Best returns the Output with the highest Score. If several are tied, the last of them is
// returned. A NaN Score is treated as lower than any number. Best returns the zero Output if
// given none.
func Best(outs []Output) Output {
	if len(outs) == 0 {
		return Output{}
	}

	best := outs[0]
	for _, o := range outs[1:] {
		if o.Score >= best.Score || math.IsNaN(best.Score) {
			best = o
		}
	}

	return best
}
