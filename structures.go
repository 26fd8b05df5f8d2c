package dynet

import (
	"github.com/sharnoff/dynet/rng"
	"go.uber.org/zap"
)

// Network is a randomly connected graph of Nodes, scored by one set of ClassWeights per label.
// The Nodes are stored in a flat slice; connections are indexes into that slice, so the graph
// may contain loops without any ownership issues.
//
// A Network is not safe for concurrent use. Use State to share it.
type Network struct {
	// every Node, inputs first. nodes[i] is Node i.
	nodes []Node

	// one entry per distinct training label, sorted by label
	classes []ClassWeights

	// the number of leading Nodes that are inputs
	inputWidth int

	opts BuildOptions

	// the generator used for rerolling and shuffling. Set at construction.
	rng rng.Source

	logger *zap.Logger
}

// Node is a single unit of the Network.
type Node struct {
	// The last computed (or seeded) value of the Node. This is never clamped by Threshold.
	Value float64

	// A value in [0, 1). If Value falls below it, the Node reads as 0 to anything downstream.
	Threshold float64

	// Input Nodes are seeded directly from samples and never computed.
	IsInput bool

	// The indexes of the Nodes averaged to produce Value. Nil for input Nodes. Duplicates and
	// references to the Node itself are allowed.
	Connections []int
}

// ClassWeights is the scoring vector for a single label. There is one weight per Node in the
// Network, but only the weights of non-input Nodes are used.
type ClassWeights struct {
	Label string

	// the number of leading weights that are ignored by Score
	InputWidth int

	Weights []float64
}

// Output is the score given to a single label for the current Node values.
type Output struct {
	Label string
	Score float64
}
