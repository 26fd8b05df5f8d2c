package dynet

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sharnoff/dynet/rng"
	"go.uber.org/zap"
)

// BuildNodes creates the Nodes of a new Network: the first inputWidth Nodes are inputs, and
// each of the rest is given between minConn and maxConn (inclusive) connections, each to a
// Node chosen uniformly from all of them, and a threshold uniform in [0, 1).
//
// Connections may repeat and may refer to any Node, including the Node itself, so the graph
// may have loops.
//
// BuildNodes returns a ConfigError if minConn < 1, minConn > maxConn, or total <= inputWidth.
func BuildNodes(total, inputWidth, minConn, maxConn int, src rng.Source) ([]Node, error) {
	if src == nil {
		return nil, NilArgError{"rng.Source"}
	} else if minConn < 1 {
		return nil, ConfigError{fmt.Sprintf("minimum connections must be at least 1 (%d)", minConn)}
	} else if minConn > maxConn {
		return nil, ConfigError{fmt.Sprintf("minimum connections %d is greater than maximum %d", minConn, maxConn)}
	} else if inputWidth < 0 {
		return nil, ConfigError{fmt.Sprintf("input width must not be negative (%d)", inputWidth)}
	} else if total <= inputWidth {
		return nil, ConfigError{fmt.Sprintf("total nodes %d must be greater than input width %d", total, inputWidth)}
	}

	nodes := make([]Node, total)
	for i := 0; i < inputWidth; i++ {
		nodes[i].IsInput = true
	}

	for i := inputWidth; i < total; i++ {
		conns := make([]int, rng.Between(src, minConn, maxConn))
		for c := range conns {
			conns[c] = src.Intn(total)
		}

		nodes[i].Connections = conns
		nodes[i].Threshold = src.Float64()
	}

	return nodes, nil
}

// New builds a Network suitable for the given training samples. The number of input Nodes is
// the width of the widest sample, and there is one set of ClassWeights for each distinct label.
// All randomness is drawn from src, which the Network keeps for Reroll and for shuffling during
// Train.
//
// The samples are not stored; they must be given to Train.
func New(samples []*Sample, opts BuildOptions, src rng.Source) (*Network, error) {
	if src == nil {
		return nil, NilArgError{"rng.Source"}
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if len(samples) == 0 {
		return nil, DataError{"no training samples"}
	}

	labels := Labels(samples)
	if len(labels) == 0 {
		return nil, ErrNoClasses
	}

	inputWidth := Widest(samples)
	if inputWidth == 0 {
		return nil, DataError{"every training sample has empty inputs"}
	}

	total := rng.Between(src, opts.MinTotalNodes, opts.MaxTotalNodes) + inputWidth

	nodes, err := BuildNodes(total, inputWidth, opts.MinNodeConnections, opts.MaxNodeConnections, src)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't build network nodes")
	}

	net := &Network{
		nodes:      nodes,
		classes:    make([]ClassWeights, len(labels)),
		inputWidth: inputWidth,
		opts:       opts,
		rng:        src,
		logger:     zap.NewNop(),
	}

	for i, l := range labels {
		net.classes[i] = ClassWeights{
			Label:      l,
			InputWidth: inputWidth,
			Weights:    make([]float64, total),
		}
	}

	net.Reroll()
	return net, nil
}

// Reroll gives every class new weights, uniformly in [0, 1). The Nodes and their connections
// are unchanged.
func (net *Network) Reroll() {
	g := rng.Uniform(net.rng)
	for i := range net.classes {
		rng.Fill(g, net.classes[i].Weights)
	}
}
