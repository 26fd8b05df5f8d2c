package dynet

import (
	"testing"

	"github.com/sharnoff/dynet/rng"
	"github.com/stretchr/testify/require"
)

// fixedState is a 5 node network with 2 inputs that always prefers "A" for non-zero inputs:
//
//	node 2 = mean(0, 1)
//	node 3 = mean(2)    (stale on the first pass)
//	node 4 = mean(0)
func fixedState() *State {
	return &State{
		InputWidth: 2,
		Nodes: []Node{
			{IsInput: true},
			{IsInput: true},
			{Connections: []int{0, 1}},
			{Connections: []int{2}},
			{Connections: []int{0}},
		},
		Classes: []ClassWeights{
			{Label: "A", InputWidth: 2, Weights: []float64{1, 1, 1, 1, 1}},
			{Label: "B", InputWidth: 2, Weights: []float64{0, 0, 0, 0, 0}},
		},
	}
}

func fixedNet(t *testing.T) *Network {
	t.Helper()

	net, err := FromState(fixedState(), BuildOptions{}, rng.New(1))
	require.NoError(t, err)
	return net
}

func labeled(label string, raw ...byte) *Sample {
	return &Sample{Label: label, Raw: raw}
}
