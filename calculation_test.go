package dynet

import (
	"testing"

	"github.com/sharnoff/dynet/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateDescendingPass(t *testing.T) {
	t.Run("lower index is stale", func(t *testing.T) {
		nodes := []Node{
			{IsInput: true, Value: 1},
			{Connections: []int{0}},
			{Connections: []int{1}},
		}

		// node 2 is visited first and sees node 1 from before the pass
		assert.Equal(t, []float64{1, 1, 0}, Evaluate(nodes, 1))
		assert.Equal(t, []float64{1, 1, 1}, Evaluate(nodes, 1))
	})

	t.Run("higher index is fresh", func(t *testing.T) {
		nodes := []Node{
			{IsInput: true, Value: 1},
			{Connections: []int{2}},
			{Connections: []int{0}},
		}

		assert.Equal(t, []float64{1, 1, 1}, Evaluate(nodes, 1))
	})

	t.Run("self loop", func(t *testing.T) {
		nodes := []Node{
			{IsInput: true, Value: 1},
			{Value: 0.5, Connections: []int{0, 1}},
		}

		assert.Equal(t, []float64{1, 0.75}, Evaluate(nodes, 1))
		assert.Equal(t, 0.75, nodes[1].Value)
	})

	t.Run("mean counts repeats", func(t *testing.T) {
		nodes := []Node{
			{IsInput: true, Value: 0},
			{IsInput: true, Value: 1},
			{Connections: []int{1, 1, 0}},
		}

		values := Evaluate(nodes, 2)
		assert.InDelta(t, 2.0/3, values[2], 1e-12)
	})

	t.Run("no connections", func(t *testing.T) {
		nodes := []Node{
			{IsInput: true, Value: 1},
			{Value: 0.3},
		}

		assert.Equal(t, []float64{1, 0.3}, Evaluate(nodes, 1))
	})

	t.Run("inputs untouched", func(t *testing.T) {
		nodes := []Node{
			{IsInput: true, Value: 0.25, Connections: []int{1}},
			{Value: 0.9, Connections: []int{0}},
		}

		values := Evaluate(nodes, 1)
		assert.Equal(t, []float64{0.25, 0.25}, values)
		assert.Equal(t, 0.25, nodes[0].Value)
	})
}

func TestEvaluateThreshold(t *testing.T) {
	nodes := []Node{
		{IsInput: true, Value: 0.5},
		{Threshold: 0.9, Connections: []int{0}},
		{Connections: []int{1}},
	}

	values := Evaluate(nodes, 1)

	// node 1 is below its threshold: it reads as 0 but keeps its value
	assert.Equal(t, 0.0, values[1])
	assert.Equal(t, 0.5, nodes[1].Value)
	assert.False(t, nodes[1].Active())

	// node 2 ran before node 1, so it saw the previous (zero) value
	assert.Equal(t, 0.0, values[2])

	// on the next pass, node 2 starts from node 1's ungated value
	values = Evaluate(nodes, 1)
	assert.Equal(t, 0.5, values[2])
	assert.Equal(t, 0.0, values[1])

	cw := ClassWeights{Label: "x", InputWidth: 1, Weights: []float64{0, 1, 0}}
	assert.Equal(t, 0.0, cw.Score(values).Score)
}

func TestEvaluateThresholdBoundary(t *testing.T) {
	nodes := []Node{
		{IsInput: true, Value: 0.5},
		{Threshold: 0.5, Connections: []int{0}},
	}

	assert.Equal(t, []float64{0.5, 0.5}, Evaluate(nodes, 1))
}

func TestSeed(t *testing.T) {
	net := fixedNet(t)

	net.Seed([]float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7})
	nodes := net.Nodes()
	require.Len(t, nodes, 5)
	assert.Equal(t, 0.1, nodes[0].Value)
	assert.Equal(t, 0.2, nodes[1].Value)

	// computed nodes are left alone
	for i := 2; i < 5; i++ {
		assert.Zero(t, nodes[i].Value, "node %d", i)
	}
	assert.True(t, nodes[0].IsInput)
	assert.False(t, nodes[2].IsInput)

	net.Seed([]float64{0.9})
	nodes = net.Nodes()
	assert.Equal(t, 0.9, nodes[0].Value)
	assert.Equal(t, 0.2, nodes[1].Value)
}

func TestRun(t *testing.T) {
	net := fixedNet(t)

	out := net.Run(labeled("B", 255, 255))
	assert.Equal(t, "A", out.Label)

	// first pass: node 2 = 1, node 3 stale at 0, node 4 = 1
	assert.InDelta(t, 0.5, out.Score, 1e-12)

	// second pass: node 3 now sees node 2
	out = net.Predict([]byte{255, 255})
	assert.Equal(t, "A", out.Label)
	assert.InDelta(t, 0.75, out.Score, 1e-12)
}

func TestRunIgnoresValuesPastInputs(t *testing.T) {
	// node 2 = node 0, node 3 = node 2, node 4 = node 3
	chain := func() *Network {
		st := &State{
			InputWidth: 2,
			Nodes: []Node{
				{IsInput: true},
				{IsInput: true},
				{Connections: []int{0}},
				{Connections: []int{2}},
				{Connections: []int{3}},
			},
			Classes: []ClassWeights{
				{Label: "A", InputWidth: 2, Weights: []float64{0, 0, 0, 0, 1}},
				{Label: "B", InputWidth: 2, Weights: []float64{0, 0, 0, 0, 0}},
			},
		}

		net, err := FromState(st, BuildOptions{}, rng.New(1))
		require.NoError(t, err)
		return net
	}

	plain := chain()
	want := plain.Run(labeled("", 0, 0))

	inverted := labeled("", 0, 0)
	inverted.Invert()
	require.Equal(t, []float64{0, 0, 1, 1}, inverted.Values())

	net := chain()
	assert.Equal(t, want, net.Run(inverted))
	assert.Equal(t, plain.State(), net.State())
	for i, nd := range net.Nodes() {
		assert.Zero(t, nd.Value, "node %d", i)
	}
}

func TestRunTieGoesToLastClass(t *testing.T) {
	st := fixedState()
	st.Classes[1].Weights = []float64{1, 1, 1, 1, 1}

	net, err := FromState(st, BuildOptions{}, rng.New(1))
	require.NoError(t, err)

	assert.Equal(t, "B", net.Predict([]byte{255, 0}).Label)
	assert.Equal(t, "B", net.Predict([]byte{0, 0}).Label)
}
