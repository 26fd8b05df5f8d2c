package dynet

import (
	"testing"

	"github.com/sharnoff/dynet/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateIsIndependent(t *testing.T) {
	samples := []*Sample{labeled("x", 1, 2, 3), labeled("y", 4, 5, 6)}
	net, err := New(samples, DefaultBuildOptions(), rng.New(10))
	require.NoError(t, err)

	st := net.State()
	saved := st.Copy()
	require.Equal(t, saved, st)

	net.Predict([]byte{200, 100, 50})
	net.Reroll()
	assert.Equal(t, saved, st)
	assert.NotEqual(t, st, net.State())

	// and the other way around
	st.Nodes[len(st.Nodes)-1].Connections[0] = -1
	st.Classes[0].Weights[0] = 99
	current := net.State()
	assert.NotEqual(t, -1, current.Nodes[len(current.Nodes)-1].Connections[0])
	assert.NotEqual(t, 99.0, current.Classes[0].Weights[0])
}

func TestRestore(t *testing.T) {
	samples := []*Sample{labeled("x", 1, 2, 3), labeled("y", 4, 5, 6)}
	net, err := New(samples, DefaultBuildOptions(), rng.New(11))
	require.NoError(t, err)

	best := net.State()
	want := net.Predict([]byte{9, 8, 7})

	net.Reroll()
	net.Reroll()
	require.NoError(t, net.Restore(best))
	assert.Equal(t, best.Classes, net.Classes())

	// restoring also brings back the node values, so the next prediction is repeated exactly
	require.NoError(t, net.Restore(best))
	assert.Equal(t, want, net.Predict([]byte{9, 8, 7}))

	bad := best.Copy()
	bad.Classes[0].Weights = bad.Classes[0].Weights[1:]
	assert.IsType(t, DataError{}, net.Restore(bad))
	assert.Equal(t, best.Classes, net.Classes())

	assert.IsType(t, NilArgError{}, net.Restore(nil))
}

func TestFromState(t *testing.T) {
	net, err := FromState(fixedState(), DefaultBuildOptions(), rng.New(1))
	require.NoError(t, err)
	assert.Equal(t, 5, net.Size())
	assert.Equal(t, 2, net.InputSize())
	assert.Equal(t, []string{"A", "B"}, net.Labels())
	assert.Equal(t, fixedState(), net.State())

	_, err = FromState(nil, BuildOptions{}, rng.New(1))
	assert.IsType(t, NilArgError{}, err)

	_, err = FromState(fixedState(), BuildOptions{}, nil)
	assert.IsType(t, NilArgError{}, err)
}

func TestStateValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*State)
	}{
		{"no nodes", func(st *State) { st.Nodes = nil; st.InputWidth = 0 }},
		{"input width too large", func(st *State) { st.InputWidth = 5 }},
		{"negative input width", func(st *State) { st.InputWidth = -1 }},
		{"missing input flag", func(st *State) { st.Nodes[1].IsInput = false }},
		{"extra input flag", func(st *State) { st.Nodes[3].IsInput = true }},
		{"connection too large", func(st *State) { st.Nodes[2].Connections[1] = 5 }},
		{"negative connection", func(st *State) { st.Nodes[4].Connections[0] = -1 }},
		{"short weights", func(st *State) { st.Classes[1].Weights = st.Classes[1].Weights[:4] }},
		{"class scores inputs", func(st *State) { st.Classes[0].InputWidth = 0 }},
		{"class input width too large", func(st *State) { st.Classes[1].InputWidth = 3 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := fixedState()
			tt.modify(st)
			assert.IsType(t, DataError{}, st.Validate())

			_, err := FromState(st, BuildOptions{}, rng.New(1))
			assert.IsType(t, DataError{}, err)
		})
	}

	assert.NoError(t, fixedState().Validate())
}

func TestNodeOutput(t *testing.T) {
	assert.Equal(t, 0.2, Node{IsInput: true, Value: 0.2, Threshold: 0.9}.Output())
	assert.Equal(t, 0.0, Node{Value: 0.2, Threshold: 0.9}.Output())
	assert.Equal(t, 0.9, Node{Value: 0.9, Threshold: 0.9}.Output())

	assert.Equal(t, "<input, value: 0.5>", Node{IsInput: true, Value: 0.5}.String())
	assert.Equal(t, "<value: 0.25, threshold: 0.5, connections: 2>",
		Node{Value: 0.25, Threshold: 0.5, Connections: []int{0, 0}}.String())
}
