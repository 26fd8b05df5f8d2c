package dynet

import (
	"fmt"

	"github.com/sharnoff/dynet/rng"
	"go.uber.org/zap"
)

// State is an independent copy of everything that determines a Network's predictions: its
// Nodes (including their current values) and its ClassWeights. Nothing in a State shares
// memory with the Network it came from, so the Network can keep training without affecting it.
type State struct {
	InputWidth int
	Nodes      []Node
	Classes    []ClassWeights
}

// Copy returns a Node that shares no memory with n.
func (n Node) Copy() Node {
	c := n
	if n.Connections != nil {
		c.Connections = make([]int, len(n.Connections))
		copy(c.Connections, n.Connections)
	}

	return c
}

// Copy returns ClassWeights that share no memory with cw.
func (cw ClassWeights) Copy() ClassWeights {
	c := cw
	if cw.Weights != nil {
		c.Weights = make([]float64, len(cw.Weights))
		copy(c.Weights, cw.Weights)
	}

	return c
}

func copyNodes(ns []Node) []Node {
	if ns == nil {
		return nil
	}

	cp := make([]Node, len(ns))
	for i := range ns {
		cp[i] = ns[i].Copy()
	}
	return cp
}

func copyClasses(cs []ClassWeights) []ClassWeights {
	if cs == nil {
		return nil
	}

	cp := make([]ClassWeights, len(cs))
	for i := range cs {
		cp[i] = cs[i].Copy()
	}
	return cp
}

// State captures the current State of the Network.
func (net *Network) State() *State {
	return &State{
		InputWidth: net.inputWidth,
		Nodes:      copyNodes(net.nodes),
		Classes:    copyClasses(net.classes),
	}
}

// Copy returns a deep copy of the State.
func (st *State) Copy() *State {
	return &State{
		InputWidth: st.InputWidth,
		Nodes:      copyNodes(st.Nodes),
		Classes:    copyClasses(st.Classes),
	}
}

// Validate checks that the State describes a usable Network: exactly the first InputWidth Nodes
// are inputs, every connection refers to an existing Node, and every class has one weight per
// Node and the same InputWidth as the State. Any problem is returned as a DataError.
func (st *State) Validate() error {
	n := len(st.Nodes)
	if st.InputWidth < 0 || st.InputWidth >= n {
		return DataError{fmt.Sprintf("input width %d out of range for %d nodes", st.InputWidth, n)}
	}

	for i := range st.Nodes {
		nd := &st.Nodes[i]
		if nd.IsInput != (i < st.InputWidth) {
			return DataError{fmt.Sprintf("node %d: input flag %t does not match input width %d", i, nd.IsInput, st.InputWidth)}
		}

		for _, c := range nd.Connections {
			if c < 0 || c >= n {
				return DataError{fmt.Sprintf("node %d: connection %d out of range [0, %d)", i, c, n)}
			}
		}
	}

	for _, cw := range st.Classes {
		if len(cw.Weights) != n {
			return DataError{fmt.Sprintf("class %q: %d weights for %d nodes", cw.Label, len(cw.Weights), n)}
		} else if cw.InputWidth != st.InputWidth {
			return DataError{fmt.Sprintf("class %q: input width %d does not match network input width %d",
				cw.Label, cw.InputWidth, st.InputWidth)}
		}
	}

	return nil
}

// FromState creates a Network from a copy of st. opts is only consulted for ShuffleData, and
// src is used for Reroll and shuffling.
func FromState(st *State, opts BuildOptions, src rng.Source) (*Network, error) {
	if st == nil {
		return nil, NilArgError{"State"}
	} else if src == nil {
		return nil, NilArgError{"rng.Source"}
	}

	if err := st.Validate(); err != nil {
		return nil, err
	}

	return &Network{
		nodes:      copyNodes(st.Nodes),
		classes:    copyClasses(st.Classes),
		inputWidth: st.InputWidth,
		opts:       opts,
		rng:        src,
		logger:     zap.NewNop(),
	}, nil
}

// Restore replaces the Network's Nodes and ClassWeights with a copy of those in st. If st is not
// valid, the Network is unchanged and the error is returned.
func (net *Network) Restore(st *State) error {
	if st == nil {
		return NilArgError{"State"}
	}

	if err := st.Validate(); err != nil {
		return err
	}

	net.nodes = copyNodes(st.Nodes)
	net.classes = copyClasses(st.Classes)
	net.inputWidth = st.InputWidth
	return nil
}
