package dynet

// Evaluate computes the value of every non-input Node in a single pass and returns the values
// as seen by the scorer.
//
// The returned slice starts as a copy of each Node's Value. Nodes are then visited from the
// last down to inputWidth; each non-input Node with connections has its Value set to the mean
// of the returned slice at its connections. The same slice is updated as the pass goes, so a
// connection to a higher index sees the value from this pass, while a connection to a lower
// index sees the value from before it.
//
// If a Node's new Value is below its Threshold, its entry in the returned slice is 0. The Node's
// Value itself is left as computed, so the next pass starts from it.
//
// Evaluate assumes every connection is a valid index into nodes; State.Validate checks this.
func Evaluate(nodes []Node, inputWidth int) []float64 {
	if inputWidth < 0 {
		inputWidth = 0
	}

	values := make([]float64, len(nodes))
	for i := range nodes {
		values[i] = nodes[i].Value
	}

	for i := len(nodes) - 1; i >= inputWidth; i-- {
		n := &nodes[i]
		if n.IsInput || len(n.Connections) == 0 {
			continue
		}

		var total float64
		for _, c := range n.Connections {
			total += values[c]
		}

		n.Value = total / float64(len(n.Connections))
		values[i] = n.Output()
	}

	return values
}

// Seed sets the values of the input Nodes to the given inputs. Values past the last input Node
// are ignored, so computed Nodes are never overwritten. Seed does not change which Nodes are
// inputs.
func (net *Network) Seed(inputs []float64) {
	for i := 0; i < len(inputs) && i < net.inputWidth; i++ {
		net.nodes[i].Value = inputs[i]
	}
}

// Run seeds the Network with the Sample's values, evaluates it, and returns the
// highest-scoring class. The Sample's Label is not used. Values beyond the Network's inputs are
// ignored; Train skips such samples instead.
func (net *Network) Run(s *Sample) Output {
	net.Seed(s.Values())
	values := Evaluate(net.nodes, net.inputWidth)
	return Best(net.Scores(values))
}

// Predict is Run for an unlabeled raw input, normalized to [0, 1].
func (net *Network) Predict(raw []byte) Output {
	return net.Run(&Sample{Raw: raw})
}
