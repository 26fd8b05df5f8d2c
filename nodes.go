package dynet

import (
	"fmt"
)

// String offers a short description of the Node without printing all of its connections. Input
// Nodes are printed as:
//	<input, value: %g>
// and all others as:
//	<value: %g, threshold: %g, connections: %d>
func (n Node) String() string {
	if n.IsInput {
		return fmt.Sprintf("<input, value: %g>", n.Value)
	}

	return fmt.Sprintf("<value: %g, threshold: %g, connections: %d>", n.Value, n.Threshold, len(n.Connections))
}

// Active returns whether the Node's Value is at or above its Threshold. Input Nodes are always
// active.
func (n Node) Active() bool {
	return n.IsInput || n.Value >= n.Threshold
}

// Output returns the value of the Node as seen by its consumers: its Value if Active, otherwise 0.
func (n Node) Output() float64 {
	if !n.Active() {
		return 0
	}

	return n.Value
}

// NumConnections returns the number of connections of the Node. Repeated connections are counted
// each time they appear.
func (n Node) NumConnections() int {
	return len(n.Connections)
}
