package dynet

import (
	"go.uber.org/zap"
)

// SetLogger sets the logger used for debugging output during training. A nil logger disables
// logging, which is the default.
func (net *Network) SetLogger(l *zap.Logger) *Network {
	if l == nil {
		l = zap.NewNop()
	}

	net.logger = l
	return net
}

// Nodes returns a copy of the Nodes in the Network, such that Nodes()[n] is Node n. Changing the
// returned Nodes does not affect the Network. This is intended for read-only consumers, like
// visualizations.
func (net *Network) Nodes() []Node {
	return copyNodes(net.nodes)
}

// Classes returns a copy of the ClassWeights of the Network, sorted by label.
func (net *Network) Classes() []ClassWeights {
	return copyClasses(net.classes)
}

// Labels returns the labels the Network can choose between, sorted.
func (net *Network) Labels() []string {
	ls := make([]string, len(net.classes))
	for i := range net.classes {
		ls[i] = net.classes[i].Label
	}

	return ls
}

// Size returns the total number of Nodes in the Network, including inputs.
func (net *Network) Size() int {
	return len(net.nodes)
}

// InputSize returns the number of input Nodes.
func (net *Network) InputSize() int {
	return net.inputWidth
}

// Options returns the BuildOptions given when the Network was created.
func (net *Network) Options() BuildOptions {
	return net.opts
}
