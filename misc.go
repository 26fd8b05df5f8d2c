package dynet

import (
	"sort"

	"github.com/sharnoff/dynet/rng"
)

// Shuffle randomly permutes list in place (Fisher-Yates), using src. Every permutation is
// equally likely, and the same seed always gives the same permutation.
func Shuffle[T any](list []T, src rng.Source) {
	for n := len(list) - 1; n > 0; n-- {
		k := src.Intn(n + 1)
		list[k], list[n] = list[n], list[k]
	}
}

// Labels returns the distinct labels of the samples, sorted. nil samples are ignored.
func Labels(samples []*Sample) []string {
	seen := make(map[string]bool)
	var labels []string
	for _, s := range samples {
		if s == nil || seen[s.Label] {
			continue
		}

		seen[s.Label] = true
		labels = append(labels, s.Label)
	}

	sort.Strings(labels)
	return labels
}

// Widest returns the largest Width among the samples, which is the number of input Nodes a
// Network built from them will have. Samples without Inputs are normalized first.
func Widest(samples []*Sample) int {
	w := 0
	for _, s := range samples {
		if s != nil && s.Width() > w {
			w = s.Width()
		}
	}

	return w
}
