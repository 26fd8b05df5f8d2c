// Command colors writes example training data: RGB triples labeled with the name of the
// nearest basic color.
//
//	colors -n 2000 -o colors.TrainData -test colors.TestData
package main

import (
	"flag"
	"fmt"
	"os"

	dn "github.com/sharnoff/dynet"
	"github.com/sharnoff/dynet/rng"
)

type color struct {
	name    string
	r, g, b int
}

var palette = []color{
	{"red", 220, 20, 30},
	{"green", 30, 180, 40},
	{"blue", 20, 40, 210},
	{"yellow", 235, 220, 30},
	{"purple", 130, 30, 160},
	{"orange", 245, 140, 20},
	{"black", 15, 15, 15},
	{"white", 240, 240, 240},
}

func nearest(r, g, b int) string {
	best, bestDist := "", -1
	for _, c := range palette {
		dr, dg, db := r-c.r, g-c.g, b-c.b
		d := dr*dr + dg*dg + db*db
		if bestDist < 0 || d < bestDist {
			best, bestDist = c.name, d
		}
	}

	return best
}

// generate picks a palette color and jitters each channel by up to spread, labeling the
// result with whichever color it ended up nearest to
func generate(n, spread int, src rng.Source) []*dn.Sample {
	samples := make([]*dn.Sample, n)
	for i := range samples {
		c := palette[src.Intn(len(palette))]

		var raw [3]byte
		for ch, v := range []int{c.r, c.g, c.b} {
			v = rng.Between(src, v-spread, v+spread)
			if v < 0 {
				v = 0
			} else if v > 255 {
				v = 255
			}
			raw[ch] = byte(v)
		}

		samples[i] = &dn.Sample{
			Label: nearest(int(raw[0]), int(raw[1]), int(raw[2])),
			Raw:   raw[:],
		}
	}

	return samples
}

func main() {
	n := flag.Int("n", 1000, "number of training samples")
	spread := flag.Int("spread", 40, "maximum change to each channel")
	out := flag.String("o", "colors.TrainData", "training data output file")
	testOut := flag.String("test", "", "test data output file (optional)")
	testN := flag.Int("test-n", 200, "number of test samples")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	if *n < 1 || *spread < 0 {
		fmt.Fprintln(os.Stderr, "n must be positive and spread must not be negative")
		os.Exit(2)
	}

	src := rng.New(*seed)

	if err := dn.SaveSamples(*out, generate(*n, *spread, src)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d samples to %s\n", *n, *out)

	if *testOut != "" && *testN > 0 {
		if err := dn.SaveSamples(*testOut, generate(*testN, *spread, src)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %d samples to %s\n", *testN, *testOut)
	}
}
