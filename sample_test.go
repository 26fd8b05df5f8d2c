package dynet

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleValues(t *testing.T) {
	s := labeled("x", 0, 51, 255)
	assert.Equal(t, []float64{0, 0.2, 1}, s.Values())

	s.Inputs = []float64{0.5}
	assert.Equal(t, []float64{0.5}, s.Values())

	empty := &Sample{}
	assert.Empty(t, empty.Values())
}

func TestSampleFloat64s(t *testing.T) {
	s := &Sample{Inputs: []float64{0.125, -3, math.Inf(1), math.Copysign(0, -1)}}
	s.Quantize(true)
	require.Len(t, s.Raw, 32)

	want := s.Inputs
	s.Inputs = nil
	require.NoError(t, s.DecodeFloat64s())
	require.Len(t, s.Inputs, len(want))
	for i := range want {
		assert.Equal(t, math.Float64bits(want[i]), math.Float64bits(s.Inputs[i]))
	}

	bad := &Sample{Raw: make([]byte, 9), Inputs: []float64{1}}
	assert.IsType(t, DataError{}, bad.DecodeFloat64s())
	assert.Equal(t, []float64{1}, bad.Inputs)
}

func TestSampleInvert(t *testing.T) {
	s := labeled("x", 0, 255)
	s.Invert()
	assert.Equal(t, []float64{0, 1, 1, 0}, s.Inputs)
	assert.Equal(t, []byte{0, 255}, s.Raw)
}

func TestSampleQuantize(t *testing.T) {
	s := &Sample{Inputs: []float64{0, 0.2, 1, 2, -1, math.NaN()}}
	s.Quantize(false)
	assert.Equal(t, []byte{0, 51, 255, 255, 0, 0}, s.Raw)
}
