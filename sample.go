package dynet

import (
	"encoding/binary"
	"math"
)

// Sample is a single labeled input. Label may be empty when the Sample is only used for
// prediction.
type Sample struct {
	Label string

	// Raw is the input as it is stored on disk
	Raw []byte

	// Inputs are the values seeded into the Network. They are derived from Raw and are never
	// saved. If Inputs is nil when needed, Values fills it with Normalize.
	Inputs []float64
}

// Values returns the Sample's Inputs, first generating them from Raw with Normalize if they
// have not been set.
func (s *Sample) Values() []float64 {
	if s.Inputs == nil {
		s.Normalize()
	}

	return s.Inputs
}

// Width returns the number of values the Sample seeds into a Network, which is len(Values()).
// This differs from len(Raw) after DecodeFloat64s or Invert.
func (s *Sample) Width() int {
	return len(s.Values())
}

// Normalize sets Inputs to one value per raw byte, scaled so that 0 is 0.0 and 255 is 1.0.
func (s *Sample) Normalize() {
	s.Inputs = make([]float64, len(s.Raw))
	for i, b := range s.Raw {
		s.Inputs[i] = float64(b) / 255
	}
}

// DecodeFloat64s sets Inputs by reading Raw as consecutive little-endian float64 values. The
// length of Raw must be a multiple of 8; otherwise DecodeFloat64s returns a DataError and
// leaves Inputs unchanged.
func (s *Sample) DecodeFloat64s() error {
	if len(s.Raw)%8 != 0 {
		return DataError{"raw input length is not a multiple of 8"}
	}

	fs := make([]float64, len(s.Raw)/8)
	for i := range fs {
		fs[i] = math.Float64frombits(binary.LittleEndian.Uint64(s.Raw[i*8:]))
	}

	s.Inputs = fs
	return nil
}

// Invert appends the complement (1 - v) of every current input value to Inputs, doubling
// their number. Values are generated first if needed.
func (s *Sample) Invert() {
	vs := s.Values()
	inv := make([]float64, len(vs), 2*len(vs))
	copy(inv, vs)
	for _, v := range vs {
		inv = append(inv, 1-v)
	}

	s.Inputs = inv
}

// Quantize sets Raw from Inputs. If eightByte is true, each value is stored as 8 little-endian
// bytes, which DecodeFloat64s reverses exactly. Otherwise each value is scaled by 255 and
// clamped to a single byte, which Normalize reverses approximately.
func (s *Sample) Quantize(eightByte bool) {
	if eightByte {
		raw := make([]byte, 8*len(s.Inputs))
		for i, f := range s.Inputs {
			binary.LittleEndian.PutUint64(raw[i*8:], math.Float64bits(f))
		}
		s.Raw = raw
		return
	}

	raw := make([]byte, len(s.Inputs))
	for i, f := range s.Inputs {
		n := f * 255
		if n > 255 {
			n = 255
		} else if n < 0 || math.IsNaN(n) {
			n = 0
		}
		raw[i] = byte(n)
	}
	s.Raw = raw
}
