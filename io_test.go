package dynet

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/sharnoff/dynet/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateRoundTrip(t *testing.T) {
	samples := []*Sample{labeled("cat", 1, 2, 3, 4), labeled("dog", 5, 6, 7, 8)}
	net, err := New(samples, DefaultBuildOptions(), rng.New(21))
	require.NoError(t, err)
	net.Predict([]byte{10, 20, 30, 40})

	st := net.State()

	var buf bytes.Buffer
	n, err := st.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	got, err := ReadState(&buf)
	require.NoError(t, err)
	assert.Equal(t, st, got)
}

func TestStateRoundTripExactBits(t *testing.T) {
	st := fixedState()
	st.Nodes[0].Value = math.Copysign(0, -1)
	st.Nodes[1].Value = math.Inf(-1)
	st.Nodes[2].Value = math.NaN()
	st.Nodes[3].Threshold = math.Nextafter(1, 0)
	st.Classes[0].Weights[4] = math.SmallestNonzeroFloat64

	var buf bytes.Buffer
	_, err := st.WriteTo(&buf)
	require.NoError(t, err)

	got, err := ReadState(&buf)
	require.NoError(t, err)
	require.Len(t, got.Nodes, len(st.Nodes))

	for i := range st.Nodes {
		assert.Equal(t, math.Float64bits(st.Nodes[i].Value), math.Float64bits(got.Nodes[i].Value), "node %d", i)
		assert.Equal(t, math.Float64bits(st.Nodes[i].Threshold), math.Float64bits(got.Nodes[i].Threshold), "node %d", i)
		assert.Equal(t, st.Nodes[i].IsInput, got.Nodes[i].IsInput)
		assert.Equal(t, st.Nodes[i].Connections, got.Nodes[i].Connections)
	}
	assert.Equal(t, st.Classes, got.Classes)
}

func TestStateNilSlices(t *testing.T) {
	st := fixedState()
	st.Nodes[3].Connections = []int{}

	var buf bytes.Buffer
	_, err := st.WriteTo(&buf)
	require.NoError(t, err)

	got, err := ReadState(&buf)
	require.NoError(t, err)
	assert.Nil(t, got.Nodes[0].Connections)
	assert.NotNil(t, got.Nodes[3].Connections)
	assert.Empty(t, got.Nodes[3].Connections)
}

func TestReadStateTruncated(t *testing.T) {
	var buf bytes.Buffer
	_, err := fixedState().WriteTo(&buf)
	require.NoError(t, err)
	full := buf.Bytes()

	for _, cut := range []int{0, 3, 5, 6, 10, 14, 30, len(full) / 2, len(full) - 1} {
		_, err := ReadState(bytes.NewReader(full[:cut]))
		assert.IsType(t, DataError{}, err, "cut at %d", cut)
	}
}

func TestReadStateBadHeader(t *testing.T) {
	var buf bytes.Buffer
	_, err := fixedState().WriteTo(&buf)
	require.NoError(t, err)

	wrongMagic := append([]byte(nil), buf.Bytes()...)
	copy(wrongMagic, "NOPE")
	_, err = ReadState(bytes.NewReader(wrongMagic))
	assert.IsType(t, DataError{}, err)

	wrongVersion := append([]byte(nil), buf.Bytes()...)
	wrongVersion[4] = 9
	_, err = ReadState(bytes.NewReader(wrongVersion))
	assert.IsType(t, DataError{}, err)
}

func TestReadStateInvalid(t *testing.T) {
	st := fixedState()
	st.Nodes[2].Connections[0] = 17

	var buf bytes.Buffer
	_, err := st.WriteTo(&buf)
	require.NoError(t, err)

	_, err = ReadState(&buf)
	assert.IsType(t, DataError{}, err)
}

func TestReadStateClassInputWidth(t *testing.T) {
	st := fixedState()
	st.Classes[0].InputWidth = 0

	var buf bytes.Buffer
	_, err := st.WriteTo(&buf)
	require.NoError(t, err)

	_, err = ReadState(&buf)
	assert.IsType(t, DataError{}, err)

	path := filepath.Join(t.TempDir(), "net.dynet")
	require.NoError(t, st.Save(path, false))
	_, err = LoadState(path)
	assert.IsType(t, DataError{}, errors.Cause(err))
}

func TestStateSaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "best.dynet")

	st := fixedState()
	require.NoError(t, st.Save(path, false))

	got, err := LoadState(path)
	require.NoError(t, err)
	assert.Equal(t, st, got)

	// refuses to overwrite unless asked
	err = st.Save(path, false)
	var ioErr IOError
	require.True(t, errors.As(err, &ioErr), "got %v", err)
	assert.Equal(t, path, ioErr.Path)

	st.Classes[0].Weights[2] = 0.5
	require.NoError(t, st.Save(path, true))
	got, err = LoadState(path)
	require.NoError(t, err)
	assert.Equal(t, 0.5, got.Classes[0].Weights[2])

	_, err = LoadState(filepath.Join(dir, "missing"))
	require.True(t, errors.As(err, &ioErr))
	assert.True(t, os.IsNotExist(ioErr.Err))
}

func TestStateSaveLongLabel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "long.dynet")

	st := fixedState()
	st.Classes[0].Label = string(make([]byte, math.MaxUint16+1))

	err := st.Save(path, false)
	assert.IsType(t, DataError{}, errors.Cause(err))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
