package dynet

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// Network state files are little-endian:
//
//	"DYNT" uint16(version) uint32(input width) uint32(node count)
//	per node:  uint64(value bits) uint64(threshold bits) byte(flags) uint32(count) count*int32
//	uint32(class count)
//	per class: uint16(label length) label uint32(input width) byte(flags) uint32(count) count*uint64
//
// Float values are stored as their exact bit patterns. The flags record whether a node is an
// input and whether its slices were nil, so that loading gives back an identical State.
const (
	stateMagic   string = "DYNT"
	stateVersion uint16 = 1

	flagInput  byte = 1 << 0
	flagNotNil byte = 1 << 1

	// the initial capacity for slices read from a file, regardless of the stated length
	maxPrealloc uint32 = 1 << 12
)

var order = binary.LittleEndian

// stateWriter keeps the first error, so that encoding can be written without checking each
// call.
type stateWriter struct {
	w   io.Writer
	n   int64
	err error
	buf [8]byte
}

func (sw *stateWriter) write(b []byte) {
	if sw.err != nil {
		return
	}

	n, err := sw.w.Write(b)
	sw.n += int64(n)
	sw.err = err
}

func (sw *stateWriter) putByte(b byte) {
	sw.buf[0] = b
	sw.write(sw.buf[:1])
}

func (sw *stateWriter) putUint16(v uint16) {
	order.PutUint16(sw.buf[:2], v)
	sw.write(sw.buf[:2])
}

func (sw *stateWriter) putUint32(v uint32) {
	order.PutUint32(sw.buf[:4], v)
	sw.write(sw.buf[:4])
}

func (sw *stateWriter) putFloat64(f float64) {
	order.PutUint64(sw.buf[:8], math.Float64bits(f))
	sw.write(sw.buf[:8])
}

// WriteTo writes the State to w in binary form, satisfying io.WriterTo. The State is not
// validated first. Labels longer than 65535 bytes give a DataError before anything is written.
func (st *State) WriteTo(w io.Writer) (int64, error) {
	for _, cw := range st.Classes {
		if len(cw.Label) > math.MaxUint16 {
			return 0, DataError{"class label too long to save"}
		}
	}

	sw := &stateWriter{w: w}

	sw.write([]byte(stateMagic))
	sw.putUint16(stateVersion)
	sw.putUint32(uint32(st.InputWidth))
	sw.putUint32(uint32(len(st.Nodes)))

	for _, n := range st.Nodes {
		sw.putFloat64(n.Value)
		sw.putFloat64(n.Threshold)

		var flags byte
		if n.IsInput {
			flags |= flagInput
		}
		if n.Connections != nil {
			flags |= flagNotNil
		}
		sw.putByte(flags)

		sw.putUint32(uint32(len(n.Connections)))
		for _, c := range n.Connections {
			sw.putUint32(uint32(int32(c)))
		}
	}

	sw.putUint32(uint32(len(st.Classes)))
	for _, cw := range st.Classes {
		sw.putUint16(uint16(len(cw.Label)))
		sw.write([]byte(cw.Label))
		sw.putUint32(uint32(cw.InputWidth))

		var flags byte
		if cw.Weights != nil {
			flags |= flagNotNil
		}
		sw.putByte(flags)

		sw.putUint32(uint32(len(cw.Weights)))
		for _, f := range cw.Weights {
			sw.putFloat64(f)
		}
	}

	if sw.err != nil {
		return sw.n, IOError{"write", "", sw.err}
	}

	return sw.n, nil
}

type stateReader struct {
	r   io.Reader
	err error
	buf [8]byte
}

func (sr *stateReader) read(b []byte) {
	if sr.err != nil {
		return
	}

	_, sr.err = io.ReadFull(sr.r, b)
}

func (sr *stateReader) getByte() byte {
	sr.read(sr.buf[:1])
	return sr.buf[0]
}

func (sr *stateReader) getUint16() uint16 {
	sr.read(sr.buf[:2])
	return order.Uint16(sr.buf[:2])
}

func (sr *stateReader) getUint32() uint32 {
	sr.read(sr.buf[:4])
	return order.Uint32(sr.buf[:4])
}

func (sr *stateReader) getFloat64() float64 {
	sr.read(sr.buf[:8])
	return math.Float64frombits(order.Uint64(sr.buf[:8]))
}

// failed converts the reader's error, if any, into a DataError (for truncated input) or an
// IOError.
func (sr *stateReader) failed() error {
	switch sr.err {
	case nil:
		return nil
	case io.EOF, io.ErrUnexpectedEOF:
		return DataError{"network state is truncated"}
	default:
		return IOError{"read", "", sr.err}
	}
}

func prealloc(n uint32) uint32 {
	if n > maxPrealloc {
		return maxPrealloc
	}
	return n
}

// ReadState reads a State written by WriteTo. The State is validated before it is returned;
// malformed or truncated input gives a DataError.
func ReadState(r io.Reader) (*State, error) {
	sr := &stateReader{r: r}

	var magic [4]byte
	sr.read(magic[:])
	version := sr.getUint16()
	if err := sr.failed(); err != nil {
		return nil, err
	} else if string(magic[:]) != stateMagic {
		return nil, DataError{"not a network state file"}
	} else if version != stateVersion {
		return nil, DataError{"unsupported network state version " + strconv.Itoa(int(version))}
	}

	st := new(State)
	st.InputWidth = int(sr.getUint32())

	numNodes := sr.getUint32()
	st.Nodes = make([]Node, 0, prealloc(numNodes))
	for i := uint32(0); i < numNodes && sr.err == nil; i++ {
		var n Node
		n.Value = sr.getFloat64()
		n.Threshold = sr.getFloat64()

		flags := sr.getByte()
		n.IsInput = flags&flagInput != 0

		numConns := sr.getUint32()
		if flags&flagNotNil != 0 {
			n.Connections = make([]int, 0, prealloc(numConns))
		}
		for c := uint32(0); c < numConns && sr.err == nil; c++ {
			n.Connections = append(n.Connections, int(int32(sr.getUint32())))
		}

		st.Nodes = append(st.Nodes, n)
	}

	numClasses := sr.getUint32()
	st.Classes = make([]ClassWeights, 0, prealloc(numClasses))
	for i := uint32(0); i < numClasses && sr.err == nil; i++ {
		var cw ClassWeights

		label := make([]byte, sr.getUint16())
		sr.read(label)
		cw.Label = string(label)
		cw.InputWidth = int(sr.getUint32())

		flags := sr.getByte()
		numWeights := sr.getUint32()
		if flags&flagNotNil != 0 {
			cw.Weights = make([]float64, 0, prealloc(numWeights))
		}
		for w := uint32(0); w < numWeights && sr.err == nil; w++ {
			cw.Weights = append(cw.Weights, sr.getFloat64())
		}

		st.Classes = append(st.Classes, cw)
	}

	if err := sr.failed(); err != nil {
		return nil, err
	}

	if err := st.Validate(); err != nil {
		return nil, err
	}

	return st, nil
}

// Save writes the State to a file at path. If the file already exists, Save returns an error
// unless overwrite is true.
func (st *State) Save(path string, overwrite bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return IOError{"create", path, err}
	}

	bw := bufio.NewWriter(f)
	_, err = st.WriteTo(bw)
	if err == nil {
		if err = bw.Flush(); err != nil {
			err = IOError{"write", path, err}
		}
	}

	if cerr := f.Close(); err == nil && cerr != nil {
		err = IOError{"close", path, cerr}
	}

	if err != nil {
		if ioErr, ok := err.(IOError); ok && ioErr.Path == "" {
			ioErr.Path = path
			err = ioErr
		}

		os.Remove(path)
		return errors.Wrapf(err, "Can't save network state")
	}

	return nil
}

// LoadState reads a State from the file at path. See ReadState.
func LoadState(path string) (*State, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, IOError{"open", path, err}
	}
	defer f.Close()

	st, err := ReadState(bufio.NewReader(f))
	if err != nil {
		return nil, errors.Wrapf(err, "Can't load network state from %s", path)
	}

	return st, nil
}
