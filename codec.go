package dynet

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// Training data files have a 5 byte header followed by fixed-width records:
//
//	int32 (little-endian)   L, the number of raw input bytes per record
//	byte                    LB, the number of label bytes per record
//	records                 LB label bytes, right-padded with spaces, then L input bytes
const (
	headerSize int  = 5
	labelPad   byte = ' '

	maxLabelLen int = 255
)

// ReadSamples reads every record from r, which should contain the complete contents of a
// training data file. Labels have their trailing space padding removed.
//
// Malformed or truncated contents produce a DataError. Failures of r itself are IOErrors.
func ReadSamples(r io.Reader) ([]*Sample, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, IOError{"read", "", err}
	}

	return parseSamples(content)
}

func parseSamples(content []byte) ([]*Sample, error) {
	if len(content) < headerSize {
		return nil, DataError{"truncated header"}
	}

	dataLen := int64(int32(binary.LittleEndian.Uint32(content[0:4])))
	labelLen := int64(content[4])
	body := content[headerSize:]

	if dataLen < 0 {
		return nil, DataError{"negative input length in header"}
	} else if len(body) == 0 {
		return []*Sample{}, nil
	} else if dataLen == 0 || labelLen == 0 {
		return nil, DataError{"zero-length header field with records present"}
	}

	recLen := dataLen + labelLen
	if int64(len(body))%recLen != 0 {
		return nil, DataError{"trailing partial record (file is truncated or has the wrong header)"}
	}

	samples := make([]*Sample, 0, int64(len(body))/recLen)
	for off := int64(0); off < int64(len(body)); off += recLen {
		rec := body[off : off+recLen]

		raw := make([]byte, dataLen)
		copy(raw, rec[labelLen:])

		samples = append(samples, &Sample{
			Label: trimPadding(rec[:labelLen]),
			Raw:   raw,
		})
	}

	return samples, nil
}

// trimPadding removes the padding bytes contiguous with the end of the label only
func trimPadding(label []byte) string {
	end := len(label)
	for end > 0 && label[end-1] == labelPad {
		end--
	}

	return string(label[:end])
}

// WriteSamples writes samples to w in the training data format. The input length is that of
// the longest Raw and the label length is that of the longest Label (in bytes); shorter labels
// are padded with spaces and shorter inputs with zeros.
//
// Nothing is written if the samples are invalid: no samples, a label longer than 255 bytes,
// or an empty input length or label length all give a DataError.
func WriteSamples(w io.Writer, samples []*Sample) error {
	if len(samples) == 0 {
		return DataError{"no samples to write"}
	}

	var dataLen, labelLen int
	for i, s := range samples {
		if s == nil {
			return NilArgError{"sample " + strconv.Itoa(i)}
		}

		if len(s.Raw) > dataLen {
			dataLen = len(s.Raw)
		}
		if len(s.Label) > labelLen {
			labelLen = len(s.Label)
		}
	}

	if labelLen > maxLabelLen {
		return DataError{"label longer than " + strconv.Itoa(maxLabelLen) + " bytes"}
	} else if dataLen == 0 {
		return DataError{"all samples have empty inputs"}
	} else if labelLen == 0 {
		return DataError{"all samples have empty labels"}
	} else if int64(dataLen) > int64(^uint32(0)>>1) {
		return DataError{"input too long for header"}
	}

	bw := bufio.NewWriter(w)

	var header [headerSize]byte
	binary.LittleEndian.PutUint32(header[:4], uint32(int32(dataLen)))
	header[4] = byte(labelLen)
	bw.Write(header[:])

	rec := make([]byte, labelLen+dataLen)
	for _, s := range samples {
		n := copy(rec, s.Label)
		for i := n; i < labelLen; i++ {
			rec[i] = labelPad
		}

		n = copy(rec[labelLen:], s.Raw)
		for i := labelLen + n; i < len(rec); i++ {
			rec[i] = 0
		}

		bw.Write(rec)
	}

	// bufio.Writer keeps the first error; Flush reports it
	if err := bw.Flush(); err != nil {
		return IOError{"write", "", err}
	}

	return nil
}

// LoadSamples reads a training data file from disk. See ReadSamples.
func LoadSamples(path string) ([]*Sample, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, IOError{"open", path, err}
	}

	samples, err := parseSamples(content)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't load samples from %s", path)
	}

	return samples, nil
}

// SaveSamples writes samples to a new (or truncated) file at path. See WriteSamples.
func SaveSamples(path string, samples []*Sample) error {
	var buf bytes.Buffer
	if err := WriteSamples(&buf, samples); err != nil {
		return errors.Wrapf(err, "Can't save samples to %s", path)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return IOError{"write", path, err}
	}

	return nil
}
