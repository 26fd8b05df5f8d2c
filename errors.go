package dynet

import (
	"strconv"
)

// Error is a wrapper for specific types of errors for which there is no additional information
// necessary. These errors are defined as global variables.
type Error struct{ string }

func (err Error) Error() string {
	return err.string
}

// These are the global errors that may be returned.
var (
	// ErrBelowCutoff is returned by Train when the running accuracy at a checkpoint falls below
	// the requested cutoff. The accompanying Result still holds the counts up to that point.
	ErrBelowCutoff = Error{"Failed to maintain accuracy above cutoff"}

	// ErrNoClasses is returned when a Network would be built without any labels to choose from.
	ErrNoClasses = Error{"No class labels in training data"}
)

// ConfigError documents invalid BuildOptions or graph bounds.
type ConfigError struct{ string }

func (err ConfigError) Error() string {
	return "invalid configuration: " + err.string
}

// DataError documents missing, empty, or malformed data, whether training samples or the
// contents of a file.
type DataError struct{ string }

func (err DataError) Error() string {
	return "bad data: " + err.string
}

// DimensionError is returned when no sample in an epoch fits within the Network's input nodes.
// Individual samples that are too wide are skipped, not reported.
type DimensionError struct {
	Nodes   int
	Inputs  int
	Widest  int
	Skipped int
}

func (err DimensionError) Error() string {
	return "no samples fit network: " + strconv.Itoa(err.Skipped) + " sample(s) skipped, widest input is " +
		strconv.Itoa(err.Widest) + " with " + strconv.Itoa(err.Inputs) + " inputs (" + strconv.Itoa(err.Nodes) + " nodes)"
}

// IOError wraps failures of the file boundary (opening, creating, reading, writing).
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (err IOError) Error() string {
	if err.Path == "" {
		return err.Op + ": " + err.Err.Error()
	}
	return err.Op + " " + err.Path + ": " + err.Err.Error()
}

// Cause allows github.com/pkg/errors.Cause to reach the underlying error.
func (err IOError) Cause() error {
	return err.Err
}

// Unwrap is the standard library equivalent of Cause.
func (err IOError) Unwrap() error {
	return err.Err
}

// NilArgError documents errors resulting from certain arguments provided to a function being nil.
type NilArgError struct{ string }

func (err NilArgError) Error() string {
	return err.string + " is nil"
}
