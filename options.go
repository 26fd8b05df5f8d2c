package dynet

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// BuildOptions determines how a Network is constructed. The total number of Nodes is picked
// from [MinTotalNodes, MaxTotalNodes] and then increased by the width of the inputs.
type BuildOptions struct {
	MinNodeConnections int `yaml:"minNodeConnections" validate:"min=1"`
	MaxNodeConnections int `yaml:"maxNodeConnections" validate:"gtefield=MinNodeConnections"`

	MinTotalNodes int `yaml:"minTotalNodes" validate:"min=1"`
	MaxTotalNodes int `yaml:"maxTotalNodes" validate:"gtefield=MinTotalNodes"`

	// Shuffle the training data before each epoch
	ShuffleData bool `yaml:"shuffleData"`

	// Seed generators from an external entropy source instead of the clock. This is honored by
	// the callers that create generators (see package search), not by New, which is always
	// given its generator.
	UseExternalEntropy bool `yaml:"useExternalEntropy"`
}

// DefaultBuildOptions returns the options used when none are given.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		MinNodeConnections: 2,
		MaxNodeConnections: 7,
		MinTotalNodes:      72,
		MaxTotalNodes:      256,
		ShuffleData:        true,
		UseExternalEntropy: false,
	}
}

// Validate returns a ConfigError describing every bound that is out of range, or nil.
func (o BuildOptions) Validate() error {
	err := validate.Struct(o)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return ConfigError{err.Error()}
	}

	msgs := make([]string, len(verrs))
	for i, e := range verrs {
		msgs[i] = formatFieldError(e)
	}

	return ConfigError{strings.Join(msgs, "; ")}
}

func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "min":
		return fmt.Sprintf("%s must be at least %s (%v)", e.Field(), e.Param(), e.Value())
	case "gtefield":
		return fmt.Sprintf("%s must not be less than %s (%v)", e.Field(), e.Param(), e.Value())
	default:
		return fmt.Sprintf("%s is invalid (%v)", e.Field(), e.Value())
	}
}
