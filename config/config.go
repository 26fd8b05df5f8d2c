// Package config loads the settings of the dynet command from a YAML file and the environment.
//
// Values are taken, from lowest to highest priority, from Default, the YAML file (if any), and
// environment variables. The result is validated before it is returned.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	dn "github.com/sharnoff/dynet"
	"github.com/sharnoff/dynet/search"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the file
const (
	EnvSeed            = "DYNET_SEED"
	EnvData            = "DYNET_DATA"
	EnvOutput          = "DYNET_OUTPUT"
	EnvLogLevel        = "DYNET_LOG_LEVEL"
	EnvMetricsAddr     = "DYNET_METRICS_ADDR"
	EnvExternalEntropy = "DYNET_EXTERNAL_ENTROPY"
)

var validate = validator.New()

// Config is everything the dynet command needs for a run.
type Config struct {
	Build  dn.BuildOptions `yaml:"build"`
	Search search.Config   `yaml:"search"`

	// Seed for every generator in the run. Zero means pick one (see BuildOptions.UseExternalEntropy).
	Seed int64 `yaml:"seed"`

	Data   DataConfig   `yaml:"data"`
	Output OutputConfig `yaml:"output"`

	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// DataConfig names the training data files.
type DataConfig struct {
	Train string `yaml:"train" validate:"required"`

	// Optional; the training data is used if empty
	Test string `yaml:"test"`
}

// OutputConfig determines where the best network is saved.
type OutputConfig struct {
	Path      string `yaml:"path" validate:"required"`
	Overwrite bool   `yaml:"overwrite"`
}

// LogConfig sets up logging.
type LogConfig struct {
	Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// MetricsConfig enables the Prometheus endpoint.
type MetricsConfig struct {
	// Address to serve /metrics on; disabled if empty
	Addr      string `yaml:"addr" validate:"omitempty,hostname_port"`
	Namespace string `yaml:"namespace" validate:"required"`
}

// Default returns the Config used for anything not given in the file or environment.
func Default() *Config {
	return &Config{
		Build:  dn.DefaultBuildOptions(),
		Search: search.DefaultConfig(),
		Data: DataConfig{
			Train: "train.TrainData",
		},
		Output: OutputConfig{
			Path: "best.dynet",
		},
		Log: LogConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Namespace: "dynet",
		},
	}
}

// Load reads the YAML file at path over Default, applies the environment, and validates the
// result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "Can't read config %s", path)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "Can't parse config %s", path)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyEnv overrides fields with any of the Env* variables that are set. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvSeed); ok {
		seed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return errors.Wrapf(err, "Can't parse %s", EnvSeed)
		}
		c.Seed = seed
	}

	if v, ok := lookup(EnvData); ok {
		c.Data.Train = v
	}
	if v, ok := lookup(EnvOutput); ok {
		c.Output.Path = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.Log.Level = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup(EnvMetricsAddr); ok {
		c.Metrics.Addr = v
	}

	if v, ok := lookup(EnvExternalEntropy); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return errors.Wrapf(err, "Can't parse %s", EnvExternalEntropy)
		}
		c.Build.UseExternalEntropy = b
	}

	return nil
}

// Validate checks every section of the Config. Errors name each failing field.
func (c *Config) Validate() error {
	if err := c.Build.Validate(); err != nil {
		return errors.Wrapf(err, "Bad build options")
	}

	if err := validate.Struct(c); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return errors.Wrapf(err, "Can't validate config")
		}

		msgs := make([]string, len(verrs))
		for i, e := range verrs {
			msgs[i] = fmt.Sprintf("%s failed %q", e.Namespace(), e.Tag())
		}

		return errors.Errorf("Bad config: %s", strings.Join(msgs, "; "))
	}

	return nil
}
