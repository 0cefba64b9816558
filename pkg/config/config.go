// Package config loads engine settings from a YAML file and SCOREGRAPH_*
// environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-scoregraph/pkg/logging"
	"github.com/dd0wney/cluso-scoregraph/pkg/scoregraph"
	"github.com/dd0wney/cluso-scoregraph/pkg/validation"
)

// Rule names accepted in configuration
const (
	RuleAverage = "average"
	RuleSum     = "sum"
	RuleDamped  = "damped"
)

// EnvPrefix prefixes every environment override, e.g. SCOREGRAPH_WORKERS.
const EnvPrefix = "SCOREGRAPH_"

// Config holds the settings for one engine instance.
type Config struct {
	Variant           string  `yaml:"variant" validate:"required,oneof=forest general"`
	Rule              string  `yaml:"rule" validate:"required,oneof=average sum damped"`
	MaxScore          float64 `yaml:"max_score"`
	Damping           float64 `yaml:"damping" validate:"gte=0,lte=1"`
	MaxIterations     int     `yaml:"max_iterations" validate:"min=1,max=1000000"`
	Tolerance         float64 `yaml:"tolerance" validate:"gt=0"`
	Workers           int     `yaml:"workers" validate:"min=1,max=1024"`
	ParallelThreshold int     `yaml:"parallel_threshold" validate:"min=1"`
	LogLevel          string  `yaml:"log_level" validate:"oneof=debug info warn error"`
	Metrics           bool    `yaml:"metrics"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Variant:           string(scoregraph.VariantForest),
		Rule:              RuleAverage,
		MaxScore:          scoregraph.DefaultMaxScore,
		Damping:           0.5,
		MaxIterations:     scoregraph.DefaultMaxIterations,
		Tolerance:         scoregraph.DefaultTolerance,
		Workers:           1,
		ParallelThreshold: scoregraph.DefaultParallelThreshold,
		LogLevel:          "warn",
	}
}

// Load layers configuration as flags > env > file > defaults. An empty path
// skips the file and a nil fs skips flags. The result is validated.
func Load(path string, fs *pflag.FlagSet) (Config, error) {
	cfg := Default()

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to open config: %w", err)
		}
		defer f.Close()
		if err := cfg.decode(f); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if fs != nil {
		if err := cfg.ApplyFlags(fs); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// RegisterFlags adds the command-line overrides to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("variant", d.Variant, "graph variant: forest or general")
	fs.String("rule", d.Rule, "scoring rule: average, sum or damped")
	fs.Float64("max-score", d.MaxScore, "clamp ceiling for the average and sum rules")
	fs.Float64("damping", d.Damping, "neighbor weight for the damped rule")
	fs.Int("max-iterations", d.MaxIterations, "recalculation pass limit")
	fs.Float64("tolerance", d.Tolerance, "largest score change treated as unchanged (must be > 0)")
	fs.Int("workers", d.Workers, "compute workers for general recalculation")
	fs.String("log-level", d.LogLevel, "debug, info, warn or error")
	fs.Bool("metrics", d.Metrics, "print prometheus metrics on exit")
}

// ApplyFlags copies every flag that was set explicitly on fs.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	var errs []error
	fs.Visit(func(f *pflag.Flag) {
		var err error
		switch f.Name {
		case "variant":
			c.Variant, err = fs.GetString(f.Name)
		case "rule":
			c.Rule, err = fs.GetString(f.Name)
		case "max-score":
			c.MaxScore, err = fs.GetFloat64(f.Name)
		case "damping":
			c.Damping, err = fs.GetFloat64(f.Name)
		case "max-iterations":
			c.MaxIterations, err = fs.GetInt(f.Name)
		case "tolerance":
			c.Tolerance, err = fs.GetFloat64(f.Name)
		case "workers":
			c.Workers, err = fs.GetInt(f.Name)
		case "log-level":
			c.LogLevel, err = fs.GetString(f.Name)
		case "metrics":
			c.Metrics, err = fs.GetBool(f.Name)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("--%s: %w", f.Name, err))
		}
	})
	return errors.Join(errs...)
}

// Parse overlays YAML from data onto the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := cfg.decode(bytes.NewReader(data)); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv overrides fields from SCOREGRAPH_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = strings.ToLower(strings.TrimSpace(v))
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := lookup(EnvPrefix + key); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = n
		}
	}
	float := func(key string, dst *float64) {
		if v, ok := lookup(EnvPrefix + key); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = f
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := lookup(EnvPrefix + key); ok {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = b
		}
	}

	str("VARIANT", &c.Variant)
	str("RULE", &c.Rule)
	float("MAX_SCORE", &c.MaxScore)
	float("DAMPING", &c.Damping)
	integer("MAX_ITERATIONS", &c.MaxIterations)
	float("TOLERANCE", &c.Tolerance)
	integer("WORKERS", &c.Workers)
	integer("PARALLEL_THRESHOLD", &c.ParallelThreshold)
	str("LOG_LEVEL", &c.LogLevel)
	boolean("METRICS", &c.Metrics)

	return errors.Join(errs...)
}

// Validate checks field tags and the rules that span fields.
func (c Config) Validate() error {
	if err := validation.Struct(&c); err != nil {
		return err
	}
	return validation.NewConfigValidator("Config").
		When(c.Rule != RuleDamped, func(cv *validation.ConfigValidator) {
			cv.Custom("MaxScore", func() error {
				if c.MaxScore <= 0 {
					return fmt.Errorf("must be positive for the %s rule, got %v", c.Rule, c.MaxScore)
				}
				return nil
			})
		}).
		Validate()
}

// ScoringRule builds the configured rule.
func (c Config) ScoringRule() scoregraph.ScoringRule {
	switch c.Rule {
	case RuleSum:
		return scoregraph.SumRule(c.MaxScore)
	case RuleDamped:
		return scoregraph.DampedRule(c.Damping)
	default:
		return scoregraph.AverageRule(c.MaxScore)
	}
}

// Level returns the configured log level.
func (c Config) Level() logging.Level {
	return logging.ParseLevel(c.LogLevel)
}

// EngineOptions maps the configuration onto engine options. recorder may be nil.
func (c Config) EngineOptions(logger logging.Logger, recorder scoregraph.Recorder) scoregraph.Options {
	return scoregraph.Options{
		Rule:              c.ScoringRule(),
		MaxIterations:     c.MaxIterations,
		Tolerance:         c.Tolerance,
		Workers:           c.Workers,
		ParallelThreshold: c.ParallelThreshold,
		Logger:            logger,
		Recorder:          recorder,
	}
}
