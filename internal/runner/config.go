package runner

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/utkarsh5026/cpubench/internal/bench"
	"github.com/utkarsh5026/cpubench/internal/datagen"
)

// DefaultWorkload is used when Options.Workload is empty.
const DefaultWorkload = "event"

const (
	maxDerivedWarmup   = 5
	warmupDivisor      = 500
	defaultThreadCount = 1
)

// ErrInvalidConfig wraps every option that fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Options are the user supplied run parameters. Nil pointers and empty
// strings mean "use the default"; an explicit zero is validated like any
// other value.
type Options struct {
	Workload         string        `yaml:"workload"`
	DataSize         *int          `yaml:"dataSize"`
	Iterations       *int          `yaml:"iterations"`
	Threads          *int          `yaml:"threads"`
	WarmupIterations *int          `yaml:"warmupIterations"`
	NoWarmup         bool          `yaml:"noWarmup"`
	Seed             *int64        `yaml:"seed"`
	Pin              bool          `yaml:"pin"`
	Heartbeat        time.Duration `yaml:"heartbeat"`
}

// Config is a fully resolved and validated run configuration.
type Config struct {
	Spec       bench.Spec    `validate:"-"`
	Workload   string        `flag:"workload" validate:"required"`
	DataSize   int           `flag:"dataSize" validate:"gt=0"`
	Iterations int           `flag:"iterations" validate:"gt=0"`
	Threads    int           `flag:"threads" validate:"gt=0"`
	Warmup     int           `flag:"warmupIterations" validate:"gte=0"`
	Seed       int64         `flag:"seed"`
	Pin        bool          `flag:"pin"`
	Heartbeat  time.Duration `flag:"heartbeat" validate:"gte=0"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("flag"); name != "" {
			return name
		}
		return fld.Name
	})
	return v
}

// WarmupIterations derives the warmup length: 0 when disabled, the explicit
// override when given, otherwise min(5, max(1, iterations/500)).
func WarmupIterations(iterations int, override *int, disabled bool) int {
	if disabled {
		return 0
	}
	if override != nil {
		return *override
	}
	return min(maxDerivedWarmup, max(1, iterations/warmupDivisor))
}

// Resolve looks up the workload, fills in its defaults and validates the
// result. Unknown workloads yield bench.ErrUnknownWorkload; everything else
// that is rejected wraps ErrInvalidConfig.
func Resolve(opts Options, reg *bench.Registry) (Config, error) {
	name := strings.TrimSpace(opts.Workload)
	if name == "" {
		name = DefaultWorkload
	}

	spec, err := reg.Lookup(name)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Spec:       spec,
		Workload:   spec.Name,
		DataSize:   valueOr(opts.DataSize, spec.DefaultDataSize),
		Iterations: valueOr(opts.Iterations, spec.DefaultIterations),
		Threads:    valueOr(opts.Threads, defaultThreadCount),
		Seed:       datagen.DefaultSeed,
		Pin:        opts.Pin,
		Heartbeat:  opts.Heartbeat,
	}
	if opts.Seed != nil {
		cfg.Seed = *opts.Seed
	}
	cfg.Warmup = WarmupIterations(cfg.Iterations, opts.WarmupIterations, opts.NoWarmup)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func valueOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

// Validate checks the numeric bounds of a Config.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gt":
		return fmt.Sprintf("%s must be greater than %s, got %v", fe.Field(), fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("%s must be at least %s, got %v", fe.Field(), fe.Param(), fe.Value())
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	default:
		return fmt.Sprintf("%s failed %q validation", fe.Field(), fe.Tag())
	}
}

// LoadOptionsFile reads run options from a YAML file. Unknown keys are
// rejected so that typos do not silently fall back to defaults.
func LoadOptionsFile(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return ParseOptions(data)
}

// ParseOptions decodes YAML run options.
func ParseOptions(data []byte) (Options, error) {
	var opts Options
	if len(bytes.TrimSpace(data)) == 0 {
		return opts, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil {
		return Options{}, fmt.Errorf("%w: parse config: %v", ErrInvalidConfig, err)
	}
	return opts, nil
}
