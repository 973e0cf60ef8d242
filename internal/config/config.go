// Package config holds the compiler's tunables and loads them from
// defaults, a TOML file and the environment, in that order.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/mattn/go-isatty"
	"github.com/naoina/toml"
	"github.com/xyproto/env/v2"
)

// Colour modes for diagnostics.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Environment overrides.
const (
	EnvParallel = "WACC_PARALLEL"
	EnvWorkers  = "WACC_WORKERS"
	EnvColor    = "WACC_COLOR"
)

// Analysis tunes the semantic analyzer.
type Analysis struct {
	Parallel bool // check function bodies concurrently
	Workers  int  // bound on concurrent checks, 0 for none
}

// Codegen tunes the generated assembly.
type Codegen struct {
	EmitComments bool
}

// Diagnostics tunes how semantic errors are shown.
type Diagnostics struct {
	Color      string
	ShowSource bool
}

type Config struct {
	Analysis    Analysis
	Codegen     Codegen
	Diagnostics Diagnostics
}

// Defaults is the configuration used when nothing overrides it.
var Defaults = Config{
	Diagnostics: Diagnostics{
		Color:      ColorAuto,
		ShowSource: true,
	},
}

// These settings ensure that TOML keys use the same names as Go struct fields
// and that unknown keys are rejected.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

// Load decodes the TOML file over cfg.
func Load(file string, cfg *Config) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = Decode(f, cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

// Decode reads TOML from r over cfg.
func Decode(r io.Reader, cfg *Config) error {
	return tomlSettings.NewDecoder(bufio.NewReader(r)).Decode(cfg)
}

// ApplyEnv overrides cfg from the WACC_* variables that are set. The env
// cache is reloaded first so changes since the last call are seen.
func ApplyEnv(cfg *Config) {
	env.Load()
	if env.Has(EnvParallel) {
		cfg.Analysis.Parallel = env.Bool(EnvParallel)
	}
	if env.Has(EnvWorkers) {
		cfg.Analysis.Workers = env.Int(EnvWorkers, cfg.Analysis.Workers)
	}
	cfg.Diagnostics.Color = env.Str(EnvColor, cfg.Diagnostics.Color)
}

// Validate rejects values no component can act on.
func (c *Config) Validate() error {
	switch c.Diagnostics.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid colour mode %q (want %s, %s or %s)", c.Diagnostics.Color, ColorAuto, ColorAlways, ColorNever)
	}
	if c.Analysis.Workers < 0 {
		return fmt.Errorf("invalid worker count %d", c.Analysis.Workers)
	}
	return nil
}

// Resolve builds the effective configuration: defaults, then file (if not
// empty), then the environment.
func Resolve(file string) (Config, error) {
	cfg := Defaults
	if file != "" {
		if err := Load(file, &cfg); err != nil {
			return Config{}, err
		}
	}
	ApplyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Dump writes cfg as TOML.
func Dump(w io.Writer, cfg *Config) error {
	out, err := tomlSettings.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// ColorEnabled reports whether diagnostics written to f should be coloured.
// In auto mode that is whenever f is a terminal.
func (d Diagnostics) ColorEnabled(f *os.File) bool {
	switch d.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	return f != nil && isatty.IsTerminal(f.Fd())
}
