/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Tabula Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package config loads the application configuration from defaults, an
// optional YAML file and TABULA_ environment variables, in that order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"

	"github.com/google/tabula/core/grid"
	"github.com/google/tabula/core/logger"
	"github.com/google/tabula/core/pager"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "TABULA_"

// Config is the application configuration.
type Config struct {
	Grid   GridDefaults `koanf:"grid"`
	Server ServerConfig `koanf:"server"`
	Log    LogConfig    `koanf:"log"`
}

// GridDefaults are the options every grid starts from.
type GridDefaults struct {
	MaxRows          int          `koanf:"max_rows" validate:"gte=1"`
	NoRecordsMessage string       `koanf:"no_records_message"`
	DisplayHeader    bool         `koanf:"display_header"`
	Template         string       `koanf:"template" validate:"required"`
	Pager            pager.Config `koanf:"pager"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr              string        `koanf:"addr" validate:"required"`
	MetricsPath       string        `koanf:"metrics_path" validate:"required,startswith=/"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout" validate:"gt=0"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level      string `koanf:"level" validate:"oneof=debug info warn error disabled"`
	JSON       bool   `koanf:"json"`
	TimeFormat string `koanf:"time_format"`
}

// Default returns the built in configuration.
func Default() *Config {
	opts := grid.DefaultOptions()
	return &Config{
		Grid: GridDefaults{
			MaxRows:          opts.MaxRows,
			NoRecordsMessage: opts.NoRecordsMessage,
			DisplayHeader:    opts.DisplayHeader,
			Template:         opts.Template,
			Pager:            pager.DefaultConfig(),
		},
		Server: ServerConfig{
			Addr:              "localhost:8080",
			MetricsPath:       "/metrics",
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Log: LogConfig{
			Level:      string(logger.InfoLevel),
			TimeFormat: "15:04:05",
		},
	}
}

// Options returns the grid options for a grid called name.
func (d GridDefaults) Options(name string) []grid.Option {
	p := d.Pager
	p.RowsPerPageOptions = append([]int(nil), d.Pager.RowsPerPageOptions...)
	return []grid.Option{
		grid.WithOptions(grid.Options{
			Name:             name,
			MaxRows:          d.MaxRows,
			NoRecordsMessage: d.NoRecordsMessage,
			DisplayHeader:    d.DisplayHeader,
			Template:         d.Template,
		}),
		grid.WithPager(p),
	}
}

// LoggerConfig converts the log section for logger.NewLogger.
func (c LogConfig) LoggerConfig(w io.Writer) *logger.Config {
	return &logger.Config{
		Level:      logger.LogLevel(c.Level),
		Output:     w,
		JSON:       c.JSON,
		TimeFormat: c.TimeFormat,
	}
}

// Loader builds a Config from its sources.
type Loader struct {
	path    string
	environ func() []string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFile reads a YAML file on top of the defaults. A missing file is an
// error.
func WithFile(path string) LoaderOption {
	return func(l *Loader) { l.path = path }
}

// WithEnviron replaces os.Environ as the source of environment variables.
func WithEnviron(fn func() []string) LoaderOption {
	return func(l *Loader) { l.environ = fn }
}

// NewLoader returns a loader reading the process environment.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{environ: os.Environ}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load is a shorthand for NewLoader(opts...).Load().
func Load(opts ...LoaderOption) (*Config, error) {
	return NewLoader(opts...).Load()
}

// Load layers the sources and returns the validated configuration.
func (l *Loader) Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if l.path != "" {
		data, err := readYAML(l.path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawMap(data), nil); err != nil {
			return nil, fmt.Errorf("failed to apply %s: %w", l.path, err)
		}
	}

	envToPath := envMappings(k.Keys())
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return envToPath[key], value
		},
		EnvironFunc: l.environ,
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &cfg,
			TagName:          "koanf",
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks cfg against its constraints.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("configuration cannot be nil")
	}
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// envMappings maps TABULA_GRID_PAGER_ROWS_PER_PAGE style names to the koanf
// paths known from the defaults. Unknown variables map to "" and are skipped.
func envMappings(keys []string) map[string]string {
	m := make(map[string]string, len(keys))
	for _, key := range keys {
		name := EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		m[name] = key
	}
	return m
}

func readYAML(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML file: %w", err)
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse YAML file %s: %w", path, err)
	}
	return filterNilValues(m), nil
}

// filterNilValues drops null YAML values so they do not clear defaults.
func filterNilValues(m map[string]any) map[string]any {
	result := make(map[string]any, len(m))
	for k, v := range m {
		if v == nil {
			continue
		}
		if nested, ok := v.(map[string]any); ok {
			if filtered := filterNilValues(nested); len(filtered) > 0 {
				result[k] = filtered
			}
			continue
		}
		result[k] = v
	}
	return result
}

// rawMap adapts an already parsed map to koanf.Provider.
type rawMap map[string]any

func (r rawMap) Read() (map[string]any, error) {
	return r, nil
}

func (r rawMap) ReadBytes() ([]byte, error) {
	return nil, errors.New("rawMap does not support ReadBytes")
}
