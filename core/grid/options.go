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

package grid

import (
	"github.com/go-playground/validator/v10"

	"github.com/google/tabula/core/logger"
	"github.com/google/tabula/core/pager"
)

// Options are the grid wide display options.
type Options struct {
	// Name identifies the grid in logs and metrics
	Name string `koanf:"name" validate:"required"`
	// MaxRows caps the rows of a single render, whatever the pager or the
	// request asks for
	MaxRows          int    `koanf:"max_rows" validate:"gte=1"`
	NoRecordsMessage string `koanf:"no_records_message"`
	DisplayHeader    bool   `koanf:"display_header"`
	// Template is the name of the template rendering the grid
	Template string `koanf:"template" validate:"required"`
}

// DefaultOptions returns the options of a grid nobody configured.
func DefaultOptions() Options {
	return Options{
		Name:             "grid",
		MaxRows:          1000,
		NoRecordsMessage: "No records found",
		DisplayHeader:    true,
		Template:         "grid",
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// settings are the values Option functions act on.
type settings struct {
	options Options
	pager   pager.Config
	logger  logger.Logger
}

// Option configures a grid at construction time.
type Option func(*settings)

// WithOptions replaces the display options.
func WithOptions(o Options) Option {
	return func(s *settings) {
		s.options = o
	}
}

// WithPager replaces the pager configuration.
func WithPager(cfg pager.Config) Option {
	return func(s *settings) {
		s.pager = cfg
	}
}

// WithLogger sets the logger render decisions are written to.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}
