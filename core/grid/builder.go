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
	"errors"
	"fmt"
	"slices"

	"github.com/google/tabula/core/columns"
	"github.com/google/tabula/core/css"
	"github.com/google/tabula/core/datasource"
	"github.com/google/tabula/core/decorate"
	"github.com/google/tabula/core/logger"
	"github.com/google/tabula/core/pager"
	"github.com/google/tabula/core/search"
	"github.com/google/tabula/core/sorting"
)

// ErrInvalidConfig wraps every configuration fault reported by Build.
var ErrInvalidConfig = errors.New("grid: invalid configuration")

// Builder collects the configuration of a grid. It is not safe for concurrent
// use; Build freezes it into a Grid that is.
type Builder[T any] struct {
	settings
	columns     *columns.Registry[T]
	searches    *search.Registry[T]
	rules       decorate.Rules[T]
	css         *css.Options
	defaultSort sorting.Spec[T]
}

// New creates a grid builder.
func New[T any](opts ...Option) *Builder[T] {
	b := &Builder[T]{
		settings: settings{
			options: DefaultOptions(),
			pager:   pager.DefaultConfig(),
			logger:  logger.Default(),
		},
		columns:  columns.NewRegistry[T](),
		searches: search.NewRegistry[T](),
		css:      css.NewOptions(),
	}
	for _, opt := range opts {
		opt(&b.settings)
	}
	return b
}

// AddColumn adds a column configured by fn.
func (b *Builder[T]) AddColumn(fn func(*columns.Builder[T])) *Builder[T] {
	b.columns.Add(fn)
	return b
}

// AddColumnFor adds a column bound to accessor, optionally sorted by key.
func (b *Builder[T]) AddColumnFor(name string, accessor func(T) any, key ...datasource.Key[T]) *Builder[T] {
	b.columns.AddFor(name, accessor, key...)
	return b
}

// AddColumnsFromModel adds the columns the row type describes through
// columns.Describer.
func (b *Builder[T]) AddColumnsFromModel() *Builder[T] {
	b.columns.AddFromDescriber()
	return b
}

// AddColumnsFromFields adds one column per field.
func (b *Builder[T]) AddColumnsFromFields(fields []columns.Field[T]) *Builder[T] {
	b.columns.AddFromModel(fields)
	return b
}

// OrderColumns sorts the columns added so far by their display order.
func (b *Builder[T]) OrderColumns() *Builder[T] {
	b.columns.OrderColumns()
	return b
}

// AddSearch adds a named search.
func (b *Builder[T]) AddSearch(name string, filter search.Filter[T]) *Builder[T] {
	b.searches.Add(name, filter)
	return b
}

// AddCSS configures the CSS of the table, header and rows.
func (b *Builder[T]) AddCSS(fn func(*css.Options)) *Builder[T] {
	fn(b.css)
	return b
}

// AddCSSClass adds classes to the table element.
func (b *Builder[T]) AddCSSClass(class string) *Builder[T] {
	return b.AddCSS(func(o *css.Options) { o.Table.AddClass(class) })
}

// AddCSSStyle adds inline style to the table element.
func (b *Builder[T]) AddCSSStyle(style string) *Builder[T] {
	return b.AddCSS(func(o *css.Options) { o.Table.AddStyle(style) })
}

// DefaultSortBy sets the sort applied to every render, after any column sort
// the request selects.
func (b *Builder[T]) DefaultSortBy(key datasource.Key[T], order ...sorting.Order) *Builder[T] {
	b.defaultSort = sorting.Spec[T]{Key: key}
	if len(order) > 0 {
		b.defaultSort.Order = order[0]
	}
	return b
}

// Sortable enables sorting on every column with a sort key that does not
// configure it explicitly. Sortable(false) disables it again.
func (b *Builder[T]) Sortable(enable ...bool) *Builder[T] {
	b.columns.SetSortable(len(enable) == 0 || enable[0])
	return b
}

// AddRowModifier adds CSS to the rows matching match. The first matching
// modifier wins.
func (b *Builder[T]) AddRowModifier(match func(T) bool, fn func(*css.Builder)) *Builder[T] {
	b.rules.Add(match, fn)
	return b
}

// SetOptions changes the display options.
func (b *Builder[T]) SetOptions(fn func(*Options)) *Builder[T] {
	fn(&b.options)
	return b
}

// AddPager enables the pager, optionally configuring it.
func (b *Builder[T]) AddPager(fn ...func(*pager.Config)) *Builder[T] {
	b.pager.Enabled = true
	for _, f := range fn {
		f(&b.pager)
	}
	return b
}

// Build validates the configuration and freezes it into a Grid.
func (b *Builder[T]) Build() (*Grid[T], error) {
	var errs []error

	cols, err := b.columns.Columns()
	if err != nil {
		errs = append(errs, err)
	}
	if err := validate.Struct(b.options); err != nil {
		errs = append(errs, fmt.Errorf("options: %w", err))
	}
	if err := validate.Struct(b.pager); err != nil {
		errs = append(errs, fmt.Errorf("pager: %w", err))
	}
	if !b.defaultSort.Order.Valid() {
		errs = append(errs, fmt.Errorf("default sort: %w", sorting.ErrInvalidOrder))
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}

	pagerCfg := b.pager
	pagerCfg.RowsPerPageOptions = slices.Clone(b.pager.RowsPerPageOptions)

	return &Grid[T]{
		options:     b.options,
		pager:       pagerCfg,
		logger:      b.logger.With("grid", b.options.Name),
		columns:     cols,
		searches:    b.searches.Clone(),
		rules:       append(decorate.Rules[T](nil), b.rules...),
		css:         b.css.Resolve(),
		defaultSort: b.defaultSort,
	}, nil
}
