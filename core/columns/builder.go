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

package columns

import (
	"errors"
	"fmt"

	"github.com/google/safehtml"

	"github.com/google/tabula/core/css"
	"github.com/google/tabula/core/datasource"
	"github.com/google/tabula/core/sorting"
)

type headerSource int

const (
	headerFromMetadata headerSource = iota
	headerText
	headerHTML
)

// Builder configures one column. It is only valid inside the callback passed
// to Registry.Add.
type Builder[T any] struct {
	name        string
	displayName string // from field metadata
	accessor    func(T) any

	header     headerSource
	headerText string
	headerHTML safehtml.HTML

	format  string
	comma   bool
	text    func(T) string
	html    func(T) safehtml.HTML
	enabled bool

	position     int
	sortKey      datasource.Key[T]
	sortable     *bool // nil until set explicitly
	defaultOrder sorting.Order

	headerCSS *css.Builder
	itemCSS   *css.Builder
}

func newBuilder[T any](position int) *Builder[T] {
	return &Builder[T]{
		enabled:   true,
		position:  position,
		headerCSS: css.New(),
		itemCSS:   css.New(),
	}
}

// For binds the column to a row value. The column header defaults to the
// humanized name and the column becomes sort capable through the value.
func (b *Builder[T]) For(name string, accessor func(T) any) *Builder[T] {
	b.name = name
	b.accessor = accessor
	if accessor != nil && b.sortKey.IsZero() {
		b.sortKey = datasource.ByValue(name, accessor)
	}
	return b
}

// Header sets a plain text header.
func (b *Builder[T]) Header(text string) *Builder[T] {
	b.header = headerText
	b.headerText = text
	return b
}

// HeaderHTML sets a header made of trusted markup.
func (b *Builder[T]) HeaderHTML(html safehtml.HTML) *Builder[T] {
	b.header = headerHTML
	b.headerHTML = html
	return b
}

// HeaderFromMetadata takes the header from the field display name, or the
// humanized column name when there is none. This is the default.
func (b *Builder[T]) HeaderFromMetadata() *Builder[T] {
	b.header = headerFromMetadata
	return b
}

// Display renders cells with fn instead of the bound value.
func (b *Builder[T]) Display(fn func(T) string) *Builder[T] {
	b.text = fn
	b.html = nil
	return b
}

// DisplayHTML renders cells as trusted markup.
func (b *Builder[T]) DisplayHTML(fn func(T) safehtml.HTML) *Builder[T] {
	b.html = fn
	return b
}

// Format sets a fmt verb string (or a time layout for time values) used to
// render the bound value.
func (b *Builder[T]) Format(format string) *Builder[T] {
	b.format = format
	return b
}

// Comma renders integer values with thousands separators.
func (b *Builder[T]) Comma() *Builder[T] {
	b.comma = true
	return b
}

// Sortable explicitly enables or disables sorting on this column, overriding
// the registry wide setting.
func (b *Builder[T]) Sortable(enable bool) *Builder[T] {
	b.sortable = &enable
	return b
}

// SortBy sets the key the column sorts by and makes the column sortable unless
// it was explicitly disabled.
func (b *Builder[T]) SortBy(key datasource.Key[T]) *Builder[T] {
	b.sortKey = key
	if b.sortable == nil {
		enable := true
		b.sortable = &enable
	}
	return b
}

// DefaultOrder sets the order requested the first time the header is clicked.
func (b *Builder[T]) DefaultOrder(order sorting.Order) *Builder[T] {
	b.defaultOrder = order
	return b
}

// Order sets the display order used by Registry.OrderColumns.
func (b *Builder[T]) Order(n int) *Builder[T] {
	b.position = n
	return b
}

// Enabled shows or hides the column.
func (b *Builder[T]) Enabled(enable bool) *Builder[T] {
	b.enabled = enable
	return b
}

// HeaderCSS configures the CSS of the header cell.
func (b *Builder[T]) HeaderCSS(fn func(*css.Builder)) *Builder[T] {
	fn(b.headerCSS)
	return b
}

// ItemCSS configures the CSS of the body cells.
func (b *Builder[T]) ItemCSS(fn func(*css.Builder)) *Builder[T] {
	fn(b.itemCSS)
	return b
}

// isSortable resolves the tri-state setting against the registry default.
func (b *Builder[T]) isSortable(global bool) bool {
	enable := global
	if b.sortable != nil {
		enable = *b.sortable
	}
	return enable && !b.sortKey.IsZero()
}

// resolve validates the builder and produces the read-only column.
func (b *Builder[T]) resolve(index int, global bool) (Column[T], error) {
	var errs []error
	if b.accessor == nil && b.text == nil && b.html == nil {
		errs = append(errs, fmt.Errorf("column %d (%q): no value accessor or display function", index, b.name))
	}
	if b.sortable != nil && *b.sortable && b.sortKey.IsZero() {
		errs = append(errs, fmt.Errorf("column %d (%q): sortable without a sort key", index, b.name))
	}
	if !b.defaultOrder.Valid() {
		errs = append(errs, fmt.Errorf("column %d (%q): %w", index, b.name, sorting.ErrInvalidOrder))
	}
	if err := errors.Join(errs...); err != nil {
		return Column[T]{}, err
	}

	col := Column[T]{
		name:         b.name,
		index:        index,
		position:     b.position,
		enabled:      b.enabled,
		html:         b.html,
		sortable:     b.enabled && b.isSortable(global),
		sortKey:      b.sortKey,
		defaultOrder: b.defaultOrder,
		headerCSS:    b.headerCSS.Attrs(),
		itemCSS:      b.itemCSS.Attrs(),
	}

	switch b.header {
	case headerText:
		col.header = b.headerText
		col.headerHTML = safehtml.HTMLEscaped(b.headerText)
	case headerHTML:
		col.header = b.headerHTML.String()
		col.headerHTML = b.headerHTML
	default:
		col.header = b.displayName
		if col.header == "" {
			col.header = Humanize(b.name)
		}
		col.headerHTML = safehtml.HTMLEscaped(col.header)
	}

	switch {
	case b.text != nil:
		col.text = b.text
	case b.accessor != nil:
		accessor, format, comma := b.accessor, b.format, b.comma
		col.text = func(row T) string {
			return FormatValue(accessor(row), format, comma)
		}
	default:
		// Markup only; text output falls back to the markup source
		html := b.html
		col.text = func(row T) string { return html(row).String() }
	}
	return col, nil
}
