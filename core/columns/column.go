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

// Package columns holds the column definitions of a grid: how each header and
// cell is produced, the order columns are displayed in, and which of them can
// be sorted.
package columns

import (
	"github.com/google/safehtml"

	"github.com/google/tabula/core/css"
	"github.com/google/tabula/core/datasource"
	"github.com/google/tabula/core/sorting"
)

// Column is a resolved, read-only column definition.
type Column[T any] struct {
	name     string
	index    int
	position int
	enabled  bool

	header     string
	headerHTML safehtml.HTML

	text func(T) string
	html func(T) safehtml.HTML

	sortable     bool
	sortKey      datasource.Key[T]
	defaultOrder sorting.Order

	headerCSS css.Attrs
	itemCSS   css.Attrs
}

// Name returns the column name.
func (c Column[T]) Name() string { return c.name }

// Index returns the 1-based position of the column in its registry. Sort
// requests address columns by this index.
func (c Column[T]) Index() int { return c.index }

// Position returns the display order value.
func (c Column[T]) Position() int { return c.position }

// Enabled reports whether the column is rendered.
func (c Column[T]) Enabled() bool { return c.enabled }

// Header returns the header as plain text.
func (c Column[T]) Header() string { return c.header }

// HeaderHTML returns the header markup.
func (c Column[T]) HeaderHTML() safehtml.HTML { return c.headerHTML }

// HeaderCSS returns the CSS of the header cell.
func (c Column[T]) HeaderCSS() css.Attrs { return c.headerCSS }

// ItemCSS returns the CSS of every body cell of the column.
func (c Column[T]) ItemCSS() css.Attrs { return c.itemCSS }

// Text returns the cell content for row as plain text.
func (c Column[T]) Text(row T) string {
	return c.text(row)
}

// HTML returns the cell markup for row. Text cells are escaped.
func (c Column[T]) HTML(row T) safehtml.HTML {
	if c.html != nil {
		return c.html(row)
	}
	return safehtml.HTMLEscaped(c.text(row))
}

// Sortable reports whether the column can be sorted.
func (c Column[T]) Sortable() bool { return c.sortable }

// DefaultOrder returns the order a first click on the header requests.
func (c Column[T]) DefaultOrder() sorting.Order { return c.defaultOrder }

// SortSpec returns the column's sort in its default order. ok is false when
// the column is not sortable.
func (c Column[T]) SortSpec() (sorting.Spec[T], bool) {
	if !c.sortable {
		return sorting.Spec[T]{}, false
	}
	return sorting.Spec[T]{Key: c.sortKey, Order: c.defaultOrder}, true
}
