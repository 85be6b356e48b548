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
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/google/tabula/core/datasource"
)

// ErrNoDescriber is reported when columns are requested from a row type that
// does not describe its fields.
var ErrNoDescriber = errors.New("columns: row type does not implement Describer")

// Field is the display metadata of one row field.
type Field[T any] struct {
	Name        string
	DisplayName string // Header label, humanized Name when empty
	Order       *int   // Display order, declaration order when nil
	// AutoGenerate excludes the field from generated columns when false
	AutoGenerate *bool
	Accessor     func(T) any
	Key          datasource.Key[T] // Sort key, derived from Accessor when zero
	Format       string
}

// Describer is implemented by row types that publish field metadata.
type Describer[T any] interface {
	GridFields() []Field[T]
}

// Registry is the ordered list of columns of a grid.
type Registry[T any] struct {
	builders []*Builder[T]
	sortable bool
	errs     []error
}

// NewRegistry returns an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{}
}

// Len returns the number of columns, enabled or not.
func (r *Registry[T]) Len() int {
	return len(r.builders)
}

// Add appends a column configured by fn.
func (r *Registry[T]) Add(fn func(*Builder[T])) *Registry[T] {
	b := newBuilder[T](len(r.builders))
	fn(b)
	r.builders = append(r.builders, b)
	return r
}

// AddFor appends a column bound to accessor. An explicit key replaces the one
// derived from the accessor; whether the column sorts is left to SetSortable.
func (r *Registry[T]) AddFor(name string, accessor func(T) any, key ...datasource.Key[T]) *Registry[T] {
	return r.Add(func(b *Builder[T]) {
		b.For(name, accessor)
		if len(key) > 0 && !key[0].IsZero() {
			b.sortKey = key[0]
		}
	})
}

// AddFromModel appends one column per field, skipping fields whose
// AutoGenerate is false.
func (r *Registry[T]) AddFromModel(fields []Field[T]) *Registry[T] {
	for i, f := range fields {
		if f.AutoGenerate != nil && !*f.AutoGenerate {
			continue
		}
		if f.Accessor == nil {
			r.errs = append(r.errs, fmt.Errorf("field %d (%q): no accessor", i, f.Name))
			continue
		}
		r.Add(func(b *Builder[T]) {
			b.For(f.Name, f.Accessor)
			b.displayName = f.DisplayName
			b.format = f.Format
			if !f.Key.IsZero() {
				b.sortKey = f.Key
			}
			if f.Order != nil {
				b.position = *f.Order
			}
		})
	}
	return r
}

// AddFromDescriber appends the columns described by the row type itself.
func (r *Registry[T]) AddFromDescriber() *Registry[T] {
	var zero T
	d, ok := any(zero).(Describer[T])
	if !ok {
		r.errs = append(r.errs, fmt.Errorf("%w: %T", ErrNoDescriber, zero))
		return r
	}
	return r.AddFromModel(d.GridFields())
}

// OrderColumns sorts the columns by their display order. Columns with the
// same order keep the order they were added in.
func (r *Registry[T]) OrderColumns() *Registry[T] {
	slices.SortStableFunc(r.builders, func(a, b *Builder[T]) int {
		return cmp.Compare(a.position, b.position)
	})
	return r
}

// SetSortable enables or disables sorting for every column that has a sort
// key and no explicit setting of its own, including columns added later.
func (r *Registry[T]) SetSortable(enable bool) *Registry[T] {
	r.sortable = enable
	return r
}

// Columns resolves the registry into read-only columns. All configuration
// faults are reported together.
func (r *Registry[T]) Columns() ([]Column[T], error) {
	errs := slices.Clone(r.errs)
	cols := make([]Column[T], 0, len(r.builders))
	for i, b := range r.builders {
		col, err := b.resolve(i+1, r.sortable)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		cols = append(cols, col)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cols, nil
}
