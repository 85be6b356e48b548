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

// Package sorting composes the ordering applied to a grid's data source: an
// optional column selected by the request, followed by the grid's default
// sort as tie-breaker.
package sorting

import (
	"fmt"

	"github.com/google/tabula/core/datasource"
)

// Spec is a key plus the direction to order it in. A Spec with a zero key is
// empty and orders nothing.
type Spec[T any] struct {
	Key   datasource.Key[T]
	Order Order
}

// IsEmpty reports whether the spec has no key.
func (s Spec[T]) IsEmpty() bool {
	return s.Key.IsZero()
}

// WithOrder returns a copy of the spec ordered by o.
func (s Spec[T]) WithOrder(o Order) Spec[T] {
	s.Order = o
	return s
}

// Candidate is anything that may offer a sort, typically a grid column.
type Candidate[T any] interface {
	SortSpec() (Spec[T], bool)
}

// Active returns the sort of the column selected by a 1-based index, with its
// order replaced by the requested one. The column's own spec is not modified.
// ok is false when the index is out of range or the column is not sortable.
func Active[T any, C Candidate[T]](columns []C, index int, order Order) (spec Spec[T], ok bool) {
	if index < 1 || index > len(columns) {
		return Spec[T]{}, false
	}
	spec, ok = columns[index-1].SortSpec()
	if !ok || spec.IsEmpty() {
		return Spec[T]{}, false
	}
	return spec.WithOrder(order), true
}

// Compose returns the sorts to apply in priority order: the active column
// sort, if any, then the default sort, which always acts as tie-breaker.
func Compose[T any](active *Spec[T], def Spec[T]) []Spec[T] {
	specs := make([]Spec[T], 0, 2)
	if active != nil && !active.IsEmpty() {
		specs = append(specs, *active)
	}
	return append(specs, def)
}

// Apply orders src by specs. The first non-empty spec becomes the primary
// ordering and each later one breaks the ties left by those before it. Empty
// specs are skipped.
func Apply[T any](src datasource.Source[T], specs []Spec[T]) (datasource.Source[T], error) {
	ordered := false
	for i, s := range specs {
		if s.IsEmpty() {
			continue
		}
		if !s.Order.Valid() {
			return nil, fmt.Errorf("sort %d (%s): %w", i, s.Key.Name, ErrInvalidOrder)
		}
		if ordered {
			src = src.ThenBy(s.Key, s.Order.IsDescending())
		} else {
			src = src.OrderBy(s.Key, s.Order.IsDescending())
			ordered = true
		}
	}
	return src, nil
}

// LinkOrder returns the order a column header link should request. Clicking
// the active column flips its current order; any other column starts at its
// configured default. That default is Ascending unless the column was built
// with DefaultOrder, in which case the column opens in that order instead of
// ascending.
func LinkOrder(isActive bool, current, configured Order) (Order, error) {
	if isActive {
		return Flip(current)
	}
	if !configured.Valid() {
		return configured, fmt.Errorf("%w: %v", ErrInvalidOrder, configured)
	}
	return configured, nil
}
