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

package datasource

import (
	"context"
	"fmt"
	"slices"
)

type stageKind int

const (
	stageFilter stageKind = iota
	stageSort
	stageSkip
	stageTake
)

// sortKey holds a key reference and its sort direction
type sortKey[T any] struct {
	key        Key[T]
	descending bool
}

// stage is one deferred step of an in-memory query.
type stage[T any] struct {
	kind  stageKind
	match func(T) bool
	keys  []sortKey[T]
	n     int
}

// SliceSource is an in-memory Source over a slice. The slice is never
// modified; every execution works on a copy.
type SliceSource[T any] struct {
	items  []T
	stages []stage[T]
	err    error
}

// FromSlice wraps items in a deferred in-memory Source.
func FromSlice[T any](items []T) *SliceSource[T] {
	return &SliceSource[T]{items: items}
}

// clone returns a copy of the source with its own stage list.
func (s *SliceSource[T]) clone() *SliceSource[T] {
	return &SliceSource[T]{
		items:  s.items,
		stages: slices.Clone(s.stages),
		err:    s.err,
	}
}

// with returns a copy of the source with one more stage appended.
func (s *SliceSource[T]) with(st stage[T]) *SliceSource[T] {
	c := s.clone()
	c.stages = append(c.stages, st)
	return c
}

// fail returns a copy of the source carrying err. The first error wins.
func (s *SliceSource[T]) fail(err error) *SliceSource[T] {
	c := s.clone()
	if c.err == nil {
		c.err = err
	}
	return c
}

// Where implements Source.
func (s *SliceSource[T]) Where(p Predicate[T]) Source[T] {
	if p.Match == nil {
		return s.fail(fmt.Errorf("%w: in-memory predicate requires a match function", ErrNotTranslatable))
	}
	return s.with(stage[T]{kind: stageFilter, match: p.Match})
}

// OrderBy implements Source.
func (s *SliceSource[T]) OrderBy(key Key[T], descending bool) Source[T] {
	if key.Compare == nil {
		return s.fail(fmt.Errorf("%w: key %q has no comparison", ErrNotTranslatable, key.Name))
	}
	return s.with(stage[T]{kind: stageSort, keys: []sortKey[T]{{key: key, descending: descending}}})
}

// ThenBy implements Source.
func (s *SliceSource[T]) ThenBy(key Key[T], descending bool) Source[T] {
	if key.Compare == nil {
		return s.fail(fmt.Errorf("%w: key %q has no comparison", ErrNotTranslatable, key.Name))
	}
	if len(s.stages) == 0 || s.stages[len(s.stages)-1].kind != stageSort {
		return s.fail(ErrUnordered)
	}

	// Extend the trailing sort stage instead of sorting twice
	c := s.clone()
	last := &c.stages[len(c.stages)-1]
	last.keys = append(slices.Clone(last.keys), sortKey[T]{key: key, descending: descending})
	return c
}

// Skip implements Source.
func (s *SliceSource[T]) Skip(n int) Source[T] {
	return s.with(stage[T]{kind: stageSkip, n: max(n, 0)})
}

// Take implements Source.
func (s *SliceSource[T]) Take(n int) Source[T] {
	return s.with(stage[T]{kind: stageTake, n: max(n, 0)})
}

// Count implements Source.
func (s *SliceSource[T]) Count(ctx context.Context) (int, error) {
	rows, err := s.run(ctx)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// List implements Source.
func (s *SliceSource[T]) List(ctx context.Context) ([]T, error) {
	return s.run(ctx)
}

// run executes the stages in order over a copy of the items.
func (s *SliceSource[T]) run(ctx context.Context) ([]T, error) {
	if s.err != nil {
		return nil, s.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows := slices.Clone(s.items)
	for _, st := range s.stages {
		switch st.kind {
		case stageFilter:
			rows = slices.DeleteFunc(rows, func(row T) bool { return !st.match(row) })
		case stageSort:
			// Stable so that rows with equal keys keep their incoming order
			slices.SortStableFunc(rows, func(a, b T) int { return compareKeys(st.keys, a, b) })
		case stageSkip:
			if st.n >= len(rows) {
				rows = rows[:0]
			} else {
				rows = rows[st.n:]
			}
		case stageTake:
			if st.n < len(rows) {
				rows = rows[:st.n]
			}
		}
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}

// compareKeys compares two rows using multi-key sort order.
// Returns negative if a < b, zero if equal, positive if a > b.
func compareKeys[T any](keys []sortKey[T], a, b T) int {
	for _, sk := range keys {
		c := sk.key.Compare(a, b)
		if c != 0 {
			if sk.descending {
				return -c
			}
			return c
		}
	}
	return 0
}
