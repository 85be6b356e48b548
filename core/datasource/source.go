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

// Package datasource defines the deferred query abstraction grids render from.
//
// A Source is never materialized until Count or List is called. Every other
// method returns a new Source describing one more step of the query, so a
// Source value can be shared and extended by several renders at once.
package datasource

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
)

var (
	// ErrUnordered is reported when ThenBy is applied to a source without a
	// prior OrderBy.
	ErrUnordered = errors.New("datasource: ThenBy requires a preceding OrderBy")

	// ErrNotTranslatable is reported when a predicate or key cannot be
	// expressed by the source it is applied to.
	ErrNotTranslatable = errors.New("datasource: expression not supported by source")
)

// Source is a deferred, composable query over rows of type T.
//
// Configuration mismatches (for example ThenBy without OrderBy) are recorded
// on the returned Source and reported by Count or List.
type Source[T any] interface {
	// Where keeps only the rows matching the predicate.
	Where(p Predicate[T]) Source[T]
	// OrderBy starts a new ordering, discarding any previous one.
	OrderBy(key Key[T], descending bool) Source[T]
	// ThenBy breaks ties left by the current ordering.
	ThenBy(key Key[T], descending bool) Source[T]
	// Skip bypasses the first n rows.
	Skip(n int) Source[T]
	// Take limits the result to at most n rows.
	Take(n int) Source[T]
	// Count executes the query and returns the number of rows.
	Count(ctx context.Context) (int, error)
	// List executes the query and returns the rows.
	List(ctx context.Context) ([]T, error)
}

// Predicate is a row filter. Match is evaluated by in-memory sources and Expr
// is handed to query providers; a predicate may carry both.
type Predicate[T any] struct {
	Match func(T) bool
	Expr  squirrel.Sqlizer
}

// Match builds a predicate evaluated in memory.
func Match[T any](fn func(T) bool) Predicate[T] {
	return Predicate[T]{Match: fn}
}

// Expr builds a predicate evaluated by query providers.
func Expr[T any](expr squirrel.Sqlizer) Predicate[T] {
	return Predicate[T]{Expr: expr}
}

// WithExpr returns a copy of the predicate carrying a query expression as well.
func (p Predicate[T]) WithExpr(expr squirrel.Sqlizer) Predicate[T] {
	p.Expr = expr
	return p
}
