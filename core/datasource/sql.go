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
	"math"
	"slices"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"
)

// SQLSource is a Source backed by a database/sql connection. Queries are
// assembled with squirrel and rows are scanned into T with scany, so T must be
// a struct (or pointer to struct) whose fields map to the selected columns.
type SQLSource[T any] struct {
	db      sqlscan.Querier
	table   string
	columns []string
	format  squirrel.PlaceholderFormat

	wheres []squirrel.Sqlizer
	orders []string
	offset int
	limit  int // -1 means no limit
	err    error
}

// SQLOption configures a SQLSource.
type SQLOption func(*sqlConfig)

type sqlConfig struct {
	columns []string
	format  squirrel.PlaceholderFormat
}

// WithColumns selects explicit columns instead of "*".
func WithColumns(columns ...string) SQLOption {
	return func(c *sqlConfig) {
		c.columns = columns
	}
}

// WithPlaceholders sets the placeholder format, e.g. squirrel.Dollar for
// Postgres. The default is squirrel.Question.
func WithPlaceholders(format squirrel.PlaceholderFormat) SQLOption {
	return func(c *sqlConfig) {
		c.format = format
	}
}

// NewSQL creates a SQL source selecting from table.
func NewSQL[T any](db sqlscan.Querier, table string, opts ...SQLOption) *SQLSource[T] {
	cfg := sqlConfig{
		columns: []string{"*"},
		format:  squirrel.Question,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &SQLSource[T]{
		db:      db,
		table:   table,
		columns: cfg.columns,
		format:  cfg.format,
		limit:   -1,
	}
}

// clone returns a copy of the source with its own clause lists.
func (s *SQLSource[T]) clone() *SQLSource[T] {
	c := *s
	c.wheres = slices.Clone(s.wheres)
	c.orders = slices.Clone(s.orders)
	return &c
}

// fail returns a copy of the source carrying err. The first error wins.
func (s *SQLSource[T]) fail(err error) *SQLSource[T] {
	c := s.clone()
	if c.err == nil {
		c.err = err
	}
	return c
}

// Where implements Source.
func (s *SQLSource[T]) Where(p Predicate[T]) Source[T] {
	if p.Expr == nil {
		return s.fail(fmt.Errorf("%w: predicate has no query expression", ErrNotTranslatable))
	}
	if s.offset > 0 || s.limit >= 0 {
		return s.fail(fmt.Errorf("%w: Where after Skip/Take", ErrNotTranslatable))
	}
	c := s.clone()
	c.wheres = append(c.wheres, p.Expr)
	return c
}

// OrderBy implements Source.
func (s *SQLSource[T]) OrderBy(key Key[T], descending bool) Source[T] {
	if key.Name == "" {
		return s.fail(fmt.Errorf("%w: key has no column name", ErrNotTranslatable))
	}
	c := s.clone()
	c.orders = []string{orderClause(key.Name, descending)}
	return c
}

// ThenBy implements Source.
func (s *SQLSource[T]) ThenBy(key Key[T], descending bool) Source[T] {
	if key.Name == "" {
		return s.fail(fmt.Errorf("%w: key has no column name", ErrNotTranslatable))
	}
	if len(s.orders) == 0 {
		return s.fail(ErrUnordered)
	}
	c := s.clone()
	c.orders = append(c.orders, orderClause(key.Name, descending))
	return c
}

// Skip implements Source.
func (s *SQLSource[T]) Skip(n int) Source[T] {
	c := s.clone()
	c.offset += max(n, 0)
	if c.limit >= 0 {
		c.limit = max(c.limit-max(n, 0), 0)
	}
	return c
}

// Take implements Source.
func (s *SQLSource[T]) Take(n int) Source[T] {
	c := s.clone()
	n = max(n, 0)
	if c.limit < 0 || n < c.limit {
		c.limit = n
	}
	return c
}

// Count implements Source.
func (s *SQLSource[T]) Count(ctx context.Context) (int, error) {
	query, args, err := s.countSQL()
	if err != nil {
		return 0, err
	}
	var n int
	if err := sqlscan.Get(ctx, s.db, &n, query, args...); err != nil {
		return 0, fmt.Errorf("count %s: %w", s.table, err)
	}
	return n, nil
}

// List implements Source.
func (s *SQLSource[T]) List(ctx context.Context) ([]T, error) {
	query, args, err := s.selectSQL()
	if err != nil {
		return nil, err
	}
	rows := []T{}
	if err := sqlscan.Select(ctx, s.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select %s: %w", s.table, err)
	}
	return rows, nil
}

// selectBuilder builds the query without placeholder conversion so it can be
// nested as a subquery.
func (s *SQLSource[T]) selectBuilder() squirrel.SelectBuilder {
	b := squirrel.Select(s.columns...).From(s.table)
	for _, w := range s.wheres {
		b = b.Where(w)
	}
	if len(s.orders) > 0 {
		b = b.OrderBy(s.orders...)
	}
	if s.limit >= 0 {
		b = b.Limit(uint64(s.limit))
	} else if s.offset > 0 {
		// Most dialects reject OFFSET without LIMIT
		b = b.Limit(math.MaxInt64)
	}
	if s.offset > 0 {
		b = b.Offset(uint64(s.offset))
	}
	return b
}

func (s *SQLSource[T]) selectSQL() (string, []any, error) {
	if s.err != nil {
		return "", nil, s.err
	}
	query, args, err := s.selectBuilder().PlaceholderFormat(s.format).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build select %s: %w", s.table, err)
	}
	return query, args, nil
}

func (s *SQLSource[T]) countSQL() (string, []any, error) {
	if s.err != nil {
		return "", nil, s.err
	}

	var b squirrel.SelectBuilder
	if s.offset > 0 || s.limit >= 0 {
		// Counting a page needs the window applied first
		b = squirrel.Select("COUNT(*)").FromSelect(s.selectBuilder(), "page")
	} else {
		// Ordering does not change the count, leave it out
		b = squirrel.Select("COUNT(*)").From(s.table)
		for _, w := range s.wheres {
			b = b.Where(w)
		}
	}

	query, args, err := b.PlaceholderFormat(s.format).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build count %s: %w", s.table, err)
	}
	return query, args, nil
}

func orderClause(name string, descending bool) string {
	if descending {
		return name + " DESC"
	}
	return name + " ASC"
}
