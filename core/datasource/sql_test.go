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
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openFilmDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// Every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE films (id INTEGER PRIMARY KEY, title TEXT NOT NULL, year INTEGER NOT NULL)`)
	require.NoError(t, err)
	for _, f := range films() {
		_, err := db.Exec(`INSERT INTO films (id, title, year) VALUES (?, ?, ?)`, f.ID, f.Title, f.Year)
		require.NoError(t, err)
	}
	return db
}

func TestSQLSource(t *testing.T) {
	ctx := context.Background()

	t.Run("Should_filter_order_and_page", func(t *testing.T) {
		db := openFilmDB(t)
		src := NewSQL[film](db, "films", WithColumns("id", "title", "year")).
			Where(Expr[film](squirrel.Gt{"year": 1990})).
			OrderBy(byYear, true).
			ThenBy(byTitle, false)

		n, err := src.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, n)

		rows, err := src.Skip(1).Take(2).List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int{6, 5}, ids(rows))
	})

	t.Run("Should_count_a_window", func(t *testing.T) {
		db := openFilmDB(t)
		n, err := NewSQL[film](db, "films").OrderBy(byTitle, false).Skip(4).Take(10).Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("Should_skip_without_take", func(t *testing.T) {
		db := openFilmDB(t)
		rows, err := NewSQL[film](db, "films").OrderBy(byTitle, false).Skip(4).List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 3}, ids(rows))
	})

	t.Run("Should_match_in_memory_results", func(t *testing.T) {
		db := openFilmDB(t)
		pred := Match(func(f film) bool { return f.Year >= 1995 }).WithExpr(squirrel.GtOrEq{"year": 1995})

		mem, err := FromSlice(films()).Where(pred).OrderBy(byYear, false).ThenBy(byTitle, true).List(ctx)
		require.NoError(t, err)
		fromDB, err := NewSQL[film](db, "films").Where(pred).OrderBy(byYear, false).ThenBy(byTitle, true).List(ctx)
		require.NoError(t, err)
		assert.Equal(t, mem, fromDB)
	})

	t.Run("Should_report_untranslatable_predicate", func(t *testing.T) {
		db := openFilmDB(t)
		_, err := NewSQL[film](db, "films").Where(Match(func(film) bool { return true })).List(ctx)
		assert.ErrorIs(t, err, ErrNotTranslatable)
	})

	t.Run("Should_report_untranslatable_key", func(t *testing.T) {
		db := openFilmDB(t)
		key := ByFunc[film]("", func(a, b film) int { return a.ID - b.ID })
		_, err := NewSQL[film](db, "films").OrderBy(key, false).Count(ctx)
		assert.ErrorIs(t, err, ErrNotTranslatable)
	})

	t.Run("Should_report_then_by_without_order_by", func(t *testing.T) {
		db := openFilmDB(t)
		_, err := NewSQL[film](db, "films").ThenBy(byTitle, false).List(ctx)
		assert.ErrorIs(t, err, ErrUnordered)
	})
}

func TestSQLSourceQueries(t *testing.T) {
	ctx := context.Background()

	t.Run("Should_leave_ordering_out_of_count", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`^SELECT COUNT\(\*\) FROM films WHERE year = \$1$`).
			WithArgs(1995).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		src := NewSQL[film](db, "films", WithPlaceholders(squirrel.Dollar)).
			Where(Expr[film](squirrel.Eq{"year": 1995})).
			OrderBy(byTitle, false)
		n, err := src.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should_render_order_limit_and_offset", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`^SELECT id, title, year FROM films ORDER BY year DESC, title ASC LIMIT 10 OFFSET 30$`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "title", "year"}).AddRow(3, "Ronin", 1998))

		rows, err := NewSQL[film](db, "films", WithColumns("id", "title", "year")).
			OrderBy(byYear, true).
			ThenBy(byTitle, false).
			Skip(30).
			Take(10).
			List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []film{{ID: 3, Title: "Ronin", Year: 1998}}, rows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should_propagate_query_errors", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		boom := errors.New("connection reset")
		mock.ExpectQuery(`SELECT \* FROM films`).WillReturnError(boom)

		_, err = NewSQL[film](db, "films").List(ctx)
		assert.ErrorIs(t, err, boom)
	})
}
