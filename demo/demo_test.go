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

package demo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/tabula/core/columns"
	"github.com/google/tabula/core/config"
	"github.com/google/tabula/core/datasource"
	"github.com/google/tabula/core/grid"
	"github.com/google/tabula/core/logger"
)

func ids(movies []Movie) []int {
	out := make([]int, 0, len(movies))
	for _, m := range movies {
		out = append(out, m.ID)
	}
	return out
}

func TestMovies(t *testing.T) {
	movies, err := Movies()
	require.NoError(t, err)
	require.Len(t, movies, 37)
	assert.Equal(t, "The Godfather", movies[0].Title)
	assert.Equal(t, int64(250341816), movies[0].BoxOffice)
	assert.Equal(t, 1972, movies[0].Released.Year())
}

func TestLoadMovies(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"empty", ""},
		{"wrong header", "id,name,director,genre,rating,box_office,released\n"},
		{"bad rating", "id,title,director,genre,rating,box_office,released\n1,A,B,C,high,1,2000-01-01\n"},
		{"bad date", "id,title,director,genre,rating,box_office,released\n1,A,B,C,1.0,1,01/01/2000\n"},
		{"short row", "id,title,director,genre,rating,box_office,released\n1,A\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadMovies(strings.NewReader(tt.csv))
			assert.Error(t, err)
		})
	}
}

func TestCatalogSource(t *testing.T) {
	ctx := context.Background()
	movies, err := Movies()
	require.NoError(t, err)
	db, err := OpenCatalog(ctx, movies)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	memory := datasource.FromSlice(movies)
	catalog := CatalogSource(db)

	t.Run("Should_match_memory_ordering", func(t *testing.T) {
		for _, key := range []datasource.Key[Movie]{byRating, byReleased, byBoxOffice, byGenre} {
			want, err := memory.OrderBy(key, true).ThenBy(byID, false).Skip(5).Take(10).List(ctx)
			require.NoError(t, err)
			got, err := catalog.OrderBy(key, true).ThenBy(byID, false).Skip(5).Take(10).List(ctx)
			require.NoError(t, err)
			assert.Equal(t, ids(want), ids(got), key.Name)
		}
	})

	t.Run("Should_scan_every_field", func(t *testing.T) {
		rows, err := catalog.OrderBy(byID, false).Take(1).List(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, movies[0].Title, rows[0].Title)
		assert.Equal(t, movies[0].Rating, rows[0].Rating)
		assert.True(t, movies[0].Released.Equal(rows[0].Released))
	})

	searches := []struct {
		name   string
		filter func(datasource.Source[Movie], string) datasource.Source[Movie]
		text   string
		want   int
	}{
		{"title", searchText("title", func(m Movie) string { return m.Title }), "the", 4},
		{"title wildcard is literal", searchText("title", func(m Movie) string { return m.Title }), "%", 0},
		{"genre", searchGenre, "horror", 6},
		{"rating", searchRating, "8.5", 7},
		{"rating not a number", searchRating, "great", 37},
	}
	for _, tt := range searches {
		t.Run("Should_search_"+tt.name, func(t *testing.T) {
			n, err := tt.filter(memory, tt.text).Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)

			n, err = tt.filter(catalog, tt.text).Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestSetup(t *testing.T) {
	d, err := Setup(context.Background(), config.Default(), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	h := d.Server.Handler()

	get := func(t *testing.T, target string) string {
		t.Helper()
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		return rec.Body.String()
	}

	for _, s := range Samples() {
		t.Run("Should_serve_"+s.Name, func(t *testing.T) {
			body := get(t, s.Path())
			assert.Contains(t, body, "<title>"+s.Title+"</title>")
		})
	}

	t.Run("Should_sort_and_search_sql", func(t *testing.T) {
		body := get(t, "/sql?searchndx=2&searchqry=horror&sortcol=4&sortdir=desc")
		assert.Contains(t, body, "Psycho")
		assert.NotContains(t, body, "Casablanca")
	})

	t.Run("Should_render_cell_markup", func(t *testing.T) {
		assert.Contains(t, get(t, "/css"), "<strong>Casablanca</strong>")
	})

	t.Run("Should_decorate_rows", func(t *testing.T) {
		body := get(t, "/rows")
		assert.Contains(t, body, "top-rated")
		assert.Contains(t, body, "no-data")
	})
}

func TestSamples(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range Samples() {
		assert.False(t, seen[s.Path()], s.Path())
		seen[s.Path()] = true
	}

	broken := []Sample{{Name: "broken", Configure: func(b *grid.Builder[Movie]) {
		b.AddColumn(func(c *columns.Builder[Movie]) { c.Header("Nothing") })
	}}}
	_, err := Pages(broken, datasource.FromSlice[Movie](nil), datasource.FromSlice[Movie](nil), config.Default().Grid, logger.Nop())
	assert.ErrorIs(t, err, grid.ErrInvalidConfig)
}
