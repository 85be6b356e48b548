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
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/tabula/core/columns"
	"github.com/google/tabula/core/css"
	"github.com/google/tabula/core/datasource"
	"github.com/google/tabula/core/logger"
	"github.com/google/tabula/core/pager"
	"github.com/google/tabula/core/query"
	"github.com/google/tabula/core/sorting"
)

type movie struct {
	ID     int
	Title  string
	Genre  string
	Rating float64
}

func movies(n int) []movie {
	genres := []string{"Drama", "Comedy", "Horror"}
	out := make([]movie, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, movie{
			ID:     i,
			Title:  fmt.Sprintf("Movie %02d", i),
			Genre:  genres[i%len(genres)],
			Rating: float64(i%5) + 0.5,
		})
	}
	return out
}

var (
	byID     = datasource.By("id", func(m movie) int { return m.ID })
	byTitle  = datasource.By("title", func(m movie) string { return m.Title })
	byGenre  = datasource.By("genre", func(m movie) string { return m.Genre })
	byRating = datasource.By("rating", func(m movie) float64 { return m.Rating })
)

func state(t *testing.T, raw string) *query.State {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return query.Parse(u)
}

func movieGrid(t *testing.T) *Grid[movie] {
	t.Helper()
	g, err := New[movie](WithLogger(logger.Nop())).
		AddColumnFor("Title", func(m movie) any { return m.Title }, byTitle).
		AddColumnFor("Genre", func(m movie) any { return m.Genre }, byGenre).
		AddColumn(func(c *columns.Builder[movie]) {
			c.For("Rating", func(m movie) any { return m.Rating }).SortBy(byRating).DefaultOrder(sorting.Descending)
		}).
		AddColumn(func(c *columns.Builder[movie]) {
			c.For("ID", func(m movie) any { return m.ID }).Enabled(false)
		}).
		Sortable().
		DefaultSortBy(byID).
		AddSearch("Title", func(src datasource.Source[movie], text string) datasource.Source[movie] {
			return src.Where(datasource.Match(func(m movie) bool { return strings.Contains(m.Title, text) }))
		}).
		AddRowModifier(func(m movie) bool { return m.Rating >= 4 }, func(b *css.Builder) { b.AddClass("top") }).
		AddRowModifier(func(m movie) bool { return m.Genre == "Drama" }, func(b *css.Builder) { b.AddClass("drama") }).
		AddPager(func(p *pager.Config) { p.RowsPerPage = 10 }).
		Build()
	require.NoError(t, err)
	return g
}

func ids(items []movie) []int {
	out := make([]int, 0, len(items))
	for _, m := range items {
		out = append(out, m.ID)
	}
	return out
}

func TestRender(t *testing.T) {
	ctx := context.Background()
	g := movieGrid(t)
	src := datasource.FromSlice(movies(37))

	t.Run("Should_page_through_37_rows", func(t *testing.T) {
		vm, err := g.Render(ctx, src, state(t, "/movies?page=4"))
		require.NoError(t, err)
		assert.Equal(t, 37, vm.TotalRecords)
		assert.Equal(t, 30, vm.PagerModel.Skip)
		assert.Equal(t, 10, vm.PagerModel.Take)
		assert.Equal(t, []int{31, 32, 33, 34, 35, 36, 37}, ids(vm.Items))
		require.NotNil(t, vm.Pager)
		assert.Equal(t, 4, vm.Pager.PageCount)
		assert.Equal(t, "/movies?page=3", vm.Pager.PreviousURL.String())

		vm, err = g.Render(ctx, src, state(t, "/movies?page=5"))
		require.NoError(t, err)
		assert.Equal(t, 40, vm.PagerModel.Skip)
		assert.Empty(t, vm.Items)
		assert.True(t, vm.IsEmpty())
	})

	t.Run("Should_sort_by_requested_column_with_default_tie_break", func(t *testing.T) {
		vm, err := g.Render(ctx, src, state(t, "/movies?sortcol=2&sortdir=desc"))
		require.NoError(t, err)

		require.Len(t, vm.Sorts, 2)
		assert.Equal(t, "genre", vm.Sorts[0].Key.Name)
		assert.Equal(t, sorting.Descending, vm.Sorts[0].Order)
		assert.Equal(t, "id", vm.Sorts[1].Key.Name)

		// Horror is i%3 == 2: 2, 5, 8, ... in id order
		assert.Equal(t, []int{2, 5, 8, 11, 14, 17, 20, 23, 26, 29}, ids(vm.Items))

		genre := vm.Headers[1]
		require.NotNil(t, genre.CurrentSort)
		assert.True(t, genre.IsDescending())
		assert.Equal(t, "/movies?page=1&sortcol=2&sortdir=asc", genre.SortURL.String())

		// Other sortable columns link to their default order
		assert.Nil(t, vm.Headers[0].CurrentSort)
		assert.Equal(t, "/movies?page=1&sortcol=1&sortdir=asc", vm.Headers[0].SortURL.String())
		assert.Equal(t, "/movies?page=1&sortcol=3&sortdir=desc", vm.Headers[2].SortURL.String())
	})

	t.Run("Should_fall_back_to_default_sort_for_unknown_column", func(t *testing.T) {
		for _, raw := range []string{"/movies?sortcol=9", "/movies?sortcol=4", "/movies?sortcol=0"} {
			vm, err := g.Render(ctx, src, state(t, raw))
			require.NoError(t, err)
			require.Len(t, vm.Sorts, 1, raw)
			assert.Equal(t, "id", vm.Sorts[0].Key.Name)
			assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, ids(vm.Items))
		}
	})

	t.Run("Should_hide_disabled_columns", func(t *testing.T) {
		vm, err := g.Render(ctx, src, state(t, "/movies"))
		require.NoError(t, err)
		require.Len(t, vm.Headers, 3)
		assert.Equal(t, []string{"Title", "Genre", "Rating"}, []string{vm.Headers[0].Text, vm.Headers[1].Text, vm.Headers[2].Text})
		assert.Len(t, vm.Rows[0].Cells, 3)
		assert.Equal(t, "Movie 01", vm.Rows[0].Cells[0].Text)
		assert.Equal(t, "1.5", vm.Rows[0].Cells[2].Text)
	})

	t.Run("Should_search_before_counting", func(t *testing.T) {
		vm, err := g.Render(ctx, src, state(t, "/movies?searchndx=1&searchqry=Movie+1"))
		require.NoError(t, err)
		// Movie 10 .. Movie 19
		assert.Equal(t, 10, vm.TotalRecords)
		assert.Nil(t, vm.Pager, "everything fits on one page")
		require.NotNil(t, vm.Search)
		assert.Equal(t, "Movie 1", vm.Search.Query)
	})

	t.Run("Should_apply_first_matching_row_modifier", func(t *testing.T) {
		vm, err := g.Render(ctx, src, state(t, "/movies"))
		require.NoError(t, err)
		// Movie 3: rating 3.5, Drama. Movie 4: rating 4.5, Comedy. Movie 9: rating 4.5, Drama
		assert.Equal(t, "drama", vm.Rows[2].CSS.Class)
		assert.Equal(t, "top", vm.Rows[3].CSS.Class)
		assert.Equal(t, "top", vm.Rows[8].CSS.Class)
		assert.Equal(t, "top", vm.RowCSS(vm.Items[8]).Class)
		assert.True(t, vm.Rows[0].CSS.IsEmpty())
	})

	t.Run("Should_clamp_rows_to_max_rows", func(t *testing.T) {
		small, err := New[movie](WithLogger(logger.Nop())).
			AddColumnFor("Title", func(m movie) any { return m.Title }).
			SetOptions(func(o *Options) { o.MaxRows = 5 }).
			Build()
		require.NoError(t, err)
		vm, err := small.Render(ctx, src, state(t, "/movies?rows=100000"))
		require.NoError(t, err)
		assert.Len(t, vm.Items, 5)
		assert.Nil(t, vm.Pager)
	})

	t.Run("Should_show_pager_when_rows_override_splits_results", func(t *testing.T) {
		vm, err := g.Render(ctx, datasource.FromSlice(movies(8)), state(t, "/movies?rows=5"))
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(vm.Items))
		require.NotNil(t, vm.Pager)
		assert.Equal(t, 2, vm.Pager.PageCount)

		vm, err = g.Render(ctx, datasource.FromSlice(movies(8)), state(t, "/movies?rows=5&page=2"))
		require.NoError(t, err)
		assert.Equal(t, []int{6, 7, 8}, ids(vm.Items))
	})

	t.Run("Should_render_empty_source", func(t *testing.T) {
		vm, err := g.Render(ctx, datasource.FromSlice([]movie{}), state(t, "/movies?page=3"))
		require.NoError(t, err)
		assert.Equal(t, 1, vm.PagerModel.PageCount)
		assert.Empty(t, vm.Items)
		assert.Equal(t, "No records found", vm.NoRecordsMessage)
	})
}

type failingSource struct {
	datasource.Source[movie]
	err error
}

func (f failingSource) Where(p datasource.Predicate[movie]) datasource.Source[movie] { return f }
func (f failingSource) OrderBy(datasource.Key[movie], bool) datasource.Source[movie] { return f }
func (f failingSource) ThenBy(datasource.Key[movie], bool) datasource.Source[movie]  { return f }
func (f failingSource) Skip(int) datasource.Source[movie]                            { return f }
func (f failingSource) Take(int) datasource.Source[movie]                            { return f }
func (f failingSource) Count(context.Context) (int, error)                           { return 0, f.err }
func (f failingSource) List(context.Context) ([]movie, error)                        { return nil, f.err }

// countingSource records how often a source chain is evaluated.
type countingSource struct {
	datasource.Source[movie]
	counts, lists *int
}

func (c countingSource) wrap(src datasource.Source[movie]) datasource.Source[movie] {
	return countingSource{Source: src, counts: c.counts, lists: c.lists}
}

func (c countingSource) Where(p datasource.Predicate[movie]) datasource.Source[movie] {
	return c.wrap(c.Source.Where(p))
}

func (c countingSource) OrderBy(k datasource.Key[movie], desc bool) datasource.Source[movie] {
	return c.wrap(c.Source.OrderBy(k, desc))
}

func (c countingSource) ThenBy(k datasource.Key[movie], desc bool) datasource.Source[movie] {
	return c.wrap(c.Source.ThenBy(k, desc))
}

func (c countingSource) Skip(n int) datasource.Source[movie] { return c.wrap(c.Source.Skip(n)) }
func (c countingSource) Take(n int) datasource.Source[movie] { return c.wrap(c.Source.Take(n)) }

func (c countingSource) Count(ctx context.Context) (int, error) {
	*c.counts++
	return c.Source.Count(ctx)
}

func (c countingSource) List(ctx context.Context) ([]movie, error) {
	*c.lists++
	return c.Source.List(ctx)
}

func TestRenderEvaluatesSourceOnce(t *testing.T) {
	g := movieGrid(t)
	var counts, lists int
	src := countingSource{Source: datasource.FromSlice(movies(37)), counts: &counts, lists: &lists}

	vm, err := g.Render(context.Background(), src, state(t, "/movies?searchndx=1&searchqry=Movie+1&sortcol=3&rows=4&page=3"))
	require.NoError(t, err)
	// Movie 10 to Movie 19
	assert.Equal(t, 10, vm.TotalRecords)
	assert.Len(t, vm.Items, 2)
	assert.Equal(t, 1, counts)
	assert.Equal(t, 1, lists)
}

func TestRenderErrors(t *testing.T) {
	ctx := context.Background()
	g := movieGrid(t)
	boom := errors.New("backend unavailable")

	t.Run("Should_propagate_source_errors", func(t *testing.T) {
		_, err := g.Render(ctx, failingSource{err: boom}, state(t, "/movies"))
		assert.ErrorIs(t, err, boom)
	})

	t.Run("Should_propagate_deferred_configuration_faults", func(t *testing.T) {
		bad := datasource.FromSlice(movies(3)).ThenBy(byTitle, false)
		_, err := g.Render(ctx, bad, state(t, "/movies"))
		assert.ErrorIs(t, err, datasource.ErrUnordered)
	})
}

func TestRenderAsync(t *testing.T) {
	ctx := context.Background()
	g := movieGrid(t)
	src := datasource.FromSlice(movies(37))

	t.Run("Should_match_synchronous_render", func(t *testing.T) {
		want, err := g.Render(ctx, src, state(t, "/movies?page=2&sortcol=3"))
		require.NoError(t, err)
		got, err := g.RenderAsync(ctx, src, state(t, "/movies?page=2&sortcol=3")).Wait()
		require.NoError(t, err)
		assert.Equal(t, ids(want.Items), ids(got.Items))
		assert.Equal(t, want.Headers, got.Headers)
		assert.Equal(t, want.PagerModel, got.PagerModel)
	})

	t.Run("Should_report_errors", func(t *testing.T) {
		boom := errors.New("timeout")
		_, err := g.RenderAsync(ctx, failingSource{err: boom}, nil).Wait()
		assert.ErrorIs(t, err, boom)
	})
}

func TestBuild(t *testing.T) {
	t.Run("Should_report_all_faults", func(t *testing.T) {
		_, err := New[movie]().
			AddColumn(func(c *columns.Builder[movie]) { c.Header("Empty") }).
			SetOptions(func(o *Options) {
				o.MaxRows = 0
				o.Template = ""
			}).
			AddPager(func(p *pager.Config) { p.RowsPerPage = 0 }).
			DefaultSortBy(byID, sorting.Order(3)).
			Build()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidConfig)
		assert.ErrorIs(t, err, sorting.ErrInvalidOrder)
		msg := err.Error()
		assert.Contains(t, msg, "no value accessor")
		assert.Contains(t, msg, "MaxRows")
		assert.Contains(t, msg, "Template")
		assert.Contains(t, msg, "RowsPerPage")
	})

	t.Run("Should_report_missing_describer", func(t *testing.T) {
		_, err := New[movie]().AddColumnsFromModel().Build()
		assert.ErrorIs(t, err, columns.ErrNoDescriber)
	})

	t.Run("Should_not_change_after_build", func(t *testing.T) {
		b := New[movie](WithLogger(logger.Nop())).AddColumnFor("Title", func(m movie) any { return m.Title })
		g, err := b.Build()
		require.NoError(t, err)
		b.AddColumnFor("Genre", func(m movie) any { return m.Genre }).AddCSSClass("changed")

		vm, err := g.Render(context.Background(), datasource.FromSlice(movies(2)), nil)
		require.NoError(t, err)
		assert.Len(t, vm.Headers, 1)
		assert.Empty(t, vm.CSS.Table.Class)
	})
}
