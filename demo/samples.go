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
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/safehtml"
	"github.com/google/safehtml/template"

	"github.com/google/tabula/core/columns"
	"github.com/google/tabula/core/config"
	"github.com/google/tabula/core/css"
	"github.com/google/tabula/core/datasource"
	"github.com/google/tabula/core/grid"
	"github.com/google/tabula/core/logger"
	"github.com/google/tabula/core/pager"
	"github.com/google/tabula/core/server"
	"github.com/google/tabula/core/sorting"
)

// Sample is one demo page showing a grid feature.
type Sample struct {
	Name        string
	Title       string
	Description string
	// SQL renders from the SQLite catalog instead of the in-memory one
	SQL       bool
	Configure func(b *grid.Builder[Movie])
}

// Path returns the page path of the sample.
func (s Sample) Path() string {
	return "/" + s.Name
}

// Samples lists the demo pages in navigation order.
func Samples() []Sample {
	return []Sample{
		{
			Name:        "basic",
			Title:       "Basic",
			Description: "Columns generated from the row type metadata.",
			Configure: func(b *grid.Builder[Movie]) {
				b.AddColumnsFromModel().OrderColumns()
			},
		},
		{
			Name:        "sorting",
			Title:       "Sorting",
			Description: "Click a header to sort. Ties are broken by title.",
			Configure: func(b *grid.Builder[Movie]) {
				b.AddColumnsFromModel().OrderColumns().
					Sortable().
					DefaultSortBy(byTitle)
			},
		},
		{
			Name:        "pagination",
			Title:       "Pagination",
			Description: "Ten movies per page with a rows per page selector.",
			Configure: func(b *grid.Builder[Movie]) {
				b.AddColumnsFromModel().OrderColumns().
					Sortable().
					DefaultSortBy(byID).
					AddPager(func(cfg *pager.Config) {
						cfg.RowsPerPage = 10
						cfg.DisplayTotal = true
						cfg.RowsPerPageOptions = []int{5, 10, 25}
					})
			},
		},
		{
			Name:        "search",
			Title:       "Search",
			Description: "Search by title, director, genre or minimum rating.",
			Configure: func(b *grid.Builder[Movie]) {
				b.AddColumnsFromModel().OrderColumns().
					Sortable().
					DefaultSortBy(byTitle).
					AddSearch("Title", searchText("title", func(m Movie) string { return m.Title })).
					AddSearch("Director", searchText("director", func(m Movie) string { return m.Director })).
					AddSearch("Genre", searchGenre).
					AddSearch("Minimum rating", searchRating).
					AddPager()
			},
		},
		{
			Name:        "rows",
			Title:       "Row modifiers",
			Description: "Top rated movies are highlighted, movies without box office data are greyed out.",
			Configure: func(b *grid.Builder[Movie]) {
				b.AddColumnsFromModel().OrderColumns().
					Sortable().
					DefaultSortBy(byRating, sorting.Descending).
					AddRowModifier(func(m Movie) bool { return m.Rating >= 8.5 }, func(c *css.Builder) {
						c.AddClass("top-rated").Set("background-color", "#fff3c4")
					}).
					AddRowModifier(func(m Movie) bool { return m.BoxOffice == 0 }, func(c *css.Builder) {
						c.AddClass("no-data").Set("color", "#999")
					})
			},
		},
		{
			Name:        "css",
			Title:       "CSS",
			Description: "Table, header and column styles, with markup in cells.",
			Configure: func(b *grid.Builder[Movie]) {
				b.AddCSSClass("catalog").
					AddCSSStyle("width: 100%").
					AddCSS(func(o *css.Options) {
						o.Header.Set("background-color", "#223").Set("color", "#fff")
						o.Row.AddClass("catalog-row")
					}).
					AddColumn(func(c *columns.Builder[Movie]) {
						c.For("Title", func(m Movie) any { return m.Title }).
							DisplayHTML(strongTitle).
							SortBy(byTitle).
							HeaderCSS(func(s *css.Builder) { s.Set("text-align", "left") })
					}).
					AddColumn(func(c *columns.Builder[Movie]) {
						c.For("BoxOffice", func(m Movie) any { return m.BoxOffice }).
							Header("Box office ($)").
							Comma().
							SortBy(byBoxOffice).
							DefaultOrder(sorting.Descending).
							ItemCSS(func(s *css.Builder) { s.AddClass("number").Set("text-align", "right") })
					})
			},
		},
		{
			Name:        "noheaders",
			Title:       "No headers",
			Description: "The same grid without its header row.",
			Configure: func(b *grid.Builder[Movie]) {
				b.AddColumnsFromModel().OrderColumns().
					DefaultSortBy(byReleased).
					SetOptions(func(o *grid.Options) { o.DisplayHeader = false })
			},
		},
		{
			Name:        "sql",
			Title:       "SQLite",
			Description: "Sorting, search and paging translated to SQL.",
			SQL:         true,
			Configure: func(b *grid.Builder[Movie]) {
				b.AddColumnsFromModel().OrderColumns().
					Sortable().
					DefaultSortBy(byID).
					AddSearch("Title", searchText("title", func(m Movie) string { return m.Title })).
					AddSearch("Genre", searchGenre).
					AddPager(func(cfg *pager.Config) {
						cfg.RowsPerPage = 10
						cfg.DisplayTotal = true
					})
			},
		},
	}
}

// Pages builds every sample grid and binds it to its source.
func Pages(samples []Sample, memory, catalog datasource.Source[Movie], defaults config.GridDefaults, l logger.Logger) ([]server.PageConfig, error) {
	var (
		pages []server.PageConfig
		errs  []error
	)
	for _, s := range samples {
		opts := append(defaults.Options(s.Name), grid.WithLogger(l))
		b := grid.New[Movie](opts...)
		s.Configure(b)
		g, err := b.Build()
		if err != nil {
			errs = append(errs, fmt.Errorf("sample %s: %w", s.Name, err))
			continue
		}
		src := memory
		if s.SQL {
			src = catalog
		}
		pages = append(pages, server.PageConfig{
			Path:        s.Path(),
			Title:       s.Title,
			Description: s.Description,
			Grids:       []server.Endpoint{server.Bind(g, src)},
		})
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return pages, nil
}

var titleTemplate = template.Must(template.New("title").Parse(`<strong>{{.}}</strong>`))

func strongTitle(m Movie) safehtml.HTML {
	html, err := titleTemplate.ExecuteToHTML(m.Title)
	if err != nil {
		return safehtml.HTMLEscaped(m.Title)
	}
	return html
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// searchText matches rows whose field contains the text, ignoring ASCII case
// like SQLite LIKE does.
func searchText(column string, field func(Movie) string) func(datasource.Source[Movie], string) datasource.Source[Movie] {
	return func(src datasource.Source[Movie], text string) datasource.Source[Movie] {
		needle := strings.ToLower(text)
		pred := datasource.Match(func(m Movie) bool {
			return strings.Contains(strings.ToLower(field(m)), needle)
		}).WithExpr(squirrel.Expr(column+` LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(text)+"%"))
		return src.Where(pred)
	}
}

func searchGenre(src datasource.Source[Movie], text string) datasource.Source[Movie] {
	text = strings.TrimSpace(text)
	pred := datasource.Match(func(m Movie) bool {
		return strings.EqualFold(m.Genre, text)
	}).WithExpr(squirrel.Expr("genre = ? COLLATE NOCASE", text))
	return src.Where(pred)
}

// searchRating ignores text that is not a number.
func searchRating(src datasource.Source[Movie], text string) datasource.Source[Movie] {
	minRating, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return src
	}
	pred := datasource.Match(func(m Movie) bool {
		return m.Rating >= minRating
	}).WithExpr(squirrel.GtOrEq{"rating": minRating})
	return src.Where(pred)
}
