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

// Package grid assembles paged, sortable and searchable grids. A Builder
// collects columns, searches, sorts and options; Build freezes them into a
// Grid that renders a data source for one request state at a time.
package grid

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/google/tabula/core/columns"
	"github.com/google/tabula/core/css"
	"github.com/google/tabula/core/datasource"
	"github.com/google/tabula/core/decorate"
	"github.com/google/tabula/core/logger"
	"github.com/google/tabula/core/pager"
	"github.com/google/tabula/core/query"
	"github.com/google/tabula/core/search"
	"github.com/google/tabula/core/sorting"
	"github.com/google/tabula/core/views"
)

// Grid is a frozen grid configuration. It is safe for concurrent renders.
type Grid[T any] struct {
	options     Options
	pager       pager.Config
	logger      logger.Logger
	columns     []columns.Column[T]
	searches    *search.Registry[T]
	rules       decorate.Rules[T]
	css         css.Resolved
	defaultSort sorting.Spec[T]
}

// Name returns the configured grid name.
func (g *Grid[T]) Name() string {
	return g.options.Name
}

// Options returns the display options.
func (g *Grid[T]) Options() Options {
	return g.options
}

// Columns returns the columns in display order, disabled ones included.
func (g *Grid[T]) Columns() []columns.Column[T] {
	return append([]columns.Column[T](nil), g.columns...)
}

// ViewModel is the result of a render: the template facing grid plus the typed
// rows and the decisions that produced them.
type ViewModel[T any] struct {
	views.Grid

	Items      []T
	PagerModel pager.Model
	State      *query.State
	Sorts      []sorting.Spec[T] // Sorts applied, in priority order

	rules decorate.Rules[T]
}

// RowCSS returns the CSS of the first row modifier matching row.
func (vm *ViewModel[T]) RowCSS(row T) css.Attrs {
	return vm.rules.Resolve(row)
}

// Render runs the grid pipeline for one request: search, sort composition,
// a single count of the filtered rows, paging, then view model assembly. Data
// source errors are returned wrapped.
func (g *Grid[T]) Render(ctx context.Context, src datasource.Source[T], state *query.State) (*ViewModel[T], error) {
	if state == nil {
		state = query.FromValues("", nil)
	}

	// Apply search
	filtered := g.searches.Apply(src, state)

	// Compose sorts: the requested column first, the default sort breaks ties
	var active *sorting.Spec[T]
	if spec, ok := sorting.Active[T](g.columns, state.SortColumn, state.SortOrder); ok {
		active = &spec
	}
	sorts := sorting.Compose(active, g.defaultSort)
	ordered, err := sorting.Apply(filtered, sorts)
	if err != nil {
		return nil, fmt.Errorf("grid %s: %w", g.options.Name, err)
	}

	total, err := filtered.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("grid %s: count: %w", g.options.Name, err)
	}

	pm := pager.Compute(g.pager, state, total, g.options.MaxRows)
	items, err := ordered.Skip(pm.Skip).Take(pm.Take).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("grid %s: list: %w", g.options.Name, err)
	}

	g.logger.Debug("grid rendered",
		"total", total,
		"page", pm.Page,
		"skip", pm.Skip,
		"take", pm.Take,
		"rows", len(items),
		"sortcol", state.SortColumn,
		"sorted", active != nil,
		"searchndx", state.SearchIndex,
	)

	headers, err := g.headers(state, active != nil)
	if err != nil {
		return nil, fmt.Errorf("grid %s: %w", g.options.Name, err)
	}

	vm := &ViewModel[T]{
		Grid: views.Grid{
			Template:         g.options.Template,
			DisplayHeader:    g.options.DisplayHeader,
			NoRecordsMessage: g.options.NoRecordsMessage,
			TotalRecords:     total,
			CSS:              g.css,
			Headers:          headers,
			Rows:             g.rows(items),
			Search:           g.searches.View(state),
		},
		Items:      items,
		PagerModel: pm,
		State:      state,
		Sorts:      sorts,
		rules:      g.rules,
	}
	if pm.Visible {
		vm.Pager = pagerView(pm, state)
	}
	return vm, nil
}

// headers builds the enabled column headers. Sortable headers link to the
// flipped order when they are the active sort and to their default order
// otherwise.
func (g *Grid[T]) headers(state *query.State, sorted bool) ([]views.Header, error) {
	headers := make([]views.Header, 0, len(g.columns))
	for _, col := range g.columns {
		if !col.Enabled() {
			continue
		}
		h := views.Header{
			Text:     col.Header(),
			HTML:     col.HeaderHTML(),
			CSS:      col.HeaderCSS(),
			Sortable: col.Sortable(),
		}
		if col.Sortable() {
			isActive := sorted && col.Index() == state.SortColumn
			order, err := sorting.LinkOrder(isActive, state.SortOrder, col.DefaultOrder())
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", col.Name(), err)
			}
			h.SortURL = state.SortURL(col.Index(), order)
			if isActive {
				current := state.SortOrder
				h.CurrentSort = &current
			}
		}
		headers = append(headers, h)
	}
	return headers, nil
}

func (g *Grid[T]) rows(items []T) []views.Row {
	rows := make([]views.Row, 0, len(items))
	for _, item := range items {
		row := views.Row{
			CSS:   g.rules.Resolve(item),
			Cells: make([]views.Cell, 0, len(g.columns)),
		}
		for _, col := range g.columns {
			if !col.Enabled() {
				continue
			}
			row.Cells = append(row.Cells, views.Cell{
				Text: col.Text(item),
				HTML: col.HTML(item),
				CSS:  col.ItemCSS(),
			})
		}
		rows = append(rows, row)
	}
	return rows
}

func pagerView(pm pager.Model, state *query.State) *views.Pager {
	p := &views.Pager{
		Page:         pm.Page,
		PageCount:    pm.PageCount,
		RowsPerPage:  pm.RowsPerPage,
		FirstRecord:  pm.FirstRecord(),
		LastRecord:   pm.LastRecord(),
		DisplayTotal: pm.DisplayTotal,
		Total:        pm.Total,
		HasPrevious:  pm.HasPrevious(),
		HasNext:      pm.HasNext(),
		FirstURL:     state.PageURL(1),
		PreviousURL:  state.PageURL(pm.Page - 1),
		NextURL:      state.PageURL(pm.Page + 1),
		LastURL:      state.PageURL(pm.PageCount),
	}
	for _, n := range pm.Window() {
		p.Pages = append(p.Pages, views.PageLink{
			Number:  n,
			URL:     state.PageURL(n),
			Current: n == pm.Page,
		})
	}
	for _, n := range pm.RowsPerPageOptions {
		p.RowsOptions = append(p.RowsOptions, views.RowsOption{
			Rows:     n,
			URL:      state.RowsPerPageURL(n),
			Selected: n == pm.RowsPerPage,
		})
	}
	return p
}

// Pending is a render running in the background.
type Pending[T any] struct {
	group *errgroup.Group
	vm    *ViewModel[T]
}

// RenderAsync starts Render on its own goroutine.
func (g *Grid[T]) RenderAsync(ctx context.Context, src datasource.Source[T], state *query.State) *Pending[T] {
	group, gctx := errgroup.WithContext(ctx)
	p := &Pending[T]{group: group}
	group.Go(func() error {
		vm, err := g.Render(gctx, src, state)
		p.vm = vm
		return err
	})
	return p
}

// Wait blocks until the render finishes and returns its result.
func (p *Pending[T]) Wait() (*ViewModel[T], error) {
	if err := p.group.Wait(); err != nil {
		return nil, err
	}
	return p.vm, nil
}
