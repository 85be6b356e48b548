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

// Package pager computes paging bounds and the pager model of a grid.
package pager

import (
	"math"
	"slices"

	"github.com/dustin/go-humanize"

	"github.com/google/tabula/core/query"
)

// Config holds the pager options of a grid.
type Config struct {
	Enabled            bool  `koanf:"enabled"`
	RowsPerPage        int   `koanf:"rows_per_page" validate:"gte=1"`
	HideIfTooFewRows   bool  `koanf:"hide_if_too_few_rows"`
	DisplayTotal       bool  `koanf:"display_total"`
	RowsPerPageOptions []int `koanf:"rows_per_page_options" validate:"dive,gte=1"`
	// Number of page links shown on each side of the current page
	Radius int `koanf:"radius" validate:"gte=0"`
}

// DefaultConfig returns the configuration of a grid without an explicit pager
// setup. The pager itself is disabled.
func DefaultConfig() Config {
	return Config{
		RowsPerPage:      20,
		HideIfTooFewRows: true,
		Radius:           2,
	}
}

// Model is the pager of a single render.
type Model struct {
	Visible      bool
	TotalRecords int
	RowsPerPage  int
	Page         int
	PageCount    int
	Skip         int
	Take         int

	DisplayTotal       bool
	Total              string // TotalRecords with thousands separators
	RowsPerPageOptions []int

	radius int
}

// EffectiveRowsPerPage returns how many rows to take: the requested override,
// else the configured rows when the pager is enabled, else maxRows. The result
// never exceeds maxRows.
func EffectiveRowsPerPage(cfg Config, state *query.State, maxRows int) int {
	rows := maxRows
	if n, ok := state.RowsOverride(); ok {
		rows = n
	} else if cfg.Enabled && cfg.RowsPerPage > 0 {
		rows = cfg.RowsPerPage
	}
	return max(min(rows, maxRows), 1)
}

// Compute builds the pager model for totalRecords rows matching the request.
// The pager is visible whenever the effective page size splits the records,
// so a smaller rows override always gets links to the following pages.
func Compute(cfg Config, state *query.State, totalRecords, maxRows int) Model {
	rows := EffectiveRowsPerPage(cfg, state, maxRows)
	page := max(state.Page, 1)

	m := Model{
		Visible:      cfg.Enabled && (rows < totalRecords || !cfg.HideIfTooFewRows),
		TotalRecords: totalRecords,
		RowsPerPage:  rows,
		Page:         page,
		PageCount:    PageCount(totalRecords, rows),
		Skip:         skip(page, rows),
		Take:         rows,
		DisplayTotal: cfg.DisplayTotal,
		Total:        humanize.Comma(int64(totalRecords)),
		radius:       max(cfg.Radius, 0),
	}
	if len(cfg.RowsPerPageOptions) > 0 {
		m.RowsPerPageOptions = slices.Clone(cfg.RowsPerPageOptions)
		if !slices.Contains(m.RowsPerPageOptions, rows) {
			m.RowsPerPageOptions = append(m.RowsPerPageOptions, rows)
		}
		slices.Sort(m.RowsPerPageOptions)
	}
	return m
}

// PageCount returns the number of pages needed for total rows. There is
// always at least one page.
func PageCount(total, rows int) int {
	if total <= 0 || rows <= 0 {
		return 1
	}
	return (total + rows - 1) / rows
}

func skip(page, rows int) int {
	if page-1 > math.MaxInt/rows {
		return math.MaxInt
	}
	return (page - 1) * rows
}

// HasPrevious reports whether there is a page before the current one.
func (m Model) HasPrevious() bool {
	return m.Page > 1
}

// HasNext reports whether there is a page after the current one.
func (m Model) HasNext() bool {
	return m.Page < m.PageCount
}

// FirstRecord returns the 1-based number of the first record on the page, or
// 0 when the page is empty.
func (m Model) FirstRecord() int {
	if m.Skip >= m.TotalRecords {
		return 0
	}
	return m.Skip + 1
}

// LastRecord returns the 1-based number of the last record on the page, or 0
// when the page is empty.
func (m Model) LastRecord() int {
	if m.FirstRecord() == 0 {
		return 0
	}
	return min(m.Skip+m.Take, m.TotalRecords)
}

// Window returns the page numbers to link to around the current page.
func (m Model) Window() []int {
	first := max(1, min(m.Page, m.PageCount)-m.radius)
	last := min(m.PageCount, max(m.Page, 1)+m.radius)
	pages := make([]int, 0, max(last-first+1, 0))
	for p := first; p <= last; p++ {
		pages = append(pages, p)
	}
	return pages
}
