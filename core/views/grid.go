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

// Package views holds the template facing view model of a rendered grid. It
// carries no type parameter so templates and text renderers can consume any
// grid.
package views

import (
	"github.com/google/safehtml"

	"github.com/google/tabula/core/css"
	"github.com/google/tabula/core/search"
	"github.com/google/tabula/core/sorting"
)

// Grid contains a rendered grid formatted for template consumption
type Grid struct {
	Template         string // Template name used to render the grid
	DisplayHeader    bool
	NoRecordsMessage string
	TotalRecords     int

	CSS     css.Resolved
	Headers []Header
	Rows    []Row
	Pager   *Pager       // nil when the pager is hidden
	Search  *search.View // nil when the grid has no search
}

// Header is one column header.
type Header struct {
	Text string        // Plain text label
	HTML safehtml.HTML // Label markup
	CSS  css.Attrs

	Sortable bool
	SortURL  safehtml.URL // Target of the header link when Sortable
	// Set on the active sort column only
	CurrentSort *sorting.Order
}

// IsSorted reports whether the grid is currently sorted by this column.
func (h Header) IsSorted() bool {
	return h.CurrentSort != nil
}

// IsDescending reports whether the grid is sorted by this column in
// descending order.
func (h Header) IsDescending() bool {
	return h.CurrentSort != nil && *h.CurrentSort == sorting.Descending
}

// Row is one body row.
type Row struct {
	CSS   css.Attrs
	Cells []Cell
}

// Cell is one body cell.
type Cell struct {
	Text string
	HTML safehtml.HTML
	CSS  css.Attrs
}

// Pager contains the pager links and counters.
type Pager struct {
	Page         int
	PageCount    int
	RowsPerPage  int
	FirstRecord  int
	LastRecord   int
	DisplayTotal bool
	Total        string

	FirstURL    safehtml.URL
	PreviousURL safehtml.URL
	NextURL     safehtml.URL
	LastURL     safehtml.URL
	HasPrevious bool
	HasNext     bool

	Pages       []PageLink
	RowsOptions []RowsOption
}

// PageLink is a numbered page link.
type PageLink struct {
	Number  int
	URL     safehtml.URL
	Current bool
}

// RowsOption is an entry of the rows per page selector.
type RowsOption struct {
	Rows     int
	URL      safehtml.URL
	Selected bool
}

// IsEmpty reports whether there is no row to show.
func (g *Grid) IsEmpty() bool {
	return len(g.Rows) == 0
}
