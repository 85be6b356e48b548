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

// Package query resolves the per-request grid state from URL parameters and
// builds the URLs a rendered grid links to.
package query

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/google/safehtml"
	"github.com/gorilla/schema"

	"github.com/google/tabula/core/sorting"
)

// Parameter names understood by the grid.
const (
	ParamPage        = "page"
	ParamSortColumn  = "sortcol"
	ParamSortOrder   = "sortdir"
	ParamRowsPerPage = "rows"
	ParamSearchIndex = "searchndx"
	ParamSearchQuery = "searchqry"
)

var gridParams = []string{
	ParamPage, ParamSortColumn, ParamSortOrder,
	ParamRowsPerPage, ParamSearchIndex, ParamSearchQuery,
}

// form is the raw wire form. Every field is a string so that decoding never
// fails on malformed numbers; normalisation happens afterwards.
type form struct {
	Page        string `schema:"page,omitempty"`
	SortColumn  string `schema:"sortcol,omitempty"`
	SortOrder   string `schema:"sortdir,omitempty"`
	RowsPerPage string `schema:"rows,omitempty"`
	SearchIndex string `schema:"searchndx,omitempty"`
	SearchQuery string `schema:"searchqry,omitempty"`
}

var (
	decoder = newDecoder()
	encoder = schema.NewEncoder()
)

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// State is the grid state of a single request
type State struct {
	// Base path (e.g., "/movies")
	Path string

	Page        int           // Current page, 1-based
	SortColumn  int           // 1-based column index, 0 = none
	SortOrder   sorting.Order // Requested order for SortColumn
	RowsPerPage int           // Rows per page override, 0 = none
	SearchIndex int           // 1-based search index, 0 = none
	SearchQuery string        // Trimmed search text

	// Parameters that do not belong to the grid, kept for URL building
	extra url.Values
}

// Parse creates a State from a URL
func Parse(u *url.URL) *State {
	return FromValues(u.Path, u.Query())
}

// FromValues creates a State from decoded query parameters. Malformed or out of
// range values fall back to their defaults; it never fails.
func FromValues(path string, values url.Values) *State {
	var f form
	// Fields are strings, so a failure here can only leave some of them empty
	_ = decoder.Decode(&f, values)

	state := &State{
		Path:        path,
		Page:        positive(f.Page, 1),
		SortColumn:  positive(f.SortColumn, 0),
		RowsPerPage: positive(f.RowsPerPage, 0),
		SearchIndex: positive(f.SearchIndex, 0),
		SearchQuery: strings.TrimSpace(f.SearchQuery),
		extra:       url.Values{},
	}
	if order, ok := sorting.ParseOrder(f.SortOrder); ok {
		state.SortOrder = order
	}

	for key, vals := range values {
		if slices.Contains(gridParams, key) {
			continue
		}
		state.extra[key] = slices.Clone(vals)
	}
	return state
}

// positive parses s as an integer >= 1, returning def otherwise.
func positive(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return def
	}
	return n
}

// Clone creates a deep copy of the State
func (s *State) Clone() *State {
	clone := *s
	clone.extra = s.Extra()
	return &clone
}

// RowsOverride returns the requested rows per page, if any.
func (s *State) RowsOverride() (int, bool) {
	return s.RowsPerPage, s.RowsPerPage > 0
}

// Extra returns a copy of the parameters unrelated to the grid.
func (s *State) Extra() url.Values {
	extra := make(url.Values, len(s.extra))
	for key, vals := range s.extra {
		extra[key] = slices.Clone(vals)
	}
	return extra
}

// SortURL returns a URL sorting by the 1-based column col in the given order.
// Sorting always restarts at the first page.
func (s *State) SortURL(col int, order sorting.Order) safehtml.URL {
	newState := s.Clone()
	newState.Page = 1
	newState.SortColumn = col
	newState.SortOrder = order
	return newState.ToSafeURL()
}

// PageURL returns a URL for page n of the same view.
func (s *State) PageURL(n int) safehtml.URL {
	newState := s.Clone()
	newState.Page = max(n, 1)
	return newState.ToSafeURL()
}

// RowsPerPageURL returns a URL showing n rows per page, starting over at the
// first page.
func (s *State) RowsPerPageURL(n int) safehtml.URL {
	newState := s.Clone()
	newState.Page = 1
	newState.RowsPerPage = max(n, 0)
	return newState.ToSafeURL()
}

// ResetURL returns a URL without any grid parameter. Unrelated parameters are
// kept.
func (s *State) ResetURL() safehtml.URL {
	return safehtml.URLSanitized(s.buildURL(nil))
}

// ToURL converts the State back to a URL string
func (s *State) ToURL() string {
	f := &form{
		// Page is always included in the URL
		Page:        strconv.Itoa(s.Page),
		SearchQuery: s.SearchQuery,
	}
	if s.SortColumn > 0 {
		f.SortColumn = strconv.Itoa(s.SortColumn)
		f.SortOrder = s.SortOrder.String()
	}
	if s.RowsPerPage > 0 {
		f.RowsPerPage = strconv.Itoa(s.RowsPerPage)
	}
	if s.SearchIndex > 0 {
		f.SearchIndex = strconv.Itoa(s.SearchIndex)
	}
	return s.buildURL(f)
}

// ToSafeURL converts the State to a safehtml.URL
func (s *State) ToSafeURL() safehtml.URL {
	// URLSanitized sanitizes the input string and returns a URL
	return safehtml.URLSanitized(s.ToURL())
}

func (s *State) buildURL(f *form) string {
	q := s.Extra()
	if f != nil {
		// Encoding a struct of strings into a map cannot fail
		_ = encoder.Encode(f, q)
	}
	u := &url.URL{
		Path:     s.Path,
		RawQuery: q.Encode(),
	}
	return u.String()
}
