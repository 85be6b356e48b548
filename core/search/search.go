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

// Package search selects and applies the named search filters of a grid.
package search

import (
	"github.com/google/safehtml"

	"github.com/google/tabula/core/datasource"
	"github.com/google/tabula/core/query"
)

// Filter narrows a source by the text the user searched for.
type Filter[T any] func(src datasource.Source[T], text string) datasource.Source[T]

// Definition is a named search.
type Definition[T any] struct {
	Name   string
	Filter Filter[T]
}

// Registry is the ordered list of searches offered by a grid. Searches are
// addressed by their 1-based position.
type Registry[T any] struct {
	defs []Definition[T]
}

// NewRegistry returns an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{}
}

// Add appends a search.
func (r *Registry[T]) Add(name string, filter Filter[T]) *Registry[T] {
	r.defs = append(r.defs, Definition[T]{Name: name, Filter: filter})
	return r
}

// Len returns the number of searches.
func (r *Registry[T]) Len() int {
	return len(r.defs)
}

// Clone returns a copy that can be extended independently.
func (r *Registry[T]) Clone() *Registry[T] {
	return &Registry[T]{defs: append([]Definition[T](nil), r.defs...)}
}

// Select returns the search requested by state. ok is false when the index is
// out of range or there is nothing to search for.
func (r *Registry[T]) Select(state *query.State) (def Definition[T], ok bool) {
	idx := state.SearchIndex
	if idx < 1 || idx > len(r.defs) || state.SearchQuery == "" {
		return Definition[T]{}, false
	}
	def = r.defs[idx-1]
	if def.Filter == nil {
		return Definition[T]{}, false
	}
	return def, true
}

// Apply filters src with the selected search. Without a selection src itself
// is returned.
func (r *Registry[T]) Apply(src datasource.Source[T], state *query.State) datasource.Source[T] {
	def, ok := r.Select(state)
	if !ok {
		return src
	}
	return def.Filter(src, state.SearchQuery)
}

// Option is one entry of the search selector.
type Option struct {
	Value    int // 1-based search index
	Name     string
	Selected bool
}

// View is what the search form needs to render.
type View struct {
	Options  []Option
	Index    int
	Query    string
	ResetURL safehtml.URL
}

// View builds the search form model. It is nil when no search is registered.
func (r *Registry[T]) View(state *query.State) *View {
	if len(r.defs) == 0 {
		return nil
	}
	v := &View{
		Options:  make([]Option, 0, len(r.defs)),
		Index:    state.SearchIndex,
		Query:    state.SearchQuery,
		ResetURL: state.ResetURL(),
	}
	for i, d := range r.defs {
		v.Options = append(v.Options, Option{
			Value:    i + 1,
			Name:     d.Name,
			Selected: i+1 == state.SearchIndex,
		})
	}
	// Without a valid selection the first option is preselected. Index keeps
	// the requested value since no search was applied.
	if state.SearchIndex < 1 || state.SearchIndex > len(r.defs) {
		v.Options[0].Selected = true
	}
	return v
}
