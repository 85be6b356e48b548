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

// Package decorate resolves per-row CSS from an ordered list of rules.
package decorate

import (
	"github.com/google/tabula/core/css"
)

// Rule applies CSS to the rows its predicate matches.
type Rule[T any] struct {
	Match func(T) bool
	CSS   css.Attrs
}

// Rules is an ordered rule list. The first matching rule wins; rules are
// never merged.
type Rules[T any] []Rule[T]

// Add appends a rule whose CSS is configured by fn.
func (r *Rules[T]) Add(match func(T) bool, fn func(*css.Builder)) {
	b := css.New()
	fn(b)
	*r = append(*r, Rule[T]{Match: match, CSS: b.Attrs()})
}

// Resolve returns the CSS of the first rule matching row, or the empty
// fragment.
func (r Rules[T]) Resolve(row T) css.Attrs {
	for _, rule := range r {
		if rule.Match != nil && rule.Match(row) {
			return rule.CSS
		}
	}
	return css.Attrs{}
}
