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

// Package css builds the class and style attributes attached to grid
// elements. Styles are validated declaration by declaration so the result can
// be handed to safehtml templates as a safehtml.Style.
package css

import (
	"regexp"
	"slices"
	"strings"

	"github.com/google/safehtml"
	"github.com/google/safehtml/uncheckedconversions"
)

var (
	classPattern    = regexp.MustCompile(`^-?[_a-zA-Z][_a-zA-Z0-9-]*$`)
	propertyPattern = regexp.MustCompile(`^-?[a-z][a-z0-9-]*$`)
	// Characters that could end the declaration, the attribute or the element
	unsafeValue = regexp.MustCompile(`[;{}<>"'\\]|/\*|\*/|(?i)expression\s*\(|(?i)url\s*\(`)
)

// Attrs is a resolved CSS fragment: the class list and inline style of one
// element.
type Attrs struct {
	Class string
	Style safehtml.Style
}

// IsEmpty reports whether the fragment carries neither classes nor style.
func (a Attrs) IsEmpty() bool {
	return a.Class == "" && a.Style.String() == ""
}

// String renders the fragment in attribute form, e.g.
// `class="a b" style="color: red;"`. Only used for text output and logs.
func (a Attrs) String() string {
	var parts []string
	if a.Class != "" {
		parts = append(parts, `class="`+a.Class+`"`)
	}
	if s := a.Style.String(); s != "" {
		parts = append(parts, `style="`+s+`"`)
	}
	return strings.Join(parts, " ")
}

type declaration struct {
	property string
	value    string
}

// Builder accumulates classes and style declarations. Invalid class names and
// declarations are dropped. The zero value is ready to use.
type Builder struct {
	classes []string
	styles  []declaration
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{}
}

// AddClass adds one or more space separated class names. Duplicates are
// ignored.
func (b *Builder) AddClass(classes string) *Builder {
	for _, c := range strings.Fields(classes) {
		if !classPattern.MatchString(c) || slices.Contains(b.classes, c) {
			continue
		}
		b.classes = append(b.classes, c)
	}
	return b
}

// AddStyle adds declarations written as inline CSS, e.g.
// "color: red; font-weight: bold". A later declaration of the same property
// replaces the earlier one.
func (b *Builder) AddStyle(style string) *Builder {
	for _, decl := range strings.Split(style, ";") {
		property, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		b.Set(property, value)
	}
	return b
}

// Set sets a single style property.
func (b *Builder) Set(property, value string) *Builder {
	property = strings.ToLower(strings.TrimSpace(property))
	value = strings.TrimSpace(value)
	if !propertyPattern.MatchString(property) || value == "" || unsafeValue.MatchString(value) {
		return b
	}
	for i := range b.styles {
		if b.styles[i].property == property {
			b.styles[i].value = value
			return b
		}
	}
	b.styles = append(b.styles, declaration{property: property, value: value})
	return b
}

// Merge adds everything from other, which is left unchanged.
func (b *Builder) Merge(other *Builder) *Builder {
	if other == nil {
		return b
	}
	b.AddClass(strings.Join(other.classes, " "))
	for _, d := range other.styles {
		b.Set(d.property, d.value)
	}
	return b
}

// Clone returns an independent copy.
func (b *Builder) Clone() *Builder {
	return &Builder{
		classes: slices.Clone(b.classes),
		styles:  slices.Clone(b.styles),
	}
}

// Attrs resolves the builder into attribute values.
func (b *Builder) Attrs() Attrs {
	if b == nil {
		return Attrs{}
	}
	var sb strings.Builder
	for i, d := range b.styles {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(d.property)
		sb.WriteString(": ")
		sb.WriteString(d.value)
		sb.WriteByte(';')
	}
	return Attrs{
		Class: strings.Join(b.classes, " "),
		// Every declaration was checked by Set
		Style: uncheckedconversions.StyleFromStringKnownToSatisfyTypeContract(sb.String()),
	}
}
