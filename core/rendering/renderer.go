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

// Package rendering turns grid view models into HTML with safehtml templates
// and into plain text tables.
package rendering

import (
	"embed"
	"fmt"
	"io"

	"github.com/google/safehtml"
	"github.com/google/safehtml/template"

	"github.com/google/tabula/core/views"
)

//go:embed templates/*
var templateFS embed.FS

// GridRenderer handles rendering of grid view models to HTML
type GridRenderer struct {
	templates *template.Template
}

// NewGridRenderer creates a renderer with the built in "grid" and "page"
// templates.
func NewGridRenderer() (*GridRenderer, error) {
	trustedFS := template.TrustedFSFromEmbed(templateFS)

	templates, err := template.New("tabula").ParseFS(trustedFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &GridRenderer{templates: templates}, nil
}

// AddTemplates parses additional templates, typically defining alternatives
// to "grid" selected through the grid Template option. It must be called
// before the first render.
func (r *GridRenderer) AddTemplates(fsys template.TrustedFS, patterns ...string) error {
	if _, err := r.templates.ParseFS(fsys, patterns...); err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}
	return nil
}

// Render renders a grid to the provided writer using the template the grid
// names.
func (r *GridRenderer) Render(w io.Writer, vm *views.Grid) error {
	t, err := r.lookup(vm.Template)
	if err != nil {
		return err
	}
	return t.Execute(w, vm)
}

// RenderHTML renders a grid to markup that can be embedded in a page.
func (r *GridRenderer) RenderHTML(vm *views.Grid) (safehtml.HTML, error) {
	t, err := r.lookup(vm.Template)
	if err != nil {
		return safehtml.HTML{}, err
	}
	return t.ExecuteToHTML(vm)
}

// RenderPage renders a full HTML document.
func (r *GridRenderer) RenderPage(w io.Writer, page views.Page) error {
	t, err := r.lookup("page")
	if err != nil {
		return err
	}
	return t.Execute(w, page)
}

func (r *GridRenderer) lookup(name string) (*template.Template, error) {
	if name == "" {
		name = "grid"
	}
	t := r.templates.Lookup(name)
	if t == nil {
		return nil, fmt.Errorf("rendering: no template named %q", name)
	}
	return t, nil
}
