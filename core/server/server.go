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

// Package server serves grids over HTTP. Each page binds one or more grids to
// their data sources and is rendered per request from the URL query.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/safehtml"

	"github.com/google/tabula/core/datasource"
	"github.com/google/tabula/core/grid"
	"github.com/google/tabula/core/logger"
	"github.com/google/tabula/core/query"
	"github.com/google/tabula/core/rendering"
	"github.com/google/tabula/core/views"
)

// FormatParam selects the response format. "text" returns a plain text table.
const FormatParam = "format"

// Endpoint is a grid bound to its data source.
type Endpoint interface {
	Name() string
	RenderView(ctx context.Context, state *query.State) (*views.Grid, error)
}

type boundGrid[T any] struct {
	grid *grid.Grid[T]
	src  datasource.Source[T]
}

// Bind pairs a grid with the source it renders.
func Bind[T any](g *grid.Grid[T], src datasource.Source[T]) Endpoint {
	return boundGrid[T]{grid: g, src: src}
}

func (b boundGrid[T]) Name() string {
	return b.grid.Name()
}

func (b boundGrid[T]) RenderView(ctx context.Context, state *query.State) (*views.Grid, error) {
	vm, err := b.grid.Render(ctx, b.src, state)
	if err != nil {
		return nil, err
	}
	return &vm.Grid, nil
}

// PageConfig describes one page of the site.
type PageConfig struct {
	Path        string // Absolute path, e.g. "/sorting"
	Title       string
	Description string
	Grids       []Endpoint
}

// Server represents the application server with all its dependencies
type Server struct {
	renderer *rendering.GridRenderer
	logger   logger.Logger
	metrics  *Metrics
	pages    []PageConfig
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for request failures.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics instruments every grid render.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// NewServer creates a server rendering with renderer.
func NewServer(renderer *rendering.GridRenderer, opts ...Option) *Server {
	s := &Server{
		renderer: renderer,
		logger:   logger.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddPage registers a page. Paths must be absolute and unique.
func (s *Server) AddPage(page PageConfig) error {
	if !strings.HasPrefix(page.Path, "/") {
		return fmt.Errorf("page %q: path must start with /", page.Path)
	}
	if len(page.Grids) == 0 {
		return fmt.Errorf("page %q: no grid", page.Path)
	}
	for _, p := range s.pages {
		if p.Path == page.Path {
			return fmt.Errorf("page %q: already registered", page.Path)
		}
	}
	s.pages = append(s.pages, page)
	return nil
}

// Pages returns the registered pages in registration order.
func (s *Server) Pages() []PageConfig {
	return append([]PageConfig(nil), s.pages...)
}

// Handler returns the HTTP handler serving every registered page. The root
// redirects to the first page unless a page is registered at "/".
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	hasRoot := false
	for _, page := range s.pages {
		pattern := "GET " + page.Path
		if page.Path == "/" {
			pattern = "GET /{$}"
			hasRoot = true
		}
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
			s.HandlePage(w, r, page)
		})
	}
	if !hasRoot && len(s.pages) > 0 {
		first := s.pages[0].Path
		mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, first, http.StatusSeeOther)
		})
	}
	return mux
}

// HandlePage renders every grid of page for the request query.
func (s *Server) HandlePage(w http.ResponseWriter, r *http.Request, page PageConfig) {
	start := time.Now()
	state := query.FromValues(r.URL.Path, r.URL.Query())

	grids := make([]*views.Grid, 0, len(page.Grids))
	for _, ep := range page.Grids {
		vm, err := s.render(r.Context(), ep, state)
		if err != nil {
			s.logger.Error("grid render failed", "path", r.URL.Path, "grid", ep.Name(), "error", err)
			status := http.StatusInternalServerError
			if errors.Is(err, context.Canceled) {
				status = http.StatusServiceUnavailable
			}
			http.Error(w, "failed to render grid", status)
			return
		}
		grids = append(grids, vm)
	}

	var err error
	if r.URL.Query().Get(FormatParam) == "text" {
		err = s.writeText(w, grids)
	} else {
		err = s.writeHTML(w, page, grids)
	}
	if err != nil {
		s.logger.Error("page write failed", "path", r.URL.Path, "error", err)
		return
	}
	s.logger.Debug("page served", "path", r.URL.Path, "grids", len(grids), "elapsed", time.Since(start))
}

func (s *Server) render(ctx context.Context, ep Endpoint, state *query.State) (*views.Grid, error) {
	done := s.metrics.Start(ep.Name())
	vm, err := ep.RenderView(ctx, state)
	done(err)
	return vm, err
}

func (s *Server) writeHTML(w http.ResponseWriter, page PageConfig, grids []*views.Grid) error {
	bodies := make([]safehtml.HTML, 0, len(grids))
	for _, vm := range grids {
		html, err := s.renderer.RenderHTML(vm)
		if err != nil {
			http.Error(w, "failed to render grid", http.StatusInternalServerError)
			return err
		}
		bodies = append(bodies, html)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return s.renderer.RenderPage(w, views.Page{
		Title:       page.Title,
		Description: page.Description,
		Nav:         s.nav(),
		Body:        safehtml.HTMLConcat(bodies...),
	})
}

func (s *Server) writeText(w http.ResponseWriter, grids []*views.Grid) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	for _, vm := range grids {
		if err := rendering.RenderText(w, vm); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) nav() []views.NavLink {
	links := make([]views.NavLink, 0, len(s.pages))
	for _, p := range s.pages {
		links = append(links, views.NavLink{Title: p.Title, URL: safehtml.URLSanitized(p.Path)})
	}
	return links
}
