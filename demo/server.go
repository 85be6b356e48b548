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

// Package demo serves a movie catalog through a set of sample grids, from
// memory and from SQLite.
package demo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/tabula/core/config"
	"github.com/google/tabula/core/datasource"
	"github.com/google/tabula/core/logger"
	"github.com/google/tabula/core/rendering"
	"github.com/google/tabula/core/server"
)

// Demo is a configured demo server and the resources it holds.
type Demo struct {
	Server *server.Server
	db     *sql.DB
}

// Setup loads the catalog and registers every sample page on a new server.
func Setup(ctx context.Context, cfg *config.Config, l logger.Logger, opts ...server.Option) (*Demo, error) {
	movies, err := Movies()
	if err != nil {
		return nil, fmt.Errorf("load movies: %w", err)
	}
	db, err := OpenCatalog(ctx, movies)
	if err != nil {
		return nil, err
	}

	d, err := setup(cfg, l, datasource.FromSlice(movies), CatalogSource(db), opts)
	if err != nil {
		db.Close()
		return nil, err
	}
	d.db = db
	l.Info("demo ready", "movies", len(movies), "pages", len(d.Server.Pages()))
	return d, nil
}

func setup(cfg *config.Config, l logger.Logger, memory, catalog datasource.Source[Movie], opts []server.Option) (*Demo, error) {
	renderer, err := rendering.NewGridRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	pages, err := Pages(Samples(), memory, catalog, cfg.Grid, l)
	if err != nil {
		return nil, err
	}

	srv := server.NewServer(renderer, append([]server.Option{server.WithLogger(l)}, opts...)...)
	for _, p := range pages {
		if err := srv.AddPage(p); err != nil {
			return nil, err
		}
	}
	return &Demo{Server: srv}, nil
}

// Close releases the SQLite catalog.
func (d *Demo) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}
