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

package demo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"github.com/google/tabula/core/datasource"
)

const moviesTable = "movies"

const createMovies = `CREATE TABLE movies (
	id         INTEGER PRIMARY KEY,
	title      TEXT NOT NULL,
	director   TEXT NOT NULL,
	genre      TEXT NOT NULL,
	rating     REAL NOT NULL,
	box_office INTEGER NOT NULL,
	released   DATE NOT NULL
)`

// OpenCatalog loads movies into a private in-memory SQLite database.
func OpenCatalog(ctx context.Context, movies []Movie) (*sql.DB, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	// Every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	if err := fillCatalog(ctx, db, movies); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func fillCatalog(ctx context.Context, db *sql.DB, movies []Movie) error {
	if _, err := db.ExecContext(ctx, createMovies); err != nil {
		return fmt.Errorf("create %s: %w", moviesTable, err)
	}
	if len(movies) == 0 {
		return nil
	}

	insert := squirrel.Insert(moviesTable).
		Columns("id", "title", "director", "genre", "rating", "box_office", "released")
	for _, m := range movies {
		insert = insert.Values(m.ID, m.Title, m.Director, m.Genre, m.Rating, m.BoxOffice, m.Released.UTC())
	}
	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert movies: %w", err)
	}
	return nil
}

// CatalogSource queries the movies table of db.
func CatalogSource(db *sql.DB) datasource.Source[Movie] {
	return datasource.NewSQL[Movie](db, moviesTable,
		datasource.WithColumns("id", "title", "director", "genre", "rating", "box_office", "released"))
}
