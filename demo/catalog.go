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
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/tabula/core/columns"
	"github.com/google/tabula/core/datasource"
)

//go:embed data/movies.csv
var moviesCSV []byte

// Movie is a row of the demo catalog.
type Movie struct {
	ID        int       `db:"id"`
	Title     string    `db:"title"`
	Director  string    `db:"director"`
	Genre     string    `db:"genre"`
	Rating    float64   `db:"rating"`
	BoxOffice int64     `db:"box_office"`
	Released  time.Time `db:"released"`
}

// Sort keys named after the catalog table columns so both sources can use
// them.
var (
	byID        = datasource.By("id", func(m Movie) int { return m.ID })
	byTitle     = datasource.By("title", func(m Movie) string { return m.Title })
	byDirector  = datasource.By("director", func(m Movie) string { return m.Director })
	byGenre     = datasource.By("genre", func(m Movie) string { return m.Genre })
	byRating    = datasource.By("rating", func(m Movie) float64 { return m.Rating })
	byBoxOffice = datasource.By("box_office", func(m Movie) int64 { return m.BoxOffice })
	byReleased  = datasource.ByTime("released", func(m Movie) time.Time { return m.Released })
)

func order(n int) *int { return &n }

func hidden() *bool {
	b := false
	return &b
}

// GridFields describes the catalog columns.
func (Movie) GridFields() []columns.Field[Movie] {
	return []columns.Field[Movie]{
		{Name: "ID", Accessor: func(m Movie) any { return m.ID }, Key: byID, AutoGenerate: hidden()},
		{Name: "Title", Accessor: func(m Movie) any { return m.Title }, Key: byTitle},
		{Name: "Director", Accessor: func(m Movie) any { return m.Director }, Key: byDirector, Order: order(3)},
		{Name: "Genre", Accessor: func(m Movie) any { return m.Genre }, Key: byGenre, Order: order(2)},
		{Name: "Rating", Accessor: func(m Movie) any { return m.Rating }, Key: byRating, Format: "%.1f", Order: order(4)},
		{Name: "BoxOffice", DisplayName: "Box office ($)", Accessor: func(m Movie) any { return m.BoxOffice }, Key: byBoxOffice, Order: order(5)},
		{Name: "Released", Accessor: func(m Movie) any { return m.Released }, Key: byReleased, Format: columns.DateLayout, Order: order(6)},
	}
}

var movieHeader = []string{"id", "title", "director", "genre", "rating", "box_office", "released"}

// Movies returns the embedded catalog.
func Movies() ([]Movie, error) {
	return LoadMovies(bytes.NewReader(moviesCSV))
}

// LoadMovies reads a catalog in the embedded CSV layout.
func LoadMovies(r io.Reader) ([]Movie, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(movieHeader)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}
	for i, name := range records[0] {
		if !strings.EqualFold(strings.TrimSpace(name), movieHeader[i]) {
			return nil, fmt.Errorf("column %d: expected header %q, got %q", i+1, movieHeader[i], name)
		}
	}

	movies := make([]Movie, 0, len(records)-1)
	for i, rec := range records[1:] {
		m, err := parseMovie(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		movies = append(movies, m)
	}
	return movies, nil
}

func parseMovie(rec []string) (Movie, error) {
	var (
		m   Movie
		err error
	)
	if m.ID, err = strconv.Atoi(rec[0]); err != nil {
		return m, fmt.Errorf("id: %w", err)
	}
	m.Title, m.Director, m.Genre = rec[1], rec[2], rec[3]
	if m.Rating, err = strconv.ParseFloat(rec[4], 64); err != nil {
		return m, fmt.Errorf("rating: %w", err)
	}
	if m.BoxOffice, err = strconv.ParseInt(rec[5], 10, 64); err != nil {
		return m, fmt.Errorf("box_office: %w", err)
	}
	if m.Released, err = time.Parse(columns.DateLayout, rec[6]); err != nil {
		return m, fmt.Errorf("released: %w", err)
	}
	return m, nil
}
