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

package columns

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/dustin/go-humanize"
)

// DateLayout is used for time values without an explicit format.
const DateLayout = "2006-01-02"

// FormatValue renders a cell value. format is a fmt verb string, or a time
// layout for time values. comma adds thousands separators to integers.
func FormatValue(v any, format string, comma bool) string {
	if v == nil {
		return ""
	}
	if t, ok := v.(time.Time); ok {
		if t.IsZero() {
			return ""
		}
		if format == "" {
			format = DateLayout
		}
		return t.Format(format)
	}
	if format != "" {
		return fmt.Sprintf(format, v)
	}
	if comma {
		switch n := v.(type) {
		case int:
			return humanize.Comma(int64(n))
		case int32:
			return humanize.Comma(int64(n))
		case int64:
			return humanize.Comma(n)
		case uint32:
			return humanize.Comma(int64(n))
		case float64:
			return humanize.Commaf(n)
		}
	}
	switch n := v.(type) {
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32)
	case fmt.Stringer:
		return n.String()
	default:
		return fmt.Sprint(v)
	}
}

// Humanize turns an identifier such as "ReleaseYear" or "release_year" into
// a header label ("Release Year").
func Humanize(name string) string {
	var words []string
	var current []rune
	runes := []rune(name)
	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			flush()
			continue
		case unicode.IsUpper(r) && len(current) > 0:
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			// Split "releaseYear" and the "L" of "HTMLLabel"
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		current = append(current, r)
	}
	flush()

	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
