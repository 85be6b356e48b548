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

package sorting

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidOrder is returned when an Order value is neither Ascending nor
// Descending.
var ErrInvalidOrder = errors.New("sorting: invalid sort order")

// Order is a sort direction.
type Order int

const (
	Ascending Order = iota
	Descending
)

// Valid reports whether o is Ascending or Descending.
func (o Order) Valid() bool {
	return o == Ascending || o == Descending
}

// IsDescending reports whether o is Descending.
func (o Order) IsDescending() bool {
	return o == Descending
}

// String returns the wire form of the order ("asc" or "desc").
func (o Order) String() string {
	switch o {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	default:
		return fmt.Sprintf("Order(%d)", int(o))
	}
}

// ParseOrder parses the wire form of an order. It accepts asc, ascending, 0,
// desc, descending and 1 in any case.
func ParseOrder(s string) (Order, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending", "0":
		return Ascending, true
	case "desc", "descending", "1":
		return Descending, true
	default:
		return Ascending, false
	}
}

// Flip returns the opposite order. Flipping an invalid order is an error.
func Flip(o Order) (Order, error) {
	switch o {
	case Ascending:
		return Descending, nil
	case Descending:
		return Ascending, nil
	default:
		return o, fmt.Errorf("%w: %v", ErrInvalidOrder, o)
	}
}
