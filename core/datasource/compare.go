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

package datasource

import (
	"cmp"
	"fmt"
	"strings"
	"time"
)

// Key extracts an ordering key from a row.
//
// Name is the expression used by query providers (for example the SQL column
// in an ORDER BY clause). Compare is the three-way comparison used by
// in-memory sources. A Key with neither set is the zero Key and orders nothing.
type Key[T any] struct {
	Name    string
	Compare func(a, b T) int
}

// IsZero reports whether the key has no extractor at all.
func (k Key[T]) IsZero() bool {
	return k.Name == "" && k.Compare == nil
}

// By builds a key from an accessor returning an ordered value.
func By[T any, K cmp.Ordered](name string, fn func(T) K) Key[T] {
	return Key[T]{
		Name: name,
		Compare: func(a, b T) int {
			return compareOrdered(fn(a), fn(b))
		},
	}
}

// ByTime builds a key from an accessor returning a time.Time.
func ByTime[T any](name string, fn func(T) time.Time) Key[T] {
	return Key[T]{
		Name: name,
		Compare: func(a, b T) int {
			return fn(a).Compare(fn(b))
		},
	}
}

// ByBool builds a key ordering false before true.
func ByBool[T any](name string, fn func(T) bool) Key[T] {
	return Key[T]{
		Name: name,
		Compare: func(a, b T) int {
			return compareBools(fn(a), fn(b))
		},
	}
}

// ByValue builds a key from an untyped accessor. Values are compared by their
// dynamic type; mismatched or unknown types fall back to their string form.
func ByValue[T any](name string, fn func(T) any) Key[T] {
	return Key[T]{
		Name: name,
		Compare: func(a, b T) int {
			return CompareValues(fn(a), fn(b))
		},
	}
}

// ByFunc builds a key from an explicit comparison function.
func ByFunc[T any](name string, compare func(a, b T) int) Key[T] {
	return Key[T]{Name: name, Compare: compare}
}

// CompareValues compares two values of the same dynamic type.
// Returns -1 if a < b, 0 if equal, 1 if a > b. nil sorts after everything.
func CompareValues(a, b any) int {
	if a == nil || b == nil {
		return compareNils(a == nil, b == nil)
	}

	switch va := a.(type) {
	case string:
		if vb, ok := b.(string); ok {
			return strings.Compare(va, vb)
		}
	case int:
		if vb, ok := b.(int); ok {
			return cmp.Compare(va, vb)
		}
	case int32:
		if vb, ok := b.(int32); ok {
			return cmp.Compare(va, vb)
		}
	case int64:
		if vb, ok := b.(int64); ok {
			return cmp.Compare(va, vb)
		}
	case uint32:
		if vb, ok := b.(uint32); ok {
			return cmp.Compare(va, vb)
		}
	case uint64:
		if vb, ok := b.(uint64); ok {
			return cmp.Compare(va, vb)
		}
	case float32:
		if vb, ok := b.(float32); ok {
			return compareOrdered(va, vb)
		}
	case float64:
		if vb, ok := b.(float64); ok {
			return compareOrdered(va, vb)
		}
	case bool:
		if vb, ok := b.(bool); ok {
			return compareBools(va, vb)
		}
	case time.Time:
		if vb, ok := b.(time.Time); ok {
			return va.Compare(vb)
		}
	case time.Duration:
		if vb, ok := b.(time.Duration); ok {
			return cmp.Compare(va, vb)
		}
	}

	// Fallback: use string representation
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

// compareOrdered compares two ordered values.
// NaN values are considered greater than all other values (sort to end).
func compareOrdered[K cmp.Ordered](a, b K) int {
	aNaN := a != a
	bNaN := b != b

	if aNaN && bNaN {
		return 0
	}
	if aNaN {
		return 1
	}
	if bNaN {
		return -1
	}
	return cmp.Compare(a, b)
}

// compareBools compares two bool values (false < true)
func compareBools(a, b bool) int {
	if a == b {
		return 0
	}
	if !a && b {
		return -1
	}
	return 1
}

// compareNils handles nil cases in comparison.
// nils sort to the end (after valid values).
func compareNils(aNil, bNil bool) int {
	if aNil && bNil {
		return 0
	}
	if aNil {
		return 1
	}
	return -1
}
