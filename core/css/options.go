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

package css

// Options holds the CSS applied to the grid's table, header row and body rows.
type Options struct {
	Table  *Builder
	Header *Builder
	Row    *Builder
}

// NewOptions returns options with empty builders.
func NewOptions() *Options {
	return &Options{Table: New(), Header: New(), Row: New()}
}

// Clone returns a deep copy.
func (o *Options) Clone() *Options {
	return &Options{
		Table:  o.Table.Clone(),
		Header: o.Header.Clone(),
		Row:    o.Row.Clone(),
	}
}

// Resolved is the attribute form of Options.
type Resolved struct {
	Table  Attrs
	Header Attrs
	Row    Attrs
}

// Resolve turns the builders into attributes.
func (o *Options) Resolve() Resolved {
	return Resolved{
		Table:  o.Table.Attrs(),
		Header: o.Header.Attrs(),
		Row:    o.Row.Attrs(),
	}
}
