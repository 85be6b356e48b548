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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilder(t *testing.T) {
	t.Run("Should_dedupe_classes", func(t *testing.T) {
		a := New().AddClass("table  table-sm").AddClass("table striped").Attrs()
		assert.Equal(t, "table table-sm striped", a.Class)
	})

	t.Run("Should_drop_invalid_class_names", func(t *testing.T) {
		a := New().AddClass(`ok "><script> 9bad`).Attrs()
		assert.Equal(t, "ok", a.Class)
	})

	t.Run("Should_keep_last_declaration_per_property", func(t *testing.T) {
		a := New().AddStyle("color: red; Font-Weight: bold").AddStyle("color:blue").Attrs()
		assert.Equal(t, "color: blue; font-weight: bold;", a.Style.String())
	})

	t.Run("Should_drop_unsafe_declarations", func(t *testing.T) {
		a := New().
			AddStyle(`background: url(javascript:alert(1))`).
			AddStyle(`width: expression(alert(1))`).
			Set("color", `red" onclick="x`).
			Set("margin", "0 auto").
			Attrs()
		assert.Equal(t, "margin: 0 auto;", a.Style.String())
	})

	t.Run("Should_report_empty", func(t *testing.T) {
		assert.True(t, New().Attrs().IsEmpty())
		assert.True(t, (*Builder)(nil).Attrs().IsEmpty())
		assert.False(t, New().AddClass("x").Attrs().IsEmpty())
	})

	t.Run("Should_render_attribute_form", func(t *testing.T) {
		a := New().AddClass("warn").Set("color", "red").Attrs()
		assert.Equal(t, `class="warn" style="color: red;"`, a.String())
	})

	t.Run("Should_merge_without_touching_source", func(t *testing.T) {
		base := New().AddClass("a").Set("color", "red")
		other := New().AddClass("b").Set("color", "blue")
		base.Merge(other)
		assert.Equal(t, "a b", base.Attrs().Class)
		assert.Equal(t, "color: blue;", base.Attrs().Style.String())
		assert.Equal(t, "b", other.Attrs().Class)
	})
}

func TestOptions(t *testing.T) {
	o := NewOptions()
	o.Table.AddClass("table")
	c := o.Clone()
	c.Table.AddClass("table-dark")
	c.Row.Set("height", "2em")

	r := o.Resolve()
	assert.Equal(t, "table", r.Table.Class)
	assert.True(t, r.Row.IsEmpty())

	rc := c.Resolve()
	assert.Equal(t, "table table-dark", rc.Table.Class)
	assert.Equal(t, "height: 2em;", rc.Row.Style.String())
}
