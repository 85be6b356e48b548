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

package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("Should_filter_by_level", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLogger(&Config{Level: WarnLevel, Output: &buf, TimeFormat: "15:04:05"})
		l.Debug("debug message")
		l.Info("info message")
		l.Warn("warn message")
		l.Error("error message")

		out := buf.String()
		assert.NotContains(t, out, "debug message")
		assert.NotContains(t, out, "info message")
		assert.Contains(t, out, "warn message")
		assert.Contains(t, out, "error message")
	})

	t.Run("Should_write_json", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLogger(&Config{Level: DebugLevel, Output: &buf, JSON: true})
		l.With("grid", "movies").Debug("rendered", "rows", 10)

		out := buf.String()
		assert.Contains(t, out, `"msg":"rendered"`)
		assert.Contains(t, out, `"grid":"movies"`)
		assert.Contains(t, out, `"rows":10`)
	})

	t.Run("Should_discard_when_disabled", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLogger(&Config{Level: DisabledLevel, Output: &buf})
		l.Error("error message")
		assert.Empty(t, buf.String())
	})
}

func TestLevels(t *testing.T) {
	assert.Equal(t, -4, int(DebugLevel.ToCharmlogLevel()))
	assert.Equal(t, 0, int(InfoLevel.ToCharmlogLevel()))
	assert.Equal(t, 4, int(LogLevel("WARN").ToCharmlogLevel()))
	assert.Equal(t, 8, int(ErrorLevel.ToCharmlogLevel()))
	assert.Equal(t, 0, int(LogLevel("verbose").ToCharmlogLevel()))
}

func TestFromContext(t *testing.T) {
	t.Run("Should_return_logger_from_context", func(t *testing.T) {
		l := Nop()
		got := FromContext(ContextWithLogger(context.Background(), l))
		assert.Same(t, l, got)
	})

	t.Run("Should_fall_back_to_default", func(t *testing.T) {
		require.NotNil(t, FromContext(context.Background()))

		prev := Default()
		defer SetDefault(prev)
		l := Nop()
		SetDefault(l)
		assert.Same(t, l, FromContext(context.Background()))
	})
}
