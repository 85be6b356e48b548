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

package rendering

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/google/tabula/core/views"
)

// RenderText writes the grid as a plain text table followed by a summary line.
func RenderText(w io.Writer, vm *views.Grid) error {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	if vm.DisplayHeader {
		header := make([]string, 0, len(vm.Headers))
		for _, h := range vm.Headers {
			label := h.Text
			if h.IsSorted() {
				if h.IsDescending() {
					label += " (desc)"
				} else {
					label += " (asc)"
				}
			}
			header = append(header, label)
		}
		table.SetHeader(header)
	}

	for _, row := range vm.Rows {
		cells := make([]string, 0, len(row.Cells))
		for _, c := range row.Cells {
			cells = append(cells, c.Text)
		}
		table.Append(cells)
	}

	table.Render()

	if summary := textSummary(vm); summary != "" {
		if _, err := fmt.Fprintln(w, summary); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	return nil
}

func textSummary(vm *views.Grid) string {
	switch {
	case len(vm.Rows) == 0:
		return vm.NoRecordsMessage
	case vm.Pager != nil:
		return fmt.Sprintf("Page %d of %d, records %d-%d of %s",
			vm.Pager.Page, vm.Pager.PageCount, vm.Pager.FirstRecord, vm.Pager.LastRecord, vm.Pager.Total)
	default:
		return ""
	}
}
