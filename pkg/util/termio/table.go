// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package termio

import (
	"fmt"
	"io"
	"strings"
)

// TablePrinter lays out rows of cells in aligned columns.  Cells wider than
// their column's maximum width are truncated with "..".
type TablePrinter struct {
	widths    []uint
	maxWidths []uint
	rows      [][]string
	escapes   [][]AnsiEscape
	colour    bool
}

// NewTablePrinter constructs an empty table with a given number of columns.
func NewTablePrinter(columns uint) *TablePrinter {
	return &TablePrinter{widths: make([]uint, columns), maxWidths: make([]uint, columns)}
}

// AddRow appends a row to this table, which must have exactly one value per
// column.
func (p *TablePrinter) AddRow(vals ...string) {
	if len(vals) != len(p.widths) {
		panic("incorrect number of columns")
	}
	//
	for i, v := range vals {
		p.widths[i] = max(p.widths[i], uint(len(v)))
	}
	//
	p.rows = append(p.rows, vals)
	p.escapes = append(p.escapes, make([]AnsiEscape, len(vals)))
}

// Height returns the number of rows in this table.
func (p *TablePrinter) Height() uint {
	return uint(len(p.rows))
}

// Get the contents of a given cell.
func (p *TablePrinter) Get(col uint, row uint) string {
	return p.rows[row][col]
}

// SetEscape sets the escape used when printing a given cell.
func (p *TablePrinter) SetEscape(col uint, row uint, escape AnsiEscape) {
	p.escapes[row][col] = escape
}

// AnsiEscapes enables or disables the use of ANSI escapes.  These should be
// disabled when output is not a terminal.
func (p *TablePrinter) AnsiEscapes(enable bool) {
	p.colour = enable
}

// SetMaxWidth puts an upper bound on the width of a given column.  A bound of
// zero means unbounded.
func (p *TablePrinter) SetMaxWidth(col uint, width uint) {
	p.maxWidths[col] = width
}

// Print this table to a given writer.
func (p *TablePrinter) Print(out io.Writer) {
	for i, row := range p.rows {
		var builder strings.Builder
		//
		for j, cell := range row {
			width := p.width(uint(j))
			//
			if uint(len(cell)) > width && width > 2 {
				cell = cell[:width-2] + ".."
			}
			//
			if j+1 < len(row) {
				cell = fmt.Sprintf("%-*s", width, cell)
			}
			//
			if j > 0 {
				builder.WriteString("  ")
			}
			//
			builder.WriteString(p.escapes[i][j].Wrap(p.colour, cell))
		}
		//
		fmt.Fprintln(out, strings.TrimRight(builder.String(), " "))
	}
}

func (p *TablePrinter) width(col uint) uint {
	if p.maxWidths[col] != 0 {
		return min(p.widths[col], p.maxWidths[col])
	}
	//
	return p.widths[col]
}
