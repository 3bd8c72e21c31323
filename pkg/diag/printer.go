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
package diag

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/consensys/go-infer/pkg/util/source"
	"github.com/consensys/go-infer/pkg/util/termio"
	"github.com/mattn/go-isatty"
)

// ColourMode determines whether diagnostics are highlighted.
type ColourMode string

const (
	// ColourAuto highlights only when writing to a terminal.
	ColourAuto ColourMode = "auto"
	// ColourAlways highlights unconditionally.
	ColourAlways ColourMode = "always"
	// ColourNever disables highlighting.
	ColourNever ColourMode = "never"
)

// UseColour determines whether output to a given file should be highlighted
// under a given mode.
func UseColour(mode ColourMode, file *os.File) bool {
	switch mode {
	case ColourAlways:
		return true
	case ColourNever:
		return false
	default:
		fd := file.Fd()
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
}

// Printer renders diagnostics against the source file they refer to, showing
// the offending line with the span underlined.
type Printer struct {
	out     io.Writer
	srcfile *source.File
	colour  bool
	width   uint
}

// NewPrinter constructs a printer for diagnostics of a given file.
func NewPrinter(out io.Writer, srcfile *source.File) *Printer {
	return &Printer{out, srcfile, false, termio.DefaultWidth}
}

// WithColour enables or disables highlighting.
func (p *Printer) WithColour(colour bool) *Printer {
	p.colour = colour
	return p
}

// WithWidth sets the maximum width of a printed source line.
func (p *Printer) WithWidth(width uint) *Printer {
	p.width = width
	return p
}

// Location formats a span as "file:line:start-end", where columns count from
// 1 and the end is exclusive.  Spans crossing lines are truncated at the end
// of their first line.
func (p *Printer) Location(span source.Span) string {
	line, offset, length := p.locate(span)
	//
	return fmt.Sprintf("%s:%d:%d-%d", p.srcfile.Filename(), line.Number(), 1+offset, 1+offset+length)
}

// Print a single diagnostic, followed by its related positions.
func (p *Printer) Print(d Diagnostic) {
	var (
		line, offset, length = p.locate(d.Span)
		style                = severityStyle(d.Severity)
		header               = fmt.Sprintf("%s[%s]", d.Severity, d.Code)
	)
	//
	fmt.Fprintf(p.out, "%s %s %s\n", p.Location(d.Span), style.Wrap(p.colour, header), d.Message)
	// Show the offending line, unless it is too wide to be useful.
	if text := line.String(); uint(len(text)) <= p.width {
		fmt.Fprintln(p.out, text)
		fmt.Fprint(p.out, strings.Repeat(" ", offset))
		fmt.Fprintln(p.out, style.Wrap(p.colour, strings.Repeat("^", max(1, length))))
	}
	//
	for _, r := range d.Related {
		fmt.Fprintf(p.out, "  %s note: %s\n", p.Location(r.Span), r.Message)
	}
}

// PrintAll prints every diagnostic in order.
func (p *Printer) PrintAll(diagnostics []Diagnostic) {
	for _, d := range diagnostics {
		p.Print(d)
	}
}

func (p *Printer) locate(span source.Span) (source.Line, int, int) {
	line := p.srcfile.FindFirstEnclosingLine(span)
	offset := span.Start() - line.Start()
	// Calculate length (ensures don't overflow line)
	length := max(0, min(line.Length()-offset, span.Length()))
	//
	return line, offset, length
}

func severityStyle(severity Severity) termio.AnsiEscape {
	switch severity {
	case Error:
		return termio.NewAnsiEscape().Bold().FgColour(termio.Red)
	case Warning:
		return termio.NewAnsiEscape().Bold().FgColour(termio.Yellow)
	default:
		return termio.NewAnsiEscape().FgColour(termio.Cyan)
	}
}
