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
	"strings"
)

// Colour identifies one of the eight standard terminal colours.
type Colour uint

const (
	// Black terminal colour
	Black Colour = iota
	// Red terminal colour
	Red
	// Green terminal colour
	Green
	// Yellow terminal colour
	Yellow
	// Blue terminal colour
	Blue
	// Magenta terminal colour
	Magenta
	// Cyan terminal colour
	Cyan
	// White terminal colour
	White
)

// AnsiEscape is an ANSI "select graphic rendition" sequence under
// construction.  Escapes are values, so each modifier returns a new escape.
type AnsiEscape struct {
	codes []string
}

// NewAnsiEscape constructs an escape with no effect.
func NewAnsiEscape() AnsiEscape {
	return AnsiEscape{}
}

// ResetAnsiEscape constructs an escape which cancels all attributes.
func ResetAnsiEscape() AnsiEscape {
	return AnsiEscape{[]string{"0"}}
}

// Bold returns this escape with bold text enabled.
func (p AnsiEscape) Bold() AnsiEscape {
	return p.with("1")
}

// Underline returns this escape with underlining enabled.
func (p AnsiEscape) Underline() AnsiEscape {
	return p.with("4")
}

// FgColour returns this escape with a given foreground colour.
func (p AnsiEscape) FgColour(col Colour) AnsiEscape {
	return p.with(fmt.Sprintf("%d", 30+col))
}

// BgColour returns this escape with a given background colour.
func (p AnsiEscape) BgColour(col Colour) AnsiEscape {
	return p.with(fmt.Sprintf("%d", 40+col))
}

// Build constructs the final escape sequence.
func (p AnsiEscape) Build() string {
	if len(p.codes) == 0 {
		return ""
	}
	//
	return "\033[" + strings.Join(p.codes, ";") + "m"
}

// Wrap surrounds some text with this escape, followed by a reset.  If escapes
// are disabled, the text is returned unchanged.
func (p AnsiEscape) Wrap(enable bool, text string) string {
	if !enable || len(p.codes) == 0 {
		return text
	}
	//
	return p.Build() + text + ResetAnsiEscape().Build()
}

func (p AnsiEscape) with(code string) AnsiEscape {
	codes := make([]string, len(p.codes), len(p.codes)+1)
	copy(codes, p.codes)
	//
	return AnsiEscape{append(codes, code)}
}
