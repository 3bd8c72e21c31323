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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Table_01(t *testing.T) {
	var (
		table = NewTablePrinter(2)
		out   strings.Builder
	)
	//
	table.AddRow("x", "Int")
	table.AddRow("longer", "List<String>")
	table.Print(&out)
	//
	assert.Equal(t, "x       Int\nlonger  List<String>\n", out.String())
	assert.Equal(t, uint(2), table.Height())
	assert.Panics(t, func() { table.AddRow("x") })
}

func Test_Table_02(t *testing.T) {
	var (
		table = NewTablePrinter(2)
		out   strings.Builder
	)
	//
	table.AddRow("abcdefgh", "x")
	table.SetMaxWidth(0, 5)
	table.SetEscape(1, 0, NewAnsiEscape().FgColour(Green))
	table.AnsiEscapes(true)
	table.Print(&out)
	//
	assert.Equal(t, "abc..  \033[32mx\033[0m\n", out.String())
}
