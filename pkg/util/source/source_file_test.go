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
package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Lines_01(t *testing.T) {
	lines := NewSourceFile("test.lisp", []byte("(a)\n\n(bc)")).Lines()
	//
	require.Len(t, lines, 3)
	assert.Equal(t, "(a)", lines[0].String())
	assert.Equal(t, "", lines[1].String())
	assert.Equal(t, "(bc)", lines[2].String())
	assert.Equal(t, 5, lines[2].Start())
	assert.Equal(t, 3, lines[2].Number())
}

func Test_Lines_02(t *testing.T) {
	// A trailing newline gives an empty final line
	lines := NewSourceFile("test.lisp", []byte("x\n")).Lines()
	//
	require.Len(t, lines, 2)
	assert.Equal(t, 0, lines[1].Length())
}

func Test_Position_01(t *testing.T) {
	srcfile := NewSourceFile("test.lisp", []byte("(a)\n(bc)"))
	//
	check_Position(t, srcfile, 0, 1, 1)
	check_Position(t, srcfile, 3, 1, 4)
	check_Position(t, srcfile, 4, 2, 1)
	check_Position(t, srcfile, 6, 2, 3)
}

func Test_Position_02(t *testing.T) {
	// Positions beyond the end are attributed to the last line
	srcfile := NewSourceFile("test.lisp", []byte("(a)\n(bc)"))
	//
	check_Position(t, srcfile, 20, 2, 17)
}

func check_Position(t *testing.T, srcfile *File, index int, line int, column int) {
	l, c := srcfile.Position(index)
	//
	assert.Equal(t, line, l)
	assert.Equal(t, column, c)
}
