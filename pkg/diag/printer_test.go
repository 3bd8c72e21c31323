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
	"strings"
	"testing"

	"github.com/consensys/go-infer/pkg/util/source"
	"github.com/stretchr/testify/assert"
)

func Test_Printer_01(t *testing.T) {
	var (
		out     strings.Builder
		srcfile = source.NewSourceFile("test.lisp", []byte("(defun f ((x Int)) Unit)\n(defval y (g))\n"))
		printer = NewPrinter(&out, srcfile)
		// span of "(g)" on the second line
		span = source.NewSpan(35, 38)
	)
	//
	d := Errorf(UnresolvedReference, span, "unknown function g").WithRelated(source.NewSpan(1, 6), "nearest")
	printer.Print(d)
	//
	expected := strings.Join([]string{
		"test.lisp:2:11-14 error[UnresolvedReference] unknown function g",
		"(defval y (g))",
		"          ^^^",
		"  test.lisp:1:2-7 note: nearest",
		"",
	}, "\n")
	assert.Equal(t, expected, out.String())
}

func Test_Printer_02(t *testing.T) {
	var (
		out     strings.Builder
		srcfile = source.NewSourceFile("test.lisp", []byte("(f 1)"))
		printer = NewPrinter(&out, srcfile).WithColour(true).WithWidth(2)
	)
	//
	printer.Print(Errorf(TypeMismatch, source.NewSpan(3, 4), "mismatch"))
	// Line is too wide to show
	assert.Equal(t, "test.lisp:1:4-5 \033[1;31merror[TypeMismatch]\033[0m mismatch\n", out.String())
}
