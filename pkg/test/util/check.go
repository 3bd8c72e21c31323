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
package util

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"testing"

	"github.com/consensys/go-infer/pkg/compiler"
	"github.com/consensys/go-infer/pkg/config"
	"github.com/consensys/go-infer/pkg/util/source"
)

// TestDir determines the (relative) location of the test directory.  Valid
// programs are found in its "valid" subdirectory, and invalid programs in its
// "invalid" subdirectory.
const TestDir = "../../testdata"

// CheckValid checks that a given program resolves without any diagnostics,
// and that each of its ";;type" annotations holds.
func CheckValid(t *testing.T, test string) {
	var filename = fmt.Sprintf("%s/valid/%s.lisp", TestDir, test)
	// Enable testing each file in parallel
	t.Parallel()
	//
	srcfile := readSourceFile(t, filename)
	expected, errs := ExtractAttributes(srcfile, ExpectedType)
	//
	if len(errs) > 0 {
		t.Fatal(errors.Join(errs...))
	}
	//
	result, actual := compile(t, srcfile)
	//
	if len(actual) > 0 {
		msg := fmt.Sprintf("Error %s should have resolved\n", filename)
		//
		for _, err := range actual {
			msg = fmt.Sprintf("%s unexpected error %s", msg, errorToString(err))
		}
		//
		t.Fatal(msg)
	}
	//
	types := make(map[string]string)
	//
	for _, r := range result.Resolutions {
		types[r.Decl.Name()] = r.Type.String()
	}
	//
	for _, e := range expected {
		if actual, ok := types[e.Name]; !ok {
			t.Errorf("%s:%d unknown declaration %s", filename, e.Line, e.Name)
		} else if actual != e.Type {
			t.Errorf("%s:%d %s has type %s, expected %s", filename, e.Line, e.Name, actual, e.Type)
		}
	}
}

// CheckInvalid checks that a given program produces exactly the set of errors
// given by its ";;error" annotations.  Errors are either syntax errors arising
// from loading, or diagnostics arising from resolution.
func CheckInvalid(t *testing.T, test string) {
	var filename = fmt.Sprintf("%s/invalid/%s.lisp", TestDir, test)
	// Enable testing each file in parallel
	t.Parallel()
	//
	srcfile := readSourceFile(t, filename)
	expected, errs := ExtractAttributes(srcfile, ExpectedError)
	//
	if len(errs) > 0 {
		t.Fatal(errors.Join(errs...))
	}
	//
	_, actual := compile(t, srcfile)
	//
	checkExpectedErrors(t, srcfile, actual, expected)
}

// Load and check a given source file, returning the result (if it loaded) and
// all errors encountered.
func compile(t *testing.T, srcfile *source.File) (*compiler.Result, []source.SyntaxError) {
	var (
		c         = compiler.NewCompiler(config.Default())
		unit, err = c.Load(srcfile)
	)
	//
	if len(err) > 0 {
		return nil, err
	}
	//
	result, cerr := c.Check(context.Background(), unit)
	if cerr != nil {
		t.Fatal(cerr)
	}
	//
	errs := make([]source.SyntaxError, 0, len(result.Diagnostics))
	//
	for _, d := range result.Diagnostics {
		if d.IsError() {
			errs = append(errs, *srcfile.SyntaxError(d.Span, d.Message))
		}
	}
	//
	return result, errs
}

func checkExpectedErrors(t *testing.T, srcfile *source.File, actual, expected []source.SyntaxError) {
	if len(actual) == 0 {
		t.Fatalf("Error %s should not have resolved\n", srcfile.Filename())
	}
	// Compare independently of reporting order
	slices.SortFunc(actual, compareErrors)
	slices.SortFunc(expected, compareErrors)
	//
	failed := false
	msg := fmt.Sprintf("Error %s\n", srcfile.Filename())
	//
	for i := 0; i < max(len(actual), len(expected)); i++ {
		if i < len(actual) && i < len(expected) && compareErrors(actual[i], expected[i]) == 0 {
			continue
		}
		//
		failed = true
		//
		if i < len(actual) {
			msg = fmt.Sprintf("%s unexpected error %s", msg, errorToString(actual[i]))
		}
		//
		if i < len(expected) {
			msg = fmt.Sprintf("%s   expected error %s", msg, errorToString(expected[i]))
		}
	}
	//
	if failed {
		t.Fatal(msg)
	}
}

func compareErrors(lhs, rhs source.SyntaxError) int {
	if c := lhs.Span().Compare(rhs.Span()); c != 0 {
		return c
	}
	//
	return cmp.Compare(lhs.Message(), rhs.Message())
}

func readSourceFile(t *testing.T, filename string) *source.File {
	bytes, err := os.ReadFile(filename)
	// Check test file read ok
	if err != nil {
		t.Fatal(err)
	}
	//
	return source.NewSourceFile(filename, bytes)
}

// Convert an error into the same form as its annotation.
func errorToString(err source.SyntaxError) string {
	span := err.Span()
	line := err.FirstEnclosingLine()
	offset := span.Start() - line.Start()
	// Truncate spans which cross lines
	length := min(line.Length()-offset, span.Length())
	//
	return fmt.Sprintf(";;error:%d:%d-%d:%s\n", line.Number(), 1+offset, 1+offset+length, err.Message())
}
