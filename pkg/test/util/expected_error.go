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
	"fmt"
	"strconv"
	"strings"

	"github.com/consensys/go-infer/pkg/util/source"
)

// ExpectedError extracts an expected diagnostic from a line of the form
// ";;error:LINE:START-END:MESSAGE", where columns are numbered from 1 and the
// end column is exclusive.
func ExpectedError(lineno int, lines []source.Line, srcfile *source.File) (bool, source.SyntaxError, error) {
	var contents = lines[lineno].String()
	//
	if !strings.HasPrefix(contents, ";;error") {
		return false, source.SyntaxError{}, nil
	}
	//
	line, start, end, msg, err := parseExpectedError(contents)
	//
	if err == nil {
		var span source.Span
		//
		if span, err = determineFileSpan(line, start, end, lines); err == nil {
			return true, *srcfile.SyntaxError(span, msg), nil
		}
	}
	//
	return true, source.SyntaxError{}, err
}

func parseExpectedError(contents string) (line, start, end int, msg string, err error) {
	var splits = strings.Split(contents, ":")
	//
	if len(splits) < 4 {
		return 0, 0, 0, "", fmt.Errorf("malformed expected error \"%s\", should be e.g. \";;error:X:Y-Z:msg\"", contents)
	}
	// Parse line number
	if line, err = strconv.Atoi(splits[1]); err != nil {
		return 0, 0, 0, "", fmt.Errorf("invalid span \"%s:%s\" (%s)", splits[1], splits[2], err.Error())
	} else if line == 0 {
		return 0, 0, 0, "", fmt.Errorf("invalid span \"%s:%s\" (lines numbered from 1)", splits[1], splits[2])
	}
	//
	if start, end, err = parseColumns(splits[2]); err != nil {
		return 0, 0, 0, "", err
	}
	// Messages may themselves contain colons
	return line, start, end, strings.Join(splits[3:], ":"), nil
}

func parseColumns(columns string) (start, end int, err error) {
	var splits = strings.Split(columns, "-")
	//
	if len(splits) != 2 {
		return 0, 0, fmt.Errorf("invalid span \"%s\" (malformed, should be X-Y)", columns)
	}
	//
	if start, err = strconv.Atoi(splits[0]); err != nil {
		return 0, 0, fmt.Errorf("invalid span \"%s\" (%s)", columns, err.Error())
	} else if start == 0 {
		return 0, 0, fmt.Errorf("invalid span \"%s\" (columns numbered from 1)", columns)
	} else if end, err = strconv.Atoi(splits[1]); err != nil {
		return 0, 0, fmt.Errorf("invalid span \"%s\" (%s)", columns, err.Error())
	} else if end < start {
		return 0, 0, fmt.Errorf("invalid span \"%s\" (end before start)", columns)
	}
	//
	return start, end, nil
}

// Determine the file span corresponding to a given line and (1-based) column
// range on that line.
func determineFileSpan(lineno, start, end int, lines []source.Line) (source.Span, error) {
	if lineno > len(lines) {
		return source.Span{}, fmt.Errorf("invalid span \"%d:%d-%d\" (non-existent line)", lineno, start, end)
	}
	//
	line := lines[lineno-1]
	//
	if start > line.Length() || end > line.Length()+1 {
		return source.Span{}, fmt.Errorf("invalid span \"%d:%d-%d\" (overflows to following line)", lineno, start, end)
	}
	//
	return source.NewSpan(line.Start()+start-1, line.Start()+end-1), nil
}
