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
	"strings"

	"github.com/consensys/go-infer/pkg/util/source"
)

// TypeExpectation records the type which a named top-level declaration is
// expected to resolve to.
type TypeExpectation struct {
	Line int
	Name string
	Type string
}

// ExpectedType extracts a type expectation from a line of the form
// ";;type:NAME:TYPE".
func ExpectedType(lineno int, lines []source.Line, _ *source.File) (bool, TypeExpectation, error) {
	var contents = lines[lineno].String()
	//
	if !strings.HasPrefix(contents, ";;type") {
		return false, TypeExpectation{}, nil
	}
	//
	splits := strings.SplitN(contents, ":", 3)
	//
	if len(splits) != 3 || splits[1] == "" || splits[2] == "" {
		return true, TypeExpectation{}, fmt.Errorf("malformed expected type \"%s\", should be e.g. \";;type:x:Int\"",
			contents)
	}
	//
	return true, TypeExpectation{lineno + 1, splits[1], strings.TrimSpace(splits[2])}, nil
}
