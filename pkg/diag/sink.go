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
	"slices"
	"sync"
)

// Sink accumulates the diagnostics of one compilation unit.  Diagnostics may
// be reported concurrently by several workers; each report is appended as a
// whole, and diagnostics are ordered by position when retrieved.
type Sink struct {
	mutex       sync.Mutex
	diagnostics []Diagnostic
	errors      int
}

// NewSink constructs an empty sink.
func NewSink() *Sink {
	return &Sink{}
}

// Report appends zero or more diagnostics to this sink as a single batch.
func (s *Sink) Report(diagnostics ...Diagnostic) {
	if len(diagnostics) == 0 {
		return
	}
	//
	s.mutex.Lock()
	defer s.mutex.Unlock()
	//
	s.diagnostics = append(s.diagnostics, diagnostics...)
	//
	for _, d := range diagnostics {
		if d.IsError() {
			s.errors++
		}
	}
}

// Len returns the number of diagnostics reported so far.
func (s *Sink) Len() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	//
	return len(s.diagnostics)
}

// HasErrors determines whether any error diagnostics have been reported.
func (s *Sink) HasErrors() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	//
	return s.errors > 0
}

// Diagnostics returns a copy of the diagnostics reported so far, sorted by
// position.
func (s *Sink) Diagnostics() []Diagnostic {
	s.mutex.Lock()
	result := slices.Clone(s.diagnostics)
	s.mutex.Unlock()
	//
	slices.SortStableFunc(result, Diagnostic.Compare)
	//
	return result
}
