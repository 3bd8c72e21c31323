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

	"github.com/consensys/go-infer/pkg/util/source"
)

// Severity determines how seriously a diagnostic should be taken.  Only
// errors prevent later stages from running.
type Severity uint8

const (
	// Error diagnostics block code generation.
	Error Severity = iota
	// Warning diagnostics indicate likely, but not certain, problems.
	Warning
	// Info diagnostics are purely informational.
	Info
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "info"
	}
}

// Code classifies the root cause of a diagnostic.
type Code uint8

const (
	// TypeMismatch indicates a contradiction between two constraints.
	TypeMismatch Code = iota
	// AmbiguousOverload indicates two or more candidates tied for winner.
	AmbiguousOverload
	// NoApplicableCandidate indicates every candidate was rejected.
	NoApplicableCandidate
	// UnresolvedReference indicates no candidates were found by name.
	UnresolvedReference
	// InferenceIncomplete indicates a type parameter of the return type could
	// not be inferred.
	InferenceIncomplete
	// InferenceRecursionLimitExceeded indicates resolution recursed too
	// deeply.
	InferenceRecursionLimitExceeded
)

var codeNames = []string{
	"TypeMismatch",
	"AmbiguousOverload",
	"NoApplicableCandidate",
	"UnresolvedReference",
	"InferenceIncomplete",
	"InferenceRecursionLimitExceeded",
}

func (c Code) String() string {
	return codeNames[c]
}

// Related is a secondary position attached to a diagnostic, such as a
// candidate which was considered.
type Related struct {
	Span    source.Span
	Message string
}

// Diagnostic is a structured record describing one problem found at one
// position.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Span     source.Span
	Message  string
	Related  []Related
}

// Errorf constructs an error diagnostic with a formatted message.
func Errorf(code Code, span source.Span, format string, args ...any) Diagnostic {
	return Diagnostic{Error, code, span, fmt.Sprintf(format, args...), nil}
}

// WithRelated returns a copy of this diagnostic with an additional related
// position.
func (d Diagnostic) WithRelated(span source.Span, format string, args ...any) Diagnostic {
	related := make([]Related, len(d.Related), len(d.Related)+1)
	copy(related, d.Related)
	d.Related = append(related, Related{span, fmt.Sprintf(format, args...)})
	//
	return d
}

// IsError determines whether this diagnostic has error severity.
func (d Diagnostic) IsError() bool {
	return d.Severity == Error
}

// Compare orders diagnostics by position, then by code and message.  This
// gives a deterministic order regardless of the order in which they were
// reported.
func (d Diagnostic) Compare(other Diagnostic) int {
	if c := d.Span.Compare(other.Span); c != 0 {
		return c
	} else if d.Code != other.Code {
		return int(d.Code) - int(other.Code)
	} else if d.Message < other.Message {
		return -1
	} else if d.Message > other.Message {
		return 1
	}
	//
	return 0
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s[%s]: %s", d.Span, d.Severity, d.Code, d.Message)
}
