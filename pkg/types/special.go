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
package types

import (
	"strings"

	"github.com/consensys/go-infer/pkg/util/collection/hash"
)

// Star is the star projection (as in List<*>), which can only appear as a type
// argument.  A star-projected type is a supertype of every instantiation of
// its class.
var Star Type = &specialType{"*", 1}

// Error is the type given to expressions whose resolution failed.  It is
// compatible with every type, such that a single failure does not cascade into
// further diagnostics.
var Error Type = &specialType{"<error>", 2}

// Dynamic is the type of values whose type is checked only at runtime.  Like
// Error, it is compatible with every type.
var Dynamic Type = &specialType{"dynamic", 3}

type specialType struct {
	name string
	tag  uint64
}

func (p *specialType) Nullable() bool {
	return false
}

func (p *specialType) Equals(other Type) bool {
	return p == other
}

func (p *specialType) Hash() uint64 {
	return p.tag
}

func (p *specialType) String() string {
	return p.name
}

// ============================================================================
// Literal
// ============================================================================

// Literal is the approximate type of a numeric literal.  This remains
// compatible with any of its candidate numeric types until it is committed to
// one of them during call completion.  Candidates are ordered by preference,
// with the first being the default.
type Literal struct {
	text       string
	candidates []*Nominal
}

var _ Type = &Literal{}

// Text returns the literal text from which this type was derived.
func (p *Literal) Text() string {
	return p.text
}

// Candidates returns the candidate types, in order of preference.
func (p *Literal) Candidates() []*Nominal {
	return p.candidates
}

// Default returns the preferred candidate type.
func (p *Literal) Default() *Nominal {
	return p.candidates[0]
}

// Accepts checks whether a given class is one of the candidates.
func (p *Literal) Accepts(class *Class) bool {
	for _, c := range p.candidates {
		if c.class == class {
			return true
		}
	}
	//
	return false
}

// Nullable implementation for Type interface.
func (p *Literal) Nullable() bool {
	return false
}

// Equals implementation for the hash.Hasher interface.
func (p *Literal) Equals(other Type) bool {
	if o, ok := other.(*Literal); ok && len(p.candidates) == len(o.candidates) {
		for i, c := range p.candidates {
			if c.class != o.candidates[i].class {
				return false
			}
		}
		//
		return true
	}
	//
	return false
}

// Hash implementation for the hash.Hasher interface.
func (p *Literal) Hash() uint64 {
	hashes := []uint64{hash.String("literal")}
	//
	for _, c := range p.candidates {
		hashes = append(hashes, c.Hash())
	}
	//
	return hash.Combine(hashes...)
}

// String returns the name of the default candidate, since this is what the
// literal is committed to in the absence of other information.
func (p *Literal) String() string {
	return p.candidates[0].String()
}

// Describe returns a representation listing all candidates.
func (p *Literal) Describe() string {
	names := make([]string, len(p.candidates))
	//
	for i, c := range p.candidates {
		names[i] = c.String()
	}
	//
	return "{" + strings.Join(names, " | ") + "}"
}
