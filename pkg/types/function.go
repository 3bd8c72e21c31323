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

// Function represents a functional type, such as (Int, String) -> Boolean.  A
// functional type may additionally have a receiver, as in String.(Int) -> Char.
// Subtyping between functional types is structural: parameter types (and the
// receiver) are contravariant, whilst the return type is covariant.
type Function struct {
	// Receiver type (or nil if none).
	receiver Type
	params   []Type
	ret      Type
	// Indicates whether or not null is permitted.
	nullable bool
}

var _ Type = &Function{}

// NewFunction constructs a (non-null) functional type without a receiver.
func NewFunction(params []Type, ret Type) *Function {
	return &Function{nil, params, ret, false}
}

// NewReceiverFunction constructs a (non-null) functional type with a receiver.
func NewReceiverFunction(receiver Type, params []Type, ret Type) *Function {
	return &Function{receiver, params, ret, false}
}

// Receiver returns the receiver type, or nil if there is none.
func (p *Function) Receiver() Type {
	return p.receiver
}

// Params returns the parameter types.
func (p *Function) Params() []Type {
	return p.params
}

// Return returns the return type.
func (p *Function) Return() Type {
	return p.ret
}

// Arity returns the number of parameters, not including the receiver.
func (p *Function) Arity() int {
	return len(p.params)
}

// Nullable implementation for Type interface.
func (p *Function) Nullable() bool {
	return p.nullable
}

// Equals implementation for the hash.Hasher interface.
func (p *Function) Equals(other Type) bool {
	if o, ok := other.(*Function); ok {
		if p.nullable != o.nullable || (p.receiver == nil) != (o.receiver == nil) {
			return false
		} else if p.receiver != nil && !p.receiver.Equals(o.receiver) {
			return false
		}
		//
		return equalTypes(p.params, o.params) && p.ret.Equals(o.ret)
	}
	//
	return false
}

// Hash implementation for the hash.Hasher interface.
func (p *Function) Hash() uint64 {
	hashes := []uint64{hash.String("->"), nullHash(p.nullable), p.ret.Hash()}
	//
	if p.receiver != nil {
		hashes = append(hashes, p.receiver.Hash())
	}
	//
	for _, param := range p.params {
		hashes = append(hashes, param.Hash())
	}
	//
	return hash.Combine(hashes...)
}

func (p *Function) String() string {
	var builder strings.Builder
	//
	if p.nullable {
		builder.WriteString("(")
	}
	//
	if p.receiver != nil {
		builder.WriteString(p.receiver.String())
		builder.WriteString(".")
	}
	//
	builder.WriteString("(")
	builder.WriteString(typesToString(p.params))
	builder.WriteString(") -> ")
	builder.WriteString(p.ret.String())
	//
	if p.nullable {
		builder.WriteString(")?")
	}
	//
	return builder.String()
}
