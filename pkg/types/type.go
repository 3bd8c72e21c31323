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
	"github.com/consensys/go-infer/pkg/util/collection/hash"
)

// Type embodies a type in the frontend semantic model.  A type is either
// nominal (an instance of a declared class), a reference to a type parameter,
// functional, an approximate literal type, or one of the special types (star
// projection, error and dynamic).  Types are immutable once constructed: new
// types are produced by substitution, never mutated in place.
type Type interface {
	hash.Hasher[Type]
	// Nullable determines whether this type carries the nullable flag.  Observe
	// that a type parameter may still admit null through its bounds, even when
	// this flag is not set.
	Nullable() bool
	// Produce a string representation of this type.
	String() string
}

// MakeNullable returns the nullable variant of a given type.  Special types
// are returned unchanged.
func MakeNullable(t Type) Type {
	return withNullability(t, true)
}

// MakeNonNull returns the non-null variant of a given type.  Special types are
// returned unchanged.
func MakeNonNull(t Type) Type {
	return withNullability(t, false)
}

func withNullability(t Type, nullable bool) Type {
	if t.Nullable() == nullable {
		return t
	}
	//
	switch t := t.(type) {
	case *Nominal:
		return &Nominal{t.class, t.args, nullable}
	case *Parameter:
		return &Parameter{t.param, nullable}
	case *Function:
		return &Function{t.receiver, t.params, t.ret, nullable}
	default:
		return t
	}
}

// IsError determines whether a given type is the error type.
func IsError(t Type) bool {
	return t == Error
}

// IsSpecial determines whether a given type is either the error or the
// dynamic type, both of which are compatible with every other type.
func IsSpecial(t Type) bool {
	return t == Error || t == Dynamic
}

// MayBeNull determines whether a value of the given type may be null.  This
// differs from Nullable for type parameters, whose bounds may admit null.
func MayBeNull(t Type) bool {
	return mayBeNull(t, nil)
}

func mayBeNull(t Type, visited []*TypeParameter) bool {
	if t.Nullable() {
		return true
	} else if p, ok := t.(*Parameter); ok {
		for _, v := range visited {
			if v == p.param {
				// cyclic bounds admit nothing further
				return false
			}
		}
		//
		visited = append(visited, p.param)
		//
		for _, b := range p.param.Bounds() {
			if !mayBeNull(b, visited) {
				return false
			}
		}
		// Either no bounds (hence implicitly Any?) or all bounds nullable.
		return true
	}
	//
	return false
}

// Mentions determines whether a given type refers to any type parameter
// satisfying the given predicate.
func Mentions(t Type, pred func(*TypeParameter) bool) bool {
	switch t := t.(type) {
	case *Parameter:
		return pred(t.param)
	case *Nominal:
		for _, arg := range t.args {
			if Mentions(arg, pred) {
				return true
			}
		}
	case *Function:
		if t.receiver != nil && Mentions(t.receiver, pred) {
			return true
		}
		//
		for _, p := range t.params {
			if Mentions(p, pred) {
				return true
			}
		}
		//
		return Mentions(t.ret, pred)
	}
	//
	return false
}

// ParametersOf returns the distinct type parameters referred to by a given
// type, in order of first occurrence.
func ParametersOf(t Type) []*TypeParameter {
	var params []*TypeParameter
	//
	Mentions(t, func(p *TypeParameter) bool {
		for _, q := range params {
			if p == q {
				return false
			}
		}
		//
		params = append(params, p)
		//
		return false
	})
	//
	return params
}
