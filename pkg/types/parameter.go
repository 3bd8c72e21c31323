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
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/consensys/go-infer/pkg/util/collection/hash"
)

// Variance identifies how a type parameter varies with respect to subtyping.
type Variance uint8

const (
	// Invariant parameters require type arguments to be equal.
	Invariant Variance = iota
	// Covariant ("out") parameters follow the direction of subtyping.
	Covariant
	// Contravariant ("in") parameters reverse the direction of subtyping.
	Contravariant
)

func (p Variance) String() string {
	switch p {
	case Covariant:
		return "out"
	case Contravariant:
		return "in"
	default:
		return ""
	}
}

// ErrRecursiveBound is returned when the bounds of a type parameter refer back
// to the parameter itself through a chain of other type parameters (e.g.
// T : U, U : T).
var ErrRecursiveBound = errors.New("recursive type parameter bound")

// Identifiers are unique across the process, such that fresh copies of
// parameters made concurrently by different workers never collide.
var nextParameterId atomic.Uint64

// TypeParameter represents a type parameter declared on a function or class.
// Every type parameter has a unique identity, a variance and zero or more
// upper bounds.  Bounds may be given eagerly or deferred, in which case they
// are computed once on first use.  This allows self-referential bounds such as
// T : Comparable<T> to be constructed.
type TypeParameter struct {
	id       uint64
	name     string
	variance Variance
	// Thunk for computing bounds (if deferred).
	thunk func() []Type
	once  sync.Once
	// Resolved bounds
	bounds []Type
}

// NewTypeParameter constructs a type parameter with a given set of (possibly
// empty) bounds.
func NewTypeParameter(name string, variance Variance, bounds ...Type) *TypeParameter {
	return &TypeParameter{id: nextParameterId.Add(1), name: name, variance: variance, bounds: bounds}
}

// NewDeferredTypeParameter constructs a type parameter whose bounds are
// determined on first use by the given thunk.  The thunk should only
// construct types, and must not query the bounds of any type parameter.
func NewDeferredTypeParameter(name string, variance Variance, thunk func() []Type) *TypeParameter {
	return &TypeParameter{id: nextParameterId.Add(1), name: name, variance: variance, thunk: thunk}
}

// Id returns the unique identifier of this type parameter.
func (p *TypeParameter) Id() uint64 {
	return p.id
}

// Name returns the declared name of this type parameter.
func (p *TypeParameter) Name() string {
	return p.name
}

// Variance returns the declared variance of this type parameter.
func (p *TypeParameter) Variance() Variance {
	return p.variance
}

// Bounds returns the declared upper bounds of this type parameter, resolving
// them if they were deferred.
func (p *TypeParameter) Bounds() []Type {
	p.once.Do(func() {
		if p.thunk != nil {
			p.bounds = p.thunk()
			p.thunk = nil
		}
	})
	//
	return p.bounds
}

// HasDeclaredBounds determines whether or not this type parameter has any
// explicitly declared bounds.
func (p *TypeParameter) HasDeclaredBounds() bool {
	return len(p.Bounds()) > 0
}

// EffectiveBounds returns the bounds of this type parameter after following
// any bounds which are themselves type parameters.  An error is returned if
// this chain is cyclic.
func (p *TypeParameter) EffectiveBounds() ([]Type, error) {
	var (
		visited  = map[*TypeParameter]bool{p: true}
		result   []Type
		worklist = []*TypeParameter{p}
	)
	//
	for len(worklist) > 0 {
		next := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		//
		for _, b := range next.Bounds() {
			if q, ok := b.(*Parameter); ok {
				if visited[q.param] {
					return nil, fmt.Errorf("%w: %s", ErrRecursiveBound, p.name)
				}
				//
				visited[q.param] = true
				worklist = append(worklist, q.param)
			} else {
				result = append(result, b)
			}
		}
	}
	//
	return result, nil
}

func (p *TypeParameter) String() string {
	return p.name
}

// Fresh creates a copy of the given type parameters with new identities.  The
// bounds of the copies are rewritten in terms of the copies themselves, and
// are deferred so that the originals' bounds are not forced.  The renaming
// substitution from originals to copies is also returned.
func Fresh(params []*TypeParameter) ([]*TypeParameter, Substitution) {
	var (
		fresh = make([]*TypeParameter, len(params))
		subst = NewSubstitution()
	)
	//
	for i, param := range params {
		orig := param
		fresh[i] = NewDeferredTypeParameter(param.name, param.variance, func() []Type {
			bounds := orig.Bounds()
			result := make([]Type, len(bounds))
			//
			for j, b := range bounds {
				result[j] = subst.Apply(b)
			}
			//
			return result
		})
		//
		subst.mapping[param] = NewParameter(fresh[i])
	}
	//
	return fresh, subst
}

// ============================================================================
// Parameter
// ============================================================================

// Parameter represents a reference to a type parameter.  Type parameters are
// referenced, never copied.
type Parameter struct {
	param *TypeParameter
	// Indicates whether or not null is explicitly permitted.
	nullable bool
}

var _ Type = &Parameter{}

// NewParameter constructs a (non-null) reference to a given type parameter.
func NewParameter(param *TypeParameter) *Parameter {
	return &Parameter{param, false}
}

// Param returns the type parameter being referenced.
func (p *Parameter) Param() *TypeParameter {
	return p.param
}

// Nullable implementation for Type interface.
func (p *Parameter) Nullable() bool {
	return p.nullable
}

// Equals implementation for the hash.Hasher interface.
func (p *Parameter) Equals(other Type) bool {
	if o, ok := other.(*Parameter); ok {
		return p.param == o.param && p.nullable == o.nullable
	}
	//
	return false
}

// Hash implementation for the hash.Hasher interface.
func (p *Parameter) Hash() uint64 {
	return hash.Combine(p.param.id, nullHash(p.nullable))
}

func (p *Parameter) String() string {
	if p.nullable {
		return p.param.name + "?"
	}
	//
	return p.param.name
}
