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
	"sync"
	"sync/atomic"

	"github.com/consensys/go-infer/pkg/util/collection/hash"
)

// Specificity is the outcome of comparing two types by how narrowly they
// match.
type Specificity uint8

const (
	// Neither type is strictly more specific than the other.
	Neither Specificity = iota
	// Left indicates the first type is strictly more specific.
	Left
	// Right indicates the second type is strictly more specific.
	Right
)

// Lattice provides the subtyping lattice over the types of one compilation
// unit.  Subtype checks are memoised in a cache keyed by the pair of types
// being compared, which must be reset at compilation unit boundaries.  A
// lattice can be safely shared by concurrent workers.
type Lattice struct {
	universe *Universe
	// Maximum nesting depth when computing upper bounds of type arguments.
	lubDepth uint
	// Memoised subtype checks
	mutex sync.RWMutex
	cache *hash.Map[typePair, bool]
	// Cache statistics
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewLattice constructs a lattice over a given universe.  The lubDepth bounds
// how deeply least upper bounds are computed for type arguments, beyond which
// they are approximated by star projections.
func NewLattice(universe *Universe, lubDepth uint) *Lattice {
	return &Lattice{universe: universe, lubDepth: lubDepth, cache: hash.NewMap[typePair, bool](64)}
}

// Universe returns the built-in classes of this lattice.
func (l *Lattice) Universe() *Universe {
	return l.universe
}

// Reset invalidates the subtype cache.
func (l *Lattice) Reset() {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	//
	l.cache.Clear()
	l.hits.Store(0)
	l.misses.Store(0)
}

// Stats returns the number of cache hits and misses since the last reset.
func (l *Lattice) Stats() (uint64, uint64) {
	return l.hits.Load(), l.misses.Load()
}

// IsSubtype determines whether one type is a subtype of another.
func (l *Lattice) IsSubtype(a Type, b Type) bool {
	if a == b {
		return true
	}
	//
	key := typePair{a, b}
	//
	l.mutex.RLock()
	result, ok := l.cache.Get(key)
	l.mutex.RUnlock()
	//
	if ok {
		l.hits.Add(1)
		return result
	}
	//
	l.misses.Add(1)
	result = l.subtype(a, b, 0, nil)
	//
	l.mutex.Lock()
	l.cache.Insert(key, result)
	l.mutex.Unlock()
	//
	return result
}

// IsEquivalent determines whether two types are mutual subtypes.
func (l *Lattice) IsEquivalent(a Type, b Type) bool {
	return l.IsSubtype(a, b) && l.IsSubtype(b, a)
}

// MostSpecific determines which (if either) of two types is strictly more
// specific than the other.
func (l *Lattice) MostSpecific(a Type, b Type) Specificity {
	var (
		ab = l.IsSubtype(a, b)
		ba = l.IsSubtype(b, a)
	)
	//
	switch {
	case ab && !ba:
		return Left
	case ba && !ab:
		return Right
	default:
		return Neither
	}
}

// Commit an approximate literal type to one of its candidates, preferring the
// expected type if one is given.  Specifically, this is the expected type if it
// is a candidate, otherwise the first candidate which is a subtype of the
// expected type, otherwise the default candidate.
func (l *Lattice) Commit(lit *Literal, expected Type) *Nominal {
	if expected != nil && !IsSpecial(expected) {
		e := MakeNonNull(expected)
		//
		if n, ok := e.(*Nominal); ok {
			for _, c := range lit.candidates {
				if c.class == n.class {
					return c
				}
			}
		}
		//
		for _, c := range lit.candidates {
			if l.IsSubtype(c, e) {
				return c
			}
		}
	}
	//
	return lit.Default()
}

// LeastUpperBound computes the least upper bound of zero or more types.  The
// least upper bound of an empty set, or of any set containing Error, is Error.
func (l *Lattice) LeastUpperBound(types ...Type) Type {
	if len(types) == 0 {
		return Error
	}
	//
	result := types[0]
	//
	for _, t := range types[1:] {
		result = l.lub(result, t, 0)
	}
	//
	return result
}

// GreatestLowerBound computes the greatest lower bound of zero or more types.
// If two of the types are unrelated, then false is returned.  The greatest
// lower bound of an empty set is Any?.
func (l *Lattice) GreatestLowerBound(types ...Type) (Type, bool) {
	if len(types) == 0 {
		return l.universe.NullableAnyType(), true
	}
	//
	result := types[0]
	//
	for _, t := range types[1:] {
		var ok bool
		//
		if result, ok = l.glb(result, t); !ok {
			return nil, false
		}
	}
	//
	return result, true
}

// Erase replaces every type parameter within a type by its effective bound
// (at the top level) or by a star projection (as a type argument).  The result
// is a supertype of every instantiation of the given type.
func (l *Lattice) Erase(t Type) Type {
	switch t := t.(type) {
	case *Parameter:
		var result = l.universe.NullableAnyType()
		//
		if bounds, err := t.param.EffectiveBounds(); err == nil && len(bounds) > 0 {
			result = l.Erase(bounds[0])
		}
		//
		if t.nullable {
			return MakeNullable(result)
		}
		//
		return result
	case *Nominal:
		args := make([]Type, len(t.args))
		//
		for i, arg := range t.args {
			if Mentions(arg, anyParameter) {
				args[i] = Star
			} else {
				args[i] = arg
			}
		}
		//
		return &Nominal{t.class, args, t.nullable}
	case *Function:
		if !Mentions(t, anyParameter) {
			return t
		}
		//
		params := make([]Type, len(t.params))
		//
		for i := range params {
			params[i] = l.universe.NothingType()
		}
		//
		return &Function{nil, params, l.universe.NullableAnyType(), t.nullable}
	default:
		return t
	}
}

func (l *Lattice) lub(a Type, b Type, depth uint) Type {
	switch {
	case IsError(a) || IsError(b):
		return Error
	case a == Dynamic || b == Dynamic:
		return Dynamic
	case a == Star || b == Star:
		return Star
	case l.IsSubtype(a, b):
		return b
	case l.IsSubtype(b, a):
		return a
	}
	//
	var (
		nullable = MayBeNull(a) || MayBeNull(b)
		a0       = l.approximate(MakeNonNull(a))
		b0       = l.approximate(MakeNonNull(b))
		result   Type
	)
	// Literals sharing candidates remain approximate.
	if la, ok := a0.(*Literal); ok {
		if lb, ok := b0.(*Literal); ok {
			if common := intersectCandidates(la, lb); len(common) > 0 {
				result = &Literal{la.text, common}
			}
		}
	}
	//
	if result == nil {
		result = l.lubNonNull(l.commitDefault(a0), l.commitDefault(b0), depth)
	}
	//
	if nullable {
		return MakeNullable(result)
	}
	//
	return result
}

func (l *Lattice) lubNonNull(a Type, b Type, depth uint) Type {
	if l.IsSubtype(a, b) {
		return b
	} else if l.IsSubtype(b, a) {
		return a
	}
	//
	switch a := a.(type) {
	case *Nominal:
		if b, ok := b.(*Nominal); ok {
			return l.commonSupertype(a, b, depth)
		}
	case *Function:
		if b, ok := b.(*Function); ok && len(a.params) == len(b.params) && a.receiver == nil && b.receiver == nil {
			params := make([]Type, len(a.params))
			//
			for i := range params {
				var ok bool
				//
				if params[i], ok = l.glb(a.params[i], b.params[i]); !ok {
					return l.universe.AnyType()
				}
			}
			//
			return NewFunction(params, l.lub(a.ret, b.ret, depth+1))
		}
	}
	//
	return l.universe.AnyType()
}

// Find the most specific class which both types inherit from, and instantiate
// it appropriately.  When there are several candidates, the first in the
// closure of the left-hand side is chosen.
func (l *Lattice) commonSupertype(a *Nominal, b *Nominal, depth uint) Type {
	var common []*Class
	//
	for _, e := range a.class.Closure() {
		if b.class.IsSubclassOf(e.Type.class) {
			common = append(common, e.Type.class)
		}
	}
	//
	for _, c := range common {
		minimal := true
		//
		for _, d := range common {
			if d != c && d.IsSubclassOf(c) {
				minimal = false
				break
			}
		}
		//
		if minimal {
			return l.instantiateCommon(c, a, b, depth)
		}
	}
	//
	return l.universe.AnyType()
}

func (l *Lattice) instantiateCommon(class *Class, a *Nominal, b *Nominal, depth uint) Type {
	var (
		av, _, _ = a.View(class)
		bv, _, _ = b.View(class)
		args     = make([]Type, len(class.params))
	)
	//
	for i, param := range class.params {
		x, y := av.args[i], bv.args[i]
		//
		switch {
		case x.Equals(y):
			args[i] = x
		case depth >= l.lubDepth || x == Star || y == Star:
			args[i] = Star
		case param.variance == Covariant:
			args[i] = l.lub(x, y, depth+1)
		case param.variance == Contravariant:
			if g, ok := l.glb(x, y); ok {
				args[i] = g
			} else {
				args[i] = Star
			}
		default:
			args[i] = Star
		}
	}
	//
	return class.Instantiate(args...)
}

func (l *Lattice) glb(a Type, b Type) (Type, bool) {
	switch {
	case IsError(a) || IsError(b):
		return Error, true
	case a == Dynamic:
		return b, true
	case b == Dynamic:
		return a, true
	case l.IsSubtype(a, b):
		return a, true
	case l.IsSubtype(b, a):
		return b, true
	case a.Nullable() || b.Nullable():
		g, ok := l.glb(MakeNonNull(a), MakeNonNull(b))
		//
		if ok && a.Nullable() && b.Nullable() {
			return MakeNullable(g), true
		}
		//
		return g, ok
	default:
		return nil, false
	}
}

// Approximate a type parameter by its first effective bound.
func (l *Lattice) approximate(t Type) Type {
	if p, ok := t.(*Parameter); ok {
		if bounds, err := p.param.EffectiveBounds(); err == nil && len(bounds) > 0 {
			return MakeNonNull(bounds[0])
		}
		//
		return l.universe.AnyType()
	}
	//
	return t
}

func (l *Lattice) commitDefault(t Type) Type {
	if lit, ok := t.(*Literal); ok {
		return lit.Default()
	}
	//
	return t
}

func intersectCandidates(a *Literal, b *Literal) []*Nominal {
	var common []*Nominal
	//
	for _, c := range a.candidates {
		if b.Accepts(c.class) {
			common = append(common, c)
		}
	}
	//
	return common
}

func anyParameter(*TypeParameter) bool {
	return true
}

// ============================================================================
// Cache key
// ============================================================================

type typePair struct {
	lhs Type
	rhs Type
}

func (p typePair) Equals(other typePair) bool {
	return p.lhs.Equals(other.lhs) && p.rhs.Equals(other.rhs)
}

func (p typePair) Hash() uint64 {
	return hash.Combine(p.lhs.Hash(), p.rhs.Hash())
}
