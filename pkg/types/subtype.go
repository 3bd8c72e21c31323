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

// Bounds the depth of recursion when checking subtyping.  Expansive
// inheritance (e.g. class X<T> : Y<X<X<T>>>) can otherwise generate an
// unbounded number of subproblems.
const maxSubtypeDepth = 64

// Subtyping rules.  These are applied in order:
//
// 1. Error and Dynamic are compatible with everything (in both directions).
// 2. A type which may be null is never a subtype of a non-null type.
// 3. Nothing is the bottom type, and Any is the top (non-null) type.
// 4. Type parameters are rigid, and are compared through their bounds.
// 5. Nominal types are compared via the flattened supertype closure, and then
// argument-wise according to declaration-site variance.
// 6. Functional types are compared structurally.
// 7. An approximate literal type is a subtype of any supertype of one of its
// candidates.
func (l *Lattice) subtype(a Type, b Type, depth uint, visited []*TypeParameter) bool {
	if depth > maxSubtypeDepth {
		return false
	} else if a == b || a.Equals(b) || IsSpecial(a) || IsSpecial(b) || b == Star {
		return true
	} else if a == Star {
		return false
	}
	// Identical parameters differ only in nullability.
	if pa, ok := a.(*Parameter); ok {
		if pb, ok := b.(*Parameter); ok && pa.param == pb.param {
			return !pa.nullable || pb.nullable
		}
	}
	// Check nullability
	if !b.Nullable() && MayBeNull(a) {
		return false
	}
	//
	var (
		a0 = MakeNonNull(a)
		b0 = MakeNonNull(b)
	)
	//
	switch a0 := a0.(type) {
	case *Nominal:
		if a0.class == l.universe.Nothing {
			return true
		}
	case *Literal:
		for _, c := range a0.candidates {
			if l.subtype(c, b0, depth+1, visited) {
				return true
			}
		}
		//
		return false
	case *Parameter:
		return l.subtypeViaBounds(a0, b0, depth, visited)
	}
	//
	switch b0 := b0.(type) {
	case *Nominal:
		if b0.class == l.universe.Any {
			return true
		} else if an, ok := a0.(*Nominal); ok {
			if view, _, ok := an.View(b0.class); ok {
				return l.containsAll(b0.class.params, view.args, b0.args, depth+1)
			}
		}
	case *Function:
		if af, ok := a0.(*Function); ok {
			return l.subtypeFunction(af, b0, depth+1)
		}
	}
	//
	return false
}

func (l *Lattice) subtypeViaBounds(a *Parameter, b Type, depth uint, visited []*TypeParameter) bool {
	for _, v := range visited {
		if v == a.param {
			return false
		}
	}
	//
	bounds := a.param.Bounds()
	visited = append(visited, a.param)
	// Unbounded parameters are implicitly bounded by Any?
	if len(bounds) == 0 {
		return l.universe.IsAny(b)
	}
	//
	for _, bound := range bounds {
		if l.subtype(MakeNonNull(bound), b, depth+1, visited) {
			return true
		}
	}
	//
	return false
}

// Check each type argument of a subtype is contained within the corresponding
// type argument of a supertype, according to the variance of the parameter.
func (l *Lattice) containsAll(params []*TypeParameter, lhs []Type, rhs []Type, depth uint) bool {
	for i, param := range params {
		var (
			x = lhs[i]
			y = rhs[i]
		)
		//
		switch {
		case y == Star:
			continue
		case x == Star:
			return false
		case param.variance == Covariant:
			if !l.subtype(x, y, depth, nil) {
				return false
			}
		case param.variance == Contravariant:
			if !l.subtype(y, x, depth, nil) {
				return false
			}
		default:
			if !l.subtype(x, y, depth, nil) || !l.subtype(y, x, depth, nil) {
				return false
			}
		}
	}
	//
	return true
}

func (l *Lattice) subtypeFunction(a *Function, b *Function, depth uint) bool {
	if len(a.params) != len(b.params) || (a.receiver == nil) != (b.receiver == nil) {
		return false
	} else if a.receiver != nil && !l.subtype(b.receiver, a.receiver, depth, nil) {
		return false
	}
	//
	for i := range a.params {
		if !l.subtype(b.params[i], a.params[i], depth, nil) {
			return false
		}
	}
	//
	return l.subtype(a.ret, b.ret, depth, nil)
}
