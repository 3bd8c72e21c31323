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
	"fmt"
	"slices"
	"strings"

	"github.com/consensys/go-infer/pkg/util/collection/hash"
)

// Class represents a nominal type declaration (either a class or an
// interface).  A class has zero or more type parameters and zero or more
// direct supertypes.  The transitive closure of its supertypes is flattened
// once, when the class is sealed, so that subtype checks never walk the
// inheritance graph.
type Class struct {
	name string
	// Indicates whether this is an interface (rather than a class).
	iface bool
	// Indicates whether values of this class have a primitive (unboxed)
	// representation.
	primitive bool
	// Declared type parameters
	params []*TypeParameter
	// Direct supertypes, expressed in terms of the declared type parameters.
	supertypes []*Nominal
	// Functional type of the single abstract method (for fun interfaces only).
	sam *Function
	// Flattened supertype closure (including this class itself).
	closure []Supertype
	// Sealing state
	state sealState
}

type sealState uint8

const (
	unsealed sealState = iota
	sealing
	sealed
)

// Supertype identifies one entry in the flattened supertype closure of a
// class, along with the number of inheritance edges (hops) separating it from
// the class itself.
type Supertype struct {
	Type *Nominal
	Hops uint
}

// NewClass constructs a new (unsealed) class with the given type parameters.
func NewClass(name string, params ...*TypeParameter) *Class {
	return &Class{name: name, params: params}
}

// NewInterface constructs a new (unsealed) interface with the given type
// parameters.
func NewInterface(name string, params ...*TypeParameter) *Class {
	return &Class{name: name, iface: true, params: params}
}

// Name returns the name of this class.
func (p *Class) Name() string {
	return p.name
}

// IsInterface determines whether this is an interface or not.
func (p *Class) IsInterface() bool {
	return p.iface
}

// IsPrimitive determines whether values of this class are represented
// without boxing.
func (p *Class) IsPrimitive() bool {
	return p.primitive
}

// Params returns the declared type parameters of this class.
func (p *Class) Params() []*TypeParameter {
	return p.params
}

// Supertypes returns the direct supertypes of this class.
func (p *Class) Supertypes() []*Nominal {
	return p.supertypes
}

// Sam returns the functional type of the single abstract method of a fun
// interface, or nil if this is not a fun interface.
func (p *Class) Sam() *Function {
	return p.sam
}

// SetSupertypes assigns the direct supertypes of this class.  This can only be
// done before the class is sealed.
func (p *Class) SetSupertypes(supertypes ...*Nominal) {
	p.checkUnsealed()
	p.supertypes = supertypes
}

// SetPrimitive marks this class as having a primitive representation.
func (p *Class) SetPrimitive() {
	p.checkUnsealed()
	p.primitive = true
}

// SetSam marks this class as a fun interface whose single abstract method has
// the given functional type.
func (p *Class) SetSam(sam *Function) {
	p.checkUnsealed()
	//
	if !p.iface {
		panic(fmt.Sprintf("class %s cannot be a fun interface", p.name))
	}
	//
	p.sam = sam
}

// Seal this class, thereby flattening its supertype closure.  Supertypes are
// sealed first (if necessary).  Sealing a class whose inheritance graph is
// cyclic is a programming error.
func (p *Class) Seal() {
	switch p.state {
	case sealed:
		return
	case sealing:
		panic(fmt.Sprintf("cyclic inheritance involving %s", p.name))
	}
	//
	p.state = sealing
	closure := []Supertype{{p.Self(), 0}}
	//
	for _, super := range p.supertypes {
		super.class.Seal()
		//
		subst := Bind(super.class.params, super.args)
		//
		for _, entry := range super.class.closure {
			var (
				ith  = subst.Apply(entry.Type).(*Nominal)
				hops = entry.Hops + 1
			)
			//
			if i := indexOfClass(closure, ith.class); i < 0 {
				closure = append(closure, Supertype{ith, hops})
			} else if hops < closure[i].Hops {
				closure[i] = Supertype{ith, hops}
			}
		}
	}
	// Order by distance, retaining declaration order amongst equals.
	slices.SortStableFunc(closure, func(l, r Supertype) int {
		return int(l.Hops) - int(r.Hops)
	})
	//
	p.closure = closure
	p.state = sealed
}

// IsSealed checks whether this class has been sealed.
func (p *Class) IsSealed() bool {
	return p.state == sealed
}

// Closure returns the flattened supertype closure of this class, ordered by
// increasing distance.  The first entry is always the class itself.
func (p *Class) Closure() []Supertype {
	if p.state != sealed {
		panic(fmt.Sprintf("class %s not sealed", p.name))
	}
	//
	return p.closure
}

// IsSubclassOf checks whether this class is the given class, or inherits from
// it (directly or indirectly).
func (p *Class) IsSubclassOf(other *Class) bool {
	return indexOfClass(p.Closure(), other) >= 0
}

// Distance returns the number of inheritance edges separating this class from
// a given superclass.  If the given class is not a superclass, then false is
// returned.
func (p *Class) Distance(other *Class) (uint, bool) {
	closure := p.Closure()
	//
	if i := indexOfClass(closure, other); i >= 0 {
		return closure[i].Hops, true
	}
	//
	return 0, false
}

// Self returns the instance of this class parameterised by its own type
// parameters (e.g. List<E> for a class List with parameter E).
func (p *Class) Self() *Nominal {
	args := make([]Type, len(p.params))
	//
	for i, param := range p.params {
		args[i] = NewParameter(param)
	}
	//
	return &Nominal{p, args, false}
}

// Instantiate constructs a non-null instance of this class with the given type
// arguments.  The number of type arguments must match the number of declared
// type parameters.
func (p *Class) Instantiate(args ...Type) *Nominal {
	if len(args) != len(p.params) {
		panic(fmt.Sprintf("class %s expects %d type argument(s), got %d", p.name, len(p.params), len(args)))
	}
	//
	return &Nominal{p, args, false}
}

func (p *Class) String() string {
	return p.name
}

func (p *Class) checkUnsealed() {
	if p.state != unsealed {
		panic(fmt.Sprintf("class %s already sealed", p.name))
	}
}

func indexOfClass(closure []Supertype, class *Class) int {
	for i, e := range closure {
		if e.Type.class == class {
			return i
		}
	}
	//
	return -1
}

// ============================================================================
// Nominal
// ============================================================================

// Nominal represents an instance of a declared class, such as List<Int>.
type Nominal struct {
	class *Class
	args  []Type
	// Indicates whether or not null is permitted.
	nullable bool
}

var _ Type = &Nominal{}

// Class returns the class of which this is an instance.
func (p *Nominal) Class() *Class {
	return p.class
}

// Args returns the type arguments of this instance.
func (p *Nominal) Args() []Type {
	return p.args
}

// Nullable implementation for Type interface.
func (p *Nominal) Nullable() bool {
	return p.nullable
}

// View determines the (non-null) instance of a given superclass which this
// type corresponds to, along with its distance.  For example, viewing
// ArrayList<Int> as a List gives List<Int>.  If the given class is not a
// superclass, then false is returned.
func (p *Nominal) View(class *Class) (*Nominal, uint, bool) {
	closure := p.class.Closure()
	i := indexOfClass(closure, class)
	//
	if i < 0 {
		return nil, 0, false
	} else if i == 0 {
		return MakeNonNull(p).(*Nominal), 0, true
	}
	//
	subst := Bind(p.class.params, p.args)
	//
	return subst.Apply(closure[i].Type).(*Nominal), closure[i].Hops, true
}

// Equals implementation for the hash.Hasher interface.
func (p *Nominal) Equals(other Type) bool {
	if o, ok := other.(*Nominal); ok {
		return p.class == o.class && p.nullable == o.nullable && equalTypes(p.args, o.args)
	}
	//
	return false
}

// Hash implementation for the hash.Hasher interface.
func (p *Nominal) Hash() uint64 {
	hashes := []uint64{hash.String(p.class.name), nullHash(p.nullable)}
	//
	for _, arg := range p.args {
		hashes = append(hashes, arg.Hash())
	}
	//
	return hash.Combine(hashes...)
}

func (p *Nominal) String() string {
	var builder strings.Builder
	//
	builder.WriteString(p.class.name)
	//
	if len(p.args) > 0 {
		builder.WriteString("<")
		builder.WriteString(typesToString(p.args))
		builder.WriteString(">")
	}
	//
	if p.nullable {
		builder.WriteString("?")
	}
	//
	return builder.String()
}

func equalTypes(lhs []Type, rhs []Type) bool {
	if len(lhs) != len(rhs) {
		return false
	}
	//
	for i := range lhs {
		if !lhs[i].Equals(rhs[i]) {
			return false
		}
	}
	//
	return true
}

func typesToString(types []Type) string {
	var builder strings.Builder
	//
	for i, t := range types {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(t.String())
	}
	//
	return builder.String()
}

func nullHash(nullable bool) uint64 {
	if nullable {
		return 1
	}
	//
	return 0
}
