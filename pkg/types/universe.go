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
	"math/big"
	"strconv"
	"strings"
)

// Universe provides the built-in classes on which the type model relies.  Each
// universe is constructed independently, and is immutable thereafter.
type Universe struct {
	Any          *Class
	Nothing      *Class
	Unit         *Class
	Number       *Class
	Int          *Class
	Long         *Class
	Short        *Class
	Byte         *Class
	Double       *Class
	Float        *Class
	Boolean      *Class
	Char         *Class
	CharSequence *Class
	String       *Class
	Comparable   *Class
}

// NewUniverse constructs (and seals) the built-in classes.
func NewUniverse() *Universe {
	var (
		u = &Universe{}
		t = NewTypeParameter("T", Contravariant)
	)
	//
	u.Any = NewClass("Any")
	u.Nothing = NewClass("Nothing")
	u.Unit = NewClass("Unit")
	u.Comparable = NewInterface("Comparable", t)
	u.Number = NewClass("Number")
	u.CharSequence = NewInterface("CharSequence")
	u.String = NewClass("String")
	u.Boolean = NewClass("Boolean")
	u.Char = NewClass("Char")
	u.Int = NewClass("Int")
	u.Long = NewClass("Long")
	u.Short = NewClass("Short")
	u.Byte = NewClass("Byte")
	u.Double = NewClass("Double")
	u.Float = NewClass("Float")
	//
	u.Unit.SetSupertypes(u.Any.Instantiate())
	u.Comparable.SetSupertypes(u.Any.Instantiate())
	u.Number.SetSupertypes(u.Any.Instantiate())
	u.CharSequence.SetSupertypes(u.Any.Instantiate())
	u.String.SetSupertypes(u.CharSequence.Instantiate(), u.comparableOf(u.String))
	//
	for _, c := range []*Class{u.Boolean, u.Char} {
		c.SetSupertypes(u.Any.Instantiate(), u.comparableOf(c))
		c.SetPrimitive()
	}
	//
	for _, c := range u.Numbers() {
		c.SetSupertypes(u.Number.Instantiate(), u.comparableOf(c))
		c.SetPrimitive()
	}
	//
	for _, c := range u.Classes() {
		c.Seal()
	}
	//
	return u
}

// Classes returns all built-in classes.
func (p *Universe) Classes() []*Class {
	return []*Class{p.Any, p.Nothing, p.Unit, p.Number, p.Int, p.Long, p.Short, p.Byte, p.Double, p.Float,
		p.Boolean, p.Char, p.CharSequence, p.String, p.Comparable}
}

// Numbers returns the built-in numeric classes, ordered by literal preference.
func (p *Universe) Numbers() []*Class {
	return []*Class{p.Int, p.Long, p.Short, p.Byte, p.Double, p.Float}
}

// AnyType returns the (non-null) top type.
func (p *Universe) AnyType() *Nominal {
	return p.Any.Instantiate()
}

// NullableAnyType returns the type given to unbounded type parameters.
func (p *Universe) NullableAnyType() Type {
	return MakeNullable(p.Any.Instantiate())
}

// NothingType returns the (non-null) bottom type.
func (p *Universe) NothingType() *Nominal {
	return p.Nothing.Instantiate()
}

// IsNothing checks whether a given type is Nothing (or Nothing?).
func (p *Universe) IsNothing(t Type) bool {
	n, ok := t.(*Nominal)
	return ok && n.class == p.Nothing
}

// IsAny checks whether a given type is Any (or Any?).
func (p *Universe) IsAny(t Type) bool {
	n, ok := t.(*Nominal)
	return ok && n.class == p.Any
}

// IsUnit checks whether a given type is Unit.
func (p *Universe) IsUnit(t Type) bool {
	n, ok := t.(*Nominal)
	return ok && n.class == p.Unit && !n.nullable
}

// IntegerLiteral determines the type of an integer literal.  Literals with a
// trailing "L" are always of type Long.  Otherwise, the result is approximate
// and contains every integer type able to hold the value.  Nil is returned for
// malformed literals.
func (p *Universe) IntegerLiteral(text string) Type {
	var value big.Int
	//
	if strings.HasSuffix(text, "L") {
		if _, ok := value.SetString(strings.TrimSuffix(text, "L"), 10); !ok || !value.IsInt64() {
			return nil
		}
		//
		return p.Long.Instantiate()
	} else if _, ok := value.SetString(text, 10); !ok || !value.IsInt64() {
		return nil
	}
	//
	var (
		n          = value.Int64()
		candidates []*Nominal
	)
	//
	if n >= -(1<<31) && n < (1<<31) {
		candidates = append(candidates, p.Int.Instantiate())
	}
	//
	candidates = append(candidates, p.Long.Instantiate())
	//
	if n >= -(1<<15) && n < (1<<15) {
		candidates = append(candidates, p.Short.Instantiate())
	}
	//
	if n >= -(1<<7) && n < (1<<7) {
		candidates = append(candidates, p.Byte.Instantiate())
	}
	//
	return &Literal{text, candidates}
}

// DecimalLiteral determines the type of a decimal literal.  Literals with a
// trailing "f" or "F" are always of type Float.  Otherwise, the result is
// approximate over Double and Float.  Nil is returned for malformed literals.
func (p *Universe) DecimalLiteral(text string) Type {
	if t := strings.TrimRight(text, "fF"); t != text {
		if _, err := strconv.ParseFloat(t, 32); err != nil {
			return nil
		}
		//
		return p.Float.Instantiate()
	} else if _, err := strconv.ParseFloat(text, 64); err != nil {
		return nil
	}
	//
	return &Literal{text, []*Nominal{p.Double.Instantiate(), p.Float.Instantiate()}}
}

// Widens determines whether an integer literal can be widened to a given
// class through an implicit coercion.  This applies only to the floating point
// types, since every integer type able to hold the value is already a
// candidate.
func (p *Universe) Widens(lit *Literal, class *Class) bool {
	return !lit.Accepts(class) && (class == p.Double || class == p.Float)
}

func (p *Universe) comparableOf(c *Class) *Nominal {
	return p.Comparable.Instantiate(c.Instantiate())
}
