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
package infer

import (
	"fmt"

	"github.com/consensys/go-infer/pkg/types"
	"github.com/consensys/go-infer/pkg/util/source"
)

// Priority identifies the source of a constraint.  Lower values have higher
// priority.
type Priority uint8

const (
	// ExplicitTypeArgument constraints arise from type arguments given
	// explicitly at a call site.
	ExplicitTypeArgument Priority = iota
	// ArgumentType constraints arise from the types of arguments (and of the
	// receiver).
	ArgumentType
	// ExpectedType constraints arise from the type expected of the call
	// itself.
	ExpectedType
	// DeclaredBound constraints arise from the declared upper bounds of type
	// parameters, and act as fallback defaults.
	DeclaredBound
)

func (p Priority) String() string {
	switch p {
	case ExplicitTypeArgument:
		return "explicit type argument"
	case ArgumentType:
		return "argument type"
	case ExpectedType:
		return "expected type"
	default:
		return "declared bound"
	}
}

// Relation identifies the relationship required between two types.
type Relation uint8

const (
	// Subtype requires the lower type to be a subtype of the upper type.
	Subtype Relation = iota
	// Equal requires both types to be equivalent.
	Equal
)

func (p Relation) String() string {
	if p == Equal {
		return "="
	}
	//
	return "<:"
}

// Origin records where a constraint came from, so that contradictions can
// pinpoint the conflicting sources.
type Origin struct {
	Priority Priority
	// Index of the argument responsible, or -1 if not due to an argument.  The
	// receiver is not an argument.
	Argument int
	// Span of the responsible expression (where known).
	Span source.Span
	// Human readable description of this origin (e.g. "argument 1").
	Description string
}

// ArgumentOrigin constructs the origin for the argument at a given index.
func ArgumentOrigin(index int, span source.Span) Origin {
	return Origin{ArgumentType, index, span, fmt.Sprintf("argument %d", index+1)}
}

// ReceiverOrigin constructs the origin for the receiver of a call.
func ReceiverOrigin(span source.Span) Origin {
	return Origin{ArgumentType, -1, span, "receiver"}
}

// TypeArgumentOrigin constructs the origin for an explicit type argument.
func TypeArgumentOrigin(index int, span source.Span) Origin {
	return Origin{ExplicitTypeArgument, -1, span, fmt.Sprintf("type argument %d", index+1)}
}

// ExpectedOrigin constructs the origin for the expected type of a call.
func ExpectedOrigin(span source.Span) Origin {
	return Origin{ExpectedType, -1, span, "expected type"}
}

// BoundOrigin constructs the origin for the declared bound of a type
// parameter.
func BoundOrigin(param *types.TypeParameter, span source.Span) Origin {
	return Origin{DeclaredBound, -1, span, fmt.Sprintf("declared bound of %s", param.Name())}
}

// Constraint is a directed relation between two types, at least one of which
// mentions a type parameter of the system it belongs to.
type Constraint struct {
	Lower    types.Type
	Upper    types.Type
	Relation Relation
	// Parameters of the system constrained by this constraint.
	Params []*types.TypeParameter
	Origin Origin
}

func (p Constraint) String() string {
	return fmt.Sprintf("%s %s %s (%s)", p.Lower, p.Relation, p.Upper, p.Origin.Description)
}

// Contradiction describes two constraint sources which cannot be reconciled,
// such as a lower bound which is not a subtype of an upper bound.
type Contradiction struct {
	// Parameter being solved when the contradiction arose (or nil if none).
	Param       *types.TypeParameter
	Lower       types.Type
	Upper       types.Type
	LowerOrigin Origin
	UpperOrigin Origin
}

// Error implements the error interface.
func (p *Contradiction) Error() string {
	return fmt.Sprintf("%s is not a subtype of %s", p.Lower, p.Upper)
}

// Blame returns the origin to which the contradiction should be attributed.
// Arguments are blamed in preference to the expected type, which is preferred
// to declared bounds.
func (p *Contradiction) Blame() Origin {
	var (
		l = p.LowerOrigin
		u = p.UpperOrigin
	)
	//
	switch {
	case l.Priority == ArgumentType:
		return l
	case u.Priority == ArgumentType:
		return u
	case l.Priority == ExpectedType:
		return l
	case u.Priority == ExpectedType:
		return u
	default:
		return l
	}
}

// Other returns the origin which is not blamed.
func (p *Contradiction) Other() Origin {
	if p.Blame() == p.LowerOrigin {
		return p.UpperOrigin
	}
	//
	return p.LowerOrigin
}

// Solution is the outcome of solving a constraint system without
// contradiction.
type Solution struct {
	// Substitution for every parameter which could be fixed.
	Substitution types.Substitution
	// Parameters with no constraints at all, in declaration order.
	Unconstrained []*types.TypeParameter
}
