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
package resolve

import (
	"fmt"
	"strings"

	"github.com/consensys/go-infer/pkg/ast"
	"github.com/consensys/go-infer/pkg/infer"
	"github.com/consensys/go-infer/pkg/ir"
	"github.com/consensys/go-infer/pkg/types"
)

// Status of a candidate during resolution of one call site.
type Status uint8

const (
	// Tentative candidates have not yet been checked.
	Tentative Status = iota
	// Applicable candidates accept the arguments without implicit coercion.
	Applicable
	// ApplicableWithCoercion candidates accept the arguments only through some
	// implicit coercion.
	ApplicableWithCoercion
	// Inapplicable candidates cannot accept the arguments.
	Inapplicable
	// Winner is the unique candidate chosen.
	Winner
)

func (s Status) String() string {
	switch s {
	case Tentative:
		return "tentative"
	case Applicable:
		return "applicable"
	case ApplicableWithCoercion:
		return "applicable with coercion"
	case Inapplicable:
		return "inapplicable"
	default:
		return "winner"
	}
}

// Reason explains why a candidate was rejected.
type Reason uint8

const (
	// ArityMismatch indicates too many or too few arguments.
	ArityMismatch Reason = iota
	// TypeArgumentCount indicates the wrong number of explicit type
	// arguments.
	TypeArgumentCount
	// TypeMismatch indicates a contradiction between constraints.
	TypeMismatch
	// ReceiverMismatch indicates the receiver is unsuitable.
	ReceiverMismatch
)

func (r Reason) String() string {
	switch r {
	case ArityMismatch:
		return "arity mismatch"
	case TypeArgumentCount:
		return "type argument count"
	case TypeMismatch:
		return "type mismatch"
	default:
		return "receiver mismatch"
	}
}

// Rejection records why a candidate is inapplicable.
type Rejection struct {
	Reason Reason
	// Index of the argument responsible (or -1).
	Argument int
	// Index of the parameter responsible (or -1).
	Parameter int
	Message   string
	// Underlying contradiction, for type mismatches.
	Contradiction *infer.Contradiction
}

// Candidate is a declaration under consideration at one call site, under one
// receiver interpretation.  Each candidate has its own fresh copies of the
// declaration's type parameters.
type Candidate struct {
	Decl ast.Declaration
	Kind ir.CallKind
	// Receiver bound by this interpretation (or nil).
	Receiver types.Type
	// Identifies which receiver is bound: 0 for an explicit receiver, 1+i for
	// the implicit receiver introduced i levels out, or -1 for none.
	ReceiverId int
	// Receiver type required by an extension, after renaming (or nil).
	ReceiverParam types.Type
	// Fresh type parameters, and the substitution from the declaration's own
	// type parameters (and those of its owning class) to the types used here.
	Params   []*types.TypeParameter
	Renaming types.Substitution
	// Declared parameters and their types after renaming.
	Parameters []ast.Parameter
	ParamTypes []types.Type
	Return     types.Type
	// Distance in the type hierarchy between receiver and declaration.
	Hops uint
	// Outcome of checking this candidate.
	Status    Status
	Solution  *infer.Solution
	Rejection *Rejection
}

// IsGeneric determines whether this candidate declares its own type
// parameters.
func (c *Candidate) IsGeneric() bool {
	return len(c.Params) > 0
}

// IsApplicable determines whether this candidate accepts the arguments (with
// or without coercion).
func (c *Candidate) IsApplicable() bool {
	return c.Status == Applicable || c.Status == ApplicableWithCoercion || c.Status == Winner
}

// SolvedParamTypes returns the parameter types for the first n parameters
// after applying the solution.
func (c *Candidate) SolvedParamTypes(n int) []types.Type {
	ts := make([]types.Type, min(n, len(c.ParamTypes)))
	//
	for i := range ts {
		if c.Solution != nil {
			ts[i] = c.Solution.Substitution.Apply(c.ParamTypes[i])
		} else {
			ts[i] = c.ParamTypes[i]
		}
	}
	//
	return ts
}

func (c *Candidate) reject(reason Reason, arg int, param int, msg string, contradiction *infer.Contradiction) {
	c.Status = Inapplicable
	c.Rejection = &Rejection{reason, arg, param, msg, contradiction}
}

// String describes the declaration behind this candidate as written, such as
// "f(Int)", "String.len()" or "List.get(Int)".
func (c *Candidate) String() string {
	return Describe(c.Decl)
}

// Describe a declaration by its name and parameter types.
func Describe(decl ast.Declaration) string {
	var (
		builder strings.Builder
		params  []ast.Parameter
	)
	//
	switch d := decl.(type) {
	case *ast.Function:
		if d.Receiver() != nil {
			builder.WriteString(d.Receiver().String())
			builder.WriteString(".")
		} else if d.Owner() != nil {
			builder.WriteString(d.Owner().Name())
			builder.WriteString(".")
		}
		//
		params = d.Params()
	case *ast.Constructor:
		params = d.Params()
	case *ast.Property:
		if d.Owner() != nil {
			builder.WriteString(d.Owner().Name())
			builder.WriteString(".")
		}
		//
		builder.WriteString(d.Name())
		//
		if d.Type() != nil {
			builder.WriteString(": ")
			builder.WriteString(d.Type().String())
		}
		//
		return builder.String()
	}
	//
	builder.WriteString(decl.Name())
	builder.WriteString("(")
	//
	for i, p := range params {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(p.Type.String())
	}
	//
	builder.WriteString(")")
	//
	return builder.String()
}

func describeRejection(c *Candidate) string {
	r := c.Rejection
	//
	switch {
	case r == nil:
		return c.String()
	case r.Argument >= 0:
		return fmt.Sprintf("%s: argument %d: %s", c, r.Argument+1, r.Message)
	default:
		return fmt.Sprintf("%s: %s", c, r.Message)
	}
}
