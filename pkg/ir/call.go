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
package ir

import (
	"strings"

	"github.com/consensys/go-infer/pkg/ast"
	"github.com/consensys/go-infer/pkg/types"
	"github.com/consensys/go-infer/pkg/util/source"
	"github.com/consensys/go-infer/pkg/util/source/sexp"
)

// CallKind identifies how a call binds to its declaration, which is determined
// by the receiver interpretation chosen during resolution.
type CallKind uint8

const (
	// TopLevelCall is a call to a function without a receiver.
	TopLevelCall CallKind = iota
	// MemberCall is a call to a member of the (explicit or implicit)
	// receiver.
	MemberCall
	// ExtensionCall is a call to an extension of the receiver's type.
	ExtensionCall
	// InvokeCall is the invocation of a value of functional type.
	InvokeCall
	// ConstructorCall creates a new instance of a class.
	ConstructorCall
)

func (k CallKind) String() string {
	switch k {
	case TopLevelCall:
		return "top-level"
	case MemberCall:
		return "member"
	case ExtensionCall:
		return "extension"
	case InvokeCall:
		return "invoke"
	default:
		return "constructor"
	}
}

// Call is the fully typed result of resolving a call site.  It records the
// declaration chosen, the type arguments inferred for it (including those
// which were defaulted), the possibly coerced arguments and the result type.
type Call struct {
	decl ast.Declaration
	kind CallKind
	// Receiver (or nil)
	receiver Node
	// Type arguments for the declaration's type parameters, in order.
	typeArgs []types.Type
	// Type parameters which were unconstrained, hence defaulted.
	defaulted []*types.TypeParameter
	args      []Node
	datatype  types.Type
	span      source.Span
}

var _ Node = &Call{}

// NewCall constructs a typed call node.
func NewCall(decl ast.Declaration, kind CallKind, receiver Node, typeArgs []types.Type,
	defaulted []*types.TypeParameter, args []Node, datatype types.Type, span source.Span) *Call {
	return &Call{decl, kind, receiver, typeArgs, defaulted, args, datatype, span}
}

// Decl returns the declaration to which this call is bound.
func (p *Call) Decl() ast.Declaration {
	return p.decl
}

// Kind returns the receiver interpretation of this call.
func (p *Call) Kind() CallKind {
	return p.kind
}

// Receiver returns the receiver of this call, or nil.
func (p *Call) Receiver() Node {
	return p.receiver
}

// TypeArgs returns the inferred type arguments, in order of the declaration's
// type parameters.
func (p *Call) TypeArgs() []types.Type {
	return p.typeArgs
}

// Defaulted returns the type parameters whose arguments were defaulted because
// nothing constrained them.
func (p *Call) Defaulted() []*types.TypeParameter {
	return p.defaulted
}

// Args returns the arguments of this call, one per declared parameter.
func (p *Call) Args() []Node {
	return p.args
}

// Type implementation for Node interface.
func (p *Call) Type() types.Type {
	return p.datatype
}

// Span implementation for Node interface.
func (p *Call) Span() source.Span {
	return p.span
}

// Lisp implementation for Node interface.
func (p *Call) Lisp() sexp.SExp {
	var (
		elements []sexp.SExp
		name     = p.decl.Name()
	)
	//
	if len(p.typeArgs) > 0 {
		args := make([]string, len(p.typeArgs))
		//
		for i, t := range p.typeArgs {
			args[i] = t.String()
		}
		//
		name = name + "<" + strings.Join(args, ",") + ">"
	}
	//
	if p.receiver != nil {
		elements = append(elements, sexp.NewSymbol("."), p.receiver.Lisp())
	}
	//
	elements = append(elements, sexp.NewSymbol(name))
	//
	for _, arg := range p.args {
		elements = append(elements, arg.Lisp())
	}
	//
	return sexp.NewList(elements)
}

func (p *Call) node() {}

// ============================================================================
// Coercion
// ============================================================================

// CoercionKind identifies an implicit conversion.
type CoercionKind uint8

const (
	// Widen converts an integer literal to a floating point type.
	Widen CoercionKind = iota
	// SamConversion converts a lambda into an instance of a functional
	// interface.
	SamConversion
	// Box converts a primitive value into a reference.
	Box
)

func (k CoercionKind) String() string {
	switch k {
	case Widen:
		return "widen"
	case SamConversion:
		return "sam"
	default:
		return "box"
	}
}

// Coercion makes an implicit conversion explicit.
type Coercion struct {
	kind     CoercionKind
	arg      Node
	datatype types.Type
}

var _ Node = &Coercion{}

// NewCoercion constructs a coercion of a given node to a given type.
func NewCoercion(kind CoercionKind, arg Node, datatype types.Type) *Coercion {
	return &Coercion{kind, arg, datatype}
}

// Kind returns the kind of conversion.
func (p *Coercion) Kind() CoercionKind {
	return p.kind
}

// Arg returns the node being converted.
func (p *Coercion) Arg() Node {
	return p.arg
}

// Type implementation for Node interface.
func (p *Coercion) Type() types.Type {
	return p.datatype
}

// Span implementation for Node interface.
func (p *Coercion) Span() source.Span {
	return p.arg.Span()
}

// Lisp implementation for Node interface.
func (p *Coercion) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{sexp.NewSymbol(p.kind.String()), p.arg.Lisp()})
}

func (p *Coercion) node() {}

// ============================================================================
// DefaultArgument
// ============================================================================

// DefaultArgument stands for an omitted argument whose parameter has a
// default value.
type DefaultArgument struct {
	param    ast.Parameter
	datatype types.Type
	span     source.Span
}

var _ Node = &DefaultArgument{}

// NewDefaultArgument constructs a placeholder for an omitted argument.  The
// span is that of the call.
func NewDefaultArgument(param ast.Parameter, datatype types.Type, span source.Span) *DefaultArgument {
	return &DefaultArgument{param, datatype, span}
}

// Param returns the parameter whose default is used.
func (p *DefaultArgument) Param() ast.Parameter {
	return p.param
}

// Type implementation for Node interface.
func (p *DefaultArgument) Type() types.Type {
	return p.datatype
}

// Span implementation for Node interface.
func (p *DefaultArgument) Span() source.Span {
	return p.span
}

// Lisp implementation for Node interface.
func (p *DefaultArgument) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{sexp.NewSymbol("default"), sexp.NewSymbol(p.param.Name)})
}

func (p *DefaultArgument) node() {}
