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
	"fmt"

	"github.com/consensys/go-infer/pkg/ast"
	"github.com/consensys/go-infer/pkg/types"
	"github.com/consensys/go-infer/pkg/util/source"
	"github.com/consensys/go-infer/pkg/util/source/sexp"
)

// Node is a fully typed expression.  Nodes are immutable once constructed, and
// every implicit conversion is represented by an explicit Coercion node.
type Node interface {
	// Type of this node.
	Type() types.Type
	// Span of the expression from which this node was produced.
	Span() source.Span
	// Lisp returns an S-Expression representation of this node.
	Lisp() sexp.SExp
	// Closes the set of node variants.
	node()
}

// ============================================================================
// Literal
// ============================================================================

// Literal is a constant value whose type has been committed.
type Literal struct {
	text     string
	datatype types.Type
	span     source.Span
}

var _ Node = &Literal{}

// NewLiteral constructs a literal node.
func NewLiteral(text string, datatype types.Type, span source.Span) *Literal {
	return &Literal{text, datatype, span}
}

// Text returns the literal text.
func (p *Literal) Text() string {
	return p.text
}

// Type implementation for Node interface.
func (p *Literal) Type() types.Type {
	return p.datatype
}

// Span implementation for Node interface.
func (p *Literal) Span() source.Span {
	return p.span
}

// Lisp implementation for Node interface.
func (p *Literal) Lisp() sexp.SExp {
	return sexp.NewSymbol(p.text)
}

func (p *Literal) node() {}

// ============================================================================
// Variable
// ============================================================================

// Variable reads a local variable or property.
type Variable struct {
	decl     *ast.Property
	datatype types.Type
	span     source.Span
}

var _ Node = &Variable{}

// NewVariable constructs a variable access.
func NewVariable(decl *ast.Property, datatype types.Type, span source.Span) *Variable {
	return &Variable{decl, datatype, span}
}

// Decl returns the variable or property being accessed.
func (p *Variable) Decl() *ast.Property {
	return p.decl
}

// Type implementation for Node interface.
func (p *Variable) Type() types.Type {
	return p.datatype
}

// Span implementation for Node interface.
func (p *Variable) Span() source.Span {
	return p.span
}

// Lisp implementation for Node interface.
func (p *Variable) Lisp() sexp.SExp {
	return sexp.NewSymbol(p.decl.Name())
}

func (p *Variable) node() {}

// ============================================================================
// This
// ============================================================================

// This reads the innermost implicit receiver.
type This struct {
	datatype types.Type
	span     source.Span
}

var _ Node = &This{}

// NewThis constructs an implicit receiver access.
func NewThis(datatype types.Type, span source.Span) *This {
	return &This{datatype, span}
}

// Type implementation for Node interface.
func (p *This) Type() types.Type {
	return p.datatype
}

// Span implementation for Node interface.
func (p *This) Span() source.Span {
	return p.span
}

// Lisp implementation for Node interface.
func (p *This) Lisp() sexp.SExp {
	return sexp.NewSymbol("this")
}

func (p *This) node() {}

// ============================================================================
// Lambda
// ============================================================================

// Lambda is an anonymous function whose parameter types have been determined.
type Lambda struct {
	params   []*ast.Property
	body     Node
	datatype *types.Function
	span     source.Span
}

var _ Node = &Lambda{}

// NewLambda constructs a typed lambda.
func NewLambda(params []*ast.Property, body Node, datatype *types.Function, span source.Span) *Lambda {
	return &Lambda{params, body, datatype, span}
}

// Params returns the lambda's parameters.
func (p *Lambda) Params() []*ast.Property {
	return p.params
}

// Body returns the lambda's body.
func (p *Lambda) Body() Node {
	return p.body
}

// Type implementation for Node interface.
func (p *Lambda) Type() types.Type {
	return p.datatype
}

// Span implementation for Node interface.
func (p *Lambda) Span() source.Span {
	return p.span
}

// Lisp implementation for Node interface.
func (p *Lambda) Lisp() sexp.SExp {
	params := make([]sexp.SExp, len(p.params))
	//
	for i, param := range p.params {
		params[i] = sexp.NewList([]sexp.SExp{
			sexp.NewSymbol(param.Name()),
			sexp.NewSymbol(param.Type().String()),
		})
	}
	//
	return sexp.NewList([]sexp.SExp{sexp.NewSymbol("lambda"), sexp.NewList(params), p.body.Lisp()})
}

func (p *Lambda) node() {}

// ============================================================================
// Let
// ============================================================================

// Let binds local variables for use within its body.
type Let struct {
	locals []*ast.Property
	values []Node
	body   Node
	span   source.Span
}

var _ Node = &Let{}

// NewLet constructs a let node.  Each local is bound to the value at the same
// index.
func NewLet(locals []*ast.Property, values []Node, body Node, span source.Span) *Let {
	if len(locals) != len(values) {
		panic("mismatched let bindings")
	}
	//
	return &Let{locals, values, body, span}
}

// Locals returns the variables bound.
func (p *Let) Locals() []*ast.Property {
	return p.locals
}

// Values returns the values bound to each variable.
func (p *Let) Values() []Node {
	return p.values
}

// Body returns the body of this let.
func (p *Let) Body() Node {
	return p.body
}

// Type implementation for Node interface.
func (p *Let) Type() types.Type {
	return p.body.Type()
}

// Span implementation for Node interface.
func (p *Let) Span() source.Span {
	return p.span
}

// Lisp implementation for Node interface.
func (p *Let) Lisp() sexp.SExp {
	bindings := make([]sexp.SExp, len(p.locals))
	//
	for i, l := range p.locals {
		bindings[i] = sexp.NewList([]sexp.SExp{sexp.NewSymbol(l.Name()), p.values[i].Lisp()})
	}
	//
	return sexp.NewList([]sexp.SExp{sexp.NewSymbol("let"), sexp.NewList(bindings), p.body.Lisp()})
}

func (p *Let) node() {}

// ============================================================================
// Error
// ============================================================================

// Error stands in for an expression which could not be resolved.  A
// diagnostic has always been reported for it.
type Error struct {
	span source.Span
}

var _ Node = &Error{}

// NewError constructs an error node.
func NewError(span source.Span) *Error {
	return &Error{span}
}

// Type implementation for Node interface.
func (p *Error) Type() types.Type {
	return types.Error
}

// Span implementation for Node interface.
func (p *Error) Span() source.Span {
	return p.span
}

// Lisp implementation for Node interface.
func (p *Error) Lisp() sexp.SExp {
	return sexp.NewSymbol(types.Error.String())
}

func (p *Error) node() {}

// String returns a textual representation of a node and its type.
func String(node Node) string {
	return fmt.Sprintf("%s : %s", node.Lisp().String(false), node.Type())
}
