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
package ast

import (
	"github.com/consensys/go-infer/pkg/types"
	"github.com/consensys/go-infer/pkg/util/source"
)

// Expr represents an expression in the syntax tree.  Every expression carries
// the span of the source text from which it was parsed.
type Expr interface {
	// Span of this expression in its source file.
	Span() source.Span
	// Closes the set of expression variants.
	expression()
}

// node provides the span shared by all expressions.
type node struct {
	span source.Span
}

func (p *node) Span() source.Span {
	return p.span
}

func (p *node) expression() {}

// IntLiteral is an integer literal, such as "1" or "1L".
type IntLiteral struct {
	node
	Text string
}

// NewIntLiteral constructs an integer literal.
func NewIntLiteral(text string, span source.Span) *IntLiteral {
	return &IntLiteral{node{span}, text}
}

// DecimalLiteral is a floating point literal, such as "1.0" or "1.0f".
type DecimalLiteral struct {
	node
	Text string
}

// NewDecimalLiteral constructs a decimal literal.
func NewDecimalLiteral(text string, span source.Span) *DecimalLiteral {
	return &DecimalLiteral{node{span}, text}
}

// StringLiteral is a (double quoted) string literal.
type StringLiteral struct {
	node
	Value string
}

// NewStringLiteral constructs a string literal.
func NewStringLiteral(value string, span source.Span) *StringLiteral {
	return &StringLiteral{node{span}, value}
}

// BoolLiteral is either "true" or "false".
type BoolLiteral struct {
	node
	Value bool
}

// NewBoolLiteral constructs a boolean literal.
func NewBoolLiteral(value bool, span source.Span) *BoolLiteral {
	return &BoolLiteral{node{span}, value}
}

// NullLiteral is the literal "null".
type NullLiteral struct {
	node
}

// NewNullLiteral constructs a null literal.
func NewNullLiteral(span source.Span) *NullLiteral {
	return &NullLiteral{node{span}}
}

// Name refers to a variable or property by name.
type Name struct {
	node
	Name string
}

// NewName constructs a name reference.
func NewName(name string, span source.Span) *Name {
	return &Name{node{span}, name}
}

// This refers to the innermost implicit receiver.
type This struct {
	node
}

// NewThis constructs a reference to the implicit receiver.
func NewThis(span source.Span) *This {
	return &This{node{span}}
}

// Call invokes a named function, constructor or value of functional type.
type Call struct {
	node
	// Explicit receiver, or nil.
	Receiver Expr
	Name     string
	// Span of the name itself.
	NameSpan source.Span
	// Explicitly given type arguments (nil if none given).
	TypeArgs []types.Type
	Args     []Expr
}

// NewCall constructs a call expression.
func NewCall(receiver Expr, name string, nameSpan source.Span, typeArgs []types.Type, args []Expr,
	span source.Span) *Call {
	return &Call{node{span}, receiver, name, nameSpan, typeArgs, args}
}

// LambdaParam is a parameter of a lambda, whose type is optional.
type LambdaParam struct {
	Name string
	// Declared type, or nil when inferred from the expected type.
	Type types.Type
	Span source.Span
}

// Lambda is an anonymous function.
type Lambda struct {
	node
	Params []LambdaParam
	Body   Expr
}

// NewLambda constructs a lambda expression.
func NewLambda(params []LambdaParam, body Expr, span source.Span) *Lambda {
	return &Lambda{node{span}, params, body}
}

// HasUntypedParams determines whether any parameter lacks a declared type.
func (p *Lambda) HasUntypedParams() bool {
	for _, param := range p.Params {
		if param.Type == nil {
			return true
		}
	}
	//
	return false
}

// Binding associates a local variable with its initialiser.
type Binding struct {
	Name  string
	Value Expr
	Span  source.Span
}

// Let introduces local variables which are visible in its body.
type Let struct {
	node
	Bindings []Binding
	Body     Expr
}

// NewLet constructs a let expression.
func NewLet(bindings []Binding, body Expr, span source.Span) *Let {
	return &Let{node{span}, bindings, body}
}
