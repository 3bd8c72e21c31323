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

// Kind identifies the variant of a declaration.  The set of variants is
// closed, and consumers are expected to switch over it exhaustively.
type Kind uint8

const (
	// FunctionKind identifies a function declaration (including members and
	// extensions).
	FunctionKind Kind = iota
	// PropertyKind identifies a property declaration, or a local variable.
	PropertyKind
	// ConstructorKind identifies a class constructor.
	ConstructorKind
)

func (k Kind) String() string {
	switch k {
	case FunctionKind:
		return "function"
	case PropertyKind:
		return "property"
	default:
		return "constructor"
	}
}

// Visibility determines where a declaration can be referred to from.
type Visibility uint8

const (
	// Public declarations are visible everywhere.
	Public Visibility = iota
	// Private declarations are visible only within their owning class (or, for
	// non-members, within their declaring scope).
	Private
)

// Declaration represents a named entity which can be referred to at a call
// site.  Declarations are immutable once loaded.
type Declaration interface {
	// Name of this declaration.
	Name() string
	// Kind of this declaration.
	Kind() Kind
	// Owner returns the class of which this is a member (or nil).
	Owner() *Class
	// Visibility of this declaration.
	Visibility() Visibility
	// Span of this declaration in its source file.
	Span() source.Span
	// Closes the set of declaration variants.
	declaration()
}

// Parameter of a function or constructor.
type Parameter struct {
	Name string
	Type types.Type
	// Default value expression, or nil if the parameter has no default.
	Default Expr
}

// HasDefault determines whether an argument for this parameter can be
// omitted.
func (p Parameter) HasDefault() bool {
	return p.Default != nil
}

// ParameterTypes extracts the types of a given set of parameters.
func ParameterTypes(params []Parameter) []types.Type {
	ts := make([]types.Type, len(params))
	//
	for i, p := range params {
		ts[i] = p.Type
	}
	//
	return ts
}

// ============================================================================
// Function
// ============================================================================

// Function is a function declaration.  This is either a top-level function,
// a member of some class, or an extension (i.e. with a receiver type).
type Function struct {
	name       string
	typeParams []*types.TypeParameter
	// Receiver type for an extension (or nil)
	receiver   types.Type
	params     []Parameter
	ret        types.Type
	body       Expr
	owner      *Class
	visibility Visibility
	span       source.Span
}

var _ Declaration = &Function{}

// NewFunction constructs a new function declaration.  The receiver and body
// are optional.
func NewFunction(name string, typeParams []*types.TypeParameter, receiver types.Type, params []Parameter,
	ret types.Type, body Expr, visibility Visibility, span source.Span) *Function {
	return &Function{name, typeParams, receiver, params, ret, body, nil, visibility, span}
}

// Name implementation for Declaration interface.
func (p *Function) Name() string {
	return p.name
}

// Kind implementation for Declaration interface.
func (p *Function) Kind() Kind {
	return FunctionKind
}

// Owner implementation for Declaration interface.
func (p *Function) Owner() *Class {
	return p.owner
}

// Visibility implementation for Declaration interface.
func (p *Function) Visibility() Visibility {
	return p.visibility
}

// Span implementation for Declaration interface.
func (p *Function) Span() source.Span {
	return p.span
}

// TypeParams returns the type parameters declared on this function.
func (p *Function) TypeParams() []*types.TypeParameter {
	return p.typeParams
}

// Receiver returns the receiver type of an extension, or nil.
func (p *Function) Receiver() types.Type {
	return p.receiver
}

// IsExtension determines whether this is an extension function.
func (p *Function) IsExtension() bool {
	return p.receiver != nil
}

// Params returns the declared parameters.
func (p *Function) Params() []Parameter {
	return p.params
}

// Return returns the declared return type.
func (p *Function) Return() types.Type {
	return p.ret
}

// Body returns the body of this function, or nil.
func (p *Function) Body() Expr {
	return p.body
}

func (p *Function) declaration() {}

// ============================================================================
// Property
// ============================================================================

// Property is a named value.  Properties may be declared at the top-level, as
// class members, or locally (e.g. let bindings and parameters).
type Property struct {
	name string
	// Declared type, or nil if it is to be inferred from the initialiser.
	datatype   types.Type
	init       Expr
	local      bool
	owner      *Class
	visibility Visibility
	span       source.Span
}

var _ Declaration = &Property{}

// NewProperty constructs a new property.  Either the type or the initialiser
// may be omitted, though not both.
func NewProperty(name string, datatype types.Type, init Expr, visibility Visibility, span source.Span) *Property {
	if datatype == nil && init == nil {
		panic("property requires either a type or an initialiser")
	}
	//
	return &Property{name, datatype, init, false, nil, visibility, span}
}

// NewLocal constructs a local variable of known type.
func NewLocal(name string, datatype types.Type, span source.Span) *Property {
	return &Property{name, datatype, nil, true, nil, Public, span}
}

// Name implementation for Declaration interface.
func (p *Property) Name() string {
	return p.name
}

// Kind implementation for Declaration interface.
func (p *Property) Kind() Kind {
	return PropertyKind
}

// Owner implementation for Declaration interface.
func (p *Property) Owner() *Class {
	return p.owner
}

// Visibility implementation for Declaration interface.
func (p *Property) Visibility() Visibility {
	return p.visibility
}

// Span implementation for Declaration interface.
func (p *Property) Span() source.Span {
	return p.span
}

// Type returns the declared type, or nil if none was given.
func (p *Property) Type() types.Type {
	return p.datatype
}

// Init returns the initialiser, or nil if none was given.
func (p *Property) Init() Expr {
	return p.init
}

// IsLocal determines whether this is a local variable.
func (p *Property) IsLocal() bool {
	return p.local
}

func (p *Property) declaration() {}

// ============================================================================
// Constructor
// ============================================================================

// Constructor creates instances of a class.  Its name is that of the class.
type Constructor struct {
	params     []Parameter
	owner      *Class
	visibility Visibility
	span       source.Span
}

var _ Declaration = &Constructor{}

// NewConstructor constructs a new constructor declaration.
func NewConstructor(params []Parameter, visibility Visibility, span source.Span) *Constructor {
	return &Constructor{params, nil, visibility, span}
}

// Name implementation for Declaration interface.
func (p *Constructor) Name() string {
	return p.owner.Name()
}

// Kind implementation for Declaration interface.
func (p *Constructor) Kind() Kind {
	return ConstructorKind
}

// Owner implementation for Declaration interface.
func (p *Constructor) Owner() *Class {
	return p.owner
}

// Visibility implementation for Declaration interface.
func (p *Constructor) Visibility() Visibility {
	return p.visibility
}

// Span implementation for Declaration interface.
func (p *Constructor) Span() source.Span {
	return p.span
}

// Params returns the declared parameters.
func (p *Constructor) Params() []Parameter {
	return p.params
}

// Return returns the type constructed, which is the class itself instantiated
// with its own type parameters.
func (p *Constructor) Return() types.Type {
	return p.owner.Type().Self()
}

func (p *Constructor) declaration() {}

// ============================================================================
// Signatures
// ============================================================================

// Signature summarises the callable shape of a declaration.
type Signature struct {
	TypeParams []*types.TypeParameter
	Receiver   types.Type
	Params     []Parameter
	Return     types.Type
}

// SignatureOf returns the callable shape of a function or constructor.  For
// properties, false is returned since they are not directly callable.
func SignatureOf(decl Declaration) (Signature, bool) {
	switch d := decl.(type) {
	case *Function:
		return Signature{d.typeParams, d.receiver, d.params, d.ret}, true
	case *Constructor:
		return Signature{d.owner.Type().Params(), nil, d.params, d.Return()}, true
	case *Property:
		return Signature{}, false
	default:
		panic("unknown declaration")
	}
}
