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
)

// Scope is one level of lexical scoping.  Scopes form a tree rooted at the
// file scope, with nested scopes introduced by class bodies, function bodies,
// lambdas and let expressions.  Scopes shared between workers are never
// modified after loading.
type Scope struct {
	parent *Scope
	// Declarations at this level, grouped by name in order of declaration.
	names map[string][]Declaration
	// Implicit receiver introduced at this level (or nil).
	receiver types.Type
	// Class whose body this level represents (or nil).
	class *Class
}

// NewScope constructs a scope nested within a given parent (which may be
// nil).
func NewScope(parent *Scope) *Scope {
	return &Scope{parent, make(map[string][]Declaration), nil, nil}
}

// NewReceiverScope constructs a scope which introduces an implicit receiver
// (i.e. "this").  The class is the one whose body is being entered, or nil for
// an extension body.
func NewReceiverScope(parent *Scope, receiver types.Type, class *Class) *Scope {
	return &Scope{parent, make(map[string][]Declaration), receiver, class}
}

// Parent returns the enclosing scope, or nil for the root.
func (p *Scope) Parent() *Scope {
	return p.parent
}

// IsRoot determines whether this is the outermost scope.
func (p *Scope) IsRoot() bool {
	return p.parent == nil
}

// Declare a declaration at this level.  Overloads are permitted.
func (p *Scope) Declare(decl Declaration) {
	p.names[decl.Name()] = append(p.names[decl.Name()], decl)
}

// Lookup returns the declarations at this level (only) with a given name and
// kind, in order of declaration.
func (p *Scope) Lookup(name string, kind Kind) []Declaration {
	var decls []Declaration
	//
	for _, d := range p.names[name] {
		if d.Kind() == kind {
			decls = append(decls, d)
		}
	}
	//
	return decls
}

// Has determines whether anything with the given name is declared at this
// level.
func (p *Scope) Has(name string) bool {
	return len(p.names[name]) > 0
}

// Receiver returns the implicit receiver introduced at this level, or nil.
func (p *Scope) Receiver() types.Type {
	return p.receiver
}

// Class returns the class whose body this level represents, or nil.
func (p *Scope) Class() *Class {
	return p.class
}

// EnclosingClass returns the innermost class whose body encloses this scope,
// or nil.
func (p *Scope) EnclosingClass() *Class {
	for s := p; s != nil; s = s.parent {
		if s.class != nil {
			return s.class
		}
	}
	//
	return nil
}

// ImplicitReceiver returns the innermost implicit receiver in scope, or nil.
func (p *Scope) ImplicitReceiver() types.Type {
	for s := p; s != nil; s = s.parent {
		if s.receiver != nil {
			return s.receiver
		}
	}
	//
	return nil
}

// Levels returns this scope and its ancestors, innermost first.
func (p *Scope) Levels() []*Scope {
	var levels []*Scope
	//
	for s := p; s != nil; s = s.parent {
		levels = append(levels, s)
	}
	//
	return levels
}
