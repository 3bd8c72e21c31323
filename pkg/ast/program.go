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

// Program is the result of loading one compilation unit: its classes, its
// scope tree and the declarations with bodies which need resolving.
type Program struct {
	universe *types.Universe
	srcfile  *source.File
	classes  map[*types.Class]*Class
	root     *Scope
	// Declarations with bodies or initialisers, in order of declaration, and
	// the scopes in which they are declared.
	toplevels []TopLevel
}

// TopLevel is a top-level declaration together with the scope in which it is
// declared.  These are resolved independently of each other.
type TopLevel struct {
	Decl  Declaration
	Scope *Scope
}

// NewProgram constructs an empty program over a given universe.
func NewProgram(universe *types.Universe, srcfile *source.File) *Program {
	p := &Program{universe, srcfile, make(map[*types.Class]*Class), NewScope(nil), nil}
	// Built-in classes have no members, though extensions may be declared on
	// them.
	for _, c := range universe.Classes() {
		p.classes[c] = NewClass(c, source.NewSpan(0, 0))
	}
	//
	return p
}

// Universe returns the built-in classes.
func (p *Program) Universe() *types.Universe {
	return p.universe
}

// Source returns the file from which this program was loaded.
func (p *Program) Source() *source.File {
	return p.srcfile
}

// Root returns the outermost scope.
func (p *Program) Root() *Scope {
	return p.root
}

// AddClass registers a class declaration.
func (p *Program) AddClass(class *Class) {
	p.classes[class.Type()] = class
}

// ClassOf returns the class declaration for a nominal class, or nil.
func (p *Program) ClassOf(class *types.Class) *Class {
	return p.classes[class]
}

// AddTopLevel registers a declaration to be resolved.
func (p *Program) AddTopLevel(decl Declaration, scope *Scope) {
	p.toplevels = append(p.toplevels, TopLevel{decl, scope})
}

// TopLevels returns the declarations to be resolved, in order of declaration.
func (p *Program) TopLevels() []TopLevel {
	return p.toplevels
}
