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
package loader

import (
	"github.com/consensys/go-infer/pkg/ast"
	"github.com/consensys/go-infer/pkg/types"
	"github.com/consensys/go-infer/pkg/util/collection/stack"
	"github.com/consensys/go-infer/pkg/util/source"
	"github.com/consensys/go-infer/pkg/util/source/sexp"
)

// Load reads a fixture file into a program over a given universe.  Classes are
// declared before anything else, so that types can refer to classes declared
// later in the file.  If any syntax errors are found, then no program is
// returned.
func Load(universe *types.Universe, srcfile *source.File) (*ast.Program, []source.SyntaxError) {
	terms, srcmap, err := sexp.ParseAll(srcfile)
	// Check file parsed ok
	if err != nil {
		return nil, []source.SyntaxError{*err}
	}
	//
	l := &loader{
		universe: universe,
		srcmap:   srcmap,
		program:  ast.NewProgram(universe, srcfile),
		classes:  make(map[string]*types.Class),
		env:      stack.NewStack[map[string]*types.TypeParameter](),
	}
	//
	for _, c := range universe.Classes() {
		l.classes[c.Name()] = c
	}
	//
	return l.load(terms)
}

// loader translates the S-expressions of one file into a program.
type loader struct {
	universe *types.Universe
	srcmap   *source.Map[sexp.SExp]
	program  *ast.Program
	// Classes by name, including the built-in ones.
	classes map[string]*types.Class
	// Type parameters in scope, with the innermost on top.
	env    *stack.Stack[map[string]*types.TypeParameter]
	errors []source.SyntaxError
}

// pending holds the bounds of a type parameter, which are parsed only once
// every parameter in the same list is in scope.
type pending struct {
	slot   *[]types.Type
	bounds []sexp.SExp
}

func (p *loader) load(terms []sexp.SExp) (*ast.Program, []source.SyntaxError) {
	var classes []*class
	//
	for _, t := range terms {
		if l := t.AsList(); l != nil && (l.Head() == "defclass" || l.Head() == "definterface") {
			if c, err := p.declareClass(l); err != nil {
				p.errors = append(p.errors, *err)
			} else {
				classes = append(classes, c)
			}
		}
	}
	//
	for _, c := range classes {
		p.report(p.defineSupertypes(c))
	}
	//
	if len(p.errors) == 0 {
		p.report(p.checkCycles(classes))
	}
	// Members are defined before sealing, since fun interfaces are marked by
	// their abstract member.
	for _, c := range classes {
		p.report(p.defineMembers(c))
	}
	//
	if len(p.errors) > 0 {
		return nil, p.errors
	}
	//
	for _, c := range classes {
		c.datatype.Seal()
	}
	//
	p.declarations(terms, p.program.Root())
	//
	if len(p.errors) > 0 {
		return nil, p.errors
	}
	//
	return p.program, nil
}

func (p *loader) report(err *source.SyntaxError) {
	if err != nil {
		p.errors = append(p.errors, *err)
	}
}

func (p *loader) error(term sexp.SExp, msg string) *source.SyntaxError {
	return p.srcmap.SyntaxError(term, msg)
}

func (p *loader) span(term sexp.SExp) source.Span {
	return p.srcmap.Get(term)
}

// ============================================================================
// Type parameters
// ============================================================================

// Parse a list of type parameters, such as "T", "(out E)" or "(T Number)".
// Bounds are left pending until the parameters are in scope.
func (p *loader) typeParams(terms []sexp.SExp) ([]*types.TypeParameter, []pending, *source.SyntaxError) {
	var (
		params  = make([]*types.TypeParameter, len(terms))
		bounds  = make([]pending, len(terms))
		names   = make(map[string]bool)
		name    *sexp.Symbol
		variant types.Variance
	)
	//
	for i, t := range terms {
		var rest []sexp.SExp
		//
		switch {
		case t.AsSymbol() != nil:
			name, variant = t.AsSymbol(), types.Invariant
		case t.AsList() != nil && t.AsList().Len() > 0:
			elements := t.AsList().Elements
			variant = types.Invariant
			//
			switch t.AsList().Head() {
			case "out":
				variant, elements = types.Covariant, elements[1:]
			case "in":
				variant, elements = types.Contravariant, elements[1:]
			}
			//
			if len(elements) == 0 || elements[0].AsSymbol() == nil {
				return nil, nil, p.error(t, "invalid type parameter")
			}
			//
			name, rest = elements[0].AsSymbol(), elements[1:]
		default:
			return nil, nil, p.error(t, "invalid type parameter")
		}
		//
		if names[name.Value] {
			return nil, nil, p.error(name, "duplicate type parameter")
		}
		//
		slot := new([]types.Type)
		names[name.Value] = true
		params[i] = types.NewDeferredTypeParameter(name.Value, variant, func() []types.Type { return *slot })
		bounds[i] = pending{slot, rest}
	}
	//
	return params, bounds, nil
}

// Bring a list of type parameters into scope.
func (p *loader) enter(params []*types.TypeParameter) {
	env := make(map[string]*types.TypeParameter, len(params))
	//
	for _, param := range params {
		env[param.Name()] = param
	}
	//
	p.env.Push(env)
}

func (p *loader) leave() {
	p.env.Pop()
}

func (p *loader) lookupParam(name string) *types.TypeParameter {
	for i := uint(0); i < p.env.Len(); i++ {
		if param, ok := p.env.Peek(i)[name]; ok {
			return param
		}
	}
	//
	return nil
}

// Parse pending bounds, with their parameters in scope.
func (p *loader) bounds(pendings []pending) *source.SyntaxError {
	for _, b := range pendings {
		for _, t := range b.bounds {
			bound, err := p.parseType(t)
			//
			if err != nil {
				return err
			}
			//
			*b.slot = append(*b.slot, bound)
		}
	}
	//
	return nil
}
