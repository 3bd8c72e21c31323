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
	"github.com/consensys/go-infer/pkg/util/source"
	"github.com/consensys/go-infer/pkg/util/source/sexp"
)

// class is a class declaration in the process of being loaded.
type class struct {
	name     *sexp.Symbol
	datatype *types.Class
	decl     *ast.Class
	bounds   []pending
	// Indicates a fun interface
	fun bool
	// Supertypes and members
	body []sexp.SExp
}

// Declare a class or interface, such as "(defclass (List (out E)) ...)".
func (p *loader) declareClass(l *sexp.List) (*class, *source.SyntaxError) {
	if l.Len() < 2 {
		return nil, p.error(l, "invalid class declaration")
	}
	//
	name, params, bounds, err := p.header(l.Get(1))
	//
	if err != nil {
		return nil, err
	} else if _, ok := p.classes[name.Value]; ok {
		return nil, p.error(name, "duplicate class")
	}
	//
	var (
		iface    = l.Head() == "definterface"
		body     = l.Elements[2:]
		fun      = false
		datatype *types.Class
	)
	//
	if len(body) > 0 && body[0].AsSymbol() != nil && body[0].AsSymbol().Value == ":fun" {
		if !iface {
			return nil, p.error(body[0], "only interfaces can be fun interfaces")
		}
		//
		fun, body = true, body[1:]
	}
	//
	if iface {
		datatype = types.NewInterface(name.Value, params...)
	} else {
		datatype = types.NewClass(name.Value, params...)
	}
	//
	decl := ast.NewClass(datatype, p.span(name))
	p.classes[name.Value] = datatype
	p.program.AddClass(decl)
	//
	return &class{name, datatype, decl, bounds, fun, body}, nil
}

// Parse the header of a class or function, which is either a name or a list
// of a name followed by type parameters.
func (p *loader) header(t sexp.SExp) (*sexp.Symbol, []*types.TypeParameter, []pending, *source.SyntaxError) {
	if s := t.AsSymbol(); s != nil && !s.IsString() {
		return s, nil, nil, nil
	} else if l := t.AsList(); l != nil && l.Len() > 0 && l.Get(0).AsSymbol() != nil {
		params, bounds, err := p.typeParams(l.Elements[1:])
		return l.Get(0).AsSymbol(), params, bounds, err
	}
	//
	return nil, nil, nil, p.error(t, "invalid name")
}

func isMember(t sexp.SExp) bool {
	if l := t.AsList(); l != nil {
		switch l.Head() {
		case "fun", "val", "constructor", "private":
			return true
		}
	}
	//
	return false
}

func (p *loader) defineSupertypes(c *class) *source.SyntaxError {
	p.enter(c.datatype.Params())
	defer p.leave()
	//
	if err := p.bounds(c.bounds); err != nil {
		return err
	}
	//
	var supertypes []*types.Nominal
	//
	for _, t := range c.body {
		if isMember(t) {
			continue
		}
		//
		super, err := p.parseType(t)
		//
		if err != nil {
			return err
		} else if n, ok := super.(*types.Nominal); !ok || n.Nullable() {
			return p.error(t, "invalid supertype")
		} else {
			supertypes = append(supertypes, n)
		}
	}
	//
	if len(supertypes) == 0 {
		supertypes = append(supertypes, p.universe.AnyType())
	}
	//
	c.datatype.SetSupertypes(supertypes...)
	//
	return nil
}

// Cyclic inheritance is reported here, since sealing a cyclic class is an
// internal failure.
func (p *loader) checkCycles(classes []*class) *source.SyntaxError {
	const (
		visiting = 1
		visited  = 2
	)
	//
	var (
		state = make(map[*types.Class]int)
		visit func(*types.Class) bool
	)
	//
	visit = func(c *types.Class) bool {
		switch state[c] {
		case visiting:
			return false
		case visited:
			return true
		}
		//
		state[c] = visiting
		//
		for _, s := range c.Supertypes() {
			if !visit(s.Class()) {
				return false
			}
		}
		//
		state[c] = visited
		//
		return true
	}
	//
	for _, c := range classes {
		if !visit(c.datatype) {
			return p.error(c.name, "cyclic inheritance")
		}
	}
	//
	return nil
}

func (p *loader) defineMembers(c *class) *source.SyntaxError {
	var (
		scope    = ast.NewReceiverScope(p.program.Root(), c.datatype.Self(), c.decl)
		abstract []*ast.Function
	)
	//
	p.enter(c.datatype.Params())
	defer p.leave()
	//
	for _, t := range c.body {
		if !isMember(t) {
			continue
		}
		//
		decl, err := p.member(t.AsList(), ast.Public)
		//
		if err != nil {
			return err
		}
		//
		c.decl.AddMember(decl)
		//
		switch d := decl.(type) {
		case *ast.Function:
			if d.Body() != nil {
				p.program.AddTopLevel(d, scope)
			} else {
				abstract = append(abstract, d)
			}
		case *ast.Property:
			if d.Init() != nil {
				p.program.AddTopLevel(d, scope)
			}
		}
	}
	// Classes without constructors have an implicit one.
	if len(c.decl.Constructors()) == 0 && !c.datatype.IsInterface() {
		c.decl.AddMember(ast.NewConstructor(nil, ast.Public, p.span(c.name)))
	}
	//
	for _, ctor := range c.decl.Constructors() {
		p.program.Root().Declare(ctor)
	}
	//
	if c.fun {
		if len(abstract) != 1 || len(abstract[0].TypeParams()) != 0 {
			return p.error(c.name, "fun interface requires exactly one abstract function")
		}
		//
		sam := abstract[0]
		c.datatype.SetSam(types.NewFunction(ast.ParameterTypes(sam.Params()), sam.Return()))
	}
	//
	return nil
}

// Parse a class member, such as "(fun get ((i Int)) E)" or "(val size Int)".
func (p *loader) member(l *sexp.List, visibility ast.Visibility) (ast.Declaration, *source.SyntaxError) {
	switch l.Head() {
	case "private":
		if l.Len() != 2 || !isMember(l.Get(1)) {
			return nil, p.error(l, "invalid private member")
		}
		//
		return p.member(l.Get(1).AsList(), ast.Private)
	case "fun":
		fn, err := p.function(l, l.Elements[1:], nil, visibility)
		if err != nil {
			return nil, err
		}
		//
		return fn, nil
	case "val":
		prop, err := p.property(l, visibility)
		if err != nil {
			return nil, err
		}
		//
		return prop, nil
	default:
		if l.Len() != 2 {
			return nil, p.error(l, "invalid constructor")
		}
		//
		params, err := p.params(l.Get(1))
		//
		if err != nil {
			return nil, err
		}
		//
		return ast.NewConstructor(params, visibility, p.span(l.Get(0))), nil
	}
}

// Parse a function from its header onwards, i.e. "header params return
// [body]".  Extensions additionally have a receiver type.
func (p *loader) function(form sexp.SExp, elements []sexp.SExp, receiver sexp.SExp,
	visibility ast.Visibility) (*ast.Function, *source.SyntaxError) {
	if len(elements) != 3 && len(elements) != 4 {
		return nil, p.error(form, "invalid function declaration")
	}
	//
	name, tparams, bounds, err := p.header(elements[0])
	//
	if err != nil {
		return nil, err
	}
	//
	p.enter(tparams)
	defer p.leave()
	//
	var (
		recv   types.Type
		params []ast.Parameter
		ret    types.Type
		body   ast.Expr
	)
	//
	if err = p.bounds(bounds); err != nil {
		return nil, err
	} else if receiver != nil {
		if recv, err = p.parseType(receiver); err != nil {
			return nil, err
		}
	}
	//
	if params, err = p.params(elements[1]); err != nil {
		return nil, err
	} else if ret, err = p.parseType(elements[2]); err != nil {
		return nil, err
	} else if len(elements) == 4 {
		if body, err = p.expr(elements[3]); err != nil {
			return nil, err
		}
	}
	//
	return ast.NewFunction(name.Value, tparams, recv, params, ret, body, visibility, p.span(name)), nil
}

// Parse a parameter list, such as "((x Int) (y Int 0))".
func (p *loader) params(t sexp.SExp) ([]ast.Parameter, *source.SyntaxError) {
	var (
		l      = t.AsList()
		names  = make(map[string]bool)
		params []ast.Parameter
	)
	//
	if l == nil {
		return nil, p.error(t, "invalid parameter list")
	}
	//
	for _, e := range l.Elements {
		var (
			pl    = e.AsList()
			dflt  ast.Expr
			ptype types.Type
			err   *source.SyntaxError
		)
		//
		if pl == nil || pl.Len() < 2 || pl.Len() > 3 || pl.Get(0).AsSymbol() == nil {
			return nil, p.error(e, "invalid parameter")
		} else if names[pl.Head()] {
			return nil, p.error(pl.Get(0), "duplicate parameter")
		} else if ptype, err = p.parseType(pl.Get(1)); err != nil {
			return nil, err
		} else if pl.Len() == 3 {
			if dflt, err = p.expr(pl.Get(2)); err != nil {
				return nil, err
			}
		}
		//
		names[pl.Head()] = true
		params = append(params, ast.Parameter{Name: pl.Head(), Type: ptype, Default: dflt})
	}
	//
	return params, nil
}

// Parse a member property "(val name Type [init])".
func (p *loader) property(l *sexp.List, visibility ast.Visibility) (*ast.Property, *source.SyntaxError) {
	if (l.Len() != 3 && l.Len() != 4) || l.Get(1).AsSymbol() == nil {
		return nil, p.error(l, "invalid property")
	}
	//
	var (
		name = l.Get(1).AsSymbol()
		init ast.Expr
	)
	//
	ptype, err := p.parseType(l.Get(2))
	//
	if err != nil {
		return nil, err
	} else if l.Len() == 4 {
		if init, err = p.expr(l.Get(3)); err != nil {
			return nil, err
		}
	}
	//
	return ast.NewProperty(name.Value, ptype, init, visibility, p.span(name)), nil
}

// ============================================================================
// Top-level declarations
// ============================================================================

func (p *loader) declarations(terms []sexp.SExp, scope *ast.Scope) {
	for _, t := range terms {
		l := t.AsList()
		//
		if l == nil {
			p.report(p.error(t, "invalid declaration"))
			continue
		}
		//
		switch l.Head() {
		case "defclass", "definterface":
			if !scope.IsRoot() {
				p.report(p.error(t, "classes must be declared at the top level"))
			}
		case "defun":
			fn, err := p.function(l, l.Elements[1:], nil, ast.Public)
			p.declare(fn, err, scope)
		case "defext":
			if l.Len() < 2 {
				p.report(p.error(t, "invalid extension"))
				continue
			}
			//
			fn, err := p.function(l, l.Elements[2:], l.Get(1), ast.Public)
			p.declare(fn, err, scope)
		case "defprop":
			prop, err := p.defprop(l)
			p.declare(prop, err, scope)
		case "defval":
			prop, err := p.defval(l)
			p.declare(prop, err, scope)
		case "scope":
			p.declarations(l.Elements[1:], ast.NewScope(scope))
		default:
			p.report(p.error(t, "unknown declaration"))
		}
	}
}

// Declare a successfully parsed declaration in a given scope, registering it
// for resolution if it has a body or initialiser.
func (p *loader) declare(decl ast.Declaration, err *source.SyntaxError, scope *ast.Scope) {
	if err != nil {
		p.report(err)
		return
	}
	//
	scope.Declare(decl)
	//
	switch d := decl.(type) {
	case *ast.Function:
		if d.Body() != nil {
			p.program.AddTopLevel(d, scope)
		}
	case *ast.Property:
		if d.Init() != nil {
			p.program.AddTopLevel(d, scope)
		}
	}
}

// Parse "(defprop name Type)".
func (p *loader) defprop(l *sexp.List) (*ast.Property, *source.SyntaxError) {
	if l.Len() != 3 || l.Get(1).AsSymbol() == nil {
		return nil, p.error(l, "invalid property")
	}
	//
	ptype, err := p.parseType(l.Get(2))
	//
	if err != nil {
		return nil, err
	}
	//
	return ast.NewProperty(l.Get(1).AsSymbol().Value, ptype, nil, ast.Public, p.span(l.Get(1))), nil
}

// Parse "(defval name [Type] expr)".
func (p *loader) defval(l *sexp.List) (*ast.Property, *source.SyntaxError) {
	if (l.Len() != 3 && l.Len() != 4) || l.Get(1).AsSymbol() == nil {
		return nil, p.error(l, "invalid value")
	}
	//
	var (
		ptype types.Type
		err   *source.SyntaxError
	)
	//
	if l.Len() == 4 {
		if ptype, err = p.parseType(l.Get(2)); err != nil {
			return nil, err
		}
	}
	//
	init, err := p.expr(l.Get(l.Len() - 1))
	//
	if err != nil {
		return nil, err
	}
	//
	return ast.NewProperty(l.Get(1).AsSymbol().Value, ptype, init, ast.Public, p.span(l.Get(1))), nil
}
