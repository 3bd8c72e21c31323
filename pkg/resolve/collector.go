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

	"github.com/consensys/go-infer/pkg/ast"
	"github.com/consensys/go-infer/pkg/ir"
	"github.com/consensys/go-infer/pkg/types"
)

// Collector gathers the candidates for a call site.  Scope levels are searched
// from innermost to outermost, and the search stops at the first level which
// yields any candidate.  Hence, inner declarations completely shadow outer
// ones of the same name, even when the outer ones would be more specific.
// Members of an explicit receiver are always candidates.
type Collector struct {
	program *ast.Program
	lattice *types.Lattice
	// Determines the type of a property, inferring it where necessary.
	typeOf func(*ast.Property) types.Type
}

// NewCollector constructs a collector for a given program.
func NewCollector(program *ast.Program, lattice *types.Lattice, typeOf func(*ast.Property) types.Type) *Collector {
	return &Collector{program, lattice, typeOf}
}

// Collect the candidates for a call to a given name from a given scope.  The
// receiver is the type of the explicit receiver, or nil if there is none.
func (p *Collector) Collect(scope *ast.Scope, name string, receiver types.Type) []*Candidate {
	if receiver != nil {
		return p.collectExplicit(scope, name, receiver)
	}
	//
	return p.collectImplicit(scope, name)
}

type implicitReceiver struct {
	datatype types.Type
	id       int
}

func (p *Collector) collectImplicit(scope *ast.Scope, name string) []*Candidate {
	var (
		levels    = scope.Levels()
		receivers []implicitReceiver
	)
	//
	for i, level := range levels {
		if r := level.Receiver(); r != nil {
			receivers = append(receivers, implicitReceiver{r, 1 + i})
		}
	}
	//
	for i, level := range levels {
		var candidates []*Candidate
		//
		for _, d := range level.Lookup(name, ast.PropertyKind) {
			prop := d.(*ast.Property)
			//
			if c := p.invoke(prop, p.typeOf(prop), nil, -1); c != nil {
				candidates = append(candidates, c)
			}
		}
		//
		for _, d := range level.Lookup(name, ast.FunctionKind) {
			fn := d.(*ast.Function)
			//
			if !fn.IsExtension() {
				candidates = append(candidates, p.function(fn))
				continue
			}
			// One candidate per implicit receiver the extension applies to.
			for _, r := range receivers {
				if p.accepts(fn, r.datatype) {
					candidates = append(candidates, p.extension(fn, r.datatype, r.id))
				}
			}
		}
		//
		for _, d := range level.Lookup(name, ast.ConstructorKind) {
			if ctor := d.(*ast.Constructor); p.visible(scope, ctor) {
				candidates = append(candidates, p.constructor(ctor))
			}
		}
		//
		if r := level.Receiver(); r != nil {
			candidates = append(candidates, p.members(scope, name, r, 1+i)...)
		}
		//
		if len(candidates) > 0 {
			return candidates
		}
	}
	//
	return nil
}

func (p *Collector) collectExplicit(scope *ast.Scope, name string, receiver types.Type) []*Candidate {
	candidates := p.members(scope, name, receiver, 0)
	//
	for _, level := range scope.Levels() {
		var extensions []*Candidate
		//
		for _, d := range level.Lookup(name, ast.FunctionKind) {
			if fn := d.(*ast.Function); fn.IsExtension() && p.accepts(fn, receiver) {
				extensions = append(extensions, p.extension(fn, receiver, 0))
			}
		}
		//
		if len(extensions) > 0 {
			return append(candidates, extensions...)
		}
	}
	//
	return candidates
}

// Members of the receiver's class and its supertypes, which are accessible
// from the given scope.
func (p *Collector) members(scope *ast.Scope, name string, receiver types.Type, id int) []*Candidate {
	var (
		nominal    = p.nominalOf(types.MakeNonNull(receiver))
		candidates []*Candidate
	)
	//
	if nominal == nil {
		return nil
	}
	//
	for _, super := range nominal.Class().Closure() {
		class := p.program.ClassOf(super.Type.Class())
		//
		if class == nil {
			continue
		}
		//
		view, hops, _ := nominal.View(super.Type.Class())
		subst := p.classSubstitution(view)
		//
		for _, d := range class.MembersNamed(name, ast.FunctionKind) {
			if fn := d.(*ast.Function); p.visible(scope, fn) {
				candidates = append(candidates, p.member(fn, subst, receiver, id, hops))
			}
		}
		//
		for _, d := range class.MembersNamed(name, ast.PropertyKind) {
			prop := d.(*ast.Property)
			//
			if !p.visible(scope, prop) {
				continue
			} else if c := p.invoke(prop, subst.Apply(p.typeOf(prop)), receiver, id); c != nil {
				c.Hops = hops
				candidates = append(candidates, c)
			}
		}
	}
	//
	return candidates
}

// Property finds the member property of a receiver with a given name, giving
// its type as seen through that receiver.  Declarations nearer the receiver's
// class take precedence.
func (p *Collector) Property(scope *ast.Scope, receiver types.Type, name string) (*ast.Property, types.Type) {
	nominal := p.nominalOf(types.MakeNonNull(receiver))
	//
	if nominal == nil {
		return nil, nil
	}
	//
	for _, super := range nominal.Class().Closure() {
		class := p.program.ClassOf(super.Type.Class())
		//
		if class == nil {
			continue
		}
		//
		for _, d := range class.MembersNamed(name, ast.PropertyKind) {
			if prop := d.(*ast.Property); p.visible(scope, prop) {
				view, _, _ := nominal.View(super.Type.Class())
				return prop, p.classSubstitution(view).Apply(p.typeOf(prop))
			}
		}
	}
	//
	return nil, nil
}

// Determine the nominal type through which members of a type are found.  For a
// type parameter, this is its first nominal bound.
func (p *Collector) nominalOf(t types.Type) *types.Nominal {
	switch t := t.(type) {
	case *types.Nominal:
		return t
	case *types.Parameter:
		if bounds, err := t.Param().EffectiveBounds(); err == nil {
			for _, b := range bounds {
				if n, ok := types.MakeNonNull(b).(*types.Nominal); ok {
					return n
				}
			}
		}
		//
		return p.lattice.Universe().AnyType()
	default:
		return nil
	}
}

// Bind the type parameters of a class to the arguments of a given instance.
// Star projections are approximated by the parameter's bound.
func (p *Collector) classSubstitution(view *types.Nominal) types.Substitution {
	var (
		params = view.Class().Params()
		args   = make([]types.Type, len(params))
	)
	//
	for i, arg := range view.Args() {
		if arg == types.Star {
			args[i] = p.lattice.Erase(types.NewParameter(params[i]))
		} else {
			args[i] = arg
		}
	}
	//
	return types.Bind(params, args)
}

// Check whether an extension's receiver could accept a given type.
func (p *Collector) accepts(fn *ast.Function, receiver types.Type) bool {
	return p.lattice.IsSubtype(receiver, p.lattice.Erase(fn.Receiver()))
}

// Private members are accessible only from within their own class.
func (p *Collector) visible(scope *ast.Scope, decl ast.Declaration) bool {
	return decl.Visibility() == ast.Public || decl.Owner() == nil || scope.EnclosingClass() == decl.Owner()
}

// ============================================================================
// Candidate construction
// ============================================================================

func (p *Collector) function(fn *ast.Function) *Candidate {
	fresh, renaming := types.Fresh(fn.TypeParams())
	//
	return p.candidate(fn, ir.TopLevelCall, fn.Params(), fn.Return(), fresh, renaming, nil, -1)
}

func (p *Collector) member(fn *ast.Function, subst types.Substitution, receiver types.Type, id int,
	hops uint) *Candidate {
	fresh, renaming := types.Fresh(fn.TypeParams())
	//
	c := p.candidate(fn, ir.MemberCall, fn.Params(), fn.Return(), fresh, renaming.Compose(subst), receiver, id)
	c.Hops = hops
	//
	return c
}

func (p *Collector) extension(fn *ast.Function, receiver types.Type, id int) *Candidate {
	fresh, renaming := types.Fresh(fn.TypeParams())
	c := p.candidate(fn, ir.ExtensionCall, fn.Params(), fn.Return(), fresh, renaming, receiver, id)
	c.ReceiverParam = renaming.Apply(fn.Receiver())
	//
	if r, ok := types.MakeNonNull(receiver).(*types.Nominal); ok {
		if e, ok := types.MakeNonNull(fn.Receiver()).(*types.Nominal); ok {
			c.Hops, _ = r.Class().Distance(e.Class())
		}
	}
	//
	return c
}

func (p *Collector) constructor(ctor *ast.Constructor) *Candidate {
	fresh, renaming := types.Fresh(ctor.Owner().Type().Params())
	//
	return p.candidate(ctor, ir.ConstructorCall, ctor.Params(), ctor.Return(), fresh, renaming, nil, -1)
}

// Construct a candidate for invoking a property of function type.  Properties
// of any other type are not callable, so give no candidate.
func (p *Collector) invoke(prop *ast.Property, datatype types.Type, receiver types.Type, id int) *Candidate {
	fn, ok := datatype.(*types.Function)
	//
	if !ok || fn.Nullable() {
		return nil
	}
	// A receiver function type is invoked with its receiver as the first
	// argument.
	var ptypes = fn.Params()
	//
	if fn.Receiver() != nil {
		ptypes = append([]types.Type{fn.Receiver()}, ptypes...)
	}
	//
	params := make([]ast.Parameter, len(ptypes))
	//
	for i, t := range ptypes {
		params[i] = ast.Parameter{Name: fmt.Sprintf("p%d", i+1), Type: t}
	}
	//
	return p.candidate(prop, ir.InvokeCall, params, fn.Return(), nil, types.NewSubstitution(), receiver, id)
}

func (p *Collector) candidate(decl ast.Declaration, kind ir.CallKind, params []ast.Parameter, ret types.Type,
	fresh []*types.TypeParameter, renaming types.Substitution, receiver types.Type, id int) *Candidate {
	ptypes := make([]types.Type, len(params))
	//
	for i, param := range params {
		ptypes[i] = renaming.Apply(param.Type)
	}
	//
	return &Candidate{
		Decl:       decl,
		Kind:       kind,
		Receiver:   receiver,
		ReceiverId: id,
		Params:     fresh,
		Renaming:   renaming,
		Parameters: params,
		ParamTypes: ptypes,
		Return:     renaming.Apply(ret),
		Status:     Tentative,
	}
}
