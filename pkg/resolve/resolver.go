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
	"strconv"

	"github.com/consensys/go-infer/pkg/ast"
	"github.com/consensys/go-infer/pkg/diag"
	"github.com/consensys/go-infer/pkg/ir"
	"github.com/consensys/go-infer/pkg/types"
	"github.com/consensys/go-infer/pkg/util/source"
)

// Resolver resolves the expressions within the top-level declarations of a
// program, producing typed trees.  A resolver may be shared by concurrent
// workers, provided each resolves distinct declarations: all mutable state is
// held in per-declaration sessions.
type Resolver struct {
	program *ast.Program
	lattice *types.Lattice
	policy  Policy
	// Scope in which each top-level declaration is declared.
	scopes map[ast.Declaration]*ast.Scope
}

// NewResolver constructs a resolver for a given program.
func NewResolver(program *ast.Program, lattice *types.Lattice, policy Policy) *Resolver {
	scopes := make(map[ast.Declaration]*ast.Scope)
	//
	for _, t := range program.TopLevels() {
		scopes[t.Decl] = t.Scope
	}
	//
	return &Resolver{program, lattice, policy, scopes}
}

// Resolution is the outcome of resolving one top-level declaration.
type Resolution struct {
	Decl ast.Declaration
	// Typed body or initialiser.
	Node ir.Node
	// Type of a property, or the return type of a function.
	Type        types.Type
	Diagnostics []diag.Diagnostic
}

// Resolve a top-level declaration.  Exceeding the recursion limit abandons the
// declaration with a single diagnostic.
func (r *Resolver) Resolve(t ast.TopLevel) Resolution {
	var (
		s        = r.session()
		datatype types.Type
	)
	//
	node, diagnostics := r.guard(func() (ir.Node, []diag.Diagnostic) {
		switch d := t.Decl.(type) {
		case *ast.Property:
			node, ds := s.expr(d.Init(), t.Scope, expectation{d.Type(), true})
			datatype = d.Type()
			//
			if datatype == nil {
				datatype = node.Type()
			}
			//
			return node, ds
		case *ast.Function:
			datatype = d.Return()
			return s.function(d, t.Scope)
		default:
			panic(fmt.Sprintf("unexpected top-level declaration %s", t.Decl.Name()))
		}
	})
	//
	if datatype == nil {
		datatype = node.Type()
	}
	//
	return Resolution{t.Decl, node, datatype, diagnostics}
}

// ResolveExpr resolves a single expression within a given scope.  The
// expected type is optional and, when given, the expression is checked against
// it.
func (r *Resolver) ResolveExpr(e ast.Expr, scope *ast.Scope, expected types.Type) (ir.Node, []diag.Diagnostic) {
	s := r.session()
	//
	return r.guard(func() (ir.Node, []diag.Diagnostic) {
		return s.expr(e, scope, expectation{expected, expected != nil})
	})
}

// recursionLimit is raised (as a panic) when resolution nests too deeply, and
// is recovered only at the boundary of a top-level resolution.
type recursionLimit struct {
	span source.Span
}

func (r *Resolver) guard(fn func() (ir.Node, []diag.Diagnostic)) (node ir.Node, ds []diag.Diagnostic) {
	defer func() {
		if e := recover(); e != nil {
			limit, ok := e.(recursionLimit)
			//
			if !ok {
				panic(e)
			}
			//
			node = ir.NewError(limit.span)
			ds = []diag.Diagnostic{diag.Errorf(diag.InferenceRecursionLimitExceeded, limit.span,
				"recursion limit of %d exceeded", r.policy.MaxDepth)}
		}
	}()
	//
	return fn()
}

func (r *Resolver) session() *session {
	s := &session{Resolver: r, inferred: make(map[*ast.Property]types.Type),
		inferring: make(map[*ast.Property]bool)}
	s.collector = NewCollector(r.program, r.lattice, s.typeOf)
	//
	return s
}

// ============================================================================
// Sessions
// ============================================================================

// session holds the state for resolving one top-level declaration.
type session struct {
	*Resolver
	collector *Collector
	// Current nesting of calls and lambdas.
	depth uint
	// Types inferred for properties without declared types.
	inferred  map[*ast.Property]types.Type
	inferring map[*ast.Property]bool
}

// expectation is the type expected of an expression.  When check is set, a
// mismatch is reported at the expression itself.  Otherwise, the expected type
// merely guides inference and the enclosing call reports any mismatch.
type expectation struct {
	datatype types.Type
	check    bool
}

var unexpected = expectation{}

func (s *session) enter(span source.Span) {
	s.depth++
	//
	if s.depth > s.policy.MaxDepth {
		panic(recursionLimit{span})
	}
}

func (s *session) leave() {
	s.depth--
}

// Resolve the body of a function, along with any default values.
func (s *session) function(fn *ast.Function, scope *ast.Scope) (ir.Node, []diag.Diagnostic) {
	var ds []diag.Diagnostic
	//
	for _, p := range fn.Params() {
		if p.HasDefault() {
			_, pds := s.expr(p.Default, scope, expectation{p.Type, true})
			ds = append(ds, pds...)
		}
	}
	//
	if fn.IsExtension() {
		scope = ast.NewReceiverScope(scope, fn.Receiver(), nil)
	}
	//
	body := ast.NewScope(scope)
	//
	for _, p := range fn.Params() {
		body.Declare(ast.NewLocal(p.Name, p.Type, fn.Span()))
	}
	//
	node, bds := s.expr(fn.Body(), body, expectation{fn.Return(), !s.program.Universe().IsUnit(fn.Return())})
	//
	return node, append(ds, bds...)
}

// Determine the type of a property.  Where none is declared, this is the type
// of its initialiser (or Error if that depends upon the property itself).
func (s *session) typeOf(prop *ast.Property) types.Type {
	if t := prop.Type(); t != nil {
		return t
	} else if t, ok := s.inferred[prop]; ok {
		return t
	}
	//
	scope, ok := s.scopes[prop]
	//
	if !ok || s.inferring[prop] {
		return types.Error
	}
	// Diagnostics are discarded, since they are reported when the property
	// itself is resolved.
	s.inferring[prop] = true
	node, _ := s.expr(prop.Init(), scope, unexpected)
	delete(s.inferring, prop)
	s.inferred[prop] = node.Type()
	//
	return node.Type()
}

func (s *session) expr(e ast.Expr, scope *ast.Scope, expect expectation) (ir.Node, []diag.Diagnostic) {
	var (
		node ir.Node
		ds   []diag.Diagnostic
	)
	//
	switch e := e.(type) {
	case *ast.Call:
		return s.call(e, scope, expect)
	case *ast.Let:
		return s.let(e, scope, expect)
	case *ast.IntLiteral:
		node = s.literal(e.Text, s.program.Universe().IntegerLiteral(e.Text), e.Span(), expect.datatype)
	case *ast.DecimalLiteral:
		node = s.literal(e.Text, s.program.Universe().DecimalLiteral(e.Text), e.Span(), expect.datatype)
	case *ast.StringLiteral:
		node = ir.NewLiteral(strconv.Quote(e.Value), s.program.Universe().String.Instantiate(), e.Span())
	case *ast.BoolLiteral:
		node = ir.NewLiteral(strconv.FormatBool(e.Value), s.program.Universe().Boolean.Instantiate(), e.Span())
	case *ast.NullLiteral:
		node = ir.NewLiteral("null", types.MakeNullable(s.program.Universe().NothingType()), e.Span())
	case *ast.Name:
		node, ds = s.name(e, scope)
	case *ast.This:
		if recv := scope.ImplicitReceiver(); recv != nil {
			node = ir.NewThis(recv, e.Span())
		} else {
			node = ir.NewError(e.Span())
			ds = append(ds, diag.Errorf(diag.UnresolvedReference, e.Span(), "this is not defined here"))
		}
	case *ast.Lambda:
		var target *types.Function
		//
		if expect.datatype != nil {
			target, _ = types.MakeNonNull(expect.datatype).(*types.Function)
		}
		//
		node, ds = s.lambda(e, scope, target, noneUnfixed)
	default:
		panic(fmt.Sprintf("unknown expression %T", e))
	}
	//
	return node, append(ds, s.conform(node, expect)...)
}

// Report a mismatch between the type of a node and the type expected of it.
func (s *session) conform(node ir.Node, expect expectation) []diag.Diagnostic {
	if !expect.check || expect.datatype == nil || s.lattice.IsSubtype(node.Type(), expect.datatype) {
		return nil
	}
	//
	return []diag.Diagnostic{mismatch(node.Span(), node.Type(), expect.datatype)}
}

func (s *session) literal(text string, datatype types.Type, span source.Span, expected types.Type) ir.Node {
	switch t := datatype.(type) {
	case nil:
		panic(fmt.Sprintf("malformed literal %s", text))
	case *types.Literal:
		return ir.NewLiteral(text, s.lattice.Commit(t, expected), span)
	default:
		return ir.NewLiteral(text, t, span)
	}
}

func (s *session) name(e *ast.Name, scope *ast.Scope) (ir.Node, []diag.Diagnostic) {
	if prop, datatype := s.lookup(scope, e.Name); prop != nil {
		return ir.NewVariable(prop, datatype, e.Span()), nil
	}
	//
	return ir.NewError(e.Span()), []diag.Diagnostic{
		diag.Errorf(diag.UnresolvedReference, e.Span(), "unresolved reference: %s", e.Name)}
}

// Find the property visible by a given name, which may be a member of an
// implicit receiver.  Inner declarations shadow outer ones.
func (s *session) lookup(scope *ast.Scope, name string) (*ast.Property, types.Type) {
	for _, level := range scope.Levels() {
		if ds := level.Lookup(name, ast.PropertyKind); len(ds) > 0 {
			prop := ds[len(ds)-1].(*ast.Property)
			return prop, s.typeOf(prop)
		} else if r := level.Receiver(); r != nil {
			if prop, datatype := s.collector.Property(scope, r, name); prop != nil {
				return prop, datatype
			}
		}
	}
	//
	return nil, nil
}

// Bindings are sequential, so each can refer to those before it.
func (s *session) let(e *ast.Let, scope *ast.Scope, expect expectation) (ir.Node, []diag.Diagnostic) {
	var (
		child  = ast.NewScope(scope)
		locals = make([]*ast.Property, len(e.Bindings))
		values = make([]ir.Node, len(e.Bindings))
		ds     []diag.Diagnostic
	)
	//
	for i, b := range e.Bindings {
		value, vds := s.expr(b.Value, child, unexpected)
		locals[i] = ast.NewLocal(b.Name, value.Type(), b.Span)
		values[i] = value
		ds = append(ds, vds...)
		//
		child.Declare(locals[i])
	}
	//
	body, bds := s.expr(e.Body, child, expect)
	//
	return ir.NewLet(locals, values, body, e.Span()), append(ds, bds...)
}

func noneUnfixed(*types.TypeParameter) bool {
	return false
}

// Type a lambda against an optional target function type.  Parameters of the
// target for which unfixed holds are not yet known, and cannot be used to type
// the lambda's parameters or body.
func (s *session) lambda(e *ast.Lambda, scope *ast.Scope, target *types.Function,
	unfixed func(*types.TypeParameter) bool) (ir.Node, []diag.Diagnostic) {
	s.enter(e.Span())
	defer s.leave()
	//
	var (
		inputs = make([]types.Type, len(e.Params))
		locals = make([]*ast.Property, len(e.Params))
		ret    types.Type
		ds     []diag.Diagnostic
	)
	//
	for i, p := range e.Params {
		switch {
		case p.Type != nil:
			inputs[i] = p.Type
		case target != nil && i < target.Arity() && !types.Mentions(target.Params()[i], unfixed):
			inputs[i] = target.Params()[i]
		default:
			inputs[i] = types.Error
			ds = append(ds, diag.Errorf(diag.InferenceIncomplete, p.Span,
				"cannot infer a type for lambda parameter %s", p.Name))
		}
		//
		locals[i] = ast.NewLocal(p.Name, inputs[i], p.Span)
	}
	//
	var receiver types.Type
	//
	if target != nil && target.Receiver() != nil && !types.Mentions(target.Receiver(), unfixed) {
		receiver = target.Receiver()
		scope = ast.NewReceiverScope(scope, receiver, nil)
	}
	//
	child := ast.NewScope(scope)
	//
	for _, l := range locals {
		child.Declare(l)
	}
	//
	if target != nil && !types.Mentions(target.Return(), unfixed) {
		ret = target.Return()
	}
	//
	body, bds := s.expr(e.Body, child, expectation{ret, false})
	result := body.Type()
	// The result of a lambda returning Unit is discarded.
	if ret != nil && s.program.Universe().IsUnit(ret) {
		result = ret
	}
	//
	var datatype *types.Function
	//
	if receiver != nil {
		datatype = types.NewReceiverFunction(receiver, inputs, result)
	} else {
		datatype = types.NewFunction(inputs, result)
	}
	//
	return ir.NewLambda(locals, body, datatype, e.Span()), append(ds, bds...)
}

func mismatch(span source.Span, actual types.Type, expected types.Type) diag.Diagnostic {
	return diag.Errorf(diag.TypeMismatch, span, "%s is not a subtype of %s", actual, expected)
}
