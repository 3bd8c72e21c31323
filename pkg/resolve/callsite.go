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
	"slices"
	"strings"

	"github.com/consensys/go-infer/pkg/ast"
	"github.com/consensys/go-infer/pkg/diag"
	"github.com/consensys/go-infer/pkg/infer"
	"github.com/consensys/go-infer/pkg/ir"
	"github.com/consensys/go-infer/pkg/types"
	"github.com/consensys/go-infer/pkg/util/source"
)

// callSite holds the state for resolving one call.  Each argument is typed at
// most once for any given expected type, with the result shared between
// candidates.
type callSite struct {
	*session
	call  *ast.Call
	scope *ast.Scope
	memo  map[memoKey]typed
}

type memoKey struct {
	arg      ast.Expr
	expected string
}

// typed is a typed argument, along with the diagnostics which are reported if
// it is used.
type typed struct {
	node        ir.Node
	diagnostics []diag.Diagnostic
}

// argument is an argument as prepared for one candidate.  Numeric literals are
// not given nodes until completion, when their type is committed.
type argument struct {
	typed
	text     string
	literal  types.Type
	coercion coercion
}

// coercion records whether an argument requires an implicit conversion.
type coercion struct {
	required bool
	kind     ir.CoercionKind
}

func (s *session) call(e *ast.Call, scope *ast.Scope, expect expectation) (ir.Node, []diag.Diagnostic) {
	s.enter(e.Span())
	defer s.leave()
	//
	var (
		receiver ir.Node
		rtype    types.Type
		ds       []diag.Diagnostic
	)
	//
	if e.Receiver != nil {
		if receiver, ds = s.expr(e.Receiver, scope, unexpected); types.IsError(receiver.Type()) {
			return ir.NewError(e.Span()), ds
		}
		//
		rtype = receiver.Type()
	} else if prop, datatype := s.lookup(scope, e.Name); prop != nil && types.IsError(datatype) {
		// Already reported where the type was determined.
		return ir.NewError(e.Span()), nil
	}
	//
	var (
		site       = &callSite{s, e, scope, make(map[memoKey]typed)}
		candidates = s.collector.Collect(scope, e.Name, rtype)
	)
	//
	if len(candidates) == 0 {
		d := diag.Errorf(diag.UnresolvedReference, e.NameSpan, "unresolved reference: %s", e.Name)
		return ir.NewError(e.Span()), append(append(ds, d), site.argumentDiagnostics()...)
	}
	//
	for _, c := range candidates {
		site.check(c)
	}
	//
	result := Rank(s.lattice, candidates, len(e.Args), s.policy.TieBreaks)
	//
	if result.Outcome == Resolved {
		node, cds := site.complete(result.Winner, receiver, expect)
		return node, append(ds, cds...)
	} else if ads := site.argumentDiagnostics(); len(ads) > 0 {
		// Erroneous arguments are the root cause.
		return ir.NewError(e.Span()), append(ds, ads...)
	} else if result.Outcome == Ambiguous {
		return ir.NewError(e.Span()), append(ds, ambiguous(e, result.Tied))
	}
	//
	return ir.NewError(e.Span()), append(ds, inapplicable(e, candidates))
}

// Diagnostics arising from the arguments themselves, typed without any
// expected type.  Lambdas are excluded, since they cannot be typed without one.
func (p *callSite) argumentDiagnostics() []diag.Diagnostic {
	var ds []diag.Diagnostic
	//
	for _, arg := range p.call.Args {
		if _, ok := arg.(*ast.Lambda); !ok {
			ds = append(ds, p.argument(arg, nil).diagnostics...)
		}
	}
	//
	return ds
}

func (p *callSite) argument(arg ast.Expr, expected types.Type) typed {
	key := memoKey{arg, ""}
	//
	if expected != nil {
		key.expected = expected.String()
	}
	//
	if t, ok := p.memo[key]; ok {
		return t
	}
	//
	node, ds := p.expr(arg, p.scope, expectation{expected, false})
	t := typed{node, ds}
	p.memo[key] = t
	//
	return t
}

// ============================================================================
// Applicability
// ============================================================================

// Check whether a candidate accepts the arguments at this call site.
func (p *callSite) check(c *Candidate) {
	var (
		ntypes   = len(p.call.TypeArgs)
		nargs    = len(p.call.Args)
		required = requiredArgs(c.Parameters)
	)
	//
	switch {
	case ntypes > 0 && ntypes != len(c.Params):
		c.reject(TypeArgumentCount, -1, -1,
			fmt.Sprintf("expects %d type argument(s), given %d", len(c.Params), ntypes), nil)
	case nargs > len(c.Parameters):
		c.reject(ArityMismatch, -1, -1,
			fmt.Sprintf("expects at most %d argument(s), given %d", len(c.Parameters), nargs), nil)
	case nargs < required:
		c.reject(ArityMismatch, -1, nargs,
			fmt.Sprintf("expects at least %d argument(s), given %d", required, nargs), nil)
	case c.ReceiverParam == nil && c.Receiver != nil && types.MayBeNull(c.Receiver):
		c.reject(ReceiverMismatch, -1, -1, fmt.Sprintf("receiver of type %s may be null", c.Receiver), nil)
	}
	//
	if c.Status == Inapplicable {
		return
	}
	//
	sys, args := p.constrain(c, nil)
	//
	solution, contradiction := sys.Solve()
	//
	if contradiction != nil {
		blame := contradiction.Blame()
		reason := TypeMismatch
		//
		if blame.Priority == infer.ArgumentType && blame.Argument < 0 {
			reason = ReceiverMismatch
		}
		//
		c.reject(reason, blame.Argument, blame.Argument, contradiction.Error(), contradiction)
		//
		return
	}
	//
	c.Solution = solution
	c.Status = Applicable
	//
	for _, a := range args {
		if a.coercion.required {
			c.Status = ApplicableWithCoercion
		}
	}
}

// Parameters with defaults can be omitted only from the end.
func requiredArgs(params []ast.Parameter) int {
	for i := len(params); i > 0; i-- {
		if !params[i-1].HasDefault() {
			return i
		}
	}
	//
	return 0
}

// Build the constraint system for a candidate from its explicit type
// arguments, declared bounds, receiver, arguments and (optionally) the expected
// type.  Arguments after the first contradiction are not prepared.
func (p *callSite) constrain(c *Candidate, expected types.Type) (*infer.System, []argument) {
	var (
		call = p.call
		sys  = infer.NewSystem(p.lattice, c.Params)
		args = make([]argument, 0, len(call.Args))
	)
	//
	for i, t := range call.TypeArgs {
		sys.Relate(types.NewParameter(c.Params[i]), t, infer.Equal, infer.TypeArgumentOrigin(i, call.NameSpan))
	}
	//
	for _, param := range c.Params {
		for _, b := range param.Bounds() {
			sys.Relate(types.NewParameter(param), c.Renaming.Apply(b), infer.Subtype,
				infer.BoundOrigin(param, c.Decl.Span()))
		}
	}
	//
	if c.ReceiverParam != nil {
		sys.Relate(c.Receiver, c.ReceiverParam, infer.Subtype, infer.ReceiverOrigin(p.receiverSpan()))
	}
	//
	for i := range call.Args {
		if sys.Failure() != nil {
			break
		}
		//
		args = append(args, p.relate(sys, c, i))
	}
	//
	if expected != nil && !types.IsSpecial(expected) && sys.Failure() == nil {
		sys.Relate(c.Return, expected, infer.Subtype, infer.ExpectedOrigin(call.Span()))
	}
	//
	return sys, args
}

func (p *callSite) receiverSpan() source.Span {
	if p.call.Receiver != nil {
		return p.call.Receiver.Span()
	}
	//
	return p.call.NameSpan
}

// Relate the ith argument to the corresponding parameter of a candidate.
func (p *callSite) relate(sys *infer.System, c *Candidate, i int) argument {
	var (
		arg      = p.call.Args[i]
		param    = c.ParamTypes[i]
		target   = sys.Current().Apply(param)
		origin   = infer.ArgumentOrigin(i, arg.Span())
		universe = p.program.Universe()
	)
	//
	switch a := arg.(type) {
	case *ast.IntLiteral:
		return p.relateLiteral(sys, a.Text, universe.IntegerLiteral(a.Text), param, target, origin)
	case *ast.DecimalLiteral:
		return p.relateLiteral(sys, a.Text, universe.DecimalLiteral(a.Text), param, target, origin)
	case *ast.Lambda:
		return p.relateLambda(sys, a, param, target, origin)
	}
	// Arguments are typed against their parameter only once it is known.
	var expected types.Type
	//
	if !types.Mentions(target, sys.Owns) {
		expected = target
	}
	//
	t := p.argument(arg, expected)
	//
	if fn, ok := t.node.Type().(*types.Function); ok {
		if sam := p.samOf(target); sam != nil {
			sys.Relate(fn, sam, infer.Subtype, origin)
			return argument{typed: t, coercion: coercion{true, ir.SamConversion}}
		}
	}
	//
	sys.Relate(t.node.Type(), param, infer.Subtype, origin)
	//
	return argument{typed: t}
}

func (p *callSite) relateLiteral(sys *infer.System, text string, datatype types.Type, param types.Type,
	target types.Type, origin infer.Origin) argument {
	a := argument{text: text, literal: datatype}
	//
	if datatype == nil {
		panic(fmt.Sprintf("malformed literal %s", text))
	} else if lit, ok := datatype.(*types.Literal); ok {
		if n, ok := types.MakeNonNull(target).(*types.Nominal); ok && p.program.Universe().Widens(lit, n.Class()) {
			a.coercion = coercion{true, ir.Widen}
			return a
		}
	}
	//
	sys.Relate(datatype, param, infer.Subtype, origin)
	//
	return a
}

func (p *callSite) relateLambda(sys *infer.System, e *ast.Lambda, param types.Type, target types.Type,
	origin infer.Origin) argument {
	var (
		fn  *types.Function
		sam bool
	)
	//
	if f, ok := types.MakeNonNull(target).(*types.Function); ok {
		fn = f
	} else if f := p.samOf(target); f != nil {
		fn, sam = f, true
	}
	// Input types must be fixed before the body can be typed.
	if fn != nil {
		var inputs []*types.TypeParameter
		//
		if fn.Receiver() != nil {
			inputs = append(inputs, types.ParametersOf(fn.Receiver())...)
		}
		//
		for _, t := range fn.Params() {
			inputs = append(inputs, types.ParametersOf(t)...)
		}
		//
		sys.Fix(inputs...)
		fn = sys.Current().Apply(fn).(*types.Function)
	}
	//
	t := p.lambdaArgument(e, fn, sys)
	//
	if sam {
		sys.Relate(t.node.Type(), fn, infer.Subtype, origin)
		return argument{typed: t, coercion: coercion{true, ir.SamConversion}}
	}
	//
	sys.Relate(t.node.Type(), param, infer.Subtype, origin)
	//
	return argument{typed: t}
}

// Type a lambda argument.  Lambdas whose target mentions unfixed parameters
// are typed afresh for each candidate.
func (p *callSite) lambdaArgument(e *ast.Lambda, target *types.Function, sys *infer.System) typed {
	if target != nil && types.Mentions(target, sys.Owns) {
		node, ds := p.lambda(e, p.scope, target, sys.Owns)
		return typed{node, ds}
	}
	//
	key := memoKey{e, ""}
	//
	if target != nil {
		key.expected = target.String()
	}
	//
	if t, ok := p.memo[key]; ok {
		return t
	}
	//
	node, ds := p.lambda(e, p.scope, target, noneUnfixed)
	t := typed{node, ds}
	p.memo[key] = t
	//
	return t
}

// Determine the function type of the single abstract method of a fun
// interface type, or nil if the type is not one.
func (p *callSite) samOf(t types.Type) *types.Function {
	n, ok := types.MakeNonNull(t).(*types.Nominal)
	//
	if !ok || n.Class().Sam() == nil {
		return nil
	}
	//
	return p.collector.classSubstitution(n).Apply(n.Class().Sam()).(*types.Function)
}

// ============================================================================
// Completion
// ============================================================================

// Complete the winning candidate, taking the expected type into account.  An
// expected type which contradicts the other constraints is reported (when
// checking) and then disregarded.  Unconstrained type parameters default to
// Nothing, or to Error when they determine the result type.
func (p *callSite) complete(c *Candidate, receiver ir.Node, expect expectation) (ir.Node, []diag.Diagnostic) {
	var (
		call                    = p.call
		ds                      []diag.Diagnostic
		sys, args               = p.constrain(c, expect.datatype)
		solution, contradiction = sys.Solve()
	)
	//
	if contradiction != nil && fromExpected(contradiction) {
		if expect.check {
			ds = append(ds, mismatch(call.Span(), contradiction.Lower, contradiction.Upper))
		}
		//
		sys, args = p.constrain(c, nil)
		solution, contradiction = sys.Solve()
	}
	//
	if contradiction != nil {
		panic(fmt.Sprintf("winning candidate %s is inapplicable (%s)", c, contradiction.Error()))
	}
	//
	var (
		sig, _     = ast.SignatureOf(c.Decl)
		defaults   = types.NewSubstitution()
		defaulted  []*types.TypeParameter
		incomplete []string
	)
	//
	for i, q := range c.Params {
		if !slices.Contains(solution.Unconstrained, q) {
			continue
		} else if types.Mentions(c.Return, func(x *types.TypeParameter) bool { return x == q }) {
			defaults = defaults.With(q, types.Error)
			incomplete = append(incomplete, q.Name())
		} else {
			defaults = defaults.With(q, p.program.Universe().NothingType())
		}
		//
		defaulted = append(defaulted, sig.TypeParams[i])
	}
	//
	if len(incomplete) > 0 {
		ds = append(ds, diag.Errorf(diag.InferenceIncomplete, call.Span(), "cannot infer a type for %s in call to %s",
			strings.Join(incomplete, ", "), call.Name))
	}
	//
	var (
		subst    = solution.Substitution.Compose(defaults)
		typeArgs = make([]types.Type, len(c.Params))
		nodes    = make([]ir.Node, 0, len(c.Parameters))
	)
	//
	for i, q := range c.Params {
		typeArgs[i] = subst.Apply(types.NewParameter(q))
	}
	//
	for i, a := range args {
		nodes = append(nodes, p.argumentNode(c, i, a, subst.Apply(c.ParamTypes[i])))
		ds = append(ds, a.diagnostics...)
	}
	//
	for i := len(args); i < len(c.Parameters); i++ {
		nodes = append(nodes, ir.NewDefaultArgument(c.Parameters[i], subst.Apply(c.ParamTypes[i]), call.Span()))
	}
	//
	if receiver == nil && c.Receiver != nil {
		receiver = ir.NewThis(c.Receiver, call.NameSpan)
	}
	//
	return ir.NewCall(c.Decl, c.Kind, receiver, typeArgs, defaulted, nodes, subst.Apply(c.Return), call.Span()), ds
}

func fromExpected(c *infer.Contradiction) bool {
	return c.LowerOrigin.Priority == infer.ExpectedType || c.UpperOrigin.Priority == infer.ExpectedType
}

// Construct the final node for an argument, given the final type of its
// parameter.  Literals are committed, and coercions made explicit.
func (p *callSite) argumentNode(c *Candidate, i int, a argument, final types.Type) ir.Node {
	var (
		node = a.node
		span = p.call.Args[i].Span()
	)
	//
	if a.literal != nil {
		lit, approximate := a.literal.(*types.Literal)
		//
		switch {
		case a.coercion.required:
			return ir.NewCoercion(a.coercion.kind, ir.NewLiteral(a.text, lit.Default(), span), final)
		case approximate:
			node = ir.NewLiteral(a.text, p.lattice.Commit(lit, final), span)
		default:
			node = ir.NewLiteral(a.text, a.literal, span)
		}
	} else if a.coercion.required {
		return ir.NewCoercion(a.coercion.kind, node, final)
	}
	//
	if boxes(node.Type(), c.Parameters[i].Type) {
		return ir.NewCoercion(ir.Box, node, final)
	}
	//
	return node
}

// A primitive value is boxed when passed to a parameter whose declared type is
// not that primitive.
func boxes(actual types.Type, declared types.Type) bool {
	n, ok := actual.(*types.Nominal)
	//
	if !ok || n.Nullable() || !n.Class().IsPrimitive() {
		return false
	}
	//
	d, ok := declared.(*types.Nominal)
	//
	return !ok || d.Nullable() || d.Class() != n.Class()
}
