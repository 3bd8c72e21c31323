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
	"testing"

	"github.com/consensys/go-infer/pkg/ast"
	"github.com/consensys/go-infer/pkg/diag"
	"github.com/consensys/go-infer/pkg/ir"
	"github.com/consensys/go-infer/pkg/loader"
	"github.com/consensys/go-infer/pkg/types"
	"github.com/consensys/go-infer/pkg/util/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Overload resolution
// ============================================================================

func Test_Resolve_Specific_01(t *testing.T) {
	unit := check_Resolve(t, DefaultPolicy(), `
(defun f ((x Int)) Int)
(defun f ((x Any)) String)
(defval r (f 5))`)
	//
	call := check_Call(t, unit, "r", "Int")
	assert.Equal(t, "f(Int)", Describe(call.Decl()))
	assert.Equal(t, ir.TopLevelCall, call.Kind())
}

func Test_Resolve_Specific_02(t *testing.T) {
	// Declaration order does not matter
	unit := check_Resolve(t, DefaultPolicy(), `
(defun f ((x Any)) String)
(defun f ((x Int)) Int)
(defval r (f 5))`)
	//
	call := check_Call(t, unit, "r", "Int")
	assert.Equal(t, "f(Int)", Describe(call.Decl()))
}

func Test_Resolve_Specific_03(t *testing.T) {
	// Exact matches are preferred to those requiring a coercion
	unit := check_Resolve(t, DefaultPolicy(), `
(defun g ((x Double)) String)
(defun g ((x Long)) Int)
(defval r (g 1))`)
	//
	check_Call(t, unit, "r", "Int")
}

func Test_Resolve_Ambiguous_01(t *testing.T) {
	unit := check_Resolve(t, DefaultPolicy(), `
(defun h ((x Int) (y Any)) Unit)
(defun h ((x Any) (y Int)) Unit)
(defval r (h 1 2))`)
	//
	d := check_Diagnostic(t, unit, "r", diag.AmbiguousOverload, "ambiguous call to h")
	require.Len(t, d.Related, 2)
	assert.Equal(t, "candidate h(Int, Any)", d.Related[0].Message)
	assert.Equal(t, "candidate h(Any, Int)", d.Related[1].Message)
	assert.Equal(t, "h", unit.text(d.Span))
}

func Test_Resolve_Ambiguous_02(t *testing.T) {
	// The reported candidates do not depend upon declaration order
	unit := check_Resolve(t, DefaultPolicy(), `
(defun h ((x Any) (y Int)) Unit)
(defun h ((x Int) (y Any)) Unit)
(defval r (h 1 2))`)
	//
	d := check_Diagnostic(t, unit, "r", diag.AmbiguousOverload, "ambiguous call to h")
	require.Len(t, d.Related, 2)
	assert.Equal(t, "candidate h(Any, Int)", d.Related[0].Message)
	assert.Equal(t, "candidate h(Int, Any)", d.Related[1].Message)
}

func Test_Resolve_Inapplicable_01(t *testing.T) {
	unit := check_Resolve(t, DefaultPolicy(), `
(defun q ((x Int)) Unit)
(defun q ((x String)) Unit)
(defun q () Unit)
(defval r (q true))`)
	//
	d := check_Diagnostic(t, unit, "r", diag.NoApplicableCandidate, "no applicable candidate for q")
	require.Len(t, d.Related, 3)
	assert.Equal(t, "q(Int): argument 1: Boolean is not a subtype of Int", d.Related[0].Message)
	assert.Equal(t, "q(String): argument 1: Boolean is not a subtype of String", d.Related[1].Message)
	assert.Equal(t, "q(): expects at most 0 argument(s), given 1", d.Related[2].Message)
}

func Test_Resolve_Unresolved_01(t *testing.T) {
	unit := check_Resolve(t, DefaultPolicy(), `(defval r (g))`)
	//
	d := check_Diagnostic(t, unit, "r", diag.UnresolvedReference, "unresolved reference: g")
	assert.Equal(t, "g", unit.text(d.Span))
	assert.True(t, types.IsError(unit.results["r"].Type))
}

func Test_Resolve_Unresolved_02(t *testing.T) {
	// Errors in arguments are reported, even without candidates
	unit := check_Resolve(t, DefaultPolicy(), `(defval r (g (k)))`)
	//
	ds := unit.results["r"].Diagnostics
	require.Len(t, ds, 2)
	assert.Equal(t, "unresolved reference: g", ds[0].Message)
	assert.Equal(t, "unresolved reference: k", ds[1].Message)
}

func Test_Resolve_Shadowing_01(t *testing.T) {
	// Inner declarations shadow outer ones completely, even when less specific
	unit := check_Resolve(t, DefaultPolicy(), `
(defun f ((x Int)) Int)
(scope
  (defun f ((x Any)) String)
  (defval r (f 1)))`)
	//
	check_Call(t, unit, "r", "String")
}

func Test_Resolve_Shadowing_02(t *testing.T) {
	// An inner declaration of a different kind shadows nothing
	unit := check_Resolve(t, DefaultPolicy(), `
(defun f ((x Int)) Int)
(scope
  (defval f 1)
  (defval r (f 1)))`)
	//
	check_Call(t, unit, "r", "Int")
}

// ============================================================================
// Members and extensions
// ============================================================================

func Test_Resolve_Extension_01(t *testing.T) {
	unit := check_Resolve(t, DefaultPolicy(), `
(defext String len () Int)
(defval r (. "abc" len))`)
	//
	call := check_Call(t, unit, "r", "Int")
	assert.Equal(t, ir.ExtensionCall, call.Kind())
	assert.Equal(t, "String.len()", Describe(call.Decl()))
}

func Test_Resolve_Extension_02(t *testing.T) {
	// Extensions on a supertype apply to its subtypes
	unit := check_Resolve(t, DefaultPolicy(), `
(defext CharSequence size () Int)
(defval r (. "abc" size))`)
	//
	check_Call(t, unit, "r", "Int")
}

func Test_Resolve_Member_01(t *testing.T) {
	unit := check_Resolve(t, DefaultPolicy(), `
(defclass A (fun m () Int))
(defext A m () String)
(defval r (. (A) m))`)
	//
	call := check_Call(t, unit, "r", "Int")
	assert.Equal(t, ir.MemberCall, call.Kind())
}

func Test_Resolve_Member_02(t *testing.T) {
	// Without tie-breaks, members and extensions are equally specific
	unit := check_Resolve(t, Policy{MaxDepth: DefaultMaxDepth}, `
(defclass A (fun m () Int))
(defext A m () String)
(defval r (. (A) m))`)
	//
	check_Diagnostic(t, unit, "r", diag.AmbiguousOverload, "ambiguous call to m")
}

func Test_Resolve_Member_03(t *testing.T) {
	// Generic members are instantiated by their receiver
	unit := check_Resolve(t, DefaultPolicy(), `
(defclass (Box T) (fun get () T))
(defval b (Box Int) (Box))
(defval r (. b get))`)
	//
	check_Call(t, unit, "r", "Int")
}

func Test_Resolve_Member_04(t *testing.T) {
	// Members of an implicit receiver
	unit := check_Resolve(t, DefaultPolicy(), `
(defclass A
  (fun m () Int)
  (fun n () Int (m)))`)
	//
	call := check_Call(t, unit, "n", "Int")
	assert.IsType(t, &ir.This{}, call.Receiver())
}

func Test_Resolve_Member_05(t *testing.T) {
	unit := check_Resolve(t, DefaultPolicy(), `
(defext String len () Int)
(defprop s String?)
(defval r (. s len))`)
	//
	check_Diagnostic(t, unit, "r", diag.UnresolvedReference, "unresolved reference: len")
}

func Test_Resolve_Invoke_01(t *testing.T) {
	// Properties of function type can be called
	unit := check_Resolve(t, DefaultPolicy(), `
(defprop p (fn (Int) String))
(defval r (p 1))`)
	//
	call := check_Call(t, unit, "r", "String")
	assert.Equal(t, ir.InvokeCall, call.Kind())
}

func Test_Resolve_Constructor_01(t *testing.T) {
	unit := check_Resolve(t, DefaultPolicy(), `
(defclass (Pair A B) (constructor ((a A) (b B))))
(defval r (Pair 1 "x"))`)
	//
	call := check_Call(t, unit, "r", "Pair<Int, String>")
	assert.Equal(t, ir.ConstructorCall, call.Kind())
}

// ============================================================================
// Inference
// ============================================================================

func Test_Infer_Identity_01(t *testing.T) {
	unit := check_Resolve(t, DefaultPolicy(), `
(defun (id T) ((x T)) T x)
(defval r (id 5))`)
	//
	call := check_Call(t, unit, "r", "Int")
	require.Len(t, call.TypeArgs(), 1)
	assert.Equal(t, "Int", call.TypeArgs()[0].String())
	assert.Empty(t, call.Defaulted())
}

func Test_Infer_Identity_02(t *testing.T) {
	// Explicit type arguments take priority
	unit := check_Resolve(t, DefaultPolicy(), `
(defun (id T) ((x T)) T x)
(defval r (id [Long] 5))`)
	//
	check_Call(t, unit, "r", "Long")
}

func Test_Infer_Identity_03(t *testing.T) {
	// The expected type guides inference
	unit := check_Resolve(t, DefaultPolicy(), `
(defun (id T) ((x T)) T x)
(defval r Number (id 5))`)
	//
	assert.Empty(t, unit.results["r"].Diagnostics)
	assert.Equal(t, "Number", unit.results["r"].Type.String())
}

func Test_Infer_Bound_01(t *testing.T) {
	unit := check_Resolve(t, DefaultPolicy(), `
(defun (box (T Number)) ((x T)) T x)
(defval r (box "s"))`)
	//
	d := check_Diagnostic(t, unit, "r", diag.TypeMismatch, "String is not a subtype of Number")
	assert.Equal(t, `"s"`, unit.text(d.Span))
}

func Test_Infer_Lub_01(t *testing.T) {
	unit := check_Resolve(t, DefaultPolicy(), `
(defclass Animal)
(defclass Cat (Animal))
(defclass Dog (Animal))
(defun (pick T) ((x T) (y T)) T x)
(defval r (pick (Cat) (Dog)))`)
	//
	call := check_Call(t, unit, "r", "Animal")
	assert.Len(t, call.Args(), 2)
}

func Test_Infer_Default_01(t *testing.T) {
	// Unconstrained parameters not in the result default to Nothing
	unit := check_Resolve(t, DefaultPolicy(), `
(defun (sink T) () Unit)
(defval r (sink))`)
	//
	call := check_Call(t, unit, "r", "Unit")
	assert.Equal(t, "Nothing", call.TypeArgs()[0].String())
	assert.Len(t, call.Defaulted(), 1)
}

func Test_Infer_Default_02(t *testing.T) {
	unit := check_Resolve(t, DefaultPolicy(), `
(defclass (List (out E)))
(defun (empty T) () (List T))
(defval r (empty))`)
	//
	check_Diagnostic(t, unit, "r", diag.InferenceIncomplete, "cannot infer a type for T in call to empty")
}

func Test_Infer_Default_03(t *testing.T) {
	unit := check_Resolve(t, DefaultPolicy(), `
(defclass (List (out E)))
(defun (empty T) () (List T))
(defval r (List String) (empty))`)
	//
	assert.Empty(t, unit.results["r"].Diagnostics)
	assert.Equal(t, "List<String>", unit.results["r"].Node.Type().String())
}

func Test_Infer_DefaultArgument_01(t *testing.T) {
	unit := check_Resolve(t, DefaultPolicy(), `
(defun k ((x Int) (y String "d")) Int)
(defval r (k 1))`)
	//
	call := check_Call(t, unit, "r", "Int")
	require.Len(t, call.Args(), 2)
	assert.IsType(t, &ir.DefaultArgument{}, call.Args()[1])
}

func Test_Infer_Lambda_01(t *testing.T) {
	unit := check_Resolve(t, DefaultPolicy(), `
(defext String len () Int)
(defun (apply T R) ((x T) (f (fn (T) R))) R)
(defval r (apply "a" (lambda (s) (. s len))))`)
	//
	call := check_Call(t, unit, "r", "Int")
	assert.IsType(t, &ir.Lambda{}, call.Args()[1])
	assert.Equal(t, "(String) -> Int", call.Args()[1].Type().String())
}

func Test_Infer_Lambda_02(t *testing.T) {
	unit := check_Resolve(t, DefaultPolicy(), `(defval r (lambda (x) x))`)
	//
	check_Diagnostic(t, unit, "r", diag.InferenceIncomplete, "cannot infer a type for lambda parameter x")
}

func Test_Infer_Let_01(t *testing.T) {
	unit := check_Resolve(t, DefaultPolicy(), `
(defun (id T) ((x T)) T x)
(defval r (let ((a 1) (b (id a))) b))`)
	//
	assert.Empty(t, unit.results["r"].Diagnostics)
	assert.Equal(t, "Int", unit.results["r"].Type.String())
}

func Test_Infer_Property_01(t *testing.T) {
	// Properties without declared types are inferred on demand
	unit := check_Resolve(t, DefaultPolicy(), `
(defun f ((x Int)) Int)
(defun f ((x String)) String)
(defval r (f s))
(defval s "abc")`)
	//
	check_Call(t, unit, "r", "String")
}

func Test_Infer_Property_02(t *testing.T) {
	// Cyclic properties are reported once
	unit := check_Resolve(t, DefaultPolicy(), `
(defval a b)
(defval b a)`)
	//
	assert.True(t, types.IsError(unit.results["a"].Type) || types.IsError(unit.results["b"].Type))
}

// ============================================================================
// Coercions
// ============================================================================

func Test_Coercion_Widen_01(t *testing.T) {
	unit := check_Resolve(t, DefaultPolicy(), `
(defun d ((x Double)) Double)
(defval r (d 1))`)
	//
	call := check_Call(t, unit, "r", "Double")
	check_Coercion(t, call.Args()[0], ir.Widen, "Double")
}

func Test_Coercion_Sam_01(t *testing.T) {
	unit := check_Resolve(t, DefaultPolicy(), `
(definterface Pred :fun (fun test ((x Int)) Boolean))
(defun filter ((p Pred)) Unit)
(defval r (filter (lambda (x) true)))`)
	//
	call := check_Call(t, unit, "r", "Unit")
	check_Coercion(t, call.Args()[0], ir.SamConversion, "Pred")
}

func Test_Coercion_Box_01(t *testing.T) {
	unit := check_Resolve(t, DefaultPolicy(), `
(defun any ((x Any)) Unit)
(defval r (any true))`)
	//
	call := check_Call(t, unit, "r", "Unit")
	check_Coercion(t, call.Args()[0], ir.Box, "Any")
}

// ============================================================================
// Miscellaneous
// ============================================================================

func Test_Resolve_Mismatch_01(t *testing.T) {
	unit := check_Resolve(t, DefaultPolicy(), `(defval r Int "abc")`)
	//
	d := check_Diagnostic(t, unit, "r", diag.TypeMismatch, "String is not a subtype of Int")
	assert.Equal(t, `"abc"`, unit.text(d.Span))
}

func Test_Resolve_This_01(t *testing.T) {
	unit := check_Resolve(t, DefaultPolicy(), `(defval r this)`)
	//
	check_Diagnostic(t, unit, "r", diag.UnresolvedReference, "this is not defined here")
}

func Test_Resolve_RecursionLimit_01(t *testing.T) {
	unit := check_Resolve(t, Policy{MaxDepth: 2}, `
(defun f ((x Int)) Int)
(defval r (f (f (f 1))))`)
	//
	check_Diagnostic(t, unit, "r", diag.InferenceRecursionLimitExceeded, "recursion limit of 2 exceeded")
}

// ============================================================================
// Helpers
// ============================================================================

type testUnit struct {
	program *ast.Program
	results map[string]Resolution
}

func (p *testUnit) text(span source.Span) string {
	return string(p.program.Source().Contents()[span.Start():span.End()])
}

func check_Resolve(t *testing.T, policy Policy, text string) *testUnit {
	universe := types.NewUniverse()
	program, errs := loader.Load(universe, source.NewSourceFile("test.lisp", []byte(text)))
	//
	for _, err := range errs {
		t.Fatalf("unexpected syntax error: %s", err.Message())
	}
	//
	var (
		resolver = NewResolver(program, types.NewLattice(universe, 8), policy)
		results  = make(map[string]Resolution)
	)
	//
	for _, top := range program.TopLevels() {
		results[top.Decl.Name()] = resolver.Resolve(top)
	}
	//
	return &testUnit{program, results}
}

func check_Call(t *testing.T, unit *testUnit, name string, datatype string) *ir.Call {
	result, ok := unit.results[name]
	require.True(t, ok, "missing declaration %s", name)
	//
	for _, d := range result.Diagnostics {
		t.Errorf("unexpected diagnostic: %s", d.String())
	}
	//
	call, ok := result.Node.(*ir.Call)
	require.True(t, ok, "expected call, got %s", ir.String(result.Node))
	assert.Equal(t, datatype, call.Type().String())
	//
	return call
}

func check_Diagnostic(t *testing.T, unit *testUnit, name string, code diag.Code, msg string) diag.Diagnostic {
	result, ok := unit.results[name]
	require.True(t, ok, "missing declaration %s", name)
	require.Len(t, result.Diagnostics, 1)
	//
	d := result.Diagnostics[0]
	assert.Equal(t, code, d.Code)
	assert.Equal(t, msg, d.Message)
	//
	return d
}

func check_Coercion(t *testing.T, node ir.Node, kind ir.CoercionKind, datatype string) {
	coercion, ok := node.(*ir.Coercion)
	//
	require.True(t, ok, "expected coercion, got %s", ir.String(node))
	assert.Equal(t, kind, coercion.Kind())
	assert.Equal(t, datatype, coercion.Type().String())
}
