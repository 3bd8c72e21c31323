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
	"testing"

	"github.com/consensys/go-infer/pkg/ast"
	"github.com/consensys/go-infer/pkg/types"
	"github.com/consensys/go-infer/pkg/util/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Loader_Class_01(t *testing.T) {
	program := check_Load(t, `
(defclass (Box (out T) (B Number)) (val item T))
(defun (make T) ((x T)) (Box T Int) (Box x))`)
	//
	box := program.Root().Lookup("Box", ast.ConstructorKind)
	require.Len(t, box, 1)
	//
	class := box[0].Owner()
	assert.Equal(t, "Box", class.Name())
	assert.Len(t, class.Type().Params(), 2)
	assert.Equal(t, types.Covariant, class.Type().Params()[0].Variance())
	assert.True(t, class.Type().IsSealed())
	// Implicit constructor
	assert.Len(t, class.Constructors(), 1)
	assert.Len(t, class.MembersNamed("item", ast.PropertyKind), 1)
	assert.Len(t, program.TopLevels(), 1)
}

func Test_Loader_Class_02(t *testing.T) {
	program := check_Load(t, `
(definterface Shape (fun area () Double))
(defclass Square (Shape) (constructor ((side Double))) (val side Double)
  (fun area () Double side))`)
	//
	square := program.Root().Lookup("Square", ast.ConstructorKind)
	require.Len(t, square, 1)
	//
	class := square[0].Owner().Type()
	assert.Equal(t, "Shape", class.Supertypes()[0].Class().Name())
	assert.Len(t, square[0].(*ast.Constructor).Params(), 1)
	// Body of area is resolved as a top-level
	assert.Len(t, program.TopLevels(), 1)
}

func Test_Loader_FunInterface_01(t *testing.T) {
	program := check_Load(t, `
(definterface Predicate :fun (fun test ((x Int)) Boolean))
(defun check ((p Predicate)) Boolean (. p test 1))`)
	//
	check := program.Root().Lookup("check", ast.FunctionKind)
	require.Len(t, check, 1)
	//
	param := check[0].(*ast.Function).Params()[0].Type.(*types.Nominal)
	sam := param.Class().Sam()
	require.NotNil(t, sam)
	assert.Equal(t, "(Int) -> Boolean", sam.String())
}

func Test_Loader_Types_01(t *testing.T) {
	program := check_Load(t, `
(defclass (Pair A B))
(defprop a (Pair Int String?))
(defprop b (? (Pair * Int)))
(defprop c (fn (Int String) Unit))
(defprop d (fn String (Int) Boolean))
(defprop e dynamic)`)
	//
	check_PropertyType(t, program, "a", "Pair<Int, String?>")
	check_PropertyType(t, program, "b", "Pair<*, Int>?")
	check_PropertyType(t, program, "c", "(Int, String) -> Unit")
	check_PropertyType(t, program, "d", "String.(Int) -> Boolean")
	check_PropertyType(t, program, "e", "dynamic")
}

func Test_Loader_Scope_01(t *testing.T) {
	program := check_Load(t, `
(defun f ((x Int)) Int x)
(scope
  (defun f ((x Any)) Int 0)
  (defval y (f 1)))`)
	// Only the outer f lives in the root scope
	assert.Len(t, program.Root().Lookup("f", ast.FunctionKind), 1)
	assert.Len(t, program.TopLevels(), 3)
	//
	inner := program.TopLevels()[2]
	assert.Equal(t, "y", inner.Decl.Name())
	assert.Len(t, inner.Scope.Lookup("f", ast.FunctionKind), 1)
	assert.False(t, inner.Scope.IsRoot())
}

func Test_Loader_Expr_01(t *testing.T) {
	program := check_Load(t, `
(defval v (let ((x 1) (s "abc")) (. s len [Int] x 2.5 -3 true null)))
(defval w (lambda (x (y Int)) (g x y)))`)
	//
	let, ok := program.TopLevels()[0].Decl.(*ast.Property).Init().(*ast.Let)
	require.True(t, ok)
	require.Len(t, let.Bindings, 2)
	assert.IsType(t, &ast.StringLiteral{}, let.Bindings[1].Value)
	//
	call, ok := let.Body.(*ast.Call)
	require.True(t, ok)
	assert.Equal(t, "len", call.Name)
	assert.Len(t, call.TypeArgs, 1)
	require.Len(t, call.Args, 5)
	assert.IsType(t, &ast.Name{}, call.Receiver)
	assert.IsType(t, &ast.DecimalLiteral{}, call.Args[1])
	assert.IsType(t, &ast.IntLiteral{}, call.Args[2])
	assert.IsType(t, &ast.BoolLiteral{}, call.Args[3])
	assert.IsType(t, &ast.NullLiteral{}, call.Args[4])
	//
	lambda, ok := program.TopLevels()[1].Decl.(*ast.Property).Init().(*ast.Lambda)
	require.True(t, ok)
	assert.True(t, lambda.HasUntypedParams())
	assert.Nil(t, lambda.Params[0].Type)
	assert.NotNil(t, lambda.Params[1].Type)
}

// ============================================================================
// Invalid
// ============================================================================

func Test_Loader_Invalid_01(t *testing.T) {
	check_LoadError(t, `(defprop x Foo)`, "unknown type")
}

func Test_Loader_Invalid_02(t *testing.T) {
	check_LoadError(t, `(defclass A (B)) (defclass B (A))`, "cyclic inheritance")
}

func Test_Loader_Invalid_03(t *testing.T) {
	check_LoadError(t, `(defclass (Box T)) (defprop x Box)`, "Box expects 1 type argument(s)")
}

func Test_Loader_Invalid_04(t *testing.T) {
	check_LoadError(t, `(defprop x *)`, "star projection only permitted as a type argument")
}

func Test_Loader_Invalid_05(t *testing.T) {
	check_LoadError(t, `(defclass A) (defclass A)`, "duplicate class")
}

func Test_Loader_Invalid_06(t *testing.T) {
	check_LoadError(t, `(defun f ((x Int) (x Int)) Unit)`, "duplicate parameter")
}

func Test_Loader_Invalid_07(t *testing.T) {
	check_LoadError(t, `(definterface P :fun (fun a () Int) (fun b () Int))`,
		"fun interface requires exactly one abstract function")
}

func Test_Loader_Invalid_08(t *testing.T) {
	check_LoadError(t, `(defval x 99999999999999999999)`, "malformed literal")
}

func Test_Loader_Invalid_09(t *testing.T) {
	check_LoadError(t, `(scope (defclass A))`, "classes must be declared at the top level")
}

func Test_Loader_Invalid_10(t *testing.T) {
	check_LoadError(t, `(defthing x)`, "unknown declaration")
}

// ============================================================================
// Helpers
// ============================================================================

func check_Load(t *testing.T, text string) *ast.Program {
	program, errs := Load(types.NewUniverse(), source.NewSourceFile("test.lisp", []byte(text)))
	//
	for _, err := range errs {
		t.Errorf("unexpected error: %s", err.Message())
	}
	//
	require.NotNil(t, program)
	//
	return program
}

func check_LoadError(t *testing.T, text string, msg string) {
	program, errs := Load(types.NewUniverse(), source.NewSourceFile("test.lisp", []byte(text)))
	//
	assert.Nil(t, program)
	require.NotEmpty(t, errs)
	assert.Equal(t, msg, errs[0].Message())
}

func check_PropertyType(t *testing.T, program *ast.Program, name string, expected string) {
	props := program.Root().Lookup(name, ast.PropertyKind)
	//
	require.Len(t, props, 1)
	assert.Equal(t, expected, props[0].(*ast.Property).Type().String())
}
