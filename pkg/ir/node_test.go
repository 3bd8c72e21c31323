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
package ir

import (
	"testing"

	"github.com/consensys/go-infer/pkg/ast"
	"github.com/consensys/go-infer/pkg/types"
	"github.com/consensys/go-infer/pkg/util/source"
	"github.com/stretchr/testify/assert"
)

func Test_Node_Lisp_01(t *testing.T) {
	var (
		u    = types.NewUniverse()
		span = source.NewSpan(0, 1)
		T    = types.NewTypeParameter("T", types.Invariant)
		x    = ast.Parameter{Name: "x", Type: types.NewParameter(T)}
		y    = ast.Parameter{Name: "y", Type: u.Int.Instantiate(), Default: ast.NewIntLiteral("0", span)}
		id   = ast.NewFunction("id", []*types.TypeParameter{T}, nil, []ast.Parameter{x, y},
			types.NewParameter(T), nil, ast.Public, span)
		five = NewLiteral("5", u.Int.Instantiate(), span)
		call = NewCall(id, TopLevelCall, nil, []types.Type{u.Int.Instantiate()}, nil,
			[]Node{five, NewDefaultArgument(y, u.Int.Instantiate(), span)}, u.Int.Instantiate(), span)
	)
	//
	assert.Equal(t, "(id<Int> 5 (default y)) : Int", String(call))
	//
	boxed := NewCoercion(Box, five, u.NullableAnyType())
	assert.Equal(t, "(box 5) : Any?", String(boxed))
	assert.Equal(t, span, boxed.Span())
	assert.Equal(t, "<error> : <error>", String(NewError(span)))
}

func Test_Node_Lisp_02(t *testing.T) {
	var (
		u      = types.NewUniverse()
		span   = source.NewSpan(0, 1)
		str    = u.String.Instantiate()
		length = ast.NewFunction("len", nil, str, nil, u.Int.Instantiate(), nil, ast.Public, span)
		call   = NewCall(length, ExtensionCall, NewLiteral("\"abc\"", str, span), nil, nil, nil,
			u.Int.Instantiate(), span)
		x      = ast.NewLocal("x", u.Int.Instantiate(), span)
		fn     = types.NewFunction([]types.Type{u.Int.Instantiate()}, u.Int.Instantiate())
		lambda = NewLambda([]*ast.Property{x}, NewVariable(x, u.Int.Instantiate(), span), fn, span)
		let    = NewLet([]*ast.Property{x}, []Node{call}, NewVariable(x, u.Int.Instantiate(), span), span)
	)
	//
	assert.Equal(t, "(. \"abc\" len) : Int", String(call))
	assert.Equal(t, "(lambda ((x Int)) x) : (Int) -> Int", String(lambda))
	assert.Equal(t, "(let ((x (. \"abc\" len))) x) : Int", String(let))
	assert.Equal(t, ExtensionCall, call.Kind())
	assert.Panics(t, func() { NewLet([]*ast.Property{x}, nil, call, span) })
}
