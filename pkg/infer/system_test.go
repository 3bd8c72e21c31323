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
package infer

import (
	"testing"

	"github.com/consensys/go-infer/pkg/types"
	"github.com/consensys/go-infer/pkg/util/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Solve_Literal_01(t *testing.T) {
	env := newTestEnv()
	T := env.param("T")
	// id(5)
	sys := env.system(T)
	sys.Add(env.lit("5"), ref(T), Subtype, argument(0))
	check_Solution(t, sys, "{T:=Int}")
}

func Test_Solve_Literal_02(t *testing.T) {
	env := newTestEnv()
	T := env.param("T")
	// val x: Long = id(5)
	sys := env.system(T)
	sys.Add(env.lit("5"), ref(T), Subtype, argument(0))
	sys.Add(ref(T), env.u.Long.Instantiate(), Subtype, ExpectedOrigin(span()))
	check_Solution(t, sys, "{T:=Long}")
}

func Test_Solve_Literal_03(t *testing.T) {
	env := newTestEnv()
	T := env.param("T")
	// id<Long>(5)
	sys := env.system(T)
	sys.Add(ref(T), env.u.Long.Instantiate(), Equal, TypeArgumentOrigin(0, span()))
	sys.Add(env.lit("5"), ref(T), Subtype, argument(0))
	check_Solution(t, sys, "{T:=Long}")
}

func Test_Solve_Literal_04(t *testing.T) {
	env := newTestEnv()
	T := env.param("T")
	// id<Int>(3000000000)
	sys := env.system(T)
	sys.Add(ref(T), env.u.Int.Instantiate(), Equal, TypeArgumentOrigin(0, span()))
	sys.Add(env.lit("3000000000"), ref(T), Subtype, argument(0))
	c := check_Contradiction(t, sys, "Long is not a subtype of Int")
	assert.Equal(t, 0, c.Blame().Argument)
	assert.Equal(t, ExplicitTypeArgument, c.Other().Priority)
}

func Test_Solve_Bound_01(t *testing.T) {
	env := newTestEnv()
	T := env.param("T", env.u.Number.Instantiate())
	// box("s")
	sys := env.system(T)
	sys.Add(ref(T), env.u.Number.Instantiate(), Subtype, BoundOrigin(T, span()))
	sys.Add(env.u.String.Instantiate(), ref(T), Subtype, argument(0))
	c := check_Contradiction(t, sys, "String is not a subtype of Number")
	assert.Equal(t, T, c.Param)
	assert.Equal(t, 0, c.Blame().Argument)
	assert.Equal(t, DeclaredBound, c.Other().Priority)
}

func Test_Solve_Bound_02(t *testing.T) {
	env := newTestEnv()
	T := env.param("T", env.u.Number.Instantiate())
	// zero() with no other information falls back on the declared bound
	sys := env.system(T)
	sys.Add(ref(T), env.u.Number.Instantiate(), Subtype, BoundOrigin(T, span()))
	check_Solution(t, sys, "{T:=Number}")
}

func Test_Solve_Bound_03(t *testing.T) {
	env := newTestEnv()
	T := env.param("T", env.u.Number.Instantiate())
	// val x: Int = zero()
	sys := env.system(T)
	sys.Add(ref(T), env.u.Number.Instantiate(), Subtype, BoundOrigin(T, span()))
	sys.Add(ref(T), env.u.Int.Instantiate(), Subtype, ExpectedOrigin(span()))
	check_Solution(t, sys, "{T:=Int}")
}

func Test_Solve_Bound_04(t *testing.T) {
	env := newTestEnv()
	T := env.param("T")
	self := env.u.Comparable.Instantiate(ref(T))
	// max(1, 2) where T : Comparable<T>
	sys := env.system(T)
	sys.Add(ref(T), self, Subtype, BoundOrigin(T, span()))
	sys.Add(env.lit("1"), ref(T), Subtype, argument(0))
	sys.Add(env.lit("2"), ref(T), Subtype, argument(1))
	check_Solution(t, sys, "{T:=Int}")
}

func Test_Solve_Lub_01(t *testing.T) {
	env := newTestEnv()
	T := env.param("T")
	// listOf(1, 2.0)
	sys := env.system(T)
	sys.Add(env.lit("1"), ref(T), Subtype, argument(0))
	sys.Add(env.u.Double.Instantiate(), ref(T), Subtype, argument(1))
	check_Solution(t, sys, "{T:=Number}")
}

func Test_Solve_Lub_02(t *testing.T) {
	env := newTestEnv()
	T := env.param("T")
	// listOf(null, 1)
	sys := env.system(T)
	sys.Add(types.MakeNullable(env.u.NothingType()), ref(T), Subtype, argument(0))
	sys.Add(env.lit("1"), ref(T), Subtype, argument(1))
	check_Solution(t, sys, "{T:=Int?}")
}

func Test_Solve_Nullable_01(t *testing.T) {
	env := newTestEnv()
	T := env.param("T")
	// f(x: T?) given a String?
	sys := env.system(T)
	sys.Add(types.MakeNullable(env.u.String.Instantiate()), types.MakeNullable(ref(T)), Subtype, argument(0))
	check_Solution(t, sys, "{T:=String}")
}

func Test_Solve_Nullable_02(t *testing.T) {
	env := newTestEnv()
	T := env.param("T")
	// f(x: List<T>) given a List<Int>?
	sys := env.system(T)
	sys.Add(types.MakeNullable(env.list.Instantiate(env.u.Int.Instantiate())), env.list.Instantiate(ref(T)),
		Subtype, argument(0))
	check_Contradiction(t, sys, "List<Int>? is not a subtype of List<T>")
}

func Test_Solve_Decompose_01(t *testing.T) {
	env := newTestEnv()
	T := env.param("T")
	// f(xs: Collection<T>) given a MutableList<String>
	sys := env.system(T)
	sys.Add(env.mutableList.Instantiate(env.u.String.Instantiate()), env.collection.Instantiate(ref(T)),
		Subtype, argument(0))
	check_Solution(t, sys, "{T:=String}")
}

func Test_Solve_Decompose_02(t *testing.T) {
	env := newTestEnv()
	T := env.param("T")
	// f(b: Box<T>, x: T) given Box<Number> and 1
	sys := env.system(T)
	sys.Add(env.box.Instantiate(env.u.Number.Instantiate()), env.box.Instantiate(ref(T)), Subtype, argument(0))
	sys.Add(env.lit("1"), ref(T), Subtype, argument(1))
	check_Solution(t, sys, "{T:=Number}")
}

func Test_Solve_Decompose_03(t *testing.T) {
	env := newTestEnv()
	T := env.param("T")
	// f(b: Box<T>, x: T) given Box<Int> and "s"
	sys := env.system(T)
	sys.Add(env.box.Instantiate(env.u.Int.Instantiate()), env.box.Instantiate(ref(T)), Subtype, argument(0))
	sys.Add(env.u.String.Instantiate(), ref(T), Subtype, argument(1))
	c := check_Contradiction(t, sys, "String is not a subtype of Int")
	assert.Equal(t, 1, c.Blame().Argument)
}

func Test_Solve_Decompose_04(t *testing.T) {
	env := newTestEnv()
	T := env.param("T")
	// f(c: Consumer<T>) given Consumer<Number>
	sys := env.system(T)
	sys.Add(env.consumer.Instantiate(env.u.Number.Instantiate()), env.consumer.Instantiate(ref(T)),
		Subtype, argument(0))
	check_Solution(t, sys, "{T:=Number}")
}

func Test_Solve_Decompose_05(t *testing.T) {
	env := newTestEnv()
	T := env.param("T")
	// f(xs: List<T>) given a String
	sys := env.system(T)
	sys.Add(env.u.String.Instantiate(), env.list.Instantiate(ref(T)), Subtype, argument(0))
	check_Contradiction(t, sys, "String is not a subtype of List<T>")
}

func Test_Solve_Function_01(t *testing.T) {
	env := newTestEnv()
	T, R := env.param("T"), env.param("R")
	// map(f: (T) -> R) given (Int) -> String
	sys := env.system(T, R)
	given := types.NewFunction([]types.Type{env.u.Int.Instantiate()}, env.u.String.Instantiate())
	sys.Add(given, types.NewFunction([]types.Type{ref(T)}, ref(R)), Subtype, argument(0))
	check_Solution(t, sys, "{T:=Int, R:=String}")
}

func Test_Solve_Function_02(t *testing.T) {
	env := newTestEnv()
	T := env.param("T")
	// f(g: (T) -> T) given (Int, Int) -> Int
	sys := env.system(T)
	given := types.NewFunction([]types.Type{env.u.Int.Instantiate(), env.u.Int.Instantiate()}, env.u.Int.Instantiate())
	sys.Add(given, types.NewFunction([]types.Type{ref(T)}, ref(T)), Subtype, argument(0))
	check_Contradiction(t, sys, "(Int, Int) -> Int is not a subtype of (T) -> T")
}

func Test_Solve_Chain_01(t *testing.T) {
	env := newTestEnv()
	T, U := env.param("T"), env.param("U")
	// T <: U, with 1 <: T and U <: Number
	sys := env.system(U, T)
	sys.Add(ref(T), ref(U), Subtype, argument(0))
	sys.Add(env.lit("1"), ref(T), Subtype, argument(1))
	sys.Add(ref(U), env.u.Number.Instantiate(), Subtype, ExpectedOrigin(span()))
	check_Solution(t, sys, "{T:=Int, U:=Int}")
}

func Test_Solve_Unconstrained_01(t *testing.T) {
	env := newTestEnv()
	T, U := env.param("T"), env.param("U")
	// emptyPair<T,U>(x: T) given 1
	sys := env.system(T, U)
	sys.Add(env.lit("1"), ref(T), Subtype, argument(0))
	//
	solution, failure := sys.Solve()
	require.Nil(t, failure)
	assert.Equal(t, []*types.TypeParameter{U}, solution.Unconstrained)
	assert.Equal(t, "{T:=Int}", solution.Substitution.String())
}

func Test_Solve_Special_01(t *testing.T) {
	env := newTestEnv()
	T := env.param("T", env.u.Number.Instantiate())
	// box(<error>) is not reported again
	sys := env.system(T)
	sys.Add(ref(T), env.u.Number.Instantiate(), Subtype, BoundOrigin(T, span()))
	sys.Add(types.Error, ref(T), Subtype, argument(0))
	check_Solution(t, sys, "{T:=<error>}")
}

func Test_Solve_Fix_01(t *testing.T) {
	env := newTestEnv()
	T, R := env.param("T"), env.param("R")
	// map(xs: List<T>, f: (T) -> R) given a List<Int>, where T is fixed before
	// the lambda body is considered.
	sys := env.system(T, R)
	sys.Add(env.list.Instantiate(env.u.Int.Instantiate()), env.list.Instantiate(ref(T)), Subtype, argument(0))
	sys.Fix(T, R)
	//
	value, ok := sys.Current().Get(T)
	require.True(t, ok)
	assert.Equal(t, "Int", value.String())
	_, ok = sys.Current().Get(R)
	assert.False(t, ok)
	//
	sys.Add(env.u.String.Instantiate(), ref(R), Subtype, argument(1))
	check_Solution(t, sys, "{T:=Int, R:=String}")
}

func Test_Check_01(t *testing.T) {
	env := newTestEnv()
	sys := env.system()
	sys.Relate(env.lit("1"), env.u.Number.Instantiate(), Subtype, argument(0))
	assert.Nil(t, sys.Failure())
	sys.Relate(env.u.String.Instantiate(), env.u.Number.Instantiate(), Subtype, argument(1))
	require.NotNil(t, sys.Failure())
	assert.Equal(t, "String is not a subtype of Number", sys.Failure().Error())
	assert.Equal(t, 1, sys.Failure().Blame().Argument)
}

func Test_Add_Foreign_01(t *testing.T) {
	env := newTestEnv()
	T, U := env.param("T"), env.param("U")
	sys := env.system(T)
	//
	assert.Panics(t, func() {
		sys.Add(env.u.String.Instantiate(), ref(U), Subtype, argument(0))
	})
}

// Permuting the order in which constraints are added does not change the
// solution.
func Test_Solve_Order_01(t *testing.T) {
	var (
		env  = newTestEnv()
		T, U = env.param("T"), env.param("U")
		cs   = []func(*System){
			func(s *System) { s.Add(env.lit("1"), ref(T), Subtype, argument(0)) },
			func(s *System) { s.Add(env.u.Double.Instantiate(), ref(T), Subtype, argument(1)) },
			func(s *System) {
				s.Add(ref(T), env.u.NullableAnyType(), Subtype, ExpectedOrigin(span()))
			},
			func(s *System) {
				s.Add(env.list.Instantiate(env.u.Long.Instantiate()), env.list.Instantiate(ref(U)), Subtype, argument(2))
			},
			func(s *System) { s.Add(env.lit("7"), ref(U), Subtype, argument(3)) },
			func(s *System) { s.Add(ref(U), env.u.Number.Instantiate(), Subtype, BoundOrigin(U, span())) },
		}
		expected string
	)
	//
	for _, perm := range permutations(len(cs)) {
		sys := env.system(T, U)
		//
		for _, i := range perm {
			cs[i](sys)
		}
		//
		solution, failure := sys.Solve()
		require.Nil(t, failure)
		//
		if expected == "" {
			expected = solution.Substitution.String()
		}
		//
		assert.Equal(t, expected, solution.Substitution.String(), "permutation %v", perm)
	}
	//
	assert.Equal(t, "{T:=Number, U:=Long}", expected)
}

// ============================================================================
// Helpers
// ============================================================================

type testEnv struct {
	u           *types.Universe
	lattice     *types.Lattice
	collection  *types.Class
	list        *types.Class
	mutableList *types.Class
	box         *types.Class
	consumer    *types.Class
}

func newTestEnv() *testEnv {
	var (
		u   = types.NewUniverse()
		env = &testEnv{u: u, lattice: types.NewLattice(u, 4)}
		e1  = types.NewTypeParameter("E", types.Covariant)
		e2  = types.NewTypeParameter("E", types.Covariant)
		e3  = types.NewTypeParameter("E", types.Invariant)
	)
	//
	env.collection = types.NewInterface("Collection", e1)
	env.collection.SetSupertypes(u.AnyType())
	env.list = types.NewInterface("List", e2)
	env.list.SetSupertypes(env.collection.Instantiate(ref(e2)))
	env.mutableList = types.NewClass("MutableList", e3)
	env.mutableList.SetSupertypes(env.list.Instantiate(ref(e3)))
	env.box = types.NewClass("Box", types.NewTypeParameter("T", types.Invariant))
	env.box.SetSupertypes(u.AnyType())
	env.consumer = types.NewInterface("Consumer", types.NewTypeParameter("T", types.Contravariant))
	env.consumer.SetSupertypes(u.AnyType())
	//
	for _, c := range []*types.Class{env.collection, env.list, env.mutableList, env.box, env.consumer} {
		c.Seal()
	}
	//
	return env
}

func (p *testEnv) param(name string, bounds ...types.Type) *types.TypeParameter {
	return types.NewTypeParameter(name, types.Invariant, bounds...)
}

func (p *testEnv) system(params ...*types.TypeParameter) *System {
	return NewSystem(p.lattice, params)
}

func (p *testEnv) lit(text string) types.Type {
	return p.u.IntegerLiteral(text)
}

func ref(param *types.TypeParameter) *types.Parameter {
	return types.NewParameter(param)
}

func span() source.Span {
	return source.NewSpan(0, 1)
}

func argument(i int) Origin {
	return ArgumentOrigin(i, source.NewSpan(i, i+1))
}

func check_Solution(t *testing.T, sys *System, expected string) {
	t.Helper()
	//
	solution, failure := sys.Solve()
	//
	if failure != nil {
		t.Fatalf("unexpected contradiction: %s", failure.Error())
	}
	//
	assert.Empty(t, solution.Unconstrained)
	assert.Equal(t, expected, solution.Substitution.String())
}

func check_Contradiction(t *testing.T, sys *System, expected string) *Contradiction {
	t.Helper()
	//
	solution, failure := sys.Solve()
	//
	if failure == nil {
		t.Fatalf("expected contradiction, got %s", solution.Substitution.String())
	}
	//
	assert.Equal(t, expected, failure.Error())
	//
	return failure
}

// permutations of the indices 0..n-1, via Heap's algorithm.
func permutations(n int) [][]int {
	var (
		result [][]int
		items  = make([]int, n)
		gen    func(k int)
	)
	//
	for i := range items {
		items[i] = i
	}
	//
	gen = func(k int) {
		if k <= 1 {
			result = append(result, append([]int(nil), items...))
			return
		}
		//
		for i := 0; i < k; i++ {
			gen(k - 1)
			//
			if k%2 == 0 {
				items[i], items[k-1] = items[k-1], items[i]
			} else {
				items[0], items[k-1] = items[k-1], items[0]
			}
		}
	}
	//
	gen(n)
	//
	return result
}
