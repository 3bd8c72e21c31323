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
	"github.com/consensys/go-infer/pkg/ir"
	"github.com/consensys/go-infer/pkg/types"
	"github.com/consensys/go-infer/pkg/util/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Rank_Specific_01(t *testing.T) {
	u := types.NewUniverse()
	//
	check_RankWinner(t, u, "f2(Int)", DefaultPolicy().TieBreaks,
		rankCandidate(0, ir.TopLevelCall, u.AnyType()),
		rankCandidate(1, ir.TopLevelCall, u.Number.Instantiate()),
		rankCandidate(2, ir.TopLevelCall, u.Int.Instantiate()))
}

func Test_Rank_Ambiguous_01(t *testing.T) {
	u := types.NewUniverse()
	candidates := []*Candidate{
		rankCandidate(0, ir.TopLevelCall, u.Int.Instantiate(), u.AnyType()),
		rankCandidate(1, ir.TopLevelCall, u.AnyType(), u.Int.Instantiate()),
		rankCandidate(2, ir.TopLevelCall, u.AnyType(), u.AnyType()),
	}
	//
	for _, perm := range permutations(candidates) {
		result := Rank(types.NewLattice(u, 8), perm, 2, DefaultPolicy().TieBreaks)
		//
		require.Equal(t, Ambiguous, result.Outcome)
		require.Len(t, result.Tied, 2)
		assert.Same(t, candidates[0], result.Tied[0])
		assert.Same(t, candidates[1], result.Tied[1])
	}
}

func Test_Rank_Tier_01(t *testing.T) {
	u := types.NewUniverse()
	var (
		exact   = rankCandidate(0, ir.TopLevelCall, u.AnyType())
		coerced = rankCandidate(1, ir.TopLevelCall, u.Double.Instantiate())
	)
	//
	coerced.Status = ApplicableWithCoercion
	result := Rank(types.NewLattice(u, 8), []*Candidate{coerced, exact}, 1, nil)
	//
	require.Equal(t, Resolved, result.Outcome)
	assert.Same(t, exact, result.Winner)
	assert.Equal(t, Winner, exact.Status)
}

func Test_Rank_None_01(t *testing.T) {
	u := types.NewUniverse()
	c := rankCandidate(0, ir.TopLevelCall, u.AnyType())
	c.Status = Inapplicable
	//
	result := Rank(types.NewLattice(u, 8), []*Candidate{c}, 1, nil)
	assert.Equal(t, NoneApplicable, result.Outcome)
}

func Test_Rank_TieBreak_01(t *testing.T) {
	u := types.NewUniverse()
	var (
		member    = rankCandidate(0, ir.MemberCall)
		extension = rankCandidate(1, ir.ExtensionCall)
	)
	//
	member.ReceiverId, extension.ReceiverId = 0, 0
	//
	check_RankWinner(t, u, "m0()", []TieBreak{MemberOverExtension}, member, extension)
	check_RankAmbiguous(t, u, nil, member, extension)
	// Different receivers are never compared by kind
	extension.ReceiverId = 1
	check_RankAmbiguous(t, u, []TieBreak{MemberOverExtension}, member, extension)
}

func Test_Rank_TieBreak_02(t *testing.T) {
	u := types.NewUniverse()
	var (
		plain   = rankCandidate(0, ir.TopLevelCall, u.Int.Instantiate())
		generic = rankCandidate(1, ir.TopLevelCall, u.Int.Instantiate())
	)
	//
	generic.Params = []*types.TypeParameter{types.NewTypeParameter("T", types.Invariant)}
	//
	check_RankWinner(t, u, "f0(Int)", []TieBreak{NonGenericOverGeneric}, plain, generic)
	check_RankAmbiguous(t, u, []TieBreak{FewerSupertypeHops}, plain, generic)
}

func Test_Rank_TieBreak_03(t *testing.T) {
	u := types.NewUniverse()
	var (
		near = rankCandidate(0, ir.ExtensionCall)
		far  = rankCandidate(1, ir.ExtensionCall)
	)
	//
	near.Hops, far.Hops = 1, 2
	//
	check_RankWinner(t, u, "m0()", []TieBreak{FewerSupertypeHops}, near, far)
}

func Test_Rank_TieBreak_04(t *testing.T) {
	u := types.NewUniverse()
	var (
		short = rankCandidate(0, ir.TopLevelCall, u.Int.Instantiate())
		long  = rankCandidate(1, ir.TopLevelCall, u.Int.Instantiate(), u.String.Instantiate())
	)
	//
	check_RankWinner(t, u, "f0(Int)", []TieBreak{FewerDefaults}, short, long)
	check_RankAmbiguous(t, u, DefaultPolicy().TieBreaks, short, long)
}

func Test_Policy_TieBreak_01(t *testing.T) {
	for _, rule := range []TieBreak{MemberOverExtension, NonGenericOverGeneric, FewerSupertypeHops, FewerDefaults} {
		parsed, err := ParseTieBreak(rule.String())
		//
		require.NoError(t, err)
		assert.Equal(t, rule, parsed)
	}
	//
	_, err := ParseTieBreak("coin-toss")
	assert.Error(t, err)
}

// ============================================================================
// Helpers
// ============================================================================

// Construct an applicable candidate whose declaration is positioned by index.
// Members and extensions are named m, others f.
func rankCandidate(index int, kind ir.CallKind, params ...types.Type) *Candidate {
	var (
		name       = "f"
		parameters = make([]ast.Parameter, len(params))
		span       = source.NewSpan(index*10, index*10+1)
	)
	//
	if kind == ir.MemberCall || kind == ir.ExtensionCall {
		name = "m"
	}
	//
	for i, p := range params {
		parameters[i] = ast.Parameter{Name: "x", Type: p}
	}
	//
	fn := ast.NewFunction(name+string(rune('0'+index)), nil, nil, parameters, types.Error, nil, ast.Public, span)
	//
	return &Candidate{
		Decl:       fn,
		Kind:       kind,
		ReceiverId: -1,
		Renaming:   types.NewSubstitution(),
		Parameters: parameters,
		ParamTypes: params,
		Return:     types.Error,
		Status:     Applicable,
	}
}

func check_RankWinner(t *testing.T, u *types.Universe, expected string, rules []TieBreak, candidates ...*Candidate) {
	for _, perm := range permutations(candidates) {
		for _, c := range perm {
			c.Status = Applicable
		}
		//
		result := Rank(types.NewLattice(u, 8), perm, 1, rules)
		//
		require.Equal(t, Resolved, result.Outcome)
		assert.Equal(t, expected, Describe(result.Winner.Decl))
	}
}

func check_RankAmbiguous(t *testing.T, u *types.Universe, rules []TieBreak, candidates ...*Candidate) {
	for _, perm := range permutations(candidates) {
		for _, c := range perm {
			c.Status = Applicable
		}
		//
		result := Rank(types.NewLattice(u, 8), perm, 1, rules)
		assert.Equal(t, Ambiguous, result.Outcome)
	}
}

func permutations(candidates []*Candidate) [][]*Candidate {
	if len(candidates) <= 1 {
		return [][]*Candidate{append([]*Candidate(nil), candidates...)}
	}
	//
	var result [][]*Candidate
	//
	for i, c := range candidates {
		rest := make([]*Candidate, 0, len(candidates)-1)
		rest = append(rest, candidates[:i]...)
		rest = append(rest, candidates[i+1:]...)
		//
		for _, perm := range permutations(rest) {
			result = append(result, append([]*Candidate{c}, perm...))
		}
	}
	//
	return result
}
