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
	"slices"

	"github.com/consensys/go-infer/pkg/ir"
	"github.com/consensys/go-infer/pkg/types"
)

// Outcome of overload resolution at a call site.
type Outcome uint8

const (
	// Resolved indicates a unique winner was found.
	Resolved Outcome = iota
	// Ambiguous indicates several candidates remained tied.
	Ambiguous
	// NoneApplicable indicates no candidate accepted the arguments.
	NoneApplicable
)

func (o Outcome) String() string {
	switch o {
	case Resolved:
		return "resolved"
	case Ambiguous:
		return "ambiguous"
	default:
		return "none applicable"
	}
}

// Result of overload resolution.  For an ambiguous outcome, the tied
// candidates are given in order of declaration.
type Result struct {
	Outcome Outcome
	Winner  *Candidate
	Tied    []*Candidate
}

// Rank the checked candidates at a call site with a given number of
// arguments.  Candidates applicable without coercion are always preferred to
// those requiring coercion.  Within a tier, a candidate is discarded if some
// other is strictly more specific.  Remaining ties are broken by the given
// rules, in order.  The result does not depend on the order of candidates.
func Rank(lattice *types.Lattice, candidates []*Candidate, nargs int, rules []TieBreak) Result {
	tier := tierOf(candidates, Applicable)
	//
	if len(tier) == 0 {
		tier = tierOf(candidates, ApplicableWithCoercion)
	}
	//
	if len(tier) == 0 {
		return Result{Outcome: NoneApplicable}
	}
	//
	best := maximal(tier, func(l, r *Candidate) types.Specificity {
		return specificity(lattice, l, r, nargs)
	})
	//
	for _, rule := range rules {
		if len(best) == 1 {
			break
		}
		//
		best = maximal(best, func(l, r *Candidate) types.Specificity {
			return breakTie(rule, l, r)
		})
	}
	//
	if len(best) == 1 {
		best[0].Status = Winner
		return Result{Outcome: Resolved, Winner: best[0]}
	}
	//
	slices.SortStableFunc(best, func(l, r *Candidate) int {
		return l.Decl.Span().Compare(r.Decl.Span())
	})
	//
	return Result{Outcome: Ambiguous, Tied: best}
}

func tierOf(candidates []*Candidate, status Status) []*Candidate {
	var tier []*Candidate
	//
	for _, c := range candidates {
		if c.Status == status {
			tier = append(tier, c)
		}
	}
	//
	return tier
}

// Retain those candidates not beaten by any other, under a given comparison.
func maximal(candidates []*Candidate, compare func(*Candidate, *Candidate) types.Specificity) []*Candidate {
	var retained []*Candidate
	//
	for i, c := range candidates {
		beaten := false
		//
		for j, d := range candidates {
			if i != j && compare(d, c) == types.Left {
				beaten = true
				break
			}
		}
		//
		if !beaten {
			retained = append(retained, c)
		}
	}
	//
	return retained
}

// Compare two candidates by the types of the parameters receiving arguments,
// after substitution.  One is more specific when each of its parameter types
// is a subtype of the other's, but not vice versa.
func specificity(lattice *types.Lattice, l *Candidate, r *Candidate, nargs int) types.Specificity {
	var (
		lhs   = l.SolvedParamTypes(nargs)
		rhs   = r.SolvedParamTypes(nargs)
		left  = true
		right = true
	)
	//
	for i := range min(len(lhs), len(rhs)) {
		left = left && lattice.IsSubtype(lhs[i], rhs[i])
		right = right && lattice.IsSubtype(rhs[i], lhs[i])
	}
	//
	switch {
	case left && !right:
		return types.Left
	case right && !left:
		return types.Right
	default:
		return types.Neither
	}
}

func breakTie(rule TieBreak, l *Candidate, r *Candidate) types.Specificity {
	switch rule {
	case MemberOverExtension:
		if l.ReceiverId != r.ReceiverId || l.ReceiverId < 0 {
			return types.Neither
		}
		//
		lext, rext := l.Kind == ir.ExtensionCall, r.Kind == ir.ExtensionCall
		//
		return prefer(!lext && rext, !rext && lext)
	case NonGenericOverGeneric:
		return prefer(!l.IsGeneric() && r.IsGeneric(), !r.IsGeneric() && l.IsGeneric())
	case FewerSupertypeHops:
		return prefer(l.Hops < r.Hops, r.Hops < l.Hops)
	case FewerDefaults:
		// Both receive the same arguments, so the one with fewer parameters
		// uses fewer defaults.
		return prefer(len(l.Parameters) < len(r.Parameters), len(r.Parameters) < len(l.Parameters))
	default:
		panic("unknown tie-break")
	}
}

func prefer(left bool, right bool) types.Specificity {
	switch {
	case left:
		return types.Left
	case right:
		return types.Right
	default:
		return types.Neither
	}
}
