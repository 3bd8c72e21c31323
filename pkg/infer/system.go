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
	"fmt"
	"slices"
	"strings"

	"github.com/consensys/go-infer/pkg/types"
)

// System is a set of constraints over the fresh type parameters of a single
// candidate.  Constraints are decomposed into bounds on individual parameters
// as they are added, and parameters are fixed one at a time by Solve.  Solving
// never backtracks: the first contradiction found is final.
type System struct {
	lattice *types.Lattice
	params  []*types.TypeParameter
	index   map[*types.TypeParameter]int
	// Constraints as originally added.
	constraints []Constraint
	// Bounds on each parameter, indexed by parameter.
	lowers [][]bound
	uppers [][]bound
	equals [][]bound
	// Parameters fixed so far, and their values.
	fixed []bool
	subst types.Substitution
	// Parameter currently being fixed (if any).
	solving *types.TypeParameter
	// First contradiction encountered (if any).
	failure *Contradiction
}

// bound is a type bounding a single parameter from one side.
type bound struct {
	bound  types.Type
	origin Origin
}

// NewSystem constructs an empty constraint system over a given set of fresh
// type parameters.
func NewSystem(lattice *types.Lattice, params []*types.TypeParameter) *System {
	n := len(params)
	index := make(map[*types.TypeParameter]int, n)
	//
	for i, p := range params {
		index[p] = i
	}
	//
	return &System{
		lattice: lattice,
		params:  params,
		index:   index,
		lowers:  make([][]bound, n),
		uppers:  make([][]bound, n),
		equals:  make([][]bound, n),
		fixed:   make([]bool, n),
		subst:   types.NewSubstitution(),
	}
}

// Params returns the parameters being solved for.
func (s *System) Params() []*types.TypeParameter {
	return s.params
}

// Owns determines whether a given parameter belongs to this system.
func (s *System) Owns(param *types.TypeParameter) bool {
	_, ok := s.index[param]
	return ok
}

// Constraints returns the constraints added so far, in order of addition.
func (s *System) Constraints() []Constraint {
	return s.constraints
}

// Failure returns the first contradiction encountered, or nil.
func (s *System) Failure() *Contradiction {
	return s.failure
}

// Current returns the substitution for those parameters fixed so far.
func (s *System) Current() types.Substitution {
	return s.subst
}

// Relate requires a relation between two types.  This is added as a
// constraint if it mentions a parameter of this system, otherwise it is checked
// immediately.
func (s *System) Relate(lower types.Type, upper types.Type, relation Relation, origin Origin) {
	if types.Mentions(lower, s.Owns) || types.Mentions(upper, s.Owns) {
		s.Add(lower, upper, relation, origin)
	} else {
		s.Check(lower, upper, relation, origin)
	}
}

// Add a constraint to this system.  The constraint must mention at least one
// parameter of this system, otherwise the caller has mixed up candidates.
func (s *System) Add(lower types.Type, upper types.Type, relation Relation, origin Origin) {
	var params []*types.TypeParameter
	//
	for _, p := range append(types.ParametersOf(lower), types.ParametersOf(upper)...) {
		if s.Owns(p) && !slices.Contains(params, p) {
			params = append(params, p)
		}
	}
	//
	if len(params) == 0 {
		panic(fmt.Sprintf("constraint %s %s %s mentions no parameter of its system", lower, relation, upper))
	}
	//
	s.constraints = append(s.constraints, Constraint{lower, upper, relation, params, origin})
	s.incorporate(lower, upper, relation, origin, origin)
}

// Check a relation between two types which mention no parameter of this
// system.  A contradiction is recorded if the relation does not hold.
func (s *System) Check(lower types.Type, upper types.Type, relation Relation, origin Origin) {
	if s.failure != nil {
		return
	} else if !s.lattice.IsSubtype(lower, upper) {
		s.contradiction(lower, upper, origin, origin)
	} else if relation == Equal && !s.lattice.IsSubtype(upper, lower) {
		s.contradiction(upper, lower, origin, origin)
	}
}

// Fix the given parameters now, where they have sufficient bounds to do so.
// This is used to determine the input types of lambda arguments before their
// bodies are analysed.  Parameters without proper bounds are left unfixed.
func (s *System) Fix(params ...*types.TypeParameter) {
	for _, p := range params {
		if i, ok := s.index[p]; ok && s.failure == nil && !s.fixed[i] && s.readiness(i) != notReady {
			s.fix(i)
		}
	}
}

// Solve this system, by repeatedly fixing the most constrained remaining
// parameter.  Either a solution or the first contradiction is returned.
// Parameters with no proper bounds are reported as unconstrained, and are not
// bound in the resulting substitution.
func (s *System) Solve() (*Solution, *Contradiction) {
	for s.failure == nil && s.step() {
	}
	//
	if s.failure != nil {
		return nil, s.failure
	}
	//
	var unconstrained []*types.TypeParameter
	//
	for i, p := range s.params {
		if !s.fixed[i] {
			unconstrained = append(unconstrained, p)
		}
	}
	//
	return &Solution{s.subst, unconstrained}, nil
}

func (s *System) String() string {
	var builder strings.Builder
	//
	for i, p := range s.params {
		if i != 0 {
			builder.WriteString("; ")
		}
		//
		builder.WriteString(p.Name())
		//
		if t, ok := s.subst.Get(p); ok {
			builder.WriteString(":=")
			builder.WriteString(t.String())
		}
		//
		writeBounds(&builder, " :> ", s.lowers[i])
		writeBounds(&builder, " <: ", s.uppers[i])
		writeBounds(&builder, " = ", s.equals[i])
	}
	//
	return builder.String()
}

func writeBounds(builder *strings.Builder, rel string, bounds []bound) {
	for _, b := range bounds {
		builder.WriteString(rel)
		builder.WriteString(b.bound.String())
	}
}

// ============================================================================
// Fixing
// ============================================================================

type readiness uint8

const (
	notReady readiness = iota
	// Some proper bound, though only upper bounds.
	upperReady
	// Some proper lower or equality bound.
	lowerReady
	// At least one bound, and all bounds proper.
	fullyReady
)

// step fixes the first parameter (in declaration order) with the greatest
// readiness.  Returns false if no parameter could be fixed.
func (s *System) step() bool {
	var (
		best      = -1
		bestLevel = notReady
	)
	//
	for i := range s.params {
		if s.fixed[i] {
			continue
		} else if r := s.readiness(i); r > bestLevel {
			best, bestLevel = i, r
		}
	}
	//
	if best < 0 {
		return false
	}
	//
	s.fix(best)
	//
	return true
}

func (s *System) readiness(i int) readiness {
	var (
		proper, improper int
		lower            bool
	)
	//
	count := func(bounds []bound, isLower bool) {
		for _, b := range bounds {
			if s.isProper(b.bound) {
				proper++
				lower = lower || isLower
			} else {
				improper++
			}
		}
	}
	//
	count(s.lowers[i], true)
	count(s.equals[i], true)
	count(s.uppers[i], false)
	//
	switch {
	case proper == 0:
		return notReady
	case improper == 0:
		return fullyReady
	case lower:
		return lowerReady
	default:
		return upperReady
	}
}

// fix parameter i to a value determined by its proper bounds, then check that
// value against all of its bounds.
func (s *System) fix(i int) {
	var (
		param         = s.params[i]
		value, origin = s.choose(i)
	)
	//
	if value == nil {
		return
	}
	//
	s.solving = param
	s.subst = s.subst.With(param, value)
	s.fixed[i] = true
	// Check the value against every bound, including improper ones which now
	// decompose into bounds on other parameters.
	for _, b := range sortBounds(s.equals[i]) {
		s.incorporate(value, b.bound, Equal, origin, b.origin)
	}
	//
	for _, b := range sortBounds(s.lowers[i]) {
		s.incorporate(b.bound, value, Subtype, b.origin, origin)
	}
	//
	for _, b := range sortBounds(s.uppers[i]) {
		s.incorporate(value, b.bound, Subtype, origin, b.origin)
	}
	//
	s.solving = nil
}

// choose a value for parameter i from its proper bounds.  This is the highest
// priority equality bound, otherwise the least upper bound of all lower bounds,
// otherwise the greatest lower bound of all upper bounds.
func (s *System) choose(i int) (types.Type, Origin) {
	var (
		equals = s.properBounds(s.equals[i])
		lowers = s.properBounds(s.lowers[i])
		uppers = s.properBounds(s.uppers[i])
	)
	//
	switch {
	case len(equals) > 0:
		return s.commit(equals[0].bound, uppers), equals[0].origin
	case len(lowers) > 0:
		ts := make([]types.Type, len(lowers))
		//
		for j, b := range lowers {
			ts[j] = b.bound
		}
		//
		return s.commit(s.lattice.LeastUpperBound(ts...), uppers), lowers[0].origin
	case len(uppers) > 0:
		return s.meet(uppers)
	default:
		return nil, Origin{}
	}
}

// commit a literal value to the candidate best matching the upper bounds.
func (s *System) commit(value types.Type, uppers []bound) types.Type {
	lit, ok := value.(*types.Literal)
	//
	if !ok {
		return value
	}
	//
	var expected types.Type
	//
	if len(uppers) > 0 {
		ts := make([]types.Type, len(uppers))
		//
		for j, b := range uppers {
			ts[j] = b.bound
		}
		//
		expected, _ = s.lattice.GreatestLowerBound(ts...)
	}
	//
	return s.lattice.Commit(lit, expected)
}

// meet computes the greatest lower bound of a set of upper bounds.  If two of
// them are unrelated, then the highest priority bound which is a subtype of
// all others is used.  Failing that, the first is used (and the conflict is
// reported when it is checked against the rest).
func (s *System) meet(uppers []bound) (types.Type, Origin) {
	ts := make([]types.Type, len(uppers))
	//
	for j, b := range uppers {
		ts[j] = b.bound
	}
	//
	if glb, ok := s.lattice.GreatestLowerBound(ts...); ok {
		return glb, uppers[0].origin
	}
	//
	for _, b := range uppers {
		if s.belowAll(b.bound, ts) {
			return b.bound, b.origin
		}
	}
	//
	return uppers[0].bound, uppers[0].origin
}

func (s *System) belowAll(t types.Type, ts []types.Type) bool {
	for _, u := range ts {
		if !s.lattice.IsSubtype(t, u) {
			return false
		}
	}
	//
	return true
}

// properBounds returns those bounds which mention no unfixed parameter, with
// the current substitution applied, and sorted canonically.
func (s *System) properBounds(bounds []bound) []bound {
	var proper []bound
	//
	for _, b := range bounds {
		if t := s.subst.Apply(b.bound); !s.mentionsUnfixed(t) {
			proper = append(proper, bound{t, b.origin})
		}
	}
	//
	return sortBounds(proper)
}

// sortBounds orders bounds by priority, then by their textual form.  This
// makes solutions independent of the order in which constraints were added.
func sortBounds(bounds []bound) []bound {
	sorted := slices.Clone(bounds)
	//
	slices.SortStableFunc(sorted, func(l, r bound) int {
		if l.origin.Priority != r.origin.Priority {
			return int(l.origin.Priority) - int(r.origin.Priority)
		}
		//
		return strings.Compare(l.bound.String(), r.bound.String())
	})
	//
	return sorted
}

func (s *System) isProper(t types.Type) bool {
	return !s.mentionsUnfixed(s.subst.Apply(t))
}

func (s *System) mentionsUnfixed(t types.Type) bool {
	return types.Mentions(t, func(p *types.TypeParameter) bool {
		i, ok := s.index[p]
		return ok && !s.fixed[i]
	})
}

// variable returns the index of the unfixed parameter referred to by a given
// type, or false if it does not refer directly to one.
func (s *System) variable(t types.Type) (int, bool) {
	if p, ok := t.(*types.Parameter); ok {
		if i, ok := s.index[p.Param()]; ok && !s.fixed[i] {
			return i, true
		}
	}
	//
	return 0, false
}

// ============================================================================
// Incorporation
// ============================================================================

// incorporate a relation between two types, either by recording bounds on the
// parameters involved or by checking it directly when no unfixed parameters
// remain.  Structured types are decomposed component-wise.
func (s *System) incorporate(lower, upper types.Type, relation Relation, lo, uo Origin) {
	if s.failure != nil {
		return
	}
	//
	lower, upper = s.subst.Apply(lower), s.subst.Apply(upper)
	//
	if relation == Equal {
		s.equate(lower, upper, lo, uo)
		return
	}
	//
	li, lvar := s.variable(lower)
	ui, uvar := s.variable(upper)
	//
	if !lvar && !uvar && (types.IsSpecial(lower) || types.IsSpecial(upper)) {
		return
	} else if lvar || uvar {
		if uvar {
			// L <: T? holds exactly when L! <: T
			s.lowers[ui] = append(s.lowers[ui], bound{s.stripFor(lower, upper), lo})
		}
		//
		if lvar {
			if lower.Nullable() && !types.IsSpecial(upper) && !types.MayBeNull(upper) {
				s.contradiction(lower, upper, lo, uo)
				return
			}
			//
			s.uppers[li] = append(s.uppers[li], bound{upper, uo})
		}
		//
		return
	} else if !s.mentionsUnfixed(lower) && !s.mentionsUnfixed(upper) {
		if !s.lattice.IsSubtype(lower, upper) {
			s.contradiction(lower, upper, lo, uo)
		}
		//
		return
	} else if lower.Nullable() && !types.MayBeNull(upper) {
		s.contradiction(lower, upper, lo, uo)
		return
	}
	//
	s.decompose(types.MakeNonNull(lower), types.MakeNonNull(upper), lo, uo)
}

// stripFor removes nullability from a lower bound of a nullable parameter
// reference, since the reference itself admits null.
func (s *System) stripFor(lower types.Type, upper types.Type) types.Type {
	if upper.Nullable() {
		return types.MakeNonNull(lower)
	}
	//
	return lower
}

// equate two types, at least one of which mentions an unfixed parameter.
func (s *System) equate(a, b types.Type, ao, bo Origin) {
	if i, ok := s.variable(a); ok {
		s.equals[i] = append(s.equals[i], s.equalBound(a, b, bo))
		//
		if j, ok := s.variable(b); ok {
			s.equals[j] = append(s.equals[j], s.equalBound(b, a, ao))
		}
		//
		return
	} else if j, ok := s.variable(b); ok {
		s.equals[j] = append(s.equals[j], s.equalBound(b, a, ao))
		return
	} else if !s.mentionsUnfixed(a) && !s.mentionsUnfixed(b) {
		if !s.lattice.IsSubtype(a, b) {
			s.contradiction(a, b, ao, bo)
		} else if !s.lattice.IsSubtype(b, a) {
			s.contradiction(b, a, bo, ao)
		}
		//
		return
	}
	//
	s.incorporate(a, b, Subtype, ao, bo)
	s.incorporate(b, a, Subtype, bo, ao)
}

// equalBound constructs the bound arising from T = t, or from T? = t.  The
// latter admits only nullable types, and binds T to the non-null variant.
func (s *System) equalBound(v types.Type, t types.Type, origin Origin) bound {
	if v.Nullable() {
		if !t.Nullable() {
			s.contradiction(v, t, origin, origin)
		}
		//
		return bound{types.MakeNonNull(t), origin}
	}
	//
	return bound{t, origin}
}

// decompose a relation between two non-null types structurally.
func (s *System) decompose(lower, upper types.Type, lo, uo Origin) {
	u := s.lattice.Universe()
	//
	if u.IsNothing(lower) || u.IsAny(upper) {
		return
	}
	//
	switch ut := upper.(type) {
	case *types.Nominal:
		s.decomposeNominal(lower, ut, lo, uo)
	case *types.Function:
		lt, ok := lower.(*types.Function)
		//
		if !ok || lt.Arity() != ut.Arity() || (lt.Receiver() == nil) != (ut.Receiver() == nil) {
			s.contradiction(lower, upper, lo, uo)
			return
		}
		//
		if ut.Receiver() != nil {
			s.incorporate(ut.Receiver(), lt.Receiver(), Subtype, uo, lo)
		}
		//
		for k, p := range ut.Params() {
			s.incorporate(p, lt.Params()[k], Subtype, uo, lo)
		}
		//
		s.incorporate(lt.Return(), ut.Return(), Subtype, lo, uo)
	default:
		s.contradiction(lower, upper, lo, uo)
	}
}

func (s *System) decomposeNominal(lower types.Type, upper *types.Nominal, lo, uo Origin) {
	var view *types.Nominal
	//
	switch lt := lower.(type) {
	case *types.Nominal:
		view, _, _ = lt.View(upper.Class())
	case *types.Literal:
		for _, c := range lt.Candidates() {
			if v, _, ok := c.View(upper.Class()); ok {
				view = v
				break
			}
		}
	case *types.Parameter:
		// A rigid parameter relates through its first bound
		if bounds, err := lt.Param().EffectiveBounds(); err == nil && len(bounds) > 0 {
			s.incorporate(bounds[0], upper, Subtype, lo, uo)
			return
		}
	}
	//
	if view == nil {
		s.contradiction(lower, upper, lo, uo)
		return
	}
	//
	for k, param := range upper.Class().Params() {
		var (
			x = view.Args()[k]
			y = upper.Args()[k]
		)
		//
		switch {
		case y == types.Star:
			continue
		case x == types.Star:
			s.contradiction(lower, upper, lo, uo)
			return
		}
		//
		switch param.Variance() {
		case types.Covariant:
			s.incorporate(x, y, Subtype, lo, uo)
		case types.Contravariant:
			s.incorporate(y, x, Subtype, uo, lo)
		default:
			s.incorporate(x, y, Equal, lo, uo)
		}
	}
}

func (s *System) contradiction(lower, upper types.Type, lo, uo Origin) {
	if s.failure == nil {
		s.failure = &Contradiction{s.solving, lower, upper, lo, uo}
	}
}
