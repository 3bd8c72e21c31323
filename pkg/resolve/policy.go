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
	"strings"
)

// TieBreak is a rule for choosing between equally specific candidates.  Each
// rule compares two candidates, preferring one or neither.
type TieBreak uint8

const (
	// MemberOverExtension prefers a member to an extension, when both bind the
	// same receiver.
	MemberOverExtension TieBreak = iota
	// NonGenericOverGeneric prefers a candidate which declares no type
	// parameters.
	NonGenericOverGeneric
	// FewerSupertypeHops prefers a candidate declared closer to the receiver's
	// class in the type hierarchy.
	FewerSupertypeHops
	// FewerDefaults prefers a candidate for which fewer default arguments are
	// used.
	FewerDefaults
)

var tieBreakNames = []string{
	"member-over-extension",
	"non-generic-over-generic",
	"fewer-supertype-hops",
	"fewer-defaults",
}

func (t TieBreak) String() string {
	return tieBreakNames[t]
}

// ParseTieBreak parses the name of a tie-break rule.
func ParseTieBreak(name string) (TieBreak, error) {
	for i, n := range tieBreakNames {
		if n == name {
			return TieBreak(i), nil
		}
	}
	//
	return 0, fmt.Errorf("unknown tie-break \"%s\" (expected one of %s)", name, strings.Join(tieBreakNames, ", "))
}

// Policy configures resolution.
type Policy struct {
	// Maximum nesting of calls and lambdas resolved within one another.
	MaxDepth uint
	// Tie-break rules, applied in order after specificity.
	TieBreaks []TieBreak
}

// DefaultMaxDepth is the default bound on recursive resolution.
const DefaultMaxDepth = 64

// DefaultPolicy returns the default resolution policy.
func DefaultPolicy() Policy {
	return Policy{
		MaxDepth:  DefaultMaxDepth,
		TieBreaks: []TieBreak{MemberOverExtension, NonGenericOverGeneric, FewerSupertypeHops},
	}
}
