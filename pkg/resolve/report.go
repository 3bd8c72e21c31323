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

	"github.com/consensys/go-infer/pkg/ast"
	"github.com/consensys/go-infer/pkg/diag"
	"github.com/consensys/go-infer/pkg/infer"
)

func ambiguous(call *ast.Call, tied []*Candidate) diag.Diagnostic {
	d := diag.Errorf(diag.AmbiguousOverload, call.NameSpan, "ambiguous call to %s", call.Name)
	//
	for _, c := range tied {
		d = d.WithRelated(c.Decl.Span(), "candidate %s", c)
	}
	//
	return d
}

// A lone candidate with a type mismatch is reported at the source blamed for
// the contradiction.  Otherwise, every candidate is listed with the reason for
// its rejection.
func inapplicable(call *ast.Call, candidates []*Candidate) diag.Diagnostic {
	if len(candidates) == 1 && candidates[0].Rejection.Reason == TypeMismatch {
		var (
			c             = candidates[0]
			contradiction = c.Rejection.Contradiction
			d             = diag.Errorf(diag.TypeMismatch, contradiction.Blame().Span, "%s", contradiction.Error())
		)
		//
		if other := contradiction.Other(); other.Priority == infer.DeclaredBound {
			d = d.WithRelated(c.Decl.Span(), "%s", other.Description)
		}
		//
		return d
	}
	//
	sorted := slices.Clone(candidates)
	slices.SortStableFunc(sorted, func(l, r *Candidate) int {
		return l.Decl.Span().Compare(r.Decl.Span())
	})
	//
	d := diag.Errorf(diag.NoApplicableCandidate, call.NameSpan, "no applicable candidate for %s", call.Name)
	//
	for _, c := range sorted {
		d = d.WithRelated(c.Decl.Span(), "%s", describeRejection(c))
	}
	//
	return d
}
