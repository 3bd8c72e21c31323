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
package types

import (
	"slices"
	"strings"
)

// Substitution maps type parameters to types.  Applying a substitution is a
// single pass: the types bound to parameters are not themselves substituted.
// Hence, applying a substitution to a type which mentions none of its
// parameters returns that type unchanged.
type Substitution struct {
	mapping map[*TypeParameter]Type
}

// NewSubstitution constructs an empty substitution.
func NewSubstitution() Substitution {
	return Substitution{make(map[*TypeParameter]Type)}
}

// Bind constructs a substitution binding each parameter to the corresponding
// type.  The two arrays must have matching lengths.
func Bind(params []*TypeParameter, types []Type) Substitution {
	if len(params) != len(types) {
		panic("mismatched substitution")
	}
	//
	subst := NewSubstitution()
	//
	for i, p := range params {
		subst.mapping[p] = types[i]
	}
	//
	return subst
}

// Substitute applies a substitution to a given type.
func Substitute(t Type, subst Substitution) Type {
	return subst.Apply(t)
}

// Len returns the number of parameters bound by this substitution.
func (p Substitution) Len() int {
	return len(p.mapping)
}

// Get returns the type bound to a given parameter, or false if the parameter
// is unbound.
func (p Substitution) Get(param *TypeParameter) (Type, bool) {
	t, ok := p.mapping[param]
	return t, ok
}

// With returns a copy of this substitution extended with one further binding.
// This substitution is left unchanged.
func (p Substitution) With(param *TypeParameter, t Type) Substitution {
	mapping := make(map[*TypeParameter]Type, len(p.mapping)+1)
	//
	for k, v := range p.mapping {
		mapping[k] = v
	}
	//
	mapping[param] = t
	//
	return Substitution{mapping}
}

// Params returns the parameters bound by this substitution, ordered by
// identifier (hence by order of declaration).
func (p Substitution) Params() []*TypeParameter {
	params := make([]*TypeParameter, 0, len(p.mapping))
	//
	for k := range p.mapping {
		params = append(params, k)
	}
	//
	slices.SortFunc(params, func(l, r *TypeParameter) int {
		switch {
		case l.id < r.id:
			return -1
		case l.id > r.id:
			return 1
		default:
			return 0
		}
	})
	//
	return params
}

// Compose returns the substitution which first applies this substitution,
// then the given one.  Bindings of the given substitution for parameters not
// bound here are included as well.
func (p Substitution) Compose(other Substitution) Substitution {
	mapping := make(map[*TypeParameter]Type, len(p.mapping)+len(other.mapping))
	//
	for k, v := range other.mapping {
		mapping[k] = v
	}
	//
	for k, v := range p.mapping {
		mapping[k] = other.Apply(v)
	}
	//
	return Substitution{mapping}
}

// Apply this substitution to a given type.  If the type is unaffected, then
// the original instance is returned.
func (p Substitution) Apply(t Type) Type {
	if len(p.mapping) == 0 {
		return t
	}
	//
	switch t := t.(type) {
	case *Parameter:
		if r, ok := p.mapping[t.param]; ok {
			if t.nullable {
				return MakeNullable(r)
			}
			//
			return r
		}
	case *Nominal:
		if args, changed := p.applyAll(t.args); changed {
			return &Nominal{t.class, args, t.nullable}
		}
	case *Function:
		var (
			receiver        = t.receiver
			params, changed = p.applyAll(t.params)
			ret             = p.Apply(t.ret)
		)
		//
		if receiver != nil {
			receiver = p.Apply(receiver)
			changed = changed || receiver != t.receiver
		}
		//
		if changed || ret != t.ret {
			return &Function{receiver, params, ret, t.nullable}
		}
	}
	//
	return t
}

func (p Substitution) applyAll(types []Type) ([]Type, bool) {
	var nTypes []Type
	//
	for i, t := range types {
		r := p.Apply(t)
		//
		if r != t && nTypes == nil {
			nTypes = slices.Clone(types)
		}
		//
		if nTypes != nil {
			nTypes[i] = r
		}
	}
	//
	if nTypes == nil {
		return types, false
	}
	//
	return nTypes, true
}

func (p Substitution) String() string {
	var builder strings.Builder
	//
	builder.WriteString("{")
	//
	for i, param := range p.Params() {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(param.name)
		builder.WriteString(":=")
		builder.WriteString(p.mapping[param].String())
	}
	//
	builder.WriteString("}")
	//
	return builder.String()
}
