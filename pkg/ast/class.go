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
package ast

import (
	"github.com/consensys/go-infer/pkg/types"
	"github.com/consensys/go-infer/pkg/util/source"
)

// Class associates a nominal class with its member declarations and
// constructors.
type Class struct {
	datatype *types.Class
	// Members in order of declaration
	members []Declaration
	// Constructors in order of declaration
	constructors []*Constructor
	span         source.Span
}

// NewClass constructs a class declaration with no members.
func NewClass(datatype *types.Class, span source.Span) *Class {
	return &Class{datatype, nil, nil, span}
}

// Name returns the name of this class.
func (p *Class) Name() string {
	return p.datatype.Name()
}

// Type returns the underlying nominal class.
func (p *Class) Type() *types.Class {
	return p.datatype
}

// Span returns the span of this class in its source file.
func (p *Class) Span() source.Span {
	return p.span
}

// AddMember adds a function or property as a member of this class.  A
// declaration can be a member of at most one class.
func (p *Class) AddMember(decl Declaration) {
	switch d := decl.(type) {
	case *Function:
		p.checkUnowned(d.owner)
		d.owner = p
	case *Property:
		p.checkUnowned(d.owner)
		d.owner = p
	case *Constructor:
		p.checkUnowned(d.owner)
		d.owner = p
		p.constructors = append(p.constructors, d)
		//
		return
	}
	//
	p.members = append(p.members, decl)
}

// Members returns all members of this class, in order of declaration.
func (p *Class) Members() []Declaration {
	return p.members
}

// Constructors returns the constructors of this class.  A class without
// explicitly declared constructors has a single implicit one with no
// parameters, which is added by the loader.
func (p *Class) Constructors() []*Constructor {
	return p.constructors
}

// MembersNamed returns the members of this class (excluding inherited ones)
// with a given name and kind.
func (p *Class) MembersNamed(name string, kind Kind) []Declaration {
	var decls []Declaration
	//
	for _, m := range p.members {
		if m.Name() == name && m.Kind() == kind {
			decls = append(decls, m)
		}
	}
	//
	return decls
}

func (p *Class) checkUnowned(owner *Class) {
	if owner != nil {
		panic("declaration already has an owner")
	}
}
