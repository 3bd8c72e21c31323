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
	"fmt"
	"strings"
	"unicode"

	"github.com/consensys/go-infer/pkg/ast"
	"github.com/consensys/go-infer/pkg/types"
	"github.com/consensys/go-infer/pkg/util/source"
	"github.com/consensys/go-infer/pkg/util/source/sexp"
)

// ============================================================================
// Types
// ============================================================================

// Parse a type, such as "Int", "String?", "(List Int)", "(? (List Int))",
// "(fn (Int) Bool)" or "(fn String (Int) Unit)".
func (p *loader) parseType(t sexp.SExp) (types.Type, *source.SyntaxError) {
	if s := t.AsSymbol(); s != nil {
		return p.parseNamedType(s)
	} else if l := t.AsList(); l != nil && l.Len() > 0 && l.Get(0).AsSymbol() != nil {
		switch l.Head() {
		case "?":
			if l.Len() != 2 {
				return nil, p.error(t, "invalid nullable type")
			}
			//
			inner, err := p.parseType(l.Get(1))
			//
			if err != nil {
				return nil, err
			}
			//
			return types.MakeNullable(inner), nil
		case "fn":
			return p.parseFunctionType(l)
		default:
			return p.parseInstance(l)
		}
	}
	//
	return nil, p.error(t, "invalid type")
}

// Parse a type argument, which may additionally be a star projection.
func (p *loader) parseTypeArg(t sexp.SExp) (types.Type, *source.SyntaxError) {
	if s := t.AsSymbol(); s != nil && s.Value == "*" {
		return types.Star, nil
	}
	//
	return p.parseType(t)
}

func (p *loader) parseNamedType(s *sexp.Symbol) (types.Type, *source.SyntaxError) {
	var (
		name     = strings.TrimSuffix(s.Value, "?")
		nullable = name != s.Value
		datatype types.Type
	)
	//
	switch {
	case s.IsString() || name == "":
		return nil, p.error(s, "invalid type")
	case name == "*":
		return nil, p.error(s, "star projection only permitted as a type argument")
	case name == "dynamic":
		datatype = types.Dynamic
	case p.lookupParam(name) != nil:
		datatype = types.NewParameter(p.lookupParam(name))
	default:
		class, ok := p.classes[name]
		//
		if !ok {
			return nil, p.error(s, "unknown type")
		} else if len(class.Params()) != 0 {
			return nil, p.error(s, fmt.Sprintf("%s expects %d type argument(s)", name, len(class.Params())))
		}
		//
		datatype = class.Instantiate()
	}
	//
	if nullable {
		return types.MakeNullable(datatype), nil
	}
	//
	return datatype, nil
}

// Parse a generic class instance, such as "(Map String Int)".
func (p *loader) parseInstance(l *sexp.List) (types.Type, *source.SyntaxError) {
	name := l.Get(0).AsSymbol()
	class, ok := p.classes[name.Value]
	//
	if !ok {
		return nil, p.error(name, "unknown type")
	} else if len(class.Params()) != l.Len()-1 {
		return nil, p.error(name, fmt.Sprintf("%s expects %d type argument(s)", name.Value, len(class.Params())))
	}
	//
	args := make([]types.Type, l.Len()-1)
	//
	for i, e := range l.Elements[1:] {
		arg, err := p.parseTypeArg(e)
		//
		if err != nil {
			return nil, err
		}
		//
		args[i] = arg
	}
	//
	return class.Instantiate(args...), nil
}

func (p *loader) parseFunctionType(l *sexp.List) (types.Type, *source.SyntaxError) {
	var (
		receiver types.Type
		elements = l.Elements[1:]
		err      *source.SyntaxError
	)
	//
	if len(elements) == 3 {
		if receiver, err = p.parseType(elements[0]); err != nil {
			return nil, err
		}
		//
		elements = elements[1:]
	}
	//
	if len(elements) != 2 || elements[0].AsList() == nil {
		return nil, p.error(l, "invalid function type")
	}
	//
	params := make([]types.Type, elements[0].AsList().Len())
	//
	for i, e := range elements[0].AsList().Elements {
		if params[i], err = p.parseType(e); err != nil {
			return nil, err
		}
	}
	//
	ret, err := p.parseType(elements[1])
	//
	if err != nil {
		return nil, err
	} else if receiver != nil {
		return types.NewReceiverFunction(receiver, params, ret), nil
	}
	//
	return types.NewFunction(params, ret), nil
}

// Parse explicit type arguments, given as an array such as "[Int String]".
func (p *loader) parseTypeArgs(a *sexp.Array) ([]types.Type, *source.SyntaxError) {
	args := make([]types.Type, a.Len())
	//
	for i, e := range a.Elements {
		arg, err := p.parseType(e)
		//
		if err != nil {
			return nil, err
		}
		//
		args[i] = arg
	}
	//
	return args, nil
}

// ============================================================================
// Expressions
// ============================================================================

func (p *loader) expr(t sexp.SExp) (ast.Expr, *source.SyntaxError) {
	if s := t.AsSymbol(); s != nil {
		return p.atom(s)
	} else if l := t.AsList(); l != nil && l.Len() > 0 && l.Get(0).AsSymbol() != nil {
		switch l.Head() {
		case ".":
			return p.memberCall(l)
		case "lambda":
			return p.lambda(l)
		case "let":
			return p.let(l)
		default:
			return p.call(nil, l.Get(0).AsSymbol(), l.Elements[1:], l)
		}
	}
	//
	return nil, p.error(t, "invalid expression")
}

func (p *loader) atom(s *sexp.Symbol) (ast.Expr, *source.SyntaxError) {
	var span = p.span(s)
	//
	switch {
	case s.IsString():
		return ast.NewStringLiteral(s.Value[1:len(s.Value)-1], span), nil
	case s.Value == "true" || s.Value == "false":
		return ast.NewBoolLiteral(s.Value == "true", span), nil
	case s.Value == "null":
		return ast.NewNullLiteral(span), nil
	case s.Value == "this":
		return ast.NewThis(span), nil
	case isNumeric(s.Value) && isDecimal(s.Value):
		if p.universe.DecimalLiteral(s.Value) == nil {
			return nil, p.error(s, "malformed literal")
		}
		//
		return ast.NewDecimalLiteral(s.Value, span), nil
	case isNumeric(s.Value):
		if p.universe.IntegerLiteral(s.Value) == nil {
			return nil, p.error(s, "malformed literal")
		}
		//
		return ast.NewIntLiteral(s.Value, span), nil
	default:
		return ast.NewName(s.Value, span), nil
	}
}

func isNumeric(text string) bool {
	text = strings.TrimPrefix(text, "-")
	//
	return len(text) > 0 && unicode.IsDigit(rune(text[0]))
}

func isDecimal(text string) bool {
	return strings.ContainsAny(text, ".eEfF")
}

// Parse "(. receiver name [types] args...)".
func (p *loader) memberCall(l *sexp.List) (ast.Expr, *source.SyntaxError) {
	if l.Len() < 3 || l.Get(2).AsSymbol() == nil || l.Get(2).AsSymbol().IsString() {
		return nil, p.error(l, "invalid member call")
	}
	//
	receiver, err := p.expr(l.Get(1))
	//
	if err != nil {
		return nil, err
	}
	//
	return p.call(receiver, l.Get(2).AsSymbol(), l.Elements[3:], l)
}

// Parse the name, explicit type arguments and arguments of a call.
func (p *loader) call(receiver ast.Expr, name *sexp.Symbol, rest []sexp.SExp, l *sexp.List) (ast.Expr,
	*source.SyntaxError) {
	var (
		typeArgs []types.Type
		args     []ast.Expr
		err      *source.SyntaxError
	)
	//
	if name.IsString() {
		return nil, p.error(name, "invalid call")
	} else if len(rest) > 0 && rest[0].AsArray() != nil {
		if typeArgs, err = p.parseTypeArgs(rest[0].AsArray()); err != nil {
			return nil, err
		}
		//
		rest = rest[1:]
	}
	//
	for _, e := range rest {
		arg, err := p.expr(e)
		//
		if err != nil {
			return nil, err
		}
		//
		args = append(args, arg)
	}
	//
	return ast.NewCall(receiver, name.Value, p.span(name), typeArgs, args, p.span(l)), nil
}

// Parse "(lambda (x (y T)) body)".
func (p *loader) lambda(l *sexp.List) (ast.Expr, *source.SyntaxError) {
	if l.Len() != 3 || l.Get(1).AsList() == nil {
		return nil, p.error(l, "invalid lambda")
	}
	//
	var params []ast.LambdaParam
	//
	for _, e := range l.Get(1).AsList().Elements {
		var param ast.LambdaParam
		//
		if s := e.AsSymbol(); s != nil && !s.IsString() {
			param = ast.LambdaParam{Name: s.Value, Span: p.span(s)}
		} else if pl := e.AsList(); pl != nil && pl.Len() == 2 && pl.Get(0).AsSymbol() != nil {
			ptype, err := p.parseType(pl.Get(1))
			//
			if err != nil {
				return nil, err
			}
			//
			param = ast.LambdaParam{Name: pl.Head(), Type: ptype, Span: p.span(pl.Get(0))}
		} else {
			return nil, p.error(e, "invalid lambda parameter")
		}
		//
		params = append(params, param)
	}
	//
	body, err := p.expr(l.Get(2))
	//
	if err != nil {
		return nil, err
	}
	//
	return ast.NewLambda(params, body, p.span(l)), nil
}

// Parse "(let ((x e) ...) body)".
func (p *loader) let(l *sexp.List) (ast.Expr, *source.SyntaxError) {
	if l.Len() != 3 || l.Get(1).AsList() == nil {
		return nil, p.error(l, "invalid let")
	}
	//
	var bindings []ast.Binding
	//
	for _, e := range l.Get(1).AsList().Elements {
		bl := e.AsList()
		//
		if bl == nil || bl.Len() != 2 || bl.Get(0).AsSymbol() == nil || bl.Get(0).AsSymbol().IsString() {
			return nil, p.error(e, "invalid binding")
		}
		//
		value, err := p.expr(bl.Get(1))
		//
		if err != nil {
			return nil, err
		}
		//
		bindings = append(bindings, ast.Binding{Name: bl.Head(), Value: value, Span: p.span(bl.Get(0))})
	}
	//
	body, err := p.expr(l.Get(2))
	//
	if err != nil {
		return nil, err
	}
	//
	return ast.NewLet(bindings, body, p.span(l)), nil
}
