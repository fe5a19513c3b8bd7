// Copyright 2018 The Jadep Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package parse

import "github.com/bazelbuild/headergen/ast"

// binPrec holds the binary operators this subset understands, in Java's
// precedence order (lowest first). The conditional operator ?: and
// instanceof don't appear in a constant-variable initializer or annotation
// argument, so neither is modeled.
var binPrec = map[string]int{
	"||": 1,
	"&&": 2,
	"|":  3,
	"^":  4,
	"&":  5,
	"==": 6, "!=": 6,
	"<": 7, "<=": 7, ">": 7, ">=": 7,
	"<<": 8, ">>": 8, ">>>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
}

func (p *parser) parseExpr() (ast.Expr, error) {
	return p.parseBinary(1)
}

func (p *parser) parseBinary(minPrec int) (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokPunct {
		prec, ok := binPrec[p.tok.text]
		if !ok || prec < minPrec {
			break
		}
		op := p.tok.text
		pos := p.tok.pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, Pos: pos}
	}
	return left, nil
}

func (p *parser) parseUnary() (ast.Expr, error) {
	if p.tok.kind == tokPunct {
		switch p.tok.text {
		case "!", "~", "+", "-":
			op := p.tok.text
			pos := p.tok.pos
			if err := p.advance(); err != nil {
				return nil, err
			}
			operand, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			return &ast.UnaryExpr{Op: op, Operand: operand, Pos: pos}, nil
		case "(":
			return p.parseParenOrCast()
		}
	}
	return p.parsePrimary()
}

// parseParenOrCast disambiguates "(Type) unary" from "(expr)" by
// speculatively parsing a type and backtracking if what follows the closing
// paren can't start a unary expression.
func (p *parser) parseParenOrCast() (ast.Expr, error) {
	outer := p.mark()
	pos := p.tok.pos
	if err := p.advance(); err != nil { // '('
		return nil, err
	}
	if p.tok.kind == tokIdent {
		ty, err := p.parseType()
		if err == nil && p.isPunct(")") {
			afterClose := p.mark()
			if err := p.advance(); err == nil && canStartUnary(p.tok) {
				operand, operr := p.parseUnary()
				if operr == nil {
					return &ast.CastExpr{Type: ty, Operand: operand, Pos: pos}, nil
				}
			}
			p.reset(afterClose)
		}
	}
	p.reset(outer)
	if err := p.advance(); err != nil { // '(' again
		return nil, err
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return e, nil
}

func canStartUnary(t token) bool {
	switch t.kind {
	case tokIdent, tokInt, tokLong, tokFloat, tokDouble, tokChar, tokString:
		return true
	}
	if t.kind == tokPunct {
		switch t.text {
		case "(", "!", "~", "+", "-":
			return true
		}
	}
	return false
}

func (p *parser) parsePrimary() (ast.Expr, error) {
	pos := p.tok.pos
	switch p.tok.kind {
	case tokInt:
		text := p.tok.text
		return &ast.Literal{Kind: ast.LitInt, Text: text, Pos: pos}, p.advance()
	case tokLong:
		text := p.tok.text
		return &ast.Literal{Kind: ast.LitLong, Text: text, Pos: pos}, p.advance()
	case tokFloat:
		text := p.tok.text
		return &ast.Literal{Kind: ast.LitFloat, Text: text, Pos: pos}, p.advance()
	case tokDouble:
		text := p.tok.text
		return &ast.Literal{Kind: ast.LitDouble, Text: text, Pos: pos}, p.advance()
	case tokChar:
		text := p.tok.text
		return &ast.Literal{Kind: ast.LitChar, Text: text, Pos: pos}, p.advance()
	case tokString:
		text := p.tok.text
		return &ast.Literal{Kind: ast.LitString, Text: text, Pos: pos}, p.advance()
	}

	if p.tok.kind == tokIdent {
		switch p.tok.text {
		case "true", "false":
			text := p.tok.text
			return &ast.Literal{Kind: ast.LitBoolean, Text: text, Pos: pos}, p.advance()
		case "null":
			if err := p.advance(); err != nil {
				return nil, err
			}
			return &ast.Literal{Kind: ast.LitNull, Text: "null", Pos: pos}, nil
		}
		if primitiveNames[p.tok.text] {
			ty, err := p.parseType()
			if err != nil {
				return nil, err
			}
			if err := p.expectPunct("."); err != nil {
				return nil, err
			}
			if !p.isIdent("class") {
				return nil, p.errf("expected 'class', found %q", p.tok.text)
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
			return &ast.ClassLiteralExpr{Type: ty, Pos: pos}, nil
		}
		return p.parseNameOrClassLiteral(pos)
	}

	return nil, p.errf("expected an expression, found %q", p.tok.text)
}

// parseNameOrClassLiteral parses a dotted identifier chain, producing either
// a (possibly qualified) NameExpr, or a ClassLiteralExpr if the chain is
// followed by an optional array suffix and ".class".
func (p *parser) parseNameOrClassLiteral(pos ast.Pos) (ast.Expr, error) {
	first, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	parts := []string{first}
	for p.isPunct(".") {
		m := p.mark()
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.isIdent("class") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			return &ast.ClassLiteralExpr{Type: ast.TypeExpr{Class: classTypeFromParts(parts, pos), Pos: pos}, Pos: pos}, nil
		}
		if p.tok.kind != tokIdent {
			p.reset(m)
			break
		}
		ident, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		parts = append(parts, ident)
	}

	dims := 0
	for p.isPunct("[") {
		m := p.mark()
		if err := p.advance(); err != nil {
			return nil, err
		}
		if !p.isPunct("]") {
			p.reset(m)
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		dims++
	}
	if dims > 0 {
		if err := p.expectPunct("."); err != nil {
			return nil, err
		}
		if !p.isIdent("class") {
			return nil, p.errf("expected 'class', found %q", p.tok.text)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.ClassLiteralExpr{Type: ast.TypeExpr{Class: classTypeFromParts(parts, pos), ArrayDims: dims, Pos: pos}, Pos: pos}, nil
	}

	return nameExprFromParts(parts, pos), nil
}

func classTypeFromParts(parts []string, pos ast.Pos) *ast.ClassTypeExpr {
	segs := make([]ast.ClassTypeSegment, len(parts))
	for i, s := range parts {
		segs[i] = ast.ClassTypeSegment{Name: s}
	}
	return &ast.ClassTypeExpr{Segments: segs, Pos: pos}
}

func nameExprFromParts(parts []string, pos ast.Pos) ast.Expr {
	var e ast.Expr = &ast.NameExpr{Name: parts[0], Pos: pos}
	for _, part := range parts[1:] {
		e = &ast.NameExpr{Qualifier: e, Name: part, Pos: pos}
	}
	return e
}
