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

import (
	"fmt"
	"os"
	"strings"

	"github.com/bazelbuild/headergen/ast"
)

// File parses the source file at path into a CompilationUnit.
func File(path string) (*ast.CompilationUnit, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("parse: reading %s: %w", path, err)
	}
	return Source(path, string(src))
}

// Source parses src (named path for diagnostics) into a CompilationUnit.
func Source(path, src string) (*ast.CompilationUnit, error) {
	p := &parser{lex: newLexer(path, src), path: path}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p.parseCompilationUnit()
}

type parser struct {
	lex  *lexer
	path string
	tok  token
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) errf(format string, args ...interface{}) error {
	return fmt.Errorf("%s:%d:%d: %s", p.path, p.tok.pos.Line, p.tok.pos.Column, fmt.Sprintf(format, args...))
}

func (p *parser) isPunct(s string) bool { return p.tok.kind == tokPunct && p.tok.text == s }
func (p *parser) isIdent(s string) bool { return p.tok.kind == tokIdent && p.tok.text == s }

func (p *parser) expectPunct(s string) error {
	if !p.isPunct(s) {
		return p.errf("expected %q, found %q", s, p.tok.text)
	}
	return p.advance()
}

func (p *parser) expectIdent() (string, error) {
	if p.tok.kind != tokIdent {
		return "", p.errf("expected identifier, found %q", p.tok.text)
	}
	name := p.tok.text
	return name, p.advance()
}

// mark/reset support backtracking for the few constructs ambiguous under
// one-token lookahead (a parenthesized cast vs. a parenthesized expression).
type mark struct {
	lex lexer
	tok token
}

func (p *parser) mark() mark { return mark{lex: *p.lex, tok: p.tok} }
func (p *parser) reset(m mark) {
	*p.lex = m.lex
	p.tok = m.tok
}

var modifierKeywords = map[string]ast.AccessFlags{
	"public":       ast.AccPublic,
	"private":      ast.AccPrivate,
	"protected":    ast.AccProtected,
	"static":       ast.AccStatic,
	"final":        ast.AccFinal,
	"abstract":     ast.AccAbstract,
	"synchronized": ast.AccSynchronized,
	"native":       ast.AccNative,
	"transient":    ast.AccTransient,
	"volatile":     ast.AccVolatile,
	"strictfp":     ast.AccStrict,
	"default":      0, // interface default method; not an access flag bit.
	"sealed":       0,
}

func (p *parser) parseCompilationUnit() (*ast.CompilationUnit, error) {
	cu := &ast.CompilationUnit{Path: p.path}

	// Leading annotations on the package declaration are skipped; they don't
	// affect header binding.
	for p.isPunct("@") {
		if _, err := p.parseAnnotation(); err != nil {
			return nil, err
		}
	}
	if p.isIdent("package") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		name, err := p.parseQualifiedName()
		if err != nil {
			return nil, err
		}
		cu.Package = name
		if err := p.expectPunct(";"); err != nil {
			return nil, err
		}
	}

	for p.isIdent("import") {
		imp, err := p.parseImport()
		if err != nil {
			return nil, err
		}
		cu.Imports = append(cu.Imports, imp)
	}

	for !p.atEOF() {
		if p.isPunct(";") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		decl, err := p.parseTypeDecl()
		if err != nil {
			return nil, err
		}
		cu.Decls = append(cu.Decls, decl)
	}
	return cu, nil
}

func (p *parser) atEOF() bool { return p.tok.kind == tokEOF }

func (p *parser) parseImport() (ast.Import, error) {
	pos := p.tok.pos
	if err := p.advance(); err != nil { // 'import'
		return ast.Import{}, err
	}
	static := false
	if p.isIdent("static") {
		static = true
		if err := p.advance(); err != nil {
			return ast.Import{}, err
		}
	}
	name, err := p.parseQualifiedName()
	if err != nil {
		return ast.Import{}, err
	}
	onDemand := false
	if p.isPunct(".") {
		if err := p.advance(); err != nil {
			return ast.Import{}, err
		}
		if err := p.expectPunct("*"); err != nil {
			return ast.Import{}, err
		}
		onDemand = true
	}
	if err := p.expectPunct(";"); err != nil {
		return ast.Import{}, err
	}
	return ast.Import{Name: name, OnDemand: onDemand, Static: static, Pos: pos}, nil
}

func (p *parser) parseQualifiedName() (string, error) {
	first, err := p.expectIdent()
	if err != nil {
		return "", err
	}
	parts := []string{first}
	for p.isPunct(".") {
		// Don't consume a trailing ".*" belonging to an on-demand import.
		m := p.mark()
		if err := p.advance(); err != nil {
			return "", err
		}
		if p.isPunct("*") {
			p.reset(m)
			break
		}
		ident, err := p.expectIdent()
		if err != nil {
			return "", err
		}
		parts = append(parts, ident)
	}
	return strings.Join(parts, "."), nil
}

// parseModifiersAndAnnotations consumes modifier keywords and annotations in
// any order, the form Java declarations allow.
func (p *parser) parseModifiersAndAnnotations() (ast.AccessFlags, []*ast.AnnoExpr, error) {
	var access ast.AccessFlags
	var annos []*ast.AnnoExpr
	for {
		if p.isPunct("@") {
			// "@interface" starts an annotation-type declaration, not a use.
			m := p.mark()
			if err := p.advance(); err != nil {
				return 0, nil, err
			}
			if p.isIdent("interface") {
				p.reset(m)
				return access, annos, nil
			}
			p.reset(m)
			a, err := p.parseAnnotation()
			if err != nil {
				return 0, nil, err
			}
			annos = append(annos, a)
			continue
		}
		if flag, ok := modifierKeywords[p.tok.text]; ok && p.tok.kind == tokIdent {
			access |= flag
			if err := p.advance(); err != nil {
				return 0, nil, err
			}
			continue
		}
		return access, annos, nil
	}
}

func (p *parser) parseAnnotation() (*ast.AnnoExpr, error) {
	pos := p.tok.pos
	if err := p.expectPunct("@"); err != nil {
		return nil, err
	}
	name, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	a := &ast.AnnoExpr{Name: name, Pos: pos}
	if p.isPunct("(") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		args, err := p.parseAnnotationArgs()
		if err != nil {
			return nil, err
		}
		a.Args = args
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (p *parser) parseAnnotationArgs() (map[string]ast.Expr, error) {
	args := make(map[string]ast.Expr)
	if p.isPunct(")") {
		return args, nil
	}
	// Disambiguate "name = value, ..." from a single bare value.
	m := p.mark()
	if p.tok.kind == tokIdent {
		name := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.isPunct("=") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			v, err := p.parseElementValue()
			if err != nil {
				return nil, err
			}
			args[name] = v
			for p.isPunct(",") {
				if err := p.advance(); err != nil {
					return nil, err
				}
				n2, err := p.expectIdent()
				if err != nil {
					return nil, err
				}
				if err := p.expectPunct("="); err != nil {
					return nil, err
				}
				v2, err := p.parseElementValue()
				if err != nil {
					return nil, err
				}
				args[n2] = v2
			}
			return args, nil
		}
	}
	p.reset(m)
	v, err := p.parseElementValue()
	if err != nil {
		return nil, err
	}
	args["value"] = v
	return args, nil
}

func (p *parser) parseElementValue() (ast.Expr, error) {
	if p.isPunct("{") {
		pos := p.tok.pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		var elems []ast.Expr
		for !p.isPunct("}") {
			e, err := p.parseElementValue()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			if p.isPunct(",") {
				if err := p.advance(); err != nil {
					return nil, err
				}
			}
		}
		if err := p.advance(); err != nil { // '}'
			return nil, err
		}
		return &ast.ArrayInitExpr{Elems: elems, Pos: pos}, nil
	}
	if p.isPunct("@") {
		pos := p.tok.pos
		a, err := p.parseAnnotation()
		if err != nil {
			return nil, err
		}
		return &ast.AnnoValueExpr{Anno: a, Pos: pos}, nil
	}
	return p.parseExpr()
}

func (p *parser) parseTypeDecl() (*ast.TypeDecl, error) {
	pos := p.tok.pos
	access, annos, err := p.parseModifiersAndAnnotations()
	if err != nil {
		return nil, err
	}

	var kind ast.TypeKind
	switch {
	case p.isIdent("class"):
		kind = ast.KindClass
		if err := p.advance(); err != nil {
			return nil, err
		}
	case p.isIdent("interface"):
		kind = ast.KindInterface
		access |= ast.AccInterface
		if err := p.advance(); err != nil {
			return nil, err
		}
	case p.isIdent("enum"):
		kind = ast.KindEnum
		access |= ast.AccEnum
		if err := p.advance(); err != nil {
			return nil, err
		}
	case p.isIdent("record"):
		kind = ast.KindRecord
		if err := p.advance(); err != nil {
			return nil, err
		}
	case p.isPunct("@"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := expectIdentText(p, "interface"); err != nil {
			return nil, err
		}
		kind = ast.KindAnnotation
		access |= ast.AccAnnotation | ast.AccInterface | ast.AccAbstract
	default:
		return nil, p.errf("expected a type declaration, found %q", p.tok.text)
	}

	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	decl := &ast.TypeDecl{Name: name, Kind: kind, Access: access, Annos: annos, Pos: pos}

	if p.isPunct("<") {
		tps, err := p.parseTypeParams()
		if err != nil {
			return nil, err
		}
		decl.TyParams = tps
	}

	if kind == ast.KindRecord && p.isPunct("(") {
		comps, err := p.parseRecordComponents()
		if err != nil {
			return nil, err
		}
		decl.RecordComponents = comps
	}

	if p.isIdent("extends") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		first, err := p.parseClassType()
		if err != nil {
			return nil, err
		}
		if kind == ast.KindInterface {
			decl.Interfaces = append(decl.Interfaces, first)
			for p.isPunct(",") {
				if err := p.advance(); err != nil {
					return nil, err
				}
				iface, err := p.parseClassType()
				if err != nil {
					return nil, err
				}
				decl.Interfaces = append(decl.Interfaces, iface)
			}
		} else {
			decl.Superclass = first
		}
	}
	if p.isIdent("implements") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		for {
			iface, err := p.parseClassType()
			if err != nil {
				return nil, err
			}
			decl.Interfaces = append(decl.Interfaces, iface)
			if !p.isPunct(",") {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if p.isIdent("permits") { // sealed-class clause, irrelevant to binding.
		if err := p.advance(); err != nil {
			return nil, err
		}
		for {
			if _, err := p.parseClassType(); err != nil {
				return nil, err
			}
			if !p.isPunct(",") {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}

	if err := p.parseClassBody(decl); err != nil {
		return nil, err
	}
	return decl, nil
}

func expectIdentText(p *parser, s string) error {
	if !p.isIdent(s) {
		return p.errf("expected %q, found %q", s, p.tok.text)
	}
	return p.advance()
}

func (p *parser) parseRecordComponents() ([]*ast.FieldDecl, error) {
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var comps []*ast.FieldDecl
	for !p.isPunct(")") {
		if p.isPunct("@") {
			if _, err := p.parseAnnotation(); err != nil {
				return nil, err
			}
		}
		ty, err := p.parseType()
		if err != nil {
			return nil, err
		}
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		comps = append(comps, &ast.FieldDecl{Name: name, Type: ty, Access: ast.AccPrivate | ast.AccFinal, Pos: p.tok.pos})
		if p.isPunct(",") {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	return comps, p.advance()
}

func (p *parser) parseTypeParams() ([]ast.TyParamDecl, error) {
	if err := p.expectPunct("<"); err != nil {
		return nil, err
	}
	var params []ast.TyParamDecl
	for {
		pos := p.tok.pos
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		tp := ast.TyParamDecl{Name: name, Pos: pos}
		if p.isIdent("extends") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			first, err := p.parseClassType()
			if err != nil {
				return nil, err
			}
			tp.Bounds = append(tp.Bounds, first)
			for p.isPunct("&") {
				if err := p.advance(); err != nil {
					return nil, err
				}
				b, err := p.parseClassType()
				if err != nil {
					return nil, err
				}
				tp.Bounds = append(tp.Bounds, b)
			}
		}
		params = append(params, tp)
		if p.isPunct(",") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	return params, p.closeAngle()
}

// closeAngle consumes the '>' closing a type-parameter or type-argument
// list, splitting a ">>" or ">>>" token the lexer produced as one punct.
func (p *parser) closeAngle() error {
	switch p.tok.text {
	case ">":
		return p.advance()
	case ">>":
		p.tok.text = ">"
		return nil
	case ">>>":
		p.tok.text = ">>"
		return nil
	}
	return p.errf("expected '>', found %q", p.tok.text)
}

func (p *parser) parseClassType() (*ast.ClassTypeExpr, error) {
	pos := p.tok.pos
	var segs []ast.ClassTypeSegment
	for {
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		seg := ast.ClassTypeSegment{Name: name}
		if p.isPunct("<") {
			args, err := p.parseTypeArgs()
			if err != nil {
				return nil, err
			}
			seg.TyArgs = args
		}
		segs = append(segs, seg)
		if p.isPunct(".") {
			// A '.' always continues the type name, so the next token must be
			// an identifier (a method reference or field access context
			// doesn't occur here).
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	return &ast.ClassTypeExpr{Segments: segs, Pos: pos}, nil
}

func (p *parser) parseTypeArgs() ([]ast.TypeArgExpr, error) {
	if err := p.expectPunct("<"); err != nil {
		return nil, err
	}
	var args []ast.TypeArgExpr
	if p.isPunct(">") || p.isPunct(">>") || p.isPunct(">>>") {
		return args, p.closeAngle()
	}
	for {
		arg, err := p.parseTypeArg()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.isPunct(",") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	return args, p.closeAngle()
}

func (p *parser) parseTypeArg() (ast.TypeArgExpr, error) {
	if p.isPunct("?") {
		if err := p.advance(); err != nil {
			return ast.TypeArgExpr{}, err
		}
		if p.isIdent("extends") {
			if err := p.advance(); err != nil {
				return ast.TypeArgExpr{}, err
			}
			t, err := p.parseType()
			if err != nil {
				return ast.TypeArgExpr{}, err
			}
			return ast.TypeArgExpr{Wildcard: true, WildcardUpper: true, Bound: t}, nil
		}
		if p.isIdent("super") {
			if err := p.advance(); err != nil {
				return ast.TypeArgExpr{}, err
			}
			t, err := p.parseType()
			if err != nil {
				return ast.TypeArgExpr{}, err
			}
			return ast.TypeArgExpr{Wildcard: true, Bound: t}, nil
		}
		return ast.TypeArgExpr{Wildcard: true}, nil
	}
	t, err := p.parseType()
	if err != nil {
		return ast.TypeArgExpr{}, err
	}
	return ast.TypeArgExpr{Bound: t}, nil
}

var primitiveNames = map[string]bool{
	"boolean": true, "byte": true, "char": true, "short": true,
	"int": true, "long": true, "float": true, "double": true,
}

func (p *parser) parseType() (ast.TypeExpr, error) {
	pos := p.tok.pos
	var te ast.TypeExpr
	if p.tok.kind == tokIdent && primitiveNames[p.tok.text] {
		te.Primitive = p.tok.text
		te.Pos = pos
		if err := p.advance(); err != nil {
			return te, err
		}
	} else {
		ct, err := p.parseClassType()
		if err != nil {
			return te, err
		}
		te.Class = ct
		te.Pos = pos
	}
	for p.isPunct("[") {
		if err := p.advance(); err != nil {
			return te, err
		}
		if err := p.expectPunct("]"); err != nil {
			return te, err
		}
		te.ArrayDims++
	}
	return te, nil
}

func (p *parser) parseClassBody(decl *ast.TypeDecl) error {
	if err := p.expectPunct("{"); err != nil {
		return err
	}
	if decl.Kind == ast.KindEnum {
		if err := p.parseEnumConstants(decl); err != nil {
			return err
		}
	}
	for !p.isPunct("}") {
		if p.isPunct(";") {
			if err := p.advance(); err != nil {
				return err
			}
			continue
		}
		if err := p.parseMember(decl); err != nil {
			return err
		}
	}
	return p.advance() // '}'
}

// parseEnumConstants consumes the enum-constant list, modeled as static
// final fields of the enum's own type: the header compiler only needs their
// existence, not any constant-folding of enum identity.
func (p *parser) parseEnumConstants(decl *ast.TypeDecl) error {
	for p.tok.kind == tokIdent || p.isPunct("@") {
		for p.isPunct("@") {
			if _, err := p.parseAnnotation(); err != nil {
				return err
			}
		}
		pos := p.tok.pos
		name, err := p.expectIdent()
		if err != nil {
			return err
		}
		if p.isPunct("(") {
			if err := p.skipBalanced("(", ")"); err != nil {
				return err
			}
		}
		if p.isPunct("{") {
			if err := p.skipBalanced("{", "}"); err != nil {
				return err
			}
		}
		decl.Fields = append(decl.Fields, &ast.FieldDecl{
			Name:   name,
			Access: ast.AccPublic | ast.AccStatic | ast.AccFinal | ast.AccEnum,
			Type:   ast.TypeExpr{Class: &ast.ClassTypeExpr{Segments: []ast.ClassTypeSegment{{Name: decl.Name}}, Pos: pos}, Pos: pos},
			Pos:    pos,
		})
		if p.isPunct(",") {
			if err := p.advance(); err != nil {
				return err
			}
			continue
		}
		break
	}
	if p.isPunct(";") {
		return p.advance()
	}
	return nil
}

func (p *parser) parseMember(decl *ast.TypeDecl) error {
	pos := p.tok.pos
	access, annos, err := p.parseModifiersAndAnnotations()
	if err != nil {
		return err
	}

	// Nested type declaration.
	if p.isIdent("class") || p.isIdent("interface") || p.isIdent("enum") || p.isIdent("record") || p.isPunct("@") {
		nested, err := p.parseTypeDeclFrom(pos, access, annos)
		if err != nil {
			return err
		}
		decl.Members = append(decl.Members, nested)
		return nil
	}

	// Static or instance initializer block.
	if p.isPunct("{") {
		return p.skipBalanced("{", "}")
	}

	var tyParams []ast.TyParamDecl
	if p.isPunct("<") {
		tyParams, err = p.parseTypeParams()
		if err != nil {
			return err
		}
	}

	// Constructor: identifier matching the enclosing type's name, then '('.
	if p.tok.kind == tokIdent && p.tok.text == decl.Name {
		m := p.mark()
		name := p.tok.text
		if err := p.advance(); err != nil {
			return err
		}
		if p.isPunct("(") {
			return p.parseMethodTail(decl, pos, access, annos, tyParams, ast.TypeExpr{}, "<init>")
		}
		_ = name
		p.reset(m)
	}

	// Field or method: a return/field type, then a name, then either '(' (method) or not (field).
	ty, err := p.parseType()
	if err != nil {
		return err
	}
	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	if p.isPunct("(") {
		return p.parseMethodTail(decl, pos, access, annos, tyParams, ty, name)
	}
	return p.parseFieldTail(decl, pos, access, annos, ty, name)
}

func (p *parser) parseTypeDeclFrom(pos ast.Pos, access ast.AccessFlags, annos []*ast.AnnoExpr) (*ast.TypeDecl, error) {
	// parseTypeDecl expects to parse modifiers itself; since we already
	// consumed them, splice them in by re-entering at the kind keyword.
	decl, err := p.parseTypeDeclAfterModifiers()
	if err != nil {
		return nil, err
	}
	decl.Pos = pos
	decl.Access |= access
	decl.Annos = append(decl.Annos, annos...)
	return decl, nil
}

// parseTypeDeclAfterModifiers repeats parseTypeDecl's body starting after
// modifiers/annotations, since those were already consumed by the caller to
// decide this was a nested type and not a field or method. Unlike
// parseTypeDecl it does not accept a permits clause, so a nested sealed type
// that declares one fails to parse.
func (p *parser) parseTypeDeclAfterModifiers() (*ast.TypeDecl, error) {
	pos := p.tok.pos
	var kind ast.TypeKind
	var access ast.AccessFlags
	switch {
	case p.isIdent("class"):
		kind = ast.KindClass
		if err := p.advance(); err != nil {
			return nil, err
		}
	case p.isIdent("interface"):
		kind = ast.KindInterface
		access |= ast.AccInterface
		if err := p.advance(); err != nil {
			return nil, err
		}
	case p.isIdent("enum"):
		kind = ast.KindEnum
		access |= ast.AccEnum
		if err := p.advance(); err != nil {
			return nil, err
		}
	case p.isIdent("record"):
		kind = ast.KindRecord
		if err := p.advance(); err != nil {
			return nil, err
		}
	case p.isPunct("@"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := expectIdentText(p, "interface"); err != nil {
			return nil, err
		}
		kind = ast.KindAnnotation
		access |= ast.AccAnnotation | ast.AccInterface | ast.AccAbstract
	default:
		return nil, p.errf("expected a type declaration, found %q", p.tok.text)
	}

	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	decl := &ast.TypeDecl{Name: name, Kind: kind, Access: access, Pos: pos}

	if p.isPunct("<") {
		tps, err := p.parseTypeParams()
		if err != nil {
			return nil, err
		}
		decl.TyParams = tps
	}
	if kind == ast.KindRecord && p.isPunct("(") {
		comps, err := p.parseRecordComponents()
		if err != nil {
			return nil, err
		}
		decl.RecordComponents = comps
	}
	if p.isIdent("extends") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		first, err := p.parseClassType()
		if err != nil {
			return nil, err
		}
		if kind == ast.KindInterface {
			decl.Interfaces = append(decl.Interfaces, first)
			for p.isPunct(",") {
				if err := p.advance(); err != nil {
					return nil, err
				}
				iface, err := p.parseClassType()
				if err != nil {
					return nil, err
				}
				decl.Interfaces = append(decl.Interfaces, iface)
			}
		} else {
			decl.Superclass = first
		}
	}
	if p.isIdent("implements") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		for {
			iface, err := p.parseClassType()
			if err != nil {
				return nil, err
			}
			decl.Interfaces = append(decl.Interfaces, iface)
			if !p.isPunct(",") {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if err := p.parseClassBody(decl); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *parser) parseFieldTail(decl *ast.TypeDecl, pos ast.Pos, access ast.AccessFlags, annos []*ast.AnnoExpr, ty ast.TypeExpr, name string) error {
	for {
		dims := 0
		for p.isPunct("[") {
			if err := p.advance(); err != nil {
				return err
			}
			if err := p.expectPunct("]"); err != nil {
				return err
			}
			dims++
		}
		fieldTy := ty
		fieldTy.ArrayDims += dims

		var init ast.Expr
		if p.isPunct("=") {
			if err := p.advance(); err != nil {
				return err
			}
			e, err := p.parseVariableInitializer()
			if err != nil {
				return err
			}
			init = e
		}
		decl.Fields = append(decl.Fields, &ast.FieldDecl{
			Name: name, Access: access, Type: fieldTy, Init: init, Annos: annos, Pos: pos,
		})

		if p.isPunct(",") {
			if err := p.advance(); err != nil {
				return err
			}
			var err error
			name, err = p.expectIdent()
			if err != nil {
				return err
			}
			continue
		}
		break
	}
	return p.expectPunct(";")
}

func (p *parser) parseVariableInitializer() (ast.Expr, error) {
	if p.isPunct("{") {
		pos := p.tok.pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		var elems []ast.Expr
		for !p.isPunct("}") {
			e, err := p.parseVariableInitializer()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			if p.isPunct(",") {
				if err := p.advance(); err != nil {
					return nil, err
				}
			}
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.ArrayInitExpr{Elems: elems, Pos: pos}, nil
	}
	return p.parseExpr()
}

func (p *parser) parseMethodTail(decl *ast.TypeDecl, pos ast.Pos, access ast.AccessFlags, annos []*ast.AnnoExpr, tyParams []ast.TyParamDecl, ret ast.TypeExpr, name string) error {
	if err := p.expectPunct("("); err != nil {
		return err
	}
	var params []*ast.ParamDecl
	for !p.isPunct(")") {
		pAccess, pAnnos, err := p.parseModifiersAndAnnotations()
		_ = pAccess
		if err != nil {
			return err
		}
		pty, err := p.parseType()
		if err != nil {
			return err
		}
		varargs := false
		if p.isPunct("...") {
			varargs = true
			if err := p.advance(); err != nil {
				return err
			}
		}
		pname, err := p.expectIdent()
		if err != nil {
			return err
		}
		for p.isPunct("[") {
			if err := p.advance(); err != nil {
				return err
			}
			if err := p.expectPunct("]"); err != nil {
				return err
			}
			pty.ArrayDims++
		}
		params = append(params, &ast.ParamDecl{Name: pname, Type: pty, Varargs: varargs, Annos: pAnnos, Pos: p.tok.pos})
		if p.isPunct(",") {
			if err := p.advance(); err != nil {
				return err
			}
			continue
		}
		break
	}
	if err := p.expectPunct(")"); err != nil {
		return err
	}

	for p.isPunct("[") { // legacy "int foo()[]" array-return syntax.
		if err := p.advance(); err != nil {
			return err
		}
		if err := p.expectPunct("]"); err != nil {
			return err
		}
		ret.ArrayDims++
	}

	var throws []*ast.ClassTypeExpr
	if p.isIdent("throws") {
		if err := p.advance(); err != nil {
			return err
		}
		for {
			t, err := p.parseClassType()
			if err != nil {
				return err
			}
			throws = append(throws, t)
			if !p.isPunct(",") {
				break
			}
			if err := p.advance(); err != nil {
				return err
			}
		}
	}

	m := &ast.MethodDecl{Name: name, Access: access, TyParams: tyParams, Return: ret, Params: params, Throws: throws, Annos: annos, Pos: pos}

	if p.isIdent("default") { // annotation element default value.
		if err := p.advance(); err != nil {
			return err
		}
		v, err := p.parseElementValue()
		if err != nil {
			return err
		}
		m.AnnoDefault = v
		if err := p.expectPunct(";"); err != nil {
			return err
		}
	} else if p.isPunct("{") {
		if err := p.skipBalanced("{", "}"); err != nil {
			return err
		}
	} else {
		if err := p.expectPunct(";"); err != nil {
			return err
		}
	}

	decl.Methods = append(decl.Methods, m)
	return nil
}

// skipBalanced consumes tokens from the current open punct through its
// matching close punct, inclusive, tolerating method bodies the header
// compiler has no need to parse.
func (p *parser) skipBalanced(open, close string) error {
	if err := p.expectPunct(open); err != nil {
		return err
	}
	depth := 1
	for depth > 0 {
		if p.atEOF() {
			return p.errf("unexpected end of file inside %q...%q", open, close)
		}
		switch p.tok.text {
		case open:
			depth++
		case close:
			depth--
		}
		if err := p.advance(); err != nil {
			return err
		}
	}
	return nil
}
