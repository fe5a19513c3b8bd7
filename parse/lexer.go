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

// Package parse is deliberately not a complete Java grammar: it covers the
// declaration-level syntax a header compiler needs (package, imports, type
// declarations, members, generics, annotations, and the constant-expression
// subset the binder's Constant phase evaluates) and nothing inside a method
// body.
package parse

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bazelbuild/headergen/ast"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokLong
	tokFloat
	tokDouble
	tokChar
	tokString
	tokPunct
)

type token struct {
	kind tokenKind
	text string
	pos  ast.Pos
}

type lexer struct {
	path   string
	src    string
	offset int
	line   int
	col    int
}

func newLexer(path, src string) *lexer {
	return &lexer{path: path, src: src, line: 1, col: 1}
}

func (l *lexer) errf(format string, args ...interface{}) error {
	return fmt.Errorf("%s:%d:%d: %s", l.path, l.line, l.col, fmt.Sprintf(format, args...))
}

func (l *lexer) peekByte() byte {
	if l.offset >= len(l.src) {
		return 0
	}
	return l.src[l.offset]
}

func (l *lexer) peekByteAt(n int) byte {
	if l.offset+n >= len(l.src) {
		return 0
	}
	return l.src[l.offset+n]
}

func (l *lexer) advance() byte {
	c := l.src[l.offset]
	l.offset++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

func (l *lexer) pos() ast.Pos {
	return ast.Pos{Path: l.path, Line: l.line, Column: l.col}
}

// skipTrivia consumes whitespace and comments (line and block).
func (l *lexer) skipTrivia() {
	for l.offset < len(l.src) {
		c := l.peekByte()
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.advance()
		case c == '/' && l.peekByteAt(1) == '/':
			for l.offset < len(l.src) && l.peekByte() != '\n' {
				l.advance()
			}
		case c == '/' && l.peekByteAt(1) == '*':
			l.advance()
			l.advance()
			for l.offset < len(l.src) && !(l.peekByte() == '*' && l.peekByteAt(1) == '/') {
				l.advance()
			}
			if l.offset < len(l.src) {
				l.advance()
				l.advance()
			}
		default:
			return
		}
	}
}

func isIdentStart(r rune) bool { return unicode.IsLetter(r) || r == '_' || r == '$' }
func isIdentPart(r rune) bool  { return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$' }

// next returns the next token, or a tokEOF token at end of input.
func (l *lexer) next() (token, error) {
	l.skipTrivia()
	pos := l.pos()
	if l.offset >= len(l.src) {
		return token{kind: tokEOF, pos: pos}, nil
	}
	c := l.peekByte()

	if c == '"' {
		return l.lexString(pos)
	}
	if c == '\'' {
		return l.lexChar(pos)
	}
	if c >= '0' && c <= '9' {
		return l.lexNumber(pos)
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.offset:])
	if isIdentStart(r) {
		return l.lexIdent(pos)
	}
	return l.lexPunct(pos)
}

func (l *lexer) lexIdent(pos ast.Pos) (token, error) {
	start := l.offset
	for l.offset < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.offset:])
		if !isIdentPart(r) {
			break
		}
		for i := 0; i < size; i++ {
			l.advance()
		}
	}
	return token{kind: tokIdent, text: l.src[start:l.offset], pos: pos}, nil
}

func (l *lexer) lexString(pos ast.Pos) (token, error) {
	l.advance() // opening quote
	var sb strings.Builder
	for {
		if l.offset >= len(l.src) {
			return token{}, l.errf("unterminated string literal")
		}
		c := l.peekByte()
		if c == '"' {
			l.advance()
			break
		}
		if c == '\\' {
			l.advance()
			sb.WriteByte(unescape(l.advance()))
			continue
		}
		sb.WriteByte(l.advance())
	}
	return token{kind: tokString, text: sb.String(), pos: pos}, nil
}

func (l *lexer) lexChar(pos ast.Pos) (token, error) {
	l.advance() // opening quote
	var v byte
	if l.peekByte() == '\\' {
		l.advance()
		v = unescape(l.advance())
	} else {
		v = l.advance()
	}
	if l.peekByte() != '\'' {
		return token{}, l.errf("unterminated char literal")
	}
	l.advance()
	return token{kind: tokChar, text: string(v), pos: pos}, nil
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	case '\\', '\'', '"':
		return c
	}
	return c
}

func (l *lexer) lexNumber(pos ast.Pos) (token, error) {
	start := l.offset
	kind := tokInt
	for l.offset < len(l.src) && (isDigitOrSep(l.peekByte())) {
		l.advance()
	}
	if l.peekByte() == '.' {
		kind = tokDouble
		l.advance()
		for l.offset < len(l.src) && isDigitOrSep(l.peekByte()) {
			l.advance()
		}
	}
	switch l.peekByte() {
	case 'l', 'L':
		text := l.src[start:l.offset]
		l.advance()
		return token{kind: tokLong, text: text, pos: pos}, nil
	case 'f', 'F':
		text := l.src[start:l.offset]
		l.advance()
		return token{kind: tokFloat, text: text, pos: pos}, nil
	case 'd', 'D':
		text := l.src[start:l.offset]
		l.advance()
		return token{kind: tokDouble, text: text, pos: pos}, nil
	}
	return token{kind: kind, text: l.src[start:l.offset], pos: pos}, nil
}

func isDigitOrSep(c byte) bool { return (c >= '0' && c <= '9') || c == '_' || c == 'x' || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') }

var multiCharPuncts = []string{
	">>>=", "<<=", ">>=", ">>>", "...", "->",
	"==", "!=", "<=", ">=", "&&", "||", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<", ">>", "::",
}

func (l *lexer) lexPunct(pos ast.Pos) (token, error) {
	for _, p := range multiCharPuncts {
		if strings.HasPrefix(l.src[l.offset:], p) {
			for range p {
				l.advance()
			}
			return token{kind: tokPunct, text: p, pos: pos}, nil
		}
	}
	c := l.advance()
	return token{kind: tokPunct, text: string(c), pos: pos}, nil
}
