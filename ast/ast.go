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

// Package ast defines the minimal compilation-unit syntax tree the binder
// consumes. headergen's parser (package parse) is the only producer, but the
// shape is intentionally small enough that any front-end could build one of
// these instead.
package ast

// Pos is a 1-based source position (1-based line, 1-based column), matching
// the diagnostic format the rest of the binder reports against.
type Pos struct {
	Path   string
	Line   int
	Column int
}

// CompilationUnit is one source file: a package declaration, its imports,
// and the top-level type declarations within it.
type CompilationUnit struct {
	Path     string
	Package  string // slash-free, dot-separated, e.g. "a.b"; "" for the unnamed package.
	Imports  []Import
	Decls    []*TypeDecl
}

// Import is a single import declaration.
type Import struct {
	// Name is the imported name: a fully qualified class name for a
	// single-type import, or a package/class prefix for an on-demand import.
	Name     string
	OnDemand bool
	Static   bool
	Pos      Pos
}

// TypeKind enumerates the kinds of type declaration a bound class tracks.
type TypeKind int

const (
	KindClass TypeKind = iota
	KindInterface
	KindEnum
	KindAnnotation
	KindRecord
)

// TypeDecl is a class/interface/enum/annotation/record declaration.
type TypeDecl struct {
	Name       string // simple name
	Kind       TypeKind
	Access     AccessFlags
	TyParams   []TyParamDecl
	Superclass *ClassTypeExpr // nil: defaults are applied by the binder's Header phase.
	Interfaces []*ClassTypeExpr
	Fields     []*FieldDecl
	Methods    []*MethodDecl
	Members    []*TypeDecl // nested types
	Annos      []*AnnoExpr
	Pos        Pos

	// RecordComponents holds the record header's component list, used to
	// synthesize the canonical constructor and accessor methods. Empty
	// unless Kind == KindRecord.
	RecordComponents []*FieldDecl
}

// AccessFlags is the raw (unresolved) set of modifiers on a declaration, a
// bitmask matching the class-file access_flags encoding.
type AccessFlags uint16

const (
	AccPublic       AccessFlags = 0x0001
	AccPrivate      AccessFlags = 0x0002
	AccProtected    AccessFlags = 0x0004
	AccStatic       AccessFlags = 0x0008
	AccFinal        AccessFlags = 0x0010
	AccSuper        AccessFlags = 0x0020
	AccSynchronized AccessFlags = 0x0020
	AccBridge       AccessFlags = 0x0040
	AccVarargs      AccessFlags = 0x0080
	AccVolatile     AccessFlags = 0x0040
	AccTransient    AccessFlags = 0x0080
	AccNative       AccessFlags = 0x0100
	AccInterface    AccessFlags = 0x0200
	AccAbstract     AccessFlags = 0x0400
	AccStrict       AccessFlags = 0x0800
	AccSynthetic    AccessFlags = 0x1000
	AccAnnotation   AccessFlags = 0x2000
	AccEnum         AccessFlags = 0x4000
	AccMandated     AccessFlags = 0x8000
)

// TyParamDecl is a single declared type parameter, e.g. "T extends Number & Comparable<T>".
type TyParamDecl struct {
	Name   string
	Bounds []*ClassTypeExpr // first bound may be a class or interface; rest are interfaces only.
	Pos    Pos
}

// ClassTypeExpr is an unresolved reference to a (possibly generic, possibly
// qualified) class type as written in source, e.g. "java.util.List<String>"
// or "Outer<A>.Inner<B>".
type ClassTypeExpr struct {
	// Segments holds one entry per '.'-qualified part with its own type
	// arguments, e.g. ["Outer<A>", "Inner<B>"].
	Segments []ClassTypeSegment
	Pos      Pos
}

// ClassTypeSegment is one '.'-separated part of a ClassTypeExpr.
type ClassTypeSegment struct {
	Name   string
	TyArgs []TypeArgExpr
}

// TypeArgExpr is an unresolved type argument: a type, or a wildcard.
type TypeArgExpr struct {
	Wildcard      bool
	WildcardUpper bool // true: "? extends T"; false with Wildcard && Bound != nil: "? super T"
	Bound         TypeExpr // nil for a bare "?"
}

// TypeExpr is any unresolved type as written in source: primitive, class, or array.
type TypeExpr struct {
	Primitive string // "", or one of "boolean","byte","char","short","int","long","float","double"
	Class     *ClassTypeExpr
	ArrayDims int
	Pos       Pos
}

// FieldDecl is a field declaration.
type FieldDecl struct {
	Name    string
	Access  AccessFlags
	Type    TypeExpr
	Init    Expr // nil if there is no initializer
	Annos   []*AnnoExpr
	Pos     Pos
}

// MethodDecl is a method or constructor declaration.
type MethodDecl struct {
	Name       string // "<init>" for constructors
	Access     AccessFlags
	TyParams   []TyParamDecl
	Return     TypeExpr // zero value with Primitive=="" and Class==nil means void
	Params     []*ParamDecl
	Throws     []*ClassTypeExpr
	Annos      []*AnnoExpr
	AnnoDefault Expr // the default value of an annotation element, if any
	Pos        Pos
}

// ParamDecl is a method parameter.
type ParamDecl struct {
	Name     string
	Type     TypeExpr
	Varargs  bool
	Annos    []*AnnoExpr
	Pos      Pos
}

// AnnoExpr is an annotation use as written in source, not yet resolved or
// evaluated: @pkg.Anno(arg1, name2 = arg2, ...).
type AnnoExpr struct {
	Name string // as written, possibly qualified
	// Args maps element name to its (unevaluated) expression. A single
	// positional argument to a single-element annotation is stored under "value".
	Args map[string]Expr
	Pos  Pos
}

// Expr is any expression the binder may need to evaluate as a compile-time
// constant or an annotation argument. It deliberately does not model full
// Java expression syntax -- general expression type-checking is out of
// scope -- only the forms that can appear in a constant-variable initializer
// or an annotation argument are represented.
type Expr interface {
	ExprPos() Pos
	exprSealed()
}

// Literal is a literal constant: a number, boolean, char, or string, as lexed
// (the parser resolves escapes and numeric suffixes but does not apply
// narrowing or promotion -- that's Phase C's job).
type Literal struct {
	Kind  LiteralKind
	Text  string // normalized literal text, e.g. "42", "3.14", "true", "\"hi\""
	Pos   Pos
}

func (l *Literal) ExprPos() Pos { return l.Pos }
func (*Literal) exprSealed()    {}

// LiteralKind enumerates literal forms.
type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitLong
	LitFloat
	LitDouble
	LitBoolean
	LitChar
	LitString
	LitNull
)

// NameExpr is a bare or qualified identifier reference, e.g. "FOO" or
// "Other.FOO" -- a field reference to be resolved against scope.
type NameExpr struct {
	Qualifier Expr // nil for a bare name
	Name      string
	Pos       Pos
}

func (n *NameExpr) ExprPos() Pos { return n.Pos }
func (*NameExpr) exprSealed()    {}

// ClassLiteralExpr is "Foo.class" or "int.class".
type ClassLiteralExpr struct {
	Type TypeExpr
	Pos  Pos
}

func (c *ClassLiteralExpr) ExprPos() Pos { return c.Pos }
func (*ClassLiteralExpr) exprSealed()    {}

// BinaryExpr is a binary operator expression in a constant initializer.
type BinaryExpr struct {
	Op    string // "+","-","*","/","%","&","|","^","<<",">>",">>>","&&","||","==","!=","<","<=",">",">="
	Left  Expr
	Right Expr
	Pos   Pos
}

func (b *BinaryExpr) ExprPos() Pos { return b.Pos }
func (*BinaryExpr) exprSealed()    {}

// UnaryExpr is a unary operator expression ("-x", "!x", "~x", "+x").
type UnaryExpr struct {
	Op      string
	Operand Expr
	Pos     Pos
}

func (u *UnaryExpr) ExprPos() Pos { return u.Pos }
func (*UnaryExpr) exprSealed()    {}

// CastExpr is a narrowing/widening cast applied to a constant expression,
// e.g. "(byte) 200".
type CastExpr struct {
	Type    TypeExpr
	Operand Expr
	Pos     Pos
}

func (c *CastExpr) ExprPos() Pos { return c.Pos }
func (*CastExpr) exprSealed()    {}

// ArrayInitExpr is "{ e1, e2, ... }", used both for array-typed constants
// and for array-valued annotation elements.
type ArrayInitExpr struct {
	Elems []Expr
	Pos   Pos
}

func (a *ArrayInitExpr) ExprPos() Pos { return a.Pos }
func (*ArrayInitExpr) exprSealed()    {}

// AnnoValueExpr is a nested annotation used as an annotation-element value.
type AnnoValueExpr struct {
	Anno *AnnoExpr
	Pos  Pos
}

func (a *AnnoValueExpr) ExprPos() Pos { return a.Pos }
func (*AnnoValueExpr) exprSealed()    {}
