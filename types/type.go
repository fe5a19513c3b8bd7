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

// Package types defines the Type and Const value types the binder produces.
// Both are modeled the way golang.org/x/tools's go/exact package models
// constant.Value: a small sealed interface with one implementation per kind,
// distinguished by an unexported marker method so no outside package can add
// a new variant the rest of the binder doesn't know how to switch on.
package types

import (
	"fmt"
	"strings"

	"github.com/bazelbuild/headergen/ast"
	"github.com/bazelbuild/headergen/symbol"
)

// TypeKind distinguishes the variants of Type.
type TypeKind int

const (
	// KindPrimitive is a primitive type: boolean, byte, char, short, int, long, float, double.
	KindPrimitive TypeKind = iota
	// KindVoid is the pseudo-type of a method with no return value.
	KindVoid
	// KindClass is a (possibly generic, possibly nested) class or interface type.
	KindClass
	// KindArray is an array type.
	KindArray
	// KindTyVar is a reference to a type-parameter.
	KindTyVar
	// KindWildcard is a wildcard type argument (?, ? extends T, ? super T).
	KindWildcard
	// KindIntersection is an intersection type, used for lub computations and multi-bound type parameters.
	KindIntersection
	// KindError is a placeholder standing in for a type that failed to resolve; binder consumers treat
	// it as an opaque type and keep going instead of aborting the whole compilation.
	KindError
)

func (k TypeKind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindVoid:
		return "void"
	case KindClass:
		return "class"
	case KindArray:
		return "array"
	case KindTyVar:
		return "tyvar"
	case KindWildcard:
		return "wildcard"
	case KindIntersection:
		return "intersection"
	case KindError:
		return "error"
	}
	return "unknown"
}

// Primitive enumerates the primitive type codes used by both Type and Const.
type Primitive int

const (
	PrimNone Primitive = iota
	PrimBoolean
	PrimByte
	PrimChar
	PrimShort
	PrimInt
	PrimLong
	PrimFloat
	PrimDouble
)

func (p Primitive) String() string {
	switch p {
	case PrimBoolean:
		return "boolean"
	case PrimByte:
		return "byte"
	case PrimChar:
		return "char"
	case PrimShort:
		return "short"
	case PrimInt:
		return "int"
	case PrimLong:
		return "long"
	case PrimFloat:
		return "float"
	case PrimDouble:
		return "double"
	}
	return "none"
}

// WildcardBound distinguishes the three forms a wildcard type argument can take.
type WildcardBound int

const (
	// WildcardUnbounded is bare "?".
	WildcardUnbounded WildcardBound = iota
	// WildcardExtends is "? extends T".
	WildcardExtends
	// WildcardSuper is "? super T".
	WildcardSuper
)

// ClassTySegment is one qualifying segment of a (possibly nested) class
// type, e.g. in "Outer<A>.Inner<B>" there are two segments: "Outer<A>" and
// "Inner<B>". The symbol of the *last* segment is the type's declared class;
// earlier segments are qualifiers, each with their own type arguments.
type ClassTySegment struct {
	Sym      *symbol.ClassSymbol
	TyArgs   []Type
	Annos    []Annotation
}

// Type is the sealed interface implemented by every type variant the binder
// can produce. It has no methods beyond Kind, String and the sealing
// marker: binder code is expected to type-switch on the kind, the same way
// go/exact.Value callers switch on Kind().
type Type interface {
	Kind() TypeKind
	String() string
	sealed()
}

// PrimitiveTy is a primitive type (or void, modeled via KindVoid instead).
type PrimitiveTy struct {
	Prim  Primitive
	Annos []Annotation
}

func (PrimitiveTy) Kind() TypeKind { return KindPrimitive }
func (t PrimitiveTy) String() string { return t.Prim.String() }
func (PrimitiveTy) sealed()          {}

// VoidTy is the pseudo-type of a method returning nothing.
type VoidTy struct{}

func (VoidTy) Kind() TypeKind  { return KindVoid }
func (VoidTy) String() string  { return "void" }
func (VoidTy) sealed()         {}

// ClassTy is a (possibly generic, possibly qualified) class or interface type.
type ClassTy struct {
	Segments []ClassTySegment
}

func (ClassTy) Kind() TypeKind { return KindClass }

// Sym returns the declared class of a ClassTy: the symbol of its last segment.
func (t ClassTy) Sym() *symbol.ClassSymbol {
	if len(t.Segments) == 0 {
		return nil
	}
	return t.Segments[len(t.Segments)-1].Sym
}

func (t ClassTy) String() string {
	var b strings.Builder
	for i, seg := range t.Segments {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.Sym.SimpleName())
		if len(seg.TyArgs) > 0 {
			b.WriteByte('<')
			for j, a := range seg.TyArgs {
				if j > 0 {
					b.WriteString(", ")
				}
				b.WriteString(a.String())
			}
			b.WriteByte('>')
		}
	}
	return b.String()
}
func (ClassTy) sealed() {}

// ArrayTy is an array type. A multi-dimensional array is a nested ArrayTy
// (so [[I is ArrayTy{Elem: ArrayTy{Elem: int}}), matching the class-file
// encoding.
type ArrayTy struct {
	Elem  Type
	Annos []Annotation
}

func (ArrayTy) Kind() TypeKind      { return KindArray }
func (t ArrayTy) String() string    { return t.Elem.String() + "[]" }
func (ArrayTy) sealed()             {}

// TyVarTy references a type-parameter by symbol.
type TyVarTy struct {
	Sym   *symbol.TyVarSymbol
	Annos []Annotation
}

func (TyVarTy) Kind() TypeKind   { return KindTyVar }
func (t TyVarTy) String() string { return t.Sym.Name }
func (TyVarTy) sealed()          {}

// WildcardTy is a wildcard type argument.
type WildcardTy struct {
	Bound WildcardBound
	Type  Type // nil for WildcardUnbounded
	Annos []Annotation
}

func (WildcardTy) Kind() TypeKind { return KindWildcard }
func (t WildcardTy) String() string {
	switch t.Bound {
	case WildcardExtends:
		return "? extends " + t.Type.String()
	case WildcardSuper:
		return "? super " + t.Type.String()
	default:
		return "?"
	}
}
func (WildcardTy) sealed() {}

// IntersectionTy is an intersection of bounds ("A & B"). No code in this
// repository constructs one.
type IntersectionTy struct {
	Bounds []Type
}

func (IntersectionTy) Kind() TypeKind { return KindIntersection }
func (t IntersectionTy) String() string {
	parts := make([]string, len(t.Bounds))
	for i, b := range t.Bounds {
		parts[i] = b.String()
	}
	return strings.Join(parts, " & ")
}
func (IntersectionTy) sealed() {}

// ErrorTy stands in for a type the binder couldn't resolve. Consumers treat
// it as an opaque type and continue, so diagnostics accrue instead of
// aborting the whole compilation.
type ErrorTy struct {
	// Name is the unresolved name, kept for diagnostic messages.
	Name string
}

func (ErrorTy) Kind() TypeKind     { return KindError }
func (t ErrorTy) String() string   { return fmt.Sprintf("<error: %s>", t.Name) }
func (ErrorTy) sealed()            {}

// Annotation is a type annotation carried by a Type node. It never affects a
// Type's identity for binder purposes (two Types differing only in Annos are
// still "the same type" to the resolver). No code in this repository fills
// Annos in, and lower writes no RuntimeVisibleTypeAnnotations or
// RuntimeInvisibleTypeAnnotations attribute, so type annotations do not
// reach the emitted class file.
type Annotation struct {
	Info *AnnoInfo
}

// AnnoInfo is a bound annotation use. Args carries the original, unevaluated
// argument expressions so that constant evaluation can re-enter them once
// all source constants are available; Values carries the resolved
// element-value map, holding each argument that evaluated to a constant (an
// argument that did not is left out).
// A missing key in Values means "use the annotation declaration's default".
type AnnoInfo struct {
	Sym    *symbol.ClassSymbol
	Args   map[string]ast.Expr
	Values map[string]Const
}
