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

// Package bound defines the class model the binder phases produce: a
// uniform Class view over both source-declared classes (built up field by
// field as each phase runs) and classpath classes (read lazily from class
// file bytes, memoized per field). Holders never reference each other
// directly -- every edge is a *symbol.ClassSymbol resolved back through an
// Env -- so cyclic supertype relationships between source files never
// require a fixup pass.
package bound

import (
	"github.com/bazelbuild/headergen/ast"
	"github.com/bazelbuild/headergen/symbol"
	"github.com/bazelbuild/headergen/types"
)

// FieldBinding is a bound field: its symbol, resolved type, access flags,
// and (after constant evaluation) constant value if it has one.
type FieldBinding struct {
	Sym    *symbol.FieldSymbol
	Access ast.AccessFlags
	Type   types.Type
	Decl   *ast.FieldDecl // nil for a classpath field.
	Const  types.Const    // nil: no ConstantValue attribute.
	Annos  []*types.AnnoInfo
}

// MethodBinding is a bound method: its symbol, resolved signature, and
// declared annotations.
type MethodBinding struct {
	Sym        *symbol.MethodSymbol
	Access     ast.AccessFlags
	TypeParams []*symbol.TyVarSymbol
	Params     []*ParamBinding
	Return     types.Type
	Throws     []types.Type
	Decl       *ast.MethodDecl // nil for a classpath method.
	Annos      []*types.AnnoInfo
	// AnnoDefault is the default element value, set only when Sym's owner
	// is an annotation interface and Decl declared a "default" clause.
	AnnoDefault types.Const
}

// ParamBinding is a bound method parameter.
type ParamBinding struct {
	Sym   *symbol.ParamSymbol
	Type  types.Type
	Annos []*types.AnnoInfo
}

// Class is the phase-agnostic read surface the binder, lowerer, and member
// inheritance walk consume. A SourceClass and a ClasspathClass both satisfy
// it; callers never need to know which backs a given symbol.
type Class interface {
	Sym() *symbol.ClassSymbol
	Kind() ast.TypeKind
	Access() ast.AccessFlags
	Owner() *symbol.ClassSymbol // nil for a top-level class.
	Children() []*symbol.ClassSymbol

	// Super and Interfaces are valid once Header binding has run for a
	// source class, or always for a classpath class.
	Super() *symbol.ClassSymbol // nil for a class file with no superclass (java/lang/Object).
	Interfaces() []*symbol.ClassSymbol
	TypeParamSyms() []*symbol.TyVarSymbol

	// SuperType, InterfaceTypes, Fields, Methods, and Annotations are valid
	// once Type binding has run for a source class, or always for a
	// classpath class.
	SuperType() types.Type
	InterfaceTypes() []types.Type
	Fields() []*FieldBinding
	Methods() []*MethodBinding
	Annotations() []*types.AnnoInfo
}
