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

package binder

import (
	"strings"

	"github.com/bazelbuild/headergen/ast"
	"github.com/bazelbuild/headergen/bound"
	"github.com/bazelbuild/headergen/symbol"
	"github.com/bazelbuild/headergen/types"
)

// tyVarScope resolves a type-parameter name to its symbol while converting
// an ast.TypeExpr tree, built from whichever type parameters are in scope:
// the enclosing classes' own, outermost first, then the current class's or
// method's.
type tyVarScope map[string]*symbol.TyVarSymbol

// Type resolves, for every source class, the full types of its superclass,
// interfaces, fields, and methods, plus the non-argument half of every
// annotation use (the declaring type; argument values wait for Constant).
func (b *Binder) Type() {
	for _, name := range b.order {
		b.typeClass(b.sources[name])
	}
}

func (b *Binder) typeClass(sc *bound.SourceClass) {
	scope := b.classScope(sc)
	decl := sc.Decl

	if decl.Superclass != nil {
		sc.SuperTy = b.classTypeExprToType(sc, scope, decl.Superclass)
	} else {
		sc.SuperTy = types.ClassTy{Segments: []types.ClassTySegment{{Sym: sc.SuperSym}}}
	}
	sc.IfaceTypes = make([]types.Type, 0, len(decl.Interfaces))
	for _, iface := range decl.Interfaces {
		sc.IfaceTypes = append(sc.IfaceTypes, b.classTypeExprToType(sc, scope, iface))
	}
	if decl.Kind == ast.KindAnnotation {
		sc.IfaceTypes = append(sc.IfaceTypes, types.ClassTy{Segments: []types.ClassTySegment{{Sym: b.Pool.Class(annotationClass)}}})
	}

	sc.TyParamBounds = make([][]types.Type, len(decl.TyParams))
	for i, tp := range decl.TyParams {
		bounds := make([]types.Type, len(tp.Bounds))
		for j, tb := range tp.Bounds {
			bounds[j] = b.classTypeExprToType(sc, scope, tb)
		}
		sc.TyParamBounds[i] = bounds
	}

	sc.BoundFlds = make([]*bound.FieldBinding, 0, len(decl.Fields))
	for _, f := range decl.Fields {
		sc.BoundFlds = append(sc.BoundFlds, b.typeField(sc, scope, f))
	}
	sc.BoundMeths = make([]*bound.MethodBinding, 0, len(decl.Methods))
	for _, m := range decl.Methods {
		sc.BoundMeths = append(sc.BoundMeths, b.typeMethod(sc, scope, m))
	}
	sc.Annos = b.typeAnnos(sc, decl.Annos)
}

func (b *Binder) typeField(sc *bound.SourceClass, scope tyVarScope, f *ast.FieldDecl) *bound.FieldBinding {
	return &bound.FieldBinding{
		Sym:    &symbol.FieldSymbol{Owner: sc.ClassSym, Name: f.Name},
		Access: f.Access,
		Type:   b.typeExprToType(sc, scope, f.Type),
		Decl:   f,
		Annos:  b.typeAnnos(sc, f.Annos),
	}
}

func (b *Binder) typeMethod(sc *bound.SourceClass, classScope tyVarScope, m *ast.MethodDecl) *bound.MethodBinding {
	methodSym := &symbol.MethodSymbol{Owner: sc.ClassSym, Name: m.Name}

	scope := make(tyVarScope, len(classScope)+len(m.TyParams))
	for k, v := range classScope {
		scope[k] = v
	}
	tyParams := make([]*symbol.TyVarSymbol, len(m.TyParams))
	for i, tp := range m.TyParams {
		tv := &symbol.TyVarSymbol{Owner: methodSym, Name: tp.Name}
		tyParams[i] = tv
		scope[tp.Name] = tv
	}

	params := make([]*bound.ParamBinding, len(m.Params))
	for i, p := range m.Params {
		params[i] = &bound.ParamBinding{
			Sym:   &symbol.ParamSymbol{Owner: methodSym, Index: i, Name: p.Name},
			Type:  b.typeExprToType(sc, scope, p.Type),
			Annos: b.typeAnnos(sc, p.Annos),
		}
	}

	var ret types.Type
	if isEmptyTypeExpr(m.Return) {
		ret = types.VoidTy{}
	} else {
		ret = b.typeExprToType(sc, scope, m.Return)
	}

	throws := make([]types.Type, len(m.Throws))
	for i, t := range m.Throws {
		throws[i] = b.classTypeExprToType(sc, scope, t)
	}

	return &bound.MethodBinding{
		Sym:        methodSym,
		Access:     m.Access,
		TypeParams: tyParams,
		Params:     params,
		Return:     ret,
		Throws:     throws,
		Decl:       m,
		Annos:      b.typeAnnos(sc, m.Annos),
		// AnnoDefault is filled in by the Constant phase.
	}
}

// classScope builds the type-variable scope visible from sc: the type
// parameters of every enclosing class, outermost first, then sc's own.
func (b *Binder) classScope(sc *bound.SourceClass) tyVarScope {
	var chain []*bound.SourceClass
	for cur := sc; cur != nil; cur = b.ownerOf(cur) {
		chain = append(chain, cur)
	}
	scope := make(tyVarScope)
	for i := len(chain) - 1; i >= 0; i-- {
		for _, tv := range chain[i].TypeParamSymbs {
			scope[tv.Name] = tv
		}
	}
	return scope
}

// classTypeExprToType resolves expr the same way the Header phase resolves
// a superclass/interface reference, but keeps the per-segment type
// arguments, producing a full types.ClassTy. Falls back to
// qualifiedClassTypeExprToType for a package-qualified reference whose
// leading segment is never itself a simple name in scope.
func (b *Binder) classTypeExprToType(sc *bound.SourceClass, scope tyVarScope, expr *ast.ClassTypeExpr) types.Type {
	if len(expr.Segments) == 0 {
		return types.ErrorTy{}
	}
	unit := b.unitOf(sc)
	sym, ok := b.resolveSimpleName(sc, unit, expr.Segments[0].Name)
	if !ok {
		return b.qualifiedClassTypeExprToType(sc, scope, expr)
	}
	segs := make([]types.ClassTySegment, len(expr.Segments))
	cur := sym
	for i, seg := range expr.Segments {
		if i > 0 {
			candidate := cur.Name() + "$" + seg.Name
			if !b.isKnownClass(candidate) {
				return types.ErrorTy{Name: seg.Name}
			}
			cur = b.Pool.Class(candidate)
		}
		args := make([]types.Type, len(seg.TyArgs))
		for j, a := range seg.TyArgs {
			args[j] = b.typeArgToType(sc, scope, a)
		}
		segs[i] = types.ClassTySegment{Sym: cur, TyArgs: args}
	}
	return types.ClassTy{Segments: segs}
}

// qualifiedClassTypeExprToType resolves expr as a package-qualified binary
// name, the same longest-prefix search binder.resolveQualifiedName performs
// in the Header phase, then keeps building ClassTySegments (with their own
// type arguments) from whichever segment the prefix match landed on.
func (b *Binder) qualifiedClassTypeExprToType(sc *bound.SourceClass, scope tyVarScope, expr *ast.ClassTypeExpr) types.Type {
	names := make([]string, len(expr.Segments))
	for i, seg := range expr.Segments {
		names[i] = seg.Name
	}
	for i := len(names); i > 0; i-- {
		candidate := strings.Join(names[:i], "/")
		if !b.isKnownClass(candidate) {
			continue
		}
		cur := b.Pool.Class(candidate)
		classSegs := expr.Segments[i-1:]
		segs := make([]types.ClassTySegment, len(classSegs))
		for j, seg := range classSegs {
			if j > 0 {
				nested := cur.Name() + "$" + seg.Name
				if !b.isKnownClass(nested) {
					return types.ErrorTy{Name: seg.Name}
				}
				cur = b.Pool.Class(nested)
			}
			args := make([]types.Type, len(seg.TyArgs))
			for k, a := range seg.TyArgs {
				args[k] = b.typeArgToType(sc, scope, a)
			}
			segs[j] = types.ClassTySegment{Sym: cur, TyArgs: args}
		}
		return types.ClassTy{Segments: segs}
	}
	return types.ErrorTy{Name: expr.Segments[0].Name}
}

func (b *Binder) typeArgToType(sc *bound.SourceClass, scope tyVarScope, a ast.TypeArgExpr) types.Type {
	if a.Wildcard {
		if isEmptyTypeExpr(a.Bound) {
			return types.WildcardTy{Bound: types.WildcardUnbounded}
		}
		if a.WildcardUpper {
			return types.WildcardTy{Bound: types.WildcardExtends, Type: b.typeExprToType(sc, scope, a.Bound)}
		}
		return types.WildcardTy{Bound: types.WildcardSuper, Type: b.typeExprToType(sc, scope, a.Bound)}
	}
	return b.typeExprToType(sc, scope, a.Bound)
}

func isEmptyTypeExpr(t ast.TypeExpr) bool {
	return t.Primitive == "" && t.Class == nil && t.ArrayDims == 0
}

// typeExprToType resolves an ast.TypeExpr to its bound Type, recognizing a
// bare class-valued segment that names an in-scope type parameter instead
// of chasing it through class-name resolution.
func (b *Binder) typeExprToType(sc *bound.SourceClass, scope tyVarScope, te ast.TypeExpr) types.Type {
	var base types.Type
	switch {
	case te.Primitive != "":
		base = types.PrimitiveTy{Prim: primitiveOfName(te.Primitive)}
	case te.Class != nil:
		if len(te.Class.Segments) == 1 && len(te.Class.Segments[0].TyArgs) == 0 {
			if tv, ok := scope[te.Class.Segments[0].Name]; ok {
				base = types.TyVarTy{Sym: tv}
			}
		}
		if base == nil {
			base = b.classTypeExprToType(sc, scope, te.Class)
		}
	default:
		base = types.VoidTy{}
	}
	for i := 0; i < te.ArrayDims; i++ {
		base = types.ArrayTy{Elem: base}
	}
	return base
}

func primitiveOfName(name string) types.Primitive {
	switch name {
	case "boolean":
		return types.PrimBoolean
	case "byte":
		return types.PrimByte
	case "char":
		return types.PrimChar
	case "short":
		return types.PrimShort
	case "int":
		return types.PrimInt
	case "long":
		return types.PrimLong
	case "float":
		return types.PrimFloat
	case "double":
		return types.PrimDouble
	}
	return types.PrimNone
}

// typeAnnos resolves each annotation use's declaring type, leaving argument
// evaluation for the Constant phase.
func (b *Binder) typeAnnos(sc *bound.SourceClass, annos []*ast.AnnoExpr) []*types.AnnoInfo {
	if len(annos) == 0 {
		return nil
	}
	result := make([]*types.AnnoInfo, 0, len(annos))
	unit := b.unitOf(sc)
	for _, a := range annos {
		sym, ok := b.resolveDottedName(sc, unit, a.Name)
		if !ok {
			continue
		}
		result = append(result, &types.AnnoInfo{Sym: sym, Args: a.Args})
	}
	return result
}

// resolveDottedName resolves a possibly '.'-qualified annotation or type
// name from the point of view of sc: the leading segment goes through the
// normal simple-name pipeline, remaining segments chase nested classes. A
// package-qualified name (leading segment never a simple name in scope)
// falls back to the same longest-prefix search resolveQualifiedName uses.
func (b *Binder) resolveDottedName(sc *bound.SourceClass, unit *ast.CompilationUnit, dotted string) (*symbol.ClassSymbol, bool) {
	segments := splitDotted(dotted)
	if len(segments) == 0 {
		return nil, false
	}
	sym, ok := b.resolveSimpleName(sc, unit, segments[0])
	if !ok {
		for i := len(segments); i > 0; i-- {
			candidate := strings.Join(segments[:i], "/")
			if !b.isKnownClass(candidate) {
				continue
			}
			sym = b.Pool.Class(candidate)
			for _, seg := range segments[i:] {
				nested := sym.Name() + "$" + seg
				if !b.isKnownClass(nested) {
					return nil, false
				}
				sym = b.Pool.Class(nested)
			}
			return sym, true
		}
		return nil, false
	}
	for _, seg := range segments[1:] {
		candidate := sym.Name() + "$" + seg
		if !b.isKnownClass(candidate) {
			return nil, false
		}
		sym = b.Pool.Class(candidate)
	}
	return sym, true
}
