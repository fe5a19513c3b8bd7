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
	"github.com/bazelbuild/headergen/ast"
	"github.com/bazelbuild/headergen/bound"
	"github.com/bazelbuild/headergen/constant"
	"github.com/bazelbuild/headergen/symbol"
	"github.com/bazelbuild/headergen/types"
)

// Constant evaluates every static final field initializer (every field
// initializer, in an interface or annotation type) and annotation element
// default that's a compile-time constant expression, recursing through the
// Resolver built in New so that a field whose initializer references
// another field (in this class, an enclosing one, or a named class) sees
// that field's value, however deep the reference chain goes. A
// self-referential initializer resolves to "no constant value" rather than
// looping forever, per the Resolver's pending-state check.
func (b *Binder) Constant() {
	for _, name := range b.order {
		sc := b.sources[name]
		for _, fb := range sc.BoundFlds {
			if fb.Decl.Init != nil {
				b.constResolver.Resolve(fb.Sym)
			}
			b.evalAnnoValues(sc, fb.Annos)
		}
		for _, mb := range sc.BoundMeths {
			if mb.Decl.AnnoDefault != nil {
				declaredPrim := types.PrimNone
				if pt, ok := mb.Return.(types.PrimitiveTy); ok {
					declaredPrim = pt.Prim
				}
				lookup := func(qualifier ast.Expr, name string) (types.Const, bool) {
					return b.lookupConstName(sc, qualifier, name)
				}
				if v, ok := constant.Eval(mb.Decl.AnnoDefault, declaredPrim, lookup); ok {
					mb.AnnoDefault = v
				}
			}
			b.evalAnnoValues(sc, mb.Annos)
			for _, p := range mb.Params {
				b.evalAnnoValues(sc, p.Annos)
			}
		}
		b.evalAnnoValues(sc, sc.Annos)
	}
}

// evalAnnoValues evaluates every element-value argument of each annotation
// use in annos from the point of view of sc, populating Values. A key whose
// argument fails to evaluate to a compile-time constant (or that doesn't
// name a declared element of Sym) is left out of Values entirely, per
// AnnoInfo's "missing key means use the default" contract.
func (b *Binder) evalAnnoValues(sc *bound.SourceClass, annos []*types.AnnoInfo) {
	lookup := func(qualifier ast.Expr, name string) (types.Const, bool) {
		return b.lookupConstName(sc, qualifier, name)
	}
	for _, a := range annos {
		if len(a.Args) == 0 {
			continue
		}
		elems := b.annoElementTypes(a.Sym)
		values := make(map[string]types.Const, len(a.Args))
		for key, expr := range a.Args {
			if v, ok := constant.Eval(expr, elems[key], lookup); ok {
				values[key] = v
			}
		}
		if len(values) > 0 {
			a.Values = values
		}
	}
}

// annoElementTypes maps each declared element of the annotation interface
// named by sym to its declared primitive, if it has one (a reference-typed
// element, e.g. String or Class<?> or an enum, narrows Eval not at all: Eval
// falls back to whatever constant shape the expression itself produces).
func (b *Binder) annoElementTypes(sym *symbol.ClassSymbol) map[string]types.Primitive {
	elems := map[string]types.Primitive{}
	cls := b.Class(sym)
	if cls == nil {
		return elems
	}
	for _, m := range cls.Methods() {
		prim := types.PrimNone
		if pt, ok := m.Return.(types.PrimitiveTy); ok {
			prim = pt.Prim
		}
		elems[m.Sym.Name] = prim
	}
	return elems
}

// evalConstField is the Resolver's Eval callback: it computes the constant
// value of the field named by key, a *symbol.FieldSymbol, re-entering
// Resolve for any other field the initializer references.
func (b *Binder) evalConstField(key interface{}) (types.Const, bool) {
	fs, ok := key.(*symbol.FieldSymbol)
	if !ok {
		return nil, false
	}
	sc, ok := b.sources[fs.Owner.Name()]
	if !ok {
		return nil, false
	}
	fb := findField(sc, fs.Name)
	if fb == nil || fb.Decl.Init == nil {
		return nil, false
	}
	// Only a static final field (every field of an interface is implicitly
	// both) has a constant value.
	isIface := sc.Kind() == ast.KindInterface || sc.Kind() == ast.KindAnnotation
	if !isIface && fb.Access&(ast.AccStatic|ast.AccFinal) != ast.AccStatic|ast.AccFinal {
		return nil, false
	}

	declaredPrim := types.PrimNone
	if pt, ok := fb.Type.(types.PrimitiveTy); ok {
		declaredPrim = pt.Prim
	}
	lookup := func(qualifier ast.Expr, name string) (types.Const, bool) {
		return b.lookupConstName(sc, qualifier, name)
	}
	v, ok := constant.Eval(fb.Decl.Init, declaredPrim, lookup)
	if ok {
		fb.Const = v
	}
	return v, ok
}

func findField(sc *bound.SourceClass, name string) *bound.FieldBinding {
	for _, fb := range sc.BoundFlds {
		if fb.Sym.Name == name {
			return fb
		}
	}
	return nil
}

// lookupConstName resolves a (possibly qualified) name appearing in a
// constant expression evaluated from within sc: an unqualified name is a
// field of sc or one of its enclosing classes; a qualified name is a field
// of the class the qualifier names.
func (b *Binder) lookupConstName(sc *bound.SourceClass, qualifier ast.Expr, name string) (types.Const, bool) {
	if qualifier == nil {
		for cur := sc; cur != nil; cur = b.ownerOf(cur) {
			if v, ok := b.lookupFieldConst(cur.ClassSym, name); ok {
				return v, true
			}
		}
		return nil, false
	}
	dotted, ok := exprToDotted(qualifier)
	if !ok {
		return nil, false
	}
	qualSym, ok := b.resolveDottedName(sc, b.unitOf(sc), dotted)
	if !ok {
		return nil, false
	}
	return b.lookupFieldConst(qualSym, name)
}

// lookupFieldConst finds name among classSym's declared fields (recursing
// into the superclass if not found there) and returns its constant value,
// evaluating it through the Resolver if classSym is a source class.
func (b *Binder) lookupFieldConst(classSym *symbol.ClassSymbol, name string) (types.Const, bool) {
	return b.lookupFieldConstVisited(classSym, name, make(map[string]bool))
}

// lookupFieldConstVisited is lookupFieldConst's recursive worker; visited
// guards against a cyclic hierarchy (reported separately by Header's cycle
// check) sending this walk into unbounded recursion.
func (b *Binder) lookupFieldConstVisited(classSym *symbol.ClassSymbol, name string, visited map[string]bool) (types.Const, bool) {
	if classSym == nil || visited[classSym.Name()] {
		return nil, false
	}
	visited[classSym.Name()] = true

	cls := b.Class(classSym)
	if cls == nil {
		return nil, false
	}
	for _, f := range cls.Fields() {
		if f.Sym.Name != name {
			continue
		}
		if _, ok := b.sources[classSym.Name()]; ok {
			return b.constResolver.Resolve(f.Sym)
		}
		return f.Const, f.Const != nil
	}
	return b.lookupFieldConstVisited(cls.Super(), name, visited)
}

// exprToDotted renders a chain of qualified NameExprs back into a dotted
// string, the form class-name resolution expects.
func exprToDotted(expr ast.Expr) (string, bool) {
	e, ok := expr.(*ast.NameExpr)
	if !ok {
		return "", false
	}
	if e.Qualifier == nil {
		return e.Name, true
	}
	prefix, ok := exprToDotted(e.Qualifier)
	if !ok {
		return "", false
	}
	return prefix + "." + e.Name, true
}
