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
	"github.com/bazelbuild/headergen/graphs"
	"github.com/bazelbuild/headergen/symbol"
)

const (
	objectClass     = "java/lang/Object"
	enumClass       = "java/lang/Enum"
	recordClass     = "java/lang/Record"
	annotationClass = "java/lang/annotation/Annotation"
)

// Header resolves, for every source class, the superclass symbol, the
// interface symbols, and the raw type-parameter symbols (not yet bounds as
// full types; that's the Type phase's job). Name resolution climbs the
// enclosing-class scope chain, then single-type imports, then the same
// package, then on-demand imports (failures there are swallowed, not
// fatal), then the implicit java.lang import.
//
// Once every edge is resolved, a DFS over the supertype/interface graph
// catches cycles that would otherwise send the Type phase into unbounded
// recursion.
func (b *Binder) Header() {
	for _, name := range b.order {
		b.headerClass(b.sources[name])
	}
	b.checkCycles()
}

func (b *Binder) headerClass(sc *bound.SourceClass) {
	decl := sc.Decl

	sc.TypeParamSymbs = make([]*symbol.TyVarSymbol, len(decl.TyParams))
	for i, tp := range decl.TyParams {
		sc.TypeParamSymbs[i] = &symbol.TyVarSymbol{Owner: sc.ClassSym, Name: tp.Name}
	}

	if decl.Superclass != nil {
		if sym, ok := b.resolveClassTypeExpr(sc, decl.Superclass); ok {
			sc.SuperSym = sym
		} else {
			b.Diags.Errorf(decl.Superclass.Pos, "cannot find symbol: class %s", lastSegmentName(decl.Superclass))
			sc.SuperSym = b.Pool.Class(objectClass)
		}
	} else {
		sc.SuperSym = b.Pool.Class(defaultSuper(decl.Kind))
	}

	for _, iface := range decl.Interfaces {
		if sym, ok := b.resolveClassTypeExpr(sc, iface); ok {
			sc.InterfaceSyms = append(sc.InterfaceSyms, sym)
		} else {
			b.Diags.Errorf(iface.Pos, "cannot find symbol: class %s", lastSegmentName(iface))
		}
	}
	if decl.Kind == ast.KindAnnotation {
		sc.InterfaceSyms = append(sc.InterfaceSyms, b.Pool.Class(annotationClass))
	}
}

// defaultSuper returns the implicit superclass for a type declaration with
// no extends clause.
func defaultSuper(kind ast.TypeKind) string {
	switch kind {
	case ast.KindEnum:
		return enumClass
	case ast.KindRecord:
		return recordClass
	default:
		return objectClass
	}
}

func lastSegmentName(expr *ast.ClassTypeExpr) string {
	if len(expr.Segments) == 0 {
		return ""
	}
	return expr.Segments[len(expr.Segments)-1].Name
}

// resolveClassTypeExpr resolves a possibly dotted class-type reference from
// the point of view of sc. Two shapes are tried, matching how javac
// disambiguates a dotted type name without knowing in advance where the
// package/class boundary falls:
//
//   - a simple or nested-class reference ("Inner1", "A.Inner1"): the first
//     segment goes through the full name resolution pipeline, and each
//     remaining segment is chased as a nested class of whatever the
//     previous segment resolved to.
//   - a package-qualified reference ("b.B", "java.util.Map.Entry"): tried
//     only once the first shape fails, by shrinking the dotted path one
//     segment at a time until a known binary name is found, the same
//     longest-prefix search the top-level index performs.
func (b *Binder) resolveClassTypeExpr(sc *bound.SourceClass, expr *ast.ClassTypeExpr) (*symbol.ClassSymbol, bool) {
	if len(expr.Segments) == 0 {
		return nil, false
	}
	unit := b.unitOf(sc)
	if sym, ok := b.resolveSimpleName(sc, unit, expr.Segments[0].Name); ok {
		for _, seg := range expr.Segments[1:] {
			candidate := sym.Name() + "$" + seg.Name
			if !b.isKnownClass(candidate) {
				return nil, false
			}
			sym = b.Pool.Class(candidate)
		}
		return sym, true
	}
	return b.resolveQualifiedName(expr)
}

// resolveQualifiedName resolves expr as a package-qualified binary name,
// trying the longest '/'-joined prefix of its segments first and chasing
// any leftover segments as nested classes.
func (b *Binder) resolveQualifiedName(expr *ast.ClassTypeExpr) (*symbol.ClassSymbol, bool) {
	names := make([]string, len(expr.Segments))
	for i, seg := range expr.Segments {
		names[i] = seg.Name
	}
	for i := len(names); i > 0; i-- {
		candidate := strings.Join(names[:i], "/")
		if !b.isKnownClass(candidate) {
			continue
		}
		sym := b.Pool.Class(candidate)
		for _, rest := range names[i:] {
			nested := sym.Name() + "$" + rest
			if !b.isKnownClass(nested) {
				return nil, false
			}
			sym = b.Pool.Class(nested)
		}
		return sym, true
	}
	return nil, false
}

// resolveSimpleName resolves an unqualified class name visible from sc,
// in the order the language defines: enclosing-class scope chain, then
// single-type imports, then the same package, then on-demand imports
// (silently skipped on failure), then the implicit java.lang import.
func (b *Binder) resolveSimpleName(sc *bound.SourceClass, unit *ast.CompilationUnit, simpleName string) (*symbol.ClassSymbol, bool) {
	for cur := sc; cur != nil; cur = b.ownerOf(cur) {
		for _, child := range cur.ChildrenSyms {
			if child.SimpleName() == simpleName {
				return child, true
			}
		}
		if cur.ClassSym.SimpleName() == simpleName {
			return cur.ClassSym, true
		}
	}

	if unit != nil {
		for _, imp := range unit.Imports {
			if imp.OnDemand || imp.Static {
				continue
			}
			if lastDotSegment(imp.Name) == simpleName {
				candidate := strings.ReplaceAll(imp.Name, ".", "/")
				if b.isKnownClass(candidate) {
					return b.Pool.Class(candidate), true
				}
			}
		}

		pkg := strings.ReplaceAll(unit.Package, ".", "/")
		if candidate := symbol.Binary(pkg, []string{simpleName}); b.isKnownClass(candidate) {
			return b.Pool.Class(candidate), true
		}

		for _, imp := range unit.Imports {
			if !imp.OnDemand || imp.Static {
				continue
			}
			prefix := strings.ReplaceAll(imp.Name, ".", "/")
			candidate := prefix + "/" + simpleName
			if b.isKnownClass(candidate) {
				return b.Pool.Class(candidate), true
			}
		}
	}

	if candidate := "java/lang/" + simpleName; b.isKnownClass(candidate) {
		return b.Pool.Class(candidate), true
	}
	return nil, false
}

func lastDotSegment(dotted string) string {
	if i := strings.LastIndexByte(dotted, '.'); i >= 0 {
		return dotted[i+1:]
	}
	return dotted
}

func splitDotted(dotted string) []string {
	if dotted == "" {
		return nil
	}
	return strings.Split(dotted, ".")
}

// ownerOf returns sc's enclosing SourceClass, or nil if sc is top-level or
// its owner is a classpath (not source) class.
func (b *Binder) ownerOf(sc *bound.SourceClass) *bound.SourceClass {
	if sc.OwnerSym == nil {
		return nil
	}
	return b.sources[sc.OwnerSym.Name()]
}

// unitOf finds the compilation unit sc (or one of its enclosing classes)
// was declared in, walking up to the top-level declaration to read its
// package and import list.
func (b *Binder) unitOf(sc *bound.SourceClass) *ast.CompilationUnit {
	for cur := sc; cur != nil; cur = b.ownerOf(cur) {
		if cur.OwnerSym == nil {
			for _, unit := range b.units {
				for _, decl := range unit.Decls {
					if decl == cur.Decl {
						return unit
					}
				}
			}
		}
	}
	return nil
}

// isKnownClass reports whether name is a declared source class or an entry
// in the transitive or boot classpath.
func (b *Binder) isKnownClass(name string) bool {
	if _, ok := b.sources[name]; ok {
		return true
	}
	if b.Classpath != nil {
		if _, ok := b.Classpath.Lookup(name); ok {
			return true
		}
	}
	if b.Boot != nil {
		if _, ok := b.Boot.Lookup(name); ok {
			return true
		}
	}
	return false
}

// checkCycles runs a DFS over the supertype/interface graph of every source
// class and reports the first cycle found from each unvisited starting
// point, per class that's actually involved (not just the first class
// overall, so independent cyclic hierarchies each get their own
// diagnostic).
func (b *Binder) checkCycles() {
	graph := make(map[string][]string, len(b.order))
	for _, name := range b.order {
		sc := b.sources[name]
		var edges []string
		if sc.SuperSym != nil {
			if _, ok := b.sources[sc.SuperSym.Name()]; ok {
				edges = append(edges, sc.SuperSym.Name())
			}
		}
		for _, i := range sc.InterfaceSyms {
			if _, ok := b.sources[i.Name()]; ok {
				edges = append(edges, i.Name())
			}
		}
		graph[name] = edges
	}

	reported := make(map[string]bool)
	for _, name := range b.order {
		if reported[name] {
			continue
		}
		cycle := graphs.FindCycle(graph, name)
		if cycle == nil {
			continue
		}
		for _, n := range cycle {
			reported[n] = true
		}
		sc := b.sources[name]
		b.Diags.Errorf(sc.Decl.Pos, "cycle in class hierarchy: %s", strings.Join(cycle, " -> "))
	}
}
