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
)

// Enter walks every source unit's syntax tree, assigns a ClassSymbol to
// each type declaration (reflecting enclosing-class nesting), and builds
// the top-level index out of the union of every name it finds.
func (b *Binder) Enter() {
	for _, unit := range b.units {
		pkg := strings.ReplaceAll(unit.Package, ".", "/")
		for _, decl := range unit.Decls {
			b.enterDecl(unit, decl, pkg, nil, nil)
		}
	}
}

// enterDecl registers decl and recurses into its nested members. owner is
// the enclosing ClassSymbol (nil for a top-level declaration); names is the
// '$'-joined simple-name path from the top-level declaration down to decl.
func (b *Binder) enterDecl(unit *ast.CompilationUnit, decl *ast.TypeDecl, pkg string, owner *symbol.ClassSymbol, names []string) {
	path := append(append([]string(nil), names...), decl.Name)
	binaryName := symbol.Binary(pkg, path)
	sym := b.Pool.Class(binaryName)

	sc := &bound.SourceClass{
		ClassSym:  sym,
		DeclKind:  decl.Kind,
		RawAccess: decl.Access,
		OwnerSym:  owner,
		Decl:      decl,
		Path:      unit.Path,
	}

	if existing, dup := b.sources[binaryName]; dup {
		b.Diags.Errorf(decl.Pos, "duplicate declaration of %s (previously declared at %s)", decl.Name, existing.Path)
		return
	}

	b.sources[binaryName] = sc
	b.order = append(b.order, binaryName)
	b.Index.AddClass(binaryName)

	if owner != nil {
		if ownerClass, ok := b.sources[owner.Name()]; ok {
			ownerClass.ChildrenSyms = append(ownerClass.ChildrenSyms, sym)
		}
	}

	for _, member := range decl.Members {
		b.enterDecl(unit, member, pkg, sym, path)
	}
}
