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
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bazelbuild/headergen/ast"
	"github.com/bazelbuild/headergen/parse"
)

func mustParse(t *testing.T, path, src string) *ast.CompilationUnit {
	t.Helper()
	cu, err := parse.Source(path, src)
	if err != nil {
		t.Fatalf("parse.Source(%s) failed: %v", path, err)
	}
	return cu
}

// TestBasicHierarchyAcrossFiles is scenario S1: a class hierarchy spanning
// two packages and two nesting levels, where a nested class's superclass
// lives in another file that imports back into the first.
func TestBasicHierarchyAcrossFiles(t *testing.T) {
	a := mustParse(t, "a/A.java", `
package a;
public class A {
	public class Inner1 extends b.B {}
	public class Inner2 extends A.Inner1 {}
}
`)
	b := mustParse(t, "b/B.java", `
package b;
import a.A;
public class B extends A {}
`)

	bd := New([]*ast.CompilationUnit{a, b}, nil, nil)
	bd.Run()

	if len(bd.Diags.All()) != 0 {
		t.Fatalf("unexpected diagnostics: %v", bd.Diags.All())
	}

	var names []string
	for _, sc := range bd.SourceClasses() {
		names = append(names, sc.Sym().Name())
	}
	sort.Strings(names)
	want := []string{"a/A", "a/A$Inner1", "a/A$Inner2", "b/B"}
	sort.Strings(want)
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("bound class set mismatch (-want +got):\n%s", diff)
	}

	supers := map[string]string{}
	for _, sc := range bd.SourceClasses() {
		supers[sc.Sym().Name()] = sc.Super().Name()
	}
	wantSupers := map[string]string{
		"a/A":         "java/lang/Object",
		"a/A$Inner1":  "b/B",
		"a/A$Inner2":  "a/A$Inner1",
		"b/B":         "a/A",
	}
	if diff := cmp.Diff(wantSupers, supers); diff != "" {
		t.Errorf("superclass mismatch (-want +got):\n%s", diff)
	}
}

// TestCycleDetected is scenario S2: two classes whose inner classes extend
// each other form a cycle, which must be reported rather than silently
// accepted or causing an infinite loop.
func TestCycleDetected(t *testing.T) {
	a := mustParse(t, "a/A.java", `
package a;
public class A { public class X extends b.B.Y {} }
`)
	b := mustParse(t, "b/B.java", `
package b;
public class B { public class Y extends a.A.X {} }
`)

	bd := New([]*ast.CompilationUnit{a, b}, nil, nil)
	bd.Run()

	found := false
	for _, d := range bd.Diags.All() {
		if strings.Contains(strings.ToLower(d.Message), "cycle") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a cycle diagnostic, got: %v", bd.Diags.All())
	}
}

// TestToleratedUnresolvedImport is scenario S3: an import that can never be
// resolved must not fail binding as long as nothing actually references it.
func TestToleratedUnresolvedImport(t *testing.T) {
	a := mustParse(t, "a/A.java", `
package a;
import no.such.Class;
public class A {}
`)

	bd := New([]*ast.CompilationUnit{a}, nil, nil)
	bd.Run()

	if len(bd.Diags.All()) != 0 {
		t.Errorf("unresolved on-demand-unused import should not fail binding, got: %v", bd.Diags.All())
	}
}

// TestDuplicateDeclaration is scenario S5: two top-level declarations in the
// same compilation unit claim the same binary name, which must be reported
// as a diagnostic rather than silently keeping one of the two (or panicking
// when the second tries to overwrite the first's bound state).
func TestDuplicateDeclaration(t *testing.T) {
	a := mustParse(t, "a/A.java", `
package a;
public class A {}
public class A {}
`)

	bd := New([]*ast.CompilationUnit{a}, nil, nil)
	bd.Run()

	found := false
	for _, d := range bd.Diags.All() {
		if strings.Contains(d.Message, "duplicate declaration") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a duplicate-declaration diagnostic, got: %v", bd.Diags.All())
	}

	classes := bd.SourceClasses()
	if len(classes) != 1 {
		t.Errorf("SourceClasses() = %d entries, want 1 (the second declaration must not register)", len(classes))
	}
}
