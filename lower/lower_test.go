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

package lower

import (
	"testing"

	"github.com/bazelbuild/headergen/ast"
	"github.com/bazelbuild/headergen/binder"
	"github.com/bazelbuild/headergen/bound"
	"github.com/bazelbuild/headergen/parse"
)

func TestClassLowersHierarchyAndMembers(t *testing.T) {
	parentSrc, err := parse.Source("p/Parent.java", `
package p;
public class Parent {
	public int value;
	public void run() {}
}
`)
	if err != nil {
		t.Fatalf("parsing Parent failed: %v", err)
	}
	childSrc, err := parse.Source("p/Child.java", `
package p;
public final class Child extends Parent {
	public static final int LIMIT = 10;
}
`)
	if err != nil {
		t.Fatalf("parsing Child failed: %v", err)
	}

	bd := binder.New([]*ast.CompilationUnit{parentSrc, childSrc}, nil, nil)
	bd.Run()
	if len(bd.Diags.All()) != 0 {
		t.Fatalf("unexpected diagnostics: %v", bd.Diags.All())
	}

	childClass := bd.Class(bd.Pool.Class("p/Child"))
	if childClass == nil {
		t.Fatalf("p/Child not bound")
	}

	cf := Class(childClass)
	if cf.MajorVersion != majorVersion53 {
		t.Errorf("MajorVersion = %d, want %d", cf.MajorVersion, majorVersion53)
	}
	if got := cf.ConstantPool.ClassNameAt(cf.ThisClass); got != "p/Child" {
		t.Errorf("ThisClass = %q, want p/Child", got)
	}
	if got := cf.ConstantPool.ClassNameAt(cf.SuperClass); got != "p/Parent" {
		t.Errorf("SuperClass = %q, want p/Parent", got)
	}
	if cf.AccessFlags&0x0010 == 0 { // AccFinal
		t.Errorf("AccessFlags = %#x, missing ACC_FINAL for a final class", cf.AccessFlags)
	}
	if len(cf.Fields) != 1 {
		t.Fatalf("Fields = %d, want 1 (LIMIT)", len(cf.Fields))
	}
	if got := cf.ConstantPool.UTF8At(cf.Fields[0].NameIndex); got != "LIMIT" {
		t.Errorf("field name = %q, want LIMIT", got)
	}
	if len(cf.Methods) != 0 {
		t.Errorf("Methods = %d, want 0 (Child declares none of its own)", len(cf.Methods))
	}
}

func TestAllLowersEveryClassIndependently(t *testing.T) {
	src, err := parse.Source("q/Q.java", `
package q;
public class Q {}
`)
	if err != nil {
		t.Fatalf("parsing failed: %v", err)
	}
	bd := binder.New([]*ast.CompilationUnit{src}, nil, nil)
	bd.Run()

	sourceClasses := bd.SourceClasses()
	classes := make([]bound.Class, len(sourceClasses))
	for i, sc := range sourceClasses {
		classes[i] = sc
	}

	out := All(classes)
	if len(out) != 1 {
		t.Fatalf("All() returned %d class files, want 1", len(out))
	}
	if got := out[0].ConstantPool.ClassNameAt(out[0].ThisClass); got != "q/Q" {
		t.Errorf("ThisClass = %q, want q/Q", got)
	}
}
