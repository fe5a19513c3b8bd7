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
	"testing"

	"github.com/bazelbuild/headergen/ast"
)

// TestAllMembersShadowsAndOverrides builds a two-level hierarchy where the
// subclass re-declares a field name from its parent and overrides a method,
// and checks that AllMembers reports the subclass's version of each exactly
// once rather than listing both the declared and inherited copy.
func TestAllMembersShadowsAndOverrides(t *testing.T) {
	parent := mustParse(t, "p/Parent.java", `
package p;
public class Parent {
	public int value;
	private int hidden;
	public void run() {}
	public void base() {}
}
`)
	child := mustParse(t, "p/Child.java", `
package p;
public class Child extends Parent {
	public int value;
	public void run() {}
}
`)

	bd := New([]*ast.CompilationUnit{parent, child}, nil, nil)
	bd.Run()
	if len(bd.Diags.All()) != 0 {
		t.Fatalf("unexpected diagnostics: %v", bd.Diags.All())
	}

	childSym := bd.Pool.Class("p/Child")
	childClass := bd.Class(childSym)
	if childClass == nil {
		t.Fatalf("p/Child not bound")
	}

	members := bd.AllMembers(childClass)

	var fieldNames []string
	fieldOwner := map[string]string{}
	for _, f := range members.Fields {
		fieldNames = append(fieldNames, f.Sym.Name)
		fieldOwner[f.Sym.Name] = f.Sym.Owner.Name()
	}
	sort.Strings(fieldNames)
	wantFields := []string{"value"}
	if len(fieldNames) != len(wantFields) {
		t.Fatalf("field names = %v, want %v (hidden is private and must not inherit)", fieldNames, wantFields)
	}
	if fieldOwner["value"] != "p/Child" {
		t.Errorf("value field owner = %s, want p/Child (subclass declaration should shadow the parent's)", fieldOwner["value"])
	}

	methodOwner := map[string]string{}
	for _, m := range members.Methods {
		methodOwner[m.Sym.Name] = m.Sym.Owner.Name()
	}
	if methodOwner["run"] != "p/Child" {
		t.Errorf("run method owner = %s, want p/Child (override should hide the parent's)", methodOwner["run"])
	}
	if methodOwner["base"] != "p/Parent" {
		t.Errorf("base method owner = %s, want p/Parent (inherited, not overridden)", methodOwner["base"])
	}
}
