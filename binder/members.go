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
)

// AllMembers is the union of a class's declared and inherited fields and
// methods, visible from outside the class. Constructors never inherit, and
// an override (same name, same parameter count, declared closer to the
// class) hides the inherited method it overrides rather than appearing
// twice.
type AllMembers struct {
	Fields  []*bound.FieldBinding
	Methods []*bound.MethodBinding
}

// AllMembers walks cls's supertype chain, nearest ancestor first, and
// returns every visible field and method. A field or method declared
// directly on cls always wins over one inherited with the same name (field
// shadowing and method overriding both work this way); among inherited
// members, the one found first (closest ancestor) wins.
func (b *Binder) AllMembers(cls bound.Class) AllMembers {
	var out AllMembers
	seenFields := make(map[string]bool)
	seenMethods := make(map[string]bool)

	var walk func(c bound.Class, isSelf bool)
	walk = func(c bound.Class, isSelf bool) {
		if c == nil {
			return
		}
		for _, f := range c.Fields() {
			if seenFields[f.Sym.Name] {
				continue
			}
			if !isSelf && !isInheritable(f.Access) {
				continue
			}
			seenFields[f.Sym.Name] = true
			out.Fields = append(out.Fields, f)
		}
		for _, m := range c.Methods() {
			if m.Sym.Name == "<init>" || m.Sym.Name == "<clinit>" {
				continue // constructors and static initializers never inherit.
			}
			key := methodKey(m)
			if seenMethods[key] {
				continue
			}
			if !isSelf && !isInheritable(m.Access) {
				continue
			}
			seenMethods[key] = true
			out.Methods = append(out.Methods, m)
		}

		if super := c.Super(); super != nil && super.Name() != "" {
			walk(b.Class(super), false)
		}
		for _, iface := range c.Interfaces() {
			walk(b.Class(iface), false)
		}
	}
	walk(cls, true)
	return out
}

// isInheritable reports whether a member with the given access flags is
// visible to a subclass at all (private members never are; package-private
// members are, within the same package, a distinction the header compiler
// doesn't need to enforce since it only aggregates the member's existence
// and shape, not access-control errors).
func isInheritable(access ast.AccessFlags) bool {
	return access&ast.AccPrivate == 0
}

// methodKey approximates "same name and subsignature" with name plus
// parameter count: overload resolution proper needs parameter types too,
// but the header compiler only needs to avoid listing a plainly-overridden
// method twice, not to pick the most specific overload.
func methodKey(m *bound.MethodBinding) string {
	key := m.Sym.Name
	for range m.Params {
		key += ",?"
	}
	return key
}
