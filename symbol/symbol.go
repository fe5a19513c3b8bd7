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

// Package symbol defines the interned handles the binder uses to refer to
// classes, packages, and members without ever holding a direct pointer to
// another symbol's bound value. Cycles between classes (a superclass that
// lives in the same source set and refers back) are modeled by following a
// symbol through an Env, never by embedding one bound value inside another.
package symbol

import "strings"

// ClassSymbol names a class by its binary name (slash-separated package,
// '$'-separated nesting, e.g. "a/A$Inner1"). ClassSymbols are interned: two
// ClassSymbols with the same Name() are ==.
type ClassSymbol struct {
	name string
}

// PackageSymbol names a package by its slash-separated name (e.g. "a/b"),
// or "" for the unnamed package.
type PackageSymbol struct {
	name string
}

// FieldSymbol names a field declared on Owner.
type FieldSymbol struct {
	Owner *ClassSymbol
	Name  string
}

// MethodSymbol names a method declared on Owner. Overloads are distinguished
// by descriptor once bound; before binding, Name alone is the lookup key.
type MethodSymbol struct {
	Owner *ClassSymbol
	Name  string
}

// ParamSymbol names a parameter of Owner, addressed by position.
type ParamSymbol struct {
	Owner *MethodSymbol
	Index int
	Name  string
}

// TyVarSymbol names a type parameter declared on Owner, which is either a
// *ClassSymbol or a *MethodSymbol.
type TyVarSymbol struct {
	Owner interface{}
	Name  string
}

// Name returns the class's canonical binary name.
func (c *ClassSymbol) Name() string {
	if c == nil {
		return ""
	}
	return c.name
}

// PackageName returns the binary name of the package c is declared in,
// i.e. the portion of Name() before the last '/'.
func (c *ClassSymbol) PackageName() string {
	i := strings.LastIndexByte(c.name, '/')
	if i < 0 {
		return ""
	}
	return c.name[:i]
}

// SimpleName returns the last segment of the binary name: the part after the
// last '/' and, for a nested class, after the last '$' as well.
func (c *ClassSymbol) SimpleName() string {
	n := c.name
	if i := strings.LastIndexByte(n, '/'); i >= 0 {
		n = n[i+1:]
	}
	if i := strings.LastIndexByte(n, '$'); i >= 0 {
		n = n[i+1:]
	}
	return n
}

// String implements fmt.Stringer for diagnostics and logging.
func (c *ClassSymbol) String() string {
	return c.name
}

// Name returns the package's slash-separated binary name.
func (p *PackageSymbol) Name() string {
	if p == nil {
		return ""
	}
	return p.name
}

func (p *PackageSymbol) String() string {
	return p.name
}

// Pool interns ClassSymbols and PackageSymbols so that equal binary names
// always produce the same *ClassSymbol / *PackageSymbol, letting callers
// compare symbols with ==. A Pool is not safe for concurrent use; the binder
// owns exactly one per compilation, used single-threaded within a phase.
type Pool struct {
	classes  map[string]*ClassSymbol
	packages map[string]*PackageSymbol
}

// NewPool returns an empty symbol pool.
func NewPool() *Pool {
	return &Pool{
		classes:  make(map[string]*ClassSymbol),
		packages: make(map[string]*PackageSymbol),
	}
}

// Class returns the interned ClassSymbol for the given binary name, creating
// it if this is the first time name has been seen.
func (p *Pool) Class(name string) *ClassSymbol {
	if c, ok := p.classes[name]; ok {
		return c
	}
	c := &ClassSymbol{name: name}
	p.classes[name] = c
	return c
}

// Package returns the interned PackageSymbol for the given binary name.
func (p *Pool) Package(name string) *PackageSymbol {
	if pk, ok := p.packages[name]; ok {
		return pk
	}
	pk := &PackageSymbol{name: name}
	p.packages[name] = pk
	return pk
}

// Enclosing returns the binary name of the class enclosing name, and true,
// if name denotes a nested class ("Outer$Inner" -> "Outer", true). Returns
// "", false for a top-level class.
func Enclosing(name string) (string, bool) {
	slash := strings.LastIndexByte(name, '/')
	dollar := strings.LastIndexByte(name, '$')
	if dollar < 0 || dollar < slash {
		return "", false
	}
	return name[:dollar], true
}

// Binary joins a package name and a '$'-separated nested-class path into a
// canonical binary name, e.g. Binary("a/b", []string{"Outer", "Inner"}) ->
// "a/b/Outer$Inner".
func Binary(pkg string, simpleNames []string) string {
	var b strings.Builder
	if pkg != "" {
		b.WriteString(pkg)
		b.WriteByte('/')
	}
	for i, s := range simpleNames {
		if i > 0 {
			b.WriteByte('$')
		}
		b.WriteString(s)
	}
	return b.String()
}
