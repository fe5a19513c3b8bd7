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

// Package index builds the top-level scope over every fully-qualified name
// the binder can see: source declarations plus classpath entries.
package index

import (
	"strings"

	"github.com/bazelbuild/headergen/symbol"
)

// role distinguishes which of "class" or "package" a given name prefix was
// first observed as.
type role int

const (
	roleClass role = iota
	rolePackage
)

// Index is the top-level name index. For any prefix observed as both a
// class and a package, the first declaration wins; the other role becomes
// invisible from top-level lookups, matching how source classpaths that mix
// "java/Foo.class" and "java/Foo/Bar.class" actually resolve.
type Index struct {
	pool *symbol.Pool

	// firstRole records, for every '/'-joined prefix ever observed, which
	// role it was first added under.
	firstRole map[string]role
	// classes holds every class binary name actually declared (as opposed
	// to merely being a package-name prefix of one).
	classes map[string]bool
}

// New returns an empty Index backed by pool for symbol interning.
func New(pool *symbol.Pool) *Index {
	return &Index{
		pool:      pool,
		firstRole: make(map[string]role),
		classes:   make(map[string]bool),
	}
}

// AddClass registers a fully-qualified class binary name as known (from a
// source declaration or a classpath entry). Every package-name prefix of
// name is registered as a package role unless it was already claimed by an
// earlier class declaration.
func (idx *Index) AddClass(binaryName string) {
	if idx.classes[binaryName] {
		return
	}
	idx.classes[binaryName] = true
	idx.claim(binaryName, roleClass)

	pkg := binaryName
	for {
		slash := strings.LastIndexByte(pkg, '/')
		if slash < 0 {
			return
		}
		pkg = pkg[:slash]
		if _, ok := idx.firstRole[pkg]; ok {
			return // once a prefix has a role, its ancestors do too.
		}
		idx.claim(pkg, rolePackage)
	}
}

func (idx *Index) claim(name string, r role) {
	if _, ok := idx.firstRole[name]; !ok {
		idx.firstRole[name] = r
	}
}

// LookupResult is the outcome of a top-level Lookup: either a class symbol
// plus the dotted path of nested-class segments still to resolve, or
// nothing.
type LookupResult struct {
	Sym   *symbol.ClassSymbol
	Rest  []string // remaining simple names, to be resolved as nested classes.
	Found bool
}

// Lookup resolves a dotted fully-qualified name (e.g. "a.b.Outer.Inner") to
// the longest class-name prefix known to the index, returning any leftover
// dotted segments as nested-class lookups for the caller to chase.
func (idx *Index) Lookup(dotted string) LookupResult {
	segments := strings.Split(dotted, ".")
	// Try the longest possible package/class binary-name prefix first,
	// shrinking one segment at a time, since a dotted name's package/class
	// boundary isn't knowable without the index.
	for i := len(segments); i > 0; i-- {
		candidate := strings.Join(segments[:i], "/")
		if idx.firstRole[candidate] == roleClass && idx.classes[candidate] {
			return LookupResult{Sym: idx.pool.Class(candidate), Rest: segments[i:], Found: true}
		}
	}
	return LookupResult{}
}

// LookupPackage returns the package symbol for a slash-separated name if it
// was observed in package role (and not shadowed by an earlier class
// declaration of the same prefix).
func (idx *Index) LookupPackage(name string) (*symbol.PackageSymbol, bool) {
	if idx.firstRole[name] != rolePackage {
		return nil, false
	}
	return idx.pool.Package(name), true
}

// Scope resolves a single-type or on-demand import's target, for building
// the per-file import scope consumed by name resolution.
type Scope struct {
	idx *Index
}

// NewScope returns a name resolver over idx's classes, used for top-level
// import resolution.
func NewScope(idx *Index) *Scope { return &Scope{idx: idx} }

// Resolve looks up a fully-qualified dotted class name to its symbol.
func (s *Scope) Resolve(dotted string) (*symbol.ClassSymbol, bool) {
	res := s.idx.Lookup(dotted)
	if !res.Found || len(res.Rest) > 0 {
		return nil, false
	}
	return res.Sym, true
}
