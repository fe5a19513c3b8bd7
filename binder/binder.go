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

// Package binder implements the four-phase resolver at the core of the
// header compiler: Enter, Header, Type, and Constant. Each phase is a
// complete pass over every source unit; between phases the previous
// phase's results are frozen and only read, never mutated, by the phase
// that follows.
package binder

import (
	"github.com/bazelbuild/headergen/ast"
	"github.com/bazelbuild/headergen/bound"
	"github.com/bazelbuild/headergen/classpath"
	"github.com/bazelbuild/headergen/constant"
	"github.com/bazelbuild/headergen/diag"
	"github.com/bazelbuild/headergen/index"
	"github.com/bazelbuild/headergen/symbol"
)

// Binder runs the four phases over a set of parsed compilation units plus a
// classpath environment, producing bound classes the lowerer consumes.
type Binder struct {
	Pool    *symbol.Pool
	Index   *index.Index
	Diags   *diag.List
	Classpath *classpath.Environment // transitive classpath, may be nil.
	Boot      *classpath.Environment // bootclasspath, may be nil.

	units []*ast.CompilationUnit

	sources        map[string]*bound.SourceClass // binary name -> class
	order          []string                      // binary names in deterministic Enter order
	classpathCache map[string]*bound.ClasspathClass

	constResolver *constant.Resolver
}

// New returns a Binder over units, resolving classpath references against
// cp (transitive classpath) and boot (bootclasspath).
func New(units []*ast.CompilationUnit, cp, boot *classpath.Environment) *Binder {
	pool := symbol.NewPool()
	b := &Binder{
		Pool:           pool,
		Index:          index.New(pool),
		Diags:          &diag.List{},
		Classpath:      cp,
		Boot:           boot,
		units:          units,
		sources:        make(map[string]*bound.SourceClass),
		classpathCache: make(map[string]*bound.ClasspathClass),
	}
	b.constResolver = constant.NewResolver(b.evalConstField)
	return b
}

// Run executes all four phases in order. No phase stops the run early:
// diagnostics from Enter or Header do not prevent Type and Constant from
// running, and those phases tolerate individual per-class errors and keep
// going, per the "accrue diagnostics" propagation rule.
func (b *Binder) Run() {
	b.Enter()
	b.Header()
	b.Type()
	b.Constant()
}

// Class resolves sym to its bound Class, whether it's a source declaration
// or a classpath entry. Returns nil if sym is unknown to both.
func (b *Binder) Class(sym *symbol.ClassSymbol) bound.Class {
	if sc, ok := b.sources[sym.Name()]; ok {
		return sc
	}
	if cc, ok := b.classpathCache[sym.Name()]; ok {
		return cc
	}
	for _, env := range []*classpath.Environment{b.Classpath, b.Boot} {
		if env == nil {
			continue
		}
		if src, ok := env.Lookup(sym.Name()); ok {
			cc := bound.NewClasspathClass(sym, src, b.Pool)
			b.classpathCache[sym.Name()] = cc
			return cc
		}
	}
	return nil
}

// SourceClasses returns every source-declared class in source declaration
// order, matching the jar output ordering guarantee.
func (b *Binder) SourceClasses() []*bound.SourceClass {
	result := make([]*bound.SourceClass, len(b.order))
	for i, n := range b.order {
		result[i] = b.sources[n]
	}
	return result
}
