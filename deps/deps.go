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

// Package deps computes the dependency record a compilation reports: which
// archives on the classpath actually contributed a class to the supertype
// closure of the classes compiled, and the reduced classpath a later
// compilation can try first.
package deps

import (
	"github.com/bazelbuild/headergen/binder"
	"github.com/bazelbuild/headergen/bound"
	"github.com/bazelbuild/headergen/depspb"
	"github.com/bazelbuild/headergen/symbol"
)

// Collect walks the supertype (super plus interfaces, transitively) closure
// of every class b bound from source and returns one EXPLICIT Dependency per
// archive that contributed a class anywhere in that closure. Archives are
// listed in the order the closure walk first reaches them, which is
// deterministic given Enter's source ordering. Bootclasspath archives are
// never listed: a class found only there is not recorded, though the walk
// still continues through its supertypes.
func Collect(b *binder.Binder, ruleLabel string) *depspb.Dependencies {
	visited := make(map[string]bool)
	var order []string
	archiveIndex := make(map[string]bool)

	var walk func(sym *symbol.ClassSymbol)
	walk = func(sym *symbol.ClassSymbol) {
		if sym == nil || sym.Name() == "" || visited[sym.Name()] {
			return
		}
		visited[sym.Name()] = true

		cls := b.Class(sym)
		if cls == nil {
			return
		}
		if _, isSource := cls.(*bound.SourceClass); !isSource {
			if archive := classpathArchive(b, sym.Name()); archive != "" {
				if !archiveIndex[archive] {
					archiveIndex[archive] = true
					order = append(order, archive)
				}
			}
		}

		walk(cls.Super())
		for _, iface := range cls.Interfaces() {
			walk(iface)
		}
	}

	for _, sc := range b.SourceClasses() {
		walk(sc.Super())
		for _, iface := range sc.Interfaces() {
			walk(iface)
		}
	}

	d := &depspb.Dependencies{RuleLabel: ruleLabel}
	for _, archive := range order {
		d.Dependency = append(d.Dependency, &depspb.Dependency{Path: archive, Kind: depspb.EXPLICIT})
	}
	return d
}

// classpathArchive reports the archive that contributed binaryName, checking
// only the transitive classpath (never the bootclasspath, which deps.Collect
// must not report).
func classpathArchive(b *binder.Binder, binaryName string) string {
	if b.Classpath == nil {
		return ""
	}
	if _, ok := b.Classpath.Lookup(binaryName); !ok {
		return ""
	}
	return b.Classpath.ArchiveOf(binaryName)
}

// ReduceClasspath projects full down to the minimum sufficient subset: every
// entry in direct, plus every archive named by a previous dependency record,
// in full's original relative order. Always a subset of full, per the
// "reduceClasspath preserves order and is a subset" property.
func ReduceClasspath(full, direct []string, records []*depspb.Dependencies) []string {
	keep := make(map[string]bool, len(direct))
	for _, p := range direct {
		keep[p] = true
	}
	for _, rec := range records {
		for _, dep := range rec.Dependency {
			keep[dep.Path] = true
		}
	}
	var out []string
	for _, p := range full {
		if keep[p] {
			out = append(out, p)
		}
	}
	return out
}
