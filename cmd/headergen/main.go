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

// The headergen command consumes Java sources and a classpath and emits a
// jar containing only their API surface: signatures and constants, no
// method bodies. See spec.md for the full pipeline.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/bazelbuild/headergen/ast"
	"github.com/bazelbuild/headergen/binder"
	"github.com/bazelbuild/headergen/bound"
	"github.com/bazelbuild/headergen/classpath"
	"github.com/bazelbuild/headergen/color"
	"github.com/bazelbuild/headergen/deps"
	"github.com/bazelbuild/headergen/depspb"
	"github.com/bazelbuild/headergen/driver"
	"github.com/bazelbuild/headergen/jarwriter"
	"github.com/bazelbuild/headergen/lower"
	"github.com/bazelbuild/headergen/options"
	"github.com/bazelbuild/headergen/parse"
	"github.com/bazelbuild/headergen/symbol"
	"github.com/bazelbuild/headergen/trim"
	"github.com/bazelbuild/headergen/vlog"
)

func main() {
	o, _, err := options.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "headergen: %v\n", err)
		os.Exit(1)
	}
	vlog.Level = o.Vlevel()
	color.Enabled = o.Color && isTerminal(os.Stderr)

	if err := run(o); err != nil {
		fmt.Fprintf(os.Stderr, "headergen: %v\n", err)
		os.Exit(1)
	}
}

func run(o *options.Options) error {
	units, err := loadUnits(o)
	if err != nil {
		return err
	}

	records, err := loadDepsArtifacts(o.DepsArtifacts)
	if err != nil {
		return err
	}

	boot, err := bootclasspathEnv(o)
	if err != nil {
		return err
	}

	mode := o.Mode()
	vlog.V(1).Printf("binding %d units, mode=%v, classpath=%d entries", len(units), mode, len(o.Classpath))
	result, err := driver.Run(mode, units, o.Classpath, o.DirectDependencies, records, boot)
	if err != nil {
		return fmt.Errorf("binding failed: %w", err)
	}

	if result.ExternalFallbackRequested {
		vlog.V(1).Printf("reduced classpath insufficient, requesting external fallback")
		d := &depspb.Dependencies{
			RuleLabel:                        o.TargetLabel,
			ReducedClasspath:                 int32(result.ReducedClasspathSize),
			TransitiveClasspath:              int32(result.TransitiveClasspathSize),
			RequiresReducedClasspathFallback: true,
		}
		return writeDepsOutput(o.OutputDeps, d)
	}

	b := result.Binder
	for _, d := range b.Diags.All() {
		fmt.Fprintln(os.Stderr, d.Colorize())
	}
	if b.Diags.HasErrors() {
		return fmt.Errorf("compilation failed with errors")
	}

	if err := writeHeaderJar(o, b); err != nil {
		return err
	}

	if o.OutputDeps != "" {
		d := deps.Collect(b, o.TargetLabel)
		d.ReducedClasspath = int32(result.ReducedClasspathSize)
		d.TransitiveClasspath = int32(result.TransitiveClasspathSize)
		if result.Mode == driver.FALLBACK {
			d.RequiresReducedClasspathFallback = true
		}
		if err := writeDepsOutput(o.OutputDeps, d); err != nil {
			return err
		}
	}

	return nil
}

func loadUnits(o *options.Options) ([]*ast.CompilationUnit, error) {
	var units []*ast.CompilationUnit
	for _, path := range o.Sources {
		cu, err := parse.File(path)
		if err != nil {
			return nil, err
		}
		units = append(units, cu)
	}
	for _, path := range o.SourceJars {
		jarUnits, err := parse.SourceJar(path)
		if err != nil {
			return nil, err
		}
		units = append(units, jarUnits...)
	}
	return units, nil
}

func loadDepsArtifacts(paths []string) ([]*depspb.Dependencies, error) {
	var records []*depspb.Dependencies
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading deps artifact %s: %w", p, err)
		}
		d, err := depspb.Unmarshal(data)
		if err != nil {
			return nil, fmt.Errorf("parsing deps artifact %s: %w", p, err)
		}
		records = append(records, d)
	}
	return records, nil
}

// bootclasspathEnv prefers an explicit --bootclasspath archive list; falls
// back to the platform-image/--release path otherwise, matching the CLI
// table's "--bootclasspath" vs "--system"/"--release" split.
func bootclasspathEnv(o *options.Options) (*classpath.Environment, error) {
	if len(o.Bootclasspath) > 0 {
		return classpath.NewEnvironment(o.Bootclasspath)
	}
	img := classpath.PlatformImage{SystemRoot: o.System, Release: o.Release}
	return img.NewEnvironment()
}

// writeHeaderJar lowers every source-declared class bound by b, plus the
// trimmed transitive supertype closure spec.md §4.7 describes (classpath
// supertypes of a compiled class, re-emitted under trim.OutputPrefix so a
// downstream consumer can compile against headers without the full
// transitive classpath), and writes them all, plus a stamped manifest, to
// o.Output.
func writeHeaderJar(o *options.Options, b *binder.Binder) error {
	sourceClasses := b.SourceClasses()
	classes := make([]bound.Class, len(sourceClasses))
	for i, sc := range sourceClasses {
		classes[i] = sc
	}

	classFiles := lower.All(classes)
	entries := make([]jarwriter.Entry, len(classFiles))
	for i, cf := range classFiles {
		entries[i] = jarwriter.Entry{BinaryName: sourceClasses[i].Sym().Name(), Class: cf}
	}

	transitive := transitiveClasspathClosure(b)
	if len(transitive) > 0 {
		vlog.V(1).Printf("emitting %d trimmed transitive header(s) under %s", len(transitive), trim.OutputPrefix)
		trimmedFiles := lower.All(transitive)
		for i, cf := range trimmedFiles {
			entries = append(entries, jarwriter.Entry{BinaryName: trim.OutputPrefix + transitive[i].Sym().Name(), Class: cf})
		}
	}

	out, err := os.Create(o.Output)
	if err != nil {
		return fmt.Errorf("creating %s: %w", o.Output, err)
	}
	defer out.Close()

	manifest := jarwriter.Manifest{TargetLabel: o.TargetLabel, InjectingRuleKind: o.InjectingRuleKind}
	if err := jarwriter.Write(out, entries, manifest); err != nil {
		return fmt.Errorf("writing %s: %w", o.Output, err)
	}
	return nil
}

// transitiveClasspathClosure walks the supertype and interface chain of
// every directly-compiled class and returns the trimmed (trim.Class) view
// of each classpath-resident ancestor it finds, in deterministic (sorted
// binary-name) order. A class that lives only on the bootclasspath, or
// that isn't found at all (already reported as a Header-phase diagnostic),
// is never included: the bootclasspath is always fully available to a
// downstream consumer, so re-emitting it under the transitive prefix would
// be dead weight.
func transitiveClasspathClosure(b *binder.Binder) []bound.Class {
	isSource := make(map[string]bool, len(b.SourceClasses()))
	for _, sc := range b.SourceClasses() {
		isSource[sc.Sym().Name()] = true
	}

	visited := make(map[string]bool)
	var order []string

	var walk func(sym *symbol.ClassSymbol)
	walk = func(sym *symbol.ClassSymbol) {
		if sym == nil || sym.Name() == "" || visited[sym.Name()] {
			return
		}
		visited[sym.Name()] = true
		if isSource[sym.Name()] {
			return
		}
		if b.Classpath == nil {
			return
		}
		if _, ok := b.Classpath.Lookup(sym.Name()); !ok {
			return
		}
		cls := b.Class(sym)
		if cls == nil {
			return
		}
		order = append(order, sym.Name())
		walk(cls.Super())
		for _, i := range cls.Interfaces() {
			walk(i)
		}
	}

	for _, sc := range b.SourceClasses() {
		walk(sc.Super())
		for _, i := range sc.Interfaces() {
			walk(i)
		}
	}

	sort.Strings(order)
	out := make([]bound.Class, len(order))
	for i, name := range order {
		out[i] = trim.Class(b.Class(b.Pool.Class(name)))
	}
	return out
}

// isTerminal reports whether f is connected to a terminal, the same check
// spec.md §6 implies by "if stdout or stderr are not terminals, the output
// will not be colorized".
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func writeDepsOutput(path string, d *depspb.Dependencies) error {
	if path == "" {
		return nil
	}
	data, err := depspb.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshaling dependency record: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
