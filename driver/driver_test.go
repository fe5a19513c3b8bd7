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

package driver

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/bazelbuild/headergen/ast"
	"github.com/bazelbuild/headergen/binary"
	"github.com/bazelbuild/headergen/depspb"
	"github.com/bazelbuild/headergen/parse"
)

// writeIndirectJar writes a jar at path containing one real, parseable
// class file for binary name "p/Indirect" extending java/lang/Object: enough
// for the binder to both confirm the name exists (the reduced-classpath
// check) and walk its supertype chain (the full-classpath retry's cycle
// check and Type phase).
func writeIndirectJar(t *testing.T, path string) {
	t.Helper()
	cp := &binary.ConstantPool{Entries: []binary.CpEntry{{}}}
	this := cp.AddClass("p/Indirect")
	super := cp.AddClass("java/lang/Object")
	cf := &binary.ClassFile{
		MinorVersion: 0,
		MajorVersion: 53,
		ConstantPool: cp,
		ThisClass:    this,
		SuperClass:   super,
	}
	data := binary.Write(cf)

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating %s: %v", path, err)
	}
	defer f.Close()
	zw := zip.NewWriter(f)
	w, err := zw.Create("p/Indirect.class")
	if err != nil {
		t.Fatalf("creating zip entry: %v", err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("writing zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing %s: %v", path, err)
	}
}

// directJar is an empty archive: the direct dependency is on the classpath,
// but it contributes no binary names, so Main's "extends p.Indirect" only
// resolves once the indirect jar is also present.
func writeDirectJar(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating %s: %v", path, err)
	}
	defer f.Close()
	zw := zip.NewWriter(f)
	if err := zw.Close(); err != nil {
		t.Fatalf("closing %s: %v", path, err)
	}
}

func mainUnit(t *testing.T) *ast.CompilationUnit {
	t.Helper()
	u, err := parse.Source("q/Main.java", `
package q;
public class Main extends p.Indirect {
}
`)
	if err != nil {
		t.Fatalf("parsing Main.java failed: %v", err)
	}
	return u
}

// TestRunReducedAttemptFallsBackToFullClasspath exercises S7: the reduced
// classpath (direct dependencies only) omits the indirect jar Main's
// superclass lives in, so the reduced attempt reports "cannot find symbol"
// and Run retries against the full classpath, succeeding there.
func TestRunReducedAttemptFallsBackToFullClasspath(t *testing.T) {
	dir := t.TempDir()
	directPath := filepath.Join(dir, "direct.jar")
	indirectPath := filepath.Join(dir, "indirect.jar")
	writeDirectJar(t, directPath)
	writeIndirectJar(t, indirectPath)

	full := []string{directPath, indirectPath}
	direct := []string{directPath}

	result, err := Run(REDUCED_ATTEMPT, []*ast.CompilationUnit{mainUnit(t)}, full, direct, nil, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Mode != FALLBACK {
		t.Fatalf("Mode = %v, want FALLBACK", result.Mode)
	}
	if result.ExternalFallbackRequested {
		t.Errorf("ExternalFallbackRequested = true, want false (REDUCED_ATTEMPT retries in-process)")
	}
	if result.ReducedClasspathSize != len(direct) {
		t.Errorf("ReducedClasspathSize = %d, want %d", result.ReducedClasspathSize, len(direct))
	}
	if result.TransitiveClasspathSize != len(full) {
		t.Errorf("TransitiveClasspathSize = %d, want %d", result.TransitiveClasspathSize, len(full))
	}
	if result.Binder.Diags.HasErrors() {
		t.Errorf("unexpected diagnostics after the full-classpath retry: %v", result.Binder.Diags.All())
	}
}

// TestRunReducedAttemptSucceedsWithoutFallback checks the other branch of
// S7: when the reduced classpath already resolves every symbol, Run reports
// REDUCED_ATTEMPT and never touches the full classpath.
func TestRunReducedAttemptSucceedsWithoutFallback(t *testing.T) {
	dir := t.TempDir()
	directPath := filepath.Join(dir, "direct.jar")
	indirectPath := filepath.Join(dir, "indirect.jar")
	writeIndirectJar(t, directPath) // the direct jar itself has what Main needs.
	writeIndirectJar(t, indirectPath)

	full := []string{directPath, indirectPath}
	direct := []string{directPath}

	result, err := Run(REDUCED_ATTEMPT, []*ast.CompilationUnit{mainUnit(t)}, full, direct, nil, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Mode != REDUCED_ATTEMPT {
		t.Fatalf("Mode = %v, want REDUCED_ATTEMPT", result.Mode)
	}
	if result.ReducedClasspathSize != len(direct) {
		t.Errorf("ReducedClasspathSize = %d, want %d", result.ReducedClasspathSize, len(direct))
	}
}

// TestRunExternalFallbackRequestsInsteadOfRetrying exercises the
// EXTERNAL_FALLBACK path: on the same insufficient-reduced-classpath setup
// as TestRunReducedAttemptFallsBackToFullClasspath, Run must report
// ExternalFallbackRequested and never bind against the full classpath
// in-process (no Binder is produced).
func TestRunExternalFallbackRequestsInsteadOfRetrying(t *testing.T) {
	dir := t.TempDir()
	directPath := filepath.Join(dir, "direct.jar")
	indirectPath := filepath.Join(dir, "indirect.jar")
	writeDirectJar(t, directPath)
	writeIndirectJar(t, indirectPath)

	full := []string{directPath, indirectPath}
	direct := []string{directPath}

	result, err := Run(EXTERNAL_FALLBACK, []*ast.CompilationUnit{mainUnit(t)}, full, direct, nil, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Mode != EXTERNAL_FALLBACK {
		t.Fatalf("Mode = %v, want EXTERNAL_FALLBACK", result.Mode)
	}
	if !result.ExternalFallbackRequested {
		t.Fatalf("ExternalFallbackRequested = false, want true")
	}
	if result.Binder != nil {
		t.Errorf("Binder = %v, want nil: EXTERNAL_FALLBACK must not bind in-process", result.Binder)
	}
}

// TestRunDisabledBindsAgainstFullClasspath checks that DISABLED behaves like
// FULL: it binds directly against the full classpath and never consults
// records or the reduced-classpath machinery at all, so Main resolves even
// though direct only lists the (empty) direct jar.
func TestRunDisabledBindsAgainstFullClasspath(t *testing.T) {
	dir := t.TempDir()
	directPath := filepath.Join(dir, "direct.jar")
	indirectPath := filepath.Join(dir, "indirect.jar")
	writeDirectJar(t, directPath)
	writeIndirectJar(t, indirectPath)

	full := []string{directPath, indirectPath}
	direct := []string{directPath}

	result, err := Run(DISABLED, []*ast.CompilationUnit{mainUnit(t)}, full, direct, nil, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Mode != FULL {
		t.Fatalf("Mode = %v, want FULL", result.Mode)
	}
	if result.Binder.Diags.HasErrors() {
		t.Errorf("unexpected diagnostics: %v", result.Binder.Diags.All())
	}
}

// TestHasSymbolNotFound exercises the substring match Run's fallback
// decision hinges on directly, independent of a full Run, by binding a
// compilation unit whose superclass cannot be found anywhere.
func TestHasSymbolNotFound(t *testing.T) {
	dir := t.TempDir()
	emptyPath := filepath.Join(dir, "empty.jar")
	writeDirectJar(t, emptyPath)

	full := []string{emptyPath}
	result, err := Run(FULL, []*ast.CompilationUnit{mainUnit(t)}, full, nil, []*depspb.Dependencies{}, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !hasSymbolNotFound(result.Binder) {
		t.Errorf("hasSymbolNotFound = false, want true (p.Indirect is nowhere on the classpath)")
	}
}
