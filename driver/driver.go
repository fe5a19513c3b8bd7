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

// Package driver controls whether a compilation runs against the full
// classpath or tries a reduced one first, and decides what to do when a
// reduced attempt turns out to be insufficient.
package driver

import (
	"strings"

	"github.com/bazelbuild/headergen/ast"
	"github.com/bazelbuild/headergen/binder"
	"github.com/bazelbuild/headergen/classpath"
	"github.com/bazelbuild/headergen/deps"
	"github.com/bazelbuild/headergen/depspb"
)

// Mode selects the reduced-classpath strategy, set from --reduce_classpath_mode.
type Mode int

const (
	// FULL always binds against the full classpath; no speculation.
	FULL Mode = iota
	// REDUCED_ATTEMPT tries the reduced classpath first, retrying against
	// the full classpath in-process if a symbol escapes unresolved.
	REDUCED_ATTEMPT
	// FALLBACK is REDUCED_ATTEMPT's internal state once a retry is in
	// progress; callers never set this directly.
	FALLBACK
	// EXTERNAL_FALLBACK tries the reduced classpath and, on failure, writes
	// a marker and exits successfully instead of retrying in-process,
	// signaling the caller (a build system action) to rerun with the full
	// classpath itself.
	EXTERNAL_FALLBACK
	// DISABLED behaves like FULL; kept as a distinct named mode because it's
	// a distinct flag value a caller can select explicitly.
	DISABLED
)

// Result reports which classpath a Run ended up binding against.
type Result struct {
	// Mode is the driver state the run ended in: FULL, REDUCED_ATTEMPT
	// (reduced classpath succeeded), FALLBACK (reduced classpath failed, full
	// classpath used instead), or EXTERNAL_FALLBACK (reduced classpath failed
	// and no retry was made).
	Mode Mode
	// Binder is the completed Binder, ready for lowering; nil when
	// ExternalFallbackRequested is set.
	Binder *binder.Binder
	// ExternalFallbackRequested is set instead of retrying in-process when
	// Mode is EXTERNAL_FALLBACK and the reduced attempt didn't suffice: the
	// caller should rerun headergen against the full classpath itself.
	ExternalFallbackRequested bool
	// ReducedClasspathSize and TransitiveClasspathSize record the archive
	// counts actually used, for the dependency record's fallback-accounting
	// fields.
	ReducedClasspathSize    int
	TransitiveClasspathSize int
}

// Run binds units, choosing a classpath according to mode. full is the
// complete transitive classpath (in build order); direct is the
// direct-dependencies subset; records are previously-recorded dependency
// records ReduceClasspath uses to compute the reduced candidate.
func Run(mode Mode, units []*ast.CompilationUnit, full, direct []string, records []*depspb.Dependencies, boot *classpath.Environment) (*Result, error) {
	if mode == FULL || mode == DISABLED {
		env, err := classpath.NewEnvironment(full)
		if err != nil {
			return nil, err
		}
		b := binder.New(units, env, boot)
		b.Run()
		return &Result{Mode: FULL, Binder: b, TransitiveClasspathSize: len(full)}, nil
	}

	reduced := deps.ReduceClasspath(full, direct, records)
	reducedEnv, err := classpath.NewEnvironment(reduced)
	if err != nil {
		return nil, err
	}
	b := binder.New(units, reducedEnv, boot)
	b.Run()

	if !hasSymbolNotFound(b) {
		return &Result{
			Mode:                    REDUCED_ATTEMPT,
			Binder:                  b,
			ReducedClasspathSize:    len(reduced),
			TransitiveClasspathSize: len(full),
		}, nil
	}

	if mode == EXTERNAL_FALLBACK {
		return &Result{
			Mode:                      EXTERNAL_FALLBACK,
			ExternalFallbackRequested: true,
			ReducedClasspathSize:      len(reduced),
			TransitiveClasspathSize:   len(full),
		}, nil
	}

	fullEnv, err := classpath.NewEnvironment(full)
	if err != nil {
		return nil, err
	}
	fb := binder.New(units, fullEnv, boot)
	fb.Run()
	return &Result{
		Mode:                    FALLBACK,
		Binder:                  fb,
		ReducedClasspathSize:    len(reduced),
		TransitiveClasspathSize: len(full),
	}, nil
}

// hasSymbolNotFound reports whether any diagnostic the binder produced is a
// name-resolution failure, the only class of error a reduced classpath can
// cause that the full classpath wouldn't.
func hasSymbolNotFound(b *binder.Binder) bool {
	for _, d := range b.Diags.All() {
		if strings.Contains(d.Message, "cannot find symbol") {
			return true
		}
	}
	return false
}
