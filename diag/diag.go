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

// Package diag formats and collects compiler diagnostics: one per malformed
// source, unresolvable symbol, hierarchy cycle, or duplicate declaration.
// Diagnostics are collected rather than fatal on first sight, so a single
// invocation reports as many independent problems as possible.
package diag

import (
	"fmt"
	"strings"

	"github.com/bazelbuild/headergen/ast"
	"github.com/bazelbuild/headergen/color"
)

// Severity distinguishes a hard compilation error from advisory output.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Diagnostic is a single reported problem, carrying enough to print a
// caret-annotated source excerpt.
type Diagnostic struct {
	Pos      ast.Pos
	Severity Severity
	Message  string
	// Line is the full text of the source line Pos.Line names, used to draw
	// the caret underneath the offending column. Empty if unavailable (e.g.
	// a diagnostic synthesized from classpath data with no source text).
	Line string
}

// String formats d as "path:line:col: message", matching the format
// real compilers use so editors and build logs can parse it.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s", d.Pos.Path, d.Pos.Line, d.Pos.Column, d.Message)
}

// Colorize renders d for a terminal: the location/message line in bold (red
// for an error, plain bold otherwise), followed by the source line and a
// caret pointing at Pos.Column, when Line is available.
func (d Diagnostic) Colorize() string {
	head := d.String()
	if d.Severity == SeverityError {
		head = color.BoldRed(head)
	} else {
		head = color.Bold(head)
	}
	if d.Line == "" {
		return head
	}
	caret := strings.Repeat(" ", max(0, d.Pos.Column-1)) + color.Red("^")
	return head + "\n" + d.Line + "\n" + caret
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// List accumulates Diagnostics across a compilation. A List is not safe for
// concurrent use.
type List struct {
	diags []Diagnostic
}

// Add appends a diagnostic.
func (l *List) Add(d Diagnostic) {
	l.diags = append(l.diags, d)
}

// Errorf appends an error-severity diagnostic at pos.
func (l *List) Errorf(pos ast.Pos, format string, args ...interface{}) {
	l.Add(Diagnostic{Pos: pos, Severity: SeverityError, Message: fmt.Sprintf(format, args...)})
}

// HasErrors reports whether any accumulated diagnostic is error-severity.
func (l *List) HasErrors() bool {
	for _, d := range l.diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// All returns every accumulated diagnostic, in report order.
func (l *List) All() []Diagnostic {
	return l.diags
}
