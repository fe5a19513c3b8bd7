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

// Package constant implements the Constant phase: lazy fixed-point
// evaluation of compile-time constant initializers.
//
// The memoization shape is adapted from future.Value: instead of a single
// eventual value, each Cell tracks three states (not yet requested, in
// progress, resolved-or-failed) so that a self-referential request -- X.f's
// initializer recursively asking for X.f -- can be detected and answered
// with "no constant value" instead of deadlocking.
package constant

import "github.com/bazelbuild/headergen/types"

type state int

const (
	notRequested state = iota
	pending
	resolved
)

// Cell is one memoized constant-evaluation slot, keyed externally (by the
// Resolver) on a field symbol.
type Cell struct {
	state state
	value types.Const // nil means "no constant value"
}

// Resolver evaluates and caches the constant value of every static final
// field with a constant initializer across a set of source classes. It is
// not safe for concurrent use: constant evaluation runs single-threaded, and
// evaluating one field's initializer may re-enter Resolve for another field
// on the same goroutine.
type Resolver struct {
	cells map[interface{}]*Cell

	// Eval computes a field's value the first time it's requested. It may
	// call Resolve reentrantly for other fields. Eval must be set
	// before any call to Resolve.
	Eval func(key interface{}) (types.Const, bool)
}

// NewResolver returns a Resolver that calls eval to compute each field's
// value on first request.
func NewResolver(eval func(key interface{}) (types.Const, bool)) *Resolver {
	return &Resolver{cells: make(map[interface{}]*Cell), Eval: eval}
}

// Resolve returns the constant value associated with key (typically a
// *symbol.FieldSymbol), computing it via Eval on first request and caching
// the result (including "no value") for subsequent requests.
//
// If key is already pending -- i.e. Resolve(key) appears higher on the
// current call stack -- Resolve returns (nil, false) immediately without
// calling Eval again. This is what gives a self-referential initializer "no
// constant value" rather than infinite recursion.
func (r *Resolver) Resolve(key interface{}) (types.Const, bool) {
	if c, ok := r.cells[key]; ok {
		switch c.state {
		case pending:
			return nil, false
		case resolved:
			return c.value, c.value != nil
		}
	}

	c := &Cell{state: pending}
	r.cells[key] = c

	value, ok := r.Eval(key)
	if !ok {
		value = nil
	}
	c.value = value
	c.state = resolved
	return value, ok
}

// Reset discards all cached results, used between compiler invocations that
// reuse a Resolver (e.g. in tests).
func (r *Resolver) Reset() {
	r.cells = make(map[interface{}]*Cell)
}
