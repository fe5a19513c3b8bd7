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

// Package trim builds the reduced, API-only view of a bound class used for
// a transitive-consumer header: the version emitted for a class that only
// lives on the supertype closure of what was actually compiled, not for a
// class that was compiled directly.
package trim

import (
	"github.com/bazelbuild/headergen/ast"
	"github.com/bazelbuild/headergen/bound"
	"github.com/bazelbuild/headergen/symbol"
	"github.com/bazelbuild/headergen/types"
)

// OutputPrefix is prepended to a trimmed class's binary name when it is
// written into the header jar, keeping it from colliding with the binary
// name a directly-compiled class (or a real nested class of one) would
// use: no legal Java binary name contains a "/" immediately after a "-",
// so this can never collide with a package-qualified class name.
const OutputPrefix = "-transitive-/"

// wellKnownMetaAnnotations are the only annotation declarations whose uses
// survive trimming: the handful that describe how an annotation type itself
// behaves, which a transitive consumer's annotation processor or header
// reader may still need even though it never sees the class's methods or
// fields.
var wellKnownMetaAnnotations = map[string]bool{
	"java/lang/annotation/Retention":  true,
	"java/lang/annotation/Target":     true,
	"java/lang/annotation/Documented": true,
	"java/lang/annotation/Inherited":  true,
	"java/lang/annotation/Repeatable": true,
}

// Class returns the trimmed view of cls: no fields but its compile-time
// constants, no methods except the element declarations of an annotation
// type, no annotations but the well-known meta-annotations, and no
// InnerClasses entries beyond what lower already limits itself to (self and
// direct parent; trimming additionally drops the direct-children entries a
// full header would have kept).
//
// Trimming an already-trimmed class returns an equivalent result: every
// filter here is idempotent on its own, so applying Class twice in a row
// changes nothing further.
func Class(cls bound.Class) bound.Class {
	return &trimmedClass{cls}
}

type trimmedClass struct {
	bound.Class
}

func (t *trimmedClass) Children() []*symbol.ClassSymbol { return nil }

// Fields returns a copy of each constant field with its own annotation uses
// trimmed too, so the bound model shared with the direct-compile lowerer is
// never mutated in place.
func (t *trimmedClass) Fields() []*bound.FieldBinding {
	var out []*bound.FieldBinding
	for _, f := range t.Class.Fields() {
		if f.Const == nil {
			continue
		}
		trimmed := *f
		trimmed.Annos = filterMetaAnnotations(f.Annos)
		out = append(out, &trimmed)
	}
	return out
}

// Methods keeps only an annotation type's element declarations (its whole
// point is the set of elements, not ordinary method bodies), each with its
// own annotation uses trimmed the same way fields are.
func (t *trimmedClass) Methods() []*bound.MethodBinding {
	if t.Class.Kind() != ast.KindAnnotation {
		return nil
	}
	var out []*bound.MethodBinding
	for _, m := range t.Class.Methods() {
		trimmed := *m
		trimmed.Annos = filterMetaAnnotations(m.Annos)
		out = append(out, &trimmed)
	}
	return out
}

func (t *trimmedClass) Annotations() []*types.AnnoInfo {
	return filterMetaAnnotations(t.Class.Annotations())
}

func filterMetaAnnotations(annos []*types.AnnoInfo) []*types.AnnoInfo {
	var out []*types.AnnoInfo
	for _, a := range annos {
		if wellKnownMetaAnnotations[a.Sym.Name()] {
			out = append(out, a)
		}
	}
	return out
}
