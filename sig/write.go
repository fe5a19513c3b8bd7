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

package sig

import "strings"

// WriteClassSig serializes cs back to its class_signature string form.
// write(parse(s)) == s for every real-world signature, since the parser
// keeps every detail the writer needs: the package specifier, each nested
// segment's own type arguments, and each wildcard's exact indicator byte.
func WriteClassSig(cs ClassSig) string {
	var b strings.Builder
	writeTypeParams(&b, cs.TypeParams)
	writeClassType(&b, cs.Super)
	for _, i := range cs.Interfaces {
		writeClassType(&b, i)
	}
	return b.String()
}

// WriteFieldSig serializes a field_signature (a bare reference type).
func WriteFieldSig(t Type) string {
	var b strings.Builder
	writeType(&b, t)
	return b.String()
}

// WriteMethodSig serializes a method_signature.
func WriteMethodSig(ms MethodSig) string {
	var b strings.Builder
	writeTypeParams(&b, ms.TypeParams)
	b.WriteByte('(')
	for _, p := range ms.Params {
		writeType(&b, p)
	}
	b.WriteByte(')')
	writeType(&b, ms.Return)
	for _, t := range ms.Throws {
		b.WriteByte('^')
		writeType(&b, t)
	}
	return b.String()
}

func writeTypeParams(b *strings.Builder, params []TypeParam) {
	if len(params) == 0 {
		return
	}
	b.WriteByte('<')
	for _, tp := range params {
		b.WriteString(tp.Name)
		b.WriteByte(':')
		if tp.ClassBound != nil {
			writeType(b, tp.ClassBound)
		}
		for _, iface := range tp.Interfaces {
			b.WriteByte(':')
			writeType(b, iface)
		}
	}
	b.WriteByte('>')
}

func writeType(b *strings.Builder, t Type) {
	switch v := t.(type) {
	case BaseType:
		b.WriteByte(byte(v))
	case Void:
		b.WriteByte('V')
	case TypeVariable:
		b.WriteByte('T')
		b.WriteString(v.Name)
		b.WriteByte(';')
	case ArrayType:
		b.WriteByte('[')
		writeType(b, v.Elem)
	case ClassType:
		writeClassType(b, v)
	default:
		panic("sig: unknown Type variant in writer")
	}
}

func writeClassType(b *strings.Builder, ct ClassType) {
	b.WriteByte('L')
	if ct.Package != "" {
		b.WriteString(ct.Package)
		b.WriteByte('/')
	}
	for i, seg := range ct.Segments {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.Name)
		if len(seg.TypeArgs) > 0 {
			b.WriteByte('<')
			for _, arg := range seg.TypeArgs {
				writeTypeArgument(b, arg)
			}
			b.WriteByte('>')
		}
	}
	b.WriteByte(';')
}

func writeTypeArgument(b *strings.Builder, arg TypeArgument) {
	switch arg.Wildcard {
	case '*':
		b.WriteByte('*')
	case '+', '-':
		b.WriteByte(arg.Wildcard)
		writeType(b, arg.Type)
	default:
		writeType(b, arg.Type)
	}
}
