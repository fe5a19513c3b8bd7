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

package lower

import (
	"sort"

	"github.com/bazelbuild/headergen/binary"
	"github.com/bazelbuild/headergen/types"
)

// constantValueIndex maps a field's constant to the single constant_pool
// index a ConstantValue attribute points at. boolean, byte, short, and char
// all widen to an Integer entry per JVMS 4.7.2; types with no ConstantValue
// form (strings referenced by "s" tags don't apply here, reference types in
// general) report ok=false.
func constantValueIndex(cp *binary.ConstantPool, c types.Const) (uint16, bool) {
	switch v := c.(type) {
	case types.BooleanValue:
		i := int32(0)
		if v {
			i = 1
		}
		return cp.Add(binary.CpEntry{Tag: binary.TagInteger, IntVal: i}), true
	case types.ByteValue:
		return cp.Add(binary.CpEntry{Tag: binary.TagInteger, IntVal: int32(v)}), true
	case types.ShortValue:
		return cp.Add(binary.CpEntry{Tag: binary.TagInteger, IntVal: int32(v)}), true
	case types.CharValue:
		return cp.Add(binary.CpEntry{Tag: binary.TagInteger, IntVal: int32(v)}), true
	case types.IntValue:
		return cp.Add(binary.CpEntry{Tag: binary.TagInteger, IntVal: int32(v)}), true
	case types.LongValue:
		return cp.Add(binary.CpEntry{Tag: binary.TagLong, LongVal: int64(v)}), true
	case types.FloatValue:
		return cp.Add(binary.CpEntry{Tag: binary.TagFloat, FloatVal: float32(v)}), true
	case types.DoubleValue:
		return cp.Add(binary.CpEntry{Tag: binary.TagDouble, DoubleVal: float64(v)}), true
	case types.StringValue:
		return cp.Add(binary.CpEntry{Tag: binary.TagString, NameIndex: cp.AddUTF8(string(v))}), true
	}
	return 0, false
}

// annotationAttrs encodes annos as a single RuntimeVisibleAnnotations
// attribute (retention isn't tracked on AnnoInfo, so every annotation use is
// treated as runtime-visible, the safe default for a header that only needs
// to preserve what downstream tools can see).
func annotationAttrs(cp *binary.ConstantPool, annos []*types.AnnoInfo) []*binary.AttributeInfo {
	if len(annos) == 0 {
		return nil
	}
	info := u16Bytes(uint16(len(annos)))
	for _, a := range annos {
		info = append(info, annotationBytes(cp, a)...)
	}
	return []*binary.AttributeInfo{{
		NameIndex: cp.AddUTF8("RuntimeVisibleAnnotations"),
		Info:      info,
	}}
}

// annotationBytes encodes one annotation structure (JVMS 4.7.16): a
// type_index naming the annotation interface's descriptor, followed by its
// element_value_pairs in a deterministic (sorted-by-name) order.
func annotationBytes(cp *binary.ConstantPool, a *types.AnnoInfo) []byte {
	out := u16Bytes(cp.AddUTF8("L" + a.Sym.Name() + ";"))

	names := make([]string, 0, len(a.Values))
	for name := range a.Values {
		names = append(names, name)
	}
	sort.Strings(names)

	out = append(out, u16Bytes(uint16(len(names)))...)
	for _, name := range names {
		out = append(out, u16Bytes(cp.AddUTF8(name))...)
		if bytes, ok := elementValueBytes(cp, a.Values[name]); ok {
			out = append(out, bytes...)
		} else {
			// Unencodable value: emit a null string rather than a truncated,
			// misaligned attribute.
			out = append(out, elementValueForString(cp, "")...)
		}
	}
	return out
}

// elementValueBytes encodes a single element_value (JVMS 4.7.16.1): a tag
// byte identifying the value's shape, followed by the value itself.
func elementValueBytes(cp *binary.ConstantPool, c types.Const) ([]byte, bool) {
	switch v := c.(type) {
	case types.BooleanValue:
		i := int32(0)
		if v {
			i = 1
		}
		return elementValueConst(cp, 'Z', binary.CpEntry{Tag: binary.TagInteger, IntVal: i}), true
	case types.ByteValue:
		return elementValueConst(cp, 'B', binary.CpEntry{Tag: binary.TagInteger, IntVal: int32(v)}), true
	case types.ShortValue:
		return elementValueConst(cp, 'S', binary.CpEntry{Tag: binary.TagInteger, IntVal: int32(v)}), true
	case types.CharValue:
		return elementValueConst(cp, 'C', binary.CpEntry{Tag: binary.TagInteger, IntVal: int32(v)}), true
	case types.IntValue:
		return elementValueConst(cp, 'I', binary.CpEntry{Tag: binary.TagInteger, IntVal: int32(v)}), true
	case types.LongValue:
		return elementValueConst(cp, 'J', binary.CpEntry{Tag: binary.TagLong, LongVal: int64(v)}), true
	case types.FloatValue:
		return elementValueConst(cp, 'F', binary.CpEntry{Tag: binary.TagFloat, FloatVal: float32(v)}), true
	case types.DoubleValue:
		return elementValueConst(cp, 'D', binary.CpEntry{Tag: binary.TagDouble, DoubleVal: float64(v)}), true
	case types.StringValue:
		return elementValueForString(cp, string(v)), true
	case types.ClassLiteralValue:
		return append([]byte{'c'}, u16Bytes(cp.AddUTF8(descriptorOf(v.Type)))...), true
	case types.EnumConstantValue:
		b := []byte{'e'}
		b = append(b, u16Bytes(cp.AddUTF8("L"+v.EnumClass.Name()+";"))...)
		b = append(b, u16Bytes(cp.AddUTF8(v.Name))...)
		return b, true
	case types.AnnotationLiteralValue:
		return append([]byte{'@'}, annotationBytes(cp, v.Info)...), true
	case types.ArrayLiteralValue:
		b := []byte{'['}
		b = append(b, u16Bytes(uint16(len(v.Elems)))...)
		for _, e := range v.Elems {
			if ev, ok := elementValueBytes(cp, e); ok {
				b = append(b, ev...)
			}
		}
		return b, true
	}
	return nil, false
}

func elementValueConst(cp *binary.ConstantPool, tag byte, entry binary.CpEntry) []byte {
	return append([]byte{tag}, u16Bytes(cp.Add(entry))...)
}

func elementValueForString(cp *binary.ConstantPool, s string) []byte {
	return append([]byte{'s'}, u16Bytes(cp.AddUTF8(s))...)
}
