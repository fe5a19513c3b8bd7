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

// Package lower converts bound classes into the binary.ClassFile shape,
// the reverse direction of bound/convert.go: signatures and descriptors
// are written instead of parsed, a constant pool is built up instead of
// read, and the bound model's field/method lists become field_info/
// method_info tables.
package lower

import (
	"github.com/bazelbuild/headergen/ast"
	"github.com/bazelbuild/headergen/binary"
	"github.com/bazelbuild/headergen/bound"
	"github.com/bazelbuild/headergen/future"
	"github.com/bazelbuild/headergen/types"
)

const (
	// majorVersion53 is Java 9's class-file major version, chosen as a
	// reasonable fixed target for header output (no method bodies ever run,
	// so the version only has to be new enough for every attribute this
	// package emits to be legal).
	majorVersion53 = 53
)

// All lowers every class in classes to a ClassFile, one per goroutine via
// future.All: each lowering is independent once the binder's environment is
// frozen, so there's no coordination needed beyond the final join.
func All(classes []bound.Class) []*binary.ClassFile {
	futures := make([]*future.Value, len(classes))
	for i, c := range classes {
		c := c
		futures[i] = future.NewValue(func() interface{} { return Class(c) })
	}
	results := future.All(futures)
	out := make([]*binary.ClassFile, len(results))
	for i, r := range results {
		out[i] = r.(*binary.ClassFile)
	}
	return out
}

// Class lowers a single bound class to its ClassFile form.
func Class(c bound.Class) *binary.ClassFile {
	cp := &binary.ConstantPool{}
	cf := &binary.ClassFile{
		MajorVersion: majorVersion53,
		ConstantPool: cp,
		AccessFlags:  accessFlags(c),
		ThisClass:    cp.AddClass(c.Sym().Name()),
	}

	if super := c.Super(); super != nil && super.Name() != "" {
		cf.SuperClass = cp.AddClass(super.Name())
	}
	for _, i := range c.Interfaces() {
		cf.Interfaces = append(cf.Interfaces, cp.AddClass(i.Name()))
	}

	for _, f := range c.Fields() {
		cf.Fields = append(cf.Fields, lowerField(cp, f))
	}
	for _, m := range c.Methods() {
		cf.Methods = append(cf.Methods, lowerMethod(cp, m))
	}

	if sigStr := classSignature(c); sigStr != "" {
		cf.Attributes = append(cf.Attributes, signatureAttr(cp, sigStr))
	}
	if annos := annotationAttrs(cp, c.Annotations()); annos != nil {
		cf.Attributes = append(cf.Attributes, annos...)
	}
	if inner := innerClassesAttr(cp, c); inner != nil {
		cf.Attributes = append(cf.Attributes, inner)
	}

	return cf
}

func accessFlags(c bound.Class) uint16 {
	flags := uint16(c.Access())
	switch c.Kind() {
	case ast.KindInterface, ast.KindAnnotation:
		flags |= binary.AccInterface | binary.AccAbstract
	case ast.KindEnum:
		flags |= binary.AccEnum | binary.AccSuper
	default:
		flags |= binary.AccSuper
	}
	if c.Kind() == ast.KindAnnotation {
		flags |= binary.AccAnnotation
	}
	return flags
}

func lowerField(cp *binary.ConstantPool, f *bound.FieldBinding) *binary.FieldInfo {
	fi := &binary.FieldInfo{
		AccessFlags:     uint16(f.Access),
		NameIndex:       cp.AddUTF8(f.Sym.Name),
		DescriptorIndex: cp.AddUTF8(descriptorOf(f.Type)),
	}
	if sigStr := signatureOf(f.Type); sigStr != "" {
		fi.Attributes = append(fi.Attributes, signatureAttr(cp, sigStr))
	}
	if f.Const != nil {
		if idx, ok := constantValueIndex(cp, f.Const); ok {
			fi.Attributes = append(fi.Attributes, &binary.AttributeInfo{
				NameIndex: cp.AddUTF8("ConstantValue"),
				Info:      u16Bytes(idx),
			})
		}
	}
	if annos := annotationAttrs(cp, f.Annos); annos != nil {
		fi.Attributes = append(fi.Attributes, annos...)
	}
	return fi
}

func lowerMethod(cp *binary.ConstantPool, m *bound.MethodBinding) *binary.MethodInfo {
	mi := &binary.MethodInfo{
		AccessFlags:     uint16(m.Access),
		NameIndex:       cp.AddUTF8(m.Sym.Name),
		DescriptorIndex: cp.AddUTF8(methodDescriptor(m)),
	}
	if sigStr := methodSignature(m); sigStr != "" {
		mi.Attributes = append(mi.Attributes, signatureAttr(cp, sigStr))
	}
	if len(m.Throws) > 0 {
		mi.Attributes = append(mi.Attributes, exceptionsAttr(cp, m.Throws))
	}
	if annos := annotationAttrs(cp, m.Annos); annos != nil {
		mi.Attributes = append(mi.Attributes, annos...)
	}
	if m.AnnoDefault != nil {
		if info, ok := elementValueBytes(cp, m.AnnoDefault); ok {
			mi.Attributes = append(mi.Attributes, &binary.AttributeInfo{
				NameIndex: cp.AddUTF8("AnnotationDefault"),
				Info:      info,
			})
		}
	}
	return mi
}

func signatureAttr(cp *binary.ConstantPool, s string) *binary.AttributeInfo {
	return &binary.AttributeInfo{NameIndex: cp.AddUTF8("Signature"), Info: u16Bytes(cp.AddUTF8(s))}
}

func u16Bytes(v uint16) []byte {
	return []byte{byte(v >> 8), byte(v)}
}

func exceptionsAttr(cp *binary.ConstantPool, throws []types.Type) *binary.AttributeInfo {
	info := u16Bytes(uint16(len(throws)))
	for _, t := range throws {
		var idx uint16
		if ct, ok := t.(types.ClassTy); ok {
			idx = cp.AddClass(ct.Sym().Name())
		}
		info = append(info, byte(idx>>8), byte(idx))
	}
	return &binary.AttributeInfo{NameIndex: cp.AddUTF8("Exceptions"), Info: info}
}
