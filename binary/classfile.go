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

// Package binary reads and writes the JVM class file format (JVMS chapter
// 4): the wire format both the classpath loader (reading existing classes
// to bind against) and the lowerer (writing header classes) speak.
package binary

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
)

const (
	ClassFileMagic = 0xCAFEBABE

	// Access flag bits shared with ast.AccessFlags; duplicated here rather
	// than imported so this package has no dependency on ast, since a
	// classpath-only build (no parser, no binder) should still be able to
	// read and write class files on its own.
	AccPublic     = 0x0001
	AccFinal      = 0x0010
	AccSuper      = 0x0020
	AccInterface  = 0x0200
	AccAbstract   = 0x0400
	AccSynthetic  = 0x1000
	AccAnnotation = 0x2000
	AccEnum       = 0x4000
	AccModule     = 0x8000
)

// ClassFile is the parsed structure of a .class file.
type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16
	ConstantPool *ConstantPool
	AccessFlags  uint16
	ThisClass    uint16 // index into ConstantPool, a Class entry.
	SuperClass   uint16 // 0 only for java/lang/Object.
	Interfaces   []uint16
	Fields       []*FieldInfo
	Methods      []*MethodInfo
	Attributes   []*AttributeInfo
}

// FieldInfo is one field_info structure.
type FieldInfo struct {
	AccessFlags     uint16
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []*AttributeInfo
}

// MethodInfo is one method_info structure.
type MethodInfo struct {
	AccessFlags     uint16
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []*AttributeInfo
}

// AttributeInfo is a generic attribute_info: callers that care about a
// particular attribute's shape (Signature, ConstantValue, Exceptions,
// RuntimeVisibleAnnotations, InnerClasses...) parse Info themselves.
// Keeping the general read/write path
// tag-agnostic matches how the format itself works: an attribute is only
// ever identified by its name, never a fixed union tag.
type AttributeInfo struct {
	NameIndex uint16
	Info      []byte
}

// Name resolves attr's name against cp.
func (attr *AttributeInfo) Name(cp *ConstantPool) string {
	return cp.UTF8At(attr.NameIndex)
}

// ThisClassName returns the binary name of the class cf declares.
func (cf *ClassFile) ThisClassName() string {
	return cf.ConstantPool.ClassNameAt(cf.ThisClass)
}

// SuperClassName returns the binary name of cf's superclass, or "" if cf has
// none (only true of java/lang/Object).
func (cf *ClassFile) SuperClassName() string {
	if cf.SuperClass == 0 {
		return ""
	}
	return cf.ConstantPool.ClassNameAt(cf.SuperClass)
}

// InterfaceNames returns the binary names of the interfaces cf implements or extends.
func (cf *ClassFile) InterfaceNames() []string {
	names := make([]string, len(cf.Interfaces))
	for i, idx := range cf.Interfaces {
		names[i] = cf.ConstantPool.ClassNameAt(idx)
	}
	return names
}

// Attribute returns the first attribute of cf's class-level attributes named
// name, or nil if cf has none.
func (cf *ClassFile) Attribute(name string) *AttributeInfo {
	return findAttribute(cf.Attributes, cf.ConstantPool, name)
}

// Attribute returns the first attribute among attrs named name, or nil.
func (f *FieldInfo) Attribute(cp *ConstantPool, name string) *AttributeInfo {
	return findAttribute(f.Attributes, cp, name)
}

// Attribute returns the first attribute among attrs named name, or nil.
func (m *MethodInfo) Attribute(cp *ConstantPool, name string) *AttributeInfo {
	return findAttribute(m.Attributes, cp, name)
}

func findAttribute(attrs []*AttributeInfo, cp *ConstantPool, name string) *AttributeInfo {
	for _, a := range attrs {
		if a.Name(cp) == name {
			return a
		}
	}
	return nil
}

// cfe reports a malformed class file, in the style of a panic a caller of
// Read recovers from: it stamps the error with the file and line of the
// parsing step that detected the problem, which is almost always more
// useful than the byte offset alone when the bug is in the reader itself.
func cfe(msg string) error {
	return cfeAt(2, msg)
}

func cfef(format string, args ...interface{}) error {
	return cfeAt(2, fmt.Sprintf(format, args...))
}

// cfeAt builds the error for cfe/cfef; skip counts stack frames up from
// cfeAt itself to the parsing step being stamped.
func cfeAt(skip int, msg string) error {
	errMsg := "class format error: " + msg
	if pc, _, _, ok := runtime.Caller(skip); ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			file, line := fn.FileLine(pc)
			errMsg += "\n  detected by " + filepath.Base(file) + ":" + strconv.Itoa(line)
		}
	}
	return errors.New(errMsg)
}
