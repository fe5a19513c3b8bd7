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

package binary

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Write serializes cf into the class file binary format and returns the bytes.
func Write(cf *ClassFile) []byte {
	var b bytes.Buffer
	w := &writer{buf: &b}

	w.u4(ClassFileMagic)
	w.u2(cf.MinorVersion)
	w.u2(cf.MajorVersion)
	w.constantPool(cf.ConstantPool)
	w.u2(cf.AccessFlags)
	w.u2(cf.ThisClass)
	w.u2(cf.SuperClass)

	w.u2(uint16(len(cf.Interfaces)))
	for _, i := range cf.Interfaces {
		w.u2(i)
	}

	w.u2(uint16(len(cf.Fields)))
	for _, f := range cf.Fields {
		w.u2(f.AccessFlags)
		w.u2(f.NameIndex)
		w.u2(f.DescriptorIndex)
		w.attributes(f.Attributes)
	}

	w.u2(uint16(len(cf.Methods)))
	for _, m := range cf.Methods {
		w.u2(m.AccessFlags)
		w.u2(m.NameIndex)
		w.u2(m.DescriptorIndex)
		w.attributes(m.Attributes)
	}

	w.attributes(cf.Attributes)

	return b.Bytes()
}

type writer struct {
	buf *bytes.Buffer
}

func (w *writer) u1(v byte)      { w.buf.WriteByte(v) }
func (w *writer) u2(v uint16)    { var b [2]byte; binary.BigEndian.PutUint16(b[:], v); w.buf.Write(b[:]) }
func (w *writer) u4(v uint32)    { var b [4]byte; binary.BigEndian.PutUint32(b[:], v); w.buf.Write(b[:]) }
func (w *writer) u8(v uint64) {
	w.u4(uint32(v >> 32))
	w.u4(uint32(v))
}

func (w *writer) constantPool(cp *ConstantPool) {
	w.u2(uint16(len(cp.Entries)))
	for i := 1; i < len(cp.Entries); i++ {
		entry := cp.Entries[i]
		if entry.Tag == 0 {
			// The unused placeholder slot following a Long/Double entry.
			continue
		}
		w.u1(entry.Tag)
		switch entry.Tag {
		case TagUtf8:
			w.u2(uint16(len(entry.UTF8)))
			w.buf.WriteString(entry.UTF8)
		case TagInteger:
			w.u4(uint32(entry.IntVal))
		case TagFloat:
			w.u4(math.Float32bits(entry.FloatVal))
		case TagLong:
			w.u8(uint64(entry.LongVal))
		case TagDouble:
			w.u8(math.Float64bits(entry.DoubleVal))
		case TagClass, TagMethodType, TagModule, TagPackage, TagString:
			w.u2(entry.NameIndex)
		case TagFieldref, TagMethodref, TagInterfaceMethodref:
			w.u2(entry.ClassIndex)
			w.u2(entry.NameAndTypeIndex)
		case TagNameAndType:
			w.u2(entry.NameIndex)
			w.u2(entry.DescriptorIndex)
		case TagMethodHandle:
			w.u1(entry.ReferenceKind)
			w.u2(entry.ReferenceIndex)
		case TagDynamic, TagInvokeDynamic:
			w.u2(entry.BootstrapMethodAttrIndex)
			w.u2(entry.NameAndTypeIndex)
		}
	}
}

func (w *writer) attributes(attrs []*AttributeInfo) {
	w.u2(uint16(len(attrs)))
	for _, a := range attrs {
		w.u2(a.NameIndex)
		w.u4(uint32(len(a.Info)))
		w.buf.Write(a.Info)
	}
}
