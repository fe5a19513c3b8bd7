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
	"encoding/binary"
	"io"
	"math"
)

// reader wraps a byte slice with a cursor, panicking with a classFormatErr
// on any short read so every one of the many call sites below stays free of
// plumbed-through error returns; Read recovers at the top level.
type reader struct {
	buf []byte
	pos int
}

type classFormatErr struct{ err error }

func (r *reader) fail(err error) {
	panic(classFormatErr{err})
}

func (r *reader) u1() byte {
	if r.pos+1 > len(r.buf) {
		r.fail(cfe("unexpected end of file reading u1"))
	}
	b := r.buf[r.pos]
	r.pos++
	return b
}

func (r *reader) u2() uint16 {
	if r.pos+2 > len(r.buf) {
		r.fail(cfe("unexpected end of file reading u2"))
	}
	v := binary.BigEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v
}

func (r *reader) u4() uint32 {
	if r.pos+4 > len(r.buf) {
		r.fail(cfe("unexpected end of file reading u4"))
	}
	v := binary.BigEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v
}

func (r *reader) u8() uint64 {
	hi := uint64(r.u4())
	lo := uint64(r.u4())
	return hi<<32 | lo
}

func (r *reader) bytes(n int) []byte {
	if r.pos+n > len(r.buf) {
		r.fail(cfe("unexpected end of file reading raw bytes"))
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b
}

// Read parses a class file from data, following JVMS section 4.1's
// ClassFile structure top to bottom.
func Read(data []byte) (cf *ClassFile, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if cfErr, ok := rec.(classFormatErr); ok {
				err = cfErr.err
				return
			}
			panic(rec)
		}
	}()

	r := &reader{buf: data}
	cf = &ClassFile{}

	magic := r.u4()
	if magic != ClassFileMagic {
		r.fail(cfef("bad magic number: %#x", magic))
	}
	cf.MinorVersion = r.u2()
	cf.MajorVersion = r.u2()
	cf.ConstantPool = r.constantPool()
	cf.AccessFlags = r.u2()
	cf.ThisClass = r.u2()
	cf.SuperClass = r.u2()

	ifaceCount := r.u2()
	for i := 0; i < int(ifaceCount); i++ {
		cf.Interfaces = append(cf.Interfaces, r.u2())
	}

	fieldCount := r.u2()
	for i := 0; i < int(fieldCount); i++ {
		cf.Fields = append(cf.Fields, r.fieldInfo())
	}

	methodCount := r.u2()
	for i := 0; i < int(methodCount); i++ {
		cf.Methods = append(cf.Methods, r.methodInfo())
	}

	cf.Attributes = r.attributes()

	return cf, nil
}

func (r *reader) constantPool() *ConstantPool {
	count := r.u2()
	cp := &ConstantPool{Entries: make([]CpEntry, 1, count)}
	for len(cp.Entries) < int(count) {
		tag := r.u1()
		entry := CpEntry{Tag: tag}
		switch tag {
		case TagUtf8:
			length := r.u2()
			entry.UTF8 = string(r.bytes(int(length)))
		case TagInteger:
			entry.IntVal = int32(r.u4())
		case TagFloat:
			entry.FloatVal = math.Float32frombits(r.u4())
		case TagLong:
			entry.LongVal = int64(r.u8())
		case TagDouble:
			entry.DoubleVal = math.Float64frombits(r.u8())
		case TagClass, TagMethodType, TagModule, TagPackage:
			entry.NameIndex = r.u2()
		case TagString:
			entry.NameIndex = r.u2()
		case TagFieldref, TagMethodref, TagInterfaceMethodref:
			entry.ClassIndex = r.u2()
			entry.NameAndTypeIndex = r.u2()
		case TagNameAndType:
			entry.NameIndex = r.u2()
			entry.DescriptorIndex = r.u2()
		case TagMethodHandle:
			entry.ReferenceKind = r.u1()
			entry.ReferenceIndex = r.u2()
		case TagDynamic, TagInvokeDynamic:
			entry.BootstrapMethodAttrIndex = r.u2()
			entry.NameAndTypeIndex = r.u2()
		default:
			r.fail(cfef("unknown constant pool tag %d at entry %d", tag, len(cp.Entries)))
		}
		cp.Entries = append(cp.Entries, entry)
		if tag == TagLong || tag == TagDouble {
			cp.Entries = append(cp.Entries, CpEntry{})
		}
	}
	return cp
}

func (r *reader) fieldInfo() *FieldInfo {
	f := &FieldInfo{
		AccessFlags:     r.u2(),
		NameIndex:       r.u2(),
		DescriptorIndex: r.u2(),
	}
	f.Attributes = r.attributes()
	return f
}

func (r *reader) methodInfo() *MethodInfo {
	m := &MethodInfo{
		AccessFlags:     r.u2(),
		NameIndex:       r.u2(),
		DescriptorIndex: r.u2(),
	}
	m.Attributes = r.attributes()
	return m
}

func (r *reader) attributes() []*AttributeInfo {
	count := r.u2()
	attrs := make([]*AttributeInfo, 0, count)
	for i := 0; i < int(count); i++ {
		nameIdx := r.u2()
		length := r.u4()
		info := r.bytes(int(length))
		attrs = append(attrs, &AttributeInfo{NameIndex: nameIdx, Info: append([]byte(nil), info...)})
	}
	return attrs
}

// ReadFrom parses a class file read in full from rd.
func ReadFrom(rd io.Reader) (*ClassFile, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, err
	}
	return Read(data)
}
