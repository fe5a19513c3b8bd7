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

// Constant pool tag bytes (JVMS section 4.4).
const (
	TagUtf8               = 1
	TagInteger            = 3
	TagFloat              = 4
	TagLong               = 5
	TagDouble             = 6
	TagClass              = 7
	TagString             = 8
	TagFieldref           = 9
	TagMethodref          = 10
	TagInterfaceMethodref = 11
	TagNameAndType        = 12
	TagMethodHandle       = 15
	TagMethodType         = 16
	TagDynamic            = 17
	TagInvokeDynamic      = 18
	TagModule             = 19
	TagPackage            = 20
)

// CpEntry is one constant_pool slot. Only the fields relevant to the tag are
// populated; the rest are zero. Long and Double entries occupy two indices
// in the class file's numbering (JVMS section 4.4.5), which ConstantPool's
// indexing accounts for by leaving a nil placeholder at the second index.
type CpEntry struct {
	Tag byte

	// TagUtf8
	UTF8 string

	// TagInteger, TagFloat
	IntVal   int32
	FloatVal float32

	// TagLong, TagDouble
	LongVal   int64
	DoubleVal float64

	// TagClass, TagString, TagMethodType, TagModule, TagPackage: an index
	// into the pool, pointing at a Utf8 entry.
	NameIndex uint16

	// TagFieldref, TagMethodref, TagInterfaceMethodref
	ClassIndex       uint16
	NameAndTypeIndex uint16

	// TagNameAndType
	DescriptorIndex uint16

	// TagMethodHandle
	ReferenceKind  byte
	ReferenceIndex uint16

	// TagDynamic, TagInvokeDynamic
	BootstrapMethodAttrIndex uint16
}

// ConstantPool is the parsed constant_pool table of a class file, indexed
// exactly as the class file itself indexes it: valid indices run from 1 to
// len(Entries)-1, and the slot following a Long or Double entry is an unused
// placeholder (nil Tag 0), matching JVMS section 4.4.5's "in retrospect,
// making 8-byte constants take two constant pool entries... was a poor
// choice" quirk.
type ConstantPool struct {
	Entries []CpEntry // Entries[0] is always the unused zero entry.
}

// Get returns the entry at index, or a zero CpEntry if index is out of range.
func (cp *ConstantPool) Get(index uint16) CpEntry {
	if int(index) <= 0 || int(index) >= len(cp.Entries) {
		return CpEntry{}
	}
	return cp.Entries[index]
}

// UTF8At resolves index, which must point at a Utf8 entry, to its string
// value. Returns "" if index does not point at a Utf8 entry.
func (cp *ConstantPool) UTF8At(index uint16) string {
	e := cp.Get(index)
	if e.Tag != TagUtf8 {
		return ""
	}
	return e.UTF8
}

// ClassNameAt resolves index, which must point at a Class entry, to the
// binary class name it names (e.g. "java/lang/Object").
func (cp *ConstantPool) ClassNameAt(index uint16) string {
	e := cp.Get(index)
	if e.Tag != TagClass {
		return ""
	}
	return cp.UTF8At(e.NameIndex)
}

// NameAndTypeAt resolves index, which must point at a NameAndType entry, to
// its (name, descriptor) pair.
func (cp *ConstantPool) NameAndTypeAt(index uint16) (name, descriptor string) {
	e := cp.Get(index)
	if e.Tag != TagNameAndType {
		return "", ""
	}
	return cp.UTF8At(e.NameIndex), cp.UTF8At(e.DescriptorIndex)
}

// Add appends entry and returns its index. If entry occupies two slots (Long
// or Double), the placeholder slot is appended automatically and the
// returned index still refers to entry itself.
func (cp *ConstantPool) Add(entry CpEntry) uint16 {
	if len(cp.Entries) == 0 {
		cp.Entries = append(cp.Entries, CpEntry{})
	}
	index := uint16(len(cp.Entries))
	cp.Entries = append(cp.Entries, entry)
	if entry.Tag == TagLong || entry.Tag == TagDouble {
		cp.Entries = append(cp.Entries, CpEntry{})
	}
	return index
}

// AddUTF8 interns s as a Utf8 entry, reusing an existing entry if s is
// already present so repeated names and descriptors don't bloat the pool.
func (cp *ConstantPool) AddUTF8(s string) uint16 {
	for i, e := range cp.Entries {
		if e.Tag == TagUtf8 && e.UTF8 == s {
			return uint16(i)
		}
	}
	return cp.Add(CpEntry{Tag: TagUtf8, UTF8: s})
}

// AddClass interns a Class entry naming binaryName, reusing an existing one
// if present.
func (cp *ConstantPool) AddClass(binaryName string) uint16 {
	nameIdx := cp.AddUTF8(binaryName)
	for i, e := range cp.Entries {
		if e.Tag == TagClass && e.NameIndex == nameIdx {
			return uint16(i)
		}
	}
	return cp.Add(CpEntry{Tag: TagClass, NameIndex: nameIdx})
}

// AddNameAndType interns a NameAndType entry, reusing an existing one if
// present.
func (cp *ConstantPool) AddNameAndType(name, descriptor string) uint16 {
	nameIdx := cp.AddUTF8(name)
	descIdx := cp.AddUTF8(descriptor)
	for i, e := range cp.Entries {
		if e.Tag == TagNameAndType && e.NameIndex == nameIdx && e.DescriptorIndex == descIdx {
			return uint16(i)
		}
	}
	return cp.Add(CpEntry{Tag: TagNameAndType, NameIndex: nameIdx, DescriptorIndex: descIdx})
}
