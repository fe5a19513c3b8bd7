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
	"github.com/bazelbuild/headergen/binary"
	"github.com/bazelbuild/headergen/bound"
)

// innerClassesAttr emits an InnerClasses entry for c itself (if it's nested)
// and one for each of its direct children, the minimal slice a header needs:
// a reader walking InnerClasses only ever needs to go one level toward the
// root or one level into an already-visible nested class.
func innerClassesAttr(cp *binary.ConstantPool, c bound.Class) *binary.AttributeInfo {
	var entries [][4]uint16 // inner, outer, name, access

	if owner := c.Owner(); owner != nil {
		entries = append(entries, innerClassEntry(cp, c.Sym().Name(), owner.Name(), c.Sym().SimpleName(), uint16(c.Access())))
	}
	for _, child := range c.Children() {
		entries = append(entries, innerClassEntry(cp, child.Name(), c.Sym().Name(), child.SimpleName(), 0))
	}
	if len(entries) == 0 {
		return nil
	}

	info := u16Bytes(uint16(len(entries)))
	for _, e := range entries {
		info = append(info, u16Bytes(e[0])...)
		info = append(info, u16Bytes(e[1])...)
		info = append(info, u16Bytes(e[2])...)
		info = append(info, u16Bytes(e[3])...)
	}
	return &binary.AttributeInfo{NameIndex: cp.AddUTF8("InnerClasses"), Info: info}
}

func innerClassEntry(cp *binary.ConstantPool, innerName, outerName, simpleName string, access uint16) [4]uint16 {
	return [4]uint16{
		cp.AddClass(innerName),
		cp.AddClass(outerName),
		cp.AddUTF8(simpleName),
		access,
	}
}
