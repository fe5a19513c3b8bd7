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

package bound

import (
	"sync"

	"github.com/bazelbuild/headergen/ast"
	"github.com/bazelbuild/headergen/binary"
	"github.com/bazelbuild/headergen/classpath"
	"github.com/bazelbuild/headergen/sig"
	"github.com/bazelbuild/headergen/symbol"
	"github.com/bazelbuild/headergen/types"
)

// ClasspathClass is a Class backed by a classpath .class file's bytes. The
// first accessor read parses the whole class file once with binary.Read
// (constant pool, field and method tables, attributes alike); there is no
// partial parse. On top of that parse, each group of fields is bound once,
// on first read: the header group (supertypes, type parameters) without
// binding any field or method, and the member group only when fields,
// methods or annotations are asked for.
type ClasspathClass struct {
	sym    *symbol.ClassSymbol
	source classpath.ByteSource
	pool   *symbol.Pool

	once sync.Once
	cf   *binary.ClassFile
	err  error

	headerOnce sync.Once
	superSym   *symbol.ClassSymbol
	ifaceSyms  []*symbol.ClassSymbol
	tyParams   []*symbol.TyVarSymbol
	tyScope    tyVarScope

	typeOnce   sync.Once
	superType  types.Type
	ifaceTypes []types.Type
	fields     []*FieldBinding
	methods    []*MethodBinding
	annos      []*types.AnnoInfo
}

// NewClasspathClass returns a Class that lazily parses source's bytes the
// first time any of its accessors are read.
func NewClasspathClass(sym *symbol.ClassSymbol, source classpath.ByteSource, pool *symbol.Pool) *ClasspathClass {
	return &ClasspathClass{sym: sym, source: source, pool: pool}
}

// Err returns the error from parsing the underlying class file bytes, if
// any occurred; nil until an accessor has triggered parsing.
func (c *ClasspathClass) Err() error {
	c.parse()
	return c.err
}

func (c *ClasspathClass) parse() *binary.ClassFile {
	c.once.Do(func() {
		data, err := c.source.Bytes()
		if err != nil {
			c.err = err
			return
		}
		c.cf, c.err = binary.Read(data)
	})
	return c.cf
}

func (c *ClasspathClass) Sym() *symbol.ClassSymbol { return c.sym }

func (c *ClasspathClass) Kind() ast.TypeKind {
	cf := c.parse()
	if cf == nil {
		return ast.KindClass
	}
	switch {
	case cf.AccessFlags&binary.AccAnnotation != 0:
		return ast.KindAnnotation
	case cf.AccessFlags&binary.AccEnum != 0:
		return ast.KindEnum
	case cf.AccessFlags&binary.AccInterface != 0:
		return ast.KindInterface
	default:
		return ast.KindClass
	}
}

func (c *ClasspathClass) Access() ast.AccessFlags {
	cf := c.parse()
	if cf == nil {
		return 0
	}
	return ast.AccessFlags(cf.AccessFlags)
}

// Owner resolves the enclosing class from the InnerClasses attribute, if cf
// declares one naming itself.
func (c *ClasspathClass) Owner() *symbol.ClassSymbol {
	cf := c.parse()
	if cf == nil {
		return nil
	}
	attr := cf.Attribute("InnerClasses")
	if attr == nil {
		return nil
	}
	for _, entry := range parseInnerClasses(attr.Info) {
		inner := cf.ConstantPool.ClassNameAt(entry.innerClassIndex)
		if inner == cf.ThisClassName() && entry.outerClassIndex != 0 {
			return c.pool.Class(cf.ConstantPool.ClassNameAt(entry.outerClassIndex))
		}
	}
	return nil
}

// Children is not populated for classpath classes: the lowerer's
// InnerClasses emission only needs a class's own parent and immediate
// children among classes it actually references, which the dependency
// collector computes separately rather than by asking every classpath
// class to enumerate its nested types upfront.
func (c *ClasspathClass) Children() []*symbol.ClassSymbol { return nil }

func (c *ClasspathClass) bindHeader() {
	c.headerOnce.Do(func() {
		cf := c.parse()
		if cf == nil {
			return
		}
		c.tyScope = make(tyVarScope)
		if sigAttr := cf.Attribute("Signature"); sigAttr != nil {
			sigStr := cf.ConstantPool.UTF8At(u16(sigAttr.Info))
			if cs, err := sig.ParseClassSig(sigStr); err == nil {
				for _, tp := range cs.TypeParams {
					c.tyParams = append(c.tyParams, &symbol.TyVarSymbol{Name: tp.Name, Owner: c.sym})
				}
				for _, tp := range c.tyParams {
					c.tyScope[tp.Name] = tp
				}
				c.superType = sigToType(cs.Super, c.pool, c.tyScope)
				for _, iface := range cs.Interfaces {
					c.ifaceTypes = append(c.ifaceTypes, sigToType(iface, c.pool, c.tyScope))
				}
			}
		}
		if superName := cf.SuperClassName(); superName != "" {
			c.superSym = c.pool.Class(superName)
		}
		for _, name := range cf.InterfaceNames() {
			c.ifaceSyms = append(c.ifaceSyms, c.pool.Class(name))
		}
		if c.superType == nil && c.superSym != nil {
			c.superType = types.ClassTy{Segments: []types.ClassTySegment{{Sym: c.superSym}}}
		}
		if c.ifaceTypes == nil {
			for _, s := range c.ifaceSyms {
				c.ifaceTypes = append(c.ifaceTypes, types.ClassTy{Segments: []types.ClassTySegment{{Sym: s}}})
			}
		}
	})
}

func (c *ClasspathClass) Super() *symbol.ClassSymbol {
	c.bindHeader()
	return c.superSym
}

func (c *ClasspathClass) Interfaces() []*symbol.ClassSymbol {
	c.bindHeader()
	return c.ifaceSyms
}

func (c *ClasspathClass) TypeParamSyms() []*symbol.TyVarSymbol {
	c.bindHeader()
	return c.tyParams
}

func (c *ClasspathClass) SuperType() types.Type {
	c.bindHeader()
	return c.superType
}

func (c *ClasspathClass) InterfaceTypes() []types.Type {
	c.bindHeader()
	return c.ifaceTypes
}

func (c *ClasspathClass) bindMembers() {
	c.typeOnce.Do(func() {
		c.bindHeader()
		cf := c.parse()
		if cf == nil {
			return
		}
		for _, f := range cf.Fields {
			c.fields = append(c.fields, c.bindField(cf, f))
		}
		for _, m := range cf.Methods {
			c.methods = append(c.methods, c.bindMethod(cf, m))
		}
		c.annos = bindAnnotations(cf.Attributes, cf.ConstantPool, c.pool)
	})
}

func (c *ClasspathClass) bindField(cf *binary.ClassFile, f *binary.FieldInfo) *FieldBinding {
	cp := cf.ConstantPool
	name := cp.UTF8At(f.NameIndex)
	fb := &FieldBinding{
		Sym:    &symbol.FieldSymbol{Owner: c.sym, Name: name},
		Access: ast.AccessFlags(f.AccessFlags),
	}
	descAttr := f.Attribute(cp, "Signature")
	descStr := cp.UTF8At(f.DescriptorIndex)
	scope := c.tyScope
	if descAttr != nil {
		if sigStr := cp.UTF8At(u16(descAttr.Info)); sigStr != "" {
			descStr = sigStr
		}
	}
	if t, err := sig.ParseFieldSig(descStr); err == nil {
		fb.Type = sigToType(t, c.pool, scope)
	} else {
		fb.Type = types.ErrorTy{Name: descStr}
	}
	if cv := f.Attribute(cp, "ConstantValue"); cv != nil {
		fb.Const = constantValueFromCP(cp, u16(cv.Info))
	}
	fb.Annos = bindAnnotations(f.Attributes, cp, c.pool)
	return fb
}

func (c *ClasspathClass) bindMethod(cf *binary.ClassFile, m *binary.MethodInfo) *MethodBinding {
	cp := cf.ConstantPool
	name := cp.UTF8At(m.NameIndex)
	mb := &MethodBinding{
		Sym:    &symbol.MethodSymbol{Owner: c.sym, Name: name},
		Access: ast.AccessFlags(m.AccessFlags),
	}
	descStr := cp.UTF8At(m.DescriptorIndex)
	scope := c.tyScope
	if sa := m.Attribute(cp, "Signature"); sa != nil {
		if sigStr := cp.UTF8At(u16(sa.Info)); sigStr != "" {
			descStr = sigStr
		}
	}
	ms, err := sig.ParseMethodSig(descStr)
	if err != nil {
		mb.Return = types.ErrorTy{Name: descStr}
		return mb
	}
	methodScope := scope
	if len(ms.TypeParams) > 0 {
		methodScope = make(tyVarScope, len(scope)+len(ms.TypeParams))
		for k, v := range scope {
			methodScope[k] = v
		}
		for _, tp := range ms.TypeParams {
			tv := &symbol.TyVarSymbol{Name: tp.Name, Owner: mb.Sym}
			mb.TypeParams = append(mb.TypeParams, tv)
			methodScope[tp.Name] = tv
		}
	}
	for i, p := range ms.Params {
		mb.Params = append(mb.Params, &ParamBinding{
			Sym:  &symbol.ParamSymbol{Owner: mb.Sym, Index: i},
			Type: sigToType(p, c.pool, methodScope),
		})
	}
	mb.Return = sigToType(ms.Return, c.pool, methodScope)
	for _, t := range ms.Throws {
		mb.Throws = append(mb.Throws, sigToType(t, c.pool, methodScope))
	}
	mb.Annos = bindAnnotations(m.Attributes, cp, c.pool)
	return mb
}

func (c *ClasspathClass) Fields() []*FieldBinding {
	c.bindMembers()
	return c.fields
}

func (c *ClasspathClass) Methods() []*MethodBinding {
	c.bindMembers()
	return c.methods
}

func (c *ClasspathClass) Annotations() []*types.AnnoInfo {
	c.bindMembers()
	return c.annos
}

var _ Class = (*ClasspathClass)(nil)

// u16 reads a big-endian uint16 from the start of an attribute's raw Info,
// the shape every attribute whose content is "a single constant pool index"
// (Signature, ConstantValue) shares.
func u16(info []byte) uint16 {
	if len(info) < 2 {
		return 0
	}
	return uint16(info[0])<<8 | uint16(info[1])
}

func constantValueFromCP(cp *binary.ConstantPool, index uint16) types.Const {
	e := cp.Get(index)
	switch e.Tag {
	case binary.TagInteger:
		return types.IntValue(e.IntVal)
	case binary.TagLong:
		return types.LongValue(e.LongVal)
	case binary.TagFloat:
		return types.FloatValue(e.FloatVal)
	case binary.TagDouble:
		return types.DoubleValue(e.DoubleVal)
	case binary.TagString:
		return types.StringValue(cp.UTF8At(e.NameIndex))
	}
	return nil
}

type innerClassEntry struct {
	innerClassIndex uint16
	outerClassIndex uint16
	innerNameIndex  uint16
	innerAccess     uint16
}

func parseInnerClasses(info []byte) []innerClassEntry {
	if len(info) < 2 {
		return nil
	}
	count := int(uint16(info[0])<<8 | uint16(info[1]))
	entries := make([]innerClassEntry, 0, count)
	pos := 2
	for i := 0; i < count && pos+8 <= len(info); i++ {
		entries = append(entries, innerClassEntry{
			innerClassIndex: uint16(info[pos])<<8 | uint16(info[pos+1]),
			outerClassIndex: uint16(info[pos+2])<<8 | uint16(info[pos+3]),
			innerNameIndex:  uint16(info[pos+4])<<8 | uint16(info[pos+5]),
			innerAccess:     uint16(info[pos+6])<<8 | uint16(info[pos+7]),
		})
		pos += 8
	}
	return entries
}

// bindAnnotations decodes RuntimeVisibleAnnotations and
// RuntimeInvisibleAnnotations into AnnoInfo values. Every annotation is
// kept: its type name is interned through pool without checking that the
// class can be resolved, so an unresolvable annotation type is not dropped.
// Element values are skipped (see decodeAnnotations), so meta-annotation
// arguments such as a retention or target are not available from the result
// either.
func bindAnnotations(attrs []*binary.AttributeInfo, cp *binary.ConstantPool, pool *symbol.Pool) []*types.AnnoInfo {
	var result []*types.AnnoInfo
	for _, name := range []string{"RuntimeVisibleAnnotations", "RuntimeInvisibleAnnotations"} {
		attr := findAttrByName(attrs, cp, name)
		if attr == nil {
			continue
		}
		result = append(result, decodeAnnotations(attr.Info, cp, pool)...)
	}
	return result
}

func findAttrByName(attrs []*binary.AttributeInfo, cp *binary.ConstantPool, name string) *binary.AttributeInfo {
	for _, a := range attrs {
		if a.Name(cp) == name {
			return a
		}
	}
	return nil
}

// decodeAnnotations walks the annotation-table encoding shared by
// RuntimeVisibleAnnotations/RuntimeInvisibleAnnotations (JVMS 4.7.16):
// num_annotations followed by that many `annotation` structures. Element
// values are not evaluated here (that's constant eval's job on re-entry
// into a classpath annotation, which is rare); only the declaring type and
// raw structure position are recorded, matching the "Args carries the
// original unevaluated expressions" shape AnnoInfo expects from sources.
func decodeAnnotations(info []byte, cp *binary.ConstantPool, pool *symbol.Pool) []*types.AnnoInfo {
	pos := 0
	readU2 := func() uint16 {
		if pos+2 > len(info) {
			pos = len(info)
			return 0
		}
		v := uint16(info[pos])<<8 | uint16(info[pos+1])
		pos += 2
		return v
	}
	var skipElementValue func()
	skipElementValue = func() {
		tag := byte(0)
		if pos < len(info) {
			tag = info[pos]
			pos++
		}
		switch tag {
		case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z', 's', 'c':
			readU2()
		case 'e':
			readU2()
			readU2()
		case '@':
			readU2()
			n := readU2()
			for i := 0; i < int(n); i++ {
				readU2()
				skipElementValue()
			}
		case '[':
			n := readU2()
			for i := 0; i < int(n); i++ {
				skipElementValue()
			}
		}
	}

	var result []*types.AnnoInfo
	if len(info) < 2 {
		return nil
	}
	count := readU2()
	for i := 0; i < int(count); i++ {
		typeIdx := readU2()
		typeName := cp.UTF8At(typeIdx)
		sym := pool.Class(classBinaryNameFromDescriptor(typeName))
		n := readU2()
		for j := 0; j < int(n); j++ {
			readU2() // element_name_index
			skipElementValue()
		}
		result = append(result, &types.AnnoInfo{Sym: sym})
	}
	return result
}
