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
	"github.com/bazelbuild/headergen/bound"
	"github.com/bazelbuild/headergen/sig"
	"github.com/bazelbuild/headergen/symbol"
	"github.com/bazelbuild/headergen/types"
)

// descriptorOf renders t as an erased field/method-parameter descriptor:
// type arguments are dropped and a bare type variable erases to its first
// bound (approximated here as java/lang/Object, since per-occurrence bound
// tracking isn't threaded through Type the way sig.TypeParam carries it).
func descriptorOf(t types.Type) string {
	switch v := t.(type) {
	case types.PrimitiveTy:
		return string(descriptorChar(v.Prim))
	case types.VoidTy:
		return "V"
	case types.ArrayTy:
		return "[" + descriptorOf(v.Elem)
	case types.ClassTy:
		return "L" + v.Sym().Name() + ";"
	case types.WildcardTy:
		if v.Type != nil {
			return descriptorOf(v.Type)
		}
		return "Ljava/lang/Object;"
	default:
		// TyVarTy and ErrorTy both erase to Object.
		return "Ljava/lang/Object;"
	}
}

func descriptorChar(p types.Primitive) byte {
	switch p {
	case types.PrimByte:
		return 'B'
	case types.PrimChar:
		return 'C'
	case types.PrimDouble:
		return 'D'
	case types.PrimFloat:
		return 'F'
	case types.PrimInt:
		return 'I'
	case types.PrimLong:
		return 'J'
	case types.PrimShort:
		return 'S'
	case types.PrimBoolean:
		return 'Z'
	}
	return 'I'
}

func methodDescriptor(m *bound.MethodBinding) string {
	d := "("
	for _, p := range m.Params {
		d += descriptorOf(p.Type)
	}
	d += ")" + descriptorOf(m.Return)
	return d
}

// signatureOf returns t's Signature-attribute string, or "" if t carries no
// generic information and the plain descriptor already says everything.
func signatureOf(t types.Type) string {
	if !hasGenerics(t) {
		return ""
	}
	return sig.WriteFieldSig(typeToSigType(t))
}

func methodSignature(m *bound.MethodBinding) string {
	generic := len(m.TypeParams) > 0
	for _, p := range m.Params {
		generic = generic || hasGenerics(p.Type)
	}
	generic = generic || hasGenerics(m.Return)
	for _, t := range m.Throws {
		generic = generic || hasGenerics(t)
	}
	if !generic {
		return ""
	}
	ms := sig.MethodSig{
		TypeParams: typeParamsToSig(m.TypeParams, nil),
		Return:     typeToSigType(m.Return),
	}
	for _, p := range m.Params {
		ms.Params = append(ms.Params, typeToSigType(p.Type))
	}
	for _, t := range m.Throws {
		ms.Throws = append(ms.Throws, typeToSigType(t))
	}
	return sig.WriteMethodSig(ms)
}

// classSignature returns c's class_signature string, or "" if c uses no
// generics anywhere in its type parameters, superclass, or interfaces.
func classSignature(c bound.Class) string {
	var bounds [][]types.Type
	if sc, ok := c.(*bound.SourceClass); ok {
		bounds = sc.TyParamBounds
	}
	typeParams := typeParamsToSig(c.TypeParamSyms(), bounds)

	generic := len(typeParams) > 0 || hasGenerics(c.SuperType())
	for _, it := range c.InterfaceTypes() {
		generic = generic || hasGenerics(it)
	}
	if !generic {
		return ""
	}

	superCT, _ := typeToSigType(c.SuperType()).(sig.ClassType)
	var ifaceCTs []sig.ClassType
	for _, it := range c.InterfaceTypes() {
		if ct, ok := typeToSigType(it).(sig.ClassType); ok {
			ifaceCTs = append(ifaceCTs, ct)
		}
	}
	return sig.WriteClassSig(sig.ClassSig{TypeParams: typeParams, Super: superCT, Interfaces: ifaceCTs})
}

// typeParamsToSig builds the Signature attribute's TypeParameters section.
// bounds[i], when present, is TypeParamSyms()[i]'s resolved bound list (first
// entry a class bound, rest interface bounds); a type parameter with no
// tracked bounds gets an implicit java.lang.Object class bound, matching
// what javac itself emits for an unbounded parameter.
func typeParamsToSig(syms []*symbol.TyVarSymbol, bounds [][]types.Type) []sig.TypeParam {
	if len(syms) == 0 {
		return nil
	}
	params := make([]sig.TypeParam, len(syms))
	for i, tv := range syms {
		p := sig.TypeParam{Name: tv.Name, ClassBound: defaultObjectClassType()}
		if i < len(bounds) && len(bounds[i]) > 0 {
			p.ClassBound = typeToSigType(bounds[i][0])
			for _, b := range bounds[i][1:] {
				p.Interfaces = append(p.Interfaces, typeToSigType(b))
			}
		}
		params[i] = p
	}
	return params
}

func defaultObjectClassType() sig.Type {
	return sig.ClassType{Package: "java/lang", Segments: []sig.ClassTypeSegment{{Name: "Object"}}}
}

// hasGenerics reports whether t mentions a type variable or carries a
// non-empty type-argument list anywhere in its structure, the condition
// under which a Signature attribute is required alongside the descriptor.
func hasGenerics(t types.Type) bool {
	switch v := t.(type) {
	case types.TyVarTy:
		return true
	case types.ArrayTy:
		return hasGenerics(v.Elem)
	case types.WildcardTy:
		return true
	case types.ClassTy:
		for _, s := range v.Segments {
			if len(s.TyArgs) > 0 {
				return true
			}
		}
		return false
	}
	return false
}

func typeToSigType(t types.Type) sig.Type {
	switch v := t.(type) {
	case types.PrimitiveTy:
		return sig.BaseType(descriptorChar(v.Prim))
	case types.VoidTy:
		return sig.Void{}
	case types.TyVarTy:
		return sig.TypeVariable{Name: v.Sym.Name}
	case types.ArrayTy:
		return sig.ArrayType{Elem: typeToSigType(v.Elem)}
	case types.ClassTy:
		return classTyToSig(v)
	case types.WildcardTy:
		if v.Type == nil {
			return defaultObjectClassType()
		}
		return typeToSigType(v.Type)
	default:
		return defaultObjectClassType()
	}
}

func classTyToSig(ct types.ClassTy) sig.ClassType {
	segs := make([]sig.ClassTypeSegment, len(ct.Segments))
	pkg := ""
	for i, s := range ct.Segments {
		if i == 0 {
			pkg = s.Sym.PackageName()
		}
		args := make([]sig.TypeArgument, len(s.TyArgs))
		for j, a := range s.TyArgs {
			args[j] = typeArgToSig(a)
		}
		segs[i] = sig.ClassTypeSegment{Name: s.Sym.SimpleName(), TypeArgs: args}
	}
	return sig.ClassType{Package: pkg, Segments: segs}
}

func typeArgToSig(t types.Type) sig.TypeArgument {
	if wt, ok := t.(types.WildcardTy); ok {
		switch wt.Bound {
		case types.WildcardUnbounded:
			return sig.TypeArgument{Wildcard: '*'}
		case types.WildcardExtends:
			return sig.TypeArgument{Wildcard: '+', Type: typeToSigType(wt.Type)}
		case types.WildcardSuper:
			return sig.TypeArgument{Wildcard: '-', Type: typeToSigType(wt.Type)}
		}
	}
	return sig.TypeArgument{Type: typeToSigType(t)}
}
