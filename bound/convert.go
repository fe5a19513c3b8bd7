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
	"strings"

	"github.com/bazelbuild/headergen/sig"
	"github.com/bazelbuild/headergen/symbol"
	"github.com/bazelbuild/headergen/types"
)

// tyVarScope resolves a type-variable name to its symbol while converting a
// sig.Type tree, built from the class's own type parameters plus, for a
// generic method, the method's own. An enclosing class's type parameters
// are not added.
type tyVarScope map[string]*symbol.TyVarSymbol

// sigToType converts a parsed signature/descriptor type into the bound
// model's Type, interning class references through pool. A field or method
// descriptor (no generics) parses through the same sig grammar as a real
// signature, since a descriptor is exactly a signature with no type
// variables or type arguments -- so this one converter serves both.
func sigToType(t sig.Type, pool *symbol.Pool, scope tyVarScope) types.Type {
	switch v := t.(type) {
	case sig.BaseType:
		return types.PrimitiveTy{Prim: primitiveOf(byte(v))}
	case sig.Void:
		return types.VoidTy{}
	case sig.TypeVariable:
		if tv, ok := scope[v.Name]; ok {
			return types.TyVarTy{Sym: tv}
		}
		return types.ErrorTy{Name: v.Name}
	case sig.ArrayType:
		return types.ArrayTy{Elem: sigToType(v.Elem, pool, scope)}
	case sig.ClassType:
		return classSigToType(v, pool, scope)
	}
	return types.ErrorTy{Name: "<unknown signature type>"}
}

func classSigToType(ct sig.ClassType, pool *symbol.Pool, scope tyVarScope) types.ClassTy {
	segs := make([]types.ClassTySegment, len(ct.Segments))
	// Binary names accumulate: "pkg/Outer" then "pkg/Outer$Inner".
	prefix := ct.Package
	for i, seg := range ct.Segments {
		var binaryName string
		if i == 0 {
			if prefix == "" {
				binaryName = seg.Name
			} else {
				binaryName = prefix + "/" + seg.Name
			}
		} else {
			binaryName = segs[i-1].Sym.Name() + "$" + seg.Name
		}
		args := make([]types.Type, len(seg.TypeArgs))
		for j, a := range seg.TypeArgs {
			args[j] = typeArgumentToType(a, pool, scope)
		}
		segs[i] = types.ClassTySegment{Sym: pool.Class(binaryName), TyArgs: args}
	}
	return types.ClassTy{Segments: segs}
}

func typeArgumentToType(a sig.TypeArgument, pool *symbol.Pool, scope tyVarScope) types.Type {
	switch a.Wildcard {
	case '*':
		return types.WildcardTy{Bound: types.WildcardUnbounded}
	case '+':
		return types.WildcardTy{Bound: types.WildcardExtends, Type: sigToType(a.Type, pool, scope)}
	case '-':
		return types.WildcardTy{Bound: types.WildcardSuper, Type: sigToType(a.Type, pool, scope)}
	default:
		return sigToType(a.Type, pool, scope)
	}
}

func primitiveOf(b byte) types.Primitive {
	switch b {
	case 'B':
		return types.PrimByte
	case 'C':
		return types.PrimChar
	case 'D':
		return types.PrimDouble
	case 'F':
		return types.PrimFloat
	case 'I':
		return types.PrimInt
	case 'J':
		return types.PrimLong
	case 'S':
		return types.PrimShort
	case 'Z':
		return types.PrimBoolean
	}
	return types.PrimNone
}

// classBinaryNameFromDescriptor strips the leading 'L' and trailing ';' from
// an object-type descriptor, e.g. "Ljava/lang/String;" -> "java/lang/String".
// Used where only a bare class reference is needed and parsing the full
// descriptor grammar would be overkill.
func classBinaryNameFromDescriptor(desc string) string {
	if strings.HasPrefix(desc, "L") && strings.HasSuffix(desc, ";") {
		return desc[1 : len(desc)-1]
	}
	return desc
}
