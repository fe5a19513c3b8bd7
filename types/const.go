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

package types

import (
	"fmt"
	"strconv"

	"github.com/bazelbuild/headergen/symbol"
)

// Const is the sealed interface for a compile-time constant value, modeled
// after golang.org/x/tools's go/exact.Value: one implementation per kind,
// each with a private sealing method so the set of variants is closed.
type Const interface {
	ConstKind() ConstKind
	String() string
	constSealed()
}

// ConstKind enumerates the variants of Const.
type ConstKind int

const (
	ConstBoolean ConstKind = iota
	ConstByte
	ConstShort
	ConstChar
	ConstInt
	ConstLong
	ConstFloat
	ConstDouble
	ConstString
	ConstClassLiteral
	ConstEnumConstant
	ConstAnnotationLiteral
	ConstArrayLiteral
	ConstNull
)

// BooleanValue is a boolean constant.
type BooleanValue bool

func (BooleanValue) ConstKind() ConstKind   { return ConstBoolean }
func (v BooleanValue) String() string       { return strconv.FormatBool(bool(v)) }
func (BooleanValue) constSealed()           {}

// ByteValue is a byte constant (narrowed from an int, per JLS 5.2 assignment conversion).
type ByteValue int8

func (ByteValue) ConstKind() ConstKind { return ConstByte }
func (v ByteValue) String() string     { return strconv.Itoa(int(v)) }
func (ByteValue) constSealed()         {}

// ShortValue is a short constant.
type ShortValue int16

func (ShortValue) ConstKind() ConstKind { return ConstShort }
func (v ShortValue) String() string     { return strconv.Itoa(int(v)) }
func (ShortValue) constSealed()         {}

// CharValue is a char constant, stored as its UTF-16 code unit.
type CharValue uint16

func (CharValue) ConstKind() ConstKind { return ConstChar }
func (v CharValue) String() string     { return strconv.Itoa(int(v)) }
func (CharValue) constSealed()         {}

// IntValue is an int constant.
type IntValue int32

func (IntValue) ConstKind() ConstKind { return ConstInt }
func (v IntValue) String() string     { return strconv.Itoa(int(v)) }
func (IntValue) constSealed()         {}

// LongValue is a long constant.
type LongValue int64

func (LongValue) ConstKind() ConstKind { return ConstLong }
func (v LongValue) String() string     { return strconv.FormatInt(int64(v), 10) }
func (LongValue) constSealed()         {}

// FloatValue is a float constant.
type FloatValue float32

func (FloatValue) ConstKind() ConstKind { return ConstFloat }
func (v FloatValue) String() string     { return strconv.FormatFloat(float64(v), 'g', -1, 32) }
func (FloatValue) constSealed()         {}

// DoubleValue is a double constant.
type DoubleValue float64

func (DoubleValue) ConstKind() ConstKind { return ConstDouble }
func (v DoubleValue) String() string     { return strconv.FormatFloat(float64(v), 'g', -1, 64) }
func (DoubleValue) constSealed()         {}

// StringValue is a String constant (from a literal, or string concatenation of constants).
type StringValue string

func (StringValue) ConstKind() ConstKind { return ConstString }
func (v StringValue) String() string     { return strconv.Quote(string(v)) }
func (StringValue) constSealed()         {}

// NullValue is the "null" literal, usable only where a reference-typed
// constant is permitted (annotation default values, never a ConstantValue attribute).
type NullValue struct{}

func (NullValue) ConstKind() ConstKind { return ConstNull }
func (NullValue) String() string       { return "null" }
func (NullValue) constSealed()         {}

// ClassLiteralValue is "Foo.class" or "int.class" used as an annotation argument.
type ClassLiteralValue struct {
	Type Type
}

func (ClassLiteralValue) ConstKind() ConstKind { return ConstClassLiteral }
func (v ClassLiteralValue) String() string     { return v.Type.String() + ".class" }
func (ClassLiteralValue) constSealed()         {}

// EnumConstantValue is a reference to an enum constant used as an annotation argument.
type EnumConstantValue struct {
	EnumClass *symbol.ClassSymbol
	Name      string
}

func (EnumConstantValue) ConstKind() ConstKind { return ConstEnumConstant }
func (v EnumConstantValue) String() string     { return fmt.Sprintf("%s.%s", v.EnumClass.Name(), v.Name) }
func (EnumConstantValue) constSealed()         {}

// AnnotationLiteralValue is a nested annotation used as an annotation argument value.
type AnnotationLiteralValue struct {
	Info *AnnoInfo
}

func (AnnotationLiteralValue) ConstKind() ConstKind { return ConstAnnotationLiteral }
func (v AnnotationLiteralValue) String() string     { return "@" + v.Info.Sym.Name() }
func (AnnotationLiteralValue) constSealed()         {}

// ArrayLiteralValue is an array-valued annotation argument, e.g. {1, 2, 3}.
type ArrayLiteralValue struct {
	Elems []Const
}

func (ArrayLiteralValue) ConstKind() ConstKind { return ConstArrayLiteral }
func (v ArrayLiteralValue) String() string {
	s := "{"
	for i, e := range v.Elems {
		if i > 0 {
			s += ", "
		}
		s += e.String()
	}
	return s + "}"
}
func (ArrayLiteralValue) constSealed() {}

// IsNumeric reports whether k is one of the numeric primitive const kinds.
func (k ConstKind) IsNumeric() bool {
	switch k {
	case ConstByte, ConstShort, ConstChar, ConstInt, ConstLong, ConstFloat, ConstDouble:
		return true
	}
	return false
}
