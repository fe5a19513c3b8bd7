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

package constant

import (
	"testing"

	"github.com/bazelbuild/headergen/ast"
	"github.com/bazelbuild/headergen/types"
)

func noLookup(ast.Expr, string) (types.Const, bool) {
	return nil, false
}

// TestEvalBooleanIntMismatchHasNoConstantValue is scenario S6: a comparison
// between a boolean and an int operand, "true == 42", is never a constant
// expression, no matter what the declared type of whatever it initializes
// would be.
func TestEvalBooleanIntMismatchHasNoConstantValue(t *testing.T) {
	expr := &ast.BinaryExpr{
		Op:   "==",
		Left: &ast.Literal{Kind: ast.LitBoolean, Text: "true"},
		Right: &ast.Literal{
			Kind: ast.LitInt,
			Text: "42",
		},
	}

	if v, ok := Eval(expr, types.PrimNone, noLookup); ok {
		t.Fatalf("Eval(true == 42) = %v, %v, want ok == false", v, ok)
	}
}

func TestEvalIntComparisonIsConstant(t *testing.T) {
	expr := &ast.BinaryExpr{
		Op:    "==",
		Left:  &ast.Literal{Kind: ast.LitInt, Text: "42"},
		Right: &ast.Literal{Kind: ast.LitInt, Text: "42"},
	}

	v, ok := Eval(expr, types.PrimNone, noLookup)
	if !ok {
		t.Fatalf("Eval(42 == 42) ok = false, want true")
	}
	if b, isBool := v.(types.BooleanValue); !isBool || !bool(b) {
		t.Errorf("Eval(42 == 42) = %v, want BooleanValue(true)", v)
	}
}

func TestEvalFieldInitializerNarrowsToDeclaredType(t *testing.T) {
	expr := &ast.Literal{Kind: ast.LitInt, Text: "10"}

	v, ok := Eval(expr, types.PrimByte, noLookup)
	if !ok {
		t.Fatalf("Eval(10) ok = false, want true")
	}
	if bv, isByte := v.(types.ByteValue); !isByte || bv != 10 {
		t.Errorf("Eval(10) narrowed to byte = %v, want ByteValue(10)", v)
	}
}
