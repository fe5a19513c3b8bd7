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
	"strconv"
	"strings"

	"github.com/bazelbuild/headergen/ast"
	"github.com/bazelbuild/headergen/types"
)

// LookupFunc resolves a (possibly qualified) name reference appearing in a
// constant expression to another constant value, recursing into the
// Resolver that owns the evaluation in progress. It returns ok == false if
// name isn't a constant (or isn't a constant yet, e.g. a cycle).
type LookupFunc func(qualifier ast.Expr, name string) (types.Const, bool)

// Eval evaluates expr to a constant value. declaredType, when not PrimNone,
// is the declared type of the field the expression initializes: the result
// is narrowed to it following JLS 5.2 assignment-conversion rules (a
// constant int expression may narrow into byte/short/char without an
// explicit cast). Returns ok == false if expr is not a compile-time constant.
func Eval(expr ast.Expr, declaredType types.Primitive, lookup LookupFunc) (types.Const, bool) {
	v, ok := eval(expr, lookup)
	if !ok {
		return nil, false
	}
	if declaredType != types.PrimNone {
		return narrowAssign(v, declaredType)
	}
	return v, true
}

func eval(expr ast.Expr, lookup LookupFunc) (types.Const, bool) {
	switch e := expr.(type) {
	case *ast.Literal:
		return evalLiteral(e)
	case *ast.NameExpr:
		return lookup(e.Qualifier, e.Name)
	case *ast.UnaryExpr:
		return evalUnary(e, lookup)
	case *ast.BinaryExpr:
		return evalBinary(e, lookup)
	case *ast.CastExpr:
		return evalCast(e, lookup)
	case *ast.ArrayInitExpr:
		return evalArray(e, lookup)
	default:
		return nil, false
	}
}

func evalLiteral(l *ast.Literal) (types.Const, bool) {
	switch l.Kind {
	case ast.LitBoolean:
		return types.BooleanValue(l.Text == "true"), true
	case ast.LitChar:
		r := []rune(l.Text)
		if len(r) == 0 {
			return types.CharValue(0), true
		}
		return types.CharValue(uint16(r[0])), true
	case ast.LitInt:
		n, err := strconv.ParseInt(normalizeIntText(l.Text), 0, 64)
		if err != nil {
			return nil, false
		}
		return types.IntValue(int32(n)), true
	case ast.LitLong:
		n, err := strconv.ParseInt(normalizeIntText(strings.TrimSuffix(strings.TrimSuffix(l.Text, "L"), "l")), 0, 64)
		if err != nil {
			return nil, false
		}
		return types.LongValue(n), true
	case ast.LitFloat:
		f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSuffix(l.Text, "f"), "F"), 32)
		if err != nil {
			return nil, false
		}
		return types.FloatValue(float32(f)), true
	case ast.LitDouble:
		f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSuffix(l.Text, "d"), "D"), 64)
		if err != nil {
			return nil, false
		}
		return types.DoubleValue(f), true
	case ast.LitString:
		s, err := strconv.Unquote(l.Text)
		if err != nil {
			return nil, false
		}
		return types.StringValue(s), true
	case ast.LitNull:
		return types.NullValue{}, true
	}
	return nil, false
}

// normalizeIntText strips Java's digit-group underscores so strconv can
// parse it (the lexer already leaves an l/L suffix out of a long literal's
// text); 0x/0b/0 prefixes are already in a form
// strconv.ParseInt(_, 0, _) understands, except Java's 0b which Go's base-0
// parser also accepts.
func normalizeIntText(s string) string {
	return strings.ReplaceAll(s, "_", "")
}

func evalUnary(u *ast.UnaryExpr, lookup LookupFunc) (types.Const, bool) {
	v, ok := eval(u.Operand, lookup)
	if !ok {
		return nil, false
	}
	switch u.Op {
	case "+":
		return unaryPromote(v), true
	case "-":
		return negate(unaryPromote(v))
	case "~":
		return bitnot(unaryPromote(v))
	case "!":
		b, ok := v.(types.BooleanValue)
		if !ok {
			return nil, false
		}
		return types.BooleanValue(!bool(b)), true
	}
	return nil, false
}

// unaryPromote applies JLS 5.6.1 unary numeric promotion: byte/short/char widen to int.
func unaryPromote(v types.Const) types.Const {
	switch x := v.(type) {
	case types.ByteValue:
		return types.IntValue(int32(x))
	case types.ShortValue:
		return types.IntValue(int32(x))
	case types.CharValue:
		return types.IntValue(int32(x))
	}
	return v
}

func negate(v types.Const) (types.Const, bool) {
	switch x := v.(type) {
	case types.IntValue:
		return types.IntValue(-x), true
	case types.LongValue:
		return types.LongValue(-x), true
	case types.FloatValue:
		return types.FloatValue(-x), true
	case types.DoubleValue:
		return types.DoubleValue(-x), true
	}
	return nil, false
}

func bitnot(v types.Const) (types.Const, bool) {
	switch x := v.(type) {
	case types.IntValue:
		return types.IntValue(^x), true
	case types.LongValue:
		return types.LongValue(^x), true
	}
	return nil, false
}

func evalCast(c *ast.CastExpr, lookup LookupFunc) (types.Const, bool) {
	v, ok := eval(c.Operand, lookup)
	if !ok {
		return nil, false
	}
	if c.Type.Primitive == "" {
		// Casting a constant to a reference type never changes its value for our purposes
		// (the result is no longer itself usable as a ConstantValue, but headergen doesn't
		// need to represent that distinction: only field initializers of primitive/String
		// declared type ever reach the ConstantValue attribute).
		return v, true
	}
	return narrowAssign(v, primitiveOf(c.Type.Primitive))
}

func primitiveOf(name string) types.Primitive {
	switch name {
	case "boolean":
		return types.PrimBoolean
	case "byte":
		return types.PrimByte
	case "char":
		return types.PrimChar
	case "short":
		return types.PrimShort
	case "int":
		return types.PrimInt
	case "long":
		return types.PrimLong
	case "float":
		return types.PrimFloat
	case "double":
		return types.PrimDouble
	}
	return types.PrimNone
}

// narrowAssign converts v to target per JLS 5.2: a constant whose value fits
// in byte/short/char narrows without an explicit cast being required; a
// widening conversion always succeeds. No range check is made: a numeric
// value that does not fit an integral target is truncated, as a cast would.
// A non-numeric v passes through unchanged for a numeric target. Returns
// ok == false only if target is boolean and v is not a boolean.
func narrowAssign(v types.Const, target types.Primitive) (types.Const, bool) {
	if target == types.PrimBoolean {
		b, ok := v.(types.BooleanValue)
		return b, ok
	}
	f, ok := asFloat64(v)
	if !ok {
		return v, true // non-numeric (String, class literal, ...): nothing to narrow.
	}
	switch target {
	case types.PrimByte:
		return types.ByteValue(int8(int64(f))), true
	case types.PrimShort:
		return types.ShortValue(int16(int64(f))), true
	case types.PrimChar:
		return types.CharValue(uint16(int64(f))), true
	case types.PrimInt:
		return types.IntValue(int32(int64(f))), true
	case types.PrimLong:
		return types.LongValue(int64(f)), true
	case types.PrimFloat:
		return types.FloatValue(float32(f)), true
	case types.PrimDouble:
		return types.DoubleValue(f), true
	}
	return v, true
}

func asFloat64(v types.Const) (float64, bool) {
	switch x := v.(type) {
	case types.ByteValue:
		return float64(x), true
	case types.ShortValue:
		return float64(x), true
	case types.CharValue:
		return float64(x), true
	case types.IntValue:
		return float64(x), true
	case types.LongValue:
		return float64(x), true
	case types.FloatValue:
		return float64(x), true
	case types.DoubleValue:
		return float64(x), true
	}
	return 0, false
}

func asInt64(v types.Const) (int64, bool) {
	switch x := v.(type) {
	case types.ByteValue:
		return int64(x), true
	case types.ShortValue:
		return int64(x), true
	case types.CharValue:
		return int64(x), true
	case types.IntValue:
		return int64(x), true
	case types.LongValue:
		return int64(x), true
	}
	return 0, false
}

func evalBinary(b *ast.BinaryExpr, lookup LookupFunc) (types.Const, bool) {
	// String concatenation short-circuits promotion: if either side is a
	// String, "+" stringifies the other side (JLS 15.18.1).
	if b.Op == "+" {
		l, lok := eval(b.Left, lookup)
		r, rok := eval(b.Right, lookup)
		if lok && rok {
			if ls, ok := l.(types.StringValue); ok {
				return types.StringValue(string(ls) + stringify(r)), true
			}
			if rs, ok := r.(types.StringValue); ok {
				return types.StringValue(stringify(l) + string(rs)), true
			}
		}
		if !lok || !rok {
			return nil, false
		}
		return binaryNumeric(b.Op, l, r)
	}

	switch b.Op {
	case "&&", "||":
		l, lok := eval(b.Left, lookup)
		r, rok := eval(b.Right, lookup)
		if !lok || !rok {
			return nil, false
		}
		lb, lok2 := l.(types.BooleanValue)
		rb, rok2 := r.(types.BooleanValue)
		if !lok2 || !rok2 {
			return nil, false
		}
		if b.Op == "&&" {
			return types.BooleanValue(bool(lb) && bool(rb)), true
		}
		return types.BooleanValue(bool(lb) || bool(rb)), true
	}

	l, lok := eval(b.Left, lookup)
	r, rok := eval(b.Right, lookup)
	if !lok || !rok {
		return nil, false
	}

	switch b.Op {
	case "==", "!=", "<", "<=", ">", ">=":
		return compare(b.Op, l, r)
	}
	return binaryNumeric(b.Op, l, r)
}

func stringify(v types.Const) string {
	switch x := v.(type) {
	case types.StringValue:
		return string(x)
	case types.BooleanValue:
		if bool(x) {
			return "true"
		}
		return "false"
	case types.CharValue:
		return string(rune(x))
	default:
		return v.String()
	}
}

// binaryPromote applies JLS 5.6.2 binary numeric promotion and reports the
// common kind both operands are promoted to.
func binaryPromote(l, r types.Const) types.ConstKind {
	_, lf := l.(types.DoubleValue)
	_, rf := r.(types.DoubleValue)
	if lf || rf {
		return types.ConstDouble
	}
	_, lf32 := l.(types.FloatValue)
	_, rf32 := r.(types.FloatValue)
	if lf32 || rf32 {
		return types.ConstFloat
	}
	_, ll := l.(types.LongValue)
	_, rl := r.(types.LongValue)
	if ll || rl {
		return types.ConstLong
	}
	return types.ConstInt
}

func binaryNumeric(op string, l, r types.Const) (types.Const, bool) {
	kind := binaryPromote(l, r)
	switch kind {
	case types.ConstDouble, types.ConstFloat:
		lf, lok := asFloat64(l)
		rf, rok := asFloat64(r)
		if !lok || !rok {
			return nil, false
		}
		var res float64
		switch op {
		case "+":
			res = lf + rf
		case "-":
			res = lf - rf
		case "*":
			res = lf * rf
		case "/":
			res = lf / rf
		case "%":
			res = mod(lf, rf)
		default:
			return nil, false
		}
		if kind == types.ConstFloat {
			return types.FloatValue(float32(res)), true
		}
		return types.DoubleValue(res), true
	default:
		li, lok := asInt64(l)
		ri, rok := asInt64(r)
		if !lok || !rok {
			return nil, false
		}
		var res int64
		switch op {
		case "+":
			res = li + ri
		case "-":
			res = li - ri
		case "*":
			res = li * ri
		case "/":
			if ri == 0 {
				return nil, false
			}
			res = li / ri
		case "%":
			if ri == 0 {
				return nil, false
			}
			res = li % ri
		case "&":
			res = li & ri
		case "|":
			res = li | ri
		case "^":
			res = li ^ ri
		case "<<":
			res = li << uint(ri&mask(kind))
		case ">>":
			res = li >> uint(ri&mask(kind))
		case ">>>":
			if kind == types.ConstLong {
				res = int64(uint64(li) >> uint(ri&63))
			} else {
				res = int64(uint32(li) >> uint(ri&31))
			}
		default:
			return nil, false
		}
		if kind == types.ConstLong {
			return types.LongValue(res), true
		}
		return types.IntValue(int32(res)), true
	}
}

func mask(kind types.ConstKind) int64 {
	if kind == types.ConstLong {
		return 63
	}
	return 31
}

func mod(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	q := a - b*float64(int64(a/b))
	return q
}

func compare(op string, l, r types.Const) (types.Const, bool) {
	if op == "==" || op == "!=" {
		if lb, ok := l.(types.BooleanValue); ok {
			rb, ok2 := r.(types.BooleanValue)
			if !ok2 {
				return nil, false
			}
			eq := lb == rb
			if op == "!=" {
				eq = !eq
			}
			return types.BooleanValue(eq), true
		}
	}
	lf, lok := asFloat64(l)
	rf, rok := asFloat64(r)
	if !lok || !rok {
		return nil, false
	}
	var res bool
	switch op {
	case "==":
		res = lf == rf
	case "!=":
		res = lf != rf
	case "<":
		res = lf < rf
	case "<=":
		res = lf <= rf
	case ">":
		res = lf > rf
	case ">=":
		res = lf >= rf
	default:
		return nil, false
	}
	return types.BooleanValue(res), true
}

func evalArray(a *ast.ArrayInitExpr, lookup LookupFunc) (types.Const, bool) {
	elems := make([]types.Const, 0, len(a.Elems))
	for _, e := range a.Elems {
		v, ok := eval(e, lookup)
		if !ok {
			return nil, false
		}
		elems = append(elems, v)
	}
	return types.ArrayLiteralValue{Elems: elems}, true
}
