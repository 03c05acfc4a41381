// The MIT License (MIT)
//
// Copyright (c) 2019 West Damron
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package lower

import (
	"github.com/wdamron/lower/layer"
	"github.com/wdamron/lower/term"
	"github.com/wdamron/lower/types"
)

// rvalue loads a variable operand.
func rvalue(ty, v *term.Term) (*term.Term, *term.Term) {
	if ty.Op == term.TypeVar {
		return ty.Base(), term.New(term.OpLoad, v).At(v.Pos)
	}
	return ty, v
}

// operand transforms an operand of a value-consuming operator.
func (t *Transformer) operand(l *layer.Layer, e *term.Term) (*term.Term, *term.Term) {
	ty, v := t.transform(l, e)
	if isBad(ty) {
		return bad, bad
	}
	return rvalue(ty, v)
}

func isNumLit(v *term.Term) bool { return v.Op == term.OpInt || v.Op == term.OpReal }

func isZero(v *term.Term) bool {
	return (v.Op == term.OpInt && v.Int == 0) || (v.Op == term.OpReal && v.Real == 0)
}

func isOne(v *term.Term) bool {
	return (v.Op == term.OpInt && v.Int == 1) || (v.Op == term.OpReal && v.Real == 1)
}

func explicit(vs ...*term.Term) bool {
	for _, v := range vs {
		if v.Flags&term.FlagExplicit != 0 {
			return true
		}
	}
	return false
}

func realValue(v *term.Term) float64 {
	if v.Op == term.OpReal {
		return v.Real
	}
	if v.Type != nil && v.Type.Op == term.TypeWord && v.Type.Int == 64 {
		return float64(uint64(v.Int))
	}
	return float64(v.Int)
}

// zeroOf returns an explicitly typed zero literal of the numeric type ty.
func zeroOf(ty *term.Term) *term.Term {
	var z *term.Term
	if ty.Op == term.TypeReal {
		z = term.RealLit(0, ty)
	} else {
		z = term.IntLit(0, ty)
	}
	z.Flags |= term.FlagExplicit
	return z
}

func truth(b bool) *term.Term {
	if b {
		return term.IntLit(1, term.Int8)
	}
	return term.IntLit(0, term.Int8)
}

// intResult types a folded integer. Explicit operands fix the type; otherwise the value takes its
// narrowest type.
func intResult(v int64, ty *term.Term, fixed bool, pos term.Pos) (*term.Term, *term.Term) {
	if fixed {
		lit := term.IntLit(types.Truncate(v, ty), ty).At(pos)
		lit.Flags |= term.FlagExplicit
		return ty, lit
	}
	ty = types.Narrowest(v)
	return ty, term.IntLit(v, ty).At(pos)
}

func realResult(v float64, ty *term.Term, fixed bool, pos term.Pos) (*term.Term, *term.Term) {
	if fixed {
		lit := term.RealLit(types.TruncateReal(v, ty), ty).At(pos)
		lit.Flags |= term.FlagExplicit
		return ty, lit
	}
	ty = types.NarrowestReal(v)
	return ty, term.RealLit(v, ty).At(pos)
}

// widenTo converts a numeric value of type from to the wider type to. Literals are retyped.
func widenTo(from, v, to *term.Term) *term.Term {
	if from == to || (from.Op == to.Op && from.Int == to.Int) {
		return v
	}
	switch v.Op {
	case term.OpInt:
		var lit *term.Term
		if to.Op == term.TypeReal {
			_, r := types.ConvertInt(v.Int, from, to)
			lit = term.RealLit(r, to)
		} else {
			lit = term.IntLit(types.Truncate(v.Int, to), to)
		}
		lit.Flags |= v.Flags & term.FlagExplicit
		return lit.At(v.Pos)
	case term.OpReal:
		if to.Op == term.TypeReal {
			lit := term.RealLit(v.Real, to).At(v.Pos)
			lit.Flags |= v.Flags & term.FlagExplicit
			return lit
		}
	}
	return term.New(term.OpConvert, to, v).At(v.Pos)
}

func integerOnly(op term.Op) bool {
	switch op {
	case term.OpMod, term.OpBitAnd, term.OpBitOr, term.OpBitXor, term.OpShl, term.OpShr:
		return true
	}
	return false
}

// arith transforms a binary arithmetic or bitwise operator, folding literal operands and
// removing identity operations.
func (t *Transformer) arith(l *layer.Layer, e *term.Term) (*term.Term, *term.Term) {
	lt, lv := t.operand(l, e.Kid(0))
	rt, rv := t.operand(l, e.Kid(1))
	if isBad(lt, rt) {
		return bad, bad
	}
	if !types.IsNumeric(lt) || !types.IsNumeric(rt) {
		return t.report(TypeViolation, e)
	}
	if integerOnly(e.Op) && (!types.IsInteger(lt) || !types.IsInteger(rt)) {
		return t.report(TypeViolation, e)
	}
	if e.Op == term.OpShl || e.Op == term.OpShr {
		return t.shift(e, lt, lv, rt, rv)
	}

	joined := types.Widen(lt, rt)
	if (e.Op == term.OpDiv || e.Op == term.OpMod) && isNumLit(rv) && isZero(rv) {
		t.report(DivideByZero, e)
		return joined, zeroOf(joined).At(e.Pos)
	}
	if isNumLit(lv) && isNumLit(rv) {
		return fold(e.Op, joined, lv, rv, e.Pos)
	}
	if ty, v, ok := identity(e.Op, joined, lt, lv, rt, rv, e.Pos); ok {
		return ty, v
	}
	return joined, term.New(e.Op, widenTo(lt, lv, joined), widenTo(rt, rv, joined)).At(e.Pos)
}

func fold(op term.Op, joined, lv, rv *term.Term, pos term.Pos) (*term.Term, *term.Term) {
	fixed := explicit(lv, rv)
	if joined.Op == term.TypeReal {
		a, b := realValue(lv), realValue(rv)
		var r float64
		switch op {
		case term.OpAdd:
			r = a + b
		case term.OpSub:
			r = a - b
		case term.OpMul:
			r = a * b
		case term.OpDiv:
			r = a / b
		}
		return realResult(r, joined, fixed, pos)
	}

	a, b := lv.Int, rv.Int
	word := joined.Op == term.TypeWord
	var r int64
	switch op {
	case term.OpAdd:
		r = a + b
	case term.OpSub:
		r = a - b
	case term.OpMul:
		r = a * b
	case term.OpDiv:
		if word {
			r = int64(uint64(a) / uint64(b))
		} else {
			r = a / b
		}
	case term.OpMod:
		if word {
			r = int64(uint64(a) % uint64(b))
		} else {
			r = a % b
		}
	case term.OpBitAnd:
		r = a & b
	case term.OpBitOr:
		r = a | b
	case term.OpBitXor:
		r = a ^ b
	}
	return intResult(r, joined, fixed, pos)
}

// identity removes an operator with one literal operand which leaves the other unchanged or
// forces a zero. Reals only drop +0, -0, *1 and /1.
func identity(op term.Op, joined, lt, lv, rt, rv *term.Term, pos term.Pos) (*term.Term, *term.Term, bool) {
	lLit, rLit := isNumLit(lv), isNumLit(rv)
	if lLit == rLit {
		return nil, nil, false
	}
	integer := joined.Op != term.TypeReal
	zeroL, oneL := lLit && isZero(lv), lLit && isOne(lv)
	zeroR, oneR := rLit && isZero(rv), rLit && isOne(rv)

	left := func() (*term.Term, *term.Term, bool) { return lt, lv, true }
	right := func() (*term.Term, *term.Term, bool) { return rt, rv, true }
	zero := func() (*term.Term, *term.Term, bool) { return joined, zeroOf(joined).At(pos), true }

	switch op {
	case term.OpAdd:
		if zeroR {
			return left()
		}
		if zeroL {
			return right()
		}
	case term.OpSub:
		if zeroR {
			return left()
		}
		if zeroL && integer {
			return joined, term.New(term.OpNeg, widenTo(rt, rv, joined)).At(pos), true
		}
	case term.OpMul:
		if oneR {
			return left()
		}
		if oneL {
			return right()
		}
		if integer && (zeroR || zeroL) {
			return zero()
		}
	case term.OpDiv:
		if oneR {
			return left()
		}
	case term.OpMod:
		if oneR {
			return zero()
		}
	case term.OpBitAnd:
		if zeroR || zeroL {
			return zero()
		}
	case term.OpBitOr, term.OpBitXor:
		if zeroR {
			return left()
		}
		if zeroL {
			return right()
		}
	}
	return nil, nil, false
}

// shift keeps the type of the shifted operand. Literal counts must lie within its width; an
// unsuffixed integer literal may widen to 64 bits.
func (t *Transformer) shift(e, lt, lv, rt, rv *term.Term) (*term.Term, *term.Term) {
	if rv.Op == term.OpInt {
		width := lt.Int
		if lv.Op == term.OpInt && !explicit(lv) && lt.Op == term.TypeInt {
			width = 64
		}
		n := rv.Int
		if rt.Op == term.TypeWord && rt.Int == 64 && n < 0 {
			n = width
		}
		if n < 0 || n >= width {
			t.report(BadShift, e)
			return lt, zeroOf(lt).At(e.Pos)
		}
		if n == 0 {
			return lt, lv
		}
		if lv.Op == term.OpInt {
			var r int64
			switch {
			case e.Op == term.OpShl:
				r = lv.Int << uint(n)
			case lt.Op == term.TypeWord:
				r = int64(uint64(lv.Int) >> uint(n))
			default:
				r = lv.Int >> uint(n)
			}
			return intResult(r, lt, explicit(lv) || lt.Op == term.TypeWord, e.Pos)
		}
	}
	if lv.Op == term.OpInt && lv.Int == 0 {
		return lt, lv
	}
	return lt, term.New(e.Op, lv, rv).At(e.Pos)
}

// compare transforms a relational operator. The result is an int8 truth value.
func (t *Transformer) compare(l *layer.Layer, e *term.Term) (*term.Term, *term.Term) {
	lt, lv := t.operand(l, e.Kid(0))
	rt, rv := t.operand(l, e.Kid(1))
	if isBad(lt, rt) {
		return bad, bad
	}
	equality := e.Op == term.OpEq || e.Op == term.OpNe

	switch {
	case types.IsNumeric(lt) && types.IsNumeric(rt):
		joined := types.Widen(lt, rt)
		if isNumLit(lv) && isNumLit(rv) {
			return term.Int8, truth(compareLits(e.Op, joined, lv, rv)).At(e.Pos)
		}
		return term.Int8, term.New(e.Op, widenTo(lt, lv, joined), widenTo(rt, rv, joined)).At(e.Pos)

	case equality && lt.Op == term.TypeStr && rt.Op == term.TypeStr:
		if lv.Op == term.OpStr && rv.Op == term.OpStr {
			return term.Int8, truth((lv.Str == rv.Str) == (e.Op == term.OpEq)).At(e.Pos)
		}

	case equality && isPointerType(lt) && isPointerType(rt):
		if !t.sub.IsSubtype(l, lt, l, rt) && !t.sub.IsSubtype(l, rt, l, lt) {
			return t.report(TypeViolation, e)
		}
		if lv.Op == term.OpNil && rv.Op == term.OpNil {
			return term.Int8, truth(e.Op == term.OpEq).At(e.Pos)
		}

	default:
		return t.report(TypeViolation, e)
	}
	return term.Int8, term.New(e.Op, lv, rv).At(e.Pos)
}

func isPointerType(ty *term.Term) bool { return ty.Op == term.TypeNull || ty.IsPointer() }

func compareLits(op term.Op, joined, lv, rv *term.Term) bool {
	var c int
	switch {
	case joined.Op == term.TypeReal:
		a, b := realValue(lv), realValue(rv)
		switch {
		case a < b:
			c = -1
		case a > b:
			c = 1
		case a != b:
			// NaN compares unequal and unordered
			return op == term.OpNe
		}
	case joined.Op == term.TypeWord:
		a, b := uint64(lv.Int), uint64(rv.Int)
		switch {
		case a < b:
			c = -1
		case a > b:
			c = 1
		}
	default:
		switch {
		case lv.Int < rv.Int:
			c = -1
		case lv.Int > rv.Int:
			c = 1
		}
	}
	switch op {
	case term.OpEq:
		return c == 0
	case term.OpNe:
		return c != 0
	case term.OpLt:
		return c < 0
	case term.OpLe:
		return c <= 0
	case term.OpGt:
		return c > 0
	}
	return c >= 0
}

// unary transforms negation, bitwise complement and logical not.
func (t *Transformer) unary(l *layer.Layer, e *term.Term) (*term.Term, *term.Term) {
	ty, v := t.operand(l, e.Kid(0))
	if isBad(ty) {
		return bad, bad
	}
	switch e.Op {
	case term.OpNeg:
		if !types.IsNumeric(ty) {
			return t.report(TypeViolation, e)
		}
		switch v.Op {
		case term.OpInt:
			return intResult(-v.Int, ty, explicit(v), e.Pos)
		case term.OpReal:
			return realResult(-v.Real, ty, explicit(v), e.Pos)
		}
		if v.Op == term.OpNeg {
			return ty, v.Kid(0)
		}
		return ty, term.New(term.OpNeg, v).At(e.Pos)

	case term.OpBitNot:
		if !types.IsInteger(ty) {
			return t.report(TypeViolation, e)
		}
		if v.Op == term.OpInt {
			return intResult(^v.Int, ty, explicit(v) || ty.Op == term.TypeWord, e.Pos)
		}
		return ty, term.New(term.OpBitNot, v).At(e.Pos)
	}

	if !types.IsNumeric(ty) && !isPointerType(ty) {
		return t.report(TypeViolation, e)
	}
	switch v.Op {
	case term.OpInt, term.OpReal:
		return term.Int8, truth(isZero(v)).At(e.Pos)
	case term.OpNil:
		return term.Int8, truth(true).At(e.Pos)
	}
	return term.Int8, term.New(term.OpNot, v).At(e.Pos)
}

// truthOf normalizes a scalar to an int8 truth value.
func truthOf(ty, v *term.Term) *term.Term {
	switch v.Op {
	case term.OpInt, term.OpReal:
		return truth(!isZero(v)).At(v.Pos)
	case term.OpNil:
		return truth(false).At(v.Pos)
	}
	if ty == term.Int8 && isTruthValued(v) {
		return v
	}
	return term.New(term.OpNot, term.New(term.OpNot, v)).At(v.Pos)
}

func isTruthValued(v *term.Term) bool {
	switch v.Op {
	case term.OpEq, term.OpNe, term.OpLt, term.OpLe, term.OpGt, term.OpGe, term.OpAnd, term.OpOr, term.OpNot:
		return true
	}
	return false
}

// logical transforms short-circuit conjunction and disjunction. A literal left operand decides
// whether the right operand is transformed at all.
func (t *Transformer) logical(l *layer.Layer, e *term.Term) (*term.Term, *term.Term) {
	lt, lv := t.operand(l, e.Kid(0))
	if isBad(lt) {
		return bad, bad
	}
	if !types.IsNumeric(lt) && !isPointerType(lt) {
		return t.report(TypeViolation, e)
	}
	if lv.IsLiteral() {
		held := lv.Op != term.OpNil && !isZero(lv)
		if held == (e.Op == term.OpOr) {
			return term.Int8, truth(held).At(e.Pos)
		}
		rt, rv := t.operand(l, e.Kid(1))
		if isBad(rt) {
			return bad, bad
		}
		if !types.IsNumeric(rt) && !isPointerType(rt) {
			return t.report(TypeViolation, e)
		}
		return term.Int8, truthOf(rt, rv)
	}

	rt, rv := t.operand(l, e.Kid(1))
	if isBad(rt) {
		return bad, bad
	}
	if !types.IsNumeric(rt) && !isPointerType(rt) {
		return t.report(TypeViolation, e)
	}
	if rv.IsLiteral() {
		held := rv.Op != term.OpNil && !isZero(rv)
		if held == (e.Op == term.OpAnd) {
			// x and true = x; x or false = x
			return term.Int8, truthOf(lt, lv)
		}
	}
	return term.Int8, term.New(e.Op, lv, rv).At(e.Pos)
}
