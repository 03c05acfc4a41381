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

package types

import (
	"math"

	"github.com/wdamron/lower/term"
)

// IsNumeric reports whether t is an int, word or real type.
func IsNumeric(t *term.Term) bool {
	return t != nil && (t.Op == term.TypeInt || t.Op == term.TypeWord || t.Op == term.TypeReal)
}

// IsInteger reports whether t is an int or word type.
func IsInteger(t *term.Term) bool {
	return t != nil && (t.Op == term.TypeInt || t.Op == term.TypeWord)
}

// Narrowest returns the narrowest signed integer type able to hold v.
func Narrowest(v int64) *term.Term {
	switch {
	case v >= math.MinInt8 && v <= math.MaxInt8:
		return term.Int8
	case v >= math.MinInt16 && v <= math.MaxInt16:
		return term.Int16
	case v >= math.MinInt32 && v <= math.MaxInt32:
		return term.Int32
	}
	return term.Int64
}

// NarrowestReal returns real32 when v survives a round trip through float32, otherwise real64.
func NarrowestReal(v float64) *term.Term {
	if math.IsNaN(v) || float64(float32(v)) == v {
		return term.Real32
	}
	return term.Real64
}

// Widen returns the narrowest numeric type to which values of both a and b convert without loss
// of range, or nil when either is not numeric.
//
// A word joined with an int widens to an int wider than the word, saturating at int64. Integers
// joined with reals produce real64 unless the integer fits in the 24-bit mantissa of real32.
func Widen(a, b *term.Term) *term.Term {
	if !IsNumeric(a) || !IsNumeric(b) {
		return nil
	}
	if a.Op == term.TypeReal || b.Op == term.TypeReal {
		w := int64(32)
		for _, t := range [2]*term.Term{a, b} {
			switch {
			case t.Op == term.TypeReal && t.Int > w:
				w = t.Int
			case t.Op != term.TypeReal && t.Int > 16:
				w = 64
			}
		}
		return term.RealOf(w)
	}
	w := a.Int
	if b.Int > w {
		w = b.Int
	}
	switch {
	case a.Op == term.TypeInt && b.Op == term.TypeInt:
		return term.IntOf(w)
	case a.Op == term.TypeWord && b.Op == term.TypeWord:
		return term.WordOf(w)
	}
	word := a
	if b.Op == term.TypeWord {
		word = b
	}
	if word.Int == w && w < 64 {
		w *= 2
	}
	return term.IntOf(w)
}

// Truncate reduces v to the bit width of the integer type t: sign-extending for ints and
// zero-extending for words. Words of width 64 keep their bit pattern.
func Truncate(v int64, t *term.Term) int64 {
	if !IsInteger(t) || t.Int >= 64 {
		return v
	}
	shift := uint(64 - t.Int)
	if t.Op == term.TypeInt {
		return (v << shift) >> shift
	}
	return int64(uint64(v) << shift >> shift)
}

// Fits reports whether v is representable in the integer type t.
func Fits(v int64, t *term.Term) bool {
	if t.Op == term.TypeWord && v < 0 && t.Int < 64 {
		return false
	}
	return Truncate(v, t) == v
}

// TruncateReal rounds v to the precision of the real type t.
func TruncateReal(v float64, t *term.Term) float64 {
	if t != nil && t.Op == term.TypeReal && t.Int == 32 {
		return float64(float32(v))
	}
	return v
}

// ConvertInt converts the integer literal value v of type from to the numeric type to. When to
// is a real, the value is returned in the real result.
func ConvertInt(v int64, from, to *term.Term) (int64, float64) {
	if to.Op == term.TypeReal {
		if from.Op == term.TypeWord && from.Int == 64 {
			return 0, TruncateReal(float64(uint64(v)), to)
		}
		return 0, TruncateReal(float64(v), to)
	}
	return Truncate(v, to), 0
}

// ConvertReal converts the real literal value v to the numeric type to, truncating toward zero
// when to is an integer type.
func ConvertReal(v float64, to *term.Term) (int64, float64) {
	if to.Op == term.TypeReal {
		return 0, TruncateReal(v, to)
	}
	if to.Op == term.TypeWord && to.Int == 64 && v >= math.MaxInt64 {
		return int64(uint64(v)), 0
	}
	return Truncate(int64(v), to), 0
}
