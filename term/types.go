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

package term

// Shared basic types. Basic types contain no names, so they are strongly ground and may be
// shared freely.
var (
	Void = &Term{Op: TypeVoid}
	Null = &Term{Op: TypeNull}
	Str  = &Term{Op: TypeStr}

	Int8  = &Term{Op: TypeInt, Int: 8}
	Int16 = &Term{Op: TypeInt, Int: 16}
	Int32 = &Term{Op: TypeInt, Int: 32}
	Int64 = &Term{Op: TypeInt, Int: 64}

	Word8  = &Term{Op: TypeWord, Int: 8}
	Word16 = &Term{Op: TypeWord, Int: 16}
	Word32 = &Term{Op: TypeWord, Int: 32}
	Word64 = &Term{Op: TypeWord, Int: 64}

	Real32 = &Term{Op: TypeReal, Int: 32}
	Real64 = &Term{Op: TypeReal, Int: 64}
)

// IntOf returns the shared signed integer type of the given width.
func IntOf(width int64) *Term {
	switch width {
	case 8:
		return Int8
	case 16:
		return Int16
	case 32:
		return Int32
	}
	return Int64
}

// WordOf returns the shared unsigned integer type of the given width.
func WordOf(width int64) *Term {
	switch width {
	case 8:
		return Word8
	case 16:
		return Word16
	case 32:
		return Word32
	}
	return Word64
}

// RealOf returns the shared real type of the given width.
func RealOf(width int64) *Term {
	if width == 32 {
		return Real32
	}
	return Real64
}

// RefOf creates `ref base`.
func RefOf(base *Term) *Term { return New(TypeRef, base) }

// RowOf creates `row base`.
func RowOf(base *Term) *Term { return New(TypeRow, base) }

// VarOf creates `var base`.
func VarOf(base *Term) *Term { return New(TypeVar, base) }

// TypeOf creates `type base`.
func TypeOf(base *Term) *Term { return New(TypeType, base) }

// ArrayOf creates `array(n) elem`.
func ArrayOf(n int64, elem *Term) *Term { return &Term{Op: TypeArray, Int: n, Kids: []*Term{elem}} }

// SlotOf creates a named slot, parameter or generic parameter.
func SlotOf(op Op, name Name, t *Term) *Term { return &Term{Op: op, Name: name, Kids: []*Term{t}} }

// TupleOf creates a tuple type from Slot terms.
func TupleOf(slots ...*Term) *Term { return New(TypeTuple, slots...) }

// ExeOf creates a proc, form or gen type from parameter terms and a result.
func ExeOf(op Op, params []*Term, result *Term) *Term {
	kids := make([]*Term, len(params)+1)
	copy(kids, params)
	kids[len(params)] = result
	return New(op, kids...)
}

// SkolemOf creates a fresh opaque placeholder for a generic name.
func SkolemOf(name Name, bound *Term) *Term {
	return &Term{Op: TypeSkolem, Name: name, Kids: []*Term{bound}}
}

// NameOf creates a reference to a name.
func NameOf(n Name) *Term { return &Term{Op: OpName, Name: n} }

// IntLit creates an integer literal of type t.
func IntLit(v int64, t *Term) *Term { return &Term{Op: OpInt, Int: v, Type: t} }

// RealLit creates a real literal of type t.
func RealLit(v float64, t *Term) *Term { return &Term{Op: OpReal, Real: v, Type: t} }

// StrLit creates a string literal.
func StrLit(s string) *Term { return &Term{Op: OpStr, Str: s, Type: Str} }

// NilLit creates a nil literal.
func NilLit() *Term { return &Term{Op: OpNil, Type: Null} }

// Skip is the shared void value.
var Skip = &Term{Op: OpSkip}
