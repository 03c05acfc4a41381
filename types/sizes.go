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
	"github.com/wdamron/lower/term"
)

// SizeOracle reports the memory layout of types. The engine consults it when folding size and
// alignment queries and when checking that array elements are sized.
type SizeOracle interface {
	// IsSized reports whether values of t occupy a fixed, known amount of memory.
	IsSized(t *term.Term) bool
	// Size returns the size of t in bytes. t must be sized.
	Size(t *term.Term) int64
	// Align returns the alignment of t in bytes. t must be sized.
	Align(t *term.Term) int64
}

// DefaultSizes lays out types with natural alignment. Pointers, strings and procedures occupy
// PointerSize bytes.
type DefaultSizes struct {
	PointerSize int64
}

// LP64 is the layout used when none is configured.
var LP64 = DefaultSizes{PointerSize: 8}

var _ SizeOracle = DefaultSizes{}

func (s DefaultSizes) ptr() int64 {
	if s.PointerSize <= 0 {
		return 8
	}
	return s.PointerSize
}

func (s DefaultSizes) IsSized(t *term.Term) bool {
	return s.isSized(make(term.TermSet, 8), t)
}

func (s DefaultSizes) isSized(onPath term.TermSet, t *term.Term) bool {
	if t == nil || !onPath.Add(t) {
		// a value containing itself is infinite
		return false
	}
	defer onPath.Remove(t)
	switch t.Op {
	case term.TypeNull, term.TypeInt, term.TypeWord, term.TypeReal, term.TypeStr,
		term.TypeRef, term.TypeRow, term.TypeVar, term.TypeProc:
		return true
	case term.TypeArray:
		return t.Int >= 0 && s.isSized(onPath, t.Base())
	case term.TypeTuple:
		for _, slot := range t.Kids {
			if !s.isSized(onPath, slot.Kid(0)) {
				return false
			}
		}
		return true
	}
	return false
}

func (s DefaultSizes) Size(t *term.Term) int64 {
	switch t.Op {
	case term.TypeInt, term.TypeWord, term.TypeReal:
		return t.Int / 8
	case term.TypeNull, term.TypeStr, term.TypeRef, term.TypeRow, term.TypeVar, term.TypeProc:
		return s.ptr()
	case term.TypeArray:
		return t.Int * s.Size(t.Base())
	case term.TypeTuple:
		var offset, align int64 = 0, 1
		for _, slot := range t.Kids {
			a := s.Align(slot.Kid(0))
			offset = roundUp(offset, a) + s.Size(slot.Kid(0))
			if a > align {
				align = a
			}
		}
		return roundUp(offset, align)
	}
	return 0
}

func (s DefaultSizes) Align(t *term.Term) int64 {
	switch t.Op {
	case term.TypeInt, term.TypeWord, term.TypeReal:
		return t.Int / 8
	case term.TypeNull, term.TypeStr, term.TypeRef, term.TypeRow, term.TypeVar, term.TypeProc:
		return s.ptr()
	case term.TypeArray:
		return s.Align(t.Base())
	case term.TypeTuple:
		var align int64 = 1
		for _, slot := range t.Kids {
			if a := s.Align(slot.Kid(0)); a > align {
				align = a
			}
		}
		return align
	}
	return 1
}

func roundUp(n, a int64) int64 {
	if a <= 1 {
		return n
	}
	return (n + a - 1) / a * a
}

// HasPointers reports whether values of t contain a pointer the collector must trace. Executable
// and type values are not traced.
func HasPointers(t *term.Term) bool {
	return hasPointers(make(term.TermSet, 8), t)
}

func hasPointers(seen term.TermSet, t *term.Term) bool {
	if t == nil || !seen.Add(t) {
		return false
	}
	switch t.Op {
	case term.TypeRef, term.TypeRow, term.TypeNull, term.TypeStr:
		return true
	case term.TypeVar, term.TypeArray:
		return hasPointers(seen, t.Base())
	case term.TypeTuple:
		for _, slot := range t.Kids {
			if hasPointers(seen, slot.Kid(0)) {
				return true
			}
		}
	}
	return false
}
