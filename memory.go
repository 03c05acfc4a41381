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

// Locations are values of var type: variables, dereferenced pointers, indexed rows and slots of
// tuple locations. Every value-consuming rule loads them implicitly.

// assign stores into a location. The result is void.
func (t *Transformer) assign(l *layer.Layer, e *term.Term) (*term.Term, *term.Term) {
	tt, tv := t.transform(l, e.Kid(0))
	vt, vv := t.operand(l, e.Kid(1))
	if isBad(tt, vt) {
		return bad, bad
	}
	if tt.Op != term.TypeVar {
		return t.report(NotAssignable, e.Kid(0))
	}
	v, ok := t.coerce(l, vt, vv, tt.Base())
	if !ok {
		return t.report(TypeViolation, e)
	}
	return term.Void, term.New(term.OpAssign, tv, v).At(e.Pos)
}

// load reads a location explicitly.
func (t *Transformer) load(l *layer.Layer, e *term.Term) (*term.Term, *term.Term) {
	ty, v := t.transform(l, e.Kid(0))
	if isBad(ty) {
		return bad, bad
	}
	if ty.Op != term.TypeVar {
		return t.report(TypeViolation, e)
	}
	return ty.Base(), term.New(term.OpLoad, v).At(e.Pos)
}

// addr takes the address of a location.
func (t *Transformer) addr(l *layer.Layer, e *term.Term) (*term.Term, *term.Term) {
	ty, v := t.transform(l, e.Kid(0))
	if isBad(ty) {
		return bad, bad
	}
	if ty.Op != term.TypeVar {
		return t.report(NotAssignable, e.Kid(0))
	}
	if v.Op == term.OpDeref {
		// @p^ is p
		return term.RefOf(ty.Base()), v.Kid(0)
	}
	return term.RefOf(ty.Base()), term.New(term.OpAddr, v).At(e.Pos)
}

// deref turns a pointer into the location it addresses.
func (t *Transformer) deref(l *layer.Layer, e *term.Term) (*term.Term, *term.Term) {
	ty, v := t.operand(l, e.Kid(0))
	if isBad(ty) {
		return bad, bad
	}
	if !ty.IsPointer() {
		return t.report(TypeViolation, e)
	}
	return term.VarOf(ty.Base()), term.New(term.OpDeref, v).At(e.Pos)
}

// index selects an element of a row, an array location or an array value. Literal indexes into
// arrays are bounds-checked, and a literal index into an array literal selects the element.
func (t *Transformer) index(l *layer.Layer, e *term.Term) (*term.Term, *term.Term) {
	bt, bv := t.transform(l, e.Kid(0))
	it, iv := t.operand(l, e.Kid(1))
	if isBad(bt, it) {
		return bad, bad
	}
	if !types.IsInteger(it) {
		return t.report(TypeViolation, e.Kid(1))
	}

	location := false
	if bt.Op == term.TypeVar && bt.Base().Op == term.TypeArray {
		bt, location = bt.Base(), true
	} else {
		bt, bv = rvalue(bt, bv)
	}
	switch bt.Op {
	case term.TypeRow:
		return term.VarOf(bt.Base()), term.New(term.OpIndex, bv, iv).At(e.Pos)
	case term.TypeArray:
		if iv.Op == term.OpInt && (iv.Int < 0 || iv.Int >= bt.Int) {
			return t.report(TypeViolation, e.Kid(1))
		}
		if location {
			return term.VarOf(bt.Base()), term.New(term.OpIndex, bv, iv).At(e.Pos)
		}
		if bv.Op == term.OpArrayLit && iv.Op == term.OpInt {
			return bt.Base(), bv.Kids[iv.Int]
		}
		return bt.Base(), term.New(term.OpIndex, bv, iv).At(e.Pos)
	}
	return t.report(TypeViolation, e)
}

func slotNamed(tuple *term.Term, name term.Name) (int, *term.Term) {
	for i, s := range tuple.Kids {
		if s.Name == name {
			return i, s.Kid(0)
		}
	}
	return -1, nil
}

// dot selects a named slot of a tuple. Selecting through a pointer dereferences it; selecting
// from a tuple literal folds to the slot value.
func (t *Transformer) dot(l *layer.Layer, e *term.Term) (*term.Term, *term.Term) {
	ty, v := t.transform(l, e.Kid(0))
	if isBad(ty) {
		return bad, bad
	}
	location := false
	switch {
	case ty.Op == term.TypeVar && ty.Base().Op == term.TypeTuple:
		ty, location = ty.Base(), true
	case ty.Op == term.TypeVar:
		ty, v = rvalue(ty, v)
	}
	if ty.IsPointer() && ty.Base().Op == term.TypeTuple {
		ty, v, location = ty.Base(), term.New(term.OpDeref, v).At(v.Pos), true
	}
	if ty.Op != term.TypeTuple {
		return t.report(TypeViolation, e)
	}
	i, st := slotNamed(ty, e.Name)
	if i < 0 {
		return t.report(TypeViolation, e)
	}
	if location {
		return term.VarOf(st), &term.Term{Op: term.OpDot, Pos: e.Pos, Name: e.Name, Kids: []*term.Term{v}}
	}
	if v.Op == term.OpTupleLit {
		return st, v.Kids[i].Kid(0)
	}
	return st, &term.Term{Op: term.OpDot, Pos: e.Pos, Name: e.Name, Kids: []*term.Term{v}}
}

// tupleLit builds a tuple value from slots, which may be unnamed.
func (t *Transformer) tupleLit(l *layer.Layer, e *term.Term) (*term.Term, *term.Term) {
	slotTypes := make([]*term.Term, len(e.Kids))
	slots := make([]*term.Term, len(e.Kids))
	seen := make(map[term.Name]bool, len(e.Kids))
	failed := false
	for i, kid := range e.Kids {
		name, value := term.NoName, kid
		if kid.Op == term.OpSlot {
			name, value = kid.Name, kid.Kid(0)
		}
		if !name.IsNone() {
			if seen[name] {
				t.report(RepeatedDeclaration, kid)
				failed = true
				continue
			}
			seen[name] = true
		}
		ty, v := t.operand(l, value)
		if isBad(ty) {
			failed = true
			continue
		}
		slotTypes[i] = term.SlotOf(term.OpSlot, name, ty)
		slots[i] = term.SlotOf(term.OpSlot, name, v)
	}
	if failed {
		return bad, bad
	}
	return term.TupleOf(slotTypes...), term.New(term.OpTupleLit, slots...).At(e.Pos)
}

// arrayLit builds an array value. Elements are converted to their join, which must be sized.
func (t *Transformer) arrayLit(l *layer.Layer, e *term.Term) (*term.Term, *term.Term) {
	if len(e.Kids) == 0 {
		return t.report(Unsized, e)
	}
	ets := make([]*term.Term, len(e.Kids))
	evs := make([]*term.Term, len(e.Kids))
	var elem *term.Term
	for i, kid := range e.Kids {
		ets[i], evs[i] = t.operand(l, kid)
		if isBad(ets[i]) {
			return bad, bad
		}
		if i == 0 {
			elem = ets[0]
		} else if elem = t.join(l, elem, ets[i]); elem == nil {
			return t.report(TypeViolation, kid)
		}
	}
	if !t.sizes.IsSized(elem) {
		return t.report(Unsized, e)
	}
	for i := range evs {
		var ok bool
		if evs[i], ok = t.coerce(l, ets[i], evs[i], elem); !ok {
			return t.report(TypeViolation, e.Kids[i])
		}
	}
	return term.ArrayOf(int64(len(evs)), elem), term.New(term.OpArrayLit, evs...).At(e.Pos)
}

// convert transforms an explicit conversion.
func (t *Transformer) convert(l *layer.Layer, e, tyTerm, valueTerm *term.Term) (*term.Term, *term.Term) {
	ty := t.resolveType(l, tyTerm)
	vt, v := t.operand(l, valueTerm)
	if isBad(ty, vt) {
		return bad, bad
	}
	return t.conversion(l, e, ty, vt, v)
}

// sizeOf folds a size or alignment query to a literal.
func (t *Transformer) sizeOf(l *layer.Layer, e *term.Term) (*term.Term, *term.Term) {
	ty := t.resolveType(l, e.Kid(0))
	if ty == bad {
		return bad, bad
	}
	if !t.sizes.IsSized(ty) {
		return t.report(Unsized, e)
	}
	n := t.sizes.Size(ty)
	if e.Op == term.OpAlignOf {
		n = t.sizes.Align(ty)
	}
	lt := types.Narrowest(n)
	return lt, term.IntLit(n, lt).At(e.Pos)
}
