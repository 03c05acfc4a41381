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

// join returns the least of a and b which both convert to, or nil if they share none.
func (t *Transformer) join(l *layer.Layer, a, b *term.Term) *term.Term {
	switch {
	case a == b:
		return a
	case t.sub.IsSubtype(l, a, l, b):
		return b
	case t.sub.IsSubtype(l, b, l, a):
		return a
	}
	return types.Widen(a, b)
}

// coerce converts v, of type from, to the type to. Variables are loaded, numeric values are
// widened, and unsuffixed integer literals are retyped when they fit.
func (t *Transformer) coerce(l *layer.Layer, from, v, to *term.Term) (*term.Term, bool) {
	if to == nil || from == to {
		return v, true
	}
	if from.Op == term.TypeVar && to.Op != term.TypeVar {
		from, v = rvalue(from, v)
	}
	if v.Op == term.OpInt && v.Flags&term.FlagExplicit == 0 && types.IsInteger(to) && types.Fits(v.Int, to) {
		return widenTo(from, v, to), true
	}
	if types.IsNumeric(from) && types.IsNumeric(to) {
		if w := types.Widen(from, to); w != nil && w.Op == to.Op && w.Int == to.Int {
			return widenTo(from, v, to), true
		}
		return nil, false
	}
	if t.sub.IsSubtype(l, from, l, to) {
		return v, true
	}
	return nil, false
}

// truthy reports whether a condition of type ty is acceptable.
func truthy(ty *term.Term) bool { return types.IsNumeric(ty) || isPointerType(ty) }

func literalTruth(v *term.Term) (held, ok bool) {
	switch v.Op {
	case term.OpInt, term.OpReal:
		return !isZero(v), true
	case term.OpNil:
		return false, true
	}
	return false, false
}

// ifElse transforms a conditional. A literal condition selects one branch; the other is never
// transformed.
func (t *Transformer) ifElse(l *layer.Layer, e *term.Term) (*term.Term, *term.Term) {
	ct, cv := t.operand(l, e.Kid(0))
	if isBad(ct) {
		return bad, bad
	}
	if !truthy(ct) {
		return t.report(TypeViolation, e.Kid(0))
	}
	if held, ok := literalTruth(cv); ok {
		switch {
		case held:
			return t.operand(l, e.Kid(1))
		case e.Kid(2) != nil:
			return t.operand(l, e.Kid(2))
		}
		return term.Void, term.Skip
	}

	tt, tv := t.operand(l, e.Kid(1))
	if e.Kid(2) == nil {
		if isBad(tt) {
			return bad, bad
		}
		return term.Void, term.New(term.OpIf, cv, tv).At(e.Pos)
	}
	et, ev := t.operand(l, e.Kid(2))
	if isBad(tt, et) {
		return bad, bad
	}
	if tt.Op == term.TypeVoid || et.Op == term.TypeVoid {
		return term.Void, term.New(term.OpIf, cv, tv, ev).At(e.Pos)
	}
	joined := t.join(l, tt, et)
	if joined == nil {
		return t.report(TypeViolation, e)
	}
	tv, tok := t.coerce(l, tt, tv, joined)
	ev, eok := t.coerce(l, et, ev, joined)
	if !tok || !eok {
		return t.report(TypeViolation, e)
	}
	return joined, term.New(term.OpIf, cv, tv, ev).At(e.Pos)
}

// while transforms a loop. A literal false condition removes the loop.
func (t *Transformer) while(l *layer.Layer, e *term.Term) (*term.Term, *term.Term) {
	ct, cv := t.operand(l, e.Kid(0))
	if isBad(ct) {
		return bad, bad
	}
	if !truthy(ct) {
		return t.report(TypeViolation, e.Kid(0))
	}
	if held, ok := literalTruth(cv); ok && !held {
		return term.Void, term.Skip
	}
	bt, bv := t.transform(l, e.Kid(1))
	if isBad(bt) {
		return bad, bad
	}
	return term.Void, term.New(term.OpWhile, cv, bv).At(e.Pos)
}

// caseOf transforms a selection over integer labels. Labels must fold to distinct integer
// literals; a literal selector selects one arm.
func (t *Transformer) caseOf(l *layer.Layer, e *term.Term) (*term.Term, *term.Term) {
	st, sv := t.operand(l, e.Kid(0))
	if isBad(st) {
		return bad, bad
	}
	if !types.IsInteger(st) {
		return t.report(TypeViolation, e.Kid(0))
	}

	arms := e.Kids[1:]
	labels := make([][]*term.Term, len(arms))
	seen := make(map[int64]bool)
	elseArm := -1
	failed := false
	for i, arm := range arms {
		if len(arm.Kids) == 1 {
			if elseArm >= 0 {
				t.report(RepeatedLabel, arm)
				failed = true
			}
			elseArm = i
			continue
		}
		for _, label := range arm.Init() {
			lt, lv := t.operand(l, label)
			if isBad(lt) {
				failed = true
				continue
			}
			if lv.Op != term.OpInt {
				t.report(NotConstant, label)
				failed = true
				continue
			}
			if seen[lv.Int] {
				t.report(RepeatedLabel, label)
				failed = true
				continue
			}
			seen[lv.Int] = true
			labels[i] = append(labels[i], lv)
		}
	}
	if failed {
		return bad, bad
	}

	if sv.Op == term.OpInt {
		chosen := elseArm
		for i := range arms {
			for _, lv := range labels[i] {
				if lv.Int == sv.Int {
					chosen = i
				}
			}
		}
		if chosen < 0 {
			return term.Void, term.Skip
		}
		return t.operand(l, arms[chosen].Last())
	}

	var (
		joined = term.Void
		bodies = make([]*term.Term, len(arms))
		btypes = make([]*term.Term, len(arms))
		void   = elseArm < 0
	)
	for i, arm := range arms {
		bt, bv := t.operand(l, arm.Last())
		if isBad(bt) {
			return bad, bad
		}
		btypes[i], bodies[i] = bt, bv
		switch {
		case bt.Op == term.TypeVoid:
			void = true
		case i == 0:
			joined = bt
		case !void:
			if joined = t.join(l, joined, bt); joined == nil {
				return t.report(TypeViolation, arm)
			}
		}
	}
	if void {
		joined = term.Void
	}

	out := make([]*term.Term, 0, len(arms)+1)
	out = append(out, sv)
	for i, arm := range arms {
		body := bodies[i]
		if !void {
			var ok bool
			if body, ok = t.coerce(l, btypes[i], body, joined); !ok {
				return t.report(TypeViolation, arm)
			}
		}
		kids := make([]*term.Term, 0, len(labels[i])+1)
		out = append(out, term.New(term.OpArm, append(append(kids, labels[i]...), body)...).At(arm.Pos))
	}
	return joined, term.New(term.OpCase, out...).At(e.Pos)
}

// seq transforms a sequence, dropping non-final items without effects.
func (t *Transformer) seq(l *layer.Layer, e *term.Term) (*term.Term, *term.Term) {
	if len(e.Kids) == 0 {
		return term.Void, term.Skip
	}
	out := make([]*term.Term, 0, len(e.Kids))
	var ty, v *term.Term
	failed := false
	for i, kid := range e.Kids {
		ty, v = t.transform(l, kid)
		if isBad(ty) {
			failed = true
			continue
		}
		if i == len(e.Kids)-1 {
			ty, v = rvalue(ty, v)
		}
		if i < len(e.Kids)-1 && (v.IsLiteral() || v.Op == term.OpSkip || v.Op == term.OpName) {
			continue
		}
		out = append(out, v)
	}
	if failed {
		return bad, bad
	}
	if len(out) == 1 {
		return ty, out[0]
	}
	return ty, term.New(term.OpSeq, out...).At(e.Pos)
}
