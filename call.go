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

// callTerm transforms an application. Arguments are transformed once, before the callee is
// resolved: a named executable selects an overload, a type converts its single argument, and a
// procedure value is called directly. Locations stay unloaded until a parameter type asks for a
// value.
func (t *Transformer) callTerm(l *layer.Layer, e *term.Term) (*term.Term, *term.Term) {
	prev := t.call
	t.call = e
	defer func() { t.call = prev }()

	callee, args := e.Kid(0), e.Kids[1:]
	ats := make([]*term.Term, len(args))
	avs := make([]*term.Term, len(args))
	failed := false
	for i, arg := range args {
		if ats[i], avs[i] = t.transform(l, arg); isBad(ats[i]) {
			failed = true
		}
	}
	if failed {
		return bad, bad
	}

	if callee.Op == term.OpName {
		if ent := lookupEntity(l, callee.Name); ent != nil && (ent.isExe() || ent.kind == entOverload) {
			return t.dispatch(l, e, ent, ats, avs)
		}
	}
	ct, cv := t.operand(l, callee)
	switch {
	case isBad(ct):
		return bad, bad
	case ct.Op == term.TypeType:
		if len(args) != 1 {
			return t.report(ArityMismatch, e)
		}
		at, av := rvalue(ats[0], avs[0])
		return t.conversion(l, e, cv, at, av)
	case ct.Op == term.TypeProc:
		return t.callProc(l, e, ct, cv, ats, avs)
	}
	return t.report(NotCallable, callee)
}

// accepts reports whether an argument may be passed for a parameter of type pt. Unsuffixed
// integer literals are accepted by any integer type they fit. Only a location of the same type
// is accepted by a var parameter.
func (t *Transformer) accepts(l *layer.Layer, at, av, pt *term.Term) bool {
	if pt.Op == term.TypeVar {
		return at.Op == term.TypeVar && t.sub.IsSubtype(l, at, l, pt)
	}
	at, av = rvalue(at, av)
	if av.Op == term.OpInt && !explicit(av) && types.IsInteger(pt) && types.Fits(av.Int, pt) {
		return true
	}
	if types.IsNumeric(at) && types.IsNumeric(pt) {
		w := types.Widen(at, pt)
		return w != nil && w.Op == pt.Op && w.Int == pt.Int
	}
	return t.sub.IsSubtype(l, at, l, pt)
}

func (t *Transformer) applicable(l *layer.Layer, ent *entity, ats, avs []*term.Term) bool {
	params := ent.typ.Params()
	if len(params) != len(ats) {
		return false
	}
	for i, p := range params {
		if !t.accepts(l, ats[i], avs[i], p.Kid(0)) {
			return false
		}
	}
	return true
}

// dispatch selects the first member of an overload list accepting the arguments, in declaration
// order, and applies it.
func (t *Transformer) dispatch(l *layer.Layer, e *term.Term, ent *entity, ats, avs []*term.Term) (*term.Term, *term.Term) {
	var (
		chosen  *entity
		arities = 0
		matched = 0
	)
	ent.candidates(func(c *entity) bool {
		if isBad(c.typ) {
			return true
		}
		params := c.typ.Params()
		if c.kind == entGen {
			params = c.typ.Result().Params()
		}
		if len(params) != len(ats) {
			return true
		}
		arities++
		switch c.kind {
		case entGen:
			chosen = t.instantiate(l, c, ats, avs)
		default:
			if t.applicable(l, c, ats, avs) {
				chosen = c
			}
		}
		if chosen != nil {
			matched++
		}
		return chosen == nil
	})

	switch {
	case matched > 0:
	case arities == 0:
		return t.report(ArityMismatch, e)
	default:
		return t.report(NoOverload, e)
	}

	switch chosen.kind {
	case entProc:
		return t.callProc(l, e, chosen.typ, term.NameOf(chosen.name).At(e.Kid(0).Pos), ats, avs)
	case entForm:
		return t.expand(l, e, chosen, ats, avs)
	}
	// instance of a generic procedure
	return t.callProc(l, e, chosen.typ, chosen.value, ats, avs)
}

// instantiate binds the names of a generic by comparing the argument types against its
// parameter types, and returns the memoized instance for the bound types, or nil if the
// arguments do not match. Unsuffixed integer literals are compared last, at the join of the
// literals passed for the same parameter type, so the bindings do not depend on argument order.
func (t *Transformer) instantiate(l *layer.Layer, g *entity, ats, avs []*term.Term) *entity {
	sig := g.typ.Result()
	gparams := g.typ.Params()

	ptypes := make([]*term.Term, len(ats))
	for i, p := range sig.Params() {
		ptypes[i] = p.Kid(0)
	}
	atypes := literalJoins(ats, avs, ptypes)
	order := make([]int, 0, len(ats))
	for i := range ats {
		if !unsuffixed(avs[i]) {
			order = append(order, i)
		}
	}
	for i := range ats {
		if unsuffixed(avs[i]) {
			order = append(order, i)
		}
	}

	il := layer.Push(l, layer.Plain)
	for _, p := range gparams {
		il.Set(p.Name, layer.Generic, p.Bound())
	}
	slots := make([]*term.Term, 0, len(ats))
	want := make([]*term.Term, 0, len(ats))
	for _, i := range order {
		slots = append(slots, term.SlotOf(term.OpSlot, term.NoName, atypes[i]))
		want = append(want, term.SlotOf(term.OpSlot, term.NoName, ptypes[i]))
	}

	var args []*term.Term
	t.sub.IsSubtypeThen(l, term.TupleOf(slots...), il, term.TupleOf(want...), func() bool {
		args = make([]*term.Term, len(gparams))
		for i, p := range gparams {
			if _, ty, ok := types.Resolve(il, p.Name); !ok || ty == nil {
				args = nil
				return false
			}
			args[i] = t.grounder.Groundify(il, term.NameOf(p.Name))
		}
		return true
	})
	il.Destroy()
	if args == nil {
		return nil
	}

	for _, inst := range g.instances {
		if equalTerms(inst.args, args) {
			return inst.exe
		}
	}

	xl := layer.Push(g.layer, layer.Plain)
	for i, name := range g.params {
		xl.Set(name, layer.Type, args[i])
	}
	t.captured[xl] = true
	body := g.value.Last()
	var exe *entity
	if body.Op == term.OpForm {
		if exe = t.form(xl, body); isBad(exe.typ) {
			return nil
		}
	} else {
		ty, v := t.proc(xl, body)
		if isBad(ty) {
			return nil
		}
		exe = &entity{kind: entConst, typ: ty, value: v}
	}
	if t.config.Trace {
		t.log.Sugar().Debugf("instantiated %s with %v", g.name, args)
	}
	g.instances = append(g.instances, &instance{args: args, exe: exe})
	return exe
}

func unsuffixed(v *term.Term) bool { return v.Op == term.OpInt && !explicit(v) }

// literalJoins returns the argument types to compare against the parameter types ptypes.
// Locations are loaded unless passed for a var parameter, and unsuffixed integer literals passed
// for equal parameter types take the join of their types.
func literalJoins(ats, avs, ptypes []*term.Term) []*term.Term {
	out := make([]*term.Term, len(ats))
	for i, at := range ats {
		if ptypes[i].Op != term.TypeVar {
			at, _ = rvalue(at, avs[i])
		}
		out[i] = at
	}
	for i := range out {
		if !unsuffixed(avs[i]) {
			continue
		}
		for j := range out {
			if j != i && unsuffixed(avs[j]) && term.Equal(ptypes[i], ptypes[j]) {
				if w := types.Widen(out[i], out[j]); w != nil {
					out[i] = w
				}
			}
		}
	}
	return out
}

func equalTerms(a, b []*term.Term) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !term.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// callProc applies a procedure value. Arguments are converted to the parameter types, and
// pointer arguments which would be live across a later allocating argument are rooted in slots.
func (t *Transformer) callProc(l *layer.Layer, e, pt, callee *term.Term, ats, avs []*term.Term) (*term.Term, *term.Term) {
	params := pt.Params()
	if len(params) != len(avs) {
		return t.report(ArityMismatch, e)
	}
	args := make([]*term.Term, len(avs))
	ptypes := make([]*term.Term, len(avs))
	for i, p := range params {
		ptypes[i] = p.Kid(0)
		v, ok := t.coerce(l, ats[i], avs[i], ptypes[i])
		if !ok {
			return t.report(TypeViolation, e.Kid(i+1))
		}
		args[i] = v
	}
	roots := t.root(ptypes, args)
	call := term.New(term.OpCall, append([]*term.Term{callee}, args...)...).At(e.Pos)
	if len(roots) == 0 {
		return pt.Result(), call
	}
	return pt.Result(), term.New(term.OpWith, append(roots, call)...).At(e.Pos)
}

// root moves pointer arguments evaluated before an allocating argument into slot bindings, so
// the collector sees them while the later argument allocates. Literals and names need no slot.
func (t *Transformer) root(ptypes, args []*term.Term) []*term.Term {
	var roots []*term.Term
	for i, a := range args {
		if a.IsLiteral() || a.Op == term.OpName || ptypes[i].Op == term.TypeVar || !types.HasPointers(ptypes[i]) {
			continue
		}
		later := false
		for _, b := range args[i+1:] {
			if allocates(b) {
				later = true
				break
			}
		}
		if !later {
			continue
		}
		stub := t.stub(term.NoName)
		roots = append(roots, &term.Term{Op: term.OpBind, Pos: a.Pos, Name: stub, Flags: term.FlagSlot,
			Kids: []*term.Term{ptypes[i], a}})
		args[i] = term.NameOf(stub).At(a.Pos)
	}
	return roots
}

// allocates reports whether evaluating v may allocate.
func allocates(v *term.Term) bool {
	return term.Contains(v, func(n *term.Term) bool {
		switch n.Op {
		case term.OpCall, term.OpTupleLit, term.OpArrayLit, term.OpClosure:
			return true
		}
		return false
	})
}

// expand applies a form: the body is transformed in the captured layer of the form with the
// parameters bound to the arguments. Literal and type arguments are substituted; other arguments
// are evaluated once into stub bindings ahead of the body.
func (t *Transformer) expand(l *layer.Layer, e *term.Term, f *entity, ats, avs []*term.Term) (*term.Term, *term.Term) {
	params := f.typ.Params()
	if len(params) != len(avs) {
		return t.report(ArityMismatch, e)
	}
	src := f.value
	xl := layer.Push(f.layer, layer.Plain)
	var binds []*term.Term
	for i, p := range params {
		at, av, pt := ats[i], avs[i], p.Kid(0)
		if !t.accepts(l, at, av, pt) {
			xl.Destroy()
			return t.report(TypeViolation, e.Kid(i+1))
		}
		if pt.Op != term.TypeVar {
			at, av = rvalue(at, av)
		}
		name := src.Kids[i].Name
		if name.IsNone() {
			if !av.IsLiteral() && av.Op != term.OpName {
				binds = append(binds, av)
			}
			continue
		}
		if av.IsLiteral() || av.Op == term.OpName || at.Op == term.TypeType || av.Op == term.OpSkip {
			xl.Set(name, layer.Value, &entity{kind: entConst, typ: at, value: av})
			continue
		}
		stub := t.stub(name)
		if pt.Op == term.TypeVar {
			// the location is computed once; the parameter names it through its address
			ref := term.RefOf(at.Base())
			addr := term.New(term.OpAddr, av).At(av.Pos)
			if av.Op == term.OpDeref {
				addr = av.Kid(0)
			}
			loc := term.New(term.OpDeref, term.NameOf(stub).At(av.Pos)).At(av.Pos)
			xl.Set(name, layer.Value, &entity{kind: entConst, typ: at, value: loc})
			binds = append(binds, &term.Term{Op: term.OpBind, Pos: av.Pos, Name: stub, Flags: term.FlagSlot,
				Kids: []*term.Term{ref, addr}})
			continue
		}
		xl.Set(name, layer.Value, &entity{kind: entLocal, name: stub, typ: at})
		binds = append(binds, &term.Term{Op: term.OpBind, Pos: av.Pos, Name: stub, Flags: slotFlag(at),
			Kids: []*term.Term{at, av}})
	}

	mark := len(t.queue)
	bt, bv := t.operand(xl, src.Last())
	t.drain(mark)
	if t.captured[xl] {
		xl.Pop()
	} else {
		xl.Destroy()
	}
	if isBad(bt) {
		return bad, bad
	}

	result := f.typ.Result()
	switch {
	case result.Op == term.TypeVoid:
		bt = term.Void
	case !t.sub.IsSubtype(l, bt, l, result) && !t.accepts(l, bt, bv, result):
		return t.report(TypeViolation, e)
	}
	if len(binds) == 0 {
		return bt, bv
	}
	return bt, term.New(term.OpWith, append(binds, bv)...).At(e.Pos)
}

// conversion converts a value to the type ty. Numeric literals fold to explicitly typed
// literals; pointers convert among pointer types.
func (t *Transformer) conversion(l *layer.Layer, e, ty, vt, v *term.Term) (*term.Term, *term.Term) {
	switch {
	case types.IsNumeric(ty) && types.IsNumeric(vt):
		var lit *term.Term
		switch v.Op {
		case term.OpInt:
			i, r := types.ConvertInt(v.Int, vt, ty)
			if ty.Op == term.TypeReal {
				lit = term.RealLit(r, ty)
			} else {
				lit = term.IntLit(i, ty)
			}
		case term.OpReal:
			i, r := types.ConvertReal(v.Real, ty)
			if ty.Op == term.TypeReal {
				lit = term.RealLit(r, ty)
			} else {
				lit = term.IntLit(i, ty)
			}
		}
		if lit != nil {
			lit.Flags |= term.FlagExplicit
			return ty, lit.At(e.Pos)
		}
		if vt.Op == ty.Op && vt.Int == ty.Int {
			return ty, v
		}
		return ty, term.New(term.OpConvert, ty, v).At(e.Pos)

	case ty.IsPointer() && isPointerType(vt):
		if v.Op == term.OpNil {
			return ty, v
		}
		return ty, term.New(term.OpConvert, ty, v).At(e.Pos)

	case t.sub.IsSubtype(l, vt, l, ty):
		return ty, v
	}
	return t.report(TypeViolation, e)
}
