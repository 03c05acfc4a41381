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
	"github.com/wdamron/lower/internal/util"
	"github.com/wdamron/lower/layer"
	"github.com/wdamron/lower/term"
	"github.com/wdamron/lower/types"
)

// badEntity is bound to names whose declarations failed, so references to them propagate the
// failure without further diagnostics.
var badEntity = &entity{kind: entConst, typ: bad, value: bad}

// with transforms a group of scoped bindings and its body. Removable bindings vanish from the
// output; the rest are emitted in dependency order ahead of the body.
func (t *Transformer) with(l *layer.Layer, e *term.Term) (*term.Term, *term.Term) {
	wl := layer.Push(l, layer.Plain)
	mark := len(t.queue)
	emitted := t.declare(wl, e.Init())
	bt, bv := t.operand(wl, e.Last())
	// procedure bodies declared here must see the layer before it goes away
	t.drain(mark)
	if t.captured[wl] {
		wl.Pop()
	} else {
		wl.Destroy()
	}
	if isBad(bt) {
		return bad, bad
	}
	if len(emitted) == 0 {
		return bt, bv
	}
	return bt, term.New(term.OpWith, append(emitted, bv)...).At(e.Pos)
}

// declare binds a group of possibly mutually recursive bindings in l and returns the emitted
// bindings of materialized entities.
func (t *Transformer) declare(l *layer.Layer, binds []*term.Term) []*term.Term {
	group := make([]*term.Term, 0, len(binds))
	plain := make(map[term.Name]bool, len(binds))
	exes := make(map[term.Name]bool, len(binds))
	for _, b := range binds {
		if b.Op != term.OpBind || b.Name.IsNone() {
			t.report(TypeViolation, b)
			continue
		}
		exe := isExeTerm(b.Kid(1))
		prev := l.Binder(b.Name)
		prevExe := prev != nil && prev.Kind == layer.Value && prev.Value.(*entity).kind == entOverload
		if plain[b.Name] || (!exe && (exes[b.Name] || prev != nil)) || (exe && prev != nil && !prevExe) {
			t.report(RepeatedDeclaration, b)
			continue
		}
		if exe {
			exes[b.Name] = true
		} else {
			plain[b.Name] = true
		}
		group = append(group, b)
	}

	for _, b := range group {
		if !isExeTerm(b.Kid(1)) {
			l.Set(b.Name, layer.None, nil)
		}
	}

	sccs, graph := analyze(group)
	var out []*term.Term
	for _, c := range sccs {
		if graph.Cyclic(c) && allTypes(group, c) {
			t.declareTypes(l, group, c)
			continue
		}
		for _, i := range c {
			if emitted := t.bind(l, group[i]); emitted != nil {
				out = append(out, emitted)
			}
		}
	}
	return out
}

func allTypes(group []*term.Term, c []int) bool {
	for _, i := range c {
		if init := group[i].Kid(1); init == nil || !init.IsType() {
			return false
		}
	}
	return true
}

// declareTypes binds a recursive group of type bindings. Each name is first bound to a hole;
// once every initializer is resolved, each hole is overwritten in place by its type, closing the
// cycles. A reference cycle which does not pass through a pointer or executable type has no
// finite representation.
func (t *Transformer) declareTypes(l *layer.Layer, group []*term.Term, c []int) {
	holes := make([]*term.Term, len(c))
	index := make(map[*term.Term]int, len(c))
	for k, i := range c {
		holes[k] = &term.Term{Op: term.TypeHole, Name: group[i].Name}
		index[holes[k]] = k
		l.Set(group[i].Name, layer.Value, &entity{kind: entHole, typ: term.TypeOf(holes[k]), value: holes[k]})
	}
	resolved := make([]*term.Term, len(c))
	for k, i := range c {
		resolved[k] = t.resolveType(l, group[i].Kid(1))
	}

	direct := util.NewGraph(len(c))
	for k := range c {
		if resolved[k] != bad {
			unguarded(resolved[k], func(h *term.Term) {
				if j, ok := index[h]; ok {
					direct.AddEdge(k, j)
				}
			})
		}
	}
	infinite := make([]bool, len(c))
	for _, comp := range direct.SCC() {
		if direct.Cyclic(comp) {
			for _, k := range comp {
				infinite[k] = true
			}
		}
	}

	patched := make([]bool, len(c))
	for progress := true; progress; {
		progress = false
		for k := range c {
			r := resolved[k]
			if patched[k] || infinite[k] || r == bad {
				continue
			}
			if j, ok := index[r]; ok && !patched[j] {
				// an alias waits for its target
				continue
			}
			*holes[k] = *r
			patched[k], progress = true, true
		}
	}

	for k, i := range c {
		b := group[i]
		switch {
		case resolved[k] == bad:
			l.Set(b.Name, layer.Value, badEntity)
		case !patched[k]:
			t.report(InfiniteType, b)
			l.Set(b.Name, layer.Value, badEntity)
		default:
			l.Set(b.Name, layer.Value, &entity{kind: entConst, typ: term.TypeOf(holes[k]), value: holes[k]})
		}
	}
}

// unguarded visits the holes reachable from ty without passing through a pointer or executable.
func unguarded(ty *term.Term, f func(*term.Term)) {
	seen := make(term.TermSet, 8)
	var walk func(*term.Term)
	walk = func(ty *term.Term) {
		if ty == nil || !seen.Add(ty) {
			return
		}
		switch ty.Op {
		case term.TypeHole:
			f(ty)
			return
		case term.TypeRef, term.TypeRow, term.TypeProc, term.TypeForm, term.TypeGen:
			return
		case term.OpSlot, term.OpParam, term.OpGenParam:
			walk(ty.Kid(0))
			return
		}
		for _, kid := range ty.Kids {
			walk(kid)
		}
	}
	walk(ty)
}

// setBad binds name to the error-recovery entity unless l already binds it to something usable.
func setBad(l *layer.Layer, name term.Name) {
	if b := l.Binder(name); b == nil || b.Kind == layer.None {
		l.Set(name, layer.Value, badEntity)
	}
}

// slotFlag marks bindings holding pointers so the collector can find them.
func slotFlag(ty *term.Term) term.Flags {
	if types.HasPointers(ty) {
		return term.FlagSlot
	}
	return 0
}

// bind declares one binding of a group and returns its emitted form, or nil if it was removed.
func (t *Transformer) bind(l *layer.Layer, b *term.Term) *term.Term {
	name, init := b.Name, b.Kid(1)
	switch {
	case init != nil && init.Op == term.OpProc:
		ty, v := t.proc(l, init)
		if isBad(ty) {
			setBad(l, name)
			return nil
		}
		if b.Kid(0) != nil {
			if declared := t.resolveType(l, b.Kid(0)); declared == bad || !t.sub.IsSubtype(l, ty, l, declared) {
				if declared != bad {
					t.report(TypeViolation, b)
				}
				setBad(l, name)
				return nil
			}
		}
		stub := t.stub(name)
		overload(l, name, &entity{kind: entProc, name: stub, typ: ty, value: v})
		return &term.Term{Op: term.OpBind, Pos: b.Pos, Name: stub, Kids: []*term.Term{ty, v.Kid(0)}}

	case init != nil && init.Op == term.OpForm:
		ent := t.form(l, init)
		if isBad(ent.typ) {
			setBad(l, name)
			return nil
		}
		overload(l, name, ent)
		return nil

	case init != nil && init.Op == term.OpGen:
		ent := t.gen(l, init, name)
		if ent == nil {
			setBad(l, name)
			return nil
		}
		overload(l, name, ent)
		return nil
	}

	var declared *term.Term
	if b.Kid(0) != nil {
		if declared = t.resolveType(l, b.Kid(0)); declared == bad {
			setBad(l, name)
			return nil
		}
	}
	if b.Flags&term.FlagVar != 0 {
		return t.declareVar(l, b, declared)
	}
	if init == nil {
		t.report(TypeViolation, b)
		setBad(l, name)
		return nil
	}

	ty, v := t.operand(l, init)
	if isBad(ty) {
		setBad(l, name)
		return nil
	}
	if declared != nil {
		cv, ok := t.coerce(l, ty, v, declared)
		if !ok {
			t.report(TypeViolation, b)
			setBad(l, name)
			return nil
		}
		ty, v = declared, cv
	}
	if v.IsLiteral() || v.Op == term.OpSkip || v.Op == term.OpName || ty.Op == term.TypeType {
		l.Set(name, layer.Value, &entity{kind: entConst, typ: ty, value: v})
		return nil
	}
	stub := t.stub(name)
	l.Set(name, layer.Value, &entity{kind: entLocal, name: stub, typ: ty})
	return &term.Term{Op: term.OpBind, Pos: b.Pos, Name: stub, Flags: slotFlag(ty), Kids: []*term.Term{ty, v}}
}

// declareVar declares a mutable variable. Without a declared type, an unsuffixed literal
// initializer gives the variable the full-width type of its kind.
func (t *Transformer) declareVar(l *layer.Layer, b, declared *term.Term) *term.Term {
	var ty, v *term.Term
	if init := b.Kid(1); init != nil {
		ty, v = t.operand(l, init)
		if isBad(ty) {
			setBad(l, b.Name)
			return nil
		}
		switch {
		case declared != nil:
			cv, ok := t.coerce(l, ty, v, declared)
			if !ok {
				t.report(TypeViolation, b)
				setBad(l, b.Name)
				return nil
			}
			ty, v = declared, cv
		case v.Op == term.OpInt && !explicit(v):
			ty, v = term.Int64, widenTo(ty, v, term.Int64)
		case v.Op == term.OpReal && !explicit(v):
			ty, v = term.Real64, widenTo(ty, v, term.Real64)
		}
	} else {
		if declared == nil {
			t.report(TypeViolation, b)
			setBad(l, b.Name)
			return nil
		}
		ty = declared
	}
	if !t.sizes.IsSized(ty) {
		t.report(Unsized, b)
		setBad(l, b.Name)
		return nil
	}
	stub := t.stub(b.Name)
	l.Set(b.Name, layer.Value, &entity{kind: entVar, name: stub, typ: term.VarOf(ty)})
	return &term.Term{Op: term.OpBind, Pos: b.Pos, Name: stub, Flags: term.FlagVar | slotFlag(ty), Kids: []*term.Term{ty, v}}
}
