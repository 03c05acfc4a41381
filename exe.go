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

// signature resolves the parameter and result types of a proc or form expression into an
// executable type of the given kind. A missing result type is void.
func (t *Transformer) signature(l *layer.Layer, e *term.Term, op term.Op) *term.Term {
	n := len(e.Kids) - 2
	params := make([]*term.Term, n)
	seen := make(map[term.Name]bool, n)
	for i, p := range e.Kids[:n] {
		if p.Op != term.OpParam || p.Kid(0) == nil {
			t.report(NotAType, p)
			return bad
		}
		if !p.Name.IsNone() {
			if seen[p.Name] {
				t.report(RepeatedDeclaration, p)
				return bad
			}
			seen[p.Name] = true
		}
		pt := t.resolveType(l, p.Kid(0))
		if pt == bad {
			return bad
		}
		params[i] = term.SlotOf(term.OpParam, p.Name, pt)
	}
	result := term.Void
	if r := e.Kids[n]; r != nil {
		if result = t.resolveType(l, r); result == bad {
			return bad
		}
	}
	return term.ExeOf(op, params, result)
}

// proc transforms a procedure expression into a closure. The body is queued and transformed
// later, once every binding of the enclosing group is declared.
func (t *Transformer) proc(l *layer.Layer, e *term.Term) (*term.Term, *term.Term) {
	ptype := t.signature(l, e, term.TypeProc)
	if ptype == bad {
		return bad, bad
	}
	if !types.IsStronglyGround(ptype) {
		return t.report(NotGround, e)
	}
	params := ptype.Params()
	names := make([]term.Name, len(params))
	kids := make([]*term.Term, len(params)+2)
	for i, p := range params {
		names[i] = t.stub(p.Name)
		kids[i] = term.SlotOf(term.OpParam, names[i], p.Kid(0))
	}
	kids[len(params)] = ptype.Result()
	kids[len(params)+1] = term.Skip
	emitted := term.New(term.OpProc, kids...).At(e.Pos)

	t.queue = append(t.queue, &closure{layer: l, src: e, typ: ptype, params: names, proc: emitted})
	return ptype, &term.Term{Op: term.OpClosure, Pos: e.Pos, Type: ptype, Kids: []*term.Term{emitted}}
}

// closureBody transforms a queued procedure body with the parameters bound over the captured
// layer, and stores it in the emitted procedure.
func (t *Transformer) closureBody(c *closure) {
	call := t.call
	t.call = nil
	defer func() { t.call = call }()

	bl := layer.Push(c.layer, layer.Plain)
	for i, p := range c.typ.Params() {
		if src := c.src.Kids[i]; !src.Name.IsNone() {
			bl.Set(src.Name, layer.Value, &entity{kind: entParam, name: c.params[i], typ: p.Kid(0)})
		}
	}
	mark := len(t.queue)
	bt, bv := t.operand(bl, c.src.Last())
	t.drain(mark)

	body := bv
	result := c.typ.Result()
	switch {
	case isBad(bt):
		body = term.Skip
	case result.Op == term.TypeVoid:
	default:
		cv, ok := t.coerce(bl, bt, bv, result)
		if !ok {
			t.report(TypeViolation, c.src.Last())
			cv = term.Skip
		}
		body = cv
	}
	if t.captured[bl] {
		bl.Pop()
	} else {
		bl.Destroy()
	}
	c.proc.Kids[len(c.proc.Kids)-1] = body
}

// form creates the entity of a form expression. Forms are removable: each call expands the body
// in the captured layer.
func (t *Transformer) form(l *layer.Layer, e *term.Term) *entity {
	ftype := t.signature(l, e, term.TypeForm)
	t.captured[l] = true
	return &entity{kind: entForm, typ: ftype, value: e, layer: l}
}

// gen creates the entity of a generic. Its type is the signature of the body closed over fresh
// stub names, so it can be compared against argument types in any scope. Every generic name must
// occur in a parameter type, where a call can bind it.
func (t *Transformer) gen(l *layer.Layer, e *term.Term, name term.Name) *entity {
	body := e.Last()
	if body == nil || (body.Op != term.OpProc && body.Op != term.OpForm) {
		t.report(NotCallable, e)
		return nil
	}
	op := term.TypeProc
	if body.Op == term.OpForm {
		op = term.TypeForm
	}

	src := e.Init()
	gl := layer.Push(l, layer.Plain)
	params := make([]*term.Term, len(src))
	for i, p := range src {
		bound := term.Obj.Term()
		if p.Kid(0) != nil {
			if bound = t.resolveType(gl, p.Kid(0)); bound == bad {
				gl.Destroy()
				return nil
			}
		}
		params[i] = term.SlotOf(term.OpGenParam, p.Name, bound)
		gl.Set(p.Name, layer.Generic, bound)
	}
	sig := t.signature(gl, body, op)
	gl.Destroy()
	if sig == bad {
		return nil
	}

	head := term.ExeOf(term.TypeGen, params, sig)
	for _, p := range params {
		if !types.IsBindable(p.Name, head) {
			t.report(UnboundGeneric, e)
			return nil
		}
	}

	sl, skolems := types.Skolemize(l, head)
	closed := t.resolveType(sl, sig)
	sl.Destroy()
	if closed == bad {
		return nil
	}
	typ := types.Generalize(t.names, closed, skolems)

	ent := &entity{kind: entGen, name: name, typ: typ, value: e, layer: l}
	for i, p := range typ.Params() {
		ent.params = append(ent.params, src[i].Name)
		ent.bounds = append(ent.bounds, p.Bound())
	}
	t.captured[l] = true
	return ent
}
