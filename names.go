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

// literal types a literal with its narrowest type. Literals already typed by a conversion keep
// their type.
func (t *Transformer) literal(e *term.Term) (*term.Term, *term.Term) {
	switch e.Op {
	case term.OpInt:
		if e.Type != nil && e.Flags&term.FlagExplicit != 0 {
			return e.Type, e
		}
		ty := types.Narrowest(e.Int)
		if e.Type == ty {
			return ty, e
		}
		return ty, term.IntLit(e.Int, ty).At(e.Pos)
	case term.OpReal:
		if e.Type != nil && e.Flags&term.FlagExplicit != 0 {
			return e.Type, e
		}
		ty := types.NarrowestReal(e.Real)
		if e.Type == ty {
			return ty, e
		}
		return ty, term.RealLit(e.Real, ty).At(e.Pos)
	case term.OpStr:
		if e.Type == term.Str {
			return term.Str, e
		}
		return term.Str, term.StrLit(e.Str).At(e.Pos)
	case term.OpNil:
		if e.Type == term.Null {
			return term.Null, e
		}
		return term.Null, term.NilLit().At(e.Pos)
	}
	return term.Void, term.Skip
}

// name transforms a reference to the type and value of the entity it is bound to.
func (t *Transformer) name(l *layer.Layer, e *term.Term) (*term.Term, *term.Term) {
	_, b := l.Lookup(e.Name)
	if b == nil {
		return t.report(Undeclared, e)
	}
	switch b.Kind {
	case layer.None, layer.Generic:
		return t.report(Unbound, e)
	case layer.Type:
		ty := t.grounder.Groundify(l, e)
		return term.TypeOf(ty), ty
	}
	return t.entityValue(e, b.Value.(*entity))
}

func (t *Transformer) entityValue(e *term.Term, ent *entity) (*term.Term, *term.Term) {
	switch ent.kind {
	case entConst:
		return ent.typ, ent.value
	case entLocal, entVar, entParam, entProc:
		return ent.typ, term.NameOf(ent.name).At(e.Pos)
	case entForm, entGen:
		// removable: only meaningful as a callee
		return ent.typ, term.Skip
	case entOverload:
		if s := ent.single(); s != ent {
			return t.entityValue(e, s)
		}
		return t.report(Overloaded, e)
	case entHole:
		return ent.typ, ent.value
	}
	return t.report(Unbound, e)
}

// lookupEntity returns the entity bound to name, or nil if name is not bound to one.
func lookupEntity(l *layer.Layer, name term.Name) *entity {
	_, b := l.Lookup(name)
	if b == nil || b.Kind != layer.Value {
		return nil
	}
	ent, _ := b.Value.(*entity)
	return ent
}

// resolveType rewrites a type expression into a type: names bound to types are replaced by the
// types, and unbound generic names are kept. Unchanged subtrees are shared.
func (t *Transformer) resolveType(l *layer.Layer, e *term.Term) *term.Term {
	switch e.Op {
	case term.OpName:
		_, b := l.Lookup(e.Name)
		switch {
		case b == nil:
			t.report(Undeclared, e)
			return bad
		case b.Kind == layer.None || b.Kind == layer.Generic:
			return e
		case b.Kind == layer.Type:
			return t.grounder.Groundify(l, e)
		}
		ent := b.Value.(*entity)
		if ent.typ == bad {
			return bad
		}
		if (ent.kind == entConst || ent.kind == entHole) && ent.typ.Op == term.TypeType {
			return ent.value
		}
		t.report(NotAType, e)
		return bad

	case term.TypeVoid, term.TypeNull, term.TypeInt, term.TypeWord, term.TypeReal, term.TypeStr,
		term.TypeSkolem, term.TypeJoker, term.TypeHole:
		return e

	case term.TypeGen:
		gl := layer.Push(l, layer.Plain)
		for _, p := range e.Params() {
			gl.Set(p.Name, layer.None, nil)
		}
		ty := t.resolveKids(gl, e)
		gl.Destroy()
		return ty
	}
	if e.IsType() {
		return t.resolveKids(l, e)
	}

	ty, v := t.transform(l, e)
	if isBad(ty) {
		return bad
	}
	if ty.Op != term.TypeType {
		t.report(NotAType, e)
		return bad
	}
	return v
}

func (t *Transformer) resolveKids(l *layer.Layer, e *term.Term) *term.Term {
	var copied *term.Term
	for i, kid := range e.Kids {
		if kid == nil {
			continue
		}
		wrapped := kid.Op == term.OpSlot || kid.Op == term.OpParam || kid.Op == term.OpGenParam
		inner := kid
		if wrapped {
			inner = kid.Kid(0)
		}
		resolved := t.resolveType(l, inner)
		if resolved == bad {
			return bad
		}
		if resolved == inner {
			continue
		}
		if copied == nil {
			copied = e.Shallow()
		}
		if wrapped {
			w := kid.Shallow()
			w.Kids[0] = resolved
			copied.Kids[i] = w
		} else {
			copied.Kids[i] = resolved
		}
	}
	if copied == nil {
		return e
	}
	return copied
}
