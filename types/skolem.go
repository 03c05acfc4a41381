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
	"github.com/wdamron/lower/fault"
	"github.com/wdamron/lower/layer"
	"github.com/wdamron/lower/term"
)

// Skolemize pushes a Skolem layer over l binding each generic name declared by gen to a fresh
// opaque placeholder carrying the name's bound. Bounds may mention earlier names of the same gen;
// they are interpreted in the returned layer.
func Skolemize(l *layer.Layer, gen *term.Term) (*layer.Layer, []*term.Term) {
	if gen == nil || gen.Op != term.TypeGen {
		fault.Invariant("skolemize: %s is not a gen type", term.String(gen))
	}
	sl := layer.Push(l, layer.Skolem)
	params := gen.Params()
	skolems := make([]*term.Term, len(params))
	for i, p := range params {
		skolems[i] = term.SkolemOf(p.Name, p.Bound())
		sl.Set(p.Name, layer.Type, skolems[i])
	}
	return sl, skolems
}

// Unskolemize returns a copy of t with each placeholder skolems[i] replaced by a reference to
// names[i]. Subtrees containing no placeholder are shared, and sharing and cycles are preserved.
func Unskolemize(t *term.Term, skolems []*term.Term, names []term.Name) *term.Term {
	if len(skolems) != len(names) {
		fault.Invariant("unskolemize: %d placeholders for %d names", len(skolems), len(names))
	}
	u := unskolemizer{
		skolems: make(map[*term.Term]term.Name, len(skolems)),
		lookup:  make(map[*term.Term]*term.Term, 16),
		has:     make(map[*term.Term]bool, 16),
	}
	for i, s := range skolems {
		u.skolems[s] = names[i]
	}
	return u.visit(t)
}

// Generalize closes t over the placeholders, returning `gen(n1: b1, ...) t'` where each ni is a
// fresh stub name for the i'th placeholder and both t' and the bounds refer to the stubs.
func Generalize(in *term.Interner, t *term.Term, skolems []*term.Term) *term.Term {
	if len(skolems) == 0 {
		return t
	}
	names := make([]term.Name, len(skolems))
	for i, s := range skolems {
		names[i] = in.Stub(s.Name.String())
	}
	params := make([]*term.Term, len(skolems))
	for i, s := range skolems {
		params[i] = term.SlotOf(term.OpGenParam, names[i], Unskolemize(s.Bound(), skolems, names))
	}
	return term.ExeOf(term.TypeGen, params, Unskolemize(t, skolems, names))
}

type unskolemizer struct {
	skolems map[*term.Term]term.Name
	lookup  map[*term.Term]*term.Term
	has     map[*term.Term]bool
}

func (u *unskolemizer) contains(t *term.Term) bool {
	has, ok := u.has[t]
	if !ok {
		has = term.Contains(t, func(n *term.Term) bool {
			_, ok := u.skolems[n]
			return ok
		})
		u.has[t] = has
	}
	return has
}

func (u *unskolemizer) visit(t *term.Term) *term.Term {
	if t == nil || !u.contains(t) {
		return t
	}
	if copied, ok := u.lookup[t]; ok {
		return copied
	}
	if name, ok := u.skolems[t]; ok {
		ref := term.NameOf(name)
		u.lookup[t] = ref
		return ref
	}
	copied := t.Shallow()
	u.lookup[t] = copied
	for i, kid := range t.Kids {
		copied.Kids[i] = u.visit(kid)
	}
	if t.Type != nil {
		copied.Type = u.visit(t.Type)
	}
	return copied
}
