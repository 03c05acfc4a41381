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

type groundKey struct {
	l *layer.Layer
	t *term.Term
}

// Grounder substitutes bound generic names with the types they are bound to. The zero value is
// ready to use; Depth, when set, is charged one level per visited node.
type Grounder struct {
	Depth *fault.Depth

	lookup map[groundKey]*term.Term
	strong map[*term.Term]bool
}

// Groundify returns a copy of t in which every free name is replaced by the groundified type it
// is bound to in l. The precondition is that t is ground in l; an unbound free name is an
// internal fault. Strongly ground subtrees are shared rather than copied, identical subterms map
// to identical copies, and cycles are preserved.
func Groundify(l *layer.Layer, t *term.Term) *term.Term {
	var g Grounder
	return g.Groundify(l, t)
}

// Groundify is like the package-level Groundify, charging g.Depth.
func (g *Grounder) Groundify(l *layer.Layer, t *term.Term) *term.Term {
	if t == nil || IsStronglyGround(t) {
		return t
	}
	g.lookup = make(map[groundKey]*term.Term, 16)
	g.strong = make(map[*term.Term]bool, 16)
	t = g.visit(l, t)
	g.lookup, g.strong = nil, nil
	return t
}

func (g *Grounder) isStrong(t *term.Term) bool {
	s, ok := g.strong[t]
	if !ok {
		s = IsStronglyGround(t)
		g.strong[t] = s
	}
	return s
}

func (g *Grounder) visit(l *layer.Layer, t *term.Term) *term.Term {
	if t == nil || g.isStrong(t) {
		return t
	}
	key := groundKey{l, t}
	if copied, ok := g.lookup[key]; ok {
		return copied
	}
	if g.Depth != nil {
		g.Depth.Enter()
		defer g.Depth.Leave()
	}

	switch t.Op {
	case term.OpName:
		if l != nil {
			if _, b := l.Lookup(t.Name); b != nil && b.Kind == layer.None {
				// declared by an enclosing gen being copied
				return t
			}
		}
		owner, bound := l, t
		for chain := 0; bound.Op == term.OpName; chain++ {
			var ok bool
			if owner, bound, ok = Resolve(owner, bound.Name); !ok {
				fault.Invariant("groundify: %q is not bound", t.Name.String())
			}
			if chain > 64 {
				fault.Invariant("groundify: %q is bound to itself", t.Name.String())
			}
		}
		// the copy of bound is registered before its kids are visited, so a type referring
		// back to the same name reaches it
		return g.visit(owner, bound)

	case term.TypeGen:
		// the names declared by the gen are not free within it
		inner := layer.Push(l, layer.Plain)
		for _, p := range t.Params() {
			inner.Set(p.Name, layer.None, nil)
		}
		copied := t.Shallow()
		g.lookup[key] = copied
		for i, p := range t.Params() {
			copied.Kids[i] = g.visit(inner, p)
		}
		copied.Kids[len(copied.Kids)-1] = g.visit(inner, t.Result())
		inner.Destroy()
		return copied
	}

	copied := t.Shallow()
	// registered before the kids are visited, so a cycle back to t reaches the copy
	g.lookup[key] = copied
	for i, kid := range t.Kids {
		copied.Kids[i] = g.visit(l, kid)
	}
	if t.Type != nil {
		copied.Type = g.visit(l, t.Type)
	}
	return copied
}
