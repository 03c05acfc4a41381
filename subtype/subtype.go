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

// subtype decides whether one type is a subtype of another, each type read in its own layer.
//
// The engine is written in continuation-passing style: every rule either fails (returning false)
// or calls its continuation, and a speculative binding of a generic name stays live exactly as
// long as the continuation runs. When the continuation returns, the binding is undone, so a
// failed alternative never leaks bindings into the next one.
//
// Subtyping is coinductive: a pair of pointer types already under comparison is assumed to hold,
// which terminates comparisons of cyclic types.
package subtype

import (
	"go.uber.org/zap"

	"github.com/wdamron/lower/fault"
	"github.com/wdamron/lower/layer"
	"github.com/wdamron/lower/term"
	"github.com/wdamron/lower/types"
)

// Ref is the value bound to a generic name: the type it was bound to, read in its own layer.
type Ref = types.Binding

// Cont is a continuation. It reports whether the remaining comparisons succeeded.
type Cont func() bool

// obligation requires Sub (read in SubLayer) to be a subtype of Sup (read in SupLayer) once
// every comparison of a query has succeeded.
type obligation struct {
	subLayer *layer.Layer
	sub      *term.Term
	supLayer *layer.Layer
	sup      *term.Term
}

type pair struct {
	ll, rl *layer.Layer
	lt, rt *term.Term
}

// stash records the state of a binder before a speculative binding.
type stash struct {
	owner *layer.Layer
	name  term.Name
	kind  layer.Kind
	value interface{}
	// absent binders are removed on restore
	absent bool
}

// Context holds the obligation and pair stacks of the subtyping engine. Both stacks are empty
// between queries.
type Context struct {
	Depth *fault.Depth
	// Trace, when set, receives one debug entry per comparison.
	Trace *zap.Logger

	obligations []obligation
	pairs       []pair
}

// NewContext creates a subtyping context charging depth.
func NewContext(depth *fault.Depth) *Context {
	return &Context{Depth: depth}
}

// Pending returns the number of undischarged obligations.
func (c *Context) Pending() int { return len(c.obligations) }

// Assumed returns the number of pointer pairs currently assumed to be related.
func (c *Context) Assumed() int { return len(c.pairs) }

// IsSubtype reports whether lt (read in ll) is a subtype of rt (read in rl). Every speculative
// binding made while deciding is undone before IsSubtype returns.
func (c *Context) IsSubtype(ll *layer.Layer, lt *term.Term, rl *layer.Layer, rt *term.Term) bool {
	return c.IsSubtypeThen(ll, lt, rl, rt, nil)
}

// IsSubtypeThen is like IsSubtype, but once the relation and every obligation it raised hold, it
// runs k while the speculative bindings are still live and returns its result. k may be nil.
func (c *Context) IsSubtypeThen(ll *layer.Layer, lt *term.Term, rl *layer.Layer, rt *term.Term, k Cont) bool {
	base := len(c.obligations)
	return c.IsSubtyping(func() bool { return c.discharge(base, k) }, ll, lt, rl, rt)
}

// discharge checks the obligations from index i onward, each inside the continuation of the
// previous one; obligations raised while checking are appended and checked in turn.
func (c *Context) discharge(i int, k Cont) bool {
	if i >= len(c.obligations) {
		if k == nil {
			return true
		}
		return k()
	}
	o := c.obligations[i]
	return c.IsSubtyping(func() bool { return c.discharge(i+1, k) }, o.subLayer, o.sub, o.supLayer, o.sup)
}

// IsSubtyping is the core of the engine: it decides lt ≤ rt and, on success, returns the result
// of k.
func (c *Context) IsSubtyping(k Cont, ll *layer.Layer, lt *term.Term, rl *layer.Layer, rt *term.Term) bool {
	if lt == nil || rt == nil {
		fault.Invariant("subtype: missing type")
	}
	if c.Depth != nil {
		c.Depth.Enter()
		defer c.Depth.Leave()
	}
	if c.Trace != nil {
		c.Trace.Debug("subtype", zap.Stringer("sub", lt), zap.Stringer("sup", rt))
	}

	if lt.Op == term.OpName || rt.Op == term.OpName {
		return c.names(k, ll, lt, rl, rt)
	}
	if lt == rt && (ll == rl || types.IsStronglyGround(lt)) {
		return k()
	}

	// quantifiers: a gen on the right holds for every instance, a gen on the left for some
	if rt.Op == term.TypeGen {
		sl, _ := types.Skolemize(rl, rt)
		return c.IsSubtyping(k, ll, lt, sl, rt.Result())
	}
	if lt.Op == term.TypeGen {
		il := layer.Push(ll, layer.Plain)
		for _, p := range lt.Params() {
			il.Set(p.Name, layer.Generic, p.Bound())
		}
		return c.IsSubtyping(k, il, lt.Result(), rl, rt)
	}

	switch {
	case lt.Op == term.TypeSkolem:
		return c.skolem(k, ll, lt, rl, rt)
	case rt.Op == term.TypeSkolem:
		// nothing but the placeholder itself is known to be below it
		return false
	case rt.Op == term.TypeJoker:
		if lt.Op == term.TypeJoker {
			return lt.Joker.Subset(rt.Joker) && k()
		}
		return rt.Joker.Admits(lt.Op) && k()
	case lt.Op == term.TypeJoker:
		return false
	}

	switch lt.Op {
	case term.TypeInt, term.TypeWord, term.TypeReal:
		return numberBelow(lt, rt) && k()

	case term.TypeNull:
		return (rt.Op == term.TypeNull || rt.IsPointer()) && k()

	case term.TypeVoid, term.TypeStr:
		return rt.Op == lt.Op && k()

	case term.TypeRef, term.TypeRow:
		if rt.Op != lt.Op {
			return false
		}
		return c.assume(k, ll, lt, rl, rt, func(k Cont) bool {
			return c.IsSubtyping(k, ll, lt.Base(), rl, rt.Base())
		})

	case term.TypeVar:
		if rt.Op != term.TypeVar {
			return false
		}
		return c.equivalent(k, ll, lt.Base(), rl, rt.Base())

	case term.TypeType:
		if rt.Op != term.TypeType {
			return false
		}
		return c.equivalent(k, ll, lt.Base(), rl, rt.Base())

	case term.TypeArray:
		if rt.Op != term.TypeArray || rt.Int != lt.Int {
			return false
		}
		return c.IsSubtyping(k, ll, lt.Base(), rl, rt.Base())

	case term.TypeTuple:
		if rt.Op != term.TypeTuple || len(rt.Kids) != len(lt.Kids) {
			return false
		}
		for i := range lt.Kids {
			if !namesMatch(lt.Kids[i].Name, rt.Kids[i].Name) {
				return false
			}
		}
		return c.each(k, len(lt.Kids), func(i int, k Cont) bool {
			return c.IsSubtyping(k, ll, lt.Kids[i].Kid(0), rl, rt.Kids[i].Kid(0))
		})

	case term.TypeProc, term.TypeForm:
		if rt.Op != lt.Op || len(rt.Kids) != len(lt.Kids) {
			return false
		}
		lp, rp := lt.Params(), rt.Params()
		for i := range lp {
			if !namesMatch(lp[i].Name, rp[i].Name) {
				return false
			}
		}
		return c.each(func() bool {
			return c.IsSubtyping(k, ll, lt.Result(), rl, rt.Result())
		}, len(lp), func(i int, k Cont) bool {
			// parameters are contravariant
			return c.IsSubtyping(k, rl, rp[i].Kid(0), ll, lp[i].Kid(0))
		})

	case term.TypeHole:
		// an unpatched hole only relates to itself
		return false
	}
	return false
}

// names handles comparisons where either side is a name reference.
func (c *Context) names(k Cont, ll *layer.Layer, lt *term.Term, rl *layer.Layer, rt *term.Term) bool {
	if lt.Op == term.OpName {
		owner, b := ll.Lookup(lt.Name)
		if rt.Op == term.OpName && b != nil {
			if rowner, rb := rl.Lookup(rt.Name); rb == b && rowner == owner {
				return k()
			}
		}
		if b != nil && b.Kind == layer.Type {
			bl, bt, _ := types.Resolve(ll, lt.Name)
			return c.IsSubtyping(k, bl, bt, rl, rt)
		}
		if b != nil && b.Kind == layer.Value {
			return false
		}
		return c.bind(k, ll, owner, lt.Name, b, rl, rt)
	}
	owner, b := rl.Lookup(rt.Name)
	if b != nil && b.Kind == layer.Type {
		bl, bt, _ := types.Resolve(rl, rt.Name)
		return c.IsSubtyping(k, ll, lt, bl, bt)
	}
	if b != nil && b.Kind == layer.Value {
		return false
	}
	return c.bind(k, rl, owner, rt.Name, b, ll, lt)
}

// bind speculatively binds an unbound generic name to the other side of the comparison, raising
// an obligation if the name has a bound, then runs k and restores the binder.
func (c *Context) bind(k Cont, from, owner *layer.Layer, name term.Name, b *layer.Binder, ol *layer.Layer, ot *term.Term) bool {
	saved := stash{owner: owner, name: name, kind: layer.None}
	var bound *term.Term
	if b != nil {
		saved.kind, saved.value = b.Kind, b.Value
		if b.Kind == layer.Generic {
			bound, _ = b.Value.(*term.Term)
		}
	} else {
		// undeclared: bind in the innermost layer, removed again on restore
		saved.owner, saved.absent = from, true
	}
	saved.owner.Set(name, layer.Type, Ref{Layer: ol, Type: ot})
	pushed := bound != nil
	if pushed {
		c.obligations = append(c.obligations, obligation{subLayer: ol, sub: ot, supLayer: saved.owner, sup: bound})
	}

	ok := k()

	if pushed {
		c.obligations = c.obligations[:len(c.obligations)-1]
	}
	if saved.absent {
		saved.owner.Remove(saved.name)
	} else {
		saved.owner.Set(saved.name, saved.kind, saved.value)
	}
	return ok
}

func (c *Context) skolem(k Cont, ll *layer.Layer, lt *term.Term, rl *layer.Layer, rt *term.Term) bool {
	if rt.Op == term.TypeSkolem {
		return lt == rt && k()
	}
	bound := lt.Bound()
	switch {
	case bound == nil:
		return false
	case bound.Op == term.TypeJoker:
		return rt.Op == term.TypeJoker && bound.Joker.Subset(rt.Joker) && k()
	}
	// a placeholder bounded by a type is admitted wherever its bound is
	return c.IsSubtyping(k, ll, bound, rl, rt)
}

// assume runs f under the coinductive assumption that lt ≤ rt. A pair already assumed holds.
func (c *Context) assume(k Cont, ll *layer.Layer, lt *term.Term, rl *layer.Layer, rt *term.Term, f func(Cont) bool) bool {
	p := pair{ll: ll, lt: lt, rl: rl, rt: rt}
	for i := len(c.pairs) - 1; i >= 0; i-- {
		if c.pairs[i] == p {
			return k()
		}
	}
	c.pairs = append(c.pairs, p)
	ok := f(k)
	c.pairs = c.pairs[:len(c.pairs)-1]
	return ok
}

// equivalent decides lt ≤ rt and rt ≤ lt, the second inside the continuation of the first.
func (c *Context) equivalent(k Cont, ll *layer.Layer, lt *term.Term, rl *layer.Layer, rt *term.Term) bool {
	return c.IsSubtyping(func() bool {
		return c.IsSubtyping(k, rl, rt, ll, lt)
	}, ll, lt, rl, rt)
}

// each chains f over n positions, calling k after the last.
func (c *Context) each(k Cont, n int, f func(i int, k Cont) bool) bool {
	var step func(i int) bool
	step = func(i int) bool {
		if i == n {
			return k()
		}
		return f(i, func() bool { return step(i + 1) })
	}
	return step(0)
}

func namesMatch(a, b term.Name) bool { return a.IsNone() || b.IsNone() || a == b }

// numberBelow orders numeric types: widths grow within a family, and a word fits in any strictly
// wider int.
func numberBelow(lt, rt *term.Term) bool {
	switch {
	case lt.Op == rt.Op:
		return lt.Int <= rt.Int
	case lt.Op == term.TypeWord && rt.Op == term.TypeInt:
		return lt.Int < rt.Int
	}
	return false
}
