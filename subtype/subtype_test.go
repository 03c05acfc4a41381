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

package subtype_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/wdamron/lower/fault"
	"github.com/wdamron/lower/layer"
	. "github.com/wdamron/lower/subtype"
	"github.com/wdamron/lower/term"
	"github.com/wdamron/lower/types"
)

func param(name term.Name, t *term.Term) *term.Term { return term.SlotOf(term.OpParam, name, t) }

func slot(name term.Name, t *term.Term) *term.Term { return term.SlotOf(term.OpSlot, name, t) }

func proc(result *term.Term, params ...*term.Term) *term.Term {
	return term.ExeOf(term.TypeProc, params, result)
}

func gen(body *term.Term, params ...*term.Term) *term.Term {
	return term.ExeOf(term.TypeGen, params, body)
}

func newContext(t *testing.T) (*Context, *layer.Layer) {
	c := NewContext(fault.NewDepth(0))
	c.Trace = zaptest.NewLogger(t)
	return c, layer.Push(nil, layer.Plain)
}

func requireClean(t *testing.T, c *Context) {
	t.Helper()
	require.Zero(t, c.Pending(), "obligations left on the stack")
	require.Zero(t, c.Assumed(), "pairs left on the stack")
	require.Zero(t, c.Depth.Level())
}

func TestNumbers(t *testing.T) {
	c, l := newContext(t)
	for _, tc := range []struct {
		sub, sup *term.Term
		ok       bool
	}{
		{term.Int8, term.Int8, true},
		{term.Int8, term.Int16, true},
		{term.Int16, term.Int8, false},
		{term.Word8, term.Word32, true},
		{term.Word8, term.Int16, true},
		{term.Word8, term.Int8, false},
		{term.Int8, term.Word64, false},
		{term.Real32, term.Real64, true},
		{term.Real64, term.Real32, false},
		{term.Int8, term.Real64, false},
		{term.Str, term.Str, true},
		{term.Void, term.Str, false},
	} {
		require.Equal(t, tc.ok, c.IsSubtype(l, tc.sub, l, tc.sup), "%s <= %s", tc.sub, tc.sup)
	}
	requireClean(t, c)
}

func TestPointers(t *testing.T) {
	c, l := newContext(t)
	require.True(t, c.IsSubtype(l, term.Null, l, term.RefOf(term.Int8)))
	require.True(t, c.IsSubtype(l, term.Null, l, term.RowOf(term.Int8)))
	require.False(t, c.IsSubtype(l, term.RefOf(term.Int8), l, term.Null))
	require.True(t, c.IsSubtype(l, term.RefOf(term.Int8), l, term.RefOf(term.Int16)))
	require.False(t, c.IsSubtype(l, term.RefOf(term.Int8), l, term.RowOf(term.Int8)))

	require.True(t, c.IsSubtype(l, term.VarOf(term.Int8), l, term.VarOf(term.Int8)))
	require.False(t, c.IsSubtype(l, term.VarOf(term.Int8), l, term.VarOf(term.Int16)), "var is invariant")
	require.False(t, c.IsSubtype(l, term.VarOf(term.Int16), l, term.VarOf(term.Int8)))
	requireClean(t, c)
}

func TestCyclicTypes(t *testing.T) {
	in := term.NewInterner()
	h, tl := in.Intern("head"), in.Intern("tail")
	list := func(elem *term.Term) *term.Term {
		node := term.TupleOf(slot(h, elem), nil)
		ref := term.RefOf(node)
		node.Kids[1] = slot(tl, ref)
		return ref
	}
	small, big := list(term.Int8), list(term.Int32)

	c, l := newContext(t)
	require.True(t, c.IsSubtype(l, small, l, big))
	require.False(t, c.IsSubtype(l, big, l, small))
	require.True(t, c.IsSubtype(l, small, l, small))
	requireClean(t, c)
}

func TestJokers(t *testing.T) {
	c, l := newContext(t)
	require.True(t, c.IsSubtype(l, term.Int8, l, term.Num.Term()))
	require.True(t, c.IsSubtype(l, term.Real32, l, term.Num.Term()))
	require.False(t, c.IsSubtype(l, term.Str, l, term.Num.Term()))
	require.True(t, c.IsSubtype(l, term.Inj.Term(), l, term.Num.Term()))
	require.False(t, c.IsSubtype(l, term.Num.Term(), l, term.Inj.Term()))
	require.False(t, c.IsSubtype(l, term.Num.Term(), l, term.Int8))
	require.True(t, c.IsSubtype(l, term.RefOf(term.Str), l, term.Ptr.Term()))
	requireClean(t, c)
}

func TestTuplesAndProcs(t *testing.T) {
	in := term.NewInterner()
	a, b, x := in.Intern("a"), in.Intern("b"), in.Intern("x")
	c, l := newContext(t)

	require.True(t, c.IsSubtype(l, term.TupleOf(slot(a, term.Int8)), l, term.TupleOf(slot(term.NoName, term.Int16))))
	require.False(t, c.IsSubtype(l, term.TupleOf(slot(a, term.Int8)), l, term.TupleOf(slot(b, term.Int8))))
	require.False(t, c.IsSubtype(l, term.TupleOf(slot(a, term.Int8)), l, term.TupleOf()))

	narrow := proc(term.Int8, param(x, term.Int16))
	wide := proc(term.Int16, param(x, term.Int8))
	require.True(t, c.IsSubtype(l, narrow, l, wide))
	require.False(t, c.IsSubtype(l, wide, l, narrow))
	require.False(t, c.IsSubtype(l, narrow, l, proc(term.Int16, param(a, term.Int8))), "parameter names differ")
	require.False(t, c.IsSubtype(l, narrow, l, proc(term.Int16)), "arity differs")

	require.True(t, c.IsSubtype(l, term.TypeOf(term.Int8), l, term.TypeOf(term.Int8)))
	require.False(t, c.IsSubtype(l, term.TypeOf(term.Int8), l, term.TypeOf(term.Int16)))
	requireClean(t, c)
}

func TestGenericBindingIsUndone(t *testing.T) {
	in := term.NewInterner()
	T := in.Intern("T")
	c, base := newContext(t)
	g := layer.Push(base, layer.Plain)
	g.Set(T, layer.Generic, term.Num.Term())

	seen := false
	ok := c.IsSubtypeThen(g, term.NameOf(T), base, term.Int8, func() bool {
		seen = true
		_, bound, ok := types.Resolve(g, T)
		require.True(t, ok)
		require.Same(t, term.Int8, bound)
		require.Same(t, term.Int8, types.Groundify(g, term.NameOf(T)))
		return true
	})
	require.True(t, ok)
	require.True(t, seen)

	kind, v, _ := g.Get(T)
	require.Equal(t, layer.Generic, kind)
	require.Same(t, term.Num.Term(), v)
	requireClean(t, c)
}

func TestUndeclaredBindingIsRemoved(t *testing.T) {
	in := term.NewInterner()
	T := in.Intern("T")
	c, base := newContext(t)

	ok := c.IsSubtypeThen(base, term.NameOf(T), base, term.Int16, func() bool {
		kind, v, ok := base.Get(T)
		require.True(t, ok)
		require.Equal(t, layer.Type, kind)
		require.Equal(t, Ref{Layer: base, Type: term.Int16}, v)
		return true
	})
	require.True(t, ok)
	require.False(t, base.IsIn(T), "no binder is left behind")
	require.Zero(t, base.Len())
	requireClean(t, c)
}

func TestObligationsRejectBinding(t *testing.T) {
	in := term.NewInterner()
	T := in.Intern("T")
	c, base := newContext(t)
	g := layer.Push(base, layer.Plain)
	g.Set(T, layer.Generic, term.Num.Term())

	called := false
	require.False(t, c.IsSubtypeThen(g, term.NameOf(T), base, term.Str, func() bool {
		called = true
		return true
	}))
	require.False(t, called, "the continuation runs only after obligations hold")

	// the continuation may itself reject, and the binding is still undone
	require.False(t, c.IsSubtypeThen(base, term.Int8, g, term.NameOf(T), func() bool { return false }))
	kind, _, _ := g.Get(T)
	require.Equal(t, layer.Generic, kind)
	requireClean(t, c)
}

func TestInstantiation(t *testing.T) {
	in := term.NewInterner()
	T, U, x := in.Intern("T"), in.Intern("U"), in.Intern("x")
	c, l := newContext(t)

	identity := gen(proc(term.NameOf(T), param(x, term.NameOf(T))), term.SlotOf(term.OpGenParam, T, term.Obj.Term()))
	require.True(t, c.IsSubtype(l, identity, l, proc(term.Int8, param(x, term.Int8))))
	require.False(t, c.IsSubtype(l, identity, l, proc(term.Int16, param(x, term.Str))))

	numeric := gen(proc(term.NameOf(U), param(x, term.NameOf(U))), term.SlotOf(term.OpGenParam, U, term.Num.Term()))
	require.False(t, c.IsSubtype(l, numeric, l, proc(term.Str, param(x, term.Str))), "str is not admitted by num")

	// the more general gen is below the less general one
	require.True(t, c.IsSubtype(l, identity, l, numeric))
	require.False(t, c.IsSubtype(l, numeric, l, identity))
	require.True(t, c.IsSubtype(l, numeric, l, numeric))
	requireClean(t, c)
}

func TestGenIsBelowItsCopies(t *testing.T) {
	in := term.NewInterner()
	T, x := in.Intern("T"), in.Intern("x")
	c, l := newContext(t)

	for _, bound := range []func() *term.Term{
		func() *term.Term { return term.RefOf(term.Int8) },
		term.Num.Term,
		term.Obj.Term,
	} {
		build := func() *term.Term {
			return gen(proc(term.NameOf(T), param(x, term.NameOf(T))), term.SlotOf(term.OpGenParam, T, bound()))
		}
		a, b := build(), build()
		require.NotSame(t, a, b)
		require.True(t, c.IsSubtype(l, a, l, b), "%s", a)
		require.True(t, c.IsSubtype(l, b, l, a), "%s", b)
	}

	// a placeholder is below its type bound, and nothing narrower
	sk := term.SkolemOf(T, term.RefOf(term.Int8))
	require.True(t, c.IsSubtype(l, sk, l, term.RefOf(term.Int8)))
	require.False(t, c.IsSubtype(l, sk, l, term.RefOf(term.Str)))
	require.False(t, c.IsSubtype(l, term.SkolemOf(T, term.Num.Term()), l, term.Int64))
	requireClean(t, c)
}

func TestValueNamesAreNotTypes(t *testing.T) {
	in := term.NewInterner()
	v := in.Intern("v")
	c, l := newContext(t)
	l.Set(v, layer.Value, 42)
	require.False(t, c.IsSubtype(l, term.NameOf(v), l, term.Int8))
	require.False(t, c.IsSubtype(l, term.Int8, l, term.NameOf(v)))
}

func TestDepthCeilingAborts(t *testing.T) {
	c := NewContext(fault.NewDepth(8))
	l := layer.Push(nil, layer.Plain)
	deep, deeper := term.Int8, term.Int16
	for i := 0; i < 20; i++ {
		deep, deeper = term.RefOf(deep), term.RefOf(deeper)
	}
	err := fault.Catch(func() { c.IsSubtype(l, deep, l, deeper) })
	a, ok := fault.AsAbort(err)
	require.True(t, ok)
	require.Equal(t, fault.DepthExceeded, a.Reason)
}
