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

package layer_test

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wdamron/lower/fault"
	. "github.com/wdamron/lower/layer"
	"github.com/wdamron/lower/term"
)

func names(in *term.Interner, n int) []term.Name {
	ns := make([]term.Name, n)
	for i := range ns {
		ns[i] = in.Intern("n" + strconv.Itoa(i))
	}
	return ns
}

func TestBalancedAfterAscendingInserts(t *testing.T) {
	in := term.NewInterner()
	l := Push(nil, Plain)
	for i, n := range names(in, 1000) {
		l.Set(n, Value, i)
		require.True(t, l.Balanced(), "unbalanced after %d inserts", i+1)
	}
	require.Equal(t, 1000, l.Len())
	// A perfectly balanced tree of 1000 nodes has height 10; AVL bounds it by 1.44*log2(n).
	require.LessOrEqual(t, l.Height(), 14)
}

func TestBalancedAfterRandomInserts(t *testing.T) {
	in := term.NewInterner()
	ns := names(in, 500)
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 20; round++ {
		l := Push(nil, Plain)
		perm := rng.Perm(len(ns))
		for _, i := range perm {
			l.Set(ns[i], Value, i)
		}
		require.True(t, l.Balanced())
		require.Equal(t, len(ns), l.Len())
		for i, n := range ns {
			kind, v, ok := l.Get(n)
			require.True(t, ok)
			require.Equal(t, Value, kind)
			require.Equal(t, i, v)
		}
	}
}

func TestDescendingAndZigZagInserts(t *testing.T) {
	in := term.NewInterner()
	ns := names(in, 300)
	l := Push(nil, Plain)
	for i := len(ns) - 1; i >= 0; i-- {
		l.Set(ns[i], Type, nil)
	}
	require.True(t, l.Balanced())

	z := Push(nil, Plain)
	for lo, hi := 0, len(ns)-1; lo <= hi; lo, hi = lo+1, hi-1 {
		z.Set(ns[lo], Type, nil)
		if lo != hi {
			z.Set(ns[hi], Type, nil)
		}
		require.True(t, z.Balanced())
	}
	require.Equal(t, len(ns), z.Len())
}

func TestRemoveKeepsBalance(t *testing.T) {
	in := term.NewInterner()
	ns := names(in, 400)
	rng := rand.New(rand.NewSource(11))
	l := Push(nil, Plain)
	for _, i := range rng.Perm(len(ns)) {
		l.Set(ns[i], Value, i)
	}

	removed := make(map[int]bool)
	for k, i := range rng.Perm(len(ns)) {
		if k%3 == 0 {
			continue
		}
		require.True(t, l.Remove(ns[i]))
		removed[i] = true
		require.True(t, l.Balanced(), "unbalanced after removing %s", ns[i])
	}
	require.Equal(t, len(ns)-len(removed), l.Len())
	for i, n := range ns {
		_, v, ok := l.Get(n)
		require.Equal(t, !removed[i], ok)
		if ok {
			require.Equal(t, i, v)
		}
	}
	for i := range removed {
		require.False(t, l.Remove(ns[i]), "%s was already removed", ns[i])
		break
	}

	// removal only touches the innermost tree
	inner := Push(l, Plain)
	for i := range ns {
		if !removed[i] {
			require.False(t, inner.Remove(ns[i]))
			require.True(t, inner.Got(ns[i]))
			break
		}
	}
}

func TestSetUpdatesInPlace(t *testing.T) {
	in := term.NewInterner()
	x := in.Intern("x")
	l := Push(nil, Plain)
	l.Set(x, Generic, "bound")
	l.Set(x, Type, "int")
	require.Equal(t, 1, l.Len())
	kind, v, ok := l.Get(x)
	require.True(t, ok)
	require.Equal(t, Type, kind)
	require.Equal(t, "int", v)
}

func TestShadowing(t *testing.T) {
	in := term.NewInterner()
	x, y := in.Intern("x"), in.Intern("y")

	outer := Push(nil, Declaration)
	outer.Set(x, Value, "outer-x")
	outer.Set(y, Value, "outer-y")
	inner := Push(outer, Plain)
	inner.Set(x, Value, "inner-x")

	_, v, _ := inner.Get(x)
	require.Equal(t, "inner-x", v)
	_, v, _ = inner.Get(y)
	require.Equal(t, "outer-y", v)

	require.True(t, inner.IsIn(x))
	require.False(t, inner.IsIn(y))
	require.True(t, inner.Got(y))

	owner, b := inner.Lookup(y)
	require.Equal(t, outer, owner)
	require.Equal(t, y, b.Key)

	require.Equal(t, outer, inner.Pop())
	_, v, _ = outer.Get(x)
	require.Equal(t, "outer-x", v)
	require.Equal(t, 1, inner.Depth())
	require.Equal(t, Declaration, outer.Purpose())
}

func TestPopKeepsBindingsDestroyDrops(t *testing.T) {
	in := term.NewInterner()
	x := in.Intern("x")
	outer := Push(nil, Plain)
	captured := Push(outer, Plain)
	captured.Set(x, Value, 1)
	captured.Pop()
	require.True(t, captured.Got(x))

	destroyed := Push(outer, Plain)
	destroyed.Set(x, Value, 1)
	require.Equal(t, outer, destroyed.Destroy())
	require.Equal(t, 0, destroyed.Len())
	require.False(t, destroyed.Got(x))
}

func TestEmptyChainIsInternalFault(t *testing.T) {
	var l *Layer
	x := term.Intern("x")
	require.PanicsWithError(t, "internal error: lookup on an empty layer chain", func() { l.Get(x) })
	require.Panics(t, func() { l.Set(x, Value, nil) })

	defer func() {
		r := recover()
		_, ok := r.(*fault.Internal)
		require.True(t, ok, "expected an internal fault, got %v", r)
	}()
	l.IsIn(x)
}
