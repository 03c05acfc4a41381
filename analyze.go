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
	"github.com/wdamron/lower/term"
)

// Dependency analysis for a group of bindings which may be mutually recursive.
//
// Each binding is a vertex. An edge u -> v means the initializer or declared type of v refers to
// u, so u must be declared first. The bodies of procedures and forms are not followed: they are
// transformed after the whole group is declared (procedure bodies) or at each call (forms), so
// they may refer to any binding of the group.
type analysis struct {
	verts    map[term.Name][]int // a name bound more than once is an overload list
	shadowed map[term.Name]int   // count of enclosing inner binders for each name
	graph    util.Graph
	current  int
}

// analyze returns the binding indices grouped into strongly connected components, ordered so
// every component follows the components it depends on. The graph is returned for cycle checks.
func analyze(binds []*term.Term) ([][]int, util.Graph) {
	a := analysis{
		verts:    make(map[term.Name][]int, len(binds)),
		shadowed: make(map[term.Name]int, 8),
		graph:    util.NewGraph(len(binds)),
	}
	for i, b := range binds {
		a.verts[b.Name] = append(a.verts[b.Name], i)
	}
	for i, b := range binds {
		a.current = i
		a.bind(b)
	}
	return a.graph.SCC(), a.graph
}

func (a *analysis) ref(name term.Name) {
	if a.shadowed[name] > 0 {
		return
	}
	for _, v := range a.verts[name] {
		a.graph.AddEdge(v, a.current)
	}
}

func (a *analysis) shadow(names []term.Name) {
	for _, n := range names {
		a.shadowed[n]++
	}
}

func (a *analysis) unshadow(names []term.Name) {
	for _, n := range names {
		if a.shadowed[n]--; a.shadowed[n] <= 0 {
			delete(a.shadowed, n)
		}
	}
}

func (a *analysis) bind(b *term.Term) {
	if b.Op != term.OpBind {
		a.expr(b)
		return
	}
	a.expr(b.Kid(0))
	a.expr(b.Kid(1))
}

func (a *analysis) expr(e *term.Term) {
	if e == nil {
		return
	}
	switch e.Op {
	case term.OpName:
		a.ref(e.Name)

	case term.OpWith:
		binds := e.Init()
		names := make([]term.Name, 0, len(binds))
		for _, b := range binds {
			names = append(names, b.Name)
		}
		a.shadow(names)
		for _, b := range binds {
			a.bind(b)
		}
		a.expr(e.Last())
		a.unshadow(names)

	case term.OpProc, term.OpForm:
		// signature only
		for _, p := range e.Kids[:len(e.Kids)-2] {
			a.expr(p.Kid(0))
		}
		a.expr(e.Kids[len(e.Kids)-2])

	case term.OpGen, term.TypeGen:
		params := e.Init()
		names := make([]term.Name, len(params))
		for i, p := range params {
			names[i] = p.Name
		}
		a.shadow(names)
		for _, p := range params {
			a.expr(p.Kid(0))
		}
		a.expr(e.Last())
		a.unshadow(names)

	default:
		for _, kid := range e.Kids {
			a.expr(kid)
		}
	}
}

// isExeTerm reports whether e declares an executable which may be overloaded.
func isExeTerm(e *term.Term) bool {
	return e != nil && (e.Op == term.OpProc || e.Op == term.OpForm || e.Op == term.OpGen)
}
