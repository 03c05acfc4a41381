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

// layer implements nested symbol tables. Each Layer is one lexical scope: a height-balanced
// binder tree ordered by name handle, plus a purpose tag. Chains of layers are searched
// innermost-first, so inner bindings shadow outer ones.
//
// Layers are captured by reference by closures; a layer must not be destroyed while a surviving
// closure may still look up its bindings.
package layer

import (
	"github.com/wdamron/lower/fault"
	"github.com/wdamron/lower/term"
)

// Purpose tags a layer with the reason it was pushed.
type Purpose uint8

const (
	// Plain layers hold ordinary scoped declarations and speculative generic bindings.
	Plain Purpose = iota
	// Skolem layers bind generic names to opaque placeholders.
	Skolem
	// Declaration layers hold persistent top-level declarations.
	Declaration
)

func (p Purpose) String() string {
	switch p {
	case Plain:
		return "plain"
	case Skolem:
		return "skolem"
	case Declaration:
		return "declaration"
	}
	return "unknown"
}

// Kind classifies the value bound to a name.
type Kind uint8

const (
	// None marks a name which is declared but currently unbound.
	None Kind = iota
	// Generic marks an unbound generic name; the value is its bound (a type term).
	Generic
	// Type marks a name bound to a type.
	Type
	// Value marks a name bound to a transformer entity.
	Value
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Generic:
		return "generic"
	case Type:
		return "type"
	case Value:
		return "value"
	}
	return "unknown"
}

// Layer is one scope level.
type Layer struct {
	parent  *Layer
	root    *Binder
	count   int
	depth   int
	purpose Purpose
}

// Push creates a layer nested within parent. A nil parent starts a new chain.
func Push(parent *Layer, purpose Purpose) *Layer {
	l := &Layer{parent: parent, purpose: purpose}
	if parent != nil {
		l.depth = parent.depth + 1
	}
	return l
}

func mustHave(l *Layer, op string) {
	if l == nil {
		fault.Invariant("%s on an empty layer chain", op)
	}
}

// Pop returns the parent of l, leaving the bindings of l intact for closures which captured it.
func (l *Layer) Pop() *Layer {
	mustHave(l, "pop")
	return l.parent
}

// Destroy discards the binder tree of l and returns its parent.
func (l *Layer) Destroy() *Layer {
	mustHave(l, "destroy")
	parent := l.parent
	l.root, l.count, l.parent = nil, 0, nil
	return parent
}

// Parent returns the enclosing layer.
func (l *Layer) Parent() *Layer {
	mustHave(l, "parent")
	return l.parent
}

// Purpose returns the purpose tag of l.
func (l *Layer) Purpose() Purpose {
	mustHave(l, "purpose")
	return l.purpose
}

// Depth returns the number of layers enclosing l.
func (l *Layer) Depth() int {
	mustHave(l, "depth")
	return l.depth
}

// Len returns the number of binders in the innermost tree.
func (l *Layer) Len() int {
	mustHave(l, "len")
	return l.count
}

// IsIn reports whether name is bound in the innermost tree of l.
func (l *Layer) IsIn(name term.Name) bool {
	mustHave(l, "is-in")
	return l.root.find(name) != nil
}

// Binder returns the binder for name in the innermost tree of l, or nil.
func (l *Layer) Binder(name term.Name) *Binder {
	mustHave(l, "binder")
	return l.root.find(name)
}

// Lookup searches the chain innermost-first, returning the owning layer and its binder.
func (l *Layer) Lookup(name term.Name) (*Layer, *Binder) {
	mustHave(l, "lookup")
	for ; l != nil; l = l.parent {
		if b := l.root.find(name); b != nil {
			return l, b
		}
	}
	return nil, nil
}

// Get searches the chain innermost-first.
func (l *Layer) Get(name term.Name) (kind Kind, value interface{}, ok bool) {
	_, b := l.Lookup(name)
	if b == nil {
		return None, nil, false
	}
	return b.Kind, b.Value, true
}

// Got reports whether name is bound anywhere in the chain.
func (l *Layer) Got(name term.Name) bool {
	_, b := l.Lookup(name)
	return b != nil
}

// Set inserts or updates the binding for name in the innermost tree of l.
func (l *Layer) Set(name term.Name, kind Kind, value interface{}) {
	mustHave(l, "set")
	l.insert(&l.root, name, kind, value)
}

// Remove deletes the binding for name from the innermost tree of l, reporting whether it was
// bound there.
func (l *Layer) Remove(name term.Name) bool {
	mustHave(l, "remove")
	_, found := l.remove(&l.root, name)
	return found
}

// Range visits the innermost binders of l in name order. If f returns false, iteration stops.
func (l *Layer) Range(f func(*Binder) bool) {
	mustHave(l, "range")
	l.root.each(f)
}

// Height returns the height of the innermost binder tree.
func (l *Layer) Height() int {
	mustHave(l, "height")
	return l.root.height()
}

// Balanced reports whether every binder subtree of the innermost tree is ordered by name and its
// left/right heights differ by at most one, matching the recorded balance factors.
func (l *Layer) Balanced() bool {
	mustHave(l, "balanced")
	if _, ok := l.root.check(); !ok {
		return false
	}
	ordered, prev, first := true, term.NoName, true
	l.root.each(func(b *Binder) bool {
		ordered = first || prev.Less(b.Key)
		prev, first = b.Key, false
		return ordered
	})
	return ordered
}
