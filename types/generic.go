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

// types holds the genericity operations of the engine (bindability, groundness, grounding,
// Skolemization) together with numeric type helpers and the size/alignment oracle.
//
// A type is a term whose selector is a type constructor. Names occurring in type positions are
// generic names; a gen type binds its parameter names within its bounds and body.
package types

import (
	"github.com/wdamron/lower/layer"
	"github.com/wdamron/lower/term"
)

// Binding is the value of a name bound (with kind layer.Type) to a type which must be
// interpreted in its own layer.
type Binding struct {
	Layer *layer.Layer
	Type  *term.Term
}

// Resolve looks up a generic name. It reports the layer in which the bound type is interpreted
// and the type itself, or ok=false when the name is unbound (absent, None or Generic).
func Resolve(l *layer.Layer, name term.Name) (owner *layer.Layer, t *term.Term, ok bool) {
	owner, b := l.Lookup(name)
	if b == nil || b.Kind != layer.Type {
		return nil, nil, false
	}
	switch v := b.Value.(type) {
	case Binding:
		return v.Layer, v.Type, true
	case *Binding:
		return v.Layer, v.Type, true
	case *term.Term:
		return owner, v, true
	}
	return nil, nil, false
}

// typeKids visits the type-shaped children of t: slot, parameter and generic-parameter wrappers
// are looked through. If f returns false, iteration stops and false is returned.
func typeKids(t *term.Term, f func(*term.Term) bool) bool {
	for _, kid := range t.Kids {
		if kid == nil {
			continue
		}
		switch kid.Op {
		case term.OpSlot, term.OpParam, term.OpGenParam:
			if kid.Kid(0) != nil && !f(kid.Kid(0)) {
				return false
			}
		default:
			if !f(kid) {
				return false
			}
		}
	}
	return true
}

func declares(gen *term.Term, name term.Name) bool {
	for _, p := range gen.Params() {
		if p.Name == name {
			return true
		}
	}
	return false
}

// IsBindable reports whether name occurs free at least once among the parameter types of an
// executable type, looking through a leading gen prefix. A generic name which does not occur in
// any parameter type can never be inferred from the arguments of a call.
func IsBindable(name term.Name, form *term.Term) bool {
	if form == nil {
		return false
	}
	if form.Op == term.TypeGen {
		form = form.Result()
	}
	if form == nil || (form.Op != term.TypeProc && form.Op != term.TypeForm) {
		return false
	}
	seen := make(term.TermSet, 16)
	for _, p := range form.Params() {
		if occursFree(seen, name, p.Kid(0)) {
			return true
		}
	}
	return false
}

func occursFree(seen term.TermSet, name term.Name, t *term.Term) bool {
	if t == nil || !seen.Add(t) {
		return false
	}
	switch t.Op {
	case term.OpName:
		return t.Name == name
	case term.TypeGen:
		for _, p := range t.Params() {
			if occursFree(seen, name, p.Bound()) {
				return true
			}
		}
		if declares(t, name) {
			// redeclared: the inner gen shadows name
			return false
		}
		return occursFree(seen, name, t.Result())
	}
	found := false
	typeKids(t, func(kid *term.Term) bool {
		found = occursFree(seen, name, kid)
		return !found
	})
	return found
}

// FreeNames visits each distinct name occurring free in t.
func FreeNames(t *term.Term, f func(term.Name)) {
	reported := make(map[term.Name]bool, 4)
	freeNames(make(term.TermSet, 16), nil, t, func(n term.Name) bool {
		if !reported[n] {
			reported[n] = true
			f(n)
		}
		return true
	})
}

// freeNames visits free names until f returns false, reporting whether the search completed.
func freeNames(seen term.TermSet, shadowed []term.Name, t *term.Term, f func(term.Name) bool) bool {
	if t == nil || !seen.Add(t) {
		return true
	}
	switch t.Op {
	case term.OpName:
		for _, s := range shadowed {
			if s == t.Name {
				return true
			}
		}
		return f(t.Name)
	case term.TypeGen:
		inner := shadowed
		for _, p := range t.Params() {
			if !freeNames(seen, inner, p.Bound(), f) {
				return false
			}
			inner = append(inner[:len(inner):len(inner)], p.Name)
		}
		// nodes below a gen are visited under a different shadow set
		return freeNames(make(term.TermSet, 8), inner, t.Result(), f)
	}
	return typeKids(t, func(kid *term.Term) bool {
		return freeNames(seen, shadowed, kid, f)
	})
}

// IsStronglyGround reports whether t contains no free names at all. Strongly ground types mean
// the same thing in every environment and are shared rather than copied.
func IsStronglyGround(t *term.Term) bool {
	return freeNames(make(term.TermSet, 16), nil, t, func(term.Name) bool { return false })
}

// IsGround reports whether every name occurring free in t is bound to a type in l.
func IsGround(l *layer.Layer, t *term.Term) bool {
	return freeNames(make(term.TermSet, 16), nil, t, func(n term.Name) bool {
		_, _, ok := Resolve(l, n)
		return ok
	})
}
