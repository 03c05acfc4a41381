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
	"github.com/benbjohnson/immutable"

	"github.com/wdamron/lower/layer"
	"github.com/wdamron/lower/term"
)

type entityKind uint8

const (
	// constants are removable: literals, nil, and types
	entConst entityKind = iota
	// materialized immutable binding
	entLocal
	// materialized mutable variable
	entVar
	// procedure parameter
	entParam
	// materialized procedure
	entProc
	// removable form, expanded at each call
	entForm
	// removable generic, instantiated at each call
	entGen
	// ordered list of executable entities sharing a name
	entOverload
	// a type binding which is being declared
	entHole
)

func (k entityKind) String() string {
	switch k {
	case entConst:
		return "constant"
	case entLocal:
		return "local"
	case entVar:
		return "variable"
	case entParam:
		return "parameter"
	case entProc:
		return "procedure"
	case entForm:
		return "form"
	case entGen:
		return "generic"
	case entOverload:
		return "overload"
	case entHole:
		return "type"
	}
	return "unknown"
}

// entity is the value bound to a declared name.
type entity struct {
	kind entityKind
	// name is the emitted name of materialized entities
	name term.Name
	// typ is the type of the value
	typ *term.Term
	// value is the folded value of a constant, the closure of a procedure, or the source term of
	// a form or generic
	value *term.Term
	// layer is the captured scope of forms and generics
	layer *layer.Layer

	overloads *immutable.List

	// generics only
	params    []term.Name
	bounds    []*term.Term
	instances []*instance
}

// instance memoizes one instantiation of a generic: the ground types bound to its names, and
// the resulting form or procedure constant.
type instance struct {
	args []*term.Term
	exe  *entity
}

func (e *entity) isExe() bool {
	return e.kind == entProc || e.kind == entForm || e.kind == entGen
}

// single returns the only member of an overload list, or e itself.
func (e *entity) single() *entity {
	if e.kind == entOverload && e.overloads.Len() == 1 {
		return e.overloads.Get(0).(*entity)
	}
	return e
}

// overload adds an executable entity to the list bound to its name in l.
func overload(l *layer.Layer, name term.Name, e *entity) {
	if b := l.Binder(name); b != nil && b.Kind == layer.Value {
		if prev, ok := b.Value.(*entity); ok && prev.kind == entOverload {
			l.Set(name, layer.Value, &entity{kind: entOverload, typ: prev.typ, overloads: prev.overloads.Append(e)})
			return
		}
	}
	l.Set(name, layer.Value, &entity{kind: entOverload, typ: e.typ, overloads: immutable.NewList().Append(e)})
}

// candidates visits the members of an overload list in declaration order.
func (e *entity) candidates(f func(*entity) bool) {
	if e.kind != entOverload {
		f(e)
		return
	}
	itr := e.overloads.Iterator()
	for !itr.Done() {
		_, v := itr.Next()
		if !f(v.(*entity)) {
			return
		}
	}
}
