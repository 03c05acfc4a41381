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

package term

import (
	"github.com/benbjohnson/immutable"
)

var emptySet = immutable.NewSortedMap(nil)

// Joker is a structural type-class: the set of type constructors it admits.
type Joker struct {
	Name   string
	admits *immutable.SortedMap
	term   *Term
}

// NewJoker creates a joker admitting exactly the given type constructors.
func NewJoker(name string, anyOf ...Op) *Joker {
	b := immutable.NewSortedMapBuilder(emptySet)
	for _, op := range anyOf {
		if op <= OpInvalid || op >= typeLimit {
			continue
		}
		b.Set(int(op), true)
	}
	j := &Joker{Name: name, admits: b.Map()}
	j.term = &Term{Op: TypeJoker, Joker: j}
	return j
}

// Term returns the shared type term denoting j.
func (j *Joker) Term() *Term { return j.term }

// Admits reports whether j admits the type constructor op.
func (j *Joker) Admits(op Op) bool {
	_, ok := j.admits.Get(int(op))
	return ok
}

// Len returns the number of admitted constructors.
func (j *Joker) Len() int { return j.admits.Len() }

// Range visits admitted constructors in selector order. If f returns false, iteration stops.
func (j *Joker) Range(f func(Op) bool) {
	iter := j.admits.Iterator()
	for !iter.Done() {
		k, _ := iter.Next()
		if !f(Op(k.(int))) {
			return
		}
	}
}

// Subset reports whether every constructor admitted by j is admitted by k.
func (j *Joker) Subset(k *Joker) bool {
	if j == k {
		return true
	}
	ok := true
	j.Range(func(op Op) bool {
		ok = k.Admits(op)
		return ok
	})
	return ok
}

// Predeclared jokers.
var (
	Obj = NewJoker("obj", TypeVoid, TypeNull, TypeInt, TypeWord, TypeReal, TypeStr, TypeRef, TypeRow,
		TypeVar, TypeArray, TypeTuple, TypeProc, TypeForm, TypeGen, TypeType)
	Num = NewJoker("num", TypeInt, TypeWord, TypeReal)
	Inj = NewJoker("inj", TypeInt, TypeWord)
	Rej = NewJoker("rej", TypeReal)
	Exe = NewJoker("exe", TypeProc, TypeForm, TypeGen)
	Ptr = NewJoker("ptr", TypeNull, TypeRef, TypeRow)
	Sca = NewJoker("sca", TypeInt, TypeWord, TypeReal, TypeNull, TypeRef, TypeRow)
	Mut = NewJoker("mut", TypeVar)
	Cmp = NewJoker("cmp", TypeArray, TypeTuple)
)

// Jokers lists the predeclared jokers.
var Jokers = []*Joker{Obj, Num, Inj, Rej, Exe, Ptr, Sca, Mut, Cmp}
