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
	"strconv"
	"sync"
)

// Name is an interned identifier. Two names are the same name iff their handles are equal;
// handles are issued monotonically and define a total order.
type Name struct {
	id   uint32
	text string
}

// NoName is the wildcard name.
var NoName = Name{}

// Id returns the handle of n.
func (n Name) Id() int { return int(n.id) }

// String returns the text of n.
func (n Name) String() string { return n.text }

// IsNone reports whether n is the wildcard name.
func (n Name) IsNone() bool { return n.id == 0 }

// Less orders names by handle.
func (n Name) Less(m Name) bool { return n.id < m.id }

// Compare returns -1, 0 or 1 as n orders before, equal to, or after m.
func (n Name) Compare(m Name) int {
	switch {
	case n.id < m.id:
		return -1
	case n.id > m.id:
		return 1
	}
	return 0
}

// Interner issues names. Interned names are stable per text; stubs are fresh identities which
// never collide with an interned name.
type Interner struct {
	mu     sync.Mutex
	nextId uint32
	names  map[string]Name
}

// NewInterner creates an empty interner.
func NewInterner() *Interner {
	return &Interner{nextId: 1, names: make(map[string]Name, 64)}
}

// Intern returns the unique name for s.
func (in *Interner) Intern(s string) Name {
	in.mu.Lock()
	n, ok := in.names[s]
	if !ok {
		n = Name{id: in.nextId, text: s}
		in.nextId++
		in.names[s] = n
	}
	in.mu.Unlock()
	return n
}

// Stub returns a fresh name whose text starts with s.
func (in *Interner) Stub(s string) Name {
	in.mu.Lock()
	id := in.nextId
	in.nextId++
	in.mu.Unlock()
	return Name{id: id, text: s + "%" + strconv.FormatUint(uint64(id), 10)}
}

// Len returns the number of interned (non-stub) names.
func (in *Interner) Len() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.names)
}

var defaultInterner = NewInterner()

// Default returns the process-wide interner used by Intern and Stub.
func Default() *Interner { return defaultInterner }

// Intern returns the unique name for s from the default interner.
func Intern(s string) Name { return defaultInterner.Intern(s) }

// Stub returns a fresh name from the default interner.
func Stub(s string) Name { return defaultInterner.Stub(s) }
