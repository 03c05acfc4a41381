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

package layer

import (
	"github.com/wdamron/lower/term"
)

// Binder maps one name to a kind and value. Binders form an AVL tree ordered by name handle.
type Binder struct {
	Key   term.Name
	Kind  Kind
	Value interface{}

	left, right *Binder
	// balance is height(right) - height(left), always -1, 0 or 1.
	balance int8
}

func (b *Binder) find(name term.Name) *Binder {
	for b != nil {
		switch c := name.Compare(b.Key); {
		case c < 0:
			b = b.left
		case c > 0:
			b = b.right
		default:
			return b
		}
	}
	return nil
}

// insert adds or updates a binder below *p, reporting whether the subtree grew taller.
func (l *Layer) insert(p **Binder, name term.Name, kind Kind, value interface{}) bool {
	b := *p
	if b == nil {
		*p = &Binder{Key: name, Kind: kind, Value: value}
		l.count++
		return true
	}
	switch c := name.Compare(b.Key); {
	case c < 0:
		if !l.insert(&b.left, name, kind, value) {
			return false
		}
		switch b.balance {
		case 1:
			b.balance = 0
			return false
		case 0:
			b.balance = -1
			return true
		}
		*p = rotateLeftHeavy(b)
		return false

	case c > 0:
		if !l.insert(&b.right, name, kind, value) {
			return false
		}
		switch b.balance {
		case -1:
			b.balance = 0
			return false
		case 0:
			b.balance = 1
			return true
		}
		*p = rotateRightHeavy(b)
		return false

	default:
		b.Kind, b.Value = kind, value
		return false
	}
}

// rotateLeftHeavy rebalances b after its left subtree grew two levels taller than its right.
func rotateLeftHeavy(b *Binder) *Binder {
	left := b.left
	if left.balance == -1 {
		// left-left: single right rotation
		b.left, left.right = left.right, b
		b.balance, left.balance = 0, 0
		return left
	}
	// left-right: double rotation
	mid := left.right
	left.right, b.left = mid.left, mid.right
	mid.left, mid.right = left, b
	switch mid.balance {
	case -1:
		left.balance, b.balance = 0, 1
	case 1:
		left.balance, b.balance = -1, 0
	default:
		left.balance, b.balance = 0, 0
	}
	mid.balance = 0
	return mid
}

// rotateRightHeavy rebalances b after its right subtree grew two levels taller than its left.
func rotateRightHeavy(b *Binder) *Binder {
	right := b.right
	if right.balance == 1 {
		// right-right: single left rotation
		b.right, right.left = right.left, b
		b.balance, right.balance = 0, 0
		return right
	}
	// right-left: double rotation
	mid := right.left
	right.left, b.right = mid.right, mid.left
	mid.right, mid.left = right, b
	switch mid.balance {
	case 1:
		right.balance, b.balance = 0, -1
	case -1:
		right.balance, b.balance = 1, 0
	default:
		right.balance, b.balance = 0, 0
	}
	mid.balance = 0
	return mid
}

// remove deletes the binder for name below *p, reporting whether the subtree grew shorter and
// whether name was found.
func (l *Layer) remove(p **Binder, name term.Name) (shrank, found bool) {
	b := *p
	if b == nil {
		return false, false
	}
	switch c := name.Compare(b.Key); {
	case c < 0:
		if shrank, found = l.remove(&b.left, name); !shrank {
			return false, found
		}
		return shrinkLeft(p), true
	case c > 0:
		if shrank, found = l.remove(&b.right, name); !shrank {
			return false, found
		}
		return shrinkRight(p), true
	}

	l.count--
	switch {
	case b.left == nil:
		*p = b.right
		return true, true
	case b.right == nil:
		*p = b.left
		return true, true
	}
	// the leftmost binder of the right subtree takes the place of b
	var succ *Binder
	shrank = removeMin(&b.right, &succ)
	succ.left, succ.right, succ.balance = b.left, b.right, b.balance
	*p = succ
	if !shrank {
		return false, true
	}
	return shrinkRight(p), true
}

func removeMin(p **Binder, min **Binder) bool {
	b := *p
	if b.left == nil {
		*min, *p = b, b.right
		return true
	}
	if !removeMin(&b.left, min) {
		return false
	}
	return shrinkLeft(p)
}

// shrinkLeft rebalances *p after its left subtree grew one level shorter, reporting whether *p
// grew shorter.
func shrinkLeft(p **Binder) bool {
	b := *p
	switch b.balance {
	case -1:
		b.balance = 0
		return true
	case 0:
		b.balance = 1
		return false
	}
	right := b.right
	if right.balance == 0 {
		b.right, right.left = right.left, b
		b.balance, right.balance = 1, -1
		*p = right
		return false
	}
	*p = rotateRightHeavy(b)
	return true
}

// shrinkRight rebalances *p after its right subtree grew one level shorter, reporting whether *p
// grew shorter.
func shrinkRight(p **Binder) bool {
	b := *p
	switch b.balance {
	case 1:
		b.balance = 0
		return true
	case 0:
		b.balance = -1
		return false
	}
	left := b.left
	if left.balance == 0 {
		b.left, left.right = left.right, b
		b.balance, left.balance = -1, 1
		*p = left
		return false
	}
	*p = rotateLeftHeavy(b)
	return true
}

func (b *Binder) each(f func(*Binder) bool) bool {
	if b == nil {
		return true
	}
	return b.left.each(f) && f(b) && b.right.each(f)
}

func (b *Binder) height() int {
	if b == nil {
		return 0
	}
	lh, rh := b.left.height(), b.right.height()
	if lh > rh {
		return lh + 1
	}
	return rh + 1
}

func (b *Binder) check() (height int, ok bool) {
	if b == nil {
		return 0, true
	}
	lh, lok := b.left.check()
	rh, rok := b.right.check()
	if !lok || !rok {
		return 0, false
	}
	diff := rh - lh
	if diff < -1 || diff > 1 || int(b.balance) != diff {
		return 0, false
	}
	if lh > rh {
		return lh + 1, true
	}
	return rh + 1, true
}
