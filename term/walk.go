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

// Walk visits t and its descendants in pre-order, visiting each shared or cyclic node once.
// If f returns false, the children of the visited node are skipped.
func Walk(t *Term, f func(*Term) bool) {
	seen := make(TermSet, 32)
	walk(seen, t, f)
}

func walk(seen TermSet, t *Term, f func(*Term) bool) {
	if t == nil || !seen.Add(t) {
		return
	}
	if !f(t) {
		return
	}
	if t.Type != nil {
		walk(seen, t.Type, f)
	}
	for _, kid := range t.Kids {
		walk(seen, kid, f)
	}
}

// Contains reports whether any node reachable from t satisfies pred.
func Contains(t *Term, pred func(*Term) bool) bool {
	found := false
	Walk(t, func(n *Term) bool {
		if found {
			return false
		}
		if pred(n) {
			found = true
			return false
		}
		return true
	})
	return found
}

// Equal reports whether a and b are structurally identical, treating cycles coinductively.
func Equal(a, b *Term) bool {
	return equal(make(map[[2]*Term]struct{}, 8), a, b)
}

func equal(assumed map[[2]*Term]struct{}, a, b *Term) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	pair := [2]*Term{a, b}
	if _, ok := assumed[pair]; ok {
		return true
	}
	if a.Op != b.Op || a.Name != b.Name || a.Int != b.Int || a.Str != b.Str || a.Joker != b.Joker ||
		a.Flags != b.Flags || len(a.Kids) != len(b.Kids) {
		return false
	}
	if a.Op == OpReal && a.Real != b.Real {
		return false
	}
	assumed[pair] = struct{}{}
	if (a.Type != nil || b.Type != nil) && !equal(assumed, a.Type, b.Type) {
		return false
	}
	for i := range a.Kids {
		if !equal(assumed, a.Kids[i], b.Kids[i]) {
			return false
		}
	}
	return true
}
