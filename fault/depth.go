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

package fault

import "strconv"

// DefaultMaxDepth is the nesting ceiling used when none is configured.
const DefaultMaxDepth = 2000

// Depth counts nested recursion across the transformer, the subtyping engine and grounding.
// Exceeding the ceiling aborts.
type Depth struct {
	n, max int
	peak   int
}

// NewDepth creates a counter with the given ceiling. A non-positive ceiling selects the default.
func NewDepth(max int) *Depth {
	if max <= 0 {
		max = DefaultMaxDepth
	}
	return &Depth{max: max}
}

// Enter records one more level of nesting.
func (d *Depth) Enter() {
	d.n++
	if d.n > d.peak {
		d.peak = d.n
	}
	if d.n > d.max {
		Throw(DepthExceeded, "ceiling "+strconv.Itoa(d.max))
	}
}

// Leave records the end of one level of nesting.
func (d *Depth) Leave() {
	if d.n == 0 {
		Invariant("depth counter underflow")
	}
	d.n--
}

// Level returns the current nesting level.
func (d *Depth) Level() int { return d.n }

// Peak returns the deepest level reached.
func (d *Depth) Peak() int { return d.peak }

// Max returns the ceiling.
func (d *Depth) Max() int { return d.max }

// Reset clears the counter. The driver calls it after an abort, since unwinding leaves the
// failed level counted.
func (d *Depth) Reset() { d.n, d.peak = 0, 0 }
