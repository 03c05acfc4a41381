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

// fault separates the two non-recoverable error classes of the engine from user diagnostics.
//
// An Abort is engine-fatal: the depth ceiling was exceeded, the program asked to halt, or a
// version check failed. It unwinds to the top-level driver exactly once, which reports the
// diagnostics collected so far. An internal fault is an engine defect (a malformed term reached
// a rule assuming a specific shape, or a binder was accessed through an empty chain); it is
// never recovered.
package fault

import (
	"fmt"

	"github.com/pkg/errors"
)

// Reason classifies an Abort.
type Reason int

const (
	// DepthExceeded indicates the nesting ceiling was reached.
	DepthExceeded Reason = iota + 1
	// Halted indicates an explicit halt construct was transformed.
	Halted
	// VersionMismatch indicates a version check failed.
	VersionMismatch
)

func (r Reason) String() string {
	switch r {
	case DepthExceeded:
		return "depth exceeded"
	case Halted:
		return "halted"
	case VersionMismatch:
		return "version mismatch"
	}
	return fmt.Sprintf("reason(%d)", int(r))
}

// Abort is the single non-local exit to the driver.
type Abort struct {
	Reason Reason
	Detail string
}

func (a *Abort) Error() string {
	if a.Detail == "" {
		return "abort: " + a.Reason.String()
	}
	return "abort: " + a.Reason.String() + ": " + a.Detail
}

// Throw unwinds to the driver with an Abort.
func Throw(reason Reason, detail string) {
	panic(&Abort{Reason: reason, Detail: detail})
}

// Internal is an engine defect.
type Internal struct {
	err error
}

func (e *Internal) Error() string { return "internal error: " + e.err.Error() }

// Cause returns the underlying error, which carries the stack of the violation.
func (e *Internal) Cause() error { return e.err }

// Invariant panics with an Internal fault. It never returns.
func Invariant(format string, args ...interface{}) {
	panic(&Internal{err: errors.Errorf(format, args...)})
}

// Catch recovers an Abort raised by f and returns it. Any other panic, including an Internal
// fault, is re-raised.
func Catch(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if a, ok := r.(*Abort); ok {
				err = errors.WithStack(a)
				return
			}
			panic(r)
		}
	}()
	f()
	return nil
}

// AsAbort extracts an Abort from err.
func AsAbort(err error) (*Abort, bool) {
	a, ok := errors.Cause(err).(*Abort)
	return a, ok
}
