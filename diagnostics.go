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
	"strconv"

	"go.uber.org/multierr"

	"github.com/wdamron/lower/term"
)

// ErrorKind classifies a user diagnostic.
type ErrorKind uint8

const (
	DivideByZero ErrorKind = iota + 1
	ArityMismatch
	NoOverload
	Overloaded
	NotCallable
	Undeclared
	Unbound
	UnboundGeneric
	RepeatedDeclaration
	RepeatedLabel
	NotConstant
	NotAType
	NotGround
	NotAssignable
	TypeViolation
	InfiniteType
	Unsized
	BadShift
)

var errorKindNames = [...]string{
	DivideByZero:        "division by zero",
	ArityMismatch:       "arity mismatch",
	NoOverload:          "no matching overload",
	Overloaded:          "overloaded name used as a value",
	NotCallable:         "not callable",
	Undeclared:          "undeclared name",
	Unbound:             "unbound name",
	UnboundGeneric:      "generic name cannot be inferred",
	RepeatedDeclaration: "repeated declaration",
	RepeatedLabel:       "repeated case label",
	NotConstant:         "not a constant",
	NotAType:            "not a type",
	NotGround:           "type is not ground",
	NotAssignable:       "not assignable",
	TypeViolation:       "type violation",
	InfiniteType:        "infinite type",
	Unsized:             "unsized type",
	BadShift:            "shift count out of range",
}

func (k ErrorKind) String() string {
	if int(k) < len(errorKindNames) && errorKindNames[k] != "" {
		return errorKindNames[k]
	}
	return "error(" + strconv.Itoa(int(k)) + ")"
}

// Diagnostic attributes an error kind to the offending term. Call is the enclosing call being
// transformed when the error was found, if any.
type Diagnostic struct {
	Kind ErrorKind
	Term *term.Term
	Call *term.Term
}

func (d Diagnostic) Error() string {
	s := d.Kind.String()
	if d.Term != nil {
		if d.Term.Pos != term.NoPos {
			s = strconv.Itoa(int(d.Term.Pos)) + ": " + s
		}
		s += ": " + d.Term.String()
	}
	return s
}

// Reporter receives diagnostics as they are found. The engine never formats or displays them.
type Reporter interface {
	Report(d Diagnostic)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(d Diagnostic)

func (f ReporterFunc) Report(d Diagnostic) { f(d) }

// combine merges diagnostics into a single error, or nil if there are none.
func combine(diags []Diagnostic) error {
	var err error
	for _, d := range diags {
		err = multierr.Append(err, d)
	}
	return err
}
