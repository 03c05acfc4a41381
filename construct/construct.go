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

// construct provides shorthand builders for type and expression terms. Names are interned with
// the default interner.
package construct

import (
	"github.com/wdamron/lower/term"
)

// Types

// Signed integer type: `int32`
func TInt(width int64) *term.Term { return term.IntOf(width) }

// Unsigned integer type: `word8`
func TWord(width int64) *term.Term { return term.WordOf(width) }

// Real type: `real64`
func TReal(width int64) *term.Term { return term.RealOf(width) }

// Pointer type: `ref T`
func TRef(base *term.Term) *term.Term { return term.RefOf(base) }

// Indexable pointer type: `row T`
func TRow(base *term.Term) *term.Term { return term.RowOf(base) }

// Mutable location type: `var T`
func TVar(base *term.Term) *term.Term { return term.VarOf(base) }

// Array type: `array(n) T`
func TArray(n int64, elem *term.Term) *term.Term { return term.ArrayOf(n, elem) }

// Type of a type: `type T`
func TType(base *term.Term) *term.Term { return term.TypeOf(base) }

// Tuple type: `tuple(a: T, b: U)`
func TTuple(slots ...*term.Term) *term.Term { return term.TupleOf(slots...) }

// Procedure type: `proc(a: T) U`
func TProc(result *term.Term, params ...*term.Term) *term.Term {
	return term.ExeOf(term.TypeProc, params, result)
}

// Form type: `form(a: T) U`
func TForm(result *term.Term, params ...*term.Term) *term.Term {
	return term.ExeOf(term.TypeForm, params, result)
}

// Generic type: `gen(T: obj) B`
func TGen(body *term.Term, params ...*term.Term) *term.Term {
	return term.ExeOf(term.TypeGen, params, body)
}

// Named slot of a tuple type or literal; an empty name is unnamed.
func Slot(name string, t *term.Term) *term.Term { return term.SlotOf(term.OpSlot, intern(name), t) }

// Parameter of a procedure or form.
func Param(name string, t *term.Term) *term.Term { return term.SlotOf(term.OpParam, intern(name), t) }

// Generic parameter with its bound.
func GenParam(name string, bound *term.Term) *term.Term {
	return term.SlotOf(term.OpGenParam, intern(name), bound)
}

func intern(name string) term.Name {
	if name == "" {
		return term.NoName
	}
	return term.Intern(name)
}

// Expressions:

// Integer literal
func Int(v int64) *term.Term { return &term.Term{Op: term.OpInt, Int: v} }

// Real literal
func Real(v float64) *term.Term { return &term.Term{Op: term.OpReal, Real: v} }

// String literal
func Str(s string) *term.Term { return &term.Term{Op: term.OpStr, Str: s} }

// Nil pointer
func Nil() *term.Term { return &term.Term{Op: term.OpNil} }

// The void value
func Skip() *term.Term { return &term.Term{Op: term.OpSkip} }

// Name reference
func Name(name string) *term.Term { return term.NameOf(term.Intern(name)) }

// Unary or binary operation: `(+ a b)`
func Op(op term.Op, args ...*term.Term) *term.Term { return term.New(op, args...) }

func Add(a, b *term.Term) *term.Term { return term.New(term.OpAdd, a, b) }
func Sub(a, b *term.Term) *term.Term { return term.New(term.OpSub, a, b) }
func Mul(a, b *term.Term) *term.Term { return term.New(term.OpMul, a, b) }
func Div(a, b *term.Term) *term.Term { return term.New(term.OpDiv, a, b) }
func Mod(a, b *term.Term) *term.Term { return term.New(term.OpMod, a, b) }

// Conditional: `if c then a else b`; e may be nil.
func If(c, t, e *term.Term) *term.Term {
	if e == nil {
		return term.New(term.OpIf, c, t)
	}
	return term.New(term.OpIf, c, t, e)
}

// Loop: `while c do body`
func While(c, body *term.Term) *term.Term { return term.New(term.OpWhile, c, body) }

// Sequence: `a; b; c`
func Seq(items ...*term.Term) *term.Term { return term.New(term.OpSeq, items...) }

// Scoped bindings: `with a = 1, b = 2 do body`
func With(binds []*term.Term, body *term.Term) *term.Term {
	kids := make([]*term.Term, 0, len(binds)+1)
	return term.New(term.OpWith, append(append(kids, binds...), body)...)
}

// Constant binding: `a = init`
func Bind(name string, init *term.Term) *term.Term { return BindT(name, nil, init) }

// Constant binding with a declared type: `a: T = init`
func BindT(name string, t, init *term.Term) *term.Term {
	return &term.Term{Op: term.OpBind, Name: term.Intern(name), Kids: []*term.Term{t, init}}
}

// Variable binding: `var a: T = init`
func VarBind(name string, t, init *term.Term) *term.Term {
	b := BindT(name, t, init)
	b.Flags |= term.FlagVar
	return b
}

// Procedure: `proc (a: T) U { body }`
func Proc(params []*term.Term, result, body *term.Term) *term.Term {
	return exe(term.OpProc, params, result, body)
}

// Form (macro-like procedure): `form (a: T) U { body }`
func Form(params []*term.Term, result, body *term.Term) *term.Term {
	return exe(term.OpForm, params, result, body)
}

func exe(op term.Op, params []*term.Term, result, body *term.Term) *term.Term {
	kids := make([]*term.Term, 0, len(params)+2)
	return term.New(op, append(append(kids, params...), result, body)...)
}

// Generic: `gen (T: obj) body`
func Gen(params []*term.Term, body *term.Term) *term.Term {
	kids := make([]*term.Term, 0, len(params)+1)
	return term.New(term.OpGen, append(append(kids, params...), body)...)
}

// Application: `f(x, y)`
func Call(f *term.Term, args ...*term.Term) *term.Term {
	kids := make([]*term.Term, 0, len(args)+1)
	return term.New(term.OpCall, append(append(kids, f), args...)...)
}

// Case selection over integer labels:
//
//  case sel
//    of 1, 2: body1
//    of 3:    body2
//    else:    body3
func Case(sel *term.Term, arms ...*term.Term) *term.Term {
	kids := make([]*term.Term, 0, len(arms)+1)
	return term.New(term.OpCase, append(append(kids, sel), arms...)...)
}

// Case arm: `of labels: body`
func Arm(labels []*term.Term, body *term.Term) *term.Term {
	kids := make([]*term.Term, 0, len(labels)+1)
	return term.New(term.OpArm, append(append(kids, labels...), body)...)
}

// Final case arm without labels: `else: body`
func Else(body *term.Term) *term.Term { return term.New(term.OpArm, body) }

// Assignment: `target := value`
func Assign(target, value *term.Term) *term.Term { return term.New(term.OpAssign, target, value) }

// Address of a variable: `@v`
func Addr(v *term.Term) *term.Term { return term.New(term.OpAddr, v) }

// Dereference: `p^`
func Deref(p *term.Term) *term.Term { return term.New(term.OpDeref, p) }

// Indexing: `p[i]`
func Index(p, i *term.Term) *term.Term { return term.New(term.OpIndex, p, i) }

// Slot selection: `x.a`
func Dot(x *term.Term, name string) *term.Term {
	return &term.Term{Op: term.OpDot, Name: term.Intern(name), Kids: []*term.Term{x}}
}

// Tuple literal built from Slot terms: `(a: 1, b: 2)`
func TupleLit(slots ...*term.Term) *term.Term { return term.New(term.OpTupleLit, slots...) }

// Array literal: `[1, 2, 3]`
func ArrayLit(elems ...*term.Term) *term.Term { return term.New(term.OpArrayLit, elems...) }

// Conversion: `T(value)`
func Convert(t, value *term.Term) *term.Term { return term.New(term.OpConvert, t, value) }

// Size query: `size(T)`
func SizeOf(t *term.Term) *term.Term { return term.New(term.OpSizeOf, t) }

// Alignment query: `align(T)`
func AlignOf(t *term.Term) *term.Term { return term.New(term.OpAlignOf, t) }

// Halt the transformation.
func Halt() *term.Term { return term.New(term.OpHalt) }

// Version check: `version "1"`
func Version(v string) *term.Term { return &term.Term{Op: term.OpVersion, Str: v} }

// Explicit load from a variable.
func Load(v *term.Term) *term.Term { return term.New(term.OpLoad, v) }
