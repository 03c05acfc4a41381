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

package lower_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	. "github.com/wdamron/lower"
	. "github.com/wdamron/lower/construct"

	"github.com/wdamron/lower/fault"
	"github.com/wdamron/lower/term"
)

func newTransformer(t testing.TB, opts ...Option) *Transformer {
	opts = append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)
	return New(NewConfig(), opts...)
}

func kinds(tr *Transformer) []ErrorKind {
	var ks []ErrorKind
	for _, d := range tr.Diagnostics() {
		ks = append(ks, d.Kind)
	}
	return ks
}

func requireInt(t *testing.T, v *term.Term, want int64) {
	t.Helper()
	require.Equal(t, term.OpInt, v.Op, "%s is not an integer literal", v)
	require.Equal(t, want, v.Int)
}

// procBody transforms a procedure expression, drains its body and returns the emitted procedure.
func procBody(t *testing.T, tr *Transformer, e *term.Term) *term.Term {
	t.Helper()
	res, err := tr.Transform(e)
	require.NoError(t, err)
	require.Equal(t, term.OpClosure, res.Value.Op)
	require.NoError(t, tr.Drain())
	require.Zero(t, tr.Pending())
	return res.Value.Kids[0]
}

func TestFoldLiterals(t *testing.T) {
	tr := newTransformer(t)

	res, err := tr.Transform(Add(Int(2), Int(3)))
	require.NoError(t, err)
	require.Same(t, term.Int8, res.Type)
	requireInt(t, res.Value, 5)

	res, err = tr.Transform(Mul(Int(300), Int(300)))
	require.NoError(t, err)
	require.Same(t, term.Int32, res.Type)
	requireInt(t, res.Value, 90000)

	res, err = tr.Transform(Op(term.OpShl, Int(1), Int(4)))
	require.NoError(t, err)
	requireInt(t, res.Value, 16)

	res, err = tr.Transform(Op(term.OpLt, Int(1), Int(2)))
	require.NoError(t, err)
	require.Same(t, term.Int8, res.Type)
	requireInt(t, res.Value, 1)

	res, err = tr.Transform(Add(Real(1.5), Int(1)))
	require.NoError(t, err)
	require.Equal(t, term.OpReal, res.Value.Op)
	require.Equal(t, 2.5, res.Value.Real)

	// an explicit conversion fixes the type of the folded result
	res, err = tr.Transform(Add(Convert(TWord(8), Int(255)), Int(1)))
	require.NoError(t, err)
	require.Equal(t, term.TypeInt, res.Type.Op)
	require.Equal(t, int64(16), res.Type.Int)
	requireInt(t, res.Value, 256)

	res, err = tr.Transform(Add(Convert(TInt(8), Int(127)), Convert(TInt(8), Int(1))))
	require.NoError(t, err)
	require.Same(t, term.Int8, res.Type)
	requireInt(t, res.Value, -128)
}

func TestIdentities(t *testing.T) {
	tr := newTransformer(t)
	x := Param("x", TInt(32))

	p := procBody(t, tr, Proc([]*term.Term{x}, TInt(32), Add(Name("x"), Int(0))))
	body := p.Last()
	require.Equal(t, term.OpName, body.Op, "x+0 left %s", body)
	require.Equal(t, p.Kids[0].Name, body.Name)

	p = procBody(t, tr, Proc([]*term.Term{x}, TInt(32), Mul(Int(1), Name("x"))))
	require.Equal(t, term.OpName, p.Last().Op)

	// multiplying by zero drops the other operand
	p = procBody(t, tr, Proc([]*term.Term{x}, TInt(32), Mul(Name("x"), Int(0))))
	requireInt(t, p.Last(), 0)
	require.Same(t, term.Int32, p.Last().Type)
	require.NotZero(t, p.Last().Flags&term.FlagExplicit)

	p = procBody(t, tr, Proc([]*term.Term{x}, TInt(32), Sub(Int(0), Name("x"))))
	require.Equal(t, term.OpNeg, p.Last().Op)

	p = procBody(t, tr, Proc([]*term.Term{x}, TInt(32), Add(Name("x"), Int(1))))
	require.Equal(t, term.OpAdd, p.Last().Op)
	require.Same(t, term.Int32, p.Last().Kids[1].Type, "literal operand is widened")

	p = procBody(t, tr, Proc([]*term.Term{Param("r", TReal(64))}, TReal(64), Mul(Name("r"), Int(0))))
	require.Equal(t, term.OpMul, p.Last().Op, "real products with zero are kept")
	require.Empty(t, tr.Diagnostics())
}

func TestDivideByZero(t *testing.T) {
	var reported []Diagnostic
	tr := newTransformer(t, WithReporter(ReporterFunc(func(d Diagnostic) { reported = append(reported, d) })))

	call := Call(TInt(64), Div(Int(1), Int(0)))
	res, err := tr.Transform(call)
	require.Error(t, err)
	requireInt(t, res.Value, 0)
	require.Equal(t, []ErrorKind{DivideByZero}, kinds(tr))
	require.Len(t, reported, 1)
	require.Same(t, call, reported[0].Call)

	_, err = tr.Transform(Mod(Int(7), Int(1)))
	require.NoError(t, err)
	_, err = tr.Transform(Op(term.OpShl, Int(1), Int(64)))
	require.Error(t, err)
	require.Equal(t, []ErrorKind{DivideByZero, BadShift}, kinds(tr))
	_, err = tr.Transform(Op(term.OpShl, Convert(TInt(8), Int(1)), Int(8)))
	require.Error(t, err)
	require.Equal(t, []ErrorKind{DivideByZero, BadShift, BadShift}, kinds(tr))
}

func TestLiteralShiftsWiden(t *testing.T) {
	tr := newTransformer(t)

	res, err := tr.Transform(Op(term.OpShl, Int(1), Int(16)))
	require.NoError(t, err)
	requireInt(t, res.Value, 1<<16)
	require.Equal(t, int64(32), res.Type.Int)

	res, err = tr.Transform(Op(term.OpShl, Int(64), Int(2)))
	require.NoError(t, err)
	requireInt(t, res.Value, 256)
	require.Equal(t, int64(16), res.Type.Int)

	res, err = tr.Transform(Op(term.OpShr, Int(1), Int(40)))
	require.NoError(t, err)
	requireInt(t, res.Value, 0)
}

func TestRemovableBindings(t *testing.T) {
	tr := newTransformer(t)

	// b depends on a, which is declared after it
	res, err := tr.Transform(With([]*term.Term{
		Bind("b", Add(Name("a"), Int(1))),
		Bind("a", Int(2)),
		Bind("T", TInt(16)),
		Bind("twice", Form([]*term.Term{Param("x", TInt(64))}, TInt(64), Add(Name("x"), Name("x")))),
	}, Call(Name("twice"), Add(Name("b"), SizeOf(Name("T"))))))
	require.NoError(t, err)
	requireInt(t, res.Value, 10)

	res, err = tr.Transform(With([]*term.Term{VarBind("v", nil, Int(1))},
		Seq(Assign(Name("v"), Int(2)), Name("v"))))
	require.NoError(t, err)
	require.Same(t, term.Int64, res.Type)
	require.Equal(t, term.OpWith, res.Value.Op)
	bind := res.Value.Kids[0]
	require.Equal(t, term.OpBind, bind.Op)
	require.NotZero(t, bind.Flags&term.FlagVar)
	require.Zero(t, bind.Flags&term.FlagSlot)
	body := res.Value.Last()
	require.Equal(t, term.OpSeq, body.Op)
	require.Equal(t, term.OpAssign, body.Kids[0].Op)
	require.Equal(t, term.OpLoad, body.Kids[1].Op)
}

func TestUntakenBranches(t *testing.T) {
	tr := newTransformer(t)

	res, err := tr.Transform(If(Int(1), Int(10), Name("nowhere")))
	require.NoError(t, err)
	requireInt(t, res.Value, 10)

	res, err = tr.Transform(If(Int(0), Name("nowhere"), nil))
	require.NoError(t, err)
	require.Same(t, term.Void, res.Type)

	res, err = tr.Transform(While(Int(0), Name("nowhere")))
	require.NoError(t, err)
	require.Equal(t, term.OpSkip, res.Value.Op)

	res, err = tr.Transform(Op(term.OpAnd, Int(0), Name("nowhere")))
	require.NoError(t, err)
	requireInt(t, res.Value, 0)

	_, err = tr.Transform(If(Name("nowhere"), Int(1), Int(2)))
	require.Error(t, err)
	require.Equal(t, []ErrorKind{Undeclared}, kinds(tr))
}

func requireComplete(t *testing.T, v *term.Term) {
	t.Helper()
	term.Walk(v, func(n *term.Term) bool {
		for _, kid := range n.Kids {
			require.NotNil(t, kid, "%s has a missing child", n)
		}
		return true
	})
}

func TestJoinedOperandsAreConverted(t *testing.T) {
	tr := newTransformer(t)
	vars := []*term.Term{
		VarBind("c", TInt(8), Int(1)),
		VarBind("a", TWord(32), Int(1)),
		VarBind("b", TInt(32), Int(2)),
	}

	res, err := tr.Transform(With(vars, If(Name("c"), Name("a"), Name("b"))))
	require.NoError(t, err)
	require.Same(t, term.Int64, res.Type)
	branches := res.Value.Last()
	require.Equal(t, term.OpIf, branches.Op)
	require.Equal(t, term.OpConvert, branches.Kids[1].Op)
	require.Equal(t, term.OpConvert, branches.Kids[2].Op)
	requireComplete(t, res.Value)

	res, err = tr.Transform(With(vars, ArrayLit(Name("a"), Name("b"))))
	require.NoError(t, err)
	require.Equal(t, term.TypeArray, res.Type.Op)
	require.Same(t, term.Int64, res.Type.Base())
	requireComplete(t, res.Value)

	res, err = tr.Transform(With(vars, Case(Name("c"), Arm([]*term.Term{Int(1)}, Name("a")), Else(Name("b")))))
	require.NoError(t, err)
	require.Same(t, term.Int64, res.Type)
	requireComplete(t, res.Value)
}

func TestCase(t *testing.T) {
	tr := newTransformer(t)

	res, err := tr.Transform(Case(Int(2),
		Arm([]*term.Term{Int(1)}, Int(10)),
		Arm([]*term.Term{Int(2), Int(3)}, Int(20)),
		Else(Name("nowhere"))))
	require.NoError(t, err)
	requireInt(t, res.Value, 20)

	res, err = tr.Transform(Case(Int(9), Arm([]*term.Term{Int(1)}, Int(10))))
	require.NoError(t, err)
	require.Same(t, term.Void, res.Type)

	_, err = tr.Transform(Case(Int(1), Arm([]*term.Term{Int(1)}, Int(10)), Arm([]*term.Term{Int(1)}, Int(20))))
	require.Error(t, err)

	_, err = tr.Transform(With([]*term.Term{VarBind("v", TInt(64), nil)},
		Case(Name("v"), Arm([]*term.Term{Name("v")}, Int(1)))))
	require.Error(t, err)
	require.Equal(t, []ErrorKind{RepeatedLabel, NotConstant}, kinds(tr))

	p := procBody(t, tr, Proc([]*term.Term{Param("x", TInt(8))}, TInt(16), Case(Name("x"),
		Arm([]*term.Term{Int(1)}, Int(1000)),
		Else(Name("x")))))
	body := p.Last()
	require.Equal(t, term.OpCase, body.Op)
	require.Len(t, body.Kids, 3)
}

func TestDeclarationErrors(t *testing.T) {
	tr := newTransformer(t)

	res, err := tr.Transform(With([]*term.Term{Bind("a", Int(1)), Bind("a", Int(2))}, Name("a")))
	require.Error(t, err)
	requireInt(t, res.Value, 1)

	_, err = tr.Transform(With([]*term.Term{Bind("a", Name("b")), Bind("b", Name("a"))}, Name("a")))
	require.Error(t, err)

	_, err = tr.Transform(With([]*term.Term{
		Bind("Bad", TTuple(Slot("x", Name("Bad")))),
	}, SizeOf(Name("Bad"))))
	require.Error(t, err)

	require.Equal(t, []ErrorKind{RepeatedDeclaration, Unbound, InfiniteType}, kinds(tr))
}

func TestRecursiveTypes(t *testing.T) {
	tr := newTransformer(t)

	res, err := tr.Transform(With([]*term.Term{
		Bind("List", TRef(TTuple(Slot("head", TInt(64)), Slot("tail", Name("List"))))),
		Bind("Tree", TRef(TTuple(Slot("left", Name("Forest")), Slot("right", Name("Forest"))))),
		Bind("Forest", TRow(Name("Tree"))),
	}, Add(SizeOf(Name("List")), SizeOf(Name("Forest")))))
	require.NoError(t, err)
	requireInt(t, res.Value, 16)

	// the tail of a list is a list
	res, err = tr.Transform(With([]*term.Term{
		Bind("List", TRef(TTuple(Slot("head", TInt(64)), Slot("tail", Name("List"))))),
	}, Name("List")))
	require.NoError(t, err)
	list := res.Value
	require.Equal(t, term.TypeRef, list.Op)
	require.Same(t, list, list.Base().Kids[1].Kid(0))
}

func TestOverloads(t *testing.T) {
	tr := newTransformer(t)

	out, err := tr.Declare(
		Bind("f", Proc([]*term.Term{Param("x", TInt(64))}, TInt(64), Name("x"))),
		Bind("f", Proc([]*term.Term{Param("s", term.Str)}, TInt(64), Int(0))),
	)
	require.NoError(t, err)
	require.Equal(t, term.OpSeq, out.Op)
	first, second := out.Kids[0].Name, out.Kids[1].Name
	require.NotEqual(t, first, second)

	res, err := tr.Transform(Call(Name("f"), Int(1)))
	require.NoError(t, err)
	require.Same(t, term.Int64, res.Type)
	require.Equal(t, first, res.Value.Kids[0].Name)
	require.Same(t, term.Int64, res.Value.Kids[1].Type, "argument converted to the parameter type")

	res, err = tr.Transform(Call(Name("f"), Str("s")))
	require.NoError(t, err)
	require.Equal(t, second, res.Value.Kids[0].Name)

	_, err = tr.Transform(Call(Name("f"), Real(1.5)))
	require.Error(t, err)
	_, err = tr.Transform(Call(Name("f")))
	require.Error(t, err)
	_, err = tr.Transform(Name("f"))
	require.Error(t, err)
	_, err = tr.Transform(Call(Int(1)))
	require.Error(t, err)
	require.Equal(t, []ErrorKind{NoOverload, ArityMismatch, Overloaded, NotCallable}, kinds(tr)[0:4])

	require.Equal(t, 2, tr.Pending())
	require.NoError(t, tr.Drain())
	require.Equal(t, term.OpName, out.Kids[0].Last().Last().Op, "drained body stored in the declaration")
}

func TestGenerics(t *testing.T) {
	tr := newTransformer(t)
	id := Gen([]*term.Term{GenParam("T", nil)},
		Proc([]*term.Term{Param("x", Name("T"))}, Name("T"), Name("x")))

	res, err := tr.Transform(With([]*term.Term{Bind("id", id)},
		Seq(Call(Name("id"), Int(7)), Call(Name("id"), Int(8)), Call(Name("id"), Str("s")))))
	require.NoError(t, err)
	require.Same(t, term.Str, res.Type)
	calls := res.Value.Kids
	require.Len(t, calls, 3)
	for _, c := range calls {
		require.Equal(t, term.OpCall, c.Op)
		require.Equal(t, term.OpClosure, c.Kids[0].Op)
	}
	require.Same(t, calls[0].Kids[0], calls[1].Kids[0], "instances are memoized")
	require.NotSame(t, calls[0].Kids[0], calls[2].Kids[0])
	require.Zero(t, tr.Pending())

	// T only occurs in the result, so no call can bind it
	_, err = tr.Transform(With([]*term.Term{
		Bind("make", Gen([]*term.Term{GenParam("T", nil)}, Proc(nil, Name("T"), Nil()))),
	}, Int(0)))
	require.Error(t, err)

	num := Gen([]*term.Term{GenParam("N", term.Num.Term())},
		Proc([]*term.Term{Param("x", Name("N"))}, Name("N"), Name("x")))
	_, err = tr.Transform(With([]*term.Term{Bind("num", num)}, Call(Name("num"), Str("s"))))
	require.Error(t, err)
	require.Equal(t, []ErrorKind{UnboundGeneric, NoOverload}, kinds(tr))
}

func TestGenericForms(t *testing.T) {
	tr := newTransformer(t)
	max := Gen([]*term.Term{GenParam("N", term.Num.Term())},
		Form([]*term.Term{Param("a", Name("N")), Param("b", Name("N"))}, Name("N"),
			If(Op(term.OpGt, Name("a"), Name("b")), Name("a"), Name("b"))))

	res, err := tr.Transform(With([]*term.Term{Bind("max", max)}, Call(Name("max"), Int(3), Int(9))))
	require.NoError(t, err)
	requireInt(t, res.Value, 9)

	// literal arguments bind N at their join, whatever their order
	for _, args := range [][]*term.Term{{Int(3), Int(300)}, {Int(300), Int(3)}} {
		res, err = tr.Transform(With([]*term.Term{Bind("max", max)}, Call(Name("max"), args...)))
		require.NoError(t, err)
		requireInt(t, res.Value, 300)
		require.Equal(t, int64(16), res.Type.Int)
	}

	res, err = tr.Transform(With([]*term.Term{Bind("max", max), VarBind("v", TInt(64), Int(0))},
		Call(Name("max"), Int(1), Name("v"))))
	require.NoError(t, err)
	require.Equal(t, term.TypeInt, res.Type.Op)
	require.Equal(t, int64(64), res.Type.Int)
}

func TestVarParameters(t *testing.T) {
	tr := newTransformer(t)
	counter := TVar(TInt(64))
	inc := Form([]*term.Term{Param("x", counter)}, nil, Assign(Name("x"), Add(Name("x"), Int(1))))

	res, err := tr.Transform(With([]*term.Term{VarBind("v", TInt(64), Int(0)), Bind("inc", inc)},
		Seq(Call(Name("inc"), Name("v")), Name("v"))))
	require.NoError(t, err)
	require.Same(t, term.Int64, res.Type)
	require.Equal(t, term.OpWith, res.Value.Op)
	v := res.Value.Kids[0]
	body := res.Value.Last()
	require.Equal(t, term.OpSeq, body.Op)
	assign := body.Kids[0]
	require.Equal(t, term.OpAssign, assign.Op)
	require.Equal(t, term.OpName, assign.Kids[0].Op, "the form assigns the caller's variable")
	require.Equal(t, v.Name, assign.Kids[0].Name)

	// a location reached through a pointer is addressed once
	res, err = tr.Transform(With([]*term.Term{
		VarBind("v", TInt(64), Int(0)),
		Bind("p", Addr(Name("v"))),
		Bind("inc", inc),
	}, Call(Name("inc"), Deref(Name("p")))))
	require.NoError(t, err)
	expanded := res.Value.Last()
	require.Equal(t, term.OpWith, expanded.Op)
	slot := expanded.Kids[0]
	require.NotZero(t, slot.Flags&term.FlagSlot)
	require.Equal(t, term.TypeRef, slot.Kids[0].Op)
	require.Equal(t, term.OpDeref, expanded.Last().Kids[0].Op)

	res, err = tr.Transform(With([]*term.Term{
		VarBind("v", TInt(64), Int(0)),
		Bind("set", Proc([]*term.Term{Param("x", counter)}, nil, Assign(Name("x"), Int(5)))),
	}, Call(Name("set"), Name("v"))))
	require.NoError(t, err)
	call := res.Value.Last()
	require.Equal(t, term.OpCall, call.Op)
	require.Equal(t, term.OpName, call.Kids[1].Op, "the variable is passed unloaded")
	require.Zero(t, tr.Pending())

	_, err = tr.Transform(With([]*term.Term{Bind("inc", inc)}, Call(Name("inc"), Int(1))))
	require.Error(t, err)
	require.Equal(t, []ErrorKind{NoOverload}, kinds(tr))
}

func TestGCRooting(t *testing.T) {
	tr := newTransformer(t)
	ptr := TRef(TInt(64))
	_, err := tr.Declare(
		Bind("alloc", Proc(nil, ptr, Nil())),
		Bind("use", Proc([]*term.Term{Param("p", ptr), Param("q", ptr)}, TInt(64), Int(0))),
	)
	require.NoError(t, err)

	res, err := tr.Transform(Call(Name("use"), Call(Name("alloc")), Call(Name("alloc"))))
	require.NoError(t, err)
	require.Equal(t, term.OpWith, res.Value.Op)
	root := res.Value.Kids[0]
	require.Equal(t, term.OpBind, root.Op)
	require.NotZero(t, root.Flags&term.FlagSlot)
	call := res.Value.Last()
	require.Equal(t, term.OpName, call.Kids[1].Op)
	require.Equal(t, root.Name, call.Kids[1].Name)
	require.Equal(t, term.OpCall, call.Kids[2].Op, "the last argument is not rooted")

	// nothing allocates after a plain name
	res, err = tr.Transform(Call(Name("use"), Call(Name("alloc")), Nil()))
	require.NoError(t, err)
	require.Equal(t, term.OpCall, res.Value.Op)
}

func TestMemory(t *testing.T) {
	tr := newTransformer(t)
	pair := TTuple(Slot("a", TInt(64)), Slot("b", TInt(8)))

	res, err := tr.Transform(Dot(TupleLit(Slot("a", Int(1)), Slot("b", Int(2))), "b"))
	require.NoError(t, err)
	requireInt(t, res.Value, 2)

	res, err = tr.Transform(With([]*term.Term{VarBind("p", pair, TupleLit(Slot("a", Int(1)), Slot("b", Int(2))))},
		Seq(Assign(Dot(Name("p"), "a"), Int(5)), Dot(Name("p"), "a"))))
	require.NoError(t, err)
	require.Same(t, term.Int64, res.Type)

	res, err = tr.Transform(Index(ArrayLit(Int(1), Int(2), Int(300)), Int(2)))
	require.NoError(t, err)
	require.Same(t, term.Int16, res.Type)
	requireInt(t, res.Value, 300)

	_, err = tr.Transform(Index(ArrayLit(Int(1)), Int(1)))
	require.Error(t, err)
	_, err = tr.Transform(Assign(Int(1), Int(2)))
	require.Error(t, err)
	_, err = tr.Transform(ArrayLit())
	require.Error(t, err)
	require.Equal(t, []ErrorKind{TypeViolation, NotAssignable, Unsized}, kinds(tr))

	res, err = tr.Transform(With([]*term.Term{VarBind("v", TInt(32), Int(0))}, Deref(Addr(Name("v")))))
	require.NoError(t, err)
	require.Same(t, term.Int32, res.Type)

	res, err = tr.Transform(Add(SizeOf(pair), AlignOf(pair)))
	require.NoError(t, err)
	requireInt(t, res.Value, 24)
}

func TestAborts(t *testing.T) {
	config := NewConfig()
	config.MaxDepth = 16
	tr := New(config, WithLogger(zaptest.NewLogger(t)))

	deep := Int(1)
	for i := 0; i < 32; i++ {
		deep = Add(deep, Int(1))
	}
	_, err := tr.Transform(deep)
	a, ok := fault.AsAbort(err)
	require.True(t, ok, "%v", err)
	require.Equal(t, fault.DepthExceeded, a.Reason)

	_, err = tr.Transform(Int(1))
	require.Equal(t, ErrAborted, err)

	tr.Reset()
	_, err = tr.Transform(Seq(Version("1"), Int(1)))
	require.NoError(t, err)
	_, err = tr.Transform(Version("2"))
	a, ok = fault.AsAbort(err)
	require.True(t, ok)
	require.Equal(t, fault.VersionMismatch, a.Reason)

	tr.Reset()
	_, err = tr.Transform(If(Int(1), Halt(), Int(0)))
	a, ok = fault.AsAbort(err)
	require.True(t, ok)
	require.Equal(t, fault.Halted, a.Reason)
}

func TestResetDiscardsDeclarations(t *testing.T) {
	tr := newTransformer(t)
	_, err := tr.Declare(Bind("k", Int(4)))
	require.NoError(t, err)
	res, err := tr.Transform(Name("k"))
	require.NoError(t, err)
	requireInt(t, res.Value, 4)

	tr.Reset()
	_, err = tr.Transform(Name("k"))
	require.Error(t, err)
	require.Equal(t, []ErrorKind{Undeclared}, kinds(tr))
}
