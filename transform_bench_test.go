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

	. "github.com/wdamron/lower"
	. "github.com/wdamron/lower/construct"

	"github.com/wdamron/lower/term"
)

func BenchmarkMutuallyRecursiveWith(b *testing.B) {
	tr := New(NewConfig())
	x := []*term.Term{Param("x", TInt(64))}

	expr := With([]*term.Term{
		Bind("even", Proc(x, TInt(8), If(Op(term.OpEq, Name("x"), Int(0)), Int(1), Call(Name("odd"), Sub(Name("x"), Int(1)))))),
		Bind("odd", Proc(x, TInt(8), If(Op(term.OpEq, Name("x"), Int(0)), Int(0), Call(Name("even"), Sub(Name("x"), Int(1)))))),
		Bind("limit", Add(Int(40), Int(2))),
	}, Call(Name("even"), Name("limit")))

	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		res, err := tr.Transform(expr)
		if err != nil || res.Type == nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkGenericInstances(b *testing.B) {
	tr := New(NewConfig())
	id := Gen([]*term.Term{GenParam("T", nil)},
		Proc([]*term.Term{Param("x", Name("T"))}, Name("T"), Name("x")))

	expr := With([]*term.Term{Bind("id", id)},
		Seq(Call(Name("id"), Int(1)), Call(Name("id"), Str("s")), Call(Name("id"), Int(2))))

	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		res, err := tr.Transform(expr)
		if err != nil || res.Type == nil {
			b.Fatal(err)
		}
	}
}
