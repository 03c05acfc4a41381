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
	"github.com/wdamron/lower/layer"
	"github.com/wdamron/lower/term"
)

// predeclared types, visible in every session
var preludeTypes = []*term.Term{
	term.Void, term.Null, term.Str,
	term.Int8, term.Int16, term.Int32, term.Int64,
	term.Word8, term.Word16, term.Word32, term.Word64,
	term.Real32, term.Real64,
}

// newPrelude creates the outermost declaration layer holding the predeclared types, jokers and
// truth values, named through in.
func newPrelude(in *term.Interner) *layer.Layer {
	l := layer.Push(nil, layer.Declaration)
	declareType := func(name string, ty *term.Term) {
		l.Set(in.Intern(name), layer.Value, &entity{kind: entConst, typ: term.TypeOf(ty), value: ty})
	}
	for _, ty := range preludeTypes {
		declareType(term.String(ty), ty)
	}
	for _, j := range term.Jokers {
		declareType(j.Name, j.Term())
	}
	declareType("int", term.Int64)
	declareType("word", term.Word64)
	declareType("real", term.Real64)

	for name, v := range map[string]int64{"false": 0, "true": 1} {
		lit := term.IntLit(v, term.Int8)
		l.Set(in.Intern(name), layer.Value, &entity{kind: entConst, typ: term.Int8, value: lit})
	}
	return l
}
