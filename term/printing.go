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
	"strings"
	"sync"
)

var opNames = [...]string{
	OpInvalid:  "invalid",
	TypeVoid:   "void",
	TypeNull:   "null",
	TypeInt:    "int",
	TypeWord:   "word",
	TypeReal:   "real",
	TypeStr:    "string",
	TypeRef:    "ref",
	TypeRow:    "row",
	TypeVar:    "var",
	TypeArray:  "array",
	TypeTuple:  "tuple",
	TypeProc:   "proc",
	TypeForm:   "form",
	TypeGen:    "gen",
	TypeType:   "type",
	TypeSkolem: "skolem",
	TypeJoker:  "joker",
	TypeHole:   "hole",
	OpInt:      "int-literal",
	OpReal:     "real-literal",
	OpStr:      "string-literal",
	OpNil:      "nil",
	OpSkip:     "skip",
	OpName:     "name",
	OpAdd:      "+",
	OpSub:      "-",
	OpMul:      "*",
	OpDiv:      "/",
	OpMod:      "mod",
	OpNeg:      "neg",
	OpBitAnd:   "&",
	OpBitOr:    "|",
	OpBitXor:   "^",
	OpBitNot:   "~",
	OpShl:      "<<",
	OpShr:      ">>",
	OpEq:       "=",
	OpNe:       "<>",
	OpLt:       "<",
	OpLe:       "<=",
	OpGt:       ">",
	OpGe:       ">=",
	OpAnd:      "and",
	OpOr:       "or",
	OpNot:      "not",
	OpIf:       "if",
	OpWhile:    "while",
	OpCase:     "case",
	OpArm:      "arm",
	OpSeq:      "seq",
	OpWith:     "with",
	OpBind:     "bind",
	OpAssign:   ":=",
	OpLoad:     "load",
	OpAddr:     "addr",
	OpDeref:    "deref",
	OpIndex:    "index",
	OpDot:      "dot",
	OpTupleLit: "tuple-literal",
	OpArrayLit: "array-literal",
	OpConvert:  "convert",
	OpSizeOf:   "size",
	OpAlignOf:  "align",
	OpProc:     "proc",
	OpForm:     "form",
	OpGen:      "gen",
	OpGenParam: "gen-param",
	OpParam:    "param",
	OpSlot:     "slot",
	OpCall:     "call",
	OpClosure:  "closure",
	OpHalt:     "halt",
	OpVersion:  "version",
}

// String returns the printed name of op.
func (op Op) String() string {
	if int(op) < len(opNames) && opNames[op] != "" {
		return opNames[op]
	}
	return "op" + strconv.Itoa(int(op))
}

type printer struct {
	sb     strings.Builder
	onPath TermSet
}

var printerPool = sync.Pool{
	New: func() interface{} {
		return &printer{onPath: make(TermSet, 16)}
	},
}

func newPrinter() *printer { return printerPool.Get().(*printer) }

func (p *printer) Release() {
	for k := range p.onPath {
		delete(p.onPath, k)
	}
	p.sb.Reset()
	printerPool.Put(p)
}

// String returns a string representation of a term. Types print in declaration syntax and
// expressions print as S-expressions. A node revisited along its own path prints as `...`.
func String(t *Term) string {
	p := newPrinter()
	p.print(t)
	s := p.sb.String()
	p.Release()
	return s
}

// String returns a string representation of t.
func (t *Term) String() string { return String(t) }

func (p *printer) print(t *Term) {
	if t == nil {
		p.sb.WriteString("_")
		return
	}
	if !p.onPath.Add(t) {
		p.sb.WriteString("...")
		return
	}
	if t.IsType() {
		p.printType(t)
	} else {
		p.printExpr(t)
	}
	p.onPath.Remove(t)
}

func (p *printer) width(prefix string, w int64) {
	p.sb.WriteString(prefix)
	p.sb.WriteString(strconv.FormatInt(w, 10))
}

func (p *printer) named(n Name, t *Term) {
	if !n.IsNone() {
		p.sb.WriteString(n.String())
		p.sb.WriteString(": ")
	}
	p.print(t)
}

func (p *printer) printType(t *Term) {
	sb := &p.sb
	switch t.Op {
	case TypeVoid, TypeNull, TypeStr:
		sb.WriteString(t.Op.String())
	case TypeInt, TypeWord, TypeReal:
		p.width(t.Op.String(), t.Int)
	case TypeRef, TypeRow, TypeVar, TypeType:
		sb.WriteString(t.Op.String())
		sb.WriteByte(' ')
		p.print(t.Base())
	case TypeArray:
		p.width("array(", t.Int)
		sb.WriteString(") ")
		p.print(t.Base())
	case TypeTuple:
		sb.WriteString("tuple(")
		for i, slot := range t.Kids {
			if i > 0 {
				sb.WriteString(", ")
			}
			p.named(slot.Name, slot.Kid(0))
		}
		sb.WriteByte(')')
	case TypeProc, TypeForm, TypeGen:
		sb.WriteString(t.Op.String())
		sb.WriteByte('(')
		for i, param := range t.Params() {
			if i > 0 {
				sb.WriteString(", ")
			}
			p.named(param.Name, param.Kid(0))
		}
		sb.WriteString(") ")
		p.print(t.Result())
	case TypeSkolem:
		sb.WriteByte('$')
		sb.WriteString(t.Name.String())
	case TypeJoker:
		sb.WriteString(t.Joker.Name)
	case TypeHole:
		sb.WriteByte('?')
		sb.WriteString(t.Name.String())
	default:
		sb.WriteString(t.Op.String())
	}
}

func (p *printer) printExpr(t *Term) {
	sb := &p.sb
	switch t.Op {
	case OpInt:
		sb.WriteString(strconv.FormatInt(t.Int, 10))
		return
	case OpReal:
		s := strconv.FormatFloat(t.Real, 'g', -1, 64)
		sb.WriteString(s)
		if !strings.ContainsAny(s, ".eEIN") {
			sb.WriteString(".0")
		}
		return
	case OpStr:
		sb.WriteString(strconv.Quote(t.Str))
		return
	case OpNil, OpSkip, OpHalt:
		sb.WriteString(t.Op.String())
		return
	case OpName:
		sb.WriteString(t.Name.String())
		return
	}
	sb.WriteByte('(')
	sb.WriteString(t.Op.String())
	switch t.Op {
	case OpVersion:
		sb.WriteByte(' ')
		sb.WriteString(strconv.Quote(t.Str))
	case OpBind:
		if t.Flags&FlagVar != 0 {
			sb.WriteString(" var")
		}
		if t.Flags&FlagSlot != 0 {
			sb.WriteString(" slot")
		}
		sb.WriteByte(' ')
		sb.WriteString(t.Name.String())
	case OpDot, OpParam, OpSlot, OpGenParam, OpProc:
		if !t.Name.IsNone() {
			sb.WriteByte(' ')
			sb.WriteString(t.Name.String())
		}
	}
	for _, kid := range t.Kids {
		sb.WriteByte(' ')
		p.print(kid)
	}
	sb.WriteByte(')')
}
