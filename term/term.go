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

// Op selects the operation (or type constructor) of a term.
type Op uint8

// Type constructors.
const (
	OpInvalid Op = iota

	TypeVoid   // `void`
	TypeNull   // `null`, the type of nil
	TypeInt    // signed integer, Int holds the width in bits
	TypeWord   // unsigned integer, Int holds the width in bits
	TypeReal   // floating point, Int holds the width in bits
	TypeStr    // `string`
	TypeRef    // `ref T`
	TypeRow    // `row T`, a pointer supporting arithmetic and indexing
	TypeVar    // `var T`, a mutable location
	TypeArray  // `array(n) T`, Int holds the length
	TypeTuple  // `tuple(a: T, b: U)`, kids are Slot terms
	TypeProc   // `proc(a: T) U`, kids are Param terms followed by the result
	TypeForm   // `form(a: T) U`, kids are Param terms followed by the result
	TypeGen    // `gen(T: J) B`, kids are GenParam terms followed by the body type
	TypeType   // `type T`, the type of a type-valued expression
	TypeSkolem // opaque placeholder for a generic name; Kids[0] is its bound
	TypeJoker  // structural type-class, see Joker
	TypeHole   // placeholder patched in place while a recursive type is declared

	typeLimit
)

// Expressions.
const (
	OpInt  Op = iota + typeLimit // integer literal
	OpReal                       // real literal
	OpStr                        // string literal
	OpNil                        // nil pointer
	OpSkip                       // the void value
	OpName                       // reference to a name

	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNeg
	OpBitAnd
	OpBitOr
	OpBitXor
	OpBitNot
	OpShl
	OpShr
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
	OpNot

	OpIf
	OpWhile
	OpCase
	OpArm
	OpSeq
	OpWith
	OpBind

	OpAssign
	OpLoad
	OpAddr
	OpDeref
	OpIndex
	OpDot
	OpTupleLit
	OpArrayLit
	OpConvert
	OpSizeOf
	OpAlignOf

	OpProc
	OpForm
	OpGen
	OpGenParam
	OpParam
	OpSlot
	OpCall
	OpClosure // a transformed proc value; Kids[0] is the Proc term, Type its proc type

	OpHalt
	OpVersion

	opLimit
)

// Flags annotate bindings and literals.
type Flags uint8

const (
	// FlagVar marks a Bind term declaring a mutable variable.
	FlagVar Flags = 1 << iota
	// FlagSlot marks an emitted binding stored where the collector can find it.
	FlagSlot
	// FlagExplicit marks a literal whose type was fixed by a conversion rather than inferred.
	FlagExplicit
)

// Pos is an opaque source position assigned by the parser.
type Pos int32

// NoPos is the zero position.
const NoPos Pos = 0

// Term is the uniform node for programs and types. Terms may be shared and may be cyclic.
type Term struct {
	Op    Op
	Flags Flags
	Pos   Pos
	Name  Name
	Int   int64
	Real  float64
	Str   string
	// Type is the type of a literal.
	Type  *Term
	Joker *Joker
	Kids  []*Term
}

// New creates a term with the given selector and children.
func New(op Op, kids ...*Term) *Term { return &Term{Op: op, Kids: kids} }

// IsType reports whether t denotes a type constructor.
func (t *Term) IsType() bool { return t != nil && t.Op > OpInvalid && t.Op < typeLimit }

// IsLiteral reports whether t is a compile-time literal value.
func (t *Term) IsLiteral() bool {
	if t == nil {
		return false
	}
	switch t.Op {
	case OpInt, OpReal, OpStr, OpNil:
		return true
	}
	return false
}

// IsPointer reports whether t is a pointer constructor.
func (t *Term) IsPointer() bool { return t != nil && (t.Op == TypeRef || t.Op == TypeRow) }

// IsExe reports whether t is an executable type.
func (t *Term) IsExe() bool {
	return t != nil && (t.Op == TypeProc || t.Op == TypeForm || t.Op == TypeGen)
}

// Kid returns the i'th child of t, or nil if there is none.
func (t *Term) Kid(i int) *Term {
	if i < 0 || i >= len(t.Kids) {
		return nil
	}
	return t.Kids[i]
}

// Last returns the final child of t.
func (t *Term) Last() *Term { return t.Kid(len(t.Kids) - 1) }

// Init returns every child of t except the final one.
func (t *Term) Init() []*Term {
	if len(t.Kids) == 0 {
		return nil
	}
	return t.Kids[:len(t.Kids)-1]
}

// Base returns the element type of a ref, row, var, array or type type.
func (t *Term) Base() *Term { return t.Kid(0) }

// Params returns the Param terms of a proc or form type, or the GenParam terms of a gen type.
func (t *Term) Params() []*Term { return t.Init() }

// Result returns the result type of a proc or form type, or the body of a gen type.
func (t *Term) Result() *Term { return t.Last() }

// Bound returns the bound of a GenParam or Skolem term.
func (t *Term) Bound() *Term { return t.Kid(0) }

// Shallow returns a copy of t sharing its children.
func (t *Term) Shallow() *Term {
	c := *t
	if t.Kids != nil {
		c.Kids = make([]*Term, len(t.Kids))
		copy(c.Kids, t.Kids)
	}
	return &c
}

// At sets the source position of t and returns t.
func (t *Term) At(pos Pos) *Term {
	t.Pos = pos
	return t
}

// TermSet is a visited-set keyed by node identity.
type TermSet map[*Term]struct{}

// Add inserts t, reporting false if t was already present.
func (s TermSet) Add(t *Term) bool {
	if _, ok := s[t]; ok {
		return false
	}
	s[t] = struct{}{}
	return true
}

// Has reports whether t is present.
func (s TermSet) Has(t *Term) bool {
	_, ok := s[t]
	return ok
}

// Remove deletes t.
func (s TermSet) Remove(t *Term) { delete(s, t) }
