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
	"os"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wdamron/lower/fault"
	"github.com/wdamron/lower/layer"
	"github.com/wdamron/lower/logger"
	"github.com/wdamron/lower/subtype"
	"github.com/wdamron/lower/term"
	"github.com/wdamron/lower/types"
)

// ErrAborted is returned by a session which aborted and was not reset.
var ErrAborted = errors.New("session aborted; reset before reuse")

// Result is a transformed term together with its synthesized type.
type Result struct {
	Type  *term.Term
	Value *term.Term
}

// closure is a procedure whose body is waiting to be transformed.
type closure struct {
	layer  *layer.Layer
	src    *term.Term
	typ    *term.Term
	params []term.Name
	// proc is the emitted procedure; its final kid is replaced by the transformed body
	proc *term.Term
}

// Transformer is one transformation session. It is not safe for concurrent use; every piece of
// engine state (the layer chains, the obligation and pair stacks, the closure queue) is owned by
// the session and mutated in strict LIFO order.
type Transformer struct {
	config   Config
	log      *zap.Logger
	names    *term.Interner
	reporter Reporter
	sizes    types.SizeOracle

	depth    *fault.Depth
	sub      *subtype.Context
	grounder types.Grounder

	prelude *layer.Layer
	global  *layer.Layer
	queue   []*closure
	// captured marks layers referenced by a form, generic or closure
	captured map[*layer.Layer]bool

	// call is the innermost call being transformed, for diagnostic attribution
	call *term.Term

	diags   []Diagnostic
	aborted bool
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithLogger sets the logger receiving traces and abort reports.
func WithLogger(log *zap.Logger) Option { return func(t *Transformer) { t.log = log } }

// WithReporter forwards each diagnostic to r as it is found.
func WithReporter(r Reporter) Option { return func(t *Transformer) { t.reporter = r } }

// WithSizes replaces the size oracle.
func WithSizes(s types.SizeOracle) Option { return func(t *Transformer) { t.sizes = s } }

// WithInterner sets the interner issuing stub names.
func WithInterner(in *term.Interner) Option { return func(t *Transformer) { t.names = in } }

// New creates a session.
func New(config Config, opts ...Option) *Transformer {
	t := &Transformer{config: config}
	for _, opt := range opts {
		opt(t)
	}
	switch {
	case t.log != nil:
	case config.Trace:
		t.log = logger.NewWithConfig(os.Stderr, config.Logging)
	default:
		t.log = zap.NewNop()
	}
	if t.names == nil {
		t.names = term.Default()
	}
	if t.sizes == nil {
		t.sizes = types.DefaultSizes{PointerSize: config.PointerSize}
	}
	if t.config.Version == "" {
		t.config.Version = DefaultVersion
	}
	t.depth = fault.NewDepth(config.MaxDepth)
	t.grounder.Depth = t.depth
	t.Reset()
	return t
}

// Reset discards every declaration, queued closure and diagnostic, and clears an abort.
func (t *Transformer) Reset() {
	t.prelude = newPrelude(t.names)
	t.global = layer.Push(t.prelude, layer.Declaration)
	t.queue = nil
	t.captured = make(map[*layer.Layer]bool)
	t.call = nil
	t.diags = nil
	t.aborted = false
	t.depth.Reset()
	t.sub = subtype.NewContext(t.depth)
	if t.config.Trace {
		t.sub.Trace = t.log.Named("subtype")
	}
}

// Config returns the session configuration.
func (t *Transformer) Config() Config { return t.config }

// Diagnostics returns every diagnostic reported since the last reset.
func (t *Transformer) Diagnostics() []Diagnostic { return t.diags }

// Err combines every diagnostic reported since the last reset, or returns nil.
func (t *Transformer) Err() error { return combine(t.diags) }

// Transform rewrites one expression under the declaration layer. The returned error combines the
// diagnostics found while transforming it and, if the transformation aborted, the abort.
func (t *Transformer) Transform(e *term.Term) (Result, error) {
	var res Result
	err := t.run(func() {
		res.Type, res.Value = t.transform(t.global, e)
	})
	return res, err
}

// Declare transforms top-level bindings into the persistent declaration layer, returning the
// emitted bindings as a sequence. Procedure bodies stay queued until Drain.
func (t *Transformer) Declare(binds ...*term.Term) (*term.Term, error) {
	var out *term.Term
	err := t.run(func() {
		emitted := t.declare(t.global, binds)
		switch len(emitted) {
		case 0:
			out = term.Skip
		case 1:
			out = emitted[0]
		default:
			out = term.New(term.OpSeq, emitted...)
		}
	})
	return out, err
}

// Drain transforms every queued procedure body, including bodies queued while draining.
func (t *Transformer) Drain() error {
	return t.run(func() { t.drain(0) })
}

// Pending returns the number of procedure bodies waiting to be transformed.
func (t *Transformer) Pending() int { return len(t.queue) }

func (t *Transformer) run(f func()) error {
	if t.aborted {
		return ErrAborted
	}
	mark := len(t.diags)
	err := fault.Catch(f)
	if err != nil {
		t.aborted = true
		a, _ := fault.AsAbort(err)
		t.log.Warn("transformation aborted",
			zap.Stringer("reason", a.Reason),
			zap.String("detail", a.Detail),
			zap.Int("depth", t.depth.Peak()),
			zap.Int("diagnostics", len(t.diags)))
	}
	return multierr.Append(err, combine(t.diags[mark:]))
}

// report records a diagnostic against e and returns the error-recovery type and value.
func (t *Transformer) report(kind ErrorKind, e *term.Term) (*term.Term, *term.Term) {
	d := Diagnostic{Kind: kind, Term: e, Call: t.call}
	t.diags = append(t.diags, d)
	if t.reporter != nil {
		t.reporter.Report(d)
	}
	if t.config.Trace {
		t.log.Debug("diagnostic", zap.Stringer("kind", kind), zap.Stringer("term", e))
	}
	return bad, bad
}

// bad is the neutral error-recovery type and value. Rules receiving it propagate it without
// reporting again.
var bad = &term.Term{Op: term.OpInvalid}

func isBad(ts ...*term.Term) bool {
	for _, t := range ts {
		if t == bad {
			return true
		}
	}
	return false
}

// stub issues a fresh emitted name derived from n.
func (t *Transformer) stub(n term.Name) term.Name {
	if n.IsNone() {
		return t.names.Stub("t")
	}
	return t.names.Stub(n.String())
}

// transform dispatches on the selector of e, returning its type and rewritten value.
func (t *Transformer) transform(l *layer.Layer, e *term.Term) (*term.Term, *term.Term) {
	if e == nil {
		fault.Invariant("transform: missing term")
	}
	t.depth.Enter()
	defer t.depth.Leave()
	if t.config.Trace {
		t.log.Debug("transform", zap.Stringer("op", e.Op), zap.Int("depth", t.depth.Level()))
	}

	if e.IsType() {
		ty := t.resolveType(l, e)
		if isBad(ty) {
			return bad, bad
		}
		return term.TypeOf(ty), ty
	}

	switch e.Op {
	case term.OpInt, term.OpReal, term.OpStr, term.OpNil, term.OpSkip:
		return t.literal(e)
	case term.OpName:
		return t.name(l, e)

	case term.OpAdd, term.OpSub, term.OpMul, term.OpDiv, term.OpMod,
		term.OpBitAnd, term.OpBitOr, term.OpBitXor, term.OpShl, term.OpShr:
		return t.arith(l, e)
	case term.OpEq, term.OpNe, term.OpLt, term.OpLe, term.OpGt, term.OpGe:
		return t.compare(l, e)
	case term.OpNeg, term.OpBitNot, term.OpNot:
		return t.unary(l, e)
	case term.OpAnd, term.OpOr:
		return t.logical(l, e)

	case term.OpIf:
		return t.ifElse(l, e)
	case term.OpWhile:
		return t.while(l, e)
	case term.OpCase:
		return t.caseOf(l, e)
	case term.OpSeq:
		return t.seq(l, e)
	case term.OpWith:
		return t.with(l, e)

	case term.OpAssign:
		return t.assign(l, e)
	case term.OpLoad:
		return t.load(l, e)
	case term.OpAddr:
		return t.addr(l, e)
	case term.OpDeref:
		return t.deref(l, e)
	case term.OpIndex:
		return t.index(l, e)
	case term.OpDot:
		return t.dot(l, e)
	case term.OpTupleLit:
		return t.tupleLit(l, e)
	case term.OpArrayLit:
		return t.arrayLit(l, e)
	case term.OpConvert:
		return t.convert(l, e, e.Kid(0), e.Kid(1))
	case term.OpSizeOf, term.OpAlignOf:
		return t.sizeOf(l, e)

	case term.OpProc:
		return t.proc(l, e)
	case term.OpForm:
		ent := t.form(l, e)
		return ent.typ, term.Skip
	case term.OpGen:
		ent := t.gen(l, e, term.NoName)
		if ent == nil {
			return bad, bad
		}
		return ent.typ, term.Skip
	case term.OpCall:
		return t.callTerm(l, e)
	case term.OpClosure:
		// already transformed
		return e.Type, e

	case term.OpHalt:
		fault.Throw(fault.Halted, "")
	case term.OpVersion:
		if e.Str != t.config.Version {
			fault.Throw(fault.VersionMismatch, "want "+t.config.Version+", have "+e.Str)
		}
		return term.Void, term.Skip

	case term.OpBind:
		return t.report(TypeViolation, e)
	}
	fault.Invariant("transform: unexpected %s term", e.Op)
	return nil, nil
}

// drain transforms queued closures from index mark onward, then truncates the queue to mark.
func (t *Transformer) drain(mark int) {
	for i := mark; i < len(t.queue); i++ {
		t.closureBody(t.queue[i])
	}
	for i := mark; i < len(t.queue); i++ {
		t.queue[i] = nil
	}
	t.queue = t.queue[:mark]
}
