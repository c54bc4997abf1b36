// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package join

import (
	"fmt"
	"math/bits"
)

// slotState is the per-slot lifecycle shared by all combinator policies.
//
//	Running --PollReady done--> Finished
//	Running --policy trigger--> CancelRequested
//	CancelRequested --PollCancel done--> Cancelled
//
// Finished and Cancelled are terminal. A group yields its result only once
// every slot is terminal: an operation that has not reached a terminal state
// may still hold an in-flight external effect and must keep being driven.
type slotState uint8

const (
	slotRunning slotState = iota
	slotFinished
	slotCancelRequested
	slotCancelled
)

// policyKind selects the completion decision applied after each finish.
type policyKind uint8

const (
	policyZip policyKind = iota
	policyTryZip
	policyRace
	policyRaceOk
)

// anyOp is the type-erased operation a slot drives. Typed combinator
// constructors wrap their legs in erasers; outputs are recovered by type
// assertion during result assembly.
type anyOp interface {
	pollReady(w Waker) (any, bool)
	pollCancel(w Waker) bool
}

// eraser adapts a typed Op to the group's erased contract.
type eraser[T any] struct {
	op Op[T]
}

func (e eraser[T]) pollReady(w Waker) (any, bool) {
	v, ok := e.op.PollReady(w)
	if !ok {
		return nil, false
	}
	return v, true
}

func (e eraser[T]) pollCancel(w Waker) bool {
	return e.op.PollCancel(w)
}

// slot is one operation plus its join-local bookkeeping. Slots live in a
// single group-owned array; no reference to an individual slot escapes the
// group, so the driver step currently executing is the only thread of
// control that ever calls into its operation.
type slot struct {
	op    anyOp
	waker slotWaker
	state slotState
	out   any
}

// classifier splits a finished output into a success or an error value.
// The slot index disambiguates output types for heterogeneous fixed-arity
// groups. Nil for zip/race, which treat every output as a plain success.
type classifier func(i int, out any) (ok any, errv any, isErr bool)

// group is the join driver shared by all four combinator flavors: a fixed
// ordered set of slots, the wake dispatch table, and the active policy.
// The group exclusively owns its operations from construction until every
// slot is terminal.
type group struct {
	serial       uint32
	wakes        wakeSet
	slots        []slot
	classify     classifier
	kind         policyKind
	pending      int
	winner       int
	errVal       any
	triggered    bool
	cancelled    bool
	cancelIssued bool
	asserted     bool
}

func newGroup(ops []anyOp, kind policyKind, classify classifier) *group {
	g := &group{
		serial:   nextSerial(),
		slots:    make([]slot, len(ops)),
		classify: classify,
		kind:     kind,
		pending:  len(ops),
		winner:   -1,
	}
	g.wakes.init(len(ops))
	for i, op := range ops {
		g.slots[i] = slot{
			op:    op,
			waker: slotWaker{set: &g.wakes, index: i},
		}
	}
	return g
}

// step runs one driver pass: publish the executor waker, drain the wake
// table, and poll each due slot in increasing index order. Returns true once
// every slot is terminal. Slots whose pending-wake bit is clear are skipped
// entirely: per-wakeup work is proportional to the wakes delivered, not to
// the group arity.
func (g *group) step(w Waker) bool {
	if g.pending == 0 {
		g.assertTerminal()
		return true
	}
	g.wakes.publish(w)
	for {
		g.cancelIssued = false
		for wi := range g.wakes.words {
			due := g.wakes.drain(wi)
			for due != 0 {
				i := wi<<6 + bits.TrailingZeros64(due)
				due &= due - 1
				g.pollSlot(i)
			}
		}
		if g.pending == 0 {
			g.assertTerminal()
			return true
		}
		if !g.cancelIssued {
			return false
		}
		// A policy trigger converted Running slots to CancelRequested during
		// this pass; drain once more so each receives its first cancel poll
		// within the step that decided its fate. A trigger fires at most once
		// per group, so this cannot loop.
	}
}

// pollSlot advances one due slot through its state machine. Finishing a slot
// hands the output to the active policy, which may trigger group completion
// and convert the remaining Running slots to CancelRequested.
func (g *group) pollSlot(i int) {
	s := &g.slots[i]
	switch s.state {
	case slotRunning:
		out, ok := s.op.pollReady(&s.waker)
		if !ok {
			return
		}
		s.state = slotFinished
		g.pending--
		g.onFinish(i, out)
	case slotCancelRequested:
		if s.op.pollCancel(&s.waker) {
			s.state = slotCancelled
			g.pending--
		}
	}
}

// onFinish applies the active policy to a freshly finished slot. Due slots
// are visited in index order, so the first finish (or first classified
// error) observed in a step is the lowest-indexed one: race-style ties break
// toward the lower index, and try_zip reports the lowest-indexed error among
// the slots that finished in the triggering step.
func (g *group) onFinish(i int, out any) {
	s := &g.slots[i]
	switch g.kind {
	case policyZip:
		s.out = out
	case policyTryZip:
		okv, errv, isErr := g.classify(i, out)
		if !isErr {
			s.out = okv
			return
		}
		if !g.triggered {
			g.triggered = true
			g.errVal = errv
			g.cancelRest()
		}
	case policyRace:
		if !g.triggered {
			g.triggered = true
			g.winner = i
			s.out = out
			g.cancelRest()
		}
	case policyRaceOk:
		okv, errv, isErr := g.classify(i, out)
		if isErr {
			s.out = errv
			return
		}
		if !g.triggered {
			g.triggered = true
			g.winner = i
			s.out = okv
			g.cancelRest()
		}
	}
}

// cancelRest converts every Running slot to CancelRequested and marks it due,
// waking the executor: the losing legs of a race, or the remaining legs after
// a fail-fast error. Each must be driven to Cancelled, over this and
// subsequent steps, before the group is allowed to yield its result.
// Finished slots stay Finished; an unused output is simply never read.
func (g *group) cancelRest() {
	g.cancelIssued = true
	for i := range g.slots {
		s := &g.slots[i]
		if s.state != slotRunning {
			continue
		}
		s.state = slotCancelRequested
		s.waker.Wake()
	}
}

// cancel drives whole-group cooperative teardown: every non-terminal slot
// receives a cancel request and the same step loop runs until all slots are
// terminal. Group cancellation is a drained, observable process, never a
// hard abort. Returns true once the group may be discarded.
func (g *group) cancel(w Waker) bool {
	if !g.cancelled {
		g.cancelled = true
		g.triggered = true
		g.cancelRest()
	}
	return g.step(w)
}

// assertTerminal guards result production: releasing a group with a slot
// still Running or CancelRequested would discard an operation that may hold
// an in-flight external effect.
func (g *group) assertTerminal() {
	if g.asserted {
		return
	}
	for i := range g.slots {
		if s := g.slots[i].state; s != slotFinished && s != slotCancelled {
			panic(fmt.Sprintf("join: group %d completed with slot %d non-terminal", g.serial, i))
		}
	}
	g.asserted = true
}

// unerase recovers a typed leg output from its erased slot value. A leg with
// an interface output may finish with a nil value, which the eraser boxes to
// a nil any; a plain assertion would panic there, and the zero value is
// exactly the nil interface the leg produced.
func unerase[T any](v any) T {
	t, _ := v.(T)
	return t
}

func eraseAll[T any](ops []Op[T]) []anyOp {
	erased := make([]anyOp, len(ops))
	for i, op := range ops {
		erased[i] = eraser[T]{op: op}
	}
	return erased
}
