// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package join

import (
	"code.hybscloud.com/kont"
)

// MustComplete wraps op so cancellation requests are ignored: a cancel poll
// keeps driving the operation toward its natural result and acknowledges
// only once that result is reached (the output is discarded).
func MustComplete[T any](op Op[T]) Op[T] {
	return mustCompleteOp[T]{op: op}
}

type mustCompleteOp[T any] struct {
	op Op[T]
}

func (m mustCompleteOp[T]) PollReady(w Waker) (T, bool) {
	return m.op.PollReady(w)
}

func (m mustCompleteOp[T]) PollCancel(w Waker) bool {
	_, ok := m.op.PollReady(w)
	return ok
}

// NowOrNever yields Right(output) if op finishes on the very first poll, and
// otherwise switches to the cancel handshake, yielding Left once the
// operation has quiesced. Fire-and-peek without ever blocking on readiness.
func NowOrNever[T any](op Op[T]) Op[kont.Either[struct{}, T]] {
	return &nowOrNeverOp[T]{op: op}
}

type nowOrNeverOp[T any] struct {
	op         Op[T]
	cancelling bool
}

func (n *nowOrNeverOp[T]) PollReady(w Waker) (kont.Either[struct{}, T], bool) {
	if !n.cancelling {
		if v, ok := n.op.PollReady(w); ok {
			return kont.Right[struct{}, T](v), true
		}
		n.cancelling = true
	}
	if n.op.PollCancel(w) {
		return kont.Left[struct{}, T](struct{}{}), true
	}
	var zero kont.Either[struct{}, T]
	return zero, false
}

func (n *nowOrNeverOp[T]) PollCancel(w Waker) bool {
	n.cancelling = true
	return n.op.PollCancel(w)
}

// Catch isolates a panic inside op's polls, converting it into a terminal
// Left result carrying the panic value instead of propagating it past the
// join driver. Sibling slots in the same group are then still driven to
// terminal states. A panic during the cancel handshake counts as cancelled:
// a leg that cannot even unwind cleanly has nothing left to drain.
func Catch[T any](op Op[T]) Op[kont.Either[any, T]] {
	return catchOp[T]{op: op}
}

type catchOp[T any] struct {
	op Op[T]
}

func (c catchOp[T]) PollReady(w Waker) (res kont.Either[any, T], done bool) {
	defer func() {
		if r := recover(); r != nil {
			res = kont.Left[any, T](r)
			done = true
		}
	}()
	v, ok := c.op.PollReady(w)
	if !ok {
		return res, false
	}
	return kont.Right[any, T](v), true
}

func (c catchOp[T]) PollCancel(w Waker) (done bool) {
	defer func() {
		if recover() != nil {
			done = true
		}
	}()
	return c.op.PollCancel(w)
}
