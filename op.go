// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package join

import (
	"code.hybscloud.com/iox"
)

// Waker re-arms the completion notification for one operation. A pending
// operation stores the token and invokes Wake exactly once when it can make
// progress again; delivery may happen from any goroutine. Waker values must
// be comparable.
type Waker interface {
	Wake()
}

// Op is a completion operation: a unit of asynchronous work advanced by
// repeated single-step polling.
//
// PollReady advances the operation one step. It returns (output, true) when
// the operation reached its natural result, or (zero, false) when pending.
// Before returning pending the operation must arrange exactly one future wake
// for w: no wake, no progress. This liveness contract is assumed, not
// enforced: an operation that returns pending without arranging a wake stalls
// its group.
//
// PollCancel requests cooperative teardown. It returns true once the
// operation has quiesced any in-flight external effect and may be discarded.
// Calling PollCancel on an operation that already finished independently is
// permitted and returns true immediately. After the first PollCancel the
// caller must not call PollReady again.
//
// An Op is owned by a single driver: at most one goroutine calls into it at
// any time.
type Op[T any] interface {
	PollReady(w Waker) (T, bool)
	PollCancel(w Waker) bool
}

// readyOp completes immediately with a fixed value.
type readyOp[T any] struct {
	v T
}

// Ready returns an operation that completes on its first poll with v.
func Ready[T any](v T) Op[T] {
	return readyOp[T]{v: v}
}

func (o readyOp[T]) PollReady(Waker) (T, bool) {
	return o.v, true
}

func (o readyOp[T]) PollCancel(Waker) bool {
	return true
}

// neverOp never completes and cancels instantly.
type neverOp[T any] struct{}

// Never returns an operation that never reaches a natural result. It arranges
// no wake (it genuinely cannot progress) and acknowledges cancellation
// immediately; it only terminates through the cancel path.
func Never[T any]() Op[T] {
	return neverOp[T]{}
}

func (neverOp[T]) PollReady(Waker) (T, bool) {
	var zero T
	return zero, false
}

func (neverOp[T]) PollCancel(Waker) bool {
	return true
}

// Func adapts a non-blocking poll function into an operation. f returns
// (v, nil) on completion or a wouldblock-classified error while it cannot
// progress; any other error is a contract violation and panics. The adapter
// re-arms by waking its own token, so a blocking executor applies adaptive
// backoff between attempts. Cancellation is immediate: a poll function holds
// no in-flight effect between calls.
func Func[T any](f func() (T, error)) Op[T] {
	return funcOp[T]{f: f}
}

type funcOp[T any] struct {
	f func() (T, error)
}

func (o funcOp[T]) PollReady(w Waker) (T, bool) {
	v, err := o.f()
	if err == nil {
		return v, true
	}
	if !iox.IsWouldBlock(err) {
		panic("join: poll function returned a non-wouldblock error")
	}
	w.Wake()
	var zero T
	return zero, false
}

func (o funcOp[T]) PollCancel(Waker) bool {
	return true
}
