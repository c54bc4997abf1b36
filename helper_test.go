// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package join_test

import (
	"code.hybscloud.com/join"
	"code.hybscloud.com/kont"
)

// stepWaker records wake deliveries from a group under manual stepping.
type stepWaker struct {
	woken int
}

func (w *stepWaker) Wake() {
	w.woken++
}

// manualOp is a hand-driven completion operation: the test decides when it
// finishes or acknowledges cancellation, and observes every poll and the
// last registered wake token. Used to exercise the driver deterministically.
type manualOp[T any] struct {
	out             T
	done            bool
	acceptCancel    bool
	cancelRequested bool
	cancelled       bool
	readyPolls      int
	cancelPolls     int
	waker           join.Waker
}

func (m *manualOp[T]) PollReady(w join.Waker) (T, bool) {
	m.readyPolls++
	m.waker = w
	if m.done {
		return m.out, true
	}
	var zero T
	return zero, false
}

func (m *manualOp[T]) PollCancel(w join.Waker) bool {
	m.cancelPolls++
	m.cancelRequested = true
	m.waker = w
	if m.done || m.acceptCancel {
		m.cancelled = true
		return true
	}
	return false
}

// complete marks the operation finished and delivers its wake.
func (m *manualOp[T]) complete(v T) {
	m.out = v
	m.done = true
	if m.waker != nil {
		m.waker.Wake()
	}
}

// allowCancel lets the next cancel poll acknowledge, and delivers a wake so
// the driver comes back for it.
func (m *manualOp[T]) allowCancel() {
	m.acceptCancel = true
	if m.waker != nil {
		m.waker.Wake()
	}
}

// identity classification: legs already carry their Either shape.
func classifyEither[E, V any](e kont.Either[E, V]) kont.Either[E, V] {
	return e
}

// left and right abbreviate test-side Either construction.
func left[E, V any](e E) kont.Either[E, V] {
	return kont.Left[E, V](e)
}

func right[E, V any](v V) kont.Either[E, V] {
	return kont.Right[E, V](v)
}
