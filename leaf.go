// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package join

import (
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/lfq"
)

// timerOp completes when the runtime timer fires, delivering a real
// cross-goroutine wake to whichever token was most recently polled with.
type timerOp struct {
	d     time.Duration
	timer *time.Timer
	waker atomix.Pointer[Waker]
	fired atomix.Uint32
	at    time.Time
}

// After returns an operation that completes with the fire time once d has
// elapsed, measured from the first poll.
func After(d time.Duration) Op[time.Time] {
	return &timerOp{d: d}
}

func (t *timerOp) PollReady(w Waker) (time.Time, bool) {
	if t.fired.Load() != 0 {
		return t.at, true
	}
	pw := w
	t.waker.Store(&pw)
	if t.timer == nil {
		t.timer = time.AfterFunc(t.d, func() {
			t.at = time.Now()
			t.fired.Store(1)
			if p := t.waker.Load(); p != nil {
				(*p).Wake()
			}
		})
		return time.Time{}, false
	}
	// Re-check after publishing the token: the callback stores fired before
	// loading the waker, so one of the two sides always observes the other.
	if t.fired.Load() != 0 {
		return t.at, true
	}
	return time.Time{}, false
}

func (t *timerOp) PollCancel(Waker) bool {
	if t.timer != nil {
		t.timer.Stop()
	}
	// Fired, stopped, or never armed: no in-flight effect remains either way.
	return true
}

// queueRecvOp completes with the next element dequeued from a bounded
// lock-free queue. The dequeue is non-blocking; an empty queue re-arms by
// self-wake, the same wouldblock-and-retry discipline as the queue's own
// producer/consumer loops.
type queueRecvOp[T any] struct {
	q *lfq.SPSC[T]
}

// QueueRecv returns an operation that completes with the next element from
// q. The caller must be the queue's only consumer while the operation runs.
func QueueRecv[T any](q *lfq.SPSC[T]) Op[T] {
	return queueRecvOp[T]{q: q}
}

func (o queueRecvOp[T]) PollReady(w Waker) (T, bool) {
	v, err := o.q.Dequeue()
	if err == nil {
		return v, true
	}
	if !iox.IsWouldBlock(err) {
		panic("join: queue dequeue returned a non-wouldblock error")
	}
	w.Wake()
	var zero T
	return zero, false
}

func (o queueRecvOp[T]) PollCancel(Waker) bool {
	return true
}

// queueSendOp completes once its element is enqueued. The element is held in
// the operation so the enqueue pointer stays stable across retries.
type queueSendOp[T any] struct {
	q *lfq.SPSC[T]
	v T
}

// QueueSend returns an operation that completes once v is enqueued on q.
// The caller must be the queue's only producer while the operation runs.
// Until the enqueue succeeds nothing is in flight, so cancellation is
// immediate.
func QueueSend[T any](q *lfq.SPSC[T], v T) Op[struct{}] {
	return &queueSendOp[T]{q: q, v: v}
}

func (o *queueSendOp[T]) PollReady(w Waker) (struct{}, bool) {
	err := o.q.Enqueue(&o.v)
	if err == nil {
		return struct{}{}, true
	}
	if !iox.IsWouldBlock(err) {
		panic("join: queue enqueue returned a non-wouldblock error")
	}
	w.Wake()
	return struct{}{}, false
}

func (o *queueSendOp[T]) PollCancel(Waker) bool {
	return true
}
