// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package join_test

import (
	"sync"
	"testing"

	"code.hybscloud.com/join"
)

func TestWakeCoalescing(t *testing.T) {
	a := &manualOp[int]{}
	b := &manualOp[int]{}
	z := join.Zip[int](a, b)

	w := &stepWaker{}
	z.PollReady(w)

	// K wake deliveries to the same slot before the next step collapse into
	// exactly one poll of that slot.
	for range 5 {
		a.waker.Wake()
	}
	z.PollReady(w)
	if a.readyPolls != 2 {
		t.Fatalf("slot polled %d times after 5 coalesced wakes, want 2 total", a.readyPolls)
	}
	if b.readyPolls != 1 {
		t.Fatalf("unsignaled slot polled %d times, want 1", b.readyPolls)
	}
}

func TestWakeOnlySignaledSlotsPolled(t *testing.T) {
	ops := make([]*manualOp[int], 8)
	legs := make([]join.Op[int], 8)
	for i := range ops {
		ops[i] = &manualOp[int]{}
		legs[i] = ops[i]
	}
	z := join.Zip[int](legs...)

	w := &stepWaker{}
	z.PollReady(w)
	ops[3].waker.Wake()
	ops[6].waker.Wake()
	z.PollReady(w)
	for i, op := range ops {
		want := 1
		if i == 3 || i == 6 {
			want = 2
		}
		if op.readyPolls != want {
			t.Fatalf("slot %d polled %d times, want %d", i, op.readyPolls, want)
		}
	}
}

func TestWakeForwardedToExecutor(t *testing.T) {
	a := &manualOp[int]{}
	z := join.Zip[int](a)

	w := &stepWaker{}
	z.PollReady(w)
	if w.woken != 0 {
		t.Fatalf("executor woken %d times before any delivery", w.woken)
	}
	a.waker.Wake()
	a.waker.Wake()
	a.waker.Wake()
	if w.woken != 1 {
		t.Fatalf("executor woken %d times for coalesced deliveries, want 1", w.woken)
	}
}

// chanWaker delivers wake notifications across goroutines.
type chanWaker struct {
	ch chan struct{}
}

func (w *chanWaker) Wake() {
	select {
	case w.ch <- struct{}{}:
	default:
	}
}

func TestWakeConcurrentDeliveryNotLost(t *testing.T) {
	// Wake deliveries racing the driver's drain must either be observed in
	// the current step or leave the flag set for the next one, and the wake
	// itself must order the completing goroutine's writes before the poll
	// that consumes the bit. Each op completes from its own goroutine with
	// no locking of its own; the zip must always terminate with every
	// output intact.
	const arity = 16
	ops := make([]*manualOp[int], arity)
	legs := make([]join.Op[int], arity)
	for i := range ops {
		ops[i] = &manualOp[int]{}
		legs[i] = ops[i]
	}
	z := join.Zip[int](legs...)

	w := &chanWaker{ch: make(chan struct{}, 1)}
	if _, ok := z.PollReady(w); ok {
		t.Fatal("zip completed with all legs pending")
	}

	var wg sync.WaitGroup
	for i := range ops {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ops[i].complete(i)
		}(i)
	}

	for {
		outs, ok := z.PollReady(w)
		if ok {
			for i, v := range outs {
				if v != i {
					t.Fatalf("slot %d output %d, want %d", i, v, i)
				}
			}
			break
		}
		<-w.ch
	}
	wg.Wait()
}
