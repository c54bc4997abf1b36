// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package join_test

import (
	"testing"
	"time"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/join"
	"code.hybscloud.com/lfq"
)

func TestQueueSendRecvRoundTrip(t *testing.T) {
	skipRace(t)
	q := lfq.NewSPSC[int](4)

	done := make(chan struct{})
	go func() {
		for i := range 8 {
			join.Block(join.QueueSend(q, i))
		}
		close(done)
	}()

	for i := range 8 {
		v := join.Block(join.QueueRecv(q))
		if v != i {
			t.Fatalf("dequeued %d, want %d", v, i)
		}
	}
	<-done
}

func TestQueueZipRecv(t *testing.T) {
	skipRace(t)
	qa := lfq.NewSPSC[int](4)
	qb := lfq.NewSPSC[int](4)

	done := make(chan struct{})
	go func() {
		// Feed the second leg first; zip output order must still follow
		// construction order.
		join.Block(join.QueueSend(qb, 2))
		join.Block(join.QueueSend(qa, 1))
		close(done)
	}()

	outs := join.Block(join.Zip(
		join.QueueRecv(qa),
		join.QueueRecv(qb),
	))
	if outs[0] != 1 || outs[1] != 2 {
		t.Fatalf("zip outputs got %v, want [1 2]", outs)
	}
	<-done
}

func TestQueueRecvPendingOnEmpty(t *testing.T) {
	skipRace(t)
	q := lfq.NewSPSC[int](4)

	// An empty queue is a wouldblock condition, not a contract violation:
	// the leg stays pending and re-arms itself.
	op := join.QueueRecv(q)
	w := &stepWaker{}
	if _, ok := op.PollReady(w); ok {
		t.Fatal("recv on an empty queue completed")
	}
	if w.woken != 1 {
		t.Fatalf("executor woken %d times for a wouldblock dequeue, want 1", w.woken)
	}
}

func TestQueueSendPendingOnFull(t *testing.T) {
	skipRace(t)
	q := lfq.NewSPSC[int](2)
	for {
		v := 0
		if err := q.Enqueue(&v); err != nil {
			break
		}
	}

	op := join.QueueSend(q, 7)
	w := &stepWaker{}
	if _, ok := op.PollReady(w); ok {
		t.Fatal("send on a full queue completed")
	}
	if w.woken != 1 {
		t.Fatalf("executor woken %d times for a wouldblock enqueue, want 1", w.woken)
	}
}

func TestQueueRecvRaceTimeout(t *testing.T) {
	skipRace(t)
	q := lfq.NewSPSC[int](4)

	// Nothing is ever enqueued: the timeout leg wins and the queue leg is
	// cancelled (an unfinished dequeue holds no in-flight effect).
	deadline := time.Now().Add(5 * time.Millisecond)
	timeout := join.Func(func() (int, error) {
		if time.Now().After(deadline) {
			return -1, nil
		}
		return 0, iox.ErrWouldBlock
	})
	v := join.Block(join.Race(join.QueueRecv(q), timeout))
	if v != -1 {
		t.Fatalf("race got %d, want the timeout leg's -1", v)
	}
}
