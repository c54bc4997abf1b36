// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package join

import (
	"code.hybscloud.com/atomix"
)

// wakeSet is the per-group wake dispatch table: one pending-wake bit per slot
// index, packed into atomic words. A set bit means the slot must be polled on
// the next driver step. Setting an already-set bit is a no-op, which bounds
// driver work to O(1) per wake event: cleared slots are never rescanned.
//
// The set/clear pair is safe against wakes delivered concurrently with a
// drain: set publishes with a fetch-Or, drain claims a whole word with
// Swap(0). A wake that loses the race to the swap lands in the fresh word and
// re-wakes the parent, so it is observed on the following step. Because set is
// always a read-modify-write, the drain that consumes a bit also observes
// everything the waking goroutine published before calling Wake.
type wakeSet struct {
	words  []atomix.Uint64
	parent atomix.Pointer[Waker]
	cached Waker
}

// init sizes the table for n slots with every bit set, so the first driver
// pass polls each slot once: a newly joined operation has never been polled.
func (s *wakeSet) init(n int) {
	s.words = make([]atomix.Uint64, (n+63)/64)
	for i := range s.words {
		remaining := n - i<<6
		if remaining >= 64 {
			s.words[i].Store(^uint64(0))
		} else {
			s.words[i].Store(uint64(1)<<remaining - 1)
		}
	}
}

// set marks slot i due and reports whether the bit transitioned from clear.
// The Or runs even when the bit is already set: a plain load here would let a
// wake coalesce without any synchronizing write, and the operation state the
// waker published could be invisible to the poll that consumes the bit.
func (s *wakeSet) set(i int) bool {
	bit := uint64(1) << (i & 63)
	return s.words[i>>6].Or(bit)&bit == 0
}

// drain claims and clears the word at index wi, returning its due bits.
func (s *wakeSet) drain(wi int) uint64 {
	return s.words[wi].Swap(0)
}

// publish records the executor waker that slot wakes forward to. The boxed
// waker is reused while the executor keeps passing the same token, so a
// stable executor pays one allocation per group.
func (s *wakeSet) publish(w Waker) {
	if s.cached == w {
		return
	}
	s.cached = w
	pw := w
	s.parent.Store(&pw)
}

// wakeParent forwards a slot wake to the executor. Before the first poll no
// parent is published; the bit alone suffices then, since every bit starts
// set and the executor has not suspended yet.
func (s *wakeSet) wakeParent() {
	if p := s.parent.Load(); p != nil {
		(*p).Wake()
	}
}

// slotWaker is the wake-registration token handed to one slot's operation.
// Wake marks the slot due and forwards to the executor only on the clear→set
// transition; repeated wakes before the next drain coalesce into one poll.
type slotWaker struct {
	set   *wakeSet
	index int
}

func (w *slotWaker) Wake() {
	if w.set.set(w.index) {
		w.set.wakeParent()
	}
}
