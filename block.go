// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package join

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
)

// parkWaker is the blocking executor's wake token: a single atomic flag set
// on delivery, consumed before each re-poll. Repeated wakes coalesce.
type parkWaker struct {
	flag atomix.Uint32
}

func (p *parkWaker) Wake() {
	p.flag.Store(1)
}

// Block runs op to completion on the calling goroutine and returns its
// output. Waits past pending polls using adaptive backoff (iox.Backoff),
// without spawning goroutines or creating channels. Self-waking operations
// (busy sources such as [Func] and the queue leaves) are re-polled under the
// same backoff instead of spinning hot.
func Block[T any](op Op[T]) T {
	var pk parkWaker
	var bo iox.Backoff
	for {
		v, ok := op.PollReady(&pk)
		if ok {
			return v
		}
		if pk.flag.Swap(0) != 0 {
			// Woken during the poll itself: immediate retry requested.
			bo.Wait()
			continue
		}
		for pk.flag.Swap(0) == 0 {
			bo.Wait()
		}
		bo.Reset()
	}
}

// BlockCancel drives op's cooperative cancellation to completion on the
// calling goroutine, waiting with adaptive backoff exactly as [Block] does.
// On return the operation has quiesced and may be discarded.
func BlockCancel[T any](op Op[T]) {
	var pk parkWaker
	var bo iox.Backoff
	for {
		if op.PollCancel(&pk) {
			return
		}
		if pk.flag.Swap(0) != 0 {
			bo.Wait()
			continue
		}
		for pk.flag.Swap(0) == 0 {
			bo.Wait()
		}
		bo.Reset()
	}
}
