// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package join provides join and race combinators for completion operations:
// asynchronous units of work that, once started, must be driven to a terminal
// state instead of being discarded mid-flight.
//
// A completion operation differs from a cancel-by-discard task in that it may
// hold an in-flight external effect (a kernel I/O buffer, a queue slot) that
// must be quiesced through a cooperative handshake before the operation can be
// dropped. The [Op] contract therefore has two poll entry points: PollReady
// advances toward the natural result, PollCancel drives cooperative teardown.
//
// # Architecture
//
//   - Contract: [Op] is a single-step readiness/cancel poll pair. Pending
//     operations arrange exactly one future wake for the supplied [Waker].
//   - Dispatch: each join group keeps a per-slot pending-wake bitset on
//     [code.hybscloud.com/atomix] words, so a wake costs O(1) driver work
//     regardless of group arity; only signaled slots are re-polled.
//   - Shutdown: losing legs of race-style joins transition
//     Running → CancelRequested → Cancelled; a group yields its result only
//     after every slot is terminal.
//   - Leaves: non-blocking queue legs on [code.hybscloud.com/lfq] return
//     pending at the [code.hybscloud.com/iox.ErrWouldBlock] boundary.
//
// # API Topologies
//
//   - Collections: [Zip], [TryZip], [Race], [RaceOk] over a variadic group of
//     same-typed operations. Success/error classification for TryZip/RaceOk is
//     a [code.hybscloud.com/kont.Either]-valued hook.
//   - Fixed arity: [Zip2], [Zip3], [TryZip2], [TryZip3], [RaceOk2] for
//     heterogeneous result types.
//   - Adapters: [MustComplete], [NowOrNever], [Catch], [Func].
//   - Leaves: [Ready], [Never], [After], [QueueRecv], [QueueSend].
//
// # Integration
//
//   - Stepping: every combinator is itself an [Op]; an external executor
//     drives it one PollReady per wake delivery, making groups nestable and
//     easy to hang off a proactor loop.
//   - Blocking: [Block] and [BlockCancel] wait past poll boundaries on the
//     calling goroutine using adaptive backoff, without spawning goroutines
//     or creating channels.
//
// # Example
//
//	short := join.After(10 * time.Millisecond)
//	long := join.After(time.Second)
//	t := join.Block(join.Race(short, long))
//	// t is the short timer's fire time; the long timer was cancelled.
package join
