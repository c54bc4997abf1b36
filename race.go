// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package join

import (
	"code.hybscloud.com/kont"
)

// Race yields the output of the first operation to finish. Every other
// running leg is cancelled immediately and driven to Cancelled before the
// group yields. Legs becoming ready in the same driver step tie-break toward
// the lowest construction index. Racing nothing would never complete, so a
// zero-arity Race panics.
func Race[T any](ops ...Op[T]) Op[T] {
	if len(ops) == 0 {
		panic("join: race of no operations")
	}
	return &raceOp[T]{g: newGroup(eraseAll(ops), policyRace, nil)}
}

type raceOp[T any] struct {
	g *group
}

func (r *raceOp[T]) PollReady(w Waker) (T, bool) {
	if !r.g.step(w) {
		var zero T
		return zero, false
	}
	return unerase[T](r.g.slots[r.g.winner].out), true
}

func (r *raceOp[T]) PollCancel(w Waker) bool {
	return r.g.cancel(w)
}

// RaceOk yields Right(value) of the first operation whose output classifies
// as a success, cancelling the remaining running legs. Legs that finish with
// an error are left to rest naturally: if every leg errors, the group yields
// Left(all errors in construction order). A zero-arity RaceOk panics.
func RaceOk[E, V, T any](classify func(T) kont.Either[E, V], ops ...Op[T]) Op[kont.Either[[]E, V]] {
	if len(ops) == 0 {
		panic("join: race of no operations")
	}
	return &raceOkOp[E, V]{g: newGroup(eraseAll(ops), policyRaceOk, eraseClassify[E, V, T](classify))}
}

type raceOkOp[E, V any] struct {
	g *group
}

func (r *raceOkOp[E, V]) PollReady(w Waker) (kont.Either[[]E, V], bool) {
	if !r.g.step(w) {
		var zero kont.Either[[]E, V]
		return zero, false
	}
	if r.g.triggered {
		return kont.Right[[]E, V](unerase[V](r.g.slots[r.g.winner].out)), true
	}
	errs := make([]E, len(r.g.slots))
	for i := range r.g.slots {
		errs[i] = unerase[E](r.g.slots[i].out)
	}
	return kont.Left[[]E, V](errs), true
}

func (r *raceOkOp[E, V]) PollCancel(w Waker) bool {
	return r.g.cancel(w)
}
