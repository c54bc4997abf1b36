// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package join

import (
	"code.hybscloud.com/kont"
)

// Zip waits for every operation to finish and yields all outputs in
// construction order, regardless of completion order. No leg ever loses, so
// no leg is cancelled by the policy. A zero-arity Zip completes immediately
// with an empty slice.
func Zip[T any](ops ...Op[T]) Op[[]T] {
	return &zipOp[T]{g: newGroup(eraseAll(ops), policyZip, nil)}
}

type zipOp[T any] struct {
	g *group
}

func (z *zipOp[T]) PollReady(w Waker) ([]T, bool) {
	if !z.g.step(w) {
		return nil, false
	}
	outs := make([]T, len(z.g.slots))
	for i := range z.g.slots {
		outs[i] = unerase[T](z.g.slots[i].out)
	}
	return outs, true
}

func (z *zipOp[T]) PollCancel(w Waker) bool {
	return z.g.cancel(w)
}

// TryZip waits for every operation to finish, classifying each output as a
// success or an error via the supplied hook. All successes yield
// Right(outputs in construction order). The first classified error triggers
// fail-fast completion: every still-running leg is cancelled the instant the
// error is observed, driven to Cancelled, and the group yields Left(error).
func TryZip[E, V, T any](classify func(T) kont.Either[E, V], ops ...Op[T]) Op[kont.Either[E, []V]] {
	return &tryZipOp[E, V]{g: newGroup(eraseAll(ops), policyTryZip, eraseClassify[E, V, T](classify))}
}

type tryZipOp[E, V any] struct {
	g *group
}

func (z *tryZipOp[E, V]) PollReady(w Waker) (kont.Either[E, []V], bool) {
	if !z.g.step(w) {
		var zero kont.Either[E, []V]
		return zero, false
	}
	if z.g.triggered {
		return kont.Left[E, []V](unerase[E](z.g.errVal)), true
	}
	outs := make([]V, len(z.g.slots))
	for i := range z.g.slots {
		outs[i] = unerase[V](z.g.slots[i].out)
	}
	return kont.Right[E, []V](outs), true
}

func (z *tryZipOp[E, V]) PollCancel(w Waker) bool {
	return z.g.cancel(w)
}

// eraseClassify lifts a typed classification hook to the group's erased
// classifier. Index-independent: collection groups are homogeneous.
func eraseClassify[E, V, T any](classify func(T) kont.Either[E, V]) classifier {
	return func(_ int, out any) (any, any, bool) {
		e := classify(out.(T))
		if l, ok := e.GetLeft(); ok {
			return nil, l, true
		}
		r, _ := e.GetRight()
		return r, nil, false
	}
}
